package services

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"time"
)

// Cursor is a keyset position in the admin listing: the (created_at, id) of
// the last row of the previous page.
type Cursor struct {
	T  time.Time
	ID string
}

type cursorWire struct {
	T  int64  `json:"t"`
	ID string `json:"id"`
}

// Encode returns the opaque base64url(JSON) form handed to clients.
func (c Cursor) Encode() string {
	b, _ := json.Marshal(cursorWire{T: c.T.UnixMilli(), ID: c.ID})
	return base64.RawURLEncoding.EncodeToString(b)
}

// DecodeCursor parses a value produced by Encode. Padded input is accepted.
// ok is false for anything malformed, which callers treat as "no cursor".
func DecodeCursor(s string) (Cursor, bool) {
	s = strings.TrimRight(strings.TrimSpace(s), "=")
	if s == "" {
		return Cursor{}, false
	}
	b, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return Cursor{}, false
	}
	var w cursorWire
	if err := json.Unmarshal(b, &w); err != nil || w.ID == "" || w.T <= 0 {
		return Cursor{}, false
	}
	return Cursor{T: time.UnixMilli(w.T).UTC(), ID: w.ID}, true
}
