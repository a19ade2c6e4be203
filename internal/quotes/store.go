// Package quotes holds the immutable quote list and the deterministic daily
// selector built on top of it.
package quotes

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/tbourn/go-daily-quote/internal/domain"
)

// Store is a read-only, ordered view of the quote list. It is safe for
// concurrent use because nothing mutates it after construction.
type Store struct {
	items []domain.Quote
	byID  map[string]int
}

// NewStore builds a Store from qs. When two entries share an id the first one
// wins for ByID lookups; ordering (and thus daily selection) is unchanged.
func NewStore(qs []domain.Quote) *Store {
	s := &Store{
		items: make([]domain.Quote, len(qs)),
		byID:  make(map[string]int, len(qs)),
	}
	copy(s.items, qs)
	for i, q := range s.items {
		if _, dup := s.byID[q.ID]; !dup {
			s.byID[q.ID] = i
		}
	}
	return s
}

// Len returns the number of quotes.
func (s *Store) Len() int {
	if s == nil {
		return 0
	}
	return len(s.items)
}

// At returns the quote at index i.
func (s *Store) At(i int) (domain.Quote, bool) {
	if s == nil || i < 0 || i >= len(s.items) {
		return domain.Quote{}, false
	}
	return s.items[i], true
}

// ByID looks a quote up by its content address.
func (s *Store) ByID(id string) (domain.Quote, bool) {
	if s == nil {
		return domain.Quote{}, false
	}
	i, ok := s.byID[id]
	if !ok {
		return domain.Quote{}, false
	}
	return s.items[i], true
}

// Parse validates data against the quote list schema and decodes it.
func Parse(data []byte) (*Store, error) {
	if err := validate(data); err != nil {
		return nil, err
	}
	var qs []domain.Quote
	if err := json.Unmarshal(data, &qs); err != nil {
		return nil, fmt.Errorf("decode quotes: %w", err)
	}
	return NewStore(qs), nil
}

// Loader reads the quote list from a filesystem path or an s3://bucket/key
// URL.
type Loader struct {
	// S3 is used for s3:// sources. When nil a client is built from the
	// default AWS configuration on first use.
	S3 ObjectGetter
}

// Load reads, validates and decodes the quote list at source.
func (l *Loader) Load(ctx context.Context, source string) (*Store, error) {
	var (
		data []byte
		err  error
	)
	if strings.HasPrefix(source, "s3://") {
		data, err = l.readS3(ctx, source)
	} else {
		data, err = os.ReadFile(source)
	}
	if err != nil {
		return nil, fmt.Errorf("read quotes %q: %w", source, err)
	}
	return Parse(data)
}

// Load is a convenience wrapper around a zero Loader.
func Load(ctx context.Context, source string) (*Store, error) {
	return (&Loader{}).Load(ctx, source)
}
