// Package events publishes best-effort domain notifications (comment
// created, report filed, moderation action) to NATS. When no NATS server is
// configured a no-op publisher is used and the service behaves identically.
package events

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"
)

// Event subjects, relative to the configured prefix.
const (
	SubjectCommentCreated = "comment.created"
	SubjectReportCreated  = "report.created"
	SubjectModeration     = "moderation" // suffixed with the action name
)

// Envelope wraps every published payload.
type Envelope struct {
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurredAt"`
	Payload    any       `json:"payload"`
}

// Publisher sends domain events. Implementations must not block request
// handling for long and callers ignore delivery failures after logging them.
type Publisher interface {
	Publish(ctx context.Context, subject string, payload any) error
	Close() error
}

// Noop discards every event.
type Noop struct{}

// Publish implements Publisher.
func (Noop) Publish(context.Context, string, any) error { return nil }

// Close implements Publisher.
func (Noop) Close() error { return nil }

// conn is the subset of *nats.Conn used by NATS.
type conn interface {
	Publish(subj string, data []byte) error
	Close()
}

// NATS publishes core NATS messages (no JetStream; events are advisory).
type NATS struct {
	nc     conn
	prefix string
	now    func() time.Time
}

// Connect dials url and returns a NATS publisher. An empty url, or a failed
// dial, yields Noop so that the service never depends on the broker.
func Connect(url, prefix string) Publisher {
	if strings.TrimSpace(url) == "" {
		return Noop{}
	}
	nc, err := nats.Connect(url,
		nats.Name("dailyquote"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		log.Warn().Err(err).Str("url", url).Msg("nats connect failed, using noop publisher")
		return Noop{}
	}
	return newNATS(nc, prefix)
}

func newNATS(nc conn, prefix string) *NATS {
	return &NATS{nc: nc, prefix: strings.TrimSuffix(prefix, "."), now: time.Now}
}

// Subject joins the configured prefix and subject.
func (p *NATS) Subject(subject string) string {
	if p.prefix == "" {
		return subject
	}
	return p.prefix + "." + subject
}

// Publish implements Publisher.
func (p *NATS) Publish(ctx context.Context, subject string, payload any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(Envelope{Type: subject, OccurredAt: p.now().UTC(), Payload: payload})
	if err != nil {
		return err
	}
	return p.nc.Publish(p.Subject(subject), data)
}

// Close implements Publisher.
func (p *NATS) Close() error {
	p.nc.Close()
	return nil
}
