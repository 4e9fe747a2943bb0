// Package notify fans private result links out to draw participants
package notify

import (
	"context"
	"errors"
	"time"

	"github.com/sourcegraph/conc/pool"

	"secretsanta/internal/platform/logger"
)

// DefaultConcurrency bounds in flight sends when none is configured
const DefaultConcurrency = 4

// Message is one notification to one participant
type Message struct {
	To   string
	Name string
	Text string
	Link string
}

// Outcome reports what happened to one Message
type Outcome struct {
	Name  string `json:"name"`
	To    string `json:"to"`
	Link  string `json:"link,omitempty"`
	Sent  bool   `json:"sent"`
	Error string `json:"error,omitempty"`
}

// Sender delivers a single message
type Sender interface {
	Send(ctx context.Context, m Message) error
}

// SenderFunc adapts a function to Sender
type SenderFunc func(ctx context.Context, m Message) error

// Send calls f
func (f SenderFunc) Send(ctx context.Context, m Message) error { return f(ctx, m) }

// LogSender records each message on the log instead of delivering it
// the organizer forwards the WhatsApp link by hand
type LogSender struct{ log *logger.Logger }

// NewLogSender returns a LogSender on the notify component logger
func NewLogSender() LogSender { return LogSender{log: logger.Named("notify")} }

// Send implements Sender
func (s LogSender) Send(ctx context.Context, m Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if m.To == "" {
		return errors.New("notify: empty recipient")
	}
	l := s.log
	if l == nil {
		l = logger.Named("notify")
	}
	l.Info().Str("name", m.Name).Str("to", mask(m.To)).Str("link", m.Link).Msg("result link ready")
	return nil
}

// Dispatcher sends messages concurrently with a bound
type Dispatcher struct {
	sender  Sender
	limit   int
	timeout time.Duration
}

// New builds a Dispatcher, a nil sender logs and limit <= 0 uses DefaultConcurrency
func New(s Sender, limit int) *Dispatcher {
	if s == nil {
		s = NewLogSender()
	}
	if limit <= 0 {
		limit = DefaultConcurrency
	}
	return &Dispatcher{sender: s, limit: limit, timeout: 10 * time.Second}
}

// Concurrency returns the send bound
func (d *Dispatcher) Concurrency() int { return d.limit }

// Dispatch sends every message and returns one Outcome per message in input order
// a failed send never stops the others
func (d *Dispatcher) Dispatch(ctx context.Context, msgs []Message) []Outcome {
	out := make([]Outcome, len(msgs))
	if len(msgs) == 0 {
		return out
	}
	p := pool.New().WithMaxGoroutines(d.limit)
	for i, m := range msgs {
		p.Go(func() {
			out[i] = d.send(ctx, m)
		})
	}
	p.Wait()
	return out
}

func (d *Dispatcher) send(ctx context.Context, m Message) Outcome {
	o := Outcome{Name: m.Name, To: m.To, Link: m.Link}
	sctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()
	if err := sctx.Err(); err != nil {
		o.Error = err.Error()
		return o
	}
	if err := d.sender.Send(sctx, m); err != nil {
		o.Error = err.Error()
		return o
	}
	o.Sent = true
	return o
}

// mask keeps the last three digits of a phone number
func mask(phone string) string {
	if len(phone) <= 3 {
		return phone
	}
	b := []byte(phone)
	for i := 0; i < len(b)-3; i++ {
		if b[i] >= '0' && b[i] <= '9' {
			b[i] = '*'
		}
	}
	return string(b)
}
