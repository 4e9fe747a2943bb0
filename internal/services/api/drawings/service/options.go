package service

import (
	"time"

	"secretsanta/internal/core/matcher"
	"secretsanta/internal/platform/config"
	"secretsanta/internal/platform/lease"
	"secretsanta/internal/services/api/drawings/domain"
)

// Config tunes draws and the links handed to participants
type Config struct {
	PublicURL   string
	MaxAttempts int
	Fallback    bool
	LockTTL     time.Duration
}

// DefaultConfig returns the settings used when nothing is configured
func DefaultConfig() Config {
	return Config{
		PublicURL:   "http://localhost:4000",
		MaxAttempts: matcher.DefaultMaxAttempts,
		Fallback:    true,
		LockTTL:     30 * time.Second,
	}
}

// ConfigFrom reads CORE_API_ style keys from c
func ConfigFrom(c config.Conf) Config {
	d := DefaultConfig()
	return Config{
		PublicURL:   c.MayURL("PUBLIC_URL", d.PublicURL),
		MaxAttempts: c.MayInt("DRAW_MAX_ATTEMPTS", d.MaxAttempts),
		Fallback:    c.MayBool("DRAW_FALLBACK", d.Fallback),
		LockTTL:     c.MayDuration("DRAW_LOCK_TTL", d.LockTTL),
	}
}

// Option customizes a Svc
type Option func(*Svc)

// WithConfig replaces the draw settings
func WithConfig(c Config) Option { return func(s *Svc) { s.cfg = c } }

// WithLocker sets the lease shared by draws and constraint edits
func WithLocker(l lease.Locker) Option { return func(s *Svc) { s.locks = l } }

// WithRecorder sets the audit recorder
func WithRecorder(r domain.Recorder) Option { return func(s *Svc) { s.audit = r } }

// WithNotifier sets the notification fan out
func WithNotifier(n domain.Notifier) Option { return func(s *Svc) { s.notifier = n } }

// WithSource pins the matcher randomness, tests use a seeded source
func WithSource(src matcher.Source) Option { return func(s *Svc) { s.src = src } }

// WithClock overrides time.Now
func WithClock(now func() time.Time) Option { return func(s *Svc) { s.now = now } }

// WithTokens overrides token generation
func WithTokens(fn func() (string, error)) Option { return func(s *Svc) { s.newToken = fn } }
