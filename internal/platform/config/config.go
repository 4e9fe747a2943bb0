// Package config reads typed settings from the environment
// invalid values log a warning and fall back to the default instead of failing boot
package config

import (
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"secretsanta/internal/platform/logger"
)

// Conf is a namespaced view over environment variables, eg CORE_API_ or SERVICE_PGSQL_
type Conf struct{ prefix string }

// New creates a root Conf
func New() Conf { return Conf{} }

// Prefix creates a child Conf, cfg.Prefix("CORE_API_") reads CORE_API_PORT for "PORT"
func (c Conf) Prefix(p string) Conf { return Conf{prefix: c.prefix + p} }

func (c Conf) key(k string) string { return c.prefix + k }

func (c Conf) lookup(key string) string { return strings.TrimSpace(os.Getenv(c.key(key))) }

func (c Conf) invalid(key, value string) {
	logger.Get().Warn().Str("key", c.key(key)).Str("value", value).Msg("invalid config value, using default")
}

// MustString panics when key is unset or blank
func (c Conf) MustString(key string) string {
	v := c.lookup(key)
	if v == "" {
		logger.Get().Panic().Str("key", c.key(key)).Msg("missing required env")
	}
	return v
}

// MayString returns the value or def when unset
func (c Conf) MayString(key, def string) string {
	if v := c.lookup(key); v != "" {
		return v
	}
	return def
}

// MayInt returns the value or def when unset or not an int
func (c Conf) MayInt(key string, def int) int {
	s := c.lookup(key)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		c.invalid(key, s)
		return def
	}
	return v
}

// MayBool returns the value or def when unset or not a bool
func (c Conf) MayBool(key string, def bool) bool {
	s := c.lookup(key)
	if s == "" {
		return def
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		c.invalid(key, s)
		return def
	}
	return v
}

// MayDuration returns the value or def when unset or not a duration like 250ms or 2s
func (c Conf) MayDuration(key string, def time.Duration) time.Duration {
	s := c.lookup(key)
	if s == "" {
		return def
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		c.invalid(key, s)
		return def
	}
	return d
}

// MayCSV splits a comma separated value, blanks dropped, def when nothing is left
func (c Conf) MayCSV(key string, def []string) []string {
	var out []string
	for _, p := range strings.Split(c.lookup(key), ",") {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}

// MayPort returns a listen address like ":4000" for a port number in 1..65535
// a value already shaped like an address such as ":8080" or "0.0.0.0:8080" is kept as is
func (c Conf) MayPort(key string, def int) string {
	s := c.lookup(key)
	if strings.Contains(s, ":") {
		return s
	}
	if s == "" {
		return ":" + strconv.Itoa(def)
	}
	p, err := strconv.Atoi(s)
	if err != nil || p < 1 || p > 65535 {
		c.invalid(key, s)
		return ":" + strconv.Itoa(def)
	}
	return ":" + s
}

// MayURL returns an absolute http or https url, def when unset or not absolute
func (c Conf) MayURL(key, def string) string {
	s := c.lookup(key)
	if s == "" {
		return def
	}
	u, err := url.Parse(s)
	if err != nil || !u.IsAbs() || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		c.invalid(key, s)
		return def
	}
	return s
}
