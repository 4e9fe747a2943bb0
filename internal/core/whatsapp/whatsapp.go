// Package whatsapp builds click to chat links that hand each giver their private result link
package whatsapp

import (
	"fmt"
	"net/url"
	"strings"
)

const base = "https://wa.me/"

// DefaultCountryCode is prefixed to local mobile numbers, nine digits starting with 9
const DefaultCountryCode = "351"

// Digits strips everything but ASCII digits
func Digits(phone string) string {
	var b strings.Builder
	b.Grow(len(phone))
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Normalize returns the international digits wa.me expects
func Normalize(phone string) string {
	d := Digits(phone)
	if len(d) == 9 && d[0] == '9' {
		return DefaultCountryCode + d
	}
	return d
}

// Link returns a wa.me link for phone prefilled with text
// empty when phone has no digits
func Link(phone, text string) string {
	n := Normalize(phone)
	if n == "" {
		return ""
	}
	if text == "" {
		return base + n
	}
	// wa.me wants %20, QueryEscape emits +
	return base + n + "?text=" + strings.ReplaceAll(url.QueryEscape(text), "+", "%20")
}

// Invite is what a giver is told about their draw
type Invite struct {
	Giver    string
	Drawing  string
	MaxValue float64
	URL      string
}

// Message renders the invite text
func Message(in Invite) string {
	budget := "no limit"
	if in.MaxValue > 0 {
		budget = fmt.Sprintf("%.2f", in.MaxValue)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s!\n\n", in.Giver)
	fmt.Fprintf(&b, "The Secret Santa draw for *%s* is done.\n", in.Drawing)
	fmt.Fprintf(&b, "Open your private link to see who you got:\n%s\n\n", in.URL)
	fmt.Fprintf(&b, "Gift budget: %s", budget)
	return b.String()
}
