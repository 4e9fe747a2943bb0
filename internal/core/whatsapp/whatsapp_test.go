package whatsapp

import (
	"net/url"
	"strings"
	"testing"
)

func TestNormalize(t *testing.T) {
	cases := []struct{ in, want string }{
		{"912345678", "351912345678"},
		{"912 345 678", "351912345678"},
		{"+351 912 345 678", "351912345678"},
		{"+5511987654321", "5511987654321"},
		{"212345678", "212345678"},
		{"9123456789", "9123456789"},
		{"", ""},
		{"abc", ""},
	}
	for _, c := range cases {
		if got := Normalize(c.in); got != c.want {
			t.Fatalf("Normalize(%q) got %q want %q", c.in, got, c.want)
		}
	}
}

func TestLink(t *testing.T) {
	got := Link("912345678", "Hi Ana & Bia?")
	if !strings.HasPrefix(got, "https://wa.me/351912345678?text=") {
		t.Fatalf("unexpected prefix: %s", got)
	}
	if strings.Contains(got, "+") {
		t.Fatalf("spaces should be %%20 not +: %s", got)
	}
	u, err := url.Parse(got)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if txt := u.Query().Get("text"); txt != "Hi Ana & Bia?" {
		t.Fatalf("text round trip got %q", txt)
	}

	if Link("", "x") != "" {
		t.Fatalf("no digits should yield empty link")
	}
	if Link("+5511987654321", "") != "https://wa.me/5511987654321" {
		t.Fatalf("empty text should omit query")
	}
}

func TestMessage(t *testing.T) {
	msg := Message(Invite{Giver: "Ana", Drawing: "Office 2026", MaxValue: 25, URL: "https://x/r/1"})
	for _, want := range []string{"Hi Ana!", "*Office 2026*", "https://x/r/1", "25.00"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("message lacks %q:\n%s", want, msg)
		}
	}
	if !strings.Contains(Message(Invite{Giver: "Bia"}), "no limit") {
		t.Fatalf("zero budget should read no limit")
	}
}
