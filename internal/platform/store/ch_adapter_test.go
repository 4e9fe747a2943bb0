package store

import (
	"context"
	"testing"

	"secretsanta/internal/platform/store/ch"
)

func TestCHAdapter_NotConnected(t *testing.T) {
	t.Parallel()
	a := newCHAdapter(&ch.CH{})
	if _, err := a.Query(context.Background(), "SELECT 1"); err == nil {
		t.Fatal("query on an unconnected client should fail")
	}
	if err := a.Insert(context.Background(), "draw_events", [][]any{{1}}); err == nil {
		t.Fatal("insert on an unconnected client should fail")
	}
	if err := a.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, ok := a.(Pinger); !ok {
		t.Fatal("adapter should be a Pinger for Guard")
	}
}
