package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"secretsanta/internal/core/matcher"
)

func TestDraw_SeededIsReproducible(t *testing.T) {
	t.Parallel()
	seed := uint64(7)
	req := request{
		Participants: []participant{{ID: "a", Name: "Ana"}, {ID: "b", Name: "Bia"}, {ID: "c", Name: "Caio"}},
		Restrictions: []matcher.Pair{{Giver: "a", Receiver: "b"}},
		Seed:         &seed,
	}
	first, err := draw(req)
	if err != nil {
		t.Fatalf("draw: %v", err)
	}
	second, err := draw(req)
	if err != nil {
		t.Fatalf("draw: %v", err)
	}
	if len(first.Pairs) != 3 {
		t.Fatalf("got %d pairs want 3", len(first.Pairs))
	}
	for i := range first.Pairs {
		if first.Pairs[i] != second.Pairs[i] {
			t.Fatalf("seeded draws differ at %d: %+v vs %+v", i, first.Pairs[i], second.Pairs[i])
		}
		p := first.Pairs[i]
		if p.Giver == p.Receiver || (p.Giver == "a" && p.Receiver == "b") {
			t.Fatalf("invalid pair %+v", p)
		}
		if p.GiverName == "" || p.ReceiverName == "" {
			t.Fatalf("names missing: %+v", p)
		}
	}
}

func TestDraw_ExitCodes(t *testing.T) {
	t.Parallel()
	_, err := draw(request{
		Participants: []participant{{ID: "a"}, {ID: "b"}},
		Restrictions: []matcher.Pair{{Giver: "a", Receiver: "b"}},
		MaxAttempts:  3,
	})
	if !errors.Is(err, matcher.ErrInfeasible) || exitCode(err) != 3 {
		t.Fatalf("got %v code %d", err, exitCode(err))
	}

	_, err = draw(request{
		Participants: []participant{{ID: "a"}, {ID: "b"}, {ID: "c"}},
		Fixations:    map[string]string{"a": "c", "b": "c"},
	})
	if exitCode(err) != 4 {
		t.Fatalf("got %v code %d", err, exitCode(err))
	}

	_, err = draw(request{Participants: []participant{{ID: "a"}}})
	if exitCode(err) != 2 {
		t.Fatalf("got %v code %d", err, exitCode(err))
	}
}

func TestReadRequest_File(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "req.json")
	body := `{"participants":[{"id":"a","name":"Ana"},{"id":"b","name":"Bia"}],"seed":3}`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	req, err := readRequest(path)
	if err != nil {
		t.Fatalf("readRequest: %v", err)
	}
	if len(req.Participants) != 2 || req.Seed == nil || *req.Seed != 3 {
		t.Fatalf("unexpected request: %+v", req)
	}

	bad := filepath.Join(t.TempDir(), "bad.json")
	_ = os.WriteFile(bad, []byte(`{"people":[]}`), 0o600)
	if _, err := readRequest(bad); err == nil {
		t.Fatal("unknown field accepted")
	}
}
