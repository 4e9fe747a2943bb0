// Command santa-draw runs one draw offline
//
//	santa-draw -in request.json
//	cat request.json | santa-draw -seed 7
//
// the request carries participants, restrictions, fixations and an optional seed
// pairs are printed to stdout as JSON, failures exit non zero
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"

	"secretsanta/internal/core/matcher"
	"secretsanta/internal/platform/logger"
)

type participant struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Contact string `json:"contact,omitempty"`
}

type request struct {
	Participants []participant     `json:"participants"`
	Restrictions []matcher.Pair    `json:"restrictions"`
	Fixations    map[string]string `json:"fixations"`
	Seed         *uint64           `json:"seed,omitempty"`
	MaxAttempts  int               `json:"max_attempts,omitempty"`
	NoFallback   bool              `json:"no_fallback,omitempty"`
}

type pair struct {
	Giver        string `json:"giver"`
	GiverName    string `json:"giver_name,omitempty"`
	Receiver     string `json:"receiver"`
	ReceiverName string `json:"receiver_name,omitempty"`
}

type response struct {
	Pairs    []pair `json:"pairs"`
	Attempts int    `json:"attempts"`
	Strategy string `json:"strategy"`
}

func main() {
	_ = godotenv.Load()

	var (
		fIn     = flag.String("in", "-", "request file, - reads stdin")
		fSeed   = flag.Int64("seed", -1, "seed for a reproducible draw, overrides the request seed")
		fPretty = flag.Bool("pretty", true, "indent the output")
	)
	flag.Parse()

	l := logger.Named("santa-draw")

	req, err := readRequest(*fIn)
	if err != nil {
		l.Error().Err(err).Str("in", *fIn).Msg("read request")
		os.Exit(2)
	}
	if *fSeed >= 0 {
		s := uint64(*fSeed)
		req.Seed = &s
	}

	out, err := draw(req)
	if err != nil {
		l.Error().Err(err).Msg("draw failed")
		os.Exit(exitCode(err))
	}

	enc := json.NewEncoder(os.Stdout)
	if *fPretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(out); err != nil {
		l.Error().Err(err).Msg("write response")
		os.Exit(1)
	}
}

func readRequest(path string) (request, error) {
	var r io.Reader = os.Stdin
	if path != "-" && path != "" {
		f, err := os.Open(path)
		if err != nil {
			return request{}, err
		}
		defer func() { _ = f.Close() }()
		r = f
	}
	var req request
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return request{}, fmt.Errorf("decode request: %w", err)
	}
	return req, nil
}

func draw(req request) (response, error) {
	in := matcher.Input{
		Participants: make([]matcher.Participant, 0, len(req.Participants)),
		Restrictions: req.Restrictions,
		Fixations:    req.Fixations,
	}
	names := make(map[string]string, len(req.Participants))
	for _, p := range req.Participants {
		in.Participants = append(in.Participants, matcher.Participant{ID: p.ID, Name: p.Name, Contact: p.Contact})
		names[p.ID] = p.Name
	}

	opts := []matcher.Option{matcher.WithMaxAttempts(req.MaxAttempts)}
	if req.Seed != nil {
		opts = append(opts, matcher.WithSource(matcher.NewSource(*req.Seed)))
	}
	if req.NoFallback {
		opts = append(opts, matcher.WithoutFallback())
	}

	a, err := matcher.Match(in, opts...)
	if err != nil {
		return response{}, err
	}
	out := response{Pairs: make([]pair, 0, len(a.Pairs)), Attempts: a.Attempts, Strategy: string(a.Strategy)}
	for _, p := range a.Pairs {
		out.Pairs = append(out.Pairs, pair{
			Giver:        p.Giver,
			GiverName:    names[p.Giver],
			Receiver:     p.Receiver,
			ReceiverName: names[p.Receiver],
		})
	}
	return out, nil
}

// exitCode separates bad input from draws that could not be satisfied
func exitCode(err error) int {
	switch {
	case errors.Is(err, matcher.ErrInfeasible):
		return 3
	case errors.Is(err, matcher.ErrConflictingConstraint):
		return 4
	}
	return 2
}
