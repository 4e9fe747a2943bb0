package http

import (
	"context"
	"encoding/json"
	stdhttp "net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	phttp "secretsanta/internal/platform/net/http"
	"secretsanta/internal/services/audit/domain"
)

type fakeSvc struct{ got domain.SummaryInput }

func (f *fakeSvc) RecordDraw(context.Context, domain.DrawEvent) error { return nil }

func (f *fakeSvc) Summary(_ context.Context, in domain.SummaryInput) (domain.Summary, error) {
	f.got = in
	return domain.Summary{Enabled: true, Days: in.Days, Outcomes: []domain.OutcomeCount{{Outcome: "ok", Draws: 1}}}, nil
}

func serve(t *testing.T, s *fakeSvc, target string) *httptest.ResponseRecorder {
	t.Helper()
	r := phttp.AdaptChi(chi.NewRouter())
	Register(r, s)
	rec := httptest.NewRecorder()
	r.Mux().ServeHTTP(rec, httptest.NewRequest(stdhttp.MethodGet, target, nil))
	return rec
}

func TestSummary_OK(t *testing.T) {
	t.Parallel()
	s := &fakeSvc{}
	rec := serve(t, s, "/summary?days=14")
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}
	if s.got.Days != 14 {
		t.Fatalf("days not parsed: %+v", s.got)
	}
	var env struct {
		Data domain.Summary `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(env.Data.Outcomes) != 1 || env.Data.Outcomes[0].Outcome != "ok" {
		t.Fatalf("unexpected payload: %+v", env.Data)
	}
}

func TestSummary_BadDays(t *testing.T) {
	t.Parallel()
	for _, q := range []string{"0", "400", "x"} {
		rec := serve(t, &fakeSvc{}, "/summary?days="+q)
		if rec.Code != stdhttp.StatusBadRequest {
			t.Fatalf("days=%s status = %d", q, rec.Code)
		}
	}
}
