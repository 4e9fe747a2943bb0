package middleware_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	perr "secretsanta/internal/platform/errors"
	"secretsanta/internal/platform/logger"
	pnet "secretsanta/internal/platform/net"
	"secretsanta/internal/platform/net/middleware"
	kit "secretsanta/internal/platform/testkit"

	"github.com/go-chi/chi/v5"
)

type portFunc func(r *http.Request) (string, error)

func (f portFunc) Parse(r *http.Request) (string, error) { return f(r) }

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func TestAuth(t *testing.T) {
	var seen string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = pnet.Bearer(r.Context())
	})
	port := portFunc(func(r *http.Request) (string, error) {
		if r.Header.Get("Authorization") == "" {
			return "", perr.Unauthorizedf("missing bearer token")
		}
		return "tok-1", nil
	})

	rec := httptest.NewRecorder()
	middleware.Auth(port, writeJSON)(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/drawings/d1", nil))
	if rec.Code != http.StatusUnauthorized || seen != "" {
		t.Fatalf("rejected: %d seen=%q", rec.Code, seen)
	}
	kit.MustContain(t, rec.Body.String(), "missing bearer token")

	req := httptest.NewRequest(http.MethodGet, "/drawings/d1", nil)
	req.Header.Set("Authorization", "Bearer x")
	middleware.Auth(port, writeJSON)(next).ServeHTTP(httptest.NewRecorder(), req)
	if seen != "tok-1" {
		t.Fatalf("bearer on ctx = %q", seen)
	}

	seen = "unset"
	middleware.Auth(nil, writeJSON)(next).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if seen != "" {
		t.Fatalf("nil port should pass through without a bearer, got %q", seen)
	}
}

func TestAccessLog(t *testing.T) {
	var buf bytes.Buffer
	base := logger.New(logger.Options{Level: "debug", Format: "json", Writer: &buf})

	r := chi.NewRouter()
	r.Use(middleware.AccessLog(time.Hour))
	r.Get("/drawings/{id}/results", func(w http.ResponseWriter, r *http.Request) {
		logger.C(r.Context()).Info().Msg("inside")
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, "ok")
	})

	req := httptest.NewRequest(http.MethodGet, "/drawings/d1/results?token=secret", nil)
	ctx := pnet.WithRequestID(base.WithContext(req.Context()), "rid-9")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req.WithContext(ctx))

	if rec.Code != http.StatusCreated || rec.Body.String() != "ok" {
		t.Fatalf("response = %d %q", rec.Code, rec.Body.String())
	}
	out := buf.String()
	kit.MustContain(t, out, `"request_id":"rid-9"`)
	kit.MustContain(t, out, `"route":"/drawings/{id}/results"`)
	kit.MustContain(t, out, `"status":201`)
	kit.MustContain(t, out, `"bytes":2`)
	if bytes.Count(buf.Bytes(), []byte("rid-9")) != 2 {
		t.Fatalf("handler and access line should both carry the id:\n%s", out)
	}
	if bytes.Contains(buf.Bytes(), []byte("secret")) {
		t.Fatal("query string leaked into the log")
	}
}

func TestRecoverJSON(t *testing.T) {
	h := middleware.RecoverJSON(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("matcher exploded")
	}))
	req := httptest.NewRequest(http.MethodPost, "/drawings/d1/draw", nil)
	req = req.WithContext(pnet.WithRequestID(req.Context(), "rid-p"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError || rec.Header().Get("X-Request-ID") != "rid-p" {
		t.Fatalf("status = %d headers = %v", rec.Code, rec.Header())
	}
	var env pnet.Wire
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil || env.Code != perr.ErrorCodePanic {
		t.Fatalf("body = %s (%v)", rec.Body.String(), err)
	}
	if bytes.Contains(rec.Body.Bytes(), []byte("exploded")) {
		t.Fatal("panic value leaked to the client")
	}
}

func TestRecoverJSON_AbortHandlerPropagates(t *testing.T) {
	h := middleware.RecoverJSON(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic(http.ErrAbortHandler)
	}))
	defer func() {
		if v := recover(); !errors.Is(v.(error), http.ErrAbortHandler) {
			t.Fatalf("recovered %v", v)
		}
	}()
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	t.Fatal("unreachable")
}

func TestCORS_Preflight(t *testing.T) {
	h := middleware.CORS(middleware.CORSOptions{AllowedOrigins: []string{"https://santa.example.com"}})(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusTeapot) }))

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/drawings", nil)
	req.Header.Set("Origin", "https://santa.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://santa.example.com" {
		t.Fatalf("allow origin = %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/drawings", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Fatal("foreign origin should not be allowed")
	}
}

func TestThrottle_RejectsOverflow(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})
	h := middleware.Throttle(1, 10*time.Millisecond)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		close(entered)
		<-release
	}))

	go h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/draw", nil))
	<-entered

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/draw", nil))
	close(release)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d", rec.Code)
	}
}
