package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"assistd/internal/llm"
	"assistd/internal/manager"
	"assistd/internal/registry"
	"assistd/pkg/types"
)

type mockService struct {
	ready    bool
	adapters []string
	current  string
	status   types.StatusResponse
	err      error

	lastMessage string
	lastResume  json.RawMessage
	lastOffers  []json.RawMessage
}

func (m *mockService) Ready() bool { return m.ready }

func (m *mockService) ListAdapters() []string { return append([]string(nil), m.adapters...) }

func (m *mockService) CurrentAdapter() string { return m.current }

func (m *mockService) Status() types.StatusResponse { return m.status }

func (m *mockService) Assist(ctx context.Context, req types.AssistRequest) (types.AssistResponse, error) {
	if m.err != nil {
		return types.AssistResponse{}, m.err
	}
	m.lastMessage = req.Message
	return types.AssistResponse{Mode: types.ModeGeneral, Response: "ok: " + req.Message}, nil
}

func (m *mockService) JobMatch(ctx context.Context, resume json.RawMessage, offers []json.RawMessage) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.lastResume, m.lastOffers = resume, offers
	return "match analysis", nil
}

func (m *mockService) ResumeEval(ctx context.Context, resume json.RawMessage) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.lastResume = resume
	return "evaluation", nil
}

func (m *mockService) LatexResume(ctx context.Context, resume json.RawMessage) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.lastResume = resume
	return "\\documentclass{article}", nil
}

func (m *mockService) RecruiterDialog(ctx context.Context, message string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.lastMessage = message
	return "recruiter reply", nil
}

type mockHTTPError struct {
	msg  string
	code int
}

func (e mockHTTPError) Error() string   { return e.msg }
func (e mockHTTPError) StatusCode() int { return e.code }

func postJSON(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHealthHandler(t *testing.T) {
	r := NewMux(&mockService{ready: true})
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	var body types.HealthResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("json: %v", err)
	}
	if body.Status != "healthy" || !body.ModelLoaded || !body.AdaptersReady {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestAdaptersHandler(t *testing.T) {
	svc := &mockService{adapters: []string{"job_match", "resume_eval"}, current: "job_match"}
	r := NewMux(svc)
	req := httptest.NewRequest(http.MethodGet, "/adapters", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	var body types.AdaptersResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("json: %v", err)
	}
	if body.Count != 2 || len(body.AvailableAdapters) != 2 || body.CurrentAdapter != "job_match" {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestStatusHandler(t *testing.T) {
	svc := &mockService{status: types.StatusResponse{State: "ready", SwapsTotal: 3}}
	r := NewMux(svc)
	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	var body types.StatusResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("json: %v", err)
	}
	if body.State != "ready" || body.SwapsTotal != 3 {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestAssistantHandler(t *testing.T) {
	svc := &mockService{}
	r := NewMux(svc)
	w := postJSON(t, r, "/assistant", `{"message":"hello"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var body types.AssistResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("json: %v", err)
	}
	if body.Response != "ok: hello" {
		t.Fatalf("unexpected body: %+v", body)
	}
	if svc.lastMessage != "hello" {
		t.Fatalf("message not forwarded: %q", svc.lastMessage)
	}
}

func TestAssistantRequiresJSONContentType(t *testing.T) {
	r := NewMux(&mockService{})
	req := httptest.NewRequest(http.MethodPost, "/assistant", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "text/plain")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("status=%d", w.Code)
	}
}

func TestAssistantRejectsInvalidJSON(t *testing.T) {
	r := NewMux(&mockService{})
	w := postJSON(t, r, "/assistant", `{"message":`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d", w.Code)
	}
	var body types.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("json: %v", err)
	}
	if body.Code != http.StatusBadRequest || body.Error == "" {
		t.Fatalf("unexpected error body: %+v", body)
	}
}

func TestRunJobMatchValidation(t *testing.T) {
	r := NewMux(&mockService{})
	cases := []struct {
		body string
		want string
	}{
		{`{}`, "resume_json is required"},
		{`{"resume_json":null}`, "resume_json is required"},
		{`{"resume_json":{"name":"a"}}`, "job_offers_json is required"},
	}
	for _, c := range cases {
		w := postJSON(t, r, "/run/job_match", c.body)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("body %s: status=%d", c.body, w.Code)
		}
		var body types.ErrorResponse
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("json: %v", err)
		}
		if body.Error != c.want {
			t.Fatalf("body %s: error=%q want %q", c.body, body.Error, c.want)
		}
	}
}

func TestRunJobMatchSuccess(t *testing.T) {
	svc := &mockService{}
	r := NewMux(svc)
	w := postJSON(t, r, "/run/job_match", `{"resume_json":{"name":"a"},"job_offers_json":[{"title":"SRE"}]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var body types.RunResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("json: %v", err)
	}
	if body.Adapter != "job_match" || body.Status != "success" || body.Response != "match analysis" {
		t.Fatalf("unexpected body: %+v", body)
	}
	if len(svc.lastOffers) != 1 {
		t.Fatalf("offers not forwarded")
	}
}

func TestRunRecruiterDialogRequiresMessage(t *testing.T) {
	r := NewMux(&mockService{})
	w := postJSON(t, r, "/run/recruiter_dialog", `{"message":"  "}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d", w.Code)
	}
	w = postJSON(t, r, "/run/recruiter_dialog", `{"message":"tell me about the role"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
}

func TestRunResumeEvalAndLatex(t *testing.T) {
	svc := &mockService{}
	r := NewMux(svc)
	for _, path := range []string{"/run/resume_eval", "/run/latex_resume"} {
		w := postJSON(t, r, path, `{"resume_json":{"name":"a"}}`)
		if w.Code != http.StatusOK {
			t.Fatalf("%s: status=%d body=%s", path, w.Code, w.Body.String())
		}
		w = postJSON(t, r, path, `{}`)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("%s: status=%d", path, w.Code)
		}
	}
}

func TestErrorMapping(t *testing.T) {
	reg, err := registry.New(t.TempDir(), zerolog.Nop())
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	_, notFound := reg.Resolve("ghost")

	h := manager.NewHandler(nil, nil, nil, manager.HandlerConfig{}, zerolog.Nop())
	_, notReady := h.GenerateBase(context.Background(), types.ModeGeneral, "x")

	cases := []struct {
		name string
		err  error
		want int
	}{
		{"not found", notFound, http.StatusNotFound},
		{"not ready", notReady, http.StatusServiceUnavailable},
		{"runtime unavailable", llm.ErrUnavailable("llama support not built"), http.StatusServiceUnavailable},
		{"http error", mockHTTPError{msg: "teapot", code: http.StatusTeapot}, http.StatusTeapot},
		{"generic", context.DeadlineExceeded, http.StatusInternalServerError},
	}
	for _, c := range cases {
		r := NewMux(&mockService{err: c.err})
		w := postJSON(t, r, "/assistant", `{"message":"hi"}`)
		if w.Code != c.want {
			t.Fatalf("%s: status=%d want %d", c.name, w.Code, c.want)
		}
		var body types.ErrorResponse
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("%s: json: %v", c.name, err)
		}
		if body.Code != c.want {
			t.Fatalf("%s: body code=%d", c.name, body.Code)
		}
	}
}

func TestHealthzAndReadyz(t *testing.T) {
	r := NewMux(&mockService{ready: false})
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK || w.Body.String() != "ok" {
		t.Fatalf("healthz: status=%d body=%q", w.Code, w.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/readyz", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("readyz while loading: status=%d", w.Code)
	}

	r = NewMux(&mockService{ready: true})
	req = httptest.NewRequest(http.MethodGet, "/readyz", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("readyz when ready: status=%d", w.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	r := NewMux(&mockService{})
	// Prime the counters so the scrape below has something to show.
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	r.ServeHTTP(httptest.NewRecorder(), req)

	req = httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "assistd_http_requests_total") {
		t.Fatalf("metrics output missing request counter")
	}
}

func TestMaxBodyBytes(t *testing.T) {
	SetMaxBodyBytes(16)
	defer SetMaxBodyBytes(0)
	r := NewMux(&mockService{})
	w := postJSON(t, r, "/assistant", `{"message":"`+strings.Repeat("a", 64)+`"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d", w.Code)
	}
}
