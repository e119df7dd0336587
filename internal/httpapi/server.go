package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"assistd/pkg/types"
)

// Service defines the methods required by the HTTP API layer.
type Service interface {
	Ready() bool
	ListAdapters() []string
	CurrentAdapter() string
	Status() types.StatusResponse
	Assist(ctx context.Context, req types.AssistRequest) (types.AssistResponse, error)
	JobMatch(ctx context.Context, resume json.RawMessage, offers []json.RawMessage) (string, error)
	ResumeEval(ctx context.Context, resume json.RawMessage) (string, error)
	LatexResume(ctx context.Context, resume json.RawMessage) (string, error)
	RecruiterDialog(ctx context.Context, message string) (string, error)
}

func NewMux(svc Service) http.Handler {
	r := chi.NewRouter()
	// Basic middlewares: request id, real ip, recoverer
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	// Compression for JSON endpoints
	r.Use(middleware.Compress(5))
	// Security headers
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})
	if corsEnabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: corsAllowedOrigins,
			AllowedMethods: corsAllowedMethods,
			AllowedHeaders: corsAllowedHeaders,
		}))
	}
	r.Use(MetricsMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, types.HealthResponse{
			Status:        "healthy",
			ModelLoaded:   svc.Ready(),
			AdaptersReady: true,
		})
	})

	r.Get("/adapters", func(w http.ResponseWriter, r *http.Request) {
		list := svc.ListAdapters()
		writeJSON(w, http.StatusOK, types.AdaptersResponse{
			AvailableAdapters: list,
			Count:             len(list),
			CurrentAdapter:    svc.CurrentAdapter(),
		})
	})

	r.Get("/status", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, svc.Status())
	})

	r.Post("/assistant", func(w http.ResponseWriter, r *http.Request) {
		req, ok := decodeRequest(w, r)
		if !ok {
			return
		}
		ctx, cancel := joinContexts(serverBaseCtx, r.Context())
		defer cancel()
		start := time.Now()
		resp, err := svc.Assist(ctx, req)
		if err != nil {
			if r.Context().Err() != nil || serverBaseCtx.Err() != nil {
				return
			}
			status := statusForError(err)
			writeJSONError(w, status, err.Error())
			logEnd(r, "assistant", status, start, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
		logEnd(r, "assistant", http.StatusOK, start, nil)
	})

	r.Post("/run/job_match", runEndpoint(svc, "job_match",
		func(req types.AssistRequest) string {
			if !hasDoc(req.Resume) {
				return "resume_json is required"
			}
			if len(req.JobOffers) == 0 {
				return "job_offers_json is required"
			}
			return ""
		},
		func(ctx context.Context, req types.AssistRequest) (string, error) {
			return svc.JobMatch(ctx, req.Resume, req.JobOffers)
		},
	))

	r.Post("/run/resume_eval", runEndpoint(svc, "resume_eval",
		func(req types.AssistRequest) string {
			if !hasDoc(req.Resume) {
				return "resume_json is required"
			}
			return ""
		},
		func(ctx context.Context, req types.AssistRequest) (string, error) {
			return svc.ResumeEval(ctx, req.Resume)
		},
	))

	r.Post("/run/latex_resume", runEndpoint(svc, "latex_resume",
		func(req types.AssistRequest) string {
			if !hasDoc(req.Resume) {
				return "resume_json is required"
			}
			return ""
		},
		func(ctx context.Context, req types.AssistRequest) (string, error) {
			return svc.LatexResume(ctx, req.Resume)
		},
	))

	r.Post("/run/recruiter_dialog", runEndpoint(svc, "recruiter_dialog",
		func(req types.AssistRequest) string {
			if strings.TrimSpace(req.Message) == "" {
				return "message is required"
			}
			return ""
		},
		func(ctx context.Context, req types.AssistRequest) (string, error) {
			return svc.RecruiterDialog(ctx, req.Message)
		},
	))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if svc.Ready() {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("ready"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("loading"))
	})

	// Prometheus metrics endpoint
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	MountSwagger(r)

	return r
}

// runEndpoint builds the handler for an adapter-specific POST /run route.
// Validation failures are 400s; service errors go through statusForError.
func runEndpoint(svc Service, adapter string, validate func(types.AssistRequest) string, run func(context.Context, types.AssistRequest) (string, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, ok := decodeRequest(w, r)
		if !ok {
			return
		}
		if msg := validate(req); msg != "" {
			writeJSONError(w, http.StatusBadRequest, msg)
			return
		}
		ctx, cancel := joinContexts(serverBaseCtx, r.Context())
		defer cancel()
		start := time.Now()
		out, err := run(ctx, req)
		if err != nil {
			if r.Context().Err() != nil || serverBaseCtx.Err() != nil {
				return
			}
			status := statusForError(err)
			writeJSONError(w, status, err.Error())
			logEnd(r, adapter, status, start, err)
			return
		}
		writeJSON(w, http.StatusOK, types.RunResponse{Adapter: adapter, Response: out, Status: "success"})
		logEnd(r, adapter, http.StatusOK, start, nil)
	}
}

// decodeRequest enforces the JSON content type and body size limit, then
// decodes the shared request payload. It writes the error response itself.
func decodeRequest(w http.ResponseWriter, r *http.Request) (types.AssistRequest, bool) {
	var req types.AssistRequest
	ct := r.Header.Get("Content-Type")
	if ct == "" || !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return req, false
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		// Oversized bodies surface here too; report 400 without size details.
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return req, false
	}
	return req, true
}

// hasDoc reports whether a raw JSON document carries data (explicit null does not).
func hasDoc(doc json.RawMessage) bool {
	s := strings.TrimSpace(string(doc))
	return s != "" && s != "null"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zlog.Error().Err(err).Msg("encode response")
	}
}

func logEnd(r *http.Request, route string, status int, start time.Time, err error) {
	if requestLogLevel(r) < LevelInfo {
		return
	}
	z := zlog.Info().Str("route", route).Int("status", status).Dur("dur", time.Since(start))
	if rid := middleware.GetReqID(r.Context()); rid != "" {
		z = z.Str("request_id", rid)
	}
	if err != nil {
		z = z.Err(err)
	}
	z.Msg("request end")
}
