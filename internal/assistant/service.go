// Package assistant wires the intent router, model handler, and adapter
// registry into one server context object, constructed once at startup and
// passed by reference to every request handler.
package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"assistd/internal/manager"
	"assistd/internal/registry"
	"assistd/internal/router"
	"assistd/pkg/types"
)

// Adapter names expected under the registry root, one per adapter-backed mode.
const (
	AdapterJobMatch    = "job_match"
	AdapterResumeEval  = "resume_eval"
	AdapterLatexResume = "latex_resume"
	AdapterRecruiter   = "recruiter_dialog"
)

// latexTokenBudget is larger than the default because LaTeX output is verbose.
const latexTokenBudget = 256

// Service is the orchestrator consumed by the HTTP layer.
type Service struct {
	handler *manager.ModelHandler
	reg     *registry.Registry
	log     zerolog.Logger
	start   time.Time
}

// New constructs the service around an initialized handler and registry.
func New(handler *manager.ModelHandler, reg *registry.Registry, log zerolog.Logger) *Service {
	return &Service{handler: handler, reg: reg, log: log, start: time.Now()}
}

// Ready reports whether the base model is loaded.
func (s *Service) Ready() bool { return s.handler.Ready() }

// ListAdapters returns the valid adapters currently on disk, sorted.
func (s *Service) ListAdapters() []string { return s.reg.List() }

// CurrentAdapter returns the adapter applied by the last successful swap.
func (s *Service) CurrentAdapter() string { return s.handler.CurrentAdapter() }

// Status builds the response for GET /status.
func (s *Service) Status() types.StatusResponse {
	state := "loading"
	if s.handler.Ready() {
		state = "ready"
	}
	now := time.Now()
	return types.StatusResponse{
		State:          state,
		CurrentAdapter: s.handler.CurrentAdapter(),
		Adapters:       s.reg.List(),
		UptimeSeconds:  int64(now.Sub(s.start).Seconds()),
		ServerTimeUnix: now.Unix(),
		SwapsTotal:     s.handler.Swaps(),
	}
}

// Assist classifies the payload and dispatches to the matching generation
// path: base model for general/career, the mode's adapter otherwise.
func (s *Service) Assist(ctx context.Context, req types.AssistRequest) (types.AssistResponse, error) {
	mode, norm := router.Classify(req)
	s.log.Info().Str("mode", string(mode)).Msg("assist request routed")

	var (
		out string
		err error
	)
	switch mode {
	case types.ModeCareer:
		out, err = s.handler.GenerateBase(ctx, types.ModeCareer, norm.Message)
	case types.ModeResumeEval:
		out, err = s.ResumeEval(ctx, norm.Resume)
	case types.ModeJobMatch:
		out, err = s.JobMatch(ctx, norm.Resume, norm.JobOffers)
	case types.ModeRecruiter:
		out, err = s.RecruiterDialog(ctx, norm.Message)
	case types.ModeLatexResume:
		out, err = s.LatexResume(ctx, norm.Resume)
	default:
		out, err = s.handler.GenerateBase(ctx, types.ModeGeneral, norm.Message)
	}
	if err != nil {
		return types.AssistResponse{}, err
	}
	return types.AssistResponse{Mode: mode, Response: out}, nil
}

// JobMatch runs the job_match adapter over a resume and a set of offers.
func (s *Service) JobMatch(ctx context.Context, resume json.RawMessage, offers []json.RawMessage) (string, error) {
	prompt := fmt.Sprintf(
		"Based on the resume and job offers below, provide a matching analysis:\n\nResume:\n%s\n\nJob Offers:\n%s\n\nAnalysis:",
		prettyJSON(resume), prettyJSON(offers),
	)
	return s.handler.GenerateWithAdapter(ctx, AdapterJobMatch, prompt, 0)
}

// ResumeEval runs the resume_eval adapter over a resume document.
func (s *Service) ResumeEval(ctx context.Context, resume json.RawMessage) (string, error) {
	prompt := fmt.Sprintf("Please evaluate the following resume:\n\n%s\n\nEvaluation:", prettyJSON(resume))
	return s.handler.GenerateWithAdapter(ctx, AdapterResumeEval, prompt, 0)
}

// LatexResume runs the latex_resume adapter over a resume document.
func (s *Service) LatexResume(ctx context.Context, resume json.RawMessage) (string, error) {
	prompt := fmt.Sprintf("Convert the following resume to LaTeX:\n\n%s\n\nLaTeX:", prettyJSON(resume))
	return s.handler.GenerateWithAdapter(ctx, AdapterLatexResume, prompt, latexTokenBudget)
}

// RecruiterDialog runs the recruiter_dialog adapter over a free-form message.
func (s *Service) RecruiterDialog(ctx context.Context, message string) (string, error) {
	prompt := fmt.Sprintf(
		"You are a professional recruiter. Respond to the following message:\n\nMessage: %s\n\nResponse:",
		message,
	)
	return s.handler.GenerateWithAdapter(ctx, AdapterRecruiter, prompt, 0)
}

func prettyJSON(v any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "null"
	}
	return string(b)
}
