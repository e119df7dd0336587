package manager

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"assistd/internal/llm"
	"assistd/internal/prompts"
	"assistd/pkg/types"
)

// ModelHandler is the orchestration facade. It owns the base model handle,
// the adapter manager, the prompt store, and the process-wide generation
// lock: at most one generation or adapter swap proceeds at a time. Callers
// block until the lock frees; there is no queueing or fairness beyond what
// sync.Mutex provides, and an acquired generation runs to completion.
type ModelHandler struct {
	mu       sync.Mutex // generation lock
	model    llm.Model  // set once at construction, never reassigned
	adapters *AdapterManager
	prompts  *prompts.Store
	cfg      HandlerConfig
	log      zerolog.Logger
}

// NewHandler constructs the handler around an already-loaded base model.
// A nil model is allowed; every entry point then fails as not ready.
func NewHandler(model llm.Model, adapters *AdapterManager, store *prompts.Store, cfg HandlerConfig, log zerolog.Logger) *ModelHandler {
	return &ModelHandler{
		model:    model,
		adapters: adapters,
		prompts:  store,
		cfg:      cfg.withDefaults(),
		log:      log,
	}
}

// Ready reports whether the handler holds a loaded model.
func (h *ModelHandler) Ready() bool {
	return h != nil && h.model != nil
}

// CurrentAdapter returns the name of the presently active adapter, or "".
func (h *ModelHandler) CurrentAdapter() string {
	return h.adapters.Current()
}

// Swaps returns the number of successful adapter swaps since startup.
func (h *ModelHandler) Swaps() uint64 {
	return h.adapters.Swaps()
}

// GenerateBase composes the mode's system prompt with message and decodes
// against the base model under the generation lock. Decoding is deterministic
// unless sampling was enabled in the handler config.
func (h *ModelHandler) GenerateBase(ctx context.Context, mode types.Mode, message string) (string, error) {
	if h.model == nil {
		return "", notReadyError{}
	}
	var prompt string
	switch mode {
	case types.ModeCareer:
		prompt = h.prompts.Get(prompts.KeyCareer) + "\nUser: " + message + "\nAdvisor:"
	default:
		prompt = h.prompts.Get(prompts.KeyGeneral) + "\nUser: " + message + "\nAssistant:"
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	start := time.Now()
	text, err := h.model.Generate(ctx, prompt, h.cfg.genParams())
	generationDuration.WithLabelValues("base").Observe(time.Since(start).Seconds())
	if err != nil {
		return "", runtimeFailureError{context: string(mode), cause: err}
	}
	return text, nil
}

// GenerateWithAdapter swaps the named adapter in and decodes prompt against
// the returned wrapper. The generation lock spans both the swap and the
// generation so no interleaved request can observe or trigger another swap
// mid-flight. Every call may permanently alter the base weights through the
// merge step; that is the documented cost of merge-and-reload.
func (h *ModelHandler) GenerateWithAdapter(ctx context.Context, name, prompt string, maxNewTokens int) (string, error) {
	if h.model == nil {
		return "", notReadyError{}
	}
	if maxNewTokens <= 0 {
		maxNewTokens = h.cfg.MaxNewTokens
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.log.Info().Str("adapter", name).Msg("adapter generation requested")
	wrapped, err := h.adapters.Apply(h.model, name)
	if err != nil {
		return "", err
	}

	p := h.cfg.genParams()
	p.MaxNewTokens = maxNewTokens
	p.DoSample = false // adapter prompts are structured; always decode greedily
	start := time.Now()
	text, err := wrapped.Generate(ctx, prompt, p)
	generationDuration.WithLabelValues("adapter").Observe(time.Since(start).Seconds())
	if err != nil {
		return "", runtimeFailureError{context: name, cause: err}
	}
	return text, nil
}
