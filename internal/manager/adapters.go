package manager

import (
	"sync"

	"github.com/rs/zerolog"

	"assistd/internal/llm"
	"assistd/internal/registry"
)

// AdapterManager owns the swap protocol. It is the only component that
// mutates the shared base model, and it does so under its own swap lock.
type AdapterManager struct {
	mu  sync.Mutex
	reg *registry.Registry
	rt  llm.Runtime
	log zerolog.Logger

	// active is the adapter wrapper currently applied to the base model,
	// nil when the model runs bare. current is the name recorded by the
	// last successful swap; it is never reset automatically.
	active  llm.AdapterModel
	current string
	swaps   uint64
}

// NewAdapterManager returns a manager backed by the given registry and runtime.
func NewAdapterManager(reg *registry.Registry, rt llm.Runtime, log zerolog.Logger) *AdapterManager {
	return &AdapterManager{reg: reg, rt: rt, log: log}
}

// Apply swaps the named adapter onto model using merge-and-reload: any active
// adapter delta is first folded permanently into the base weights, then the
// requested adapter is constructed against the clean base and switched to
// inference mode. The whole sequence runs under the swap lock and returns the
// adapter-augmented handle.
//
// A NotFound from resolution propagates unchanged. Any other failure wraps
// into a swap failure carrying the adapter name; the merge that already ran
// is not rolled back, so the model may be left as a clean base even though
// the caller asked for an adapter. The recorded current name only transitions
// on success.
func (am *AdapterManager) Apply(model llm.Model, name string) (llm.Model, error) {
	am.mu.Lock()
	defer am.mu.Unlock()

	// Fold any active delta back into the base first so deltas never stack.
	if am.active != nil {
		base, err := am.active.Merge()
		if err != nil {
			swapsTotal.WithLabelValues(name, "error").Inc()
			return nil, swapFailureError{adapter: name, cause: err}
		}
		am.active = nil
		model = base
	}

	path, err := am.reg.Resolve(name)
	if err != nil {
		swapsTotal.WithLabelValues(name, "not_found").Inc()
		return nil, err
	}

	am.log.Info().Str("adapter", name).Str("path", path).Msg("loading adapter")
	wrapped, err := am.rt.LoadAdapter(model, path)
	if err != nil {
		am.log.Error().Err(err).Str("adapter", name).Msg("adapter construction failed")
		swapsTotal.WithLabelValues(name, "error").Inc()
		return nil, swapFailureError{adapter: name, cause: err}
	}
	wrapped.SetInference()

	am.active = wrapped
	am.current = name
	am.swaps++
	swapsTotal.WithLabelValues(name, "ok").Inc()
	am.log.Info().Str("adapter", name).Msg("adapter loaded")
	return wrapped, nil
}

// Current returns the name of the presently active adapter, or "" when the
// model has never been swapped. After a failed swap the name of the last
// successful swap is still reported; see Apply.
func (am *AdapterManager) Current() string {
	am.mu.Lock()
	defer am.mu.Unlock()
	return am.current
}

// Swaps returns the number of successful swaps since startup.
func (am *AdapterManager) Swaps() uint64 {
	am.mu.Lock()
	defer am.mu.Unlock()
	return am.swaps
}
