//go:build !llama

package llm

// This file provides a no-CGO stub for the llama runtime. It is compiled when
// the 'llama' build tag is NOT set, keeping default builds and CI CGO-free.
// The real runtime lives in llama.go (tagged 'llama').

// llamaBuilt indicates this binary was compiled without real llama support.
var llamaBuilt = false

type stubRuntime struct{}

// NewRuntime returns a runtime that refuses to load models without the
// 'llama' build tag. This avoids any mocked behavior in production binaries
// built without CGO support.
func NewRuntime(ctxSize, threads int) Runtime {
	return stubRuntime{}
}

func (stubRuntime) LoadModel(path string) (Model, error) {
	return nil, ErrUnavailable("llama support not built (missing 'llama' build tag)")
}

func (stubRuntime) LoadAdapter(base Model, adapterPath string) (AdapterModel, error) {
	return nil, ErrUnavailable("llama support not built (missing 'llama' build tag)")
}
