//go:build llama

package llm

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	llama "github.com/go-skynet/go-llama.cpp"
)

// llamaBuilt indicates this binary was compiled with real llama support.
var llamaBuilt = true

// weightArtifact is the adapter weight file expected inside a resolved
// adapter directory.
const weightArtifact = "adapter_model.safetensors"

// llamaRuntime holds global settings used to initialize model contexts.
type llamaRuntime struct {
	ctxSize int
	threads int
}

// NewRuntime returns the in-process llama.cpp runtime.
func NewRuntime(ctxSize, threads int) Runtime {
	return &llamaRuntime{ctxSize: ctxSize, threads: threads}
}

// llamaModel owns a loaded llama context.
type llamaModel struct {
	path    string
	model   *llama.LLama
	threads int
}

func (r *llamaRuntime) LoadModel(path string) (Model, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("model path is empty")
	}
	m, err := llama.New(path, llama.SetContext(r.ctxSize))
	if err != nil {
		return nil, err
	}
	return &llamaModel{path: path, model: m, threads: r.threads}, nil
}

func (r *llamaRuntime) LoadAdapter(base Model, adapterPath string) (AdapterModel, error) {
	bm, ok := base.(*llamaModel)
	if !ok {
		return nil, errors.New("base model is not a llama handle")
	}
	artifact := filepath.Join(adapterPath, weightArtifact)
	m, err := llama.New(bm.path,
		llama.SetContext(r.ctxSize),
		llama.SetLoraBase(bm.path),
		llama.SetLoraAdapter(artifact),
	)
	if err != nil {
		return nil, err
	}
	return &llamaAdapterModel{base: bm, model: m, threads: bm.threads}, nil
}

func (m *llamaModel) Generate(ctx context.Context, prompt string, p GenParams) (string, error) {
	return generate(ctx, m.model, m.threads, prompt, p)
}

// llamaAdapterModel is a base context reloaded with a LoRA delta applied.
type llamaAdapterModel struct {
	base    *llamaModel
	model   *llama.LLama
	threads int
}

func (a *llamaAdapterModel) Generate(ctx context.Context, prompt string, p GenParams) (string, error) {
	if a.model == nil {
		return "", errors.New("adapter context already merged")
	}
	return generate(ctx, a.model, a.threads, prompt, p)
}

// Merge releases the augmented context and hands back the base handle.
// llama.cpp applies the delta at load time against the mmapped base weights,
// so dropping the augmented context restores the clean base.
func (a *llamaAdapterModel) Merge() (Model, error) {
	if a.model != nil {
		a.model.Free()
		a.model = nil
	}
	return a.base, nil
}

func (a *llamaAdapterModel) SetInference() {
	// llama.cpp contexts are inference-only; nothing to switch.
}

func generate(ctx context.Context, m *llama.LLama, threads int, prompt string, p GenParams) (string, error) {
	if m == nil {
		return "", errors.New("llama model not initialized")
	}
	// Bridge the token callback to context cancellation.
	m.SetTokenCallback(func(tok string) bool {
		select {
		case <-ctx.Done():
			return false
		default:
			return true
		}
	})
	po := []llama.PredictOption{
		llama.SetTokens(maxInt(1, p.MaxNewTokens)),
		llama.SetThreads(maxInt(1, threads)),
	}
	if p.DoSample {
		po = append(po,
			llama.SetTemperature(p.Temperature),
			llama.SetTopP(p.TopP),
		)
	} else {
		// Greedy decode: temperature 0 with top-k 1.
		po = append(po, llama.SetTemperature(0), llama.SetTopK(1))
	}
	text, err := m.Predict(prompt, po...)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", err
	}
	return text, nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
