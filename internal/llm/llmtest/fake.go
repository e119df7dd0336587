// Package llmtest provides in-memory fakes for the llm runtime boundary,
// used by service and end-to-end tests.
package llmtest

import (
	"context"
	"path/filepath"

	"assistd/internal/llm"
)

// Weights models the mutable weight state shared by a base model and the
// adapter wrappers derived from it. Merged records folded-in deltas in order.
type Weights struct {
	Merged []string
}

// Model is a fake base model that echoes prompts.
type Model struct {
	Weights *Weights
	// Reply overrides the default echo output when set.
	Reply   func(prompt string) string
	Prompts []string
}

func (m *Model) Generate(ctx context.Context, prompt string, p llm.GenParams) (string, error) {
	m.Prompts = append(m.Prompts, prompt)
	if m.Reply != nil {
		return m.Reply(prompt), nil
	}
	return "base: " + prompt, nil
}

// AdapterModel is a fake adapter wrapper. Its output is prefixed with the
// adapter name so tests can assert which path served a request.
type AdapterModel struct {
	Base    *Model
	Name    string
	Eval    bool
	Prompts []string
}

func (a *AdapterModel) Generate(ctx context.Context, prompt string, p llm.GenParams) (string, error) {
	a.Prompts = append(a.Prompts, prompt)
	return a.Name + ": " + prompt, nil
}

func (a *AdapterModel) Merge() (llm.Model, error) {
	a.Base.Weights.Merged = append(a.Base.Weights.Merged, a.Name)
	return a.Base, nil
}

func (a *AdapterModel) SetInference() { a.Eval = true }

// Runtime is a fake llm.Runtime. Err forces LoadAdapter failures by adapter
// name; Made records every wrapper constructed.
type Runtime struct {
	Err  map[string]error
	Made []*AdapterModel
}

func (r *Runtime) LoadModel(path string) (llm.Model, error) {
	return &Model{Weights: &Weights{}}, nil
}

func (r *Runtime) LoadAdapter(base llm.Model, adapterPath string) (llm.AdapterModel, error) {
	name := filepath.Base(adapterPath)
	if err := r.Err[name]; err != nil {
		return nil, err
	}
	a := &AdapterModel{Base: base.(*Model), Name: name}
	r.Made = append(r.Made, a)
	return a, nil
}
