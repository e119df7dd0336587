package manager

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"assistd/internal/llm"
	"assistd/internal/registry"
)

// helper: create an adapter directory under root, optionally with the artifact.
func writeAdapter(t *testing.T, root, name string, withArtifact bool) {
	t.Helper()
	dir := filepath.Join(root, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if withArtifact {
		if err := os.WriteFile(filepath.Join(dir, registry.ArtifactName), []byte(""), 0o644); err != nil {
			t.Fatalf("write artifact: %v", err)
		}
	}
}

func newTestRegistry(t *testing.T, names ...string) *registry.Registry {
	t.Helper()
	root := t.TempDir()
	for _, n := range names {
		writeAdapter(t, root, n, true)
	}
	reg, err := registry.New(root, zerolog.Nop())
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	return reg
}

// overlapCounter detects concurrent generation across all fake handles.
type overlapCounter struct {
	inflight int32
	maxSeen  int32
}

func (c *overlapCounter) enter() {
	n := atomic.AddInt32(&c.inflight, 1)
	for {
		cur := atomic.LoadInt32(&c.maxSeen)
		if n <= cur || atomic.CompareAndSwapInt32(&c.maxSeen, cur, n) {
			return
		}
	}
}

func (c *overlapCounter) exit() { atomic.AddInt32(&c.inflight, -1) }

// fakeWeights is the weight state shared by a base model and its wrappers.
// merged records the adapter deltas folded in by Merge, in order.
type fakeWeights struct {
	merged []string
}

type fakeModel struct {
	w          *fakeWeights
	overlap    *overlapCounter
	delay      time.Duration
	out        string
	err        error
	lastPrompt string
	lastParams llm.GenParams
}

func (m *fakeModel) Generate(ctx context.Context, prompt string, p llm.GenParams) (string, error) {
	if m.overlap != nil {
		m.overlap.enter()
		defer m.overlap.exit()
	}
	if m.delay > 0 {
		// Deliberately ignores ctx: in-flight generations run to completion.
		time.Sleep(m.delay)
	}
	m.lastPrompt = prompt
	m.lastParams = p
	if m.err != nil {
		return "", m.err
	}
	return m.out, nil
}

type fakeAdapterModel struct {
	base       *fakeModel
	name       string
	eval       bool
	merged     bool
	mergeErr   error
	genErr     error
	lastPrompt string
	lastParams llm.GenParams
}

func (a *fakeAdapterModel) Generate(ctx context.Context, prompt string, p llm.GenParams) (string, error) {
	if a.base.overlap != nil {
		a.base.overlap.enter()
		defer a.base.overlap.exit()
	}
	if a.base.delay > 0 {
		time.Sleep(a.base.delay)
	}
	a.lastPrompt = prompt
	a.lastParams = p
	if a.genErr != nil {
		return "", a.genErr
	}
	return "adapter:" + a.name, nil
}

func (a *fakeAdapterModel) Merge() (llm.Model, error) {
	if a.mergeErr != nil {
		return nil, a.mergeErr
	}
	a.merged = true
	a.base.w.merged = append(a.base.w.merged, a.name)
	return a.base, nil
}

func (a *fakeAdapterModel) SetInference() { a.eval = true }

// fakeRuntime constructs fakeAdapterModels and records every wrapper it made.
type fakeRuntime struct {
	loadErr map[string]error // by adapter name
	genErr  map[string]error
	made    []*fakeAdapterModel
}

func (r *fakeRuntime) LoadModel(path string) (llm.Model, error) {
	return &fakeModel{w: &fakeWeights{}}, nil
}

func (r *fakeRuntime) LoadAdapter(base llm.Model, adapterPath string) (llm.AdapterModel, error) {
	name := filepath.Base(adapterPath)
	if err := r.loadErr[name]; err != nil {
		return nil, err
	}
	a := &fakeAdapterModel{base: base.(*fakeModel), name: name, genErr: r.genErr[name]}
	r.made = append(r.made, a)
	return a, nil
}
