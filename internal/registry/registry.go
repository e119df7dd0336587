// Package registry provides the filesystem-backed adapter catalog. An adapter
// is a subdirectory of the registry root; it is valid when the weight
// artifact exists directly under it.
package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/rs/zerolog"

	"assistd/internal/common/fsutil"
	"assistd/pkg/types"
)

// ArtifactName is the weight file every valid adapter directory must contain.
const ArtifactName = "adapter_model.safetensors"

// Registry scans a root directory for adapters. All methods are read-only
// filesystem scans: no locks are held and results may race benignly with
// directories being added or removed.
type Registry struct {
	root string
	log  zerolog.Logger
}

// New validates the registry root and returns a Registry. A missing root is a
// configuration error and aborts initialization.
func New(root string, log zerolog.Logger) (*Registry, error) {
	base, err := fsutil.ExpandHome(root)
	if err != nil {
		return nil, ErrConfiguration(fmt.Sprintf("adapters base path: %v", err))
	}
	abs, err := filepath.Abs(base)
	if err != nil {
		return nil, ErrConfiguration(fmt.Sprintf("adapters base path: %v", err))
	}
	fi, err := os.Stat(abs)
	if err != nil || !fi.IsDir() {
		return nil, ErrConfiguration(fmt.Sprintf("adapters base path does not exist: %s", root))
	}
	log.Info().Str("path", abs).Msg("adapter registry initialized")
	return &Registry{root: abs, log: log}, nil
}

// Root returns the absolute registry root.
func (r *Registry) Root() string { return r.root }

// Describe returns a descriptor for every subdirectory of the root, including
// invalid ones, sorted by name. Descriptors are recomputed per call and never
// persisted.
func (r *Registry) Describe() []types.AdapterInfo {
	entries, err := os.ReadDir(r.root)
	if err != nil {
		r.log.Warn().Err(err).Str("path", r.root).Msg("adapter scan failed")
		return nil
	}
	var out []types.AdapterInfo
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		dir := filepath.Join(r.root, e.Name())
		out = append(out, types.AdapterInfo{
			Name:  e.Name(),
			Path:  dir,
			Valid: fsutil.PathExists(filepath.Join(dir, ArtifactName)),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// List returns the names of all valid adapters, lexicographically sorted.
func (r *Registry) List() []string {
	var names []string
	for _, d := range r.Describe() {
		if d.Valid {
			names = append(names, d.Name)
		}
	}
	return names
}

// Resolve returns the path to a validated adapter directory. Validation is
// two-stage: directory existence, then artifact existence. Each stage fails
// with a NotFound error carrying a distinct reason.
func (r *Registry) Resolve(name string) (string, error) {
	dir := filepath.Join(r.root, name)
	fi, err := os.Stat(dir)
	if err != nil || !fi.IsDir() {
		return "", notFoundError{name: name, path: dir, reason: ReasonDirectoryMissing}
	}
	if !fsutil.PathExists(filepath.Join(dir, ArtifactName)) {
		return "", notFoundError{name: name, path: dir, reason: ReasonArtifactMissing}
	}
	return dir, nil
}
