// Package prompts loads the fixed set of system prompt templates used by the
// base-model modes. Templates are read once at startup and read-only after.
package prompts

import (
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"assistd/internal/common/fsutil"
)

// Template keys served by the store.
const (
	KeyGeneral = "general"
	KeyCareer  = "career_expert"
)

// templateFiles maps template keys to their file names under the prompts dir.
var templateFiles = map[string]string{
	KeyGeneral: "general.txt",
	KeyCareer:  "career_expert.txt",
}

// Store holds the loaded templates.
type Store struct {
	templates map[string]string
}

// Load reads the known template files from dir. A missing file logs a warning
// and leaves that template empty; an unreadable directory leaves all templates
// empty. Both are non-fatal: the base modes still run with an empty preamble.
func Load(dir string, log zerolog.Logger) *Store {
	s := &Store{templates: make(map[string]string, len(templateFiles))}
	base, err := fsutil.ExpandHome(dir)
	if err != nil || !fsutil.PathExists(base) {
		log.Warn().Str("path", dir).Msg("prompts path not found")
		return s
	}
	for key, name := range templateFiles {
		b, err := os.ReadFile(filepath.Join(base, name))
		if err != nil {
			log.Warn().Str("file", name).Msg("prompt file missing")
			continue
		}
		s.templates[key] = string(b)
	}
	return s
}

// Get returns the template text for key, or "" when the template was not
// loaded or the key is unknown.
func (s *Store) Get(key string) string {
	return s.templates[key]
}
