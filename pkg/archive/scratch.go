// Package archive extracts mod zip archives into scratch directories,
// guarding against hostile entry paths.
package archive

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/embermod/ember/pkg/errors"
	"github.com/embermod/ember/pkg/logging"
)

// Scratch is a uniquely-named temporary extraction directory. Callers must
// defer Remove; a Scratch is never cleaned up implicitly.
type Scratch struct {
	Path string
}

// NewScratch creates a scratch directory under parent. Unique names keep
// concurrent installs from colliding.
func NewScratch(parent string) (*Scratch, error) {
	path := filepath.Join(parent, fmt.Sprintf(".ember-scratch-%s", uuid.NewString()[:8]))
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, errors.Wrapf(err, errors.ErrDirCreate, "failed to create scratch directory %s", path)
	}
	return &Scratch{Path: path}, nil
}

// Join returns a path inside the scratch directory.
func (s *Scratch) Join(elem ...string) string {
	return filepath.Join(append([]string{s.Path}, elem...)...)
}

// Remove deletes the scratch directory and everything in it. Safe to call
// more than once.
func (s *Scratch) Remove() {
	if err := os.RemoveAll(s.Path); err != nil {
		logger := logging.GetLogger("archive")
		logger.Error().Err(err).Str("path", s.Path).Msg("Failed to remove scratch directory")
	}
}
