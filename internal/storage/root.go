package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"XuLyNoSaas/internal/logger"
)

// SafeRoot is the single base directory every file operation must resolve
// through. All persisted document paths are relative to it so the storage
// volume can move without invalidating records.
type SafeRoot struct {
	fs   afero.Fs
	base string
}

// NewSafeRoot resolves base to an absolute path and makes sure it exists.
func NewSafeRoot(fs afero.Fs, base string) (*SafeRoot, error) {
	abs, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("resolve storage root %q: %w", base, err)
	}
	abs = filepath.Clean(abs)
	if err := fs.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create storage root %q: %w", abs, err)
	}
	return &SafeRoot{fs: fs, base: abs}, nil
}

func (r *SafeRoot) Base() string {
	return r.base
}

func (r *SafeRoot) Fs() afero.Fs {
	return r.fs
}

func (r *SafeRoot) contains(abs string) bool {
	return abs == r.base || strings.HasPrefix(abs, r.base+string(os.PathSeparator))
}

// ResolveWithinRoot validates a root-relative candidate, joins it onto the
// base and re-checks the normalized result still starts with the base. Every
// per-segment check runs through ValidatePath; the prefix re-check catches
// anything the segment checks might miss. A false return means deny.
func (r *SafeRoot) ResolveWithinRoot(relative string) (string, bool) {
	if relative == "" || strings.ContainsRune(relative, 0) {
		return "", false
	}
	normalized := strings.ReplaceAll(relative, `\`, "/")
	if strings.HasPrefix(normalized, "/") || driveLetterPrefix.MatchString(normalized) {
		logger.Security(fmt.Sprintf("absolute path rejected as root-relative candidate: %q", relative))
		return "", false
	}
	segments := strings.Split(normalized, "/")
	parts := make([]string, 0, len(segments)+1)
	parts = append(parts, r.base)
	for _, seg := range segments {
		if seg == "" {
			continue
		}
		clean, ok := ValidatePath(seg, false)
		if !ok {
			logger.Security(fmt.Sprintf("rejected path segment %q in %q", seg, relative))
			return "", false
		}
		parts = append(parts, clean)
	}
	if len(parts) == 1 {
		return "", false
	}
	resolved := filepath.Clean(filepath.Join(parts...))
	if !r.contains(resolved) {
		logger.Security(fmt.Sprintf("path traversal blocked: %q -> %q", relative, resolved))
		return "", false
	}
	return resolved, true
}

// RelativeTo converts an absolute path under the root into the slash-form
// relative path stored on document records.
func (r *SafeRoot) RelativeTo(abs string) (string, bool) {
	cleaned := filepath.Clean(abs)
	if !r.contains(cleaned) {
		logger.Security(fmt.Sprintf("relative-path request outside storage root: %q", abs))
		return "", false
	}
	rel, err := filepath.Rel(r.base, cleaned)
	if err != nil {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

// FileExists reports whether the relative path resolves to a regular file
// under the root.
func (r *SafeRoot) FileExists(relative string) bool {
	abs, ok := r.ResolveWithinRoot(relative)
	if !ok {
		return false
	}
	info, err := r.fs.Stat(abs)
	return err == nil && info.Mode().IsRegular()
}
