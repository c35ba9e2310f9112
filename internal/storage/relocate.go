package storage

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"XuLyNoSaas/internal/logger"
)

// Relocation failures are tagged with the stage that broke so callers can
// tell a deterministic planning failure (retrying is pointless) from a
// filesystem one (disk full, permissions). This package never retries.
var (
	ErrStagePlan  = errors.New("relocate: planning failed")
	ErrStageMkdir = errors.New("relocate: directory creation failed")
	ErrStageMove  = errors.New("relocate: move failed")
)

// Relocator moves staged files from the temp area into their final folder
// chain under the safe root.
type Relocator struct {
	root *SafeRoot
}

func NewRelocator(root *SafeRoot) *Relocator {
	return &Relocator{root: root}
}

// Relocate plans the destination for a staged file, creates the directory
// chain and renames the file into it, keeping the on-disk name. It returns
// the final absolute path. On any failure past the initial staleness check
// the staged file is deleted best-effort so temp storage does not collect
// orphans.
func (rl *Relocator) Relocate(staged *StagedFile, uploaderName, customerCode, caseType, documentType string) (string, error) {
	rel, ok := rl.root.RelativeTo(staged.Path)
	if !ok || !strings.HasPrefix(rel, TempDirName+"/") {
		return "", fmt.Errorf("%w: staged path %q is not inside the staging area", ErrStagePlan, staged.Path)
	}
	if exists, err := afero.Exists(rl.root.Fs(), staged.Path); err != nil || !exists {
		// Double relocation or a stale reference; nothing to clean up.
		return "", fmt.Errorf("%w: staged file %q no longer exists", ErrStagePlan, staged.Path)
	}

	segments := PlanSegments(uploaderName, customerCode, caseType, documentType)
	for _, seg := range segments {
		if strings.TrimSpace(seg) == "" {
			rl.cleanup(staged)
			return "", fmt.Errorf("%w: empty segment in plan %v", ErrStagePlan, segments)
		}
	}

	dirRel := path.Join(segments[0], segments[1], segments[2], segments[3])
	dirAbs, ok := rl.root.ResolveWithinRoot(dirRel)
	if !ok {
		rl.cleanup(staged)
		return "", fmt.Errorf("%w: %q escapes the storage root", ErrStagePlan, dirRel)
	}

	// MkdirAll is idempotent: two concurrent uploads planning the same
	// customer folder must both succeed.
	if err := rl.root.Fs().MkdirAll(dirAbs, 0o755); err != nil {
		rl.cleanup(staged)
		return "", fmt.Errorf("%w: %q: %v", ErrStageMkdir, dirAbs, err)
	}

	finalPath := filepath.Join(dirAbs, staged.StoredName)
	if err := rl.root.Fs().Rename(staged.Path, finalPath); err != nil {
		rl.cleanup(staged)
		return "", fmt.Errorf("%w: %q -> %q: %v", ErrStageMove, staged.Path, finalPath, err)
	}
	return finalPath, nil
}

func (rl *Relocator) cleanup(staged *StagedFile) {
	if err := rl.root.Fs().Remove(staged.Path); err != nil && !os.IsNotExist(err) {
		logger.Audit(fmt.Sprintf("could not remove orphaned staged file %s: %v", staged.Path, err))
	}
}
