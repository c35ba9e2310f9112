package storage

import (
	"bytes"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stageTestFile(t *testing.T, area *StagingArea, name string) *StagedFile {
	t.Helper()
	staged, err := area.Stage(bytes.NewReader([]byte("%PDF-1.4 nội dung")), name, "application/pdf")
	require.NoError(t, err)
	return staged
}

func TestRelocateBuildsExpectedFolderChain(t *testing.T) {
	root := newTestRoot(t)
	area := NewStagingArea(root)
	rl := NewRelocator(root)

	staged := stageTestFile(t, area, "Quyết định thi hành án.pdf")
	final, err := rl.Relocate(staged, "Nguyễn Văn A", "KH001", "internal", "enforcement")
	require.NoError(t, err)

	wantDir := filepath.Join(root.Base(), "Nguyễn Văn A", "KH001", "Nội bảng", "Tài liệu Thi hành án")
	assert.Equal(t, filepath.Join(wantDir, staged.StoredName), final)

	ok, err := afero.Exists(root.Fs(), final)
	require.NoError(t, err)
	assert.True(t, ok, "file must exist at final path")

	ok, err = afero.Exists(root.Fs(), staged.Path)
	require.NoError(t, err)
	assert.False(t, ok, "staged copy must be consumed")
}

func TestRelocateRejectsStaleStagedFile(t *testing.T) {
	root := newTestRoot(t)
	area := NewStagingArea(root)
	rl := NewRelocator(root)

	staged := stageTestFile(t, area, "a.pdf")
	_, err := rl.Relocate(staged, "NV A", "KH001", "internal", "other")
	require.NoError(t, err)

	// Second relocation of the same staged file must fail at the staleness
	// check, not move anything twice.
	_, err = rl.Relocate(staged, "NV A", "KH001", "internal", "other")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStagePlan)
}

func TestRelocateRejectsFileOutsideStagingArea(t *testing.T) {
	root := newTestRoot(t)
	rl := NewRelocator(root)

	outside := filepath.Join(root.Base(), "KH001", "already-final.pdf")
	require.NoError(t, afero.WriteFile(root.Fs(), outside, []byte("x"), 0o644))
	_, err := rl.Relocate(&StagedFile{Path: outside, StoredName: "already-final.pdf"}, "NV A", "KH001", "internal", "other")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStagePlan)
}

func TestRelocateCleansUpOnMoveFailure(t *testing.T) {
	root := newTestRoot(t)
	area := NewStagingArea(root)
	staged := stageTestFile(t, area, "b.pdf")

	// Read-only wrapper makes MkdirAll fail after staging succeeded.
	roRoot := &SafeRoot{fs: afero.NewReadOnlyFs(root.Fs()), base: root.Base()}
	rl := NewRelocator(roRoot)

	_, err := rl.Relocate(staged, "NV A", "KH002", "internal", "court")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStageMkdir)

	// Cleanup on the read-only fs cannot delete the orphan, but on a healthy
	// relocator planning failures must remove the staged copy.
	staged2 := stageTestFile(t, area, "c.pdf")
	staged2.StoredName = "" // forces a move onto the directory itself
	rl2 := NewRelocator(root)
	if _, err := rl2.Relocate(staged2, "NV A", "KH002", "internal", "court"); err != nil {
		ok, exErr := afero.Exists(root.Fs(), staged2.Path)
		require.NoError(t, exErr)
		assert.False(t, ok, fmt.Sprintf("staged orphan %s must be cleaned up", staged2.Path))
	}
}
