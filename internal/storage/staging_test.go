package storage

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"XuLyNoSaas/internal/checksum"
)

func TestStagePreservesOriginalName(t *testing.T) {
	root := newTestRoot(t)
	area := NewStagingArea(root)

	original := "Biên bản làm việc (quý 3).pdf"
	staged, err := area.Stage(bytes.NewReader([]byte("%PDF-1.4 test")), original, "application/pdf")
	require.NoError(t, err)

	// Original name round-trips verbatim; the on-disk name is a different,
	// sanitized string.
	assert.Equal(t, original, staged.OriginalName)
	assert.NotEqual(t, original, staged.StoredName)
	assert.True(t, strings.HasSuffix(staged.StoredName, ".pdf"))
	assert.True(t, strings.HasPrefix(staged.Path, area.Dir()))
	assert.Equal(t, int64(len("%PDF-1.4 test")), staged.Size)
	assert.Equal(t, checksum.Sum([]byte("%PDF-1.4 test")), staged.Checksum)

	ok, err := afero.Exists(root.Fs(), staged.Path)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestStageRejectsDisallowedMime(t *testing.T) {
	area := NewStagingArea(newTestRoot(t))
	_, err := area.Stage(bytes.NewReader([]byte("x")), "a.bin", "application/octet-stream")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMimeNotAllowed)
}

func TestStageRejectsExecutableExtensionDespiteMime(t *testing.T) {
	area := NewStagingArea(newTestRoot(t))
	// Declared MIME passes the allow-list but the extension deny-list is an
	// independent gate layered on top.
	_, err := area.Stage(bytes.NewReader([]byte("x")), "invoice.exe", "application/pdf")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrExtensionNotAllowed)
}

func TestStageRejectsSniffedExecutable(t *testing.T) {
	area := NewStagingArea(newTestRoot(t))
	// ELF magic wrapped in a harmless-looking name and declared type.
	elf := append([]byte{0x7f, 'E', 'L', 'F', 2, 1, 1, 0}, make([]byte, 64)...)
	_, err := area.Stage(bytes.NewReader(elf), "notes.txt", "text/plain")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMimeNotAllowed)
}

func TestStageGeneratesUniqueNames(t *testing.T) {
	area := NewStagingArea(newTestRoot(t))
	a, err := area.Stage(bytes.NewReader([]byte("one")), "báo cáo.txt", "text/plain")
	require.NoError(t, err)
	b, err := area.Stage(bytes.NewReader([]byte("two")), "báo cáo.txt", "text/plain")
	require.NoError(t, err)
	assert.NotEqual(t, a.Path, b.Path)
}
