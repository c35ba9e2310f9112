package storage

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/spf13/afero"

	"XuLyNoSaas/internal/checksum"
)

// TempDirName is the staging subdirectory directly under the safe root.
const TempDirName = "temp"

var (
	ErrMimeNotAllowed      = errors.New("loại file không được hỗ trợ")
	ErrExtensionNotAllowed = errors.New("phần mở rộng file không được phép")
)

// allowedMimeTypes gates uploads by declared content type. The list covers
// what branch staff actually attach to a case: scans, office documents,
// recordings and archives.
var allowedMimeTypes = map[string]bool{
	"image/jpeg": true, "image/jpg": true, "image/png": true, "image/gif": true,
	"image/webp": true, "image/bmp": true,
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"application/vnd.ms-excel": true,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":         true,
	"application/vnd.ms-powerpoint":                                             true,
	"application/vnd.openxmlformats-officedocument.presentationml.presentation": true,
	"text/plain": true, "text/csv": true,
	"video/mp4": true, "video/avi": true, "video/mov": true, "video/wmv": true, "video/webm": true,
	"audio/mp3": true, "audio/wav": true, "audio/ogg": true, "audio/mpeg": true,
	"application/zip": true, "application/x-rar-compressed": true, "application/x-7z-compressed": true,
}

// deniedExtensions is checked independently of the MIME gate. The declared
// content type is attacker-controlled, so an executable renamed to a passing
// type must still be stopped here.
var deniedExtensions = map[string]bool{
	".exe": true, ".bat": true, ".cmd": true, ".com": true, ".scr": true,
	".ps1": true, ".msi": true, ".js": true, ".vbs": true, ".jar": true,
	".sh": true, ".dll": true,
}

// executableContentTypes are rejected after sniffing the staged bytes, no
// matter what the client declared.
var executableContentTypes = []string{
	"application/vnd.microsoft.portable-executable",
	"application/x-msdownload",
	"application/x-executable",
	"application/x-elf",
	"application/x-sharedlib",
	"application/x-mach-binary",
}

// StagedFile is a file written to the temp area whose final destination is
// not yet known. OriginalName is kept verbatim (it is usually Vietnamese
// text shown back to users), independent of the sanitized on-disk name.
type StagedFile struct {
	Path         string `json:"path"`
	StoredName   string `json:"stored_name"`
	OriginalName string `json:"original_name"`
	MimeType     string `json:"mime_type"`
	Size         int64  `json:"size"`
	Checksum     string `json:"checksum"`
}

// StagingArea receives incoming uploads into <root>/temp before relocation.
type StagingArea struct {
	root *SafeRoot
}

func NewStagingArea(root *SafeRoot) *StagingArea {
	return &StagingArea{root: root}
}

// Dir returns the absolute staging directory.
func (s *StagingArea) Dir() string {
	return filepath.Join(s.root.Base(), TempDirName)
}

// Stage writes the incoming stream into the temp directory. The on-disk name
// is sanitized base name + millisecond timestamp + random suffix + original
// extension; uniqueness of that pair is what keeps concurrent uploads from
// colliding, no locking involved.
func (s *StagingArea) Stage(r io.Reader, originalName, declaredMime string) (*StagedFile, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	if deniedExtensions[ext] {
		return nil, fmt.Errorf("%w: %s", ErrExtensionNotAllowed, ext)
	}
	if !allowedMimeTypes[strings.ToLower(strings.TrimSpace(declaredMime))] {
		return nil, fmt.Errorf("%w: %s", ErrMimeNotAllowed, declaredMime)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read upload stream: %w", err)
	}
	if sniffed := mimetype.Detect(data); isExecutableContent(sniffed) {
		return nil, fmt.Errorf("%w: %s", ErrMimeNotAllowed, sniffed.String())
	}

	if err := s.root.Fs().MkdirAll(s.Dir(), 0o755); err != nil {
		return nil, fmt.Errorf("create staging dir: %w", err)
	}

	base := strings.TrimSuffix(filepath.Base(originalName), filepath.Ext(originalName))
	storedName := fmt.Sprintf("%s_%d_%s%s",
		SanitizeSegment(base), time.Now().UnixMilli(), randomSuffix(8), ext)
	stagedPath := filepath.Join(s.Dir(), storedName)
	if err := afero.WriteFile(s.root.Fs(), stagedPath, data, 0o644); err != nil {
		return nil, fmt.Errorf("write staged file: %w", err)
	}

	return &StagedFile{
		Path:         stagedPath,
		StoredName:   storedName,
		OriginalName: originalName,
		MimeType:     declaredMime,
		Size:         int64(len(data)),
		Checksum:     checksum.Sum(data),
	}, nil
}

func isExecutableContent(m *mimetype.MIME) bool {
	for _, t := range executableContentTypes {
		if m.Is(t) {
			return true
		}
	}
	return false
}
