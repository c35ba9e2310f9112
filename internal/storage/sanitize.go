package storage

import (
	"crypto/rand"
	"encoding/hex"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// MaxSegmentBytes bounds a single directory segment. The limit is in bytes,
// not runes, because customer and uploader names are Vietnamese and the
// filesystem limit applies to the encoded form.
const MaxSegmentBytes = 120

var (
	invalidSegmentChars = regexp.MustCompile(`[<>:"/\\|?*` + "\x00" + `]`)
	whitespaceRun       = regexp.MustCompile(`\s+`)
	reservedDeviceName  = regexp.MustCompile(`(?i)^(CON|PRN|AUX|NUL|COM[1-9]|LPT[1-9])$`)
	driveLetterPrefix   = regexp.MustCompile(`^[A-Za-z]:[\\/]`)
)

func randomSuffix(n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "unnamed"
	}
	return hex.EncodeToString(buf)
}

func fallbackSegment() string {
	return "safe_" + randomSuffix(4)
}

// SanitizeSegment turns free-form input (a display name, a customer code, a
// document-type label) into a single filesystem-safe path segment. It never
// fails: input that collapses to nothing usable becomes a generated fallback.
func SanitizeSegment(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return fallbackSegment()
	}
	// Compose accented characters so filesystems that mishandle decomposed
	// sequences still see one code point per letter.
	s := norm.NFC.String(raw)
	s = invalidSegmentChars.ReplaceAllString(s, "_")
	s = strings.ReplaceAll(s, "..", "_")
	s = strings.TrimLeft(s, ".")
	// Runs of whitespace become a single space, not an underscore, so folder
	// names stay readable for the branch staff browsing them.
	s = whitespaceRun.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)
	if s == "" {
		return fallbackSegment()
	}
	if reservedDeviceName.MatchString(s) {
		return fallbackSegment()
	}
	for len(s) > MaxSegmentBytes {
		r := []rune(s)
		s = string(r[:len(r)-1])
	}
	return s
}

// ValidatePath is the single choke point every path must pass before any
// filesystem operation. It returns the trimmed candidate and whether it is
// acceptable; callers must treat a false result as a denial, never as a
// prompt to fall back to some default path.
func ValidatePath(candidate string, allowAbsolute bool) (string, bool) {
	if candidate == "" || strings.ContainsRune(candidate, 0) {
		return "", false
	}
	s := strings.TrimSpace(candidate)
	if s == "" {
		return "", false
	}
	if strings.Contains(s, "../") || strings.Contains(s, `..\`) || strings.HasSuffix(s, "..") {
		return "", false
	}
	if allowAbsolute {
		if driveLetterPrefix.MatchString(s) {
			if strings.ContainsAny(s[2:], `<>"|?*`) {
				return "", false
			}
			return s, true
		}
		if strings.HasPrefix(s, "/") {
			if strings.ContainsAny(s, `<>"|?*`) {
				return "", false
			}
			return s, true
		}
		return "", false
	}
	// Relative candidates are single segments: separators, drive colons and
	// the remaining special characters are all rejected outright.
	if strings.ContainsAny(s, `<>:"|?*/\`) {
		return "", false
	}
	return s, true
}
