package storage

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeSegmentKeepsCleanInput(t *testing.T) {
	for _, in := range []string{
		"Nguyễn Văn A",
		"KH001",
		"Tài liệu Thi hành án",
		"Báo cáo quý 3",
	} {
		assert.Equal(t, in, SanitizeSegment(in))
	}
}

func TestSanitizeSegmentStripsDangerousCharacters(t *testing.T) {
	got := SanitizeSegment(`a<b>c:d"e/f\g|h?i*j`)
	assert.NotContains(t, got, "/")
	assert.NotContains(t, got, `\`)
	assert.NotContains(t, got, ":")
	assert.Equal(t, "a_b_c_d_e_f_g_h_i_j", got)
}

func TestSanitizeSegmentNeutralizesTraversal(t *testing.T) {
	for _, in := range []string{"../../etc", "..", "....", `..\..\win`} {
		got := SanitizeSegment(in)
		assert.NotContains(t, got, "..")
		assert.NotContains(t, got, "/")
		assert.NotContains(t, got, `\`)
		assert.NotEmpty(t, got)
	}
}

func TestSanitizeSegmentFallbacks(t *testing.T) {
	for _, in := range []string{"", "   ", "\x00", "..", "CON", "con", "LPT7", "Com3"} {
		got := SanitizeSegment(in)
		require.NotEmpty(t, got, "input %q", in)
		if got != in {
			// Reserved names and empty-equivalents must become generated
			// fallbacks, never empty or the reserved word itself.
			assert.NotEqual(t, strings.ToUpper(in), strings.ToUpper(got))
		}
	}
	assert.True(t, strings.HasPrefix(SanitizeSegment("CON"), "safe_"))
	assert.True(t, strings.HasPrefix(SanitizeSegment(""), "safe_"))
}

func TestSanitizeSegmentCollapsesWhitespace(t *testing.T) {
	assert.Equal(t, "a b c", SanitizeSegment("a \t b \n  c"))
}

func TestSanitizeSegmentTruncatesByBytesNotRunes(t *testing.T) {
	long := strings.Repeat("ế", 100) // three bytes per rune
	got := SanitizeSegment(long)
	assert.LessOrEqual(t, len(got), MaxSegmentBytes)
	assert.True(t, utf8.ValidString(got), "multi-byte sequence must not be split")
	assert.True(t, strings.HasPrefix(long, got))
}

func TestValidatePathRejectsTraversal(t *testing.T) {
	adversarial := []string{
		"../etc/passwd",
		`..\windows\system32`,
		"a/../b",
		"a..",
		"..",
		"prefix/../..",
		"a\x00b",
		"trailing..",
	}
	for _, in := range adversarial {
		_, ok := ValidatePath(in, false)
		assert.False(t, ok, "expected rejection for %q", in)
		_, ok = ValidatePath(in, true)
		assert.False(t, ok, "expected rejection for %q even with allowAbsolute", in)
	}
}

func TestValidatePathRelative(t *testing.T) {
	for _, in := range []string{"report.pdf", "Nguyễn Văn A", "KH001"} {
		got, ok := ValidatePath(in, false)
		require.True(t, ok, "input %q", in)
		assert.Equal(t, in, got)
	}
	for _, in := range []string{"a/b", `a\b`, "C:file", "a|b", "a*b", "/abs"} {
		_, ok := ValidatePath(in, false)
		assert.False(t, ok, "expected rejection for %q", in)
	}
}

func TestValidatePathAbsolute(t *testing.T) {
	for _, in := range []string{"/var/data/file.pdf", `C:\Files\a.pdf`, `D:/FilesXuLyNo/temp`} {
		_, ok := ValidatePath(in, true)
		assert.True(t, ok, "expected acceptance for %q", in)
	}
	for _, in := range []string{"relative/path", `C:\bad<file`, "/bad|pipe", "noRoot"} {
		_, ok := ValidatePath(in, true)
		assert.False(t, ok, "expected rejection for %q", in)
	}
}
