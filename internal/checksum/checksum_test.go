package checksum

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSumKnownVector(t *testing.T) {
	assert.Equal(t,
		"ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad",
		Sum([]byte("abc")))
}

func TestMatcher(t *testing.T) {
	data := []byte("biên bản làm việc")
	m := NewMatcher(Sum(data))

	ok, err := m.Match(data)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = m.Match([]byte("tampered"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMatcherWithoutExpected(t *testing.T) {
	m := NewMatcher("")

	_, err := m.Match([]byte("anything"))

	assert.Error(t, err)
}
