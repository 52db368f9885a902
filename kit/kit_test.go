package kit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestResolve_AllPads(t *testing.T) {
	tests := []struct {
		key  string
		file string
	}{
		{"w", "sounds/crash.mp3"},
		{"a", "sounds/kick-bass.mp3"},
		{"s", "sounds/snare.mp3"},
		{"d", "sounds/tom-1.mp3"},
		{"j", "sounds/tom-2.mp3"},
		{"k", "sounds/tom-3.mp3"},
		{"l", "sounds/tom-4.mp3"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			pad, ok := Resolve(tt.key)
			require.True(t, ok, "expected %q to resolve", tt.key)
			assert.Equal(t, tt.key, pad.Key)
			assert.Equal(t, tt.file, pad.File)
		})
	}
}

func TestResolve_NoMatch(t *testing.T) {
	for _, key := range []string{"", "W", "A", "q", "e", " ", "wa", "enter", "ctrl+c", "1"} {
		_, ok := Resolve(key)
		assert.False(t, ok, "expected %q not to resolve", key)
	}
}

func TestResolve_ClosedSet(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		symbol := rapid.String().Draw(t, "symbol")
		_, ok := Resolve(symbol)
		inKit := len(symbol) == 1 && Index(symbol) >= 0
		if ok != inKit {
			t.Fatalf("Resolve(%q) = %v, want %v", symbol, ok, inKit)
		}
	})
}

func TestPads_ReturnsCopy(t *testing.T) {
	p := Pads()
	require.Len(t, p, 7)
	p[0].File = "changed.mp3"

	pad, ok := Resolve("w")
	require.True(t, ok)
	assert.Equal(t, "sounds/crash.mp3", pad.File, "table must not change through Pads()")
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "wasdjkl", Keys())
	assert.Equal(t, 0, Index("w"))
	assert.Equal(t, 6, Index("l"))
	assert.Equal(t, -1, Index("x"))
}

func TestNotesAreDistinct(t *testing.T) {
	seen := make(map[uint8]string)
	for _, p := range Pads() {
		if prev, ok := seen[p.Note]; ok {
			t.Fatalf("note %d used by both %s and %s", p.Note, prev, p.Key)
		}
		seen[p.Note] = p.Key
	}
}
