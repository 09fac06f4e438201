package cryptocore

import (
	"bytes"
	"testing"
)

func TestBlake3HashSize(t *testing.T) {
	tests := []struct {
		name string
		size int
	}{
		{"16 bytes", 16},
		{"32 bytes", 32},
		{"64 bytes", 64},
	}

	input := []byte("test input")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash := Blake3HashSize(input, tt.size)
			if len(hash) != tt.size {
				t.Errorf("Blake3HashSize() len = %v, want %v", len(hash), tt.size)
			}
		})
	}
}

func TestBlake3HashSizeDeterministic(t *testing.T) {
	input := []byte("fingerprint material")

	hash1 := Blake3HashSize(input, 8)
	hash2 := Blake3HashSize(input, 8)

	if !bytes.Equal(hash1, hash2) {
		t.Error("Blake3HashSize() should be deterministic")
	}
}

func TestBlake3HashSizeUnique(t *testing.T) {
	hash1 := Blake3HashSize([]byte("session one"), 8)
	hash2 := Blake3HashSize([]byte("session two"), 8)

	if bytes.Equal(hash1, hash2) {
		t.Error("Blake3HashSize() different inputs should produce different hashes")
	}
}
