package reference

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidGSTIN(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"27AAPFU0939F1ZV", true},
		{" 27aapfu0939f1zv ", true},
		{"29ABCDE1234F1Z5", true},
		{"28AAPFU0939F1ZV", false},
		{"27AAPFU0939F1XV", false},
		{"27AAPFU0939F", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ValidGSTIN(tt.value), tt.value)
	}
}

func TestValidPAN(t *testing.T) {
	assert.True(t, ValidPAN("AAPFU0939F"))
	assert.True(t, ValidPAN("aapfu0939f"))
	assert.False(t, ValidPAN("AAPF0939F"))
}
