package tax

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func strPtr(v string) *string { return &v }

func TestDetermineRegime(t *testing.T) {
	tests := []struct {
		name     string
		customer *string
		seller   *string
		want     Regime
	}{
		{"same state", strPtr("Maharashtra"), strPtr("Maharashtra"), RegimeIntraState},
		{"case insensitive", strPtr("maharashtra"), strPtr("MAHARASHTRA"), RegimeIntraState},
		{"different states", strPtr("Karnataka"), strPtr("Maharashtra"), RegimeInterState},
		{"customer missing", nil, strPtr("Maharashtra"), RegimeIntraState},
		{"seller missing", strPtr("Karnataka"), nil, RegimeIntraState},
		{"both missing", nil, nil, RegimeIntraState},
		{"blank customer", strPtr("  "), strPtr("Goa"), RegimeIntraState},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetermineRegime(tt.customer, tt.seller))
		})
	}
}
