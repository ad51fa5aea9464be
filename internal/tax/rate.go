package tax

import (
	"github.com/shopspring/decimal"
)

// RateMode represents how the entered unit rate is interpreted.
type RateMode string

const (
	RateModeInclusive RateMode = "with_gst"    // rate already contains tax
	RateModeExclusive RateMode = "without_gst" // tax is added on top of rate
)

func (m RateMode) Valid() bool {
	return m == RateModeInclusive || m == RateModeExclusive
}

// RateSourceKind tags where the effective GST percentage came from.
type RateSourceKind string

const (
	RateSourcePreset RateSourceKind = "preset"
	RateSourceCustom RateSourceKind = "custom"
)

// RateSource is a closed union of Preset(percent) and Custom(percent).
// The zero value is Preset(0).
type RateSource struct {
	kind    RateSourceKind
	percent decimal.Decimal
}

func Preset(percent decimal.Decimal) RateSource {
	return RateSource{kind: RateSourcePreset, percent: percent}
}

func Custom(percent decimal.Decimal) RateSource {
	return RateSource{kind: RateSourceCustom, percent: percent}
}

// SelectRate picks the custom percentage when one is set, otherwise the preset.
func SelectRate(preset decimal.Decimal, custom *decimal.Decimal) RateSource {
	if custom != nil {
		return Custom(*custom)
	}
	return Preset(preset)
}

func (s RateSource) Kind() RateSourceKind {
	if s.kind == "" {
		return RateSourcePreset
	}
	return s.kind
}

func (s RateSource) Percent() decimal.Decimal {
	return s.percent
}

func (s RateSource) IsCustom() bool {
	return s.kind == RateSourceCustom
}
