package tax

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDraftResolveUsesDraftRegime(t *testing.T) {
	draft := NewDraft(RegimeInterState,
		line("2", "100", "0", "18", RateModeExclusive, RegimeIntraState),
		line("1", "118", "0", "18", RateModeInclusive, ""),
	)

	resolved, totals := draft.Resolve()
	require.Len(t, resolved, 2)
	for _, r := range resolved {
		assert.Equal(t, RegimeInterState, r.Regime)
		assert.True(t, r.CGSTAmount.IsZero())
	}
	assertAmount(t, "54.00", totals.TotalIGST, "igst")
	assertAmount(t, "354.00", totals.GrandTotal, "grand total")
}

func TestDraftMutationsDoNotTouchReceiver(t *testing.T) {
	base := NewDraft(RegimeIntraState, line("1", "100", "0", "18", RateModeExclusive, RegimeIntraState))

	added := base.AddLine(line("1", "50", "0", "5", RateModeExclusive, RegimeIntraState))
	assert.Equal(t, 1, base.Len())
	assert.Equal(t, 2, added.Len())

	updated, err := added.UpdateLine(0, line("2", "100", "0", "18", RateModeExclusive, RegimeIntraState))
	require.NoError(t, err)
	assert.True(t, added.Lines()[0].Quantity.Equal(d("1")))
	assert.True(t, updated.Lines()[0].Quantity.Equal(d("2")))

	removed, err := updated.RemoveLine(1)
	require.NoError(t, err)
	assert.Equal(t, 1, removed.Len())
	assert.Equal(t, 2, updated.Len())
}

func TestDraftWithRegimeReResolvesAllLines(t *testing.T) {
	draft := NewDraft(RegimeIntraState,
		line("2", "100", "0", "18", RateModeExclusive, RegimeIntraState),
		line("1", "118", "0", "18", RateModeInclusive, RegimeIntraState),
	)
	_, before := draft.Resolve()
	assertAmount(t, "27.00", before.TotalCGST, "cgst")

	_, after := draft.WithRegime(RegimeInterState).Resolve()
	assert.True(t, after.TotalCGST.IsZero())
	assert.True(t, after.TotalSGST.IsZero())
	assertAmount(t, "54.00", after.TotalIGST, "igst")
	assert.True(t, before.GrandTotal.Equal(after.GrandTotal))
}

func TestDraftLineIndexErrors(t *testing.T) {
	draft := NewDraft(RegimeIntraState)

	_, err := draft.UpdateLine(0, LineItemInput{})
	assert.ErrorIs(t, err, ErrLineIndex)

	_, err = draft.RemoveLine(-1)
	assert.ErrorIs(t, err, ErrLineIndex)
}

func TestDraftValidateReportsLineIndex(t *testing.T) {
	draft := NewDraft(RegimeIntraState,
		line("1", "100", "0", "18", RateModeExclusive, ""),
		line("0", "100", "0", "18", RateModeExclusive, ""),
	)

	err := draft.Validate()
	require.Error(t, err)

	var lineErr *LineError
	require.True(t, errors.As(err, &lineErr))
	assert.Equal(t, 1, lineErr.Index)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}
