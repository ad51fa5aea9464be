package tax

// InvoiceDraft is an immutable set of line inputs sharing one regime.
// Every mutation returns a new draft; the receiver is never modified.
type InvoiceDraft struct {
	regime Regime
	lines  []LineItemInput
}

func NewDraft(regime Regime, lines ...LineItemInput) InvoiceDraft {
	copied := make([]LineItemInput, len(lines))
	copy(copied, lines)
	return InvoiceDraft{regime: regime, lines: copied}
}

func (d InvoiceDraft) Regime() Regime { return d.regime }

func (d InvoiceDraft) Len() int { return len(d.lines) }

// Lines returns a copy of the draft inputs.
func (d InvoiceDraft) Lines() []LineItemInput {
	out := make([]LineItemInput, len(d.lines))
	copy(out, d.lines)
	return out
}

func (d InvoiceDraft) AddLine(line LineItemInput) InvoiceDraft {
	lines := make([]LineItemInput, len(d.lines), len(d.lines)+1)
	copy(lines, d.lines)
	return InvoiceDraft{regime: d.regime, lines: append(lines, line)}
}

// UpdateLine replaces the line at index i. Out of range indexes return ErrLineIndex.
func (d InvoiceDraft) UpdateLine(i int, line LineItemInput) (InvoiceDraft, error) {
	if i < 0 || i >= len(d.lines) {
		return d, ErrLineIndex
	}
	lines := d.Lines()
	lines[i] = line
	return InvoiceDraft{regime: d.regime, lines: lines}, nil
}

func (d InvoiceDraft) RemoveLine(i int) (InvoiceDraft, error) {
	if i < 0 || i >= len(d.lines) {
		return d, ErrLineIndex
	}
	lines := make([]LineItemInput, 0, len(d.lines)-1)
	lines = append(lines, d.lines[:i]...)
	lines = append(lines, d.lines[i+1:]...)
	return InvoiceDraft{regime: d.regime, lines: lines}, nil
}

// WithRegime switches the regime; the next Resolve re-splits every line.
func (d InvoiceDraft) WithRegime(regime Regime) InvoiceDraft {
	return InvoiceDraft{regime: regime, lines: d.Lines()}
}

// Resolve runs the engine over every line with the draft regime and aggregates the result.
func (d InvoiceDraft) Resolve() ([]ResolvedLineItem, Totals) {
	resolved := make([]ResolvedLineItem, 0, len(d.lines))
	for _, line := range d.lines {
		line.Regime = d.regime
		resolved = append(resolved, Resolve(line))
	}
	return resolved, Aggregate(resolved)
}

// Validate checks every line and reports the first failure with its index.
func (d InvoiceDraft) Validate() error {
	if !d.regime.Valid() {
		return ErrInvalidRegime
	}
	for i, line := range d.lines {
		line.Regime = d.regime
		if err := Validate(line); err != nil {
			return &LineError{Index: i, Err: err}
		}
	}
	return nil
}
