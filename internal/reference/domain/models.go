package domain

// State is an Indian state or union territory keyed by its GST state code.
type State struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Label renders the state the way it is offered in pickers, e.g. "27 - Maharashtra".
func (s State) Label() string {
	return s.Code + " - " + s.Name
}

type GSTRate struct {
	Value float64 `json:"value"`
	Label string  `json:"label"`
}

type HSNCode struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}
