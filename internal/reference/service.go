package reference

import (
	"sort"
	"strings"

	"github.com/smallbiznis/gstbilling/internal/config"
	"github.com/smallbiznis/gstbilling/internal/reference/domain"
)

type service struct {
	masterdata *config.MasterDataHolder
	states     []domain.State
	byName     map[string]domain.State
}

// NewService serves GST reference data. Rates and HSN codes come from the
// hot-reloadable master data; state codes are fixed.
func NewService(masterdata *config.MasterDataHolder) domain.Service {
	states := make([]domain.State, 0, len(stateCodes))
	byName := make(map[string]domain.State, len(stateCodes))
	for code, name := range stateCodes {
		state := domain.State{Code: code, Name: name}
		states = append(states, state)
		byName[strings.ToLower(name)] = state
	}
	sort.Slice(states, func(i, j int) bool { return states[i].Code < states[j].Code })

	return &service{masterdata: masterdata, states: states, byName: byName}
}

func (s *service) GSTRates() []domain.GSTRate {
	data := s.masterdata.Get()
	rates := make([]domain.GSTRate, 0, len(data.GSTRates))
	for _, slab := range data.GSTRates {
		rates = append(rates, domain.GSTRate{Value: slab.Value, Label: slab.Label})
	}
	return rates
}

func (s *service) SearchHSN(query string) []domain.HSNCode {
	query = strings.ToLower(strings.TrimSpace(query))
	data := s.masterdata.Get()

	codes := make([]domain.HSNCode, 0, len(data.HSNCodes))
	for _, entry := range data.HSNCodes {
		if query != "" &&
			!strings.Contains(strings.ToLower(entry.Code), query) &&
			!strings.Contains(strings.ToLower(entry.Description), query) {
			continue
		}
		codes = append(codes, domain.HSNCode{Code: entry.Code, Description: entry.Description})
	}
	return codes
}

func (s *service) ListStates() []domain.State {
	out := make([]domain.State, len(s.states))
	copy(out, s.states)
	return out
}

func (s *service) StateFromGSTIN(gstin string) (domain.State, bool) {
	gstin = strings.TrimSpace(gstin)
	if len(gstin) < 2 {
		return domain.State{}, false
	}
	return s.StateByCode(gstin[:2])
}

func (s *service) StateByCode(code string) (domain.State, bool) {
	code = strings.TrimSpace(code)
	name, ok := stateCodes[code]
	if !ok {
		return domain.State{}, false
	}
	return domain.State{Code: code, Name: name}, true
}

func (s *service) StateByName(name string) (domain.State, bool) {
	state, ok := s.byName[strings.ToLower(strings.TrimSpace(name))]
	return state, ok
}
