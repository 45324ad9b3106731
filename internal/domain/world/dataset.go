package world

import "sort"

// Dataset is every world document loaded for one run, keyed by natural name.
type Dataset struct {
	Characters   map[string]Character
	Tools        map[string]Tool
	Cities       map[string]City
	Countries    map[string]Country
	CitizenTypes map[string]CitizenType
}

func NewDataset() *Dataset {
	return &Dataset{
		Characters:   map[string]Character{},
		Tools:        map[string]Tool{},
		Cities:       map[string]City{},
		Countries:    map[string]Country{},
		CitizenTypes: map[string]CitizenType{},
	}
}

// Records returns the records of one category behind the Record interface.
func (d *Dataset) Records(c Category) map[string]Record {
	out := map[string]Record{}
	if d == nil {
		return out
	}
	switch c {
	case CategoryCharacters:
		for k, v := range d.Characters {
			out[k] = v
		}
	case CategoryTools:
		for k, v := range d.Tools {
			out[k] = v
		}
	case CategoryCities:
		for k, v := range d.Cities {
			out[k] = v
		}
	case CategoryCountries:
		for k, v := range d.Countries {
			out[k] = v
		}
	case CategoryCitizenTypes:
		for k, v := range d.CitizenTypes {
			out[k] = v
		}
	}
	return out
}

func (d *Dataset) Len(c Category) int {
	return len(d.Records(c))
}

// SortedNames returns the keys of m in ascending order.
func SortedNames[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
