package world

// Category is a kind of world document. Each category maps to exactly one
// node label.
type Category string

const (
	CategoryCharacters   Category = "characters"
	CategoryTools        Category = "tools"
	CategoryCities       Category = "cities"
	CategoryCountries    Category = "countries"
	CategoryCitizenTypes Category = "citizen_types"
)

const (
	LabelCharacter   = "Character"
	LabelTool        = "Tools"
	LabelCity        = "City"
	LabelCountry     = "Country"
	LabelCitizenType = "CitizenType"
)

// Categories lists every category in node-pass order: targets of the most
// relationships come first.
var Categories = []Category{
	CategoryCountries,
	CategoryCities,
	CategoryCitizenTypes,
	CategoryCharacters,
	CategoryTools,
}

var categoryLabels = map[Category]string{
	CategoryCharacters:   LabelCharacter,
	CategoryTools:        LabelTool,
	CategoryCities:       LabelCity,
	CategoryCountries:    LabelCountry,
	CategoryCitizenTypes: LabelCitizenType,
}

func (c Category) Label() string { return categoryLabels[c] }

func (c Category) Valid() bool {
	_, ok := categoryLabels[c]
	return ok
}

// Labels returns the node label of every category.
func Labels() []string {
	out := make([]string, 0, len(Categories))
	for _, c := range Categories {
		out = append(out, c.Label())
	}
	return out
}

// Record is a single named entry of a world document.
type Record interface {
	// Properties returns the attributes to set on the node. Unset fields
	// are omitted so a merge never blanks an existing property.
	Properties() map[string]any
	// Links returns the declared relationship fields keyed by edge label.
	Links() map[RelType]Names
}
