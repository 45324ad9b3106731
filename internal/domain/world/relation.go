package world

// RelType is both the relationship field name in a document and the edge
// label written to the graph.
type RelType string

const (
	RelIsSonOf       RelType = "IS_SON_OF"
	RelIsDaughterOf  RelType = "IS_DAUGHTER_OF"
	RelIsSpouseOf    RelType = "IS_SPOUSE_OF"
	RelIsBrotherOf   RelType = "IS_BROTHER_OF"
	RelIsSisterOf    RelType = "IS_SISTER_OF"
	RelIsFatherOf    RelType = "IS_FATHER_OF"
	RelIsMotherOf    RelType = "IS_MOTHER_OF"
	RelLivesIn       RelType = "LIVES_IN"
	RelIsCitizenType RelType = "IS_CITIZEN_TYPE"
	RelRequires      RelType = "REQUIRES"
	RelLocatedIn     RelType = "LOCATED_IN"
	RelCapitalOf     RelType = "CAPITAL_OF"
	RelBorders       RelType = "BORDERS"
	RelRecognizedIn  RelType = "RECOGNIZED_IN"

	// RelUses is derived from character hobbies, never declared directly.
	RelUses RelType = "USES"
)

// Relation describes one directed, typed edge between two categories.
// SourceRole and TargetRole name what each endpoint is in the edge.
type Relation struct {
	Type       RelType
	Source     Category
	Target     Category
	SourceRole string
	TargetRole string
	Derived    bool
}

// Relations is the fixed lookup table from relationship field to edge.
var Relations = []Relation{
	{Type: RelIsSonOf, Source: CategoryCharacters, Target: CategoryCharacters, SourceRole: "Child", TargetRole: "Parent"},
	{Type: RelIsDaughterOf, Source: CategoryCharacters, Target: CategoryCharacters, SourceRole: "Child", TargetRole: "Parent"},
	{Type: RelIsSpouseOf, Source: CategoryCharacters, Target: CategoryCharacters, SourceRole: "Spouse", TargetRole: "Spouse"},
	{Type: RelIsBrotherOf, Source: CategoryCharacters, Target: CategoryCharacters, SourceRole: "Sibling", TargetRole: "Sibling"},
	{Type: RelIsSisterOf, Source: CategoryCharacters, Target: CategoryCharacters, SourceRole: "Sibling", TargetRole: "Sibling"},
	{Type: RelIsFatherOf, Source: CategoryCharacters, Target: CategoryCharacters, SourceRole: "Parent", TargetRole: "Child"},
	{Type: RelIsMotherOf, Source: CategoryCharacters, Target: CategoryCharacters, SourceRole: "Parent", TargetRole: "Child"},
	{Type: RelLivesIn, Source: CategoryCharacters, Target: CategoryCities, SourceRole: "Resident", TargetRole: "City"},
	{Type: RelIsCitizenType, Source: CategoryCharacters, Target: CategoryCitizenTypes, SourceRole: "Citizen", TargetRole: "CitizenType"},
	{Type: RelUses, Source: CategoryCharacters, Target: CategoryTools, SourceRole: "User", TargetRole: "Tool", Derived: true},
	{Type: RelRequires, Source: CategoryTools, Target: CategoryTools, SourceRole: "Tool", TargetRole: "Prerequisite"},
	{Type: RelLocatedIn, Source: CategoryCities, Target: CategoryCountries, SourceRole: "City", TargetRole: "Country"},
	{Type: RelCapitalOf, Source: CategoryCities, Target: CategoryCountries, SourceRole: "Capital", TargetRole: "Country"},
	{Type: RelBorders, Source: CategoryCountries, Target: CategoryCountries, SourceRole: "Country", TargetRole: "Neighbour"},
	{Type: RelRecognizedIn, Source: CategoryCitizenTypes, Target: CategoryCountries, SourceRole: "CitizenType", TargetRole: "Country"},
}

func LookupRelation(t RelType) (Relation, bool) {
	for _, r := range Relations {
		if r.Type == t {
			return r, true
		}
	}
	return Relation{}, false
}

// DeclaredRelations returns the non-derived relations whose source is c, in
// table order.
func DeclaredRelations(c Category) []Relation {
	var out []Relation
	for _, r := range Relations {
		if r.Source == c && !r.Derived {
			out = append(out, r)
		}
	}
	return out
}
