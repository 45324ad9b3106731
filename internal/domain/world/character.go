package world

import "strings"

type Character struct {
	Gender string   `json:"gender" yaml:"gender"`
	Age    *int     `json:"age" yaml:"age"`
	Hobby  []string `json:"hobby" yaml:"hobby"`

	IsSonOf       Names `json:"IS_SON_OF" yaml:"IS_SON_OF"`
	IsDaughterOf  Names `json:"IS_DAUGHTER_OF" yaml:"IS_DAUGHTER_OF"`
	IsSpouseOf    Names `json:"IS_SPOUSE_OF" yaml:"IS_SPOUSE_OF"`
	IsBrotherOf   Names `json:"IS_BROTHER_OF" yaml:"IS_BROTHER_OF"`
	IsSisterOf    Names `json:"IS_SISTER_OF" yaml:"IS_SISTER_OF"`
	IsFatherOf    Names `json:"IS_FATHER_OF" yaml:"IS_FATHER_OF"`
	IsMotherOf    Names `json:"IS_MOTHER_OF" yaml:"IS_MOTHER_OF"`
	LivesIn       Names `json:"LIVES_IN" yaml:"LIVES_IN"`
	IsCitizenType Names `json:"IS_CITIZEN_TYPE" yaml:"IS_CITIZEN_TYPE"`
}

func (c Character) Properties() map[string]any {
	props := map[string]any{}
	putString(props, "gender", c.Gender)
	putInt(props, "age", c.Age)
	putStrings(props, "hobby", c.Hobby)
	return props
}

func (c Character) Links() map[RelType]Names {
	links := map[RelType]Names{}
	putLinks(links, RelIsSonOf, c.IsSonOf)
	putLinks(links, RelIsDaughterOf, c.IsDaughterOf)
	putLinks(links, RelIsSpouseOf, c.IsSpouseOf)
	putLinks(links, RelIsBrotherOf, c.IsBrotherOf)
	putLinks(links, RelIsSisterOf, c.IsSisterOf)
	putLinks(links, RelIsFatherOf, c.IsFatherOf)
	putLinks(links, RelIsMotherOf, c.IsMotherOf)
	putLinks(links, RelLivesIn, c.LivesIn)
	putLinks(links, RelIsCitizenType, c.IsCitizenType)
	return links
}

// HobbyTools returns the tool name each hobby refers to: its first word.
// A hobby written as "fishing rod repair" names the tool "fishing".
func (c Character) HobbyTools() []string {
	out := make([]string, 0, len(c.Hobby))
	for _, h := range c.Hobby {
		fields := strings.Fields(h)
		if len(fields) == 0 {
			continue
		}
		out = append(out, fields[0])
	}
	return out
}
