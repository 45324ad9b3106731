package world

// CitizenType is a social class or legal status a character can hold.
type CitizenType struct {
	Description string   `json:"description" yaml:"description"`
	Rank        *int     `json:"rank" yaml:"rank"`
	Privileges  []string `json:"privileges" yaml:"privileges"`

	RecognizedIn Names `json:"RECOGNIZED_IN" yaml:"RECOGNIZED_IN"`
}

func (c CitizenType) Properties() map[string]any {
	props := map[string]any{}
	putString(props, "description", c.Description)
	putInt(props, "rank", c.Rank)
	putStrings(props, "privileges", c.Privileges)
	return props
}

func (c CitizenType) Links() map[RelType]Names {
	links := map[RelType]Names{}
	putLinks(links, RelRecognizedIn, c.RecognizedIn)
	return links
}
