package world

type Tool struct {
	Type        string `json:"type" yaml:"type"`
	Alias       Alias  `json:"alias" yaml:"alias"`
	Explanation string `json:"explanation" yaml:"explanation"`
	HowTo       string `json:"how_to" yaml:"how_to"`

	Requires Names `json:"REQUIRES" yaml:"REQUIRES"`
}

func (t Tool) Properties() map[string]any {
	props := map[string]any{}
	putString(props, "type", t.Type)
	if v := t.Alias.Value(); v != nil {
		props["alias"] = v
	}
	putString(props, "explanation", t.Explanation)
	putString(props, "how_to", t.HowTo)
	return props
}

func (t Tool) Links() map[RelType]Names {
	links := map[RelType]Names{}
	putLinks(links, RelRequires, t.Requires)
	return links
}
