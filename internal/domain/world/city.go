package world

type City struct {
	Description string   `json:"description" yaml:"description"`
	Latitude    *float64 `json:"latitude" yaml:"latitude"`
	Longitude   *float64 `json:"longitude" yaml:"longitude"`
	Population  *int     `json:"population" yaml:"population"`

	LocatedIn Names `json:"LOCATED_IN" yaml:"LOCATED_IN"`
	CapitalOf Names `json:"CAPITAL_OF" yaml:"CAPITAL_OF"`
}

func (c City) Properties() map[string]any {
	props := map[string]any{}
	putString(props, "description", c.Description)
	putFloat(props, "latitude", c.Latitude)
	putFloat(props, "longitude", c.Longitude)
	putInt(props, "population", c.Population)
	return props
}

func (c City) Links() map[RelType]Names {
	links := map[RelType]Names{}
	putLinks(links, RelLocatedIn, c.LocatedIn)
	putLinks(links, RelCapitalOf, c.CapitalOf)
	return links
}
