package world

type Country struct {
	Description string   `json:"description" yaml:"description"`
	Capital     string   `json:"capital" yaml:"capital"`
	Language    string   `json:"language" yaml:"language"`
	Latitude    *float64 `json:"latitude" yaml:"latitude"`
	Longitude   *float64 `json:"longitude" yaml:"longitude"`

	Borders Names `json:"BORDERS" yaml:"BORDERS"`
}

func (c Country) Properties() map[string]any {
	props := map[string]any{}
	putString(props, "description", c.Description)
	putString(props, "capital", c.Capital)
	putString(props, "language", c.Language)
	putFloat(props, "latitude", c.Latitude)
	putFloat(props, "longitude", c.Longitude)
	return props
}

func (c Country) Links() map[RelType]Names {
	links := map[RelType]Names{}
	putLinks(links, RelBorders, c.Borders)
	return links
}
