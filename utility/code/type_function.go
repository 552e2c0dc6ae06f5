package code

type Function struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Arguments   []*Argument `json:"arguments"`
	Returns     *string     `json:"returns"`
}

type Argument struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}
