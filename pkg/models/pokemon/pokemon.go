package pokemon

// SpeciesMatch is a single element of the species query result.
type SpeciesMatch struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Pokemon is the resolved record, ready to be displayed.
type Pokemon struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	SpriteURL string `json:"spriteUrl"`
}
