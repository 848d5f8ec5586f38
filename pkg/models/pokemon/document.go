package pokemon

// ArtworkDocument is the part of the REST pokemon document used for the images.
type ArtworkDocument struct {
	ID      int     `json:"id"`
	Name    string  `json:"name"`
	Sprites Sprites `json:"sprites"`
}

// Sprites of a pokemon, only the fields we read.
type Sprites struct {
	FrontDefault string                  `json:"front_default"`
	Other        map[string]OtherSprites `json:"other"`
}

// OtherSprites holds the alternate artwork sets, keyed by set name.
type OtherSprites struct {
	FrontDefault string `json:"front_default"`
}

// Key of the high resolution artwork set.
const OfficialArtwork = "official-artwork"

// OfficialArtworkURL returns the high resolution artwork, empty if missing.
func (d *ArtworkDocument) OfficialArtworkURL() string {
	return d.Sprites.Other[OfficialArtwork].FrontDefault
}
