package lookupservice

// Stage of a single lookup.
// Idle → Validating → ResolvingSpecies → ResolvingArtwork → Done, or ResolvingSpecies → Failed.
type Stage int

const (
	StageIdle Stage = iota
	StageValidating
	StageResolvingSpecies
	StageResolvingArtwork
	StageDone
	StageFailed
)

var stageNames = [...]string{
	StageIdle:             "idle",
	StageValidating:       "validating",
	StageResolvingSpecies: "resolving_species",
	StageResolvingArtwork: "resolving_artwork",
	StageDone:             "done",
	StageFailed:           "failed",
}

func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return "unknown"
	}
	return stageNames[s]
}
