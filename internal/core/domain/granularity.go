package domain

// Granularity names a predefined (chunk size, overlap) pair controlling
// the retrieval precision/cost trade-off. Presets are a convenience
// layer over the segmenter, not a separate code path.
type Granularity string

// Granularity presets, from maximum chunk count to maximum context.
const (
	GranularityUltraFine Granularity = "ultra_fine"
	GranularityFine      Granularity = "fine"
	GranularityMedium    Granularity = "medium"
	GranularityStandard  Granularity = "standard"
	GranularityCoarse    Granularity = "coarse"
)

// GranularityParams holds the concrete segmentation values of a preset.
type GranularityParams struct {
	// ChunkSize is the window length in runes.
	ChunkSize int

	// Overlap is the number of runes shared between adjacent chunks.
	Overlap int

	// Description explains the preset's intended use.
	Description string
}

// granularityParams maps each preset to its concrete values.
var granularityParams = map[Granularity]GranularityParams{
	GranularityUltraFine: {
		ChunkSize:   200,
		Overlap:     50,
		Description: "very short chunks for ultra-precise lookup",
	},
	GranularityFine: {
		ChunkSize:   400,
		Overlap:     100,
		Description: "short chunks for precise semantic search",
	},
	GranularityMedium: {
		ChunkSize:   600,
		Overlap:     150,
		Description: "balance between precision and context",
	},
	GranularityStandard: {
		ChunkSize:   1000,
		Overlap:     200,
		Description: "medium chunks for general use",
	},
	GranularityCoarse: {
		ChunkSize:   1500,
		Overlap:     300,
		Description: "large chunks for extended context",
	},
}

// Params returns the concrete segmentation values for the preset.
func (g Granularity) Params() (GranularityParams, error) {
	p, ok := granularityParams[g]
	if !ok {
		return GranularityParams{}, ErrUnknownGranularity
	}
	return p, nil
}

// Granularities returns all presets in increasing chunk-size order.
func Granularities() []Granularity {
	return []Granularity{
		GranularityUltraFine,
		GranularityFine,
		GranularityMedium,
		GranularityStandard,
		GranularityCoarse,
	}
}
