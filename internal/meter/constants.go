package meter

// Floor is the lowest level reported, the noise floor of 24-bit audio.
const Floor = -144.0

// Spectrum analysis
const (
	minSpectrumSize = 16 // Shortest block worth transforming
)
