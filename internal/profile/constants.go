package profile

// Profile defaults
const (
	DefaultSampleRate = 48000
	DefaultBlockSize  = 1024 // Bytes, a 256-sample period
)
