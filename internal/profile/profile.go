// Package profile reads routing profiles: the card model, clock settings
// and the channels to open, stored as yaml.
package profile

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"strings"

	"github.com/tphakala/go-hdspe"
	"github.com/tphakala/go-hdspe/internal/ports"
	"gopkg.in/yaml.v2"
)

// ErrInvalidProfile indicates a profile that cannot be applied.
var ErrInvalidProfile = errors.New("invalid profile")

// Profile is one routing setup.
type Profile struct {
	Device   Device    `yaml:"device"`
	LogLevel string    `yaml:"log_level"`
	Channels []Channel `yaml:"channels"`
}

// Device holds the card settings.
type Device struct {
	Model       string `yaml:"model"`
	SampleRate  uint32 `yaml:"sample_rate"`
	BlockSize   uint32 `yaml:"block_size"`
	MaxChannels int    `yaml:"max_channels"`
}

// Channel is one stream to open.
type Channel struct {
	Name      string   `yaml:"name"`
	Direction string   `yaml:"direction"`
	Ports     []string `yaml:"ports"`
	Channels  int      `yaml:"channels"`
	Volume    *Volume  `yaml:"volume"`
}

// Volume is a left/right pair on the 0-100 scale.
type Volume struct {
	Left  int `yaml:"left"`
	Right int `yaml:"right"`
}

// Default returns the settings used for anything a profile leaves out.
func Default() *Profile {
	return &Profile{
		Device: Device{
			Model:      "raydat",
			SampleRate: DefaultSampleRate,
			BlockSize:  DefaultBlockSize,
		},
		LogLevel: "info",
	}
}

// Read loads a profile file on top of the defaults. A leading "~/" is
// resolved against the home directory.
func Read(fileName string) (*Profile, error) {
	filePath, err := resolveHomeDirPath(fileName)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open profile: %w", err)
	}
	defer f.Close()

	slog.Debug("reading profile", "path", filePath)
	return Decode(f)
}

// Decode parses and validates a yaml profile.
func Decode(r io.Reader) (*Profile, error) {
	p := Default()

	decoder := yaml.NewDecoder(r)
	if err := decoder.Decode(p); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %w", ErrInvalidProfile, err)
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func resolveHomeDirPath(testPath string) (string, error) {
	if !strings.HasPrefix(testPath, "~/") {
		return testPath, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not find user home dir: %w", err)
	}
	return path.Join(homeDir, testPath[2:]), nil
}

// Validate checks every field that names a model, port, direction or
// level.
func (p *Profile) Validate() error {
	model, err := ParseModel(p.Device.Model)
	if err != nil {
		return err
	}
	if _, err := p.Level(); err != nil {
		return err
	}
	if p.Device.MaxChannels < 0 {
		return fmt.Errorf("%w: max_channels must not be negative", ErrInvalidProfile)
	}

	for i, ch := range p.Channels {
		if _, err := ch.Dir(); err != nil {
			return fmt.Errorf("channel %d: %w", i, err)
		}
		if _, err := ch.Mask(model); err != nil {
			return fmt.Errorf("channel %d: %w", i, err)
		}
		if ch.Channels < 0 {
			return fmt.Errorf("channel %d: %w: negative channel count", i, ErrInvalidProfile)
		}
		if v := ch.Volume; v != nil && (v.Left < 0 || v.Left > 100 || v.Right < 0 || v.Right > 100) {
			return fmt.Errorf("channel %d: %w: volume must be 0-100", i, ErrInvalidProfile)
		}
	}
	return nil
}

// Model returns the parsed card model.
func (p *Profile) Model() hdspe.Model {
	m, _ := ParseModel(p.Device.Model)
	return m
}

// Level returns the parsed log level.
func (p *Profile) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(p.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("%w: log level %q", ErrInvalidProfile, p.LogLevel)
	}
	return level, nil
}

// ParseModel maps a model name to a card model. Names are case
// insensitive.
func ParseModel(name string) (hdspe.Model, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "aio":
		return hdspe.ModelAIO, nil
	case "raydat":
		return hdspe.ModelRayDAT, nil
	case "aes":
		return hdspe.ModelAES, nil
	case "madi":
		return hdspe.ModelMADI, nil
	default:
		return 0, fmt.Errorf("%w: unknown model %q", ErrInvalidProfile, name)
	}
}

// Catalog returns the port family of a model.
func Catalog(m hdspe.Model) ports.Catalog {
	switch m {
	case hdspe.ModelAIO:
		return ports.CatalogAIO
	case hdspe.ModelRayDAT:
		return ports.CatalogRayDAT
	default:
		return ports.CatalogNone
	}
}

// ParseMask joins named port groups of a model into one mask.
func ParseMask(m hdspe.Model, names []string) (hdspe.PortMask, error) {
	if len(names) == 0 {
		return 0, fmt.Errorf("%w: no ports", ErrInvalidProfile)
	}

	var mask hdspe.PortMask
	for _, name := range names {
		p, ok := ports.Lookup(Catalog(m), name)
		if !ok {
			return 0, fmt.Errorf("%w: %s has no port %q", ErrInvalidProfile, m, name)
		}
		mask |= p.Mask
	}
	return mask, nil
}

// ParseDirection maps "playback"/"play" and "capture"/"record"/"rec".
func ParseDirection(s string) (hdspe.Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "playback", "play":
		return hdspe.Playback, nil
	case "capture", "record", "rec":
		return hdspe.Capture, nil
	default:
		return 0, fmt.Errorf("%w: unknown direction %q", ErrInvalidProfile, s)
	}
}

// Mask returns the channel's port mask on a model.
func (c Channel) Mask(m hdspe.Model) (hdspe.PortMask, error) {
	return ParseMask(m, c.Ports)
}

// Dir returns the channel's direction.
func (c Channel) Dir() (hdspe.Direction, error) {
	return ParseDirection(c.Direction)
}
