package hdspe

import "errors"

// Common errors returned by the device and its channels.
var (
	// ErrInvalidConfig indicates invalid device configuration parameters.
	ErrInvalidConfig = errors.New("invalid device configuration")

	// ErrUnsupportedDevice indicates the card model cannot program rates or
	// periods.
	ErrUnsupportedDevice = errors.New("unsupported device")

	// ErrAllocation indicates a channel could not be opened. It wraps the
	// specific cause.
	ErrAllocation = errors.New("channel allocation failed")

	// ErrInvalidPorts indicates a port mask that is empty, mixes catalogs,
	// belongs to another model or cannot serve the requested direction.
	ErrInvalidPorts = errors.New("invalid port mask")

	// ErrPortsBusy indicates the slots of a port mask are already owned by
	// another channel of the same direction.
	ErrPortsBusy = errors.New("ports already in use")

	// ErrTooManyChannels indicates the device has no free channel.
	ErrTooManyChannels = errors.New("too many channels")

	// ErrNilPipeline indicates a channel was opened without a pipeline.
	ErrNilPipeline = errors.New("pipeline is nil")

	// ErrUnsupportedFormat indicates a format outside the channel caps.
	ErrUnsupportedFormat = errors.New("unsupported sample format")

	// ErrNotRunning indicates a sample transfer on a stopped channel.
	ErrNotRunning = errors.New("channel not running")

	// ErrBufferOffset indicates a pipeline offset outside the channel
	// buffer.
	ErrBufferOffset = errors.New("pipeline offset outside channel buffer")

	// ErrClosed indicates use of a closed channel.
	ErrClosed = errors.New("channel closed")
)
