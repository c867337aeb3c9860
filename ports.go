package hdspe

import (
	"github.com/tphakala/go-hdspe/internal/ports"
)

// PortMask is a set of physical port groups a channel is bound to.
type PortMask = ports.Mask

// AIO port groups.
const (
	PortAIOLine  = ports.AIOLine
	PortAIOPhone = ports.AIOPhone
	PortAIOAES   = ports.AIOAES
	PortAIOSPDIF = ports.AIOSPDIF
	PortAIOADAT  = ports.AIOADAT

	PortAIOAll       = ports.AIOAll
	PortAIOAllRecord = ports.AIOAllRecord
)

// RayDAT port groups.
const (
	PortRayAES   = ports.RayAES
	PortRaySPDIF = ports.RaySPDIF
	PortRayADAT1 = ports.RayADAT1
	PortRayADAT2 = ports.RayADAT2
	PortRayADAT3 = ports.RayADAT3
	PortRayADAT4 = ports.RayADAT4

	PortRayAll = ports.RayAll
)

// SlotRange is a contiguous run of slots in the shared ring buffer.
type SlotRange = ports.Layout

// Layout returns the slots a port mask occupies at the given sample rate.
func Layout(mask PortMask, rate uint32) SlotRange {
	return ports.Range(ports.AdatWidth(rate), mask)
}
