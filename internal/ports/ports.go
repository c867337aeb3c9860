// Package ports describes the physical port groups of the HDSPe AIO and
// RayDAT cards and resolves where each group lives in the shared DMA
// buffer for a given ADAT stream width.
package ports

import (
	"strings"
)

// Mask is a set of port groups. A channel is bound to one mask for its
// whole lifetime.
type Mask uint32

// AIO port groups.
const (
	AIOLine Mask = 1 << iota
	AIOPhone
	AIOAES
	AIOSPDIF
	AIOADAT
)

// RayDAT port groups.
const (
	RayAES Mask = 1 << (iota + 5)
	RaySPDIF
	RayADAT1
	RayADAT2
	RayADAT3
	RayADAT4
)

// Aggregate masks.
const (
	AIOAllRecord = AIOLine | AIOAES | AIOSPDIF | AIOADAT
	AIOAll       = AIOAllRecord | AIOPhone
	RayAll       = RayAES | RaySPDIF | RayADAT1 | RayADAT2 | RayADAT3 | RayADAT4
)

// Catalog is the port family of one card model. Masks never mix catalogs.
type Catalog int

const (
	CatalogNone Catalog = iota
	CatalogAIO
	CatalogRayDAT
)

func (c Catalog) String() string {
	switch c {
	case CatalogAIO:
		return "AIO"
	case CatalogRayDAT:
		return "RayDAT"
	default:
		return "none"
	}
}

// Catalog returns the catalog the mask belongs to, or CatalogNone when the
// mask is empty, carries unknown bits, or mixes both catalogs.
func (m Mask) Catalog() Catalog {
	aio := m&AIOAll != 0
	ray := m&RayAll != 0
	switch {
	case m&^(AIOAll|RayAll) != 0:
		return CatalogNone
	case aio && !ray:
		return CatalogAIO
	case ray && !aio:
		return CatalogRayDAT
	default:
		return CatalogNone
	}
}

// Valid reports whether the mask is non-empty and drawn from exactly one
// catalog.
func (m Mask) Valid() bool {
	return m.Catalog() != CatalogNone
}

func (m Mask) String() string {
	if m == 0 {
		return "none"
	}
	var names []string
	for _, p := range allPorts {
		if m&p.Mask != 0 {
			names = append(names, p.Name)
		}
	}
	if rest := m &^ (AIOAll | RayAll); rest != 0 {
		names = append(names, "unknown")
	}
	return strings.Join(names, "+")
}

// Port describes one physical port group.
type Port struct {
	Mask     Mask
	Name     string
	Catalog  Catalog
	Playback bool
	Capture  bool
}

var aioPorts = []Port{
	{AIOLine, "line", CatalogAIO, true, true},
	{AIOPhone, "phone", CatalogAIO, true, false},
	{AIOAES, "aes", CatalogAIO, true, true},
	{AIOSPDIF, "s/pdif", CatalogAIO, true, true},
	{AIOADAT, "adat", CatalogAIO, true, true},
}

var rayPorts = []Port{
	{RayAES, "aes", CatalogRayDAT, true, true},
	{RaySPDIF, "s/pdif", CatalogRayDAT, true, true},
	{RayADAT1, "adat1", CatalogRayDAT, true, true},
	{RayADAT2, "adat2", CatalogRayDAT, true, true},
	{RayADAT3, "adat3", CatalogRayDAT, true, true},
	{RayADAT4, "adat4", CatalogRayDAT, true, true},
}

var allPorts = append(append([]Port{}, aioPorts...), rayPorts...)

// Ports returns the port groups of a catalog in slot order.
func Ports(c Catalog) []Port {
	switch c {
	case CatalogAIO:
		return append([]Port(nil), aioPorts...)
	case CatalogRayDAT:
		return append([]Port(nil), rayPorts...)
	default:
		return nil
	}
}

// Lookup finds a port group of a catalog by name. Names are case
// insensitive and "spdif" is accepted for "s/pdif".
func Lookup(c Catalog, name string) (Port, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "spdif" {
		name = "s/pdif"
	}
	for _, p := range Ports(c) {
		if p.Name == name {
			return p, true
		}
	}
	return Port{}, false
}

// Capturable reports whether every port group in the mask can record.
func (m Mask) Capturable() bool {
	for _, p := range allPorts {
		if m&p.Mask != 0 && !p.Capture {
			return false
		}
	}
	return true
}
