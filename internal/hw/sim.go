package hw

import (
	"encoding/binary"
	"fmt"
	"sync"
)

// SimSize covers the control registers and the full mixer matrix.
const SimSize = MixerBase + MixerStride*PlaybackSourceOffset*mixerCellSize

// Write is one logged register write.
type Write struct {
	Offset uint32
	Size   int
	Value  uint32
}

func (w Write) String() string {
	return fmt.Sprintf("%d@%#x=%#x", w.Size, w.Offset, w.Value)
}

// Sim is an in-memory register file. Every write is appended to a log so
// callers can inspect the exact sequence the core issued.
type Sim struct {
	mu     sync.Mutex
	mem    []byte
	writes []Write
}

// NewSim creates a zeroed register file.
func NewSim() *Sim {
	return &Sim{mem: make([]byte, SimSize)}
}

func (s *Sim) check(offset uint32, size int) {
	if uint64(offset)+uint64(size) > uint64(len(s.mem)) {
		panic(fmt.Sprintf("hw: register access %#x+%d outside register window", offset, size))
	}
}

// Read2 reads a 16-bit register.
func (s *Sim) Read2(offset uint32) uint16 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.check(offset, 2)
	return binary.LittleEndian.Uint16(s.mem[offset:])
}

// Read4 reads a 32-bit register.
func (s *Sim) Read4(offset uint32) uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.check(offset, 4)
	return binary.LittleEndian.Uint32(s.mem[offset:])
}

// Read1 reads a single byte.
func (s *Sim) Read1(offset uint32) uint8 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.check(offset, 1)
	return s.mem[offset]
}

// Write1 writes a single byte.
func (s *Sim) Write1(offset uint32, value uint8) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.check(offset, 1)
	s.mem[offset] = value
	s.writes = append(s.writes, Write{Offset: offset, Size: 1, Value: uint32(value)})
}

// Write4 writes a 32-bit register.
func (s *Sim) Write4(offset uint32, value uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.check(offset, 4)
	binary.LittleEndian.PutUint32(s.mem[offset:], value)
	s.writes = append(s.writes, Write{Offset: offset, Size: 4, Value: value})
}

// SetStatus stores a status register value the way the card does. It is
// not logged, the core never writes the status register.
func (s *Sim) SetStatus(value uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	binary.LittleEndian.PutUint32(s.mem[StatusReg:], value)
}

// Writes returns a copy of the write log.
func (s *Sim) Writes() []Write {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Write(nil), s.writes...)
}

// WritesIn returns the logged writes whose offset lies in [lo, hi).
func (s *Sim) WritesIn(lo, hi uint32) []Write {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Write
	for _, w := range s.writes {
		if w.Offset >= lo && w.Offset < hi {
			out = append(out, w)
		}
	}
	return out
}

// ResetLog drops the write log, register contents are kept.
func (s *Sim) ResetLog() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes = nil
}
