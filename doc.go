// Package hdspe is the sample-routing core of the RME HDSPe AIO and RayDAT
// PCIe audio cards.
//
// The cards expose one DMA area per direction, split into 64 mono slots.
// Every physical port group (analog line, phones, AES, S/PDIF, ADAT banks)
// owns a fixed run of slots; how many slots an ADAT bank needs depends on
// the sample rate band. This package maps logical channels bound to a set
// of port groups onto those slots, moves interleaved 32-bit samples in and
// out of the shared ring, picks the nearest rate and period the clock
// generator supports, and programs the hardware mixer gains.
//
// # Features
//
//   - Deterministic slot layout for every port mask and ADAT width
//   - Wrap-safe multiplex / demultiplex between private interleaved buffers
//     and the shared slot ring
//   - Copy width narrowed to the negotiated channel count
//   - Nearest-match rate and period resolution with busy rejection
//   - Per-direction volume applied through the hardware gain matrix
//
// # Quick Start
//
//	dev, err := hdspe.New(&hdspe.Config{
//	    Model:     hdspe.ModelRayDAT,
//	    Registers: regs,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	ch, err := dev.Open(hdspe.Playback, hdspe.PortRayADAT1, pipeline)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	rate, _ := ch.SetRate(96000)       // 96000
//	block, _ := ch.SetBlockSize(1000)  // 1024 bytes, a 256-sample period
//	log.Printf("running at %d Hz, %d-byte blocks", rate, block)
//	_ = ch.Start()
//
//	// Once per hardware period:
//	dev.Interrupt()
//
// # Concurrency
//
// A Device serializes all configuration, run state changes and sample
// copies behind one mutex. Interrupt releases the mutex before it calls
// into a channel's Pipeline, so a pipeline may call back into the channel
// from its Interrupt method.
//
// # Busy rejection
//
// Rate and period changes are refused while any channel runs. The call
// then returns the value currently in effect and a nil error; callers
// retry after stopping their streams.
package hdspe
