// Package bus drives the serial link between a host and a panel controller.
//
// A Transport owns the SPI connection together with the data/command select
// line (DC), the reset line (RST) and an optional manually driven chip select
// (CS). Every byte goes out in one of two phases:
//
//	DC low  → command phase, bytes are opcodes (and command-mode parameters)
//	DC high → data phase, bytes are payload
//
// The select line is set before the first byte of a phase and held for the
// whole phase. Composite operations run under the transport's exclusive lock,
// so the phases of two callers never interleave.
//
// # Transfer limits
//
// Some hosts cap the size of a single transfer; Linux spidev defaults to 4096
// bytes. The limit comes from Opts.MaxTxSize, or from the connection itself
// when it implements conn.Limits. When neither knows a limit, data goes out
// one byte per transfer.
//
// # Scheduling
//
// Delays and the gaps between chunks go through a Scheduler. Blocking holds
// the caller for the full duration; Cooperative suspends on the context and
// yields between chunks. Cancelling a Cooperative operation half way leaves
// the panel in an unknown phase; re-initialise the panel before reusing it.
package bus
