// Package comm implements the L0 link between the host and the board
// firmware over a serial line.
//
// Each side numbers its packets with a Seq. A handshake exchanges the
// initial numbers: the side that wants to (re)synchronize sends
// 0xff followed by its Seq, the other answers 0xfe and its own Seq.
// A packet is then framed as
//
//	seq | code (bit 7 event, bits 4-6 length) | [length] | data
//
// where a length of 7 in the code byte means a length byte follows.
// Replies echo the request Seq as the first data byte and set bit 0 of
// the code on failure. Any out-of-order byte or a stalled frame
// restarts the handshake. There is no checksum; enable parity on the
// serial port when the line is noisy.
package comm
