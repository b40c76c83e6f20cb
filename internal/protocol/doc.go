// Package protocol owns the BITS transmission contract.
//
// Ownership boundary:
// - hex text to byte buffer (this package)
// - bit cursor and varint primitives (bits)
// - packet grammar, evaluation and tree views (packet)
// - the Transmission facade tying the stages together (this package)
package protocol
