// Digest computes a content-identity checksum of an emitted record
// stream, for tests and tooling that want to golden-compare exporter
// output without diffing raw bytes.
package mdxlog

import "golang.org/x/crypto/blake2b"

// Digest returns the blake2b-256 sum of appender's accumulated output,
// truncated to its first 8 bytes. It is a convenience for tests that
// assert "this transaction always serializes to the same bytes" without
// embedding the full expected buffer in the test.
func Digest(appender Appender) [8]byte {
	sum := blake2b.Sum256(appender.Output())
	var out [8]byte
	copy(out[:], sum[:8])
	return out
}
