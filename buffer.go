// Little-endian field encoding and 4-byte alignment helpers shared by
// every record encoder. Every emitted record's payload length must be a
// multiple of 4; pad4 is the single place that invariant is enforced.
package mdxlog

import "encoding/binary"

func appendUint16(buf []byte, v uint16) []byte {
	var tmp [2]byte
	binary.LittleEndian.PutUint16(tmp[:], v)
	return append(buf, tmp[:]...)
}

func appendUint32(buf []byte, v uint32) []byte {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	return append(buf, tmp[:]...)
}

// pad4 appends zero bytes until len(buf) is a multiple of 4.
func pad4(buf []byte) []byte {
	if rem := len(buf) % 4; rem != 0 {
		buf = append(buf, make([]byte, 4-rem)...)
	}
	return buf
}

// zero4 is the fixed 4-byte zero payload used by the index-deleted and
// index-undeleted marker records.
var zero4 = []byte{0, 0, 0, 0}
