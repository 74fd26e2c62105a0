// Sparse header-patch encoding: both the main
// index header and an extension header are patched the same way — scan
// a dirty-byte mask, collapse contiguous dirty runs into (offset, size,
// bytes) segments, and pad the result to 4-byte alignment. Extensions
// additionally choose between 16-bit and 32-bit offset/size fields
// depending on header size.
package mdxlog

// encodeHeaderPatch scans mask for contiguous nonzero runs and emits
// each as an (offset, size) pair (16-bit unless wide) followed by the
// corresponding slice of data. maxSize bounds where a run is allowed to
// end — exceeding it is a precondition violation.
//
// The scan bound is inclusive of len(mask) itself (offset runs from 0
// through len(mask)), exactly as the source's `offset <= alloc_size`
// loop: that extra iteration is what closes a run touching the last
// byte of the mask.
func encodeHeaderPatch(data, mask []byte, maxSize int, wide bool) []byte {
	buf := make([]byte, 0, 256)
	allocSize := len(mask)
	started := false
	var runStart int

	for offset := 0; offset <= allocSize; offset++ {
		dirty := offset < allocSize && mask[offset] != 0
		if dirty {
			if !started {
				runStart = offset
				started = true
			}
			continue
		}
		if !started {
			continue
		}

		runSize := offset - runStart
		assertf(runStart+runSize <= maxSize,
			"header patch run [%d,%d) exceeds header size %d", runStart, runStart+runSize, maxSize)

		if wide {
			buf = appendUint32(buf, uint32(runStart))
			buf = appendUint32(buf, uint32(runSize))
		} else {
			buf = appendUint16(buf, uint16(runStart))
			buf = appendUint16(buf, uint16(runSize))
		}
		buf = append(buf, data[runStart:runStart+runSize]...)
		started = false
	}

	return pad4(buf)
}

// extHdrUpdateGetSize returns the largest index i such that mask[i-1]
// != 0, or 0 if the mask (over its first allocSize bytes) is entirely
// zero. A mask shorter than allocSize is scanned only up to its own
// length. Used by the intro emitter to auto-grow an extension's
// advertised header size to cover a pending patch.
func extHdrUpdateGetSize(mask []byte, allocSize int) int {
	if allocSize > len(mask) {
		allocSize = len(mask)
	}
	for i := allocSize; i > 0; i-- {
		if mask[i-1] != 0 {
			return i
		}
	}
	return 0
}

// mainHeaderPatch encodes a HeaderChange using the main index's
// always-16-bit form.
func mainHeaderPatch(hc HeaderChange) []byte {
	return encodeHeaderPatch(hc.Data, hc.Mask, len(hc.Data), false)
}

// extHeaderPatch encodes an ExtHeaderUpdate, selecting the 32-bit wire
// form once AllocSize reaches 64KiB.
func extHeaderPatch(hu ExtHeaderUpdate, extHdrSize uint32) ([]byte, RecordType) {
	wide := hu.AllocSize >= 65536
	buf := encodeHeaderPatch(hu.Data, hu.Mask, int(extHdrSize), wide)
	if wide {
		return buf, RecordExtHdrUpdate32
	}
	return buf, RecordExtHdrUpdate
}
