// Extension record-update and atomic-increment emission. Both
// collections are keyed by extension id and independent of each other
// and of the intro/resize/reset bound in extintro.go: an id present in
// either one gets its own intro immediately ahead of its payload, even
// if that id was already introduced earlier for a header patch.
package mdxlog

// emitExtRecUpdates walks ExtRecUpdates and ExtRecAtomics in that order
// and, for every non-nil entry, emits a fresh intro for its extension id
// followed by the payload buffer tagged EXT_REC_UPDATE or
// EXT_ATOMIC_INC respectively.
func (d *driver) emitExtRecUpdates() {
	d.emitExtRecArray(d.t.ExtRecUpdates, RecordExtRecUpdate)
	d.emitExtRecArray(d.t.ExtRecAtomics, RecordExtAtomicInc)
}

func (d *driver) emitExtRecArray(arr [][]byte, recType RecordType) {
	for extID, payload := range arr {
		if payload == nil {
			continue
		}
		resetID := d.extResetID(uint32(extID))
		d.emitExtIntro(uint32(extID), resetID)
		d.emit(recType, pad4(append([]byte(nil), payload...)))
	}
}

// extResetID returns ExtResetIDs[extID], or 0 if extID is out of range.
func (d *driver) extResetID(extID uint32) uint32 {
	if int(extID) < len(d.t.ExtResetIDs) {
		return d.t.ExtResetIDs[extID]
	}
	return 0
}
