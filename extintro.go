// Extension intro/resize/reset emission and identity resolution. An
// intro record (re)introduces an extension into the log stream, binding
// its local id, size, alignment and reset id; every record that
// references an extension must have an intro for it earlier in the same
// byte stream.
package mdxlog

import "github.com/sirupsen/logrus"

// emitExtIntros walks every extension id mentioned by any of
// ExtResizes, ExtResets or ExtHdrUpdates, in ascending order, and emits
// an intro (and, where applicable, a reset and/or header patch) for
// each one that actually has something to say. ext_rec_updates and
// ext_rec_atomics are deliberately NOT part of this bound — they walk
// their own map and call emitExtIntro independently (see extrec.go),
// which can produce a second EXT_INTRO for an extension that also has
// pending record updates. That duplication is intentional: an intro
// only needs to precede use, not be unique.
func (d *driver) emitExtIntros() {
	t := d.t

	resizeCount := len(t.ExtResizes)
	resetCount := len(t.ExtResets)
	resetIDCount := len(t.ExtResetIDs)
	hdrCount := len(t.ExtHdrUpdates)

	extCount := resizeCount
	if resetCount > extCount {
		extCount = resetCount
	}
	if hdrCount > extCount {
		extCount = hdrCount
	}

	for extID := uint32(0); int(extID) < extCount; extID++ {
		var reset ExtReset
		if int(extID) < resetCount {
			reset = t.ExtResets[extID]
		}

		hasResize := int(extID) < resizeCount && t.ExtResizes[extID].NameSize > 0
		hasHdr := int(extID) < hdrCount && t.ExtHdrUpdates[extID].AllocSize > 0

		var hdrSize uint32
		if hasResize || reset.NewResetID != 0 || hasHdr {
			var resetID uint32
			if reset.NewResetID != 0 {
				// This extension is about to be reset right after its
				// intro: the intro itself still describes the
				// pre-reset generation.
				resetID = 0
			} else if int(extID) < resetIDCount {
				resetID = t.ExtResetIDs[extID]
			}
			hdrSize = d.emitExtIntro(extID, resetID)
		}

		if reset.NewResetID != 0 {
			assertf(int(extID) < resetIDCount && reset.NewResetID == t.ExtResetIDs[extID],
				"extension %d: ext_resets new_reset_id %d does not match ext_reset_ids %v",
				extID, reset.NewResetID, t.ExtResetIDs)
			d.emitExtReset(reset)
		}
		if hasHdr {
			d.emitExtHdrUpdate(t.ExtHdrUpdates[extID], hdrSize)
		}
	}
}

// emitExtIntro resolves extID's identity against the index map,
// constructs the intro record (from a resize directive if one is
// pending, else synthesized from the registry), serializes it, and
// returns the hdr_size it advertised so a following header patch can
// assert against it.
func (d *driver) emitExtIntro(extID, resetIDParam uint32) uint32 {
	t := d.t

	var idx uint32
	var idxOK bool
	if !t.Reset {
		idx, idxOK = t.Map.GetExtIdx(extID)
	}

	rext, ok := t.Registry.Get(extID)
	assertf(ok, "extension %d is not registered", extID)

	usingResize := int(extID) < len(t.ExtResizes) && t.ExtResizes[extID].NameSize > 0

	var intro ExtIntro
	if usingResize {
		// Use the caller's resize struct verbatim, only rebinding
		// identity: ext_id to the existing map slot (or "introduce by
		// name"), and name_size accordingly.
		intro = t.ExtResizes[extID]
		if idxOK {
			intro.ExtID = idx
			intro.NameSize = 0
		} else {
			intro.ExtID = extIntroAllOnes
			intro.NameSize = uint16(len(rext.Name))
		}
	} else {
		intro = ExtIntro{
			RecordSize:  rext.RecordSize,
			RecordAlign: rext.RecordAlign,
			Flags:       extIntroFlagNoShrink,
		}
		if idxOK {
			intro.ExtID = idx
			mext := t.Map.Extension(idx)
			intro.HdrSize = mext.HdrSize
			intro.NameSize = 0
		} else {
			intro.ExtID = extIntroAllOnes
			intro.HdrSize = rext.HdrSize
			intro.NameSize = uint16(len(rext.Name))
		}

		// Auto-grow: a pending header patch that reaches further than
		// the registered header size promotes hdr_size so the patch
		// fits inside what the intro advertises.
		if int(extID) < len(t.ExtHdrUpdates) {
			hu := t.ExtHdrUpdates[extID]
			if grown := extHdrUpdateGetSize(hu.Mask, hu.AllocSize); uint32(grown) > intro.HdrSize {
				d.exporter.logger().WithFields(logrus.Fields{
					"ext_id":       extID,
					"name":         rext.Name,
					"old_hdr_size": intro.HdrSize,
					"new_hdr_size": grown,
				}).Warn("mdxlog: auto-growing extension header size for pending patch")
				intro.HdrSize = uint32(grown)
			}
		}
	}

	assertf(intro.RecordSize != 0 || intro.HdrSize != 0,
		"extension %d intro has both record_size and hdr_size zero", extID)

	if resetIDParam != 0 {
		intro.ResetID = resetIDParam
	} else if idxOK {
		intro.ResetID = t.Map.Extension(idx).ResetID
	}

	buf := encodeExtIntro(intro)
	buf = append(buf, []byte(rext.Name)[:intro.NameSize]...)
	buf = pad4(buf)

	if d.appender.NewHighestModseq() == 0 && rext.isModseqExtension() {
		d.appender.SetNewHighestModseq(1)
	}

	d.emit(RecordExtIntro, buf)
	return intro.HdrSize
}

// emitExtReset emits the EXT_RESET record following an intro whose
// extension is about to discard its prior generation of data.
func (d *driver) emitExtReset(r ExtReset) {
	buf := appendUint32(nil, r.NewResetID)
	var preserve byte
	if r.PreserveData {
		preserve = 1
	}
	buf = append(buf, preserve, 0, 0, 0)
	d.emit(RecordExtReset, buf)
}

// emitExtHdrUpdate emits an extension's sparse header patch, asserting
// its runs fit inside the hdr_size the matching intro advertised.
func (d *driver) emitExtHdrUpdate(hu ExtHeaderUpdate, extHdrSize uint32) {
	buf, recType := extHeaderPatch(hu, extHdrSize)
	d.emit(recType, buf)
}

// encodeExtIntro serializes the fixed-width fields of an EXT_INTRO
// record, in wire order. The variable-length name and
// its padding are appended by the caller.
func encodeExtIntro(intro ExtIntro) []byte {
	buf := make([]byte, 0, 20)
	buf = appendUint32(buf, intro.ExtID)
	buf = appendUint32(buf, intro.ResetID)
	buf = appendUint32(buf, intro.HdrSize)
	buf = appendUint16(buf, intro.RecordSize)
	buf = appendUint16(buf, intro.RecordAlign)
	buf = appendUint16(buf, intro.Flags)
	buf = appendUint16(buf, intro.NameSize)
	return buf
}
