package mdxlog

import "testing"

// TestEmitExtRecUpdatesEmitsIntroAheadOfPayload verifies invariant 5
// for the record-update path specifically: an EXT_REC_UPDATE for
// extension X is always preceded by an EXT_INTRO for X, even when that
// extension has no entry in ExtResizes/ExtResets/ExtHdrUpdates at all.
func TestEmitExtRecUpdatesEmitsIntroAheadOfPayload(t *testing.T) {
	tr := &Transaction{
		Registry:      NewStaticRegistry(NewRegisteredExtension("vsize", 8, 8, 0)),
		Map:           NewStaticIndexMap(),
		ExtRecUpdates: [][]byte{{1, 2, 3, 4}},
	}
	d, a := newTestDriver(t, tr)

	d.emitExtRecUpdates()

	recs := a.Records()
	if len(recs) != 2 {
		t.Fatalf("got %d records, want 2 (intro + rec update)", len(recs))
	}
	if recs[0].Type != RecordExtIntro {
		t.Errorf("first record type = %v, want RecordExtIntro", recs[0].Type)
	}
	if recs[1].Type != RecordExtRecUpdate {
		t.Errorf("second record type = %v, want RecordExtRecUpdate", recs[1].Type)
	}
}

func TestEmitExtRecUpdatesAtomicIncUsesDistinctTag(t *testing.T) {
	tr := &Transaction{
		Registry:      NewStaticRegistry(NewRegisteredExtension("vsize", 8, 8, 0)),
		Map:           NewStaticIndexMap(),
		ExtRecAtomics: [][]byte{{9, 9, 9, 9}},
	}
	d, a := newTestDriver(t, tr)

	d.emitExtRecUpdates()

	recs := a.Records()
	if len(recs) != 2 || recs[1].Type != RecordExtAtomicInc {
		t.Fatalf("records = %+v, want [intro, RecordExtAtomicInc]", recs)
	}
}

// TestEmitExtRecUpdatesSkipsNilEntries checks that an extension id with
// a nil (not-created) entry in ExtRecUpdates is skipped entirely,
// distinguishing "no update for this id" from "an empty update buffer".
func TestEmitExtRecUpdatesSkipsNilEntries(t *testing.T) {
	tr := &Transaction{
		Registry:      NewStaticRegistry(NewRegisteredExtension("a", 4, 4, 0), NewRegisteredExtension("b", 4, 4, 0)),
		Map:           NewStaticIndexMap(),
		ExtRecUpdates: [][]byte{nil, {1, 2, 3, 4}},
	}
	d, a := newTestDriver(t, tr)

	d.emitExtRecUpdates()

	recs := a.Records()
	if len(recs) != 2 {
		t.Fatalf("got %d records, want 2 (intro + rec update for ext 1 only)", len(recs))
	}
	extID := decodeUint32(recs[0].Payload[0:4])
	if extID != extIntroAllOnes {
		t.Errorf("intro ext_id = %#x, want ALL_ONES (ext 1 is new)", extID)
	}
}
