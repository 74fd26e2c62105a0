package mdxlog

import (
	"bytes"
	"testing"
)

func TestTraceBufferRecordAndDumpOrdering(t *testing.T) {
	b := newTraceBuffer(2)
	b.record([]RecordType{RecordAppend}, ChangeAppend)
	b.record([]RecordType{RecordFlagUpdate}, ChangeFlags)
	b.record([]RecordType{RecordExpungeGUID}, ChangeExpunge)

	dump := b.Dump()
	if len(dump) != 2 {
		t.Fatalf("Dump() returned %d entries, want 2 (capacity)", len(dump))
	}
	// Oldest surviving entry first: the ChangeFlags call, then ChangeExpunge.
	if !bytes.Contains(dump[0], []byte(`"change":2`)) || !bytes.Contains(dump[1], []byte(`"change":4`)) {
		t.Errorf("Dump() = %q, want the ChangeFlags entry before the ChangeExpunge entry", dump)
	}
}

func TestTraceBufferEmptyDump(t *testing.T) {
	b := newTraceBuffer(4)
	if dump := b.Dump(); len(dump) != 0 {
		t.Errorf("Dump() on an unused buffer returned %d entries, want 0", len(dump))
	}
}

func TestExporterTraceDisabledByDefault(t *testing.T) {
	e := NewExporter(ExporterConfig{})
	if e.Trace() != nil {
		t.Error("Trace() should be nil when TraceDepth is 0")
	}
}

func TestExporterTraceRecordsExportCalls(t *testing.T) {
	e := NewExporter(ExporterConfig{TraceDepth: 4})
	a := &MemAppender{}
	e.Export(&Transaction{Appends: []byte{1, 2, 3, 4}}, a)

	if dump := e.Trace(); len(dump) != 1 {
		t.Errorf("Trace() returned %d entries, want 1", len(dump))
	}
}

func TestTraceBufferLargeEntryIsCompressed(t *testing.T) {
	b := newTraceBuffer(1)
	// []RecordType marshals as a base64 string, so 512 entries give a
	// JSON blob of about 700 bytes, above traceDumpThreshold.
	big := make([]RecordType, 512)
	for i := range big {
		big[i] = RecordAppend
	}
	b.record(big, ChangeAppend)

	dump := b.Dump()
	if len(dump) != 1 {
		t.Fatalf("Dump() returned %d entries, want 1", len(dump))
	}
	// A zstd frame starts with the magic number 0x28 0xB5 0x2F 0xFD.
	blob := dump[0]
	if len(blob) < 4 || blob[0] != 0x28 || blob[1] != 0xB5 || blob[2] != 0x2F || blob[3] != 0xFD {
		t.Errorf("large trace entry does not look zstd-compressed: % x", blob[:min(8, len(blob))])
	}
}
