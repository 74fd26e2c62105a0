// Appender is the external log-append sink. Export never
// performs I/O itself — it hands tagged records to an Appender and, at
// the end of the call, writes back the fsync and sync-transaction
// decisions the caller's real sink needs to act on.
package mdxlog

import "sync"

// Appender is the sink Export writes records into. Implementations must
// treat Append as append-only for the duration of one Export call; the
// driver holds exclusive access to it.
type Appender interface {
	// Append records one tagged payload. Payload length need not be
	// 4-aligned going in — every encoder in this package already pads
	// its own buffer before calling Append.
	Append(recType RecordType, payload []byte)

	// Output returns everything appended so far. Export uses it only to
	// detect whether any bytes have been emitted yet; implementations backed by a real file need not buffer the
	// full history, only track whether anything has been written.
	Output() []byte

	NewHighestModseq() uint64
	SetNewHighestModseq(v uint64)

	SetIndexSyncTransaction(v bool)
	SetTailOffsetChanged(v bool)
	SetWantFsync(v bool)
}

// Record is one tagged entry recorded by MemAppender, for tests that
// need to inspect emission order and record boundaries rather than
// concatenated raw bytes.
type Record struct {
	Type    RecordType
	Payload []byte
}

// MemAppender is a reference, in-memory Appender. It mirrors the
// tail-offset bookkeeping of folio's write.go (raw/append track a
// running tail) and the running-offset pattern of a WAL writer, but
// keeps the full record list too since it has no file to reread.
type MemAppender struct {
	mu sync.Mutex

	output  []byte
	records []Record

	newHighestModseq     uint64
	indexSyncTransaction bool
	tailOffsetChanged    bool
	wantFsync            bool
}

func (a *MemAppender) Append(recType RecordType, payload []byte) {
	a.mu.Lock()
	defer a.mu.Unlock()

	cp := make([]byte, len(payload))
	copy(cp, payload)
	a.records = append(a.records, Record{Type: recType, Payload: cp})
	a.output = append(a.output, cp...)
}

func (a *MemAppender) Output() []byte {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.output
}

// Records returns a copy of every record appended so far, in emission
// order.
func (a *MemAppender) Records() []Record {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]Record, len(a.records))
	copy(out, a.records)
	return out
}

func (a *MemAppender) NewHighestModseq() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.newHighestModseq
}

func (a *MemAppender) SetNewHighestModseq(v uint64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.newHighestModseq = v
}

func (a *MemAppender) SetIndexSyncTransaction(v bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.indexSyncTransaction = v
}

func (a *MemAppender) IndexSyncTransaction() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.indexSyncTransaction
}

func (a *MemAppender) SetTailOffsetChanged(v bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.tailOffsetChanged = v
}

func (a *MemAppender) TailOffsetChanged() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.tailOffsetChanged
}

func (a *MemAppender) SetWantFsync(v bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.wantFsync = v
}

func (a *MemAppender) WantFsync() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.wantFsync
}
