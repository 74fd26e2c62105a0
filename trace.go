// Bounded debug ring buffer: retains the record-type sequence and
// change summary of the last few Export calls for post-mortem
// inspection of a misbehaving replayer. Never consulted by Export
// itself — a diagnostic appendage, not part of the binary contract.
package mdxlog

import (
	"sync"

	json "github.com/goccy/go-json"
	"github.com/klauspost/compress/zstd"
)

// zstdEncoder is shared across every trace entry — construction is
// expensive and the encoder is documented safe for concurrent use.
// SpeedFastest is deliberate: tracing runs on every Export call (hot
// path) while a trace dump is read only during debugging (cold path).
var zstdEncoder, _ = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedFastest))

// traceDumpThreshold is the serialized-entry size, in bytes, above
// which traceEntry.dump compresses rather than stores raw JSON.
const traceDumpThreshold = 512

// traceEntry is one recorded Export call.
type traceEntry struct {
	Records []RecordType  `json:"records"`
	Change  ChangeSummary `json:"change"`
}

// traceBuffer is a fixed-capacity ring of the most recent traceEntry
// values, each pre-marshaled to a JSON (optionally zstd-compressed)
// blob so Dump never re-touches live Export state.
type traceBuffer struct {
	mu    sync.Mutex
	depth int
	next  int
	count int
	blobs [][]byte
}

func newTraceBuffer(depth int) *traceBuffer {
	return &traceBuffer{depth: depth, blobs: make([][]byte, depth)}
}

func (b *traceBuffer) record(records []RecordType, change ChangeSummary) {
	entry := traceEntry{Records: append([]RecordType(nil), records...), Change: change}
	data, err := json.Marshal(entry)
	if err != nil {
		// Marshaling a plain struct of uint8s/a uint32 cannot fail;
		// if it ever does, drop the trace entry rather than panic a
		// caller's Export call over a diagnostics-only path.
		return
	}
	if len(data) >= traceDumpThreshold {
		data = zstdEncoder.EncodeAll(data, nil)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.blobs[b.next] = data
	b.next = (b.next + 1) % b.depth
	if b.count < b.depth {
		b.count++
	}
}

// Dump returns the raw (possibly zstd-compressed) JSON blobs currently
// held, oldest first. Callers that need structured entries back should
// decompress (zstd magic-number prefixed) and json.Unmarshal each blob
// into a traceEntry-shaped value of their own.
func (b *traceBuffer) Dump() [][]byte {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([][]byte, 0, b.count)
	start := (b.next - b.count + b.depth) % b.depth
	for i := 0; i < b.count; i++ {
		out = append(out, b.blobs[(start+i)%b.depth])
	}
	return out
}

// Trace returns the Exporter's trace dump, or nil if tracing is
// disabled (TraceDepth == 0).
func (e *Exporter) Trace() [][]byte {
	if e.trace == nil {
		return nil
	}
	return e.trace.Dump()
}
