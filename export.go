// Export is the top-level driver: given a Transaction and an Appender,
// it emits every populated sub-collection as a tagged record in the
// fixed canonical order an on-disk replayer depends on, and returns a
// ChangeSummary describing what happened. It performs no I/O beyond
// calling the Appender.
package mdxlog

import "github.com/sirupsen/logrus"

// ExporterConfig configures an Exporter. The zero value is a usable
// default: the package default logger (warnings only), no tracing.
type ExporterConfig struct {
	// Logger receives one debug line per Export call plus warnings for
	// header auto-grow. Nil selects the package default logger, which
	// is set to warning level.
	Logger *logrus.Logger

	// TraceDepth is the number of recent Export calls the trace ring
	// buffer retains for post-mortem debugging. Zero disables tracing.
	TraceDepth int
}

// Exporter runs Export calls against a fixed configuration. It holds no
// per-transaction state between calls; every field it carries is either
// immutable configuration or a bounded diagnostic buffer.
type Exporter struct {
	cfg   ExporterConfig
	trace *traceBuffer
}

// NewExporter builds an Exporter from cfg.
func NewExporter(cfg ExporterConfig) *Exporter {
	e := &Exporter{cfg: cfg}
	if cfg.TraceDepth > 0 {
		e.trace = newTraceBuffer(cfg.TraceDepth)
	}
	return e
}

func (e *Exporter) logger() *logrus.Logger {
	if e.cfg.Logger != nil {
		return e.cfg.Logger
	}
	return defaultLogger
}

// driver holds the mutable state of one Export call: the transaction
// and appender it is serializing, the Exporter it was launched from,
// and the change/fsync masks accumulated along the way.
type driver struct {
	t        *Transaction
	appender Appender
	exporter *Exporter

	change ChangeSummary
	fsync  FsyncMask

	trace []RecordType
}

func (d *driver) emit(recType RecordType, payload []byte) {
	assertf(len(payload)%4 == 0, "record type %d payload length %d is not 4-byte aligned", recType, len(payload))
	d.appender.Append(recType, payload)
	d.trace = append(d.trace, recType)
}

// Export runs a single export of t against appender using e's
// configuration, returning the transaction's ChangeSummary.
func (e *Exporter) Export(t *Transaction, appender Appender) ChangeSummary {
	assertf(!(t.IndexDeleted && t.IndexUndeleted),
		"transaction has both index_deleted and index_undeleted set")
	assertf(t.KeywordUpdates == nil || len(t.KeywordUpdates) <= len(t.Keywords),
		"keyword_updates length %d exceeds keywords length %d", len(t.KeywordUpdates), len(t.Keywords))

	d := &driver{t: t, appender: appender, exporter: e}

	// Step 1: index-undeleted marker.
	if t.IndexUndeleted {
		d.emit(RecordIndexUndeleted, zero4)
	}

	// Step 2: extension intros/resizes/resets/header patches, ahead of
	// any record that might reference them.
	d.emitExtIntros()

	// Step 3: pre-header update.
	if t.PreHeader.Changed {
		d.emit(RecordHeaderUpdate, mainHeaderPatch(t.PreHeader))
	}

	// Step 4: anything emitted so far that isn't otherwise classified
	// counts as CHANGE_OTHERS.
	if len(appender.Output()) > 0 {
		d.change |= ChangeOthers
	}

	// Step 5: attribute updates.
	if t.AttributeUpdates != nil {
		t.FinalizeAttributeUpdates()
		d.change |= ChangeAttribute
		d.emit(RecordAttributeUpdate, t.AttributeUpdates)
	}

	// Step 6: appends.
	if len(t.Appends) > 0 {
		d.fsync |= FsyncAppends
		d.change |= ChangeAppend
		d.emit(RecordAppend, pad4(append([]byte(nil), t.Appends...)))
	}

	// Step 7: flag updates.
	if len(t.Updates) > 0 {
		d.fsync |= FsyncFlags
		d.change |= ChangeFlags
		d.emitFlagUpdates()
	}

	// Step 8: extension record updates and atomic increments.
	if hasAnyExtRecArray(t.ExtRecUpdates) {
		d.change |= ChangeOthers
	}
	if hasAnyExtRecArray(t.ExtRecAtomics) {
		d.change |= ChangeOthers
	}
	d.emitExtRecUpdates()

	// Step 9: keyword updates.
	if len(t.KeywordUpdates) > 0 {
		if d.emitKeywordUpdates() {
			d.fsync |= FsyncKeywords
			d.change |= ChangeKeywords
		}
	}

	// Step 10: modseq updates, kept almost last so the value reflects
	// every logical edit already emitted.
	if len(t.ModseqUpdates) > 0 {
		d.change |= ChangeModseq
		d.emit(RecordModseqUpdate, pad4(append([]byte(nil), t.ModseqUpdates...)))
	}

	// Step 11: expunges.
	if len(t.Expunges) > 0 {
		if t.Flags&FlagExternal != 0 {
			d.fsync |= FsyncExpunges
			d.change |= ChangeExpunge
		} else {
			d.change |= ChangeOthers
		}
		d.emit(RecordExpungeGUID, pad4(append([]byte(nil), t.Expunges...)))
	}

	// Step 12: post-header update.
	if t.PostHeader.Changed {
		d.change |= ChangeOthers
		d.emit(RecordHeaderUpdate, mainHeaderPatch(t.PostHeader))
	}

	// Step 13: index-deleted marker.
	if t.IndexDeleted {
		d.change |= ChangeOthers
		d.emit(RecordIndexDeleted, zero4)
	}

	assertf((len(appender.Output()) > 0) == (d.change != 0),
		"output emitted %v but change summary is %v", len(appender.Output()) > 0, d.change)

	appender.SetIndexSyncTransaction(t.SyncTransaction)
	appender.SetTailOffsetChanged(t.TailOffsetChanged)
	wantFsync := (t.IndexFsyncMask&d.fsync) != 0 || (t.Flags&FlagFsync) != 0
	appender.SetWantFsync(wantFsync)

	e.logger().WithFields(logrus.Fields{
		"records": len(d.trace),
		"change":  uint32(d.change),
		"fsync":   wantFsync,
	}).Debug("mdxlog: export complete")

	if e.trace != nil {
		e.trace.record(d.trace, d.change)
	}

	return d.change
}

// hasAnyExtRecArray reports whether arr has at least one non-nil entry.
func hasAnyExtRecArray(arr [][]byte) bool {
	for _, p := range arr {
		if p != nil {
			return true
		}
	}
	return false
}

var defaultExporter = NewExporter(ExporterConfig{})

// Export runs a single export of t against appender using package-level
// defaults (warning-level default logger, no tracing). Most callers that need logging or
// tracing should construct an Exporter via NewExporter instead.
func Export(t *Transaction, appender Appender) ChangeSummary {
	return defaultExporter.Export(t, appender)
}
