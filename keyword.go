// Keyword ADD/REMOVE emission: each keyword-update entry can carry an
// add sequence-set, a remove sequence-set, or both, and is resolved
// against the transaction's keyword name table by index.
package mdxlog

// emitKeywordUpdates walks KeywordUpdates in order, resolving entry i
// against Keywords[i], and emits one KEYWORD_UPDATE record per nonempty
// add/remove sequence set (add before remove when both are present). It
// returns true if any record was emitted, so the driver can gate
// CHANGE_KEYWORDS / FSYNC_KEYWORDS on actual output rather than on
// KeywordUpdates being merely present.
func (d *driver) emitKeywordUpdates() bool {
	t := d.t
	assertf(len(t.KeywordUpdates) <= len(t.Keywords),
		"keyword_updates length %d exceeds keywords length %d", len(t.KeywordUpdates), len(t.Keywords))

	emitted := false
	for i, u := range t.KeywordUpdates {
		name := t.Keywords[i]
		if len(u.AddSeq) > 0 {
			d.emit(RecordKeywordUpdate, encodeKeywordUpdate(ModifyAdd, name, u.AddSeq))
			emitted = true
		}
		if len(u.RemoveSeq) > 0 {
			d.emit(RecordKeywordUpdate, encodeKeywordUpdate(ModifyRemove, name, u.RemoveSeq))
			emitted = true
		}
	}
	return emitted
}

// encodeKeywordUpdate builds {modify_type, name_size, name, pad to 4,
// sequence-set bytes}.
func encodeKeywordUpdate(modify ModifyType, name string, seq []byte) []byte {
	buf := make([]byte, 0, 8+len(name)+len(seq))
	buf = append(buf, byte(modify), byte(len(name)))
	buf = append(buf, name...)
	buf = pad4(buf)
	buf = append(buf, seq...)
	return buf
}
