// Flag-update down-projection: the log only ever carries the low 8
// bits of add_flags/remove_flags plus a single modseq-increment bit: the
// wider in-memory representation is a driver-side concern that never
// reaches the wire.
package mdxlog

// encodeFlagUpdates packs every entry of updates into one contiguous
// buffer, each entry {uid1, uid2, add_low8, remove_low8, modseq_inc,
// pad}, and pads the result to 4-byte alignment.
func encodeFlagUpdates(updates []FlagUpdate) []byte {
	buf := make([]byte, 0, len(updates)*12)
	for _, u := range updates {
		buf = appendUint32(buf, u.UID1)
		buf = appendUint32(buf, u.UID2)
		buf = append(buf, byte(u.AddFlags&0xff), byte(u.RemoveFlags&0xff))
		if u.AddFlags&FlagUpdateModseq != 0 {
			buf = append(buf, 1)
		} else {
			buf = append(buf, 0)
		}
		buf = append(buf, 0)
	}
	return pad4(buf)
}

// emitFlagUpdates emits FLAG_UPDATE for a nonempty Updates slice.
func (d *driver) emitFlagUpdates() {
	if len(d.t.Updates) == 0 {
		return
	}
	d.emit(RecordFlagUpdate, encodeFlagUpdates(d.t.Updates))
}
