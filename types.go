package mdxlog

// RecordType tags a single log record. These numeric
// values are a stable binary contract: a replayer persists them, so
// they must never be renumbered or reused.
type RecordType uint8

const (
	RecordIndexUndeleted RecordType = iota + 1
	RecordIndexDeleted
	RecordHeaderUpdate
	RecordAppend
	RecordFlagUpdate
	RecordKeywordUpdate
	RecordExtIntro
	RecordExtReset
	RecordExtHdrUpdate
	RecordExtHdrUpdate32
	RecordExtRecUpdate
	RecordExtAtomicInc
	RecordExpungeGUID
	RecordModseqUpdate
	RecordAttributeUpdate
)

// ChangeSummary is the per-category bit set Export returns to classify
// a transaction's observable effect.
type ChangeSummary uint32

const (
	ChangeAppend ChangeSummary = 1 << iota
	ChangeFlags
	ChangeExpunge
	ChangeModseq
	ChangeKeywords
	ChangeAttribute
	ChangeOthers
)

// FsyncMask is the per-category bit set the driver accumulates
// internally while emitting records. It is folded into
// Appender.SetWantFsync at the end of Export and never returned to the
// caller directly.
type FsyncMask uint32

const (
	FsyncAppends FsyncMask = 1 << iota
	FsyncFlags
	FsyncExpunges
	FsyncKeywords
)

// TransactionFlags are scalar flags carried on the transaction itself.
type TransactionFlags uint32

const (
	// FlagExternal marks a transaction as authoritative: its expunges
	// are real events rather than requests.
	FlagExternal TransactionFlags = 1 << iota
	// FlagFsync forces want_fsync regardless of the computed fsync mask.
	FlagFsync
)

// FlagUpdateModseq is the pseudo-flag bit packed into a FlagUpdate's
// AddFlags. It requests a modseq increment and never corresponds to a
// real message flag bit; the log only ever carries the low 8 bits of
// AddFlags/RemoveFlags.
const FlagUpdateModseq uint32 = 0x300

// ModifyType selects ADD or REMOVE for a KeywordUpdate record.
type ModifyType byte

const (
	ModifyAdd    ModifyType = 1
	ModifyRemove ModifyType = 2
)

// FlagUpdate is one entry of Transaction.Updates.
type FlagUpdate struct {
	UID1, UID2            uint32
	AddFlags, RemoveFlags uint32
}

// KeywordUpdate is one entry of Transaction.KeywordUpdates, indexed by
// keyword id against Transaction.Keywords. AddSeq and RemoveSeq are
// pre-encoded UID sequence-set buffers, already a multiple of 4 bytes
// long; the exporter treats them as opaque and only checks whether they
// are non-empty.
type KeywordUpdate struct {
	AddSeq    []byte
	RemoveSeq []byte
}

// extIntroFlagNoShrink marks an intro as never allowing the extension's
// record size to shrink; every freshly synthesized intro carries it.
const extIntroFlagNoShrink uint16 = 0x01

// extIntroAllOnes is the sentinel ExtID meaning "introduce by name":
// the extension has no existing slot in the index map.
const extIntroAllOnes uint32 = 0xffffffff

// ExtIntro is both the wire shape of an EXT_INTRO record
// and the caller-supplied resize directive in Transaction.ExtResizes: a
// resize directive is an intro the caller has already part-filled
// (RecordSize, RecordAlign, Flags, NameSize) that the exporter completes
// by overwriting ExtID and NameSize.
type ExtIntro struct {
	ExtID       uint32
	ResetID     uint32
	HdrSize     uint32
	RecordSize  uint16
	RecordAlign uint16
	Flags       uint16
	NameSize    uint16
}

// ExtReset is the payload of an EXT_RESET record and the value type of
// Transaction.ExtResets.
type ExtReset struct {
	NewResetID   uint32
	PreserveData bool
}

// ExtHeaderUpdate describes a sparse patch against one extension's
// header region: Mask[i] != 0 marks Data[i] dirty.
// AllocSize selects the 16-bit vs. 32-bit wire form (>= 65536 uses 32-bit
// offsets); the run scan covers every byte of Mask.
type ExtHeaderUpdate struct {
	Data      []byte
	Mask      []byte
	AllocSize int
}

// HeaderChange is a fixed-size header image plus a dirty-byte mask and a
// cheap dirty flag, used for both the pre- and post-append snapshots of
// the main index header.
type HeaderChange struct {
	Data    []byte
	Mask    []byte
	Changed bool
}

// Transaction bundles the optional sub-collections accumulated against
// an indexed message store. Every field may be left at
// its zero value; Export emits nothing for an empty section. Export
// mutates only AttributeUpdates (via FinalizeAttributeUpdates) — every
// other field is read-only for the duration of the call.
type Transaction struct {
	Appends        []byte
	Updates        []FlagUpdate
	Expunges       []byte
	ModseqUpdates  []byte
	KeywordUpdates []KeywordUpdate

	ExtResizes    []ExtIntro
	ExtResets     []ExtReset
	ExtResetIDs   []uint32
	ExtRecUpdates []([]byte)
	ExtRecAtomics []([]byte)
	ExtHdrUpdates []ExtHeaderUpdate

	PreHeader  HeaderChange
	PostHeader HeaderChange

	AttributeUpdates       []byte
	AttributeUpdatesSuffix []byte

	IndexDeleted   bool
	IndexUndeleted bool

	SyncTransaction   bool
	TailOffsetChanged bool
	Flags             TransactionFlags

	// Reset, when true, treats every known extension as newly
	// introduced regardless of what the index map already holds.
	Reset bool

	// Registry, Map and Keywords are read-only collaborators borrowed
	// from the transaction's view for the duration of Export. Registry
	// and Map must be non-nil whenever the transaction references any
	// extension id; Keywords must be non-nil whenever KeywordUpdates is
	// non-empty.
	Registry ExtensionRegistry
	Map      IndexMap
	Keywords []string

	// IndexFsyncMask is the index's configured fsync policy: want_fsync
	// is set when this mask overlaps the categories the transaction
	// actually touched.
	IndexFsyncMask FsyncMask

	attributeUpdatesFinalized bool
}

// FinalizeAttributeUpdates appends the NUL terminator, pads to 4-byte
// alignment, and concatenates AttributeUpdatesSuffix (timestamps and
// value lengths) onto AttributeUpdates, asserting the result ends up
// 4-byte aligned. Export calls this itself during the attribute-updates
// step; it is exported so a caller can finalize ahead of time and keep
// Export purely observational. Safe to call more than once — only the
// first call has any effect.
func (t *Transaction) FinalizeAttributeUpdates() {
	if t.attributeUpdatesFinalized {
		return
	}
	buf := append(t.AttributeUpdates, 0)
	buf = pad4(buf)
	buf = append(buf, t.AttributeUpdatesSuffix...)
	assertf(len(buf)%4 == 0, "attribute update buffer not 4-byte aligned after finalization")
	t.AttributeUpdates = buf
	t.attributeUpdatesFinalized = true
}
