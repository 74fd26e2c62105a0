// Extension registry and index map: the read-only collaborators the
// exporter resolves extension identity against. Neither
// is mutated during export.
package mdxlog

import "github.com/zeebo/xxh3"

// modseqExtensionName is the canonical name of the extension that backs
// per-message modification sequences. Export transitions an appender's
// NewHighestModseq from 0 to 1 the first time it emits an intro for the
// extension carrying this name.
const modseqExtensionName = "modseq"

// modseqNameHash is the xxh3 digest of modseqExtensionName, precomputed
// once so the hot intro path (run per extension per transaction) can
// short-circuit the bootstrap check with an integer comparison before
// falling back to the authoritative string compare: a hash collision
// must never misroute a real extension, so the string compare stays as
// the final word, but it only runs on the rare case the digests match.
var modseqNameHash = xxh3.HashString(modseqExtensionName)

// RegisteredExtension is a transaction-local extension's declared shape.
type RegisteredExtension struct {
	Name        string
	RecordSize  uint16
	RecordAlign uint16
	HdrSize     uint32

	nameHash uint64
}

// NewRegisteredExtension builds a RegisteredExtension, precomputing its
// name hash the way folio/hash.go precomputes document-id hashes.
func NewRegisteredExtension(name string, recordSize, recordAlign uint16, hdrSize uint32) RegisteredExtension {
	return RegisteredExtension{
		Name:        name,
		RecordSize:  recordSize,
		RecordAlign: recordAlign,
		HdrSize:     hdrSize,
		nameHash:    xxh3.HashString(name),
	}
}

func (r RegisteredExtension) isModseqExtension() bool {
	return r.nameHash == modseqNameHash && r.Name == modseqExtensionName
}

// MappedExtension is the dense, currently persisted extension table
// entry an index map holds for an extension that has already been
// introduced to the log stream in a prior transaction.
type MappedExtension struct {
	Name        string
	RecordSize  uint16
	RecordAlign uint16
	HdrSize     uint32
	ResetID     uint32
}

// ExtensionRegistry resolves a transaction-local extension id to its
// registered shape. Export never mutates it.
type ExtensionRegistry interface {
	Get(extID uint32) (RegisteredExtension, bool)
}

// IndexMap resolves a transaction-local extension id to the dense index
// idx it currently occupies, if any, and looks up a bound extension by
// that dense idx. Export never mutates it.
type IndexMap interface {
	GetExtIdx(extID uint32) (idx uint32, ok bool)
	Extension(idx uint32) MappedExtension
}

// StaticRegistry is a simple slice-backed ExtensionRegistry keyed by
// transaction-local extension id, for callers (and tests) that register
// every extension up front.
type StaticRegistry struct {
	exts []RegisteredExtension
}

// NewStaticRegistry builds a registry where extension i is indexed by
// extension id i.
func NewStaticRegistry(exts ...RegisteredExtension) *StaticRegistry {
	return &StaticRegistry{exts: exts}
}

func (r *StaticRegistry) Get(extID uint32) (RegisteredExtension, bool) {
	if int(extID) >= len(r.exts) {
		return RegisteredExtension{}, false
	}
	return r.exts[extID], true
}

// StaticIndexMap is a simple map-backed IndexMap, for callers (and
// tests) that bind a handful of extensions into the persisted table.
type StaticIndexMap struct {
	byExtID map[uint32]uint32
	exts    []MappedExtension
}

// NewStaticIndexMap returns an empty index map.
func NewStaticIndexMap() *StaticIndexMap {
	return &StaticIndexMap{byExtID: make(map[uint32]uint32)}
}

// Bind records that the extension known transaction-locally as extID
// already occupies dense index map slot len(existing entries), and
// returns that slot.
func (m *StaticIndexMap) Bind(extID uint32, ext MappedExtension) uint32 {
	idx := uint32(len(m.exts))
	m.exts = append(m.exts, ext)
	m.byExtID[extID] = idx
	return idx
}

func (m *StaticIndexMap) GetExtIdx(extID uint32) (uint32, bool) {
	idx, ok := m.byExtID[extID]
	return idx, ok
}

func (m *StaticIndexMap) Extension(idx uint32) MappedExtension {
	if int(idx) >= len(m.exts) {
		panic(ErrExtensionNotBound)
	}
	return m.exts[idx]
}
