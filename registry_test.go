package mdxlog

import "testing"

func TestStaticRegistryGet(t *testing.T) {
	r := NewStaticRegistry(
		NewRegisteredExtension("modseq", 8, 8, 0),
		NewRegisteredExtension("flags", 4, 4, 16),
	)

	ext, ok := r.Get(0)
	if !ok || ext.Name != "modseq" {
		t.Fatalf("Get(0) = %+v, %v; want modseq, true", ext, ok)
	}

	if _, ok := r.Get(5); ok {
		t.Error("Get(5) on a 2-entry registry should report not-found")
	}
}

func TestRegisteredExtensionIsModseqExtension(t *testing.T) {
	modseq := NewRegisteredExtension("modseq", 8, 8, 0)
	if !modseq.isModseqExtension() {
		t.Error("extension named modseq should report isModseqExtension() == true")
	}

	other := NewRegisteredExtension("flags", 4, 4, 16)
	if other.isModseqExtension() {
		t.Error("extension named flags should report isModseqExtension() == false")
	}
}

func TestStaticIndexMapBindAndLookup(t *testing.T) {
	m := NewStaticIndexMap()

	idx := m.Bind(3, MappedExtension{Name: "flags", ResetID: 7})
	if idx != 0 {
		t.Fatalf("first Bind returned idx %d, want 0", idx)
	}

	got, ok := m.GetExtIdx(3)
	if !ok || got != 0 {
		t.Fatalf("GetExtIdx(3) = %d, %v; want 0, true", got, ok)
	}

	if _, ok := m.GetExtIdx(99); ok {
		t.Error("GetExtIdx(99) on an empty map should report not-found")
	}

	ext := m.Extension(0)
	if ext.Name != "flags" || ext.ResetID != 7 {
		t.Errorf("Extension(0) = %+v, want {Name: flags, ResetID: 7}", ext)
	}
}

func TestStaticIndexMapExtensionOutOfRangePanics(t *testing.T) {
	defer func() {
		if r := recover(); r != ErrExtensionNotBound {
			t.Fatalf("recover() = %v, want ErrExtensionNotBound", r)
		}
	}()
	NewStaticIndexMap().Extension(0)
}
