package mdxlog

import "testing"

func TestDigestIsDeterministic(t *testing.T) {
	a1 := &MemAppender{}
	a1.Append(RecordAppend, []byte{1, 2, 3, 4})

	a2 := &MemAppender{}
	a2.Append(RecordAppend, []byte{1, 2, 3, 4})

	if Digest(a1) != Digest(a2) {
		t.Error("Digest of identical output should be equal")
	}
}

func TestDigestDiffersOnDifferentOutput(t *testing.T) {
	a1 := &MemAppender{}
	a1.Append(RecordAppend, []byte{1, 2, 3, 4})

	a2 := &MemAppender{}
	a2.Append(RecordAppend, []byte{5, 6, 7, 8})

	if Digest(a1) == Digest(a2) {
		t.Error("Digest of different output should differ")
	}
}

func TestDigestEmptyOutput(t *testing.T) {
	a := &MemAppender{}
	// blake2b-256 of an empty input is well-defined and must not panic.
	_ = Digest(a)
}
