package classfile

import "testing"

func TestLabelOffsetUnresolvedErrors(t *testing.T) {
	l := NewLabel()
	if l.IsResolved() {
		t.Fatal("fresh label reports resolved")
	}
	if _, err := l.Offset(); err == nil {
		t.Fatal("expected error reading offset of unresolved label")
	}
}

func TestLabelPutResolvedWritesDeltaImmediately(t *testing.T) {
	l := NewLabel()
	l.resolve(NewByteVector(0), 100)

	code := NewByteVector(0)
	l.put(code, 90, false)

	if code.Len() != 2 {
		t.Fatalf("got %d bytes, want 2", code.Len())
	}
	got := int(int16(code.data[0])<<8 | int16(code.data[1]))
	if got != 10 {
		t.Errorf("got delta %d, want 10", got)
	}
}

func TestLabelPutUnresolvedBackpatchesOnResolve(t *testing.T) {
	l := NewLabel()
	code := NewByteVector(0)
	code.PutByte(0xAA) // unrelated prefix byte, so the patch isn't at offset 0
	l.put(code, 5, false)

	if len(l.forwardReferences) != 1 {
		t.Fatalf("got %d forward references, want 1", len(l.forwardReferences))
	}

	l.resolve(code, 20)

	patched := int(int16(code.data[1])<<8 | int16(code.data[2]))
	if patched != 15 {
		t.Errorf("got backpatched delta %d, want 15", patched)
	}
	if !l.IsResolved() {
		t.Error("label not marked resolved after resolve")
	}
}

func TestLabelResolveReportsOverflowOfShortDelta(t *testing.T) {
	l := NewLabel()
	code := NewByteVector(0)
	l.put(code, 0, false)

	overflowed := l.resolve(code, 40000)
	if !overflowed {
		t.Error("expected resolve to report a delta too large for a signed 16-bit offset")
	}
}

func TestLabelResolveWideNeverOverflows(t *testing.T) {
	l := NewLabel()
	code := NewByteVector(0)
	l.put(code, 0, true)

	overflowed := l.resolve(code, 1<<20)
	if overflowed {
		t.Error("wide references should never report overflow")
	}
	if code.Len() != 4 {
		t.Fatalf("got %d bytes for a wide reference, want 4", code.Len())
	}
}
