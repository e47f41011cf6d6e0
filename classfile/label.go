package classfile

import "errors"

// Label flags.
const (
	FLAG_DEBUG_ONLY        = 1 << 0
	FLAG_JUMP_TARGET       = 1 << 1
	FLAG_RESOLVED          = 1 << 2
	FLAG_REACHABLE         = 1 << 3
	FLAG_SUBROUTINE_CALLER = 1 << 4
	FLAG_SUBROUTINE_START  = 1 << 5
	FLAG_SUBROUTINE_BODY   = 1 << 6
	FLAG_SUBROUTINE_END    = 1 << 7
)

// forwardReference is one not-yet-resolved use of a Label: the byte offset
// in the method's output code vector that must be overwritten once the
// label's final bytecode offset is known, the offset of the jump
// instruction that referenced it (to compute the delta), and whether the
// reserved operand is 2 or 4 bytes wide. Design Note: this growable vector
// of (patch_offset, width) entries replaces the teacher's unported
// linked-list-of-forward-references design.
type forwardReference struct {
	sourceInsnOffset int
	patchOffset      int
	wide             bool
}

// Label is a mutable symbolic position in a method's bytecode.
type Label struct {
	flags          int
	bytecodeOffset int

	lineNumber       int
	otherLineNumbers []int

	forwardReferences []forwardReference

	// Frame Engine bookkeeping: the basic block whose
	// first instruction this label marks, and the CFG edges leaving it.
	frame          *Frame
	nextBasicBlock *Label
	outgoingEdges  *Edge

	inputStackSize  int
	outputStackSize int
	outputStackMax  int
}

// NewLabel returns a fresh, unresolved label belonging to no basic block.
func NewLabel() *Label {
	return &Label{}
}

// IsResolved reports whether this label's bytecode offset is known.
func (l *Label) IsResolved() bool { return l.flags&FLAG_RESOLVED != 0 }

// IsDebugOnly reports whether this label exists solely because a debug
// attribute mentioned its offset.
func (l *Label) IsDebugOnly() bool { return l.flags&FLAG_DEBUG_ONLY != 0 }

// Offset returns the resolved bytecode offset, or an error if the label has
// not been resolved yet.
func (l *Label) Offset() (int, error) {
	if !l.IsResolved() {
		return 0, errors.New("label offset has not been resolved yet")
	}
	return l.bytecodeOffset, nil
}

// MustOffset returns the resolved offset, panicking if unresolved; used by
// writer code paths that can only run after every label is known to have
// resolved.
func (l *Label) MustOffset() int {
	off, err := l.Offset()
	if err != nil {
		panic(err)
	}
	return off
}

func (l *Label) addLineNumber(lineNumber int) {
	if l.lineNumber == 0 {
		l.lineNumber = lineNumber
		return
	}
	l.otherLineNumbers = append(l.otherLineNumbers, lineNumber)
}

func (l *Label) accept(mv MethodVisitor, visitLineNumbers bool) {
	mv.VisitLabel(l)
	if visitLineNumbers && l.lineNumber != 0 {
		mv.VisitLineNumber(l.lineNumber, l)
		for _, line := range l.otherLineNumbers {
			mv.VisitLineNumber(line, l)
		}
	}
}

// put reserves space in code for a reference to this label from the
// instruction at sourceInsnBytecodeOffset. If the label is already
// resolved, the delta is written immediately (4 bytes when wide, else 2
// bytes). If unresolved, a zero placeholder is written and the reference is
// recorded for back-patching in resolve.
func (l *Label) put(code *ByteVector, sourceInsnBytecodeOffset int, wide bool) {
	if l.IsResolved() {
		delta := l.bytecodeOffset - sourceInsnBytecodeOffset
		if wide {
			code.PutInt(delta)
		} else {
			code.PutShort(delta)
		}
		return
	}
	l.forwardReferences = append(l.forwardReferences, forwardReference{
		sourceInsnOffset: sourceInsnBytecodeOffset,
		patchOffset:      code.Len(),
		wide:             wide,
	})
	if wide {
		code.PutInt(0)
	} else {
		code.PutShort(0)
	}
}

// resolve fixes this label's bytecode offset and back-patches every
// forward reference recorded against it. It returns true if at least one
// non-wide forward reference's resolved delta no longer fits a signed
// 16-bit offset, meaning the writer must then schedule the synthetic-wide-opcode
// round trip.
func (l *Label) resolve(code *ByteVector, bytecodeOffset int) bool {
	l.flags |= FLAG_RESOLVED
	l.bytecodeOffset = bytecodeOffset
	hasAsmInstructions := false
	data := code.data
	for _, ref := range l.forwardReferences {
		delta := bytecodeOffset - ref.sourceInsnOffset
		if ref.wide {
			writeInt(data, ref.patchOffset, delta)
			continue
		}
		if delta < -32768 || delta > 32767 {
			hasAsmInstructions = true
		}
		writeShort(data, ref.patchOffset, delta)
	}
	return hasAsmInstructions
}

func writeShort(data []byte, offset, value int) {
	data[offset] = byte(value >> 8)
	data[offset+1] = byte(value)
}

func writeInt(data []byte, offset, value int) {
	data[offset] = byte(value >> 24)
	data[offset+1] = byte(value >> 16)
	data[offset+2] = byte(value >> 8)
	data[offset+3] = byte(value)
}
