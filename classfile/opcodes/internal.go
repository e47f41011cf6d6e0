package opcodes

// ACC_CONSTRUCTOR is a library-internal access flag (method only), used to mark
// <init> methods during frame computation. WARNING: the 16 least significant
// bits must never be used for it, to avoid colliding with standard access
// flags and so that it is filtered out automatically when access flags are
// written (access is stored on 16 bits only in the class file).
const ACC_CONSTRUCTOR = 0x40000

// F_INSERT is a stack map frame kind inserted between two existing frames.
// Unlike the frame kinds above, it can only be used when its content is
// derivable from the previous frame and the instructions between it and the
// next existing frame, without consulting the type hierarchy. No code in this
// module produces or consumes it: the writer does not expand synthetic wide
// jumps.
const F_INSERT = 256

// Opcode values that exist in the JVMS but are not part of the public
// instruction vocabulary: compact load/store forms, the wide prefix,
// and the wide jump instructions.
const (
	LDC_W      = 19
	LDC2_W     = 20
	ILOAD_0    = 26
	ILOAD_1    = 27
	ILOAD_2    = 28
	ILOAD_3    = 29
	LLOAD_0    = 30
	LLOAD_1    = 31
	LLOAD_2    = 32
	LLOAD_3    = 33
	FLOAD_0    = 34
	FLOAD_1    = 35
	FLOAD_2    = 36
	FLOAD_3    = 37
	DLOAD_0    = 38
	DLOAD_1    = 39
	DLOAD_2    = 40
	DLOAD_3    = 41
	ALOAD_0    = 42
	ALOAD_1    = 43
	ALOAD_2    = 44
	ALOAD_3    = 45
	ISTORE_0   = 59
	ISTORE_1   = 60
	ISTORE_2   = 61
	ISTORE_3   = 62
	LSTORE_0   = 63
	LSTORE_1   = 64
	LSTORE_2   = 65
	LSTORE_3   = 66
	FSTORE_0   = 67
	FSTORE_1   = 68
	FSTORE_2   = 69
	FSTORE_3   = 70
	DSTORE_0   = 71
	DSTORE_1   = 72
	DSTORE_2   = 73
	DSTORE_3   = 74
	ASTORE_0   = 75
	ASTORE_1   = 76
	ASTORE_2   = 77
	ASTORE_3   = 78
	WIDE       = 196
	GOTO_W     = 200
	JSR_W      = 201
)

// WIDE_JUMP_OPCODE_DELTA is the delta between GOTO_W/JSR_W and GOTO/JSR.
const WIDE_JUMP_OPCODE_DELTA = GOTO_W - GOTO

// ASM_OPCODE_DELTA and ASM_IFNULL_OPCODE_DELTA convert a standard short jump
// opcode into its synthetic "wide-capable" counterpart. The writer never
// emits these synthetic opcodes: a forward jump whose offset overflows 16
// bits makes MethodWriter panic with MethodTooLargeError instead.
const (
	ASM_OPCODE_DELTA        = 49
	ASM_IFNULL_OPCODE_DELTA = 20
)

const (
	ASM_IFEQ       = IFEQ + ASM_OPCODE_DELTA
	ASM_IFNE       = IFNE + ASM_OPCODE_DELTA
	ASM_IFLT       = IFLT + ASM_OPCODE_DELTA
	ASM_IFGE       = IFGE + ASM_OPCODE_DELTA
	ASM_IFGT       = IFGT + ASM_OPCODE_DELTA
	ASM_IFLE       = IFLE + ASM_OPCODE_DELTA
	ASM_IF_ICMPEQ  = IF_ICMPEQ + ASM_OPCODE_DELTA
	ASM_IF_ICMPNE  = IF_ICMPNE + ASM_OPCODE_DELTA
	ASM_IF_ICMPLT  = IF_ICMPLT + ASM_OPCODE_DELTA
	ASM_IF_ICMPGE  = IF_ICMPGE + ASM_OPCODE_DELTA
	ASM_IF_ICMPGT  = IF_ICMPGT + ASM_OPCODE_DELTA
	ASM_IF_ICMPLE  = IF_ICMPLE + ASM_OPCODE_DELTA
	ASM_IF_ACMPEQ  = IF_ACMPEQ + ASM_OPCODE_DELTA
	ASM_IF_ACMPNE  = IF_ACMPNE + ASM_OPCODE_DELTA
	ASM_GOTO       = GOTO + ASM_OPCODE_DELTA
	ASM_JSR        = JSR + ASM_OPCODE_DELTA
	ASM_IFNULL     = IFNULL + ASM_IFNULL_OPCODE_DELTA
	ASM_IFNONNULL  = IFNONNULL + ASM_IFNULL_OPCODE_DELTA
	ASM_GOTO_W     = 220
)
