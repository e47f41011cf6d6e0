package classfile

import (
	"strings"

	"github.com/gobytecode/classfile/classfile/typed"
)

// Type is a Java field or method descriptor/signature, parsed lazily from its
// textual form. It is the host-facing counterpart of the abstract types the
// Frame Engine manipulates internally: callers use Type to
// describe method argument/return shapes, the engine uses the packed 32-bit
// word for everything else.
type Type struct {
	sort        int
	valueBuffer string
	valueOffset int
	valueLength int
}

var (
	VoidType    = Type{typed.VOID, "V", 0, 1}
	BooleanType = Type{typed.BOOLEAN, "Z", 0, 1}
	CharType    = Type{typed.CHAR, "C", 0, 1}
	ByteType    = Type{typed.BYTE, "B", 0, 1}
	ShortType   = Type{typed.SHORT, "S", 0, 1}
	IntType     = Type{typed.INT, "I", 0, 1}
	FloatType   = Type{typed.FLOAT, "F", 0, 1}
	LongType    = Type{typed.LONG, "J", 0, 1}
	DoubleType  = Type{typed.DOUBLE, "D", 0, 1}
)

// NewType parses a single field descriptor (e.g. "[Ljava/lang/String;") at
// the given offset in typeDescriptor, returning the type and the offset of
// the character following it.
func NewType(typeDescriptor string, offset int) (Type, int) {
	return typeFromDescriptor(typeDescriptor, offset)
}

func typeFromDescriptor(buffer string, offset int) (Type, int) {
	switch buffer[offset] {
	case 'V':
		return VoidType, offset + 1
	case 'Z':
		return BooleanType, offset + 1
	case 'C':
		return CharType, offset + 1
	case 'B':
		return ByteType, offset + 1
	case 'S':
		return ShortType, offset + 1
	case 'I':
		return IntType, offset + 1
	case 'F':
		return FloatType, offset + 1
	case 'J':
		return LongType, offset + 1
	case 'D':
		return DoubleType, offset + 1
	case '[':
		end := offset + 1
		for buffer[end] == '[' {
			end++
		}
		if buffer[end] == 'L' {
			end = strings.IndexByte(buffer[end:], ';') + end
		}
		return Type{typed.ARRAY, buffer, offset, end + 1 - offset}, end + 1
	case 'L':
		end := strings.IndexByte(buffer[offset:], ';') + offset
		return Type{typed.OBJECT, buffer, offset, end + 1 - offset}, end + 1
	default:
		return Type{}, offset + 1
	}
}

// ObjectType returns the Type corresponding to the given internal class or
// array name (e.g. "java/lang/Object" or "[Ljava/lang/Object;").
func ObjectType(internalName string) Type {
	sort := typed.INTERNAL
	if len(internalName) > 0 && internalName[0] == '[' {
		sort = typed.ARRAY
	}
	return Type{sort, internalName, 0, len(internalName)}
}

// MethodType returns the Type corresponding to the given method descriptor.
func MethodType(methodDescriptor string) Type {
	return Type{typed.METHOD, methodDescriptor, 0, len(methodDescriptor)}
}

// GetMethodType is an alias kept for descriptor-string call sites that build
// a method type from separate return/argument descriptors.
func GetMethodType(returnType Type, argumentTypes ...Type) Type {
	var b strings.Builder
	b.WriteByte('(')
	for _, t := range argumentTypes {
		b.WriteString(t.Descriptor())
	}
	b.WriteByte(')')
	b.WriteString(returnType.Descriptor())
	return MethodType(b.String())
}

func (t Type) Sort() int { return t.sort }

// Descriptor returns the descriptor corresponding to this type.
func (t Type) Descriptor() string {
	if t.sort == typed.INTERNAL {
		return "L" + t.valueBuffer[t.valueOffset:t.valueOffset+t.valueLength] + ";"
	}
	if t.sort == typed.OBJECT || t.sort == typed.ARRAY || t.sort == typed.METHOD {
		return t.valueBuffer[t.valueOffset : t.valueOffset+t.valueLength]
	}
	return string(rune(typed.PRIMITIVE_DESCRIPTORS[t.sort]))
}

// InternalName returns the internal name of the class corresponding to this
// object or array type. The internal name of a class is its fully qualified
// name with '.' replaced by '/'.
func (t Type) InternalName() string {
	if t.sort == typed.OBJECT {
		return t.valueBuffer[t.valueOffset+1 : t.valueOffset+t.valueLength-1]
	}
	return t.valueBuffer[t.valueOffset : t.valueOffset+t.valueLength]
}

// ClassName returns the binary (fully qualified, dot-separated) class name
// of this type.
func (t Type) ClassName() string {
	switch t.sort {
	case typed.VOID, typed.BOOLEAN, typed.CHAR, typed.BYTE, typed.SHORT, typed.INT, typed.FLOAT, typed.LONG, typed.DOUBLE:
		return primitiveClassName(t.sort)
	case typed.OBJECT, typed.INTERNAL:
		return strings.ReplaceAll(t.InternalName(), "/", ".")
	case typed.ARRAY:
		dims := t.Dimensions()
		elem := t.ElementType()
		return elem.ClassName() + strings.Repeat("[]", dims)
	default:
		return ""
	}
}

func primitiveClassName(sort int) string {
	switch sort {
	case typed.VOID:
		return "void"
	case typed.BOOLEAN:
		return "boolean"
	case typed.CHAR:
		return "char"
	case typed.BYTE:
		return "byte"
	case typed.SHORT:
		return "short"
	case typed.INT:
		return "int"
	case typed.FLOAT:
		return "float"
	case typed.LONG:
		return "long"
	case typed.DOUBLE:
		return "double"
	}
	return ""
}

// Dimensions returns the number of dimensions of this array type.
func (t Type) Dimensions() int {
	n := 0
	for n < t.valueLength && t.valueBuffer[t.valueOffset+n] == '[' {
		n++
	}
	return n
}

// ElementType returns the type of the elements of this array type.
func (t Type) ElementType() Type {
	elem, _ := typeFromDescriptor(t.valueBuffer, t.valueOffset+t.Dimensions())
	return elem
}

// ArgumentTypes parses a method descriptor and returns its argument types.
func (t Type) ArgumentTypes() []Type {
	return parseArgumentTypes(t.valueBuffer, t.valueOffset, t.valueLength)
}

func parseArgumentTypes(descriptor string, offset, length int) []Type {
	args := make([]Type, 0, 4)
	off := offset + 1 // skip '('
	end := offset + length
	for off < end && descriptor[off] != ')' {
		var ty Type
		ty, off = typeFromDescriptor(descriptor, off)
		args = append(args, ty)
	}
	return args
}

// ReturnType parses a method descriptor and returns its return type.
func (t Type) ReturnType() Type {
	off := t.valueOffset
	end := off + t.valueLength
	for off < end && descriptorByte(t.valueBuffer, off) != ')' {
		off++
	}
	ty, _ := typeFromDescriptor(t.valueBuffer, off+1)
	return ty
}

func descriptorByte(s string, i int) byte {
	if i >= len(s) {
		return 0
	}
	return s[i]
}

// Size returns the size of values of this type, in the JVM's two-category
// accounting: 2 for long/double, 0 for void, 1 for everything else. Used
// both for max-stack/max-locals arithmetic and the Frame Engine's category-2
// "followed by TOP" slot rule.
func (t Type) Size() int {
	switch t.sort {
	case typed.VOID:
		return 0
	case typed.LONG, typed.DOUBLE:
		return 2
	default:
		return 1
	}
}

// ArgumentsAndReturnSizes computes the size of the arguments and of the
// return value of a method, and packs them into a single int: the argument
// size in slots (plus one for the receiver) shifted left by two, and the
// return size in the 2 least significant bits, so that the value shifted
// right by two is the JVMS invokeinterface count operand.
func (t Type) ArgumentsAndReturnSizes() int {
	argumentsSize := 1
	off := t.valueOffset + 1
	for {
		c := t.valueBuffer[off]
		if c == ')' {
			off++
			c = t.valueBuffer[off]
			if c == 'V' {
				return argumentsSize << 2
			}
			size := 1
			if c == 'J' || c == 'D' {
				size = 2
			}
			return (argumentsSize << 2) | size
		} else if c == 'L' {
			off = strings.IndexByte(t.valueBuffer[off:], ';') + off + 1
			argumentsSize += 1
		} else if c == '[' {
			for t.valueBuffer[off] == '[' {
				off++
			}
			if t.valueBuffer[off] == 'L' {
				off = strings.IndexByte(t.valueBuffer[off:], ';') + off + 1
			} else {
				off++
			}
			argumentsSize += 1
		} else if c == 'J' || c == 'D' {
			off++
			argumentsSize += 2
		} else {
			off++
			argumentsSize += 1
		}
	}
}

// IsPrimitiveOrVoid reports whether this is a primitive or void type (as
// opposed to an object, array or method type).
func (t Type) IsPrimitiveOrVoid() bool {
	return t.sort <= typed.DOUBLE
}
