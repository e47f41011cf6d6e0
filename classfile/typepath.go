package classfile

import "strconv"

// TypePath step kinds.
const (
	ARRAY_ELEMENT  = 0
	INNER_TYPE     = 1
	WILDCARD_BOUND = 2
	TYPE_ARGUMENT  = 3
)

// TypePath locates a type within a generic signature or array/nested type,
// as a sequence of steps.
type TypePath struct {
	typePathContainer []byte
	typePathOffset    int
}

// NewTypePath wraps an encoded type_path byte sequence starting at offset
// (offset points at the path_length byte).
func NewTypePath(b []byte, offset int) *TypePath {
	return &TypePath{b, offset}
}

// NewTypePathFromString parses the dotted/bracketed textual form
// ("[.[*0;" etc: '[' array element, '.' inner type, '*' wildcard bound, a
// decimal digit sequence followed by ';' a type argument index) into its
// binary encoding.
func NewTypePathFromString(typePath string) *TypePath {
	if len(typePath) == 0 {
		return nil
	}
	output := NewByteVector(len(typePath))
	output.PutByte(0)
	i := 0
	for i < len(typePath) {
		c := typePath[i]
		i++
		switch {
		case c == '[':
			output.Put11(ARRAY_ELEMENT, 0)
		case c == '.':
			output.Put11(INNER_TYPE, 0)
		case c == '*':
			output.Put11(WILDCARD_BOUND, 0)
		case c >= '0' && c <= '9':
			start := i - 1
			for i < len(typePath) && typePath[i] >= '0' && typePath[i] <= '9' {
				i++
			}
			typeArg, _ := strconv.Atoi(typePath[start:i])
			if i < len(typePath) && typePath[i] == ';' {
				i++
			}
			output.Put11(TYPE_ARGUMENT, typeArg)
		}
	}
	data := output.data
	data[0] = byte(len(data) / 2)
	return &TypePath{typePathContainer: data, typePathOffset: 0}
}

// Length returns the number of steps in this path.
func (t *TypePath) Length() int {
	return int(t.typePathContainer[t.typePathOffset])
}

// Step returns the kind of the given step (one of the path_kind constants).
func (t *TypePath) Step(index int) int {
	return int(t.typePathContainer[t.typePathOffset+2*index+1])
}

// StepArgument returns the type argument index of a TYPE_ARGUMENT step (0
// for any other kind).
func (t *TypePath) StepArgument(index int) int {
	return int(t.typePathContainer[t.typePathOffset+2*index+2])
}

// put appends this path's encoding (or a single zero length byte if nil) to
// output, as required wherever a type_path is serialized.
func (t *TypePath) put(output *ByteVector) {
	if t == nil {
		output.PutByte(0)
		return
	}
	length := 1 + 2*t.Length()
	output.PutByteArrayRange(t.typePathContainer, t.typePathOffset, length)
}
