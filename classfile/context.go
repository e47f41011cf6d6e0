package classfile

// Context carries the per-class, per-method parsing state ClassReader
// threads through its read* helpers as it walks a ClassFile structure.
type Context struct {
	attributePrototypes             []*Attribute
	parsingOptions                  int
	charBuffer                      []rune
	bootstrapMethodOffsets          []int
	currentMethodAccessFlags        int
	currentMethodName               string
	currentMethodDescriptor         string
	currentMethodLabels             []*Label
	currentTypeAnnotationTarget     int
	currentTypeAnnotationTargetPath *TypePath
}
