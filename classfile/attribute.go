package classfile

// Attribute is one opaque, unrecognized attribute_info structure, kept as a
// raw byte blob. Known attributes (Code,
// StackMapTable, BootstrapMethods, ConstantValue, ...) are parsed directly
// by ClassReader/ClassWriter and never surface as an Attribute; this type
// exists so that an attribute this library does not understand still
// round-trips unchanged.
type Attribute struct {
	typed         string
	content       []byte
	nextAttribute *Attribute
}

// NewAttribute returns an empty attribute of the given type name.
func NewAttribute(typed string) *Attribute {
	return &Attribute{typed: typed}
}

// Type returns the attribute_name this attribute was read with.
func (a *Attribute) Type() string { return a.typed }

// IsCodeAttribute reports whether this attribute may only appear inside a
// Code attribute. The base Attribute type is always class/field/method
// scoped; a host defining its own Code-scoped attribute overrides this on
// its own prototype value (not modeled further here since no such
// attribute is wired by this library).
func (a *Attribute) IsCodeAttribute() bool { return false }

// read parses this attribute's content into a fresh Attribute of the same
// type, by default copying the raw bytes verbatim.
func (a *Attribute) read(classReader *ClassReader, offset, length int, charBuffer []rune, codeAttributeOffset int, labels []*Label) *Attribute {
	attribute := NewAttribute(a.typed)
	attribute.content = make([]byte, length)
	copy(attribute.content, classReader.b[offset:offset+length])
	return attribute
}

// write serializes this attribute's content back out, by default the raw
// bytes it was read with.
func (a *Attribute) write(symbolTable *SymbolTable, code []byte, codeLength, maxStack, maxLocals int) *ByteVector {
	content := NewByteVector(len(a.content))
	content.PutBytes(a.content)
	return content
}

// attributeCount returns the length of this attribute's singly linked list,
// counting a through its nextAttribute chain.
func (a *Attribute) attributeCount() int {
	count := 0
	for attribute := a; attribute != nil; attribute = attribute.nextAttribute {
		count++
	}
	return count
}

// computeAttributesSize returns the total serialized size (each entry's
// 2-byte name index + 4-byte length + its content) of the attribute list
// starting at attributes, for a class- or member-scoped attribute list.
func computeAttributesSize(attributes *Attribute, symbolTable *SymbolTable) int {
	return computeAttributesSizeCode(attributes, symbolTable, nil, 0, -1, -1)
}

// computeAttributesSizeCode is the Code-attribute-aware variant, used when
// the attribute list may contain Code-scoped attributes that need the
// method's emitted bytecode and computed stack/locals sizes to size
// themselves.
func computeAttributesSizeCode(attributes *Attribute, symbolTable *SymbolTable, code []byte, codeLength, maxStack, maxLocals int) int {
	size := 0
	for attribute := attributes; attribute != nil; attribute = attribute.nextAttribute {
		symbolTable.AddConstantUtf8(attribute.typed)
		size += 6 + len(attribute.write(symbolTable, code, codeLength, maxStack, maxLocals).Bytes())
	}
	return size
}

// putAttributes serializes the attribute list starting at attributes,
// writing each entry's attribute_name_index, attribute_length and content
// in turn.
func putAttributes(attributes *Attribute, symbolTable *SymbolTable, output *ByteVector) {
	putAttributesCode(attributes, symbolTable, nil, 0, -1, -1, output)
}

func putAttributesCode(attributes *Attribute, symbolTable *SymbolTable, code []byte, codeLength, maxStack, maxLocals int, output *ByteVector) {
	for attribute := attributes; attribute != nil; attribute = attribute.nextAttribute {
		content := attribute.write(symbolTable, code, codeLength, maxStack, maxLocals)
		output.PutShort(symbolTable.AddConstantUtf8(attribute.typed)).PutInt(content.Len())
		output.PutBytes(content.Bytes())
	}
}
