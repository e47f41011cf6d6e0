package classfile

import "github.com/gobytecode/classfile/classfile/opcodes"

// FieldWriter implements FieldVisitor, accumulating one field's constant
// value and attributes for later serialization by ClassWriter.
type FieldWriter struct {
	symbolTable *SymbolTable

	access     int
	name       string
	descriptor string
	signature  string
	value      interface{}

	visibleAnnotations       annotationWriterList
	invisibleAnnotations     annotationWriterList
	visibleTypeAnnotations   annotationWriterList
	invisibleTypeAnnotations annotationWriterList

	attributes *Attribute
}

// NewFieldWriter returns a writer for one field, access/name/descriptor/
// signature/value already fixed by the VisitField call that created it.
func NewFieldWriter(symbolTable *SymbolTable, access int, name, descriptor, signature string, value interface{}) *FieldWriter {
	return &FieldWriter{
		symbolTable: symbolTable,
		access:      access,
		name:        name,
		descriptor:  descriptor,
		signature:   signature,
		value:       value,
	}
}

func (fw *FieldWriter) VisitAnnotation(descriptor string, visible bool) AnnotationVisitor {
	w := NewAnnotationWriter(fw.symbolTable, true, nil)
	w.descriptor = descriptor
	if visible {
		fw.visibleAnnotations.add(w)
	} else {
		fw.invisibleAnnotations.add(w)
	}
	return w
}

func (fw *FieldWriter) VisitTypeAnnotation(typeRef int, typePath *TypePath, descriptor string, visible bool) AnnotationVisitor {
	w := NewAnnotationWriter(fw.symbolTable, true, nil)
	w.descriptor = descriptor
	if visible {
		fw.visibleTypeAnnotations.add(w)
	} else {
		fw.invisibleTypeAnnotations.add(w)
	}
	return w
}

func (fw *FieldWriter) VisitAttribute(attribute *Attribute) {
	attribute.nextAttribute = fw.attributes
	fw.attributes = attribute
}

func (fw *FieldWriter) VisitEnd() {}

func (fw *FieldWriter) computeFieldInfoSize() int {
	size := 8
	if fw.value != nil {
		size += 8
		fw.symbolTable.AddConstantUtf8("ConstantValue")
		fw.symbolTable.addConstantFromValue(fw.value)
	}
	if fw.signature != "" {
		size += 8
		fw.symbolTable.AddConstantUtf8("Signature")
		fw.symbolTable.AddConstantUtf8(fw.signature)
	}
	if fw.access&opcodes.ACC_DEPRECATED != 0 {
		size += 6
		fw.symbolTable.AddConstantUtf8("Deprecated")
	}
	if fw.access&opcodes.ACC_SYNTHETIC != 0 {
		size += 6
		fw.symbolTable.AddConstantUtf8("Synthetic")
	}
	if fw.visibleAnnotations.count > 0 {
		size += 6 + fw.visibleAnnotations.size()
		fw.symbolTable.AddConstantUtf8("RuntimeVisibleAnnotations")
	}
	if fw.invisibleAnnotations.count > 0 {
		size += 6 + fw.invisibleAnnotations.size()
		fw.symbolTable.AddConstantUtf8("RuntimeInvisibleAnnotations")
	}
	size += computeAttributesSize(fw.attributes, fw.symbolTable)
	return size
}

func (fw *FieldWriter) putFieldInfo(output *ByteVector) {
	output.PutShort(fw.access & 0xFFFF).
		PutShort(fw.symbolTable.AddConstantUtf8(fw.name)).
		PutShort(fw.symbolTable.AddConstantUtf8(fw.descriptor))

	attrCount := fw.attributes.attributeCount()
	if fw.value != nil {
		attrCount++
	}
	if fw.signature != "" {
		attrCount++
	}
	if fw.access&opcodes.ACC_DEPRECATED != 0 {
		attrCount++
	}
	if fw.access&opcodes.ACC_SYNTHETIC != 0 {
		attrCount++
	}
	if fw.visibleAnnotations.count > 0 {
		attrCount++
	}
	if fw.invisibleAnnotations.count > 0 {
		attrCount++
	}
	output.PutShort(attrCount)

	if fw.value != nil {
		output.PutShort(fw.symbolTable.AddConstantUtf8("ConstantValue")).PutInt(2)
		output.PutShort(fw.symbolTable.addConstantFromValue(fw.value))
	}
	if fw.signature != "" {
		output.PutShort(fw.symbolTable.AddConstantUtf8("Signature")).PutInt(2)
		output.PutShort(fw.symbolTable.AddConstantUtf8(fw.signature))
	}
	if fw.access&opcodes.ACC_DEPRECATED != 0 {
		output.PutShort(fw.symbolTable.AddConstantUtf8("Deprecated")).PutInt(0)
	}
	if fw.access&opcodes.ACC_SYNTHETIC != 0 {
		output.PutShort(fw.symbolTable.AddConstantUtf8("Synthetic")).PutInt(0)
	}
	if fw.visibleAnnotations.count > 0 {
		content := NewByteVector(fw.visibleAnnotations.size())
		fw.visibleAnnotations.put(content)
		output.PutShort(fw.symbolTable.AddConstantUtf8("RuntimeVisibleAnnotations")).PutInt(content.Len())
		output.PutBytes(content.Bytes())
	}
	if fw.invisibleAnnotations.count > 0 {
		content := NewByteVector(fw.invisibleAnnotations.size())
		fw.invisibleAnnotations.put(content)
		output.PutShort(fw.symbolTable.AddConstantUtf8("RuntimeInvisibleAnnotations")).PutInt(content.Len())
		output.PutBytes(content.Bytes())
	}
	putAttributes(fw.attributes, fw.symbolTable, output)
}
