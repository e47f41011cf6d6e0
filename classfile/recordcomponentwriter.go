package classfile

// RecordComponentWriter implements RecordComponentVisitor, accumulating one
// record component's attributes for later serialization by ClassWriter.
type RecordComponentWriter struct {
	symbolTable *SymbolTable

	name       string
	descriptor string
	signature  string

	visibleAnnotations       annotationWriterList
	invisibleAnnotations     annotationWriterList
	visibleTypeAnnotations   annotationWriterList
	invisibleTypeAnnotations annotationWriterList

	attributes *Attribute
}

func NewRecordComponentWriter(symbolTable *SymbolTable, name, descriptor, signature string) *RecordComponentWriter {
	return &RecordComponentWriter{symbolTable: symbolTable, name: name, descriptor: descriptor, signature: signature}
}

func (rw *RecordComponentWriter) VisitAnnotation(descriptor string, visible bool) AnnotationVisitor {
	w := NewAnnotationWriter(rw.symbolTable, true, nil)
	w.descriptor = descriptor
	if visible {
		rw.visibleAnnotations.add(w)
	} else {
		rw.invisibleAnnotations.add(w)
	}
	return w
}

func (rw *RecordComponentWriter) VisitTypeAnnotation(typeRef int, typePath *TypePath, descriptor string, visible bool) AnnotationVisitor {
	w := NewAnnotationWriter(rw.symbolTable, true, nil)
	w.descriptor = descriptor
	if visible {
		rw.visibleTypeAnnotations.add(w)
	} else {
		rw.invisibleTypeAnnotations.add(w)
	}
	return w
}

func (rw *RecordComponentWriter) VisitAttribute(attribute *Attribute) {
	attribute.nextAttribute = rw.attributes
	rw.attributes = attribute
}

func (rw *RecordComponentWriter) VisitEnd() {}

func (rw *RecordComponentWriter) computeSize() int {
	size := 6
	if rw.signature != "" {
		size += 8
		rw.symbolTable.AddConstantUtf8("Signature")
		rw.symbolTable.AddConstantUtf8(rw.signature)
	}
	if rw.visibleAnnotations.count > 0 {
		size += 6 + rw.visibleAnnotations.size()
		rw.symbolTable.AddConstantUtf8("RuntimeVisibleAnnotations")
	}
	if rw.invisibleAnnotations.count > 0 {
		size += 6 + rw.invisibleAnnotations.size()
		rw.symbolTable.AddConstantUtf8("RuntimeInvisibleAnnotations")
	}
	size += computeAttributesSize(rw.attributes, rw.symbolTable)
	return size
}

func (rw *RecordComponentWriter) put(output *ByteVector) {
	output.PutShort(rw.symbolTable.AddConstantUtf8(rw.name)).
		PutShort(rw.symbolTable.AddConstantUtf8(rw.descriptor))

	attrCount := rw.attributes.attributeCount()
	if rw.signature != "" {
		attrCount++
	}
	if rw.visibleAnnotations.count > 0 {
		attrCount++
	}
	if rw.invisibleAnnotations.count > 0 {
		attrCount++
	}
	output.PutShort(attrCount)

	if rw.signature != "" {
		output.PutShort(rw.symbolTable.AddConstantUtf8("Signature")).PutInt(2)
		output.PutShort(rw.symbolTable.AddConstantUtf8(rw.signature))
	}
	if rw.visibleAnnotations.count > 0 {
		content := NewByteVector(rw.visibleAnnotations.size())
		rw.visibleAnnotations.put(content)
		output.PutShort(rw.symbolTable.AddConstantUtf8("RuntimeVisibleAnnotations")).PutInt(content.Len())
		output.PutBytes(content.Bytes())
	}
	if rw.invisibleAnnotations.count > 0 {
		content := NewByteVector(rw.invisibleAnnotations.size())
		rw.invisibleAnnotations.put(content)
		output.PutShort(rw.symbolTable.AddConstantUtf8("RuntimeInvisibleAnnotations")).PutInt(content.Len())
		output.PutBytes(content.Bytes())
	}
	putAttributes(rw.attributes, rw.symbolTable, output)
}
