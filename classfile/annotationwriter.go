package classfile

// AnnotationWriter implements AnnotationVisitor by recording element-value
// pairs into a ByteVector, in visit order. The element_value_pairs/num_values
// count is not known until VisitEnd, so nested writers splice their own
// count and bytes into the parent's buffer only once they are closed.
type AnnotationWriter struct {
	symbolTable *SymbolTable

	numElementValuePairs int
	content              *ByteVector

	// useNamedValues selects between an annotation's "name,value" pairs and
	// an array's bare value list.
	useNamedValues bool

	// parent is set on a writer created by VisitAnnotation/VisitArray: the
	// enclosing writer whose buffer this writer's count and bytes are
	// appended to once VisitEnd runs.
	parent *AnnotationWriter

	// next chains sibling top-level annotations (RuntimeVisibleAnnotations
	// etc. hold more than one), newest first.
	next *AnnotationWriter

	// descriptor is set only for a top-level annotation writer (one attached
	// directly to a class/field/method/record-component/parameter), letting
	// annotationWriterList.put serialize it without external bookkeeping.
	descriptor string
}

// NewAnnotationWriter returns a writer that records either annotation
// element-value pairs (useNamedValues true) or bare array values (false).
// previous, if non-nil, is the writer for a sibling annotation already
// attached to the same attribute list; the new writer is chained in front
// of it.
func NewAnnotationWriter(symbolTable *SymbolTable, useNamedValues bool, previous *AnnotationWriter) *AnnotationWriter {
	return &AnnotationWriter{
		symbolTable:    symbolTable,
		content:        NewByteVector(32),
		useNamedValues: useNamedValues,
		next:           previous,
	}
}

func (w *AnnotationWriter) putName(name string) {
	if w.useNamedValues {
		w.content.PutShort(w.symbolTable.AddConstantUtf8(name))
	}
}

func (w *AnnotationWriter) Visit(name string, value interface{}) {
	w.numElementValuePairs++
	w.putName(name)
	switch v := value.(type) {
	case bool:
		iv := 0
		if v {
			iv = 1
		}
		w.content.PutByte('Z').PutShort(w.symbolTable.AddConstantInteger(int32(iv)))
	case byte:
		w.content.PutByte('B').PutShort(w.symbolTable.AddConstantInteger(int32(v)))
	case int8:
		w.content.PutByte('B').PutShort(w.symbolTable.AddConstantInteger(int32(v)))
	case rune:
		w.content.PutByte('C').PutShort(w.symbolTable.AddConstantInteger(int32(v)))
	case int16:
		w.content.PutByte('S').PutShort(w.symbolTable.AddConstantInteger(int32(v)))
	case int:
		w.content.PutByte('I').PutShort(w.symbolTable.AddConstantInteger(int32(v)))
	case int32:
		w.content.PutByte('I').PutShort(w.symbolTable.AddConstantInteger(v))
	case int64:
		w.content.PutByte('J').PutShort(w.symbolTable.AddConstantLong(v))
	case float32:
		w.content.PutByte('F').PutShort(w.symbolTable.AddConstantFloat(v))
	case float64:
		w.content.PutByte('D').PutShort(w.symbolTable.AddConstantDouble(v))
	case string:
		w.content.PutByte('s').PutShort(w.symbolTable.AddConstantUtf8(v))
	case Type:
		w.content.PutByte('c').PutShort(w.symbolTable.AddConstantUtf8(v.Descriptor()))
	case []byte:
		w.putPrimitiveArray('B', len(v), func(i int) int64 { return int64(v[i]) })
	case []bool:
		w.putPrimitiveArray('Z', len(v), func(i int) int64 {
			if v[i] {
				return 1
			}
			return 0
		})
	case []rune:
		w.putPrimitiveArray('C', len(v), func(i int) int64 { return int64(v[i]) })
	case []int16:
		w.putPrimitiveArray('S', len(v), func(i int) int64 { return int64(v[i]) })
	case []int32:
		w.putPrimitiveArray('I', len(v), func(i int) int64 { return int64(v[i]) })
	case []int64:
		w.putPrimitiveArray('J', len(v), func(i int) int64 { return v[i] })
	case []float32:
		w.content.PutByte('[').PutShort(len(v))
		for _, f := range v {
			w.content.PutByte('F').PutShort(w.symbolTable.AddConstantFloat(f))
		}
	case []float64:
		w.content.PutByte('[').PutShort(len(v))
		for _, d := range v {
			w.content.PutByte('D').PutShort(w.symbolTable.AddConstantDouble(d))
		}
	default:
		panic(&UnsupportedOperationError{Reason: "unsupported annotation element value type"})
	}
}

func (w *AnnotationWriter) putPrimitiveArray(tag byte, n int, at func(int) int64) {
	w.content.PutByte('[').PutShort(n)
	for i := 0; i < n; i++ {
		w.content.PutByte(int(tag)).PutShort(w.symbolTable.AddConstantInteger(int32(at(i))))
	}
}

func (w *AnnotationWriter) VisitEnum(name, descriptor, value string) {
	w.numElementValuePairs++
	w.putName(name)
	w.content.PutByte('e').
		PutShort(w.symbolTable.AddConstantUtf8(descriptor)).
		PutShort(w.symbolTable.AddConstantUtf8(value))
}

func (w *AnnotationWriter) VisitAnnotation(name, descriptor string) AnnotationVisitor {
	w.numElementValuePairs++
	w.putName(name)
	w.content.PutByte('@').PutShort(w.symbolTable.AddConstantUtf8(descriptor))
	nested := NewAnnotationWriter(w.symbolTable, true, nil)
	nested.parent = w
	return nested
}

func (w *AnnotationWriter) VisitArray(name string) AnnotationVisitor {
	w.numElementValuePairs++
	w.putName(name)
	w.content.PutByte('[')
	arr := NewAnnotationWriter(w.symbolTable, false, nil)
	arr.parent = w
	return arr
}

func (w *AnnotationWriter) VisitEnd() {
	if w.parent == nil {
		return
	}
	w.parent.content.PutShort(w.numElementValuePairs)
	w.parent.content.PutBytes(w.content.Bytes())
}

// putAnnotation serializes this top-level annotation as a full annotation
// structure (type_index + num_element_value_pairs + pairs) into output.
func (w *AnnotationWriter) putAnnotation(output *ByteVector, descriptor string) {
	output.PutShort(w.symbolTable.AddConstantUtf8(descriptor))
	output.PutShort(w.numElementValuePairs)
	output.PutBytes(w.content.Bytes())
}

// size returns the serialized size of this annotation including its own
// type_index/count header, used while precomputing attribute lengths.
func (w *AnnotationWriter) size() int {
	return 4 + w.content.Len()
}

// putTypeAnnotation serializes this writer's content as a type_annotation
// structure (target_info/target_path already written by the caller into
// targetBytes, followed by type_index/count/pairs).
func (w *AnnotationWriter) putTypeAnnotation(output *ByteVector, targetBytes []byte, descriptor string) {
	output.PutBytes(targetBytes)
	output.PutShort(w.symbolTable.AddConstantUtf8(descriptor))
	output.PutShort(w.numElementValuePairs)
	output.PutBytes(w.content.Bytes())
}

// annotationWriterList groups the top-level annotation writers attached to
// one attribute (RuntimeVisibleAnnotations and friends) plus their combined
// serialized size, computed once all VisitEnd calls have landed.
type annotationWriterList struct {
	first *AnnotationWriter
	count int
}

func (l *annotationWriterList) add(w *AnnotationWriter) {
	w.next = l.first
	l.first = w
	l.count++
}

func (l *annotationWriterList) size() int {
	size := 2
	for w := l.first; w != nil; w = w.next {
		size += w.size()
	}
	return size
}

func (l *annotationWriterList) put(output *ByteVector) {
	output.PutShort(l.count)
	for w := l.first; w != nil; w = w.next {
		w.putAnnotation(output, w.descriptor)
	}
}
