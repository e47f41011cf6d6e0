package classfile

import (
	"github.com/gobytecode/classfile/classfile/opcodes"
	"github.com/gobytecode/classfile/internal/classlog"
)

// Writer option flags, analogous to ASM's COMPUTE_MAXS/COMPUTE_FRAMES:
// with neither set, VisitMaxs/VisitFrame calls are trusted verbatim (a plain
// ClassReader->ClassWriter round trip); ComputeMaxs recomputes max locals
// from the instructions visited, while max stack is still taken from
// VisitMaxs; ComputeFrames additionally recomputes max stack and the
// StackMapTable via the Frame Engine instead of trusting the caller's
// VisitMaxs/VisitFrame calls.
const (
	ComputeMaxs   = 1 << 0
	ComputeFrames = 1 << 1
)

// ClassWriter implements ClassVisitor, building a class file in memory one
// visit call at a time, and serializes it to bytes with ToByteArray.
type ClassWriter struct {
	symbolTable *SymbolTable
	flags       int

	version      int
	access       int
	internalName string
	signature    string
	superName    string
	interfaces   []string

	sourceFile  string
	sourceDebug string

	module    *ModuleWriter
	nestHost  string
	outerOwner, outerName, outerDescriptor string

	visibleAnnotations       annotationWriterList
	invisibleAnnotations     annotationWriterList
	visibleTypeAnnotations   annotationWriterList
	invisibleTypeAnnotations annotationWriterList

	attributes *Attribute

	nestMembers        []string
	permittedSubclasses []string
	innerClasses       []innerClassEntry

	recordComponents []*RecordComponentWriter
	fields           []*FieldWriter
	methods          []*MethodWriter

	logger *classlog.Helper
}

type innerClassEntry struct {
	name, outerName, innerName string
	access                     int
}

// NewClassWriter returns a writer whose constant pool starts empty. flags
// selects ComputeMaxs/ComputeFrames; combine with bitwise or, or pass 0 for
// a pass-through writer suited to a ClassReader->ClassWriter copy.
func NewClassWriter(flags int) *ClassWriter {
	return &ClassWriter{symbolTable: NewSymbolTable(NoResolver{}), flags: flags, logger: classlog.NewNopHelper()}
}

// NewClassWriterFromReader returns a writer seeded from an already-parsed
// reader's constant pool, letting unmodified entries carry over without
// being re-interned (the fast-copy path). The writer inherits the reader's
// logger, so both halves of a reader/writer pipeline log through the same
// sink.
func NewClassWriterFromReader(reader *ClassReader, resolver TypeResolver, flags int) (*ClassWriter, error) {
	table, err := NewSymbolTableFromReader(reader, resolver)
	if err != nil {
		return nil, err
	}
	return &ClassWriter{symbolTable: table, flags: flags, logger: reader.logger}, nil
}

// SetLogger attaches h as the destination for this writer's log lines,
// including those of every MethodWriter it creates from this point on.
func (cw *ClassWriter) SetLogger(h *classlog.Helper) {
	cw.logger = h
}

func (cw *ClassWriter) Visit(version, access int, name, signature, superName string, interfaces []string) {
	cw.version = version
	cw.access = access
	cw.internalName = name
	cw.signature = signature
	cw.superName = superName
	cw.interfaces = interfaces

	cw.symbolTable.AddConstantClass(name)
	if signature != "" {
		cw.symbolTable.AddConstantUtf8(signature)
	}
	if superName != "" {
		cw.symbolTable.AddConstantClass(superName)
	}
	for _, i := range interfaces {
		cw.symbolTable.AddConstantClass(i)
	}
}

func (cw *ClassWriter) VisitSource(source, debug string) {
	cw.sourceFile = source
	cw.sourceDebug = debug
}

func (cw *ClassWriter) VisitModule(name string, access int, version string) ModuleVisitor {
	cw.module = NewModuleWriter(cw.symbolTable, name, access, version)
	return cw.module
}

func (cw *ClassWriter) VisitNestHost(nestHost string) {
	cw.nestHost = nestHost
	cw.symbolTable.AddConstantClass(nestHost)
}

func (cw *ClassWriter) VisitOuterClass(owner, name, descriptor string) {
	cw.outerOwner = owner
	cw.outerName = name
	cw.outerDescriptor = descriptor
	cw.symbolTable.AddConstantClass(owner)
	if name != "" {
		cw.symbolTable.AddConstantUtf8(name)
		cw.symbolTable.AddConstantUtf8(descriptor)
	}
}

func (cw *ClassWriter) VisitAnnotation(descriptor string, visible bool) AnnotationVisitor {
	w := NewAnnotationWriter(cw.symbolTable, true, nil)
	w.descriptor = descriptor
	if visible {
		cw.visibleAnnotations.add(w)
	} else {
		cw.invisibleAnnotations.add(w)
	}
	return w
}

func (cw *ClassWriter) VisitTypeAnnotation(typeRef int, typePath *TypePath, descriptor string, visible bool) AnnotationVisitor {
	w := NewAnnotationWriter(cw.symbolTable, true, nil)
	w.descriptor = descriptor
	if visible {
		cw.visibleTypeAnnotations.add(w)
	} else {
		cw.invisibleTypeAnnotations.add(w)
	}
	return w
}

func (cw *ClassWriter) VisitAttribute(attribute *Attribute) {
	attribute.nextAttribute = cw.attributes
	cw.attributes = attribute
}

func (cw *ClassWriter) VisitNestMember(nestMember string) {
	cw.nestMembers = append(cw.nestMembers, nestMember)
	cw.symbolTable.AddConstantClass(nestMember)
}

func (cw *ClassWriter) VisitPermittedSubclass(permittedSubclass string) {
	cw.permittedSubclasses = append(cw.permittedSubclasses, permittedSubclass)
	cw.symbolTable.AddConstantClass(permittedSubclass)
}

func (cw *ClassWriter) VisitInnerClass(name, outerName, innerName string, access int) {
	cw.innerClasses = append(cw.innerClasses, innerClassEntry{name, outerName, innerName, access})
	cw.symbolTable.AddConstantClass(name)
	if outerName != "" {
		cw.symbolTable.AddConstantClass(outerName)
	}
	if innerName != "" {
		cw.symbolTable.AddConstantUtf8(innerName)
	}
}

func (cw *ClassWriter) VisitRecordComponent(name, descriptor, signature string) RecordComponentVisitor {
	w := NewRecordComponentWriter(cw.symbolTable, name, descriptor, signature)
	cw.recordComponents = append(cw.recordComponents, w)
	cw.symbolTable.AddConstantUtf8(name)
	cw.symbolTable.AddConstantUtf8(descriptor)
	return w
}

func (cw *ClassWriter) VisitField(access int, name, descriptor, signature string, value interface{}) FieldVisitor {
	w := NewFieldWriter(cw.symbolTable, access, name, descriptor, signature, value)
	cw.fields = append(cw.fields, w)
	cw.symbolTable.AddConstantUtf8(name)
	cw.symbolTable.AddConstantUtf8(descriptor)
	return w
}

func (cw *ClassWriter) VisitMethod(access int, name, descriptor, signature string, exceptions []string) MethodVisitor {
	w := NewMethodWriter(cw, access, name, descriptor, signature, exceptions)
	cw.methods = append(cw.methods, w)
	cw.symbolTable.AddConstantUtf8(name)
	cw.symbolTable.AddConstantUtf8(descriptor)
	for _, e := range exceptions {
		cw.symbolTable.AddConstantClass(e)
	}
	return w
}

func (cw *ClassWriter) VisitEnd() {}

// ToByteArray serializes the visited class into its final class file bytes.
func (cw *ClassWriter) ToByteArray() ([]byte, error) {
	size := 24 + 2*len(cw.interfaces)

	for _, f := range cw.fields {
		size += f.computeFieldInfoSize()
	}
	for _, m := range cw.methods {
		size += m.computeMethodInfoSize()
	}

	attrCount := cw.attributes.attributeCount()
	if cw.sourceFile != "" || cw.sourceDebug != "" {
		attrCount++
		if cw.sourceFile != "" {
			size += 6
			cw.symbolTable.AddConstantUtf8("SourceFile")
			cw.symbolTable.AddConstantUtf8(cw.sourceFile)
		}
	}
	if cw.module != nil {
		size += cw.module.computeModuleAttributesSize()
		attrCount += cw.module.attributeCountContribution()
	}
	if cw.nestHost != "" {
		size += 8
		attrCount++
		cw.symbolTable.AddConstantUtf8("NestHost")
	}
	if cw.outerOwner != "" {
		size += 10
		attrCount++
		cw.symbolTable.AddConstantUtf8("EnclosingMethod")
	}
	if cw.access&opcodes.ACC_DEPRECATED != 0 {
		size += 6
		attrCount++
		cw.symbolTable.AddConstantUtf8("Deprecated")
	}
	if cw.signature != "" {
		size += 8
		attrCount++
		cw.symbolTable.AddConstantUtf8("Signature")
	}
	if len(cw.nestMembers) > 0 {
		size += 8 + 2*len(cw.nestMembers)
		attrCount++
		cw.symbolTable.AddConstantUtf8("NestMembers")
	}
	if len(cw.permittedSubclasses) > 0 {
		size += 8 + 2*len(cw.permittedSubclasses)
		attrCount++
		cw.symbolTable.AddConstantUtf8("PermittedSubclasses")
	}
	if len(cw.innerClasses) > 0 {
		size += 8 + 8*len(cw.innerClasses)
		attrCount++
		cw.symbolTable.AddConstantUtf8("InnerClasses")
	}
	if len(cw.recordComponents) > 0 {
		size += 8
		attrCount++
		cw.symbolTable.AddConstantUtf8("Record")
		for _, rc := range cw.recordComponents {
			size += rc.computeSize()
		}
	}
	if cw.visibleAnnotations.count > 0 {
		size += 6 + cw.visibleAnnotations.size()
		attrCount++
		cw.symbolTable.AddConstantUtf8("RuntimeVisibleAnnotations")
	}
	if cw.invisibleAnnotations.count > 0 {
		size += 6 + cw.invisibleAnnotations.size()
		attrCount++
		cw.symbolTable.AddConstantUtf8("RuntimeInvisibleAnnotations")
	}
	size += computeAttributesSize(cw.attributes, cw.symbolTable)

	if cw.symbolTable.HasBootstrapMethods() {
		size += 6 + cw.symbolTable.BootstrapMethodsSize()
		attrCount++
		cw.symbolTable.AddConstantUtf8("BootstrapMethods")
	}

	size += cw.symbolTable.constantPoolSize()
	if cw.symbolTable.ConstantPoolCount() > 65535 {
		return nil, &ClassTooLargeError{ClassName: cw.internalName, CPCount: cw.symbolTable.ConstantPoolCount()}
	}

	output := NewByteVector(size)
	output.PutInt(0xCAFEBABE).PutInt(cw.version)
	cw.symbolTable.PutConstantPool(output)
	output.PutShort(cw.access & 0xFFFF).
		PutShort(cw.symbolTable.AddConstantClass(cw.internalName))
	if cw.superName != "" {
		output.PutShort(cw.symbolTable.AddConstantClass(cw.superName))
	} else {
		output.PutShort(0)
	}
	output.PutShort(len(cw.interfaces))
	for _, i := range cw.interfaces {
		output.PutShort(cw.symbolTable.AddConstantClass(i))
	}

	output.PutShort(len(cw.fields))
	for _, f := range cw.fields {
		f.putFieldInfo(output)
	}

	output.PutShort(len(cw.methods))
	for _, m := range cw.methods {
		m.putMethodInfo(output)
	}

	output.PutShort(attrCount)
	if cw.sourceFile != "" {
		output.PutShort(cw.symbolTable.AddConstantUtf8("SourceFile")).PutInt(2)
		output.PutShort(cw.symbolTable.AddConstantUtf8(cw.sourceFile))
	}
	if cw.module != nil {
		cw.module.put(output)
	}
	if cw.nestHost != "" {
		output.PutShort(cw.symbolTable.AddConstantUtf8("NestHost")).PutInt(2)
		output.PutShort(cw.symbolTable.AddConstantClass(cw.nestHost))
	}
	if cw.outerOwner != "" {
		output.PutShort(cw.symbolTable.AddConstantUtf8("EnclosingMethod")).PutInt(4)
		output.PutShort(cw.symbolTable.AddConstantClass(cw.outerOwner))
		if cw.outerName != "" {
			output.PutShort(cw.symbolTable.AddConstantNameAndType(cw.outerName, cw.outerDescriptor))
		} else {
			output.PutShort(0)
		}
	}
	if cw.access&opcodes.ACC_DEPRECATED != 0 {
		output.PutShort(cw.symbolTable.AddConstantUtf8("Deprecated")).PutInt(0)
	}
	if cw.signature != "" {
		output.PutShort(cw.symbolTable.AddConstantUtf8("Signature")).PutInt(2)
		output.PutShort(cw.symbolTable.AddConstantUtf8(cw.signature))
	}
	if len(cw.nestMembers) > 0 {
		output.PutShort(cw.symbolTable.AddConstantUtf8("NestMembers")).PutInt(2 + 2*len(cw.nestMembers))
		output.PutShort(len(cw.nestMembers))
		for _, n := range cw.nestMembers {
			output.PutShort(cw.symbolTable.AddConstantClass(n))
		}
	}
	if len(cw.permittedSubclasses) > 0 {
		output.PutShort(cw.symbolTable.AddConstantUtf8("PermittedSubclasses")).PutInt(2 + 2*len(cw.permittedSubclasses))
		output.PutShort(len(cw.permittedSubclasses))
		for _, p := range cw.permittedSubclasses {
			output.PutShort(cw.symbolTable.AddConstantClass(p))
		}
	}
	if len(cw.innerClasses) > 0 {
		output.PutShort(cw.symbolTable.AddConstantUtf8("InnerClasses")).PutInt(2 + 8*len(cw.innerClasses))
		output.PutShort(len(cw.innerClasses))
		for _, ic := range cw.innerClasses {
			outerIdx := 0
			if ic.outerName != "" {
				outerIdx = cw.symbolTable.AddConstantClass(ic.outerName)
			}
			innerNameIdx := 0
			if ic.innerName != "" {
				innerNameIdx = cw.symbolTable.AddConstantUtf8(ic.innerName)
			}
			output.PutShort(cw.symbolTable.AddConstantClass(ic.name)).
				PutShort(outerIdx).
				PutShort(innerNameIdx).
				PutShort(ic.access & 0xFFFF)
		}
	}
	if len(cw.recordComponents) > 0 {
		content := NewByteVector(2)
		content.PutShort(len(cw.recordComponents))
		for _, rc := range cw.recordComponents {
			rc.put(content)
		}
		output.PutShort(cw.symbolTable.AddConstantUtf8("Record")).PutInt(content.Len())
		output.PutBytes(content.Bytes())
	}
	if cw.visibleAnnotations.count > 0 {
		content := NewByteVector(cw.visibleAnnotations.size())
		cw.visibleAnnotations.put(content)
		output.PutShort(cw.symbolTable.AddConstantUtf8("RuntimeVisibleAnnotations")).PutInt(content.Len())
		output.PutBytes(content.Bytes())
	}
	if cw.invisibleAnnotations.count > 0 {
		content := NewByteVector(cw.invisibleAnnotations.size())
		cw.invisibleAnnotations.put(content)
		output.PutShort(cw.symbolTable.AddConstantUtf8("RuntimeInvisibleAnnotations")).PutInt(content.Len())
		output.PutBytes(content.Bytes())
	}
	if cw.symbolTable.HasBootstrapMethods() {
		output.PutShort(cw.symbolTable.AddConstantUtf8("BootstrapMethods")).
			PutInt(cw.symbolTable.BootstrapMethodsSize())
		cw.symbolTable.PutBootstrapMethods(output)
	}
	putAttributes(cw.attributes, cw.symbolTable, output)

	return output.Bytes(), nil
}
