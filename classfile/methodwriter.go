package classfile

import (
	"sort"

	"github.com/gobytecode/classfile/classfile/opcodes"
)

// providedFrame is one VisitFrame call recorded verbatim in pass-through
// mode (ComputeFrames not requested): the caller already
// decoded the stack map, this writer just has to re-serialize it.
type providedFrame struct {
	codeOffset int
	numLocal   int
	local      []interface{}
	numStack   int
	stack      []interface{}
}

type tryCatchEntry struct {
	start, end, handler *Label
	typeName             string
}

type localVariableEntry struct {
	name, descriptor, signature string
	start, end                  *Label
	index                       int
}

type lineNumberEntry struct {
	line  int
	start *Label
}

type localVariableTypeAnnotation struct {
	typeRef    int
	typePath   *TypePath
	start, end []*Label
	index      []int
	writer     *AnnotationWriter
}

type insnTypeAnnotation struct {
	typeRef        int
	typePath       *TypePath
	offsetOfTarget int
	writer         *AnnotationWriter
}

// MethodWriter implements MethodVisitor, accumulating one method's bytecode
// and attributes for later serialization by ClassWriter. Depending on the
// owning ClassWriter's flags it either trusts the caller's VisitMaxs/
// VisitFrame calls verbatim (pass-through, e.g. a ClassReader->ClassWriter
// copy) or recomputes max stack/locals and the StackMapTable itself by
// replaying every instruction through the Frame Engine.
type MethodWriter struct {
	symbolTable *SymbolTable
	classWriter *ClassWriter

	access     int
	name       string
	descriptor string
	signature  string
	exceptions []string

	computeMaxs   bool
	computeFrames bool

	code *ByteVector

	parameters []struct {
		name   string
		access int
	}
	annotationDefault *AnnotationWriter

	visibleAnnotations        annotationWriterList
	invisibleAnnotations      annotationWriterList
	visibleTypeAnnotations    []insnTypeAnnotation
	invisibleTypeAnnotations  []insnTypeAnnotation
	visibleParameterAnnotations   []*annotationWriterList
	invisibleParameterAnnotations []*annotationWriterList
	visibleAnnotableParameterCount   int
	invisibleAnnotableParameterCount int

	attributes *Attribute

	attributesSplit           bool
	methodScopedAttributes    *Attribute
	codeScopedAttributes      *Attribute

	tryCatchBlocks []tryCatchEntry
	localVariables []localVariableEntry
	localVariableTypeAnnotations []localVariableTypeAnnotation
	lineNumbers    []lineNumberEntry

	providedMaxStack  int
	providedMaxLocals int
	providedFrames    []providedFrame

	firstBasicBlock, lastBasicBlock, currentBasicBlock *Label
	blockEndsWithoutFallthrough                         bool
	maxLocalSeen                                        int

	hasAsmInstructions bool
}

// NewMethodWriter returns a writer for one method of owner, seeded with the
// owning ClassWriter's COMPUTE_MAXS/COMPUTE_FRAMES option flags.
func NewMethodWriter(cw *ClassWriter, access int, name, descriptor, signature string, exceptions []string) *MethodWriter {
	mw := &MethodWriter{
		symbolTable: cw.symbolTable,
		classWriter: cw,
		access:      access,
		name:        name,
		descriptor:  descriptor,
		signature:   signature,
		exceptions:  exceptions,
		code:        NewByteVector(64),
	}
	mw.computeMaxs = cw.flags&ComputeMaxs != 0 || cw.flags&ComputeFrames != 0
	mw.computeFrames = cw.flags&ComputeFrames != 0
	if name == "<init>" {
		mw.access |= opcodes.ACC_CONSTRUCTOR
	}
	return mw
}

func (mw *MethodWriter) VisitParameter(name string, access int) {
	mw.parameters = append(mw.parameters, struct {
		name   string
		access int
	}{name, access})
}

func (mw *MethodWriter) VisitAnnotationDefault() AnnotationVisitor {
	mw.annotationDefault = NewAnnotationWriter(mw.symbolTable, false, nil)
	return mw.annotationDefault
}

func (mw *MethodWriter) VisitAnnotation(descriptor string, visible bool) AnnotationVisitor {
	list := &mw.invisibleAnnotations
	if visible {
		list = &mw.visibleAnnotations
	}
	w := NewAnnotationWriter(mw.symbolTable, true, nil)
	w.descriptor = descriptor
	list.add(w)
	return w
}

func (mw *MethodWriter) VisitTypeAnnotation(typeRef int, typePath *TypePath, descriptor string, visible bool) AnnotationVisitor {
	w := NewAnnotationWriter(mw.symbolTable, true, nil)
	w.descriptor = descriptor
	entry := insnTypeAnnotation{typeRef: typeRef, typePath: typePath, offsetOfTarget: mw.code.Len(), writer: w}
	if visible {
		mw.visibleTypeAnnotations = append(mw.visibleTypeAnnotations, entry)
	} else {
		mw.invisibleTypeAnnotations = append(mw.invisibleTypeAnnotations, entry)
	}
	return w
}

func (mw *MethodWriter) VisitAnnotableParameterCount(parameterCount int, visible bool) {
	if visible {
		mw.visibleAnnotableParameterCount = parameterCount
	} else {
		mw.invisibleAnnotableParameterCount = parameterCount
	}
}

func (mw *MethodWriter) VisitParameterAnnotation(parameter int, descriptor string, visible bool) AnnotationVisitor {
	lists := &mw.invisibleParameterAnnotations
	if visible {
		lists = &mw.visibleParameterAnnotations
	}
	for len(*lists) <= parameter {
		*lists = append(*lists, &annotationWriterList{})
	}
	w := NewAnnotationWriter(mw.symbolTable, true, nil)
	w.descriptor = descriptor
	(*lists)[parameter].add(w)
	return w
}

func (mw *MethodWriter) VisitAttribute(attribute *Attribute) {
	attribute.nextAttribute = mw.attributes
	mw.attributes = attribute
}

// splitAttributes partitions the custom attributes attached via
// VisitAttribute into those scoped to the Code attribute (IsCodeAttribute
// true) and those scoped to the method itself, preserving each group's
// relative order. Idempotent: later calls return the cached split instead
// of re-walking the now-rearranged chains.
func (mw *MethodWriter) splitAttributes() (methodAttrs, codeAttrs *Attribute) {
	if mw.attributesSplit {
		return mw.methodScopedAttributes, mw.codeScopedAttributes
	}
	var methodHead, methodTail, codeHead, codeTail *Attribute
	for a := mw.attributes; a != nil; {
		next := a.nextAttribute
		a.nextAttribute = nil
		if a.IsCodeAttribute() {
			if codeHead == nil {
				codeHead = a
			} else {
				codeTail.nextAttribute = a
			}
			codeTail = a
		} else {
			if methodHead == nil {
				methodHead = a
			} else {
				methodTail.nextAttribute = a
			}
			methodTail = a
		}
		a = next
	}
	mw.attributesSplit = true
	mw.methodScopedAttributes = methodHead
	mw.codeScopedAttributes = codeHead
	return methodHead, codeHead
}

func (mw *MethodWriter) VisitCode() {
	if mw.computeFrames {
		entry := NewLabel()
		entry.flags |= FLAG_RESOLVED | FLAG_REACHABLE
		entry.frame = NewFrame(entry)
		ownerName := mw.classWriter.internalName
		entry.frame.initForOwner(mw.symbolTable, ownerName, mw.access, mw.descriptor, mw.argumentSlotCount())
		mw.firstBasicBlock = entry
		mw.lastBasicBlock = entry
		mw.currentBasicBlock = entry
	}
}

func (mw *MethodWriter) argumentSlotCount() int {
	n := 0
	if mw.access&opcodes.ACC_STATIC == 0 {
		n++
	}
	mt := MethodType(mw.descriptor)
	for _, a := range mt.ArgumentTypes() {
		n += a.Size()
	}
	return n
}

func (mw *MethodWriter) touchLocal(index int) {
	if index > mw.maxLocalSeen {
		mw.maxLocalSeen = index
	}
}

// startBasicBlock closes the current block (adding a fallthrough edge unless
// the previous instruction made that unreachable) and opens label as the new
// current block.
func (mw *MethodWriter) startBasicBlock(label *Label) {
	if !mw.computeFrames {
		return
	}
	if label.frame == nil {
		label.frame = NewFrame(label)
	}
	if mw.currentBasicBlock != nil && !mw.blockEndsWithoutFallthrough {
		mw.currentBasicBlock.outgoingEdges = NewEdge(JUMP, label, mw.currentBasicBlock.outgoingEdges)
		label.flags |= FLAG_JUMP_TARGET
	}
	if mw.lastBasicBlock != nil {
		mw.lastBasicBlock.nextBasicBlock = label
	} else {
		mw.firstBasicBlock = label
	}
	mw.lastBasicBlock = label
	mw.currentBasicBlock = label
	mw.blockEndsWithoutFallthrough = false
}

func (mw *MethodWriter) addJumpEdge(target *Label) {
	if !mw.computeFrames {
		return
	}
	target.flags |= FLAG_JUMP_TARGET
	mw.currentBasicBlock.outgoingEdges = NewEdge(JUMP, target, mw.currentBasicBlock.outgoingEdges)
}

func (mw *MethodWriter) endBasicBlockNoFallthrough() {
	if !mw.computeFrames {
		return
	}
	mw.blockEndsWithoutFallthrough = true
	mw.currentBasicBlock = nil
}

func (mw *MethodWriter) VisitFrame(typed, numLocal int, local []interface{}, numStack int, stack []interface{}) {
	if mw.computeFrames {
		return
	}
	mw.providedFrames = append(mw.providedFrames, providedFrame{
		codeOffset: mw.code.Len(),
		numLocal:   numLocal,
		local:      append([]interface{}(nil), local...),
		numStack:   numStack,
		stack:      append([]interface{}(nil), stack...),
	})
}

func (mw *MethodWriter) VisitInsn(opcode int) {
	mw.code.PutByte(opcode)
	if mw.computeFrames {
		mw.currentBasicBlock.frame.execute(opcode, 0, mw.symbolTable, nil)
	}
	switch opcode {
	case opcodes.IRETURN, opcodes.LRETURN, opcodes.FRETURN, opcodes.DRETURN, opcodes.ARETURN, opcodes.RETURN,
		opcodes.ATHROW:
		mw.endBasicBlockNoFallthrough()
	}
}

func (mw *MethodWriter) VisitIntInsn(opcode, operand int) {
	switch opcode {
	case opcodes.BIPUSH, opcodes.NEWARRAY:
		mw.code.Put11(opcode, operand)
	default: // SIPUSH
		mw.code.Put12(opcode, operand)
	}
	if mw.computeFrames {
		mw.currentBasicBlock.frame.execute(opcode, operand, mw.symbolTable, nil)
	}
}

func (mw *MethodWriter) VisitVarInsn(opcode, varIndex int) {
	if opcode == opcodes.RET && mw.computeFrames {
		panic(&UnsupportedOperationError{Reason: "ret is not supported under frame computation"})
	}
	mw.touchLocal(varIndex)
	if opcode == opcodes.LLOAD || opcode == opcodes.DLOAD || opcode == opcodes.LSTORE || opcode == opcodes.DSTORE {
		mw.touchLocal(varIndex + 1)
	}
	if varIndex > 255 || opcode == opcodes.RET {
		mw.code.PutByte(opcodes.WIDE).Put12(opcode, varIndex)
	} else {
		mw.code.Put11(opcode, varIndex)
	}
	if mw.computeFrames {
		mw.currentBasicBlock.frame.execute(opcode, varIndex, mw.symbolTable, nil)
	}
	if opcode == opcodes.RET {
		mw.endBasicBlockNoFallthrough()
	}
}

func (mw *MethodWriter) VisitTypeInsn(opcode int, typed string) {
	classIndex := mw.symbolTable.AddConstantClass(typed)
	mw.code.Put12(opcode, classIndex)
	if mw.computeFrames {
		if opcode == opcodes.NEW {
			mw.currentBasicBlock.frame.execute(opcode, mw.code.Len()-3, mw.symbolTable, typed)
		} else {
			mw.currentBasicBlock.frame.execute(opcode, 0, mw.symbolTable, typed)
		}
	}
}

func (mw *MethodWriter) VisitFieldInsn(opcode int, owner, name, descriptor string) {
	index := mw.symbolTable.AddConstantFieldref(owner, name, descriptor)
	mw.code.Put12(opcode, index)
	if mw.computeFrames {
		mw.currentBasicBlock.frame.execute(opcode, 0, mw.symbolTable, descriptor)
	}
}

func (mw *MethodWriter) VisitMethodInsn(opcode int, owner, name, descriptor string, isInterface bool) {
	index := mw.symbolTable.AddConstantMethodref(owner, name, descriptor, isInterface)
	if opcode == opcodes.INVOKEINTERFACE {
		argSize := MethodType(descriptor).ArgumentsAndReturnSizes() >> 2
		mw.code.Put12(opcode, index).Put11(argSize, 0)
	} else {
		mw.code.Put12(opcode, index)
	}
	if mw.computeFrames {
		frame := mw.currentBasicBlock.frame
		var objectRef int
		if opcode != opcodes.INVOKESTATIC {
			// Capture the receiver's abstract type before popping args+ref so an
			// <init> call can resolve the uninitialized type it constructs.
			mt := MethodType(descriptor)
			args := mt.ArgumentTypes()
			depth := 0
			for _, a := range args {
				depth += a.Size()
			}
			objectRef = frame.peekAt(depth)
		}
		frame.execute(opcode, 0, mw.symbolTable, descriptor)
		if name == "<init>" && opcode == opcodes.INVOKESPECIAL && typeKind(objectRef) == kindUninitialized {
			initializedType := packType(0, kindReference, 0, symTypeTableIndexOf(objectRef))
			ownerTypeIdx := mw.symbolTable.AddType(owner)
			initializedType = packType(0, kindReference, 0, ownerTypeIdx)
			frame.initialize(objectRef, initializedType)
		}
	}
}

// peekAt returns the abstract type n slots below the current stack top
// without popping, used to inspect the receiver of an <init> call.
func (f *Frame) peekAt(n int) int {
	depth := len(f.outputStack)
	if n < depth {
		return f.outputStack[depth-1-n]
	}
	idx := len(f.inputStack) - 1 - (n - depth)
	if idx >= 0 && idx < len(f.inputStack) {
		return f.inputStack[idx]
	}
	return abstractTop
}

func symTypeTableIndexOf(t int) int { return typeValue(t) }

func (mw *MethodWriter) VisitInvokeDynamicInsn(name, descriptor string, bootstrapMethodHandle *Handle, bootstrapMethodArguments ...interface{}) {
	index := mw.symbolTable.AddConstantInvokeDynamic(name, descriptor, bootstrapMethodHandle, bootstrapMethodArguments)
	mw.code.Put12(opcodes.INVOKEDYNAMIC, index).PutShort(0)
	if mw.computeFrames {
		mw.currentBasicBlock.frame.execute(opcodes.INVOKEDYNAMIC, 0, mw.symbolTable, descriptor)
	}
}

func (mw *MethodWriter) VisitJumpInsn(opcode int, label *Label) {
	sourceOffset := mw.code.Len()
	mw.code.PutByte(opcode)
	label.put(mw.code, sourceOffset, false)
	if mw.computeFrames {
		mw.currentBasicBlock.frame.execute(opcode, 0, mw.symbolTable, nil)
		mw.addJumpEdge(label)
	}
	switch opcode {
	case opcodes.GOTO:
		mw.endBasicBlockNoFallthrough()
	case opcodes.JSR:
		if mw.computeFrames {
			panic(&UnsupportedOperationError{Reason: "jsr is not supported under frame computation"})
		}
	default:
		if mw.computeFrames {
			fallthroughLabel := NewLabel()
			fallthroughLabel.resolve(mw.code, mw.code.Len())
			mw.startBasicBlock(fallthroughLabel)
		}
	}
}

func (mw *MethodWriter) VisitLabel(label *Label) {
	if !label.IsResolved() {
		if label.resolve(mw.code, mw.code.Len()) {
			mw.hasAsmInstructions = true
		}
	}
	mw.startBasicBlock(label)
	if mw.hasAsmInstructions {
		// A forward jump's resolved delta overflowed a signed 16-bit offset.
		// ASM handles this by re-emitting the method with GOTO_W/ASM_* wide
		// jump substitutes; that second compilation pass isn't implemented
		// here, so refuse rather than silently truncate the branch offset.
		panic(&MethodTooLargeError{ClassName: mw.classWriter.internalName, MethodName: mw.name, Descriptor: mw.descriptor, CodeSize: mw.code.Len()})
	}
}

func (mw *MethodWriter) VisitLdcInsn(value interface{}) {
	index := mw.symbolTable.addConstantFromValue(value)
	wide := false
	switch value.(type) {
	case int64, float64:
		wide = true
	}
	if wide {
		mw.code.Put12(opcodes.LDC2_W, index)
	} else if index > 255 {
		mw.code.Put12(opcodes.LDC_W, index)
	} else {
		mw.code.Put11(opcodes.LDC, index)
	}
	if mw.computeFrames {
		mw.currentBasicBlock.frame.executeLdc(mw.symbolTable, value)
	}
}

func (mw *MethodWriter) VisitIincInsn(varIndex, increment int) {
	mw.touchLocal(varIndex)
	if varIndex > 255 || increment < -128 || increment > 127 {
		mw.code.PutByte(opcodes.WIDE).PutByte(opcodes.IINC).PutShort(varIndex).PutShort(increment)
	} else {
		mw.code.PutByte(opcodes.IINC).PutByte(varIndex).PutByte(increment)
	}
	if mw.computeFrames {
		mw.currentBasicBlock.frame.execute(opcodes.IINC, varIndex, mw.symbolTable, nil)
	}
}

func (mw *MethodWriter) VisitTableSwitchInsn(min, max int, dflt *Label, labels ...*Label) {
	sourceOffset := mw.code.Len()
	mw.code.PutByte(opcodes.TABLESWITCH)
	for mw.code.Len()%4 != 0 {
		mw.code.PutByte(0)
	}
	dflt.put(mw.code, sourceOffset, true)
	mw.code.PutInt(min).PutInt(max)
	for _, l := range labels {
		l.put(mw.code, sourceOffset, true)
	}
	if mw.computeFrames {
		mw.currentBasicBlock.frame.execute(opcodes.TABLESWITCH, 0, mw.symbolTable, nil)
		mw.addJumpEdge(dflt)
		for _, l := range labels {
			mw.addJumpEdge(l)
		}
		mw.endBasicBlockNoFallthrough()
	}
}

func (mw *MethodWriter) VisitLookupSwitchInsn(dflt *Label, keys []int, labels []*Label) {
	sourceOffset := mw.code.Len()
	mw.code.PutByte(opcodes.LOOKUPSWITCH)
	for mw.code.Len()%4 != 0 {
		mw.code.PutByte(0)
	}
	dflt.put(mw.code, sourceOffset, true)
	mw.code.PutInt(len(keys))
	for i, k := range keys {
		mw.code.PutInt(k)
		labels[i].put(mw.code, sourceOffset, true)
	}
	if mw.computeFrames {
		mw.currentBasicBlock.frame.execute(opcodes.LOOKUPSWITCH, 0, mw.symbolTable, nil)
		mw.addJumpEdge(dflt)
		for _, l := range labels {
			mw.addJumpEdge(l)
		}
		mw.endBasicBlockNoFallthrough()
	}
}

func (mw *MethodWriter) VisitMultiANewArrayInsn(descriptor string, numDimensions int) {
	index := mw.symbolTable.AddConstantClass(descriptor)
	mw.code.Put12(opcodes.MULTIANEWARRAY, index).PutByte(numDimensions)
	if mw.computeFrames {
		mw.currentBasicBlock.frame.execute(opcodes.MULTIANEWARRAY, numDimensions, mw.symbolTable, descriptor)
	}
}

func (mw *MethodWriter) VisitInsnAnnotation(typeRef int, typePath *TypePath, descriptor string, visible bool) AnnotationVisitor {
	w := NewAnnotationWriter(mw.symbolTable, true, nil)
	w.descriptor = descriptor
	entry := insnTypeAnnotation{typeRef: typeRef, typePath: typePath, offsetOfTarget: mw.code.Len() - 1, writer: w}
	if visible {
		mw.visibleTypeAnnotations = append(mw.visibleTypeAnnotations, entry)
	} else {
		mw.invisibleTypeAnnotations = append(mw.invisibleTypeAnnotations, entry)
	}
	return w
}

func (mw *MethodWriter) VisitTryCatchBlock(start, end, handler *Label, typed string) {
	mw.tryCatchBlocks = append(mw.tryCatchBlocks, tryCatchEntry{start, end, handler, typed})
}

func (mw *MethodWriter) VisitTryCatchAnnotation(typeRef int, typePath *TypePath, descriptor string, visible bool) AnnotationVisitor {
	w := NewAnnotationWriter(mw.symbolTable, true, nil)
	w.descriptor = descriptor
	return w
}

func (mw *MethodWriter) VisitLocalVariable(name, descriptor, signature string, start, end *Label, index int) {
	mw.localVariables = append(mw.localVariables, localVariableEntry{name, descriptor, signature, start, end, index})
}

func (mw *MethodWriter) VisitLocalVariableAnnotation(typeRef int, typePath *TypePath, start, end []*Label, index []int, descriptor string, visible bool) AnnotationVisitor {
	w := NewAnnotationWriter(mw.symbolTable, true, nil)
	w.descriptor = descriptor
	mw.localVariableTypeAnnotations = append(mw.localVariableTypeAnnotations, localVariableTypeAnnotation{typeRef, typePath, start, end, index, w})
	return w
}

func (mw *MethodWriter) VisitLineNumber(line int, start *Label) {
	mw.lineNumbers = append(mw.lineNumbers, lineNumberEntry{line, start})
}

func (mw *MethodWriter) VisitMaxs(maxStack, maxLocals int) {
	mw.providedMaxStack = maxStack
	mw.providedMaxLocals = maxLocals
	if !mw.computeFrames {
		return
	}
	mw.linkExceptionHandlerEdges()
	mw.runWorklist()
	mw.classWriter.logger.Debugw("event", "frame round trip", "method", mw.name, "descriptor", mw.descriptor)
}

// linkExceptionHandlerEdges walks each try-catch entry's basic-block chain
// from start (inclusive) to end (exclusive), adding an EXCEPTION edge from
// every block in range to the handler.
func (mw *MethodWriter) linkExceptionHandlerEdges() {
	for _, tc := range mw.tryCatchBlocks {
		catchTypeIndex := -1
		if tc.typeName != "" {
			catchTypeIndex = mw.symbolTable.AddType(tc.typeName)
		} else {
			catchTypeIndex = mw.symbolTable.AddType("java/lang/Throwable")
		}
		tc.handler.flags |= FLAG_JUMP_TARGET
		for b := tc.start; b != nil && b != tc.end; b = b.nextBasicBlock {
			b.outgoingEdges = NewExceptionEdge(tc.handler, b.outgoingEdges, catchTypeIndex)
		}
	}
}

// runWorklist repeats a full forward pass over the basic block chain,
// merging each block's output frame into every successor's input frame,
// until a pass makes no further change (or a generous pass budget is
// reached, a safety bound rather than a theoretical requirement).
func (mw *MethodWriter) runWorklist() {
	numBlocks := 0
	for b := mw.firstBasicBlock; b != nil; b = b.nextBasicBlock {
		numBlocks++
	}
	for pass := 0; pass <= numBlocks+1; pass++ {
		changed := false
		for b := mw.firstBasicBlock; b != nil; b = b.nextBasicBlock {
			for e := b.outgoingEdges; e != nil; e = e.nextEdge {
				catchIdx := -1
				if e.info == EXCEPTION {
					catchIdx = e.catchTypeIndex
				}
				if b.frame.merge(mw.symbolTable, e.successor.frame, catchIdx) {
					changed = true
				}
			}
		}
		if !changed {
			break
		}
	}
}

// computeMaxStack returns the highest combined operand stack depth reached
// by any basic block (its merged input stack size plus the deepest push
// recorded while simulating its own instructions).
func (mw *MethodWriter) computeMaxStack() int {
	max := 0
	for b := mw.firstBasicBlock; b != nil; b = b.nextBasicBlock {
		size := len(b.frame.inputStack) + b.frame.outputStackMax
		if size > max {
			max = size
		}
	}
	if max == 0 {
		max = 1
	}
	return max
}

func (mw *MethodWriter) computeMaxLocals() int {
	locals := mw.maxLocalSeen + 1
	if args := mw.argumentSlotCount(); args > locals {
		locals = args
	}
	return locals
}

// --- serialization ---

func (mw *MethodWriter) computeMethodInfoSize() int {
	size := 8 // access_flags, name_index, descriptor_index, attributes_count
	attrCount := 0
	if mw.code.Len() > 0 {
		attrCount++
	}
	if len(mw.exceptions) > 0 {
		attrCount++
	}
	if mw.signature != "" {
		attrCount++
	}
	if mw.access&opcodes.ACC_DEPRECATED != 0 {
		attrCount++
	}
	if mw.access&opcodes.ACC_SYNTHETIC != 0 {
		attrCount++
	}
	if mw.visibleAnnotations.count > 0 {
		attrCount++
	}
	if mw.invisibleAnnotations.count > 0 {
		attrCount++
	}
	if len(mw.visibleTypeAnnotations) > 0 {
		attrCount++
	}
	if len(mw.invisibleTypeAnnotations) > 0 {
		attrCount++
	}
	if len(mw.visibleParameterAnnotations) > 0 {
		attrCount++
	}
	if len(mw.invisibleParameterAnnotations) > 0 {
		attrCount++
	}
	if mw.annotationDefault != nil {
		attrCount++
	}
	if len(mw.parameters) > 0 {
		attrCount++
	}
	_ = attrCount
	methodAttrs, _ := mw.splitAttributes()
	size += computeAttributesSize(methodAttrs, mw.symbolTable)
	size += mw.codeAttributeSize()
	if len(mw.exceptions) > 0 {
		size += 8 + 2*len(mw.exceptions)
		mw.symbolTable.AddConstantUtf8("Exceptions")
	}
	if mw.signature != "" {
		size += 8
		mw.symbolTable.AddConstantUtf8("Signature")
		mw.symbolTable.AddConstantUtf8(mw.signature)
	}
	if mw.access&opcodes.ACC_DEPRECATED != 0 {
		size += 6
		mw.symbolTable.AddConstantUtf8("Deprecated")
	}
	if mw.access&opcodes.ACC_SYNTHETIC != 0 {
		size += 6
		mw.symbolTable.AddConstantUtf8("Synthetic")
	}
	if mw.visibleAnnotations.count > 0 {
		size += 6 + mw.visibleAnnotations.size()
		mw.symbolTable.AddConstantUtf8("RuntimeVisibleAnnotations")
	}
	if mw.invisibleAnnotations.count > 0 {
		size += 6 + mw.invisibleAnnotations.size()
		mw.symbolTable.AddConstantUtf8("RuntimeInvisibleAnnotations")
	}
	if mw.annotationDefault != nil {
		size += 6 + mw.annotationDefault.content.Len()
		mw.symbolTable.AddConstantUtf8("AnnotationDefault")
	}
	if len(mw.parameters) > 0 {
		size += 7 + 4*len(mw.parameters)
		mw.symbolTable.AddConstantUtf8("MethodParameters")
		for _, p := range mw.parameters {
			if p.name != "" {
				mw.symbolTable.AddConstantUtf8(p.name)
			}
		}
	}
	return size
}

func (mw *MethodWriter) codeAttributeSize() int {
	if mw.code.Len() == 0 {
		return 0
	}
	size := 6 + 2 + 2 + 4 + mw.code.Len() + 2 + len(mw.tryCatchBlocks)*8 + 2
	mw.symbolTable.AddConstantUtf8("Code")
	for range mw.lineNumbers {
	}
	if len(mw.lineNumbers) > 0 {
		size += 6 + 2 + 4*len(mw.lineNumbers)
		mw.symbolTable.AddConstantUtf8("LineNumberTable")
	}
	if len(mw.localVariables) > 0 {
		size += 6 + 2 + 10*len(mw.localVariables)
		mw.symbolTable.AddConstantUtf8("LocalVariableTable")
		for _, lv := range mw.localVariables {
			mw.symbolTable.AddConstantUtf8(lv.name)
			mw.symbolTable.AddConstantUtf8(lv.descriptor)
		}
	}
	if mw.computeFrames || len(mw.providedFrames) > 0 {
		size += 6 + mw.stackMapTableSize()
		mw.symbolTable.AddConstantUtf8("StackMapTable")
	}
	_, codeAttrs := mw.splitAttributes()
	size += computeAttributesSizeCode(codeAttrs, mw.symbolTable, mw.code.Bytes(), mw.code.Len(), mw.providedMaxStack, mw.providedMaxLocals)
	return size
}

func (mw *MethodWriter) jumpTargetLabels() []*Label {
	var result []*Label
	for b := mw.firstBasicBlock; b != nil; b = b.nextBasicBlock {
		if b != mw.firstBasicBlock && b.flags&FLAG_JUMP_TARGET != 0 {
			result = append(result, b)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].bytecodeOffset < result[j].bytecodeOffset })
	return result
}

func (mw *MethodWriter) stackMapTableSize() int {
	if mw.computeFrames {
		size := 2
		for _, l := range mw.jumpTargetLabels() {
			numLocal := len(l.frame.inputLocals)
			numStack := len(l.frame.inputStack)
			size += 7 + 3*(numLocal+numStack)
			for _, v := range append(append([]int(nil), l.frame.inputLocals...), l.frame.inputStack...) {
				if vt := decodeAbstractType(mw.symbolTable, v, mw.labelAtOffset); vt.Tag == verificationTagObject {
					mw.symbolTable.AddConstantClass(vt.InternalName)
				}
			}
		}
		return size
	}
	size := 2
	for _, f := range mw.providedFrames {
		size += 7 + 3*(f.numLocal+f.numStack)
		for _, v := range append(append([]interface{}(nil), f.local...), f.stack...) {
			if s, ok := v.(string); ok {
				mw.symbolTable.AddConstantClass(s)
			}
		}
	}
	return size
}

// putMethodInfo serializes this method's method_info structure (header,
// Code attribute, and ambient attributes) into output.
func (mw *MethodWriter) putMethodInfo(output *ByteVector) {
	accessFlags := mw.access & 0xFFFF
	output.PutShort(accessFlags).
		PutShort(mw.symbolTable.AddConstantUtf8(mw.name)).
		PutShort(mw.symbolTable.AddConstantUtf8(mw.descriptor))

	methodAttrs, _ := mw.splitAttributes()
	attrCount := methodAttrs.attributeCount()
	if mw.code.Len() > 0 {
		attrCount++
	}
	if len(mw.exceptions) > 0 {
		attrCount++
	}
	if mw.signature != "" {
		attrCount++
	}
	if mw.access&opcodes.ACC_DEPRECATED != 0 {
		attrCount++
	}
	if mw.access&opcodes.ACC_SYNTHETIC != 0 {
		attrCount++
	}
	if mw.visibleAnnotations.count > 0 {
		attrCount++
	}
	if mw.invisibleAnnotations.count > 0 {
		attrCount++
	}
	if mw.annotationDefault != nil {
		attrCount++
	}
	if len(mw.parameters) > 0 {
		attrCount++
	}
	output.PutShort(attrCount)

	if mw.code.Len() > 0 {
		mw.putCodeAttribute(output)
	}
	if len(mw.exceptions) > 0 {
		content := NewByteVector(2 + 2*len(mw.exceptions))
		content.PutShort(len(mw.exceptions))
		for _, e := range mw.exceptions {
			content.PutShort(mw.symbolTable.AddConstantClass(e))
		}
		output.PutShort(mw.symbolTable.AddConstantUtf8("Exceptions")).PutInt(content.Len())
		output.PutBytes(content.Bytes())
	}
	if mw.signature != "" {
		output.PutShort(mw.symbolTable.AddConstantUtf8("Signature")).PutInt(2)
		output.PutShort(mw.symbolTable.AddConstantUtf8(mw.signature))
	}
	if mw.access&opcodes.ACC_DEPRECATED != 0 {
		output.PutShort(mw.symbolTable.AddConstantUtf8("Deprecated")).PutInt(0)
	}
	if mw.access&opcodes.ACC_SYNTHETIC != 0 {
		output.PutShort(mw.symbolTable.AddConstantUtf8("Synthetic")).PutInt(0)
	}
	if mw.visibleAnnotations.count > 0 {
		content := NewByteVector(mw.visibleAnnotations.size())
		mw.visibleAnnotations.put(content)
		output.PutShort(mw.symbolTable.AddConstantUtf8("RuntimeVisibleAnnotations")).PutInt(content.Len())
		output.PutBytes(content.Bytes())
	}
	if mw.invisibleAnnotations.count > 0 {
		content := NewByteVector(mw.invisibleAnnotations.size())
		mw.invisibleAnnotations.put(content)
		output.PutShort(mw.symbolTable.AddConstantUtf8("RuntimeInvisibleAnnotations")).PutInt(content.Len())
		output.PutBytes(content.Bytes())
	}
	if mw.annotationDefault != nil {
		output.PutShort(mw.symbolTable.AddConstantUtf8("AnnotationDefault")).PutInt(mw.annotationDefault.content.Len())
		output.PutBytes(mw.annotationDefault.content.Bytes())
	}
	if len(mw.parameters) > 0 {
		output.PutShort(mw.symbolTable.AddConstantUtf8("MethodParameters")).PutInt(1 + 4*len(mw.parameters))
		output.PutByte(len(mw.parameters))
		for _, p := range mw.parameters {
			nameIdx := 0
			if p.name != "" {
				nameIdx = mw.symbolTable.AddConstantUtf8(p.name)
			}
			output.PutShort(nameIdx).PutShort(p.access)
		}
	}
	putAttributes(methodAttrs, mw.symbolTable, output)
}

func (mw *MethodWriter) putCodeAttribute(output *ByteVector) {
	maxStack := mw.providedMaxStack
	maxLocals := mw.providedMaxLocals
	if mw.computeMaxs {
		maxLocals = mw.computeMaxLocals()
	}
	if mw.computeFrames {
		maxStack = mw.computeMaxStack()
	}
	if mw.code.Len() > 65535 {
		panic(&MethodTooLargeError{ClassName: mw.classWriter.internalName, MethodName: mw.name, Descriptor: mw.descriptor, CodeSize: mw.code.Len()})
	}

	content := NewByteVector(mw.code.Len() + 64)
	content.PutShort(maxStack).PutShort(maxLocals).PutInt(mw.code.Len())
	content.PutBytes(mw.code.Bytes())

	content.PutShort(len(mw.tryCatchBlocks))
	for _, tc := range mw.tryCatchBlocks {
		typeIdx := 0
		if tc.typeName != "" {
			typeIdx = mw.symbolTable.AddConstantClass(tc.typeName)
		}
		content.PutShort(tc.start.MustOffset()).
			PutShort(tc.end.MustOffset()).
			PutShort(tc.handler.MustOffset()).
			PutShort(typeIdx)
	}

	_, codeAttrs := mw.splitAttributes()
	codeAttrCount := codeAttrs.attributeCount()
	if len(mw.lineNumbers) > 0 {
		codeAttrCount++
	}
	if len(mw.localVariables) > 0 {
		codeAttrCount++
	}
	if mw.computeFrames || len(mw.providedFrames) > 0 {
		codeAttrCount++
	}
	content.PutShort(codeAttrCount)

	if len(mw.lineNumbers) > 0 {
		lnt := NewByteVector(2 + 4*len(mw.lineNumbers))
		lnt.PutShort(len(mw.lineNumbers))
		for _, ln := range mw.lineNumbers {
			lnt.PutShort(ln.start.MustOffset()).PutShort(ln.line)
		}
		content.PutShort(mw.symbolTable.AddConstantUtf8("LineNumberTable")).PutInt(lnt.Len())
		content.PutBytes(lnt.Bytes())
	}
	if len(mw.localVariables) > 0 {
		lvt := NewByteVector(2 + 10*len(mw.localVariables))
		lvt.PutShort(len(mw.localVariables))
		for _, lv := range mw.localVariables {
			start := lv.start.MustOffset()
			end := lv.end.MustOffset()
			lvt.PutShort(start).PutShort(end - start).
				PutShort(mw.symbolTable.AddConstantUtf8(lv.name)).
				PutShort(mw.symbolTable.AddConstantUtf8(lv.descriptor)).
				PutShort(lv.index)
		}
		content.PutShort(mw.symbolTable.AddConstantUtf8("LocalVariableTable")).PutInt(lvt.Len())
		content.PutBytes(lvt.Bytes())
	}
	if mw.computeFrames || len(mw.providedFrames) > 0 {
		smt := NewByteVector(mw.stackMapTableSize())
		mw.putStackMapTable(smt)
		content.PutShort(mw.symbolTable.AddConstantUtf8("StackMapTable")).PutInt(smt.Len())
		content.PutBytes(smt.Bytes())
	}
	putAttributesCode(codeAttrs, mw.symbolTable, mw.code.Bytes(), mw.code.Len(), maxStack, maxLocals, content)

	output.PutShort(mw.symbolTable.AddConstantUtf8("Code")).PutInt(content.Len())
	output.PutBytes(content.Bytes())
}

func (mw *MethodWriter) putStackMapTable(output *ByteVector) {
	if mw.computeFrames {
		labels := mw.jumpTargetLabels()
		output.PutShort(len(labels))
		prev := -1
		for _, l := range labels {
			output.PutByte(255) // full_frame
			output.PutShort(l.bytecodeOffset - prev - 1)
			prev = l.bytecodeOffset
			output.PutShort(len(l.frame.inputLocals))
			for _, v := range l.frame.inputLocals {
				mw.putVerificationType(output, v)
			}
			output.PutShort(len(l.frame.inputStack))
			for _, v := range l.frame.inputStack {
				mw.putVerificationType(output, v)
			}
		}
		return
	}
	output.PutShort(len(mw.providedFrames))
	prev := -1
	for _, f := range mw.providedFrames {
		output.PutByte(255)
		offset := mw.resolvedOffsetAt(f.codeOffset)
		output.PutShort(offset - prev - 1)
		prev = offset
		output.PutShort(f.numLocal)
		for _, v := range f.local {
			mw.putProvidedVerificationType(output, v)
		}
		output.PutShort(f.numStack)
		for _, v := range f.stack {
			mw.putProvidedVerificationType(output, v)
		}
	}
}

func (mw *MethodWriter) resolvedOffsetAt(offset int) int { return offset }

func (mw *MethodWriter) putVerificationType(output *ByteVector, t int) {
	vt := decodeAbstractType(mw.symbolTable, t, func(offset int) *Label { return mw.labelAtOffset(offset) })
	switch vt.Tag {
	case verificationTagObject:
		output.PutByte(7).PutShort(mw.symbolTable.AddConstantClass(vt.InternalName))
	case verificationTagUninitialized:
		output.PutByte(8).PutShort(vt.UninitializedAt.MustOffset())
	default:
		output.PutByte(vt.Tag)
	}
}

func (mw *MethodWriter) putProvidedVerificationType(output *ByteVector, v interface{}) {
	switch x := v.(type) {
	case int:
		output.PutByte(x)
	case string:
		output.PutByte(7).PutShort(mw.symbolTable.AddConstantClass(x))
	case *Label:
		output.PutByte(8).PutShort(x.MustOffset())
	}
}

func (mw *MethodWriter) labelAtOffset(offset int) *Label {
	for b := mw.firstBasicBlock; b != nil; b = b.nextBasicBlock {
		if b.bytecodeOffset == offset {
			return b
		}
	}
	l := NewLabel()
	l.flags |= FLAG_RESOLVED
	l.bytecodeOffset = offset
	return l
}

func (mw *MethodWriter) VisitEnd() {}
