package classfile

import (
	"github.com/gobytecode/classfile/classfile/opcodes"
	"github.com/gobytecode/classfile/classfile/symbol"
	"github.com/gobytecode/classfile/internal/classlog"
)

// ClassReader parses a JVMS ClassFile structure and drives a ClassVisitor
// through it. It never allocates per-member objects
// beyond what it needs to report an event: field and method bodies are
// streamed directly into visitor calls.
type ClassReader struct {
	b                  []byte
	cpInfoOffsets      []int
	constantUtf8Values []string
	maxStringLength    int
	header             int
	logger             *classlog.Helper
}

// ReaderOptions configures optional behavior of NewClassReader. A nil
// *ReaderOptions, or a zero-value one, gives the defaults (no logging).
type ReaderOptions struct {
	// Logger receives one line per malformed constant pool entry
	// encountered while parsing the header. Nil discards everything.
	Logger *classlog.Helper
}

// Parsing option flags, passed to AcceptB.
const (
	SKIP_CODE        = 1
	SKIP_DEBUG        = 2
	SKIP_FRAMES       = 4
	EXPAND_FRAMES     = 8
	EXPAND_ASM_INSNS  = 256
)

// NewClassReader parses classFile's header and constant pool, ready for
// Accept/AcceptB. opts may be nil.
func NewClassReader(classFile []byte, opts *ReaderOptions) (*ClassReader, error) {
	return newClassReader(classFile, 0, len(classFile), opts)
}

func newClassReader(b []byte, offset, length int, opts *ReaderOptions) (*ClassReader, error) {
	logger := classlog.NewNopHelper()
	if opts != nil && opts.Logger != nil {
		logger = opts.Logger
	}
	reader := &ClassReader{b: b, logger: logger}

	if reader.readUnsignedShort(offset+6) > opcodes.V17&0xFFFF {
		major := reader.readUnsignedShort(offset + 6)
		logger.Errorw("event", "unsupported class version", "major", major)
		return nil, &UnsupportedVersionError{Major: major}
	}

	constantPoolCount := reader.readUnsignedShort(offset + 8)
	reader.cpInfoOffsets = make([]int, constantPoolCount)
	reader.constantUtf8Values = make([]string, constantPoolCount)
	currentCpInfoOffset := offset + 10
	maxStringLength := 0

	for i := 1; i < constantPoolCount; i++ {
		reader.cpInfoOffsets[i] = currentCpInfoOffset + 1
		var cpInfoSize int

		switch int(b[currentCpInfoOffset]) {
		case symbol.CONSTANT_FIELDREF_TAG, symbol.CONSTANT_METHODREF_TAG, symbol.CONSTANT_INTERFACE_METHODREF_TAG,
			symbol.CONSTANT_INTEGER_TAG, symbol.CONSTANT_FLOAT_TAG, symbol.CONSTANT_NAME_AND_TYPE_TAG,
			symbol.CONSTANT_DYNAMIC_TAG, symbol.CONSTANT_INVOKE_DYNAMIC_TAG:
			cpInfoSize = 5
		case symbol.CONSTANT_LONG_TAG, symbol.CONSTANT_DOUBLE_TAG:
			cpInfoSize = 9
			i++
		case symbol.CONSTANT_UTF8_TAG:
			cpInfoSize = 3 + reader.readUnsignedShort(currentCpInfoOffset+1)
			if cpInfoSize > maxStringLength {
				maxStringLength = cpInfoSize
			}
		case symbol.CONSTANT_METHOD_HANDLE_TAG:
			cpInfoSize = 4
		case symbol.CONSTANT_CLASS_TAG, symbol.CONSTANT_STRING_TAG, symbol.CONSTANT_METHOD_TYPE_TAG,
			symbol.CONSTANT_PACKAGE_TAG, symbol.CONSTANT_MODULE_TAG:
			cpInfoSize = 3
		default:
			logger.Errorw("event", "malformed constant pool entry", "offset", currentCpInfoOffset, "reason", "unknown constant pool tag")
			return nil, &MalformedClassFileError{Offset: currentCpInfoOffset, Reason: "unknown constant pool tag"}
		}
		currentCpInfoOffset += cpInfoSize
	}

	reader.maxStringLength = maxStringLength
	reader.header = currentCpInfoOffset
	return reader, nil
}

// -----------------------------------------------------------------------------------------------
// Accessors
// -----------------------------------------------------------------------------------------------

// GetAccess returns the class_access_flags.
func (c *ClassReader) GetAccess() int { return c.readUnsignedShort(c.header) }

// GetClassName returns the internal name of the class.
func (c *ClassReader) GetClassName() string {
	charBuffer := make([]rune, c.maxStringLength)
	return c.readClass(c.header+2, charBuffer)
}

// GetSuperName returns the internal name of the super class.
func (c *ClassReader) GetSuperName() string {
	charBuffer := make([]rune, c.maxStringLength)
	return c.readClass(c.header+4, charBuffer)
}

// GetInterfaces returns the internal names of the implemented interfaces.
func (c *ClassReader) GetInterfaces() []string {
	currentOffset := c.header + 6
	interfacesCount := c.readUnsignedShort(currentOffset)
	interfaces := make([]string, interfacesCount)
	if interfacesCount > 0 {
		charBuffer := make([]rune, c.maxStringLength)
		for i := 0; i < interfacesCount; i++ {
			currentOffset += 2
			interfaces[i] = c.readClass(currentOffset, charBuffer)
		}
	}
	return interfaces
}

// -----------------------------------------------------------------------------------------------
// Public methods
// -----------------------------------------------------------------------------------------------

// Accept drives classVisitor through the whole ClassFile structure with no
// attribute prototypes and no special parsing options.
func (c *ClassReader) Accept(classVisitor ClassVisitor, parsingOptions int) {
	c.AcceptB(classVisitor, nil, parsingOptions)
}

// AcceptB drives classVisitor through the whole ClassFile structure, recognizing any attributePrototypes beyond the built-in set.
func (c *ClassReader) AcceptB(classVisitor ClassVisitor, attributePrototypes []*Attribute, parsingOptions int) {
	context := &Context{
		attributePrototypes: attributePrototypes,
		parsingOptions:      parsingOptions,
		charBuffer:          make([]rune, c.maxStringLength),
	}

	charBuffer := context.charBuffer
	currentOffset := c.header
	accessFlags := c.readUnsignedShort(currentOffset)
	thisClass := c.readClass(currentOffset+2, charBuffer)
	superClass := c.readClass(currentOffset+4, charBuffer)
	interfaces := make([]string, c.readUnsignedShort(currentOffset+6))
	currentOffset += 8
	for i := range interfaces {
		interfaces[i] = c.readClass(currentOffset, charBuffer)
		currentOffset += 2
	}

	innerClassesOffset := 0
	enclosingMethodOffset := 0
	signature := ""
	sourceFile := ""
	sourceDebugExtension := ""
	runtimeVisibleAnnotationsOffset := 0
	runtimeInvisibleAnnotationsOffset := 0
	runtimeVisibleTypeAnnotationsOffset := 0
	runtimeInvisibleTypeAnnotationsOffset := 0
	moduleOffset := 0
	modulePackagesOffset := 0
	moduleMainClass := ""
	nestHostClass := ""
	nestMembersOffset := 0
	permittedSubclassesOffset := 0
	recordOffset := 0
	var attributes *Attribute

	currentAttributeOffset := c.getFirstAttributeOffset()
	for i := c.readUnsignedShort(currentAttributeOffset - 2); i > 0; i-- {
		attributeName := c.readUTF8(currentAttributeOffset, charBuffer)
		attributeLength := c.readInt(currentAttributeOffset + 2)
		currentAttributeOffset += 6

		switch attributeName {
		case "SourceFile":
			sourceFile = c.readUTF8(currentAttributeOffset, charBuffer)
		case "InnerClasses":
			innerClassesOffset = currentAttributeOffset
		case "EnclosingMethod":
			enclosingMethodOffset = currentAttributeOffset
		case "Signature":
			signature = c.readUTF8(currentAttributeOffset, charBuffer)
		case "RuntimeVisibleAnnotations":
			runtimeVisibleAnnotationsOffset = currentAttributeOffset
		case "RuntimeVisibleTypeAnnotations":
			runtimeVisibleTypeAnnotationsOffset = currentAttributeOffset
		case "Deprecated":
			accessFlags |= opcodes.ACC_DEPRECATED
		case "Synthetic":
			accessFlags |= opcodes.ACC_SYNTHETIC
		case "SourceDebugExtension":
			sourceDebugExtension = c.readUTFB(currentAttributeOffset, attributeLength, make([]rune, attributeLength))
		case "RuntimeInvisibleAnnotations":
			runtimeInvisibleAnnotationsOffset = currentAttributeOffset
		case "RuntimeInvisibleTypeAnnotations":
			runtimeInvisibleTypeAnnotationsOffset = currentAttributeOffset
		case "Module":
			moduleOffset = currentAttributeOffset
		case "ModuleMainClass":
			moduleMainClass = c.readClass(currentAttributeOffset, charBuffer)
		case "ModulePackages":
			modulePackagesOffset = currentAttributeOffset
		case "NestHost":
			nestHostClass = c.readClass(currentAttributeOffset, charBuffer)
		case "NestMembers":
			nestMembersOffset = currentAttributeOffset
		case "PermittedSubclasses":
			permittedSubclassesOffset = currentAttributeOffset
		case "Record":
			recordOffset = currentAttributeOffset
		case "BootstrapMethods":
			bootstrapMethodOffsets := make([]int, c.readUnsignedShort(currentAttributeOffset))
			currentBootstrapMethodOffset := currentAttributeOffset + 2
			for j := range bootstrapMethodOffsets {
				bootstrapMethodOffsets[j] = currentBootstrapMethodOffset
				currentBootstrapMethodOffset += 4 + c.readUnsignedShort(currentBootstrapMethodOffset+2)*2
			}
			context.bootstrapMethodOffsets = bootstrapMethodOffsets
		default:
			attribute := c.readAttribute(attributePrototypes, attributeName, currentAttributeOffset, attributeLength, charBuffer, -1, nil)
			attribute.nextAttribute = attributes
			attributes = attribute
		}
		currentAttributeOffset += attributeLength
	}

	classVisitor.Visit(c.readInt(c.cpInfoOffsets[1]-7), accessFlags, thisClass, signature, superClass, interfaces)

	if (parsingOptions&SKIP_DEBUG) == 0 && (sourceFile != "" || sourceDebugExtension != "") {
		classVisitor.VisitSource(sourceFile, sourceDebugExtension)
	}

	if moduleOffset != 0 {
		c.readModule(classVisitor, context, moduleOffset, modulePackagesOffset, moduleMainClass)
	}

	if nestHostClass != "" {
		classVisitor.VisitNestHost(nestHostClass)
	}

	if enclosingMethodOffset != 0 {
		className := c.readClass(enclosingMethodOffset, charBuffer)
		methodIndex := c.readUnsignedShort(enclosingMethodOffset + 2)
		var name, typed string
		if methodIndex != 0 {
			name = c.readUTF8(c.cpInfoOffsets[methodIndex], charBuffer)
			typed = c.readUTF8(c.cpInfoOffsets[methodIndex]+2, charBuffer)
		}
		classVisitor.VisitOuterClass(className, name, typed)
	}

	c.readAnnotations(runtimeVisibleAnnotationsOffset, true, charBuffer, func(descriptor string, visible bool) AnnotationVisitor {
		return classVisitor.VisitAnnotation(descriptor, visible)
	})
	c.readAnnotations(runtimeInvisibleAnnotationsOffset, false, charBuffer, func(descriptor string, visible bool) AnnotationVisitor {
		return classVisitor.VisitAnnotation(descriptor, visible)
	})
	c.readTypeAnnotationsInto(context, runtimeVisibleTypeAnnotationsOffset, true, charBuffer, func(target int, path *TypePath, descriptor string, visible bool) AnnotationVisitor {
		return classVisitor.VisitTypeAnnotation(target, path, descriptor, visible)
	})
	c.readTypeAnnotationsInto(context, runtimeInvisibleTypeAnnotationsOffset, false, charBuffer, func(target int, path *TypePath, descriptor string, visible bool) AnnotationVisitor {
		return classVisitor.VisitTypeAnnotation(target, path, descriptor, visible)
	})

	for attributes != nil {
		nextAttribute := attributes.nextAttribute
		attributes.nextAttribute = nil
		classVisitor.VisitAttribute(attributes)
		attributes = nextAttribute
	}

	if innerClassesOffset != 0 {
		numberOfClasses := c.readUnsignedShort(innerClassesOffset)
		currentClassesOffset := innerClassesOffset + 2
		for ; numberOfClasses > 0; numberOfClasses-- {
			classVisitor.VisitInnerClass(
				c.readClass(currentClassesOffset, charBuffer),
				c.readClass(currentClassesOffset+2, charBuffer),
				c.readClass(currentClassesOffset+4, charBuffer),
				c.readUnsignedShort(currentClassesOffset+6))
			currentClassesOffset += 8
		}
	}

	if nestMembersOffset != 0 {
		numberOfMembers := c.readUnsignedShort(nestMembersOffset)
		currentMemberOffset := nestMembersOffset + 2
		for ; numberOfMembers > 0; numberOfMembers-- {
			classVisitor.VisitNestMember(c.readClass(currentMemberOffset, charBuffer))
			currentMemberOffset += 2
		}
	}

	if permittedSubclassesOffset != 0 {
		numberOfSubclasses := c.readUnsignedShort(permittedSubclassesOffset)
		currentSubclassOffset := permittedSubclassesOffset + 2
		for ; numberOfSubclasses > 0; numberOfSubclasses-- {
			classVisitor.VisitPermittedSubclass(c.readClass(currentSubclassOffset, charBuffer))
			currentSubclassOffset += 2
		}
	}

	if recordOffset != 0 {
		recordComponentsCount := c.readUnsignedShort(recordOffset)
		recordOffset += 2
		for ; recordComponentsCount > 0; recordComponentsCount-- {
			recordOffset = c.readRecordComponent(classVisitor, context, recordOffset)
		}
	}

	fieldsCount := c.readUnsignedShort(currentOffset)
	currentOffset += 2
	for ; fieldsCount > 0; fieldsCount-- {
		currentOffset = c.readField(classVisitor, context, currentOffset)
	}
	methodsCount := c.readUnsignedShort(currentOffset)
	currentOffset += 2
	for ; methodsCount > 0; methodsCount-- {
		currentOffset = c.readMethod(classVisitor, context, currentOffset)
	}

	classVisitor.VisitEnd()
}

// ----------------------------------------------------------------------------------------------
// Methods to parse modules, record components, fields and methods
// ----------------------------------------------------------------------------------------------

func (c *ClassReader) readModule(classVisitor ClassVisitor, context *Context, moduleOffset, modulePackagesOffset int, moduleMainClass string) {
	buffer := context.charBuffer
	currentOffset := moduleOffset
	moduleName := c.readModuleName(currentOffset, buffer)
	moduleFlags := c.readUnsignedShort(currentOffset + 2)
	moduleVersion := c.readUTF8(currentOffset+4, buffer)
	currentOffset += 6
	moduleVisitor := classVisitor.VisitModule(moduleName, moduleFlags, moduleVersion)
	if moduleVisitor == nil {
		return
	}
	if moduleMainClass != "" {
		moduleVisitor.VisitMainClass(moduleMainClass)
	}

	if modulePackagesOffset != 0 {
		packageCount := c.readUnsignedShort(modulePackagesOffset)
		currentPackageOffset := modulePackagesOffset + 2
		for ; packageCount > 0; packageCount-- {
			moduleVisitor.VisitPackage(c.readPackage(currentPackageOffset, buffer))
			currentPackageOffset += 2
		}
	}

	requiresCount := c.readUnsignedShort(currentOffset)
	currentOffset += 2
	for ; requiresCount > 0; requiresCount-- {
		requires := c.readModuleName(currentOffset, buffer)
		requiresFlags := c.readUnsignedShort(currentOffset + 2)
		requiresVersion := c.readUTF8(currentOffset+4, buffer)
		currentOffset += 6
		moduleVisitor.VisitRequire(requires, requiresFlags, requiresVersion)
	}

	exportsCount := c.readUnsignedShort(currentOffset)
	currentOffset += 2
	for ; exportsCount > 0; exportsCount-- {
		exports := c.readPackage(currentOffset, buffer)
		exportsFlags := c.readUnsignedShort(currentOffset + 2)
		exportsToCount := c.readUnsignedShort(currentOffset + 4)
		currentOffset += 6
		var exportsTo []string
		for i := 0; i < exportsToCount; i++ {
			exportsTo = append(exportsTo, c.readModuleName(currentOffset, buffer))
			currentOffset += 2
		}
		moduleVisitor.VisitExport(exports, exportsFlags, exportsTo...)
	}

	opensCount := c.readUnsignedShort(currentOffset)
	currentOffset += 2
	for ; opensCount > 0; opensCount-- {
		opens := c.readPackage(currentOffset, buffer)
		opensFlags := c.readUnsignedShort(currentOffset + 2)
		opensToCount := c.readUnsignedShort(currentOffset + 4)
		currentOffset += 6
		var opensTo []string
		for i := 0; i < opensToCount; i++ {
			opensTo = append(opensTo, c.readModuleName(currentOffset, buffer))
			currentOffset += 2
		}
		moduleVisitor.VisitOpen(opens, opensFlags, opensTo...)
	}

	usesCount := c.readUnsignedShort(currentOffset)
	currentOffset += 2
	for ; usesCount > 0; usesCount-- {
		moduleVisitor.VisitUse(c.readClass(currentOffset, buffer))
		currentOffset += 2
	}

	providesCount := c.readUnsignedShort(currentOffset)
	currentOffset += 2
	for ; providesCount > 0; providesCount-- {
		provides := c.readClass(currentOffset, buffer)
		providesWithCount := c.readUnsignedShort(currentOffset + 2)
		currentOffset += 4
		providesWith := make([]string, providesWithCount)
		for i := range providesWith {
			providesWith[i] = c.readClass(currentOffset, buffer)
			currentOffset += 2
		}
		moduleVisitor.VisitProvide(provides, providesWith...)
	}

	moduleVisitor.VisitEnd()
}

func (c *ClassReader) readRecordComponent(classVisitor ClassVisitor, context *Context, recordComponentOffset int) int {
	charBuffer := context.charBuffer
	currentOffset := recordComponentOffset
	name := c.readUTF8(currentOffset, charBuffer)
	descriptor := c.readUTF8(currentOffset+2, charBuffer)
	currentOffset += 4

	signature := ""
	runtimeVisibleAnnotationsOffset := 0
	runtimeInvisibleAnnotationsOffset := 0
	runtimeVisibleTypeAnnotationsOffset := 0
	runtimeInvisibleTypeAnnotationsOffset := 0
	var attributes *Attribute

	attributesCount := c.readUnsignedShort(currentOffset)
	currentOffset += 2
	for ; attributesCount > 0; attributesCount-- {
		attributeName := c.readUTF8(currentOffset, charBuffer)
		attributeLength := c.readInt(currentOffset + 2)
		currentOffset += 6
		switch attributeName {
		case "Signature":
			signature = c.readUTF8(currentOffset, charBuffer)
		case "RuntimeVisibleAnnotations":
			runtimeVisibleAnnotationsOffset = currentOffset
		case "RuntimeInvisibleAnnotations":
			runtimeInvisibleAnnotationsOffset = currentOffset
		case "RuntimeVisibleTypeAnnotations":
			runtimeVisibleTypeAnnotationsOffset = currentOffset
		case "RuntimeInvisibleTypeAnnotations":
			runtimeInvisibleTypeAnnotationsOffset = currentOffset
		default:
			attribute := c.readAttribute(context.attributePrototypes, attributeName, currentOffset, attributeLength, charBuffer, -1, nil)
			attribute.nextAttribute = attributes
			attributes = attribute
		}
		currentOffset += attributeLength
	}

	recordVisitor := classVisitor.VisitRecordComponent(name, descriptor, signature)
	if recordVisitor != nil {
		c.readAnnotations(runtimeVisibleAnnotationsOffset, true, charBuffer, func(d string, v bool) AnnotationVisitor {
			return recordVisitor.VisitAnnotation(d, v)
		})
		c.readAnnotations(runtimeInvisibleAnnotationsOffset, false, charBuffer, func(d string, v bool) AnnotationVisitor {
			return recordVisitor.VisitAnnotation(d, v)
		})
		c.readTypeAnnotationsInto(context, runtimeVisibleTypeAnnotationsOffset, true, charBuffer, func(target int, path *TypePath, d string, v bool) AnnotationVisitor {
			return recordVisitor.VisitTypeAnnotation(target, path, d, v)
		})
		c.readTypeAnnotationsInto(context, runtimeInvisibleTypeAnnotationsOffset, false, charBuffer, func(target int, path *TypePath, d string, v bool) AnnotationVisitor {
			return recordVisitor.VisitTypeAnnotation(target, path, d, v)
		})
		for attributes != nil {
			next := attributes.nextAttribute
			attributes.nextAttribute = nil
			recordVisitor.VisitAttribute(attributes)
			attributes = next
		}
		recordVisitor.VisitEnd()
	}
	return currentOffset
}

func (c *ClassReader) readField(classVisitor ClassVisitor, context *Context, fieldInfoOffset int) int {
	charBuffer := context.charBuffer
	currentOffset := fieldInfoOffset
	accessFlags := c.readUnsignedShort(currentOffset)
	name := c.readUTF8(currentOffset+2, charBuffer)
	descriptor := c.readUTF8(currentOffset+4, charBuffer)
	currentOffset += 6

	var constantValue interface{}
	signature := ""
	runtimeVisibleAnnotationsOffset := 0
	runtimeInvisibleAnnotationsOffset := 0
	runtimeVisibleTypeAnnotationsOffset := 0
	runtimeInvisibleTypeAnnotationsOffset := 0
	var attributes *Attribute

	attributesCount := c.readUnsignedShort(currentOffset)
	currentOffset += 2
	for ; attributesCount > 0; attributesCount-- {
		attributeName := c.readUTF8(currentOffset, charBuffer)
		attributeLength := c.readInt(currentOffset + 2)
		currentOffset += 6
		switch attributeName {
		case "ConstantValue":
			constantValueIndex := c.readUnsignedShort(currentOffset)
			if constantValueIndex != 0 {
				v, _ := c.readConst(constantValueIndex, charBuffer, context.bootstrapMethodOffsets)
				constantValue = v
			}
		case "Signature":
			signature = c.readUTF8(currentOffset, charBuffer)
		case "Deprecated":
			accessFlags |= opcodes.ACC_DEPRECATED
		case "Synthetic":
			accessFlags |= opcodes.ACC_SYNTHETIC
		case "RuntimeVisibleAnnotations":
			runtimeVisibleAnnotationsOffset = currentOffset
		case "RuntimeInvisibleAnnotations":
			runtimeInvisibleAnnotationsOffset = currentOffset
		case "RuntimeVisibleTypeAnnotations":
			runtimeVisibleTypeAnnotationsOffset = currentOffset
		case "RuntimeInvisibleTypeAnnotations":
			runtimeInvisibleTypeAnnotationsOffset = currentOffset
		default:
			attribute := c.readAttribute(context.attributePrototypes, attributeName, currentOffset, attributeLength, charBuffer, -1, nil)
			attribute.nextAttribute = attributes
			attributes = attribute
		}
		currentOffset += attributeLength
	}

	fieldVisitor := classVisitor.VisitField(accessFlags, name, descriptor, signature, constantValue)
	if fieldVisitor != nil {
		c.readAnnotations(runtimeVisibleAnnotationsOffset, true, charBuffer, func(d string, v bool) AnnotationVisitor {
			return fieldVisitor.VisitAnnotation(d, v)
		})
		c.readAnnotations(runtimeInvisibleAnnotationsOffset, false, charBuffer, func(d string, v bool) AnnotationVisitor {
			return fieldVisitor.VisitAnnotation(d, v)
		})
		c.readTypeAnnotationsInto(context, runtimeVisibleTypeAnnotationsOffset, true, charBuffer, func(target int, path *TypePath, d string, v bool) AnnotationVisitor {
			return fieldVisitor.VisitTypeAnnotation(target, path, d, v)
		})
		c.readTypeAnnotationsInto(context, runtimeInvisibleTypeAnnotationsOffset, false, charBuffer, func(target int, path *TypePath, d string, v bool) AnnotationVisitor {
			return fieldVisitor.VisitTypeAnnotation(target, path, d, v)
		})
		for attributes != nil {
			next := attributes.nextAttribute
			attributes.nextAttribute = nil
			fieldVisitor.VisitAttribute(attributes)
			attributes = next
		}
		fieldVisitor.VisitEnd()
	}
	return currentOffset
}

func (c *ClassReader) readMethod(classVisitor ClassVisitor, context *Context, methodInfoOffset int) int {
	charBuffer := context.charBuffer
	currentOffset := methodInfoOffset
	context.currentMethodAccessFlags = c.readUnsignedShort(currentOffset)
	context.currentMethodName = c.readUTF8(currentOffset+2, charBuffer)
	context.currentMethodDescriptor = c.readUTF8(currentOffset+4, charBuffer)
	currentOffset += 6

	codeOffset := 0
	exceptionsOffset := 0
	var exceptions []string
	synthetic := false
	signature := ""
	runtimeVisibleAnnotationsOffset := 0
	runtimeInvisibleAnnotationsOffset := 0
	runtimeVisibleParameterAnnotationsOffset := 0
	runtimeInvisibleParameterAnnotationsOffset := 0
	runtimeVisibleTypeAnnotationsOffset := 0
	runtimeInvisibleTypeAnnotationsOffset := 0
	annotationDefaultOffset := 0
	methodParametersOffset := 0
	var attributes *Attribute

	attributesCount := c.readUnsignedShort(currentOffset)
	currentOffset += 2
	for ; attributesCount > 0; attributesCount-- {
		attributeName := c.readUTF8(currentOffset, charBuffer)
		attributeLength := c.readInt(currentOffset + 2)
		currentOffset += 6
		switch attributeName {
		case "Code":
			if context.parsingOptions&SKIP_CODE == 0 {
				codeOffset = currentOffset
			}
		case "Exceptions":
			exceptionsOffset = currentOffset
			exceptions = make([]string, c.readUnsignedShort(exceptionsOffset))
		case "Signature":
			signature = c.readUTF8(currentOffset, charBuffer)
		case "Deprecated":
			context.currentMethodAccessFlags |= opcodes.ACC_DEPRECATED
		case "Synthetic":
			synthetic = true
			context.currentMethodAccessFlags |= opcodes.ACC_SYNTHETIC
		case "RuntimeVisibleAnnotations":
			runtimeVisibleAnnotationsOffset = currentOffset
		case "RuntimeInvisibleAnnotations":
			runtimeInvisibleAnnotationsOffset = currentOffset
		case "RuntimeVisibleParameterAnnotations":
			runtimeVisibleParameterAnnotationsOffset = currentOffset
		case "RuntimeInvisibleParameterAnnotations":
			runtimeInvisibleParameterAnnotationsOffset = currentOffset
		case "RuntimeVisibleTypeAnnotations":
			runtimeVisibleTypeAnnotationsOffset = currentOffset
		case "RuntimeInvisibleTypeAnnotations":
			runtimeInvisibleTypeAnnotationsOffset = currentOffset
		case "AnnotationDefault":
			annotationDefaultOffset = currentOffset
		case "MethodParameters":
			methodParametersOffset = currentOffset
		default:
			attribute := c.readAttribute(context.attributePrototypes, attributeName, currentOffset, attributeLength, charBuffer, -1, nil)
			attribute.nextAttribute = attributes
			attributes = attribute
		}
		currentOffset += attributeLength
	}
	_ = synthetic

	if exceptionsOffset != 0 {
		off := exceptionsOffset + 2
		for i := range exceptions {
			exceptions[i] = c.readClass(off, charBuffer)
			off += 2
		}
	}

	methodVisitor := classVisitor.VisitMethod(context.currentMethodAccessFlags, context.currentMethodName, context.currentMethodDescriptor, signature, exceptions)
	if methodVisitor == nil {
		return currentOffset
	}

	if methodParametersOffset != 0 {
		parameterCount := int(c.readByte(methodParametersOffset))
		off := methodParametersOffset + 1
		for i := 0; i < parameterCount; i++ {
			parameterName := c.readUTF8(off, charBuffer)
			parameterAccess := c.readUnsignedShort(off + 2)
			methodVisitor.VisitParameter(parameterName, parameterAccess)
			off += 4
		}
	}

	if annotationDefaultOffset != 0 {
		c.readElementValue(methodVisitor.VisitAnnotationDefault(), annotationDefaultOffset, "", charBuffer)
	}

	c.readAnnotations(runtimeVisibleAnnotationsOffset, true, charBuffer, func(d string, v bool) AnnotationVisitor {
		return methodVisitor.VisitAnnotation(d, v)
	})
	c.readAnnotations(runtimeInvisibleAnnotationsOffset, false, charBuffer, func(d string, v bool) AnnotationVisitor {
		return methodVisitor.VisitAnnotation(d, v)
	})
	c.readTypeAnnotationsInto(context, runtimeVisibleTypeAnnotationsOffset, true, charBuffer, func(target int, path *TypePath, d string, v bool) AnnotationVisitor {
		return methodVisitor.VisitTypeAnnotation(target, path, d, v)
	})
	c.readTypeAnnotationsInto(context, runtimeInvisibleTypeAnnotationsOffset, false, charBuffer, func(target int, path *TypePath, d string, v bool) AnnotationVisitor {
		return methodVisitor.VisitTypeAnnotation(target, path, d, v)
	})

	if runtimeVisibleParameterAnnotationsOffset != 0 {
		c.readParameterAnnotations(methodVisitor, runtimeVisibleParameterAnnotationsOffset, true, charBuffer)
	}
	if runtimeInvisibleParameterAnnotationsOffset != 0 {
		c.readParameterAnnotations(methodVisitor, runtimeInvisibleParameterAnnotationsOffset, false, charBuffer)
	}

	for attributes != nil {
		next := attributes.nextAttribute
		attributes.nextAttribute = nil
		methodVisitor.VisitAttribute(attributes)
		attributes = next
	}

	if codeOffset != 0 {
		methodVisitor.VisitCode()
		c.readCode(methodVisitor, context, codeOffset)
	}

	methodVisitor.VisitEnd()
	return currentOffset
}

// ----------------------------------------------------------------------------------------------
// Methods to parse a Code attribute
// ----------------------------------------------------------------------------------------------

func (c *ClassReader) readCode(methodVisitor MethodVisitor, context *Context, codeOffset int) {
	charBuffer := context.charBuffer
	currentOffset := codeOffset
	maxStack := c.readUnsignedShort(currentOffset)
	maxLocals := c.readUnsignedShort(currentOffset + 2)
	codeLength := c.readInt(currentOffset + 4)
	currentOffset += 8

	bytecodeStartOffset := currentOffset
	bytecodeEndOffset := currentOffset + codeLength

	labels := make([]*Label, codeLength+1)
	context.currentMethodLabels = labels

	skipFrames := context.parsingOptions&SKIP_FRAMES != 0
	skipDebug := context.parsingOptions&SKIP_DEBUG != 0

	// Pass 1: find the exception handler labels.
	exceptionTableLength := c.readUnsignedShort(bytecodeEndOffset)
	exceptionTableOffset := bytecodeEndOffset + 2
	currentExceptionTableOffset := exceptionTableOffset
	for i := 0; i < exceptionTableLength; i++ {
		c.createLabel(c.readUnsignedShort(currentExceptionTableOffset), labels)
		c.createLabel(c.readUnsignedShort(currentExceptionTableOffset+2), labels)
		c.createLabel(c.readUnsignedShort(currentExceptionTableOffset+4), labels)
		currentExceptionTableOffset += 8
	}

	// Parse the trailing attributes: LineNumberTable, LocalVariableTable,
	// LocalVariableTypeTable, StackMapTable/StackMap, and type annotations,
	// all of which reference bytecode offsets and so must create/merge
	// labels before instructions are walked.
	currentAttributeOffset := exceptionTableOffset + 8*exceptionTableLength
	attributesCount := c.readUnsignedShort(currentAttributeOffset)
	currentAttributeOffset += 2

	var stackMapFrameOffset int
	stackMapTableEndOffset := 0
	compressedFrames := true
	var localVariableTableOffset, localVariableTypeTableOffset int
	var visibleTypeAnnotationOffsets, invisibleTypeAnnotationOffsets []int
	var codeAttributes *Attribute

	for ; attributesCount > 0; attributesCount-- {
		attributeName := c.readUTF8(currentAttributeOffset, charBuffer)
		attributeLength := c.readInt(currentAttributeOffset + 2)
		offset := currentAttributeOffset + 6
		switch attributeName {
		case "LineNumberTable":
			if !skipDebug {
				lineNumberTableLength := c.readUnsignedShort(offset)
				off := offset + 2
				for i := 0; i < lineNumberTableLength; i++ {
					startPc := c.readUnsignedShort(off)
					lineNumber := c.readUnsignedShort(off + 2)
					c.createDebugLabel(startPc, labels)
					labels[startPc].addLineNumber(lineNumber)
					off += 4
				}
			}
		case "LocalVariableTable":
			if !skipDebug {
				localVariableTableOffset = offset
				off := offset + 2
				count := c.readUnsignedShort(offset)
				for i := 0; i < count; i++ {
					startPc := c.readUnsignedShort(off)
					length := c.readUnsignedShort(off + 2)
					c.createDebugLabel(startPc, labels)
					c.createDebugLabel(startPc+length, labels)
					off += 10
				}
			}
		case "LocalVariableTypeTable":
			if !skipDebug {
				localVariableTypeTableOffset = offset
			}
		case "RuntimeVisibleTypeAnnotations":
			visibleTypeAnnotationOffsets = c.readCodeTypeAnnotationOffsets(context, offset, true, labels)
		case "RuntimeInvisibleTypeAnnotations":
			invisibleTypeAnnotationOffsets = c.readCodeTypeAnnotationOffsets(context, offset, false, labels)
		case "StackMapTable":
			if !skipFrames {
				stackMapFrameOffset = offset + 2
				stackMapTableEndOffset = offset + attributeLength
			}
		case "StackMap":
			if !skipFrames {
				compressedFrames = false
				stackMapFrameOffset = offset + 2
				stackMapTableEndOffset = offset + attributeLength
			}
		default:
			attribute := c.readAttribute(context.attributePrototypes, attributeName, offset, attributeLength, charBuffer, codeOffset, labels)
			attribute.nextAttribute = codeAttributes
			codeAttributes = attribute
		}
		currentAttributeOffset = offset + attributeLength
	}

	// Pass 2: walk the bytecode, emitting frames/instructions/labels in
	// bytecode order.
	hasStackMap := stackMapFrameOffset != 0
	var currentFrame *rawFrame
	currentTypeAnnotationVisible := 0
	currentTypeAnnotationInvisible := 0

	bytecodeOffset := bytecodeStartOffset
	currentOffset = bytecodeStartOffset
	for currentOffset < bytecodeEndOffset {
		bytecodeOffset = currentOffset - bytecodeStartOffset
		c.createLabel(bytecodeOffset, labels)
		if label := labels[bytecodeOffset]; label != nil && !label.IsDebugOnly() {
			if !skipDebug {
				label.accept(methodVisitor, true)
			} else {
				methodVisitor.VisitLabel(label)
			}
		}

		for hasStackMap && stackMapFrameOffset < stackMapTableEndOffset {
			frameBytecodeOffset := c.peekFrameOffset(stackMapFrameOffset, currentFrame, compressedFrames)
			if frameBytecodeOffset > bytecodeOffset {
				break
			}
			currentFrame, stackMapFrameOffset = c.readStackMapFrame(stackMapFrameOffset, compressedFrames, currentFrame, labels)
			if currentFrame != nil {
				c.acceptFrame(methodVisitor, currentFrame)
			}
			if stackMapFrameOffset >= stackMapTableEndOffset {
				hasStackMap = false
			}
		}

		currentOffset = c.readInstruction(methodVisitor, context, currentOffset, bytecodeStartOffset, labels)

		currentTypeAnnotationVisible = c.visitCodeTypeAnnotations(methodVisitor, visibleTypeAnnotationOffsets, currentTypeAnnotationVisible, bytecodeOffset, true, charBuffer)
		currentTypeAnnotationInvisible = c.visitCodeTypeAnnotations(methodVisitor, invisibleTypeAnnotationOffsets, currentTypeAnnotationInvisible, bytecodeOffset, false, charBuffer)
	}
	if label := labels[codeLength]; label != nil {
		label.accept(methodVisitor, !skipDebug)
	}

	// Exception table, pass 2: report to the visitor.
	currentExceptionTableOffset = exceptionTableOffset
	for i := 0; i < exceptionTableLength; i++ {
		startLabel := labels[c.readUnsignedShort(currentExceptionTableOffset)]
		endLabel := labels[c.readUnsignedShort(currentExceptionTableOffset+2)]
		handlerLabel := labels[c.readUnsignedShort(currentExceptionTableOffset+4)]
		catchType := c.readUnsignedShort(currentExceptionTableOffset + 6)
		var catchTypeName string
		if catchType != 0 {
			catchTypeName = c.readUTF8(c.cpInfoOffsets[catchType], charBuffer)
		}
		methodVisitor.VisitTryCatchBlock(startLabel, endLabel, handlerLabel, catchTypeName)
		currentExceptionTableOffset += 8
	}

	if !skipDebug && localVariableTableOffset != 0 {
		var typeTableOffset int
		var typeTable []int
		if localVariableTypeTableOffset != 0 {
			typeTableOffset = localVariableTypeTableOffset + 2
			count := c.readUnsignedShort(localVariableTypeTableOffset)
			typeTable = make([]int, count*3)
			off := typeTableOffset
			for i := 0; i < count; i++ {
				typeTable[i*3] = off + 6
				typeTable[i*3+1] = c.readUnsignedShort(off)
				typeTable[i*3+2] = c.readUnsignedShort(off + 8)
				off += 10
			}
		}
		count := c.readUnsignedShort(localVariableTableOffset)
		off := localVariableTableOffset + 2
		for i := 0; i < count; i++ {
			startPc := c.readUnsignedShort(off)
			length := c.readUnsignedShort(off + 2)
			index := c.readUnsignedShort(off + 8)
			name := c.readUTF8(off+4, charBuffer)
			descriptor := c.readUTF8(off+6, charBuffer)
			signature := ""
			for t := 0; t < len(typeTable); t += 3 {
				if typeTable[t+1] == startPc && typeTable[t+2] == index {
					signature = c.readUTF8(typeTable[t], charBuffer)
					break
				}
			}
			methodVisitor.VisitLocalVariable(name, descriptor, signature, labels[startPc], labels[startPc+length], index)
			off += 10
		}
	}

	c.visitLocalVariableTypeAnnotations(methodVisitor, visibleTypeAnnotationOffsets, true, labels, charBuffer)
	c.visitLocalVariableTypeAnnotations(methodVisitor, invisibleTypeAnnotationOffsets, false, labels, charBuffer)

	for attribute := codeAttributes; attribute != nil; {
		next := attribute.nextAttribute
		attribute.nextAttribute = nil
		methodVisitor.VisitAttribute(attribute)
		attribute = next
	}

	methodVisitor.VisitMaxs(maxStack, maxLocals)
}

// readMemberRef decodes a Fieldref/Methodref/InterfaceMethodref entry into
// its owner/name/descriptor, plus whether it names an interface method.
func (c *ClassReader) readMemberRef(index int, charBuffer []rune) (owner, name, descriptor string, isInterface bool) {
	refOffset := c.cpInfoOffsets[index]
	owner = c.readClass(refOffset, charBuffer)
	nameAndTypeOffset := c.cpInfoOffsets[c.readUnsignedShort(refOffset+2)]
	name = c.readUTF8(nameAndTypeOffset, charBuffer)
	descriptor = c.readUTF8(nameAndTypeOffset+2, charBuffer)
	isInterface = int(c.b[refOffset-1]) == symbol.CONSTANT_INTERFACE_METHODREF_TAG
	return
}

// readInstruction decodes the single bytecode instruction starting at
// currentOffset, dispatches the matching MethodVisitor.VisitXInsn call, and
// returns the offset of the following instruction.
func (c *ClassReader) readInstruction(methodVisitor MethodVisitor, context *Context, currentOffset, bytecodeStartOffset int, labels []*Label) int {
	charBuffer := context.charBuffer
	bytecodeOffset := currentOffset - bytecodeStartOffset
	opcode := int(c.readByte(currentOffset))

	switch {
	case opcode == opcodes.NOP || opcode == opcodes.ACONST_NULL ||
		(opcode >= opcodes.ICONST_M1 && opcode <= opcodes.DCONST_1) ||
		(opcode >= opcodes.IALOAD && opcode <= opcodes.SALOAD) ||
		(opcode >= opcodes.IASTORE && opcode <= opcodes.SASTORE) ||
		(opcode >= opcodes.POP && opcode <= opcodes.SWAP) ||
		(opcode >= opcodes.IADD && opcode <= opcodes.LXOR) ||
		(opcode >= opcodes.I2L && opcode <= opcodes.DCMPG) ||
		(opcode >= opcodes.IRETURN && opcode <= opcodes.RETURN) ||
		opcode == opcodes.ARRAYLENGTH || opcode == opcodes.ATHROW ||
		opcode == opcodes.MONITORENTER || opcode == opcodes.MONITOREXIT:
		methodVisitor.VisitInsn(opcode)
		return currentOffset + 1

	case opcode == opcodes.BIPUSH:
		methodVisitor.VisitIntInsn(opcode, int(int8(c.readByte(currentOffset+1))))
		return currentOffset + 2

	case opcode == opcodes.SIPUSH:
		methodVisitor.VisitIntInsn(opcode, int(c.readShort(currentOffset+1)))
		return currentOffset + 3

	case opcode == opcodes.NEWARRAY:
		methodVisitor.VisitIntInsn(opcode, int(c.readByte(currentOffset+1)))
		return currentOffset + 2

	case opcode == opcodes.LDC:
		index := int(c.readByte(currentOffset + 1))
		value, _ := c.readConst(index, charBuffer, context.bootstrapMethodOffsets)
		methodVisitor.VisitLdcInsn(value)
		return currentOffset + 2

	case opcode == opcodes.LDC_W || opcode == opcodes.LDC2_W:
		index := c.readUnsignedShort(currentOffset + 1)
		value, _ := c.readConst(index, charBuffer, context.bootstrapMethodOffsets)
		methodVisitor.VisitLdcInsn(value)
		return currentOffset + 3

	case (opcode >= opcodes.ILOAD && opcode <= opcodes.ALOAD) ||
		(opcode >= opcodes.ISTORE && opcode <= opcodes.ASTORE) ||
		opcode == opcodes.RET:
		methodVisitor.VisitVarInsn(opcode, int(c.readByte(currentOffset+1)))
		return currentOffset + 2

	case opcode >= opcodes.ILOAD_0 && opcode <= opcodes.ALOAD_3:
		canonical, varIndex := expandCompactLoad(opcode)
		methodVisitor.VisitVarInsn(canonical, varIndex)
		return currentOffset + 1

	case opcode >= opcodes.ISTORE_0 && opcode <= opcodes.ASTORE_3:
		canonical, varIndex := expandCompactStore(opcode)
		methodVisitor.VisitVarInsn(canonical, varIndex)
		return currentOffset + 1

	case opcode == opcodes.WIDE:
		widenedOpcode := int(c.readByte(currentOffset + 1))
		if widenedOpcode == opcodes.IINC {
			varIndex := c.readUnsignedShort(currentOffset + 2)
			increment := int(c.readShort(currentOffset + 4))
			methodVisitor.VisitIincInsn(varIndex, increment)
			return currentOffset + 6
		}
		varIndex := c.readUnsignedShort(currentOffset + 2)
		methodVisitor.VisitVarInsn(widenedOpcode, varIndex)
		return currentOffset + 4

	case opcode == opcodes.IINC:
		varIndex := int(c.readByte(currentOffset + 1))
		increment := int(int8(c.readByte(currentOffset + 2)))
		methodVisitor.VisitIincInsn(varIndex, increment)
		return currentOffset + 3

	case opcode == opcodes.NEW || opcode == opcodes.ANEWARRAY ||
		opcode == opcodes.CHECKCAST || opcode == opcodes.INSTANCEOF:
		methodVisitor.VisitTypeInsn(opcode, c.readClass(currentOffset+1, charBuffer))
		return currentOffset + 3

	case opcode == opcodes.GETSTATIC || opcode == opcodes.PUTSTATIC ||
		opcode == opcodes.GETFIELD || opcode == opcodes.PUTFIELD:
		index := c.readUnsignedShort(currentOffset + 1)
		owner, name, descriptor, _ := c.readMemberRef(index, charBuffer)
		methodVisitor.VisitFieldInsn(opcode, owner, name, descriptor)
		return currentOffset + 3

	case opcode == opcodes.INVOKEVIRTUAL || opcode == opcodes.INVOKESPECIAL ||
		opcode == opcodes.INVOKESTATIC:
		index := c.readUnsignedShort(currentOffset + 1)
		owner, name, descriptor, isInterface := c.readMemberRef(index, charBuffer)
		methodVisitor.VisitMethodInsn(opcode, owner, name, descriptor, isInterface)
		return currentOffset + 3

	case opcode == opcodes.INVOKEINTERFACE:
		index := c.readUnsignedShort(currentOffset + 1)
		owner, name, descriptor, _ := c.readMemberRef(index, charBuffer)
		methodVisitor.VisitMethodInsn(opcode, owner, name, descriptor, true)
		return currentOffset + 5

	case opcode == opcodes.INVOKEDYNAMIC:
		index := c.readUnsignedShort(currentOffset + 1)
		cpInfoOffset := c.cpInfoOffsets[index]
		bootstrapMethodIndex := c.readUnsignedShort(cpInfoOffset)
		nameAndTypeOffset := c.cpInfoOffsets[c.readUnsignedShort(cpInfoOffset+2)]
		name := c.readUTF8(nameAndTypeOffset, charBuffer)
		descriptor := c.readUTF8(nameAndTypeOffset+2, charBuffer)
		handle, arguments := c.resolveBootstrapMethod(bootstrapMethodIndex, context.bootstrapMethodOffsets, charBuffer)
		methodVisitor.VisitInvokeDynamicInsn(name, descriptor, handle, arguments...)
		return currentOffset + 5

	case opcode == opcodes.MULTIANEWARRAY:
		descriptor := c.readClass(currentOffset+1, charBuffer)
		numDimensions := int(c.readByte(currentOffset + 3))
		methodVisitor.VisitMultiANewArrayInsn(descriptor, numDimensions)
		return currentOffset + 4

	case (opcode >= opcodes.IFEQ && opcode <= opcodes.GOTO) || opcode == opcodes.JSR ||
		opcode == opcodes.IFNULL || opcode == opcodes.IFNONNULL:
		delta := int(c.readShort(currentOffset + 1))
		target := bytecodeOffset + delta
		methodVisitor.VisitJumpInsn(opcode, c.readLabel(target, labels))
		return currentOffset + 3

	case opcode == opcodes.GOTO_W || opcode == opcodes.JSR_W:
		canonical := opcode - opcodes.WIDE_JUMP_OPCODE_DELTA
		delta := c.readInt(currentOffset + 1)
		target := bytecodeOffset + delta
		methodVisitor.VisitJumpInsn(canonical, c.readLabel(target, labels))
		return currentOffset + 5

	case opcode == opcodes.TABLESWITCH:
		fieldsStart := alignedSwitchOffset(currentOffset, bytecodeStartOffset)
		defaultDelta := c.readInt(fieldsStart)
		low := c.readInt(fieldsStart + 4)
		high := c.readInt(fieldsStart + 8)
		numCases := high - low + 1
		caseLabels := make([]*Label, numCases)
		off := fieldsStart + 12
		for i := 0; i < numCases; i++ {
			caseLabels[i] = c.readLabel(bytecodeOffset+c.readInt(off), labels)
			off += 4
		}
		dflt := c.readLabel(bytecodeOffset+defaultDelta, labels)
		methodVisitor.VisitTableSwitchInsn(low, high, dflt, caseLabels...)
		return off

	case opcode == opcodes.LOOKUPSWITCH:
		fieldsStart := alignedSwitchOffset(currentOffset, bytecodeStartOffset)
		defaultDelta := c.readInt(fieldsStart)
		numPairs := c.readInt(fieldsStart + 4)
		keys := make([]int, numPairs)
		caseLabels := make([]*Label, numPairs)
		off := fieldsStart + 8
		for i := 0; i < numPairs; i++ {
			keys[i] = c.readInt(off)
			caseLabels[i] = c.readLabel(bytecodeOffset+c.readInt(off+4), labels)
			off += 8
		}
		dflt := c.readLabel(bytecodeOffset+defaultDelta, labels)
		methodVisitor.VisitLookupSwitchInsn(dflt, keys, caseLabels)
		return off

	default:
		// Unrecognized opcode in an otherwise well-formed class file: treat
		// it as a plain no-operand instruction rather than losing sync with
		// the bytecode stream.
		methodVisitor.VisitInsn(opcode)
		return currentOffset + 1
	}
}

// alignedSwitchOffset returns the offset of the first field (default
// target) of a TABLESWITCH/LOOKUPSWITCH, after the 0-3 padding bytes that
// align it to a multiple of 4 from the start of the method's bytecode.
func alignedSwitchOffset(currentOffset, bytecodeStartOffset int) int {
	base := currentOffset + 1
	relative := base - bytecodeStartOffset
	padding := (4 - relative%4) % 4
	return base + padding
}

// expandCompactLoad maps a compact ILOAD_0..ALOAD_3 opcode to its canonical
// opcode and local variable index.
func expandCompactLoad(opcode int) (canonical, varIndex int) {
	switch {
	case opcode <= opcodes.ILOAD_3:
		return opcodes.ILOAD, opcode - opcodes.ILOAD_0
	case opcode <= opcodes.LLOAD_3:
		return opcodes.LLOAD, opcode - opcodes.LLOAD_0
	case opcode <= opcodes.FLOAD_3:
		return opcodes.FLOAD, opcode - opcodes.FLOAD_0
	case opcode <= opcodes.DLOAD_3:
		return opcodes.DLOAD, opcode - opcodes.DLOAD_0
	default:
		return opcodes.ALOAD, opcode - opcodes.ALOAD_0
	}
}

// expandCompactStore maps a compact ISTORE_0..ASTORE_3 opcode to its
// canonical opcode and local variable index.
func expandCompactStore(opcode int) (canonical, varIndex int) {
	switch {
	case opcode <= opcodes.ISTORE_3:
		return opcodes.ISTORE, opcode - opcodes.ISTORE_0
	case opcode <= opcodes.LSTORE_3:
		return opcodes.LSTORE, opcode - opcodes.LSTORE_0
	case opcode <= opcodes.FSTORE_3:
		return opcodes.FSTORE, opcode - opcodes.FSTORE_0
	case opcode <= opcodes.DSTORE_3:
		return opcodes.DSTORE, opcode - opcodes.DSTORE_0
	default:
		return opcodes.ASTORE, opcode - opcodes.ASTORE_0
	}
}

// acceptFrame reports a fully decoded stack map frame to the visitor as an
// F_NEW frame: locals/stack entries are the visitor-facing verification
// type encoding (opcodes.TOP/INTEGER/FLOAT/DOUBLE/LONG/NULL/
// UNINITIALIZED_THIS as int, an internal name as string, or a *Label for
// an Uninitialized entry).
func (c *ClassReader) acceptFrame(methodVisitor MethodVisitor, frame *rawFrame) {
	methodVisitor.VisitFrame(opcodes.F_NEW, len(frame.locals), frame.locals, len(frame.stack), frame.stack)
}

// readLabel returns (creating if necessary) the Label at the given
// bytecode offset.
func (c *ClassReader) readLabel(bytecodeOffset int, labels []*Label) *Label {
	if labels[bytecodeOffset] == nil {
		labels[bytecodeOffset] = NewLabel()
	}
	return labels[bytecodeOffset]
}

func (c *ClassReader) createLabel(bytecodeOffset int, labels []*Label) *Label {
	label := c.readLabel(bytecodeOffset, labels)
	label.flags &^= FLAG_DEBUG_ONLY
	return label
}

func (c *ClassReader) createDebugLabel(bytecodeOffset int, labels []*Label) {
	if labels[bytecodeOffset] == nil {
		c.readLabel(bytecodeOffset, labels).flags |= FLAG_DEBUG_ONLY
	}
}

// ----------------------------------------------------------------------------------------------
// Methods to parse annotations, type annotations and parameter annotations
// ----------------------------------------------------------------------------------------------

func (c *ClassReader) readAnnotations(offset int, visible bool, charBuffer []rune, visit func(descriptor string, visible bool) AnnotationVisitor) {
	if offset == 0 {
		return
	}
	numAnnotations := c.readUnsignedShort(offset)
	currentAnnotationOffset := offset + 2
	for ; numAnnotations > 0; numAnnotations-- {
		annotationDescriptor := c.readUTF8(currentAnnotationOffset, charBuffer)
		currentAnnotationOffset += 2
		currentAnnotationOffset = c.readElementValues(visit(annotationDescriptor, visible), currentAnnotationOffset, true, charBuffer)
	}
}

func (c *ClassReader) readTypeAnnotationsInto(context *Context, offset int, visible bool, charBuffer []rune, visit func(target int, path *TypePath, descriptor string, visible bool) AnnotationVisitor) {
	if offset == 0 {
		return
	}
	numAnnotations := c.readUnsignedShort(offset)
	currentOffset := offset + 2
	for ; numAnnotations > 0; numAnnotations-- {
		currentOffset = c.readTypeAnnotationTarget(context, currentOffset)
		currentOffset = c.readTypePath(context, currentOffset)
		annotationDescriptor := c.readUTF8(currentOffset, charBuffer)
		currentOffset += 2
		currentOffset = c.readElementValues(visit(context.currentTypeAnnotationTarget, context.currentTypeAnnotationTargetPath, annotationDescriptor, visible), currentOffset, true, charBuffer)
	}
}

// readCodeTypeAnnotationOffsets scans a RuntimeVisible/InvisibleTypeAnnotations
// attribute inside a Code attribute, recording each entry's starting offset
// (the target kind there determines which instruction it attaches to) and
// creating any bytecode-offset-referencing labels it needs.
func (c *ClassReader) readCodeTypeAnnotationOffsets(context *Context, offset int, visible bool, labels []*Label) []int {
	numAnnotations := c.readUnsignedShort(offset)
	offsets := make([]int, 0, numAnnotations)
	currentOffset := offset + 2
	for i := 0; i < numAnnotations; i++ {
		offsets = append(offsets, currentOffset)
		targetType := int(c.readByte(currentOffset))
		switch targetType {
		case 0x40, 0x41: // LOCAL_VARIABLE, RESOURCE_VARIABLE
			tableLength := c.readUnsignedShort(currentOffset + 1)
			off := currentOffset + 3
			for j := 0; j < tableLength; j++ {
				startPc := c.readUnsignedShort(off)
				length := c.readUnsignedShort(off + 2)
				c.createLabel(startPc, labels)
				c.createLabel(startPc+length, labels)
				off += 6
			}
			currentOffset = off
		case 0x42: // EXCEPTION_PARAMETER
			currentOffset += 3
		case 0x43, 0x44, 0x45, 0x46: // offset_target
			currentOffset += 3
		case 0x47, 0x48, 0x49, 0x4A, 0x4B: // type_argument_target
			currentOffset += 4
		default:
			currentOffset += 1 + targetInfoFixedLength(targetType)
		}
		currentOffset = c.skipTypePathAndElementValuesHeader(currentOffset)
		currentOffset = c.readElementValues(nil, currentOffset+2, true, nil)
	}
	return offsets
}

func targetInfoFixedLength(targetType int) int {
	switch {
	case targetType <= 0x01:
		return 1
	case targetType == 0x10:
		return 2
	case targetType <= 0x17:
		return 0
	case targetType <= 0x1B:
		return 2
	default:
		return 2
	}
}

func (c *ClassReader) skipTypePathAndElementValuesHeader(offset int) int {
	pathLength := int(c.readByte(offset))
	return offset + 1 + 2*pathLength
}

// visitCodeTypeAnnotations visits every code type annotation whose target
// bytecode offset equals bytecodeOffset, in attribute order, advancing and
// returning the next unvisited index.
func (c *ClassReader) visitCodeTypeAnnotations(methodVisitor MethodVisitor, offsets []int, nextIndex, bytecodeOffset int, visible bool, charBuffer []rune) int {
	for nextIndex < len(offsets) {
		entryOffset := offsets[nextIndex]
		targetType := int(c.readByte(entryOffset))
		if targetType < 0x43 || targetType > 0x4B {
			nextIndex++
			continue
		}
		targetOffset := c.readUnsignedShort(entryOffset + 1)
		if targetOffset != bytecodeOffset {
			break
		}
		typeRef := (targetType << 24) | (targetOffset << 8)
		pathOffset := entryOffset + 3
		if targetType >= 0x47 { // type_argument_target carries a type_argument_index
			typeRef |= int(c.readByte(entryOffset + 3))
			pathOffset++
		}
		pathLength := int(c.readByte(pathOffset))
		typePath := NewTypePath(c.b, pathOffset)
		descOffset := pathOffset + 1 + 2*pathLength
		descriptor := c.readUTF8(descOffset, charBuffer)
		c.readElementValues(methodVisitor.VisitInsnAnnotation(typeRef, typePath, descriptor, visible), descOffset+2, true, charBuffer)
		nextIndex++
	}
	return nextIndex
}

// visitLocalVariableTypeAnnotations reports every LOCAL_VARIABLE/
// RESOURCE_VARIABLE (target_type 0x40/0x41) entry among offsets, which were
// collected by readCodeTypeAnnotationOffsets alongside the per-instruction
// ones visitCodeTypeAnnotations handles.
func (c *ClassReader) visitLocalVariableTypeAnnotations(methodVisitor MethodVisitor, offsets []int, visible bool, labels []*Label, charBuffer []rune) {
	for _, entryOffset := range offsets {
		targetType := int(c.readByte(entryOffset))
		if targetType != 0x40 && targetType != 0x41 {
			continue
		}
		tableLength := c.readUnsignedShort(entryOffset + 1)
		starts := make([]*Label, tableLength)
		ends := make([]*Label, tableLength)
		indices := make([]int, tableLength)
		off := entryOffset + 3
		for i := 0; i < tableLength; i++ {
			startPc := c.readUnsignedShort(off)
			length := c.readUnsignedShort(off + 2)
			indices[i] = c.readUnsignedShort(off + 4)
			starts[i] = labels[startPc]
			ends[i] = labels[startPc+length]
			off += 6
		}
		typeRef := targetType << 24
		pathOffset := off
		pathLength := int(c.readByte(pathOffset))
		typePath := NewTypePath(c.b, pathOffset)
		descOffset := pathOffset + 1 + 2*pathLength
		descriptor := c.readUTF8(descOffset, charBuffer)
		annotationVisitor := methodVisitor.VisitLocalVariableAnnotation(typeRef, typePath, starts, ends, indices, descriptor, visible)
		c.readElementValues(annotationVisitor, descOffset+2, true, charBuffer)
	}
}

// readTypeAnnotationTarget parses a type_annotation's target_type and
// target_info, recording the resulting encoded typeRef into
// context.currentTypeAnnotationTarget, and
// returns the offset of the following type_path.
func (c *ClassReader) readTypeAnnotationTarget(context *Context, typeAnnotationOffset int) int {
	currentOffset := typeAnnotationOffset
	targetType := c.readInt(typeAnnotationOffset) >> 24
	switch targetType {
	case 0x00, 0x01, 0x16:
		context.currentTypeAnnotationTarget = c.readInt(typeAnnotationOffset) & 0xFFFF0000
		currentOffset = typeAnnotationOffset + 2
	case 0x10:
		context.currentTypeAnnotationTarget = (targetType << 24) | (c.readUnsignedShort(typeAnnotationOffset+1) << 8)
		currentOffset = typeAnnotationOffset + 3
	case 0x11, 0x12, 0x17:
		context.currentTypeAnnotationTarget = c.readInt(typeAnnotationOffset) & 0xFFFFFF00
		currentOffset = typeAnnotationOffset + 3
	case 0x13, 0x14, 0x15:
		context.currentTypeAnnotationTarget = c.readInt(typeAnnotationOffset) & 0xFF000000
		currentOffset = typeAnnotationOffset + 1
	case 0x40, 0x41:
		tableLength := c.readUnsignedShort(typeAnnotationOffset + 1)
		context.currentTypeAnnotationTarget = (targetType << 24)
		currentOffset = typeAnnotationOffset + 3 + 6*tableLength
	case 0x42:
		context.currentTypeAnnotationTarget = (targetType << 24) | (c.readUnsignedShort(typeAnnotationOffset+1) << 8)
		currentOffset = typeAnnotationOffset + 3
	case 0x43, 0x44, 0x45, 0x46:
		context.currentTypeAnnotationTarget = (targetType << 24) | (c.readUnsignedShort(typeAnnotationOffset+1) << 8)
		currentOffset = typeAnnotationOffset + 3
	case 0x47, 0x48, 0x49, 0x4A, 0x4B:
		context.currentTypeAnnotationTarget = (targetType << 24) | (c.readUnsignedShort(typeAnnotationOffset+1) << 8) | int(c.readByte(typeAnnotationOffset+3))
		currentOffset = typeAnnotationOffset + 4
	default:
		context.currentTypeAnnotationTarget = targetType << 24
		currentOffset = typeAnnotationOffset + 1
	}
	return currentOffset
}

func (c *ClassReader) readTypePath(context *Context, typePathOffset int) int {
	pathLength := int(c.readByte(typePathOffset))
	context.currentTypeAnnotationTargetPath = NewTypePath(c.b, typePathOffset)
	return typePathOffset + 1 + 2*pathLength
}

func (c *ClassReader) getTypeAnnotationBytecodeOffset(typeAnnotationOffsets []int, typeAnnotationIndex int) int {
	if typeAnnotationOffsets == nil || typeAnnotationIndex >= len(typeAnnotationOffsets) || int(c.readByte(typeAnnotationOffsets[typeAnnotationIndex])) < opcodes.INSTANCEOF {
		return -1
	}
	return c.readUnsignedShort(typeAnnotationOffsets[typeAnnotationIndex] + 1)
}

func (c *ClassReader) readParameterAnnotations(methodVisitor MethodVisitor, runtimeParameterAnnotationsOffset int, visible bool, charBuffer []rune) {
	numParameters := int(c.readByte(runtimeParameterAnnotationsOffset))
	methodVisitor.VisitAnnotableParameterCount(numParameters, visible)
	currentOffset := runtimeParameterAnnotationsOffset + 1
	for i := 0; i < numParameters; i++ {
		numAnnotations := c.readUnsignedShort(currentOffset)
		currentOffset += 2
		for ; numAnnotations > 0; numAnnotations-- {
			annotationDescriptor := c.readUTF8(currentOffset, charBuffer)
			currentOffset += 2
			currentOffset = c.readElementValues(methodVisitor.VisitParameterAnnotation(i, annotationDescriptor, visible), currentOffset, true, charBuffer)
		}
	}
}

func (c *ClassReader) readElementValues(annotationVisitor AnnotationVisitor, annotationOffset int, named bool, charBuffer []rune) int {
	currentOffset := annotationOffset
	numElementValuePairs := c.readUnsignedShort(currentOffset)
	currentOffset += 2
	if annotationVisitor == nil {
		for ; numElementValuePairs > 0; numElementValuePairs-- {
			if named {
				currentOffset += 2
			}
			currentOffset = c.readElementValue(nil, currentOffset, "", charBuffer)
		}
		return currentOffset
	}
	for ; numElementValuePairs > 0; numElementValuePairs-- {
		elementName := ""
		if named {
			elementName = c.readUTF8(currentOffset, charBuffer)
			currentOffset += 2
		}
		currentOffset = c.readElementValue(annotationVisitor, currentOffset, elementName, charBuffer)
	}
	if annotationVisitor != nil {
		annotationVisitor.VisitEnd()
	}
	return currentOffset
}

func (c *ClassReader) readElementValue(annotationVisitor AnnotationVisitor, elementValueOffset int, elementName string, charBuffer []rune) int {
	currentOffset := elementValueOffset
	if annotationVisitor == nil {
		switch rune(c.readByte(currentOffset)) {
		case 'e':
			return currentOffset + 5
		case '@':
			return c.readElementValues(nil, currentOffset+3, true, charBuffer)
		case '[':
			return c.readArrayElementValue(nil, currentOffset, charBuffer)
		default:
			return currentOffset + 3
		}
	}
	tag := rune(c.readByte(currentOffset))
	currentOffset++
	switch tag {
	case 'B':
		v, _ := c.readConst(c.readUnsignedShort(currentOffset), charBuffer, nil)
		annotationVisitor.Visit(elementName, int8(v.(int32)))
		currentOffset += 2
	case 'C':
		v, _ := c.readConst(c.readUnsignedShort(currentOffset), charBuffer, nil)
		annotationVisitor.Visit(elementName, rune(v.(int32)))
		currentOffset += 2
	case 'D', 'F', 'I', 'J':
		v, _ := c.readConst(c.readUnsignedShort(currentOffset), charBuffer, nil)
		annotationVisitor.Visit(elementName, v)
		currentOffset += 2
	case 'S':
		v, _ := c.readConst(c.readUnsignedShort(currentOffset), charBuffer, nil)
		annotationVisitor.Visit(elementName, int16(v.(int32)))
		currentOffset += 2
	case 'Z':
		v, _ := c.readConst(c.readUnsignedShort(currentOffset), charBuffer, nil)
		annotationVisitor.Visit(elementName, v.(int32) != 0)
		currentOffset += 2
	case 's':
		annotationVisitor.Visit(elementName, c.readUTF8(currentOffset, charBuffer))
		currentOffset += 2
	case 'e':
		descriptor := c.readUTF8(currentOffset, charBuffer)
		value := c.readUTF8(currentOffset+2, charBuffer)
		annotationVisitor.VisitEnum(elementName, descriptor, value)
		currentOffset += 4
	case 'c':
		t, _ := NewType(c.readUTF8(currentOffset, charBuffer), 0)
		annotationVisitor.Visit(elementName, t)
		currentOffset += 2
	case '@':
		descriptor := c.readUTF8(currentOffset, charBuffer)
		currentOffset += 2
		currentOffset = c.readElementValues(annotationVisitor.VisitAnnotation(elementName, descriptor), currentOffset, true, charBuffer)
	case '[':
		currentOffset = c.readArrayElementValue(annotationVisitor, currentOffset-1, charBuffer)
	}
	return currentOffset
}

func (c *ClassReader) readArrayElementValue(annotationVisitor AnnotationVisitor, arrayOffset int, charBuffer []rune) int {
	currentOffset := arrayOffset + 1
	numValues := c.readUnsignedShort(currentOffset)
	currentOffset += 2
	if annotationVisitor == nil {
		for ; numValues > 0; numValues-- {
			currentOffset = c.readElementValue(nil, currentOffset, "", charBuffer)
		}
		return currentOffset
	}
	if numValues == 0 {
		return currentOffset
	}
	arrayVisitor := annotationVisitor.VisitArray("")
	for ; numValues > 0; numValues-- {
		currentOffset = c.readElementValue(arrayVisitor, currentOffset, "", charBuffer)
	}
	if arrayVisitor != nil {
		arrayVisitor.VisitEnd()
	}
	return currentOffset
}

// ----------------------------------------------------------------------------------------------
// Methods to parse stack map frames
// ----------------------------------------------------------------------------------------------

// rawFrame is a fully decoded stack_map_frame, ready to hand a
// MethodVisitor: each locals/stack entry is either an int
// (opcodes.TOP/INTEGER/FLOAT/DOUBLE/LONG/NULL/UNINITIALIZED_THIS), a
// string (an Object entry's internal name), or a *Label (an Uninitialized
// entry's NEW instruction).
type rawFrame struct {
	owner  *Label
	offset int
	locals []interface{}
	stack  []interface{}
}

// peekFrameOffset returns the bytecode offset the stack map frame at
// frameOffset applies to, without consuming it (so the bytecode walk can
// decide whether it is due yet).
func (c *ClassReader) peekFrameOffset(frameOffset int, previousFrame *rawFrame, compressed bool) int {
	frameType := int(c.readByte(frameOffset))
	if !compressed {
		return c.readUnsignedShort(frameOffset + 1)
	}
	switch {
	case frameType < 64:
		return rawOffsetDelta(previousFrame, frameType)
	case frameType < 128:
		return rawOffsetDelta(previousFrame, frameType-64)
	case frameType < 247:
		return 0 // reserved, unused
	default:
		return rawOffsetDelta(previousFrame, c.readUnsignedShort(frameOffset+1))
	}
}

func rawOffsetDelta(previousFrame *rawFrame, delta int) int {
	if previousFrame == nil {
		return delta
	}
	return previousFrame.offset + delta + 1
}

// readStackMapFrame parses one stack_map_frame entry, expanding it against
// previousFrame if compressed, and returns the decoded frame plus the
// offset of the following entry.
func (c *ClassReader) readStackMapFrame(stackMapFrameOffset int, compressed bool, previousFrame *rawFrame, labels []*Label) (*rawFrame, int) {
	currentOffset := stackMapFrameOffset
	frameType := int(c.readByte(currentOffset))
	currentOffset++

	var offsetDeltaValue int
	var locals []interface{}
	var stack []interface{}
	var inputLocals []interface{}
	if previousFrame != nil {
		inputLocals = append([]interface{}(nil), previousFrame.locals...)
	}

	if !compressed {
		offsetDeltaValue = c.readUnsignedShort(currentOffset)
		currentOffset += 2
		numberOfLocals := c.readUnsignedShort(currentOffset)
		currentOffset += 2
		for i := 0; i < numberOfLocals; i++ {
			var v interface{}
			v, currentOffset = c.readVerificationTypeInfo(currentOffset, labels)
			locals = append(locals, v)
		}
		numberOfStack := c.readUnsignedShort(currentOffset)
		currentOffset += 2
		for i := 0; i < numberOfStack; i++ {
			var v interface{}
			v, currentOffset = c.readVerificationTypeInfo(currentOffset, labels)
			stack = append(stack, v)
		}
		f := &rawFrame{offset: offsetDeltaValue, locals: locals, stack: stack}
		f.owner = c.createLabel(offsetDeltaValue, labels)
		return f, currentOffset
	}

	switch {
	case frameType < 64: // SAME
		offsetDeltaValue = frameType
		locals = inputLocals
	case frameType < 128: // SAME_LOCALS_1_STACK_ITEM
		offsetDeltaValue = frameType - 64
		locals = inputLocals
		v, next := c.readVerificationTypeInfo(currentOffset, labels)
		stack = []interface{}{v}
		currentOffset = next
	case frameType == 247: // SAME_LOCALS_1_STACK_ITEM_EXTENDED
		offsetDeltaValue = c.readUnsignedShort(currentOffset)
		currentOffset += 2
		locals = inputLocals
		v, next := c.readVerificationTypeInfo(currentOffset, labels)
		stack = []interface{}{v}
		currentOffset = next
	case frameType >= 248 && frameType <= 250: // CHOP
		offsetDeltaValue = c.readUnsignedShort(currentOffset)
		currentOffset += 2
		chop := 251 - frameType
		locals = inputLocals
		for i := 0; i < chop && len(locals) > 0; i++ {
			locals = locals[:len(locals)-1]
		}
	case frameType == 251: // SAME_FRAME_EXTENDED
		offsetDeltaValue = c.readUnsignedShort(currentOffset)
		currentOffset += 2
		locals = inputLocals
	case frameType >= 252 && frameType <= 254: // APPEND
		offsetDeltaValue = c.readUnsignedShort(currentOffset)
		currentOffset += 2
		locals = inputLocals
		appended := frameType - 251
		for i := 0; i < appended; i++ {
			var v interface{}
			v, currentOffset = c.readVerificationTypeInfo(currentOffset, labels)
			locals = append(locals, v)
		}
	default: // 255: FULL_FRAME
		offsetDeltaValue = c.readUnsignedShort(currentOffset)
		currentOffset += 2
		numberOfLocals := c.readUnsignedShort(currentOffset)
		currentOffset += 2
		for i := 0; i < numberOfLocals; i++ {
			var v interface{}
			v, currentOffset = c.readVerificationTypeInfo(currentOffset, labels)
			locals = append(locals, v)
		}
		numberOfStack := c.readUnsignedShort(currentOffset)
		currentOffset += 2
		for i := 0; i < numberOfStack; i++ {
			var v interface{}
			v, currentOffset = c.readVerificationTypeInfo(currentOffset, labels)
			stack = append(stack, v)
		}
	}

	f := &rawFrame{offset: rawOffsetDelta(previousFrame, offsetDeltaValue), locals: locals, stack: stack}
	f.owner = c.createLabel(f.offset, labels)
	return f, currentOffset
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// readVerificationTypeInfo parses one verification_type_info entry into its
// visitor-facing form: an int tag for a primitive kind, the internal name
// for Object, or the NEW instruction's *Label for Uninitialized.
func (c *ClassReader) readVerificationTypeInfo(offset int, labels []*Label) (interface{}, int) {
	tag := int(c.readByte(offset))
	switch tag {
	case verificationTagObject:
		cpIndex := c.readUnsignedShort(offset + 1)
		charBuffer := make([]rune, c.maxStringLength)
		internalName := c.readUTF8(c.cpInfoOffsets[cpIndex], charBuffer)
		return internalName, offset + 3
	case verificationTagUninitialized:
		newOffset := c.readUnsignedShort(offset + 1)
		return c.createLabel(newOffset, labels), offset + 3
	default:
		return tag, offset + 1
	}
}

// ----------------------------------------------------------------------------------------------
// Methods to parse attributes
// ----------------------------------------------------------------------------------------------

func (c *ClassReader) getFirstAttributeOffset() int {
	currentOffset := c.header + 8 + c.readUnsignedShort(c.header+6)*2
	fieldsCount := c.readUnsignedShort(currentOffset)
	currentOffset += 2
	for ; fieldsCount > 0; fieldsCount-- {
		attributesCount := c.readUnsignedShort(currentOffset + 6)
		currentOffset += 8
		for ; attributesCount > 0; attributesCount-- {
			currentOffset += 6 + c.readInt(currentOffset+2)
		}
	}

	methodsCount := c.readUnsignedShort(currentOffset)
	currentOffset += 2
	for ; methodsCount > 0; methodsCount-- {
		attributesCount := c.readUnsignedShort(currentOffset + 6)
		currentOffset += 8
		for ; attributesCount > 0; attributesCount-- {
			currentOffset += 6 + c.readInt(currentOffset+2)
		}
	}

	return currentOffset + 2
}

func (c *ClassReader) readAttribute(attributePrototypes []*Attribute, typed string, offset, length int, charBuffer []rune, codeAttributeOffset int, labels []*Label) *Attribute {
	for _, prototype := range attributePrototypes {
		if prototype.typed == typed {
			return prototype.read(c, offset, length, charBuffer, codeAttributeOffset, labels)
		}
	}
	return NewAttribute(typed).read(c, offset, length, nil, -1, nil)
}

// -----------------------------------------------------------------------------------------------
// Utility methods: low level parsing
// -----------------------------------------------------------------------------------------------

func (c *ClassReader) getItemCount() int { return len(c.cpInfoOffsets) }

func (c *ClassReader) getItem(constantPoolEntryIndex int) int { return c.cpInfoOffsets[constantPoolEntryIndex] }

func (c *ClassReader) getMaxStringLength() int { return c.maxStringLength }

func (c *ClassReader) readByte(offset int) byte { return c.b[offset] }

func (c *ClassReader) readUnsignedShort(offset int) int {
	b := c.b
	return int(b[offset])<<8 | int(b[offset+1])
}

func (c *ClassReader) readShort(offset int) int16 {
	return int16(c.readUnsignedShort(offset))
}

func (c *ClassReader) readInt(offset int) int {
	b := c.b
	return int(b[offset])<<24 | int(b[offset+1])<<16 | int(b[offset+2])<<8 | int(b[offset+3])
}

func (c *ClassReader) readLong(offset int) int64 {
	hi := int64(uint32(c.readInt(offset)))
	lo := int64(uint32(c.readInt(offset + 4)))
	return hi<<32 | lo
}

func (c *ClassReader) readUTF8(offset int, charBuffer []rune) string {
	constantPoolEntryIndex := c.readUnsignedShort(offset)
	if offset == 0 || constantPoolEntryIndex == 0 {
		return ""
	}
	return c.readUTF(constantPoolEntryIndex, charBuffer)
}

func (c *ClassReader) readUTF(constantPoolEntryIndex int, charBuffer []rune) string {
	if value := c.constantUtf8Values[constantPoolEntryIndex]; value != "" {
		return value
	}
	cpInfoOffset := c.cpInfoOffsets[constantPoolEntryIndex]
	value := c.readUTFB(cpInfoOffset+2, c.readUnsignedShort(cpInfoOffset), charBuffer)
	c.constantUtf8Values[constantPoolEntryIndex] = value
	return value
}

func (c *ClassReader) readUTFB(utfOffset, utfLength int, charBuffer []rune) string {
	currentOffset := utfOffset
	endOffset := currentOffset + utfLength
	strLength := 0
	b := c.b
	for currentOffset < endOffset {
		currentByte := b[currentOffset]
		currentOffset++
		switch {
		case currentByte&0x80 == 0:
			charBuffer[strLength] = rune(currentByte & 0x7F)
		case currentByte&0xE0 == 0xC0:
			charBuffer[strLength] = rune((int(currentByte)&0x1F)<<6 + (int(b[currentOffset]) & 0x3F))
			currentOffset++
		default:
			d := (int(currentByte)&0xF)<<12 + (int(b[currentOffset])&0x3F)<<6
			currentOffset++
			charBuffer[strLength] = rune(d + (int(b[currentOffset]) & 0x3F))
			currentOffset++
		}
		strLength++
	}
	return string(charBuffer[:strLength])
}

func (c *ClassReader) readStringish(offset int, charBuffer []rune) string {
	return c.readUTF8(c.cpInfoOffsets[c.readUnsignedShort(offset)]-2, charBuffer)
}

func (c *ClassReader) readClass(offset int, charBuffer []rune) string {
	index := c.readUnsignedShort(offset)
	if index == 0 {
		return ""
	}
	return c.readUTF8(c.cpInfoOffsets[index], charBuffer)
}

func (c *ClassReader) readModuleName(offset int, charBuffer []rune) string {
	index := c.readUnsignedShort(offset)
	if index == 0 {
		return ""
	}
	return c.readUTF8(c.cpInfoOffsets[index], charBuffer)
}

func (c *ClassReader) readPackage(offset int, charBuffer []rune) string {
	return c.readModuleName(offset, charBuffer)
}

// readConst decodes a loadable constant-pool entry (used for ldc and
// ConstantValue/annotation element values): a primitive wrapper, a string,
// a Type, a *Handle, or a *ConstantDynamic. bootstrapMethodOffsets is only
// consulted for CONSTANT_Dynamic entries; annotation element values, which
// can never be one, pass nil.
func (c *ClassReader) readConst(constantPoolEntryIndex int, charBuffer []rune, bootstrapMethodOffsets []int) (interface{}, error) {
	cpInfoOffset := c.cpInfoOffsets[constantPoolEntryIndex]
	switch int(c.b[cpInfoOffset-1]) {
	case symbol.CONSTANT_INTEGER_TAG:
		return int32(c.readInt(cpInfoOffset)), nil
	case symbol.CONSTANT_FLOAT_TAG:
		bits := uint32(c.readInt(cpInfoOffset))
		return float32FromBits(bits), nil
	case symbol.CONSTANT_LONG_TAG:
		return c.readLong(cpInfoOffset), nil
	case symbol.CONSTANT_DOUBLE_TAG:
		bits := uint64(c.readLong(cpInfoOffset))
		return float64FromBits(bits), nil
	case symbol.CONSTANT_CLASS_TAG:
		name := c.readUTF8(cpInfoOffset, charBuffer)
		if len(name) > 0 && name[0] == '[' {
			t, _ := NewType(name, 0)
			return t, nil
		}
		return ObjectType(name), nil
	case symbol.CONSTANT_STRING_TAG:
		return c.readUTF8(cpInfoOffset, charBuffer), nil
	case symbol.CONSTANT_METHOD_TYPE_TAG:
		return MethodType(c.readUTF8(cpInfoOffset, charBuffer)), nil
	case symbol.CONSTANT_METHOD_HANDLE_TAG:
		referenceKind := int(c.readByte(cpInfoOffset))
		referenceCpInfoOffset := c.cpInfoOffsets[c.readUnsignedShort(cpInfoOffset+1)]
		nameAndTypeCpInfoOffset := c.cpInfoOffsets[c.readUnsignedShort(referenceCpInfoOffset+2)]
		owner := c.readClass(referenceCpInfoOffset, charBuffer)
		name := c.readUTF8(nameAndTypeCpInfoOffset, charBuffer)
		desc := c.readUTF8(nameAndTypeCpInfoOffset+2, charBuffer)
		isInterface := int(c.b[referenceCpInfoOffset-1]) == symbol.CONSTANT_INTERFACE_METHODREF_TAG
		return NewHandle(referenceKind, owner, name, desc, isInterface), nil
	case symbol.CONSTANT_DYNAMIC_TAG:
		return c.readConstantDynamic(cpInfoOffset, charBuffer, bootstrapMethodOffsets)
	default:
		return nil, &MalformedClassFileError{Offset: cpInfoOffset - 1, Reason: "unsupported loadable constant tag"}
	}
}

func (c *ClassReader) readConstantDynamic(cpInfoOffset int, charBuffer []rune, bootstrapMethodOffsets []int) (*ConstantDynamic, error) {
	bootstrapMethodIndex := c.readUnsignedShort(cpInfoOffset)
	nameAndTypeOffset := c.cpInfoOffsets[c.readUnsignedShort(cpInfoOffset+2)]
	name := c.readUTF8(nameAndTypeOffset, charBuffer)
	descriptor := c.readUTF8(nameAndTypeOffset+2, charBuffer)
	handle, arguments := c.resolveBootstrapMethod(bootstrapMethodIndex, bootstrapMethodOffsets, charBuffer)
	return NewConstantDynamic(name, descriptor, handle, arguments...), nil
}

// resolveBootstrapMethod reads one bootstrap_method entry (method handle
// plus static arguments) out of the class's BootstrapMethods attribute.
func (c *ClassReader) resolveBootstrapMethod(bootstrapMethodIndex int, bootstrapMethodOffsets []int, charBuffer []rune) (*Handle, []interface{}) {
	if bootstrapMethodOffsets == nil || bootstrapMethodIndex >= len(bootstrapMethodOffsets) {
		return nil, nil
	}
	bootstrapOffset := bootstrapMethodOffsets[bootstrapMethodIndex]
	methodHandleIndex := c.readUnsignedShort(bootstrapOffset)
	handleValue, _ := c.readConst(methodHandleIndex, charBuffer, nil)
	handle, _ := handleValue.(*Handle)
	numArguments := c.readUnsignedShort(bootstrapOffset + 2)
	arguments := make([]interface{}, numArguments)
	off := bootstrapOffset + 4
	for i := 0; i < numArguments; i++ {
		arguments[i], _ = c.readConst(c.readUnsignedShort(off), charBuffer, bootstrapMethodOffsets)
		off += 2
	}
	return handle, arguments
}

func float32FromBits(bits uint32) float32 {
	return float32FromBitsImpl(bits)
}

func float64FromBits(bits uint64) float64 {
	return float64FromBitsImpl(bits)
}
