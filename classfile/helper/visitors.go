// Package helper provides no-op base implementations of each classfile
// visitor interface, for callers that only care about a handful of events
// and want to embed a base rather than stub out the rest of the interface
// by hand.
package helper

import "github.com/gobytecode/classfile/classfile"

// BaseClassVisitor implements classfile.ClassVisitor with no-op bodies.
// Embed it and override only the methods you need.
type BaseClassVisitor struct{}

func (BaseClassVisitor) Visit(version, access int, name, signature, superName string, interfaces []string) {
}
func (BaseClassVisitor) VisitSource(source, debug string) {}
func (BaseClassVisitor) VisitModule(name string, access int, version string) classfile.ModuleVisitor {
	return nil
}
func (BaseClassVisitor) VisitNestHost(nestHost string)             {}
func (BaseClassVisitor) VisitOuterClass(owner, name, descriptor string) {}
func (BaseClassVisitor) VisitAnnotation(descriptor string, visible bool) classfile.AnnotationVisitor {
	return nil
}
func (BaseClassVisitor) VisitTypeAnnotation(typeRef int, typePath *classfile.TypePath, descriptor string, visible bool) classfile.AnnotationVisitor {
	return nil
}
func (BaseClassVisitor) VisitAttribute(attribute *classfile.Attribute)                   {}
func (BaseClassVisitor) VisitNestMember(nestMember string)                               {}
func (BaseClassVisitor) VisitPermittedSubclass(permittedSubclass string)                 {}
func (BaseClassVisitor) VisitInnerClass(name, outerName, innerName string, access int)    {}
func (BaseClassVisitor) VisitRecordComponent(name, descriptor, signature string) classfile.RecordComponentVisitor {
	return nil
}
func (BaseClassVisitor) VisitField(access int, name, descriptor, signature string, value interface{}) classfile.FieldVisitor {
	return nil
}
func (BaseClassVisitor) VisitMethod(access int, name, descriptor, signature string, exceptions []string) classfile.MethodVisitor {
	return nil
}
func (BaseClassVisitor) VisitEnd() {}

// BaseFieldVisitor implements classfile.FieldVisitor with no-op bodies.
type BaseFieldVisitor struct{}

func (BaseFieldVisitor) VisitAnnotation(descriptor string, visible bool) classfile.AnnotationVisitor {
	return nil
}
func (BaseFieldVisitor) VisitTypeAnnotation(typeRef int, typePath *classfile.TypePath, descriptor string, visible bool) classfile.AnnotationVisitor {
	return nil
}
func (BaseFieldVisitor) VisitAttribute(attribute *classfile.Attribute) {}
func (BaseFieldVisitor) VisitEnd()                                     {}

// BaseRecordComponentVisitor implements classfile.RecordComponentVisitor
// with no-op bodies.
type BaseRecordComponentVisitor struct{}

func (BaseRecordComponentVisitor) VisitAnnotation(descriptor string, visible bool) classfile.AnnotationVisitor {
	return nil
}
func (BaseRecordComponentVisitor) VisitTypeAnnotation(typeRef int, typePath *classfile.TypePath, descriptor string, visible bool) classfile.AnnotationVisitor {
	return nil
}
func (BaseRecordComponentVisitor) VisitAttribute(attribute *classfile.Attribute) {}
func (BaseRecordComponentVisitor) VisitEnd()                                     {}

// BaseModuleVisitor implements classfile.ModuleVisitor with no-op bodies.
type BaseModuleVisitor struct{}

func (BaseModuleVisitor) VisitMainClass(mainClass string)                          {}
func (BaseModuleVisitor) VisitPackage(packaze string)                              {}
func (BaseModuleVisitor) VisitRequire(module string, access int, version string)    {}
func (BaseModuleVisitor) VisitExport(packaze string, access int, modules ...string) {}
func (BaseModuleVisitor) VisitOpen(packaze string, access int, modules ...string)   {}
func (BaseModuleVisitor) VisitUse(service string)                                  {}
func (BaseModuleVisitor) VisitProvide(service string, providers ...string)          {}
func (BaseModuleVisitor) VisitEnd()                                                 {}

// BaseAnnotationVisitor implements classfile.AnnotationVisitor with no-op
// bodies.
type BaseAnnotationVisitor struct{}

func (BaseAnnotationVisitor) Visit(name string, value interface{})      {}
func (BaseAnnotationVisitor) VisitEnum(name, descriptor, value string)   {}
func (BaseAnnotationVisitor) VisitAnnotation(name, descriptor string) classfile.AnnotationVisitor {
	return nil
}
func (BaseAnnotationVisitor) VisitArray(name string) classfile.AnnotationVisitor { return nil }
func (BaseAnnotationVisitor) VisitEnd()                                         {}

// BaseMethodVisitor implements classfile.MethodVisitor with no-op bodies.
type BaseMethodVisitor struct{}

func (BaseMethodVisitor) VisitParameter(name string, access int)                  {}
func (BaseMethodVisitor) VisitAnnotationDefault() classfile.AnnotationVisitor      { return nil }
func (BaseMethodVisitor) VisitAnnotation(descriptor string, visible bool) classfile.AnnotationVisitor {
	return nil
}
func (BaseMethodVisitor) VisitTypeAnnotation(typeRef int, typePath *classfile.TypePath, descriptor string, visible bool) classfile.AnnotationVisitor {
	return nil
}
func (BaseMethodVisitor) VisitAnnotableParameterCount(parameterCount int, visible bool) {}
func (BaseMethodVisitor) VisitParameterAnnotation(parameter int, descriptor string, visible bool) classfile.AnnotationVisitor {
	return nil
}
func (BaseMethodVisitor) VisitAttribute(attribute *classfile.Attribute) {}
func (BaseMethodVisitor) VisitCode()                                   {}
func (BaseMethodVisitor) VisitFrame(typed, numLocal int, local []interface{}, numStack int, stack []interface{}) {
}
func (BaseMethodVisitor) VisitInsn(opcode int)                        {}
func (BaseMethodVisitor) VisitIntInsn(opcode, operand int)            {}
func (BaseMethodVisitor) VisitVarInsn(opcode, varIndex int)           {}
func (BaseMethodVisitor) VisitTypeInsn(opcode int, typed string)      {}
func (BaseMethodVisitor) VisitFieldInsn(opcode int, owner, name, descriptor string) {}
func (BaseMethodVisitor) VisitMethodInsn(opcode int, owner, name, descriptor string, isInterface bool) {
}
func (BaseMethodVisitor) VisitInvokeDynamicInsn(name, descriptor string, bootstrapMethodHandle *classfile.Handle, bootstrapMethodArguments ...interface{}) {
}
func (BaseMethodVisitor) VisitJumpInsn(opcode int, label *classfile.Label) {}
func (BaseMethodVisitor) VisitLabel(label *classfile.Label)               {}
func (BaseMethodVisitor) VisitLdcInsn(value interface{})                  {}
func (BaseMethodVisitor) VisitIincInsn(varIndex, increment int)           {}
func (BaseMethodVisitor) VisitTableSwitchInsn(min, max int, dflt *classfile.Label, labels ...*classfile.Label) {
}
func (BaseMethodVisitor) VisitLookupSwitchInsn(dflt *classfile.Label, keys []int, labels []*classfile.Label) {
}
func (BaseMethodVisitor) VisitMultiANewArrayInsn(descriptor string, numDimensions int) {}
func (BaseMethodVisitor) VisitInsnAnnotation(typeRef int, typePath *classfile.TypePath, descriptor string, visible bool) classfile.AnnotationVisitor {
	return nil
}
func (BaseMethodVisitor) VisitTryCatchBlock(start, end, handler *classfile.Label, typed string) {}
func (BaseMethodVisitor) VisitTryCatchAnnotation(typeRef int, typePath *classfile.TypePath, descriptor string, visible bool) classfile.AnnotationVisitor {
	return nil
}
func (BaseMethodVisitor) VisitLocalVariable(name, descriptor, signature string, start, end *classfile.Label, index int) {
}
func (BaseMethodVisitor) VisitLocalVariableAnnotation(typeRef int, typePath *classfile.TypePath, start, end []*classfile.Label, index []int, descriptor string, visible bool) classfile.AnnotationVisitor {
	return nil
}
func (BaseMethodVisitor) VisitLineNumber(line int, start *classfile.Label) {}
func (BaseMethodVisitor) VisitMaxs(maxStack, maxLocals int)                {}
func (BaseMethodVisitor) VisitEnd()                                       {}
