package classfile

// FieldVisitor visits a single field: ( VisitAnnotation |
// VisitTypeAnnotation | VisitAttribute )* VisitEnd.
type FieldVisitor interface {
	VisitAnnotation(descriptor string, visible bool) AnnotationVisitor
	VisitTypeAnnotation(typeRef int, typePath *TypePath, descriptor string, visible bool) AnnotationVisitor
	VisitAttribute(attribute *Attribute)
	VisitEnd()
}
