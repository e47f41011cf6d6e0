package classfile

// RecordComponentVisitor visits a single record component: ( VisitAnnotation
// | VisitTypeAnnotation | VisitAttribute )* VisitEnd.
type RecordComponentVisitor interface {
	VisitAnnotation(descriptor string, visible bool) AnnotationVisitor
	VisitTypeAnnotation(typeRef int, typePath *TypePath, descriptor string, visible bool) AnnotationVisitor
	VisitAttribute(attribute *Attribute)
	VisitEnd()
}
