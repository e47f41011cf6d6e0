package helper

import (
	"testing"

	"github.com/gobytecode/classfile/classfile"
)

var (
	_ classfile.ClassVisitor           = BaseClassVisitor{}
	_ classfile.FieldVisitor           = BaseFieldVisitor{}
	_ classfile.RecordComponentVisitor = BaseRecordComponentVisitor{}
	_ classfile.ModuleVisitor          = BaseModuleVisitor{}
	_ classfile.AnnotationVisitor      = BaseAnnotationVisitor{}
	_ classfile.MethodVisitor          = BaseMethodVisitor{}
)

func TestBaseClassVisitorReturnsNilSubVisitors(t *testing.T) {
	var v BaseClassVisitor

	if v.VisitModule("m", 0, "1.0") != nil {
		t.Error("VisitModule should return nil")
	}
	if v.VisitAnnotation("Lx;", true) != nil {
		t.Error("VisitAnnotation should return nil")
	}
	if v.VisitRecordComponent("c", "I", "") != nil {
		t.Error("VisitRecordComponent should return nil")
	}
	if v.VisitField(0, "f", "I", "", nil) != nil {
		t.Error("VisitField should return nil")
	}
	if v.VisitMethod(0, "m", "()V", "", nil) != nil {
		t.Error("VisitMethod should return nil")
	}

	// None of these should panic.
	v.Visit(61, 0, "A", "", "java/lang/Object", nil)
	v.VisitSource("A.java", "")
	v.VisitEnd()
}
