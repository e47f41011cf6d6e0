package classfile

import "fmt"

// Handle is a CONSTANT_MethodHandle constant: a reference kind (one of the
// opcodes.H_* tags) plus the field or method it refers to.
type Handle struct {
	Tag         int
	Owner       string
	Name        string
	Descriptor  string
	IsInterface bool
}

// NewHandle returns a Handle for the given reference kind and member.
func NewHandle(tag int, owner, name, descriptor string, isInterface bool) *Handle {
	return &Handle{Tag: tag, Owner: owner, Name: name, Descriptor: descriptor, IsInterface: isInterface}
}

func (h *Handle) String() string {
	return fmt.Sprintf("%d %s.%s%s", h.Tag, h.Owner, h.Name, h.Descriptor)
}

// Equal reports whether h and other denote the same handle.
func (h *Handle) Equal(other *Handle) bool {
	if h == nil || other == nil {
		return h == other
	}
	return h.Tag == other.Tag && h.Owner == other.Owner && h.Name == other.Name &&
		h.Descriptor == other.Descriptor && h.IsInterface == other.IsInterface
}
