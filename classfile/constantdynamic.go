package classfile

// ConstantDynamic is a CONSTANT_Dynamic constant: a name and descriptor
// resolved lazily at first use by invoking a bootstrap method, the same way
// an invokedynamic call site is resolved.
type ConstantDynamic struct {
	Name                     string
	Descriptor               string
	BootstrapMethod          *Handle
	BootstrapMethodArguments []interface{}
}

// NewConstantDynamic returns a ConstantDynamic value for use as a Ldc
// operand or as a bootstrap method static argument.
func NewConstantDynamic(name, descriptor string, bootstrapMethod *Handle, bootstrapMethodArguments ...interface{}) *ConstantDynamic {
	return &ConstantDynamic{
		Name:                     name,
		Descriptor:               descriptor,
		BootstrapMethod:          bootstrapMethod,
		BootstrapMethodArguments: bootstrapMethodArguments,
	}
}

// Size returns the operand stack size contribution of this constant: 2 for
// long/double descriptors, 1 otherwise.
func (c *ConstantDynamic) Size() int {
	if c.Descriptor == "J" || c.Descriptor == "D" {
		return 2
	}
	return 1
}
