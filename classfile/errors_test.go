package classfile

import "testing"

func TestErrorMessages(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{
			"malformed",
			&MalformedClassFileError{Offset: 12, Reason: "bad tag"},
			"malformed class file at offset 12: bad tag",
		},
		{
			"unsupported version",
			&UnsupportedVersionError{Major: 99},
			"unsupported class file major version 99",
		},
		{
			"class too large",
			&ClassTooLargeError{ClassName: "Foo", CPCount: 70000},
			"class Foo has 70000 constant pool entries, the limit is 65535",
		},
		{
			"method too large",
			&MethodTooLargeError{ClassName: "Foo", MethodName: "bar", Descriptor: "()V", CodeSize: 70000},
			"method Foo.bar()V is too large: 70000 bytes of code, the limit is 65535",
		},
		{
			"unsupported operation",
			&UnsupportedOperationError{Reason: "jsr/ret under computed frames"},
			"unsupported operation: jsr/ret under computed frames",
		},
		{
			"frame merge failure",
			&FrameMergeFailureError{BlockOffset: 42},
			"frame merge failure at block offset 42",
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.err.Error(); got != c.want {
				t.Errorf("got %q, want %q", got, c.want)
			}
		})
	}
}
