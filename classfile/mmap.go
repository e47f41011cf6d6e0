package classfile

import (
	"os"

	mmap "github.com/edsrzf/mmap-go"

	"github.com/gobytecode/classfile/internal/classlog"
)

// MappedClassFile is a ClassReader backed by a memory-mapped .class file
// rather than a loaded byte slice, for tools that walk large jar/classpath
// trees without reading every file into the heap up front.
type MappedClassFile struct {
	*ClassReader
	data mmap.MMap
	f    *os.File
}

// OpenClassFile memory-maps name read-only and parses its header and
// constant pool. The caller must Close the result once done with it.
func OpenClassFile(name string, opts *ReaderOptions) (*MappedClassFile, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}

	data, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, err
	}

	reader, err := NewClassReader(data, opts)
	if err != nil {
		data.Unmap()
		f.Close()
		return nil, err
	}

	return &MappedClassFile{ClassReader: reader, data: data, f: f}, nil
}

// Close unmaps the file and closes the underlying descriptor.
func (m *MappedClassFile) Close() error {
	var logger *classlog.Helper = m.logger
	if m.data != nil {
		if err := m.data.Unmap(); err != nil {
			logger.Warnw("event", "munmap failed", "error", err)
		}
		m.data = nil
	}
	return m.f.Close()
}
