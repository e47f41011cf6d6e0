package classfile

// Fuzz is the go-fuzz entry point: it drives a full read/write round trip
// over data and reports whether the pipeline accepted it cleanly. Malformed
// input is expected to return 0, not panic; any panic surfacing from the
// reader or writer is itself a bug the fuzzer should keep the corpus entry
// for, so it is not recovered here.
func Fuzz(data []byte) int {
	reader, err := NewClassReader(data, nil)
	if err != nil {
		return 0
	}

	writer, err := NewClassWriterFromReader(reader, NoResolver{}, ComputeFrames)
	if err != nil {
		return 0
	}

	reader.Accept(writer, 0)

	if _, err := writer.ToByteArray(); err != nil {
		return 0
	}
	return 1
}
