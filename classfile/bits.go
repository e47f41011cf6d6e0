package classfile

import "math"

// float32FromBitsImpl and float64FromBitsImpl reinterpret the raw bits read
// out of a CONSTANT_Float/CONSTANT_Double entry. No library in the corpus
// exposes this conversion; it is exactly what math.Float32frombits/
// math.Float64frombits are for, so the standard library is used directly
// rather than reimplementing IEEE 754 decoding.
func float32FromBitsImpl(bits uint32) float32 { return math.Float32frombits(bits) }

func float64FromBitsImpl(bits uint64) float64 { return math.Float64frombits(bits) }
