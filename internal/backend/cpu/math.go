package cpu

import (
	"fmt"
	"math"

	"github.com/primer-ml/primer/internal/tensor"
)

// Exp computes e^x element-wise.
func (cpu *CPUBackend) Exp(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.mathOp("exp", x, math.Exp)
}

// Log computes the natural logarithm element-wise.
// Panics when any element is not positive.
func (cpu *CPUBackend) Log(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.mathOp("log", x, func(v float64) float64 {
		if v <= 0 {
			panic(fmt.Sprintf("log: input must be positive, got %v", v))
		}
		return math.Log(v)
	})
}

// Sqrt computes the square root element-wise.
// Panics when any element is negative.
func (cpu *CPUBackend) Sqrt(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.mathOp("sqrt", x, func(v float64) float64 {
		if v < 0 {
			panic(fmt.Sprintf("sqrt: input must be non-negative, got %v", v))
		}
		return math.Sqrt(v)
	})
}

func (cpu *CPUBackend) mathOp(name string, x *tensor.RawTensor, fn func(float64) float64) *tensor.RawTensor {
	result := mustNewRaw(name, x.Shape(), x.DType(), cpu.device)

	switch x.DType() {
	case tensor.Float32:
		src, dst := x.AsFloat32(), result.AsFloat32()
		for i, v := range src {
			dst[i] = float32(fn(float64(v)))
		}
	case tensor.Float64:
		src, dst := x.AsFloat64(), result.AsFloat64()
		for i, v := range src {
			dst[i] = fn(v)
		}
	default:
		panic(fmt.Sprintf("%s: only supports float32 and float64, got %s", name, x.DType()))
	}

	return result
}
