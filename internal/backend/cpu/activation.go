package cpu

import (
	"fmt"
	"math"

	"github.com/primer-ml/primer/internal/tensor"
)

// Softmax rescales values along dim into a probability distribution.
// The maximum is subtracted before exponentiation so large logits do not
// overflow.
func (cpu *CPUBackend) Softmax(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	result := mustNewRaw("softmax", x.Shape(), x.DType(), cpu.device)

	switch x.DType() {
	case tensor.Float32:
		softmaxSlice(result.AsFloat32(), x.AsFloat32(), x.Shape(), checkDim("softmax", x.Shape(), dim))
	case tensor.Float64:
		softmaxSlice(result.AsFloat64(), x.AsFloat64(), x.Shape(), checkDim("softmax", x.Shape(), dim))
	default:
		panic(fmt.Sprintf("softmax: only supports float32 and float64, got %s", x.DType()))
	}

	return result
}

// LogSoftmax computes log(softmax(x)) along dim directly via log-sum-exp:
//
//	out = x - (max + log(sum(exp(x - max))))
//
// This avoids the underflow of exponentiating and then taking the log.
func (cpu *CPUBackend) LogSoftmax(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	result := mustNewRaw("log_softmax", x.Shape(), x.DType(), cpu.device)

	switch x.DType() {
	case tensor.Float32:
		logSoftmaxSlice(result.AsFloat32(), x.AsFloat32(), x.Shape(), checkDim("log_softmax", x.Shape(), dim))
	case tensor.Float64:
		logSoftmaxSlice(result.AsFloat64(), x.AsFloat64(), x.Shape(), checkDim("log_softmax", x.Shape(), dim))
	default:
		panic(fmt.Sprintf("log_softmax: only supports float32 and float64, got %s", x.DType()))
	}

	return result
}

// ReLU computes max(0, x) element-wise.
func (cpu *CPUBackend) ReLU(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.mathOp("relu", x, func(v float64) float64 {
		return math.Max(0, v)
	})
}

// Sigmoid computes 1 / (1 + e^-x) element-wise.
func (cpu *CPUBackend) Sigmoid(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.mathOp("sigmoid", x, func(v float64) float64 {
		return 1.0 / (1.0 + math.Exp(-v))
	})
}

// Tanh computes the hyperbolic tangent element-wise.
func (cpu *CPUBackend) Tanh(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.mathOp("tanh", x, math.Tanh)
}

func checkDim(op string, shape tensor.Shape, dim int) int {
	if dim < 0 {
		dim += len(shape)
	}
	if dim < 0 || dim >= len(shape) {
		panic(fmt.Sprintf("%s: invalid dim %d for shape %v", op, dim, shape))
	}
	return dim
}

// rowIter describes the flat layout of the slices along a reduction dim:
// outer * dimSize * inner elements, where the slice at (o, i) starts at
// o*dimSize*inner + i and steps by inner.
func rowIter(shape tensor.Shape, dim int) (outer, dimSize, inner int) {
	outer, inner = 1, 1
	for i := 0; i < dim; i++ {
		outer *= shape[i]
	}
	for i := dim + 1; i < len(shape); i++ {
		inner *= shape[i]
	}
	return outer, shape[dim], inner
}

func softmaxSlice[T ~float32 | ~float64](dst, src []T, shape tensor.Shape, dim int) {
	outer, dimSize, inner := rowIter(shape, dim)

	for o := 0; o < outer; o++ {
		for in := 0; in < inner; in++ {
			base := o*dimSize*inner + in

			maxVal := src[base]
			for k := 1; k < dimSize; k++ {
				if v := src[base+k*inner]; v > maxVal {
					maxVal = v
				}
			}

			var sum T
			for k := 0; k < dimSize; k++ {
				e := T(math.Exp(float64(src[base+k*inner] - maxVal)))
				dst[base+k*inner] = e
				sum += e
			}

			for k := 0; k < dimSize; k++ {
				dst[base+k*inner] /= sum
			}
		}
	}
}

func logSoftmaxSlice[T ~float32 | ~float64](dst, src []T, shape tensor.Shape, dim int) {
	outer, dimSize, inner := rowIter(shape, dim)

	for o := 0; o < outer; o++ {
		for in := 0; in < inner; in++ {
			base := o*dimSize*inner + in

			maxVal := src[base]
			for k := 1; k < dimSize; k++ {
				if v := src[base+k*inner]; v > maxVal {
					maxVal = v
				}
			}

			var sum float64
			for k := 0; k < dimSize; k++ {
				sum += math.Exp(float64(src[base+k*inner] - maxVal))
			}
			lse := float64(maxVal) + math.Log(sum)

			for k := 0; k < dimSize; k++ {
				dst[base+k*inner] = src[base+k*inner] - T(lse)
			}
		}
	}
}
