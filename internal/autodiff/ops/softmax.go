package ops

import (
	"fmt"
	"math"

	"github.com/primer-ml/primer/internal/tensor"
)

// SoftmaxOp records softmax along a dimension.
//
// Forward (per slice along dim):
//
//	softmax(x)_i = exp(x_i - max(x)) / Σ_j exp(x_j - max(x))
//
// Backward, using the Jacobian collapsed through the chain rule:
//
//	grad_x_j = softmax_j * (grad_out_j - Σ_i grad_out_i * softmax_i)
type SoftmaxOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor // cached softmax values
	dim    int
}

// NewSoftmaxOp creates a new SoftmaxOp. dim must already be resolved to a
// non-negative axis.
func NewSoftmaxOp(input, output *tensor.RawTensor, dim int) *SoftmaxOp {
	return &SoftmaxOp{input: input, output: output, dim: dim}
}

// Backward computes the input gradient for softmax.
func (op *SoftmaxOp) Backward(outputGrad *tensor.RawTensor, _ tensor.Backend) []*tensor.RawTensor {
	grad := newGradLike(op.input)
	outer, dimSize, inner := splitAt(op.input.Shape(), op.dim)

	switch op.input.DType() {
	case tensor.Float32:
		softmaxBackward(grad.AsFloat32(), outputGrad.AsFloat32(), op.output.AsFloat32(), outer, dimSize, inner)
	case tensor.Float64:
		softmaxBackward(grad.AsFloat64(), outputGrad.AsFloat64(), op.output.AsFloat64(), outer, dimSize, inner)
	default:
		panic(fmt.Sprintf("SoftmaxOp: backward only supports float types, got %s", op.input.DType()))
	}

	return []*tensor.RawTensor{grad}
}

// Inputs returns the input tensors.
func (op *SoftmaxOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.input}
}

// Output returns the output tensor.
func (op *SoftmaxOp) Output() *tensor.RawTensor {
	return op.output
}

func softmaxBackward[T ~float32 | ~float64](dst, outGrad, softmax []T, outer, dimSize, inner int) {
	for o := 0; o < outer; o++ {
		for in := 0; in < inner; in++ {
			base := o*dimSize*inner + in

			var dot T
			for k := 0; k < dimSize; k++ {
				idx := base + k*inner
				dot += outGrad[idx] * softmax[idx]
			}

			for k := 0; k < dimSize; k++ {
				idx := base + k*inner
				dst[idx] = softmax[idx] * (outGrad[idx] - dot)
			}
		}
	}
}

// LogSoftmaxOp records log-softmax along a dimension.
//
// Forward (per slice along dim):
//
//	log_softmax(x)_i = x_i - max(x) - log(Σ_j exp(x_j - max(x)))
//
// Backward:
//
//	grad_x_j = grad_out_j - softmax_j * Σ_i grad_out_i
//
// The softmax values are recovered from the cached output as exp(output),
// so no separate cache is carried.
type LogSoftmaxOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor // log-softmax values
	dim    int
}

// NewLogSoftmaxOp creates a new LogSoftmaxOp. dim must already be resolved
// to a non-negative axis.
func NewLogSoftmaxOp(input, output *tensor.RawTensor, dim int) *LogSoftmaxOp {
	return &LogSoftmaxOp{input: input, output: output, dim: dim}
}

// Backward computes the input gradient for log-softmax.
func (op *LogSoftmaxOp) Backward(outputGrad *tensor.RawTensor, _ tensor.Backend) []*tensor.RawTensor {
	grad := newGradLike(op.input)
	outer, dimSize, inner := splitAt(op.input.Shape(), op.dim)

	switch op.input.DType() {
	case tensor.Float32:
		logSoftmaxBackward(grad.AsFloat32(), outputGrad.AsFloat32(), op.output.AsFloat32(), outer, dimSize, inner)
	case tensor.Float64:
		logSoftmaxBackward(grad.AsFloat64(), outputGrad.AsFloat64(), op.output.AsFloat64(), outer, dimSize, inner)
	default:
		panic(fmt.Sprintf("LogSoftmaxOp: backward only supports float types, got %s", op.input.DType()))
	}

	return []*tensor.RawTensor{grad}
}

// Inputs returns the input tensors.
func (op *LogSoftmaxOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.input}
}

// Output returns the output tensor.
func (op *LogSoftmaxOp) Output() *tensor.RawTensor {
	return op.output
}

func logSoftmaxBackward[T ~float32 | ~float64](dst, outGrad, logSoftmax []T, outer, dimSize, inner int) {
	for o := 0; o < outer; o++ {
		for in := 0; in < inner; in++ {
			base := o*dimSize*inner + in

			var gradSum T
			for k := 0; k < dimSize; k++ {
				gradSum += outGrad[base+k*inner]
			}

			for k := 0; k < dimSize; k++ {
				idx := base + k*inner
				softmax := T(math.Exp(float64(logSoftmax[idx])))
				dst[idx] = outGrad[idx] - softmax*gradSum
			}
		}
	}
}
