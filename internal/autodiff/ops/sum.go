package ops

import (
	"fmt"

	"github.com/primer-ml/primer/internal/tensor"
)

// SumOp records a full reduction: output = Σ input (shape [1]).
//
// Backward: every input element receives the scalar output gradient.
type SumOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
}

// NewSumOp creates a new SumOp.
func NewSumOp(input, output *tensor.RawTensor) *SumOp {
	return &SumOp{input: input, output: output}
}

// Backward broadcasts the scalar output gradient over the input shape.
func (op *SumOp) Backward(outputGrad *tensor.RawTensor, _ tensor.Backend) []*tensor.RawTensor {
	grad := newGradLike(op.input)

	switch op.input.DType() {
	case tensor.Float32:
		g := outputGrad.AsFloat32()[0]
		out := grad.AsFloat32()
		for i := range out {
			out[i] = g
		}
	case tensor.Float64:
		g := outputGrad.AsFloat64()[0]
		out := grad.AsFloat64()
		for i := range out {
			out[i] = g
		}
	default:
		panic(fmt.Sprintf("SumOp: backward only supports float types, got %s", op.input.DType()))
	}

	return []*tensor.RawTensor{grad}
}

// Inputs returns the input tensors.
func (op *SumOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.input}
}

// Output returns the output tensor.
func (op *SumOp) Output() *tensor.RawTensor {
	return op.output
}
