package ops

import "github.com/primer-ml/primer/internal/tensor"

// ScaleOp records multiplication by a constant: output = input * factor.
// Division by a scalar s is recorded as a scale by 1/s.
//
// Backward: grad_input = outputGrad * factor.
type ScaleOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
	factor float64
}

// NewScaleOp creates a new ScaleOp.
func NewScaleOp(input, output *tensor.RawTensor, factor float64) *ScaleOp {
	return &ScaleOp{
		input:  input,
		output: output,
		factor: factor,
	}
}

// Backward computes the input gradient for scaling.
func (op *ScaleOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{backend.MulScalar(outputGrad, op.factor)}
}

// Inputs returns the input tensors.
func (op *ScaleOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.input}
}

// Output returns the output tensor.
func (op *ScaleOp) Output() *tensor.RawTensor {
	return op.output
}

// ShiftOp records addition of a constant: output = input + offset.
// Subtraction is recorded as a shift by -offset.
//
// Backward: the gradient passes through unchanged.
type ShiftOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
}

// NewShiftOp creates a new ShiftOp.
func NewShiftOp(input, output *tensor.RawTensor) *ShiftOp {
	return &ShiftOp{
		input:  input,
		output: output,
	}
}

// Backward passes the gradient through unchanged.
func (op *ShiftOp) Backward(outputGrad *tensor.RawTensor, _ tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{outputGrad.Clone()}
}

// Inputs returns the input tensors.
func (op *ShiftOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.input}
}

// Output returns the output tensor.
func (op *ShiftOp) Output() *tensor.RawTensor {
	return op.output
}
