package ops

import (
	"fmt"

	"github.com/primer-ml/primer/internal/tensor"
)

// ReLUOp records the rectified linear unit: output = max(0, input).
//
// Backward: the gradient passes through where the input was positive and is
// zero elsewhere.
type ReLUOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
}

// NewReLUOp creates a new ReLUOp.
func NewReLUOp(input, output *tensor.RawTensor) *ReLUOp {
	return &ReLUOp{input: input, output: output}
}

// Backward computes the input gradient for ReLU.
func (op *ReLUOp) Backward(outputGrad *tensor.RawTensor, _ tensor.Backend) []*tensor.RawTensor {
	grad := newGradLike(op.input)

	switch op.input.DType() {
	case tensor.Float32:
		in, g, out := op.input.AsFloat32(), outputGrad.AsFloat32(), grad.AsFloat32()
		for i := range in {
			if in[i] > 0 {
				out[i] = g[i]
			}
		}
	case tensor.Float64:
		in, g, out := op.input.AsFloat64(), outputGrad.AsFloat64(), grad.AsFloat64()
		for i := range in {
			if in[i] > 0 {
				out[i] = g[i]
			}
		}
	default:
		panic(fmt.Sprintf("ReLUOp: backward only supports float types, got %s", op.input.DType()))
	}

	return []*tensor.RawTensor{grad}
}

// Inputs returns the input tensors.
func (op *ReLUOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.input}
}

// Output returns the output tensor.
func (op *ReLUOp) Output() *tensor.RawTensor {
	return op.output
}

// SigmoidOp records the logistic function: output = 1 / (1 + e^-input).
//
// Backward: grad_input = outputGrad * output * (1 - output).
type SigmoidOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
}

// NewSigmoidOp creates a new SigmoidOp.
func NewSigmoidOp(input, output *tensor.RawTensor) *SigmoidOp {
	return &SigmoidOp{input: input, output: output}
}

// Backward computes the input gradient for sigmoid.
func (op *SigmoidOp) Backward(outputGrad *tensor.RawTensor, _ tensor.Backend) []*tensor.RawTensor {
	grad := newGradLike(op.input)

	switch op.input.DType() {
	case tensor.Float32:
		s, g, out := op.output.AsFloat32(), outputGrad.AsFloat32(), grad.AsFloat32()
		for i := range s {
			out[i] = g[i] * s[i] * (1 - s[i])
		}
	case tensor.Float64:
		s, g, out := op.output.AsFloat64(), outputGrad.AsFloat64(), grad.AsFloat64()
		for i := range s {
			out[i] = g[i] * s[i] * (1 - s[i])
		}
	default:
		panic(fmt.Sprintf("SigmoidOp: backward only supports float types, got %s", op.input.DType()))
	}

	return []*tensor.RawTensor{grad}
}

// Inputs returns the input tensors.
func (op *SigmoidOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.input}
}

// Output returns the output tensor.
func (op *SigmoidOp) Output() *tensor.RawTensor {
	return op.output
}

// TanhOp records the hyperbolic tangent: output = tanh(input).
//
// Backward: grad_input = outputGrad * (1 - output²).
type TanhOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
}

// NewTanhOp creates a new TanhOp.
func NewTanhOp(input, output *tensor.RawTensor) *TanhOp {
	return &TanhOp{input: input, output: output}
}

// Backward computes the input gradient for tanh.
func (op *TanhOp) Backward(outputGrad *tensor.RawTensor, _ tensor.Backend) []*tensor.RawTensor {
	grad := newGradLike(op.input)

	switch op.input.DType() {
	case tensor.Float32:
		th, g, out := op.output.AsFloat32(), outputGrad.AsFloat32(), grad.AsFloat32()
		for i := range th {
			out[i] = g[i] * (1 - th[i]*th[i])
		}
	case tensor.Float64:
		th, g, out := op.output.AsFloat64(), outputGrad.AsFloat64(), grad.AsFloat64()
		for i := range th {
			out[i] = g[i] * (1 - th[i]*th[i])
		}
	default:
		panic(fmt.Sprintf("TanhOp: backward only supports float types, got %s", op.input.DType()))
	}

	return []*tensor.RawTensor{grad}
}

// Inputs returns the input tensors.
func (op *TanhOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.input}
}

// Output returns the output tensor.
func (op *TanhOp) Output() *tensor.RawTensor {
	return op.output
}
