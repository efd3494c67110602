// Package ops defines the differentiable operations recorded on the gradient tape.
//
// Each operation captures its input and output RawTensors during the forward
// pass and knows how to turn the gradient of its output into gradients of its
// inputs during the backward pass.
package ops

import "github.com/primer-ml/primer/internal/tensor"

// Operation is one node of the recorded computation graph.
type Operation interface {
	// Backward computes gradients for the inputs given the output gradient.
	// The returned slice is parallel to Inputs().
	Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor

	// Inputs returns the input tensors of this operation.
	Inputs() []*tensor.RawTensor

	// Output returns the tensor produced by this operation.
	Output() *tensor.RawTensor
}
