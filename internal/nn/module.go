// Package nn implements neural network building blocks for Primer.
//
// It provides:
//   - Module: the interface every NN component implements
//   - Parameter: a trainable tensor with its gradient
//   - Linear: the affine map y = x·Wᵀ + b
//   - Activations: ReLU, Sigmoid, Tanh
//   - LogSoftmax and the losses NLLLoss, CrossEntropyLoss, MSELoss
//   - Sequential: a container stacking modules
//
// The design follows PyTorch's nn.Module, expressed with Go generics.
package nn

import (
	"github.com/primer-ml/primer/internal/tensor"
)

// Module is the base interface for all neural network components.
//
// Modules compose into larger models:
//
//	model := nn.NewSequential[B](
//	    nn.NewLinear(784, 128, backend),
//	    nn.NewReLU[B](),
//	    nn.NewLinear(128, 10, backend),
//	)
type Module[B tensor.Backend] interface {
	// Forward computes the module's output for the given input.
	Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B]

	// Parameters returns all trainable parameters, including those of
	// nested modules. Parameter-free modules return an empty slice.
	Parameters() []*Parameter[B]
}

// StateDicter is implemented by modules that can export and restore their
// parameters as a flat name-to-tensor map.
type StateDicter interface {
	StateDict() map[string]*tensor.RawTensor
	LoadStateDict(stateDict map[string]*tensor.RawTensor) error
}
