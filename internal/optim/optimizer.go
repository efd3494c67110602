// Package optim implements optimization algorithms for training.
//
// Provided optimizers:
//   - SGD: stochastic gradient descent, with optional momentum
//   - Adam: adaptive moment estimation
//
// Typical training loop:
//
//	optimizer := optim.NewSGD(model.Parameters(), optim.SGDConfig{LR: 0.1}, backend)
//
//	for epoch := 0; epoch < epochs; epoch++ {
//	    backend.Tape().StartRecording()
//	    logProbs := model.Forward(input)
//	    loss := lossFn.Forward(logProbs, targets)
//	    grads := autodiff.Backward(loss, backend)
//	    backend.Tape().StopRecording()
//
//	    optimizer.Step(grads)
//	    optimizer.ZeroGrad()
//	    backend.Tape().Clear()
//	}
package optim

import (
	"github.com/primer-ml/primer/internal/nn"
	"github.com/primer-ml/primer/internal/tensor"
)

// Optimizer updates model parameters from a gradient map produced by
// autodiff.Backward.
type Optimizer interface {
	// Step applies one update to every parameter that has a gradient.
	// Parameters absent from the map are left untouched.
	Step(grads map[*tensor.RawTensor]*tensor.RawTensor)

	// ZeroGrad clears stored parameter gradients. Call before each
	// backward pass so gradients do not accumulate across iterations.
	ZeroGrad()

	// GetLR returns the current learning rate.
	GetLR() float32
}

// Config holds settings shared by all optimizers.
type Config struct {
	LR float32
}

// gradientFor looks up the gradient slice for a parameter, or nil if the
// parameter did not participate in the recorded forward pass.
func gradientFor[B tensor.Backend](param *nn.Parameter[B], grads map[*tensor.RawTensor]*tensor.RawTensor) []float32 {
	if param == nil {
		return nil
	}
	grad, ok := grads[param.Tensor().Raw()]
	if !ok || grad == nil {
		return nil
	}
	return grad.AsFloat32()
}
