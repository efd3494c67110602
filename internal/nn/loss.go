package nn

import (
	"fmt"
	"math"

	"github.com/primer-ml/primer/internal/tensor"
)

// NLLBackend is implemented by backends that provide a differentiable
// negative log-likelihood loss (the autodiff backend does).
type NLLBackend interface {
	NLLLoss(logProbs, targets *tensor.RawTensor) *tensor.RawTensor
}

// CrossEntropyBackend is implemented by backends that provide a
// differentiable softmax cross-entropy loss.
type CrossEntropyBackend interface {
	CrossEntropy(logits, targets *tensor.RawTensor) *tensor.RawTensor
}

// NLLLoss is the negative log-likelihood loss with mean reduction:
//
//	loss = -1/N * Σ_n logProbs[n, targets[n]]
//
// It expects log-probabilities, i.e. the output of LogSoftmax. Minimizing
// it pushes up the log-probability of each example's correct class.
type NLLLoss[B tensor.Backend] struct{}

// NewNLLLoss creates an NLLLoss module.
func NewNLLLoss[B tensor.Backend]() *NLLLoss[B] {
	return &NLLLoss[B]{}
}

// Forward computes the loss as a single-element tensor.
//
// When the backend records gradients (NLLBackend), the loss participates in
// the backward pass; otherwise the value is computed directly.
func (l *NLLLoss[B]) Forward(logProbs *tensor.Tensor[float32, B], targets *tensor.Tensor[int64, B]) *tensor.Tensor[float32, B] {
	backend := logProbs.Backend()

	if nb, ok := any(backend).(NLLBackend); ok {
		return tensor.New[float32, B](nb.NLLLoss(logProbs.Raw(), targets.Raw()), backend)
	}

	// Inference-only path: plain value, no gradient.
	loss := meanNLL(logProbs, targets)
	out, err := tensor.FromSlice([]float32{loss}, tensor.Shape{1}, backend)
	if err != nil {
		panic(err)
	}
	return out
}

// CrossEntropyLoss combines LogSoftmax and NLLLoss over raw logits:
//
//	loss = 1/N * Σ_n (logsumexp(x[n,:]) - x[n, targets[n]])
type CrossEntropyLoss[B tensor.Backend] struct{}

// NewCrossEntropyLoss creates a CrossEntropyLoss module.
func NewCrossEntropyLoss[B tensor.Backend]() *CrossEntropyLoss[B] {
	return &CrossEntropyLoss[B]{}
}

// Forward computes the loss as a single-element tensor.
func (l *CrossEntropyLoss[B]) Forward(logits *tensor.Tensor[float32, B], targets *tensor.Tensor[int64, B]) *tensor.Tensor[float32, B] {
	backend := logits.Backend()

	if cb, ok := any(backend).(CrossEntropyBackend); ok {
		return tensor.New[float32, B](cb.CrossEntropy(logits.Raw(), targets.Raw()), backend)
	}

	loss := meanNLL(logits.LogSoftmax(1), targets)
	out, err := tensor.FromSlice([]float32{loss}, tensor.Shape{1}, backend)
	if err != nil {
		panic(err)
	}
	return out
}

// MSELoss is the mean squared error: mean((pred - target)²).
//
// Built from recorded primitive ops, so it is differentiable on any
// autodiff backend without a dedicated kernel.
type MSELoss[B tensor.Backend] struct{}

// NewMSELoss creates an MSELoss module.
func NewMSELoss[B tensor.Backend]() *MSELoss[B] {
	return &MSELoss[B]{}
}

// Forward computes mean((pred - target)²) as a single-element tensor.
func (l *MSELoss[B]) Forward(pred, target *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	if !pred.Shape().Equal(target.Shape()) {
		panic(fmt.Sprintf("MSELoss: shape mismatch: %v vs %v", pred.Shape(), target.Shape()))
	}

	diff := pred.Sub(target)
	return diff.Mul(diff).Sum().DivScalar(float32(pred.NumElements()))
}

// meanNLL computes -1/N Σ logProbs[n, targets[n]] by direct data access.
func meanNLL[B tensor.Backend](logProbs *tensor.Tensor[float32, B], targets *tensor.Tensor[int64, B]) float32 {
	shape := logProbs.Shape()
	if len(shape) != 2 {
		panic(fmt.Sprintf("NLLLoss: expected 2D log-probabilities [batch, classes], got %v", shape))
	}
	batch, classes := shape[0], shape[1]

	tShape := targets.Shape()
	if len(tShape) != 1 || tShape[0] != batch {
		panic(fmt.Sprintf("NLLLoss: expected targets of shape [%d], got %v", batch, tShape))
	}

	data := logProbs.Data()
	targetData := targets.Data()

	var sum float64
	for n := 0; n < batch; n++ {
		c := int(targetData[n])
		if c < 0 || c >= classes {
			panic(fmt.Sprintf("NLLLoss: target %d out of range [0, %d)", c, classes))
		}
		sum += float64(data[n*classes+c])
	}
	return float32(-sum / float64(batch))
}

// Accuracy returns the fraction of rows where the argmax of logits matches
// the target class.
func Accuracy[B tensor.Backend](logits *tensor.Tensor[float32, B], targets *tensor.Tensor[int64, B]) float32 {
	pred := logits.Argmax(1)
	predData := pred.Data()
	targetData := targets.Data()

	if len(predData) != len(targetData) {
		panic(fmt.Sprintf("Accuracy: %d predictions vs %d targets", len(predData), len(targetData)))
	}

	correct := 0
	for i := range predData {
		if int64(predData[i]) == targetData[i] {
			correct++
		}
	}
	return float32(correct) / float32(len(predData))
}

// Perplexity converts a mean NLL loss value to perplexity, e^loss.
func Perplexity(loss float32) float32 {
	return float32(math.Exp(float64(loss)))
}
