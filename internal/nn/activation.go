package nn

import (
	"github.com/primer-ml/primer/internal/tensor"
)

// ReLUBackend is implemented by backends that provide a ReLU kernel.
type ReLUBackend interface {
	ReLU(*tensor.RawTensor) *tensor.RawTensor
}

// SigmoidBackend is implemented by backends that provide a sigmoid kernel.
type SigmoidBackend interface {
	Sigmoid(*tensor.RawTensor) *tensor.RawTensor
}

// TanhBackend is implemented by backends that provide a tanh kernel.
type TanhBackend interface {
	Tanh(*tensor.RawTensor) *tensor.RawTensor
}

// ReLU applies the rectified linear unit element-wise: f(x) = max(0, x).
//
// The simplest non-linearity: cheap to compute, and its gradient does not
// vanish for positive inputs.
type ReLU[B tensor.Backend] struct{}

// NewReLU creates a ReLU activation module.
func NewReLU[B tensor.Backend]() *ReLU[B] {
	return &ReLU[B]{}
}

// Forward applies f(x) = max(0, x).
func (r *ReLU[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	backend := input.Backend()
	rb, ok := any(backend).(ReLUBackend)
	if !ok {
		panic("ReLU: backend does not implement the ReLU kernel")
	}
	return tensor.New[float32, B](rb.ReLU(input.Raw()), backend)
}

// Parameters returns nil; ReLU has no trainable parameters.
func (r *ReLU[B]) Parameters() []*Parameter[B] {
	return nil
}

// Sigmoid applies the logistic function element-wise:
// σ(x) = 1 / (1 + e^-x), squashing values into (0, 1).
type Sigmoid[B tensor.Backend] struct{}

// NewSigmoid creates a Sigmoid activation module.
func NewSigmoid[B tensor.Backend]() *Sigmoid[B] {
	return &Sigmoid[B]{}
}

// Forward applies σ(x) = 1 / (1 + e^-x).
func (s *Sigmoid[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	backend := input.Backend()
	sb, ok := any(backend).(SigmoidBackend)
	if !ok {
		panic("Sigmoid: backend does not implement the sigmoid kernel")
	}
	return tensor.New[float32, B](sb.Sigmoid(input.Raw()), backend)
}

// Parameters returns nil; Sigmoid has no trainable parameters.
func (s *Sigmoid[B]) Parameters() []*Parameter[B] {
	return nil
}

// Tanh applies the hyperbolic tangent element-wise, squashing values into
// (-1, 1). Like sigmoid but zero-centered, which often trains better.
type Tanh[B tensor.Backend] struct{}

// NewTanh creates a Tanh activation module.
func NewTanh[B tensor.Backend]() *Tanh[B] {
	return &Tanh[B]{}
}

// Forward applies tanh(x).
func (t *Tanh[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	backend := input.Backend()
	tb, ok := any(backend).(TanhBackend)
	if !ok {
		panic("Tanh: backend does not implement the tanh kernel")
	}
	return tensor.New[float32, B](tb.Tanh(input.Raw()), backend)
}

// Parameters returns nil; Tanh has no trainable parameters.
func (t *Tanh[B]) Parameters() []*Parameter[B] {
	return nil
}

// LogSoftmax rescales a tensor along dim so that exponentiating yields a
// probability distribution. Pairs with NLLLoss for classification; the two
// together equal CrossEntropyLoss on raw logits.
type LogSoftmax[B tensor.Backend] struct {
	dim int
}

// NewLogSoftmax creates a LogSoftmax module operating along dim.
func NewLogSoftmax[B tensor.Backend](dim int) *LogSoftmax[B] {
	return &LogSoftmax[B]{dim: dim}
}

// Forward computes log(softmax(x)) along the configured dimension.
func (l *LogSoftmax[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	return input.LogSoftmax(l.dim)
}

// Parameters returns nil; LogSoftmax has no trainable parameters.
func (l *LogSoftmax[B]) Parameters() []*Parameter[B] {
	return nil
}
