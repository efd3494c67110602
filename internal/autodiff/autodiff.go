// Package autodiff implements reverse-mode automatic differentiation as a
// backend decorator.
//
// AutodiffBackend wraps any tensor.Backend and records every differentiable
// operation on a GradientTape during the forward pass. Walking the tape in
// reverse then yields gradients for all participating tensors.
//
// Usage:
//
//	backend := autodiff.New(cpu.New())
//	backend.Tape().StartRecording()
//
//	x, _ := tensor.FromSlice([]float32{2}, tensor.Shape{1}, backend)
//	y := x.Mul(x) // y = x², recorded
//
//	grads := autodiff.Backward(y, backend)
//	_ = grads[x.Raw()] // dy/dx = 2x = 4
package autodiff

import (
	"fmt"

	"github.com/primer-ml/primer/internal/autodiff/ops"
	"github.com/primer-ml/primer/internal/tensor"
)

// AutodiffBackend decorates a backend with gradient tracking. It implements
// the full tensor.Backend interface, so typed tensors can be built on it
// directly.
type AutodiffBackend[B tensor.Backend] struct {
	inner B
	tape  *GradientTape
}

// New creates an AutodiffBackend wrapping the given backend.
func New[B tensor.Backend](backend B) *AutodiffBackend[B] {
	return &AutodiffBackend[B]{
		inner: backend,
		tape:  NewGradientTape(),
	}
}

// Tape returns the gradient tape for recording control and inspection.
func (b *AutodiffBackend[B]) Tape() *GradientTape {
	return b.tape
}

// Inner returns the wrapped backend.
func (b *AutodiffBackend[B]) Inner() B {
	return b.inner
}

// Name returns the backend name.
func (b *AutodiffBackend[B]) Name() string {
	return "Autodiff(" + b.inner.Name() + ")"
}

// Device returns the compute device.
func (b *AutodiffBackend[B]) Device() tensor.Device {
	return b.inner.Device()
}

// record puts an op on the tape when recording is enabled.
func (b *AutodiffBackend[B]) record(op ops.Operation) {
	if b.tape.IsRecording() {
		b.tape.Record(op)
	}
}

// Add performs element-wise addition and records the operation.
//
// The ForceNonUnique guards keep the inner backend from overwriting the
// inputs inplace; the backward pass still needs their values.
func (b *AutodiffBackend[B]) Add(x, y *tensor.RawTensor) *tensor.RawTensor {
	defer x.ForceNonUnique()()
	defer y.ForceNonUnique()()

	out := b.inner.Add(x, y)
	b.record(ops.NewAddOp(x, y, out))
	return out
}

// Sub performs element-wise subtraction and records the operation.
func (b *AutodiffBackend[B]) Sub(x, y *tensor.RawTensor) *tensor.RawTensor {
	defer x.ForceNonUnique()()
	defer y.ForceNonUnique()()

	out := b.inner.Sub(x, y)
	b.record(ops.NewSubOp(x, y, out))
	return out
}

// Mul performs element-wise multiplication and records the operation.
func (b *AutodiffBackend[B]) Mul(x, y *tensor.RawTensor) *tensor.RawTensor {
	defer x.ForceNonUnique()()
	defer y.ForceNonUnique()()

	out := b.inner.Mul(x, y)
	b.record(ops.NewMulOp(x, y, out))
	return out
}

// Div performs element-wise division and records the operation.
func (b *AutodiffBackend[B]) Div(x, y *tensor.RawTensor) *tensor.RawTensor {
	defer x.ForceNonUnique()()
	defer y.ForceNonUnique()()

	out := b.inner.Div(x, y)
	b.record(ops.NewDivOp(x, y, out))
	return out
}

// MatMul performs matrix multiplication and records the operation.
func (b *AutodiffBackend[B]) MatMul(x, y *tensor.RawTensor) *tensor.RawTensor {
	defer x.ForceNonUnique()()
	defer y.ForceNonUnique()()

	out := b.inner.MatMul(x, y)
	b.record(ops.NewMatMulOp(x, y, out))
	return out
}

// Reshape reshapes the tensor and records the operation.
func (b *AutodiffBackend[B]) Reshape(t *tensor.RawTensor, newShape tensor.Shape) *tensor.RawTensor {
	defer t.ForceNonUnique()()

	out := b.inner.Reshape(t, newShape)
	b.record(ops.NewReshapeOp(t, out))
	return out
}

// Transpose permutes dimensions and records the operation.
func (b *AutodiffBackend[B]) Transpose(t *tensor.RawTensor, axes ...int) *tensor.RawTensor {
	defer t.ForceNonUnique()()

	// Resolve the default permutation here so the recorded op can invert it.
	if len(axes) == 0 {
		ndim := len(t.Shape())
		axes = make([]int, ndim)
		for i := range axes {
			axes[i] = ndim - 1 - i
		}
	}

	out := b.inner.Transpose(t, axes...)
	b.record(ops.NewTransposeOp(t, out, axes))
	return out
}

// MulScalar multiplies by a scalar and records a scale operation.
func (b *AutodiffBackend[B]) MulScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	defer x.ForceNonUnique()()

	out := b.inner.MulScalar(x, scalar)
	b.record(ops.NewScaleOp(x, out, scalarFactor(scalar)))
	return out
}

// DivScalar divides by a scalar, recorded as a scale by the reciprocal.
func (b *AutodiffBackend[B]) DivScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	defer x.ForceNonUnique()()

	out := b.inner.DivScalar(x, scalar)
	b.record(ops.NewScaleOp(x, out, 1/scalarFactor(scalar)))
	return out
}

// AddScalar adds a scalar; the gradient passes through unchanged.
func (b *AutodiffBackend[B]) AddScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	defer x.ForceNonUnique()()

	out := b.inner.AddScalar(x, scalar)
	b.record(ops.NewShiftOp(x, out))
	return out
}

// SubScalar subtracts a scalar; the gradient passes through unchanged.
func (b *AutodiffBackend[B]) SubScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	defer x.ForceNonUnique()()

	out := b.inner.SubScalar(x, scalar)
	b.record(ops.NewShiftOp(x, out))
	return out
}

// Exp computes the exponential and records the operation.
func (b *AutodiffBackend[B]) Exp(x *tensor.RawTensor) *tensor.RawTensor {
	defer x.ForceNonUnique()()

	out := b.inner.Exp(x)
	b.record(ops.NewExpOp(x, out))
	return out
}

// Log computes the natural logarithm and records the operation.
func (b *AutodiffBackend[B]) Log(x *tensor.RawTensor) *tensor.RawTensor {
	defer x.ForceNonUnique()()

	out := b.inner.Log(x)
	b.record(ops.NewLogOp(x, out))
	return out
}

// Sqrt computes the square root and records the operation.
func (b *AutodiffBackend[B]) Sqrt(x *tensor.RawTensor) *tensor.RawTensor {
	defer x.ForceNonUnique()()

	out := b.inner.Sqrt(x)
	b.record(ops.NewSqrtOp(x, out))
	return out
}

// Softmax computes softmax along dim and records the operation.
func (b *AutodiffBackend[B]) Softmax(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	defer x.ForceNonUnique()()

	dim = resolveDim(x.Shape(), dim)
	out := b.inner.Softmax(x, dim)
	b.record(ops.NewSoftmaxOp(x, out, dim))
	return out
}

// LogSoftmax computes log-softmax along dim and records the operation.
func (b *AutodiffBackend[B]) LogSoftmax(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	defer x.ForceNonUnique()()

	dim = resolveDim(x.Shape(), dim)
	out := b.inner.LogSoftmax(x, dim)
	b.record(ops.NewLogSoftmaxOp(x, out, dim))
	return out
}

// Sum reduces to a single element and records the operation.
func (b *AutodiffBackend[B]) Sum(x *tensor.RawTensor) *tensor.RawTensor {
	defer x.ForceNonUnique()()

	out := b.inner.Sum(x)
	b.record(ops.NewSumOp(x, out))
	return out
}

// SumDim delegates without recording; use Sum for differentiable reductions.
func (b *AutodiffBackend[B]) SumDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	return b.inner.SumDim(x, dim, keepDim)
}

// MeanDim delegates without recording.
func (b *AutodiffBackend[B]) MeanDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	return b.inner.MeanDim(x, dim, keepDim)
}

// Argmax delegates without recording; argmax has no useful gradient.
func (b *AutodiffBackend[B]) Argmax(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	return b.inner.Argmax(x, dim)
}

// Cast delegates without recording.
func (b *AutodiffBackend[B]) Cast(x *tensor.RawTensor, dtype tensor.DataType) *tensor.RawTensor {
	return b.inner.Cast(x, dtype)
}

// activationBackend is what the inner backend must provide for the
// activation helpers below.
type activationBackend interface {
	ReLU(x *tensor.RawTensor) *tensor.RawTensor
	Sigmoid(x *tensor.RawTensor) *tensor.RawTensor
	Tanh(x *tensor.RawTensor) *tensor.RawTensor
}

func (b *AutodiffBackend[B]) activations() activationBackend {
	ab, ok := any(b.inner).(activationBackend)
	if !ok {
		panic(fmt.Sprintf("backend %s does not implement activation kernels", b.inner.Name()))
	}
	return ab
}

// ReLU computes max(0, x) and records the operation.
func (b *AutodiffBackend[B]) ReLU(x *tensor.RawTensor) *tensor.RawTensor {
	defer x.ForceNonUnique()()

	out := b.activations().ReLU(x)
	b.record(ops.NewReLUOp(x, out))
	return out
}

// Sigmoid computes the logistic function and records the operation.
func (b *AutodiffBackend[B]) Sigmoid(x *tensor.RawTensor) *tensor.RawTensor {
	defer x.ForceNonUnique()()

	out := b.activations().Sigmoid(x)
	b.record(ops.NewSigmoidOp(x, out))
	return out
}

// Tanh computes the hyperbolic tangent and records the operation.
func (b *AutodiffBackend[B]) Tanh(x *tensor.RawTensor) *tensor.RawTensor {
	defer x.ForceNonUnique()()

	out := b.activations().Tanh(x)
	b.record(ops.NewTanhOp(x, out))
	return out
}

// NLLLoss computes the mean negative log-likelihood of integer targets
// under log-probabilities, and records the operation.
func (b *AutodiffBackend[B]) NLLLoss(logProbs, targets *tensor.RawTensor) *tensor.RawTensor {
	defer logProbs.ForceNonUnique()()

	out := ops.NLLLossForward(logProbs, targets)
	b.record(ops.NewNLLLossOp(logProbs, targets, out))
	return out
}

// CrossEntropy computes mean softmax cross-entropy from raw logits and
// records the operation.
func (b *AutodiffBackend[B]) CrossEntropy(logits, targets *tensor.RawTensor) *tensor.RawTensor {
	defer logits.ForceNonUnique()()

	out := ops.CrossEntropyForward(logits, targets)
	b.record(ops.NewCrossEntropyOp(logits, targets, out))
	return out
}

func resolveDim(shape tensor.Shape, dim int) int {
	if dim < 0 {
		dim += len(shape)
	}
	if dim < 0 || dim >= len(shape) {
		panic(fmt.Sprintf("autodiff: invalid dim %d for shape %v", dim, shape))
	}
	return dim
}

func scalarFactor(scalar any) float64 {
	switch v := scalar.(type) {
	case float32:
		return float64(v)
	case float64:
		return v
	case int:
		return float64(v)
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	default:
		panic(fmt.Sprintf("autodiff: unsupported scalar type %T", scalar))
	}
}
