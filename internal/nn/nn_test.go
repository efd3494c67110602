package nn_test

import (
	"testing"

	"github.com/primer-ml/primer/internal/autodiff"
	"github.com/primer-ml/primer/internal/backend/cpu"
	"github.com/primer-ml/primer/internal/nn"
	"github.com/primer-ml/primer/internal/optim"
	"github.com/primer-ml/primer/internal/tensor"
)

// Helper to check float equality with tolerance.
func floatEqual(a, b, eps float32) bool {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return diff < eps
}

// TestModuleInterface verifies that layer types implement Module.
func TestModuleInterface(t *testing.T) {
	backend := cpu.New()

	modules := []struct {
		name   string
		module nn.Module[*cpu.CPUBackend]
	}{
		{"Linear", nn.NewLinear(4, 3, backend)},
		{"ReLU", nn.NewReLU[*cpu.CPUBackend]()},
		{"Sigmoid", nn.NewSigmoid[*cpu.CPUBackend]()},
		{"Tanh", nn.NewTanh[*cpu.CPUBackend]()},
		{"LogSoftmax", nn.NewLogSoftmax[*cpu.CPUBackend](1)},
		{"Sequential", nn.NewSequential[*cpu.CPUBackend](
			nn.NewLinear(4, 3, backend),
			nn.NewLogSoftmax[*cpu.CPUBackend](1),
		)},
	}

	for _, tt := range modules {
		t.Run(tt.name, func(t *testing.T) {
			input := tensor.Randn[float32](tensor.Shape{2, 4}, backend)
			out := tt.module.Forward(input)
			if out == nil {
				t.Fatal("Forward returned nil")
			}
			_ = tt.module.Parameters()
		})
	}
}

// TestLinear_Forward tests the affine map y = x·Wᵀ + b with known weights.
func TestLinear_Forward(t *testing.T) {
	backend := cpu.New()
	layer := nn.NewLinear(2, 2, backend)

	// W = [1 2; 3 4], b = [0.5, -0.5]
	copy(layer.Weight().Tensor().Data(), []float32{1, 2, 3, 4})
	copy(layer.Bias().Tensor().Data(), []float32{0.5, -0.5})

	input, _ := tensor.FromSlice([]float32{1, 1, 2, 0}, tensor.Shape{2, 2}, backend)
	out := layer.Forward(input)

	// Row 1: [1*1+2*1, 3*1+4*1] + b = [3.5, 6.5]
	// Row 2: [1*2+2*0, 3*2+4*0] + b = [2.5, 5.5]
	want := []float32{3.5, 6.5, 2.5, 5.5}
	for i, v := range out.Data() {
		if !floatEqual(v, want[i], 1e-6) {
			t.Errorf("out[%d] = %f, want %f", i, v, want[i])
		}
	}
}

// TestLinear_StateDict tests export and restore of parameters.
func TestLinear_StateDict(t *testing.T) {
	backend := cpu.New()

	src := nn.NewLinear(3, 2, backend)
	dst := nn.NewLinear(3, 2, backend)

	if err := dst.LoadStateDict(src.StateDict()); err != nil {
		t.Fatal(err)
	}

	srcW := src.Weight().Tensor().Data()
	dstW := dst.Weight().Tensor().Data()
	for i := range srcW {
		if srcW[i] != dstW[i] {
			t.Fatalf("weight mismatch at %d after load", i)
		}
	}

	t.Run("MissingKey", func(t *testing.T) {
		err := dst.LoadStateDict(map[string]*tensor.RawTensor{})
		if err == nil {
			t.Error("LoadStateDict accepted empty dict")
		}
	})

	t.Run("ShapeMismatch", func(t *testing.T) {
		other := nn.NewLinear(4, 2, backend)
		err := dst.LoadStateDict(other.StateDict())
		if err == nil {
			t.Error("LoadStateDict accepted wrong shape")
		}
	})
}

// TestSequential tests forward chaining and prefixed state dicts.
func TestSequential(t *testing.T) {
	backend := cpu.New()

	model := nn.NewSequential[*cpu.CPUBackend](
		nn.NewLinear(4, 3, backend),
		nn.NewReLU[*cpu.CPUBackend](),
		nn.NewLinear(3, 2, backend),
	)

	if got := len(model.Parameters()); got != 4 {
		t.Errorf("Parameters() returned %d, want 4", got)
	}

	input := tensor.Randn[float32](tensor.Shape{5, 4}, backend)
	out := model.Forward(input)
	if !out.Shape().Equal(tensor.Shape{5, 2}) {
		t.Errorf("output shape = %v, want [5 2]", out.Shape())
	}

	stateDict := model.StateDict()
	for _, key := range []string{"0.weight", "0.bias", "2.weight", "2.bias"} {
		if _, ok := stateDict[key]; !ok {
			t.Errorf("StateDict missing %q", key)
		}
	}

	if err := model.LoadStateDict(stateDict); err != nil {
		t.Errorf("LoadStateDict: %v", err)
	}
}

// TestNLLLoss tests the mean negative log-likelihood value.
func TestNLLLoss(t *testing.T) {
	backend := cpu.New()

	logProbs, _ := tensor.FromSlice(
		[]float32{-0.5, -1.2, -0.9, -0.3},
		tensor.Shape{2, 2}, backend)
	targets, _ := tensor.FromSlice([]int64{0, 1}, tensor.Shape{2}, backend)

	loss := nn.NewNLLLoss[*cpu.CPUBackend]().Forward(logProbs, targets)
	if !floatEqual(loss.Item(), 0.4, 1e-6) {
		t.Errorf("loss = %f, want 0.4", loss.Item())
	}
}

// TestCrossEntropy_EqualsLogSoftmaxNLL verifies the identity
// CrossEntropy(logits) == NLLLoss(LogSoftmax(logits)).
//
// Runs on the autodiff backend so the dedicated cross-entropy kernel is
// compared against the composed path, not against itself.
func TestCrossEntropy_EqualsLogSoftmaxNLL(t *testing.T) {
	backend := autodiff.New(cpu.New())
	type B = *autodiff.AutodiffBackend[*cpu.CPUBackend]

	logits, _ := tensor.FromSlice(
		[]float32{2, -1, 0.5, 0, 3, -2},
		tensor.Shape{2, 3}, backend)
	targets, _ := tensor.FromSlice([]int64{0, 1}, tensor.Shape{2}, backend)

	unpin := logits.Raw().ForceNonUnique()
	defer unpin()

	ce := nn.NewCrossEntropyLoss[B]().Forward(logits, targets)
	nll := nn.NewNLLLoss[B]().Forward(logits.LogSoftmax(1), targets)

	if !floatEqual(ce.Item(), nll.Item(), 1e-5) {
		t.Errorf("CrossEntropy = %f, NLL(LogSoftmax) = %f", ce.Item(), nll.Item())
	}
}

// TestMSELoss tests the value and that gradients flow through it.
func TestMSELoss(t *testing.T) {
	backend := autodiff.New(cpu.New())
	backend.Tape().StartRecording()

	pred, _ := tensor.FromSlice([]float32{1, 2, 3}, tensor.Shape{3}, backend)
	target, _ := tensor.FromSlice([]float32{0, 2, 5}, tensor.Shape{3}, backend)

	loss := nn.NewMSELoss[*autodiff.AutodiffBackend[*cpu.CPUBackend]]().Forward(pred, target)

	// mean((1)² + 0² + (-2)²) = 5/3
	if !floatEqual(loss.Item(), 5.0/3.0, 1e-5) {
		t.Errorf("loss = %f, want %f", loss.Item(), 5.0/3.0)
	}

	grads := autodiff.Backward(loss, backend)
	grad := grads[pred.Raw()]
	if grad == nil {
		t.Fatal("no gradient for predictions")
	}

	// d/dpred mean((pred-target)²) = 2(pred-target)/n
	want := []float32{2.0 / 3.0, 0, -4.0 / 3.0}
	for i, v := range grad.AsFloat32() {
		if !floatEqual(v, want[i], 1e-5) {
			t.Errorf("grad[%d] = %f, want %f", i, v, want[i])
		}
	}
}

// TestAccuracy tests argmax-vs-target scoring.
func TestAccuracy(t *testing.T) {
	backend := cpu.New()

	logits, _ := tensor.FromSlice(
		[]float32{2, 1, 0, 3, 1, 4},
		tensor.Shape{3, 2}, backend)
	targets, _ := tensor.FromSlice([]int64{0, 1, 0}, tensor.Shape{3}, backend)

	// Predictions: [0, 1, 1]; two of three match.
	got := nn.Accuracy(logits, targets)
	if !floatEqual(got, 2.0/3.0, 1e-6) {
		t.Errorf("Accuracy = %f, want %f", got, 2.0/3.0)
	}
}

// TestTrainingStep runs one SGD step end to end and checks the loss drops.
func TestTrainingStep(t *testing.T) {
	backend := autodiff.New(cpu.New())
	type B = *autodiff.AutodiffBackend[*cpu.CPUBackend]

	model := nn.NewLinear(3, 2, backend)
	lossFn := nn.NewNLLLoss[B]()
	logSoftmax := nn.NewLogSoftmax[B](1)
	optimizer := optim.NewSGD(model.Parameters(), optim.SGDConfig{LR: 0.5})

	input, _ := tensor.FromSlice([]float32{1, 0, 2, 0, 1, 1}, tensor.Shape{2, 3}, backend)
	targets, _ := tensor.FromSlice([]int64{0, 1}, tensor.Shape{2}, backend)

	step := func() float32 {
		backend.Tape().Clear()
		backend.Tape().StartRecording()

		logProbs := logSoftmax.Forward(model.Forward(input))
		loss := lossFn.Forward(logProbs, targets)

		grads := autodiff.Backward(loss, backend)
		backend.Tape().StopRecording()

		optimizer.Step(grads)
		optimizer.ZeroGrad()
		return loss.Item()
	}

	first := step()
	var last float32
	for i := 0; i < 10; i++ {
		last = step()
	}

	if last >= first {
		t.Errorf("loss did not decrease: first %f, last %f", first, last)
	}
}
