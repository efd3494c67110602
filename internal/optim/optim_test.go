package optim_test

import (
	"testing"

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

func newParam(t *testing.T, backend *cpu.CPUBackend, name string, data []float32) *nn.Parameter[*cpu.CPUBackend] {
	t.Helper()
	x, err := tensor.FromSlice(data, tensor.Shape{len(data)}, backend)
	if err != nil {
		t.Fatal(err)
	}
	return nn.NewParameter(name, x)
}

func gradMap(t *testing.T, param *nn.Parameter[*cpu.CPUBackend], data []float32) map[*tensor.RawTensor]*tensor.RawTensor {
	t.Helper()
	grad, err := tensor.NewRawFromFloat32(data, param.Tensor().Shape())
	if err != nil {
		t.Fatal(err)
	}
	return map[*tensor.RawTensor]*tensor.RawTensor{
		param.Tensor().Raw(): grad,
	}
}

// TestSGD_SimpleUpdate tests SGD without momentum: x -= lr * grad.
func TestSGD_SimpleUpdate(t *testing.T) {
	backend := cpu.New()
	param := newParam(t, backend, "x", []float32{2})

	optimizer := optim.NewSGD([]*nn.Parameter[*cpu.CPUBackend]{param},
		optim.SGDConfig{LR: 0.1})

	optimizer.Step(gradMap(t, param, []float32{1}))

	// 2.0 - 0.1*1.0 = 1.9
	if got := param.Tensor().Item(); !floatEqual(got, 1.9, 1e-6) {
		t.Errorf("param = %f, want 1.9", got)
	}
}

// TestSGD_WithMomentum tests velocity accumulation over two steps.
func TestSGD_WithMomentum(t *testing.T) {
	backend := cpu.New()
	param := newParam(t, backend, "x", []float32{1})

	optimizer := optim.NewSGD([]*nn.Parameter[*cpu.CPUBackend]{param},
		optim.SGDConfig{LR: 0.1, Momentum: 0.9})

	// Step 1: v = 1.0, x = 1.0 - 0.1 = 0.9
	optimizer.Step(gradMap(t, param, []float32{1}))
	if got := param.Tensor().Item(); !floatEqual(got, 0.9, 1e-6) {
		t.Errorf("step 1: param = %f, want 0.9", got)
	}

	// Step 2: v = 0.9*1.0 + 1.0 = 1.9, x = 0.9 - 0.19 = 0.71
	optimizer.Step(gradMap(t, param, []float32{1}))
	if got := param.Tensor().Item(); !floatEqual(got, 0.71, 1e-6) {
		t.Errorf("step 2: param = %f, want 0.71", got)
	}
}

// TestSGD_SkipsMissingGradient verifies parameters without gradients are
// left untouched.
func TestSGD_SkipsMissingGradient(t *testing.T) {
	backend := cpu.New()
	param := newParam(t, backend, "x", []float32{3})

	optimizer := optim.NewSGD([]*nn.Parameter[*cpu.CPUBackend]{param},
		optim.SGDConfig{LR: 0.1})

	optimizer.Step(map[*tensor.RawTensor]*tensor.RawTensor{})

	if got := param.Tensor().Item(); got != 3 {
		t.Errorf("param = %f, want unchanged 3", got)
	}
}

// TestSGD_Defaults tests the default learning rate.
func TestSGD_Defaults(t *testing.T) {
	backend := cpu.New()
	param := newParam(t, backend, "x", []float32{0})

	optimizer := optim.NewSGD([]*nn.Parameter[*cpu.CPUBackend]{param}, optim.SGDConfig{})
	if got := optimizer.GetLR(); !floatEqual(got, 0.01, 1e-9) {
		t.Errorf("default LR = %f, want 0.01", got)
	}

	optimizer.SetLR(0.5)
	if got := optimizer.GetLR(); got != 0.5 {
		t.Errorf("SetLR: GetLR() = %f, want 0.5", got)
	}
}

// TestSGD_StateDict tests velocity export and restore.
func TestSGD_StateDict(t *testing.T) {
	backend := cpu.New()
	param := newParam(t, backend, "x", []float32{1})

	src := optim.NewSGD([]*nn.Parameter[*cpu.CPUBackend]{param},
		optim.SGDConfig{LR: 0.1, Momentum: 0.9})
	src.Step(gradMap(t, param, []float32{2}))

	state := src.StateDict()
	if _, ok := state["velocity.0"]; !ok {
		t.Fatal("StateDict missing velocity.0")
	}

	dst := optim.NewSGD([]*nn.Parameter[*cpu.CPUBackend]{param},
		optim.SGDConfig{LR: 0.1, Momentum: 0.9})
	if err := dst.LoadStateDict(state); err != nil {
		t.Fatal(err)
	}

	restored := dst.StateDict()["velocity.0"].AsFloat32()[0]
	if !floatEqual(restored, 2, 1e-6) {
		t.Errorf("restored velocity = %f, want 2", restored)
	}
}

// TestAdam_FirstStep tests the bias-corrected first update.
func TestAdam_FirstStep(t *testing.T) {
	backend := cpu.New()
	param := newParam(t, backend, "x", []float32{1})

	optimizer := optim.NewAdam([]*nn.Parameter[*cpu.CPUBackend]{param},
		optim.AdamConfig{LR: 0.1})

	optimizer.Step(gradMap(t, param, []float32{0.5}))

	// After bias correction, mHat = grad and vHat = grad², so the first
	// update is lr * grad/|grad| = lr (up to epsilon).
	if got := param.Tensor().Item(); !floatEqual(got, 0.9, 1e-4) {
		t.Errorf("param = %f, want ~0.9", got)
	}
}

// TestAdam_ConvergesOnQuadratic minimizes f(x) = x² from x = 5.
func TestAdam_ConvergesOnQuadratic(t *testing.T) {
	backend := cpu.New()
	param := newParam(t, backend, "x", []float32{5})

	optimizer := optim.NewAdam([]*nn.Parameter[*cpu.CPUBackend]{param},
		optim.AdamConfig{LR: 0.1})

	for i := 0; i < 500; i++ {
		x := param.Tensor().Item()
		optimizer.Step(gradMap(t, param, []float32{2 * x}))
	}

	if got := param.Tensor().Item(); !floatEqual(got, 0, 0.05) {
		t.Errorf("param = %f, want ~0", got)
	}
}
