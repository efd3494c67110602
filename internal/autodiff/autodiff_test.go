package autodiff_test

import (
	"testing"

	"github.com/primer-ml/primer/internal/autodiff"
	"github.com/primer-ml/primer/internal/backend/cpu"
	"github.com/primer-ml/primer/internal/tensor"
)

type testBackend = *autodiff.AutodiffBackend[*cpu.CPUBackend]

// Helper to check float equality with tolerance.
func floatEqual(a, b, eps float32) bool {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return diff < eps
}

func newBackend() testBackend {
	backend := autodiff.New(cpu.New())
	backend.Tape().StartRecording()
	return backend
}

// TestBackward_Square tests d(x*x)/dx = 2x.
func TestBackward_Square(t *testing.T) {
	backend := newBackend()

	x, _ := tensor.FromSlice([]float32{1, 2, 3}, tensor.Shape{3}, backend)
	y := x.Mul(x)

	grads := autodiff.Backward(y, backend)

	grad, ok := grads[x.Raw()]
	if !ok {
		t.Fatal("no gradient for x")
	}

	want := []float32{2, 4, 6}
	for i, v := range grad.AsFloat32() {
		if !floatEqual(v, want[i], 1e-6) {
			t.Errorf("grad[%d] = %f, want %f", i, v, want[i])
		}
	}
}

// TestBackward_InputsPreserved verifies recorded operations never update
// their inputs inplace; the backward pass still needs the original values.
func TestBackward_InputsPreserved(t *testing.T) {
	backend := newBackend()

	x, _ := tensor.FromSlice([]float32{1, 2, 3}, tensor.Shape{3}, backend)
	y, _ := tensor.FromSlice([]float32{4, 5, 6}, tensor.Shape{3}, backend)
	_ = x.Add(y)

	for i, v := range x.Data() {
		if v != []float32{1, 2, 3}[i] {
			t.Fatalf("x mutated by recorded Add: %v", x.Data())
		}
	}
}

// TestBackward_AddBroadcast tests gradient reduction over broadcast dims:
// the [1, 3] input receives its gradient summed across the batch dimension.
func TestBackward_AddBroadcast(t *testing.T) {
	backend := newBackend()

	a, _ := tensor.FromSlice([]float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3}, backend)
	b, _ := tensor.FromSlice([]float32{10, 20, 30}, tensor.Shape{1, 3}, backend)
	y := a.Add(b)

	grads := autodiff.Backward(y, backend)

	gradB := grads[b.Raw()]
	if gradB == nil {
		t.Fatal("no gradient for b")
	}
	if !gradB.Shape().Equal(tensor.Shape{1, 3}) {
		t.Fatalf("gradB shape = %v, want [1 3]", gradB.Shape())
	}
	for i, v := range gradB.AsFloat32() {
		if !floatEqual(v, 2, 1e-6) {
			t.Errorf("gradB[%d] = %f, want 2", i, v)
		}
	}
}

// TestBackward_MatMul tests matrix multiplication gradients:
// dC/dA = grad @ Bᵀ and dC/dB = Aᵀ @ grad.
func TestBackward_MatMul(t *testing.T) {
	backend := newBackend()

	a, _ := tensor.FromSlice([]float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3}, backend)
	b, _ := tensor.FromSlice([]float32{1, 0, 0, 1, 1, 1}, tensor.Shape{3, 2}, backend)
	c := a.MatMul(b)

	grads := autodiff.Backward(c, backend)

	// With seed all ones: gradA[i][k] = sum_j B[k][j].
	gradA := grads[a.Raw()].AsFloat32()
	wantA := []float32{1, 1, 2, 1, 1, 2}
	for i := range wantA {
		if !floatEqual(gradA[i], wantA[i], 1e-6) {
			t.Errorf("gradA[%d] = %f, want %f", i, gradA[i], wantA[i])
		}
	}

	// gradB[k][j] = sum_i A[i][k].
	gradB := grads[b.Raw()].AsFloat32()
	wantB := []float32{5, 5, 7, 7, 9, 9}
	for i := range wantB {
		if !floatEqual(gradB[i], wantB[i], 1e-6) {
			t.Errorf("gradB[%d] = %f, want %f", i, gradB[i], wantB[i])
		}
	}
}

// TestBackward_LogSoftmax checks that each row's gradient sums to zero:
// log-softmax is invariant to constant shifts of its input.
func TestBackward_LogSoftmax(t *testing.T) {
	backend := newBackend()

	x, _ := tensor.FromSlice([]float32{0.5, -1, 2, 0, 1, -2}, tensor.Shape{2, 3}, backend)
	y := x.LogSoftmax(1)

	grads := autodiff.Backward(y, backend)

	grad := grads[x.Raw()].AsFloat32()
	for row := 0; row < 2; row++ {
		var sum float32
		for col := 0; col < 3; col++ {
			sum += grad[row*3+col]
		}
		if !floatEqual(sum, 0, 1e-5) {
			t.Errorf("row %d gradient sums to %f, want 0", row, sum)
		}
	}
}

// TestBackward_NLLLoss tests the loss gradient: -1/batch at each example's
// target class, zero elsewhere.
func TestBackward_NLLLoss(t *testing.T) {
	backend := newBackend()

	logProbs, _ := tensor.FromSlice(
		[]float32{-0.5, -1.2, -0.9, -0.3},
		tensor.Shape{2, 2}, backend)
	targets, _ := tensor.FromSlice([]int64{0, 1}, tensor.Shape{2}, backend)

	loss := tensor.New[float32, testBackend](
		backend.NLLLoss(logProbs.Raw(), targets.Raw()), backend)

	// loss = -((-0.5) + (-0.3)) / 2 = 0.4
	if !floatEqual(loss.Item(), 0.4, 1e-6) {
		t.Errorf("loss = %f, want 0.4", loss.Item())
	}

	grads := autodiff.Backward(loss, backend)

	grad := grads[logProbs.Raw()].AsFloat32()
	want := []float32{-0.5, 0, 0, -0.5}
	for i := range want {
		if !floatEqual(grad[i], want[i], 1e-6) {
			t.Errorf("grad[%d] = %f, want %f", i, grad[i], want[i])
		}
	}

	if g, ok := grads[targets.Raw()]; ok && g != nil {
		t.Error("integer targets must not receive a gradient")
	}
}

// TestBackward_ScalarChain tests a composite of scalar and element-wise
// ops: d/dx sum((2x+1)²) = 8x + 4.
func TestBackward_ScalarChain(t *testing.T) {
	backend := newBackend()

	x, _ := tensor.FromSlice([]float32{1, -2, 0.5}, tensor.Shape{3}, backend)
	y := x.MulScalar(2).AddScalar(1)
	loss := y.Mul(y).Sum()

	grads := autodiff.Backward(loss, backend)

	grad := grads[x.Raw()].AsFloat32()
	for i, xv := range []float32{1, -2, 0.5} {
		want := 8*xv + 4
		if !floatEqual(grad[i], want, 1e-5) {
			t.Errorf("grad[%d] = %f, want %f", i, grad[i], want)
		}
	}
}

// TestBackward_NumericCheck compares autodiff gradients against central
// finite differences for f(x) = sum(exp(x) * x).
func TestBackward_NumericCheck(t *testing.T) {
	input := []float32{0.3, -0.7, 1.1}

	f := func(data []float32) float32 {
		backend := cpu.New()
		x, _ := tensor.FromSlice(data, tensor.Shape{3}, backend)
		unpin := x.Raw().ForceNonUnique()
		defer unpin()
		return x.Exp().Mul(x).Sum().Item()
	}

	backend := newBackend()
	x, _ := tensor.FromSlice(input, tensor.Shape{3}, backend)
	loss := x.Exp().Mul(x).Sum()
	grads := autodiff.Backward(loss, backend)
	grad := grads[x.Raw()].AsFloat32()

	const h = 1e-3
	for i := range input {
		plus := append([]float32(nil), input...)
		minus := append([]float32(nil), input...)
		plus[i] += h
		minus[i] -= h

		numeric := (f(plus) - f(minus)) / (2 * h)
		if !floatEqual(grad[i], numeric, 1e-2) {
			t.Errorf("grad[%d] = %f, numeric %f", i, grad[i], numeric)
		}
	}
}

// TestTape_Lifecycle tests recording flags and Clear.
func TestTape_Lifecycle(t *testing.T) {
	backend := autodiff.New(cpu.New())
	tape := backend.Tape()

	if tape.IsRecording() {
		t.Error("fresh tape should not be recording")
	}

	x, _ := tensor.FromSlice([]float32{1, 2}, tensor.Shape{2}, backend)
	_ = x.Mul(x)
	if tape.NumOps() != 0 {
		t.Error("operation recorded while not recording")
	}

	tape.StartRecording()
	_ = x.Mul(x)
	if tape.NumOps() != 1 {
		t.Errorf("NumOps = %d, want 1", tape.NumOps())
	}

	tape.Clear()
	if tape.NumOps() != 0 {
		t.Error("Clear() did not drop operations")
	}
	if !tape.IsRecording() {
		t.Error("Clear() must preserve the recording flag")
	}
}
