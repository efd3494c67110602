package tensor_test

import (
	"testing"

	"github.com/primer-ml/primer/internal/backend/cpu"
	"github.com/primer-ml/primer/internal/tensor"
)

// TestFromSlice tests tensor creation from Go slices.
func TestFromSlice(t *testing.T) {
	backend := cpu.New()

	x, err := tensor.FromSlice([]float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3}, backend)
	if err != nil {
		t.Fatal(err)
	}

	if !x.Shape().Equal(tensor.Shape{2, 3}) {
		t.Errorf("Shape() = %v, want [2 3]", x.Shape())
	}
	if x.DType() != tensor.Float32 {
		t.Errorf("DType() = %v, want Float32", x.DType())
	}
	if got := x.At(1, 2); got != 6 {
		t.Errorf("At(1, 2) = %f, want 6", got)
	}

	// Length mismatch should error.
	if _, err := tensor.FromSlice([]float32{1, 2}, tensor.Shape{2, 3}, backend); err == nil {
		t.Error("FromSlice accepted mismatched data length")
	}
}

// TestCreation tests Zeros, Ones, Full, Eye, and Arange.
func TestCreation(t *testing.T) {
	backend := cpu.New()

	t.Run("Zeros", func(t *testing.T) {
		x := tensor.Zeros[float32](tensor.Shape{2, 2}, backend)
		for _, v := range x.Data() {
			if v != 0 {
				t.Fatalf("Zeros contains %f", v)
			}
		}
	})

	t.Run("Ones", func(t *testing.T) {
		x := tensor.Ones[float32](tensor.Shape{3}, backend)
		for _, v := range x.Data() {
			if v != 1 {
				t.Fatalf("Ones contains %f", v)
			}
		}
	})

	t.Run("Full", func(t *testing.T) {
		x := tensor.Full[float32](tensor.Shape{2}, 3.5, backend)
		if x.At(0) != 3.5 || x.At(1) != 3.5 {
			t.Errorf("Full = %v, want [3.5 3.5]", x.Data())
		}
	})

	t.Run("Eye", func(t *testing.T) {
		x := tensor.Eye[float32](3, backend)
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				want := float32(0)
				if i == j {
					want = 1
				}
				if got := x.At(i, j); got != want {
					t.Errorf("Eye[%d][%d] = %f, want %f", i, j, got, want)
				}
			}
		}
	})

	t.Run("Arange", func(t *testing.T) {
		x := tensor.Arange[int32](0, 5, backend)
		want := []int32{0, 1, 2, 3, 4}
		data := x.Data()
		for i := range want {
			if data[i] != want[i] {
				t.Errorf("Arange = %v, want %v", data, want)
				break
			}
		}
	})
}

// TestTensor_Item tests single-element extraction.
func TestTensor_Item(t *testing.T) {
	backend := cpu.New()

	x, _ := tensor.FromSlice([]float32{42}, tensor.Shape{1}, backend)
	if got := x.Item(); got != 42 {
		t.Errorf("Item() = %f, want 42", got)
	}

	defer func() {
		if recover() == nil {
			t.Error("Item() on multi-element tensor should panic")
		}
	}()
	y, _ := tensor.FromSlice([]float32{1, 2}, tensor.Shape{2}, backend)
	y.Item()
}

// TestTensor_Ops tests the method wrappers end to end on the CPU backend.
//
// Each subtest builds fresh tensors: the CPU backend updates uniquely-owned
// buffers in place, so results may alias their inputs.
func TestTensor_Ops(t *testing.T) {
	backend := cpu.New()

	newAB := func() (a, b *tensor.Tensor[float32, *cpu.CPUBackend]) {
		a, _ = tensor.FromSlice([]float32{1, 2, 3, 4}, tensor.Shape{2, 2}, backend)
		b, _ = tensor.FromSlice([]float32{5, 6, 7, 8}, tensor.Shape{2, 2}, backend)
		return a, b
	}

	t.Run("Add", func(t *testing.T) {
		a, b := newAB()
		c := a.Add(b)
		want := []float32{6, 8, 10, 12}
		for i, v := range c.Data() {
			if v != want[i] {
				t.Errorf("Add = %v, want %v", c.Data(), want)
				break
			}
		}
	})

	t.Run("MatMul", func(t *testing.T) {
		a, b := newAB()
		c := a.MatMul(b)
		// [1 2; 3 4] @ [5 6; 7 8] = [19 22; 43 50]
		want := []float32{19, 22, 43, 50}
		for i, v := range c.Data() {
			if v != want[i] {
				t.Errorf("MatMul = %v, want %v", c.Data(), want)
				break
			}
		}
	})

	t.Run("Transpose", func(t *testing.T) {
		a, _ := newAB()
		c := a.T()
		want := []float32{1, 3, 2, 4}
		for i, v := range c.Data() {
			if v != want[i] {
				t.Errorf("T() = %v, want %v", c.Data(), want)
				break
			}
		}
	})

	t.Run("MulScalar", func(t *testing.T) {
		a, _ := newAB()
		c := a.MulScalar(2)
		want := []float32{2, 4, 6, 8}
		for i, v := range c.Data() {
			if v != want[i] {
				t.Errorf("MulScalar = %v, want %v", c.Data(), want)
				break
			}
		}
	})

	t.Run("Sum", func(t *testing.T) {
		a, _ := newAB()
		if got := a.Sum().Item(); got != 10 {
			t.Errorf("Sum = %f, want 10", got)
		}
	})
}

// TestTensor_CloneIndependence verifies copy-on-write: mutating through one
// handle after a backend op must not corrupt the clone's view of the data.
func TestTensor_CloneIndependence(t *testing.T) {
	backend := cpu.New()

	a, _ := tensor.FromSlice([]float32{1, 2, 3}, tensor.Shape{3}, backend)
	c := a.Clone()

	// The shared buffer is not unique, so this op must allocate.
	sum := a.Add(c)
	want := []float32{2, 4, 6}
	for i, v := range sum.Data() {
		if v != want[i] {
			t.Errorf("Add = %v, want %v", sum.Data(), want)
			break
		}
	}

	for i, v := range c.Data() {
		if v != []float32{1, 2, 3}[i] {
			t.Errorf("clone mutated: %v", c.Data())
			break
		}
	}
}
