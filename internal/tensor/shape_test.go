package tensor

import (
	"testing"
)

// TestShape_NumElements tests element counting.
func TestShape_NumElements(t *testing.T) {
	tests := []struct {
		name  string
		shape Shape
		want  int
	}{
		{"scalar-like", Shape{1}, 1},
		{"vector", Shape{5}, 5},
		{"matrix", Shape{2, 3}, 6},
		{"3d", Shape{2, 3, 4}, 24},
		{"empty", Shape{}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.shape.NumElements(); got != tt.want {
				t.Errorf("NumElements() = %d, want %d", got, tt.want)
			}
		})
	}
}

// TestShape_ComputeStrides tests row-major stride computation.
func TestShape_ComputeStrides(t *testing.T) {
	shape := Shape{2, 3, 4}
	strides := shape.ComputeStrides()

	want := []int{12, 4, 1}
	if len(strides) != len(want) {
		t.Fatalf("ComputeStrides() = %v, want %v", strides, want)
	}
	for i := range want {
		if strides[i] != want[i] {
			t.Errorf("stride[%d] = %d, want %d", i, strides[i], want[i])
		}
	}
}

// TestShape_Validate tests dimension validation.
func TestShape_Validate(t *testing.T) {
	if err := (Shape{2, 3}).Validate(); err != nil {
		t.Errorf("Validate() on valid shape: %v", err)
	}
	if err := (Shape{2, 0}).Validate(); err == nil {
		t.Error("Validate() accepted zero dimension")
	}
	if err := (Shape{-1, 3}).Validate(); err == nil {
		t.Error("Validate() accepted negative dimension")
	}
}

// TestBroadcastShapes tests NumPy-style broadcasting rules.
func TestBroadcastShapes(t *testing.T) {
	tests := []struct {
		name       string
		a, b       Shape
		want       Shape
		wantNeeded bool
		wantErr    bool
	}{
		{"same", Shape{2, 3}, Shape{2, 3}, Shape{2, 3}, false, false},
		{"row vector", Shape{4, 3}, Shape{1, 3}, Shape{4, 3}, true, false},
		{"column vector", Shape{4, 3}, Shape{4, 1}, Shape{4, 3}, true, false},
		{"rank extension", Shape{2, 3}, Shape{3}, Shape{2, 3}, true, false},
		{"scalar-like", Shape{2, 3}, Shape{1}, Shape{2, 3}, true, false},
		{"incompatible", Shape{2, 3}, Shape{2, 4}, nil, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, needed, err := BroadcastShapes(tt.a, tt.b)
			if tt.wantErr {
				if err == nil {
					t.Errorf("BroadcastShapes(%v, %v) expected error, got %v", tt.a, tt.b, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("BroadcastShapes(%v, %v): %v", tt.a, tt.b, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("BroadcastShapes(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
			if needed != tt.wantNeeded {
				t.Errorf("needsBroadcast = %v, want %v", needed, tt.wantNeeded)
			}
		})
	}
}

// TestRawTensor_RefCounting tests the copy-on-write buffer sharing.
func TestRawTensor_RefCounting(t *testing.T) {
	raw, err := NewRaw(Shape{2, 2}, Float32, CPU)
	if err != nil {
		t.Fatal(err)
	}

	if !raw.IsUnique() {
		t.Error("fresh tensor should be unique")
	}

	clone := raw.Clone()
	if raw.IsUnique() || clone.IsUnique() {
		t.Error("cloned tensors should share the buffer")
	}

	clone.Release()
	if !raw.IsUnique() {
		t.Error("tensor should be unique again after clone released")
	}

	unpin := raw.ForceNonUnique()
	if raw.IsUnique() {
		t.Error("pinned tensor should not be unique")
	}
	unpin()
	if !raw.IsUnique() {
		t.Error("tensor should be unique after unpin")
	}
}
