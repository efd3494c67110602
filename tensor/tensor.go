// Copyright 2025 Primer ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the public API for tensor operations in the
// Primer ML framework.
//
// Core types:
//   - Tensor[T, B]: generic type-safe tensor over a backend
//   - RawTensor: untyped low-level representation
//   - Backend: interface for compute implementations
//   - Shape, DataType, Device: core definitions
//
// Example:
//
//	backend := cpu.New()
//	x := tensor.Zeros[float32](tensor.Shape{2, 3}, backend)
//	y := tensor.Ones[float32](tensor.Shape{2, 3}, backend)
//	z := x.Add(y)
package tensor

import (
	"github.com/primer-ml/primer/internal/tensor"
)

// DType is the constraint for tensor element types:
// float32, float64, int32, int64.
type DType = tensor.DType

// DataType is the runtime data type of a tensor.
type DataType = tensor.DataType

// Data type constants.
const (
	Float32 DataType = tensor.Float32
	Float64 DataType = tensor.Float64
	Int32   DataType = tensor.Int32
	Int64   DataType = tensor.Int64
)

// Device identifies where tensor data resides.
type Device = tensor.Device

// Device constants. Only CPU is implemented.
const (
	CPU Device = tensor.CPU
	GPU Device = tensor.GPU
)

// Shape represents tensor dimensions, e.g. Shape{2, 3} for a 2×3 matrix.
type Shape = tensor.Shape

// Backend is the interface compute backends implement. See backend/cpu for
// the reference implementation and autodiff for the gradient-recording
// decorator.
type Backend = tensor.Backend

// Tensor is a generic type-safe tensor over element type T and backend B.
//
// Operations dispatch to the backend, so the same model code runs on a
// plain CPU backend for inference and an autodiff-wrapped one for training.
type Tensor[T DType, B Backend] = tensor.Tensor[T, B]

// RawTensor is the untyped low-level tensor: a reference-counted buffer
// plus shape, strides, and runtime type information.
type RawTensor = tensor.RawTensor

// Zeros creates a tensor filled with zeros.
func Zeros[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	return tensor.Zeros[T, B](shape, b)
}

// Ones creates a tensor filled with ones.
func Ones[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	return tensor.Ones[T, B](shape, b)
}

// Full creates a tensor filled with value.
func Full[T DType, B Backend](shape Shape, value T, b B) *Tensor[T, B] {
	return tensor.Full[T, B](shape, value, b)
}

// Randn creates a tensor with samples from the standard normal N(0, 1).
func Randn[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	return tensor.Randn[T, B](shape, b)
}

// Rand creates a tensor with samples from the uniform U(0, 1).
func Rand[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	return tensor.Rand[T, B](shape, b)
}

// Arange creates a 1D tensor with values from start to end (exclusive).
func Arange[T DType, B Backend](start, end T, b B) *Tensor[T, B] {
	return tensor.Arange[T, B](start, end, b)
}

// Eye creates an n×n identity matrix.
func Eye[T DType, B Backend](n int, b B) *Tensor[T, B] {
	return tensor.Eye[T, B](n, b)
}

// FromSlice creates a tensor from a Go slice.
//
//	x, err := tensor.FromSlice([]float32{1, 2, 3, 4}, tensor.Shape{2, 2}, backend)
func FromSlice[T DType, B Backend](data []T, shape Shape, b B) (*Tensor[T, B], error) {
	return tensor.FromSlice[T, B](data, shape, b)
}

// New wraps a RawTensor in a typed Tensor. Low-level; most users should use
// Zeros, Ones, or FromSlice instead.
func New[T DType, B Backend](raw *RawTensor, b B) *Tensor[T, B] {
	return tensor.New[T, B](raw, b)
}

// NewRaw allocates a zero-initialized RawTensor. Low-level.
func NewRaw(shape Shape, dtype DataType, device Device) (*RawTensor, error) {
	return tensor.NewRaw(shape, dtype, device)
}
