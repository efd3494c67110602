// Copyright 2025 Primer ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package autodiff provides reverse-mode automatic differentiation.
//
// It wraps any backend in a decorator that records operations on a gradient
// tape; Backward replays the tape in reverse to produce gradients.
//
// Example:
//
//	base := cpu.New()
//	backend := autodiff.New(base)
//
//	backend.Tape().StartRecording()
//	loss := model.Forward(x) // operations recorded
//	grads := autodiff.Backward(loss, backend)
//	backend.Tape().StopRecording()
package autodiff

import (
	"github.com/primer-ml/primer/internal/autodiff"
	"github.com/primer-ml/primer/internal/tensor"
)

// Backend is the gradient-recording decorator over an inner backend.
type Backend[B tensor.Backend] = autodiff.AutodiffBackend[B]

// New wraps a backend with gradient recording.
func New[B tensor.Backend](backend B) *Backend[B] {
	return autodiff.New(backend)
}

// GradientTape records operations for the backward pass.
type GradientTape = autodiff.GradientTape

// NewGradientTape creates an empty gradient tape.
func NewGradientTape() *GradientTape {
	return autodiff.NewGradientTape()
}

// BackwardCapable is implemented by backends that expose a gradient tape.
type BackwardCapable = autodiff.BackwardCapable

// Backward computes the gradient of t with respect to every tensor on the
// tape, seeding dL/dt with ones. Returns a map from each input RawTensor to
// its gradient.
func Backward[T tensor.DType, B BackwardCapable](t *tensor.Tensor[T, B], backend B) map[*tensor.RawTensor]*tensor.RawTensor {
	return autodiff.Backward(t, backend)
}
