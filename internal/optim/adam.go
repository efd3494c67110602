package optim

import (
	"fmt"
	"math"

	"github.com/primer-ml/primer/internal/nn"
	"github.com/primer-ml/primer/internal/tensor"
)

// Adam is the Adam optimizer (adaptive moment estimation).
//
// Per-element update at step t:
//
//	m = beta1*m + (1-beta1)*grad
//	v = beta2*v + (1-beta2)*grad²
//	mHat = m / (1 - beta1^t)
//	vHat = v / (1 - beta2^t)
//	param -= lr * mHat / (sqrt(vHat) + eps)
type Adam[B tensor.Backend] struct {
	params  []*nn.Parameter[B]
	lr      float32
	beta1   float32
	beta2   float32
	epsilon float32
	step    int

	moments1 map[*nn.Parameter[B]][]float32 // first moment (mean of grads)
	moments2 map[*nn.Parameter[B]][]float32 // second moment (mean of grad²)
}

// AdamConfig holds Adam settings. Zero values take the usual defaults:
// LR 0.001, Beta1 0.9, Beta2 0.999, Epsilon 1e-8.
type AdamConfig struct {
	LR      float32
	Beta1   float32
	Beta2   float32
	Epsilon float32
}

// NewAdam creates an Adam optimizer over the given parameters.
func NewAdam[B tensor.Backend](params []*nn.Parameter[B], config AdamConfig) *Adam[B] {
	if config.LR == 0 {
		config.LR = 0.001
	}
	if config.Beta1 == 0 {
		config.Beta1 = 0.9
	}
	if config.Beta2 == 0 {
		config.Beta2 = 0.999
	}
	if config.Epsilon == 0 {
		config.Epsilon = 1e-8
	}

	return &Adam[B]{
		params:   params,
		lr:       config.LR,
		beta1:    config.Beta1,
		beta2:    config.Beta2,
		epsilon:  config.Epsilon,
		moments1: make(map[*nn.Parameter[B]][]float32),
		moments2: make(map[*nn.Parameter[B]][]float32),
	}
}

// Step applies one Adam update in place.
func (a *Adam[B]) Step(grads map[*tensor.RawTensor]*tensor.RawTensor) {
	a.step++

	// Bias correction for the zero-initialized moments.
	correction1 := 1 - float32(math.Pow(float64(a.beta1), float64(a.step)))
	correction2 := 1 - float32(math.Pow(float64(a.beta2), float64(a.step)))

	for _, param := range a.params {
		grad := gradientFor(param, grads)
		if grad == nil {
			continue
		}

		data := param.Tensor().Data()
		if len(grad) != len(data) {
			panic(fmt.Sprintf("Adam.Step: gradient has %d elements, parameter %q has %d",
				len(grad), param.Name(), len(data)))
		}

		m1, ok := a.moments1[param]
		if !ok {
			m1 = make([]float32, len(data))
			a.moments1[param] = m1
		}
		m2, ok := a.moments2[param]
		if !ok {
			m2 = make([]float32, len(data))
			a.moments2[param] = m2
		}

		for i := range data {
			g := grad[i]
			m1[i] = a.beta1*m1[i] + (1-a.beta1)*g
			m2[i] = a.beta2*m2[i] + (1-a.beta2)*g*g

			mHat := m1[i] / correction1
			vHat := m2[i] / correction2
			data[i] -= a.lr * mHat / (float32(math.Sqrt(float64(vHat))) + a.epsilon)
		}
	}
}

// ZeroGrad clears gradients on all parameters.
func (a *Adam[B]) ZeroGrad() {
	for _, param := range a.params {
		param.ZeroGrad()
	}
}

// GetLR returns the current learning rate.
func (a *Adam[B]) GetLR() float32 {
	return a.lr
}

// SetLR updates the learning rate, for schedulers.
func (a *Adam[B]) SetLR(lr float32) {
	a.lr = lr
}

// StateDict exports moment buffers keyed "m1.{index}" and "m2.{index}".
// The step counter is not exported; bias correction restarts on load.
func (a *Adam[B]) StateDict() map[string]*tensor.RawTensor {
	stateDict := make(map[string]*tensor.RawTensor)
	for i, param := range a.params {
		if m1, ok := a.moments1[param]; ok {
			raw, err := tensor.NewRawFromFloat32(m1, param.Tensor().Shape())
			if err != nil {
				panic(err)
			}
			stateDict[fmt.Sprintf("m1.%d", i)] = raw
		}
		if m2, ok := a.moments2[param]; ok {
			raw, err := tensor.NewRawFromFloat32(m2, param.Tensor().Shape())
			if err != nil {
				panic(err)
			}
			stateDict[fmt.Sprintf("m2.%d", i)] = raw
		}
	}
	return stateDict
}

// LoadStateDict restores moment buffers exported by StateDict.
func (a *Adam[B]) LoadStateDict(stateDict map[string]*tensor.RawTensor) error {
	a.moments1 = make(map[*nn.Parameter[B]][]float32)
	a.moments2 = make(map[*nn.Parameter[B]][]float32)

	for i, param := range a.params {
		for _, entry := range []struct {
			key  string
			dst  map[*nn.Parameter[B]][]float32
			name string
		}{
			{fmt.Sprintf("m1.%d", i), a.moments1, "first moment"},
			{fmt.Sprintf("m2.%d", i), a.moments2, "second moment"},
		} {
			raw, ok := stateDict[entry.key]
			if !ok {
				continue
			}
			if !raw.Shape().Equal(param.Tensor().Shape()) {
				return fmt.Errorf("%s shape mismatch for parameter %d: expected %v, got %v",
					entry.name, i, param.Tensor().Shape(), raw.Shape())
			}
			buf := make([]float32, len(raw.AsFloat32()))
			copy(buf, raw.AsFloat32())
			entry.dst[param] = buf
		}
	}
	return nil
}
