package nn

import (
	"math"
	"math/rand"

	"github.com/primer-ml/primer/internal/tensor"
)

// Xavier initializes a tensor with the Glorot uniform distribution:
// uniform on [-limit, limit] with limit = sqrt(6 / (fanIn + fanOut)).
// Keeps activation variance roughly constant across layers.
func Xavier[B tensor.Backend](fanIn, fanOut int, shape tensor.Shape, backend B) *tensor.Tensor[float32, B] {
	limit := float32(math.Sqrt(6.0 / float64(fanIn+fanOut)))

	t := tensor.Zeros[float32](shape, backend)
	data := t.Data()
	for i := range data {
		data[i] = (rand.Float32()*2 - 1) * limit //nolint:gosec // G404: reproducible ML randomness
	}
	return t
}

// Zeros initializes a float32 tensor with zeros.
func Zeros[B tensor.Backend](shape tensor.Shape, backend B) *tensor.Tensor[float32, B] {
	return tensor.Zeros[float32](shape, backend)
}

// Ones initializes a float32 tensor with ones.
func Ones[B tensor.Backend](shape tensor.Shape, backend B) *tensor.Tensor[float32, B] {
	return tensor.Ones[float32](shape, backend)
}

// Randn initializes a float32 tensor with standard normal samples.
func Randn[B tensor.Backend](shape tensor.Shape, backend B) *tensor.Tensor[float32, B] {
	return tensor.Randn[float32](shape, backend)
}
