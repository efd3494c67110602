package ops

import (
	"fmt"

	"github.com/primer-ml/primer/internal/tensor"
)

// reduceBroadcast reduces a gradient to the shape of a forward-pass input
// that was broadcast.
//
// Example:
//
//	forward:  a[3,1] + b[3,4] -> c[3,4]
//	backward: grad_c[3,4] -> grad_a[3,1] (summed along dim 1)
func reduceBroadcast(grad *tensor.RawTensor, targetShape tensor.Shape, backend tensor.Backend) *tensor.RawTensor {
	gradShape := grad.Shape()

	// Clone on the match path so later accumulation cannot alias the
	// original gradient buffer.
	if gradShape.Equal(targetShape) {
		return grad.Clone()
	}

	// Broadcasting aligns from the right: sum away extra leading dims first.
	result := grad
	for len(result.Shape()) > len(targetShape) {
		result = sumAlongDimension(result, 0, false)
	}

	// Then sum dimensions the target holds at size 1.
	for i := 0; i < len(targetShape); i++ {
		if targetShape[i] == 1 && result.Shape()[i] > 1 {
			result = sumAlongDimension(result, i, true)
		}
	}

	if !result.Shape().Equal(targetShape) {
		result = backend.Reshape(result, targetShape)
	}
	return result
}

// sumAlongDimension sums along dim. With keepDim the dimension stays at
// size 1, otherwise it is dropped.
func sumAlongDimension(t *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	shape := t.Shape()
	if dim < 0 || dim >= len(shape) {
		panic(fmt.Sprintf("sumAlongDimension: invalid dimension %d for shape %v", dim, shape))
	}

	outShape := make(tensor.Shape, 0, len(shape))
	for i, d := range shape {
		if i == dim {
			if keepDim {
				outShape = append(outShape, 1)
			}
			continue
		}
		outShape = append(outShape, d)
	}
	if len(outShape) == 0 {
		outShape = tensor.Shape{1}
	}

	result, err := tensor.NewRaw(outShape, t.DType(), t.Device())
	if err != nil {
		panic(fmt.Sprintf("sumAlongDimension: failed to create result: %v", err))
	}

	outer, dimSize, inner := splitAt(shape, dim)

	switch t.DType() {
	case tensor.Float32:
		sumDim(t.AsFloat32(), result.AsFloat32(), outer, dimSize, inner)
	case tensor.Float64:
		sumDim(t.AsFloat64(), result.AsFloat64(), outer, dimSize, inner)
	default:
		panic(fmt.Sprintf("sumAlongDimension: unsupported dtype %s", t.DType()))
	}

	return result
}

func sumDim[T ~float32 | ~float64](src, dst []T, outer, dimSize, inner int) {
	for o := 0; o < outer; o++ {
		for in := 0; in < inner; in++ {
			base := o*dimSize*inner + in
			var sum T
			for k := 0; k < dimSize; k++ {
				sum += src[base+k*inner]
			}
			dst[o*inner+in] = sum
		}
	}
}

// splitAt decomposes a shape around dim into (outer, dimSize, inner) so that
// flat index = o*dimSize*inner + k*inner + i.
func splitAt(shape tensor.Shape, dim int) (outer, dimSize, inner int) {
	outer, inner = 1, 1
	for i := 0; i < dim; i++ {
		outer *= shape[i]
	}
	for i := dim + 1; i < len(shape); i++ {
		inner *= shape[i]
	}
	return outer, shape[dim], inner
}

// negateGradient returns -grad.
func negateGradient(grad *tensor.RawTensor, backend tensor.Backend) *tensor.RawTensor {
	return backend.MulScalar(grad, -1)
}

// newGradLike allocates a zeroed gradient tensor matching t's shape and type.
func newGradLike(t *tensor.RawTensor) *tensor.RawTensor {
	grad, err := tensor.NewRaw(t.Shape(), t.DType(), t.Device())
	if err != nil {
		panic(fmt.Sprintf("autodiff: failed to create gradient: %v", err))
	}
	return grad
}
