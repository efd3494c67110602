package cpu

import (
	"fmt"

	"github.com/primer-ml/primer/internal/tensor"
)

// Cast converts the tensor to a different data type, copying the data.
func (cpu *CPUBackend) Cast(x *tensor.RawTensor, dtype tensor.DataType) *tensor.RawTensor {
	result := mustNewRaw("cast", x.Shape(), dtype, cpu.device)

	switch x.DType() {
	case tensor.Float32:
		castSlice(result, x.AsFloat32())
	case tensor.Float64:
		castSlice(result, x.AsFloat64())
	case tensor.Int32:
		castSlice(result, x.AsInt32())
	case tensor.Int64:
		castSlice(result, x.AsInt64())
	default:
		panic(fmt.Sprintf("cast: unsupported source dtype %s", x.DType()))
	}

	return result
}

func castSlice[T number](dst *tensor.RawTensor, src []T) {
	switch dst.DType() {
	case tensor.Float32:
		out := dst.AsFloat32()
		for i, v := range src {
			out[i] = float32(v)
		}
	case tensor.Float64:
		out := dst.AsFloat64()
		for i, v := range src {
			out[i] = float64(v)
		}
	case tensor.Int32:
		out := dst.AsInt32()
		for i, v := range src {
			out[i] = int32(v)
		}
	case tensor.Int64:
		out := dst.AsInt64()
		for i, v := range src {
			out[i] = int64(v)
		}
	default:
		panic(fmt.Sprintf("cast: unsupported target dtype %s", dst.DType()))
	}
}
