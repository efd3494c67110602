package cpu

import (
	"fmt"

	"github.com/primer-ml/primer/internal/tensor"
)

// Sum reduces the whole tensor to a single-element tensor of shape [1].
func (cpu *CPUBackend) Sum(x *tensor.RawTensor) *tensor.RawTensor {
	result := mustNewRaw("sum", tensor.Shape{1}, x.DType(), cpu.device)

	switch x.DType() {
	case tensor.Float32:
		var sum float32
		for _, v := range x.AsFloat32() {
			sum += v
		}
		result.AsFloat32()[0] = sum
	case tensor.Float64:
		var sum float64
		for _, v := range x.AsFloat64() {
			sum += v
		}
		result.AsFloat64()[0] = sum
	case tensor.Int32:
		var sum int32
		for _, v := range x.AsInt32() {
			sum += v
		}
		result.AsInt32()[0] = sum
	case tensor.Int64:
		var sum int64
		for _, v := range x.AsInt64() {
			sum += v
		}
		result.AsInt64()[0] = sum
	default:
		panic(fmt.Sprintf("sum: unsupported dtype %s", x.DType()))
	}

	return result
}

// SumDim sums along a dimension. With keepDim the reduced dimension remains
// with size 1; otherwise it is dropped.
func (cpu *CPUBackend) SumDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	dim = checkDim("sum_dim", x.Shape(), dim)
	result := mustNewRaw("sum_dim", reducedShape(x.Shape(), dim, keepDim), x.DType(), cpu.device)

	switch x.DType() {
	case tensor.Float32:
		sumDimSlice(result.AsFloat32(), x.AsFloat32(), x.Shape(), dim)
	case tensor.Float64:
		sumDimSlice(result.AsFloat64(), x.AsFloat64(), x.Shape(), dim)
	case tensor.Int32:
		sumDimSlice(result.AsInt32(), x.AsInt32(), x.Shape(), dim)
	case tensor.Int64:
		sumDimSlice(result.AsInt64(), x.AsInt64(), x.Shape(), dim)
	default:
		panic(fmt.Sprintf("sum_dim: unsupported dtype %s", x.DType()))
	}

	return result
}

// MeanDim averages along a dimension.
func (cpu *CPUBackend) MeanDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	dim = checkDim("mean_dim", x.Shape(), dim)
	sum := cpu.SumDim(x, dim, keepDim)
	n := x.Shape()[dim]

	switch x.DType() {
	case tensor.Float32:
		data := sum.AsFloat32()
		for i := range data {
			data[i] /= float32(n)
		}
	case tensor.Float64:
		data := sum.AsFloat64()
		for i := range data {
			data[i] /= float64(n)
		}
	default:
		panic(fmt.Sprintf("mean_dim: only supports float32 and float64, got %s", x.DType()))
	}

	return sum
}

// Argmax returns the index of the maximum value along dim as an int32
// tensor. The reduced dimension is dropped. Ties resolve to the first
// maximum.
func (cpu *CPUBackend) Argmax(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	dim = checkDim("argmax", x.Shape(), dim)
	result := mustNewRaw("argmax", reducedShape(x.Shape(), dim, false), tensor.Int32, cpu.device)

	switch x.DType() {
	case tensor.Float32:
		argmaxSlice(result.AsInt32(), x.AsFloat32(), x.Shape(), dim)
	case tensor.Float64:
		argmaxSlice(result.AsInt32(), x.AsFloat64(), x.Shape(), dim)
	case tensor.Int32:
		argmaxSlice(result.AsInt32(), x.AsInt32(), x.Shape(), dim)
	case tensor.Int64:
		argmaxSlice(result.AsInt32(), x.AsInt64(), x.Shape(), dim)
	default:
		panic(fmt.Sprintf("argmax: unsupported dtype %s", x.DType()))
	}

	return result
}

// reducedShape drops or keeps (as 1) the reduced dimension. Reducing the
// only dimension yields shape [1].
func reducedShape(shape tensor.Shape, dim int, keepDim bool) tensor.Shape {
	out := make(tensor.Shape, 0, len(shape))
	for i, d := range shape {
		if i == dim {
			if keepDim {
				out = append(out, 1)
			}
			continue
		}
		out = append(out, d)
	}
	if len(out) == 0 {
		out = tensor.Shape{1}
	}
	return out
}

func sumDimSlice[T number](dst, src []T, shape tensor.Shape, dim int) {
	outer, dimSize, inner := rowIter(shape, dim)

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

func argmaxSlice[T number](dst []int32, src []T, shape tensor.Shape, dim int) {
	outer, dimSize, inner := rowIter(shape, dim)

	for o := 0; o < outer; o++ {
		for in := 0; in < inner; in++ {
			base := o*dimSize*inner + in
			best := src[base]
			bestIdx := int32(0)
			for k := 1; k < dimSize; k++ {
				if v := src[base+k*inner]; v > best {
					best = v
					bestIdx = int32(k)
				}
			}
			dst[o*inner+in] = bestIdx
		}
	}
}
