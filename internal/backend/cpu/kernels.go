package cpu

import (
	"fmt"

	"github.com/primer-ml/primer/internal/tensor"
)

// number mirrors the tensor.DType constraint for kernel code.
type number interface {
	~float32 | ~float64 | ~int32 | ~int64
}

type binaryOp int

const (
	opAdd binaryOp = iota
	opSub
	opMul
	opDiv
)

// applyBinary runs a same-shape element-wise kernel. dst may alias a for
// inplace updates.
func applyBinary(op binaryOp, dst, a, b *tensor.RawTensor) {
	switch dst.DType() {
	case tensor.Float32:
		binarySlice(op, dst.AsFloat32(), a.AsFloat32(), b.AsFloat32())
	case tensor.Float64:
		binarySlice(op, dst.AsFloat64(), a.AsFloat64(), b.AsFloat64())
	case tensor.Int32:
		binarySlice(op, dst.AsInt32(), a.AsInt32(), b.AsInt32())
	case tensor.Int64:
		binarySlice(op, dst.AsInt64(), a.AsInt64(), b.AsInt64())
	default:
		panic(fmt.Sprintf("binary op: unsupported dtype %s", dst.DType()))
	}
}

func binarySlice[T number](op binaryOp, dst, a, b []T) {
	switch op {
	case opAdd:
		for i := range dst {
			dst[i] = a[i] + b[i]
		}
	case opSub:
		for i := range dst {
			dst[i] = a[i] - b[i]
		}
	case opMul:
		for i := range dst {
			dst[i] = a[i] * b[i]
		}
	case opDiv:
		for i := range dst {
			dst[i] = a[i] / b[i]
		}
	}
}

// applyBinaryBroadcast runs an element-wise kernel over broadcast inputs.
func applyBinaryBroadcast(op binaryOp, dst, a, b *tensor.RawTensor) {
	outShape := dst.Shape()
	aStrides := broadcastStrides(a.Shape(), outShape)
	bStrides := broadcastStrides(b.Shape(), outShape)

	switch dst.DType() {
	case tensor.Float32:
		binaryBroadcastSlice(op, dst.AsFloat32(), a.AsFloat32(), b.AsFloat32(), outShape, aStrides, bStrides)
	case tensor.Float64:
		binaryBroadcastSlice(op, dst.AsFloat64(), a.AsFloat64(), b.AsFloat64(), outShape, aStrides, bStrides)
	case tensor.Int32:
		binaryBroadcastSlice(op, dst.AsInt32(), a.AsInt32(), b.AsInt32(), outShape, aStrides, bStrides)
	case tensor.Int64:
		binaryBroadcastSlice(op, dst.AsInt64(), a.AsInt64(), b.AsInt64(), outShape, aStrides, bStrides)
	default:
		panic(fmt.Sprintf("binary op: unsupported dtype %s", dst.DType()))
	}
}

func binaryBroadcastSlice[T number](op binaryOp, dst, a, b []T, outShape tensor.Shape, aStrides, bStrides []int) {
	outStrides := outShape.ComputeStrides()

	for i := range dst {
		rem := i
		aOff, bOff := 0, 0
		for d := 0; d < len(outShape); d++ {
			c := rem / outStrides[d]
			rem %= outStrides[d]
			aOff += c * aStrides[d]
			bOff += c * bStrides[d]
		}

		switch op {
		case opAdd:
			dst[i] = a[aOff] + b[bOff]
		case opSub:
			dst[i] = a[aOff] - b[bOff]
		case opMul:
			dst[i] = a[aOff] * b[bOff]
		case opDiv:
			dst[i] = a[aOff] / b[bOff]
		}
	}
}

// broadcastStrides aligns a shape's strides to an output shape, with stride 0
// on broadcast dimensions so every walk of that dimension reads one element.
func broadcastStrides(shape, outShape tensor.Shape) []int {
	strides := shape.ComputeStrides()
	result := make([]int, len(outShape))
	offset := len(outShape) - len(shape)

	for i := range outShape {
		j := i - offset
		if j < 0 || shape[j] == 1 {
			result[i] = 0
		} else {
			result[i] = strides[j]
		}
	}
	return result
}

// applyTranspose copies t into dst following the axes permutation:
// dst coordinate i walks source axis axes[i].
func applyTranspose(dst, t *tensor.RawTensor, axes []int) {
	switch dst.DType() {
	case tensor.Float32:
		transposeSlice(dst.AsFloat32(), t.AsFloat32(), dst.Shape(), t.Strides(), axes)
	case tensor.Float64:
		transposeSlice(dst.AsFloat64(), t.AsFloat64(), dst.Shape(), t.Strides(), axes)
	case tensor.Int32:
		transposeSlice(dst.AsInt32(), t.AsInt32(), dst.Shape(), t.Strides(), axes)
	case tensor.Int64:
		transposeSlice(dst.AsInt64(), t.AsInt64(), dst.Shape(), t.Strides(), axes)
	default:
		panic(fmt.Sprintf("transpose: unsupported dtype %s", dst.DType()))
	}
}

func transposeSlice[T number](dst, src []T, outShape tensor.Shape, srcStrides []int, axes []int) {
	outStrides := outShape.ComputeStrides()

	for i := range dst {
		rem := i
		srcOff := 0
		for d := 0; d < len(outShape); d++ {
			c := rem / outStrides[d]
			rem %= outStrides[d]
			srcOff += c * srcStrides[axes[d]]
		}
		dst[i] = src[srcOff]
	}
}
