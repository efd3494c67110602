package cpu

import (
	"fmt"

	"github.com/primer-ml/primer/internal/tensor"
)

// MulScalar multiplies every element by a scalar.
func (cpu *CPUBackend) MulScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	return cpu.scalarOp("mul_scalar", opMul, x, scalar)
}

// AddScalar adds a scalar to every element.
func (cpu *CPUBackend) AddScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	return cpu.scalarOp("add_scalar", opAdd, x, scalar)
}

// SubScalar subtracts a scalar from every element.
func (cpu *CPUBackend) SubScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	return cpu.scalarOp("sub_scalar", opSub, x, scalar)
}

// DivScalar divides every element by a scalar.
func (cpu *CPUBackend) DivScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	return cpu.scalarOp("div_scalar", opDiv, x, scalar)
}

func (cpu *CPUBackend) scalarOp(name string, op binaryOp, x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	result := mustNewRaw(name, x.Shape(), x.DType(), cpu.device)

	switch x.DType() {
	case tensor.Float32:
		scalarSlice(op, result.AsFloat32(), x.AsFloat32(), float32(scalarToFloat64(name, scalar)))
	case tensor.Float64:
		scalarSlice(op, result.AsFloat64(), x.AsFloat64(), scalarToFloat64(name, scalar))
	case tensor.Int32:
		scalarSlice(op, result.AsInt32(), x.AsInt32(), int32(scalarToInt64(name, scalar)))
	case tensor.Int64:
		scalarSlice(op, result.AsInt64(), x.AsInt64(), scalarToInt64(name, scalar))
	default:
		panic(fmt.Sprintf("%s: unsupported dtype %s", name, x.DType()))
	}

	return result
}

func scalarSlice[T number](op binaryOp, dst, src []T, v T) {
	switch op {
	case opAdd:
		for i := range dst {
			dst[i] = src[i] + v
		}
	case opSub:
		for i := range dst {
			dst[i] = src[i] - v
		}
	case opMul:
		for i := range dst {
			dst[i] = src[i] * v
		}
	case opDiv:
		for i := range dst {
			dst[i] = src[i] / v
		}
	}
}

func scalarToFloat64(op string, scalar any) float64 {
	switch v := scalar.(type) {
	case float32:
		return float64(v)
	case float64:
		return v
	case int:
		return float64(v)
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	default:
		panic(fmt.Sprintf("%s: unsupported scalar type %T", op, scalar))
	}
}

func scalarToInt64(op string, scalar any) int64 {
	switch v := scalar.(type) {
	case int:
		return int64(v)
	case int32:
		return int64(v)
	case int64:
		return v
	case float32:
		return int64(v)
	case float64:
		return int64(v)
	default:
		panic(fmt.Sprintf("%s: unsupported scalar type %T", op, scalar))
	}
}
