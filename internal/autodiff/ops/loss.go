package ops

import (
	"fmt"
	"math"

	"github.com/primer-ml/primer/internal/tensor"
)

// NLLLossOp records the negative log-likelihood loss with mean reduction:
//
//	loss = -1/N * Σ_n logProbs[n, targets[n]]
//
// The input is expected to hold log-probabilities (typically log-softmax
// output); targets hold integer class indices.
//
// Backward: grad_logProbs[n, c] = -outputGrad/N when c == targets[n],
// zero elsewhere.
type NLLLossOp struct {
	logProbs *tensor.RawTensor // [batch, classes]
	targets  *tensor.RawTensor // [batch], integer dtype
	output   *tensor.RawTensor // [1]
}

// NewNLLLossOp creates a new NLLLossOp.
func NewNLLLossOp(logProbs, targets, output *tensor.RawTensor) *NLLLossOp {
	return &NLLLossOp{logProbs: logProbs, targets: targets, output: output}
}

// Backward scatters -outputGrad/N at each target index.
func (op *NLLLossOp) Backward(outputGrad *tensor.RawTensor, _ tensor.Backend) []*tensor.RawTensor {
	shape := op.logProbs.Shape()
	batch, classes := shape[0], shape[1]
	grad := newGradLike(op.logProbs)

	switch op.logProbs.DType() {
	case tensor.Float32:
		g := outputGrad.AsFloat32()[0]
		out := grad.AsFloat32()
		for n := 0; n < batch; n++ {
			out[n*classes+targetIndex(op.targets, n)] = -g / float32(batch)
		}
	case tensor.Float64:
		g := outputGrad.AsFloat64()[0]
		out := grad.AsFloat64()
		for n := 0; n < batch; n++ {
			out[n*classes+targetIndex(op.targets, n)] = -g / float64(batch)
		}
	default:
		panic(fmt.Sprintf("NLLLossOp: backward only supports float types, got %s", op.logProbs.DType()))
	}

	// No gradient flows to the integer targets.
	return []*tensor.RawTensor{grad, nil}
}

// Inputs returns the input tensors [logProbs, targets].
func (op *NLLLossOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.logProbs, op.targets}
}

// Output returns the loss tensor.
func (op *NLLLossOp) Output() *tensor.RawTensor {
	return op.output
}

// CrossEntropyOp records softmax cross-entropy from raw logits with mean
// reduction. Equivalent to LogSoftmax followed by NLLLoss, fused:
//
//	loss = 1/N * Σ_n (logsumexp(x[n,:]) - x[n, targets[n]])
//
// Backward: grad_logits[n, c] = outputGrad * (softmax[n, c] - 1{c == targets[n]}) / N.
type CrossEntropyOp struct {
	logits  *tensor.RawTensor // [batch, classes]
	targets *tensor.RawTensor // [batch], integer dtype
	output  *tensor.RawTensor // [1]
}

// NewCrossEntropyOp creates a new CrossEntropyOp.
func NewCrossEntropyOp(logits, targets, output *tensor.RawTensor) *CrossEntropyOp {
	return &CrossEntropyOp{logits: logits, targets: targets, output: output}
}

// Backward computes (softmax - one-hot)/batch scaled by the output gradient.
func (op *CrossEntropyOp) Backward(outputGrad *tensor.RawTensor, _ tensor.Backend) []*tensor.RawTensor {
	shape := op.logits.Shape()
	batch, classes := shape[0], shape[1]
	grad := newGradLike(op.logits)

	switch op.logits.DType() {
	case tensor.Float32:
		crossEntropyBackward(grad.AsFloat32(), op.logits.AsFloat32(), op.targets,
			float32(outputGrad.AsFloat32()[0]), batch, classes)
	case tensor.Float64:
		crossEntropyBackward(grad.AsFloat64(), op.logits.AsFloat64(), op.targets,
			outputGrad.AsFloat64()[0], batch, classes)
	default:
		panic(fmt.Sprintf("CrossEntropyOp: backward only supports float types, got %s", op.logits.DType()))
	}

	return []*tensor.RawTensor{grad, nil}
}

// Inputs returns the input tensors [logits, targets].
func (op *CrossEntropyOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.logits, op.targets}
}

// Output returns the loss tensor.
func (op *CrossEntropyOp) Output() *tensor.RawTensor {
	return op.output
}

func crossEntropyBackward[T ~float32 | ~float64](dst, logits []T, targets *tensor.RawTensor, g T, batch, classes int) {
	for n := 0; n < batch; n++ {
		row := logits[n*classes : (n+1)*classes]

		maxVal := row[0]
		for _, v := range row[1:] {
			if v > maxVal {
				maxVal = v
			}
		}
		var sum float64
		for _, v := range row {
			sum += math.Exp(float64(v - maxVal))
		}

		target := targetIndex(targets, n)
		for c := 0; c < classes; c++ {
			softmax := T(math.Exp(float64(row[c]-maxVal)) / sum)
			if c == target {
				softmax -= 1
			}
			dst[n*classes+c] = g * softmax / T(batch)
		}
	}
}

// NLLLossForward computes the mean negative log-likelihood of the targets
// under the given log-probabilities. Returns a [1] tensor.
func NLLLossForward(logProbs, targets *tensor.RawTensor) *tensor.RawTensor {
	batch, classes := checkLossShapes("nll_loss", logProbs, targets)

	output, err := tensor.NewRaw(tensor.Shape{1}, logProbs.DType(), logProbs.Device())
	if err != nil {
		panic(fmt.Sprintf("nll_loss: %v", err))
	}

	switch logProbs.DType() {
	case tensor.Float32:
		data := logProbs.AsFloat32()
		var sum float64
		for n := 0; n < batch; n++ {
			sum += float64(data[n*classes+targetIndex(targets, n)])
		}
		output.AsFloat32()[0] = float32(-sum / float64(batch))
	case tensor.Float64:
		data := logProbs.AsFloat64()
		var sum float64
		for n := 0; n < batch; n++ {
			sum += data[n*classes+targetIndex(targets, n)]
		}
		output.AsFloat64()[0] = -sum / float64(batch)
	default:
		panic(fmt.Sprintf("nll_loss: unsupported dtype %s", logProbs.DType()))
	}

	return output
}

// CrossEntropyForward computes mean softmax cross-entropy from raw logits
// via log-sum-exp. Returns a [1] tensor.
func CrossEntropyForward(logits, targets *tensor.RawTensor) *tensor.RawTensor {
	batch, classes := checkLossShapes("cross_entropy", logits, targets)

	output, err := tensor.NewRaw(tensor.Shape{1}, logits.DType(), logits.Device())
	if err != nil {
		panic(fmt.Sprintf("cross_entropy: %v", err))
	}

	switch logits.DType() {
	case tensor.Float32:
		output.AsFloat32()[0] = float32(crossEntropyMean(logits.AsFloat32(), targets, batch, classes))
	case tensor.Float64:
		output.AsFloat64()[0] = crossEntropyMean(logits.AsFloat64(), targets, batch, classes)
	default:
		panic(fmt.Sprintf("cross_entropy: unsupported dtype %s", logits.DType()))
	}

	return output
}

func crossEntropyMean[T ~float32 | ~float64](logits []T, targets *tensor.RawTensor, batch, classes int) float64 {
	var total float64
	for n := 0; n < batch; n++ {
		row := logits[n*classes : (n+1)*classes]

		maxVal := row[0]
		for _, v := range row[1:] {
			if v > maxVal {
				maxVal = v
			}
		}
		var sum float64
		for _, v := range row {
			sum += math.Exp(float64(v - maxVal))
		}
		lse := float64(maxVal) + math.Log(sum)
		total += lse - float64(row[targetIndex(targets, n)])
	}
	return total / float64(batch)
}

func checkLossShapes(op string, input, targets *tensor.RawTensor) (batch, classes int) {
	shape := input.Shape()
	if len(shape) != 2 {
		panic(fmt.Sprintf("%s: expected 2D input [batch, classes], got %v", op, shape))
	}
	tShape := targets.Shape()
	if len(tShape) != 1 || tShape[0] != shape[0] {
		panic(fmt.Sprintf("%s: expected targets of shape [%d], got %v", op, shape[0], tShape))
	}
	return shape[0], shape[1]
}

// targetIndex reads the n-th class index from an integer target tensor.
func targetIndex(targets *tensor.RawTensor, n int) int {
	switch targets.DType() {
	case tensor.Int32:
		return int(targets.AsInt32()[n])
	case tensor.Int64:
		return int(targets.AsInt64()[n])
	default:
		panic(fmt.Sprintf("loss: targets must be int32 or int64, got %s", targets.DType()))
	}
}
