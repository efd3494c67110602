package text

import (
	"fmt"

	"github.com/primer-ml/primer/internal/tensor"
)

// Example is one labeled training or test sentence.
type Example struct {
	Tokens []string
	Label  string
}

// LabelIndex maps label names to class indices in first-seen order.
type LabelIndex struct {
	index  map[string]int
	labels []string
}

// NewLabelIndex creates a LabelIndex from labels in the given order.
func NewLabelIndex(labels ...string) *LabelIndex {
	li := &LabelIndex{index: make(map[string]int)}
	for _, label := range labels {
		li.Add(label)
	}
	return li
}

// Add inserts a label if unseen and returns its class index.
func (li *LabelIndex) Add(label string) int {
	if i, ok := li.index[label]; ok {
		return i
	}
	i := len(li.labels)
	li.index[label] = i
	li.labels = append(li.labels, label)
	return i
}

// Index returns the label's class index, or -1 if unknown.
func (li *LabelIndex) Index(label string) int {
	if i, ok := li.index[label]; ok {
		return i
	}
	return -1
}

// Label returns the label name for a class index.
func (li *LabelIndex) Label(i int) string {
	return li.labels[i]
}

// Len returns the number of classes.
func (li *LabelIndex) Len() int {
	return len(li.labels)
}

// Targets converts example labels into a [batch] int64 class tensor.
func Targets[B tensor.Backend](li *LabelIndex, examples []Example, backend B) *tensor.Tensor[int64, B] {
	targets := make([]int64, len(examples))
	for n, ex := range examples {
		i := li.Index(ex.Label)
		if i < 0 {
			panic(fmt.Sprintf("unknown label %q", ex.Label))
		}
		targets[n] = int64(i)
	}

	t, err := tensor.FromSlice(targets, tensor.Shape{len(examples)}, backend)
	if err != nil {
		panic(err)
	}
	return t
}

// Target converts a single label into a [1] int64 class tensor.
func Target[B tensor.Backend](li *LabelIndex, label string, backend B) *tensor.Tensor[int64, B] {
	i := li.Index(label)
	if i < 0 {
		panic(fmt.Sprintf("unknown label %q", label))
	}

	t, err := tensor.FromSlice([]int64{int64(i)}, tensor.Shape{1}, backend)
	if err != nil {
		panic(err)
	}
	return t
}
