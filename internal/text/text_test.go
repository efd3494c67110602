package text_test

import (
	"testing"

	"github.com/primer-ml/primer/internal/backend/cpu"
	"github.com/primer-ml/primer/internal/tensor"
	"github.com/primer-ml/primer/internal/text"
)

// TestVocabulary_StableIndices verifies first-seen ordering and idempotent
// adds: repeated words keep their original index.
func TestVocabulary_StableIndices(t *testing.T) {
	vocab := text.NewVocabulary()

	if got := vocab.Add("me"); got != 0 {
		t.Errorf("Add(me) = %d, want 0", got)
	}
	if got := vocab.Add("gusta"); got != 1 {
		t.Errorf("Add(gusta) = %d, want 1", got)
	}
	if got := vocab.Add("me"); got != 0 {
		t.Errorf("repeated Add(me) = %d, want 0", got)
	}

	if vocab.Len() != 2 {
		t.Errorf("Len() = %d, want 2", vocab.Len())
	}
	if got := vocab.Index("gusta"); got != 1 {
		t.Errorf("Index(gusta) = %d, want 1", got)
	}
	if got := vocab.Index("unknown"); got != -1 {
		t.Errorf("Index(unknown) = %d, want -1", got)
	}
	if vocab.Word(0) != "me" || vocab.Word(1) != "gusta" {
		t.Errorf("Words() = %v", vocab.Words())
	}
}

// TestVocabulary_AddAll tests bulk insertion across sentences.
func TestVocabulary_AddAll(t *testing.T) {
	vocab := text.NewVocabulary()
	vocab.AddAll(
		[]string{"me", "gusta", "comer"},
		[]string{"Give", "it", "to", "me"},
	)

	if vocab.Len() != 6 {
		t.Errorf("Len() = %d, want 6", vocab.Len())
	}
	// "me" was seen first, so the second sentence must not move it.
	if got := vocab.Index("me"); got != 0 {
		t.Errorf("Index(me) = %d, want 0", got)
	}
	if got := vocab.Index("Give"); got != 3 {
		t.Errorf("Index(Give) = %d, want 3", got)
	}
}

// TestVectorizer_Counts tests bag-of-words counting and OOV handling.
func TestVectorizer_Counts(t *testing.T) {
	vocab := text.NewVocabulary()
	vocab.AddAll([]string{"a", "b", "c"})
	v := text.NewVectorizer(vocab)

	counts := v.Counts([]string{"a", "b", "a", "a", "zzz"})
	want := []float32{3, 1, 0}
	for i := range want {
		if counts[i] != want[i] {
			t.Errorf("Counts = %v, want %v", counts, want)
			break
		}
	}
}

// TestVector tests the single-example tensor shape and values.
func TestVector(t *testing.T) {
	backend := cpu.New()
	vocab := text.NewVocabulary()
	vocab.AddAll([]string{"a", "b", "c"})
	v := text.NewVectorizer(vocab)

	bow := text.Vector(v, []string{"c", "c", "a"}, backend)
	if !bow.Shape().Equal(tensor.Shape{1, 3}) {
		t.Fatalf("shape = %v, want [1 3]", bow.Shape())
	}
	want := []float32{1, 0, 2}
	for i, got := range bow.Data() {
		if got != want[i] {
			t.Errorf("Vector = %v, want %v", bow.Data(), want)
			break
		}
	}
}

// TestBatch tests stacking several sentences.
func TestBatch(t *testing.T) {
	backend := cpu.New()
	vocab := text.NewVocabulary()
	vocab.AddAll([]string{"a", "b"})
	v := text.NewVectorizer(vocab)

	batch := text.Batch(v, [][]string{
		{"a"},
		{"b", "b"},
	}, backend)

	if !batch.Shape().Equal(tensor.Shape{2, 2}) {
		t.Fatalf("shape = %v, want [2 2]", batch.Shape())
	}
	want := []float32{1, 0, 0, 2}
	for i, got := range batch.Data() {
		if got != want[i] {
			t.Errorf("Batch = %v, want %v", batch.Data(), want)
			break
		}
	}
}

// TestLabelIndex tests label-to-class mapping and target tensors.
func TestLabelIndex(t *testing.T) {
	backend := cpu.New()
	labels := text.NewLabelIndex("SPANISH", "ENGLISH")

	if labels.Index("SPANISH") != 0 || labels.Index("ENGLISH") != 1 {
		t.Errorf("class indices = %d, %d, want 0, 1",
			labels.Index("SPANISH"), labels.Index("ENGLISH"))
	}
	if labels.Label(1) != "ENGLISH" {
		t.Errorf("Label(1) = %q, want ENGLISH", labels.Label(1))
	}

	examples := []text.Example{
		{Tokens: []string{"hola"}, Label: "SPANISH"},
		{Tokens: []string{"hello"}, Label: "ENGLISH"},
	}
	targets := text.Targets(labels, examples, backend)

	if !targets.Shape().Equal(tensor.Shape{2}) {
		t.Fatalf("shape = %v, want [2]", targets.Shape())
	}
	data := targets.Data()
	if data[0] != 0 || data[1] != 1 {
		t.Errorf("Targets = %v, want [0 1]", data)
	}

	single := text.Target(labels, "ENGLISH", backend)
	if single.Item() != 1 {
		t.Errorf("Target = %d, want 1", single.Item())
	}
}
