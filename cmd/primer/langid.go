package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/primer-ml/primer/autodiff"
	"github.com/primer-ml/primer/backend/cpu"
	"github.com/primer-ml/primer/nn"
	"github.com/primer-ml/primer/optim"
	"github.com/primer-ml/primer/text"
	"github.com/primer-ml/primer/tokenizer"
)

type langBackend = *autodiff.Backend[*cpu.Backend]

// runLangID trains a tiny English/Spanish bag-of-words classifier on a
// built-in corpus and scores two held-out sentences.
func runLangID(args []string) {
	fs := flag.NewFlagSet("langid", flag.ExitOnError)
	epochs := fs.Int("epochs", 100, "training epochs")
	lr := fs.Float64("lr", 0.1, "learning rate")
	if err := fs.Parse(args); err != nil {
		os.Exit(2)
	}

	train := []text.Example{
		{Label: "SPANISH"}, {Label: "ENGLISH"}, {Label: "SPANISH"}, {Label: "ENGLISH"},
	}
	trainText := []string{
		"me gusta comer en la cafeteria",
		"Give it to me",
		"No creo que sea una buena idea",
		"No it is not a good idea to get lost at sea",
	}
	testText := []string{"Yo creo que si", "it is lost on me"}
	testLabels := []string{"SPANISH", "ENGLISH"}

	tok := tokenizer.NewWhitespace(false)
	vocab := text.NewVocabulary()
	labels := text.NewLabelIndex("SPANISH", "ENGLISH")

	for i := range train {
		train[i].Tokens = tok.Tokenize(trainText[i])
		vocab.AddAll(train[i].Tokens)
	}
	testTokens := make([][]string, len(testText))
	for i, s := range testText {
		testTokens[i] = tok.Tokenize(s)
		vocab.AddAll(testTokens[i])
	}

	backend := autodiff.New(cpu.New())
	vectorizer := text.NewVectorizer(vocab)

	model := nn.NewSequential[langBackend](
		nn.NewLinear(vocab.Len(), labels.Len(), backend),
		nn.NewLogSoftmax[langBackend](1),
	)
	lossFn := nn.NewNLLLoss[langBackend]()
	optimizer := optim.NewSGD(model.Parameters(), optim.SGDConfig{LR: float32(*lr)})

	fmt.Printf("Training on %d sentences, vocabulary %d words, %d epochs\n",
		len(train), vocab.Len(), *epochs)

	for epoch := 0; epoch < *epochs; epoch++ {
		var epochLoss float32

		for _, ex := range train {
			backend.Tape().Clear()
			backend.Tape().StartRecording()

			bow := text.Vector(vectorizer, ex.Tokens, backend)
			target := text.Target(labels, ex.Label, backend)

			loss := lossFn.Forward(model.Forward(bow), target)
			grads := autodiff.Backward(loss, backend)
			backend.Tape().StopRecording()

			optimizer.Step(grads)
			optimizer.ZeroGrad()
			epochLoss += loss.Item()
		}

		if (epoch+1)%20 == 0 {
			fmt.Printf("epoch %3d  loss %.4f\n", epoch+1, epochLoss/float32(len(train)))
		}
	}
	backend.Tape().Clear()

	fmt.Println("\nHeld-out sentences:")
	for i, tokens := range testTokens {
		bow := text.Vector(vectorizer, tokens, backend)
		logProbs := model.Forward(bow)

		pred := labels.Label(int(logProbs.Argmax(1).Item()))
		fmt.Printf("  %-30s -> %s (want %s)\n", testText[i], pred, testLabels[i])
	}
}
