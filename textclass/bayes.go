package textclass

import (
	"fmt"
	"math"
	"strings"

	"github.com/room4-2/tablemate/dataset"
)

// BayesClassifier is a multinomial naive Bayes classifier over a bag-of-words
// model of the training utterances, with Laplace smoothing. It fills the role
// the decision tree and neural network played in earlier iterations of this
// assistant, without dragging in an ML toolkit.
type BayesClassifier struct {
	vocab       map[string]struct{}
	wordCounts  map[Intent]map[string]int
	totalWords  map[Intent]int
	classCounts map[Intent]int
	trained     int
}

// NewBayesClassifier creates an untrained classifier.
func NewBayesClassifier() *BayesClassifier {
	return &BayesClassifier{
		vocab:       make(map[string]struct{}),
		wordCounts:  make(map[Intent]map[string]int),
		totalWords:  make(map[Intent]int),
		classCounts: make(map[Intent]int),
	}
}

// Initialize builds word counts per intent from the labeled utterances.
func (bc *BayesClassifier) Initialize(data []dataset.LabeledUtterance) error {
	if len(data) == 0 {
		return fmt.Errorf("bayes classifier needs training data")
	}

	for _, d := range data {
		intent, ok := ParseIntent(d.Label)
		if !ok {
			continue
		}
		bc.classCounts[intent]++
		counts := bc.wordCounts[intent]
		if counts == nil {
			counts = make(map[string]int)
			bc.wordCounts[intent] = counts
		}
		for _, word := range strings.Fields(d.Utterance) {
			bc.vocab[word] = struct{}{}
			counts[word]++
			bc.totalWords[intent]++
		}
		bc.trained++
	}

	if bc.trained == 0 {
		return fmt.Errorf("no usable labels in training data")
	}
	return nil
}

// Classify returns the intent with the highest posterior log-probability.
// Ties break on the fixed intent order, so classification is deterministic.
func (bc *BayesClassifier) Classify(utterance string) Intent {
	if bc.trained == 0 {
		return IntentNull
	}

	words := strings.Fields(utterance)
	vocabSize := float64(len(bc.vocab))

	best := IntentNull
	bestScore := math.Inf(-1)
	for _, intent := range Intents {
		classCount := bc.classCounts[intent]
		if classCount == 0 {
			continue
		}
		score := math.Log(float64(classCount) / float64(bc.trained))
		denom := float64(bc.totalWords[intent]) + vocabSize
		for _, word := range words {
			if _, known := bc.vocab[word]; !known {
				continue
			}
			score += math.Log((float64(bc.wordCounts[intent][word]) + 1) / denom)
		}
		if score > bestScore {
			best, bestScore = intent, score
		}
	}

	return best
}
