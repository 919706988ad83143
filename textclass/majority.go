package textclass

import (
	"fmt"

	"github.com/room4-2/tablemate/dataset"
)

// MajorityClassifier always answers with the most frequent label in the
// training data. The baseline the smarter classifiers have to beat.
type MajorityClassifier struct {
	answer Intent
}

// NewMajorityClassifier creates an untrained majority classifier.
func NewMajorityClassifier() *MajorityClassifier {
	return &MajorityClassifier{answer: IntentNull}
}

// Initialize picks the most frequent label. Ties break on the fixed intent
// order so training is deterministic.
func (mc *MajorityClassifier) Initialize(data []dataset.LabeledUtterance) error {
	if len(data) == 0 {
		return fmt.Errorf("majority classifier needs training data")
	}

	counts := make(map[Intent]int)
	for _, d := range data {
		intent, ok := ParseIntent(d.Label)
		if !ok {
			continue
		}
		counts[intent]++
	}

	best, bestCount := IntentNull, -1
	for _, intent := range Intents {
		if counts[intent] > bestCount {
			best, bestCount = intent, counts[intent]
		}
	}
	mc.answer = best
	return nil
}

// Classify ignores the utterance entirely.
func (mc *MajorityClassifier) Classify(_ string) Intent {
	return mc.answer
}
