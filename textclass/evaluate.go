package textclass

import (
	"github.com/room4-2/tablemate/dataset"
)

// Evaluate scores a trained classifier against held-out labeled utterances,
// returning accuracy and macro-averaged F1 over the labels present in the
// test set.
func Evaluate(c Classifier, test []dataset.LabeledUtterance) (accuracy, macroF1 float64) {
	if len(test) == 0 {
		return 0, 0
	}

	truePos := make(map[Intent]int)
	falsePos := make(map[Intent]int)
	falseNeg := make(map[Intent]int)
	present := make(map[Intent]struct{})
	correct := 0

	for _, d := range test {
		want, _ := ParseIntent(d.Label)
		present[want] = struct{}{}
		got := c.Classify(d.Utterance)
		if got == want {
			correct++
			truePos[want]++
		} else {
			falsePos[got]++
			falseNeg[want]++
		}
	}

	var f1Sum float64
	for intent := range present {
		tp := float64(truePos[intent])
		fp := float64(falsePos[intent])
		fn := float64(falseNeg[intent])
		if tp == 0 {
			continue
		}
		precision := tp / (tp + fp)
		recall := tp / (tp + fn)
		f1Sum += 2 * precision * recall / (precision + recall)
	}

	accuracy = float64(correct) / float64(len(test))
	macroF1 = f1Sum / float64(len(present))
	return accuracy, macroF1
}
