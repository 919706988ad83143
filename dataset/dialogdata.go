package dataset

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// LabeledUtterance is one line of classifier training data: an intent label
// followed by the raw utterance.
type LabeledUtterance struct {
	Label     string
	Utterance string
}

// LoadDialogData reads dialog training data in the "label utterance" line
// format. Lines without a space after the label are skipped.
func LoadDialogData(path string) ([]LabeledUtterance, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dialog data: %w", err)
	}
	defer f.Close()

	var data []LabeledUtterance
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r\n")
		label, utterance, ok := strings.Cut(line, " ")
		if !ok || label == "" || utterance == "" {
			continue
		}
		data = append(data, LabeledUtterance{Label: label, Utterance: strings.ToLower(utterance)})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read dialog data: %w", err)
	}

	return data, nil
}

// SplitDialogData splits the data into a training and a test set. trainShare
// is clamped to [0, 1]. The split is positional; the corpus is already
// shuffled on disk.
func SplitDialogData(data []LabeledUtterance, trainShare float64) (train, test []LabeledUtterance) {
	if trainShare < 0 {
		trainShare = 0
	} else if trainShare > 1 {
		trainShare = 1
	}
	cut := int(float64(len(data)) * trainShare)
	return data[:cut], data[cut:]
}
