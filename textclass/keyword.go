package textclass

import (
	"strings"

	"github.com/room4-2/tablemate/dataset"
)

type phraseRule struct {
	phrase string
	intent Intent
}

// KeywordClassifier classifies by substring lookup against a fixed phrase
// table. Needs no training data. When several phrases occur, the one latest
// in the table wins.
type KeywordClassifier struct {
	rules []phraseRule
}

// NewKeywordClassifier creates a classifier with the built-in phrase table.
func NewKeywordClassifier() *KeywordClassifier {
	return &KeywordClassifier{rules: defaultPhraseTable()}
}

// Initialize is a no-op; the phrase table is fixed.
func (kc *KeywordClassifier) Initialize(_ []dataset.LabeledUtterance) error {
	return nil
}

// Classify returns the intent of the last matching phrase, or IntentNull.
func (kc *KeywordClassifier) Classify(utterance string) Intent {
	intent := IntentNull
	for _, rule := range kc.rules {
		if strings.Contains(utterance, rule.phrase) {
			intent = rule.intent
		}
	}
	return intent
}

func defaultPhraseTable() []phraseRule {
	table := []struct {
		intent  Intent
		phrases []string
	}{
		{IntentAck, []string{"okay uhm", "sure um", "uhuh", "alright um", "aha"}},
		{IntentAffirm, []string{"sure", "correct", "that's right", "yes", "yes right", "yeah", "sounds good"}},
		{IntentBye, []string{"goodbye", "bye", "see you", "good bye"}},
		{IntentConfirm, []string{"is it in", "are there", "does it have", "are you sure", "where is"}},
		{IntentDeny, []string{"i dont want", "not", "that is not", "isn't right"}},
		{IntentHello, []string{"hi", "hello", "hey"}},
		{IntentInform, []string{
			"looking for", "want to", "feeling", "thinking", "i feel", "i want", "i need",
			"vietnamese", "chinese", "greek", "european", "mexican", "turkish", "south", "north",
			"east", "west", "cheap", "persian", "korean", "japanese", "oriental", "fast",
			"portuguese", "spanish", "dutch", "mediterranean", "italian", "expensive", "cozy",
			"fancy", "casual", "price", "moderately", "cheaply", "restaurant", "food"}},
		{IntentNegate, []string{"no", "wrong", "isn't", "not right", "isn't right"}},
		{IntentRepeat, []string{"repeat", "again", "sorry"}},
		{IntentReqAlts, []string{"anything else", "anything", "any other", "any", "alternative"}},
		{IntentReqMore, []string{"more", "keep going", "is there more", "any more"}},
		{IntentRequest, []string{"what is", "post code", "phone", "address", "how expensive",
			"where is", "what do", "can you", "tell me", "can i"}},
		{IntentRestart, []string{"start over", "forget", "restart"}},
		{IntentThankYou, []string{"thanks", "appreciate it", "thank you"}},
	}

	var rules []phraseRule
	for _, entry := range table {
		for _, phrase := range entry.phrases {
			rules = append(rules, phraseRule{phrase: phrase, intent: entry.intent})
		}
	}
	return rules
}
