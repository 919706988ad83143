// Package textclass classifies user utterances into dialog act intents. The
// dialog core only depends on the Classifier interface; which concrete
// strategy backs it is chosen at startup.
package textclass

import (
	"github.com/room4-2/tablemate/dataset"
)

// Intent is the dialog act category of an utterance.
type Intent int

const (
	IntentNull Intent = iota
	IntentAck
	IntentAffirm
	IntentBye
	IntentConfirm
	IntentDeny
	IntentHello
	IntentInform
	IntentNegate
	IntentRepeat
	IntentReqAlts
	IntentReqMore
	IntentRequest
	IntentRestart
	IntentThankYou
)

var intentNames = map[Intent]string{
	IntentNull:     "null",
	IntentAck:      "ack",
	IntentAffirm:   "affirm",
	IntentBye:      "bye",
	IntentConfirm:  "confirm",
	IntentDeny:     "deny",
	IntentHello:    "hello",
	IntentInform:   "inform",
	IntentNegate:   "negate",
	IntentRepeat:   "repeat",
	IntentReqAlts:  "reqalts",
	IntentReqMore:  "reqmore",
	IntentRequest:  "request",
	IntentRestart:  "restart",
	IntentThankYou: "thankyou",
}

// Intents lists every intent in a fixed order.
var Intents = []Intent{
	IntentNull, IntentAck, IntentAffirm, IntentBye, IntentConfirm, IntentDeny,
	IntentHello, IntentInform, IntentNegate, IntentRepeat, IntentReqAlts,
	IntentReqMore, IntentRequest, IntentRestart, IntentThankYou,
}

func (i Intent) String() string {
	if name, ok := intentNames[i]; ok {
		return name
	}
	return "null"
}

// ParseIntent maps a label from the training data to an intent. Unknown
// labels map to IntentNull.
func ParseIntent(label string) (Intent, bool) {
	for intent, name := range intentNames {
		if name == label {
			return intent, true
		}
	}
	return IntentNull, false
}

// Classifier maps free text to an intent. Classify must be total: when
// uncertain it returns IntentNull rather than failing.
type Classifier interface {
	Initialize(data []dataset.LabeledUtterance) error
	Classify(utterance string) Intent
}
