// Package dialog implements the conversation state machine. Each state is a
// value in a closed enumeration; all mutable conversation data lives in the
// order passed into every transition.
package dialog

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/room4-2/tablemate/dataset"
	"github.com/room4-2/tablemate/matcher"
	"github.com/room4-2/tablemate/order"
	"github.com/room4-2/tablemate/reasoning"
	"github.com/room4-2/tablemate/textclass"
)

// State is a phase of the conversation.
type State int

const (
	StateStart State = iota
	StateAskPreference
	StateConfirmOrder
	StateAdditionalRequirement
	StateOrderConflict
	StateGetChoice
	StateRecommendation
	StateInformChoice
	StateEnd
)

var stateNames = map[State]string{
	StateStart:                 "start",
	StateAskPreference:         "ask_preference",
	StateConfirmOrder:          "confirm_order",
	StateAdditionalRequirement: "additional_requirement",
	StateOrderConflict:         "order_conflict",
	StateGetChoice:             "get_choice",
	StateRecommendation:        "recommendation",
	StateInformChoice:          "inform_choice",
	StateEnd:                   "end",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// Terminal reports whether the conversation is over.
func (s State) Terminal() bool {
	return s == StateEnd
}

var prefPrompts = map[dataset.Field]string{
	dataset.FieldFood:       "What kind of food would you like?",
	dataset.FieldArea:       "Where would you like to dine?",
	dataset.FieldPriceRange: "What price range are you looking for?",
}

const (
	repeatPrompt   = "I did not understand your input, could you clarify it?"
	choicePrompt   = "Which restaurant do you choose? Enter its number."
	goodbyeReply   = "Thank you for using this service and see you soon!"
	rechoosePrompt = "That number is not on the list, please pick another."
)

// WelcomeMessage opens every conversation.
const WelcomeMessage = "Welcome to the restaurant assistant. " +
	"You can ask for restaurants by type of food, area and price range."

// Machine dispatches utterances through the state table. It holds only the
// shared rule engine and is safe to use from any number of conversations.
type Machine struct {
	engine *reasoning.Engine
}

// NewMachine creates a machine over the given rule engine, or one with the
// default rule table when nil.
func NewMachine(engine *reasoning.Engine) *Machine {
	if engine == nil {
		engine = reasoning.NewEngine(nil)
	}
	return &Machine{engine: engine}
}

// ProcessTurn consumes one classified utterance and produces the system
// response and the next state. A terminal next state tells the driving loop
// to stop.
func (m *Machine) ProcessTurn(utterance string, intent textclass.Intent, ord *order.Order, state State) (string, State) {
	switch state {
	case StateStart:
		return m.processStart(utterance, intent, ord)
	case StateAskPreference:
		return m.processAskPreference(utterance, intent, ord)
	case StateConfirmOrder:
		return m.processConfirmOrder(utterance, intent, ord)
	case StateAdditionalRequirement:
		return m.processAdditionalRequirement(utterance, intent, ord)
	case StateOrderConflict:
		return m.processOrderConflict(utterance, intent, ord)
	case StateGetChoice:
		return m.processGetChoice(utterance, ord)
	case StateRecommendation:
		return m.processRecommendation(intent, ord)
	case StateInformChoice:
		return m.processInformChoice(utterance, intent, ord)
	default:
		return goodbyeReply, StateEnd
	}
}

func (m *Machine) processStart(utterance string, intent textclass.Intent, ord *order.Order) (string, State) {
	switch intent {
	case textclass.IntentHello:
		return prefPrompts[dataset.FieldFood], StateAskPreference
	case textclass.IntentInform:
		return m.processInform(utterance, ord)
	default:
		return repeatPrompt, StateStart
	}
}

func (m *Machine) processAskPreference(utterance string, intent textclass.Intent, ord *order.Order) (string, State) {
	switch intent {
	case textclass.IntentInform, textclass.IntentReqAlts:
		return m.processInform(utterance, ord)
	case textclass.IntentDeny:
		return m.processDeny(utterance, ord, StateAskPreference)
	default:
		return repeatPrompt, StateAskPreference
	}
}

func (m *Machine) processConfirmOrder(utterance string, intent textclass.Intent, ord *order.Order) (string, State) {
	switch intent {
	case textclass.IntentAffirm:
		return "Do you have any additional requirements?", StateAdditionalRequirement
	case textclass.IntentNegate, textclass.IntentDeny:
		return m.processDeny(utterance, ord, StateConfirmOrder)
	case textclass.IntentReqAlts:
		return m.processInform(utterance, ord)
	default:
		return repeatPrompt, StateConfirmOrder
	}
}

func (m *Machine) processAdditionalRequirement(utterance string, intent textclass.Intent, ord *order.Order) (string, State) {
	if intent == textclass.IntentNegate {
		return m.giveRecommendation(ord)
	}

	annotated := m.engine.ProcessExtra(utterance, ord.Options(), ord.ValueOptions(), ord.MaxRecommendations())
	if len(annotated) == 0 {
		return "I'm afraid there is no restaurant matching your preferences. " +
			"Please change your query.", StateAskPreference
	}
	return strings.Join(annotated, "") + choicePrompt, StateGetChoice
}

func (m *Machine) processOrderConflict(utterance string, intent textclass.Intent, ord *order.Order) (string, State) {
	switch intent {
	case textclass.IntentAffirm, textclass.IntentReqAlts:
		alternatives := ord.ComputeAlternatives()
		if alternatives == "" {
			ord.ClearPreferences()
			return "I'm afraid there are no alternatives either. Let's start over. " +
				prefPrompts[dataset.FieldFood], StateAskPreference
		}
		return "Here are some alternatives:\n" + alternatives + choicePrompt, StateGetChoice
	case textclass.IntentNegate:
		ord.ClearPreferences()
		return "Your preferences have been cleared. " + prefPrompts[dataset.FieldFood], StateAskPreference
	default:
		return repeatPrompt, StateOrderConflict
	}
}

func (m *Machine) processGetChoice(utterance string, ord *order.Order) (string, State) {
	index, err := parseChoice(utterance)
	if err != nil {
		return "Please enter the number of the restaurant you would like.", StateGetChoice
	}
	if err := ord.SetRecommendation(index); err != nil {
		return rechoosePrompt, StateGetChoice
	}
	return fmt.Sprintf("You have chosen %s. You can ask for its phone number, address or postcode.",
		ord.Recommendation().Name()), StateInformChoice
}

func (m *Machine) processRecommendation(intent textclass.Intent, ord *order.Order) (string, State) {
	switch intent {
	case textclass.IntentReqMore, textclass.IntentNegate:
		return m.giveRecommendation(ord)
	case textclass.IntentAffirm:
		return "Great choice! You can ask for the phone number, address or postcode.", StateInformChoice
	default:
		return repeatPrompt, StateRecommendation
	}
}

func (m *Machine) processInformChoice(utterance string, intent textclass.Intent, ord *order.Order) (string, State) {
	switch intent {
	case textclass.IntentRequest:
		return m.lookupDetails(utterance, ord), StateInformChoice
	case textclass.IntentBye, textclass.IntentThankYou:
		return goodbyeReply, StateEnd
	default:
		return repeatPrompt, StateInformChoice
	}
}

// lookupDetails answers phone/address/postcode questions about the chosen
// restaurant. The trigger words double as the literal match set: the user
// names the field, not a value.
func (m *Machine) lookupDetails(utterance string, ord *order.Order) string {
	rec := ord.Recommendation()
	if rec == nil {
		return repeatPrompt
	}

	detailFields := []dataset.Field{dataset.FieldPhone, dataset.FieldAddr, dataset.FieldPostcode}
	literal := make(map[dataset.Field][]string, len(detailFields))
	for _, field := range detailFields {
		literal[field] = matcher.HelpWords[field]
	}

	matches := matcher.FindKeywords(literal, nil, utterance)
	if len(matches) == 0 {
		return repeatPrompt
	}

	var parts []string
	for _, match := range matches {
		switch match.Field {
		case dataset.FieldPhone:
			parts = append(parts, fmt.Sprintf("the phone number is %s", rec.Display(dataset.FieldPhone)))
		case dataset.FieldAddr:
			parts = append(parts, fmt.Sprintf("the address is %s", rec.Display(dataset.FieldAddr)))
		case dataset.FieldPostcode:
			parts = append(parts, fmt.Sprintf("the postal code is %s", rec.Display(dataset.FieldPostcode)))
		}
	}
	return strings.Join(parts, ", ")
}

// processInform runs the shared inform handling: update preferences,
// recompute candidates, then branch on what is still missing.
func (m *Machine) processInform(utterance string, ord *order.Order) (string, State) {
	ord.ProcessInform(utterance)
	ord.ComputeOptions()

	if len(ord.Options()) == 0 {
		return fmt.Sprintf("I'm afraid there is no restaurant matching %s. "+
			"Would you like to see some alternatives?", ord), StateOrderConflict
	}
	if empty := ord.EmptyPreferences(); len(empty) > 0 {
		return prefPrompts[empty[0]], StateAskPreference
	}
	return fmt.Sprintf("You are looking for %s. Is this correct?", ord), StateConfirmOrder
}

// processDeny clears the slots the user rejected. When nothing is understood
// the state does not advance.
func (m *Machine) processDeny(utterance string, ord *order.Order, current State) (string, State) {
	changes := ord.ProcessDeny(utterance)
	if len(changes) == 0 {
		return repeatPrompt, current
	}

	parts := make([]string, 0, len(changes))
	for _, change := range changes {
		old := change.Value
		if old == "" {
			old = "None"
		}
		parts = append(parts, fmt.Sprintf("%s is no longer %s", change.Field, old))
	}

	empty := ord.EmptyPreferences()
	return strings.Join(parts, ", ") + ". " + prefPrompts[empty[0]], StateAskPreference
}

// giveRecommendation surfaces a candidate that has not been offered yet.
func (m *Machine) giveRecommendation(ord *order.Order) (string, State) {
	previous := ord.Recommendation()
	rec := ord.GetRecommendation()

	if rec == nil {
		return "I'm afraid there is no restaurant matching your preferences. " +
			"Please change your query.", StateAskPreference
	}
	if previous != nil && rec.Same(previous) {
		return "The given recommendation is the only option.", StateRecommendation
	}
	return fmt.Sprintf("%s serves %s, is in %s and the prices are %s.",
		rec.Name(), rec.Display(dataset.FieldFood), rec.Display(dataset.FieldArea),
		rec.Display(dataset.FieldPriceRange)), StateRecommendation
}

// parseChoice extracts the chosen option number from the utterance: the
// whole trimmed input, or failing that the first numeric token.
func parseChoice(utterance string) (int, error) {
	trimmed := strings.TrimSpace(utterance)
	if index, err := strconv.Atoi(trimmed); err == nil {
		return index, nil
	}
	for _, token := range strings.Fields(trimmed) {
		if index, err := strconv.Atoi(token); err == nil {
			return index, nil
		}
	}
	return 0, fmt.Errorf("no number in %q", utterance)
}
