// Terminal front end for the dialog manager. Runs a single conversation
// on stdin/stdout, mirroring the behavior of the WebSocket server without
// any networking.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/room4-2/tablemate/dataset"
	"github.com/room4-2/tablemate/dialog"
	"github.com/room4-2/tablemate/order"
	"github.com/room4-2/tablemate/reasoning"
	"github.com/room4-2/tablemate/textclass"
)

func main() {
	classifierType := flag.String("classifier", "bayes", "intent classifier: keyword, majority or bayes")
	restaurantData := flag.String("data", "data/restaurant_info.csv", "restaurant CSV path")
	dialogData := flag.String("dialogs", "data/dialogs.dat", "labeled dialog data path")
	maxRecs := flag.Int("n", 3, "maximum recommendations shown at once")
	uppercase := flag.Bool("uppercase", false, "print system replies in uppercase")
	allowRestart := flag.Bool("restart", true, "honor the restart intent")
	evaluate := flag.Bool("evaluate", false, "evaluate the classifier on held-out data and exit")
	flag.Parse()

	labeled, err := dataset.LoadDialogData(*dialogData)
	if err != nil {
		log.Fatalf("Failed to load dialog data: %v", err)
	}

	classifier, err := buildClassifier(*classifierType)
	if err != nil {
		log.Fatalf("Failed to build classifier: %v", err)
	}

	if *evaluate {
		train, test := dataset.SplitDialogData(labeled, 0.85)
		if err := classifier.Initialize(train); err != nil {
			log.Fatalf("Failed to initialize classifier: %v", err)
		}
		accuracy, macroF1 := textclass.Evaluate(classifier, test)
		fmt.Printf("classifier=%s accuracy=%.4f macro_f1=%.4f (train=%d test=%d)\n",
			*classifierType, accuracy, macroF1, len(train), len(test))
		return
	}

	if err := classifier.Initialize(labeled); err != nil {
		log.Fatalf("Failed to initialize classifier: %v", err)
	}

	restaurants, err := dataset.LoadRestaurants(*restaurantData)
	if err != nil {
		log.Fatalf("Failed to load restaurant data: %v", err)
	}

	relaxations, err := order.LoadRelaxations("")
	if err != nil {
		log.Fatalf("Failed to load relaxations: %v", err)
	}

	machine := dialog.NewMachine(reasoning.NewEngine(nil))
	ord := order.New(restaurants, relaxations, *maxRecs)
	state := dialog.StateStart

	reply := func(text string) {
		if *uppercase {
			text = strings.ToUpper(text)
		}
		fmt.Println(text)
	}

	reply(dialog.WelcomeMessage)

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		utterance := strings.ToLower(strings.TrimSpace(scanner.Text()))
		if utterance == "" {
			continue
		}

		intent := classifier.Classify(utterance)

		if *allowRestart && intent == textclass.IntentRestart {
			ord = order.New(restaurants, relaxations, *maxRecs)
			state = dialog.StateStart
			reply("Your order has been cleared. Let's start over. " + dialog.WelcomeMessage)
			continue
		}

		var response string
		response, state = machine.ProcessTurn(utterance, intent, ord, state)
		reply(response)

		if state.Terminal() {
			return
		}
	}
	if err := scanner.Err(); err != nil {
		log.Fatalf("Input error: %v", err)
	}
}

func buildClassifier(name string) (textclass.Classifier, error) {
	switch name {
	case "keyword":
		return textclass.NewKeywordClassifier(), nil
	case "majority":
		return textclass.NewMajorityClassifier(), nil
	case "bayes":
		return textclass.NewBayesClassifier(), nil
	default:
		return nil, fmt.Errorf("unknown classifier type: %s", name)
	}
}
