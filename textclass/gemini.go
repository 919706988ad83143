package textclass

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/room4-2/tablemate/dataset"
)

const (
	geminiModel           = "gemini-2.5-flash"
	geminiClassifyTimeout = 10 * time.Second
)

const classifyPrompt = `You label a single utterance from a restaurant
recommendation dialog with exactly one dialog act from this list:
ack, affirm, bye, confirm, deny, hello, inform, negate, null, repeat,
reqalts, reqmore, request, restart, thankyou.
Reply with the label only, nothing else. Use null when unsure.
Utterance: `

// GeminiClassifier delegates intent classification to the Gemini API. Any
// transport or parse failure degrades to IntentNull so the dialog keeps
// going.
type GeminiClassifier struct {
	client *genai.Client
}

// NewGeminiClassifier creates a classifier backed by the Gemini API.
func NewGeminiClassifier(ctx context.Context, apiKey string) (*GeminiClassifier, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &GeminiClassifier{client: client}, nil
}

// Initialize is a no-op; the model is already trained.
func (gc *GeminiClassifier) Initialize(_ []dataset.LabeledUtterance) error {
	return nil
}

// Classify sends the utterance to Gemini and parses the returned label.
func (gc *GeminiClassifier) Classify(utterance string) Intent {
	ctx, cancel := context.WithTimeout(context.Background(), geminiClassifyTimeout)
	defer cancel()

	resp, err := gc.client.Models.GenerateContent(ctx, geminiModel,
		genai.Text(classifyPrompt+utterance), nil)
	if err != nil {
		log.Printf("❌ Gemini classification failed: %v", err)
		return IntentNull
	}

	label := strings.ToLower(strings.TrimSpace(resp.Text()))
	if fields := strings.Fields(label); len(fields) > 0 {
		label = fields[0]
	}
	intent, ok := ParseIntent(label)
	if !ok {
		log.Printf("⚠️ Gemini returned unknown label %q", label)
	}
	return intent
}
