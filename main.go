package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/room4-2/tablemate/config"
	"github.com/room4-2/tablemate/dataset"
	"github.com/room4-2/tablemate/dialog"
	"github.com/room4-2/tablemate/order"
	"github.com/room4-2/tablemate/reasoning"
	"github.com/room4-2/tablemate/server"
	"github.com/room4-2/tablemate/session"
	"github.com/room4-2/tablemate/textclass"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Load restaurant data
	restaurants, err := dataset.LoadRestaurants(cfg.RestaurantData)
	if err != nil {
		log.Fatalf("Failed to load restaurant data: %v", err)
	}
	log.Printf("📚 Loaded %d restaurants from %s", len(restaurants), cfg.RestaurantData)

	// Load relaxation groups and the rule table
	relaxations, err := order.LoadRelaxations(cfg.RelaxationsPath)
	if err != nil {
		log.Fatalf("Failed to load relaxations: %v", err)
	}
	rules, err := reasoning.LoadRules(cfg.RulesPath)
	if err != nil {
		log.Fatalf("Failed to load rules: %v", err)
	}

	// Build the intent classifier
	classifier, err := buildClassifier(cfg)
	if err != nil {
		log.Fatalf("Failed to build classifier: %v", err)
	}
	log.Printf("✅ Using %s classifier", cfg.ClassifierType)

	machine := dialog.NewMachine(reasoning.NewEngine(rules))

	// Create session manager
	sessionManager, err := session.NewManager(cfg, restaurants, relaxations, classifier, machine)
	if err != nil {
		log.Fatalf("Failed to create session manager: %v", err)
	}

	// Start cleanup routine
	ctx, cancel := context.WithCancel(context.Background())
	go sessionManager.StartCleanupRoutine(ctx)

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	srv := server.NewServerWebsocket(cfg, sessionManager)

	go func() {
		<-sigChan
		log.Println("\nReceived shutdown signal...")
		cancel()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	if err := srv.Start(); err != nil && err.Error() != "http: Server closed" {
		log.Fatalf("Server error: %v", err)
	}

	log.Println("Server stopped")
}

// buildClassifier constructs the classifier named in the configuration and
// trains it on the labeled dialog data when it needs training.
func buildClassifier(cfg *config.Config) (textclass.Classifier, error) {
	var classifier textclass.Classifier

	switch cfg.ClassifierType {
	case "keyword":
		classifier = textclass.NewKeywordClassifier()
	case "majority":
		classifier = textclass.NewMajorityClassifier()
	case "bayes":
		classifier = textclass.NewBayesClassifier()
	case "gemini":
		c, err := textclass.NewGeminiClassifier(context.Background(), cfg.GeminiAPIKey)
		if err != nil {
			return nil, fmt.Errorf("failed to create gemini classifier: %w", err)
		}
		classifier = c
	default:
		return nil, fmt.Errorf("unknown classifier type: %s", cfg.ClassifierType)
	}

	dialogData, err := dataset.LoadDialogData(cfg.DialogData)
	if err != nil {
		return nil, fmt.Errorf("failed to load dialog data: %w", err)
	}
	if err := classifier.Initialize(dialogData); err != nil {
		return nil, fmt.Errorf("failed to initialize classifier: %w", err)
	}

	return classifier, nil
}
