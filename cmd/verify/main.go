// cmd/verify/main.go
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"autotestgen/config"
	"autotestgen/services"

	"github.com/fatih/color"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	verifier, err := services.NewVerifier(cfg.OllamaURL, cfg.DefaultModel, &http.Client{Timeout: 10 * time.Second})
	if err != nil {
		log.Fatalf("Failed to create verifier: %v", err)
	}

	ok := color.New(color.FgGreen, color.Bold).SprintFunc()
	warn := color.New(color.FgYellow, color.Bold).SprintFunc()
	fail := color.New(color.FgRed, color.Bold).SprintFunc()

	report, err := verifier.Check(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", fail("❌ Ollama check failed:"), err)
		fmt.Fprintln(os.Stderr, "Make sure Ollama is running (try `ollama serve` in a terminal).")
		os.Exit(1)
	}

	fmt.Println(ok("✅ Ollama connection successful!"), cfg.OllamaURL)
	fmt.Println("\nAvailable Models:")
	for _, name := range report.Models {
		fmt.Printf("- %s\n", name)
	}

	if report.ModelFound {
		fmt.Printf("\n%s\n", ok(fmt.Sprintf("✅ %q model found.", report.Model)))
	} else {
		fmt.Printf("\n%s Run `ollama pull %s`\n", warn(fmt.Sprintf("⚠️ %q model NOT found.", report.Model)), report.Model)
	}
}
