// cmd/chat/main.go
package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strings"

	"autotestgen/config"
	"autotestgen/models"
	"autotestgen/services"

	"github.com/fatih/color"
)

// Terminal front end for a running relay. It drives the same Conversation
// the web page uses, so blank lines and overlapping sends behave the same.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	relay := services.NewRelayClient(cfg.RelayURL)
	conversation := services.NewConversation(relay, services.WithModel(cfg.DefaultModel))

	you := color.New(color.FgGreen, color.Bold).SprintFunc()
	assistant := color.New(color.FgCyan, color.Bold).SprintFunc()

	fmt.Println(you("AutoTestGen"), "via", cfg.RelayURL, "model", assistant(conversation.Model()))
	fmt.Println("Describe a feature and press Enter. Type 'exit' or 'quit' to leave.")
	printMessage(assistant("Assistant: "), conversation.Messages()[0])

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for {
		fmt.Print(you("\nYou: "))
		if !scanner.Scan() {
			break
		}
		input := scanner.Text()
		switch strings.ToLower(strings.TrimSpace(input)) {
		case "exit", "quit":
			return
		}

		done, ok := conversation.Send(input)
		if !ok {
			continue
		}
		<-done

		msgs := conversation.Messages()
		printMessage(assistant("\nAssistant: "), msgs[len(msgs)-1])
	}
	if err := scanner.Err(); err != nil {
		log.Fatalf("Error reading input: %v", err)
	}
}

func printMessage(prefix string, msg models.Message) {
	fmt.Printf("%s[%s]\n%s\n", prefix, services.FormatTimestamp(msg.Timestamp), msg.Content)
}
