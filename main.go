package main

import (
	"log"

	"autotestgen/config"
	"autotestgen/controllers"
	"autotestgen/routes"
	"autotestgen/services"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	gin.SetMode(cfg.GinMode)

	ollama := services.NewOllamaService(cfg.OllamaURL, cfg.DefaultModel, cfg.OllamaTimeout)

	// The page talks to the relay in-process; errors reach it already mapped.
	conversation := services.NewConversation(ollama, services.WithModel(cfg.DefaultModel))

	router, err := routes.SetupRouter(
		controllers.NewGenerateController(ollama),
		controllers.NewChatController(conversation, services.NewMarkdownRenderer(), cfg.DefaultModel),
	)
	if err != nil {
		log.Fatalf("Failed to set up router: %v", err)
	}

	log.Printf("Server starting on port %s (Ollama at %s, model %s)", cfg.Addr(), cfg.OllamaURL, cfg.DefaultModel)
	if err := router.Run(cfg.Addr()); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
