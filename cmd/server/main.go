package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gemchat/internal/gemini"
	"gemchat/internal/memory"
	"gemchat/internal/server"
)

func main() {
	cfg := server.LoadConfig()

	var generator server.Generator
	if cfg.GeminiAPIKey != "" {
		client, err := gemini.NewClient(context.Background(), cfg.GeminiAPIKey, cfg.Model)
		if err != nil {
			log.Fatalf("Failed to initialize Gemini client: %v", err)
		}
		defer client.Close()
		generator = client
		log.Println("Gemini API key configured")
	} else {
		log.Println("GEMINI_API_KEY missing; chat will answer with an advisory reply")
	}

	chatHandler := server.NewChatHandler(generator, memory.New(), cfg.Model)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: server.NewRouter(chatHandler),
	}

	go func() {
		log.Printf("gemchat server listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}
