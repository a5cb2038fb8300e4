package main

import (
	"context"
	"flag"
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"plesir/internal/catalog"
	"plesir/internal/config"
	"plesir/internal/gemini"
	"plesir/internal/prompt"
	"plesir/internal/service"
	"plesir/internal/tui"
)

func main() {
	_ = godotenv.Load()

	var cfgPath string
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional; uses ~/.config/plesir/config.yaml if not provided)")
	flag.Parse()

	var cfg *config.AppConfig
	var err error
	if cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	places, err := catalog.Load(cfg.Dataset.Path, cfg.Dataset.Separator)
	if err != nil {
		log.Fatalf("failed to load catalog: %v", err)
	}
	index, err := catalog.BuildIndex(places)
	if err != nil {
		log.Fatalf("failed to build catalog index: %v", err)
	}

	client, err := gemini.NewClient(gemini.Config{
		BaseURL:   cfg.Gemini.BaseURL,
		APIKeyEnv: cfg.Gemini.APIKeyEnv,
		Model:     cfg.Gemini.Model,
		Timeout:   time.Duration(cfg.Gemini.TimeoutSecs) * time.Second,
	})
	if err != nil {
		log.Fatalf("completion client init failed: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if _, err := client.DiscoverModel(ctx); err != nil {
		log.Printf("model discovery failed, keeping %s: %v", client.Model(), err)
	}
	cancel()

	chat := service.New(index, prompt.New("", nil), client, nil, service.Options{
		TopK:         cfg.Retrieval.TopK,
		Threshold:    cfg.Retrieval.Threshold,
		MemoryWindow: cfg.Memory.Window,
	})

	m := tui.New(chat, client.Model())
	if _, err := tea.NewProgram(m).Run(); err != nil {
		log.Fatal(err)
	}
}
