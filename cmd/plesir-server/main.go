package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"plesir/internal/catalog"
	"plesir/internal/config"
	"plesir/internal/gemini"
	"plesir/internal/httpapi"
	"plesir/internal/observability"
	"plesir/internal/prompt"
	"plesir/internal/service"
	"plesir/internal/session"
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
	log.Printf("catalog ready: %d places indexed", index.Len())

	client, err := gemini.NewClient(gemini.Config{
		BaseURL:   cfg.Gemini.BaseURL,
		APIKeyEnv: cfg.Gemini.APIKeyEnv,
		Model:     cfg.Gemini.Model,
		Timeout:   time.Duration(cfg.Gemini.TimeoutSecs) * time.Second,
	})
	if err != nil {
		log.Fatalf("completion client init failed: %v", err)
	}
	discoverCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if model, err := client.DiscoverModel(discoverCtx); err != nil {
		log.Printf("model discovery failed, keeping %s: %v", model, err)
	} else {
		log.Printf("using model %s", model)
	}
	cancel()

	metrics := observability.NewMetrics(cfg.Server.MetricsNamespace)
	sessions := session.NewManager(
		time.Duration(cfg.Server.SessionTimeoutSecs)*time.Second,
		func(n int) { metrics.ActiveSessions.Set(float64(n)) },
	)
	defer sessions.Close()

	chat := service.New(index, prompt.New("", nil), client, metrics, service.Options{
		TopK:         cfg.Retrieval.TopK,
		Threshold:    cfg.Retrieval.Threshold,
		MemoryWindow: cfg.Memory.Window,
	})

	api := httpapi.New(chat, sessions, index.Len(), client.Model())
	srv := &http.Server{Addr: cfg.Server.Addr, Handler: api.Router()}

	go func() {
		log.Printf("listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
