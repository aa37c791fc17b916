package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"lg/nutrivision-go-api/internal/config"
	"lg/nutrivision-go-api/internal/dayclock"
	"lg/nutrivision-go-api/internal/session"
	"lg/nutrivision-go-api/internal/store"
	"lg/nutrivision-go-api/internal/vision"
)

func main() {
	log.SetPrefix("nutrivision: ")
	log.SetFlags(0)

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	kv, err := store.Open(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to open %s store: %v\n", cfg.StoreBackend, err)
		os.Exit(1)
	}
	defer kv.Close()

	images, err := openImages(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to open %s image store: %v\n", cfg.ImageBackend, err)
		os.Exit(1)
	}

	hinter, err := newHinter(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to set up Rekognition: %v\n", err)
		os.Exit(1)
	}

	deps := session.Deps{
		Repo:   store.NewRepository(kv),
		Images: images,
		Analyzer: vision.NewOpenAIClient(vision.OpenAIOptions{
			BaseURL: cfg.VisionBaseURL,
			APIKey:  cfg.OpenAIAPIKey,
			Model:   cfg.VisionModel,
			Timeout: cfg.VisionTimeout,
		}),
		Hinter: hinter,
		Clock:  dayclock.In(cfg.Location),
	}

	sess := session.New(deps)
	if err := sess.Load(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Unable to load saved data: %v\n", err)
		os.Exit(1)
	}

	router := newRouter(&Handler{sess: sess}, cfg.CORSOrigins)
	fmt.Printf("Starting gin app on %s (%s store, %s images)...\n", cfg.ServerAddr, cfg.StoreBackend, cfg.ImageBackend)
	if err := router.Run(cfg.ServerAddr); err != nil {
		log.Fatal(err)
	}
}
