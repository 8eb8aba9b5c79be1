package main

import (
	"log"

	"github.com/rentfage/property-service/internal/app"
	"github.com/rentfage/property-service/internal/app/config"
)

func main() {
	cfg := config.MustLoad()

	application, err := app.New(cfg)
	if err != nil {
		log.Fatalf("failed to initialize application: %v", err)
	}

	application.Run()
}
