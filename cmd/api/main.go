package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"github.com/lamunshop/storefront-api/internal/app/api"
)

func main() {
	// .env is a development convenience; absence is not an error.
	_ = godotenv.Load()

	if err := api.Run(context.Background()); err != nil {
		log.Fatalf("storefront api: %v", err)
	}
}
