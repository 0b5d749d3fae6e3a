package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/mkohara/roastery/internal/storefront"
	storecart "github.com/mkohara/roastery/internal/storefront/cart"
	"github.com/mkohara/roastery/internal/storefront/session"
	"github.com/mkohara/roastery/pkg/config"
	"github.com/mkohara/roastery/pkg/logger"
)

// Smoke run against a live API: list the catalog, load the cart through the
// store, print the total. Exercises the same client code the checkout flow
// uses.
func main() {
	logg := logger.New(logger.Options{ServiceName: "storefront"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	// Only the storefront section, so a token and an API URL are enough to run.
	var cfg config.StorefrontConfig
	if err := envconfig.Process(config.EnvPrefix, &cfg); err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	token := strings.TrimSpace(os.Getenv("ROASTERY_STOREFRONT_TOKEN"))
	provider := session.NewProvider(session.Session{AccessToken: token})
	client := storefront.NewClient(cfg, provider)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	beans, err := client.ListBeans(ctx)
	if err != nil {
		logg.Error(ctx, "failed to list beans", err)
		os.Exit(1)
	}
	fmt.Printf("catalog: %d beans\n", len(beans))
	for _, bean := range beans {
		fmt.Printf("  #%d %s (%s) ¥%d\n", bean.ID, bean.Name, bean.Origin, bean.Price)
	}

	if token == "" {
		fmt.Println("no ROASTERY_STOREFRONT_TOKEN set, skipping cart")
		return
	}

	store := storecart.NewStore(client, storecart.WithNotify(func(err error) {
		logg.Error(context.Background(), "cart flush failed", err)
	}))
	if err := store.Load(ctx); err != nil {
		logg.Error(ctx, "failed to load cart", err)
		os.Exit(1)
	}

	items := store.Items()
	fmt.Printf("cart: %d lines\n", len(items))
	for _, line := range items {
		fmt.Printf("  %s x%d ¥%d\n", line.Name, line.Quantity, line.Price*line.Quantity)
	}
	fmt.Printf("total: ¥%d\n", store.Total())

	store.Close()
	<-store.Flushed()
}
