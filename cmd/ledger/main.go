// Entry point of the inventory ledger service.
package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/ticketloom/booking/internal/config"
	"github.com/ticketloom/booking/internal/database"
	"github.com/ticketloom/booking/internal/handler"
	"github.com/ticketloom/booking/internal/middleware"
	"github.com/ticketloom/booking/internal/repository"
	"github.com/ticketloom/booking/internal/router"
	"github.com/ticketloom/booking/internal/service"
)

func main() {
	_ = godotenv.Load()

	cfg := config.LoadLedger()

	db, err := database.Open(cfg.DB)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()
	if err := database.MigrateLedger(context.Background(), db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	events := service.NewEventService(repository.NewEventRepo(db))

	e := echo.New()
	e.HideBanner = true
	router.RegisterCommon(e)

	rdb := config.NewRedisClient()
	cache := middleware.NewReadCache(config.LoadCacheConfig(), rdb)
	router.RegisterLedger(e, handler.NewEventHandler(events), cache)

	addr := ":" + cfg.Port
	log.Printf("ledger service listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
