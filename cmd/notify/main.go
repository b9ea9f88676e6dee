// Entry point of the notification sink service.  It consumes the dispatch
// queue and persists every delivered notification.
package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/ticketloom/booking/internal/config"
	"github.com/ticketloom/booking/internal/database"
	"github.com/ticketloom/booking/internal/handler"
	"github.com/ticketloom/booking/internal/queue"
	"github.com/ticketloom/booking/internal/repository"
	"github.com/ticketloom/booking/internal/router"
	"github.com/ticketloom/booking/internal/service"
)

func main() {
	_ = godotenv.Load()

	cfg := config.LoadNotify()

	db, err := database.Open(cfg.DB)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()
	if err := database.MigrateNotify(context.Background(), db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	notifications := service.NewNotificationService(repository.NewNotificationRepo(db))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go queue.StartNotificationConsumer(ctx, cfg.AMQPURL, notifications.Record)

	e := echo.New()
	e.HideBanner = true
	router.RegisterCommon(e)
	router.RegisterNotify(e, handler.NewNotificationHandler(notifications))

	addr := ":" + cfg.Port
	log.Printf("notify service listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
