// Entry point of the payment gateway service.  Besides the HTTP surface it
// runs the outbox relay that moves notification rows to the broker.
package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/ticketloom/booking/internal/config"
	"github.com/ticketloom/booking/internal/database"
	"github.com/ticketloom/booking/internal/handler"
	"github.com/ticketloom/booking/internal/monitoring"
	"github.com/ticketloom/booking/internal/outbox"
	"github.com/ticketloom/booking/internal/queue"
	"github.com/ticketloom/booking/internal/repository"
	"github.com/ticketloom/booking/internal/router"
	"github.com/ticketloom/booking/internal/service"
)

func main() {
	_ = godotenv.Load()

	cfg := config.LoadPayment()

	db, err := database.Open(cfg.DB)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()
	if err := database.MigratePayment(context.Background(), db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	payments := service.NewPaymentService(repository.NewPaymentRepo(db), cfg.SuccessRate)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	outboxRepo := repository.NewOutboxRepo(db)
	publisher := queue.NewPublisher(cfg.AMQPURL)
	defer publisher.Close()
	relay := outbox.NewRelay(outboxRepo, publisher, cfg.RelayInterval, cfg.RelayBatch)
	go relay.Run(ctx)
	go monitoring.WatchOutboxBacklog(ctx, 30*time.Second, outboxRepo.CountPending)

	e := echo.New()
	e.HideBanner = true
	router.RegisterCommon(e)
	router.RegisterPayment(e, handler.NewPaymentHandler(payments))

	addr := ":" + cfg.Port
	log.Printf("payment service listening on %s (env=%s, success_rate=%v)", addr, cfg.Env, cfg.SuccessRate)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
