package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/oksasatya/hello-birthday/config"
	"github.com/oksasatya/hello-birthday/internal/infrastructure/search"
	"github.com/oksasatya/hello-birthday/pkg/helpers"
)

// event_worker drains outcome events from RabbitMQ into Elasticsearch.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-event-worker", cfg.Env, cfg.LogLevel)

	if cfg.RabbitMQURL == "" || cfg.RabbitMQEventsQueue == "" {
		logger.Fatal("RabbitMQ not configured")
	}

	es, err := helpers.NewESClient(cfg.ESAddrs(), cfg.ElasticsearchUser, cfg.ElasticsearchPass, 5*time.Second)
	if err != nil {
		logger.Fatalf("elasticsearch client: %v", err)
	}
	indexer := search.NewEventIndexer(es, cfg.ESEventsIndex)

	// Prefetch for fair dispatch
	consumer, err := helpers.NewRabbitConsumer(cfg.RabbitMQURL, cfg.RabbitMQEventsQueue, 16)
	if err != nil {
		logger.Fatalf("amqp: %v", err)
	}
	defer consumer.Close()

	msgs, err := consumer.Deliveries()
	if err != nil {
		logger.Fatalf("consume: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for msg := range msgs {
			indexer.HandleMessage(ctx, msg.Body, msg, logger)
		}
	}()

	logger.Infof("event worker consuming %s into index %s", cfg.RabbitMQEventsQueue, cfg.ESEventsIndex)
	select {
	case <-stop:
		logger.Info("event worker shutting down")
	case <-done:
		logger.Warn("delivery channel closed")
	}
}
