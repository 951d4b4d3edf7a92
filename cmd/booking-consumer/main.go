// Command booking-consumer appends booking confirmations from RabbitMQ
// to the booking log.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/iliyamo/train-seat-reservation/internal/config"
	"github.com/iliyamo/train-seat-reservation/internal/logger"
	"github.com/iliyamo/train-seat-reservation/internal/queue"
)

func main() {
	log, err := logger.New(config.AppEnv())
	if err != nil {
		_, _ = os.Stderr.WriteString("logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	qcfg := config.LoadQueueConfig()
	journal, err := logger.NewFile(qcfg.BookingLogPath)
	if err != nil {
		log.Fatal("open booking log", zap.String("path", qcfg.BookingLogPath), zap.Error(err))
	}
	defer func() { _ = journal.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("booking consumer started", zap.String("log", qcfg.BookingLogPath))
	err = queue.NewConsumer(qcfg.URL, log, journal).Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal("booking consumer stopped", zap.Error(err))
	}
}
