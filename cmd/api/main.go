package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/xavierca1/prefab-leads/internal/config"
	"github.com/xavierca1/prefab-leads/internal/infra/catalog"
	"github.com/xavierca1/prefab-leads/internal/infra/http/handlers"
	"github.com/xavierca1/prefab-leads/internal/infra/http/router"
	"github.com/xavierca1/prefab-leads/internal/infra/integration/kommo"
	"github.com/xavierca1/prefab-leads/internal/infra/logging"
	"github.com/xavierca1/prefab-leads/internal/infra/mail"
	"github.com/xavierca1/prefab-leads/internal/infra/queue"
	"github.com/xavierca1/prefab-leads/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("loading configuration: %v", err)
	}

	log := logging.New(cfg.AppEnv, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Storage
	slot, storagePing, closeSlot, err := openSlot(ctx, cfg)
	if err != nil {
		log.WithError(err).Fatal("opening lead storage")
	}
	defer closeSlot()

	store := usecase.NewLeadStore(slot, cfg.StorageKey, log.WithField("component", "lead_store"))

	products, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		log.WithError(err).Fatal("loading catalog")
	}

	// 2. Messaging and notifications, both optional
	var producer usecase.QueueProducerInterface
	var rabbitConn *amqp091.Connection
	if cfg.RabbitMQURL != "" {
		rabbitMQ, err := queue.NewRabbitMQ(cfg.RabbitMQURL)
		if err != nil {
			log.WithError(err).Fatal("connecting to RabbitMQ")
		}
		defer rabbitMQ.Close()
		rabbitConn = rabbitMQ.Conn
		producer = queue.NewProducer(rabbitMQ.Ch)

		if cfg.KommoAPIToken != "" {
			crm := kommo.NewClient(cfg.KommoAPIToken, cfg.KommoBaseURL, log.WithField("component", "kommo"))

			// the consumer gets its own channel
			ch, err := rabbitMQ.Conn.Channel()
			if err != nil {
				log.WithError(err).Fatal("opening worker channel")
			}
			worker := queue.NewWorker(ch, crm, log.WithField("component", "crm_worker"))
			go func() {
				if err := worker.Start(ctx, queue.QueueName); err != nil {
					log.WithError(err).Error("CRM worker stopped")
				}
			}()
		}
	} else {
		log.Warn("RABBITMQ_URL not set, lead events disabled")
	}

	var notifier usecase.LeadNotifier
	if cfg.MailEnabled() {
		notifier = mail.NewEmailSender(cfg.MailHost, cfg.MailPort, cfg.MailUser, cfg.MailPass, cfg.MailFrom, cfg.SalesInbox)
	}

	// 3. Use cases
	captureUC := usecase.NewCaptureLeadUseCase(store, products, producer, notifier, log.WithField("component", "capture"), cfg.SubmitDelay)

	// 4. Handlers
	limiter := handlers.NewRateLimiter(10, time.Minute)
	go limiter.Cleanup(ctx, 10*time.Minute)

	r := router.New(router.Handlers{
		Health:   handlers.NewHealthHandler(storagePing, cfg.StorageDriver, rabbitConn),
		Products: handlers.NewProductHandler(products),
		Leads:    handlers.NewLeadHandler(captureUC, limiter),
		Admin:    handlers.NewAdminLeadHandler(store, log.WithField("component", "console")),
	}, router.Options{CORSOrigins: cfg.CORSOrigins, AccessLog: true})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithFields(logrus.Fields{"port": cfg.Port, "storage": cfg.StorageDriver}).Info("🏠 prefab-leads listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("HTTP server failed")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
	log.Info("server stopped")
}
