package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

// CRMClient pushes a captured lead into the sales CRM.
type CRMClient interface {
	SyncLead(ctx context.Context, payload LeadCapturedPayload) error
}

// Consumer is the part of *amqp.Channel the worker needs.
type Consumer interface {
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
}

type Worker struct {
	Channel Consumer
	CRM     CRMClient
	Log     logrus.FieldLogger
}

func NewWorker(ch Consumer, crm CRMClient, log logrus.FieldLogger) *Worker {
	return &Worker{
		Channel: ch,
		CRM:     crm,
		Log:     log,
	}
}

// Start consumes queueName until ctx is cancelled or the channel closes.
func (w *Worker) Start(ctx context.Context, queueName string) error {
	msgs, err := w.Channel.Consume(
		queueName,
		"",    // consumer
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("registering consumer on %s: %w", queueName, err)
	}

	w.Log.WithField("queue", queueName).Info("[*] CRM worker waiting for leads")

	for {
		select {
		case <-ctx.Done():
			w.Log.Info("CRM worker stopped")
			return nil
		case d, ok := <-msgs:
			if !ok {
				return nil
			}
			if err := w.Handle(ctx, d.Body); err != nil {
				// poison or failed sync, straight to the DLQ
				d.Nack(false, false)
				continue
			}
			d.Ack(false)
		}
	}
}

// Handle decodes one message and syncs it to the CRM.
func (w *Worker) Handle(ctx context.Context, body []byte) error {
	var payload LeadCapturedPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		w.Log.WithError(err).Error("❌ [WORKER] invalid JSON")
		return err
	}

	log := w.Log.WithField("lead_id", payload.LeadID)

	if w.CRM == nil {
		log.Warn("no CRM configured, dropping lead event")
		return nil
	}

	if err := w.CRM.SyncLead(ctx, payload); err != nil {
		log.WithError(err).Error("❌ [WORKER] CRM sync failed")
		return err
	}

	log.Info("✅ [WORKER] lead synced to CRM")
	return nil
}
