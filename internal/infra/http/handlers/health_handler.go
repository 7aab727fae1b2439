package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

// Pinger is any dependency that can report its own reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a plain function, e.g. (*sql.DB).PingContext.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

type HealthHandler struct {
	Storage       Pinger
	StorageDriver string
	RabbitMQ      *amqp091.Connection
	StartTime     time.Time
	Version       string
}

type HealthResponse struct {
	Status       string            `json:"status"`
	Version      string            `json:"version"`
	Uptime       string            `json:"uptime"`
	Dependencies map[string]string `json:"dependencies"`
}

func NewHealthHandler(storage Pinger, storageDriver string, rabbitMQ *amqp091.Connection) *HealthHandler {
	return &HealthHandler{
		Storage:       storage,
		StorageDriver: storageDriver,
		RabbitMQ:      rabbitMQ,
		StartTime:     time.Now(),
		Version:       "1.0.0",
	}
}

func (h *HealthHandler) Handle(w http.ResponseWriter, r *http.Request) {
	deps := make(map[string]string)

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	storageKey := "storage"
	if h.StorageDriver != "" {
		storageKey = "storage_" + h.StorageDriver
	}
	if h.Storage != nil {
		if err := h.Storage.Ping(ctx); err != nil {
			deps[storageKey] = fmt.Sprintf("unhealthy: %v", err)
		} else {
			deps[storageKey] = "healthy"
		}
	} else {
		deps[storageKey] = "healthy"
	}

	if h.RabbitMQ != nil {
		if h.RabbitMQ.IsClosed() {
			deps["rabbitmq"] = "unhealthy: connection closed"
		} else {
			deps["rabbitmq"] = "healthy"
		}
	} else {
		deps["rabbitmq"] = "not configured"
	}

	status := "healthy"
	for _, v := range deps {
		if v != "healthy" && v != "not configured" {
			status = "degraded"
			break
		}
	}

	code := http.StatusOK
	if status == "degraded" {
		code = http.StatusServiceUnavailable
	}

	writeJSON(w, code, HealthResponse{
		Status:       status,
		Version:      h.Version,
		Uptime:       time.Since(h.StartTime).Round(time.Second).String(),
		Dependencies: deps,
	})
}
