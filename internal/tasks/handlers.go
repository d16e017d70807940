package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/hugh/buddy-tracker/internal/repository"
)

type Handler struct {
	tasks  *repository.TaskRepository
	logger *slog.Logger
	now    func() time.Time
}

func NewHandler(tasks *repository.TaskRepository, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Handler{
		tasks:  tasks,
		logger: logger,
		now:    time.Now,
	}
}

func (h *Handler) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(TypeMarkOverdue, h.HandleMarkOverdue)
}

// HandleMarkOverdue moves pending and in-progress tasks whose due date has
// passed to overdue.
func (h *Handler) HandleMarkOverdue(ctx context.Context, t *asynq.Task) error {
	var payload MarkOverduePayload
	if len(t.Payload()) > 0 {
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return fmt.Errorf("unmarshal payload: %w", err)
		}
	}

	asOf := payload.AsOf
	if asOf.IsZero() {
		asOf = h.now()
	}

	n, err := h.tasks.MarkOverdue(ctx, asOf)
	if err != nil {
		h.logger.Error("mark overdue failed", "error", err)
		return err
	}

	h.logger.Info("marked tasks overdue", "count", n, "as_of", asOf.UTC())
	return nil
}
