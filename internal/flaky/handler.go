package flaky

import (
	"log/slog"
	"math/rand/v2"
	"net/http"
	"sync/atomic"
	"time"
)

// Handler answers 500 to its first failCount requests and 202 afterwards.
type Handler struct {
	failCount int64
	maxDelay  time.Duration
	requests  atomic.Int64
	logger    *slog.Logger
	delay     func(bound time.Duration) time.Duration
}

// NewHandler creates a handler. A zero maxDelay answers immediately.
func NewHandler(failCount int, maxDelay time.Duration, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}

	return &Handler{
		failCount: int64(failCount),
		maxDelay:  maxDelay,
		logger:    logger,
		delay:     randomDelay,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.maxDelay > 0 {
		timer := time.NewTimer(h.delay(h.maxDelay))
		defer timer.Stop()

		select {
		case <-r.Context().Done():
			h.logger.Debug("Client went away before response", slog.String("from", r.RemoteAddr))
			return
		case <-timer.C:
		}
	}

	n := h.requests.Add(1)

	status := http.StatusAccepted
	if n <= h.failCount {
		status = http.StatusInternalServerError
	}

	h.logger.Info("Received a request",
		slog.String("from", r.RemoteAddr),
		slog.Int64("request", n),
		slog.Int("status", status))

	w.WriteHeader(status)
}

// Requests returns how many requests have been answered.
func (h *Handler) Requests() int64 {
	return h.requests.Load()
}

func randomDelay(bound time.Duration) time.Duration {
	return time.Duration(rand.Int64N(int64(bound)))
}
