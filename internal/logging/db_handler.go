package logging

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/ahmetcoskunkizilkaya/finovo/internal/models"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	batchSize     = 50
	flushInterval = 5 * time.Second
)

var defaultErrOut io.Writer = os.Stderr

// sink is shared by a DBHandler and every handler derived from it through
// WithAttrs, so there is one buffer and one flush loop.
type sink struct {
	db       *gorm.DB
	mu       sync.Mutex
	buffer   []models.SystemLog
	kick     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// DBHandler batches ERROR+ records into the system_logs table.
type DBHandler struct {
	sink  *sink
	attrs []slog.Attr
}

func NewDBHandler(db *gorm.DB) *DBHandler {
	return newDBHandler(db, flushInterval)
}

func newDBHandler(db *gorm.DB, interval time.Duration) *DBHandler {
	s := &sink{
		db:     db,
		buffer: make([]models.SystemLog, 0, batchSize),
		kick:   make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
	s.wg.Add(1)
	go s.flushLoop(interval)
	return &DBHandler{sink: s}
}

func (s *sink) flushLoop(interval time.Duration) {
	defer s.wg.Done()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.flush()
		case <-s.kick:
			s.flush()
		case <-s.done:
			s.flush()
			return
		}
	}
}

func (s *sink) flush() {
	s.mu.Lock()
	if len(s.buffer) == 0 {
		s.mu.Unlock()
		return
	}
	batch := s.buffer
	s.buffer = make([]models.SystemLog, 0, batchSize)
	s.mu.Unlock()

	// Written to stderr instead of slog: a failing insert must not feed
	// itself back into this handler.
	if err := s.db.CreateInBatches(batch, batchSize).Error; err != nil {
		fmt.Fprintf(defaultErrOut, "failed to flush %d system logs: %v\n", len(batch), err)
	}
}

// Stop flushes what is buffered and ends the flush loop. Safe to call twice.
func (h *DBHandler) Stop() {
	h.sink.stopOnce.Do(func() { close(h.sink.done) })
	h.sink.wg.Wait()
}

func (h *DBHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= slog.LevelError
}

func (h *DBHandler) Handle(_ context.Context, record slog.Record) error {
	entry := models.SystemLog{
		ID:        uuid.New(),
		Timestamp: record.Time.UTC(),
		Level:     record.Level.String(),
		Message:   record.Message,
	}

	extra := make(map[string]any)
	apply := func(a slog.Attr) bool {
		switch a.Key {
		case "request_id", "requestid":
			entry.RequestID = a.Value.String()
		case "user_id":
			s := a.Value.String()
			entry.UserID = &s
		case "action":
			entry.Action = a.Value.String()
		case "error":
			entry.Error = a.Value.String()
		default:
			extra[a.Key] = a.Value.Resolve().Any()
		}
		return true
	}
	for _, a := range h.attrs {
		apply(a)
	}
	record.Attrs(apply)

	if len(extra) > 0 {
		if b, err := json.Marshal(extra); err == nil {
			entry.Extra = datatypes.JSON(b)
		}
	}

	h.sink.mu.Lock()
	h.sink.buffer = append(h.sink.buffer, entry)
	needFlush := len(h.sink.buffer) >= batchSize
	h.sink.mu.Unlock()

	if needFlush {
		// All writes happen on the flush loop, which Stop waits for.
		select {
		case h.sink.kick <- struct{}{}:
		default:
		}
	}
	return nil
}

func (h *DBHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &DBHandler{sink: h.sink, attrs: merged}
}

// WithGroup is a no-op; system_logs columns are flat.
func (h *DBHandler) WithGroup(string) slog.Handler {
	return h
}
