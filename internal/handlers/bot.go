package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/BorisDmv/tweetbot/internal/metrics"
	"github.com/BorisDmv/tweetbot/internal/models"
	"github.com/BorisDmv/tweetbot/internal/schedule"
)

// CronHeader marks invocations made by the platform scheduler.
const CronHeader = "X-Vercel-Cron"

const (
	msgPosted     = "Tweet posted successfully"
	msgTestPosted = "Test tweet posted successfully"
	msgNotYet     = "Not time to post yet"
	msgActive     = "Bot is active"
)

type Generator interface {
	Generate(ctx context.Context) (string, error)
}

type Publisher interface {
	Publish(ctx context.Context, text string) (*models.PublishResult, error)
}

// TimestampStore persists the time of the last successful post.
type TimestampStore interface {
	LastPostTime(ctx context.Context) string
	UpdateLastPostTime(ctx context.Context, value string) bool
}

type BotHandler struct {
	generator Generator
	publisher Publisher
	store     TimestampStore
	metrics   *metrics.Metrics
	logger    *logrus.Logger
	source    schedule.Source
	now       func() time.Time
}

func NewBotHandler(generator Generator, publisher Publisher, store TimestampStore, m *metrics.Metrics, logger *logrus.Logger) *BotHandler {
	return &BotHandler{
		generator: generator,
		publisher: publisher,
		store:     store,
		metrics:   m,
		logger:    logger,
		source:    schedule.DefaultSource,
		now:       time.Now,
	}
}

// ServeHTTP dispatches to exactly one branch: scheduled trigger, manual
// test, or status.
func (h *BotHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.Header.Get(CronHeader) != "":
		h.scheduled(w, r)
	case r.URL.Query().Get("test") == "true":
		h.manual(w, r)
	default:
		respondJSON(w, http.StatusOK, models.StatusResponse{Status: msgActive})
	}
}

func (h *BotHandler) scheduled(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	lastPostTime := h.store.LastPostTime(ctx)
	if lastPostTime != "" {
		if _, err := schedule.ParseTimestamp(lastPostTime); err != nil {
			h.logger.WithError(err).WithField("last_post_time", lastPostTime).Warn("Stored last post time is unreadable; treating as first run")
		}
	}

	if !schedule.ShouldPost(lastPostTime, h.now(), h.source) {
		h.metrics.Skipped()
		h.logger.WithField("last_post_time", lastPostTime).Debug("Not time to post yet")
		respondJSON(w, http.StatusOK, models.BotResponse{Success: true, Message: msgNotYet})
		return
	}

	text, result, err := h.post(ctx)
	if err != nil {
		h.logger.WithError(err).Error("Error in cron job")
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.metrics.Posted(metrics.TriggerCron)
	respondJSON(w, http.StatusOK, models.BotResponse{Success: true, Message: msgPosted, Tweet: text, Result: result})
}

func (h *BotHandler) manual(w http.ResponseWriter, r *http.Request) {
	text, result, err := h.post(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Error in test post")
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.metrics.Posted(metrics.TriggerManual)
	respondJSON(w, http.StatusOK, models.BotResponse{Success: true, Message: msgTestPosted, Tweet: text, Result: result})
}

// post runs generate, publish and record in order. A failed record is
// logged by the store and does not fail the post.
func (h *BotHandler) post(ctx context.Context) (string, *models.PublishResult, error) {
	text, err := h.generator.Generate(ctx)
	if err != nil {
		h.metrics.Failed(metrics.StageGenerate)
		return "", nil, err
	}
	result, err := h.publisher.Publish(ctx, text)
	if err != nil {
		h.metrics.Failed(metrics.StagePublish)
		return "", nil, err
	}
	postedAt := schedule.FormatTimestamp(h.now())
	_ = h.store.UpdateLastPostTime(ctx, postedAt)

	fields := logrus.Fields{"posted_at": postedAt}
	if result != nil {
		fields["tweet_id"] = result.ID
	}
	h.logger.WithFields(fields).Info("Tweet posted")
	return text, result, nil
}

// Health reports liveness without touching any collaborator.
func Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, models.BotResponse{Success: false, Error: message})
}
