package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"

	"screensaver-bot/internal/database"
	"screensaver-bot/internal/logging"
	"screensaver-bot/internal/media"
	"screensaver-bot/internal/metrics"
)

// Update is the subset of a Telegram webhook update this application cares
// about. Photos arrive either as a private message or a channel post.
type Update struct {
	Message     *TelegramMessage `json:"message"`
	ChannelPost *TelegramMessage `json:"channel_post"`
}

// TelegramMessage carries the originating chat and the photo candidates.
type TelegramMessage struct {
	Chat  TelegramChat    `json:"chat"`
	Photo []TelegramPhoto `json:"photo"`
}

// TelegramChat identifies the chat an update came from. Chat ids are large
// integers on the wire; json.Number keeps the comparison lossless.
type TelegramChat struct {
	ID json.Number `json:"id"`
}

// TelegramPhoto is one resolution candidate of a photo. Telegram supplies
// several; the largest declared size wins.
type TelegramPhoto struct {
	FileID   string `json:"file_id"`
	FileSize int64  `json:"file_size"`
}

// message returns whichever of message/channel_post is present.
func (u *Update) message() *TelegramMessage {
	if u.Message != nil {
		return u.Message
	}
	return u.ChannelPost
}

// Result classifies the outcome of processing one webhook update.
type Result string

const (
	// ResultSaved means a photo was normalized and stored.
	ResultSaved Result = "saved"
	// ResultIgnored means the update was valid but intentionally produced
	// nothing: disabled credential, foreign chat, or no photo.
	ResultIgnored Result = "ignored"
)

// CredentialStore is the part of the database the webhook path needs.
// Satisfied by *database.Database.
type CredentialStore interface {
	GetTelegramConfig() (*database.TelegramConfig, error)
}

// Processor handles inbound Telegram webhook updates.
type Processor struct {
	db     CredentialStore
	store  *media.Store
	client *TelegramClient
}

// NewProcessor creates a webhook update processor.
func NewProcessor(db CredentialStore, store *media.Store, client *TelegramClient) *Processor {
	return &Processor{
		db:     db,
		store:  store,
		client: client,
	}
}

// ProcessUpdate validates the update against the configured credential and,
// when it carries a photo from the expected chat, runs the largest candidate
// through the pipeline.
//
// Updates that must not produce an image return (ResultIgnored, nil) so the
// caller can acknowledge them; an error response would just make Telegram
// retry the same delivery. A missing credential is the exception: that is an
// operator problem and surfaces as database.ErrNotConfigured.
func (p *Processor) ProcessUpdate(ctx context.Context, update Update) (Result, error) {
	cfg, err := p.db.GetTelegramConfig()
	if err != nil {
		if errors.Is(err, database.ErrNotConfigured) {
			logging.Error("Telegram source is not configured")
		}
		metrics.WebhookUpdatesTotal.WithLabelValues("error").Inc()
		return ResultIgnored, err
	}

	if !cfg.Enabled {
		logging.Debug("Telegram source is disabled, ignoring update")
		metrics.WebhookUpdatesTotal.WithLabelValues("ignored").Inc()
		return ResultIgnored, nil
	}

	msg := update.message()
	if msg == nil {
		logging.Debug("Update contains no message or channel_post, ignoring")
		metrics.WebhookUpdatesTotal.WithLabelValues("ignored").Inc()
		return ResultIgnored, nil
	}

	chatID := msg.Chat.ID.String()
	if chatID != cfg.ChatID {
		logging.Warn("Rejected update from unexpected chat_id=%s (expected %s)", chatID, cfg.ChatID)
		metrics.WebhookUpdatesTotal.WithLabelValues("ignored").Inc()
		return ResultIgnored, nil
	}

	if len(msg.Photo) == 0 {
		logging.Debug("Message from chat_id=%s has no photos, ignoring", chatID)
		metrics.WebhookUpdatesTotal.WithLabelValues("ignored").Inc()
		return ResultIgnored, nil
	}

	best := msg.Photo[0]
	for _, candidate := range msg.Photo[1:] {
		if candidate.FileSize > best.FileSize {
			best = candidate
		}
	}
	logging.Debug("Processing photo: file_id=%s file_size=%d", best.FileID, best.FileSize)

	if err := p.ingestPhoto(ctx, cfg.BotToken, best.FileID); err != nil {
		logging.Error("Failed to process photo file_id=%s: %v", best.FileID, err)
		metrics.WebhookUpdatesTotal.WithLabelValues("error").Inc()
		return ResultIgnored, err
	}

	metrics.WebhookUpdatesTotal.WithLabelValues("saved").Inc()
	return ResultSaved, nil
}

func (p *Processor) ingestPhoto(ctx context.Context, botToken, fileID string) error {
	data, err := p.client.DownloadImage(ctx, botToken, fileID)
	if err != nil {
		return err
	}

	imagePath, err := p.store.SaveImage(data)
	if err != nil {
		return err
	}
	metrics.ImagesSavedTotal.WithLabelValues("telegram").Inc()

	if _, err := p.store.GeneratePreview(imagePath); err != nil {
		return err
	}

	logging.Info("Telegram image saved: %s (%d bytes in)", filepath.Base(imagePath), len(data))
	return nil
}
