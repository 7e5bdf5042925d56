package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"testing"

	"screensaver-bot/internal/database"
	"screensaver-bot/internal/media"
)

type stubCredentialStore struct {
	cfg *database.TelegramConfig
}

func (s *stubCredentialStore) GetTelegramConfig() (*database.TelegramConfig, error) {
	if s.cfg == nil {
		return nil, database.ErrNotConfigured
	}
	return s.cfg, nil
}

func photoUpdate(chatID string, photos ...TelegramPhoto) Update {
	return Update{
		Message: &TelegramMessage{
			Chat:  TelegramChat{ID: json.Number(chatID)},
			Photo: photos,
		},
	}
}

func countFiles(t *testing.T, dir string) int {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return 0
	}
	if err != nil {
		t.Fatalf("read dir %s failed: %v", dir, err)
	}
	return len(entries)
}

func TestProcessUpdateSavesLargestPhoto(t *testing.T) {
	// Only file_id "b" is resolvable; picking "a" would fail the download.
	srv := newBotAPIServer(t, "123:abc", "b", "photos/big.jpg", testJPEG(t))

	store := media.NewStore(t.TempDir())
	p := NewProcessor(
		&stubCredentialStore{cfg: &database.TelegramConfig{BotToken: "123:abc", ChatID: "-100", Enabled: true}},
		store,
		NewTelegramClientWithBase(srv.URL),
	)

	update := photoUpdate("-100",
		TelegramPhoto{FileID: "a", FileSize: 100},
		TelegramPhoto{FileID: "b", FileSize: 5000},
	)

	result, err := p.ProcessUpdate(context.Background(), update)
	if err != nil {
		t.Fatalf("ProcessUpdate() failed: %v", err)
	}
	if result != ResultSaved {
		t.Errorf("result = %q, want %q", result, ResultSaved)
	}

	if n := countFiles(t, store.ImagesDir()); n != 1 {
		t.Errorf("%d stored images, want 1", n)
	}
	if n := countFiles(t, store.PreviewsDir()); n != 1 {
		t.Errorf("%d previews, want 1", n)
	}
}

func TestProcessUpdateChannelPost(t *testing.T) {
	srv := newBotAPIServer(t, "123:abc", "c", "photos/post.jpg", testJPEG(t))

	store := media.NewStore(t.TempDir())
	p := NewProcessor(
		&stubCredentialStore{cfg: &database.TelegramConfig{BotToken: "123:abc", ChatID: "-100", Enabled: true}},
		store,
		NewTelegramClientWithBase(srv.URL),
	)

	update := Update{
		ChannelPost: &TelegramMessage{
			Chat:  TelegramChat{ID: json.Number("-100")},
			Photo: []TelegramPhoto{{FileID: "c", FileSize: 42}},
		},
	}

	result, err := p.ProcessUpdate(context.Background(), update)
	if err != nil {
		t.Fatalf("ProcessUpdate() failed: %v", err)
	}
	if result != ResultSaved {
		t.Errorf("result = %q, want %q", result, ResultSaved)
	}
}

func TestProcessUpdateNotConfigured(t *testing.T) {
	p := NewProcessor(&stubCredentialStore{}, media.NewStore(t.TempDir()), NewTelegramClient())

	_, err := p.ProcessUpdate(context.Background(), photoUpdate("-100", TelegramPhoto{FileID: "a"}))
	if !errors.Is(err, database.ErrNotConfigured) {
		t.Errorf("ProcessUpdate() = %v, want ErrNotConfigured", err)
	}
}

func TestProcessUpdateIgnoredCases(t *testing.T) {
	cfg := &database.TelegramConfig{BotToken: "123:abc", ChatID: "-100", Enabled: true}

	tests := []struct {
		name   string
		cfg    *database.TelegramConfig
		update Update
	}{
		{
			name:   "Disabled credential",
			cfg:    &database.TelegramConfig{BotToken: "123:abc", ChatID: "-100", Enabled: false},
			update: photoUpdate("-100", TelegramPhoto{FileID: "a", FileSize: 1}),
		},
		{
			name:   "Wrong chat id",
			cfg:    cfg,
			update: photoUpdate("-999", TelegramPhoto{FileID: "a", FileSize: 1}),
		},
		{
			name:   "No message at all",
			cfg:    cfg,
			update: Update{},
		},
		{
			name:   "Message without photos",
			cfg:    cfg,
			update: photoUpdate("-100"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := media.NewStore(t.TempDir())
			p := NewProcessor(&stubCredentialStore{cfg: tt.cfg}, store, NewTelegramClient())

			result, err := p.ProcessUpdate(context.Background(), tt.update)
			if err != nil {
				t.Fatalf("ProcessUpdate() failed: %v", err)
			}
			if result != ResultIgnored {
				t.Errorf("result = %q, want %q", result, ResultIgnored)
			}
			if n := countFiles(t, store.ImagesDir()); n != 0 {
				t.Errorf("%d images stored for an ignored update", n)
			}
		})
	}
}

func TestProcessUpdateDownloadFailure(t *testing.T) {
	// Server knows no file ids: every download fails.
	srv := newBotAPIServer(t, "123:abc", "known", "photos/x.jpg", nil)

	store := media.NewStore(t.TempDir())
	p := NewProcessor(
		&stubCredentialStore{cfg: &database.TelegramConfig{BotToken: "123:abc", ChatID: "-100", Enabled: true}},
		store,
		NewTelegramClientWithBase(srv.URL),
	)

	_, err := p.ProcessUpdate(context.Background(),
		photoUpdate("-100", TelegramPhoto{FileID: "unknown", FileSize: 10}))
	if !errors.Is(err, ErrTransport) {
		t.Errorf("ProcessUpdate() = %v, want ErrTransport", err)
	}
	if n := countFiles(t, store.ImagesDir()); n != 0 {
		t.Errorf("%d images stored despite download failure", n)
	}
}
