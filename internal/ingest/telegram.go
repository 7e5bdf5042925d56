package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"screensaver-bot/internal/logging"
)

const (
	telegramAPIBase = "https://api.telegram.org"

	// Resolution is a small JSON exchange; downloads move real bytes.
	resolveTimeout  = 10 * time.Second
	downloadTimeout = 30 * time.Second
)

// TelegramClient talks to the Telegram bot file API: resolve a file_id to a
// transient path, then download the bytes.
type TelegramClient struct {
	baseURL        string
	resolveClient  *http.Client
	downloadClient *http.Client
}

// NewTelegramClient creates a client against the public Telegram API.
func NewTelegramClient() *TelegramClient {
	return NewTelegramClientWithBase(telegramAPIBase)
}

// NewTelegramClientWithBase creates a client against an alternate API base
// URL; tests point this at a local httptest server.
func NewTelegramClientWithBase(baseURL string) *TelegramClient {
	return &TelegramClient{
		baseURL:        baseURL,
		resolveClient:  &http.Client{Timeout: resolveTimeout},
		downloadClient: &http.Client{Timeout: downloadTimeout},
	}
}

// getFileResponse is the envelope of the bot getFile method.
type getFileResponse struct {
	OK     bool `json:"ok"`
	Result struct {
		FilePath string `json:"file_path"`
	} `json:"result"`
}

// DownloadImage downloads a photo by file_id and returns its raw bytes.
func (c *TelegramClient) DownloadImage(ctx context.Context, botToken, fileID string) ([]byte, error) {
	// Step 1: resolve file_id to a transient file_path
	resolveURL := fmt.Sprintf("%s/bot%s/getFile?file_id=%s",
		c.baseURL, botToken, url.QueryEscape(fileID))
	logging.Debug("Resolving file_id=%s", fileID)

	body, err := c.get(ctx, c.resolveClient, resolveURL)
	if err != nil {
		return nil, fmt.Errorf("resolving file_id %s: %w", fileID, err)
	}

	var resolved getFileResponse
	if err := json.Unmarshal(body, &resolved); err != nil {
		return nil, fmt.Errorf("%w: decoding getFile response: %v", ErrTransport, err)
	}
	if !resolved.OK || resolved.Result.FilePath == "" {
		return nil, fmt.Errorf("%w: getFile rejected file_id %s", ErrTransport, fileID)
	}
	logging.Debug("Resolved file_id=%s -> file_path=%s", fileID, resolved.Result.FilePath)

	// Step 2: download the file bytes
	downloadURL := fmt.Sprintf("%s/file/bot%s/%s", c.baseURL, botToken, resolved.Result.FilePath)
	data, err := c.get(ctx, c.downloadClient, downloadURL)
	if err != nil {
		return nil, fmt.Errorf("downloading %s: %w", resolved.Result.FilePath, err)
	}

	logging.Info("Downloaded Telegram image: %s (%.1f KB)",
		resolved.Result.FilePath, float64(len(data))/1024)
	return data, nil
}

func (c *TelegramClient) get(ctx context.Context, client *http.Client, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: building request: %v", ErrTransport, err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d", ErrTransport, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %v", ErrTransport, err)
	}
	return data, nil
}
