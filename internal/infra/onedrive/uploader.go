// Package onedrive uploads segment files to a OneDrive folder through the
// Microsoft Graph API.
package onedrive

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

const maxErrorBody = 4 << 10

type UploaderConfig struct {
	BaseURL     string // e.g. https://graph.microsoft.com/v1.0/me/drive
	FolderID    string
	AccessToken string
	ContentType string // e.g. video/mp4
}

// Uploader PUTs whole files to
// <BaseURL>/items/<FolderID>:/<name>:/content. The file is a single logical
// payload; Graph reports 201 for new files and 200 for replacements, both
// are success.
type Uploader struct {
	cfg    UploaderConfig
	client *http.Client
	logger *zap.Logger
}

func NewUploader(cfg UploaderConfig, logger *zap.Logger) *Uploader {
	return &Uploader{
		cfg: cfg,
		client: &http.Client{
			Timeout: 10 * time.Minute,
		},
		logger: logger,
	}
}

func (u *Uploader) Upload(ctx context.Context, path string) (int64, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open upload file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return 0, fmt.Errorf("stat upload file: %w", err)
	}

	name := filepath.Base(path)
	url := fmt.Sprintf("%s/items/%s:/%s:/content", u.cfg.BaseURL, u.cfg.FolderID, name)

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, file)
	if err != nil {
		return 0, fmt.Errorf("build upload request: %w", err)
	}
	req.ContentLength = info.Size()
	req.Header.Set("Authorization", "Bearer "+u.cfg.AccessToken)
	req.Header.Set("Content-Type", u.cfg.ContentType)

	resp, err := u.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("upload %s: %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return 0, fmt.Errorf("upload %s: remote status %d: %s", name, resp.StatusCode, string(body))
	}

	u.logger.Info("uploaded to onedrive",
		zap.String("file", name),
		zap.Int64("bytes", info.Size()),
		zap.Int("status", resp.StatusCode),
	)

	return info.Size(), nil
}
