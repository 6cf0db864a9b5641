// Package geoip keeps a MaxMind GeoLite2 country database up to date and reads it.
package geoip

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/woozymasta/dstone/internal/config"
)

// EnsureDB downloads the database when it is missing or older than cfg.Interval.
func EnsureDB(ctx context.Context, cfg config.GeoIP) error {
	info, err := os.Stat(cfg.Path)
	switch {
	case err == nil && time.Since(info.ModTime()) < cfg.Interval:
		log.Info().Str("path", cfg.Path).Msg("GeoIP database is up to date")
		return nil
	case err == nil:
		log.Info().Str("path", cfg.Path).Msg("GeoIP database is outdated, updating...")
	case os.IsNotExist(err):
		log.Info().Str("path", cfg.Path).Msg("GeoIP database missing, downloading...")
	default:
		return err
	}

	return download(ctx, cfg.URL, cfg.Path)
}

// download fetches url into a temporary file and renames it over path.
func download(ctx context.Context, url, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download %s: status %d", url, resp.StatusCode)
	}

	tmpPath := path + ".tmp"
	out, err := os.Create(tmpPath)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, resp.Body); err != nil {
		_ = out.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}

	return os.Rename(tmpPath, path)
}
