// Package webdav adapts a WebDAV share to the syncer's Source capability.
package webdav

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/studio-b12/gowebdav"

	appConfig "wabackup/config"
	"wabackup/internal/syncer"
)

type Client struct {
	dav    *gowebdav.Client
	config *appConfig.Config
}

func New(cfg *appConfig.Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("webdav endpoint is not configured (set WEBDAV_URL)")
	}

	dav := gowebdav.NewClient(Endpoint(cfg.BaseURL, cfg.RemoteRoot), cfg.Username, cfg.Password)
	return &Client{dav: dav, config: cfg}, nil
}

// Endpoint joins the server URL with the share root, normalizing slashes.
func Endpoint(baseURL, root string) string {
	baseURL = strings.TrimRight(baseURL, "/")
	root = strings.Trim(root, "/")
	if root == "" {
		return baseURL
	}
	return baseURL + "/" + root
}

// SetTimeout bounds every request issued by the underlying client.
func (c *Client) SetTimeout(timeout time.Duration) {
	c.dav.SetTimeout(timeout)
}

// Ping verifies connectivity and credentials by listing the share root. It
// is called once before any walk; an error here is fatal for the run.
func (c *Client) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := c.dav.ReadDir("/"); err != nil {
		return fmt.Errorf("webdav connection check failed: %w", err)
	}
	return nil
}

// List returns the entries of a remote directory in server order.
func (c *Client) List(ctx context.Context, dir string) ([]syncer.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	infos, err := c.dav.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}

	entries := make([]syncer.Entry, 0, len(infos))
	for _, info := range infos {
		entries = append(entries, syncer.Entry{
			Name:  info.Name(),
			IsDir: info.IsDir(),
			Size:  info.Size(),
		})
	}
	return entries, nil
}

// Download streams a remote file into localPath. The content goes to a
// temporary file in the target directory first and is renamed into place
// once fully written, so an interrupted transfer never leaves a truncated
// file that looks complete.
func (c *Client) Download(ctx context.Context, remotePath, localPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	reader, err := c.dav.ReadStream(remotePath)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", remotePath, err)
	}
	defer reader.Close()

	tmp, err := os.CreateTemp(filepath.Dir(localPath), filepath.Base(localPath)+".partial-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file for %s: %w", remotePath, err)
	}

	if _, err := io.Copy(tmp, reader); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to download %s: %w", remotePath, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to finalize %s: %w", remotePath, err)
	}
	if err := os.Rename(tmp.Name(), localPath); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to move %s into place: %w", remotePath, err)
	}
	return nil
}
