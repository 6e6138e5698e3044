// Package syncer implements the incremental mirror: it walks remote
// directory trees, decides per file whether a download is needed, and
// aggregates per-path failures without aborting the run.
package syncer

import (
	"context"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"wabackup/internal/manifest"
)

// Engine mirrors remote trees below localBase. One Engine drives one run;
// it owns the manifest and stats for the duration of that run.
type Engine struct {
	source      Source
	manifest    *manifest.Manifest
	localBase   string
	concurrency int
	dryRun      bool

	mu    sync.Mutex
	wg    sync.WaitGroup
	sem   chan struct{}
	stats *Stats
}

type Option func(*Engine)

// WithConcurrency bounds the number of parallel downloads. The default of 1
// keeps downloads strictly sequential.
func WithConcurrency(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.concurrency = n
		}
	}
}

// WithDryRun makes the engine walk and classify without downloading anything
// or touching the manifest.
func WithDryRun(dryRun bool) Option {
	return func(e *Engine) {
		e.dryRun = dryRun
	}
}

func New(source Source, m *manifest.Manifest, localBase string, opts ...Option) *Engine {
	e := &Engine{
		source:      source,
		manifest:    m,
		localBase:   localBase,
		concurrency: 1,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run walks every root in order and returns the accumulated stats. Failures
// below a root are recorded as soft errors; Run itself never fails.
func (e *Engine) Run(ctx context.Context, roots []string) *Stats {
	e.stats = &Stats{StartedAt: time.Now()}
	e.sem = make(chan struct{}, e.concurrency)

	for _, root := range roots {
		e.walk(ctx, root)
	}
	e.wg.Wait()

	return e.stats
}

// walk traverses one root depth-first using an explicit directory stack, so
// pathological tree depth cannot exhaust the goroutine stack. Subdirectories
// are pushed in reverse so the first-listed child is visited next.
func (e *Engine) walk(ctx context.Context, root string) {
	stack := []string{root}

	for len(stack) > 0 {
		dir := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		log.Info().Str("path", dir).Msg("scanning")

		entries, err := e.source.List(ctx, dir)
		if err != nil {
			log.Error().Err(err).Str("path", dir).Msg("listing failed")
			e.recordError("List failed: " + dir)
			continue
		}

		var subdirs []string
		base := path.Base(dir)
		for _, entry := range entries {
			// Some servers echo the directory itself in its own listing.
			if entry.Name == "" || entry.Name == base {
				continue
			}

			remotePath := path.Join(dir, entry.Name)
			localPath := e.localPath(remotePath)

			if entry.IsDir {
				if !e.dryRun {
					if err := os.MkdirAll(localPath, 0o755); err != nil {
						log.Error().Err(err).Str("path", localPath).Msg("mkdir failed")
						e.recordError("Mkdir failed: " + remotePath)
						continue
					}
				}
				subdirs = append(subdirs, remotePath)
				continue
			}

			e.handleFile(ctx, remotePath, localPath, entry.Size)
		}

		for i := len(subdirs) - 1; i >= 0; i-- {
			stack = append(stack, subdirs[i])
		}
	}
}

// localPath maps a remote path to its mirror location: localBase joined with
// the remote path stripped of its leading separator. The mapping is
// deterministic, every remote path has exactly one mirror path.
func (e *Engine) localPath(remotePath string) string {
	return filepath.Join(e.localBase, filepath.FromSlash(strings.TrimPrefix(remotePath, "/")))
}

func (e *Engine) handleFile(ctx context.Context, remotePath, localPath string, size int64) {
	e.mu.Lock()
	e.stats.FilesFound++
	download, reason := Decide(remotePath, localPath, size, e.manifest)
	e.mu.Unlock()

	if !download {
		log.Debug().Str("path", remotePath).Msg("unchanged, skipping")
		e.mu.Lock()
		e.stats.FilesSkipped++
		e.mu.Unlock()
		return
	}

	if e.dryRun {
		log.Info().Str("path", remotePath).Str("reason", string(reason)).Msg("would download")
		e.mu.Lock()
		e.stats.FilesPlanned++
		e.stats.BytesPlanned += size
		e.mu.Unlock()
		return
	}

	if e.concurrency <= 1 {
		e.download(ctx, remotePath, localPath, size, reason)
		return
	}

	e.wg.Add(1)
	e.sem <- struct{}{}
	go func() {
		defer e.wg.Done()
		defer func() { <-e.sem }()
		e.download(ctx, remotePath, localPath, size, reason)
	}()
}

// download fetches one file and, on success, updates stats and upserts the
// manifest entry. On failure the manifest stays untouched for this path so
// the next run retries it.
func (e *Engine) download(ctx context.Context, remotePath, localPath string, size int64, reason Reason) {
	log.Info().Str("path", remotePath).Str("reason", string(reason)).Msg("downloading")

	if err := os.MkdirAll(filepath.Dir(localPath), 0o755); err != nil {
		log.Error().Err(err).Str("path", remotePath).Msg("download failed")
		e.recordError("Download failed: " + remotePath)
		return
	}

	if err := e.source.Download(ctx, remotePath, localPath); err != nil {
		log.Error().Err(err).Str("path", remotePath).Msg("download failed")
		e.recordError("Download failed: " + remotePath)
		return
	}

	e.mu.Lock()
	e.stats.FilesDownloaded++
	e.stats.BytesDownloaded += size
	e.manifest.Record(remotePath, size, time.Now())
	e.mu.Unlock()
}

func (e *Engine) recordError(msg string) {
	e.mu.Lock()
	e.stats.Errors = append(e.stats.Errors, msg)
	e.mu.Unlock()
}
