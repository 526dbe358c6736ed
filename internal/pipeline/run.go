// Package pipeline provides the high-level orchestration for the weekly menu job.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gyo-lab/weeklymenu/internal/config"
	"github.com/gyo-lab/weeklymenu/internal/fetch"
	"github.com/gyo-lab/weeklymenu/internal/listing"
	"github.com/gyo-lab/weeklymenu/internal/menu"
	"github.com/gyo-lab/weeklymenu/internal/observability"
	"github.com/gyo-lab/weeklymenu/internal/pipeline/steps"
	"github.com/gyo-lab/weeklymenu/internal/publish"
	"github.com/gyo-lab/weeklymenu/internal/render"
	"github.com/gyo-lab/weeklymenu/internal/types"
)

// ProgressEvent represents a progress update during pipeline execution
type ProgressEvent struct {
	Step     string `json:"step"`
	Category string `json:"category"`
	Message  string `json:"message"`
	RunID    string `json:"run_id,omitempty"`
	Content  any    `json:"content,omitempty"`
}

// ProgressCallback is called when pipeline progress occurs
type ProgressCallback func(event ProgressEvent)

// Scanner finds the menu post and its download URL.
type Scanner interface {
	Scan(ctx context.Context) (*listing.Match, error)
}

// Downloader writes a remote document to a local path.
type Downloader interface {
	Download(ctx context.Context, url, path string) (int64, error)
}

// Renderer rasterizes page one of a document.
type Renderer interface {
	FirstPage(ctx context.Context, pdfPath, outPath string) (bool, error)
}

// Extractor writes the MenuRecord JSON for a document.
type Extractor interface {
	ExtractFile(ctx context.Context, pdfPath, outPath string) (*types.MenuRecord, error)
}

// Publisher uploads a local file to the remote repository.
type Publisher interface {
	Publish(ctx context.Context, localPath string) (publish.Action, error)
}

// Deps holds the stage implementations for a run.
type Deps struct {
	Scanner   Scanner
	Fetcher   Downloader
	Renderer  Renderer
	Extractor Extractor
	// Publisher is nil when publishing is disabled.
	Publisher Publisher

	Log *observability.Logger
	// Printer receives boxed summaries in verbose mode; nil disables them.
	Printer    *observability.Printer
	OnProgress ProgressCallback
}

// DocumentFetcher downloads documents with fixed request options.
type DocumentFetcher struct {
	Options *fetch.Options
}

// Download implements Downloader.
func (f *DocumentFetcher) Download(ctx context.Context, url, path string) (int64, error) {
	return fetch.Download(ctx, url, path, f.Options)
}

// NewDeps wires the production stages from cfg. When publishing is enabled and
// no credential is configured it returns publish.ErrMissingToken, before any
// network activity.
func NewDeps(cfg *config.Config, log *observability.Logger) (*Deps, error) {
	if log == nil {
		log = observability.NopLogger()
	}

	var publisher Publisher
	if cfg.Publish.Enabled {
		p, err := publish.NewPublisher(cfg.Publish.Token, cfg.Publish.Repo, cfg.Publish.Branch)
		if err != nil {
			return nil, err
		}
		publisher = p
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", cfg.Listing.Timezone, err)
	}

	pageOpts := &fetch.Options{
		Timeout:   cfg.Timeout(),
		UserAgent: cfg.HTTP.UserAgent,
	}
	pageFetcher := func(ctx context.Context, url string) (string, error) {
		return fetch.Page(ctx, url, pageOpts, cfg.HTTP.UseBrowser)
	}
	scanner := listing.NewScanner(listing.Options{
		ListingURL:          cfg.Listing.URL,
		DownloadURLTemplate: cfg.Listing.DownloadURLTemplate,
		TitleMarker:         cfg.Listing.TitleMarker,
		WindowDays:          cfg.Listing.WindowDays,
		Location:            loc,
		ContainerSelector:   cfg.Listing.ContainerSelector,
	}, pageFetcher, nil, log.WithOperation(steps.StepScan))

	return &Deps{
		Scanner: scanner,
		Fetcher: &DocumentFetcher{Options: &fetch.Options{
			Timeout:   cfg.Timeout(),
			UserAgent: cfg.HTTP.UserAgent,
			Referer:   cfg.Listing.URL,
		}},
		Renderer:  render.NewRasterizer(render.Options{DPI: cfg.Render.DPI, Quality: cfg.Render.Quality}),
		Extractor: menu.NewExtractor(cfg.Layout, log.WithOperation(steps.StepExtract)),
		Publisher: publisher,
		Log:       log,
	}, nil
}

// StageError records a stage that failed without stopping the run.
type StageError struct {
	Step string
	Err  error
}

func (e StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

// Result summarizes one pipeline run.
type Result struct {
	RunID       string
	Found       bool
	Entry       *types.ListingEntry
	DownloadURL string
	Downloaded  int64
	Rendered    bool
	Record      *types.MenuRecord
	Published   map[string]publish.Action
	Failures    []StageError
	Duration    time.Duration
}

// Failed reports whether step failed during the run.
func (r *Result) Failed(step string) bool {
	for _, f := range r.Failures {
		if f.Step == step {
			return true
		}
	}
	return false
}

func (r *Result) fail(step string, err error) {
	r.Failures = append(r.Failures, StageError{Step: step, Err: err})
}

// Run executes scan, download, render, extract and publish once, in that order.
//
// Run returns an error only when the run cannot start (missing credential) or
// the listing page cannot be fetched. When no post qualifies, nothing after the
// scan executes. A failed download is recorded in Result.Failures and ends the
// run, since the document path may still hold a previous week's file. A failed
// render, extract or publish is logged and recorded, and the remaining stages
// still run.
func Run(ctx context.Context, cfg *config.Config, deps *Deps) (*Result, error) {
	started := time.Now()
	runID := uuid.NewString()
	result := &Result{RunID: runID, Published: map[string]publish.Action{}}
	defer func() { result.Duration = time.Since(started) }()

	log := deps.Log
	if log == nil {
		log = observability.NopLogger()
	}
	log = log.WithRun(runID)

	if cfg.Publish.Enabled && deps.Publisher == nil {
		return result, publish.ErrMissingToken
	}

	emit := func(step, message string, content any) {
		if deps.OnProgress != nil {
			deps.OnProgress(ProgressEvent{
				Step:     step,
				Category: steps.StepRegistry[step].Category,
				Message:  message,
				RunID:    runID,
				Content:  content,
			})
		}
	}

	// Scan
	scanLog := log.WithOperation(steps.StepScan)
	scanLog.Info().Str("url", cfg.Listing.URL).Msg("scanning listing board")
	match, err := deps.Scanner.Scan(ctx)
	if errors.Is(err, listing.ErrNotFound) {
		scanLog.Info().Int("window_days", cfg.Listing.WindowDays).Msg("no weekly menu post found")
		emit(steps.StepScan, "No weekly menu post found", nil)
		return result, nil
	}
	if err != nil {
		scanLog.Error().Err(err).Msg("listing scan failed")
		return result, fmt.Errorf("listing scan failed: %w", err)
	}
	result.Found = true
	result.Entry = &match.Entry
	result.DownloadURL = match.URL
	scanLog.Info().
		Str("title", match.Entry.Title).
		Str("published_on", match.Entry.PublishedOn.Format(listing.DateLayout)).
		Str("download_url", match.URL).
		Msg("found weekly menu post")
	if deps.Printer != nil {
		deps.Printer.PrintListingEntry(&match.Entry, match.URL)
	}
	emit(steps.StepScan, fmt.Sprintf("Found %q", match.Entry.Title), match.Entry)

	// Download
	dlLog := log.WithOperation(steps.StepDownload)
	n, err := deps.Fetcher.Download(ctx, match.URL, cfg.Paths.Document)
	if err != nil {
		dlLog.Error().Err(err).Str("path", cfg.Paths.Document).Msg("document download failed")
		result.fail(steps.StepDownload, err)
		dlLog.Warn().
			Str("skipped", strings.Join([]string{steps.StepRender, steps.StepExtract, steps.StepPublish}, ",")).
			Msg("no document downloaded this run; skipping remaining steps")
		emit(steps.StepDownload, "Download failed; remaining steps skipped", nil)
		return result, nil
	}
	result.Downloaded = n
	dlLog.Info().Int64("bytes", n).Str("path", cfg.Paths.Document).Msg("downloaded document")
	emit(steps.StepDownload, fmt.Sprintf("Downloaded %d bytes", n), nil)

	// Render
	renderLog := log.WithOperation(steps.StepRender)
	rendered, err := deps.Renderer.FirstPage(ctx, cfg.Paths.Document, cfg.Paths.Image)
	switch {
	case err != nil:
		renderLog.Error().Err(err).Msg("page rendering failed")
		result.fail(steps.StepRender, err)
	case !rendered:
		renderLog.Warn().Str("path", cfg.Paths.Document).Msg("document has no pages; image not written")
	default:
		result.Rendered = true
		renderLog.Info().Str("path", cfg.Paths.Image).Msg("rendered first page")
		emit(steps.StepRender, "Rendered first page", nil)
	}

	// Extract
	extractLog := log.WithOperation(steps.StepExtract)
	record, err := deps.Extractor.ExtractFile(ctx, cfg.Paths.Document, cfg.Paths.JSON)
	if err != nil {
		extractLog.Error().Err(err).Msg("menu extraction failed")
		result.fail(steps.StepExtract, err)
	} else {
		result.Record = record
		extractLog.Info().Str("path", cfg.Paths.JSON).Msg("wrote menu record")
		if deps.Printer != nil {
			deps.Printer.PrintMenuRecord(record)
		}
		emit(steps.StepExtract, "Extracted weekly menu", nil)
	}

	// Publish
	if deps.Publisher == nil {
		return result, nil
	}
	pubLog := log.WithOperation(steps.StepPublish)
	var targets []string
	if result.Rendered {
		targets = append(targets, cfg.Paths.Image)
	} else {
		pubLog.Warn().Str("path", cfg.Paths.Image).Msg("image not rendered this run; skipping upload")
	}
	if cfg.Publish.IncludeJSON {
		if result.Record != nil {
			targets = append(targets, cfg.Paths.JSON)
		} else {
			pubLog.Warn().Str("path", cfg.Paths.JSON).Msg("menu record not written this run; skipping upload")
		}
	}
	for _, path := range targets {
		action, err := deps.Publisher.Publish(ctx, path)
		if err != nil {
			pubLog.Error().Err(err).Str("path", path).Msg("upload failed")
			result.fail(steps.StepPublish, err)
			continue
		}
		result.Published[path] = action
		pubLog.Info().Str("path", path).Str("action", string(action)).Msg("uploaded file")
		emit(steps.StepPublish, fmt.Sprintf("%s %s", action, path), nil)
	}

	return result, nil
}

// ArtifactsFor returns the local artifacts each step produces under cfg.
func ArtifactsFor(cfg *config.Config) steps.Artifacts {
	return steps.Artifacts{
		steps.StepDownload: cfg.Paths.Document,
		steps.StepRender:   cfg.Paths.Image,
		steps.StepExtract:  cfg.Paths.JSON,
	}
}

