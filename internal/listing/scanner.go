package listing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gyo-lab/weeklymenu/internal/observability"
	"github.com/gyo-lab/weeklymenu/internal/types"
)

// DateLayout is the publication date format used by the board.
const DateLayout = "2006-01-02"

// Options configures how rows are selected and how the download URL is built.
type Options struct {
	ListingURL          string
	DownloadURLTemplate string
	TitleMarker         string
	WindowDays          int
	Location            *time.Location
	ContainerSelector   string
}

// PageFetcher returns the HTML of a page.
type PageFetcher func(ctx context.Context, url string) (string, error)

// Match is the first qualifying listing row and its resolved download URL.
type Match struct {
	Entry types.ListingEntry
	URL   string
}

// Scanner finds the most recent weekly menu post on the board.
type Scanner struct {
	opts  Options
	fetch PageFetcher
	now   func() time.Time
	log   *observability.Logger
}

// NewScanner creates a Scanner. A nil now uses time.Now.
func NewScanner(opts Options, fetch PageFetcher, now func() time.Time, log *observability.Logger) *Scanner {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if now == nil {
		now = time.Now
	}
	if log == nil {
		log = observability.NopLogger()
	}
	return &Scanner{opts: opts, fetch: fetch, now: now, log: log}
}

// Scan fetches the listing and returns the first qualifying row in document order.
// It returns ErrNotFound when the board markup has drifted or nothing qualifies;
// only a failed page fetch is returned as a different error.
func (s *Scanner) Scan(ctx context.Context) (*Match, error) {
	html, err := s.fetch(ctx, s.opts.ListingURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch listing page: %w", err)
	}

	rows, err := ParseRows(html, s.opts.ContainerSelector)
	if err != nil {
		var structErr *StructureError
		if errors.As(err, &structErr) {
			s.log.Warn().Err(err).Msg("listing markup changed; check the board structure")
			return nil, ErrNotFound
		}
		return nil, err
	}
	s.log.Debug().Int("rows", len(rows)).Msg("parsed listing rows")

	match, ok := s.Select(rows)
	if !ok {
		return nil, ErrNotFound
	}
	return match, nil
}

// Select returns the first row that falls in the date window, carries the
// title marker and has a parseable download hook.
func (s *Scanner) Select(rows []Row) (*Match, bool) {
	today := dateOf(s.now(), s.opts.Location)
	earliest := today.AddDate(0, 0, -s.opts.WindowDays)
	s.log.Debug().
		Str("from", earliest.Format(DateLayout)).
		Str("to", today.Format(DateLayout)).
		Msg("date window")

	for _, row := range rows {
		published, err := time.ParseInLocation(DateLayout, row.DateText, s.opts.Location)
		if err != nil {
			s.log.Debug().Str("date", row.DateText).Msg("skipping row with unparseable date")
			continue
		}
		if published.Before(earliest) || published.After(today) {
			continue
		}
		if !strings.Contains(row.Title, s.opts.TitleMarker) {
			continue
		}

		ref, err := ParseDownloadRef(row.OnClick)
		if err != nil {
			s.log.Debug().Str("title", row.Title).Err(err).Msg("skipping row without download hook")
			continue
		}

		downloadURL := ResolveURL(s.opts.DownloadURLTemplate, ref, s.opts.ListingURL)
		s.log.Info().
			Str("title", row.Title).
			Str("date", row.DateText).
			Str("url", downloadURL).
			Msg("found weekly menu post")
		return &Match{
			Entry: types.ListingEntry{
				Title:       row.Title,
				PublishedOn: published,
				Ref:         ref,
				OnClick:     row.OnClick,
			},
			URL: downloadURL,
		}, true
	}
	return nil, false
}

// dateOf truncates t to midnight of its calendar date in loc.
func dateOf(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}
