package menu

import (
	"context"
	"fmt"

	"github.com/gyo-lab/weeklymenu/internal/observability"
	"github.com/gyo-lab/weeklymenu/internal/pdftable"
	"github.com/gyo-lab/weeklymenu/internal/types"
)

// Extract maps grid cells onto a MenuRecord. Every weekday/venue pair from the
// layout is present in the result; slots that cannot be read are empty.
func Extract(grid pdftable.Grid, layout Layout, log *observability.Logger) *types.MenuRecord {
	return extractRecord(layout, log, func(row, col int) string {
		text, _ := grid.Cell(row, col)
		return Clean(text)
	})
}

// cellReader returns the cleaned text at a grid position, "" when absent.
type cellReader func(row, col int) string

func extractRecord(layout Layout, log *observability.Logger, read cellReader) *types.MenuRecord {
	if log == nil {
		log = observability.NopLogger()
	}

	record := types.NewMenuRecord(layout.WeekdayNames(), layout.VenueNames())
	for _, day := range layout.Weekdays {
		for _, venue := range layout.Venues {
			meals, err := extractMeals(read, layout, day, venue)
			if err != nil {
				log.Warn().
					Str("weekday", day.Name).
					Str("venue", venue.Name).
					Err(err).
					Msg("failed to extract meals, leaving slots empty")
				meals = types.Meals{}
			}
			record.Set(day.Name, venue.Name, meals)
		}
	}
	return record
}

// extractMeals reads the cells for one weekday/venue pair.
//
//   - lunch-only weekdays: lunch at the base row
//   - venues without breakfast: lunch at the base row, dinner two rows down
//   - otherwise: breakfast, lunch and dinner on three consecutive rows
func extractMeals(read cellReader, layout Layout, day, venue Anchor) (meals types.Meals, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			meals = types.Meals{}
			err = fmt.Errorf("panic while reading cells: %v", rec)
		}
	}()

	row, col := day.Index, venue.Index
	cell := func(offset int) string {
		return read(row+offset, col)
	}

	switch {
	case layout.lunchOnly(day.Name):
		meals.Lunch = cell(0)
	case layout.noBreakfast(venue.Name):
		meals.Lunch = cell(0)
		meals.Dinner = cell(2)
	default:
		meals.Breakfast = cell(0)
		meals.Lunch = cell(1)
		meals.Dinner = cell(2)
	}
	return meals, nil
}

// GridReader loads the table grid of a document's first page.
type GridReader func(path string, opts pdftable.Options) (pdftable.Grid, error)

// Extractor turns a downloaded menu PDF into the published JSON artifact.
type Extractor struct {
	Layout   Layout
	Options  pdftable.Options
	Log      *observability.Logger
	ReadGrid GridReader
}

// NewExtractor returns an Extractor reading PDFs with pdftable.FirstPage.
func NewExtractor(layout Layout, log *observability.Logger) *Extractor {
	return &Extractor{
		Layout:   layout,
		Options:  pdftable.DefaultOptions(),
		Log:      log,
		ReadGrid: pdftable.FirstPage,
	}
}

// ExtractFile reads the first-page table of pdfPath, maps it, and writes the record as JSON to outPath.
func (e *Extractor) ExtractFile(ctx context.Context, pdfPath, outPath string) (*types.MenuRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	read := e.ReadGrid
	if read == nil {
		read = pdftable.FirstPage
	}
	grid, err := read(pdfPath, e.Options)
	if err != nil {
		return nil, fmt.Errorf("failed to read menu table: %w", err)
	}

	record := Extract(grid, e.Layout, e.Log)
	if err := WriteFile(outPath, record); err != nil {
		return nil, err
	}
	return record, nil
}
