package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/gyo-lab/weeklymenu/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of entries to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", pad(title, boxWidth-4))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %s │\n", pad(truncate(line, boxWidth-4), boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintListingEntry outputs the listing row the scanner picked.
func (p *Printer) PrintListingEntry(entry *types.ListingEntry, downloadURL string) {
	if entry == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Title:  %s\n", entry.Title))
	sb.WriteString(fmt.Sprintf("Date:   %s\n", entry.PublishedOn.Format("2006-01-02")))
	sb.WriteString(fmt.Sprintf("File:   %s / %s\n", entry.Ref.AtchFileID, entry.Ref.FileSn))
	sb.WriteString(fmt.Sprintf("URL:    %s", downloadURL))

	p.printBox("SELECTED LISTING ENTRY", sb.String())
}

// PrintMenuRecord outputs a per-weekday overview of the extracted menu.
func (p *Printer) PrintMenuRecord(record *types.MenuRecord) {
	if record == nil || len(record.Weekdays) == 0 {
		return
	}

	var sb strings.Builder
	served, total := 0, 0
	for _, day := range record.Weekdays {
		for _, venue := range record.Venues {
			meals, _ := record.Get(day, venue)
			for _, text := range []string{meals.Breakfast, meals.Lunch, meals.Dinner} {
				total++
				if text != "" {
					served++
				}
			}
		}
	}
	sb.WriteString(fmt.Sprintf("Filled slots: %d / %d\n\n", served, total))

	count := min(len(record.Weekdays), maxItemsToShow)
	for i := 0; i < count; i++ {
		day := record.Weekdays[i]
		sb.WriteString(day + "\n")
		for _, venue := range record.Venues {
			meals, _ := record.Get(day, venue)
			if meals.Lunch == "" {
				continue
			}
			sb.WriteString(fmt.Sprintf("  • %s: %s\n", venue, meals.Lunch))
		}
	}
	if len(record.Weekdays) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("... and %d more days", len(record.Weekdays)-maxItemsToShow))
	}

	p.printBox("EXTRACTED WEEKLY MENU", strings.TrimSuffix(sb.String(), "\n"))
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-3]) + "..."
}

func pad(s string, width int) string {
	n := len([]rune(s))
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}
