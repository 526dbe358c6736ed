// Package types provides type definitions for structured data used throughout the weekly menu pipeline.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "time"

// DownloadRef holds the arguments scraped from a listing row's download hook.
type DownloadRef struct {
	Portal     string `json:"portal"`
	MenuNo     string `json:"menu_no"`
	AtchFileID string `json:"atch_file_id"`
	FileSn     string `json:"file_sn"`
}

// ListingEntry represents one qualifying row of the bulletin board listing.
type ListingEntry struct {
	Title       string      `json:"title"`
	PublishedOn time.Time   `json:"published_on"` // calendar date, midnight in the board's time zone
	Ref         DownloadRef `json:"ref"`
	OnClick     string      `json:"onclick,omitempty"` // raw hook attribute, kept for diagnostics
}
