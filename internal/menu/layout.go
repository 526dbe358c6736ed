// Package menu maps the weekly menu table onto the weekday/venue/meal record that gets published.
package menu

import "fmt"

// Anchor names a weekday or venue and its base row or column in the extracted grid.
type Anchor struct {
	Name  string `json:"name" yaml:"name" validate:"required"`
	Index int    `json:"index" yaml:"index" validate:"gte=0"`
}

// Layout describes where each weekday and venue sits in the menu table.
// Offsets are tied to one document layout; when the layout changes, edit this data.
type Layout struct {
	Weekdays          []Anchor `json:"weekdays" yaml:"weekdays" validate:"required,min=1,dive"`
	Venues            []Anchor `json:"venues" yaml:"venues" validate:"required,min=1,dive"`
	LunchOnlyWeekdays []string `json:"lunch_only_weekdays" yaml:"lunch_only_weekdays"`
	NoBreakfastVenues []string `json:"no_breakfast_venues" yaml:"no_breakfast_venues"`
}

// DefaultLayout returns the layout of the current assembly cafeteria menu PDF.
func DefaultLayout() Layout {
	return Layout{
		Weekdays: []Anchor{
			{Name: "월요일", Index: 3},
			{Name: "화요일", Index: 6},
			{Name: "수요일", Index: 9},
			{Name: "목요일", Index: 12},
			{Name: "금요일", Index: 15},
			{Name: "토요일", Index: 18},
			{Name: "일요일", Index: 19},
		},
		Venues: []Anchor{
			{Name: "본관1식당", Index: 1},
			{Name: "회관1식당", Index: 4},
			{Name: "도서관식당", Index: 9},
			{Name: "박물관식당", Index: 10},
		},
		LunchOnlyWeekdays: []string{"토요일", "일요일"},
		NoBreakfastVenues: []string{"도서관식당", "박물관식당"},
	}
}

// WeekdayNames returns weekday names in table order.
func (l Layout) WeekdayNames() []string {
	return names(l.Weekdays)
}

// VenueNames returns venue names in table order.
func (l Layout) VenueNames() []string {
	return names(l.Venues)
}

// Check reports duplicate names and negative offsets.
func (l Layout) Check() error {
	if err := checkAnchors("weekday", l.Weekdays); err != nil {
		return err
	}
	return checkAnchors("venue", l.Venues)
}

func (l Layout) lunchOnly(weekday string) bool {
	return containsName(l.LunchOnlyWeekdays, weekday)
}

func (l Layout) noBreakfast(venue string) bool {
	return containsName(l.NoBreakfastVenues, venue)
}

func checkAnchors(kind string, anchors []Anchor) error {
	if len(anchors) == 0 {
		return fmt.Errorf("layout has no %s entries", kind)
	}
	seen := make(map[string]bool, len(anchors))
	for _, a := range anchors {
		if a.Name == "" {
			return fmt.Errorf("layout %s entry has an empty name", kind)
		}
		if a.Index < 0 {
			return fmt.Errorf("layout %s %q has negative index %d", kind, a.Name, a.Index)
		}
		if seen[a.Name] {
			return fmt.Errorf("layout %s %q is listed twice", kind, a.Name)
		}
		seen[a.Name] = true
	}
	return nil
}

func names(anchors []Anchor) []string {
	out := make([]string, len(anchors))
	for i, a := range anchors {
		out[i] = a.Name
	}
	return out
}

func containsName(list []string, name string) bool {
	for _, s := range list {
		if s == name {
			return true
		}
	}
	return false
}
