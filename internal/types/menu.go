package types

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Meal slot keys as they appear in the published JSON.
const (
	MealBreakfast = "아침"
	MealLunch     = "점심"
	MealDinner    = "저녁"
)

// MealSlots lists the meal keys in output order.
var MealSlots = []string{MealBreakfast, MealLunch, MealDinner}

// Meals holds the cleaned menu text for one venue on one weekday.
// An empty string means the slot is not served.
type Meals struct {
	Breakfast string `json:"아침"`
	Lunch     string `json:"점심"`
	Dinner    string `json:"저녁"`
}

// MenuRecord is the weekday -> venue -> meal mapping extracted from a menu document.
// Weekdays and Venues fix the key order used when the record is serialized.
type MenuRecord struct {
	Weekdays []string
	Venues   []string
	Days     map[string]map[string]Meals
}

// NewMenuRecord returns a record in which every weekday/venue pair is present with empty meals.
func NewMenuRecord(weekdays, venues []string) *MenuRecord {
	r := &MenuRecord{
		Weekdays: append([]string(nil), weekdays...),
		Venues:   append([]string(nil), venues...),
		Days:     make(map[string]map[string]Meals, len(weekdays)),
	}
	for _, day := range weekdays {
		r.Days[day] = make(map[string]Meals, len(venues))
		for _, venue := range venues {
			r.Days[day][venue] = Meals{}
		}
	}
	return r
}

// Set stores meals for a weekday/venue pair, adding either key to the order if it is new.
func (r *MenuRecord) Set(weekday, venue string, meals Meals) {
	if r.Days == nil {
		r.Days = make(map[string]map[string]Meals)
	}
	if _, ok := r.Days[weekday]; !ok {
		r.Days[weekday] = make(map[string]Meals)
		r.Weekdays = append(r.Weekdays, weekday)
	}
	if !contains(r.Venues, venue) {
		r.Venues = append(r.Venues, venue)
	}
	r.Days[weekday][venue] = meals
}

// Get returns the meals for a weekday/venue pair.
func (r *MenuRecord) Get(weekday, venue string) (Meals, bool) {
	day, ok := r.Days[weekday]
	if !ok {
		return Meals{}, false
	}
	meals, ok := day[venue]
	return meals, ok
}

// MarshalJSON writes the record as nested objects, keeping weekday and venue order.
// Non-ASCII text and HTML-significant characters are written as-is.
func (r *MenuRecord) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, day := range r.Weekdays {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeKey(&buf, day); err != nil {
			return nil, err
		}
		buf.WriteByte('{')
		for j, venue := range r.Venues {
			if j > 0 {
				buf.WriteByte(',')
			}
			if err := writeKey(&buf, venue); err != nil {
				return nil, err
			}
			if err := writeValue(&buf, r.Days[day][venue]); err != nil {
				return nil, err
			}
		}
		buf.WriteByte('}')
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a record back, preserving the key order found in the document.
func (r *MenuRecord) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	days, err := orderedKeys(dec)
	if err != nil {
		return err
	}

	var raw map[string]map[string]Meals
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	r.Weekdays = days
	r.Venues = nil
	r.Days = raw
	for _, day := range days {
		inner, err := venueOrder(data, day)
		if err != nil {
			return err
		}
		for _, venue := range inner {
			if !contains(r.Venues, venue) {
				r.Venues = append(r.Venues, venue)
			}
		}
	}
	return nil
}

// orderedKeys returns the top-level object keys of the decoder's document in order.
func orderedKeys(dec *json.Decoder) ([]string, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("menu record must be a JSON object")
	}

	var keys []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected token %v in menu record", tok)
		}
		keys = append(keys, key)

		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return nil, err
		}
	}
	return keys, nil
}

func venueOrder(data []byte, day string) ([]string, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, err
	}
	return orderedKeys(json.NewDecoder(bytes.NewReader(top[day])))
}

func writeKey(buf *bytes.Buffer, key string) error {
	if err := writeValue(buf, key); err != nil {
		return err
	}
	buf.WriteByte(':')
	return nil
}

func writeValue(buf *bytes.Buffer, v any) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return err
	}
	// Encode terminates every value with a newline.
	buf.Truncate(buf.Len() - 1)
	return nil
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
