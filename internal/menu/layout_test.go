package menu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultLayout(t *testing.T) {
	l := DefaultLayout()

	assert.NoError(t, l.Check())
	assert.Equal(t, []string{"월요일", "화요일", "수요일", "목요일", "금요일", "토요일", "일요일"}, l.WeekdayNames())
	assert.Equal(t, []string{"본관1식당", "회관1식당", "도서관식당", "박물관식당"}, l.VenueNames())
	assert.True(t, l.lunchOnly("토요일"))
	assert.True(t, l.lunchOnly("일요일"))
	assert.False(t, l.lunchOnly("월요일"))
	assert.True(t, l.noBreakfast("도서관식당"))
	assert.True(t, l.noBreakfast("박물관식당"))
	assert.False(t, l.noBreakfast("본관1식당"))
}

func TestLayout_Check(t *testing.T) {
	tests := []struct {
		name   string
		layout Layout
		errMsg string
	}{
		{
			name:   "no weekdays",
			layout: Layout{Venues: []Anchor{{Name: "v", Index: 0}}},
			errMsg: "no weekday entries",
		},
		{
			name:   "negative index",
			layout: Layout{Weekdays: []Anchor{{Name: "월요일", Index: -1}}, Venues: []Anchor{{Name: "v"}}},
			errMsg: "negative index",
		},
		{
			name:   "duplicate venue",
			layout: Layout{Weekdays: []Anchor{{Name: "월요일"}}, Venues: []Anchor{{Name: "v"}, {Name: "v", Index: 2}}},
			errMsg: "listed twice",
		},
		{
			name:   "empty name",
			layout: Layout{Weekdays: []Anchor{{Name: ""}}, Venues: []Anchor{{Name: "v"}}},
			errMsg: "empty name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.layout.Check()
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}
