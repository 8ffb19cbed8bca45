package shows

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestShowStartsWithin(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	to := now.Add(8 * time.Hour)
	from := to.Add(-10 * time.Minute)

	cases := []struct {
		name     string
		showTime time.Time
		want     bool
	}{
		{"exactly at the upper bound", to, true},
		{"exactly at the lower bound", from, true},
		{"inside the window", to.Add(-5 * time.Minute), true},
		{"one second past the upper bound", to.Add(time.Second), false},
		{"one second before the lower bound", from.Add(-time.Second), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			show := &Show{ShowDateTime: tc.showTime}
			assert.Equal(t, tc.want, show.StartsWithin(from, to))
		})
	}
}
