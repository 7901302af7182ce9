package timeutil_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/svenhw/flapstats/internal/timeutil"
)

func TestParseDuration(t *testing.T) {
	cases := []struct {
		Name  string
		Input string
		Want  float64
		OK    bool
	}{
		{
			Name:  "hours with colon",
			Input: "01:38 h",
			Want:  1.6333,
			OK:    true,
		},
		{
			Name:  "half hours",
			Input: "02:30 h",
			Want:  2.5,
			OK:    true,
		},
		{
			Name:  "long duration",
			Input: "18:00 h",
			Want:  18.0,
			OK:    true,
		},
		{
			Name:  "plain hours",
			Input: "1.5 h",
			Want:  1.5,
			OK:    true,
		},
		{
			Name:  "minutes with seconds",
			Input: "21:40 mins",
			Want:  0.3611,
			OK:    true,
		},
		{
			Name:  "minutes just above half an hour",
			Input: "30:15 mins",
			Want:  0.5042,
			OK:    true,
		},
		{
			Name:  "minutes just below a half hour boundary",
			Input: "24:59 mins",
			Want:  0.4164,
			OK:    true,
		},
		{
			Name:  "plain minutes",
			Input: "90 mins",
			Want:  1.5,
			OK:    true,
		},
		{
			Name:  "seconds",
			Input: "36 s",
			Want:  0.01,
			OK:    true,
		},
		{
			Name:  "more seconds",
			Input: "45 s",
			Want:  0.0125,
			OK:    true,
		},
		{
			Name:  "mixed case with padding",
			Input: "  02:30 H ",
			Want:  2.5,
			OK:    true,
		},
		{
			Name:  "empty",
			Input: "",
			OK:    false,
		},
		{
			Name:  "no unit",
			Input: "12:30",
			OK:    false,
		},
		{
			Name:  "garbage",
			Input: "whatever",
			OK:    false,
		},
		{
			Name:  "too many components",
			Input: "12:00:00 h",
			OK:    false,
		},
		{
			Name:  "unit only",
			Input: "h",
			OK:    false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.Name, func(t *testing.T) {
			got, ok := timeutil.ParseDuration(tc.Input)

			assert.Equal(t, tc.OK, ok)

			if tc.OK {
				assert.InDelta(t, tc.Want, got, 0.0001)
			}
		})
	}
}

func TestParseClock(t *testing.T) {
	cases := []struct {
		Input string
		Want  int
		OK    bool
	}{
		{Input: "00:21", Want: 21, OK: true},
		{Input: "08:00", Want: 480, OK: true},
		{Input: "22:24", Want: 1344, OK: true},
		{Input: "23:59", Want: 1439, OK: true},
		{Input: "00:00", Want: 0, OK: true},
		// out-of-range values pass through untouched
		{Input: "25:00", Want: 1500, OK: true},
		{Input: "abc", OK: false},
		{Input: "12", OK: false},
		{Input: "12:34:56", OK: false},
		{Input: "", OK: false},
	}

	for _, tc := range cases {
		t.Run(tc.Input, func(t *testing.T) {
			got, ok := timeutil.ParseClock(tc.Input)

			assert.Equal(t, tc.OK, ok)
			assert.Equal(t, tc.Want, got)
		})
	}
}

func TestFormatHoursMinutes(t *testing.T) {
	cases := []struct {
		Name  string
		Hours float64
		Want  string
	}{
		{Name: "zero", Hours: 0, Want: "00:00"},
		{Name: "whole hours", Hours: 6, Want: "06:00"},
		{Name: "truncates seconds", Hours: 0.01, Want: "00:00"},
		{Name: "sub hour", Hours: 0.3611, Want: "00:21"},
		{Name: "three quarters", Hours: 0.7583, Want: "00:45"},
		{Name: "daily total", Hours: 3.8664, Want: "03:51"},
		{Name: "float boundary", Hours: 1.0 + 38.0/60.0, Want: "01:38"},
		{Name: "above a day", Hours: 25.5, Want: "25:30"},
	}

	for _, tc := range cases {
		t.Run(tc.Name, func(t *testing.T) {
			assert.Equal(t, tc.Want, timeutil.FormatHoursMinutes(tc.Hours))
		})
	}
}

func TestDurationRoundTrip(t *testing.T) {
	// a parsed duration cell must re-render without drifting by a minute
	cases := map[string]string{
		"01:38 h":    "01:38",
		"02:30 h":    "02:30",
		"18:00 h":    "18:00",
		"21:40 mins": "00:21",
		"45:30 mins": "00:45",
		"36 s":       "00:00",
	}

	for input, want := range cases {
		hours, ok := timeutil.ParseDuration(input)

		assert.True(t, ok, input)
		assert.Equal(t, want, timeutil.FormatHoursMinutes(hours), input)
	}
}
