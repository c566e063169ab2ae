package timeutil

import "testing"

func TestParseClock(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"07:00", "07:00", true},
		{"7:05", "07:05", true},
		{"23:59", "23:59", true},
		{"00:00", "00:00", true},
		{"09:30:45", "09:30", true}, // seconds truncated
		{" 08:15 ", "08:15", true},
		{"24:00", "", false},
		{"12:60", "", false},
		{"12:30:61", "", false},
		{"noon", "", false},
		{"", "", false},
		{"12", "", false},
	}
	for _, tc := range cases {
		c, err := ParseClock(tc.in)
		if tc.ok && err != nil {
			t.Errorf("ParseClock(%q): unexpected error %v", tc.in, err)
			continue
		}
		if !tc.ok {
			if err == nil {
				t.Errorf("ParseClock(%q): expected error, got %v", tc.in, c)
			}
			continue
		}
		if c.String() != tc.want {
			t.Errorf("ParseClock(%q) = %s, want %s", tc.in, c, tc.want)
		}
	}
}

func TestClockMinutes(t *testing.T) {
	c := MustClock("07:30")
	if c.Minutes() != 450 {
		t.Fatalf("expected 450 minutes, got %d", c.Minutes())
	}
	if c.Hour() != 7 || c.Minute() != 30 {
		t.Fatalf("unexpected parts: %d:%d", c.Hour(), c.Minute())
	}
}

func TestAddHoursWrapsMidnight(t *testing.T) {
	cases := []struct {
		start string
		hours float64
		want  string
	}{
		{"07:00", -5, "02:00"},
		{"07:00", -7, "00:00"},
		{"09:00", -3, "06:00"},
		{"01:00", -2, "23:00"},
		{"23:00", 2, "01:00"},
		{"07:00", -8.5, "22:30"},
		{"12:00", 0, "12:00"},
	}
	for _, tc := range cases {
		got := MustClock(tc.start).AddHours(tc.hours)
		if got.String() != tc.want {
			t.Errorf("%s + %.1fh = %s, want %s", tc.start, tc.hours, got, tc.want)
		}
	}
}

func TestFormatMinutes(t *testing.T) {
	cases := []struct {
		in   int
		want string
	}{
		{0, "0m"},
		{-5, "0m"},
		{45, "45m"},
		{60, "1h"},
		{90, "1h 30m"},
		{210, "3h 30m"},
		{750, "12h 30m"},
	}
	for _, tc := range cases {
		if got := FormatMinutes(tc.in); got != tc.want {
			t.Errorf("FormatMinutes(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestParseDurationInput(t *testing.T) {
	cases := []struct {
		in   string
		want int
		ok   bool
	}{
		{"90", 90, true},
		{"90m", 90, true},
		{"2h", 120, true},
		{"2h 30m", 150, true},
		{"2H 30M", 150, true},
		{"1.5h", 90, true},
		{"0.5h 15m", 45, true},
		{"", 0, false},
		{"  ", 0, false},
		{"abc", 0, false},
		{"2h and more", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseDurationInput(tc.in)
		if tc.ok && err != nil {
			t.Errorf("ParseDurationInput(%q): unexpected error %v", tc.in, err)
			continue
		}
		if !tc.ok {
			if err == nil {
				t.Errorf("ParseDurationInput(%q): expected error, got %d", tc.in, got)
			}
			continue
		}
		if got != tc.want {
			t.Errorf("ParseDurationInput(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}
