package reports

import (
	"testing"

	"spendwise/internal/core"

	"golang.org/x/text/language"
)

func TestMatchLocale(t *testing.T) {
	cases := map[string]language.Tag{
		"":                        language.English,
		"it-IT,it;q=0.9,en;q=0.8": language.Italian,
		"de-CH":                   language.German,
		"fr;q=0.4, es;q=0.9":      language.Spanish,
		"ja":                      language.English,
		"!!garbage":               language.English,
	}
	for header, want := range cases {
		if got := MatchLocale(header); got != want {
			t.Fatalf("%q: expected %v, got %v", header, want, got)
		}
	}
}

func TestLabels(t *testing.T) {
	d := core.NewDate(2024, 10, 5) // Saturday
	cases := []struct {
		tag     language.Tag
		weekday string
		month   string
	}{
		{language.English, "Sat", "Oct 05"},
		{language.Italian, "sab", "ott 05"},
		{language.German, "Sa", "Okt 05"},
		{language.MustParse("en-GB"), "Sat", "Oct 05"},
	}
	for _, tc := range cases {
		if got := WeekdayLabels(tc.tag)(d); got != tc.weekday {
			t.Fatalf("%v weekday: expected %q, got %q", tc.tag, tc.weekday, got)
		}
		if got := MonthDayLabels(tc.tag)(d); got != tc.month {
			t.Fatalf("%v month: expected %q, got %q", tc.tag, tc.month, got)
		}
	}
}
