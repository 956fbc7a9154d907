package reports

import (
	"fmt"

	"spendwise/internal/core"

	"golang.org/x/text/language"
)

// LabelFunc renders the label of one series point.
type LabelFunc func(core.Date) string

var supportedLocales = []language.Tag{
	language.English, // first entry is the fallback
	language.Italian,
	language.German,
	language.French,
	language.Spanish,
}

var localeMatcher = language.NewMatcher(supportedLocales)

var weekdayNames = map[language.Tag][7]string{
	language.English: {"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"},
	language.Italian: {"dom", "lun", "mar", "mer", "gio", "ven", "sab"},
	language.German:  {"So", "Mo", "Di", "Mi", "Do", "Fr", "Sa"},
	language.French:  {"dim.", "lun.", "mar.", "mer.", "jeu.", "ven.", "sam."},
	language.Spanish: {"dom", "lun", "mar", "mié", "jue", "vie", "sáb"},
}

var monthNames = map[language.Tag][12]string{
	language.English: {"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"},
	language.Italian: {"gen", "feb", "mar", "apr", "mag", "giu", "lug", "ago", "set", "ott", "nov", "dic"},
	language.German:  {"Jan", "Feb", "Mär", "Apr", "Mai", "Jun", "Jul", "Aug", "Sep", "Okt", "Nov", "Dez"},
	language.French:  {"janv.", "févr.", "mars", "avr.", "mai", "juin", "juil.", "août", "sept.", "oct.", "nov.", "déc."},
	language.Spanish: {"ene", "feb", "mar", "abr", "may", "jun", "jul", "ago", "sept", "oct", "nov", "dic"},
}

// MatchLocale picks the best supported locale for an Accept-Language header.
func MatchLocale(acceptLanguage string) language.Tag {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return language.English
	}
	_, idx, conf := localeMatcher.Match(tags...)
	if conf == language.No {
		return language.English
	}
	return supportedLocales[idx]
}

func normalize(tag language.Tag) language.Tag {
	if _, ok := weekdayNames[tag]; ok {
		return tag
	}
	_, idx, conf := localeMatcher.Match(tag)
	if conf == language.No {
		return language.English
	}
	return supportedLocales[idx]
}

// WeekdayLabels renders short weekday names, e.g. "Mon".
func WeekdayLabels(tag language.Tag) LabelFunc {
	names := weekdayNames[normalize(tag)]
	return func(d core.Date) string {
		return names[d.Weekday()]
	}
}

// MonthDayLabels renders the month abbreviation and zero padded day, e.g. "Oct 05".
func MonthDayLabels(tag language.Tag) LabelFunc {
	names := monthNames[normalize(tag)]
	return func(d core.Date) string {
		return fmt.Sprintf("%s %02d", names[d.Month()-1], d.Day())
	}
}
