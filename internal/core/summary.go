package core

// CategoryAmount represents an amount aggregated by category.
// CategoryID is 0 for the uncategorized bucket.
type CategoryAmount struct {
	CategoryID int64
	Name       string
	Color      string
	Amount     Money
}

// DailyAmount is the total for one calendar day.
type DailyAmount struct {
	Date   Date
	Amount Money
}

// SeriesPoint is one labelled entry of a chart series.
type SeriesPoint struct {
	Label  string
	Date   Date
	Amount Money
}
