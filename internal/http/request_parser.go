package http

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"spendwise/internal/core"
	"spendwise/internal/reports"
	"spendwise/internal/storage"
)

// pathID reads the {id} wildcard. Non-numeric ids cannot name a row.
func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// ListFilterParams is the listing filter as submitted, echoed back to the form.
type ListFilterParams struct {
	Category string
	DateFrom string
	DateTo   string
}

// ParseListFilter reads category, date_from and date_to. Malformed values
// are treated as absent.
func ParseListFilter(q url.Values) (storage.ListFilter, ListFilterParams) {
	var f storage.ListFilter
	p := ListFilterParams{
		Category: strings.TrimSpace(q.Get("category")),
		DateFrom: strings.TrimSpace(q.Get("date_from")),
		DateTo:   strings.TrimSpace(q.Get("date_to")),
	}

	if id, err := strconv.ParseInt(p.Category, 10, 64); err == nil && id > 0 {
		f.CategoryID = id
	} else {
		p.Category = ""
	}
	if d, err := core.ParseDate(p.DateFrom); err == nil {
		f.From = d
	} else {
		p.DateFrom = ""
	}
	if d, err := core.ParseDate(p.DateTo); err == nil {
		f.To = d
	} else {
		p.DateTo = ""
	}
	return f, p
}

// Query encodes the active filters for pagination links.
func (p ListFilterParams) Query() string {
	v := url.Values{}
	if p.Category != "" {
		v.Set("category", p.Category)
	}
	if p.DateFrom != "" {
		v.Set("date_from", p.DateFrom)
	}
	if p.DateTo != "" {
		v.Set("date_to", p.DateTo)
	}
	return v.Encode()
}

// ParseChartParams reads days (default 7, 1..366) and type (default EXPENSE).
func ParseChartParams(q url.Values) (int, core.TransactionType, error) {
	days := reports.DefaultDays
	if raw := strings.TrimSpace(q.Get("days")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > reports.MaxSeriesDays {
			return 0, "", reports.ErrInvalidDays
		}
		days = n
	}

	typ := core.Expense
	if raw := strings.TrimSpace(q.Get("type")); raw != "" {
		t, err := core.ParseTransactionType(raw)
		if err != nil {
			return 0, "", err
		}
		typ = t
	}
	return days, typ, nil
}
