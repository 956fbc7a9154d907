package services

import (
	"errors"
	"strconv"
	"strings"

	"spendwise/internal/core"
)

// PageSize is the fixed listing page size.
const PageSize = 10

// ErrPageNotFound is returned for a non-numeric or out of range page.
var ErrPageNotFound = errors.New("page not found")

type Page struct {
	Items    []core.Transaction
	Number   int
	NumPages int
	Total    int
	PerPage  int
}

// NewPage resolves the raw page parameter. An empty value means page 1 and
// "last" means the final page. Page 1 of an empty result is valid.
func NewPage(raw string, total, perPage int) (Page, error) {
	numPages := 1
	if total > 0 {
		numPages = (total + perPage - 1) / perPage
	}

	number := 1
	switch raw = strings.TrimSpace(raw); raw {
	case "":
	case "last":
		number = numPages
	default:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return Page{}, ErrPageNotFound
		}
		number = n
	}
	if number < 1 || number > numPages {
		return Page{}, ErrPageNotFound
	}
	return Page{Number: number, NumPages: numPages, Total: total, PerPage: perPage}, nil
}

func (p Page) Offset() int {
	return (p.Number - 1) * p.PerPage
}

func (p Page) HasPrevious() bool { return p.Number > 1 }
func (p Page) HasNext() bool     { return p.Number < p.NumPages }
func (p Page) Previous() int     { return p.Number - 1 }
func (p Page) Next() int         { return p.Number + 1 }

// StartIndex is the 1-based position of the first item on the page.
func (p Page) StartIndex() int {
	if p.Total == 0 {
		return 0
	}
	return p.Offset() + 1
}

func (p Page) EndIndex() int {
	return p.Offset() + len(p.Items)
}
