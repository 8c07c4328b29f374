// Package query selects and orders records from a collection. Every function
// is pure: inputs are never modified and no I/O is performed.
package query

import (
	"cmp"
	"slices"
	"strings"
	"time"
)

// Dated is a record with a YYYY-MM-DD date and an owning project.
type Dated interface {
	GetDate() string
	GetProjectID() string
}

// Criteria narrows a collection. Zero-valued fields do not filter.
type Criteria struct {
	ProjectID string
	From      string
	To        string
}

// HasRange reports whether either date bound is set.
func (c Criteria) HasRange() bool {
	return c.From != "" || c.To != ""
}

// InRange reports whether date lies in [from, to]. An empty bound is open.
// Dates are compared as strings, which for YYYY-MM-DD is chronological.
// An empty date is never in a range with a bound set.
func InRange(date, from, to string) bool {
	if from == "" && to == "" {
		return true
	}
	if date == "" {
		return false
	}
	if from != "" && date < from {
		return false
	}
	if to != "" && date > to {
		return false
	}
	return true
}

// Select returns the records matching c, preserving input order.
func Select[T Dated](items []T, c Criteria) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if c.ProjectID != "" && it.GetProjectID() != c.ProjectID {
			continue
		}
		if !InRange(it.GetDate(), c.From, c.To) {
			continue
		}
		out = append(out, it)
	}
	return out
}

// Where returns the records for which pred is true, preserving input order.
func Where[T any](items []T, pred func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if pred(it) {
			out = append(out, it)
		}
	}
	return out
}

type Order int

const (
	Asc Order = iota
	Desc
)

// SortBy returns a stably sorted copy of items ordered by key. Ties on key
// are broken by tiebreak (always ascending) when it is non-nil.
func SortBy[T any](items []T, key func(T) string, order Order, tiebreak func(T) string) []T {
	out := slices.Clone(items)
	if out == nil {
		out = []T{}
	}
	slices.SortStableFunc(out, func(a, b T) int {
		c := strings.Compare(key(a), key(b))
		if order == Desc {
			c = -c
		}
		if c == 0 && tiebreak != nil {
			c = strings.Compare(tiebreak(a), tiebreak(b))
		}
		return c
	})
	return out
}

// ByDate orders dated records by their own date.
func ByDate[T Dated](items []T, order Order) []T {
	return SortBy(items, func(it T) string { return it.GetDate() }, order, nil)
}

type updated interface {
	GetUpdatedAt() time.Time
}

// ByUpdatedDesc orders records most recently changed first.
func ByUpdatedDesc[T updated](items []T) []T {
	out := slices.Clone(items)
	if out == nil {
		out = []T{}
	}
	slices.SortStableFunc(out, func(a, b T) int {
		return b.GetUpdatedAt().Compare(a.GetUpdatedAt())
	})
	return out
}

type named interface {
	GetName() string
}

// ByName orders records alphabetically by name, case-insensitively.
func ByName[T named](items []T) []T {
	out := slices.Clone(items)
	if out == nil {
		out = []T{}
	}
	slices.SortStableFunc(out, func(a, b T) int {
		return cmp.Compare(strings.ToLower(a.GetName()), strings.ToLower(b.GetName()))
	})
	return out
}
