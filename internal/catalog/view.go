package catalog

import (
	"sort"
	"strings"
	"time"

	"github.com/AdrienCambier1/ng-music-platform/internal/model"
)

// SortOrder selects how a product list is presented.
type SortOrder string

const (
	SortTitleAsc   SortOrder = "title-asc"
	SortTitleDesc  SortOrder = "title-desc"
	SortDateNewest SortOrder = "date-newest"
	SortDateOldest SortOrder = "date-oldest"
)

// Sort returns a sorted copy of products; the input is left untouched.
// Unknown orders fall back to title ascending.
func Sort(products []model.Product, order SortOrder) []model.Product {
	out := make([]model.Product, len(products))
	copy(out, products)

	switch order {
	case SortTitleDesc:
		sort.SliceStable(out, func(i, j int) bool {
			return strings.ToLower(out[i].Title) > strings.ToLower(out[j].Title)
		})
	case SortDateNewest:
		sort.SliceStable(out, func(i, j int) bool {
			return releaseTime(out[i]).After(releaseTime(out[j]))
		})
	case SortDateOldest:
		sort.SliceStable(out, func(i, j int) bool {
			return releaseTime(out[i]).Before(releaseTime(out[j]))
		})
	default:
		sort.SliceStable(out, func(i, j int) bool {
			return strings.ToLower(out[i].Title) < strings.ToLower(out[j].Title)
		})
	}
	return out
}

// FilterByStyle keeps products whose style contains the query,
// case-insensitively. An empty query keeps everything.
func FilterByStyle(products []model.Product, style string) []model.Product {
	if style == "" {
		return products
	}
	q := strings.ToLower(style)

	var out []model.Product
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Style), q) {
			out = append(out, p)
		}
	}
	return out
}

// Provider release dates come in day, month or year precision.
var dateLayouts = []string{"2006-01-02", "2006-01", "2006", time.RFC3339}

func releaseTime(p model.Product) time.Time {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, p.CreatedDate); err == nil {
			return t
		}
	}
	return time.Time{}
}
