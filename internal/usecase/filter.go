package usecase

import (
	"strings"

	"campusfound/internal/domain/entity"
)

// CategoryAll matches every item regardless of its category set.
const CategoryAll = "all"

// Filter returns the order-preserving subsequence of items matching both the
// free-text search term and the category selector. It is a pure function of
// its inputs.
//
// An item matches the search term when the term is a case-insensitive
// substring of its description or of any tag; the empty term matches
// everything. An item matches the category selector when the selector is
// "all" or appears verbatim in the item's category set.
func Filter(items []entity.Item, searchTerm, category string) []entity.Item {
	filtered := make([]entity.Item, 0, len(items))
	for _, item := range items {
		if matchesSearch(item, searchTerm) && matchesCategory(item, category) {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

func matchesSearch(item entity.Item, searchTerm string) bool {
	if searchTerm == "" {
		return true
	}

	term := strings.ToLower(searchTerm)
	if strings.Contains(strings.ToLower(item.Base().Description), term) {
		return true
	}
	for _, tag := range item.Base().Tags {
		if strings.Contains(strings.ToLower(tag), term) {
			return true
		}
	}
	return false
}

func matchesCategory(item entity.Item, category string) bool {
	if category == "" || category == CategoryAll {
		return true
	}
	for _, c := range item.Base().Categories {
		if c == category {
			return true
		}
	}
	return false
}
