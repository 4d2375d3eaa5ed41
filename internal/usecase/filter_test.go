package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"campusfound/internal/domain/entity"
)

func foundItem(description string, tags, categories []string) entity.Item {
	return &entity.FoundItem{
		ItemBase: entity.ItemBase{
			Description: description,
			Tags:        tags,
			Categories:  categories,
		},
	}
}

func descriptions(items []entity.Item) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.Base().Description)
	}
	return out
}

func TestFilterIdentity(t *testing.T) {
	items := []entity.Item{
		foundItem("Blue backpack", nil, nil),
		foundItem("Red backpack", nil, nil),
		foundItem("Silver keychain", nil, nil),
	}

	assert.Equal(t, descriptions(items), descriptions(Filter(items, "", CategoryAll)))
}

func TestFilterEmptyInput(t *testing.T) {
	filtered := Filter(nil, "backpack", CategoryAll)
	assert.NotNil(t, filtered)
	assert.Empty(t, filtered)
}

func TestFilterBySearchTerm(t *testing.T) {
	items := []entity.Item{
		foundItem("Blue backpack", nil, nil),
		foundItem("Red backpack", nil, nil),
	}

	both := Filter(items, "backpack", CategoryAll)
	assert.Equal(t, []string{"Blue backpack", "Red backpack"}, descriptions(both))

	blue := Filter(items, "blue", CategoryAll)
	assert.Equal(t, []string{"Blue backpack"}, descriptions(blue))
}

func TestFilterSearchIsCaseInsensitive(t *testing.T) {
	items := []entity.Item{foundItem("Black Wallet near gym", nil, nil)}

	assert.Len(t, Filter(items, "WALLET", CategoryAll), 1)
	assert.Len(t, Filter(items, "wAlLeT", CategoryAll), 1)
	assert.Empty(t, Filter(items, "umbrella", CategoryAll))
}

func TestFilterMatchesTags(t *testing.T) {
	items := []entity.Item{
		foundItem("Something small", []string{"Electronics", "USB"}, nil),
		foundItem("Something else", nil, nil),
	}

	assert.Equal(t, []string{"Something small"}, descriptions(Filter(items, "usb", CategoryAll)))
}

func TestFilterByCategory(t *testing.T) {
	items := []entity.Item{
		foundItem("Calculus textbook", nil, []string{"Books"}),
		foundItem("Graphing calculator", nil, []string{"Electronics"}),
		foundItem("Uncategorized thing", nil, nil),
	}

	assert.Equal(t, []string{"Calculus textbook"}, descriptions(Filter(items, "", "Books")))
	assert.Len(t, Filter(items, "", CategoryAll), 3)
	assert.Empty(t, Filter(items, "", "Clothing"))
}

func TestFilterCombinesSearchAndCategory(t *testing.T) {
	items := []entity.Item{
		foundItem("Blue notebook", nil, []string{"Books"}),
		foundItem("Blue jacket", nil, []string{"Clothing"}),
	}

	assert.Equal(t, []string{"Blue notebook"}, descriptions(Filter(items, "blue", "Books")))
	assert.Empty(t, Filter(items, "jacket", "Books"))
}

func TestFilterPreservesOrder(t *testing.T) {
	items := []entity.Item{
		foundItem("c backpack", nil, nil),
		foundItem("a backpack", nil, nil),
		foundItem("b backpack", nil, nil),
	}

	assert.Equal(t, []string{"c backpack", "a backpack", "b backpack"},
		descriptions(Filter(items, "backpack", CategoryAll)))
}

func TestFilterIsIdempotent(t *testing.T) {
	items := []entity.Item{
		foundItem("Blue backpack", nil, []string{"Accessories"}),
		foundItem("Red backpack", nil, nil),
		foundItem("Green umbrella", nil, []string{"Accessories"}),
	}

	once := Filter(items, "backpack", "Accessories")
	twice := Filter(once, "backpack", "Accessories")
	assert.Equal(t, descriptions(once), descriptions(twice))
}
