package entity

import (
	"fmt"
	"time"
)

// Collection identifies one of the two item collections in Firestore.
type Collection string

const (
	CollectionFoundItems Collection = "foundItems"
	CollectionLostItems  Collection = "lostItems"
)

func ParseCollection(name string) (Collection, error) {
	switch Collection(name) {
	case CollectionFoundItems:
		return CollectionFoundItems, nil
	case CollectionLostItems:
		return CollectionLostItems, nil
	}
	return "", fmt.Errorf("unknown collection: %q", name)
}

// Item is the common view over found and lost item posts.
type Item interface {
	ItemID() string
	Base() *ItemBase
	Kind() Collection
}

// ItemBase holds the fields shared by both item kinds.
// CreatedAt is assigned by the server on write and never mutated afterwards;
// Resolved and Reported are the only fields touched after creation.
type ItemBase struct {
	ID           string    `json:"id" firestore:"-"`
	Description  string    `json:"description" firestore:"description"`
	ContactInfo  string    `json:"contactInfo" firestore:"contactInfo"`
	Tags         []string  `json:"tags" firestore:"tags"`
	Categories   []string  `json:"categories" firestore:"categories"`
	CreatedAt    time.Time `json:"createdAt" firestore:"createdAt,serverTimestamp"`
	Reported     bool      `json:"reported" firestore:"reported"`
	ReportReason string    `json:"reportReason,omitempty" firestore:"reportReason,omitempty"`
	Resolved     bool      `json:"resolved" firestore:"resolved"`
}

func (b *ItemBase) ItemID() string {
	return b.ID
}

func (b *ItemBase) Base() *ItemBase {
	return b
}

// FoundItem is a post about an item somebody found. The image fields are set
// only when a photo was attached at submission time.
type FoundItem struct {
	ItemBase
	LocationFound string `json:"locationFound" firestore:"locationFound"`
	ImageURL      string `json:"imageUrl,omitempty" firestore:"imageUrl,omitempty"`
	ImageFileName string `json:"imageFileName,omitempty" firestore:"imageFileName,omitempty"`
}

func (f *FoundItem) Kind() Collection {
	return CollectionFoundItems
}

// LostItem is a post about an item somebody is missing.
type LostItem struct {
	ItemBase
	LastSeenLocation string    `json:"lastSeenLocation" firestore:"lastSeenLocation"`
	LastSeenDate     time.Time `json:"lastSeenDate" firestore:"lastSeenDate"`
}

func (l *LostItem) Kind() Collection {
	return CollectionLostItems
}
