package schemas

// CreateCatalogEntryRequest creates a category or tag. Names are unique per
// owner; re-posting an existing name returns the existing entry.
type CreateCatalogEntryRequest struct {
	OwnerID int64  `json:"ownerId"`
	Name    string `json:"name"`
}
