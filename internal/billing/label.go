package billing

import (
	"fmt"

	"purchase-sale-backend/internal/models"
)

// NoItemsLabel is used when no row carries a name.
const NoItemsLabel = "No Items Specified"

// DescribeItems builds the item label of a reference record: the single
// distinct name as entered, "<first> & <n> more" for several, or NoItemsLabel.
func DescribeItems(items []models.LineItem) string {
	seen := make(map[string]bool, len(items))
	names := make([]string, 0, len(items))
	for _, item := range items {
		name := item.ItemName
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}

	switch len(names) {
	case 0:
		return NoItemsLabel
	case 1:
		return names[0]
	default:
		return fmt.Sprintf("%s & %d more", names[0], len(names)-1)
	}
}
