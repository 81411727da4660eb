package advisor

import (
	"strings"

	"github.com/icz3us/medical-inv-v2/domain"
)

// MatchInventory filters recommended names down to items actually in stock,
// matching by case-insensitive substring containment in either direction.
func MatchInventory(names []string, items []domain.InventoryItem) []domain.InventoryItem {
	matched := []domain.InventoryItem{}
	for _, item := range items {
		itemName := strings.ToLower(item.Name)
		for _, name := range names {
			candidate := strings.ToLower(name)
			if candidate == "" {
				continue
			}
			if strings.Contains(itemName, candidate) || strings.Contains(candidate, itemName) {
				matched = append(matched, item)
				break
			}
		}
	}
	return matched
}
