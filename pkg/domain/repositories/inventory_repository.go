package repositories

import "github.com/prodplan/planning/pkg/domain/entities"

// InventoryRepository provides access to inventory positions
type InventoryRepository interface {
	GetPosition(id entities.ItemID) (*entities.InventoryPosition, error)
	GetAllPositions() ([]*entities.InventoryPosition, error)
	LoadPositions(positions []*entities.InventoryPosition) error
}
