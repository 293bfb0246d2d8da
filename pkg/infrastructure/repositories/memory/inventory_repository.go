package memory

import (
	"fmt"

	"github.com/prodplan/planning/pkg/domain/entities"
	"github.com/prodplan/planning/pkg/domain/repositories"
)

// InventoryRepository provides in-memory inventory position storage
type InventoryRepository struct {
	positions map[entities.ItemID]entities.InventoryPosition
}

// NewInventoryRepository creates a new in-memory inventory repository
func NewInventoryRepository() *InventoryRepository {
	return &InventoryRepository{
		positions: make(map[entities.ItemID]entities.InventoryPosition),
	}
}

// Verify interface compliance
var _ repositories.InventoryRepository = (*InventoryRepository)(nil)

// LoadPositions loads inventory positions into the repository
func (r *InventoryRepository) LoadPositions(positions []*entities.InventoryPosition) error {
	for _, pos := range positions {
		r.SetPosition(*pos)
	}
	return nil
}

// SetPosition stores the position for an item, replacing any previous one
func (r *InventoryRepository) SetPosition(pos entities.InventoryPosition) {
	r.positions[pos.ItemID] = pos
}

// GetPosition returns the inventory position for an item
func (r *InventoryRepository) GetPosition(id entities.ItemID) (*entities.InventoryPosition, error) {
	pos, exists := r.positions[id]
	if !exists {
		return nil, fmt.Errorf("inventory position not found: %s", id)
	}
	return &pos, nil
}

// GetAllPositions returns every stored position
func (r *InventoryRepository) GetAllPositions() ([]*entities.InventoryPosition, error) {
	positions := make([]*entities.InventoryPosition, 0, len(r.positions))
	for _, pos := range r.positions {
		p := pos
		positions = append(positions, &p)
	}
	return positions, nil
}
