package repositories

import "github.com/prodplan/planning/pkg/domain/entities"

// BOMRepository provides access to the bill-of-materials structure
type BOMRepository interface {
	// GetComponents returns the direct children of a parent item in
	// sequence order. An item with no BOM returns an empty slice.
	GetComponents(parentID entities.ItemID) ([]entities.BOMComponent, error)
	GetAllComponents() ([]entities.BOMComponent, error)
	LoadComponents(components []*entities.BOMComponent) error
}
