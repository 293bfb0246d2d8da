package memory

import (
	"sort"

	"github.com/prodplan/planning/pkg/domain/entities"
	"github.com/prodplan/planning/pkg/domain/repositories"
)

// BOMRepository provides in-memory BOM structure storage
type BOMRepository struct {
	components []entities.BOMComponent
	parentMap  map[entities.ItemID][]int
}

// NewBOMRepository creates a new in-memory BOM repository
func NewBOMRepository(expectedComponents int) *BOMRepository {
	return &BOMRepository{
		components: make([]entities.BOMComponent, 0, expectedComponents),
		parentMap:  make(map[entities.ItemID][]int),
	}
}

// Verify interface compliance
var _ repositories.BOMRepository = (*BOMRepository)(nil)

// LoadComponents loads BOM edges into the repository
func (r *BOMRepository) LoadComponents(components []*entities.BOMComponent) error {
	for _, comp := range components {
		r.AddComponent(*comp)
	}
	return nil
}

// AddComponent adds a single BOM edge
func (r *BOMRepository) AddComponent(comp entities.BOMComponent) {
	r.parentMap[comp.ParentID] = append(r.parentMap[comp.ParentID], len(r.components))
	r.components = append(r.components, comp)
}

// GetComponents returns direct children of a parent in sequence order,
// tie-broken by component ID for determinism
func (r *BOMRepository) GetComponents(parentID entities.ItemID) ([]entities.BOMComponent, error) {
	indices := r.parentMap[parentID]
	children := make([]entities.BOMComponent, 0, len(indices))
	for _, idx := range indices {
		children = append(children, r.components[idx])
	}
	sort.SliceStable(children, func(i, j int) bool {
		if children[i].Sequence != children[j].Sequence {
			return children[i].Sequence < children[j].Sequence
		}
		return children[i].ComponentID < children[j].ComponentID
	})
	return children, nil
}

// GetAllComponents returns every BOM edge
func (r *BOMRepository) GetAllComponents() ([]entities.BOMComponent, error) {
	all := make([]entities.BOMComponent, len(r.components))
	copy(all, r.components)
	return all, nil
}
