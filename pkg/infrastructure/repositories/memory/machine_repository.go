package memory

import (
	"fmt"

	"github.com/prodplan/planning/pkg/domain/entities"
	"github.com/prodplan/planning/pkg/domain/repositories"
)

// MachineRepository provides in-memory machine master data storage
type MachineRepository struct {
	machines    []entities.SchedulingMachine
	machinesMap map[entities.MachineID]int
}

// NewMachineRepository creates a new in-memory machine repository
func NewMachineRepository(expectedMachines int) *MachineRepository {
	return &MachineRepository{
		machines:    make([]entities.SchedulingMachine, 0, expectedMachines),
		machinesMap: make(map[entities.MachineID]int, expectedMachines),
	}
}

// Verify interface compliance
var _ repositories.MachineRepository = (*MachineRepository)(nil)

// LoadMachines loads machines into the repository
func (r *MachineRepository) LoadMachines(machines []*entities.SchedulingMachine) error {
	for _, m := range machines {
		r.AddMachine(*m)
	}
	return nil
}

// AddMachine adds a machine to the repository
func (r *MachineRepository) AddMachine(m entities.SchedulingMachine) {
	if idx, exists := r.machinesMap[m.ID]; exists {
		r.machines[idx] = m
		return
	}
	r.machinesMap[m.ID] = len(r.machines)
	r.machines = append(r.machines, m)
}

// GetMachine returns machine master data for a machine ID
func (r *MachineRepository) GetMachine(id entities.MachineID) (*entities.SchedulingMachine, error) {
	index, exists := r.machinesMap[id]
	if !exists {
		return nil, fmt.Errorf("machine not found: %s", id)
	}
	m := r.machines[index]
	return &m, nil
}

// GetAllMachines returns all machines
func (r *MachineRepository) GetAllMachines() ([]*entities.SchedulingMachine, error) {
	machines := make([]*entities.SchedulingMachine, 0, len(r.machines))
	for i := range r.machines {
		m := r.machines[i]
		machines = append(machines, &m)
	}
	return machines, nil
}
