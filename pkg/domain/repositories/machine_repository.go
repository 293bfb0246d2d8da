package repositories

import "github.com/prodplan/planning/pkg/domain/entities"

// MachineRepository provides access to machine master data
type MachineRepository interface {
	GetMachine(id entities.MachineID) (*entities.SchedulingMachine, error)
	GetAllMachines() ([]*entities.SchedulingMachine, error)
	LoadMachines(machines []*entities.SchedulingMachine) error
}
