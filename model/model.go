package model

import (
	"math"
	"sort"

	"github.com/juju/errors"
)

// Model is a single combat figure. It exclusively owns its profile and
// the copies of every equipment item assigned to it.
type Model struct {
	name      string
	race      string
	troopType string
	points    float64
	profile   Profile
	equipment map[string]Equipment
}

// NewModel returns a new Model with no equipment.
func NewModel(name, race string, points float64, profile Profile) (*Model, error) {
	if name == "" {
		return nil, newInvariantViolation("model.name", `""`, "name must not be empty")
	}
	if points < 0 || math.IsNaN(points) || math.IsInf(points, 0) {
		return nil, newInvariantViolation("model["+name+"].points", points, "points must be a finite value >= 0")
	}

	return &Model{
		name:      name,
		race:      race,
		points:    points,
		profile:   Profile{stats: copyStats(profile.stats)},
		equipment: make(map[string]Equipment),
	}, nil
}

func (m *Model) GetName() string {
	return m.name
}

func (m *Model) GetRace() string {
	return m.race
}

func (m *Model) GetTroopType() string {
	return m.troopType
}

func (m *Model) SetTroopType(troopType string) *Model {
	m.troopType = troopType
	return m
}

func (m *Model) GetPoints() float64 {
	return m.points
}

func (m *Model) GetProfile() Profile {
	return Profile{stats: copyStats(m.profile.stats)}
}

// SetEquipment inserts or replaces the item stored under name. The model
// keeps its own copy of item. Legality is a unit concern and is not
// checked here.
func (m *Model) SetEquipment(name string, item Equipment) error {
	if name != item.Name {
		return newInvariantViolation("model["+m.name+"].equipment["+name+"]", item.Name, "key must match equipment name")
	}
	m.equipment[name] = item.Clone()
	return nil
}

// GetEquipment returns a copy of the equipment assignment.
func (m *Model) GetEquipment() map[string]Equipment {
	out := make(map[string]Equipment, len(m.equipment))
	for name, item := range m.equipment {
		out[name] = item.Clone()
	}
	return out
}

// HasEquipment returns true if an item is assigned under name.
func (m *Model) HasEquipment(name string) bool {
	_, found := m.equipment[name]
	return found
}

// RemoveEquipment drops the item assigned under name.
func (m *Model) RemoveEquipment(name string) error {
	if _, found := m.equipment[name]; !found {
		return errors.NotFoundf("equipment %q on model %q", name, m.name)
	}
	delete(m.equipment, name)
	return nil
}

// EquipmentNames returns the names of the assigned items in sorted order.
func (m *Model) EquipmentNames() []string {
	names := make([]string, 0, len(m.equipment))
	for name := range m.equipment {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TotalPoints returns the base cost of the model plus its equipment.
func (m *Model) TotalPoints() float64 {
	total := m.points
	for _, item := range m.equipment {
		total += item.Points
	}
	return total
}

// Loadout groups the equipment of a model by category.
type Loadout struct {
	Weapons   []Equipment
	Armour    []Equipment
	Standards []Equipment
}

// Loadout returns the model equipment grouped by category, each group
// sorted by name.
func (m *Model) Loadout() Loadout {
	var lo Loadout
	for _, name := range m.EquipmentNames() {
		item := m.equipment[name].Clone()
		switch item.Category {
		case CategoryWeapon:
			lo.Weapons = append(lo.Weapons, item)
		case CategoryArmour:
			lo.Armour = append(lo.Armour, item)
		case CategoryStandard:
			lo.Standards = append(lo.Standards, item)
		}
	}
	return lo
}

// Clone returns a deep copy of the model.
func (m *Model) Clone() *Model {
	clone := &Model{
		name:      m.name,
		race:      m.race,
		troopType: m.troopType,
		points:    m.points,
		profile:   m.GetProfile(),
		equipment: m.GetEquipment(),
	}
	return clone
}
