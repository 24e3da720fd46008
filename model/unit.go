package model

import (
	"fmt"
	"sort"

	"github.com/juju/errors"
)

// State tracks where a Unit is in its build lifecycle.
type State int

const (
	// StateUnbuilt is the state of a freshly constructed unit whose size
	// has not been set.
	StateUnbuilt State = iota

	// StateSized is entered every time the unit size changes.
	StateSized

	// StateValidated is entered when Validate succeeds. Only validated
	// units may be serialized.
	StateValidated
)

func (s State) String() string {
	switch s {
	case StateUnbuilt:
		return "unbuilt"
	case StateSized:
		return "sized"
	case StateValidated:
		return "validated"
	}
	return "unknown"
}

// UnitSpec describes the parameters for constructing a Unit.
type UnitSpec struct {
	Name      string
	Faction   string
	MinModels int
	MaxModels int
	TroopType string

	// Troops is the troop template. The unit stores its own copy.
	Troops *Model

	// Options is the catalog subset the unit may equip from, keyed by
	// equipment name. The unit stores its own copies.
	Options map[string]Equipment

	// SpecialRules names the rules that apply to every model of the unit,
	// e.g. "Always Strikes First".
	SpecialRules []string
}

// Unit is a named group of models built from a single troop template.
type Unit struct {
	name      string
	faction   string
	minModels int
	maxModels int
	troopType string
	troops    *Model
	options   map[string]Equipment
	rules     []string
	size      int
	state     State
}

// NewUnit validates spec and returns an unsized Unit.
func NewUnit(spec UnitSpec) (*Unit, error) {
	switch {
	case spec.Name == "":
		return nil, newInvariantViolation("unit.name", `""`, "name must not be empty")
	case spec.MinModels < 0:
		return nil, newInvariantViolation("unit["+spec.Name+"].min_models", spec.MinModels, "min_models must be >= 0")
	case spec.MaxModels < 0:
		return nil, newInvariantViolation("unit["+spec.Name+"].max_models", spec.MaxModels, "max_models must be >= 0")
	case spec.MinModels > spec.MaxModels:
		return nil, newInvariantViolation("unit["+spec.Name+"].min_models", spec.MinModels, "min_models must be <= max_models")
	case spec.Troops == nil:
		return nil, newInvariantViolation("unit["+spec.Name+"].troops", nil, "a troop template is required")
	}

	options := make(map[string]Equipment, len(spec.Options))
	for name, item := range spec.Options {
		if name != item.Name {
			return nil, newInvariantViolation("unit["+spec.Name+"].options["+name+"]", item.Name, "key must match equipment name")
		}
		if err := item.Validate(); err != nil {
			return nil, errors.Trace(err)
		}
		options[name] = item.Clone()
	}

	rules := make([]string, 0, len(spec.SpecialRules))
	seen := make(map[string]bool, len(spec.SpecialRules))
	for _, rule := range spec.SpecialRules {
		if rule == "" || seen[rule] {
			return nil, newInvariantViolation("unit["+spec.Name+"].special_rules", fmt.Sprintf("%q", rule), "rules must be non-empty and unique")
		}
		seen[rule] = true
		rules = append(rules, rule)
	}

	return &Unit{
		name:      spec.Name,
		faction:   spec.Faction,
		minModels: spec.MinModels,
		maxModels: spec.MaxModels,
		troopType: spec.TroopType,
		troops:    spec.Troops.Clone(),
		options:   options,
		rules:     rules,
		state:     StateUnbuilt,
	}, nil
}

func (u *Unit) GetName() string {
	return u.name
}

func (u *Unit) GetFaction() string {
	return u.faction
}

func (u *Unit) GetMinModels() int {
	return u.minModels
}

func (u *Unit) GetMaxModels() int {
	return u.maxModels
}

func (u *Unit) GetTroopType() string {
	return u.troopType
}

// GetTroops returns a copy of the troop template.
func (u *Unit) GetTroops() *Model {
	return u.troops.Clone()
}

// GetOptions returns a copy of the legal options of the unit.
func (u *Unit) GetOptions() map[string]Equipment {
	out := make(map[string]Equipment, len(u.options))
	for name, item := range u.options {
		out[name] = item.Clone()
	}
	return out
}

// GetSpecialRules returns a copy of the special rules of the unit in the
// order they were declared.
func (u *Unit) GetSpecialRules() []string {
	rules := make([]string, len(u.rules))
	copy(rules, u.rules)
	return rules
}

// OptionNames returns the names of the legal options in sorted order.
func (u *Unit) OptionNames() []string {
	names := make([]string, 0, len(u.options))
	for name := range u.options {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsOption returns true if name is a legal option for this unit.
func (u *Unit) IsOption(name string) bool {
	_, found := u.options[name]
	return found
}

// Size returns the number of models in the unit.
func (u *Unit) Size() int { return u.size }

// State returns the lifecycle state of the unit.
func (u *Unit) State() State { return u.state }

// SetUnitSize changes the number of models in the unit. If n lies outside
// [min_models, max_models] an OutOfRangeError is returned and the size is
// left untouched.
func (u *Unit) SetUnitSize(n int) error {
	if err := u.checkRange(n); err != nil {
		return err
	}
	u.size = n
	u.state = StateSized
	return nil
}

// Equip copies a legal option into the troop template, replacing any item
// already stored under the same name.
func (u *Unit) Equip(name string) error {
	item, found := u.options[name]
	if !found {
		return newNotInOptions(u.name, name)
	}
	return u.troops.SetEquipment(name, item)
}

// Unequip removes a legal option from the troop template.
func (u *Unit) Unequip(name string) error {
	if _, found := u.options[name]; !found {
		return newNotInOptions(u.name, name)
	}
	if err := u.troops.RemoveEquipment(name); err != nil {
		return errors.Trace(err)
	}
	return nil
}

// Validate checks that the unit size lies within [min_models, max_models].
// It may be called at any time; a successful check moves the unit to
// StateValidated. Failures are reported as an *OutOfRangeError.
func (u *Unit) Validate() error {
	if err := u.checkRange(u.size); err != nil {
		return err
	}
	u.state = StateValidated
	return nil
}

// ScaleTo returns n independent copies of the troop template.
func (u *Unit) ScaleTo(n int) ([]*Model, error) {
	if err := u.checkRange(n); err != nil {
		return nil, err
	}
	models := make([]*Model, n)
	for i := range models {
		models[i] = u.troops.Clone()
	}
	return models, nil
}

// Models returns one copy of the troop template per model in the unit.
func (u *Unit) Models() ([]*Model, error) {
	return u.ScaleTo(u.size)
}

// Points returns the cost of the unit at its current size.
func (u *Unit) Points() float64 {
	return float64(u.size) * u.troops.TotalPoints()
}

func (u *Unit) checkRange(n int) error {
	if n < u.minModels || n > u.maxModels {
		return newOutOfRange(n, u.minModels, u.maxModels)
	}
	return nil
}
