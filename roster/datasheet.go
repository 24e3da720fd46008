// Package roster turns datasheets into units by resolving their equipment
// against a catalog.
package roster

import (
	"github.com/juju/errors"

	"github.com/achilleasa/warband/catalog"
	"github.com/achilleasa/warband/document"
	"github.com/achilleasa/warband/model"
	"github.com/achilleasa/warband/schema"
)

// Datasheet describes how a unit is raised: its size limits, the troop
// template with its default equipment and the names of the catalog items
// it may equip.
type Datasheet struct {
	Name      string    `json:"name" yaml:"name"`
	Faction   string    `json:"faction" yaml:"faction"`
	MinModels int       `json:"min_models" yaml:"min_models"`
	MaxModels int       `json:"max_models" yaml:"max_models"`
	TroopType string    `json:"troop_type,omitempty" yaml:"troop_type,omitempty"`
	Troops    TroopSpec `json:"troops" yaml:"troops"`
	Options   []string  `json:"options" yaml:"options"`

	SpecialRules []string `json:"special_rules,omitempty" yaml:"special_rules,omitempty"`
}

// TroopSpec describes the troop template of a datasheet.
type TroopSpec struct {
	Name      string         `json:"name" yaml:"name"`
	Race      string         `json:"race" yaml:"race"`
	TroopType string         `json:"troop_type,omitempty" yaml:"troop_type,omitempty"`
	Points    float64        `json:"points" yaml:"points"`
	Profile   schema.Profile `json:"profile" yaml:"profile"`

	// Equipment lists the catalog items every model starts with.
	Equipment []string `json:"equipment,omitempty" yaml:"equipment,omitempty"`
}

// Build resolves the datasheet against cat and returns an unsized unit.
// Default troop equipment does not need to be a legal option.
func (d Datasheet) Build(cat *catalog.Catalog) (*model.Unit, error) {
	troops, err := d.buildTroops(cat)
	if err != nil {
		return nil, errors.Annotatef(err, "building troops of datasheet %q", d.Name)
	}

	options, err := cat.Select(d.Options)
	if err != nil {
		return nil, errors.Annotatef(err, "selecting options of datasheet %q", d.Name)
	}

	u, err := model.NewUnit(model.UnitSpec{
		Name:         d.Name,
		Faction:      d.Faction,
		MinModels:    d.MinModels,
		MaxModels:    d.MaxModels,
		TroopType:    d.TroopType,
		Troops:       troops,
		Options:      options,
		SpecialRules: d.SpecialRules,
	})
	if err != nil {
		return nil, errors.Trace(err)
	}
	return u, nil
}

func (d Datasheet) buildTroops(cat *catalog.Catalog) (*model.Model, error) {
	profile, err := document.ToProfile("troops.profile", d.Troops.Profile)
	if err != nil {
		return nil, errors.Trace(err)
	}
	troops, err := model.NewModel(d.Troops.Name, d.Troops.Race, d.Troops.Points, profile)
	if err != nil {
		return nil, errors.Trace(err)
	}
	troops.SetTroopType(d.Troops.TroopType)

	defaults, err := cat.Select(d.Troops.Equipment)
	if err != nil {
		return nil, errors.Trace(err)
	}
	for name, item := range defaults {
		if err := troops.SetEquipment(name, item); err != nil {
			return nil, errors.Trace(err)
		}
	}
	return troops, nil
}

// Clone returns a deep copy of the datasheet.
func (d Datasheet) Clone() Datasheet {
	d.Options = copyStrings(d.Options)
	d.SpecialRules = copyStrings(d.SpecialRules)
	d.Troops.Equipment = copyStrings(d.Troops.Equipment)
	d.Troops.Profile = copyProfile(d.Troops.Profile)
	return d
}

func copyStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func copyProfile(p schema.Profile) schema.Profile {
	for _, field := range []**int{&p.Int, &p.Cl, &p.WP} {
		if *field != nil {
			v := **field
			*field = &v
		}
	}
	return p
}
