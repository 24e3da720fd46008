package model

import (
	"math"

	"github.com/juju/errors"
)

// Category classifies an Equipment item. The set of categories is closed.
type Category string

const (
	CategoryWeapon   Category = "weapon"
	CategoryArmour   Category = "armour"
	CategoryStandard Category = "standard"
)

// Categories lists every valid category in presentation order.
var Categories = []Category{CategoryWeapon, CategoryArmour, CategoryStandard}

// ParseCategory maps a category name to a Category.
func ParseCategory(s string) (Category, error) {
	switch c := Category(s); c {
	case CategoryWeapon, CategoryArmour, CategoryStandard:
		return c, nil
	}
	return "", errors.NotValidf("equipment category %q", s)
}

// IsValid returns true if c is one of the known categories.
func (c Category) IsValid() bool {
	_, err := ParseCategory(string(c))
	return err == nil
}

// MissileProfile carries the extra characteristics of missile weapons.
type MissileProfile struct {
	Range        int
	Strength     int
	SaveModifier int
}

// Equipment is a single piece of wargear. Catalog entries are templates;
// every model holding an item holds its own copy obtained via Clone.
type Equipment struct {
	Name        string
	Points      float64
	Category    Category
	Description string

	// Missile is only set for missile weapons.
	Missile *MissileProfile
}

// Clone returns a deep copy of the item.
func (e Equipment) Clone() Equipment {
	if e.Missile != nil {
		missile := *e.Missile
		e.Missile = &missile
	}
	return e
}

// Validate checks the structural rules of an equipment item.
func (e Equipment) Validate() error {
	if e.Name == "" {
		return newInvariantViolation("equipment.name", `""`, "name must not be empty")
	}
	if e.Points < 0 || math.IsNaN(e.Points) || math.IsInf(e.Points, 0) {
		return newInvariantViolation("equipment["+e.Name+"].points", e.Points, "points must be a finite value >= 0")
	}
	if !e.Category.IsValid() {
		return newInvariantViolation("equipment["+e.Name+"].category", e.Category, "category must be weapon, armour or standard")
	}
	if e.Missile == nil {
		return nil
	}

	switch e.Category {
	case CategoryWeapon:
		if e.Missile.Range < 0 {
			return newInvariantViolation("equipment["+e.Name+"].missile.range", e.Missile.Range, "range must be >= 0")
		}
		if e.Missile.Strength < 0 {
			return newInvariantViolation("equipment["+e.Name+"].missile.strength", e.Missile.Strength, "strength must be >= 0")
		}
	case CategoryArmour, CategoryStandard:
		return newInvariantViolation("equipment["+e.Name+"].category", e.Category, "only weapons may carry a missile profile")
	}
	return nil
}
