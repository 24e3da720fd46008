package model_test

import (
	gc "gopkg.in/check.v1"

	"github.com/achilleasa/warband/model"
)

func mustProfile(c *gc.C) model.Profile {
	p, err := model.NewProfile(model.Stats{
		Movement:       5,
		WeaponSkill:    4,
		BallisticSkill: 4,
		Strength:       3,
		Toughness:      3,
		Wounds:         1,
		Initiative:     5,
		Attacks:        1,
		Leadership:     8,
	})
	c.Assert(err, gc.IsNil)
	return p
}

func mustSpearman(c *gc.C) *model.Model {
	m, err := model.NewModel("Spearman", "High Elf", 11, mustProfile(c))
	c.Assert(err, gc.IsNil)
	return m
}

func spear() model.Equipment {
	return model.Equipment{Name: "Spear", Points: 0.5, Category: model.CategoryWeapon}
}

func shield() model.Equipment {
	return model.Equipment{Name: "Shield", Points: 0.5, Category: model.CategoryArmour, Description: "A sturdy shield"}
}

func bow() model.Equipment {
	return model.Equipment{
		Name:     "Bow",
		Points:   1,
		Category: model.CategoryWeapon,
		Missile:  &model.MissileProfile{Range: 24, Strength: 3},
	}
}

func mustSpearmenUnit(c *gc.C) *model.Unit {
	u, err := model.NewUnit(model.UnitSpec{
		Name:      "High Elf Spearmen",
		Faction:   "High Elves",
		MinModels: 20,
		MaxModels: 40,
		Troops:    mustSpearman(c),
		Options: map[string]model.Equipment{
			"Spear":  spear(),
			"Shield": shield(),
		},
	})
	c.Assert(err, gc.IsNil)
	return u
}
