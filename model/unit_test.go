package model_test

import (
	"github.com/juju/errors"
	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"

	"github.com/achilleasa/warband/model"
)

var _ = gc.Suite(&UnitSuite{})

type UnitSuite struct{}

func (s *UnitSuite) TestNewUnit(c *gc.C) {
	u := mustSpearmenUnit(c)

	c.Assert(u.GetName(), gc.Equals, "High Elf Spearmen")
	c.Assert(u.GetFaction(), gc.Equals, "High Elves")
	c.Assert(u.GetMinModels(), gc.Equals, 20)
	c.Assert(u.GetMaxModels(), gc.Equals, 40)
	c.Assert(u.Size(), gc.Equals, 0)
	c.Assert(u.State(), gc.Equals, model.StateUnbuilt)
	c.Assert(u.OptionNames(), jc.DeepEquals, []string{"Shield", "Spear"})
	c.Assert(u.IsOption("Spear"), jc.IsTrue)
	c.Assert(u.IsOption("Bow"), jc.IsFalse)
}

func (s *UnitSuite) TestNewUnitRejectsInvalidSpecs(c *gc.C) {
	troops := mustSpearman(c)
	specs := []struct {
		descr string
		spec  model.UnitSpec
		err   string
	}{
		{
			descr: "missing name",
			spec:  model.UnitSpec{MaxModels: 1, Troops: troops},
			err:   `unit.name="" .*`,
		},
		{
			descr: "negative min",
			spec:  model.UnitSpec{Name: "u", MinModels: -1, MaxModels: 1, Troops: troops},
			err:   `unit\[u\].min_models=-1 .*`,
		},
		{
			descr: "negative max",
			spec:  model.UnitSpec{Name: "u", MaxModels: -1, Troops: troops},
			err:   `unit\[u\].max_models=-1 .*`,
		},
		{
			descr: "min greater than max",
			spec:  model.UnitSpec{Name: "u", MinModels: 10, MaxModels: 5, Troops: troops},
			err:   `unit\[u\].min_models=10 violates invariant: min_models must be <= max_models`,
		},
		{
			descr: "missing troops",
			spec:  model.UnitSpec{Name: "u", MaxModels: 5},
			err:   `unit\[u\].troops=<nil> .*`,
		},
		{
			descr: "option key mismatch",
			spec: model.UnitSpec{Name: "u", MaxModels: 5, Troops: troops, Options: map[string]model.Equipment{
				"Halberd": spear(),
			}},
			err: `unit\[u\].options\[Halberd\]=Spear .*`,
		},
		{
			descr: "duplicate special rule",
			spec:  model.UnitSpec{Name: "u", MaxModels: 5, Troops: troops, SpecialRules: []string{"Hatred", "Hatred"}},
			err:   `unit\[u\].special_rules="Hatred" .*`,
		},
		{
			descr: "empty special rule",
			spec:  model.UnitSpec{Name: "u", MaxModels: 5, Troops: troops, SpecialRules: []string{""}},
			err:   `unit\[u\].special_rules="" .*`,
		},
		{
			descr: "invalid option",
			spec: model.UnitSpec{Name: "u", MaxModels: 5, Troops: troops, Options: map[string]model.Equipment{
				"Spear": {Name: "Spear", Category: "polearm"},
			}},
			err: `equipment\[Spear\].category=polearm .*`,
		},
	}

	for specIndex, spec := range specs {
		c.Logf("[spec %d] %s", specIndex, spec.descr)
		u, err := model.NewUnit(spec.spec)
		c.Assert(u, gc.IsNil)
		c.Assert(err, gc.ErrorMatches, spec.err)
		c.Assert(model.IsInvariantViolation(err), jc.IsTrue)
	}
}

func (s *UnitSuite) TestNewUnitCopiesInputs(c *gc.C) {
	troops := mustSpearman(c)
	options := map[string]model.Equipment{"Bow": bow()}
	u, err := model.NewUnit(model.UnitSpec{Name: "Archers", MaxModels: 10, Troops: troops, Options: options})
	c.Assert(err, jc.ErrorIsNil)

	options["Bow"].Missile.Range = 1
	delete(options, "Bow")
	c.Assert(troops.SetEquipment("Spear", spear()), jc.ErrorIsNil)

	c.Assert(u.GetOptions(), jc.DeepEquals, map[string]model.Equipment{"Bow": bow()})
	c.Assert(u.GetTroops().HasEquipment("Spear"), jc.IsFalse)
}

func (s *UnitSuite) TestSpecialRules(c *gc.C) {
	rules := []string{"Martial Prowess", "Always Strikes First"}
	u, err := model.NewUnit(model.UnitSpec{Name: "Spearmen", MaxModels: 10, Troops: mustSpearman(c), SpecialRules: rules})
	c.Assert(err, jc.ErrorIsNil)

	rules[0] = "Hatred"
	got := u.GetSpecialRules()
	c.Assert(got, jc.DeepEquals, []string{"Martial Prowess", "Always Strikes First"})
	got[1] = "Frenzy"
	c.Assert(u.GetSpecialRules()[1], gc.Equals, "Always Strikes First")

	u = mustSpearmenUnit(c)
	c.Assert(u.GetSpecialRules(), gc.HasLen, 0)
}

// Scenario A.
func (s *UnitSuite) TestSizeAndEquipScenario(c *gc.C) {
	u := mustSpearmenUnit(c)

	c.Assert(u.SetUnitSize(36), jc.ErrorIsNil)
	c.Assert(u.Size(), gc.Equals, 36)
	c.Assert(u.State(), gc.Equals, model.StateSized)

	c.Assert(u.Equip("Spear"), jc.ErrorIsNil)
	c.Assert(u.GetTroops().GetEquipment(), jc.DeepEquals, map[string]model.Equipment{"Spear": spear()})

	err := u.Equip("Bow")
	c.Assert(model.IsNotInOptions(err), jc.IsTrue)
	c.Assert(err, gc.ErrorMatches, `equipment "Bow" is not an option for unit "High Elf Spearmen"`)
	nioErr := err.(*model.NotInOptionsError)
	c.Assert(nioErr.Unit, gc.Equals, "High Elf Spearmen")
	c.Assert(nioErr.Equipment, gc.Equals, "Bow")
}

// Scenario B.
func (s *UnitSuite) TestSetUnitSizeOutOfRangeKeepsSize(c *gc.C) {
	u := mustSpearmenUnit(c)

	err := u.SetUnitSize(5)
	c.Assert(model.IsOutOfRange(err), jc.IsTrue)
	c.Assert(u.Size(), gc.Equals, 0)
	c.Assert(u.State(), gc.Equals, model.StateUnbuilt)

	c.Assert(u.SetUnitSize(25), jc.ErrorIsNil)
	err = u.SetUnitSize(41)
	c.Assert(err, gc.ErrorMatches, `unit size 41 outside range \[20, 40\] \(max_models violated\)`)
	c.Assert(u.Size(), gc.Equals, 25)
}

func (s *UnitSuite) TestSetUnitSizeSucceedsIffInRange(c *gc.C) {
	u := mustSpearmenUnit(c)
	prev := u.Size()
	for n := -1; n <= 45; n++ {
		err := u.SetUnitSize(n)
		if n >= 20 && n <= 40 {
			c.Assert(err, jc.ErrorIsNil, gc.Commentf("size %d", n))
			c.Assert(u.Size(), gc.Equals, n)
			prev = n
			continue
		}
		c.Assert(model.IsOutOfRange(err), jc.IsTrue, gc.Commentf("size %d", n))
		c.Assert(u.Size(), gc.Equals, prev)
	}
}

func (s *UnitSuite) TestEquipIsIdempotent(c *gc.C) {
	u := mustSpearmenUnit(c)
	c.Assert(u.Equip("Shield"), jc.ErrorIsNil)
	once := u.GetTroops()
	c.Assert(u.Equip("Shield"), jc.ErrorIsNil)
	c.Assert(u.GetTroops(), jc.DeepEquals, once)
}

func (s *UnitSuite) TestEquipThenUnequipRestoresEquipment(c *gc.C) {
	u := mustSpearmenUnit(c)
	c.Assert(u.Equip("Spear"), jc.ErrorIsNil)
	before := u.GetTroops().GetEquipment()

	c.Assert(u.Equip("Shield"), jc.ErrorIsNil)
	c.Assert(u.Unequip("Shield"), jc.ErrorIsNil)

	c.Assert(u.GetTroops().GetEquipment(), jc.DeepEquals, before)
}

func (s *UnitSuite) TestUnequipErrors(c *gc.C) {
	u := mustSpearmenUnit(c)

	err := u.Unequip("Bow")
	c.Assert(model.IsNotInOptions(err), jc.IsTrue)

	err = u.Unequip("Shield")
	c.Assert(errors.IsNotFound(err), jc.IsTrue)
	c.Assert(model.IsNotInOptions(err), jc.IsFalse)
}

func (s *UnitSuite) TestEquipDoesNotTouchOptions(c *gc.C) {
	u := mustSpearmenUnit(c)
	c.Assert(u.Equip("Shield"), jc.ErrorIsNil)

	troops := u.GetTroops()
	c.Assert(troops.RemoveEquipment("Shield"), jc.ErrorIsNil)

	c.Assert(u.GetTroops().HasEquipment("Shield"), jc.IsTrue)
	c.Assert(u.GetOptions()["Shield"], jc.DeepEquals, shield())
}

func (s *UnitSuite) TestValidate(c *gc.C) {
	u := mustSpearmenUnit(c)

	err := u.Validate()
	c.Assert(model.IsOutOfRange(err), jc.IsTrue)
	oorErr := err.(*model.OutOfRangeError)
	c.Assert(oorErr.Size, gc.Equals, 0)
	c.Assert(oorErr.Min, gc.Equals, 20)
	c.Assert(oorErr.Max, gc.Equals, 40)
	c.Assert(oorErr.Bound, gc.Equals, model.BoundMin)
	c.Assert(u.State(), gc.Equals, model.StateUnbuilt)

	c.Assert(u.SetUnitSize(20), jc.ErrorIsNil)
	c.Assert(u.Validate(), jc.ErrorIsNil)
	c.Assert(u.State(), gc.Equals, model.StateValidated)

	// Equipping does not change the lifecycle state.
	c.Assert(u.Equip("Spear"), jc.ErrorIsNil)
	c.Assert(u.State(), gc.Equals, model.StateValidated)

	// Resizing requires validation to be run again.
	c.Assert(u.SetUnitSize(30), jc.ErrorIsNil)
	c.Assert(u.State(), gc.Equals, model.StateSized)
	c.Assert(u.Validate(), jc.ErrorIsNil)
	c.Assert(u.State(), gc.Equals, model.StateValidated)
}

func (s *UnitSuite) TestValidateErrorSurvivesAnnotation(c *gc.C) {
	u := mustSpearmenUnit(c)
	err := errors.Annotate(u.Validate(), "building roster")
	c.Assert(model.IsOutOfRange(err), jc.IsTrue)
	c.Assert(err, gc.ErrorMatches, `building roster: unit size 0 outside range \[20, 40\] \(min_models violated\)`)
}

func (s *UnitSuite) TestScaleToProducesIndependentCopies(c *gc.C) {
	u := mustSpearmenUnit(c)
	c.Assert(u.Equip("Shield"), jc.ErrorIsNil)

	models, err := u.ScaleTo(20)
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(models, gc.HasLen, 20)
	for _, m := range models {
		c.Assert(m, jc.DeepEquals, u.GetTroops())
	}

	c.Assert(models[0].RemoveEquipment("Shield"), jc.ErrorIsNil)
	c.Assert(models[1].HasEquipment("Shield"), jc.IsTrue)
	c.Assert(u.GetTroops().HasEquipment("Shield"), jc.IsTrue)

	_, err = u.ScaleTo(41)
	c.Assert(model.IsOutOfRange(err), jc.IsTrue)
}

func (s *UnitSuite) TestModelsAndPoints(c *gc.C) {
	u := mustSpearmenUnit(c)
	c.Assert(u.SetUnitSize(20), jc.ErrorIsNil)
	c.Assert(u.Equip("Spear"), jc.ErrorIsNil)
	c.Assert(u.Equip("Shield"), jc.ErrorIsNil)

	models, err := u.Models()
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(models, gc.HasLen, 20)
	c.Assert(u.Points(), gc.Equals, 20*12.0)
}

func (s *UnitSuite) TestStateString(c *gc.C) {
	c.Assert(model.StateUnbuilt.String(), gc.Equals, "unbuilt")
	c.Assert(model.StateSized.String(), gc.Equals, "sized")
	c.Assert(model.StateValidated.String(), gc.Equals, "validated")
}
