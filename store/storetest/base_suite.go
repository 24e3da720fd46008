package storetest

import (
	"github.com/juju/errors"
	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"

	"github.com/achilleasa/warband/model"
	"github.com/achilleasa/warband/roster"
	"github.com/achilleasa/warband/schema"
	"github.com/achilleasa/warband/store"
)

// StoreBaseSuite implements a store-agnostic test-suite harness which allows
// testing the behavior of equipment and datasheet lookups with any supported
// store implementations.
type StoreBaseSuite struct {
	// A Store instance which the embedding test suite provides via
	// Configure().
	st store.Store

	// A cleanup function to truncate the store contents which the embedding
	// test suite provides via Configure().
	cleanupFunc func(*gc.C)
}

// Configure the suite parameters. This method must be called before running
// any of the test suite methods or an error will be raised.
func (s *StoreBaseSuite) Configure(st store.Store, cleanupFunc func(*gc.C)) {
	s.st = st
	s.cleanupFunc = cleanupFunc
}

func (s *StoreBaseSuite) SetUpTest(c *gc.C) {
	c.Assert(s.st, gc.Not(gc.IsNil), gc.Commentf("Configure() must be called before running any tests in this suite"))
	c.Assert(s.cleanupFunc, gc.Not(gc.IsNil), gc.Commentf("Configure() must be called before running any tests in this suite"))
	s.cleanupFunc(c)
}

// SeedBook returns the book that the suite imports into the store under test.
func SeedBook() store.Book {
	intel, cool, will := 8, 8, 9
	return store.Book{
		Equipment: []schema.Equipment{
			{Name: "Spear", Points: 0.5, Category: "weapon"},
			{Name: "Shield", Points: 0.5, Category: "armour", Description: "A sturdy shield"},
			{Name: "Light Armour", Points: 1, Category: "armour"},
			{Name: "Longbow", Points: 2, Category: "weapon", Missile: &schema.Missile{Range: 30, Strength: 3}},
			{Name: "Battle Standard", Points: 25, Category: "standard"},
		},
		Datasheets: []roster.Datasheet{
			{
				Name:      "High Elf Spearmen",
				Faction:   "High Elves",
				MinModels: 20,
				MaxModels: 40,
				Troops: roster.TroopSpec{
					Name:      "Spearman",
					Race:      "High Elf",
					TroopType: "Infantry",
					Points:    11,
					Profile:   schema.Profile{M: 5, WS: 4, BS: 4, S: 3, T: 3, W: 1, I: 5, A: 1, Ld: 8},
					Equipment: []string{"Light Armour"},
				},
				Options:      []string{"Spear", "Shield", "Battle Standard"},
				SpecialRules: []string{"Martial Prowess", "Always Strikes First"},
			},
			{
				Name:      "Lothern Sea Guard",
				Faction:   "High Elves",
				MinModels: 10,
				MaxModels: 30,
				TroopType: "Regiment",
				Troops: roster.TroopSpec{
					Name:      "Sea Guard",
					Race:      "High Elf",
					Points:    13,
					Profile:   schema.Profile{M: 5, WS: 4, BS: 4, S: 3, T: 3, W: 1, I: 5, A: 1, Ld: 8, Int: &intel, Cl: &cool, WP: &will},
					Equipment: []string{"Spear", "Light Armour"},
				},
				Options: []string{"Shield", "Longbow"},
			},
			{
				Name:      "Orc Boyz",
				Faction:   "Orcs & Goblins",
				MinModels: 10,
				MaxModels: 50,
				Troops: roster.TroopSpec{
					Name:      "Orc Boy",
					Race:      "Orc",
					Points:    6,
					Profile:   schema.Profile{M: 4, WS: 3, BS: 3, S: 3, T: 4, W: 1, I: 2, A: 1, Ld: 7},
					Equipment: []string{"Light Armour"},
				},
				Options: []string{"Shield"},
			},
		},
	}
}

func (s *StoreBaseSuite) seed(c *gc.C) {
	c.Assert(s.st.Import(SeedBook()), jc.ErrorIsNil)
}

func (s *StoreBaseSuite) TestImportAndFindEquipment(c *gc.C) {
	s.seed(c)

	got, err := s.st.FindEquipmentByName("Longbow")
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(got, jc.DeepEquals, model.Equipment{
		Name:     "Longbow",
		Points:   2,
		Category: model.CategoryWeapon,
		Missile:  &model.MissileProfile{Range: 30, Strength: 3},
	})

	got, err = s.st.FindEquipmentByName("Shield")
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(got.Description, gc.Equals, "A sturdy shield")
	c.Assert(got.Missile, gc.IsNil)

	count, err := s.st.CountEquipment()
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(count, gc.Equals, 5)
}

func (s *StoreBaseSuite) TestFindEquipmentNotFound(c *gc.C) {
	s.seed(c)

	_, err := s.st.FindEquipmentByName("Halberd")
	c.Assert(errors.IsNotFound(err), jc.IsTrue)
}

func (s *StoreBaseSuite) TestFindEquipmentByCategory(c *gc.C) {
	s.seed(c)

	items := s.consumeEquipmentIterator(c, s.st.FindEquipmentByCategory(model.CategoryArmour))
	c.Assert(equipmentNames(items), jc.DeepEquals, []string{"Light Armour", "Shield"})

	items = s.consumeEquipmentIterator(c, s.st.AllEquipment())
	c.Assert(equipmentNames(items), jc.DeepEquals, []string{"Battle Standard", "Light Armour", "Longbow", "Shield", "Spear"})
}

func (s *StoreBaseSuite) TestLookupsReturnCopies(c *gc.C) {
	s.seed(c)

	got, err := s.st.FindEquipmentByName("Longbow")
	c.Assert(err, jc.ErrorIsNil)
	got.Missile.Range = 1

	items := s.consumeEquipmentIterator(c, s.st.FindEquipmentByCategory(model.CategoryWeapon))
	c.Assert(items, gc.HasLen, 2)
	c.Assert(items[0].Missile.Range, gc.Equals, 30)
	items[0].Missile.Range = 2

	got, err = s.st.FindEquipmentByName("Longbow")
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(got.Missile.Range, gc.Equals, 30)

	sheet, err := s.st.FindDatasheetByName("Lothern Sea Guard")
	c.Assert(err, jc.ErrorIsNil)
	sheet.Options[0] = "Halberd"
	*sheet.Troops.Profile.Cl = 1

	sheet, err = s.st.FindDatasheetByName("Lothern Sea Guard")
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(sheet.Options, jc.DeepEquals, []string{"Shield", "Longbow"})
	c.Assert(*sheet.Troops.Profile.Cl, gc.Equals, 8)
}

func (s *StoreBaseSuite) TestImportReplacesEntries(c *gc.C) {
	s.seed(c)

	c.Assert(s.st.Import(store.Book{
		Equipment: []schema.Equipment{{Name: "Shield", Points: 1, Category: "armour"}},
	}), jc.ErrorIsNil)

	got, err := s.st.FindEquipmentByName("Shield")
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(got, jc.DeepEquals, model.Equipment{Name: "Shield", Points: 1, Category: model.CategoryArmour})

	count, err := s.st.CountEquipment()
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(count, gc.Equals, 5)
}

func (s *StoreBaseSuite) TestImportIsAllOrNothing(c *gc.C) {
	err := s.st.Import(store.Book{
		Equipment: []schema.Equipment{
			{Name: "Spear", Points: 0.5, Category: "weapon"},
			{Name: "Halberd", Points: 1, Category: "polearm"},
		},
	})
	c.Assert(schema.IsSchemaError(err), jc.IsTrue)

	err = s.st.Import(store.Book{
		Equipment: []schema.Equipment{{Name: "Spear", Points: 0.5, Category: "weapon"}},
		Datasheets: []roster.Datasheet{
			{Name: "Spearmen", MaxModels: 10},
			{Name: "Spearmen", MaxModels: 20},
		},
	})
	c.Assert(errors.IsAlreadyExists(err), jc.IsTrue)

	count, err := s.st.CountEquipment()
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(count, gc.Equals, 0, gc.Commentf("expected failed imports to leave the store untouched"))
	count, err = s.st.CountDatasheets()
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(count, gc.Equals, 0)
}

func (s *StoreBaseSuite) TestFindDatasheets(c *gc.C) {
	s.seed(c)

	book := SeedBook()
	got, err := s.st.FindDatasheetByName("Lothern Sea Guard")
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(got, jc.DeepEquals, book.Datasheets[1])

	_, err = s.st.FindDatasheetByName("Swordmasters")
	c.Assert(errors.IsNotFound(err), jc.IsTrue)

	sheets := s.consumeDatasheetIterator(c, s.st.FindDatasheetsByFaction("High Elves"))
	c.Assert(datasheetNames(sheets), jc.DeepEquals, []string{"High Elf Spearmen", "Lothern Sea Guard"})

	sheets = s.consumeDatasheetIterator(c, s.st.AllDatasheets())
	c.Assert(datasheetNames(sheets), jc.DeepEquals, []string{"High Elf Spearmen", "Lothern Sea Guard", "Orc Boyz"})

	count, err := s.st.CountDatasheets()
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(count, gc.Equals, 3)
}

func (s *StoreBaseSuite) TestBuildUnitFromStore(c *gc.C) {
	s.seed(c)

	cat, err := store.LoadCatalog(s.st)
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(cat.Len(), gc.Equals, 5)

	sheet, err := s.st.FindDatasheetByName("High Elf Spearmen")
	c.Assert(err, jc.ErrorIsNil)
	u, err := sheet.Build(cat)
	c.Assert(err, jc.ErrorIsNil)

	c.Assert(u.SetUnitSize(36), jc.ErrorIsNil)
	c.Assert(u.Equip("Spear"), jc.ErrorIsNil)
	c.Assert(model.IsNotInOptions(u.Equip("Longbow")), jc.IsTrue)
	c.Assert(u.Validate(), jc.ErrorIsNil)
	c.Assert(u.GetTroops().EquipmentNames(), jc.DeepEquals, []string{"Light Armour", "Spear"})
	c.Assert(u.GetSpecialRules(), jc.DeepEquals, []string{"Martial Prowess", "Always Strikes First"})
}

func (s *StoreBaseSuite) TestIteratorLeakDetection(c *gc.C) {
	s.seed(c)

	// Get an iterator but call Import without closing it first.
	it := s.st.AllEquipment()
	err := s.st.Import(SeedBook())
	c.Assert(err, gc.ErrorMatches, "(?m).*unable to import as the following iterators have not been closed.*")
	c.Assert(it.Close(), jc.ErrorIsNil)

	c.Assert(s.st.Import(SeedBook()), jc.ErrorIsNil)
}

func (s *StoreBaseSuite) consumeEquipmentIterator(c *gc.C, it store.EquipmentIterator) []model.Equipment {
	defer func() {
		// Ensure iterator is always closed even if we get an error.
		_ = it.Close()
	}()
	var res []model.Equipment
	for it.Next() {
		res = append(res, it.Equipment())
	}
	c.Assert(it.Error(), jc.ErrorIsNil, gc.Commentf("encountered error while iterating Equipment"))
	c.Assert(it.Close(), jc.ErrorIsNil, gc.Commentf("encountered error while closing Equipment iterator"))
	return res
}

func (s *StoreBaseSuite) consumeDatasheetIterator(c *gc.C, it store.DatasheetIterator) []roster.Datasheet {
	defer func() {
		// Ensure iterator is always closed even if we get an error.
		_ = it.Close()
	}()
	var res []roster.Datasheet
	for it.Next() {
		res = append(res, it.Datasheet())
	}
	c.Assert(it.Error(), jc.ErrorIsNil, gc.Commentf("encountered error while iterating Datasheets"))
	c.Assert(it.Close(), jc.ErrorIsNil, gc.Commentf("encountered error while closing Datasheet iterator"))
	return res
}

func equipmentNames(items []model.Equipment) []string {
	names := make([]string, len(items))
	for i, item := range items {
		names[i] = item.Name
	}
	return names
}

func datasheetNames(sheets []roster.Datasheet) []string {
	names := make([]string, len(sheets))
	for i, sheet := range sheets {
		names[i] = sheet.Name
	}
	return names
}
