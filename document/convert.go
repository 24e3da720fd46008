package document

import (
	"fmt"
	"sort"

	"github.com/juju/errors"

	"github.com/achilleasa/warband/model"
	"github.com/achilleasa/warband/schema"
)

// FromProfile converts a profile into its document representation.
func FromProfile(p model.Profile) schema.Profile {
	s := p.Stats()
	doc := schema.Profile{
		M:  s.Movement,
		WS: s.WeaponSkill,
		BS: s.BallisticSkill,
		S:  s.Strength,
		T:  s.Toughness,
		W:  s.Wounds,
		I:  s.Initiative,
		A:  s.Attacks,
		Ld: s.Leadership,
	}
	if psy := s.Psychology; psy != nil {
		doc.Int = intPtr(psy.Intelligence)
		doc.Cl = intPtr(psy.Cool)
		doc.WP = intPtr(psy.Willpower)
	}
	return doc
}

// ToProfile converts a profile document found at path into a Profile.
func ToProfile(path string, doc schema.Profile) (model.Profile, error) {
	stats := model.Stats{
		Movement:       doc.M,
		WeaponSkill:    doc.WS,
		BallisticSkill: doc.BS,
		Strength:       doc.S,
		Toughness:      doc.T,
		Wounds:         doc.W,
		Initiative:     doc.I,
		Attacks:        doc.A,
		Leadership:     doc.Ld,
	}

	switch present := countSet(doc.Int, doc.Cl, doc.WP); present {
	case 0:
	case 3:
		stats.Psychology = &model.Psychology{
			Intelligence: *doc.Int,
			Cool:         *doc.Cl,
			Willpower:    *doc.WP,
		}
	default:
		return model.Profile{}, schema.NewError(path, "Int, Cl and WP must be given together; got %d of 3", present)
	}

	return model.NewProfile(stats)
}

// FromEquipment converts an equipment item into its document representation.
func FromEquipment(item model.Equipment) schema.Equipment {
	doc := schema.Equipment{
		Name:        item.Name,
		Points:      item.Points,
		Category:    string(item.Category),
		Description: item.Description,
	}
	if item.Missile != nil {
		doc.Missile = &schema.Missile{
			Range:        item.Missile.Range,
			Strength:     item.Missile.Strength,
			SaveModifier: item.Missile.SaveModifier,
		}
	}
	return doc
}

// ToEquipment converts an equipment document found at path into a
// validated Equipment item.
func ToEquipment(path string, doc schema.Equipment) (model.Equipment, error) {
	cat, err := model.ParseCategory(doc.Category)
	if err != nil {
		return model.Equipment{}, schema.NewError(path+".category", "unknown category %q", doc.Category)
	}

	item := model.Equipment{
		Name:        doc.Name,
		Points:      doc.Points,
		Category:    cat,
		Description: doc.Description,
	}
	if doc.Missile != nil {
		item.Missile = &model.MissileProfile{
			Range:        doc.Missile.Range,
			Strength:     doc.Missile.Strength,
			SaveModifier: doc.Missile.SaveModifier,
		}
	}

	if err := item.Validate(); err != nil {
		return model.Equipment{}, errors.Trace(err)
	}
	return item, nil
}

// FromEquipmentMap converts a set of items into a document array sorted
// by item name.
func FromEquipmentMap(items map[string]model.Equipment) []schema.Equipment {
	names := make([]string, 0, len(items))
	for name := range items {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]schema.Equipment, 0, len(names))
	for _, name := range names {
		out = append(out, FromEquipment(items[name]))
	}
	return out
}

// ToEquipmentMap converts the document array found at path into a map keyed
// by item name. Duplicate names are rejected.
func ToEquipmentMap(path string, docs []schema.Equipment) (map[string]model.Equipment, error) {
	out := make(map[string]model.Equipment, len(docs))
	for i, doc := range docs {
		elemPath := fmt.Sprintf("%s[%d]", path, i)
		if _, dup := out[doc.Name]; dup {
			return nil, schema.NewError(elemPath+".name", "duplicate equipment name %q", doc.Name)
		}
		item, err := ToEquipment(elemPath, doc)
		if err != nil {
			return nil, errors.Trace(err)
		}
		out[item.Name] = item
	}
	return out, nil
}

// FromModel converts a model into its document representation.
func FromModel(m *model.Model) schema.Model {
	return schema.Model{
		Name:      m.GetName(),
		Race:      m.GetRace(),
		TroopType: optionalString(m.GetTroopType()),
		Points:    m.GetPoints(),
		Profile:   FromProfile(m.GetProfile()),
		Equipment: FromEquipmentMap(m.GetEquipment()),
	}
}

// ToModel converts a model document found at path into a Model.
func ToModel(path string, doc schema.Model) (*model.Model, error) {
	profile, err := ToProfile(path+".profile", doc.Profile)
	if err != nil {
		return nil, errors.Trace(err)
	}
	m, err := model.NewModel(doc.Name, doc.Race, doc.Points, profile)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if doc.TroopType != nil {
		m.SetTroopType(*doc.TroopType)
	}

	equipment, err := ToEquipmentMap(path+".equipment", doc.Equipment)
	if err != nil {
		return nil, errors.Trace(err)
	}
	for name, item := range equipment {
		if err := m.SetEquipment(name, item); err != nil {
			return nil, errors.Trace(err)
		}
	}
	return m, nil
}

// FromUnit converts a unit into its document representation. The unit
// lifecycle state is not checked; see Marshal.
func FromUnit(u *model.Unit) schema.Unit {
	return schema.Unit{
		SchemaVersion: schema.Version,
		Name:          u.GetName(),
		Faction:       u.GetFaction(),
		MinModels:     u.GetMinModels(),
		MaxModels:     u.GetMaxModels(),
		TroopType:     optionalString(u.GetTroopType()),
		NumModels:     u.Size(),
		Troops:        FromModel(u.GetTroops()),
		Options:       FromEquipmentMap(u.GetOptions()),
		SpecialRules:  u.GetSpecialRules(),
	}
}

// ToUnit converts a unit document into a sized and validated Unit. Either
// the complete unit or an error is returned.
func ToUnit(doc schema.Unit) (*model.Unit, error) {
	if doc.SchemaVersion != schema.Version {
		return nil, schema.NewError(schema.RootPath+".schema_version", "unsupported schema version %d; expected %d", doc.SchemaVersion, schema.Version)
	}

	troops, err := ToModel(schema.RootPath+".troops", doc.Troops)
	if err != nil {
		return nil, errors.Trace(err)
	}
	options, err := ToEquipmentMap(schema.RootPath+".options", doc.Options)
	if err != nil {
		return nil, errors.Trace(err)
	}

	spec := model.UnitSpec{
		Name:         doc.Name,
		Faction:      doc.Faction,
		MinModels:    doc.MinModels,
		MaxModels:    doc.MaxModels,
		Troops:       troops,
		Options:      options,
		SpecialRules: doc.SpecialRules,
	}
	if doc.TroopType != nil {
		spec.TroopType = *doc.TroopType
	}

	u, err := model.NewUnit(spec)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if err := u.SetUnitSize(doc.NumModels); err != nil {
		return nil, errors.Trace(err)
	}
	if err := u.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	return u, nil
}

func intPtr(v int) *int { return &v }

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func countSet(vals ...*int) int {
	var n int
	for _, v := range vals {
		if v != nil {
			n++
		}
	}
	return n
}
