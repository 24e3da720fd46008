// Package schema defines the closed, versioned document format that units
// are serialized to.
//
// Every document field carries a `json` tag naming its key and an optional
// `schema` tag listing its flags:
//
//	optional  the key may be omitted
//	nullable  the key may hold a JSON null
//
// Keys without the optional flag are required. Keys that do not map to a
// field are rejected.
package schema

// Version is the schema version written to, and accepted from, documents.
const Version = 1

// Unit is the document representation of a unit: a troop template plus
// a model count.
type Unit struct {
	SchemaVersion int         `json:"schema_version" yaml:"schema_version"`
	Name          string      `json:"name" yaml:"name"`
	Faction       string      `json:"faction" yaml:"faction"`
	MinModels     int         `json:"min_models" yaml:"min_models"`
	MaxModels     int         `json:"max_models" yaml:"max_models"`
	TroopType     *string     `json:"troop_type" yaml:"troop_type" schema:"nullable"`
	NumModels     int         `json:"num_models" yaml:"num_models"`
	Troops        Model       `json:"troops" yaml:"troops"`
	Options       []Equipment `json:"options" yaml:"options"`
	SpecialRules  []string    `json:"special_rules" yaml:"special_rules"`
}

// Model is the document representation of a troop template.
type Model struct {
	Name      string      `json:"name" yaml:"name"`
	Race      string      `json:"race" yaml:"race"`
	TroopType *string     `json:"troop_type" yaml:"troop_type" schema:"nullable"`
	Points    float64     `json:"points" yaml:"points"`
	Profile   Profile     `json:"profile" yaml:"profile"`
	Equipment []Equipment `json:"equipment" yaml:"equipment"`
}

// Profile is the document representation of a characteristic line. The
// Int, Cl and WP keys must be either all present or all absent.
type Profile struct {
	M  int `json:"M" yaml:"M"`
	WS int `json:"WS" yaml:"WS"`
	BS int `json:"BS" yaml:"BS"`
	S  int `json:"S" yaml:"S"`
	T  int `json:"T" yaml:"T"`
	W  int `json:"W" yaml:"W"`
	I  int `json:"I" yaml:"I"`
	A  int `json:"A" yaml:"A"`
	Ld int `json:"Ld" yaml:"Ld"`

	Int *int `json:"Int,omitempty" yaml:"Int,omitempty" schema:"optional"`
	Cl  *int `json:"Cl,omitempty" yaml:"Cl,omitempty" schema:"optional"`
	WP  *int `json:"WP,omitempty" yaml:"WP,omitempty" schema:"optional"`
}

// Equipment is the document representation of an equipment item.
type Equipment struct {
	Name        string   `json:"name" yaml:"name"`
	Points      float64  `json:"points" yaml:"points"`
	Category    string   `json:"category" yaml:"category"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty" schema:"optional"`
	Missile     *Missile `json:"missile,omitempty" yaml:"missile,omitempty" schema:"optional,nullable"`
}

// Missile is the document representation of a missile weapon profile.
type Missile struct {
	Range        int `json:"range" yaml:"range"`
	Strength     int `json:"strength" yaml:"strength"`
	SaveModifier int `json:"save_modifier" yaml:"save_modifier"`
}
