package model

// Stats is the characteristic line used to build a Profile.
type Stats struct {
	Movement       int
	WeaponSkill    int
	BallisticSkill int
	Strength       int
	Toughness      int
	Wounds         int
	Initiative     int
	Attacks        int
	Leadership     int

	// Psychology is nil for nine-characteristic profiles.
	Psychology *Psychology
}

// Psychology holds the three optional characteristics of twelve
// characteristic profiles.
type Psychology struct {
	Intelligence int
	Cool         int
	Willpower    int
}

// Profile is an immutable, validated characteristic line owned by a
// single Model.
type Profile struct {
	stats Stats
}

type characteristic struct {
	name  string
	value int
}

// NewProfile validates s and returns a Profile holding a private copy of it.
func NewProfile(s Stats) (Profile, error) {
	checks := []characteristic{
		{"M", s.Movement},
		{"WS", s.WeaponSkill},
		{"BS", s.BallisticSkill},
		{"S", s.Strength},
		{"T", s.Toughness},
		{"W", s.Wounds},
		{"I", s.Initiative},
		{"A", s.Attacks},
		{"Ld", s.Leadership},
	}
	if psy := s.Psychology; psy != nil {
		checks = append(checks,
			characteristic{"Int", psy.Intelligence},
			characteristic{"Cl", psy.Cool},
			characteristic{"WP", psy.Willpower},
		)
	}

	for _, chk := range checks {
		if chk.value < 0 {
			return Profile{}, newInvariantViolation("profile."+chk.name, chk.value, "characteristics must be >= 0")
		}
	}

	return Profile{stats: copyStats(s)}, nil
}

// Stats returns a copy of the profile characteristics.
func (p Profile) Stats() Stats { return copyStats(p.stats) }

// HasPsychology returns true for twelve-characteristic profiles.
func (p Profile) HasPsychology() bool { return p.stats.Psychology != nil }

func copyStats(s Stats) Stats {
	if s.Psychology != nil {
		psy := *s.Psychology
		s.Psychology = &psy
	}
	return s
}
