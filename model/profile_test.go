package model_test

import (
	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"

	"github.com/achilleasa/warband/model"
)

var _ = gc.Suite(&ProfileSuite{})

type ProfileSuite struct{}

func (s *ProfileSuite) TestNineCharacteristicProfile(c *gc.C) {
	p := mustProfile(c)

	c.Assert(p.HasPsychology(), jc.IsFalse)
	c.Assert(p.Stats().WeaponSkill, gc.Equals, 4)
	c.Assert(p.Stats().Leadership, gc.Equals, 8)
}

func (s *ProfileSuite) TestTwelveCharacteristicProfile(c *gc.C) {
	p, err := model.NewProfile(model.Stats{
		Movement:   4,
		Leadership: 7,
		Psychology: &model.Psychology{Intelligence: 7, Cool: 7, Willpower: 6},
	})
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(p.HasPsychology(), jc.IsTrue)
	c.Assert(p.Stats().Psychology, jc.DeepEquals, &model.Psychology{Intelligence: 7, Cool: 7, Willpower: 6})
}

func (s *ProfileSuite) TestNegativeCharacteristicRejected(c *gc.C) {
	_, err := model.NewProfile(model.Stats{Movement: 5, Toughness: -1})
	c.Assert(err, gc.ErrorMatches, `profile.T=-1 violates invariant: .*`)
	c.Assert(model.IsInvariantViolation(err), jc.IsTrue)

	ivErr := err.(*model.InvariantViolationError)
	c.Assert(ivErr.Field, gc.Equals, "profile.T")
	c.Assert(ivErr.Value, gc.Equals, "-1")
}

func (s *ProfileSuite) TestNegativePsychologyRejected(c *gc.C) {
	_, err := model.NewProfile(model.Stats{Psychology: &model.Psychology{Cool: -2}})
	c.Assert(model.IsInvariantViolation(err), jc.IsTrue)
	c.Assert(err, gc.ErrorMatches, `profile.Cl=-2 .*`)
}

func (s *ProfileSuite) TestProfileIsImmutable(c *gc.C) {
	psy := &model.Psychology{Intelligence: 7, Cool: 7, Willpower: 6}
	p, err := model.NewProfile(model.Stats{Psychology: psy})
	c.Assert(err, jc.ErrorIsNil)

	// Mutating the input and the returned stats must not leak into the profile.
	psy.Cool = 1
	stats := p.Stats()
	stats.Psychology.Willpower = 1
	stats.Movement = 10

	c.Assert(p.Stats().Psychology, jc.DeepEquals, &model.Psychology{Intelligence: 7, Cool: 7, Willpower: 6})
	c.Assert(p.Stats().Movement, gc.Equals, 0)
}
