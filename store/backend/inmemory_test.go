package backend

import (
	"github.com/juju/errors"
	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"

	"github.com/achilleasa/warband/store/storetest"
)

var _ = gc.Suite(&InMemorySuite{})

type InMemorySuite struct {
	storetest.StoreBaseSuite
	st *InMemory
}

func (s *InMemorySuite) SetUpSuite(c *gc.C) {
	s.st = NewInMemory()
	s.StoreBaseSuite.Configure(s.st, s.resetDB)
}

func (s *InMemorySuite) SetUpTest(c *gc.C) {
	s.StoreBaseSuite.SetUpTest(c)
}

func (s *InMemorySuite) resetDB(c *gc.C) {
	c.Assert(s.st.Close(), gc.IsNil)
	c.Assert(s.st.Open(), gc.IsNil)
}

func (s *InMemorySuite) TestImportBeforeOpen(c *gc.C) {
	st := NewInMemory()

	err := st.Import(storetest.SeedBook())
	c.Assert(errors.IsNotValid(err), jc.IsTrue)

	count, err := st.CountEquipment()
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(count, gc.Equals, 0)

	c.Assert(st.Open(), jc.ErrorIsNil)
	c.Assert(st.Import(storetest.SeedBook()), jc.ErrorIsNil)
}
