package backend

import (
	"os"
	"path/filepath"

	"github.com/juju/errors"
	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"

	"github.com/achilleasa/warband/store/storetest"
)

var _ = gc.Suite(&YAMLSuite{})

type YAMLSuite struct {
	storetest.StoreBaseSuite
	st *YAML
}

func (s *YAMLSuite) SetUpSuite(c *gc.C) {
	s.st = NewYAML(filepath.Join(c.MkDir(), "book.yaml"))
	s.StoreBaseSuite.Configure(s.st, s.resetBook)
}

func (s *YAMLSuite) SetUpTest(c *gc.C) {
	s.StoreBaseSuite.SetUpTest(c)
}

func (s *YAMLSuite) resetBook(c *gc.C) {
	c.Assert(s.st.Close(), gc.IsNil)
	if _, err := os.Stat(s.st.bookFile); err == nil {
		c.Assert(os.Remove(s.st.bookFile), gc.IsNil)
	}
	c.Assert(s.st.Open(), gc.IsNil)
}

func (s *YAMLSuite) TestImportRewritesBook(c *gc.C) {
	c.Assert(s.st.Import(storetest.SeedBook()), jc.ErrorIsNil)

	reopened := NewYAML(s.st.bookFile)
	c.Assert(reopened.Open(), jc.ErrorIsNil)

	count, err := reopened.CountEquipment()
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(count, gc.Equals, 5)

	item, err := reopened.FindEquipmentByName("Longbow")
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(item.Missile.Range, gc.Equals, 30)

	sheet, err := reopened.FindDatasheetByName("Lothern Sea Guard")
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(*sheet.Troops.Profile.Int, gc.Equals, 8)
	c.Assert(sheet.Options, jc.DeepEquals, []string{"Shield", "Longbow"})
}

func (s *YAMLSuite) TestOpenRejectsUnknownKeys(c *gc.C) {
	book := `
equipment:
  - name: Spear
    points: 0.5
    category: weapon
    reach: 2
`
	c.Assert(os.WriteFile(s.st.bookFile, []byte(book), 0644), jc.ErrorIsNil)

	err := NewYAML(s.st.bookFile).Open()
	c.Assert(err, gc.ErrorMatches, `(?s)parsing book ".*book.yaml": .*field reach not found.*`)
}

func (s *YAMLSuite) TestOpenRejectsInvalidBook(c *gc.C) {
	book := `
equipment:
  - name: Spear
    points: 0.5
    category: polearm
`
	c.Assert(os.WriteFile(s.st.bookFile, []byte(book), 0644), jc.ErrorIsNil)

	err := NewYAML(s.st.bookFile).Open()
	c.Assert(err, gc.ErrorMatches, `loading book ".*book.yaml": resolving book: schema error at \$.equipment\[0\].category: unknown category "polearm"`)
}

func (s *YAMLSuite) TestFailedBookWriteLeavesStoreUntouched(c *gc.C) {
	dir := c.MkDir()
	st := NewYAML(filepath.Join(dir, "books", "book.yaml"))
	c.Assert(st.Open(), jc.ErrorIsNil)

	err := st.Import(storetest.SeedBook())
	c.Assert(err, gc.ErrorMatches, "creating temp book file: .*")

	count, err := st.CountEquipment()
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(count, gc.Equals, 0)
	count, err = st.CountDatasheets()
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(count, gc.Equals, 0)
	_, err = st.FindDatasheetByName("High Elf Spearmen")
	c.Assert(errors.IsNotFound(err), jc.IsTrue)

	// Once the book can be written the same import goes through.
	c.Assert(os.Mkdir(filepath.Join(dir, "books"), 0o755), jc.ErrorIsNil)
	c.Assert(st.Import(storetest.SeedBook()), jc.ErrorIsNil)
	count, err = st.CountEquipment()
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(count, gc.Equals, 5)
}

func (s *YAMLSuite) TestImportKeepsEarlierEntries(c *gc.C) {
	c.Assert(s.st.Import(storetest.SeedBook()), jc.ErrorIsNil)

	extra := storetest.SeedBook()
	extra.Equipment = extra.Equipment[:1]
	extra.Equipment[0].Points = 1
	extra.Datasheets = nil
	c.Assert(s.st.Import(extra), jc.ErrorIsNil)

	reopened := NewYAML(s.st.bookFile)
	c.Assert(reopened.Open(), jc.ErrorIsNil)
	count, err := reopened.CountEquipment()
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(count, gc.Equals, 5)
	count, err = reopened.CountDatasheets()
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(count, gc.Equals, 3)

	item, err := reopened.FindEquipmentByName("Spear")
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(item.Points, gc.Equals, 1.0)
}
