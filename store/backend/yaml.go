package backend

import (
	"os"
	"path/filepath"

	"github.com/juju/errors"
	"gopkg.in/yaml.v2"

	"github.com/achilleasa/warband/model"
	"github.com/achilleasa/warband/roster"
	"github.com/achilleasa/warband/store"
)

var _ store.Store = (*YAML)(nil)

// YAML provides a Store interface implementation backed by a YAML book
// file. The book is indexed in memory when the store is opened and
// rewritten after every import.
type YAML struct {
	*InMemory
	bookFile string
}

// NewYAML creates a new YAML instance backed by bookFile.
func NewYAML(bookFile string) *YAML {
	return &YAML{
		InMemory: NewInMemory(),
		bookFile: bookFile,
	}
}

// Open the store and load the book file. A missing book file yields an
// empty store.
func (s *YAML) Open() error {
	if err := s.InMemory.Open(); err != nil {
		return err
	}

	data, err := os.ReadFile(s.bookFile)
	if os.IsNotExist(err) {
		return nil
	} else if err != nil {
		return errors.Annotatef(err, "reading book %q", s.bookFile)
	}

	var book store.Book
	if err = yaml.UnmarshalStrict(data, &book); err != nil {
		return errors.Annotatef(err, "parsing book %q", s.bookFile)
	}
	if err = s.InMemory.Import(book); err != nil {
		return errors.Annotatef(err, "loading book %q", s.bookFile)
	}
	return nil
}

// Import merges book into the store and writes the merged book back to
// the book file. The store only serves the merged contents once the book
// file has been replaced.
func (s *YAML) Import(book store.Book) error {
	s.importMu.Lock()
	defer s.importMu.Unlock()

	items, sheets, err := s.mergeBook(book)
	if err != nil {
		return err
	}
	if err = s.writeBook(items, sheets); err != nil {
		return errors.Trace(err)
	}
	s.install(items, sheets)
	return nil
}

func (s *YAML) writeBook(items map[string]model.Equipment, sheets map[string]roster.Datasheet) error {
	itemList := make([]model.Equipment, 0, len(items))
	for _, name := range sortedKeys(items) {
		itemList = append(itemList, items[name])
	}
	sheetList := make([]roster.Datasheet, 0, len(sheets))
	for _, name := range sortedKeys(sheets) {
		sheetList = append(sheetList, sheets[name])
	}

	data, err := yaml.Marshal(store.NewBook(itemList, sheetList))
	if err != nil {
		return errors.Annotate(err, "marshaling book")
	}

	// Write to a temp file and rename it over the book.
	tmpFile, err := os.CreateTemp(filepath.Dir(s.bookFile), filepath.Base(s.bookFile)+".*")
	if err != nil {
		return errors.Annotate(err, "creating temp book file")
	}
	defer func() { _ = os.Remove(tmpFile.Name()) }()

	if _, err = tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		return errors.Annotatef(err, "writing book %q", s.bookFile)
	}
	if err = tmpFile.Close(); err != nil {
		return errors.Annotatef(err, "writing book %q", s.bookFile)
	}
	return errors.Annotatef(os.Rename(tmpFile.Name(), s.bookFile), "replacing book %q", s.bookFile)
}
