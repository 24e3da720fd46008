package store

import (
	"fmt"

	"github.com/juju/errors"

	"github.com/achilleasa/warband/document"
	"github.com/achilleasa/warband/model"
	"github.com/achilleasa/warband/roster"
	"github.com/achilleasa/warband/schema"
)

// Book is the exchange format for importing equipment and datasheets into
// a Store.
type Book struct {
	Equipment  []schema.Equipment `json:"equipment" yaml:"equipment"`
	Datasheets []roster.Datasheet `json:"datasheets" yaml:"datasheets"`
}

// NewBook assembles a Book out of validated equipment items and datasheets.
func NewBook(items []model.Equipment, sheets []roster.Datasheet) Book {
	book := Book{
		Equipment:  make([]schema.Equipment, 0, len(items)),
		Datasheets: make([]roster.Datasheet, 0, len(sheets)),
	}
	for _, item := range items {
		book.Equipment = append(book.Equipment, document.FromEquipment(item))
	}
	for _, sheet := range sheets {
		book.Datasheets = append(book.Datasheets, sheet.Clone())
	}
	return book
}

// Resolve validates the book contents and returns them keyed by name.
func (b Book) Resolve() (map[string]model.Equipment, map[string]roster.Datasheet, error) {
	items, err := document.ToEquipmentMap("$.equipment", b.Equipment)
	if err != nil {
		return nil, nil, errors.Trace(err)
	}

	sheets := make(map[string]roster.Datasheet, len(b.Datasheets))
	for i, sheet := range b.Datasheets {
		if sheet.Name == "" {
			return nil, nil, errors.NotValidf("datasheet at %s with empty name", fmt.Sprintf("$.datasheets[%d]", i))
		}
		if _, dup := sheets[sheet.Name]; dup {
			return nil, nil, errors.AlreadyExistsf("datasheet %q in book", sheet.Name)
		}
		sheets[sheet.Name] = sheet.Clone()
	}
	return items, sheets, nil
}

// ExportBook collects every equipment item and datasheet known to st into
// a Book.
func ExportBook(st interface {
	EquipmentAccessor
	DatasheetAccessor
}) (Book, error) {
	var items []model.Equipment
	itemIt := st.AllEquipment()
	for itemIt.Next() {
		items = append(items, itemIt.Equipment())
	}
	if err := itemIt.Error(); err != nil {
		_ = itemIt.Close()
		return Book{}, errors.Annotate(err, "exporting equipment")
	}
	if err := itemIt.Close(); err != nil {
		return Book{}, errors.Trace(err)
	}

	var sheets []roster.Datasheet
	sheetIt := st.AllDatasheets()
	for sheetIt.Next() {
		sheets = append(sheets, sheetIt.Datasheet())
	}
	if err := sheetIt.Error(); err != nil {
		_ = sheetIt.Close()
		return Book{}, errors.Annotate(err, "exporting datasheets")
	}
	if err := sheetIt.Close(); err != nil {
		return Book{}, errors.Trace(err)
	}

	return NewBook(items, sheets), nil
}
