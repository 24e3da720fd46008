package backend

import (
	"sort"
	"sync"

	"github.com/juju/errors"

	"github.com/achilleasa/warband/model"
	"github.com/achilleasa/warband/roster"
	"github.com/achilleasa/warband/store"
)

var _ store.Store = (*InMemory)(nil)

// InMemory provides a Store interface implementation that keeps its state in
// memory. Every lookup returns a clone of the stored entry.
type InMemory struct {
	// importMu serializes imports so that merging a book and installing
	// the result happen as one step.
	importMu sync.Mutex

	mu         sync.RWMutex
	equipment  map[string]model.Equipment
	datasheets map[string]roster.Datasheet

	iterators openIterators
}

// NewInMemory creates a new InMemory instance.
func NewInMemory() *InMemory {
	return new(InMemory)
}

// Open the store.
func (s *InMemory) Open() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.equipment = make(map[string]model.Equipment)
	s.datasheets = make(map[string]roster.Datasheet)
	return nil
}

// Close the store.
func (s *InMemory) Close() error {
	return nil
}

// Import validates book and merges its contents into the store.
func (s *InMemory) Import(book store.Book) error {
	s.importMu.Lock()
	defer s.importMu.Unlock()

	items, sheets, err := s.mergeBook(book)
	if err != nil {
		return err
	}
	s.install(items, sheets)
	return nil
}

// mergeBook returns the store contents with book applied on top of them.
// The store itself is left untouched. Callers must hold importMu.
func (s *InMemory) mergeBook(book store.Book) (map[string]model.Equipment, map[string]roster.Datasheet, error) {
	if err := s.iterators.assertAllClosed(); err != nil {
		return nil, nil, err
	}
	newItems, newSheets, err := book.Resolve()
	if err != nil {
		return nil, nil, errors.Annotate(err, "resolving book")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.equipment == nil || s.datasheets == nil {
		return nil, nil, errors.NotValidf("import into a store that has not been opened")
	}

	items := make(map[string]model.Equipment, len(s.equipment)+len(newItems))
	for name, item := range s.equipment {
		items[name] = item
	}
	for name, item := range newItems {
		items[name] = item
	}

	sheets := make(map[string]roster.Datasheet, len(s.datasheets)+len(newSheets))
	for name, sheet := range s.datasheets {
		sheets[name] = sheet
	}
	for name, sheet := range newSheets {
		sheets[name] = sheet
	}
	return items, sheets, nil
}

// install replaces the store contents with the output of mergeBook.
func (s *InMemory) install(items map[string]model.Equipment, sheets map[string]roster.Datasheet) {
	// When mutating the store, always acquire the write lock.
	s.mu.Lock()
	defer s.mu.Unlock()
	s.equipment = items
	s.datasheets = sheets
}

//-----------------------------------------
// EquipmentAccessor implementation
//-----------------------------------------

var _ store.EquipmentIterator = (*inMemEquipmentIterator)(nil)

type inMemEquipmentIterator struct {
	inMemIterator[model.Equipment]
}

func (it *inMemEquipmentIterator) Equipment() model.Equipment { return it.cur.Clone() }

func (s *InMemory) FindEquipmentByName(name string) (model.Equipment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, found := s.equipment[name]
	if !found {
		return model.Equipment{}, errors.NotFoundf("equipment %q", name)
	}
	return item.Clone(), nil
}

func (s *InMemory) FindEquipmentByCategory(category model.Category) store.EquipmentIterator {
	return s.makeEquipmentIterator(func(item model.Equipment) bool {
		return item.Category == category
	})
}

func (s *InMemory) CountEquipment() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.equipment), nil
}

func (s *InMemory) AllEquipment() store.EquipmentIterator {
	return s.makeEquipmentIterator(func(model.Equipment) bool { return true })
}

func (s *InMemory) makeEquipmentIterator(match func(model.Equipment) bool) store.EquipmentIterator {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var rows []model.Equipment
	for _, name := range sortedKeys(s.equipment) {
		if item := s.equipment[name]; match(item) {
			// Clone item before appending to the result list.
			rows = append(rows, item.Clone())
		}
	}
	return &inMemEquipmentIterator{newInMemIterator(&s.iterators, s.iterators.track(), rows)}
}

//-----------------------------------------
// DatasheetAccessor implementation
//-----------------------------------------

var _ store.DatasheetIterator = (*inMemDatasheetIterator)(nil)

type inMemDatasheetIterator struct {
	inMemIterator[roster.Datasheet]
}

func (it *inMemDatasheetIterator) Datasheet() roster.Datasheet { return it.cur.Clone() }

func (s *InMemory) FindDatasheetByName(name string) (roster.Datasheet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sheet, found := s.datasheets[name]
	if !found {
		return roster.Datasheet{}, errors.NotFoundf("datasheet %q", name)
	}
	return sheet.Clone(), nil
}

func (s *InMemory) FindDatasheetsByFaction(faction string) store.DatasheetIterator {
	return s.makeDatasheetIterator(func(sheet roster.Datasheet) bool {
		return sheet.Faction == faction
	})
}

func (s *InMemory) CountDatasheets() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.datasheets), nil
}

func (s *InMemory) AllDatasheets() store.DatasheetIterator {
	return s.makeDatasheetIterator(func(roster.Datasheet) bool { return true })
}

func (s *InMemory) makeDatasheetIterator(match func(roster.Datasheet) bool) store.DatasheetIterator {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var rows []roster.Datasheet
	for _, name := range sortedKeys(s.datasheets) {
		if sheet := s.datasheets[name]; match(sheet) {
			rows = append(rows, sheet.Clone())
		}
	}
	return &inMemDatasheetIterator{newInMemIterator(&s.iterators, s.iterators.track(), rows)}
}

//-----------------------------------------
// Iterator support
//-----------------------------------------

// inMemIterator walks a list of cloned copies off the in-mem maps.
type inMemIterator[T any] struct {
	iteratorID string
	tracker    *openIterators
	rows       []T
	rowIndex   int
	cur        T
	closed     bool
}

func newInMemIterator[T any](tracker *openIterators, iteratorID string, rows []T) inMemIterator[T] {
	return inMemIterator[T]{
		iteratorID: iteratorID,
		tracker:    tracker,
		rows:       rows,
		rowIndex:   -1,
	}
}

func (it *inMemIterator[T]) Error() error { return nil }

func (it *inMemIterator[T]) Close() error {
	if it.closed {
		return nil
	}
	it.closed = true
	it.tracker.release(it.iteratorID)
	return nil
}

func (it *inMemIterator[T]) Next() bool {
	if it.closed || it.rowIndex >= len(it.rows)-1 {
		return false
	}

	it.rowIndex++
	it.cur = it.rows[it.rowIndex]
	return true
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
