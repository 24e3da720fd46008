package backend

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/juju/errors"
	_ "github.com/mattn/go-sqlite3"

	"github.com/achilleasa/warband/document"
	"github.com/achilleasa/warband/model"
	"github.com/achilleasa/warband/roster"
	"github.com/achilleasa/warband/schema"
	"github.com/achilleasa/warband/store"
)

const (
	sqliteQueryList = iota

	sqliteFindEquipmentByName
	sqliteFindEquipmentByCategory
	sqliteAllEquipment
	sqliteCountEquipment
	sqliteUpsertEquipment

	sqliteFindDatasheetByName
	sqliteFindDatasheetsByFaction
	sqliteAllDatasheets
	sqliteCountDatasheets
	sqliteUpsertDatasheet
)

var _ store.Store = (*SQLite)(nil)

// SQLite provides a Store interface implementation that is backed by sqlite.
type SQLite struct {
	dbFile  string
	queries map[int]*sql.Stmt

	mu sync.RWMutex
	db *sql.DB

	iterators openIterators
}

// NewSQLite creates a new SQLite instance backed by dbFile.
func NewSQLite(dbFile string) *SQLite {
	return &SQLite{
		dbFile: dbFile,
	}
}

// Open the store.
func (s *SQLite) Open() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var err error
	if s.db, err = sql.Open("sqlite3", s.dbFile); err != nil {
		return err
	}

	if err = s.ensureSchema(); err != nil {
		return errors.Annotate(err, "unable to apply schema changes")
	} else if err = s.prepareQueries(); err != nil {
		return errors.Annotate(err, "unable to prepare sql statements")
	}

	return nil
}

// ensureSchema applies the DB schema to the DB. It is expected that the caller
// is holding the write lock on the SQLite instance when calling this method.
func (s *SQLite) ensureSchema() error {
	var tableSchemas = []string{
		`CREATE TABLE IF NOT EXISTS equipment (
			"name" TEXT PRIMARY KEY,
			"points" REAL,
			"category" TEXT,
			"description" TEXT,
			"missile" BLOB
		);
		CREATE INDEX IF NOT EXISTS "idx_equipment_by_category" ON equipment("category");
		`,
		`CREATE TABLE IF NOT EXISTS datasheets (
			"name" TEXT PRIMARY KEY,
			"faction" TEXT,
			"min_models" INTEGER,
			"max_models" INTEGER,
			"troop_type" TEXT,
			"troops" BLOB,
			"options" BLOB,
			"special_rules" BLOB
		);
		CREATE INDEX IF NOT EXISTS "idx_datasheets_by_faction" ON datasheets("faction");
		`,
	}

	txn, err := s.db.Begin()
	if err != nil {
		return err
	}

	for _, schemaDef := range tableSchemas {
		if _, err := txn.Exec(schemaDef); err != nil {
			_ = txn.Rollback()
			return err
		}
	}

	return txn.Commit()
}

// prepareQueries is invoked at initialization time so that all queries can
// be prepared. It is expected that the caller is holding the write lock on
// the SQLite instance when calling this method.
func (s *SQLite) prepareQueries() error {
	rawQueries := map[int]string{
		sqliteFindEquipmentByName:     `SELECT "name","points","category","description","missile" FROM equipment WHERE "name"=?`,
		sqliteFindEquipmentByCategory: `SELECT "name","points","category","description","missile" FROM equipment WHERE "category"=? ORDER BY "name"`,
		sqliteAllEquipment:            `SELECT "name","points","category","description","missile" FROM equipment ORDER BY "name"`,
		sqliteCountEquipment:          `SELECT COUNT(*) FROM equipment`,
		sqliteUpsertEquipment:         `INSERT OR REPLACE INTO equipment ("name","points","category","description","missile") VALUES (?,?,?,?,?)`,

		sqliteFindDatasheetByName:     `SELECT "name","faction","min_models","max_models","troop_type","troops","options","special_rules" FROM datasheets WHERE "name"=?`,
		sqliteFindDatasheetsByFaction: `SELECT "name","faction","min_models","max_models","troop_type","troops","options","special_rules" FROM datasheets WHERE "faction"=? ORDER BY "name"`,
		sqliteAllDatasheets:           `SELECT "name","faction","min_models","max_models","troop_type","troops","options","special_rules" FROM datasheets ORDER BY "name"`,
		sqliteCountDatasheets:         `SELECT COUNT(*) FROM datasheets`,
		sqliteUpsertDatasheet:         `INSERT OR REPLACE INTO datasheets ("name","faction","min_models","max_models","troop_type","troops","options","special_rules") VALUES (?,?,?,?,?,?,?,?)`,
	}

	s.queries = make(map[int]*sql.Stmt, len(rawQueries))
	for queryID, rawQuery := range rawQueries {
		stmt, err := s.db.Prepare(rawQuery)
		if err != nil {
			return err
		}

		s.queries[queryID] = stmt
	}
	return nil
}

// Close the store.
func (s *SQLite) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}

	for _, stmt := range s.queries {
		_ = stmt.Close()
	}
	s.queries = nil

	err := s.db.Close()
	s.db = nil
	return err
}

// Import validates book and upserts its contents in a single transaction.
func (s *SQLite) Import(book store.Book) error {
	// Iterators hold the read lock until closed; importing while one is
	// open would deadlock.
	if err := s.iterators.assertAllClosed(); err != nil {
		return err
	}
	items, sheets, err := book.Resolve()
	if err != nil {
		return errors.Annotate(err, "resolving book")
	}

	// When mutating the DB, always acquire the write lock. SQLite uses a
	// single writer / multiple readers model.
	s.mu.Lock()
	defer s.mu.Unlock()

	txn, err := s.db.Begin()
	if err != nil {
		return err
	}

	for _, name := range sortedKeys(items) {
		if err = s.upsertEquipment(txn, items[name]); err != nil {
			_ = txn.Rollback()
			return errors.Annotatef(err, "inserting equipment %q", name)
		}
	}
	for _, name := range sortedKeys(sheets) {
		if err = s.upsertDatasheet(txn, sheets[name]); err != nil {
			_ = txn.Rollback()
			return errors.Annotatef(err, "inserting datasheet %q", name)
		}
	}

	return txn.Commit()
}

//-----------------------------------------
// EquipmentAccessor implementation
//-----------------------------------------

var _ store.EquipmentIterator = (*sqliteEquipmentIterator)(nil)

type sqliteEquipmentIterator struct {
	sqliteIterator[model.Equipment]
}

func (it *sqliteEquipmentIterator) Equipment() model.Equipment { return it.cur.Clone() }

func (s *SQLite) FindEquipmentByName(name string) (model.Equipment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.queries[sqliteFindEquipmentByName].QueryRow(name)
	item, err := unmarshalEquipment(row.Scan)
	if err == sql.ErrNoRows {
		return model.Equipment{}, errors.NotFoundf("equipment %q", name)
	}
	return item, err
}

func (s *SQLite) FindEquipmentByCategory(category model.Category) store.EquipmentIterator {
	return s.makeEquipmentIterator(s.queries[sqliteFindEquipmentByCategory], string(category))
}

func (s *SQLite) CountEquipment() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	err := s.queries[sqliteCountEquipment].QueryRow().Scan(&count)
	return count, err
}

func (s *SQLite) AllEquipment() store.EquipmentIterator {
	return s.makeEquipmentIterator(s.queries[sqliteAllEquipment])
}

func (s *SQLite) makeEquipmentIterator(stmt *sql.Stmt, args ...interface{}) store.EquipmentIterator {
	return &sqliteEquipmentIterator{newSQLiteIterator(s, s.iterators.track(), unmarshalEquipment, stmt, args...)}
}

func unmarshalEquipment(scanner func(...interface{}) error) (model.Equipment, error) {
	var (
		doc        schema.Equipment
		missileRaw []byte
	)

	err := scanner(
		&doc.Name,
		&doc.Points,
		&doc.Category,
		&doc.Description,
		&missileRaw,
	)
	if err != nil {
		return model.Equipment{}, err
	}

	if missileRaw != nil {
		if err = json.Unmarshal(missileRaw, &doc.Missile); err != nil {
			return model.Equipment{}, errors.Annotatef(err, "unmarshaling missile profile of equipment %q", doc.Name)
		}
	}
	return document.ToEquipment(fmt.Sprintf("equipment[%s]", doc.Name), doc)
}

func (s *SQLite) upsertEquipment(txn *sql.Tx, item model.Equipment) error {
	doc := document.FromEquipment(item)

	// A nil interface binds as NULL.
	var missileArg interface{}
	if doc.Missile != nil {
		missileRaw, err := json.Marshal(doc.Missile)
		if err != nil {
			return errors.Annotate(err, "marshaling missile profile")
		}
		missileArg = missileRaw
	}

	_, err := txn.Stmt(s.queries[sqliteUpsertEquipment]).Exec(
		doc.Name,
		doc.Points,
		doc.Category,
		doc.Description,
		missileArg,
	)
	return err
}

//-----------------------------------------
// DatasheetAccessor implementation
//-----------------------------------------

var _ store.DatasheetIterator = (*sqliteDatasheetIterator)(nil)

type sqliteDatasheetIterator struct {
	sqliteIterator[roster.Datasheet]
}

func (it *sqliteDatasheetIterator) Datasheet() roster.Datasheet { return it.cur.Clone() }

func (s *SQLite) FindDatasheetByName(name string) (roster.Datasheet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.queries[sqliteFindDatasheetByName].QueryRow(name)
	sheet, err := unmarshalDatasheet(row.Scan)
	if err == sql.ErrNoRows {
		return roster.Datasheet{}, errors.NotFoundf("datasheet %q", name)
	}
	return sheet, err
}

func (s *SQLite) FindDatasheetsByFaction(faction string) store.DatasheetIterator {
	return s.makeDatasheetIterator(s.queries[sqliteFindDatasheetsByFaction], faction)
}

func (s *SQLite) CountDatasheets() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	err := s.queries[sqliteCountDatasheets].QueryRow().Scan(&count)
	return count, err
}

func (s *SQLite) AllDatasheets() store.DatasheetIterator {
	return s.makeDatasheetIterator(s.queries[sqliteAllDatasheets])
}

func (s *SQLite) makeDatasheetIterator(stmt *sql.Stmt, args ...interface{}) store.DatasheetIterator {
	return &sqliteDatasheetIterator{newSQLiteIterator(s, s.iterators.track(), unmarshalDatasheet, stmt, args...)}
}

func unmarshalDatasheet(scanner func(...interface{}) error) (roster.Datasheet, error) {
	var (
		sheet      roster.Datasheet
		troopsRaw  []byte
		optionsRaw []byte
		rulesRaw   []byte
	)

	err := scanner(
		&sheet.Name,
		&sheet.Faction,
		&sheet.MinModels,
		&sheet.MaxModels,
		&sheet.TroopType,
		&troopsRaw,
		&optionsRaw,
		&rulesRaw,
	)
	if err != nil {
		return roster.Datasheet{}, err
	}

	if err = json.Unmarshal(troopsRaw, &sheet.Troops); err != nil {
		return roster.Datasheet{}, errors.Annotatef(err, "unmarshaling troops of datasheet %q", sheet.Name)
	}
	if err = json.Unmarshal(optionsRaw, &sheet.Options); err != nil {
		return roster.Datasheet{}, errors.Annotatef(err, "unmarshaling options of datasheet %q", sheet.Name)
	}
	if err = json.Unmarshal(rulesRaw, &sheet.SpecialRules); err != nil {
		return roster.Datasheet{}, errors.Annotatef(err, "unmarshaling special rules of datasheet %q", sheet.Name)
	}
	return sheet, nil
}

func (s *SQLite) upsertDatasheet(txn *sql.Tx, sheet roster.Datasheet) error {
	troopsRaw, err := json.Marshal(sheet.Troops)
	if err != nil {
		return errors.Annotate(err, "marshaling troops")
	}
	optionsRaw, err := json.Marshal(sheet.Options)
	if err != nil {
		return errors.Annotate(err, "marshaling options")
	}
	rulesRaw, err := json.Marshal(sheet.SpecialRules)
	if err != nil {
		return errors.Annotate(err, "marshaling special rules")
	}

	_, err = txn.Stmt(s.queries[sqliteUpsertDatasheet]).Exec(
		sheet.Name,
		sheet.Faction,
		sheet.MinModels,
		sheet.MaxModels,
		sheet.TroopType,
		troopsRaw,
		optionsRaw,
		rulesRaw,
	)
	return err
}

//-----------------------------------------
// Iterator support
//-----------------------------------------

type sqliteIterator[T any] struct {
	iteratorID string
	backend    *SQLite
	rows       *sql.Rows
	unmarshal  func(func(...interface{}) error) (T, error)
	cur        T
	lastErr    error
	closed     bool
}

// newSQLiteIterator runs stmt and returns an iterator over its rows.
func newSQLiteIterator[T any](s *SQLite, iteratorID string, unmarshal func(func(...interface{}) error) (T, error), stmt *sql.Stmt, args ...interface{}) sqliteIterator[T] {
	s.mu.RLock()
	// NOTE: the lock will be released either if an error occurs or when
	// the iterator's Close() method is invoked.

	rows, err := stmt.Query(args...)
	it := sqliteIterator[T]{
		iteratorID: iteratorID,
		backend:    s,
		rows:       rows,
		unmarshal:  unmarshal,
		lastErr:    err,
	}

	// If an error occurred, release the lock (nothing to read) and mark
	// the iterator as closed so no attempt will be made to release the
	// lock if Close() is invoked.
	if err != nil {
		s.mu.RUnlock()
		s.iterators.release(iteratorID)
		it.closed = true
	}
	return it
}

func (it *sqliteIterator[T]) Error() error { return it.lastErr }

func (it *sqliteIterator[T]) Close() error {
	if it.closed {
		return it.lastErr
	}
	it.closed = true
	it.lastErr = it.rows.Close()
	it.backend.iterators.release(it.iteratorID)
	it.backend.mu.RUnlock() // release the read lock once we are done iterating.
	return it.lastErr
}

func (it *sqliteIterator[T]) Next() bool {
	if it.closed || it.lastErr != nil {
		return false
	} else if !it.rows.Next() {
		it.lastErr = it.rows.Err()
		return false
	} else if it.cur, it.lastErr = it.unmarshal(it.rows.Scan); it.lastErr != nil {
		return false
	}
	return true
}
