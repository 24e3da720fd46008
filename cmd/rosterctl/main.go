// Command rosterctl builds a unit from a datasheet book, asks for its size
// and equipment on stdin and writes the validated unit document.
package main

import (
	"io"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/juju/errors"
	"github.com/rs/zerolog/log"

	"github.com/achilleasa/warband/document"
	"github.com/achilleasa/warband/model"
	"github.com/achilleasa/warband/store"
	"github.com/achilleasa/warband/store/backend"
)

func main() {
	setupLogs(os.Stderr, "info")

	cfg, err := loadConfig(env.Options{})
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	setupLogs(os.Stderr, cfg.LogLevel)

	if err := run(cfg, os.Stdin, os.Stdout); err != nil {
		log.Fatal().Err(err).Msg("unable to build unit")
	}
}

func run(cfg Config, in io.Reader, out io.Writer) error {
	st := openStore(cfg)
	if err := st.Open(); err != nil {
		return errors.Annotatef(err, "opening %s store %q", cfg.Backend, cfg.Book)
	}
	defer func() { _ = st.Close() }()

	if cfg.Import != "" {
		if err := importBook(st, cfg.Import); err != nil {
			return errors.Trace(err)
		}
	}

	cat, err := store.LoadCatalog(st)
	if err != nil {
		return errors.Trace(err)
	}
	sheet, err := st.FindDatasheetByName(cfg.Datasheet)
	if err != nil {
		return errors.Trace(err)
	}
	u, err := sheet.Build(cat)
	if err != nil {
		return errors.Trace(err)
	}
	log.Info().Str("unit", u.GetName()).Strs("options", u.OptionNames()).Msg("datasheet loaded")

	if err = newSession(u, in, out).run(); err != nil {
		return errors.Trace(err)
	}

	if err = writeUnit(cfg.Output, u, out); err != nil {
		return errors.Trace(err)
	}
	log.Info().Str("output", cfg.Output).Int("models", u.Size()).Float64("points", u.Points()).Msg("unit written")
	return nil
}

func openStore(cfg Config) store.Store {
	if cfg.Backend == "sqlite" {
		return backend.NewSQLite(cfg.Book)
	}
	return backend.NewYAML(cfg.Book)
}

// importBook copies the contents of the YAML book at path into st.
func importBook(st store.Store, path string) error {
	src := backend.NewYAML(path)
	if err := src.Open(); err != nil {
		return errors.Annotatef(err, "opening import book %q", path)
	}
	defer func() { _ = src.Close() }()

	book, err := store.ExportBook(src)
	if err != nil {
		return errors.Trace(err)
	}
	if err := st.Import(book); err != nil {
		return errors.Annotatef(err, "importing book %q", path)
	}
	log.Info().Str("book", path).Int("equipment", len(book.Equipment)).Int("datasheets", len(book.Datasheets)).Msg("book imported")
	return nil
}

func writeUnit(path string, u *model.Unit, stdout io.Writer) error {
	if path == "-" {
		return document.Encode(stdout, u)
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.Annotatef(err, "creating %q", path)
	}
	if err = document.Encode(f, u); err != nil {
		_ = f.Close()
		return errors.Trace(err)
	}
	if err = f.Close(); err != nil {
		return errors.Annotatef(err, "closing %q", path)
	}
	return nil
}
