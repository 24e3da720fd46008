package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/juju/errors"
	"github.com/rs/zerolog/log"

	"github.com/achilleasa/warband/model"
)

const sessionHelp = `commands:
  equip <name>    add an option to every model
  unequip <name>  remove an option from every model
  list            show the options, the current loadout and the unit cost
  done            validate the unit and finish`

// session drives the interactive build of a unit: it asks for the unit
// size and then for equipment selections until the user is done.
type session struct {
	unit *model.Unit
	in   *bufio.Scanner
	out  io.Writer
}

func newSession(u *model.Unit, in io.Reader, out io.Writer) *session {
	return &session{
		unit: u,
		in:   bufio.NewScanner(in),
		out:  out,
	}
}

// run completes the session. Reaching the end of the input after a size
// has been chosen is treated as "done".
func (s *session) run() error {
	if err := s.askSize(); err != nil {
		return errors.Trace(err)
	}

	fmt.Fprintf(s.out, "options: %s\n", strings.Join(s.unit.OptionNames(), ", "))
	for {
		line, ok := s.prompt("> ")
		if !ok {
			break
		}
		done, err := s.handle(line)
		if err != nil {
			return errors.Trace(err)
		}
		if done {
			break
		}
	}
	if err := s.in.Err(); err != nil {
		return errors.Annotate(err, "reading input")
	}

	if err := s.unit.Validate(); err != nil {
		return errors.Trace(err)
	}
	fmt.Fprintf(s.out, "%s: %d models, %g points\n", s.unit.GetName(), s.unit.Size(), s.unit.Points())
	return nil
}

func (s *session) askSize() error {
	question := fmt.Sprintf("number of models (%d-%d): ", s.unit.GetMinModels(), s.unit.GetMaxModels())
	for {
		line, ok := s.prompt(question)
		if !ok {
			if err := s.in.Err(); err != nil {
				return errors.Annotate(err, "reading input")
			}
			return errors.NotValidf("unit %q without a size", s.unit.GetName())
		}

		n, err := strconv.Atoi(line)
		if err != nil {
			fmt.Fprintf(s.out, "%q is not a number\n", line)
			continue
		}
		if err = s.unit.SetUnitSize(n); err != nil {
			if model.IsOutOfRange(err) {
				fmt.Fprintln(s.out, err)
				continue
			}
			return errors.Trace(err)
		}
		log.Debug().Int("size", n).Msg("unit sized")
		return nil
	}
}

// handle executes a single command and reports whether the session is over.
// Illegal selections are reported to the user and do not end the session.
func (s *session) handle(line string) (bool, error) {
	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	var err error
	switch strings.ToLower(cmd) {
	case "":
		return false, nil
	case "done":
		return true, nil
	case "help", "?":
		fmt.Fprintln(s.out, sessionHelp)
		return false, nil
	case "list":
		s.list()
		return false, nil
	case "equip":
		err = s.unit.Equip(arg)
	case "unequip":
		err = s.unit.Unequip(arg)
	default:
		fmt.Fprintf(s.out, "unknown command %q; type help for a list of commands\n", cmd)
		return false, nil
	}

	switch {
	case err == nil:
		log.Debug().Str("command", cmd).Str("equipment", arg).Msg("loadout changed")
	case model.IsNotInOptions(err), errors.IsNotFound(err):
		fmt.Fprintln(s.out, err)
	default:
		return false, err
	}
	return false, nil
}

func (s *session) list() {
	troops := s.unit.GetTroops()
	lo := troops.Loadout()

	fmt.Fprintf(s.out, "options:   %s\n", strings.Join(s.unit.OptionNames(), ", "))
	fmt.Fprintf(s.out, "weapons:   %s\n", itemNames(lo.Weapons))
	fmt.Fprintf(s.out, "armour:    %s\n", itemNames(lo.Armour))
	fmt.Fprintf(s.out, "standards: %s\n", itemNames(lo.Standards))
	fmt.Fprintf(s.out, "cost:      %g per model, %g total\n", troops.TotalPoints(), s.unit.Points())
}

func (s *session) prompt(question string) (string, bool) {
	fmt.Fprint(s.out, question)
	if !s.in.Scan() {
		fmt.Fprintln(s.out)
		return "", false
	}
	return strings.TrimSpace(s.in.Text()), true
}

func itemNames(items []model.Equipment) string {
	if len(items) == 0 {
		return "-"
	}
	names := make([]string, len(items))
	for i, item := range items {
		names[i] = item.Name
	}
	return strings.Join(names, ", ")
}
