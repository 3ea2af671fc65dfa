// Package explorer runs the interactive console session: pick a region,
// browse its locations, then look up places near one of them.
package explorer

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rohmanhakim/parks-explorer/internal/record"
	"github.com/rohmanhakim/parks-explorer/pkg/failure"
)

const (
	regionPrompt = "Enter a state name (e.g. Michigan, michigan) or \"exit\"\n: "
	recordPrompt = "\nChoose a number for detail search or \"exit\" or \"back\"\n: "
	separator    = "-------------------------------"

	cmdExit = "exit"
	cmdBack = "back"
)

// Directory is the part of the site the session browses.
type Directory interface {
	Regions(ctx context.Context) (map[string]string, failure.ClassifiedError)
	Locations(ctx context.Context, regionURL string) ([]record.Location, failure.ClassifiedError)
}

// NearbyFinder searches around a single location.
type NearbyFinder interface {
	FetchNearby(ctx context.Context, location record.Location) ([]record.NearbyPlace, failure.ClassifiedError)
}

type Session struct {
	directory   Directory
	finder      NearbyFinder
	in          *bufio.Scanner
	out         io.Writer
	tableOutput bool
	colorize    bool

	regions map[string]string
	lines   <-chan string
}

func NewSession(
	directory Directory,
	finder NearbyFinder,
	in io.Reader,
	out io.Writer,
	tableOutput bool,
) *Session {
	return &Session{
		directory:   directory,
		finder:      finder,
		in:          bufio.NewScanner(in),
		out:         out,
		tableOutput: tableOutput,
		colorize:    shouldColorize(out),
	}
}

// Run drives the session until the user exits or input ends.
//
// Recoverable errors are shown and the current prompt repeats. A fatal
// error ends the session and is returned.
func (s *Session) Run(ctx context.Context) error {
	done := make(chan struct{})
	defer close(done)
	s.lines = readLines(s.in, done)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		input, ok, inputErr := s.ask(ctx, regionPrompt)
		if inputErr != nil {
			return inputErr
		}
		if !ok || strings.EqualFold(input, cmdExit) {
			return nil
		}

		name := strings.ToLower(input)
		regionURL, known, err := s.resolveRegion(ctx, name)
		if err != nil {
			if failure.IsRecoverable(err) {
				s.printError(err.Error())
				continue
			}
			return err
		}
		if !known {
			s.printError("Enter a proper state name\n")
			continue
		}

		locations, err := s.directory.Locations(ctx, regionURL)
		if err != nil {
			if failure.IsRecoverable(err) {
				s.printError(err.Error())
				continue
			}
			return err
		}
		s.printLocations(name, locations)

		exit, browseErr := s.browse(ctx, locations)
		if browseErr != nil || exit {
			return browseErr
		}
	}
}

// browse handles the record prompt. It returns true when the session
// should end, and false when the user went back to the region prompt.
func (s *Session) browse(ctx context.Context, locations []record.Location) (bool, error) {
	prompt := recordPrompt
	for {
		if err := ctx.Err(); err != nil {
			return true, err
		}

		input, ok, inputErr := s.ask(ctx, prompt)
		if inputErr != nil {
			return true, inputErr
		}
		if !ok {
			return true, nil
		}
		prompt = recordPrompt

		switch {
		case strings.EqualFold(input, cmdExit):
			return true, nil
		case strings.EqualFold(input, cmdBack):
			return false, nil
		}

		index, valid := parseChoice(input, len(locations))
		if !valid {
			s.printError("Invalid input\n")
			fmt.Fprintln(s.out)
			fmt.Fprintln(s.out, separator)
			prompt = strings.TrimPrefix(recordPrompt, "\n")
			continue
		}

		places, err := s.finder.FetchNearby(ctx, locations[index])
		if err != nil {
			if failure.IsRecoverable(err) {
				s.printError(err.Error())
				continue
			}
			return true, err
		}
		s.printPlaces(locations[index], places)
	}
}

func (s *Session) resolveRegion(ctx context.Context, name string) (string, bool, failure.ClassifiedError) {
	if s.regions == nil {
		regions, err := s.directory.Regions(ctx)
		if err != nil {
			return "", false, err
		}
		s.regions = regions
	}
	regionURL, ok := s.regions[name]
	return regionURL, ok, nil
}

// ask prints prompt and waits for one trimmed line. It reports false at end
// of input, and returns the context error when ctx ends first.
func (s *Session) ask(ctx context.Context, prompt string) (string, bool, error) {
	fmt.Fprint(s.out, prompt)
	select {
	case <-ctx.Done():
		fmt.Fprintln(s.out)
		return "", false, ctx.Err()
	case line, ok := <-s.lines:
		if !ok {
			fmt.Fprintln(s.out)
			return "", false, nil
		}
		return strings.TrimSpace(line), true, nil
	}
}

// readLines scans in on its own goroutine so a blocked read never holds up
// cancellation. The goroutine stops sending once done is closed.
func readLines(in *bufio.Scanner, done <-chan struct{}) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		for in.Scan() {
			select {
			case lines <- in.Text():
			case <-done:
				return
			}
		}
	}()
	return lines
}

// parseChoice converts a 1-based menu number into an index.
func parseChoice(input string, count int) (int, bool) {
	if input == "" || strings.TrimLeft(input, "0123456789") != "" {
		return 0, false
	}
	n, err := strconv.Atoi(input)
	if err != nil || n < 1 || n > count {
		return 0, false
	}
	return n - 1, true
}

func (s *Session) printLocations(region string, locations []record.Location) {
	for _, line := range renderHeader("List of national sites in "+region, s.colorize) {
		fmt.Fprintln(s.out, line)
	}
	for i, location := range locations {
		fmt.Fprintf(s.out, "[%d] %s\n", i+1, location.Info())
	}
}

func (s *Session) printPlaces(location record.Location, places []record.NearbyPlace) {
	for _, line := range renderHeader("Places near "+record.Or(location.Name, record.NoName), s.colorize) {
		fmt.Fprintln(s.out, line)
	}
	if s.tableOutput {
		fmt.Fprintln(s.out, renderPlaceTable(places))
		return
	}
	for _, line := range renderPlaceList(places) {
		fmt.Fprintln(s.out, line)
	}
}

func (s *Session) printError(message string) {
	fmt.Fprintln(s.out, renderError(message, s.colorize))
}
