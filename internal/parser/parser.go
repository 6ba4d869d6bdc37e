package parser

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/starinfo/extension/internal/util"
)

var (
	// ErrMissingArgs is returned when a command carries fewer arguments than it needs.
	ErrMissingArgs = errors.New("missing arguments")
	// ErrInvalidNumber is returned when a numeric argument cannot be parsed.
	ErrInvalidNumber = errors.New("invalid number")
)

// parseUintFromFloat parses a string that may be an integer ("32") or float ("32.00") into uint64.
// Hosts that serialise every number as a double send IDs and ticks as floats.
func parseUintFromFloat(s string) (uint64, error) {
	if v, err := strconv.ParseUint(s, 10, 64); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if f < 0 || f != float64(uint64(f)) {
		return 0, fmt.Errorf("parseUintFromFloat: %q is not a valid uint64", s)
	}
	return uint64(f), nil
}

// parseIntFromFloat parses a string that may be an integer or float into int64.
func parseIntFromFloat(s string) (int64, error) {
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if f != float64(int64(f)) {
		return 0, fmt.Errorf("parseIntFromFloat: %q is not a valid int64", s)
	}
	return int64(f), nil
}

// parseInt parses the named argument into an int, wrapping ErrInvalidNumber.
func parseInt(name, s string) (int, error) {
	v, err := parseIntFromFloat(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q: %v", ErrInvalidNumber, name, s, err)
	}
	return int(v), nil
}

// parseCounter parses a non-negative counter argument such as a tick.
func parseCounter(name, s string) (int, error) {
	v, err := parseUintFromFloat(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q: %v", ErrInvalidNumber, name, s, err)
	}
	return int(v), nil
}

// parseInts parses consecutive arguments, naming each in errors.
func parseInts(data []string, names ...string) ([]int, error) {
	out := make([]int, len(names))
	for i, name := range names {
		v, err := parseInt(name, data[i])
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func requireArgs(command string, data []string, n int) error {
	if len(data) < n {
		return fmt.Errorf("%w: %s needs %d, got %d", ErrMissingArgs, command, n, len(data))
	}
	return nil
}

// Parser provides pure []string -> core type conversion for host commands.
type Parser struct {
	logger *slog.Logger
}

// NewParser creates a new parser with only a logger dependency
func NewParser(logger *slog.Logger) *Parser {
	return &Parser{logger: logger}
}

// clean normalises raw host arguments in place.
func clean(data []string) []string {
	return util.CleanArgs(data)
}
