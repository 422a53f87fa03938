package catalog

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var (
	ErrFieldCount = errors.New("wrong number of fields")
	ErrBadID      = errors.New("album ID is not an integer")
	ErrBadTime    = errors.New("time is not in M:SS form")
)

// LineError reports a data line that could not be loaded.
type LineError struct {
	Table string
	Line  int
	Err   error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("%s line %d: %v", e.Table, e.Line, e.Err)
}

func (e *LineError) Unwrap() error { return e.Err }

// readRecords calls fn for every data line of r. The first line is a
// header and is skipped. Lines are split on every comma with no quoting,
// and fields are trimmed. A blank line has one field and fails the count
// check like any other short line.
func readRecords(r io.Reader, table string, fields int, fn func(line int, rec []string) error) error {
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		if line == 1 {
			continue
		}

		rec := strings.Split(sc.Text(), ",")
		if len(rec) != fields {
			return &LineError{
				Table: table,
				Line:  line,
				Err:   fmt.Errorf("%w: got %d, want %d", ErrFieldCount, len(rec), fields),
			}
		}
		for i := range rec {
			rec[i] = strings.TrimSpace(rec[i])
		}
		if err := fn(line, rec); err != nil {
			return err
		}
	}
	return sc.Err()
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrBadID, s)
	}
	return id, nil
}

// parseDuration converts "M:SS" into total seconds.
func parseDuration(s string) (int64, error) {
	if strings.Count(s, ":") != 1 {
		return 0, fmt.Errorf("%w: %q", ErrBadTime, s)
	}
	m, sec, _ := strings.Cut(s, ":")
	minutes, err := strconv.ParseInt(strings.TrimSpace(m), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrBadTime, s)
	}
	seconds, err := strconv.ParseInt(strings.TrimSpace(sec), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrBadTime, s)
	}
	return minutes*60 + seconds, nil
}
