package catalog

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"3:45", 225, false},
		{"0:00", 0, false},
		{"0:59", 59, false},
		{"10:05", 605, false},
		{"1:75", 135, false},
		{"345", 0, true},
		{"1:2:3", 0, true},
		{":30", 0, true},
		{"3:", 0, true},
		{"x:30", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseDuration(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrBadTime)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReadRecords(t *testing.T) {
	input := "a,b\n1, 2\n\"3\" ,4\n"

	var lines []int
	var recs [][]string
	err := readRecords(strings.NewReader(input), "T", 2, func(line int, rec []string) error {
		lines = append(lines, line)
		recs = append(recs, append([]string(nil), rec...))
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3}, lines)
	assert.Equal(t, [][]string{{"1", "2"}, {`"3"`, "4"}}, recs)
}

func TestReadRecords_BlankLine(t *testing.T) {
	err := readRecords(strings.NewReader("a,b\n1,2\n\n3,4\n"), "T", 2, func(int, []string) error {
		return nil
	})
	assert.ErrorIs(t, err, ErrFieldCount)

	var lerr *LineError
	require.True(t, errors.As(err, &lerr))
	assert.Equal(t, 3, lerr.Line)
}

func TestReadRecords_EmptyInput(t *testing.T) {
	called := false
	err := readRecords(strings.NewReader(""), "T", 2, func(int, []string) error {
		called = true
		return nil
	})
	require.NoError(t, err)
	assert.False(t, called)
}

func TestReadRecords_StopsOnCallbackError(t *testing.T) {
	stop := errors.New("stop")
	calls := 0
	err := readRecords(strings.NewReader("h\nx\ny\n"), "T", 1, func(int, []string) error {
		calls++
		return stop
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, calls)
}

func TestLineError(t *testing.T) {
	err := &LineError{Table: "Albums", Line: 7, Err: ErrBadID}
	assert.Equal(t, "Albums line 7: album ID is not an integer", err.Error())
	assert.ErrorIs(t, err, ErrBadID)
}
