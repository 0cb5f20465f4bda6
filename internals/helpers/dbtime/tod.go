// file: internals/helpers/dbtime/tod.go
package dbtime

import (
	"fmt"
	"strings"
	"time"
)

// Tod is a wall-clock time of day (HH:MM:SS) without date or zone,
// e.g. the wake-up deadline of the hostel.
type Tod struct {
	Hour, Minute, Second int
}

// Parse: "HH:MM" atau "HH:MM:SS"
func Parse(s string) (Tod, error) {
	var t Tod
	return t, t.parse(s)
}

func MustParse(s string) Tod {
	t, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return t
}

func (t *Tod) parse(s string) error {
	s = strings.TrimSpace(s)
	if len(s) == 5 { // "HH:MM"
		s += ":00"
	}
	tt, err := time.Parse("15:04:05", s)
	if err != nil {
		return fmt.Errorf("tod: invalid time of day %q", s)
	}
	t.Hour, t.Minute, t.Second = tt.Hour(), tt.Minute(), tt.Second()
	return nil
}

func (t Tod) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
}

// On anchors the time of day on the calendar date of ref (in ref's zone).
func (t Tod) On(ref time.Time) time.Time {
	y, m, d := ref.Date()
	return time.Date(y, m, d, t.Hour, t.Minute, t.Second, 0, ref.Location())
}

// MinutesLate counts whole minutes ms lies after the deadline on its own
// local date. Zero when on time.
func (t Tod) MinutesLate(ms int64, loc *time.Location) int {
	at := FromMs(ms, loc)
	deadline := t.On(at)
	if !at.After(deadline) {
		return 0
	}
	return int(at.Sub(deadline) / time.Minute)
}
