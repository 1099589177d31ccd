package cli

import (
	"strconv"

	"github.com/prn-tf/serac/internal/timestamp"
)

// timestampFlag is a pflag.Value wrapping timestamp.Parse, so --at
// accepts a POSIX integer or any of the three accepted date/time layouts
// (spec §6), matching original_source/serac/commands.py's
// Timestamp(click.DateTime) custom type.
type timestampFlag struct {
	value int64
	set   bool
}

func (t *timestampFlag) String() string {
	if !t.set {
		return ""
	}
	return strconv.FormatInt(t.value, 10)
}

func (t *timestampFlag) Set(s string) error {
	v, err := timestamp.Parse(s)
	if err != nil {
		return err
	}
	t.value = v
	t.set = true
	return nil
}

func (t *timestampFlag) Type() string {
	return "timestamp"
}
