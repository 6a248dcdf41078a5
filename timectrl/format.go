package timectrl

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Textual time-control interchange format:
//
//	<main_duration>+<periods>x<byo_duration>/<stones>
//
// where a duration is an integer magnitude optionally suffixed by ms
// (default, omissible), s, m or h, and periods/stones are plain integers.
// "300s+5x30s/1" is 300000 ms of main time and 5 overtime periods of
// 30000 ms each with 1 stone per period.

var (
	ErrBadTimeControl = errors.New("malformed time control string")
)

const minTimeControlLen = 9

// Format converts the configured time system into its textual description.
// Independently for the main time and the per-period time, the largest unit
// that divides the value exactly is chosen.
func (ts *TimeSystem) Format() string {
	return fmt.Sprintf("%s+%dx%s/%d",
		formatDuration(ts.MainTime), ts.ByoYomiPeriods,
		formatDuration(ts.ByoYomiTime), ts.ByoYomiStones)
}

// Parse fills in the configured fields of dst from a string in the format
// time+numberxtime/number. On any rejection dst is left completely
// untouched. Remaining budgets are not altered; call Reset afterwards to
// start the clock from the parsed configuration.
func Parse(src string, dst *TimeSystem) error {
	s := strings.TrimSpace(src)
	if len(s) < minTimeControlLen {
		return fmt.Errorf("%w: %q too short", ErrBadTimeControl, src)
	}

	mainPart, rest, found := strings.Cut(s, "+")
	if !found {
		return fmt.Errorf("%w: %q missing '+'", ErrBadTimeControl, src)
	}
	mainTime, err := parseDuration(mainPart)
	if err != nil {
		return err
	}

	periodsPart, rest, found := strings.Cut(rest, "x")
	if !found {
		return fmt.Errorf("%w: %q missing 'x'", ErrBadTimeControl, src)
	}
	periods, err := strconv.Atoi(periodsPart)
	if err != nil || periods < 0 {
		return fmt.Errorf("%w: bad period count %q", ErrBadTimeControl, periodsPart)
	}

	byoPart, stonesPart, found := strings.Cut(rest, "/")
	if !found {
		return fmt.Errorf("%w: %q missing '/'", ErrBadTimeControl, src)
	}
	byoTime, err := parseDuration(byoPart)
	if err != nil {
		return err
	}

	stones, err := strconv.Atoi(stonesPart)
	if err != nil || stones < 1 {
		return fmt.Errorf("%w: bad stone count %q", ErrBadTimeControl, stonesPart)
	}

	dst.MainTime = mainTime
	dst.ByoYomiStones = stones
	dst.ByoYomiTime = byoTime
	dst.ByoYomiPeriods = periods
	return nil
}

func formatDuration(ms int64) string {
	unit := "ms"
	if ms == 0 {
		unit = ""
	}
	v := ms
	if v >= 1000 && v%1000 == 0 {
		unit = "s"
		v /= 1000

		if v >= 60 && v%60 == 0 {
			unit = "m"
			v /= 60
		}
		if v >= 60 && v%60 == 0 {
			unit = "h"
			v /= 60
		}
	}
	return strconv.FormatInt(v, 10) + unit
}

func parseDuration(s string) (int64, error) {
	digits := s
	var mult int64 = 1
	switch {
	case strings.HasSuffix(s, "ms"):
		digits = s[:len(s)-2]
	case strings.HasSuffix(s, "s"):
		digits, mult = s[:len(s)-1], 1000
	case strings.HasSuffix(s, "m"):
		digits, mult = s[:len(s)-1], 60*1000
	case strings.HasSuffix(s, "h"):
		digits, mult = s[:len(s)-1], 60*60*1000
	}
	v, err := strconv.ParseInt(digits, 10, 64)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("%w: bad duration %q", ErrBadTimeControl, s)
	}
	return v * mult, nil
}
