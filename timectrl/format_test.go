package timectrl

import (
	"testing"

	"github.com/matryer/is"
)

func TestParseFields(t *testing.T) {
	is := is.New(t)
	var ts TimeSystem
	err := Parse("300s+5x30s/1", &ts)
	is.NoErr(err)
	is.Equal(ts.MainTime, int64(300000))
	is.Equal(ts.ByoYomiPeriods, 5)
	is.Equal(ts.ByoYomiTime, int64(30000))
	is.Equal(ts.ByoYomiStones, 1)
}

func TestRoundTrip(t *testing.T) {
	is := is.New(t)
	canonical := []string{
		"5m+5x30s/1",
		"0+1x30s/1",
		"90m+3x10m/25",
		"2h+0x0/10",
		"1500ms+2x750ms/3",
		"45s+10x20s/5",
		"0+3x1h/10",
	}
	for _, s := range canonical {
		var ts TimeSystem
		err := Parse(s, &ts)
		is.NoErr(err)
		is.Equal(ts.Format(), s)
	}
}

func TestFormatPrefersLargestUnit(t *testing.T) {
	is := is.New(t)
	ts := TimeSystem{MainTime: 3600000, ByoYomiTime: 61000, ByoYomiStones: 1, ByoYomiPeriods: 1}
	// 3600000 ms is exactly one hour; 61000 ms only reduces to seconds.
	is.Equal(ts.Format(), "1h+1x61s/1")

	// A value written in a smaller unit normalizes on the way back out:
	// 300 seconds divides evenly into minutes, so it prints as 5m.
	var ts2 TimeSystem
	is.NoErr(Parse("300s+5x30s/1", &ts2))
	is.Equal(ts2.Format(), "5m+5x30s/1")
}

func TestParseRejections(t *testing.T) {
	bad := []string{
		"",
		"300s+5x3",        // too short
		"300s5x30s/1",     // missing +
		"300s+5 30s/1",    // missing x
		"300s+5x30s 1",    // missing /
		"300s+5x30s/0",    // non-positive stone count
		"300s+5x30s/-2",   // negative stone count
		"300s+-1x30s/1",   // negative period count
		"abc+5x30s/1",     // malformed duration
		"300s+5x30q/1",    // unknown unit
		"300s+5x-30s/1",   // negative duration
		"3.5s+5x30s/11",   // fractional magnitude
		"300s+fivex30s/1", // non-numeric periods
	}
	for _, s := range bad {
		dst := TimeSystem{MainTime: 111, ByoYomiTime: 222, ByoYomiStones: 3, ByoYomiPeriods: 4}
		before := dst
		err := Parse(s, &dst)
		if err == nil {
			t.Errorf("Parse(%q): expected error", s)
		}
		if dst != before {
			t.Errorf("Parse(%q): destination modified on rejection: %+v", s, dst)
		}
	}
}

func TestParseTrimsWhitespace(t *testing.T) {
	is := is.New(t)
	var ts TimeSystem
	is.NoErr(Parse("  300s+5x30s/1\n", &ts))
	is.Equal(ts.MainTime, int64(300000))
}
