package trainyard

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// TimeLayout is the canonical arrival time format used for storage and cache keys.
const TimeLayout = "15:04:05"

// MaxTrainNameLen matches the four-character line codes printed on timetables.
const MaxTrainNameLen = 4

var trainNamePattern = regexp.MustCompile(`^[A-Z0-9]{1,4}$`)

// timeLayouts are tried in order; 12-hour forms expect upper-case meridiem.
var timeLayouts = []string{
	TimeLayout,
	"15:04",
	"3:04 PM",
	"3:04PM",
	"03:04 PM",
	"3:04:05 PM",
}

// NormalizeTrainName returns the canonical (trimmed, upper-case) train name.
func NormalizeTrainName(s string) (string, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	if !trainNamePattern.MatchString(name) {
		return "", fmt.Errorf("%w: train name %q must be 1-%d letters or digits", ErrBadRequest, s, MaxTrainNameLen)
	}
	return name, nil
}

// NormalizeTime parses a time of day in any accepted layout and returns it
// formatted as TimeLayout, so "8:00 am", "08:00" and "08:00:00" share a key.
func NormalizeTime(s string) (string, error) {
	v := strings.ToUpper(strings.TrimSpace(s))
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.Format(TimeLayout), nil
		}
	}
	return "", fmt.Errorf("%w: invalid time %q", ErrBadRequest, s)
}

// NormalizeSchedule canonicalizes the train name and every time, dropping
// duplicate times while keeping first-seen order.
func NormalizeSchedule(s Schedule) (Schedule, error) {
	name, err := NormalizeTrainName(s.Train)
	if err != nil {
		return Schedule{}, err
	}
	if len(s.Times) == 0 {
		return Schedule{}, fmt.Errorf("%w: train %s has no arrival times", ErrBadRequest, name)
	}
	seen := make(map[string]struct{}, len(s.Times))
	times := make([]string, 0, len(s.Times))
	for _, raw := range s.Times {
		t, err := NormalizeTime(raw)
		if err != nil {
			return Schedule{}, err
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		times = append(times, t)
	}
	return Schedule{Train: name, Times: times}, nil
}
