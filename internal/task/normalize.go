package task

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// Normalize coerces raw extracted tasks into schema-safe tasks.
//
// Items whose name is empty after trimming are dropped silently; the
// reconciliation engine logs the skip, dropping here is not an error.
// reference is the meeting date and is the fallback for every date
// field that is absent or unparseable. Pure transform, no I/O.
func Normalize(raws []Raw, reference time.Time) []Task {
	tasks := make([]Task, 0, len(raws))
	for _, r := range raws {
		name := r.Name.String()
		if name == "" {
			continue
		}

		tasks = append(tasks, Task{
			Name:        name,
			Field:       fieldVocab.coerce(r.Field.String()),
			Process:     processVocab.coerce(r.Process.String()),
			Function:    functionVocab.coerce(r.Function.String()),
			Priority:    priorityVocab.coerce(r.Priority.String()),
			Start:       coerceDate(r.Start, reference),
			End:         coerceDate(r.End, reference),
			Description: r.Description.String(),
			Progress:    coerceProgress(r.Progress),
		})
	}
	return tasks
}

// coerceDate parses a date leniently and falls back to the reference
// date. Never fails: an unparseable date becomes the meeting date.
func coerceDate(f Flex, reference time.Time) string {
	if n, ok := f.Number(); ok {
		// Numeric dates (e.g. unix seconds) are not something the
		// model is prompted to produce; treat them as unparseable
		// unless dateparse can make sense of the string form.
		f = FlexString(strconv.FormatFloat(n, 'f', -1, 64))
	}
	s := f.String()
	if s == "" {
		return reference.Format("2006-01-02")
	}
	t, err := dateparse.ParseAny(s)
	if err != nil {
		return reference.Format("2006-01-02")
	}
	return t.Format("2006-01-02")
}

// coerceProgress accepts a number, an "a/b" fraction or an "NN%"
// string. All paths clamp to [0, 100] and round half-up; anything
// unparseable is 0.
func coerceProgress(f Flex) int {
	if n, ok := f.Number(); ok {
		return clampProgress(n)
	}
	s := f.String()
	if s == "" {
		return 0
	}
	if a, b, ok := strings.Cut(s, "/"); ok {
		num, errA := strconv.ParseFloat(strings.TrimSpace(a), 64)
		den, errB := strconv.ParseFloat(strings.TrimSpace(b), 64)
		if errA != nil || errB != nil || den == 0 {
			return 0
		}
		return clampProgress(num / den * 100)
	}
	s = strings.TrimSuffix(s, "%")
	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return clampProgress(n)
}

func clampProgress(n float64) int {
	v := int(math.Round(n))
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
