// Package parse provides tolerant parsers for the textual field encodings
// found in vendor exports and API payloads.
package parse

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

// ErrUnparseableDate is returned when a value matches neither accepted date
// form. Callers treat it as "skip this row", never as a batch failure.
var ErrUnparseableDate = errors.New("unparseable date")

const isoDate = "2006-01-02"
const localizedDate = "02/01/2006"

// Date parses ISO (YYYY-MM-DD) and day-first localized (DD/MM/YYYY) dates.
// Timestamp strings are truncated to their date portion first. The result is
// midnight UTC.
func Date(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if len(value) > 10 {
		value = value[:10]
	}

	if t, err := time.ParseInLocation(isoDate, value, time.UTC); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation(localizedDate, value, time.UTC); err == nil {
		return t, nil
	}
	return time.Time{}, ErrUnparseableDate
}

// DurationMinutes parses HH:MM:SS, HH:MM, or a bare number into whole
// minutes. Seconds are truncated. Bare numbers may use a comma decimal
// separator and are truncated to an integer. Unparseable input yields 0:
// duration is best-effort, never blocking.
func DurationMinutes(value string) int {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}

	if strings.Contains(value, ":") {
		parts := strings.Split(value, ":")
		nums := make([]int, 0, len(parts))
		for _, part := range parts {
			n, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil || n < 0 {
				return 0
			}
			nums = append(nums, n)
		}
		switch len(nums) {
		case 3: // HH:MM:SS, seconds truncated
			return nums[0]*60 + nums[1]
		case 2: // HH:MM
			return nums[0]*60 + nums[1]
		default:
			return 0
		}
	}

	f, err := strconv.ParseFloat(strings.ReplaceAll(value, ",", "."), 64)
	if err != nil || f < 0 {
		return 0
	}
	return int(f)
}

// Count parses an integer that may carry thousands separators (comma, space,
// non-breaking space). Empty or unparseable input yields nil so that "not
// reported" stays distinguishable from "reported as zero".
func Count(value string) *int {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ',', ' ', ' ':
			return -1
		}
		return r
	}, strings.TrimSpace(value))

	if cleaned == "" {
		return nil
	}
	n, err := strconv.Atoi(cleaned)
	if err != nil {
		return nil
	}
	return &n
}
