package services

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ParsedDate holds the month and year components extracted from a free-form
// date string. Either component may be empty when not determinable.
type ParsedDate struct {
	Month string
	Year  string
}

var monthNames = []struct {
	name string
	num  string
}{
	{"january", "1"}, {"jan", "1"},
	{"february", "2"}, {"feb", "2"},
	{"march", "3"}, {"mar", "3"},
	{"april", "4"}, {"apr", "4"},
	{"may", "5"},
	{"june", "6"}, {"jun", "6"},
	{"july", "7"}, {"jul", "7"},
	{"august", "8"}, {"aug", "8"},
	{"september", "9"}, {"sept", "9"}, {"sep", "9"},
	{"october", "10"}, {"oct", "10"},
	{"november", "11"}, {"nov", "11"},
	{"december", "12"}, {"dec", "12"},
}

var (
	yearPattern        = regexp.MustCompile(`\b(19|20)\d{2}\b`)
	numericDatePattern = regexp.MustCompile(`\b(0?[1-9]|1[0-2])[-/\s]+((19|20)\d{2})\b`)
	bareMonthPattern   = regexp.MustCompile(`\b(0?[1-9]|1[0-2])\b`)
	presentAliases     = map[string]bool{"present": true, "current": true, "now": true}
)

// ParseDate extracts month and year from a free-form date string such as
// "January 2022", "03/2020" or "Present". It never fails: components that
// cannot be determined come back empty.
func ParseDate(dateStr string) ParsedDate {
	if dateStr == "" {
		return ParsedDate{}
	}

	dateLower := strings.ToLower(strings.TrimSpace(dateStr))

	if presentAliases[dateLower] {
		now := time.Now()
		return ParsedDate{
			Month: strconv.Itoa(int(now.Month())),
			Year:  strconv.Itoa(now.Year()),
		}
	}

	var month, year string

	if m := yearPattern.FindString(dateStr); m != "" {
		year = m
	}

	for _, mn := range monthNames {
		if strings.Contains(dateLower, mn.name) {
			month = mn.num
			break
		}
	}

	// Numeric formats like 03/2020 or 3-2020
	if month == "" {
		if m := numericDatePattern.FindStringSubmatch(dateStr); m != nil {
			n, _ := strconv.Atoi(m[1])
			month = strconv.Itoa(n)
			if year == "" {
				year = m[2]
			}
		}
	}

	// A standalone month number is only trusted when the string also
	// carried a year somewhere else.
	if month == "" && year != "" {
		if m := bareMonthPattern.FindString(dateStr); m != "" {
			n, _ := strconv.Atoi(m)
			month = strconv.Itoa(n)
		}
	}

	return ParsedDate{Month: month, Year: year}
}

// endDateSortKey converts an experience end date into a time used to order
// experiences most-recent first. "present"/"current"/"now" and empty sort as
// now; an unparseable non-empty date sorts as the zero time (oldest).
func endDateSortKey(endDate string) time.Time {
	endLower := strings.ToLower(strings.TrimSpace(endDate))
	if endLower == "" || presentAliases[endLower] {
		return time.Now()
	}

	parsed := ParseDate(endDate)
	if parsed.Year == "" {
		return time.Time{}
	}

	year, err := strconv.Atoi(parsed.Year)
	if err != nil {
		return time.Time{}
	}

	if parsed.Month != "" {
		if month, err := strconv.Atoi(parsed.Month); err == nil {
			return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
		}
	}

	// Year-only dates sort after any dated month within the same year.
	return time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
}
