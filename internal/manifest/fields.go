package manifest

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	imdbIDPattern  = regexp.MustCompile(`(?i)(tt\d{5,10})`)
	numericPattern = regexp.MustCompile(`^\d+(?:\.\d+)?(?:[eE][+-]?\d+)?$`)
	digitsPattern  = regexp.MustCompile(`^\d+$`)
)

// ParseIMDBID extracts a lowercase ttNNNNNNN id from an IMDb URL or any
// string containing one. Returns "" when absent.
func ParseIMDBID(s string) string {
	m := imdbIDPattern.FindString(s)
	return strings.ToLower(m)
}

// NormalizeBarcode turns spreadsheet barcode cells into plain digit strings.
// Exports routinely mangle UPC/EAN values into scientific notation
// (7.9602E+11); those are converted back. Anything else keeps its digits.
func NormalizeBarcode(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	if digitsPattern.MatchString(s) {
		return s
	}
	if numericPattern.MatchString(s) {
		if v, err := strconv.ParseFloat(s, 64); err == nil {
			return strconv.FormatFloat(math.Trunc(v), 'f', -1, 64)
		}
	}
	var digits strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	if digits.Len() == 0 {
		return s
	}
	return digits.String()
}

// parseInt reads integers the way spreadsheets write them: "3", "3.0" and
// padded variants all parse; anything else reports absent.
func parseInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v, true
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f), true
	}
	return 0, false
}

// parseOrdinal pulls the first digit run out of free-form cells such as
// "Disc 1" or "D01".
func parseOrdinal(s string) (int, bool) {
	start := -1
	for i, r := range s {
		if r >= '0' && r <= '9' {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			v, err := strconv.Atoi(s[start:i])
			return v, err == nil
		}
	}
	if start < 0 {
		return 0, false
	}
	v, err := strconv.Atoi(s[start:])
	return v, err == nil
}
