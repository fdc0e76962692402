// Package assetcode derives human readable asset codes of the form
// PREFIX-MMDDYYYY-NNNNNN.
package assetcode

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultPrefix = "OE"
	SequenceWidth = 6
)

var exactPrefixes = map[string]string{
	"office equipment":     "OE",
	"electronics":          "EL",
	"furniture":            "FN",
	"vehicle":              "VH",
	"stationery":           "ST",
	"cleaning supplies":    "CS",
	"driver":               "DR",
	"driver equipment":     "DR",
	"security":             "SC",
	"security equipment":   "SC",
	"ob":                   "OB",
	"operational building": "OB",
}

// Prefix maps a category to its code prefix. Unknown categories fall back to
// keyword matching and finally DefaultPrefix.
func Prefix(category string) string {
	key := strings.ToLower(strings.Join(strings.Fields(category), " "))
	if p, ok := exactPrefixes[key]; ok {
		return p
	}
	switch {
	case strings.Contains(key, "driver"):
		return "DR"
	case strings.Contains(key, "security"):
		return "SC"
	case strings.Contains(key, "operational building"):
		return "OB"
	}
	for _, word := range strings.FieldsFunc(key, func(r rune) bool { return r == ' ' || r == '-' || r == '_' || r == '/' }) {
		if word == "ob" {
			return "OB"
		}
	}
	return DefaultPrefix
}

// Base is the part of a code shared by every asset of one prefix and day.
func Base(prefix string, day time.Time) string {
	return prefix + "-" + day.Format("01022006") + "-"
}

func Format(prefix string, day time.Time, seq int) string {
	return fmt.Sprintf("%s%0*d", Base(prefix, day), SequenceWidth, seq)
}

// Sequence parses the numeric suffix of code when it starts with base.
func Sequence(code, base string) (int, bool) {
	rest, ok := strings.CutPrefix(code, base)
	if !ok || rest == "" {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// Next returns max(suffix)+1 over the codes sharing base, or 1.
func Next(codes []string, base string) int {
	highest := 0
	for _, c := range codes {
		if n, ok := Sequence(c, base); ok && n > highest {
			highest = n
		}
	}
	return highest + 1
}
