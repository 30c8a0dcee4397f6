package service

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// BranchToken is the placeholder replaced with the matched branch text
const BranchToken = "%branch%"

// Match returns the text of the leftmost match of re in branch. Capture
// groups are ignored.
func Match(re *regexp.Regexp, branch string) (string, bool) {
	loc := re.FindStringIndex(branch)
	if loc == nil {
		return "", false
	}
	return branch[loc[0]:loc[1]], true
}

// Render replaces every occurrence of BranchToken in template with match,
// uppercased when uppercase is set.
func Render(template, match string, uppercase bool) string {
	if uppercase {
		match = upper(match)
	}
	return strings.ReplaceAll(template, BranchToken, match)
}

// Decide reports whether current needs updating to carry processed, and the
// value it should be updated to. In replace mode the value is processed
// itself; otherwise processed is prepended to current with separator between.
// Comparisons ignore case.
func Decide(current, processed string, replace bool, separator string) (string, bool) {
	cur := lower(current)
	proc := lower(processed)

	if replace {
		if cur == proc {
			return "", false
		}
		return processed, true
	}

	if strings.HasPrefix(cur, proc) {
		return "", false
	}
	return processed + separator + current, true
}

// lower and upper apply the full Unicode case mappings, so "ß" uppercases to
// "SS" and "İ" lowercases to "i̇". A Caser keeps state, so one is made per call.
func lower(s string) string {
	return cases.Lower(language.Und).String(s)
}

func upper(s string) string {
	return cases.Upper(language.Und).String(s)
}
