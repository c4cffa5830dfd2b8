// Package spam implements a coarse heuristic filter for contact form
// text. It is approximate by design: a small set of pattern rules that
// catch the bulk of drive-by form spam, not a classifier. Tune the
// keyword list as new junk shows up in the mailbox.
package spam

import (
	"regexp"
)

// Regex rules. Matching ANY rule flags the text as spam.
var (
	// Known spam keywords, whole-word, case-insensitive
	keywordRegex = regexp.MustCompile(`(?i)\b(viagra|cialis|casino|lottery|winner|congratulations|bitcoin|prize|inheritance)\b`)

	// Raw email header tokens inside the body indicate header injection attempts
	headerRegex = regexp.MustCompile(`(?i)(bcc:|cc:|to:)`)

	// Markup / script injection markers
	markupRegex = regexp.MustCompile(`(?i)(<script|javascript:|onclick)`)

	// Link stuffing: three or more http occurrences
	linkRegex = regexp.MustCompile(`(?i)http`)
)

const maxLinkCount = 3

// maxRepeatRun is the longest allowed run of a single repeated character.
// Longer runs are flood/junk text ("aaaaaaaaaaa...").
const maxRepeatRun = 10

// IsSpam reports whether the given text blob trips any heuristic rule.
// Callers typically pass the concatenation of subject, message and name.
func IsSpam(text string) bool {
	return len(Reasons(text)) > 0
}

// Reasons returns the rule categories the text violated, for server-side
// logging. Empty means clean. The user never sees these.
func Reasons(text string) []string {
	var reasons []string
	if keywordRegex.MatchString(text) {
		reasons = append(reasons, "spam_keyword")
	}
	if headerRegex.MatchString(text) {
		reasons = append(reasons, "header_injection")
	}
	if markupRegex.MatchString(text) {
		reasons = append(reasons, "markup_injection")
	}
	if len(linkRegex.FindAllStringIndex(text, maxLinkCount)) >= maxLinkCount {
		reasons = append(reasons, "link_stuffing")
	}
	if hasLongRepeat(text, maxRepeatRun) {
		reasons = append(reasons, "repeated_characters")
	}
	return reasons
}

// hasLongRepeat reports whether any rune repeats more than max times in
// a row. Case matters: "AaAa..." is alternation, not a flood run. Done
// with a scan because RE2 has no backreferences.
func hasLongRepeat(text string, max int) bool {
	var prev rune
	run := 0
	for _, r := range text {
		if r == prev {
			run++
			if run > max {
				return true
			}
		} else {
			prev = r
			run = 1
		}
	}
	return false
}
