package services

import (
	"regexp"
	"strings"
)

// Reason codes produced by ContentFilter. They become the reason of the
// flagged livestream report.
const (
	ReasonInappropriateLanguage = "inappropriate_language"
	ReasonExternalLink          = "external_link"
	ReasonContactInfo           = "contact_info"
	ReasonSpam                  = "spam_detected"
	ReasonExcessiveCaps         = "excessive_caps"
)

var BannedWords = []string{
	"fuck", "fucking", "fucker", "shit", "bullshit",
	"asshole", "bastard", "bitch", "cunt",
	"nigger", "nigga", "chink", "spic", "kike", "faggot", "fag",
	"retard", "retarded", "tranny",
	"porn", "porno", "nude", "nudes",
	"scam", "scammer", "phishing", "malware",
}

// ContentFilter screens livestream chat text. Chefs and viewers are not
// allowed to move buyers off-platform, so links and contact details are
// treated like abuse.
type ContentFilter struct {
	bannedWords []*regexp.Regexp
	rules       []filterRule
	allCaps     *regexp.Regexp
}

type filterRule struct {
	pattern *regexp.Regexp
	reason  string
}

func NewContentFilter(words []string) *ContentFilter {
	f := &ContentFilter{
		bannedWords: make([]*regexp.Regexp, 0, len(words)),
		rules: []filterRule{
			{regexp.MustCompile(`(?i)(https?://\S+|www\.\S+\.\S+)`), ReasonExternalLink},
			{regexp.MustCompile(`(?i)\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`), ReasonContactInfo},
			{regexp.MustCompile(`\d{3}[-.\s]?\d{3}[-.\s]?\d{4}|\(\d{3}\)\s*\d{3}[-.\s]?\d{4}`), ReasonContactInfo},
		},
		allCaps: regexp.MustCompile(`\b[A-Z]{5,}\b`),
	}
	for _, w := range words {
		re, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(w) + `\b`)
		if err == nil {
			f.bannedWords = append(f.bannedWords, re)
		}
	}
	return f
}

// Check returns ok=false and a reason code when text should be flagged.
func (f *ContentFilter) Check(text string) (ok bool, reason string) {
	if strings.TrimSpace(text) == "" {
		return true, ""
	}
	for _, re := range f.bannedWords {
		if re.MatchString(text) {
			return false, ReasonInappropriateLanguage
		}
	}
	for _, r := range f.rules {
		if r.pattern.MatchString(text) {
			return false, r.reason
		}
	}
	if hasRepeatedRun(text, 4) {
		return false, ReasonSpam
	}
	if len(f.allCaps.FindAllString(text, -1)) > 2 {
		return false, ReasonExcessiveCaps
	}
	return true, ""
}

// hasRepeatedRun reports whether any letter or !?. repeats n or more times
// in a row, case-insensitively.
func hasRepeatedRun(text string, n int) bool {
	var prev rune
	run := 0
	for _, r := range strings.ToLower(text) {
		if !(r >= 'a' && r <= 'z') && r != '!' && r != '?' && r != '.' {
			prev, run = 0, 0
			continue
		}
		if r == prev {
			run++
		} else {
			prev, run = r, 1
		}
		if run >= n {
			return true
		}
	}
	return false
}
