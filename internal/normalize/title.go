// Package normalize canonicalizes noisy job-posting fields (title, location,
// URL) so that the same posting phrased differently compares and hashes
// identically. All functions are pure and total: they never fail, and on
// input they cannot make sense of they fall back to the least surprising
// behavior (lowercased pass-through for locations, unchanged for URLs).
package normalize

import (
	"regexp"
	"strings"
)

// abbrevRule expands one abbreviation at word boundaries. The rules run in
// order; later patterns must not re-match text produced by earlier
// expansions, which is what keeps Title idempotent.
type abbrevRule struct {
	pattern *regexp.Regexp
	replace string
}

var titleAbbrevs = []abbrevRule{
	{regexp.MustCompile(`\bsr\b\.?`), "senior"},
	{regexp.MustCompile(`\bjr\b\.?`), "junior"},
	{regexp.MustCompile(`\bswe\b`), "software engineer"},
	{regexp.MustCompile(`\bsde\b`), "software development engineer"},
	{regexp.MustCompile(`\bsw\b`), "software"},
	{regexp.MustCompile(`\bengr\b\.?`), "engineer"},
	{regexp.MustCompile(`\beng\b\.?`), "engineer"},
	{regexp.MustCompile(`\bdev\b`), "developer"},
	{regexp.MustCompile(`\bmgr\b\.?`), "manager"},
	{regexp.MustCompile(`\bdir\b\.?`), "director"},
	{regexp.MustCompile(`\bvp\b`), "vice president"},
	{regexp.MustCompile(`\bfe\b`), "frontend"},
	{regexp.MustCompile(`\bbe\b`), "backend"},
	{regexp.MustCompile(`\bfs\b`), "fullstack"},
	{regexp.MustCompile(`\bqa\b`), "quality assurance"},
	{regexp.MustCompile(`\bui\b`), "user interface"},
	{regexp.MustCompile(`\bux\b`), "user experience"},
	{regexp.MustCompile(`\bml\b`), "machine learning"},
	{regexp.MustCompile(`\bai\b`), "artificial intelligence"},
	{regexp.MustCompile(`\bdb\b`), "database"},
	{regexp.MustCompile(`\badmin\b`), "administrator"},
	{regexp.MustCompile(`\bops\b`), "operations"},
}

// fillerWords are dropped as whole words before abbreviation expansion.
var fillerWords = regexp.MustCompile(`\b(of|the|and|or)\b`)

// levelPatterns strip seniority/level suffixes: "(L5)", "[IC4]", "- Level 3",
// bare codes like "I-5" or "L5", and trailing roman numerals. Applied
// repeatedly until the string stops changing, so stacked suffixes
// ("Engineer III (L5)") all come off.
var levelPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\s*\([a-z]{0,3}[\s-]?\d+\)\s*$`),
	regexp.MustCompile(`\s*\[[a-z]{0,3}[\s-]?\d+\]\s*$`),
	regexp.MustCompile(`\s*[-–—]\s*level\s*\d+\s*$`),
	regexp.MustCompile(`\s*\blevel\s*\d+\s*$`),
	regexp.MustCompile(`\s+[a-z]{1,2}-?\d+\s*$`),
	regexp.MustCompile(`\s+(?:i{1,3}|iv|v|vi{1,3}|ix|x)\s*$`),
}

// Title canonicalizes a job title for comparison and hashing. It is
// idempotent and case-insensitive: "Sr. Software Engineer (L5)" and
// "Senior SW Eng - Level 5" both come out as "senior software engineer".
func Title(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, ",", " ")
	s = fillerWords.ReplaceAllString(s, " ")

	for _, rule := range titleAbbrevs {
		s = rule.pattern.ReplaceAllString(s, rule.replace)
	}

	for {
		stripped := strings.TrimRight(s, ".,;:!-–— ")
		for _, p := range levelPatterns {
			stripped = p.ReplaceAllString(stripped, "")
		}
		if stripped == s {
			break
		}
		s = stripped
	}

	s = strings.Join(strings.Fields(s), " ")
	s = strings.TrimRight(s, ".,;:!-–— ")
	return strings.TrimSpace(s)
}
