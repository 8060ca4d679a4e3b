package scrape

import (
	"html"
	"regexp"
	"strings"
)

var tagRe = regexp.MustCompile(`(?s)<[^>]*>`)

// htmlToText strips markup down to newline-separated text so the fallback
// patterns can work line-wise. Entities are decoded.
func htmlToText(s string) string {
	return html.UnescapeString(tagRe.ReplaceAllString(s, "\n"))
}

// trimSeparators removes leading and trailing punctuation left behind when a
// title is cut out of surrounding page text.
func trimSeparators(s string) string {
	return strings.Trim(s, " \t,;:-–—|•.")
}

var letterRe = regexp.MustCompile(`[A-Za-z]`)

func hasLetter(s string) bool {
	return letterRe.MatchString(s)
}

var (
	withSplitRe = regexp.MustCompile(`(?i)\s+with\s+`)
	actSplitRe  = regexp.MustCompile(`[,&]`)
)

// splitSupportingActs separates "Headliner with Opener A, Opener B" into the
// headliner and its supporting acts.
func splitSupportingActs(title string) (string, []string) {
	parts := withSplitRe.Split(title, 2)
	if len(parts) < 2 {
		return title, nil
	}
	var acts []string
	for _, act := range actSplitRe.Split(parts[1], -1) {
		act = trimSeparators(strings.TrimSpace(act))
		if act != "" {
			acts = append(acts, act)
		}
	}
	return strings.TrimSpace(parts[0]), acts
}
