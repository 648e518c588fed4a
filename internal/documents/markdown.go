package documents

import (
	"regexp"
	"strings"
)

var (
	mdBoldCorrect   = regexp.MustCompile(`\*\*Correct:\*\*`)
	mdBold          = regexp.MustCompile(`\*\*(.*?)\*\*`)
	mdItalic        = regexp.MustCompile(`\*(.*?)\*`)
	mdHeader        = regexp.MustCompile(`(?m)^[ \t]*#+[ \t]*.*$`)
	mdRule          = regexp.MustCompile(`-{3,}`)
	mdCodeFence     = regexp.MustCompile("(?s)```.*?```")
	mdInlineCode    = regexp.MustCompile("`(.*?)`")
	mdBlankLineRuns = regexp.MustCompile(`\n\s*\n`)
)

// CleanMarkdown removes formatting that gets in the way of line-based
// question scanning: emphasis markers, headers, horizontal rules and code.
// Blank lines are collapsed.
func CleanMarkdown(text string) string {
	text = NormalizeLineEndings(text)
	text = mdBoldCorrect.ReplaceAllString(text, "Correct:")
	text = mdBold.ReplaceAllString(text, "$1")
	text = mdItalic.ReplaceAllString(text, "$1")
	// Fences go before headers so a "#" comment inside code is removed with its block.
	text = mdCodeFence.ReplaceAllString(text, "")
	text = mdHeader.ReplaceAllString(text, "")
	text = mdRule.ReplaceAllString(text, "")
	text = mdInlineCode.ReplaceAllString(text, "$1")
	text = mdBlankLineRuns.ReplaceAllString(text, "\n")
	return strings.TrimSpace(text)
}
