package composer

import (
	"regexp"
	"strings"
)

type pronounRule struct {
	pattern     *regexp.Regexp
	replacement string
}

// pronounRules rewrites first-person phrasing into an impersonal,
// authoritative voice. Longer phrases come first so they win over the
// bare-pronoun rules.
var pronounRules = []pronounRule{
	{regexp.MustCompile(`\bI recall\b`), "Consider"},
	{regexp.MustCompile(`\bI remember\b`), "Consider"},
	{regexp.MustCompile(`\bI've seen\b`), "Experience shows"},
	{regexp.MustCompile(`\bI have seen\b`), "Experience shows"},
	{regexp.MustCompile(`\bI've learned\b`), "The lesson is clear:"},
	{regexp.MustCompile(`\bI have learned\b`), "The lesson is clear:"},
	{regexp.MustCompile(`\bI've found\b`), "Evidence shows"},
	{regexp.MustCompile(`\bI have found\b`), "Evidence shows"},
	{regexp.MustCompile(`\bI've noticed\b`), "It's notable that"},
	{regexp.MustCompile(`\bI've observed\b`), "Observations show"},
	{regexp.MustCompile(`\bI've worked\b`), "Working"},
	{regexp.MustCompile(`\bI've been\b`), "Having been"},
	{regexp.MustCompile(`\bI've helped\b`), "Helping teams"},
	{regexp.MustCompile(`\bI've built\b`), "Building"},
	{regexp.MustCompile(`\bI've implemented\b`), "Implementing"},
	{regexp.MustCompile(`\bI believe\b`), "The reality is"},
	{regexp.MustCompile(`\bI think\b`), "The evidence suggests"},
	{regexp.MustCompile(`\bI know\b`), "It's clear"},
	{regexp.MustCompile(`\bI recommend\b`), "The recommendation:"},
	{regexp.MustCompile(`\bI suggest\b`), "The suggestion:"},
	{regexp.MustCompile(`\bI prefer\b`), "The preference:"},
	{regexp.MustCompile(`\bI use\b`), "Teams use"},
	{regexp.MustCompile(`\bI used\b`), "Teams have used"},
	{regexp.MustCompile(`\bI would\b`), "One would"},
	{regexp.MustCompile(`\bI could\b`), "One could"},
	{regexp.MustCompile(`\bI should\b`), "One should"},
	{regexp.MustCompile(`\bI can\b`), "One can"},
	{regexp.MustCompile(`\bI will\b`), "This will"},
	{regexp.MustCompile(`\bI want\b`), "The goal is"},
	{regexp.MustCompile(`\bI need\b`), "The need is"},
	{regexp.MustCompile(`\bIn my experience\b`), "In practice"},
	{regexp.MustCompile(`\bmy team\b`), "the team"},
	{regexp.MustCompile(`\bMy team\b`), "The team"},
	{regexp.MustCompile(`\bmy\b`), "the"},
	{regexp.MustCompile(`\bMy\b`), "The"},
	{regexp.MustCompile(`\bI'm\b`), "Teams are"},
	{regexp.MustCompile(`\bI am\b`), "Teams are"},
	{regexp.MustCompile(`\bwe're\b`), "teams are"},
	{regexp.MustCompile(`\bWe're\b`), "Teams are"},
	{regexp.MustCompile(`\bwe've\b`), "teams have"},
	{regexp.MustCompile(`\bWe've\b`), "Teams have"},
	{regexp.MustCompile(`\bI\b`), "One"},
}

// StripFirstPerson rewrites externally generated text into third
// person. The pass is deterministic so it can be tested directly.
func StripFirstPerson(text string) string {
	if text == "" {
		return text
	}
	for _, rule := range pronounRules {
		text = rule.pattern.ReplaceAllString(text, rule.replacement)
	}
	return strings.TrimSpace(text)
}

var (
	inlineHashtagPattern = regexp.MustCompile(`#\w+`)
	multiSpacePattern    = regexp.MustCompile(`[ \t]{2,}`)
)

// stripInlineHashtags removes hashtags that providers like to sprinkle
// into generated prose; hashtags belong in the dedicated footer block.
func stripInlineHashtags(text string) string {
	text = inlineHashtagPattern.ReplaceAllString(text, "")
	return strings.TrimSpace(multiSpacePattern.ReplaceAllString(text, " "))
}
