package composer

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const maxWordRepetition = 8

// Validate checks a finished post against the quality rules: non-empty,
// under the character ceiling, at least three non-hashtag content
// lines, and no meaningful word repeated past the repetition threshold.
func Validate(content string, maxChars int) error {
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("empty content")
	}
	if len(content) > maxChars {
		return fmt.Errorf("content too long: %d > %d chars", len(content), maxChars)
	}

	contentLines := 0
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line != "" && !strings.HasPrefix(line, "#") {
			contentLines++
		}
	}
	if contentLines < 3 {
		return fmt.Errorf("insufficient content: %d non-hashtag lines", contentLines)
	}

	counts := map[string]int{}
	for _, word := range strings.Fields(strings.ToLower(content)) {
		if len(word) > 3 {
			counts[word]++
			if counts[word] > maxWordRepetition {
				return fmt.Errorf("content appears repetitive: %q used %d times", word, counts[word])
			}
		}
	}
	return nil
}

// clip trims text to maxChars. With preserveHashtags the trailing
// hashtag lines survive the cut.
func clip(text string, maxChars int, preserveHashtags bool) string {
	if len(text) <= maxChars {
		return text
	}
	if !preserveHashtags {
		return strings.TrimRight(cutAtRune(text, maxChars), " \n")
	}

	var hashtagLines, contentLines []string
	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			hashtagLines = append(hashtagLines, line)
		} else {
			contentLines = append(contentLines, line)
		}
	}
	reserved := 0
	for _, line := range hashtagLines {
		reserved += len(line) + 1
	}
	budget := maxChars - reserved
	if budget < 0 {
		budget = maxChars
		hashtagLines = nil
	}
	body := strings.Join(contentLines, "\n")
	if len(body) > budget {
		body = strings.TrimRight(cutAtRune(body, budget), " \n")
	}
	if len(hashtagLines) == 0 {
		return body
	}
	return body + "\n" + strings.Join(hashtagLines, "\n")
}

// cutAtRune slices text to at most n bytes, backing the cut up so a
// multi-byte rune is never split.
func cutAtRune(text string, n int) string {
	if n <= 0 {
		return ""
	}
	if len(text) <= n {
		return text
	}
	for n > 0 && !utf8.RuneStart(text[n]) {
		n--
	}
	return text[:n]
}
