package composer

import (
	"context"
	"fmt"
	"strings"

	"github.com/ajayverse/devpulse/internal/models"
)

func (c *Composer) buildDigest(ctx context.Context, items []models.FeedItem) string {
	max := 4
	if len(items) < max {
		max = len(items)
	}
	chosen := items[:max]

	lines := []string{
		c.hook(models.FormatDigest),
		"",
		c.pick(sectionHeaders),
	}
	usedValues := map[string]bool{}
	for i, item := range chosen {
		snippet := c.summarize(ctx, item)
		value := c.valueLine(ctx, item.Title, snippet)
		if usedValues[value] {
			value = c.fallbackValueLine(item.Title)
		}
		usedValues[value] = true

		entry := fmt.Sprintf("%d. %s", i+1, item.Title)
		if snippet != "" {
			entry += "\n   ↳ " + snippet
		}
		entry += "\n   ↳ " + value
		entry += "\n   🔗 " + item.Link
		lines = append(lines, entry, "")
	}
	lines = append(lines, "Why this matters: "+c.pick(whyLines))
	lines = append(lines, c.footer(models.FormatDigest, joinTitles(chosen))...)
	return clip(strings.Join(lines, "\n"), c.opts.MaxPostChars, true)
}

func (c *Composer) buildDeepDive(ctx context.Context, item models.FeedItem) string {
	snippet := c.summarize(ctx, item)
	bucket := detectContext(item.Text())
	insights := contextInsights[bucket].Insights

	lines := []string{
		c.hook(models.FormatDeepDive),
		"",
		item.Title,
		"",
	}
	if snippet != "" {
		lines = append(lines, snippet, "")
	}
	lines = append(lines, "What this means in practice:")
	for _, insight := range pickN(c, insights, 3) {
		lines = append(lines, "• "+insight)
	}
	lines = append(lines,
		"",
		c.valueLine(ctx, item.Title, snippet),
		"",
		"🔗 "+item.Link,
		"",
		c.cta(models.FormatDeepDive),
	)
	lines = append(lines, c.footer(models.FormatDeepDive, item.Text())...)
	return clip(strings.Join(lines, "\n"), c.opts.MaxPostChars, true)
}

func (c *Composer) buildQuickTip(item models.FeedItem) string {
	lines := []string{
		c.hook(models.FormatQuickTip),
		"",
		c.pick(quickTips),
		"",
		"Related read: " + item.Title,
		"🔗 " + item.Link,
		"",
		c.cta(models.FormatQuickTip),
	}
	lines = append(lines, c.footer(models.FormatQuickTip, item.Text())...)
	return clip(strings.Join(lines, "\n"), c.opts.MaxPostChars, true)
}

// buildMinimalTip is the last-resort fallback: no per-item content, no
// network, always valid.
func (c *Composer) buildMinimalTip() string {
	tip := c.pick(quickTips)
	return clip(strings.Join([]string{
		"💡 Quick tip that saves hours.",
		"",
		tip,
		"",
		c.pick(genericCTAs),
		"",
		c.hashtagLine(tip, c.opts.MaxHashtags),
	}, "\n"), c.opts.MaxPostChars, true)
}

func (c *Composer) buildCaseStudy(ctx context.Context, item models.FeedItem) string {
	snippet := c.summarize(ctx, item)
	lines := []string{
		c.hook(models.FormatCaseStudy),
		"",
		"The situation: " + item.Title,
		"",
	}
	if snippet != "" {
		lines = append(lines, "What happened: "+snippet, "")
	}
	lines = append(lines,
		"The takeaway: "+c.valueLine(ctx, item.Title, snippet),
		"",
		"🔗 Full story: "+item.Link,
		"",
		c.cta(models.FormatCaseStudy),
	)
	lines = append(lines, c.footer(models.FormatCaseStudy, item.Text())...)
	return clip(strings.Join(lines, "\n"), c.opts.MaxPostChars, true)
}

func (c *Composer) buildHotTake(ctx context.Context, item models.FeedItem) string {
	bucket := detectContext(item.Text())
	insight := c.pick(contextInsights[bucket].Insights)

	lines := []string{
		c.hook(models.FormatHotTake),
		"",
		item.Title + " is getting attention, but here's the part most teams miss:",
		"",
		insight + ".",
		"",
		c.valueLine(ctx, item.Title, item.Summary),
		"",
		"🔗 " + item.Link,
		"",
		c.cta(models.FormatHotTake),
	}
	lines = append(lines, c.footer(models.FormatHotTake, item.Text())...)
	return clip(strings.Join(lines, "\n"), c.opts.MaxPostChars, true)
}

func (c *Composer) buildLessons(item models.FeedItem) string {
	bucket := detectContext(item.Text())
	insights := pickN(c, contextInsights[bucket].Insights, 3)

	lines := []string{
		c.hook(models.FormatLessons),
		"",
		"Topic: " + item.Title,
		"",
	}
	for i, insight := range insights {
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, insight))
	}
	lines = append(lines,
		"",
		"🔗 "+item.Link,
		"",
		c.cta(models.FormatLessons),
	)
	lines = append(lines, c.footer(models.FormatLessons, item.Text())...)
	return clip(strings.Join(lines, "\n"), c.opts.MaxPostChars, true)
}

func (c *Composer) buildThread(ctx context.Context, items []models.FeedItem) string {
	max := 5
	if len(items) < max {
		max = len(items)
	}
	chosen := items[:max]

	lines := []string{
		c.hook(models.FormatThread),
		"",
	}
	for i, item := range chosen {
		lines = append(lines, fmt.Sprintf("%d/ %s", i+1, item.Title))
		lines = append(lines, "   "+c.valueLine(ctx, item.Title, item.Summary))
		lines = append(lines, "   🔗 "+item.Link, "")
	}
	lines = append(lines, c.cta(models.FormatDigest))
	lines = append(lines, c.footer(models.FormatThread, joinTitles(chosen))...)
	return clip(strings.Join(lines, "\n"), c.opts.MaxPostChars, true)
}

func (c *Composer) buildQuote(item models.FeedItem) string {
	bucket := detectContext(item.Text())
	insight := c.pick(contextInsights[bucket].Insights)

	lines := []string{
		c.hook(models.FormatQuote),
		"",
		"\"" + insight + ".\"",
		"",
		"Prompted by: " + item.Title,
		"🔗 " + item.Link,
		"",
		c.pick(genericCTAs),
	}
	lines = append(lines, c.footer(models.FormatQuote, item.Text())...)
	return clip(strings.Join(lines, "\n"), c.opts.MaxPostChars, true)
}

func (c *Composer) buildNewsFlash(ctx context.Context, item models.FeedItem) string {
	snippet := c.summarize(ctx, item)
	lines := []string{
		c.hook(models.FormatNewsFlash),
		"",
		item.Title,
		"",
	}
	if snippet != "" {
		lines = append(lines, snippet, "")
	}
	lines = append(lines,
		"Impact: "+c.valueLine(ctx, item.Title, snippet),
		"",
		"🔗 "+item.Link,
	)
	lines = append(lines, c.footer(models.FormatNewsFlash, item.Text())...)
	return clip(strings.Join(lines, "\n"), c.opts.MaxPostChars, true)
}

// ComposeFromIdea builds a post from an externally produced growth
// plan idea. The gateway writes the body when available; otherwise the
// idea's own structure carries the post.
func (c *Composer) ComposeFromIdea(ctx context.Context, idea *models.GrowthPlanIdea) (string, error) {
	if idea == nil || idea.Title == "" {
		return "", fmt.Errorf("empty growth plan idea")
	}

	var bodyLines []string
	if c.opts.EnableAI && c.gw != nil {
		prompt := ideaPrompt(idea)
		if text, ok := c.gw.Complete(ctx, prompt, models.TaskGeneration, 800); ok {
			text = StripFirstPerson(stripInlineHashtags(text))
			for _, line := range strings.Split(text, "\n") {
				bodyLines = append(bodyLines, strings.TrimRight(line, " "))
			}
			bodyLines = trimBlankEdges(bodyLines)
		}
	}

	if len(bodyLines) == 0 {
		bodyLines = []string{
			idea.Hook,
			"",
			"Key insights on " + strings.ToLower(idea.Title) + ":",
			"",
		}
		structure := idea.ContentFramework.Structure
		if len(structure) > 4 {
			structure = structure[:4]
		}
		for _, point := range structure {
			bodyLines = append(bodyLines, "• "+point)
		}
		cta := idea.CTA
		if cta == "" {
			cta = c.pick(genericCTAs)
		}
		bodyLines = append(bodyLines, "", cta)
	}

	if sub := c.subscriptionBlock(); sub != "" {
		bodyLines = append(bodyLines, "", sub)
	}

	tags := idea.Hashtags
	if len(tags) > c.opts.MaxHashtags {
		tags = tags[:c.opts.MaxHashtags]
	}
	hashtagStr := strings.Join(tags, " ")
	if hashtagStr == "" {
		hashtagStr = c.hashtagLine(idea.Title, c.opts.MaxHashtags)
	}
	bodyLines = append(bodyLines, "", hashtagStr)

	post := clip(strings.Join(bodyLines, "\n"), c.opts.MaxPostChars, true)
	if err := Validate(post, c.opts.MaxPostChars); err != nil {
		return "", fmt.Errorf("growth plan post invalid: %w", err)
	}
	return post, nil
}

func ideaPrompt(idea *models.GrowthPlanIdea) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Write a compelling LinkedIn post about: %q\n\n", idea.Title)
	if idea.Hook != "" {
		fmt.Fprintf(&sb, "Opening hook: %s\n\n", idea.Hook)
	}
	if len(idea.ContentFramework.Structure) > 0 {
		sb.WriteString("Structure to follow:\n")
		for _, point := range idea.ContentFramework.Structure {
			fmt.Fprintf(&sb, "- %s\n", point)
		}
		sb.WriteString("\n")
	}
	tone := idea.ContentFramework.Tone
	if tone == "" {
		tone = "professional"
	}
	fmt.Fprintf(&sb, "Tone: %s, authoritative, third-person only. ", tone)
	sb.WriteString("Never use first-person pronouns. Length: 800-1200 characters. ")
	sb.WriteString("Short paragraphs, bullet points with the \"•\" symbol, blank line between sections. ")
	sb.WriteString("Do not include hashtags. ")
	if idea.CTA != "" {
		fmt.Fprintf(&sb, "End with this call to action on its own line: %s", idea.CTA)
	}
	return sb.String()
}

func pickN(c *Composer, options []string, n int) []string {
	if len(options) <= n {
		return options
	}
	shuffled := append([]string(nil), options...)
	c.rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
	return shuffled[:n]
}

func joinTitles(items []models.FeedItem) string {
	titles := make([]string, len(items))
	for i, item := range items {
		titles[i] = item.Title
	}
	return strings.Join(titles, " ")
}

func trimBlankEdges(lines []string) []string {
	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
