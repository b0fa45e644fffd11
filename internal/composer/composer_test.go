package composer

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajayverse/devpulse/internal/models"
)

type fakeGateway struct {
	text  string
	ok    bool
	calls int
}

func (f *fakeGateway) Complete(ctx context.Context, prompt string, task models.TaskType, maxTokens int) (string, bool) {
	f.calls++
	return f.text, f.ok
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func testOptions() Options {
	return Options{
		MaxPostChars: 1300,
		MaxHashtags:  5,
	}
}

func testItems() []models.FeedItem {
	return []models.FeedItem{
		{
			Title:   "Kubernetes 1.31 ships gateway improvements",
			Link:    "https://example.com/k8s",
			Summary: "The release focuses on gateway API stability and better defaults for cluster operators running at scale.",
			Source:  "kubernetes.io",
		},
		{
			Title:   "Terraform drift detection patterns",
			Link:    "https://example.com/tf",
			Summary: "A walkthrough of practical drift detection for infrastructure as code pipelines.",
			Source:  "hashicorp.com",
		},
		{
			Title:   "Postmortem culture at scale",
			Link:    "https://example.com/pm",
			Summary: "How large organizations keep incident reviews blameless and actionable.",
			Source:  "example.com",
		},
	}
}

func TestComposeEveryFormatStaysUnderCeiling(t *testing.T) {
	formats := []models.PostFormat{
		models.FormatDigest, models.FormatDeepDive, models.FormatQuickTip,
		models.FormatCaseStudy, models.FormatHotTake, models.FormatLessons,
		models.FormatThread, models.FormatQuote, models.FormatNewsFlash,
	}

	for _, format := range formats {
		t.Run(format.String(), func(t *testing.T) {
			c := New(testOptions(), nil, testLogger())
			post, used, err := c.Compose(context.Background(), testItems(), format)
			require.NoError(t, err)
			assert.LessOrEqual(t, len(post), 1300)
			assert.NotEmpty(t, used)
			assert.NoError(t, Validate(post, 1300))
		})
	}
}

func TestComposeWithoutGatewayUsesFallbacks(t *testing.T) {
	c := New(testOptions(), nil, testLogger())
	post, used, err := c.Compose(context.Background(), testItems(), models.FormatDigest)
	require.NoError(t, err)
	assert.Equal(t, models.FormatDigest, used)
	assert.Contains(t, post, "https://example.com/k8s")
}

func TestComposeGatewayFailureStillSucceeds(t *testing.T) {
	opts := testOptions()
	opts.EnableAI = true
	gw := &fakeGateway{ok: false}

	c := New(opts, gw, testLogger())
	post, _, err := c.Compose(context.Background(), testItems(), models.FormatDeepDive)
	require.NoError(t, err)
	assert.NotEmpty(t, post)
	assert.Greater(t, gw.calls, 0)
}

func TestComposeTightCeilingStaysUnderIt(t *testing.T) {
	opts := testOptions()
	opts.MaxPostChars = 400

	c := New(opts, nil, testLogger())
	post, _, err := c.Compose(context.Background(), testItems(), models.FormatDigest)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(post), 400)
}

func TestComposeInvalidContentFallsBackToMinimalTip(t *testing.T) {
	// A title that trips the word-repetition rule poisons every
	// format that embeds it, forcing the minimal tip fallback.
	repetitive := strings.TrimSpace(strings.Repeat("kubernetes ", 12))
	items := []models.FeedItem{{
		Title:   repetitive,
		Link:    "https://example.com/rep",
		Summary: repetitive,
		Source:  "example.com",
	}}

	c := New(testOptions(), nil, testLogger())
	post, used, err := c.Compose(context.Background(), items, models.FormatDeepDive)
	require.NoError(t, err)
	assert.Equal(t, models.FormatQuickTip, used)
	assert.NotContains(t, post, "https://example.com/rep")
	assert.NoError(t, Validate(post, 1300))
}

func TestComposeNoItems(t *testing.T) {
	c := New(testOptions(), nil, testLogger())
	_, _, err := c.Compose(context.Background(), nil, models.FormatDigest)
	assert.Error(t, err)
}

func TestChooseFormatForce(t *testing.T) {
	opts := testOptions()
	opts.ForceFormat = "hot_take"
	c := New(opts, nil, testLogger())
	assert.Equal(t, models.FormatHotTake, c.ChooseFormat(testItems()))
}

func TestChooseFormatSingleItemAvoidsDigest(t *testing.T) {
	c := New(testOptions(), nil, testLogger())
	items := testItems()[:1]
	for i := 0; i < 20; i++ {
		format := c.ChooseFormat(items)
		assert.NotEqual(t, models.FormatDigest, format)
		assert.NotEqual(t, models.FormatThread, format)
	}
}

func TestFooterQuestionsAvoidImmediateRepeats(t *testing.T) {
	c := New(testOptions(), nil, testLogger())
	seen := map[string]bool{}
	topic := "general engineering practices"
	for i := 0; i < len(footerQuestionFallbacks); i++ {
		q := c.footerQuestion(topic)
		assert.False(t, seen[q], "question repeated before rotation exhausted: %s", q)
		seen[q] = true
	}
}

func TestStripFirstPerson(t *testing.T) {
	cases := map[string]string{
		"I believe this matters":         "The reality is this matters",
		"I've seen this fail in prod":    "Experience shows this fail in prod",
		"In my experience this works":    "In practice this works",
		"I recommend using feature flags": "The recommendation: using feature flags",
		"No pronouns here":               "No pronouns here",
	}
	for in, want := range cases {
		assert.Equal(t, want, StripFirstPerson(in))
	}
}

func TestStripInlineHashtags(t *testing.T) {
	out := stripInlineHashtags("Great release #DevOps with #Kubernetes improvements")
	assert.Equal(t, "Great release with improvements", out)
}

func TestValidateRules(t *testing.T) {
	assert.Error(t, Validate("", 1300))
	assert.Error(t, Validate("   \n  ", 1300))
	assert.Error(t, Validate(strings.Repeat("x", 1400), 1300))
	assert.Error(t, Validate("one line\n#Tag\n#Tag2", 1300), "too few content lines")

	repetitive := strings.Repeat("kubernetes ", 12) + "\nfiller line\nanother line"
	assert.Error(t, Validate(repetitive, 1300))

	assert.NoError(t, Validate("A solid hook\nSome real content here\nAnd a closing question?\n#DevOps", 1300))
}

func TestClipPreservesHashtags(t *testing.T) {
	body := strings.Repeat("word ", 300)
	text := body + "\n#DevOps #SRE"
	out := clip(text, 200, true)
	assert.LessOrEqual(t, len(out), 200)
	assert.True(t, strings.HasSuffix(out, "#DevOps #SRE"))
}

func TestComposeFromIdeaFallbackStructure(t *testing.T) {
	c := New(testOptions(), nil, testLogger())
	idea := &models.GrowthPlanIdea{
		Title: "Platform Engineering ROI",
		Hook:  "Most platform teams measure the wrong thing.",
		CTA:   "How does your team measure platform ROI?",
		Hashtags: []string{
			"#PlatformEngineering", "#DevOps",
		},
		ContentFramework: models.ContentFramework{
			Structure: []string{
				"Define the baseline before building",
				"Measure developer time saved, not features shipped",
				"Track adoption as a leading indicator",
			},
			Tone: "pragmatic",
		},
	}

	post, err := c.ComposeFromIdea(context.Background(), idea)
	require.NoError(t, err)
	assert.Contains(t, post, "Most platform teams measure the wrong thing.")
	assert.Contains(t, post, "• Define the baseline before building")
	assert.Contains(t, post, "#PlatformEngineering #DevOps")
	assert.LessOrEqual(t, len(post), 1300)
}

func TestComposeFromIdeaUsesGatewayAndStripsPronouns(t *testing.T) {
	opts := testOptions()
	opts.EnableAI = true
	gw := &fakeGateway{ok: true, text: "I believe platform teams win when they measure outcomes.\n\nTeams that track adoption see compounding returns.\n\nWhat does your team measure?"}

	c := New(opts, gw, testLogger())
	idea := &models.GrowthPlanIdea{Title: "Platform Engineering ROI", Hook: "A hook"}

	post, err := c.ComposeFromIdea(context.Background(), idea)
	require.NoError(t, err)
	assert.NotContains(t, post, "I believe")
	assert.Contains(t, post, "The reality is")
}

func TestComposeFromIdeaEmpty(t *testing.T) {
	c := New(testOptions(), nil, testLogger())
	_, err := c.ComposeFromIdea(context.Background(), nil)
	assert.Error(t, err)
}

func TestClipNeverSplitsRunes(t *testing.T) {
	body := strings.Repeat("reliability 💡 signals ", 40) + "\n#DevOps #SRE"
	for ceiling := 240; ceiling <= 270; ceiling++ {
		clipped := clip(body, ceiling, true)
		assert.True(t, utf8.ValidString(clipped), "preserve path at ceiling %d", ceiling)
		assert.LessOrEqual(t, len(clipped), ceiling)
		assert.Contains(t, clipped, "#DevOps #SRE")

		plain := clip(body, ceiling, false)
		assert.True(t, utf8.ValidString(plain), "plain path at ceiling %d", ceiling)
		assert.LessOrEqual(t, len(plain), ceiling)
	}
}

func TestMinimalTipStaysUnderFloorCeiling(t *testing.T) {
	opts := testOptions()
	opts.MaxPostChars = 280

	c := New(opts, nil, testLogger())
	for i := 0; i < 25; i++ {
		post := c.buildMinimalTip()
		assert.LessOrEqual(t, len(post), 280)
		assert.NoError(t, Validate(post, 280))
	}
}
