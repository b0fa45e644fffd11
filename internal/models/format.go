package models

// PostFormat identifies one of the post layouts the composer can build.
// The set is open: unknown values round-trip through config and state
// untouched, they just fall back to the digest builder.
type PostFormat string

const (
	FormatDigest    PostFormat = "digest"
	FormatDeepDive  PostFormat = "deep_dive"
	FormatQuickTip  PostFormat = "quick_tip"
	FormatCaseStudy PostFormat = "case_study"
	FormatHotTake   PostFormat = "hot_take"
	FormatLessons   PostFormat = "lessons"
	FormatThread    PostFormat = "thread"
	FormatQuote     PostFormat = "quote"
	FormatNewsFlash PostFormat = "news_flash"
)

// DefaultFormats is the rotation used when POST_FORMATS is not set.
var DefaultFormats = []PostFormat{
	FormatDigest,
	FormatDeepDive,
	FormatQuickTip,
	FormatCaseStudy,
	FormatHotTake,
	FormatLessons,
}

func (f PostFormat) String() string { return string(f) }

// ParseFormats converts a config value into formats, dropping empties.
func ParseFormats(names []string) []PostFormat {
	out := make([]PostFormat, 0, len(names))
	for _, n := range names {
		if n != "" {
			out = append(out, PostFormat(n))
		}
	}
	if len(out) == 0 {
		return DefaultFormats
	}
	return out
}
