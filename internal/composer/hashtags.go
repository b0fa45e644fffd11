package composer

import "strings"

// contextTagSets maps topic buckets to hashtags that should lead the
// footer when the content matches.
var contextTagSets = map[string][]string{
	"kubernetes":    {"#Kubernetes", "#ContainerOrchestration", "#CloudNative"},
	"security":      {"#DevSecOps", "#Security", "#CyberSecurity"},
	"observability": {"#Observability", "#Monitoring", "#SRE"},
	"cloud":         {"#Cloud", "#CloudArchitecture", "#CloudNative"},
	"cicd":          {"#CICD", "#ContinuousDelivery", "#Automation"},
	"incident":      {"#SRE", "#IncidentResponse", "#Reliability"},
}

// detectContext picks the topic bucket whose keywords match the
// content most often; "default" when nothing matches.
func detectContext(content string) string {
	content = strings.ToLower(content)
	best, bestMatches := "default", 0
	for bucket, keywords := range contextKeywords {
		matches := 0
		for _, kw := range keywords {
			if strings.Contains(content, kw) {
				matches++
			}
		}
		if matches > bestMatches {
			best, bestMatches = bucket, matches
		}
	}
	return best
}

// hashtagLine builds a deduplicated hashtag footer, leading with
// context-specific tags and filling from the base set.
func (c *Composer) hashtagLine(topic string, maxCount int) string {
	if maxCount <= 0 {
		maxCount = 5
	}

	var tags []string
	if ctx := detectContext(topic); ctx != "default" {
		tags = append(tags, contextTagSets[ctx]...)
	}

	base := append([]string(nil), baseHashtags...)
	c.rng.Shuffle(len(base), func(i, j int) { base[i], base[j] = base[j], base[i] })
	tags = append(tags, base...)

	seen := map[string]bool{}
	out := make([]string, 0, maxCount)
	for _, tag := range tags {
		if seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
		if len(out) == maxCount {
			break
		}
	}
	return strings.Join(out, " ")
}
