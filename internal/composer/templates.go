package composer

import "github.com/ajayverse/devpulse/internal/models"

var formatHooks = map[models.PostFormat][]string{
	models.FormatDigest: {
		"🚀 Signals that move the reliability needle.",
		"🛠️ What high-perf teams are watching this week.",
		"🔥 Cut noise, keep signal: your DevOps digest.",
		"📡 Industry signals worth your attention.",
		"⚡ Latest developments in DevOps and cloud.",
		"🎯 What matters in platform engineering this week.",
	},
	models.FormatDeepDive: {
		"🔬 Deep dive: one concept worth your time today.",
		"📖 Let's unpack this one properly.",
		"🎓 Today's learning: going deeper on what matters.",
	},
	models.FormatQuickTip: {
		"💡 Quick tip that saves hours.",
		"⚡ 60-second insight for your toolkit.",
		"🎯 One thing to try this week.",
	},
	models.FormatCaseStudy: {
		"📊 Case study: what worked (and what didn't).",
		"🏗️ Real-world example worth studying.",
		"🔍 Breaking down how teams actually solved this.",
	},
	models.FormatHotTake: {
		"🔥 Hot take: unpopular opinion incoming.",
		"💭 Perspective shift on a common practice.",
		"🤔 Rethinking what we thought we knew.",
	},
	models.FormatLessons: {
		"📝 Lessons learned the hard way.",
		"🎯 What teams wish they knew earlier.",
		"💡 Patterns that keep showing up in incidents.",
	},
	models.FormatThread: {
		"🧵 A short thread on something worth knowing.",
		"🧵 Five things production taught us this week.",
	},
	models.FormatQuote: {
		"💬 Worth repeating.",
		"💬 A line that stuck with the team this week.",
	},
	models.FormatNewsFlash: {
		"🚨 Just in for platform teams.",
		"📰 News flash from the infrastructure side.",
	},
}

var formatCTAs = map[models.PostFormat][]string{
	models.FormatDigest: {
		"What would you prioritize first?",
		"Which one caught your attention?",
		"What did we miss?",
	},
	models.FormatDeepDive: {
		"Have you tried this approach?",
		"What's your experience with this?",
		"How would you adapt this for your team?",
	},
	models.FormatQuickTip: {
		"What's your go-to tip for this?",
		"Drop your favorite shortcut below.",
		"What would you add?",
	},
	models.FormatCaseStudy: {
		"Would this work in your environment?",
		"What's the gap between this and your reality?",
		"Have you seen similar patterns?",
	},
	models.FormatHotTake: {
		"Agree or disagree? Let's debate.",
		"What's the counter-argument?",
		"Is this wrong? Share your perspective.",
	},
	models.FormatLessons: {
		"What's a lesson that changed how you work?",
		"What would you add to this list?",
		"Share your hard-won wisdom below.",
	},
}

var genericCTAs = []string{
	"What would you prioritize first?",
	"Would you ship this to prod today?",
	"Where does this break in your stack?",
	"How would you apply this in your team?",
	"Drop your experience with this in comments.",
}

var whyLines = []string{
	"Faster feedback, calmer incidents, happier on-call.",
	"Better observability, fewer surprises in prod.",
	"Ship often, recover quickly, learn continuously.",
}

var sectionHeaders = []string{
	"Today's high-signal reads:",
	"This week's standouts:",
	"What stands out:",
	"Worth your time:",
	"Key developments:",
	"Industry pulse:",
}

var baseHashtags = []string{
	"#DevOps", "#SRE", "#Cloud", "#Kubernetes",
	"#PlatformEngineering", "#Observability", "#IncidentManagement",
	"#ReliabilityEngineering", "#InfraAsCode", "#CICD", "#FinOps",
	"#Resilience", "#Automation",
}

var quickTips = []string{
	"Always version your infrastructure. Terraform state + git = time machine for your cloud.",
	"Set up alerts on error budget burn rate, not just SLO breaches. Catch problems before they become incidents.",
	"Use feature flags for deployments. Decouple deploy from release. Sleep better.",
	"Automate your runbooks. If you're copy-pasting commands during an incident, you're doing it wrong.",
	"Shift security left: run SAST in CI, not just before prod. Find vulns when they're cheap to fix.",
	"Implement progressive rollouts. 1% → 10% → 50% → 100%. Your users will thank you.",
	"Always have a rollback plan. If you can't roll back in under 5 minutes, you're not ready to deploy.",
	"Use structured logging from day one. Your future self debugging at 3am will be grateful.",
	"Chaos engineering isn't optional at scale. Break things on purpose before they break you.",
	"Document your on-call handoffs. Context switching is the silent killer of incident response.",
	"Treat secrets like radioactive material: rotate often, audit always, never commit to git.",
	"Container image scanning in CI is table stakes. SBOM generation is the next level.",
	"Golden signals: latency, traffic, errors, saturation. Start there, expand later.",
	"Blameless postmortems aren't optional. If people hide mistakes, you can't learn from them.",
	"GitOps isn't just for Kubernetes. Apply the pattern everywhere: git as source of truth.",
}

var footerQuestionFallbacks = []string{
	"What would your team prioritize?",
	"Which of these trends will shape your roadmap?",
	"What are your thoughts on these developments?",
	"How is your organization responding to these signals?",
	"Which signal resonates most with your strategy?",
}

var subscriptionMessages = []string{
	"📩 Want more DevOps insights like this? Subscribe to the newsletter!",
	"📩 Get weekly DevOps insights delivered to your inbox!",
	"📩 Subscribe for deep dives into DevOps, SRE, and platform engineering!",
	"📩 Never miss a DevOps update - join the weekly newsletter!",
}

// contextInsights keys a small body of reusable commentary off a topic
// bucket detected from the content.
var contextInsights = map[string]struct {
	Insights []string
	CTAs     []string
}{
	"kubernetes": {
		Insights: []string{
			"Start with resource limits and requests - they're your safety net",
			"RBAC isn't optional - design permissions early and defensively",
			"Network policies before production - assume breach mentality",
		},
		CTAs: []string{
			"How are you handling cluster security at scale?",
			"What's your biggest K8s operational challenge?",
		},
	},
	"security": {
		Insights: []string{
			"Shift-left security means making security decisions automatic",
			"Identity is the new perimeter - zero trust from day one",
			"Threat modeling beats penetration testing every time",
		},
		CTAs: []string{
			"How do you balance security with development velocity?",
			"How do you handle secrets at scale?",
		},
	},
	"observability": {
		Insights: []string{
			"Metrics without context are just numbers - add business meaning",
			"Alert on symptoms, not causes - let humans do root cause analysis",
			"SLOs drive better architecture than uptime percentages",
		},
		CTAs: []string{
			"What observability blind spots have surprised you?",
			"How do you prevent alert fatigue in your team?",
		},
	},
	"incident": {
		Insights: []string{
			"Incident response is about coordination, not just technical fixes",
			"Runbooks should be executable, not just documentation",
			"Post-incident reviews drive more reliability than monitoring",
		},
		CTAs: []string{
			"What incident taught you the most about your system?",
			"What patterns do you see in recurring incidents?",
		},
	},
	"cloud": {
		Insights: []string{
			"Cloud costs optimize themselves when architecture drives decisions",
			"Multi-cloud means multi-complexity - go deep before going wide",
			"Managed services reduce toil but increase vendor coupling",
		},
		CTAs: []string{
			"What cloud costs caught you off guard?",
			"How do you balance managed services vs control?",
		},
	},
	"cicd": {
		Insights: []string{
			"Pipeline as code prevents configuration drift and bus factor issues",
			"Feature flags decouple deployment risk from feature risk",
			"Progressive delivery beats blue-green for complex systems",
		},
		CTAs: []string{
			"What CI/CD bottleneck slows your team down most?",
			"How do you handle deployment rollbacks at scale?",
		},
	},
	"default": {
		Insights: []string{
			"Production systems teach you things documentation never will",
			"Operational simplicity beats architectural elegance every time",
			"The best architectures optimize for change, not just current requirements",
		},
		CTAs: []string{
			"What production experience changed how you design systems?",
			"Which operational practices have scaled best for your team?",
		},
	},
}

// contextKeywords maps topic buckets to the keywords that select them.
var contextKeywords = map[string][]string{
	"kubernetes":    {"kubernetes", "k8s", "cluster", "pods", "helm", "kubectl"},
	"security":      {"security", "vulnerability", "threat", "breach", "cve", "compliance", "rbac", "iam", "zero trust"},
	"observability": {"monitoring", "observability", "metrics", "logs", "tracing", "alerting", "slo", "grafana", "prometheus"},
	"incident":      {"incident", "outage", "mttr", "pager", "on-call", "downtime", "postmortem", "runbook"},
	"cloud":         {"aws", "gcp", "azure", "cloud", "serverless", "lambda", "terraform"},
	"cicd":          {"ci/cd", "pipeline", "deployment", "release", "jenkins", "github actions", "gitlab ci"},
}
