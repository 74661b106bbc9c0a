package script

import "strings"

// Analysis is the bullet content extracted from a free-text analysis.
type Analysis struct {
	Insights []string
	Topics   []string
	// Raw holds the non-empty input lines when no section could be parsed.
	Raw []string
}

var (
	insightHeaders = []string{"insights clave", "key insights", "insights"}
	topicHeaders   = []string{"temas principales", "main topics", "topics"}
	bulletMarkers  = []string{"•", "-", "*"}
)

type section int

const (
	sectionNone section = iota
	sectionInsights
	sectionTopics
)

// Parse splits text into insight and topic bullets. Only bullet lines under a
// recognized header count. When nothing parses, the raw non-empty lines are
// kept instead; malformed input never causes an error.
func Parse(text string) Analysis {
	var a Analysis
	current := sectionNone
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if s := headerSection(line); s != sectionNone {
			current = s
			continue
		}
		item, ok := stripBullet(line)
		if !ok || item == "" {
			continue
		}
		switch current {
		case sectionInsights:
			a.Insights = append(a.Insights, item)
		case sectionTopics:
			a.Topics = append(a.Topics, item)
		}
	}

	if len(a.Insights) == 0 && len(a.Topics) == 0 {
		for _, line := range strings.Split(text, "\n") {
			line = strings.TrimSpace(line)
			if item, ok := stripBullet(line); ok {
				line = item
			}
			if line != "" {
				a.Raw = append(a.Raw, line)
			}
		}
	}
	return a
}

// Empty reports whether the analysis produced no lines at all.
func (a Analysis) Empty() bool {
	return len(a.Insights) == 0 && len(a.Topics) == 0 && len(a.Raw) == 0
}

// Bullets picks the bullet list for a focus: insights first for insight and
// action focus, topics first for topic focus, interleaved for balanced.
func (a Analysis) Bullets(focus string) []string {
	if len(a.Raw) > 0 {
		return append([]string(nil), a.Raw...)
	}
	var out []string
	switch focus {
	case "topics":
		out = append(append(out, a.Topics...), a.Insights...)
	case "insights", "actionable":
		out = append(append(out, a.Insights...), a.Topics...)
	default:
		for i := 0; i < len(a.Insights) || i < len(a.Topics); i++ {
			if i < len(a.Insights) {
				out = append(out, a.Insights[i])
			}
			if i < len(a.Topics) {
				out = append(out, a.Topics[i])
			}
		}
	}
	return out
}

func headerSection(line string) section {
	h := strings.ToLower(strings.Trim(line, "#*: \t"))
	switch {
	case contains(insightHeaders, h):
		return sectionInsights
	case contains(topicHeaders, h):
		return sectionTopics
	}
	return sectionNone
}

func stripBullet(line string) (string, bool) {
	for _, m := range bulletMarkers {
		if strings.HasPrefix(line, m) {
			return strings.TrimSpace(strings.TrimPrefix(line, m)), true
		}
	}
	return line, false
}
