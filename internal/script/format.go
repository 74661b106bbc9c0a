package script

import "fmt"

// StyleNames returns all valid script style values.
func StyleNames() []string {
	return []string{
		"summary",
		"highlights",
		"tutorial",
		"case-study",
		"deep-dive",
	}
}

// StyleLabel returns a human-readable label for display.
func StyleLabel(style string) string {
	labels := map[string]string{
		"summary":    "Quick Summary",
		"highlights": "Episode Highlights",
		"tutorial":   "Step-by-Step Tutorial",
		"case-study": "Case Study",
		"deep-dive":  "In-Depth Analysis",
	}
	if l, ok := labels[style]; ok {
		return l
	}
	return "Quick Summary"
}

// durationRange returns the estimated length of a style in whole minutes.
func durationRange(style string) (min, max int) {
	switch style {
	case "highlights":
		return 3, 4
	case "tutorial", "case-study":
		return 6, 8
	case "deep-dive":
		return 10, 12
	default: // summary
		return 1, 2
	}
}

// DurationRangeLabel renders a style's duration range, e.g. "6-8 min".
func DurationRangeLabel(style string) string {
	lo, hi := durationRange(style)
	return fmt.Sprintf("%d-%d min", lo, hi)
}

// bulletCap is the maximum number of bullets a style keeps.
func bulletCap(style string) int {
	if style == "summary" {
		return 3
	}
	return 6
}

// sectionHeader returns the heading placed above the bullet list.
func sectionHeader(style string) string {
	headers := map[string]string{
		"summary":    "IN SHORT:",
		"highlights": "THE HIGHLIGHTS:",
		"tutorial":   "STEP BY STEP:",
		"case-study": "THE CASE:",
		"deep-dive":  "GOING DEEPER:",
	}
	if h, ok := headers[style]; ok {
		return h
	}
	return headers["summary"]
}

// ToneNames returns all valid script tones.
func ToneNames() []string {
	return []string{"conversational", "professional", "enthusiastic", "educational"}
}

// FocusNames returns all valid bullet focus values.
func FocusNames() []string {
	return []string{"insights", "topics", "actionable", "balanced"}
}

// IsValidStyle returns true if the style name is recognized.
func IsValidStyle(style string) bool { return contains(StyleNames(), style) }

func IsValidTone(tone string) bool { return contains(ToneNames(), tone) }

func IsValidFocus(focus string) bool { return contains(FocusNames(), focus) }

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
