package script

// intros returns the opening lines available for a tone.
func intros(tone string) []string {
	switch tone {
	case "professional":
		return []string{
			"Welcome. In the next few minutes we review the key findings from this podcast analysis.",
			"Thank you for joining. Here is a structured overview of what the analysis revealed.",
		}
	case "enthusiastic":
		return []string{
			"Hey everyone! You will not believe what this analysis uncovered. Let's jump right in!",
			"Get ready, because these results are seriously exciting. Here we go!",
		}
	case "educational":
		return []string{
			"Today we are going to learn what a podcast analysis can teach us, one point at a time.",
			"Let's break this analysis down so that every insight is easy to understand and apply.",
		}
	default: // conversational
		return []string{
			"Hi there! Grab a coffee, because we have been digging into the numbers and want to share what we found.",
			"Hey, welcome back. Let's talk about what the latest analysis says about the show.",
		}
	}
}

// bulletPrefix returns the marker placed before each bullet.
func bulletPrefix(focus string) string {
	switch focus {
	case "insights":
		return "Insight:"
	case "topics":
		return "Topic:"
	case "actionable":
		return "Try this:"
	default: // balanced
		return "-"
	}
}

var closings = []string{
	"That's it for today. Tell us in the comments which point you want us to explore next.",
	"Thanks for watching. Follow for more insights and share this with a fellow creator.",
	"If this helped, save it for later and subscribe so you don't miss the next breakdown.",
}
