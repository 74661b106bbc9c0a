package compose

import (
	"fmt"
	"strings"

	"github.com/apresai/podstudio/internal/assets"
)

var communityGrowthSections = []Section{
	{Heading: "Know your audience", Body: "Write down who you serve and what they struggle with before you publish anything."},
	{Heading: "Show up consistently", Body: "A predictable schedule builds trust faster than occasional bursts of content."},
	{Heading: "Start conversations", Body: "Ask questions, answer comments and invite members to share their own stories."},
	{Heading: "Measure what matters", Body: "Track returning members and replies, not just follower counts."},
	{Heading: "Celebrate your members", Body: "Feature community wins so members see themselves in your content."},
}

var genericDeck = []Slide{
	{Title: "Building an Engaged Community", Body: "A five-minute guide to growing an audience that sticks around."},
	{Title: "Overview", Body: "Why communities outperform audiences, and what that means for creators."},
	{Title: "Key Points", Body: "Consistency builds trust\nConversation beats broadcast\nMembers are your best marketers"},
	{Title: "Putting It Into Practice", Body: "Pick one channel, publish weekly and reply to every comment for a month."},
	{Title: "Conclusion", Body: "Community growth is a habit. Start small and keep showing up."},
}

func (b *build) infographic() (string, Payload) {
	if b.p == nil {
		sections := append([]Section(nil), communityGrowthSections...)
		return "Growing Your Community", &InfographicPayload{
			ImageURL: assets.Image("community growth", 0, assets.Portrait).URL,
			Title:    "Growing Your Community",
			Sections: sections,
		}
	}

	episodes := "A brand-new show with its first episodes on the way."
	if n := len(b.p.Episodes); n > 0 {
		episodes = fmt.Sprintf("%d episode(s) published, most recently '%s'.", n, b.fields.Episode)
	}
	sections := []Section{
		{Heading: "The Podcast", Body: b.render("{title}, hosted by {author}.")},
		{Heading: "Category", Body: b.render("A show about {category}.")},
		{Heading: "Episodes", Body: episodes},
		{Heading: "Key Insight", Body: b.render("{description}")},
		{Heading: "Practical Application", Body: b.render("Apply one idea from '{episode}' to your own {category} work this week.")},
	}
	title := b.titled("")
	return title, &InfographicPayload{
		ImageURL: assets.Image(b.p.Title, 0, assets.Portrait).URL,
		Title:    title,
		Sections: sections,
	}
}

func (b *build) slideDeck() (string, Payload) {
	var slides []Slide
	title := "Building an Engaged Community"
	if b.p == nil {
		slides = append([]Slide(nil), genericDeck...)
	} else {
		title = b.titled("")
		slides = []Slide{
			{Title: b.fields.Title, Body: b.render("A {category} podcast by {author}.")},
			{Title: "Overview", Body: b.render("{description}")},
			{Title: "Key Points", Body: b.keyPoints()},
			{Title: "Application", Body: b.render("Take the main idea from '{episode}' and test it in your next {category} project.")},
			{Title: "Conclusion", Body: b.render("Subscribe to {title} for new episodes from {author}.")},
		}
	}
	for i := range slides {
		slides[i].Number = i + 1
		slides[i].ImageURL = assets.Image(b.assetKey(), i, assets.Landscape).URL
	}
	return title, &SlideDeckPayload{Title: title, Slides: slides, TotalSlides: len(slides)}
}

// keyPoints lists up to three episode titles, or a generic point list.
func (b *build) keyPoints() string {
	var points []string
	for i, ep := range b.p.Episodes {
		if i == 3 {
			break
		}
		if ep.Title != "" {
			points = append(points, ep.Title)
		}
	}
	if len(points) == 0 {
		points = []string{
			b.render("What makes {title} different"),
			b.render("The {category} questions {author} keeps coming back to"),
			"Where to start listening",
		}
	}
	return strings.Join(points, "\n")
}
