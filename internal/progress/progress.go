package progress

import "time"

// Stage identifies which analysis stage is active.
type Stage string

const (
	StageEpisodes  Stage = "episodes"
	StageReviews   Stage = "reviews"
	StageTopics    Stage = "topics"
	StageSentiment Stage = "sentiment"
	StageRecommend Stage = "recommendations"
	StageComplete  Stage = "complete"
)

// AnalysisStages lists the working stages of an analysis in order, with the
// message shown while each one runs.
var AnalysisStages = []struct {
	Stage   Stage
	Message string
}{
	{StageEpisodes, "Collecting episode data"},
	{StageReviews, "Reading listener reviews"},
	{StageTopics, "Extracting topics and keywords"},
	{StageSentiment, "Scoring sentiment"},
	{StageRecommend, "Building recommendations"},
}

// Event carries progress information from the studio to the renderer.
type Event struct {
	Stage     Stage
	Message   string
	Percent   float64 // 0.0–1.0
	Step      int
	StepTotal int
	Elapsed   time.Duration
	Error     error
	// PodcastID and ReportID are set on StageComplete.
	PodcastID string
	ReportID  string
	// OutputFile is set on StageComplete when the report was saved to disk.
	OutputFile string
}

// Callback is the function signature for progress event handlers.
type Callback func(Event)

// NopCallback is a no-op progress callback for tests and silent mode.
func NopCallback(Event) {}

// NewEvent creates an Event with common fields populated.
func NewEvent(stage Stage, msg string, pct float64, start time.Time) Event {
	return Event{
		Stage:   stage,
		Message: msg,
		Percent: pct,
		Elapsed: time.Since(start),
	}
}
