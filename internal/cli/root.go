package cli

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/apresai/podstudio/internal/analysis"
	"github.com/apresai/podstudio/internal/catalog"
	"github.com/apresai/podstudio/internal/compose"
	"github.com/apresai/podstudio/internal/observability"
	"github.com/apresai/podstudio/internal/podcast"
	"github.com/apresai/podstudio/internal/progress"
	"github.com/apresai/podstudio/internal/script"
	"github.com/apresai/podstudio/internal/studio"
)

var Version = "dev"

// OutputBaseDir is where --save writes when given a bare filename.
const OutputBaseDir = "podstudio-output"

var rootCmd = &cobra.Command{
	Use:   "podstudio",
	Short: "Generate social content, analyses and voice-over scripts for podcasts",
	RunE: func(cmd *cobra.Command, args []string) error {
		flagTUI = true
		return runCompose(cmd, args)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("podstudio %s\n", Version)
	},
}

var composeCmd = &cobra.Command{
	Use:   "compose",
	Short: "Generate a text post, image carousel, video, GIF, infographic or slide deck",
	RunE:  runCompose,
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a podcast's audience, sentiment and topics",
	RunE:  runAnalyze,
}

var scriptCmd = &cobra.Command{
	Use:   "script",
	Short: "Write a voice-over script from an analysis",
	RunE:  runScript,
}

var scriptShowCmd = &cobra.Command{
	Use:   "show <script-file>",
	Short: "Print a script saved by 'script --save'",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := script.LoadResult(args[0])
		if err != nil {
			return err
		}
		printScript(cmd.OutOrStdout(), *res)
		return nil
	},
}

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List content kinds, tones, styles and script options",
	RunE:  runCatalog,
}

var podcastsCmd = &cobra.Command{
	Use:   "podcasts",
	Short: "List the sample podcasts",
	RunE:  runPodcasts,
}

var (
	flagKind        string
	flagTone        string
	flagStyle       string
	flagFocus       string
	flagPodcast     string
	flagPodcastFile string
	flagTopic       string
	flagCategory    string
	flagImages      []string
	flagSave        string
	flagVerbose     bool
	flagTUI         bool
	flagThinkDelay  time.Duration
	flagAnalysis    string
	flagReport      string

	flagScriptTone  string
	flagScriptStyle string
)

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(composeCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(scriptCmd)
	scriptCmd.AddCommand(scriptShowCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(podcastsCmd)

	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable detailed logging")
	rootCmd.PersistentFlags().StringVarP(&flagPodcast, "podcast", "p", "", "Sample podcast ID (see: podstudio podcasts)")
	rootCmd.PersistentFlags().StringVar(&flagPodcastFile, "podcast-file", "", "Podcast JSON file (overrides --podcast)")
	rootCmd.PersistentFlags().StringVarP(&flagSave, "save", "o", "", "Write the result as JSON to this path")

	composeCmd.Flags().StringVarP(&flagKind, "kind", "k", "text", "Content kind: "+strings.Join(kindNames(), ", "))
	composeCmd.Flags().StringVarP(&flagTone, "tone", "n", "friendly", "Tone: friendly, professional, enthusiastic, humorous")
	composeCmd.Flags().StringVarP(&flagStyle, "style", "s", "educational", "Style: educational, informative, promotional, storytelling")
	composeCmd.Flags().StringVar(&flagTopic, "topic", "", "Generic topic when no podcast is selected")
	composeCmd.Flags().StringVar(&flagCategory, "category", "", "Generic category when no podcast or topic is given: "+podcast.CategoryNames())
	composeCmd.Flags().StringSliceVar(&flagImages, "image", nil, "Your own image URL (repeatable, max 5)")
	composeCmd.Flags().BoolVarP(&flagTUI, "tui", "t", false, "Interactive picker for kind, tone, style and podcast")

	analyzeCmd.Flags().DurationVar(&flagThinkDelay, "think-delay", 600*time.Millisecond, "Pause between analysis stages")

	scriptCmd.Flags().StringVarP(&flagScriptTone, "tone", "n", "conversational", "Tone: "+strings.Join(script.ToneNames(), ", "))
	scriptCmd.Flags().StringVarP(&flagScriptStyle, "style", "s", "summary", "Style: "+strings.Join(script.StyleNames(), ", "))
	scriptCmd.Flags().StringVarP(&flagFocus, "focus", "f", "balanced", "Focus: "+strings.Join(script.FocusNames(), ", "))
	scriptCmd.Flags().StringVar(&flagAnalysis, "analysis-file", "", "Free-text analysis to script from")
	scriptCmd.Flags().StringVar(&flagReport, "report", "", "Analysis report JSON saved by 'analyze --save'")
}

func Execute() error {
	loadDotEnv()
	return rootCmd.Execute()
}

// loadDotEnv picks up S3_BUCKET, CDN_BASE_URL and friends from a local .env.
// Variables already set in the environment win.
func loadDotEnv() {
	_ = godotenv.Load()
}

func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if flagVerbose {
		level = slog.LevelDebug
	}
	return observability.NewLogger(os.Stderr, level)
}

func newStudio(cfg studio.Config) (*studio.Studio, error) {
	return studio.New(cfg, studio.WithLogger(newLogger()))
}

// selectedPodcast resolves --podcast-file, then --podcast. Both empty yields nil.
func selectedPodcast(st *studio.Studio) (*podcast.Podcast, error) {
	if flagPodcastFile != "" {
		return podcast.LoadFile(flagPodcastFile)
	}
	if flagPodcast == "" {
		return nil, nil
	}
	p, err := st.Podcast(flagPodcast)
	if err != nil {
		return nil, fmt.Errorf("%w (available: %s)", err, strings.Join(st.Library().IDs(), ", "))
	}
	return p, nil
}

func runCompose(cmd *cobra.Command, args []string) error {
	st, err := newStudio(studio.DefaultConfig())
	if err != nil {
		return err
	}

	if flagTUI {
		if err := runInteractiveSetup(st); err != nil {
			return err
		}
	}

	kind, ok := compose.ParseKind(catalog.Normalize(flagKind))
	if !ok {
		return fmt.Errorf("invalid kind %q: must be one of %s", flagKind, strings.Join(kindNames(), ", "))
	}
	cat := st.Catalog()
	tone, style := catalog.Normalize(flagTone), catalog.Normalize(flagStyle)
	if !cat.HasTone(tone) {
		return fmt.Errorf("invalid tone %q: must be one of %s", flagTone, strings.Join(cat.Tones(), ", "))
	}
	if !cat.HasStyle(style) {
		return fmt.Errorf("invalid style %q: must be one of %s", flagStyle, strings.Join(cat.Styles(), ", "))
	}
	if len(flagImages) > 5 {
		return fmt.Errorf("at most 5 images are allowed, got %d", len(flagImages))
	}
	var category podcast.Category
	if flagCategory != "" {
		if category, ok = podcast.ParseCategory(flagCategory); !ok {
			return fmt.Errorf("invalid category %q: must be one of %s", flagCategory, podcast.CategoryNames())
		}
	}

	p, err := selectedPodcast(st)
	if err != nil {
		return err
	}

	c, err := st.Generate(cmd.Context(), compose.ContentRequest{
		Kind:     kind,
		Tone:     tone,
		Style:    style,
		Podcast:  p,
		Topic:    flagTopic,
		Category: category,
		Images:   flagImages,
	})
	if err != nil {
		return err
	}

	printContent(os.Stdout, c)
	return saveJSON(c)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg := studio.DefaultConfig()
	cfg.ThinkDelay = flagThinkDelay
	st, err := newStudio(cfg)
	if err != nil {
		return err
	}

	p, err := selectedPodcast(st)
	if err != nil {
		return err
	}
	if p == nil {
		return fmt.Errorf("--podcast (-p) or --podcast-file is required")
	}

	// Verbose runs log to stderr, so stages print there as plain lines.
	bar := progress.NewBarRenderer(os.Stdout)
	if flagVerbose {
		bar = progress.NewPlainRenderer(os.Stderr)
	}

	report, err := st.Analyze(cmd.Context(), p.ID, p, func(e progress.Event) {
		if e.Stage == progress.StageComplete && flagSave != "" {
			e.OutputFile = savePath(flagSave)
		}
		bar.Handle(e)
	})
	if err != nil {
		return err
	}
	if flagSave != "" {
		if err := writeJSON(savePath(flagSave), report); err != nil {
			return err
		}
	}
	bar.Finish()

	printReport(os.Stdout, report)
	return nil
}

func runScript(cmd *cobra.Command, args []string) error {
	if !script.IsValidTone(flagScriptTone) {
		return fmt.Errorf("invalid tone %q: must be one of %s", flagScriptTone, strings.Join(script.ToneNames(), ", "))
	}
	if !script.IsValidStyle(flagScriptStyle) {
		return fmt.Errorf("invalid style %q: must be one of %s", flagScriptStyle, strings.Join(script.StyleNames(), ", "))
	}
	if !script.IsValidFocus(flagFocus) {
		return fmt.Errorf("invalid focus %q: must be one of %s", flagFocus, strings.Join(script.FocusNames(), ", "))
	}

	st, err := newStudio(studio.DefaultConfig())
	if err != nil {
		return err
	}

	req := studio.ScriptRequest{Tone: flagScriptTone, Style: flagScriptStyle, Focus: flagFocus}
	switch {
	case flagAnalysis != "":
		data, err := os.ReadFile(flagAnalysis)
		if err != nil {
			return fmt.Errorf("read analysis: %w", err)
		}
		req.AnalysisText = string(data)
	case flagReport != "":
		r, err := loadReport(flagReport)
		if err != nil {
			return err
		}
		req.AnalysisText = r.SeedText()
	default:
		// Run a fresh analysis so the script has something to say.
		p, err := selectedPodcast(st)
		if err != nil {
			return err
		}
		if p != nil {
			if _, err := st.Analyze(cmd.Context(), p.ID, p, nil); err != nil {
				return err
			}
			req.PodcastID = p.ID
		}
	}

	res, err := st.Script(cmd.Context(), req)
	if err != nil {
		return err
	}

	printScript(os.Stdout, res)
	if flagSave != "" {
		path := savePath(flagSave)
		if err := script.SaveResult(&res, path); err != nil {
			return err
		}
		fmt.Printf("Saved to %s\n", path)
	}
	return nil
}

func runCatalog(cmd *cobra.Command, args []string) error {
	st, err := newStudio(studio.DefaultConfig())
	if err != nil {
		return err
	}
	printCatalog(os.Stdout, st.Catalog())
	return nil
}

func runPodcasts(cmd *cobra.Command, args []string) error {
	st, err := newStudio(studio.DefaultConfig())
	if err != nil {
		return err
	}
	printPodcasts(os.Stdout, st.Library().List())
	return nil
}

func kindNames() []string {
	kinds := compose.Kinds()
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}
	return names
}

// savePath routes bare filenames into OutputBaseDir.
func savePath(path string) string {
	if filepath.Base(path) == path {
		return filepath.Join(OutputBaseDir, path)
	}
	return path
}

func saveJSON(v any) error {
	if flagSave == "" {
		return nil
	}
	path := savePath(flagSave)
	if err := writeJSON(path, v); err != nil {
		return err
	}
	fmt.Printf("Saved to %s\n", path)
	return nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func loadReport(path string) (*analysis.Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read report: %w", err)
	}
	var r analysis.Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parse report: %w", err)
	}
	if r.ID == "" {
		return nil, fmt.Errorf("%s is not an analysis report", path)
	}
	return &r, nil
}
