// Package script composes short voice-over scripts from a free-text podcast
// analysis. The style controls the section header, the bullet cap and the
// estimated duration; the tone picks the intro; the focus orders and prefixes
// the bullets.
package script

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
)

// Request describes the script to compose.
type Request struct {
	Tone         string `json:"tone"`
	Style        string `json:"style"`
	Focus        string `json:"focus"`
	AnalysisText string `json:"analysisText"`
}

// Result is a composed script.
type Result struct {
	Text              string   `json:"text"`
	EstimatedDuration string   `json:"estimatedDuration"`
	Bullets           []string `json:"bullets"`
	Tone              string   `json:"tone"`
	Style             string   `json:"style"`
	Focus             string   `json:"focus"`
}

const emptyAnalysisBullet = "The highlights from the latest episodes"

// Compose builds a script for req. Unknown tones, styles and focus values
// fall back to conversational, summary and balanced.
func Compose(rng *rand.Rand, req Request) Result {
	tone, style, focus := normalize(req)

	analysis := Parse(req.AnalysisText)
	bullets := analysis.Bullets(focus)
	if analysis.Empty() {
		bullets = []string{emptyAnalysisBullet}
	}
	if n := bulletCap(style); len(bullets) > n {
		bullets = bullets[:n]
	}

	pool := intros(tone)
	intro := pool[rng.Intn(len(pool))]
	closing := closings[rng.Intn(len(closings))]
	lo, hi := durationRange(style)
	minutes := lo + rng.Intn(hi-lo+1)

	var b strings.Builder
	b.WriteString(intro + "\n\n")
	b.WriteString(sectionHeader(style) + "\n")
	prefix := bulletPrefix(focus)
	for _, item := range bullets {
		b.WriteString(prefix + " " + item + "\n")
	}
	b.WriteString("\n" + closing)

	return Result{
		Text:              b.String(),
		EstimatedDuration: fmt.Sprintf("%d min", minutes),
		Bullets:           bullets,
		Tone:              tone,
		Style:             style,
		Focus:             focus,
	}
}

func normalize(req Request) (tone, style, focus string) {
	tone = strings.ToLower(strings.TrimSpace(req.Tone))
	if !IsValidTone(tone) {
		tone = ToneNames()[0]
	}
	style = strings.ToLower(strings.TrimSpace(req.Style))
	if !IsValidStyle(style) {
		style = StyleNames()[0]
	}
	focus = strings.ToLower(strings.TrimSpace(req.Focus))
	if !IsValidFocus(focus) {
		focus = "balanced"
	}
	return tone, style, focus
}

// SaveResult writes r as indented JSON, creating the parent directory.
func SaveResult(r *Result, path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal script: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create script dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write script to %s: %w", path, err)
	}
	return nil
}

// LoadResult reads a script written by SaveResult.
func LoadResult(path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script from %s: %w", path, err)
	}
	var r Result
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parse script from %s: %w", path, err)
	}
	if r.Text == "" {
		return nil, fmt.Errorf("script %s has no text", path)
	}
	return &r, nil
}
