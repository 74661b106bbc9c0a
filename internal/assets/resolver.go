// Package assets turns free-text keys into stable placeholder media
// references. The same key, index and dimensions always produce the same
// reference; nothing here reads a random source.
package assets

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/cespare/xxhash/v2"
)

// Kind is the media type of a reference.
type Kind string

const (
	KindImage Kind = "image"
	KindVideo Kind = "video"
	KindGIF   Kind = "gif"
)

// DefaultKey is substituted for empty keys.
const DefaultKey = "default"

// Dimensions is a pixel size.
type Dimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

func (d Dimensions) String() string { return fmt.Sprintf("%dx%d", d.Width, d.Height) }

var (
	Square    = Dimensions{Width: 1080, Height: 1080}
	Landscape = Dimensions{Width: 1280, Height: 720}
	Portrait  = Dimensions{Width: 1080, Height: 1920}
	GIFSquare = Dimensions{Width: 480, Height: 480}
)

// Ref is an opaque media address plus the seed it was derived from.
// Downstream consumers treat URL as an address and never parse it.
type Ref struct {
	Kind       Kind       `json:"kind"`
	URL        string     `json:"url"`
	Seed       string     `json:"seed"`
	Dimensions Dimensions `json:"dimensions"`
}

const imageBaseURL = "https://picsum.photos/seed"

var videoPool = []string{
	"https://storage.googleapis.com/gtv-videos-bucket/sample/BigBuckBunny.mp4",
	"https://storage.googleapis.com/gtv-videos-bucket/sample/ElephantsDream.mp4",
	"https://storage.googleapis.com/gtv-videos-bucket/sample/ForBiggerBlazes.mp4",
	"https://storage.googleapis.com/gtv-videos-bucket/sample/ForBiggerEscapes.mp4",
	"https://storage.googleapis.com/gtv-videos-bucket/sample/ForBiggerFun.mp4",
	"https://storage.googleapis.com/gtv-videos-bucket/sample/ForBiggerJoyrides.mp4",
}

var gifPool = []string{
	"https://media.giphy.com/media/3o7aD2saalBwwftBIY/giphy.gif",
	"https://media.giphy.com/media/l0MYt5jPR6QX5pnqM/giphy.gif",
	"https://media.giphy.com/media/26ufdipQqU2lhNA4g/giphy.gif",
	"https://media.giphy.com/media/xT9IgzoKnwFNmISR8I/giphy.gif",
	"https://media.giphy.com/media/l41lUJ1YoZB1lHVPG/giphy.gif",
}

// NormalizeKey lowercases key and drops everything that is not a letter or
// digit. An empty result becomes DefaultKey.
func NormalizeKey(key string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(key) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return DefaultKey
	}
	return b.String()
}

// Seed builds the seed string for a key and index.
func Seed(key string, index int) string {
	return fmt.Sprintf("%s-%d", NormalizeKey(key), index)
}

// Resolve returns the reference for key and index.
func Resolve(kind Kind, key string, index int, dims Dimensions) Ref {
	seed := Seed(key, index)
	return fromSeed(kind, seed, dims)
}

func fromSeed(kind Kind, seed string, dims Dimensions) Ref {
	ref := Ref{Kind: kind, Seed: seed, Dimensions: dims}
	switch kind {
	case KindVideo:
		ref.URL = pick(videoPool, seed)
	case KindGIF:
		ref.URL = pick(gifPool, seed)
	default:
		ref.Kind = KindImage
		ref.URL = fmt.Sprintf("%s/%s/%d/%d", imageBaseURL, seed, dims.Width, dims.Height)
	}
	return ref
}

// Image is shorthand for an image reference.
func Image(key string, index int, dims Dimensions) Ref {
	return Resolve(KindImage, key, index, dims)
}

// Video is shorthand for a video reference.
func Video(key string, index int) Ref {
	return Resolve(KindVideo, key, index, Landscape)
}

// GIF is shorthand for an animated reference.
func GIF(key string, index int) Ref {
	return Resolve(KindGIF, key, index, GIFSquare)
}

func pick(pool []string, seed string) string {
	return pool[xxhash.Sum64String(seed)%uint64(len(pool))]
}
