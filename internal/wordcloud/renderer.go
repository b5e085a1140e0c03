package wordcloud

import (
	"bytes"
	"fmt"
	"image/color"
	"math"
	"sort"
	"strings"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	baseWidth  = 800
	baseHeight = 400

	// MaxWords bounds how many distinct words are drawn.
	MaxWords = 100
	// DefaultScale renders at twice the logical resolution.
	DefaultScale = 2

	maxFontSize = 72.0
	minFontSize = 8.0
	shrinkStep  = 0.9
	padding     = 2.0
)

// viridis samples, dark to light.
var palette = []color.RGBA{
	{0x44, 0x01, 0x54, 0xff},
	{0x48, 0x28, 0x78, 0xff},
	{0x3e, 0x4a, 0x89, 0xff},
	{0x31, 0x68, 0x8e, 0xff},
	{0x26, 0x82, 0x8e, 0xff},
	{0x1f, 0x9e, 0x89, 0xff},
	{0x35, 0xb7, 0x79, 0xff},
	{0x6d, 0xcd, 0x59, 0xff},
	{0xb4, 0xde, 0x2c, 0xff},
	{0xfd, 0xe7, 0x25, 0xff},
}

// WordFreq is a distinct word and its occurrence count.
type WordFreq struct {
	Word  string
	Count int
}

type placement struct {
	word  string
	size  float64
	x, y  float64 // top-left corner
	w, h  float64
	color color.RGBA
}

func (p placement) overlaps(o placement) bool {
	return p.x < o.x+o.w+padding && o.x < p.x+p.w+padding &&
		p.y < o.y+o.h+padding && o.y < p.y+p.h+padding
}

// Renderer draws word-frequency images. It is safe for concurrent use.
type Renderer struct {
	scale float64
	font  *truetype.Font
}

// New returns a Renderer drawing at scale times the 800x400 logical canvas.
func New(scale int) (*Renderer, error) {
	if scale <= 0 {
		scale = DefaultScale
	}
	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	return &Renderer{scale: float64(scale), font: f}, nil
}

// Size returns the pixel dimensions of rendered images.
func (r *Renderer) Size() (int, int) {
	return int(baseWidth * r.scale), int(baseHeight * r.scale)
}

// Render lays out the words of normalized text by frequency and returns a PNG.
func (r *Renderer) Render(normalized string) ([]byte, error) {
	freqs := Frequencies(normalized)
	if len(freqs) == 0 {
		return nil, ErrEmptyInput
	}

	width, height := r.Size()
	dc := gg.NewContext(width, height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	faces := map[int]font.Face{}
	defer func() {
		for _, f := range faces {
			f.Close()
		}
	}()
	faceFor := func(size float64) font.Face {
		key := int(math.Round(size))
		if f, ok := faces[key]; ok {
			return f
		}
		f := truetype.NewFace(r.font, &truetype.Options{Size: float64(key)})
		faces[key] = f
		return f
	}

	for _, p := range r.layout(dc, freqs, faceFor) {
		dc.SetFontFace(faceFor(p.size))
		dc.SetColor(p.color)
		dc.DrawStringAnchored(p.word, p.x+p.w/2, p.y+p.h/2, 0.5, 0.5)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// layout places words largest first along an Archimedean spiral from the
// canvas centre. A word that does not fit is shrunk and retried, then dropped.
func (r *Renderer) layout(dc *gg.Context, freqs []WordFreq, faceFor func(float64) font.Face) []placement {
	width, height := r.Size()
	cw, ch := float64(width), float64(height)
	maxCount := float64(freqs[0].Count)
	maxRadius := math.Hypot(cw, ch) / 2

	placed := make([]placement, 0, len(freqs))
	for i, wf := range freqs {
		rel := float64(wf.Count) / maxCount
		size := (minFontSize + (maxFontSize-minFontSize)*rel) * r.scale

		for size >= minFontSize*r.scale {
			dc.SetFontFace(faceFor(size))
			w, h := dc.MeasureString(wf.Word)
			if p, ok := findSpot(placed, w, h, cw, ch, maxRadius); ok {
				p.word = wf.Word
				p.size = size
				p.color = palette[i%len(palette)]
				placed = append(placed, p)
				break
			}
			size *= shrinkStep
		}
	}
	return placed
}

func findSpot(placed []placement, w, h, cw, ch, maxRadius float64) (placement, bool) {
	if w > cw || h > ch {
		return placement{}, false
	}
	const step = 0.15
	aspect := ch / cw
	for t := 0.0; ; t += step {
		radius := 4 * t
		if radius > maxRadius {
			return placement{}, false
		}
		cx := cw/2 + radius*math.Cos(t)
		cy := ch/2 + radius*math.Sin(t)*aspect
		cand := placement{x: cx - w/2, y: cy - h/2, w: w, h: h}
		if cand.x < 0 || cand.y < 0 || cand.x+w > cw || cand.y+h > ch {
			continue
		}
		free := true
		for _, p := range placed {
			if cand.overlaps(p) {
				free = false
				break
			}
		}
		if free {
			return cand, true
		}
	}
}

// Frequencies counts whitespace-separated words and returns at most MaxWords,
// most frequent first with ties broken alphabetically.
func Frequencies(text string) []WordFreq {
	counts := map[string]int{}
	for _, w := range strings.Fields(text) {
		counts[w]++
	}
	out := make([]WordFreq, 0, len(counts))
	for w, c := range counts {
		out = append(out, WordFreq{Word: w, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Word < out[j].Word
	})
	if len(out) > MaxWords {
		out = out[:MaxWords]
	}
	return out
}
