package layout

import (
	"fmt"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"

	"careerstealth/internal/template"
)

// Measurer provides deterministic text metrics from the bundled Go fonts.
// The same bytes feed both measurement and rasterization, so a string is
// exactly as wide on the exported page as the layout computed.
//
// The Go font set carries no serif family; serif templates fall back to
// the medium weight for visual contrast with sans templates.
type Measurer struct {
	mu    sync.Mutex
	fonts map[fontKey]*sfnt.Font
	faces map[faceKey]font.Face
}

type fontKey struct {
	family template.FontFamily
	bold   bool
}

type faceKey struct {
	family template.FontFamily
	bold   bool
	size   float64
}

var fontData = map[fontKey][]byte{
	{template.FontSans, false}:  goregular.TTF,
	{template.FontSans, true}:   gobold.TTF,
	{template.FontSerif, false}: gomedium.TTF,
	{template.FontSerif, true}:  gobold.TTF,
	{template.FontMono, false}:  gomono.TTF,
	{template.FontMono, true}:   gomonobold.TTF,
}

// NewMeasurer returns a Measurer with empty caches. Safe for concurrent
// use.
func NewMeasurer() *Measurer {
	return &Measurer{
		fonts: make(map[fontKey]*sfnt.Font),
		faces: make(map[faceKey]font.Face),
	}
}

// Face returns a cached font face at the given size in points.
func (m *Measurer) Face(family template.FontFamily, size float64, bold bool) (font.Face, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.faceLocked(family, size, bold)
}

func (m *Measurer) faceLocked(family template.FontFamily, size float64, bold bool) (font.Face, error) {
	fk := faceKey{family: family, bold: bold, size: size}
	if face, ok := m.faces[fk]; ok {
		return face, nil
	}

	key := fontKey{family: family, bold: bold}
	parsed, ok := m.fonts[key]
	if !ok {
		data, ok := fontData[key]
		if !ok {
			return nil, fmt.Errorf("no font registered for family %s bold=%v", family, bold)
		}
		var err error
		parsed, err = opentype.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("parse font %s: %w", family, err)
		}
		m.fonts[key] = parsed
	}

	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("build face %s@%g: %w", family, size, err)
	}
	m.faces[fk] = face
	return face, nil
}

// TextWidth measures a single line in points.
func (m *Measurer) TextWidth(text string, family template.FontFamily, size float64, bold bool) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	face, err := m.faceLocked(family, size, bold)
	if err != nil {
		return 0, err
	}
	return fixedToPt(font.MeasureString(face, text)), nil
}

// LineHeight returns the line advance for the face in points.
func (m *Measurer) LineHeight(family template.FontFamily, size float64, bold bool) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	face, err := m.faceLocked(family, size, bold)
	if err != nil {
		return 0, err
	}
	return fixedToPt(face.Metrics().Height), nil
}

// Ascent returns the baseline offset from the line top in points.
func (m *Measurer) Ascent(family template.FontFamily, size float64, bold bool) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	face, err := m.faceLocked(family, size, bold)
	if err != nil {
		return 0, err
	}
	return fixedToPt(face.Metrics().Ascent), nil
}

// Wrap splits text into lines no wider than maxWidth using greedy word
// wrapping. A single word wider than maxWidth gets its own line and
// overflows horizontally.
func (m *Measurer) Wrap(text string, family template.FontFamily, size float64, bold bool, maxWidth float64) ([]string, error) {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil, nil
	}

	var lines []string
	current := words[0]
	for _, word := range words[1:] {
		candidate := current + " " + word
		w, err := m.TextWidth(candidate, family, size, bold)
		if err != nil {
			return nil, err
		}
		if w > maxWidth {
			lines = append(lines, current)
			current = word
			continue
		}
		current = candidate
	}
	lines = append(lines, current)
	return lines, nil
}

func fixedToPt(v fixed.Int26_6) float64 {
	return float64(v) / 64.0
}
