// Package template holds the closed set of visual template definitions a
// document can be rendered with. Templates are plain data; the renderer
// interprets them.
package template

import (
	"fmt"
	"image/color"
	"sort"

	"careerstealth/internal/errors"
)

// LayoutShape is the closed set of page arrangements the renderer
// understands. Adding a shape means teaching the renderer about it, so the
// set is deliberately an enum rather than free-form strings.
type LayoutShape int

const (
	LayoutSingleColumn LayoutShape = iota
	LayoutSidebarLeft
	LayoutSidebarRight
	LayoutDenseClassic
)

func (s LayoutShape) String() string {
	switch s {
	case LayoutSingleColumn:
		return "single-column"
	case LayoutSidebarLeft:
		return "sidebar-left"
	case LayoutSidebarRight:
		return "sidebar-right"
	case LayoutDenseClassic:
		return "dense-classic"
	}
	return fmt.Sprintf("LayoutShape(%d)", int(s))
}

// FontFamily selects one of the bundled font sets.
type FontFamily int

const (
	FontSans FontFamily = iota
	FontSerif
	FontMono
)

func (f FontFamily) String() string {
	switch f {
	case FontSans:
		return "sans"
	case FontSerif:
		return "serif"
	case FontMono:
		return "mono"
	}
	return fmt.Sprintf("FontFamily(%d)", int(f))
}

// ColorTheme assigns colors to rendering roles. Values are concrete colors,
// not palette names, so the export pipeline needs no lookup table.
type ColorTheme struct {
	Name    string
	Primary color.RGBA // headings, name
	Accent  color.RGBA // links, section rules
	Body    color.RGBA // body text
	Subtle  color.RGBA // durations, contact line
}

// Config is one selectable template: a layout shape, a font family and a
// color theme. SidebarFraction is only meaningful for sidebar shapes.
type Config struct {
	ID              string
	Name            string
	Layout          LayoutShape
	Font            FontFamily
	Theme           ColorTheme
	SidebarFraction float64
}

var (
	themeSlate   = ColorTheme{Name: "slate", Primary: color.RGBA{R: 0x0f, G: 0x17, B: 0x2a, A: 0xff}, Accent: color.RGBA{R: 0x47, G: 0x55, B: 0x69, A: 0xff}, Body: color.RGBA{R: 0x1e, G: 0x29, B: 0x3b, A: 0xff}, Subtle: color.RGBA{R: 0x64, G: 0x74, B: 0x8b, A: 0xff}}
	themeBlue    = ColorTheme{Name: "blue", Primary: color.RGBA{R: 0x1e, G: 0x3a, B: 0x8a, A: 0xff}, Accent: color.RGBA{R: 0x25, G: 0x63, B: 0xeb, A: 0xff}, Body: color.RGBA{R: 0x1e, G: 0x29, B: 0x3b, A: 0xff}, Subtle: color.RGBA{R: 0x64, G: 0x74, B: 0x8b, A: 0xff}}
	themeIndigo  = ColorTheme{Name: "indigo", Primary: color.RGBA{R: 0x31, G: 0x2e, B: 0x81, A: 0xff}, Accent: color.RGBA{R: 0x4f, G: 0x46, B: 0xe5, A: 0xff}, Body: color.RGBA{R: 0x1e, G: 0x29, B: 0x3b, A: 0xff}, Subtle: color.RGBA{R: 0x64, G: 0x74, B: 0x8b, A: 0xff}}
	themeEmerald = ColorTheme{Name: "emerald", Primary: color.RGBA{R: 0x06, G: 0x4e, B: 0x3b, A: 0xff}, Accent: color.RGBA{R: 0x05, G: 0x96, B: 0x69, A: 0xff}, Body: color.RGBA{R: 0x1e, G: 0x29, B: 0x3b, A: 0xff}, Subtle: color.RGBA{R: 0x64, G: 0x74, B: 0x8b, A: 0xff}}
	themeRose    = ColorTheme{Name: "rose", Primary: color.RGBA{R: 0x88, G: 0x13, B: 0x37, A: 0xff}, Accent: color.RGBA{R: 0xe1, G: 0x1d, B: 0x48, A: 0xff}, Body: color.RGBA{R: 0x1e, G: 0x29, B: 0x3b, A: 0xff}, Subtle: color.RGBA{R: 0x64, G: 0x74, B: 0x8b, A: 0xff}}
)

// gallery is the built-in template set. IDs are stable and part of the
// external contract (config files, API requests).
var gallery = map[string]Config{
	"modern":    {ID: "modern", Name: "Modern", Layout: LayoutSingleColumn, Font: FontSans, Theme: themeSlate},
	"classic":   {ID: "classic", Name: "Classic", Layout: LayoutSingleColumn, Font: FontSerif, Theme: themeBlue},
	"minimal":   {ID: "minimal", Name: "Minimal", Layout: LayoutSingleColumn, Font: FontSans, Theme: themeSlate},
	"ivy":       {ID: "ivy", Name: "Ivy League", Layout: LayoutDenseClassic, Font: FontSerif, Theme: themeIndigo},
	"tech":      {ID: "tech", Name: "Tech", Layout: LayoutSidebarLeft, Font: FontMono, Theme: themeEmerald, SidebarFraction: 0.32},
	"executive": {ID: "executive", Name: "Executive", Layout: LayoutSidebarRight, Font: FontSerif, Theme: themeSlate, SidebarFraction: 0.30},
	"smart":     {ID: "smart", Name: "Smart", Layout: LayoutSidebarLeft, Font: FontSans, Theme: themeBlue, SidebarFraction: 0.32},
	"compact":   {ID: "compact", Name: "Compact", Layout: LayoutDenseClassic, Font: FontSans, Theme: themeRose},
}

// Get returns the template config for an ID.
func Get(id string) (Config, error) {
	cfg, ok := gallery[id]
	if !ok {
		return Config{}, errors.NewValidationError(errors.ErrCodeUnknownTemplate,
			fmt.Sprintf("unknown template %q", id), nil)
	}
	return cfg, nil
}

// List returns all templates sorted by ID.
func List() []Config {
	out := make([]Config, 0, len(gallery))
	for _, cfg := range gallery {
		out = append(out, cfg)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Default is the template used when none is configured.
const Default = "modern"
