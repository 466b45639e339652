package site

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"strconv"
)

const DefaultLogoSize = 24

// Theme is a color scheme preference.
type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

// ParseTheme maps unknown values to ThemeSystem.
func ParseTheme(s string) Theme {
	switch Theme(s) {
	case ThemeLight, ThemeDark:
		return Theme(s)
	default:
		return ThemeSystem
	}
}

// Appearance is the theme chosen by the user and the one reported by the OS.
type Appearance struct {
	Theme       Theme
	SystemTheme Theme
}

// Dark reports whether the logo must render light-on-dark.
func (a Appearance) Dark() bool {
	return a.Theme == ThemeDark || (a.Theme == ThemeSystem && a.SystemTheme == ThemeDark)
}

// Logo is the EMMA text mark.
type Logo struct {
	Size int
}

var logoTemplate = template.Must(template.New("logo").Parse(
	`<div class="{{.Color}} flex-shrink-0 font-bold flex items-center justify-center" ` +
		`style="width: {{.Size}}px; height: {{.Size}}px; min-width: {{.Size}}px; min-height: {{.Size}}px; font-size: {{.FontSize}}px">EMMA</div>`))

type logoView struct {
	Color    string
	Size     int
	FontSize string
}

// Render writes the logo as an HTML fragment.
func (l Logo) Render(w io.Writer, a Appearance) error {
	size := l.Size
	if size <= 0 {
		size = DefaultLogoSize
	}
	color := "text-black"
	if a.Dark() {
		color = "text-white"
	}
	view := logoView{
		Color:    color,
		Size:     size,
		FontSize: strconv.FormatFloat(float64(size*2)/5, 'f', -1, 64),
	}
	if err := logoTemplate.Execute(w, view); err != nil {
		return fmt.Errorf("render logo: %w", err)
	}
	return nil
}

// HTML renders the logo to a string.
func (l Logo) HTML(a Appearance) (template.HTML, error) {
	var buf bytes.Buffer
	if err := l.Render(&buf, a); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}
