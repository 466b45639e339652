package site

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAppearance_Dark(t *testing.T) {
	require.True(t, Appearance{Theme: ThemeDark}.Dark())
	require.True(t, Appearance{Theme: ThemeSystem, SystemTheme: ThemeDark}.Dark())
	require.False(t, Appearance{Theme: ThemeSystem, SystemTheme: ThemeLight}.Dark())
	require.False(t, Appearance{Theme: ThemeLight, SystemTheme: ThemeDark}.Dark())
}

func TestLogo_DefaultSize(t *testing.T) {
	html, err := Logo{}.HTML(Appearance{Theme: ThemeLight})
	require.NoError(t, err)
	require.Contains(t, string(html), "text-black")
	require.Contains(t, string(html), "width: 24px")
	require.Contains(t, string(html), "font-size: 9.6px")
	require.Contains(t, string(html), ">EMMA</div>")
}

func TestLogo_DarkInverts(t *testing.T) {
	html, err := Logo{Size: 40}.HTML(Appearance{Theme: ThemeSystem, SystemTheme: ThemeDark})
	require.NoError(t, err)
	require.Contains(t, string(html), "text-white")
	require.Contains(t, string(html), "min-height: 40px")
	require.Contains(t, string(html), "font-size: 16px")
}

func TestParseTheme(t *testing.T) {
	require.Equal(t, ThemeDark, ParseTheme("dark"))
	require.Equal(t, ThemeSystem, ParseTheme("purple"))
}

func TestDefaultConfig(t *testing.T) {
	require.Equal(t, "EMMA AI", Default.Name)
	require.Equal(t, "https://github.com/kortix-ai/", Default.Links.GitHub)
}
