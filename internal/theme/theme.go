// Package theme holds the color themes and lipgloss styles shared by the card
// renderer and the interactive UI.
package theme

import (
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Theme represents a color theme for the card
type Theme struct {
	Name string

	// Primary colors
	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Accent    lipgloss.AdaptiveColor

	// Semantic colors
	Success lipgloss.AdaptiveColor
	Warning lipgloss.AdaptiveColor
	Error   lipgloss.AdaptiveColor
	Info    lipgloss.AdaptiveColor

	// UI colors
	Border     lipgloss.AdaptiveColor
	Foreground lipgloss.AdaptiveColor
	Muted      lipgloss.AdaptiveColor
	Highlight  lipgloss.AdaptiveColor

	// Stack trace colors
	InApp  lipgloss.AdaptiveColor
	Vendor lipgloss.AdaptiveColor
}

func buildTheme(name string, primary, secondary, accent, success, warning, errorColor, info, border, foreground, muted, highlight, inApp, vendor [2]string) Theme {
	return Theme{
		Name:       name,
		Primary:    lipgloss.AdaptiveColor{Light: primary[0], Dark: primary[1]},
		Secondary:  lipgloss.AdaptiveColor{Light: secondary[0], Dark: secondary[1]},
		Accent:     lipgloss.AdaptiveColor{Light: accent[0], Dark: accent[1]},
		Success:    lipgloss.AdaptiveColor{Light: success[0], Dark: success[1]},
		Warning:    lipgloss.AdaptiveColor{Light: warning[0], Dark: warning[1]},
		Error:      lipgloss.AdaptiveColor{Light: errorColor[0], Dark: errorColor[1]},
		Info:       lipgloss.AdaptiveColor{Light: info[0], Dark: info[1]},
		Border:     lipgloss.AdaptiveColor{Light: border[0], Dark: border[1]},
		Foreground: lipgloss.AdaptiveColor{Light: foreground[0], Dark: foreground[1]},
		Muted:      lipgloss.AdaptiveColor{Light: muted[0], Dark: muted[1]},
		Highlight:  lipgloss.AdaptiveColor{Light: highlight[0], Dark: highlight[1]},
		InApp:      lipgloss.AdaptiveColor{Light: inApp[0], Dark: inApp[1]},
		Vendor:     lipgloss.AdaptiveColor{Light: vendor[0], Dark: vendor[1]},
	}
}

// Available themes
var (
	DefaultTheme = buildTheme("default",
		[2]string{"#1E40AF", "#3B82F6"}, [2]string{"#6B7280", "#9CA3AF"}, [2]string{"#7C3AED", "#A855F7"},
		[2]string{"#059669", "#10B981"}, [2]string{"#D97706", "#F59E0B"}, [2]string{"#DC2626", "#EF4444"},
		[2]string{"#0891B2", "#06B6D4"}, [2]string{"#D1D5DB", "#374151"}, [2]string{"#111827", "#F9FAFB"},
		[2]string{"#6B7280", "#9CA3AF"}, [2]string{"#FEF3C7", "#1F2937"}, [2]string{"#111827", "#F9FAFB"},
		[2]string{"#9CA3AF", "#6B7280"})

	HighContrastTheme = buildTheme("high-contrast",
		[2]string{"#000000", "#FFFFFF"}, [2]string{"#666666", "#BBBBBB"}, [2]string{"#000080", "#8080FF"},
		[2]string{"#006600", "#00FF00"}, [2]string{"#CC6600", "#FFAA00"}, [2]string{"#CC0000", "#FF4444"},
		[2]string{"#0066CC", "#4499FF"}, [2]string{"#000000", "#FFFFFF"}, [2]string{"#000000", "#FFFFFF"},
		[2]string{"#666666", "#BBBBBB"}, [2]string{"#FFFF00", "#444444"}, [2]string{"#000000", "#FFFFFF"},
		[2]string{"#666666", "#BBBBBB"})

	MinimalTheme = buildTheme("minimal",
		[2]string{"#2D3748", "#E2E8F0"}, [2]string{"#718096", "#A0AEC0"}, [2]string{"#4A5568", "#CBD5E0"},
		[2]string{"#2F855A", "#68D391"}, [2]string{"#C05621", "#F6AD55"}, [2]string{"#C53030", "#FC8181"},
		[2]string{"#2B6CB0", "#63B3ED"}, [2]string{"#E2E8F0", "#2D3748"}, [2]string{"#2D3748", "#F7FAFC"},
		[2]string{"#A0AEC0", "#718096"}, [2]string{"#F7FAFC", "#2D3748"}, [2]string{"#2D3748", "#F7FAFC"},
		[2]string{"#A0AEC0", "#718096"})
)

var (
	mu            sync.RWMutex
	currentTheme  = DefaultTheme
	colorDisabled bool
)

// Current returns the active theme
func Current() Theme {
	mu.RLock()
	defer mu.RUnlock()
	return currentTheme
}

// Set sets the active theme
func Set(theme *Theme) {
	mu.Lock()
	defer mu.Unlock()
	currentTheme = *theme
}

// SetByName sets the theme by name
func SetByName(name string) bool {
	switch name {
	case "default":
		Set(&DefaultTheme)
		return true
	case "high-contrast":
		Set(&HighContrastTheme)
		return true
	case "minimal":
		Set(&MinimalTheme)
		return true
	default:
		return false
	}
}

// Available returns list of available theme names
func Available() []string {
	return []string{"default", "high-contrast", "minimal"}
}

// SetColorDisabled turns styling off regardless of the terminal
func SetColorDisabled(disabled bool) {
	mu.Lock()
	defer mu.Unlock()
	colorDisabled = disabled
}

// IsColorDisabled checks if colors should be disabled
func IsColorDisabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return colorDisabled || os.Getenv("NO_COLOR") != ""
}

// Styles contains all the styled components
type Styles struct {
	Theme Theme

	// Base styles
	Title  lipgloss.Style
	Header lipgloss.Style
	Body   lipgloss.Style
	Muted  lipgloss.Style

	// Status styles
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Info    lipgloss.Style

	// Stack trace styles
	ExceptionType  lipgloss.Style
	ExceptionValue lipgloss.Style
	FrameName      lipgloss.Style
	FrameSource    lipgloss.Style
	VendorFrame    lipgloss.Style
	ContextLine    lipgloss.Style

	// Card styles
	Card           lipgloss.Style
	Panel          lipgloss.Style
	ToggleOn       lipgloss.Style
	ToggleOff      lipgloss.Style
	Button         lipgloss.Style
	ButtonDisabled lipgloss.Style
	Modal          lipgloss.Style
	Help           lipgloss.Style
}

// GetStyles builds the styles for the active theme. With colors disabled
// every style keeps its layout but loses its colors.
func GetStyles() *Styles {
	t := Current()
	if IsColorDisabled() {
		return plainStyles(t)
	}

	return &Styles{
		Theme: t,

		Title: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),

		Header: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),

		Body: lipgloss.NewStyle().
			Foreground(t.Foreground),

		Muted: lipgloss.NewStyle().
			Foreground(t.Muted),

		Success: lipgloss.NewStyle().
			Foreground(t.Success).
			Bold(true),

		Warning: lipgloss.NewStyle().
			Foreground(t.Warning).
			Bold(true),

		Error: lipgloss.NewStyle().
			Foreground(t.Error).
			Bold(true),

		Info: lipgloss.NewStyle().
			Foreground(t.Info),

		ExceptionType: lipgloss.NewStyle().
			Foreground(t.Error).
			Bold(true),

		ExceptionValue: lipgloss.NewStyle().
			Foreground(t.Foreground),

		FrameName: lipgloss.NewStyle().
			Foreground(t.InApp).
			Bold(true),

		FrameSource: lipgloss.NewStyle().
			Foreground(t.Info),

		VendorFrame: lipgloss.NewStyle().
			Foreground(t.Vendor),

		ContextLine: lipgloss.NewStyle().
			Background(t.Highlight).
			Foreground(t.Foreground),

		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 1),

		Panel: lipgloss.NewStyle().
			PaddingLeft(1),

		ToggleOn: lipgloss.NewStyle().
			Foreground(t.Accent).
			Bold(true),

		ToggleOff: lipgloss.NewStyle().
			Foreground(t.Muted),

		Button: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),

		ButtonDisabled: lipgloss.NewStyle().
			Foreground(t.Muted).
			Strikethrough(true),

		Modal: lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(t.Accent).
			Padding(0, 1),

		Help: lipgloss.NewStyle().
			Foreground(t.Secondary),
	}
}

func plainStyles(t Theme) *Styles {
	plain := lipgloss.NewStyle()
	return &Styles{
		Theme:          t,
		Title:          plain,
		Header:         plain,
		Body:           plain,
		Muted:          plain,
		Success:        plain,
		Warning:        plain,
		Error:          plain,
		Info:           plain,
		ExceptionType:  plain,
		ExceptionValue: plain,
		FrameName:      plain,
		FrameSource:    plain,
		VendorFrame:    plain,
		ContextLine:    plain,
		Card:           plain.Border(lipgloss.RoundedBorder()).Padding(0, 1),
		Panel:          plain.PaddingLeft(1),
		ToggleOn:       plain,
		ToggleOff:      plain,
		Button:         plain,
		ButtonDisabled: plain,
		Modal:          plain.Border(lipgloss.DoubleBorder()).Padding(0, 1),
		Help:           plain,
	}
}
