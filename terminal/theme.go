package terminal

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
)

// Theme represents a terminal theme configuration
type Theme struct {
	Name         string `json:"name"`
	PromptColor  string `json:"promptColor"`
	TextColor    string `json:"textColor"`
	ErrorColor   string `json:"errorColor"`
	SuccessColor string `json:"successColor"`
	InfoColor    string `json:"infoColor"`
}

// ThemeManager handles theme operations
type ThemeManager struct {
	currentTheme Theme
	configPath   string
}

// NewThemeManager creates a theme manager backed by ~/.ftpgetrc.json. On
// error it still returns a usable manager with the dark defaults so callers
// can treat the error as a warning.
func NewThemeManager() (*ThemeManager, error) {
	tm := &ThemeManager{currentTheme: themeByName("dark")}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return tm, fmt.Errorf("failed to get home directory: %v", err)
	}
	tm.configPath = filepath.Join(homeDir, ".ftpgetrc.json")

	if err := tm.LoadTheme(); err != nil {
		if os.IsNotExist(err) {
			if err := tm.SaveTheme(); err != nil {
				return tm, fmt.Errorf("failed to save default theme: %v", err)
			}
		} else {
			return tm, fmt.Errorf("failed to load theme: %v", err)
		}
	}

	return tm, nil
}

// LoadTheme loads the theme from the config file
func (tm *ThemeManager) LoadTheme() error {
	data, err := os.ReadFile(tm.configPath)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, &tm.currentTheme)
}

// SaveTheme saves the current theme to the config file
func (tm *ThemeManager) SaveTheme() error {
	data, err := json.MarshalIndent(tm.currentTheme, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(tm.configPath, data, 0644)
}

// SetTheme switches to a named theme and persists the choice
func (tm *ThemeManager) SetTheme(name string) error {
	switch name {
	case "light", "dark":
		tm.currentTheme = themeByName(name)
	default:
		return fmt.Errorf("unknown theme: %s", name)
	}
	return tm.SaveTheme()
}

func themeByName(name string) Theme {
	if name == "light" {
		return Theme{
			Name:         "light",
			PromptColor:  "black",
			TextColor:    "black",
			ErrorColor:   "red",
			SuccessColor: "green",
			InfoColor:    "blue",
		}
	}
	return Theme{
		Name:         "dark",
		PromptColor:  "green",
		TextColor:    "white",
		ErrorColor:   "red",
		SuccessColor: "green",
		InfoColor:    "cyan",
	}
}

// GetPromptColor returns the color used for prompts
func (tm *ThemeManager) GetPromptColor() *color.Color {
	return getColorFromName(tm.currentTheme.PromptColor)
}

// GetTextColor returns the color used for normal text
func (tm *ThemeManager) GetTextColor() *color.Color {
	return getColorFromName(tm.currentTheme.TextColor)
}

// GetErrorColor returns the color used for error messages
func (tm *ThemeManager) GetErrorColor() *color.Color {
	return getColorFromName(tm.currentTheme.ErrorColor)
}

// GetSuccessColor returns the color used for success messages
func (tm *ThemeManager) GetSuccessColor() *color.Color {
	return getColorFromName(tm.currentTheme.SuccessColor)
}

// GetInfoColor returns the color used for info messages
func (tm *ThemeManager) GetInfoColor() *color.Color {
	return getColorFromName(tm.currentTheme.InfoColor)
}

// GetThemeName returns the name of the current theme
func (tm *ThemeManager) GetThemeName() string {
	return tm.currentTheme.Name
}

func getColorFromName(name string) *color.Color {
	switch name {
	case "black":
		return color.New(color.FgBlack)
	case "red":
		return color.New(color.FgRed)
	case "green":
		return color.New(color.FgGreen)
	case "yellow":
		return color.New(color.FgYellow)
	case "blue":
		return color.New(color.FgBlue)
	case "magenta":
		return color.New(color.FgMagenta)
	case "cyan":
		return color.New(color.FgCyan)
	default:
		return color.New(color.FgWhite)
	}
}
