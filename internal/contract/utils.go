package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
)

// Verdict label constants.
const (
	HeavyValue    = "Heavy AI"    // Heavy AI influence
	ElevatedValue = "Elevated"    // Elevated AI likelihood
	MixedValue    = "Mixed"       // Mixed signals
	UnlikelyValue = "Unlikely AI" // Little evidence of AI authorship
)

// Color variables for console output.
var (
	HeavyColor    = color.New(color.FgRed, color.Bold)     // heavyColor represents standard danger.
	ElevatedColor = color.New(color.FgMagenta, color.Bold) // elevatedColor represents strong, distinct warning.
	MixedColor    = color.New(color.FgYellow)              // mixedColor represents standard caution, not bold.
	UnlikelyColor = color.New(color.FgCyan)                // unlikelyColor represents informational / low-priority signal.
)

// GetPlainLabel returns a plain text verdict label for a slop score. This is
// the core logic used for CSV, JSON, and table printing.
func GetPlainLabel(score int) string {
	switch {
	case score >= 75:
		return HeavyValue
	case score >= 55:
		return ElevatedValue
	case score >= 30:
		return MixedValue
	default:
		return UnlikelyValue
	}
}

// GetColorLabel returns a colored verdict label for console output (table).
// It uses GetPlainLabel to determine the string, and then applies the appropriate color.
func GetColorLabel(score int) string {
	text := GetPlainLabel(score)

	switch text {
	case HeavyValue:
		return HeavyColor.Sprint(text)
	case ElevatedValue:
		return ElevatedColor.Sprint(text)
	case MixedValue:
		return MixedColor.Sprint(text)
	default: // "Unlikely AI"
		return UnlikelyColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on
// the provided file path. It falls back to os.Stdout for an empty path.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetCacheDBFilePath returns the path to the SQLite DB file for cache storage.
func GetCacheDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".slopscan_cache.db"
	}
	return filepath.Join(homeDir, ".slopscan_cache.db")
}

// TruncatePath truncates a file path to a maximum width with ellipsis prefix.
// Requires maxWidth > 3 to ensure there's space for both the "..." prefix and
// at least one character of content.
func TruncatePath(path string, maxWidth int) string {
	runes := []rune(path)
	if len(runes) > maxWidth && maxWidth > 3 {
		return "..." + string(runes[len(runes)-maxWidth+3:])
	}
	return path
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
