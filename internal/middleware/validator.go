package middleware

import (
	"fmt"
	"net/url"
	"path/filepath"
	"regexp"
	"strings"
)

// Input validation and sanitization utilities

// ValidateContentURL validates video/image URLs handed to the AI backend
func ValidateContentURL(rawURL string) error {
	if rawURL == "" {
		return fmt.Errorf("URL cannot be empty")
	}

	// Parse URL
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL format: %w", err)
	}

	// Check scheme
	if u.Scheme != "http" && u.Scheme != "https" && u.Scheme != "gs" {
		return fmt.Errorf("invalid URL scheme: %s (allowed: http, https, gs)", u.Scheme)
	}

	return nil
}

// ValidateFrameRate validates the video sampling rate
func ValidateFrameRate(rate float64) error {
	if rate < 0.1 || rate > 10 {
		return fmt.Errorf("invalid frame rate: %.2f (allowed: 0.1 to 10)", rate)
	}
	return nil
}

// ValidateSpeed validates the analysis speed selector
func ValidateSpeed(speed string) error {
	switch strings.ToLower(speed) {
	case "", "fast", "powerful":
		return nil
	}
	return fmt.Errorf("invalid speed: %s (allowed: fast, powerful)", speed)
}

var issueIDPattern = regexp.MustCompile(`^.+_\d+$`)

// ValidateIssueID validates issue ID format: uploadID_index
func ValidateIssueID(issueID string) error {
	if issueID == "" {
		return fmt.Errorf("issue ID cannot be empty")
	}

	if !issueIDPattern.MatchString(issueID) {
		return fmt.Errorf("invalid issue ID format")
	}

	return nil
}

// ValidateUploadContentType checks uploaded files are images
func ValidateUploadContentType(contentType string) error {
	if !strings.HasPrefix(contentType, "image/") {
		return fmt.Errorf("unsupported content type: %s (only images are accepted)", contentType)
	}
	return nil
}

// ValidateObjectPath validates storage object paths (for security)
func ValidateObjectPath(path string) error {
	if path == "" {
		return fmt.Errorf("path cannot be empty")
	}

	// Clean the path
	cleaned := filepath.Clean(path)

	// Block path traversal attempts
	if strings.Contains(cleaned, "..") {
		return fmt.Errorf("path traversal detected")
	}

	// Block dangerous patterns
	dangerous := []string{"$(", "`", "&", "|", ";", "\n", "\r"}
	for _, d := range dangerous {
		if strings.Contains(path, d) {
			return fmt.Errorf("invalid characters in path")
		}
	}

	return nil
}

// SanitizeString removes dangerous characters from strings
func SanitizeString(input string) string {
	// Remove null bytes
	input = strings.ReplaceAll(input, "\x00", "")

	// Remove control characters
	var result strings.Builder
	for _, r := range input {
		if r >= 32 || r == '\t' || r == '\n' {
			result.WriteRune(r)
		}
	}

	return strings.TrimSpace(result.String())
}
