package middleware

import (
	"fmt"
	"net/url"
	"path/filepath"
	"regexp"
	"strings"
)

// Input validation and sanitization utilities

// ValidateCheck checks if the validation check name is in the allowed list
func ValidateCheck(check string) error {
	allowed := map[string]bool{
		"deviation": true,
		"stress":    true,
		"realtime":  true,
	}

	if !allowed[strings.ToLower(check)] {
		return fmt.Errorf("invalid check: %s (allowed: deviation, stress, realtime)", check)
	}
	return nil
}

// ValidateURL validates and sanitizes bridge URLs
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return fmt.Errorf("URL cannot be empty")
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL format: %w", err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid URL scheme: %s (allowed: http, https)", u.Scheme)
	}

	return nil
}

// ValidateModelFile validates 3D model/scan file names
func ValidateModelFile(path string) error {
	if path == "" {
		return nil // Optional field
	}

	allowed := map[string]bool{
		".ply":  true,
		".obj":  true,
		".stl":  true,
		".e57":  true,
		".glb":  true,
		".gltf": true,
	}
	ext := strings.ToLower(filepath.Ext(path))
	if !allowed[ext] {
		return fmt.Errorf("unsupported model format: %s (allowed: ply, obj, stl, e57, glb, gltf)", ext)
	}

	return ValidatePath(path)
}

// ValidatePath validates file paths (for security)
func ValidatePath(path string) error {
	if path == "" {
		return nil // Optional field
	}

	cleaned := filepath.Clean(path)

	// Block path traversal attempts
	if strings.Contains(cleaned, "..") {
		return fmt.Errorf("path traversal detected")
	}

	// Block absolute paths to sensitive directories
	blocked := []string{"/etc", "/proc", "/sys", "/dev", "/root", "/var", "/boot"}
	for _, b := range blocked {
		if strings.HasPrefix(cleaned, b) {
			return fmt.Errorf("access to %s is not allowed", b)
		}
	}

	// Block dangerous patterns
	dangerous := []string{"$(", "`", "&", "|", ";", "\n", "\r", "&&", "||"}
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

// ValidateTenantID validates tenant ID format
func ValidateTenantID(tenant string) error {
	if tenant == "" {
		return fmt.Errorf("tenant ID cannot be empty")
	}

	// Allow alphanumeric, dash, underscore (max 64 chars)
	pattern := `^[a-zA-Z0-9_-]{1,64}$`
	matched, _ := regexp.MatchString(pattern, tenant)
	if !matched {
		return fmt.Errorf("invalid tenant ID format (alphanumeric, dash, underscore only, max 64 chars)")
	}

	return nil
}

// ValidateValidationID validates run ID format
func ValidateValidationID(id string) error {
	if id == "" {
		return fmt.Errorf("validation ID cannot be empty")
	}

	// UUID pattern with check suffix: uuid-check
	pattern := `^[a-f0-9]{8}-[a-f0-9]{4}-[a-f0-9]{4}-[a-f0-9]{4}-[a-f0-9]{12}-.+$`
	matched, _ := regexp.MatchString(pattern, id)
	if !matched {
		return fmt.Errorf("invalid validation ID format")
	}

	return nil
}

// ValidateLimit validates pagination limit
func ValidateLimit(limit int) int {
	if limit <= 0 {
		return 20 // default
	}
	if limit > 100 {
		return 100 // max limit
	}
	return limit
}

// ValidateDays validates days parameter
func ValidateDays(days int) int {
	if days <= 0 {
		return 7 // default
	}
	if days > 365 {
		return 365 // max 1 year
	}
	return days
}
