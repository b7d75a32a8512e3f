package detector_test

import (
	"testing"

	"go.trai.ch/patchwork/internal/adapters/detector"
)

func TestDetectEnvironment_CIForcesJSON(t *testing.T) {
	tests := []struct {
		name    string
		ciValue string
	}{
		{name: "CI=true forces json mode", ciValue: "true"},
		{name: "CI=1 forces json mode", ciValue: "1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("CI", tt.ciValue)

			mode := detector.DetectEnvironment()
			if mode != detector.ModeJSON {
				t.Errorf("Expected ModeJSON with CI=%s, got %v", tt.ciValue, mode)
			}
		})
	}
}

func TestResolveMode(t *testing.T) {
	tests := []struct {
		name         string
		autoDetected detector.OutputMode
		userFlag     string
		expected     detector.OutputMode
	}{
		{
			name:         "auto respects auto-detection (pretty)",
			autoDetected: detector.ModePretty,
			userFlag:     "auto",
			expected:     detector.ModePretty,
		},
		{
			name:         "auto respects auto-detection (json)",
			autoDetected: detector.ModeJSON,
			userFlag:     "auto",
			expected:     detector.ModeJSON,
		},
		{
			name:         "empty flag respects auto-detection",
			autoDetected: detector.ModePretty,
			userFlag:     "",
			expected:     detector.ModePretty,
		},
		{
			name:         "pretty overrides auto-detection",
			autoDetected: detector.ModeJSON,
			userFlag:     "pretty",
			expected:     detector.ModePretty,
		},
		{
			name:         "json overrides auto-detection",
			autoDetected: detector.ModePretty,
			userFlag:     "json",
			expected:     detector.ModeJSON,
		},
		{
			name:         "invalid flag respects auto-detection",
			autoDetected: detector.ModePretty,
			userFlag:     "invalid",
			expected:     detector.ModePretty,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := detector.ResolveMode(tt.autoDetected, tt.userFlag)
			if got != tt.expected {
				t.Errorf("ResolveMode(%v, %q) = %v, want %v",
					tt.autoDetected, tt.userFlag, got, tt.expected)
			}
		})
	}
}
