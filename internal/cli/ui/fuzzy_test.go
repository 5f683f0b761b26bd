package ui

import (
	"reflect"
	"strings"
	"testing"
)

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		s1       string
		s2       string
		expected int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"abc", "abc", 0},
		{"kitten", "sitting", 3},
		{"saturday", "sunday", 3},
		{"total", "toatl", 2},
		{"greet", "greets", 1},
		{"subtotal", "subttoal", 2},
	}

	for _, tt := range tests {
		t.Run(tt.s1+"_"+tt.s2, func(t *testing.T) {
			result := LevenshteinDistance(tt.s1, tt.s2)
			if result != tt.expected {
				t.Errorf("LevenshteinDistance(%q, %q) = %d; want %d", tt.s1, tt.s2, result, tt.expected)
			}
		})
	}
}

func TestFindSimilar(t *testing.T) {
	candidates := []string{"total_count", "user_name", "subtotal", "greeting", "category"}

	tests := []struct {
		name     string
		target   string
		opts     *FuzzyMatchOptions
		expected []string
	}{
		{
			name:     "exact match",
			target:   "total_count",
			opts:     nil,
			expected: []string{"total_count"},
		},
		{
			name:     "one character off",
			target:   "subtota",
			opts:     nil,
			expected: []string{"subtotal"},
		},
		{
			name:     "case insensitive",
			target:   "Greeting",
			opts:     nil,
			expected: []string{"greeting"},
		},
		{
			name:   "case sensitive",
			target: "greeting",
			opts: &FuzzyMatchOptions{
				MaxDistance:    3,
				MaxSuggestions: 3,
				CaseSensitive:  true,
			},
			expected: []string{"greeting"},
		},
		{
			name:     "no match too far",
			target:   "xyzzy",
			opts:     nil,
			expected: []string{},
		},
		{
			name:   "max suggestions limit",
			target: "categor",
			opts: &FuzzyMatchOptions{
				MaxDistance:    3,
				MaxSuggestions: 1,
			},
			expected: []string{"category"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FindSimilar(tt.target, candidates, tt.opts)

			if len(result) != len(tt.expected) {
				t.Errorf("FindSimilar(%q) returned %d results; want %d\nGot: %v\nWant: %v",
					tt.target, len(result), len(tt.expected), result, tt.expected)
				return
			}

			if !reflect.DeepEqual(result, tt.expected) {
				t.Errorf("FindSimilar(%q) = %v; want %v", tt.target, result, tt.expected)
			}
		})
	}
}

// TestFindSimilar_CamelCaseTypo covers the Orangensaft-specific fold: a user
// coming from a camelCase language types getUserProfileById, not
// get_user_profile_by_id. The raw Levenshtein distance between the two is 4
// (one insertion per underscore), past DefaultMaxDistance, so without
// folding case/underscores away before comparing this candidate would never
// surface at all.
func TestFindSimilar_CamelCaseTypo(t *testing.T) {
	candidates := []string{"get_user_profile_by_id", "total_count", "subtotal"}

	rawDistance := LevenshteinDistance(strings.ToLower("getUserProfileById"), "get_user_profile_by_id")
	if rawDistance <= DefaultMaxDistance {
		t.Fatalf("test setup assumes raw distance > %d, got %d", DefaultMaxDistance, rawDistance)
	}

	result := FindSimilar("getUserProfileById", candidates, nil)
	if len(result) == 0 || result[0] != "get_user_profile_by_id" {
		t.Errorf("FindSimilar(%q) = %v; want [get_user_profile_by_id, ...]", "getUserProfileById", result)
	}
}

func TestFindBestMatch(t *testing.T) {
	candidates := []string{"total_count", "user_name", "subtotal", "greeting"}

	tests := []struct {
		target   string
		expected string
	}{
		{"totl_count", "total_count"},
		{"usr_name", "user_name"},
		{"subttoal", "subtotal"},
		{"greting", "greeting"},
		{"xyzzy", ""}, // No close match
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			result := FindBestMatch(tt.target, candidates, nil)
			if result != tt.expected {
				t.Errorf("FindBestMatch(%q) = %q; want %q", tt.target, result, tt.expected)
			}
		})
	}
}

func TestHasCloseMatch(t *testing.T) {
	candidates := []string{"total_count", "user_name", "subtotal"}

	tests := []struct {
		target   string
		expected bool
	}{
		{"totl_count", true},
		{"total_count", true},
		{"usr_name", true},
		{"xyzzy", false},
		{"zzzzzzzz", false},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			result := HasCloseMatch(tt.target, candidates, nil)
			if result != tt.expected {
				t.Errorf("HasCloseMatch(%q) = %v; want %v", tt.target, result, tt.expected)
			}
		})
	}
}

func TestFuzzyMatchOptions(t *testing.T) {
	candidates := []string{"total_count", "user_name", "subtotal"}

	result := FindSimilar("totl_count", candidates, &FuzzyMatchOptions{
		MaxDistance:    3,
		MaxSuggestions: 1,
	})

	if len(result) > 1 {
		t.Errorf("Expected max 1 suggestion, got %d", len(result))
	}

	if len(result) == 0 {
		t.Errorf("Expected at least 1 suggestion")
	}
}

func TestMin3(t *testing.T) {
	tests := []struct {
		a, b, c  int
		expected int
	}{
		{1, 2, 3, 1},
		{3, 2, 1, 1},
		{2, 1, 3, 1},
		{5, 5, 5, 5},
		{0, 1, 2, 0},
	}

	for _, tt := range tests {
		result := min3(tt.a, tt.b, tt.c)
		if result != tt.expected {
			t.Errorf("min3(%d, %d, %d) = %d; want %d", tt.a, tt.b, tt.c, result, tt.expected)
		}
	}
}

func TestFindSimilarEmptyCandidates(t *testing.T) {
	result := FindSimilar("test", []string{}, nil)
	if len(result) != 0 {
		t.Errorf("Expected empty result for empty candidates, got %v", result)
	}
}

func TestFindSimilarEmptyTarget(t *testing.T) {
	candidates := []string{"ab", "xy"}
	result := FindSimilar("", candidates, &FuzzyMatchOptions{
		MaxDistance:    2,
		MaxSuggestions: 3,
	})

	// Empty string should have distance of len(candidate) for each
	// With MaxDistance=2, strings <= 2 chars should match
	if len(result) == 0 {
		t.Errorf("Expected some matches for empty target string with short candidates")
	}
}
