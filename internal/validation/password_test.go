package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScorePassword(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		password  string
		wantScore int
		wantLabel string
	}{
		{"empty", "", 0, "very weak"},
		{"short lowercase", "abc", 0, "very weak"},
		{"eight lowercase", "password", 1, "weak"},
		{"long lowercase", "longpassword", 2, "fair"},
		{"ten mixed", "Password1!", 3, "good"},
		{"long mixed", "CorrectHorse9!", 4, "strong"},
		{"repeated run", "aaaaaaaaaaaa", 1, "weak"},
		{"repeated run in strong password", "Corrrrect9!xyz", 3, "good"},
		{"three classes", "placement2026X", 3, "good"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := ScorePassword(tt.password)
			assert.Equal(t, tt.wantScore, got.Score)
			assert.Equal(t, tt.wantLabel, got.Label)
		})
	}
}

func TestScorePassword_Hints(t *testing.T) {
	t.Parallel()

	got := ScorePassword("abc")
	assert.Equal(t, []string{
		"use at least 12 characters",
		"add an uppercase letter",
		"add a digit",
		"add a special character",
	}, got.Hints)

	got = ScorePassword("CorrectHorse9!")
	assert.NotNil(t, got.Hints)
	assert.Empty(t, got.Hints)

	got = ScorePassword("Corrrrect9!xyz")
	assert.Equal(t, []string{"avoid repeating the same character"}, got.Hints)
}

func TestScorePassword_CountsRunesNotBytes(t *testing.T) {
	t.Parallel()

	// 11 runes, more than 12 bytes.
	got := ScorePassword("Ünïcödé9!ab")
	assert.Contains(t, got.Hints, "use at least 12 characters")
}

func TestValidatePassword(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		pw      string
		wantErr string
	}{
		{"too short", "Short1!", "at least 12"},
		{"too long", strings.Repeat("Aa1!", 33), "must not exceed 128"},
		{"no upper", "lowercase123!", "uppercase"},
		{"no lower", "UPPERCASE123!", "lowercase"},
		{"no digit", "NoDigitsHere!!", "digit"},
		{"no special", "NoSpecials1234", "special character"},
		{"valid", "ValidPassword123!", ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := ValidatePassword(tt.pw)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			if assert.Error(t, err) {
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestValidateUsername(t *testing.T) {
	t.Parallel()

	tests := []struct {
		username string
		valid    bool
	}{
		{"ab", false},
		{strings.Repeat("a", 31), false},
		{"has space", false},
		{"_leading", false},
		{"trailing-", false},
		{"jane_doe", true},
		{"acme-hr", true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.username, func(t *testing.T) {
			t.Parallel()
			err := ValidateUsername(tt.username)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
