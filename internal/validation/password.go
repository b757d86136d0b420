// Package validation provides input validation utilities
package validation

import (
	"fmt"
	"regexp"
	"unicode"
	"unicode/utf8"
)

const (
	minPasswordLength    = 12
	maxPasswordLength    = 128
	weakPasswordLength   = 8
	maxRepeatedCharacter = 3
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// Strength is the result of scoring a password for the signup form's meter.
type Strength struct {
	Score int      `json:"score"`
	Label string   `json:"label"`
	Hints []string `json:"hints"`
}

var strengthLabels = [...]string{"very weak", "weak", "fair", "good", "strong"}

type charClasses struct {
	upper, lower, digit, special bool
}

func (c charClasses) count() int {
	n := 0
	for _, ok := range []bool{c.upper, c.lower, c.digit, c.special} {
		if ok {
			n++
		}
	}
	return n
}

func classify(password string) charClasses {
	var c charClasses
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			c.upper = true
		case unicode.IsLower(r):
			c.lower = true
		case unicode.IsDigit(r):
			c.digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			c.special = true
		}
	}
	return c
}

// hasRepeatRun reports whether any character repeats n or more times in a row.
func hasRepeatRun(s string, n int) bool {
	var prev rune
	run := 0
	for _, r := range s {
		if run > 0 && r == prev {
			run++
		} else {
			run = 1
		}
		if run >= n {
			return true
		}
		prev = r
	}
	return false
}

// ScorePassword rates password from 0 (very weak) to 4 (strong) and lists what would improve it.
// Length of 8 and 12 characters each add a point, using three character classes adds a
// point and using all four adds another. A run of three identical characters costs a point.
func ScorePassword(password string) Strength {
	if password == "" {
		return Strength{Score: 0, Label: strengthLabels[0], Hints: []string{"enter a password"}}
	}

	length := utf8.RuneCountInString(password)
	classes := classify(password)
	hints := []string{}

	score := 0
	if length >= weakPasswordLength {
		score++
	}
	if length >= minPasswordLength {
		score++
	} else {
		hints = append(hints, fmt.Sprintf("use at least %d characters", minPasswordLength))
	}

	if n := classes.count(); n >= 3 {
		score++
		if n == 4 {
			score++
		}
	}
	if !classes.upper {
		hints = append(hints, "add an uppercase letter")
	}
	if !classes.lower {
		hints = append(hints, "add a lowercase letter")
	}
	if !classes.digit {
		hints = append(hints, "add a digit")
	}
	if !classes.special {
		hints = append(hints, "add a special character")
	}

	if hasRepeatRun(password, maxRepeatedCharacter) {
		score--
		hints = append(hints, "avoid repeating the same character")
	}

	score = max(0, min(score, len(strengthLabels)-1))
	return Strength{Score: score, Label: strengthLabels[score], Hints: hints}
}

// ValidatePassword checks if a password meets security requirements
func ValidatePassword(password string) error {
	length := utf8.RuneCountInString(password)
	if length < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters long", minPasswordLength)
	}
	if length > maxPasswordLength {
		return fmt.Errorf("password must not exceed %d characters", maxPasswordLength)
	}

	classes := classify(password)
	switch {
	case !classes.upper:
		return fmt.Errorf("password must contain at least one uppercase letter")
	case !classes.lower:
		return fmt.Errorf("password must contain at least one lowercase letter")
	case !classes.digit:
		return fmt.Errorf("password must contain at least one digit")
	case !classes.special:
		return fmt.Errorf("password must contain at least one special character (!@#$%%^&*)")
	}
	return nil
}

// ValidateUsername checks if a username meets requirements
func ValidateUsername(username string) error {
	if len(username) < 3 {
		return fmt.Errorf("username must be at least 3 characters long")
	}
	if len(username) > 30 {
		return fmt.Errorf("username must not exceed 30 characters")
	}
	if !usernamePattern.MatchString(username) {
		return fmt.Errorf("username can only contain letters, numbers, underscores, and hyphens")
	}

	first, last := username[0], username[len(username)-1]
	if first == '_' || first == '-' || last == '_' || last == '-' {
		return fmt.Errorf("username cannot start or end with underscore or hyphen")
	}
	return nil
}
