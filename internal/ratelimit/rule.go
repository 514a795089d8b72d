package ratelimit

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Rule is a request ceiling over a sliding window.
type Rule struct {
	Limit  int
	Window time.Duration
}

func (r Rule) String() string {
	return fmt.Sprintf("%d/%s", r.Limit, r.Window)
}

var windowUnits = map[string]time.Duration{
	"second": time.Second,
	"minute": time.Minute,
	"hour":   time.Hour,
	"day":    24 * time.Hour,
}

// ParseRule parses expressions like "5 per minute", "200 per day" or "50/hour".
// A count before the unit ("10 per 5 minutes") widens the window.
func ParseRule(s string) (Rule, error) {
	expr := strings.ToLower(strings.TrimSpace(s))
	limitPart, windowPart, ok := strings.Cut(expr, "/")
	if !ok {
		limitPart, windowPart, ok = strings.Cut(expr, " per ")
	}
	if !ok {
		return Rule{}, fmt.Errorf("%w: %q", ErrInvalidRule, s)
	}

	limit, err := strconv.Atoi(strings.TrimSpace(limitPart))
	if err != nil || limit <= 0 {
		return Rule{}, fmt.Errorf("%w: bad limit in %q", ErrInvalidRule, s)
	}

	fields := strings.Fields(windowPart)
	multiplier := 1
	switch len(fields) {
	case 1:
	case 2:
		multiplier, err = strconv.Atoi(fields[0])
		if err != nil || multiplier <= 0 {
			return Rule{}, fmt.Errorf("%w: bad window in %q", ErrInvalidRule, s)
		}
		fields = fields[1:]
	default:
		return Rule{}, fmt.Errorf("%w: bad window in %q", ErrInvalidRule, s)
	}

	unit, ok := windowUnits[strings.TrimSuffix(fields[0], "s")]
	if !ok {
		return Rule{}, fmt.Errorf("%w: unknown unit in %q", ErrInvalidRule, s)
	}

	return Rule{Limit: limit, Window: time.Duration(multiplier) * unit}, nil
}

// ParseRules parses a list of rules separated by ";" or ",".
func ParseRules(s string) ([]Rule, error) {
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == ';' || r == ',' })
	rules := make([]Rule, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) == "" {
			continue
		}
		rule, err := ParseRule(p)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

// MustParseRules is ParseRules for static configuration; it panics on error.
func MustParseRules(s string) []Rule {
	rules, err := ParseRules(s)
	if err != nil {
		panic(err)
	}
	return rules
}
