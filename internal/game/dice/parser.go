package dice

import (
	"fmt"
	"strconv"
	"strings"
)

// Expression represents a parsed dice expression ready to be rolled.
//
// Invariant: len(Groups) >= 1; every group has 1 <= Count <= MaxDiceCount and
// 2 <= Sides <= MaxDiceSides, with at most MaxDiceCount dice in total.
// KeepHighest > 0 only when there is exactly one group.
type Expression struct {
	Raw         string // original input string
	Groups      []Dice // dice groups in input order
	Modifier    int    // flat modifier; sum of all constant terms (may be negative)
	KeepHighest int    // if > 0, keep only the N highest dice (e.g. 4d6kh3)
}

// Parse parses a dice expression string into an Expression.
// Supported forms: "d20", "2d6", "2d6+3", "4d8-2", "1d8+2d6+1", "4d6kh3".
//
// Precondition: expr must be a non-empty string.
// Postcondition: Returns an Expression satisfying its invariant or a descriptive error.
func Parse(expr string) (Expression, error) {
	if strings.TrimSpace(expr) == "" {
		return Expression{}, fmt.Errorf("dice: empty expression")
	}

	raw := expr
	s := strings.ToLower(strings.ReplaceAll(expr, " ", ""))

	out := Expression{Raw: raw}
	total := 0
	for _, term := range splitTerms(s) {
		sign := 1
		body := term
		switch body[0] {
		case '+':
			body = body[1:]
		case '-':
			sign = -1
			body = body[1:]
		}
		if body == "" {
			return Expression{}, fmt.Errorf("dice: dangling sign in %q", raw)
		}

		if !strings.Contains(body, "d") {
			n, err := strconv.Atoi(body)
			if err != nil {
				return Expression{}, fmt.Errorf("dice: invalid modifier in %q: %w", raw, err)
			}
			out.Modifier += sign * n
			continue
		}

		if sign < 0 {
			return Expression{}, fmt.Errorf("dice: subtracting dice is not supported in %q", raw)
		}
		group, kh, err := parseGroup(body, raw)
		if err != nil {
			return Expression{}, err
		}
		if kh > 0 {
			out.KeepHighest = kh
		}
		out.Groups = append(out.Groups, group)
		total += group.Count
		if total > MaxDiceCount {
			return Expression{}, fmt.Errorf("dice: more than %d dice in %q", MaxDiceCount, raw)
		}
	}

	if len(out.Groups) == 0 {
		return Expression{}, fmt.Errorf("dice: missing 'd' in expression %q", raw)
	}
	if out.KeepHighest > 0 && len(out.Groups) > 1 {
		return Expression{}, fmt.Errorf("dice: kh is only supported with a single dice group in %q", raw)
	}
	return out, nil
}

// splitTerms splits s before every '+' or '-' that is not the first byte.
func splitTerms(s string) []string {
	var terms []string
	start := 0
	for i := 1; i < len(s); i++ {
		if s[i] == '+' || s[i] == '-' {
			terms = append(terms, s[start:i])
			start = i
		}
	}
	return append(terms, s[start:])
}

// parseGroup parses "NdS" or "NdSkhK" (without sign).
func parseGroup(body, raw string) (Dice, int, error) {
	dIdx := strings.IndexByte(body, 'd')

	// Count defaults to 1 when omitted.
	count := 1
	if countStr := body[:dIdx]; countStr != "" {
		var err error
		count, err = strconv.Atoi(countStr)
		if err != nil {
			return Dice{}, 0, fmt.Errorf("dice: invalid die count in %q: %w", raw, err)
		}
		if count <= 0 || count > MaxDiceCount {
			return Dice{}, 0, fmt.Errorf("dice: invalid die count in %q: must be 1-%d", raw, MaxDiceCount)
		}
	}

	rest := body[dIdx+1:]
	keepHighest := 0
	if khIdx := strings.Index(rest, "kh"); khIdx >= 0 {
		kh, err := strconv.Atoi(rest[khIdx+2:])
		if err != nil {
			return Dice{}, 0, fmt.Errorf("dice: invalid kh value in %q: %w", raw, err)
		}
		if kh <= 0 || kh >= count {
			return Dice{}, 0, fmt.Errorf("dice: kh value %d must be > 0 and < count %d in %q", kh, count, raw)
		}
		keepHighest = kh
		rest = rest[:khIdx]
	}

	sides, err := strconv.Atoi(rest)
	if err != nil {
		return Dice{}, 0, fmt.Errorf("dice: invalid die sides in %q: %w", raw, err)
	}
	if sides < 2 || sides > MaxDiceSides {
		return Dice{}, 0, fmt.Errorf("dice: invalid die sides in %q: must be 2-%d", raw, MaxDiceSides)
	}
	return Dice{Count: count, Sides: sides}, keepHighest, nil
}
