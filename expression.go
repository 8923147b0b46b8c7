package modfilter

import (
	"fmt"
	"strings"

	"github.com/dlclark/regexp2"
)

// illegalCharacter finds anything other than a word character or '*' once the
// structural characters of an expression have been removed.
var illegalCharacter = func() *regexp2.Regexp {
	re := regexp2.MustCompile(`[^A-Za-z0-9_*]`, regexp2.None)
	re.MatchTimeout = MatchTimeout
	return re
}()

var structuralCharacters = strings.NewReplacer(".", "", "?", "", "[", "", "]", "")

// FilterExpression is a validated "[modulePattern]typePattern" expression.
type FilterExpression struct {
	Raw           string
	ModulePattern string
	TypePattern   string
}

// ExpressionError describes why a filter expression was rejected.
type ExpressionError struct {
	Filter string
	Reason string
}

func (e *ExpressionError) Error() string {
	return fmt.Sprintf("modfilter: invalid filter expression %q: %s", e.Filter, e.Reason)
}

// ParseFilterExpression validates filter and splits it into its module and
// type patterns. The returned error is an *ExpressionError naming the first
// rule the expression breaks.
//
// A valid expression:
//   - starts with '[' and contains exactly one '[' and one ']'
//   - has at least one character between the brackets
//   - has a type pattern after ']'
//   - otherwise only contains word characters, '.', '?' and '*'
func ParseFilterExpression(filter string) (FilterExpression, error) {
	reject := func(reason string) (FilterExpression, error) {
		return FilterExpression{}, &ExpressionError{Filter: filter, Reason: reason}
	}

	switch {
	case filter == "":
		return reject("expression is empty")
	case !strings.HasPrefix(filter, "["):
		return reject("expression must start with '['")
	case !strings.Contains(filter, "]"):
		return reject("expression has no closing ']'")
	case strings.Count(filter, "[") > 1:
		return reject("expression has more than one '['")
	case strings.Count(filter, "]") > 1:
		return reject("expression has more than one ']'")
	}

	open := strings.IndexByte(filter, '[')
	closing := strings.IndexByte(filter, ']')
	switch {
	case closing < open:
		return reject("']' comes before '['")
	case closing-open == 1:
		return reject("module pattern is empty")
	case strings.HasSuffix(filter, "]"):
		return reject("type pattern after ']' is missing")
	case hasIllegalCharacter(filter):
		return reject("only word characters, '.', '?' and '*' are allowed")
	}

	return FilterExpression{
		Raw:           filter,
		ModulePattern: filter[open+1 : closing],
		TypePattern:   filter[closing+1:],
	}, nil
}

// IsValidFilterExpression reports whether filter is a well-formed
// "[modulePattern]typePattern" expression. It never panics.
func IsValidFilterExpression(filter string) bool {
	_, err := ParseFilterExpression(filter)
	return err == nil
}

// hasIllegalCharacter fails closed: an aborted match counts as illegal.
func hasIllegalCharacter(filter string) bool {
	found, err := illegalCharacter.MatchString(structuralCharacters.Replace(filter))
	return err != nil || found
}

// splitFilter extracts the module and type patterns of filter without
// validating it. ok is false when there is no '[' before the first ']'.
func splitFilter(filter string) (modulePattern, typePattern string, ok bool) {
	closing := strings.IndexByte(filter, ']')
	if closing < 0 {
		return "", "", false
	}
	open := strings.IndexByte(filter[:closing], '[')
	if open < 0 {
		return "", "", false
	}
	return filter[open+1 : closing], filter[closing+1:], true
}
