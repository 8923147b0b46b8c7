package modfilter

import (
	"fmt"
	"strings"
	"time"

	"github.com/dlclark/regexp2"
	"go.uber.org/zap"
)

// MatchTimeout bounds a single regex evaluation. Matches that run longer are
// treated as non-matches.
const MatchTimeout = 10 * time.Second

const (
	// Single-module patterns are anchored with \A and \z and compiled without
	// Multiline, so a name containing a newline must match as a whole.
	wildcardOptions = regexp2.IgnoreCase
	scanOptions     = regexp2.IgnoreCase | regexp2.Multiline
)

// engine compiles wildcard patterns into time-bounded regexes and runs them.
// It holds no per-call state; every regex it compiles belongs to the caller.
type engine struct {
	timeout time.Duration
	log     *zap.Logger
}

func (e engine) compile(expr string, opts regexp2.RegexOptions) (*regexp2.Regexp, error) {
	re, err := regexp2.Compile(expr, opts)
	if err != nil {
		return nil, fmt.Errorf("modfilter: failed to compile %q: %w", expr, err)
	}
	re.MatchTimeout = e.timeout
	return re, nil
}

// compileWildcard returns a regex that matches the whole input against a
// wildcard pattern.
func (e engine) compileWildcard(pattern string) (*regexp2.Regexp, error) {
	return e.compile(`\A`+wildcardBody(pattern)+`\z`, wildcardOptions)
}

// wildcardBody escapes every regex metacharacter in pattern and then turns the
// escaped '*' and '?' back into wildcards. The result is unanchored.
func wildcardBody(pattern string) string {
	escaped := regexp2.Escape(pattern)
	escaped = strings.ReplaceAll(escaped, `\*`, ".*")
	return strings.ReplaceAll(escaped, `\?`, ".")
}

// matchWildcard reports whether name matches pattern. Compile failures and
// timeouts are non-matches.
func (e engine) matchWildcard(pattern, name string) bool {
	re, err := e.compileWildcard(pattern)
	if err != nil {
		e.log.Warn("skipping uncompilable module pattern",
			zap.String("pattern", pattern), zap.Error(err))
		return false
	}
	return e.match(re, name)
}

func (e engine) match(re *regexp2.Regexp, input string) bool {
	ok, err := re.MatchString(input)
	if err != nil {
		e.log.Warn("regex evaluation aborted, treating as no match",
			zap.String("pattern", re.String()), zap.Error(err))
		return false
	}
	return ok
}

// scan returns every match of re in input in encounter order. If evaluation
// is aborted the matches found so far are returned along with the error.
func (e engine) scan(re *regexp2.Regexp, input string) ([]string, error) {
	var found []string
	m, err := re.FindStringMatch(input)
	for m != nil && err == nil {
		found = append(found, m.String())
		m, err = re.FindNextMatch(m)
	}
	return found, err
}
