package modfilter

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/dlclark/regexp2"
	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// escapeSymbol delimits every stripped module name in the scan buffer so a
// filter body can only match a whole name.
const escapeSymbol = "!"

// minParallelKeys is the smallest number of distinct module names for which
// SelectParallel spreads the scan across workers.
const minParallelKeys = 1024

// Selector applies include and exclude filters to module names. The zero
// value is not usable; create one with NewSelector.
type Selector struct {
	engine
	workers int
}

// Option configures a Selector.
type Option func(*Selector)

// WithLogger sets the logger used for skipped filters and aborted matches.
func WithLogger(log *zap.Logger) Option {
	return func(s *Selector) {
		if log != nil {
			s.log = log
		}
	}
}

// WithMatchTimeout overrides MatchTimeout for every regex the Selector
// compiles. Non-positive values are ignored.
func WithMatchTimeout(d time.Duration) Option {
	return func(s *Selector) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithWorkers caps the number of goroutines SelectParallel uses. It defaults
// to runtime.NumCPU().
func WithWorkers(n int) Option {
	return func(s *Selector) {
		if n > 0 {
			s.workers = n
		}
	}
}

// NewSelector returns a Selector with the given options applied.
func NewSelector(opts ...Option) *Selector {
	s := &Selector{
		engine: engine{
			timeout: MatchTimeout,
			log:     zap.NewNop(),
		},
		workers: runtime.NumCPU(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var defaultSelector = NewSelector()

// SelectModules returns the modules that pass includeFilters and are not
// removed by excludeFilters, using a single regex scan per filter group.
//
// Original module strings are returned, duplicates included. Modules are
// ordered by the first appearance of their stripped name and, within one
// stripped name, by input order.
//
// Only valid include filters whose module pattern ends with '*' take part;
// when there are none every module is a candidate. Valid exclude filters with
// the type pattern "*" take part, as in IsModuleExcluded.
func SelectModules(modules, includeFilters, excludeFilters []string) []string {
	return defaultSelector.Select(modules, includeFilters, excludeFilters)
}

// Select is the Selector form of SelectModules.
func (s *Selector) Select(modules, includeFilters, excludeFilters []string) []string {
	idx := indexModules(modules)
	if len(idx.keys) == 0 {
		return nil
	}

	include, exclude := s.compileGroups(includeFilters, excludeFilters)
	kept, err := s.selectKeys(idx.keys, include, exclude)
	if err != nil {
		s.log.Warn("batch scan aborted, keeping partial matches", zap.Error(err))
	}

	s.log.Debug("selected modules",
		zap.Int("modules", len(modules)),
		zap.Int("names", len(idx.keys)),
		zap.Int("kept_names", len(kept)))

	return idx.expand(kept)
}

// SelectParallel returns the same result as Select. The distinct module names
// are split into chunks that are scanned on separate goroutines and merged in
// order. Inputs with fewer than a thousand or so distinct names are handled
// by Select directly.
func (s *Selector) SelectParallel(modules, includeFilters, excludeFilters []string) []string {
	idx := indexModules(modules)
	if len(idx.keys) == 0 {
		return nil
	}

	numWorkers := min(s.workers, len(idx.keys))
	if numWorkers <= 1 || len(idx.keys) < minParallelKeys {
		return s.Select(modules, includeFilters, excludeFilters)
	}

	include, exclude := s.compileGroups(includeFilters, excludeFilters)

	chunkSize := (len(idx.keys) + numWorkers - 1) / numWorkers
	var chunks [][]string
	for i := 0; i < len(idx.keys); i += chunkSize {
		end := min(i+chunkSize, len(idx.keys))
		chunks = append(chunks, idx.keys[i:end])
	}

	results := make([][]string, len(chunks))
	var g errgroup.Group
	for i, chunk := range chunks {
		g.Go(func() error {
			var err error
			results[i], err = s.selectKeys(chunk, include, exclude)
			return err
		})
	}
	// Every chunk runs to completion; a failed chunk still holds its
	// partial matches.
	if err := g.Wait(); err != nil {
		s.log.Warn("batch scan aborted, keeping partial matches", zap.Error(err))
	}

	var kept []string
	for _, r := range results {
		kept = append(kept, r...)
	}

	s.log.Debug("selected modules in parallel",
		zap.Int("modules", len(modules)),
		zap.Int("names", len(idx.keys)),
		zap.Int("chunks", len(chunks)),
		zap.Int("kept_names", len(kept)))

	return idx.expand(kept)
}

// moduleIndex groups original module strings under their delimited stripped
// name. It is a derived lookup and owns nothing.
type moduleIndex struct {
	keys   []string
	lookup map[string][]string
}

func indexModules(modules []string) moduleIndex {
	idx := moduleIndex{lookup: make(map[string][]string)}
	for _, module := range modules {
		// A module that strips to "" is keyed as "!!" and filtered like any
		// other name.
		key := escapeSymbol + StripModuleName(module) + escapeSymbol
		if _, seen := idx.lookup[key]; !seen {
			idx.keys = append(idx.keys, key)
		}
		idx.lookup[key] = append(idx.lookup[key], module)
	}
	return idx
}

func (idx moduleIndex) expand(keys []string) []string {
	var modules []string
	for _, key := range keys {
		modules = append(modules, idx.lookup[key]...)
	}
	return modules
}

// filterGroup is one filter array compiled into a single alternation. An
// inactive group leaves the scan buffer alone. An active group whose regex
// failed to compile matches nothing.
type filterGroup struct {
	re     *regexp2.Regexp
	active bool
}

func (s *Selector) compileGroups(includeFilters, excludeFilters []string) (include, exclude filterGroup) {
	include = s.compileGroup("include", includeFilters, func(expr FilterExpression) bool {
		return strings.HasSuffix(expr.ModulePattern, "*")
	})
	exclude = s.compileGroup("exclude", excludeFilters, func(expr FilterExpression) bool {
		return expr.TypePattern == "*"
	})
	return include, exclude
}

func (s *Selector) compileGroup(kind string, filters []string, eligible func(FilterExpression) bool) filterGroup {
	var alternatives []string
	for _, filter := range filters {
		expr, err := ParseFilterExpression(filter)
		if err != nil {
			s.log.Debug("skipping invalid filter", zap.String("kind", kind), zap.Error(err))
			continue
		}
		if !eligible(expr) {
			s.log.Debug("skipping filter not usable for batch selection",
				zap.String("kind", kind), zap.String("filter", filter))
			continue
		}
		alternatives = append(alternatives, escapeSymbol+wildcardBody(expr.ModulePattern)+escapeSymbol)
	}
	if len(alternatives) == 0 {
		return filterGroup{}
	}

	re, err := s.compile(strings.Join(alternatives, "|"), scanOptions)
	if err != nil {
		s.log.Warn("failed to compile filter group, it will match nothing",
			zap.String("kind", kind), zap.Error(err))
	}
	return filterGroup{re: re, active: true}
}

func (s *Selector) matchGroup(g filterGroup, keys []string) ([]string, error) {
	if g.re == nil || len(keys) == 0 {
		return nil, nil
	}
	return s.scan(g.re, strings.Join(keys, "\n"))
}

// selectKeys narrows keys to the include matches and then drops the exclude
// matches. keys is never modified. A scan error is returned alongside the
// keys selected from the partial matches.
func (s *Selector) selectKeys(keys []string, include, exclude filterGroup) ([]string, error) {
	var errs *multierror.Error
	if include.active {
		var err error
		keys, err = s.matchGroup(include, keys)
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("include scan: %w", err))
		}
	}
	if !exclude.active {
		return keys, errs.ErrorOrNil()
	}

	matched, err := s.matchGroup(exclude, keys)
	if err != nil {
		errs = multierror.Append(errs, fmt.Errorf("exclude scan: %w", err))
	}
	excluded := make(map[string]struct{}, len(matched))
	for _, key := range matched {
		excluded[key] = struct{}{}
	}

	kept := make([]string, 0, len(keys))
	for _, key := range keys {
		if _, ok := excluded[key]; !ok {
			kept = append(kept, key)
		}
	}
	return kept, errs.ErrorOrNil()
}
