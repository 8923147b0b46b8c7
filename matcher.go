package modfilter

import "strings"

// StripModuleName returns module without its directory and final extension:
// "bin/Debug/Coverlet.Core.dll" becomes "Coverlet.Core". Both '/' and '\' are
// treated as separators.
func StripModuleName(module string) string {
	if i := strings.LastIndexAny(module, `/\`); i >= 0 {
		module = module[i+1:]
	}
	if i := strings.LastIndexByte(module, '.'); i >= 0 {
		module = module[:i]
	}
	return module
}

// IsModuleExcluded reports whether module matches any exclude filter whose
// type pattern is "*". Filters scoped to a type pattern never exclude a whole
// module and are skipped, as are filters without a bracketed module pattern.
// An empty filter list excludes nothing. A module that strips to the empty
// string is matched like any other name, so "[*]*" excludes ".dll".
func IsModuleExcluded(module string, excludeFilters []string) bool {
	return defaultSelector.IsModuleExcluded(module, excludeFilters)
}

// IsModuleIncluded reports whether module matches any include filter. An
// empty filter list includes everything. Unlike SelectModules, every include
// filter is evaluated regardless of its shape.
func IsModuleIncluded(module string, includeFilters []string) bool {
	return defaultSelector.IsModuleIncluded(module, includeFilters)
}

// IsModuleExcluded is the Selector form of the package-level IsModuleExcluded.
func (s *Selector) IsModuleExcluded(module string, excludeFilters []string) bool {
	if len(excludeFilters) == 0 {
		return false
	}

	name := StripModuleName(module)

	for _, filter := range excludeFilters {
		modulePattern, typePattern, ok := splitFilter(filter)
		if !ok || typePattern != "*" {
			continue
		}
		if s.matchWildcard(modulePattern, name) {
			return true
		}
	}

	return false
}

// IsModuleIncluded is the Selector form of the package-level IsModuleIncluded.
func (s *Selector) IsModuleIncluded(module string, includeFilters []string) bool {
	if len(includeFilters) == 0 {
		return true
	}

	name := StripModuleName(module)

	for _, filter := range includeFilters {
		modulePattern, _, ok := splitFilter(filter)
		if !ok {
			continue
		}
		if modulePattern == "*" {
			return true
		}
		if s.matchWildcard(modulePattern, name) {
			return true
		}
	}

	return false
}
