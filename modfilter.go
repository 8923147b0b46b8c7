// Package modfilter decides which modules survive a set of include and exclude
// filter expressions.
//
// A filter expression has the form "[modulePattern]typePattern". Both patterns
// are wildcards over word characters and '.', where '*' matches any run of
// characters and '?' matches exactly one. Module names are compared without
// their directory and extension, and case is ignored.
//
// # Quick Start
//
//	include := []string{"[Coverlet.*]*"}
//	exclude := []string{"[*.Tests]*"}
//
//	kept := modfilter.SelectModules([]string{
//	    "bin/Coverlet.Core.dll",
//	    "bin/Coverlet.Core.Tests.dll",
//	    "bin/Newtonsoft.Json.dll",
//	}, include, exclude)
//	// kept == []string{"bin/Coverlet.Core.dll"}
//
//	modfilter.IsModuleIncluded("Coverlet.Core.dll", include) // true
//	modfilter.IsModuleExcluded("Coverlet.Core.Tests.dll", exclude) // true
//
// # Single module versus batch
//
// IsModuleIncluded and IsModuleExcluded compile one regex per filter and test
// one module. SelectModules joins every module into a single newline-delimited
// buffer and runs one alternation regex per filter group over it, so the cost
// no longer grows with modules times filters.
//
// The batch path only uses include filters whose module pattern ends with '*'.
// Other include filters are ignored there, while IsModuleIncluded honours them.
// Callers that need identical results should stick to trailing-wildcard
// include filters.
//
// # Matching time
//
// Every regex evaluation is bounded by MatchTimeout. A match that runs out of
// time counts as a non-match; nothing is returned to the caller as an error.
//
// # Concurrency
//
// All package functions are safe for concurrent use. A Selector is immutable
// after NewSelector and may be shared between goroutines.
package modfilter
