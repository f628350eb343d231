// Package errors provides coded, actionable errors for messenger-web.
//
// Every error carries a stable code (e.g. "E200") that maps to a short
// message, a longer explanation and a documentation anchor. Call sites add
// detail and a suggestion with the builder methods:
//
//	err := errors.New("E200").
//	    WithDetail(`path "/register" is declared twice`).
//	    WithSuggestion("Remove or rename one of the routes")
//
//	fmt.Println(err.Format())
//	// ERROR E200: Duplicate route path
//	//
//	//   path "/register" is declared twice
//	//
//	//   Hint: Remove or rename one of the routes
//
// # Categories
//
//   - config: configuration loading and validation
//   - routing: route table construction
//   - navigation: resolving and navigating to paths
//   - cli: command line usage
package errors
