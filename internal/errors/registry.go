package errors

// Template defines a registered error code.
type Template struct {
	Category   Category
	Message    string
	Suggestion string
	DocURL     string
}

const docBase = "https://messenger.dev/docs/errors/"

// registry maps error codes to their templates.
var registry = map[string]Template{
	// ============================================
	// Config Errors (E120-E139)
	// ============================================

	"E120": {
		Category: CategoryConfig,
		Message:  "Invalid configuration file",
		DocURL:   docBase + "E120",
	},
	"E121": {
		Category:   CategoryConfig,
		Message:    "Unsupported configuration format",
		Suggestion: "Use a .json, .yaml or .yml file",
		DocURL:     docBase + "E121",
	},
	"E122": {
		Category: CategoryConfig,
		Message:  "Invalid port",
		DocURL:   docBase + "E122",
	},
	"E123": {
		Category: CategoryConfig,
		Message:  "Invalid view source",
		DocURL:   docBase + "E123",
	},
	"E141": {
		Category:   CategoryConfig,
		Message:    "Configuration file not found",
		Suggestion: "Create messenger.json or pass --config",
		DocURL:     docBase + "E141",
	},

	// ============================================
	// Routing Errors (E200-E209)
	// ============================================

	"E200": {
		Category:   CategoryRouting,
		Message:    "Duplicate route path",
		Suggestion: "Every path may be declared only once",
		DocURL:     docBase + "E200",
	},
	"E201": {
		Category: CategoryRouting,
		Message:  "Empty route path",
		DocURL:   docBase + "E201",
	},
	"E202": {
		Category: CategoryRouting,
		Message:  "Route has no view",
		DocURL:   docBase + "E202",
	},
	"E203": {
		Category: CategoryRouting,
		Message:  "Route path is not canonical",
		DocURL:   docBase + "E203",
	},

	// ============================================
	// Navigation Errors (E210-E219)
	// ============================================

	"E210": {
		Category: CategoryNavigation,
		Message:  "No route matches path",
		DocURL:   docBase + "E210",
	},
	"E211": {
		Category: CategoryNavigation,
		Message:  "Invalid navigation path",
		DocURL:   docBase + "E211",
	},
	"E212": {
		Category: CategoryNavigation,
		Message:  "No history entry",
		DocURL:   docBase + "E212",
	},
	"E213": {
		Category: CategoryNavigation,
		Message:  "View failed to load",
		DocURL:   docBase + "E213",
	},
	"E214": {
		Category:   CategoryNavigation,
		Message:    "Invalid socket frame",
		Suggestion: `Send {"type":"navigate","path":"/..."}, {"type":"back"} or {"type":"forward"}.`,
		DocURL:     docBase + "E214",
	},
	"E215": {
		Category: CategoryNavigation,
		Message:  "Navigation rejected",
		DocURL:   docBase + "E215",
	},

	// ============================================
	// CLI Errors (E300-E309)
	// ============================================

	"E300": {
		Category: CategoryCLI,
		Message:  "Invalid command usage",
		DocURL:   docBase + "E300",
	},
}

// Lookup returns the template for code.
func Lookup(code string) (Template, bool) {
	t, ok := registry[code]
	return t, ok
}
