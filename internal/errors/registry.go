package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category   Category
	Message    string
	Detail     string
	Suggestion string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// Config errors (E120-E139)

	"E120": {
		Category:   CategoryConfig,
		Message:    "failed to read reflow.json",
		Detail:     "The configuration file exists but could not be read or parsed.",
		Suggestion: "Check the file for JSON syntax errors.",
	},
	"E121": {
		Category:   CategoryConfig,
		Message:    "failed to write reflow.json",
		Suggestion: "Check directory permissions.",
	},
	"E122": {
		Category:   CategoryConfig,
		Message:    "no configuration file found",
		Detail:     "Searched the working directory and its parents for reflow.json.",
		Suggestion: "Run from a project directory, or pass --config.",
	},
	"E123": {
		Category:   CategoryConfig,
		Message:    "invalid configuration value",
	},

	// CLI errors (E140-E159)

	"E140": {
		Category: CategoryCLI,
		Message:  "invalid command arguments",
	},
	"E141": {
		Category:   CategoryCLI,
		Message:    "development server failed to start",
		Suggestion: "Check that the address is not already in use.",
	},

	// Export errors (E160-E169)

	"E160": {
		Category:   CategoryExport,
		Message:    "trace export failed",
		Detail:     "The trace could not be uploaded to the configured bucket.",
		Suggestion: "Verify the bucket name, region and credentials.",
	},
	"E161": {
		Category:   CategoryExport,
		Message:    "trace export not configured",
		Suggestion: "Set record.bucket in reflow.json or pass --bucket.",
	},
}
