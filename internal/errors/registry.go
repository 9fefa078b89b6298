package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
}

// Stable error codes. Tools compare against these, never against
// message text.
const (
	CodeNotFound       = "M001"
	CodeDuplicateID    = "M002"
	CodeUnknownID      = "M003"
	CodeMissingArg     = "M004"
	CodeTypeMismatch   = "M005"
	CodeCyclicAlias    = "M006"
	CodeListingParse   = "M007"
	CodeListingFetch   = "M008"
	CodeRedirectLoop   = "M009"
	CodeConfigInvalid  = "C001"
	CodeBadConnString  = "C002"
	CodeStoreIO        = "S001"
)

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Resolution and registry errors (M001-M099)
	// ============================================

	CodeNotFound: {
		Category: CategoryResolve,
		Message:  "No resource matches the requested path",
		Detail:   "Dispatch walked the resource tree and exhausted it without reaching a terminal handler. This maps to a 404 in a hosting HTTP layer.",
	},
	CodeDuplicateID: {
		Category: CategoryBuild,
		Message:  "Duplicate resource-id",
		Detail:   "Two nodes in the resource tree declare the same resource-id. Resource-ids must be unique across the whole tree; this is a configuration error and registry construction aborts.",
	},
	CodeUnknownID: {
		Category: CategoryGenerate,
		Message:  "Unknown resource-id",
		Detail:   "The resource-id is not present in the registry.",
	},
	CodeMissingArg: {
		Category: CategoryGenerate,
		Message:  "Missing argument for URL generation",
		Detail:   "A variable component of the pattern has no supplied value and no fallback. Values are never silently defaulted.",
	},
	CodeTypeMismatch: {
		Category: CategoryGenerate,
		Message:  "Argument does not match the component type",
		Detail:   "The supplied value could not be converted by the variable component's type converter.",
	},
	CodeCyclicAlias: {
		Category: CategoryResolve,
		Message:  "Cyclic alias resolution",
		Detail:   "Alias resolution exceeded the bounded depth. Aliases must form an acyclic chain ending at a concrete resource.",
	},
	CodeListingParse: {
		Category: CategoryBuild,
		Message:  "Malformed registry listing line",
		Detail:   "A line of the serialized registry listing did not match the 'resid : pattern : doc' record format.",
	},
	CodeListingFetch: {
		Category: CategoryBuild,
		Message:  "Cannot fetch registry listing",
		Detail:   "The registry listing URL could not be retrieved.",
	},
	CodeRedirectLoop: {
		Category: CategoryResolve,
		Message:  "Internal redirect loop",
		Detail:   "A chain of internal redirects exceeded the bounded depth.",
	},

	// ============================================
	// Configuration errors (C001-C099)
	// ============================================

	CodeConfigInvalid: {
		Category: CategoryConfig,
		Message:  "Invalid configuration file",
		Detail:   "The configuration file could not be read or parsed.",
	},
	CodeBadConnString: {
		Category: CategoryConfig,
		Message:  "Invalid coverage store connection string",
		Detail:   "Connection strings take the form 'mem://' or 'bolt://path/to/file.db'.",
	},

	// ============================================
	// Store errors (S001-S099)
	// ============================================

	CodeStoreIO: {
		Category: CategoryCoverage,
		Message:  "Coverage store operation failed",
		Detail:   "Reading or writing the coverage store backend failed.",
	},
}

// Template returns the registered template for a code.
func Template(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
