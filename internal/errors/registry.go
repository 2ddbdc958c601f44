package errors

import (
	"maps"
	"slices"
)

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
	DocURL   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Surface Errors (E100-E119)
	// ============================================

	"E100": {
		Category: CategorySurface,
		Message:  "Surface operation failed",
		Detail:   "The rendering surface refused a mutation. The reconciliation pass was aborted and the live tree may no longer match the retained virtual tree.",
		DocURL:   "https://vela.dev/docs/errors/E100",
	},
	"E101": {
		Category: CategorySurface,
		Message:  "Node not materialized",
		Detail:   "The virtual node has no live handle. Create must be called before a node can be patched or destroyed.",
		DocURL:   "https://vela.dev/docs/errors/E101",
	},
	"E102": {
		Category: CategorySurface,
		Message:  "Unknown node handle",
		Detail:   "The handle does not refer to a live node on this surface. It was never created or has already been released.",
		DocURL:   "https://vela.dev/docs/errors/E102",
	},

	// ============================================
	// Runtime Errors (E120-E139)
	// ============================================

	"E120": {
		Category: CategoryRuntime,
		Message:  "Instance stopped",
		Detail:   "A message or task was sent to an instance whose loop has already exited.",
		DocURL:   "https://vela.dev/docs/errors/E120",
	},
	"E121": {
		Category: CategoryRuntime,
		Message:  "Update panicked",
		Detail:   "The application's Update or Render method panicked while handling a message.",
		DocURL:   "https://vela.dev/docs/errors/E121",
	},
	"E122": {
		Category: CategoryRuntime,
		Message:  "Message queue full",
		Detail:   "The instance's message queue reached its configured limit and the message was dropped.",
		DocURL:   "https://vela.dev/docs/errors/E122",
	},

	// ============================================
	// Protocol Errors (E140-E159)
	// ============================================

	"E140": {
		Category: CategoryProtocol,
		Message:  "Malformed frame",
		Detail:   "The frame could not be decoded. It is truncated or its header does not match its payload.",
		DocURL:   "https://vela.dev/docs/errors/E140",
	},
	"E141": {
		Category: CategoryProtocol,
		Message:  "Unknown operation code",
		Detail:   "The frame contains an op code this version does not understand.",
		DocURL:   "https://vela.dev/docs/errors/E141",
	},
	"E142": {
		Category: CategoryProtocol,
		Message:  "Payload too large",
		Detail:   "The encoded payload exceeds the maximum frame size.",
		DocURL:   "https://vela.dev/docs/errors/E142",
	},

	// ============================================
	// Config Errors (E160-E179)
	// ============================================

	"E160": {
		Category: CategoryConfig,
		Message:  "Invalid config file",
		Detail:   "The configuration file could not be read or parsed.",
		DocURL:   "https://vela.dev/docs/errors/E160",
	},
	"E161": {
		Category: CategoryConfig,
		Message:  "Config validation failed",
		Detail:   "The configuration file was parsed but contains invalid values.",
		DocURL:   "https://vela.dev/docs/errors/E161",
	},

	// ============================================
	// Fetch Errors (E180-E199)
	// ============================================

	"E180": {
		Category: CategoryRuntime,
		Message:  "Fetch failed",
		Detail:   "The HTTP request failed or returned a non-success status.",
		DocURL:   "https://vela.dev/docs/errors/E180",
	},
	"E181": {
		Category: CategoryRuntime,
		Message:  "Fetch decode failed",
		Detail:   "The response body could not be decoded as JSON into the requested type.",
		DocURL:   "https://vela.dev/docs/errors/E181",
	},
}

// GetTemplate returns the template for a code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

// GetAllCodes returns all registered codes in sorted order.
func GetAllCodes() []string {
	return slices.Sorted(maps.Keys(registry))
}

// Register adds or replaces an error template.
// It is intended for applications that want their own codes in the same format.
func Register(code string, template ErrorTemplate) {
	registry[code] = template
}
