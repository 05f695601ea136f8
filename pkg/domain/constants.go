package domain

// Supported media types. The walker factory selects its link resolver from these.
const (
	MediaTypeJSON    = "application/json"
	MediaTypeJSONHAL = "application/hal+json"
)

// HAL reserved keys.
const (
	KeyLinks    = "_links"
	KeyEmbedded = "_embedded"
	KeyHref     = "href"
	KeySelf     = "self"
	KeyTemplate = "templated"
)

// SyntheticRemark is attached to responses built for embedded terminal nodes.
const SyntheticRemark = "This is not an actual HTTP response. The resource you requested was an " +
	"embedded resource, so no HTTP request was made to acquire it."
