package enum

// ResourceType is the delivery type a remote object was stored under.
type ResourceType string

const (
	ResourceImage ResourceType = "image"
	ResourceVideo ResourceType = "video"
	ResourceRaw   ResourceType = "raw"
)
