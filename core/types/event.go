package types

// Event is the generic payload surfaced to subscribers after a call commits.
// Attributes are flat string pairs so emitters stay agnostic of transports.
type Event struct {
	Type       string
	Attributes map[string]string
}
