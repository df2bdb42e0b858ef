package commander

// CombineCommand is a command to run a combine pass.
// Empty Sources means all configured sources.
type CombineCommand struct {
	Sources []string `json:"sources,omitempty"`
}
