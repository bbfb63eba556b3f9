package models

// WakeRequest is the body of a wake call. BindAddr and BroadcastAddr are
// optional; nil means "use the default".
type WakeRequest struct {
	MACAddress    string  `json:"mac_address"`
	BindAddr      *string `json:"bind_addr,omitempty"`
	BroadcastAddr *string `json:"broadcast_addr,omitempty"`
}

// WakeResult describes the transmission that was handed to the network stack.
type WakeResult struct {
	MACAddress   string
	BindAddr     string
	Destination  string // host:port
	BytesWritten int
}
