package models

import "time"

// StatusRequest is the body of a port reachability check.
type StatusRequest struct {
	IP   string `json:"ip"`
	Port string `json:"port"`
}

// ProbeResult holds the result of a TCP reachability check.
type ProbeResult struct {
	IP       string
	Port     string
	Open     bool
	Duration time.Duration
}
