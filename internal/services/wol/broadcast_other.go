//go:build !unix

package wol

import "net"

// The Go runtime enables SO_BROADCAST on every datagram socket it creates on
// non-unix platforms, so there is nothing left to do here.
func setBroadcast(_ *net.UDPConn) error {
	return nil
}
