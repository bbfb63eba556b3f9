package wol

import (
	"fmt"
	"net"
	"strings"

	"github.com/mdlayher/wol"
)

const (
	// Port is the UDP port magic packets are sent to.
	Port = 9
	// PacketSize is the length of a magic packet without a SecureOn password (6x0xFF + 16x MAC).
	PacketSize = 6 + 16*macLength

	macLength = 6
)

// ParseMAC parses s as a six-octet MAC address written with colon or hyphen
// separators, e.g. "A4:93:9F:F4:04:5A" or "a4-93-9f-f4-04-5a".
func ParseMAC(s string) (net.HardwareAddr, error) {
	// net.ParseMAC also accepts the dotted Cisco form.
	if strings.Contains(s, ".") {
		return nil, fmt.Errorf("address %q: dotted notation is not supported", s)
	}

	mac, err := net.ParseMAC(s)
	if err != nil {
		return nil, err
	}
	if len(mac) != macLength {
		return nil, fmt.Errorf("address %q: want %d octets, got %d", s, macLength, len(mac))
	}

	return mac, nil
}

// Encode returns the magic packet that wakes the interface with the given
// hardware address. The result is always PacketSize bytes long.
func Encode(mac net.HardwareAddr) ([]byte, error) {
	if len(mac) != macLength {
		return nil, fmt.Errorf("hardware address %s: want %d octets, got %d", mac, macLength, len(mac))
	}

	p := &wol.MagicPacket{Target: mac}
	b, err := p.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("failed to marshal magic packet: %w", err)
	}

	return b, nil
}
