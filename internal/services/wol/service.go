// Package wol provides Wake-on-LAN operations.
package wol

import (
	"context"
	"io"
	"net"

	"github.com/fgeck/wol-server/internal/models"
	"github.com/rs/zerolog"
)

const (
	// DefaultBindAddr is used when a request does not name a local address.
	DefaultBindAddr = "0.0.0.0"
	// DefaultBroadcastAddr is used when a request does not name a destination.
	DefaultBroadcastAddr = "255.255.255.255"
)

// Service defines the interface for Wake-on-LAN operations.
type Service interface {
	Send(ctx context.Context, req models.WakeRequest) (*models.WakeResult, error)
}

// Conn is the part of a UDP socket the dispatcher uses.
type Conn interface {
	EnableBroadcast() error
	WriteTo(b []byte, addr net.Addr) (int, error)
	Close() error
}

// Socket opens UDP sockets. It exists for mocking.
type Socket interface {
	Open(network string, laddr *net.UDPAddr) (Conn, error)
}

// DefaultSocket opens real UDP sockets.
type DefaultSocket struct{}

// Open binds a UDP socket to laddr.
func (DefaultSocket) Open(network string, laddr *net.UDPAddr) (Conn, error) {
	conn, err := net.ListenUDP(network, laddr)
	if err != nil {
		return nil, err
	}
	return &udpConn{UDPConn: conn}, nil
}

type udpConn struct {
	*net.UDPConn
}

func (c *udpConn) EnableBroadcast() error {
	return setBroadcast(c.UDPConn)
}

// Impl implements the WOL Service interface.
type Impl struct {
	socket Socket
	port   int
	logger zerolog.Logger
}

// New creates a new WOL service.
func New(logger zerolog.Logger) *Impl {
	return &Impl{
		socket: DefaultSocket{},
		port:   Port,
		logger: logger,
	}
}

// NewWithSocket creates a new WOL service with a custom socket opener and
// destination port (for testing).
func NewWithSocket(logger zerolog.Logger, socket Socket, port int) *Impl {
	return &Impl{
		socket: socket,
		port:   port,
		logger: logger,
	}
}

// Send broadcasts one magic packet for req. Success means the local network
// stack accepted the datagram; nothing is known about the target afterwards.
//
// Errors are *DispatchError, except when ctx is already done before the
// socket is opened, in which case ctx.Err() is returned unwrapped.
func (s *Impl) Send(ctx context.Context, req models.WakeRequest) (*models.WakeResult, error) {
	mac, err := ParseMAC(req.MACAddress)
	if err != nil {
		return nil, &DispatchError{Kind: ErrInvalidMAC, Input: req.MACAddress, Cause: err}
	}

	bindIP, err := resolveAddr("bind", req.BindAddr, DefaultBindAddr)
	if err != nil {
		return nil, err
	}

	broadcastIP, err := resolveAddr("broadcast", req.BroadcastAddr, DefaultBroadcastAddr)
	if err != nil {
		return nil, err
	}

	packet, err := Encode(mac)
	if err != nil {
		return nil, &DispatchError{Kind: ErrInvalidMAC, Input: req.MACAddress, Cause: err}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	laddr := &net.UDPAddr{IP: bindIP, Port: 0}
	raddr := &net.UDPAddr{IP: broadcastIP, Port: s.port}

	s.logger.Info().
		Str("mac", mac.String()).
		Str("bind", bindIP.String()).
		Str("broadcast", raddr.String()).
		Msg("sending WOL packet")

	conn, err := s.socket.Open(network(bindIP), laddr)
	if err != nil {
		return nil, &DispatchError{Kind: ErrBindFailed, Input: laddr.String(), Cause: err}
	}
	defer func() { _ = conn.Close() }()

	if err := conn.EnableBroadcast(); err != nil {
		return nil, &DispatchError{Kind: ErrBroadcastUnsupported, Cause: err}
	}

	n, err := conn.WriteTo(packet, raddr)
	if err != nil {
		return nil, &DispatchError{Kind: ErrSendFailed, Input: raddr.String(), Cause: err}
	}
	if n != len(packet) {
		return nil, &DispatchError{Kind: ErrSendFailed, Input: raddr.String(), Cause: io.ErrShortWrite}
	}

	s.logger.Debug().Int("bytes", n).Msg("WOL packet sent successfully")

	return &models.WakeResult{
		MACAddress:   mac.String(),
		BindAddr:     bindIP.String(),
		Destination:  raddr.String(),
		BytesWritten: n,
	}, nil
}

// resolveAddr parses the optional address value, falling back to def when it
// is absent. An explicitly empty string is invalid.
func resolveAddr(field string, value *string, def string) (net.IP, error) {
	input := def
	if value != nil {
		input = *value
	}

	ip := net.ParseIP(input)
	if ip == nil {
		return nil, &DispatchError{Kind: ErrInvalidAddress, Field: field, Input: input}
	}

	return ip, nil
}

func network(bind net.IP) string {
	if bind.To4() != nil {
		return "udp4"
	}
	return "udp6"
}
