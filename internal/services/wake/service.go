// Package wake provides Wake-on-LAN packet encoding and broadcast.
package wake

import (
	"context"
	"fmt"
	"net"

	"github.com/fgeck/wolrelay/internal/models"
	"github.com/rs/zerolog"
	"golang.org/x/sys/unix"
)

// Service defines the interface for Wake-on-LAN operations.
type Service interface {
	Wake(ctx context.Context, mac string) (*models.WakeResult, error)
}

// Broadcaster sends a single datagram to a broadcast destination.
type Broadcaster interface {
	Broadcast(payload []byte, ip string, port int) error
}

// UDPBroadcaster is the default Broadcaster. It opens a transient UDP
// socket per call, enables broadcast on it and releases it before
// returning, on success and failure alike.
type UDPBroadcaster struct{}

// Broadcast sends the payload as one datagram to (ip, port).
func (b *UDPBroadcaster) Broadcast(payload []byte, ip string, port int) error {
	dest := net.ParseIP(ip)
	if dest == nil {
		return fmt.Errorf("invalid broadcast IP: %s", ip)
	}

	conn, err := net.ListenPacket("udp4", ":0")
	if err != nil {
		return fmt.Errorf("opening broadcast socket: %w", err)
	}
	defer func() { _ = conn.Close() }()

	udpConn, ok := conn.(*net.UDPConn)
	if !ok {
		return fmt.Errorf("unexpected packet conn type %T", conn)
	}

	raw, err := udpConn.SyscallConn()
	if err != nil {
		return fmt.Errorf("accessing broadcast socket: %w", err)
	}

	var sockErr error
	if err := raw.Control(func(fd uintptr) {
		sockErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_BROADCAST, 1)
	}); err != nil {
		return fmt.Errorf("configuring broadcast socket: %w", err)
	}
	if sockErr != nil {
		return fmt.Errorf("enabling broadcast: %w", sockErr)
	}

	if _, err := udpConn.WriteToUDP(payload, &net.UDPAddr{IP: dest, Port: port}); err != nil {
		return fmt.Errorf("sending magic packet: %w", err)
	}

	return nil
}

// Impl implements the wake Service interface.
type Impl struct {
	broadcaster Broadcaster
	cfg         models.BroadcastConfig
	logger      zerolog.Logger
}

// New creates a new wake service.
func New(logger zerolog.Logger, cfg models.BroadcastConfig) *Impl {
	return &Impl{
		broadcaster: &UDPBroadcaster{},
		cfg:         cfg,
		logger:      logger,
	}
}

// NewWithBroadcaster creates a new wake service with a custom broadcaster (for testing).
func NewWithBroadcaster(logger zerolog.Logger, cfg models.BroadcastConfig, b Broadcaster) *Impl {
	return &Impl{
		broadcaster: b,
		cfg:         cfg,
		logger:      logger,
	}
}

// Wake encodes a magic packet for mac and broadcasts it. Success means
// the datagram was handed to the network stack; Wake-on-LAN offers no
// acknowledgement.
func (s *Impl) Wake(_ context.Context, mac string) (*models.WakeResult, error) {
	packet, err := NewMagicPacket(mac)
	if err != nil {
		return nil, err
	}

	destination := fmt.Sprintf("%s:%d", s.cfg.IP, s.cfg.Port)
	result := &models.WakeResult{
		MAC:         packet.MAC(),
		Destination: destination,
	}

	if err := s.broadcaster.Broadcast(packet, s.cfg.IP, s.cfg.Port); err != nil {
		return result, err
	}
	result.PacketSent = true

	s.logger.Info().
		Str("mac", result.MAC).
		Str("destination", destination).
		Msg("magic packet sent")

	return result, nil
}
