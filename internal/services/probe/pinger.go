package probe

import (
	"context"
	"net"
	"os"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/net/icmp"
	"golang.org/x/net/ipv4"
)

const (
	icmpProtocol   = 1 // IPPROTO_ICMP, for icmp.ParseMessage
	maxICMPPayload = 1500
)

// ICMPPinger probes network-layer reachability with a single ICMP echo.
// It prefers an unprivileged datagram socket and falls back to a raw
// socket; any failure, including missing privileges, degrades to "not
// reachable" rather than propagating an error.
type ICMPPinger struct {
	logger zerolog.Logger
}

// NewICMPPinger creates an ICMP pinger.
func NewICMPPinger(logger zerolog.Logger) *ICMPPinger {
	return &ICMPPinger{logger: logger}
}

// Ping reports whether host answered an echo request within timeout.
func (p *ICMPPinger) Ping(ctx context.Context, host string, timeout time.Duration) bool {
	addr, err := net.ResolveIPAddr("ip4", host)
	if err != nil {
		p.logger.Debug().Err(err).Str("host", host).Msg("ping: resolve failed")
		return false
	}

	conn, dst, err := listenICMP(addr)
	if err != nil {
		p.logger.Debug().Err(err).Str("host", host).Msg("ping: socket unavailable")
		return false
	}
	defer func() { _ = conn.Close() }()

	echo := icmp.Message{
		Type: ipv4.ICMPTypeEcho,
		Code: 0,
		Body: &icmp.Echo{
			ID:   os.Getpid() & 0xffff,
			Seq:  1,
			Data: []byte("wolrelay"),
		},
	}

	payload, err := echo.Marshal(nil)
	if err != nil {
		p.logger.Debug().Err(err).Msg("ping: marshal failed")
		return false
	}

	if _, err := conn.WriteTo(payload, dst); err != nil {
		p.logger.Debug().Err(err).Str("host", host).Msg("ping: send failed")
		return false
	}

	deadline := time.Now().Add(timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}
	if err := conn.SetReadDeadline(deadline); err != nil {
		return false
	}

	buf := make([]byte, maxICMPPayload)
	for {
		n, peer, err := conn.ReadFrom(buf)
		if err != nil {
			p.logger.Debug().Err(err).Str("host", host).Msg("ping: no reply")
			return false
		}

		reply, err := icmp.ParseMessage(icmpProtocol, buf[:n])
		if err != nil {
			continue
		}
		if reply.Type == ipv4.ICMPTypeEchoReply && peerIP(peer).Equal(addr.IP) {
			return true
		}
	}
}

// listenICMP opens an ICMP socket and returns it with the matching
// destination address form. Datagram ICMP needs no privileges on hosts
// with ping_group_range configured; raw ICMP is the fallback.
func listenICMP(addr *net.IPAddr) (*icmp.PacketConn, net.Addr, error) {
	if conn, err := icmp.ListenPacket("udp4", "0.0.0.0"); err == nil {
		return conn, &net.UDPAddr{IP: addr.IP}, nil
	}

	conn, err := icmp.ListenPacket("ip4:icmp", "0.0.0.0")
	if err != nil {
		return nil, nil, err
	}
	return conn, addr, nil
}

func peerIP(addr net.Addr) net.IP {
	switch a := addr.(type) {
	case *net.UDPAddr:
		return a.IP
	case *net.IPAddr:
		return a.IP
	default:
		return nil
	}
}
