package wake

import (
	"encoding/hex"
	"net"
	"strings"

	"github.com/fgeck/wolrelay/internal/models"
)

const (
	macLen      = 6
	macHexLen   = 12
	repetitions = 16

	// MagicPacketSize is 6 bytes of 0xFF plus 16 repetitions of the MAC.
	MagicPacketSize = macLen + repetitions*macLen
)

// MagicPacket is a Wake-on-LAN payload: 6 bytes of 0xFF followed by the
// target MAC repeated 16 times. The layout is mandated by the
// Wake-on-LAN convention and must match real NIC firmware byte for byte.
type MagicPacket []byte

// NewMagicPacket builds the payload from a MAC address string. Colon
// and hyphen separators are accepted, as is bare hex; anything not
// reducible to exactly 12 hex digits fails validation.
func NewMagicPacket(mac string) (MagicPacket, error) {
	clean := strings.ToLower(strings.NewReplacer(":", "", "-", "").Replace(mac))
	if len(clean) != macHexLen {
		return nil, models.NewValidationError("invalid MAC address format: %q", mac)
	}

	raw, err := hex.DecodeString(clean)
	if err != nil {
		return nil, models.NewValidationError("invalid MAC address format: %q", mac)
	}

	packet := make(MagicPacket, 0, MagicPacketSize)
	for i := 0; i < macLen; i++ {
		packet = append(packet, 0xFF)
	}
	for i := 0; i < repetitions; i++ {
		packet = append(packet, raw...)
	}

	return packet, nil
}

// MAC returns the target address in canonical colon form.
func (p MagicPacket) MAC() string {
	return net.HardwareAddr(p[macLen : macLen+macLen]).String()
}
