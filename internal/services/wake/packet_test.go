package wake

import (
	"errors"
	"testing"

	"github.com/fgeck/wolrelay/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMagicPacket_Layout(t *testing.T) {
	packet, err := NewMagicPacket("AA:BB:CC:DD:EE:FF")
	require.NoError(t, err)
	require.Len(t, []byte(packet), 102)

	for i := 0; i < 6; i++ {
		assert.Equal(t, byte(0xFF), packet[i], "preamble byte %d", i)
	}

	mac := []byte{0xAA, 0xBB, 0xCC, 0xDD, 0xEE, 0xFF}
	for rep := 0; rep < 16; rep++ {
		offset := 6 + rep*6
		assert.Equal(t, mac, []byte(packet[offset:offset+6]), "repetition %d", rep)
	}
}

func TestNewMagicPacket_SeparatorAndCaseInsensitive(t *testing.T) {
	reference, err := NewMagicPacket("aa:bb:cc:dd:ee:ff")
	require.NoError(t, err)

	for _, input := range []string{
		"AA:BB:CC:DD:EE:FF",
		"aa-bb-cc-dd-ee-ff",
		"AA-BB-CC-DD-EE-FF",
		"aabbccddeeff",
		"AABBCCDDEEFF",
		"AA:bb-CC:dd-EE:ff",
	} {
		packet, err := NewMagicPacket(input)
		require.NoError(t, err, input)
		assert.Equal(t, reference, packet, input)
	}
}

func TestNewMagicPacket_Invalid(t *testing.T) {
	for _, input := range []string{
		"",
		"AA:BB",
		"AA:BB:CC:DD:EE:FF:00",
		"aabbccddee",
		"aabbccddeeffaa",
		"gg:hh:ii:jj:kk:ll",
		"zz:bb:cc:dd:ee:ff",
		"not a mac",
	} {
		_, err := NewMagicPacket(input)
		require.Error(t, err, input)

		var validationErr *models.ValidationError
		assert.True(t, errors.As(err, &validationErr), input)
	}
}

func TestMagicPacket_MAC(t *testing.T) {
	packet, err := NewMagicPacket("AABBCCDDEEFF")
	require.NoError(t, err)
	assert.Equal(t, "aa:bb:cc:dd:ee:ff", packet.MAC())
}
