package wol

import (
	"bytes"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode_KnownMAC(t *testing.T) {
	mac, err := ParseMAC("A4:93:9F:F4:04:5A")
	require.NoError(t, err)

	packet, err := Encode(mac)

	require.NoError(t, err)
	require.Len(t, packet, 102)
	assert.Equal(t, []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}, packet[0:6])
	assert.Equal(t, []byte{0xA4, 0x93, 0x9F, 0xF4, 0x04, 0x5A}, packet[6:12])
	assert.Equal(t, packet[6:12], packet[96:102])
}

func TestEncode_Layout(t *testing.T) {
	macs := []string{
		"00:00:00:00:00:00",
		"ff:ff:ff:ff:ff:ff",
		"52:54:00:12:34:56",
		"aa-bb-cc-dd-ee-ff",
		"01:23:45:67:89:AB",
	}

	for _, s := range macs {
		t.Run(s, func(t *testing.T) {
			mac, err := ParseMAC(s)
			require.NoError(t, err)

			packet, err := Encode(mac)
			require.NoError(t, err)
			require.Len(t, packet, PacketSize)

			assert.Equal(t, bytes.Repeat([]byte{0xFF}, 6), packet[:6])
			for i := 0; i < 16; i++ {
				offset := 6 + 6*i
				assert.Equal(t, []byte(mac), packet[offset:offset+6], "repetition %d", i)
			}
		})
	}
}

func TestEncode_Deterministic(t *testing.T) {
	mac, err := ParseMAC("52:54:00:12:34:56")
	require.NoError(t, err)

	first, err := Encode(mac)
	require.NoError(t, err)
	second, err := Encode(mac)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestEncode_WrongLength(t *testing.T) {
	_, err := Encode(net.HardwareAddr{0x01, 0x02, 0x03})
	assert.Error(t, err)

	_, err = Encode(net.HardwareAddr{0x00, 0x00, 0x5e, 0x00, 0x53, 0x01, 0x02, 0x03})
	assert.Error(t, err)
}

func TestParseMAC(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    net.HardwareAddr
		wantErr bool
	}{
		{name: "colon upper", input: "A4:93:9F:F4:04:5A", want: net.HardwareAddr{0xA4, 0x93, 0x9F, 0xF4, 0x04, 0x5A}},
		{name: "colon lower", input: "a4:93:9f:f4:04:5a", want: net.HardwareAddr{0xA4, 0x93, 0x9F, 0xF4, 0x04, 0x5A}},
		{name: "hyphen", input: "A4-93-9F-F4-04-5A", want: net.HardwareAddr{0xA4, 0x93, 0x9F, 0xF4, 0x04, 0x5A}},
		{name: "empty", input: "", wantErr: true},
		{name: "garbage", input: "invalid-mac", wantErr: true},
		{name: "five octets", input: "A4:93:9F:F4:04", wantErr: true},
		{name: "seven octets", input: "A4:93:9F:F4:04:5A:01", wantErr: true},
		{name: "eui64", input: "00:00:5e:00:53:01:02:03", wantErr: true},
		{name: "non hex", input: "G4:93:9F:F4:04:5A", wantErr: true},
		{name: "no separators", input: "A4939FF4045A", wantErr: true},
		{name: "dotted", input: "a493.9ff4.045a", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mac, err := ParseMAC(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, mac)
		})
	}
}
