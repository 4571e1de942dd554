package comm

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChecksum(t *testing.T) {
	testCases := []struct {
		payload string
		expect  byte
	}{
		{"", 0},
		{"A", 'A'},
		{"AA", 0},
		{"RHACT,1,2,3,4", 0x48},
		{"RHACT,1500,1500,1500,1500", 0x4c},
		{"RHACT,2000,1500,1500,1500", 0x4a},
		{"RHACT,1000,1500,1500,1500", 0x49},
	}
	for _, tc := range testCases {
		t.Run(tc.payload, func(t *testing.T) {
			require.Equal(t, tc.expect, Checksum([]byte(tc.payload)))
		})
	}
}

func TestFrame(t *testing.T) {
	testCases := []struct {
		name    string
		frame   Frame
		expect  string
		display string
	}{
		{"neutral", Frame{Tag: "RHACT", Fields: []int{1500, 1500, 1500, 1500}},
			"$RHACT,1500,1500,1500,1500*4C\r\n", "$RHACT,1500,1500,1500,1500"},
		{"max", Frame{Tag: "RHACT", Fields: []int{2000, 1500, 1500, 1500}},
			"$RHACT,2000,1500,1500,1500*4A\r\n", "$RHACT,2000,1500,1500,1500"},
		{"small", Frame{Tag: "RHACT", Fields: []int{1, 2, 3, 4}},
			"$RHACT,1,2,3,4*48\r\n", "$RHACT,1,2,3,4"},
		{"negative", Frame{Tag: "X", Fields: []int{-1}},
			fmt.Sprintf("$X,-1*%02X\r\n", 'X'^','^'-'^'1'), "$X,-1"},
		{"tag only", Frame{Tag: "PING"},
			fmt.Sprintf("$PING*%02X\r\n", 'P'^'I'^'N'^'G'), "$PING"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expect, string(tc.frame.Bytes()))
			require.Equal(t, tc.display, tc.frame.String())
			var buf bytes.Buffer
			n, err := tc.frame.WriteTo(&buf)
			require.NoError(t, err)
			require.Equal(t, tc.expect, buf.String())
			require.Equal(t, int64(len(tc.expect)), n)
		})
	}
}

// splitLine separates a received line into payload and checksum digits.
func splitLine(t *testing.T, line string) (payload, sum string) {
	require.True(t, strings.HasPrefix(line, "$"), "missing start marker: %q", line)
	pos := strings.LastIndexByte(line, '*')
	require.True(t, pos > 0, "missing checksum: %q", line)
	return line[1:pos], line[pos+1:]
}

func TestFrameChecksumVerifiable(t *testing.T) {
	frames := []Frame{
		{Tag: "RHACT", Fields: []int{1000, 1500, 1500, 1500}},
		{Tag: "RHACT", Fields: []int{1234, 1, 22, 333}},
		{Tag: "GPGGA", Fields: []int{0}},
	}
	for _, f := range frames {
		wire := string(f.Bytes())
		require.True(t, strings.HasSuffix(wire, Terminator))
		payload, sum := splitLine(t, strings.TrimSuffix(wire, Terminator))
		require.Equal(t, string(f.Payload()), payload)
		require.Equal(t, fmt.Sprintf("%02X", Checksum([]byte(payload))), sum)
		require.Equal(t, f.Checksum(), Checksum([]byte(payload)))
	}
}
