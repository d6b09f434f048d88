package linecodec

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	assert.Equal(t, []byte("okay,600,10\n"), Encode("okay,600,10"))
	assert.Equal(t, []byte("search\n"), Encode("search\n"))
	assert.Nil(t, Encode(""))
}

// TestRoundTrip_SplitChunks 编码后分两段任意切分，解码恰好得到一行
func TestRoundTrip_SplitChunks(t *testing.T) {
	wire := Encode("okay,600,10")
	for cut := 0; cut <= len(wire); cut++ {
		d := NewDecoder()
		var got []string
		got = append(got, d.Feed(wire[:cut])...)
		got = append(got, d.Feed(wire[cut:])...)
		require.Equal(t, []string{"okay,600,10"}, got, "cut=%d", cut)
		assert.Zero(t, d.Pending())
	}
}

func TestDecoder_PartialBuffered(t *testing.T) {
	d := NewDecoder()

	assert.Empty(t, d.Feed([]byte("left,-4")))
	assert.Equal(t, 7, d.Pending())

	assert.Equal(t, []string{"left,-400", "search"}, d.Feed([]byte("00\nsearch\nup")))
	assert.Equal(t, 2, d.Pending())

	d.Reset()
	assert.Zero(t, d.Pending())
}

func TestDecoder_EmptyAndCRLF(t *testing.T) {
	d := NewDecoder()
	assert.Equal(t, []string{"a", "b"}, d.Feed([]byte("\n\r\na\r\n\nb\n")))
}

func TestDecoder_LongLineDropped(t *testing.T) {
	d := NewDecoder()
	long := strings.Repeat("x", MaxLineLength+10)
	assert.Empty(t, d.Feed([]byte(long)))
	assert.Equal(t, []string{"ok"}, d.Feed([]byte("yyy\nok\n")))
}

func TestReader_ReadLine(t *testing.T) {
	r := NewReader(strings.NewReader("PROXIMITY,1\n\ntemp,22\ntrailing"))

	line, err := r.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "PROXIMITY,1", line)

	line, err = r.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "temp,22", line)

	_, err = r.ReadLine()
	assert.ErrorIs(t, err, io.EOF)
}

func TestReader_ByteAtATime(t *testing.T) {
	pr, pw := io.Pipe()
	go func() {
		for _, b := range []byte("okay,600,10\n") {
			_, _ = pw.Write([]byte{b})
		}
		_ = pw.Close()
	}()

	r := NewReader(pr)
	line, err := r.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "okay,600,10", line)

	_, err = r.ReadLine()
	assert.ErrorIs(t, err, io.EOF)
}

func TestClassify(t *testing.T) {
	markers := []string{DefaultControlMarker}

	c := Classify("PROXIMITY,12,near", markers)
	assert.Equal(t, KindControl, c.Kind)
	assert.Equal(t, "PROXIMITY", c.Marker)
	assert.Equal(t, []string{"12", "near"}, c.Args)

	c = Classify("PROXIMITY", markers)
	assert.Equal(t, KindControl, c.Kind)
	assert.Empty(t, c.Args)

	c = Classify("PROXIMITYX,1", markers)
	assert.Equal(t, KindTelemetry, c.Kind)

	c = Classify("temp,22", nil)
	assert.Equal(t, KindTelemetry, c.Kind)
	assert.Equal(t, "temp,22", c.Line)
}
