package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConnectionState_String(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "connecting", StateConnecting.String())
	assert.Equal(t, "connected", StateConnected.String())
	assert.Equal(t, "unknown", ConnectionState(42).String())
}

func TestConnectionState_StatusText(t *testing.T) {
	assert.Equal(t, "robot", StateConnected.StatusText("robot"))
	assert.Equal(t, "Connecting...", StateConnecting.StatusText("robot"))
	assert.Equal(t, "Not connected.", StateIdle.StatusText("robot"))
}

func TestCommand_String(t *testing.T) {
	tests := []struct {
		cmd  Command
		want string
	}{
		{NewCommand(VerbSearch), "search"},
		{NewCommand(VerbLeft, -400), "left,-400"},
		{NewCommand(VerbDown, 270), "down,270"},
		{NewCommand(VerbOkay, 600, 10), "okay,600,10"},
		{NewCommand(VerbLight), "light,"},
		{NewCommand(VerbNoRelais), "norelais,"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.cmd.String())
	}
	assert.True(t, Command{}.IsZero())
}

func TestVerbOf(t *testing.T) {
	assert.Equal(t, Verb("PROXIMITY"), VerbOf("PROXIMITY,12"))
	assert.Equal(t, VerbSearch, VerbOf("search"))
	assert.Equal(t, Verb(""), VerbOf(",x"))
}

func TestVerb_Known(t *testing.T) {
	assert.True(t, VerbSearch.Known())
	assert.True(t, VerbNoRelais.Known())
	assert.False(t, Verb("foobar").Known())
	assert.False(t, Verb("PROXIMITY").Known())
}

func TestFaceRect_InBounds(t *testing.T) {
	assert.True(t, FaceRect{-1000, -1000, 1000, 1000}.InBounds())
	assert.False(t, FaceRect{-1001, 0, 0, 0}.InBounds())
	assert.True(t, FaceSample(nil).Empty())
	assert.False(t, FaceSample{{}}.Empty())
}
