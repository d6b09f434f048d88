package eventbus

import (
	"testing"

	pkgif "github.com/dep2p/go-facelink/pkg/interfaces"
	"github.com/dep2p/go-facelink/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
)

// TestModule_Lifecycle 测试 Fx 模块注入与停止时关闭总线
func TestModule_Lifecycle(t *testing.T) {
	var bus pkgif.EventBus

	app := fxtest.New(t,
		Module(),
		fx.Populate(&bus),
	)
	app.RequireStart()
	require.NotNil(t, bus)

	sub, err := bus.Subscribe(new(types.EvtStateChanged))
	require.NoError(t, err)

	app.RequireStop()

	_, ok := <-sub.Out()
	assert.False(t, ok, "停止后订阅通道应关闭")
}
