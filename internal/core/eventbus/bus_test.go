package eventbus

import (
	"sync"
	"testing"
	"time"

	pkgif "github.com/dep2p/go-facelink/pkg/interfaces"
	"github.com/dep2p/go-facelink/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestBus_EmitAndReceive 测试事件发射和接收
func TestBus_EmitAndReceive(t *testing.T) {
	bus := NewBus()

	sub, err := bus.Subscribe(new(types.EvtCommandReceived))
	require.NoError(t, err)
	defer sub.Close()

	em, err := bus.Emitter(new(types.EvtCommandReceived))
	require.NoError(t, err)
	defer em.Close()

	require.NoError(t, em.Emit(types.EvtCommandReceived{Line: "PING"}))

	select {
	case evt := <-sub.Out():
		got, ok := evt.(types.EvtCommandReceived)
		require.True(t, ok, "wrong event type %T", evt)
		assert.Equal(t, "PING", got.Line)
	case <-time.After(time.Second):
		t.Fatal("事件未送达")
	}
}

// TestBus_InvalidSubscribe 测试非法订阅参数
func TestBus_InvalidSubscribe(t *testing.T) {
	bus := NewBus()

	_, err := bus.Subscribe(nil)
	assert.ErrorIs(t, err, ErrInvalidEventType)

	_, err = bus.Subscribe(types.EvtStateChanged{})
	assert.ErrorIs(t, err, ErrNonPointerType)

	_, err = bus.Emitter(types.EvtStateChanged{})
	assert.ErrorIs(t, err, ErrNonPointerType)
}

// TestEmitter_RejectsWrongType 测试发射类型不匹配的事件
func TestEmitter_RejectsWrongType(t *testing.T) {
	bus := NewBus()
	em, err := bus.Emitter(new(types.EvtStateChanged))
	require.NoError(t, err)

	assert.ErrorIs(t, em.Emit(types.EvtCommandSent{}), ErrInvalidEventType)

	require.NoError(t, em.Close())
	assert.ErrorIs(t, em.Emit(types.EvtStateChanged{}), ErrEmitterClosed)
}

// TestBus_MultipleSubscribers 测试多个订阅者都收到事件
func TestBus_MultipleSubscribers(t *testing.T) {
	bus := NewBus()

	subs := make([]pkgif.Subscription, 3)
	for i := range subs {
		s, err := bus.Subscribe(new(types.EvtStateChanged))
		require.NoError(t, err)
		defer s.Close()
		subs[i] = s
	}

	em, _ := bus.Emitter(new(types.EvtStateChanged))
	defer em.Close()
	require.NoError(t, em.Emit(types.EvtStateChanged{New: types.StateConnecting}))

	for _, s := range subs {
		evt := <-s.Out()
		assert.Equal(t, types.StateConnecting, evt.(types.EvtStateChanged).New)
	}
}

// TestBus_OrderPreserved 测试单发射方按顺序投递
func TestBus_OrderPreserved(t *testing.T) {
	bus := NewBus()
	sub, _ := bus.Subscribe(new(types.EvtCommandSent), BufSize(64))
	defer sub.Close()

	em, _ := bus.Emitter(new(types.EvtCommandSent))
	defer em.Close()

	lines := []string{"a", "b", "c", "d", "e"}
	for _, l := range lines {
		require.NoError(t, em.Emit(types.EvtCommandSent{Line: l}))
	}
	for _, want := range lines {
		got := (<-sub.Out()).(types.EvtCommandSent)
		assert.Equal(t, want, got.Line)
	}
}

// TestBus_SlowConsumerDrops 测试缓冲区满时丢弃而不是阻塞
func TestBus_SlowConsumerDrops(t *testing.T) {
	bus := NewBus()
	sub, _ := bus.Subscribe(new(types.EvtCommandSent), BufSize(2))
	defer sub.Close()

	em, _ := bus.Emitter(new(types.EvtCommandSent))
	defer em.Close()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			_ = em.Emit(types.EvtCommandSent{})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Emit 被慢消费者阻塞")
	}
	assert.Len(t, sub.Out(), 2)
}

// TestBus_Stateful 测试有状态发射器向新订阅者补发最后事件
func TestBus_Stateful(t *testing.T) {
	bus := NewBus()
	em, err := bus.Emitter(new(types.EvtStateChanged), Stateful())
	require.NoError(t, err)
	defer em.Close()

	require.NoError(t, em.Emit(types.EvtStateChanged{New: types.StateConnected}))

	sub, _ := bus.Subscribe(new(types.EvtStateChanged))
	defer sub.Close()

	select {
	case evt := <-sub.Out():
		assert.Equal(t, types.StateConnected, evt.(types.EvtStateChanged).New)
	case <-time.After(time.Second):
		t.Fatal("有状态事件未补发")
	}
}

// TestSubscription_CloseIdempotent 测试重复关闭与通道关闭
func TestSubscription_CloseIdempotent(t *testing.T) {
	bus := NewBus()
	sub, _ := bus.Subscribe(new(types.EvtStateChanged))

	require.NoError(t, sub.Close())
	require.NoError(t, sub.Close())

	_, ok := <-sub.Out()
	assert.False(t, ok)
	assert.Empty(t, bus.GetAllEventTypes())
}

// TestBus_Close 测试关闭总线后订阅通道关闭、不可再订阅
func TestBus_Close(t *testing.T) {
	bus := NewBus()
	sub, _ := bus.Subscribe(new(types.EvtStateChanged))
	em, _ := bus.Emitter(new(types.EvtStateChanged))

	require.NoError(t, bus.Close())
	require.NoError(t, bus.Close())

	_, ok := <-sub.Out()
	assert.False(t, ok)
	assert.ErrorIs(t, em.Emit(types.EvtStateChanged{}), ErrClosed)

	_, err := bus.Subscribe(new(types.EvtStateChanged))
	assert.ErrorIs(t, err, ErrClosed)
}

// TestBus_ConcurrentEmitters 测试多发射器并发
func TestBus_ConcurrentEmitters(t *testing.T) {
	bus := NewBus()
	sub, _ := bus.Subscribe(new(types.EvtCommandSent), BufSize(200))
	defer sub.Close()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			em, _ := bus.Emitter(new(types.EvtCommandSent))
			defer em.Close()
			for j := 0; j < 10; j++ {
				_ = em.Emit(types.EvtCommandSent{})
			}
		}()
	}
	wg.Wait()

	assert.Len(t, sub.Out(), 100)
}
