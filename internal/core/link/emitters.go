package link

import (
	"fmt"

	"go.uber.org/multierr"

	pkgif "github.com/dep2p/go-facelink/pkg/interfaces"
	"github.com/dep2p/go-facelink/pkg/types"
)

// emitters 链路发布的全部事件
type emitters struct {
	stateChanged     pkgif.Emitter
	deviceConnected  pkgif.Emitter
	commandReceived  pkgif.Emitter
	controlSignal    pkgif.Emitter
	commandSent      pkgif.Emitter
	connectionFailed pkgif.Emitter
	connectionLost   pkgif.Emitter
	linkError        pkgif.Emitter
	staleDiscarded   pkgif.Emitter
}

func newEmitters(bus pkgif.EventBus) (*emitters, error) {
	e := &emitters{}
	targets := []struct {
		dst *pkgif.Emitter
		typ interface{}
	}{
		{&e.stateChanged, new(types.EvtStateChanged)},
		{&e.deviceConnected, new(types.EvtDeviceConnected)},
		{&e.commandReceived, new(types.EvtCommandReceived)},
		{&e.controlSignal, new(types.EvtControlSignal)},
		{&e.commandSent, new(types.EvtCommandSent)},
		{&e.connectionFailed, new(types.EvtConnectionFailed)},
		{&e.connectionLost, new(types.EvtConnectionLost)},
		{&e.linkError, new(types.EvtLinkError)},
		{&e.staleDiscarded, new(types.EvtStaleDiscarded)},
	}
	for _, t := range targets {
		em, err := bus.Emitter(t.typ)
		if err != nil {
			_ = e.close()
			return nil, fmt.Errorf("create emitter %T: %w", t.typ, err)
		}
		*t.dst = em
	}
	return e, nil
}

func (e *emitters) close() error {
	var err error
	for _, em := range []pkgif.Emitter{
		e.stateChanged, e.deviceConnected, e.commandReceived, e.controlSignal,
		e.commandSent, e.connectionFailed, e.connectionLost, e.linkError, e.staleDiscarded,
	} {
		if em != nil {
			err = multierr.Append(err, em.Close())
		}
	}
	return err
}

// emit 发布事件；总线关闭后的发布失败只记录调试日志
func emit(em pkgif.Emitter, evt interface{}) {
	if err := em.Emit(evt); err != nil {
		logger.Debug("发布事件失败", "type", fmt.Sprintf("%T", evt), "error", err)
	}
}
