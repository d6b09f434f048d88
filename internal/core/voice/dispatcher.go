package voice

import (
	"strings"

	"github.com/benbjohnson/clock"

	pkgif "github.com/dep2p/go-facelink/pkg/interfaces"
	"github.com/dep2p/go-facelink/pkg/types"
)

// Dispatcher 把识别出的短语发送为应用命令
type Dispatcher struct {
	sender  pkgif.LineSender
	clock   clock.Clock
	emitter pkgif.Emitter
}

// NewDispatcher 创建短语分发器
func NewDispatcher(sender pkgif.LineSender, bus pkgif.EventBus, clk clock.Clock) (*Dispatcher, error) {
	if clk == nil {
		clk = clock.New()
	}
	em, err := bus.Emitter(new(types.EvtPhraseUnrecognized))
	if err != nil {
		return nil, err
	}
	return &Dispatcher{sender: sender, clock: clk, emitter: em}, nil
}

// HandlePhrase 映射并发送一条短语
//
// 空短语直接忽略；无法识别的短语发布 EvtPhraseUnrecognized。
func (d *Dispatcher) HandlePhrase(phrase string) (types.Command, bool) {
	phrase = strings.TrimSpace(phrase)
	if phrase == "" {
		return types.Command{}, false
	}

	cmd, ok := CommandForPhrase(phrase)
	if !ok {
		logger.Debug("无法识别的短语", "phrase", phrase)
		if err := d.emitter.Emit(types.EvtPhraseUnrecognized{
			BaseEvent: types.BaseEvent{EventType: types.EventPhraseUnrecognized, Time: d.clock.Now()},
			Phrase:    phrase,
		}); err != nil {
			logger.Debug("发布事件失败", "error", err)
		}
		return types.Command{}, false
	}

	logger.Info("语音命令", "phrase", phrase, "command", cmd.String())
	d.sender.SendLine(cmd.String())
	return cmd, true
}

// Close 释放事件发射器
func (d *Dispatcher) Close() error {
	return d.emitter.Close()
}
