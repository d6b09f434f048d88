package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dep2p/go-facelink/pkg/types"
)

// ============================================================================
//                              输入行解析
// ============================================================================

// inputKind 输入行类型
type inputKind int

const (
	inputSkip    inputKind = iota // 空行或注释
	inputSample                   // 一帧人脸检测结果
	inputSay                      // 语音短语
	inputSend                     // 原始命令
	inputConnect                  // 连接端点
	inputReset                    // 断开
)

// inputLine 解析后的输入行
type inputLine struct {
	kind   inputKind
	sample types.FaceSample
	text   string
}

// sampleEnvelope 对象形式的样本：{"faces":[...]}
type sampleEnvelope struct {
	Faces types.FaceSample `json:"faces"`
}

// parseInputLine 解析一行输入
//
// 支持的格式：
//
//	[{"left":-100,"top":-100,"right":100,"bottom":100}]   一帧样本（数组）
//	{"faces":[...]}                                        一帧样本（对象）
//	say <phrase>                                           语音短语
//	send <line>                                            原始命令
//	connect <endpoint>                                     连接
//	reset                                                  断开
//	# ...                                                  注释
func parseInputLine(raw string) (inputLine, error) {
	line := strings.TrimSpace(raw)
	if line == "" || strings.HasPrefix(line, "#") {
		return inputLine{kind: inputSkip}, nil
	}

	switch line[0] {
	case '[':
		var sample types.FaceSample
		if err := json.Unmarshal([]byte(line), &sample); err != nil {
			return inputLine{}, fmt.Errorf("invalid sample: %w", err)
		}
		return inputLine{kind: inputSample, sample: sample}, nil
	case '{':
		var env sampleEnvelope
		if err := json.Unmarshal([]byte(line), &env); err != nil {
			return inputLine{}, fmt.Errorf("invalid sample: %w", err)
		}
		return inputLine{kind: inputSample, sample: env.Faces}, nil
	}

	word, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)
	switch strings.ToLower(word) {
	case "say":
		return inputLine{kind: inputSay, text: rest}, nil
	case "send":
		if rest == "" {
			return inputLine{}, fmt.Errorf("send: empty command")
		}
		return inputLine{kind: inputSend, text: rest}, nil
	case "connect":
		if rest == "" {
			return inputLine{}, fmt.Errorf("connect: missing endpoint")
		}
		return inputLine{kind: inputConnect, text: rest}, nil
	case "reset":
		return inputLine{kind: inputReset}, nil
	default:
		return inputLine{}, fmt.Errorf("unknown input %q", word)
	}
}
