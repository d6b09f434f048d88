package types

import (
	"strconv"
	"strings"
)

// ============================================================================
//                              Command - 出站命令
// ============================================================================

// Verb 命令动词（一行命令中第一个逗号前的部分）
type Verb string

// 跟踪命令
const (
	VerbSearch  Verb = "search"
	VerbLeft    Verb = "left"
	VerbRight   Verb = "right"
	VerbUp      Verb = "up"
	VerbDown    Verb = "down"
	VerbForward Verb = "forward"
	VerbBack    Verb = "back"
	VerbOkay    Verb = "okay"
)

// 应用命令（语音触发）
const (
	VerbLight    Verb = "light"
	VerbNoLight  Verb = "nolight"
	VerbPlay     Verb = "play"
	VerbNoPlay   Verb = "noplay"
	VerbDimLight Verb = "dimlight"
	VerbRelais   Verb = "relais"
	VerbNoRelais Verb = "norelais"
)

// knownVerbs 协议词表中的全部动词
var knownVerbs = map[Verb]struct{}{
	VerbSearch: {}, VerbLeft: {}, VerbRight: {}, VerbUp: {}, VerbDown: {},
	VerbForward: {}, VerbBack: {}, VerbOkay: {},
	VerbLight: {}, VerbNoLight: {}, VerbPlay: {}, VerbNoPlay: {},
	VerbDimLight: {}, VerbRelais: {}, VerbNoRelais: {},
}

// Known 是否为协议词表中的动词
func (v Verb) Known() bool {
	_, ok := knownVerbs[v]
	return ok
}

// Command 一条出站命令
//
// 线格式：
//   - search            -> "search"
//   - left,-400         -> Verb=left, Args=[-400]
//   - okay,600,10       -> Verb=okay, Args=[600, 10]
//   - light,            -> Verb=light, 无参数（保留尾随逗号）
type Command struct {
	Verb Verb
	Args []int
}

// NewCommand 创建命令
func NewCommand(verb Verb, args ...int) Command {
	return Command{Verb: verb, Args: args}
}

// String 返回不含换行符的线格式文本
func (c Command) String() string {
	if c.Verb == VerbSearch && len(c.Args) == 0 {
		return string(c.Verb)
	}

	var b strings.Builder
	b.WriteString(string(c.Verb))
	b.WriteByte(',')
	for i, a := range c.Args {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(a))
	}
	return b.String()
}

// IsZero 是否为空命令
func (c Command) IsZero() bool {
	return c.Verb == "" && len(c.Args) == 0
}

// VerbOf 返回一行文本的第一个逗号分隔字段
func VerbOf(line string) Verb {
	if i := strings.IndexByte(line, ','); i >= 0 {
		return Verb(line[:i])
	}
	return Verb(line)
}
