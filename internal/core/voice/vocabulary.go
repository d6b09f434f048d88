package voice

import (
	"strings"

	"github.com/dep2p/go-facelink/pkg/types"
)

// Phrase 短语到命令动词的映射
type Phrase struct {
	Keyword string
	Verb    types.Verb
}

// Vocabulary 按匹配优先级排列的短语表
//
// 匹配为不区分大小写的子串匹配，取第一个命中项。
var Vocabulary = []Phrase{
	{Keyword: "light on", Verb: types.VerbLight},
	{Keyword: "light off", Verb: types.VerbNoLight},
	{Keyword: "play", Verb: types.VerbPlay},
	{Keyword: "stop", Verb: types.VerbNoPlay},
	{Keyword: "much light", Verb: types.VerbDimLight},
	{Keyword: "hot tea", Verb: types.VerbRelais},
	{Keyword: "hot enough", Verb: types.VerbNoRelais},
}

// CommandForPhrase 返回短语对应的命令
func CommandForPhrase(phrase string) (types.Command, bool) {
	p := strings.ToLower(phrase)
	for _, v := range Vocabulary {
		if strings.Contains(p, v.Keyword) {
			return types.NewCommand(v.Verb), true
		}
	}
	return types.Command{}, false
}
