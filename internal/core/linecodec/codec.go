package linecodec

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"strings"
)

// Terminator 行终结符
const Terminator = '\n'

// MaxLineLength 单行最大长度，超过时丢弃该行
const MaxLineLength = 4096

// ErrLineTooLong 行超过 MaxLineLength
var ErrLineTooLong = errors.New("linecodec: line too long")

// Encode 编码一条命令：追加单个换行符
//
// 调用方传入已带换行的文本时不会重复追加。空命令返回 nil。
func Encode(cmd string) []byte {
	if cmd == "" {
		return nil
	}
	if cmd[len(cmd)-1] == Terminator {
		return []byte(cmd)
	}
	b := make([]byte, 0, len(cmd)+1)
	b = append(b, cmd...)
	return append(b, Terminator)
}

// ============================================================================
//                              Decoder - 增量解码
// ============================================================================

// Decoder 增量行解码器
//
// 非并发安全；每个连接的读循环独占一个 Decoder。
type Decoder struct {
	buf     []byte
	discard bool // 正在丢弃超长行的剩余部分
}

// NewDecoder 创建解码器
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Feed 追加一段字节，返回其中新完成的行（不含终结符）
func (d *Decoder) Feed(chunk []byte) []string {
	var lines []string
	for len(chunk) > 0 {
		i := bytes.IndexByte(chunk, Terminator)
		if i < 0 {
			d.appendPartial(chunk)
			break
		}

		d.appendPartial(chunk[:i])
		chunk = chunk[i+1:]

		if d.discard {
			d.discard = false
			d.buf = d.buf[:0]
			continue
		}
		if line := trimLine(d.buf); line != "" {
			lines = append(lines, line)
		}
		d.buf = d.buf[:0]
	}
	return lines
}

// Pending 返回缓存中未终结片段的长度
func (d *Decoder) Pending() int {
	return len(d.buf)
}

// Reset 丢弃缓存的片段
func (d *Decoder) Reset() {
	d.buf = d.buf[:0]
	d.discard = false
}

func (d *Decoder) appendPartial(p []byte) {
	if d.discard {
		return
	}
	if len(d.buf)+len(p) > MaxLineLength {
		d.discard = true
		d.buf = d.buf[:0]
		return
	}
	d.buf = append(d.buf, p...)
}

// trimLine 去掉 CRLF 中的 '\r'
func trimLine(b []byte) string {
	return string(bytes.TrimSuffix(b, []byte{'\r'}))
}

// ============================================================================
//                              Reader - 阻塞读取
// ============================================================================

// Reader 从字节流中逐行读取
//
// 读循环使用它做阻塞行读取；流关闭或出错时返回底层错误（EOF 为 io.EOF）。
type Reader struct {
	br  *bufio.Reader
	dec *Decoder
	q   []string
	buf []byte
}

// NewReader 创建行读取器
func NewReader(r io.Reader) *Reader {
	return &Reader{
		br:  bufio.NewReader(r),
		dec: NewDecoder(),
		buf: make([]byte, 512),
	}
}

// ReadLine 返回下一条完整的非空行
//
// 流结束时未终结的片段被丢弃，返回 io.EOF。
func (r *Reader) ReadLine() (string, error) {
	for len(r.q) == 0 {
		n, err := r.br.Read(r.buf)
		if n > 0 {
			r.q = append(r.q, r.dec.Feed(r.buf[:n])...)
		}
		if err != nil {
			if len(r.q) > 0 {
				break
			}
			return "", err
		}
	}
	line := r.q[0]
	r.q = r.q[1:]
	return line, nil
}

// ============================================================================
//                              Classify - 控制标记分派
// ============================================================================

// DefaultControlMarker 默认控制标记
const DefaultControlMarker = "PROXIMITY"

// Kind 行类别
type Kind int

const (
	// KindTelemetry 普通遥测行
	KindTelemetry Kind = iota
	// KindControl 控制信号行
	KindControl
)

// Classified 分类后的行
type Classified struct {
	Kind   Kind
	Marker string   // 第一个逗号分隔字段
	Args   []string // 其余字段
	Line   string
}

// Classify 按第一个逗号分隔字段分派
//
// 字段与 markers 中任意一个完全相等时为控制信号。
func Classify(line string, markers []string) Classified {
	fields := strings.Split(line, ",")
	c := Classified{
		Kind:   KindTelemetry,
		Marker: fields[0],
		Args:   fields[1:],
		Line:   line,
	}
	for _, m := range markers {
		if m != "" && fields[0] == m {
			c.Kind = KindControl
			break
		}
	}
	return c
}
