package tracking

import "github.com/dep2p/go-facelink/pkg/types"

// 带宽阈值
const (
	HorizontalBand = 300
	VerticalBand   = 260
	MinWidth       = 500
	MaxWidth       = 750
)

// Position 聚合后的人脸位置
type Position struct {
	Horizontal int
	Vertical   int
	Width      int
}

// orient 将检测器坐标旋转 90° 并做前置摄像头镜像
func orient(r types.FaceRect) types.FaceRect {
	return types.FaceRect{
		Left:   -r.Top,
		Top:    -r.Left,
		Right:  -r.Bottom,
		Bottom: -r.Right,
	}
}

// Measure 计算一帧的聚合位置
//
// 包络初值为 left=top=-1000、right=bottom=1000，之后 left/top 取最大、
// right/bottom 取最小。多张人脸互不重叠时包络会反转，这里保持该行为。
// 空帧返回 ok=false。
func Measure(sample types.FaceSample) (Position, bool) {
	if sample.Empty() {
		return Position{}, false
	}

	env := types.FaceRect{
		Left:   types.FaceCoordMin,
		Top:    types.FaceCoordMin,
		Right:  types.FaceCoordMax,
		Bottom: types.FaceCoordMax,
	}
	for _, raw := range sample {
		r := orient(raw)
		env.Left = max(env.Left, r.Left)
		env.Top = max(env.Top, r.Top)
		env.Right = min(env.Right, r.Right)
		env.Bottom = min(env.Bottom, r.Bottom)
	}

	return Position{
		Horizontal: (env.Left + env.Right) / 2,
		Vertical:   (env.Top + env.Bottom) / 2,
		Width:      env.Left - env.Right,
	}, true
}

// Decide 按优先级把一帧映射为命令，不考虑速率限制
func Decide(sample types.FaceSample) types.Command {
	pos, ok := Measure(sample)
	if !ok {
		return types.NewCommand(types.VerbSearch)
	}
	return pos.Command()
}

// Command 按带宽优先级生成命令：水平优先于垂直，垂直优先于距离
func (p Position) Command() types.Command {
	switch {
	case p.Horizontal < -HorizontalBand:
		return types.NewCommand(types.VerbLeft, p.Horizontal)
	case p.Horizontal > HorizontalBand:
		return types.NewCommand(types.VerbRight, p.Horizontal)
	case p.Vertical < -VerticalBand:
		return types.NewCommand(types.VerbUp, p.Vertical)
	case p.Vertical > VerticalBand:
		return types.NewCommand(types.VerbDown, p.Vertical)
	case p.Width < MinWidth:
		return types.NewCommand(types.VerbForward, p.Width)
	case p.Width > MaxWidth:
		return types.NewCommand(types.VerbBack, p.Width)
	default:
		return types.NewCommand(types.VerbOkay, p.Width, p.Horizontal)
	}
}
