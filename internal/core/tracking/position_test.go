package tracking

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dep2p/go-facelink/pkg/types"
)

func face(left, top, right, bottom int) types.FaceRect {
	return types.FaceRect{Left: left, Top: top, Right: right, Bottom: bottom}
}

func TestMeasure_Orientation(t *testing.T) {
	// 水平位置来自检测器的 top/bottom，垂直位置来自 left/right
	pos, ok := Measure(types.FaceSample{face(-200, -100, 100, 500)})
	assert.True(t, ok)
	assert.Equal(t, Position{Horizontal: -200, Vertical: 50, Width: 600}, pos)

	_, ok = Measure(nil)
	assert.False(t, ok)
}

func TestDecide_Bands(t *testing.T) {
	tests := []struct {
		name   string
		sample types.FaceSample
		want   string
	}{
		{"NoFace", nil, "search"},
		{"EmptySlice", types.FaceSample{}, "search"},
		{"Left", types.FaceSample{face(0, 200, 0, 700)}, "left,-450"},
		{"Right", types.FaceSample{face(0, -700, 0, -200)}, "right,450"},
		{"Up", types.FaceSample{face(300, -300, 300, 300)}, "up,-300"},
		{"Down", types.FaceSample{face(-300, -300, -300, 300)}, "down,300"},
		{"Forward", types.FaceSample{face(0, -100, 0, 100)}, "forward,200"},
		{"Back", types.FaceSample{face(0, -400, 0, 400)}, "back,800"},
		{"Okay", types.FaceSample{face(0, -300, 0, 300)}, "okay,600,0"},
		{"HorizontalBoundary", types.FaceSample{face(0, 0, 0, 600)}, "okay,600,-300"},
		{"VerticalBoundary", types.FaceSample{face(260, -300, 260, 300)}, "okay,600,0"},
		{"WidthBoundaries", types.FaceSample{face(0, -250, 0, 250)}, "okay,500,0"},
		{"TruncatesTowardZero", types.FaceSample{face(0, 0, 0, 601)}, "okay,601,-300"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Decide(tt.sample).String())
		})
	}
}

func TestDecide_HorizontalBeatsDepth(t *testing.T) {
	// 水平 -400、宽度 1000 同时满足 left 与 back，水平优先
	sample := types.FaceSample{face(0, -100, 0, 900)}
	pos, _ := Measure(sample)
	assert.Equal(t, -400, pos.Horizontal)
	assert.Equal(t, 1000, pos.Width)

	assert.Equal(t, "left,-400", Decide(sample).String())
}

func TestDecide_VerticalBeatsDepth(t *testing.T) {
	sample := types.FaceSample{face(-400, -100, -400, 100)}
	assert.Equal(t, "down,400", Decide(sample).String())
}

func TestMeasure_MultiFaceEnvelope(t *testing.T) {
	t.Run("Nested", func(t *testing.T) {
		sample := types.FaceSample{
			face(0, -300, 0, 300),
			face(0, -100, 0, 100),
		}
		pos, ok := Measure(sample)
		assert.True(t, ok)
		assert.Equal(t, 600, pos.Width)
		assert.Equal(t, "okay,600,0", Decide(sample).String())
	})

	t.Run("Disjoint", func(t *testing.T) {
		// 互不重叠的两张脸：包络取 max(left)/min(right)，宽度反而变大
		sample := types.FaceSample{
			face(0, -900, 0, -500),
			face(0, 500, 0, 900),
		}
		pos, _ := Measure(sample)
		assert.Equal(t, Position{Horizontal: 0, Vertical: 0, Width: 1800}, pos)
		assert.Equal(t, "back,1800", Decide(sample).String())
	})

	t.Run("SeedBounds", func(t *testing.T) {
		// 超出坐标系的 right/bottom 被初值 1000 截住
		pos, _ := Measure(types.FaceSample{face(0, -300, -1500, 300)})
		assert.Equal(t, (0+1000)/2, pos.Vertical)
	})
}
