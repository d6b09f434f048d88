package types

// ============================================================================
//                              FaceRect - 人脸矩形
// ============================================================================

// 检测器坐标系边界
//
// (-1000, -1000) 表示相机视野左上角，(1000, 1000) 表示右下角。
const (
	FaceCoordMin = -1000
	FaceCoordMax = 1000
)

// FaceRect 检测器输出的人脸矩形（原始相机坐标，未做旋转/镜像补偿）
type FaceRect struct {
	Left   int `json:"left"`
	Top    int `json:"top"`
	Right  int `json:"right"`
	Bottom int `json:"bottom"`
}

// InBounds 检查矩形是否位于检测器坐标系内
func (r FaceRect) InBounds() bool {
	for _, v := range [...]int{r.Left, r.Top, r.Right, r.Bottom} {
		if v < FaceCoordMin || v > FaceCoordMax {
			return false
		}
	}
	return true
}

// FaceSample 单帧检测结果
//
// 空切片（或 nil）表示"未检测到人脸"，是合法输入而不是错误。
type FaceSample []FaceRect

// Empty 是否未检测到人脸
func (s FaceSample) Empty() bool {
	return len(s) == 0
}
