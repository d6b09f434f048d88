// Package tracking 实现人脸跟踪控制器
//
// 每帧检测结果经坐标变换与聚合后，按固定优先级映射为一条定位命令：
//
//	无人脸           -> search
//	水平 < -300      -> left,<h>
//	水平 >  300      -> right,<h>
//	垂直 < -260      -> up,<v>
//	垂直 >  260      -> down,<v>
//	宽度 <  500      -> forward,<w>
//	宽度 >  750      -> back,<w>
//	其它             -> okay,<w>,<h>
//
// 距上一条命令不足 150ms 的帧直接跳过，时间戳只在实际发出命令时更新。
// 阈值与间隔是协议常量，不可配置。
package tracking
