// Package metrics 提供链路监控指标
//
// Collector 订阅事件总线，把链路事件转换为 Prometheus 指标：
//   - facelink_link_state：当前链路状态（0 idle / 1 connecting / 2 connected）
//   - facelink_link_transitions_total{to}：状态迁移次数
//   - facelink_commands_sent_total{verb}：发出的命令
//   - facelink_lines_received_total：收到的遥测行
//   - facelink_control_signals_total{marker}：收到的控制信号
//   - facelink_link_errors_total{op}：connect/read/write 错误
//   - facelink_stale_attempts_total：被丢弃的过期连接尝试
//   - facelink_tracking_commands_total{verb}：跟踪控制器发出的命令
//   - facelink_listen_requests_total：语音监听请求
//   - facelink_command_rate：最近 60 秒平均命令速率（条/秒）
//
// # 快速开始
//
//	reg := prometheus.NewRegistry()
//	c, err := metrics.NewCollector(metrics.DefaultConfig(), reg, clock.New())
//	if err != nil {
//	    return err
//	}
//	if err := c.Start(bus); err != nil {
//	    return err
//	}
//	defer c.Stop()
//
//	http.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
package metrics
