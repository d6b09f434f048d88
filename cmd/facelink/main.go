// Package main 提供 facelink 命令行入口
//
// 从文件或标准输入读取人脸检测样本（JSON 行），驱动跟踪控制器，
// 并把链路事件打印到标准输出。
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"reflect"
	"sort"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	facelink "github.com/dep2p/go-facelink"
	"github.com/dep2p/go-facelink/config"
	pkgif "github.com/dep2p/go-facelink/pkg/interfaces"
	"github.com/dep2p/go-facelink/pkg/lib/log"
	"github.com/dep2p/go-facelink/pkg/types"
)

var logger = log.Logger("facelink/cmd")

// ═══════════════════════════════════════════════════════════════════════════
// 命令行参数
// ═══════════════════════════════════════════════════════════════════════════
//
//	命令行参数：运行时覆盖（「这次运行」连哪台设备）
//	JSON 配置文件：持久化配置（传输、超时、去抖、指标）
//
// ═══════════════════════════════════════════════════════════════════════════
var (
	configFile  = flag.String("config", "", "配置文件路径")
	target      = flag.String("target", "", "启动时连接的设备端点，例如 tcp://192.168.4.1:9000")
	transport   = flag.String("transport", "", "端点不带 scheme 时使用的传输 (tcp/ws/memory)")
	samplesPath = flag.String("samples", "-", "样本输入文件，- 表示标准输入，空表示不读取")

	logLevel  = flag.String("log-level", "", "日志级别 (debug/info/warn/error)")
	logFormat = flag.String("log-format", "", "日志格式 (text/json)")
	logFile   = flag.String("log", "", "日志文件路径")

	metricsAddr = flag.String("metrics-addr", "", "Prometheus /metrics 监听地址")
	showVersion = flag.Bool("version", false, "显示版本信息")
)

// 环境变量（优先级高于配置文件，低于命令行参数）
const (
	envTarget    = "FACELINK_TARGET"
	envTransport = "FACELINK_TRANSPORT"
	envLogLevel  = "FACELINK_LOG_LEVEL"
)

const shutdownTimeout = 5 * time.Second

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Println(facelink.VersionInfo())
		return
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	logCloser, err := setupLogging(cfg.Log)
	if err != nil {
		return err
	}
	if logCloser != nil {
		defer func() { _ = logCloser.Close() }()
	}

	node, err := facelink.New(facelink.WithConfig(cfg))
	if err != nil {
		return fmt.Errorf("创建节点失败: %w", err)
	}
	defer func() { _ = node.Close() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Printf("📦 %s\n", facelink.VersionInfo())
	logger.Info("启动 facelink", "version", facelink.Version, "transport", cfg.Link.Transport, "target", cfg.Link.Target)

	if err := node.Start(ctx); err != nil {
		return fmt.Errorf("启动失败: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)

	if err := printEvents(gctx, g, node); err != nil {
		return err
	}

	if addr := cfg.Metrics.ListenAddr; addr != "" {
		g.Go(func() error { return serveMetrics(gctx, addr, node) })
	}

	if *samplesPath != "" {
		r, closeInput, err := openInput(*samplesPath)
		if err != nil {
			return err
		}
		defer closeInput()
		g.Go(func() error { return consumeInput(gctx, r, node) })
	}

	fmt.Println("facelink 已启动，按 Ctrl+C 退出")
	<-gctx.Done()

	fmt.Println("\n正在关闭...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	stopErr := node.Stop(shutdownCtx)

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return stopErr
}

// buildConfig 构建配置
//
// 配置优先级（从高到低）：
//  1. 命令行参数
//  2. 环境变量（FACELINK_* 前缀）
//  3. 配置文件
//  4. 默认值
func buildConfig() (*config.Config, error) {
	cfg := config.NewConfig()
	if *configFile != "" {
		loaded, err := config.LoadFile(*configFile)
		if err != nil {
			return nil, fmt.Errorf("加载配置文件失败: %w", err)
		}
		cfg = loaded
	}

	if v := os.Getenv(envTransport); v != "" {
		cfg.Link.Transport = v
	}
	if v := os.Getenv(envTarget); v != "" {
		cfg.Link.Target = v
		cfg.Link.AutoConnect = true
	}
	if v := os.Getenv(envLogLevel); v != "" {
		cfg.Log.Level = v
	}

	if *transport != "" {
		cfg.Link.Transport = *transport
	}
	if *target != "" {
		cfg.Link.Target = *target
		cfg.Link.AutoConnect = true
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}
	if *logFormat != "" {
		cfg.Log.Format = *logFormat
	}
	if *logFile != "" {
		cfg.Log.File = *logFile
	}
	if *metricsAddr != "" {
		cfg.Metrics.ListenAddr = *metricsAddr
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("配置无效: %w", err)
	}
	return cfg, nil
}

// setupLogging 设置全局日志输出
//
// 未指定日志文件时输出到 stderr，返回的 io.Closer 为 nil。
func setupLogging(cfg config.LogConfig) (io.Closer, error) {
	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	jsonFormat := cfg.Format == "json"

	if cfg.File == "" {
		log.SetOutputWithLevel(os.Stderr, level, jsonFormat)
		return nil, nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.File), 0750); err != nil {
		return nil, fmt.Errorf("创建日志目录失败: %w", err)
	}
	file, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600) //nolint:gosec // G304: 用户指定的日志路径
	if err != nil {
		return nil, fmt.Errorf("打开日志文件失败: %w", err)
	}
	log.SetOutputWithLevel(file, level, jsonFormat)
	return file, nil
}

// ═══════════════════════════════════════════════════════════════════════════
// 事件输出
// ═══════════════════════════════════════════════════════════════════════════

// printedEvents 打印到标准输出的事件类型
var printedEvents = []interface{}{
	new(types.EvtStateChanged),
	new(types.EvtDeviceConnected),
	new(types.EvtCommandReceived),
	new(types.EvtControlSignal),
	new(types.EvtCommandSent),
	new(types.EvtConnectionFailed),
	new(types.EvtConnectionLost),
	new(types.EvtLinkError),
	new(types.EvtListenRequested),
	new(types.EvtPhraseUnrecognized),
}

// printEvents 订阅所有打印类型，由单个协程按事件时间顺序输出
//
// 每次唤醒时取出所有已就绪的事件，按时间戳排序后打印，
// 积压的不同类型事件（例如 state 与 connected）按发布时间输出，时间戳相同时顺序不保证。
func printEvents(ctx context.Context, g *errgroup.Group, node *facelink.Node) error {
	subs := make([]pkgif.Subscription, 0, len(printedEvents))
	for _, et := range printedEvents {
		sub, err := node.Subscribe(et, pkgif.BufSize(64), pkgif.SubscriptionName("cmd/printer"))
		if err != nil {
			closeAll(subs)
			return fmt.Errorf("订阅事件失败: %w", err)
		}
		subs = append(subs, sub)
	}

	g.Go(func() error {
		defer closeAll(subs)
		cases := make([]reflect.SelectCase, 0, len(subs)+1)
		cases = append(cases, reflect.SelectCase{Dir: reflect.SelectRecv, Chan: reflect.ValueOf(ctx.Done())})
		for _, sub := range subs {
			cases = append(cases, reflect.SelectCase{Dir: reflect.SelectRecv, Chan: reflect.ValueOf(sub.Out())})
		}

		for {
			chosen, v, ok := reflect.Select(cases)
			if chosen == 0 || !ok {
				return nil
			}
			batch := append([]interface{}{v.Interface()}, drainReady(subs)...)
			for _, evt := range orderEvents(batch) {
				if s := describeEvent(evt); s != "" {
					fmt.Println(s)
				}
			}
		}
	})
	return nil
}

// drainReady 非阻塞地取出所有订阅中已就绪的事件
func drainReady(subs []pkgif.Subscription) []interface{} {
	var out []interface{}
	for _, sub := range subs {
	drain:
		for {
			select {
			case evt, ok := <-sub.Out():
				if !ok {
					break drain
				}
				out = append(out, evt)
			default:
				break drain
			}
		}
	}
	return out
}

// orderEvents 按事件时间戳稳定排序
func orderEvents(events []interface{}) []interface{} {
	sort.SliceStable(events, func(i, j int) bool {
		return eventTime(events[i]).Before(eventTime(events[j]))
	})
	return events
}

func eventTime(evt interface{}) time.Time {
	if e, ok := evt.(types.Event); ok {
		return e.Timestamp()
	}
	return time.Time{}
}

func closeAll(subs []pkgif.Subscription) {
	for _, sub := range subs {
		_ = sub.Close()
	}
}

// describeEvent 返回事件的单行描述，未知类型返回空串
func describeEvent(evt interface{}) string {
	switch e := evt.(type) {
	case types.EvtStateChanged:
		return fmt.Sprintf("state: %s -> %s", e.Old, e.New)
	case types.EvtDeviceConnected:
		return fmt.Sprintf("connected: %s", e.Name)
	case types.EvtCommandReceived:
		return fmt.Sprintf("<- %s", e.Line)
	case types.EvtControlSignal:
		return fmt.Sprintf("<- %s", e.Line)
	case types.EvtCommandSent:
		return fmt.Sprintf("-> %s", e.Line)
	case types.EvtConnectionFailed:
		return fmt.Sprintf("⚠️  %s: %v", e.Message, e.Err)
	case types.EvtConnectionLost:
		return fmt.Sprintf("⚠️  %s: %v", e.Message, e.Err)
	case types.EvtLinkError:
		return fmt.Sprintf("⚠️  %s failed: %v", e.Op, e.Err)
	case types.EvtListenRequested:
		return fmt.Sprintf("🎤 listen (%s)", e.Marker)
	case types.EvtPhraseUnrecognized:
		return fmt.Sprintf("🎤 unrecognized: %q", e.Phrase)
	default:
		return ""
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// 输入与指标
// ═══════════════════════════════════════════════════════════════════════════

// openInput 打开样本输入，"-" 表示标准输入
func openInput(path string) (io.Reader, func(), error) {
	if path == "-" {
		return os.Stdin, func() {}, nil
	}
	f, err := os.Open(path) //nolint:gosec // G304: 用户指定的样本文件
	if err != nil {
		return nil, nil, fmt.Errorf("打开样本文件失败: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}

// consumeInput 逐行读取输入并分发到节点
//
// 读取在独立协程中进行（标准输入上的 Read 无法被取消），
// 本函数在 ctx 取消或输入结束时返回。
func consumeInput(ctx context.Context, r io.Reader, node *facelink.Node) error {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		if err := scanner.Err(); err != nil {
			logger.Warn("读取输入失败", "error", err)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case raw, ok := <-lines:
			if !ok {
				logger.Info("输入结束")
				return nil
			}
			in, err := parseInputLine(raw)
			if err != nil {
				logger.Warn("忽略无效输入", "error", err)
				continue
			}
			applyInput(node, in)
		}
	}
}

// applyInput 执行一行输入
func applyInput(node *facelink.Node, in inputLine) {
	switch in.kind {
	case inputSample:
		node.Submit(in.sample)
	case inputSay:
		node.HandlePhrase(in.text)
	case inputSend:
		node.SendCommand(in.text)
	case inputConnect:
		if err := node.Connect(in.text); err != nil {
			logger.Warn("连接失败", "endpoint", in.text, "error", err)
		}
	case inputReset:
		node.Reset()
	}
}

// serveMetrics 暴露 /metrics，ctx 取消时关闭
func serveMetrics(ctx context.Context, addr string, node *facelink.Node) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(node.Registry(), promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	logger.Info("指标服务已启动", "addr", addr)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("metrics server: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
