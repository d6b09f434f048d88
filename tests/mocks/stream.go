package mocks

import (
	"bytes"
	"io"
	"sync"

	"github.com/dep2p/go-facelink/pkg/interfaces"
)

// MockStream 模拟 Stream 接口实现
//
// 未设置 ReadFunc 时，预设数据读完后 Read 阻塞，直到 CloseRead 或 Close，
// 之后返回 io.EOF。
type MockStream struct {
	// 可覆盖的方法
	ReadFunc       func(p []byte) (n int, err error)
	WriteFunc      func(p []byte) (n int, err error)
	CloseFunc      func() error
	CloseReadFunc  func() error
	CloseWriteFunc func() error
	Name           string

	mu        sync.Mutex
	readData  *bytes.Reader
	written   bytes.Buffer
	closed    bool
	closeCall int
	readDone  chan struct{}
	doneOnce  sync.Once
}

var _ interfaces.Stream = (*MockStream)(nil)

// NewMockStream 创建带有默认值的 MockStream
func NewMockStream() *MockStream {
	return NewMockStreamWithData(nil)
}

// NewMockStreamWithData 创建带有预设读取数据的 MockStream
func NewMockStreamWithData(data []byte) *MockStream {
	return &MockStream{
		Name:     "mock-device",
		readData: bytes.NewReader(data),
		readDone: make(chan struct{}),
	}
}

// Read 读取数据
func (m *MockStream) Read(p []byte) (int, error) {
	if m.ReadFunc != nil {
		return m.ReadFunc(p)
	}

	m.mu.Lock()
	if m.readData.Len() > 0 {
		n, err := m.readData.Read(p)
		m.mu.Unlock()
		return n, err
	}
	m.mu.Unlock()

	<-m.readDone
	return 0, io.EOF
}

// Write 写入数据，记录到内部缓冲
func (m *MockStream) Write(p []byte) (int, error) {
	if m.WriteFunc != nil {
		return m.WriteFunc(p)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return 0, io.ErrClosedPipe
	}
	return m.written.Write(p)
}

// CloseRead 关闭读端
func (m *MockStream) CloseRead() error {
	m.doneOnce.Do(func() { close(m.readDone) })
	if m.CloseReadFunc != nil {
		return m.CloseReadFunc()
	}
	return nil
}

// CloseWrite 关闭写端
func (m *MockStream) CloseWrite() error {
	if m.CloseWriteFunc != nil {
		return m.CloseWriteFunc()
	}
	return nil
}

// Close 关闭流
func (m *MockStream) Close() error {
	m.doneOnce.Do(func() { close(m.readDone) })

	m.mu.Lock()
	m.closed = true
	m.closeCall++
	m.mu.Unlock()

	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

// RemoteName 返回远端显示名
func (m *MockStream) RemoteName() string {
	return m.Name
}

// Written 返回已写入的数据
func (m *MockStream) Written() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.written.String()
}

// IsClosed 是否已调用 Close
func (m *MockStream) IsClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// CloseCalls 返回 Close 调用次数
func (m *MockStream) CloseCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closeCall
}
