package mocks

import (
	"context"
	"sync"

	"github.com/dep2p/go-facelink/pkg/interfaces"
)

// MockTransport 模拟 Transport 接口实现
type MockTransport struct {
	// 可覆盖的方法
	OpenFunc   func(ctx context.Context, endpoint string) (interfaces.Stream, error)
	SchemeName string

	mu        sync.Mutex
	openCalls []string
}

var _ interfaces.Transport = (*MockTransport)(nil)

// NewMockTransport 创建带有默认值的 MockTransport
//
// 默认 Open 返回一个空的 MockStream。
func NewMockTransport() *MockTransport {
	return &MockTransport{SchemeName: "mock"}
}

// Open 打开流
func (m *MockTransport) Open(ctx context.Context, endpoint string) (interfaces.Stream, error) {
	m.mu.Lock()
	m.openCalls = append(m.openCalls, endpoint)
	m.mu.Unlock()

	if m.OpenFunc != nil {
		return m.OpenFunc(ctx, endpoint)
	}
	return NewMockStream(), nil
}

// Scheme 返回传输名称
func (m *MockTransport) Scheme() string {
	return m.SchemeName
}

// OpenCalls 返回 Open 调用记录（端点列表）
func (m *MockTransport) OpenCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.openCalls...)
}
