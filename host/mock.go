package host

import "context"

// MockHost is a test double for Host.
// All function fields must be set before the corresponding method is called.
type MockHost struct {
	ReadFileFn   func(ctx context.Context, gistID, filename string) (string, error)
	WriteFileFn  func(ctx context.Context, gistID, filename, content string) error
	DeleteFileFn func(ctx context.Context, gistID, filename string) error
}

func (m *MockHost) ReadFile(ctx context.Context, gistID, filename string) (string, error) {
	return m.ReadFileFn(ctx, gistID, filename)
}
func (m *MockHost) WriteFile(ctx context.Context, gistID, filename, content string) error {
	return m.WriteFileFn(ctx, gistID, filename, content)
}
func (m *MockHost) DeleteFile(ctx context.Context, gistID, filename string) error {
	return m.DeleteFileFn(ctx, gistID, filename)
}
