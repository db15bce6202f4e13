package grepcache_test

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/yaklabco/peek/pkg/preview"
)

// scriptedExecutor returns fixed output, optionally blocking until
// released.
type scriptedExecutor struct {
	out   []byte
	err   error
	gate  chan struct{}
	calls atomic.Int32

	mu   sync.Mutex
	dirs []string
}

func (e *scriptedExecutor) forDir(dir string) preview.Executor {
	e.mu.Lock()
	e.dirs = append(e.dirs, dir)
	e.mu.Unlock()
	return e
}

func (e *scriptedExecutor) Exec(ctx context.Context, _ string) ([]byte, error) {
	e.calls.Add(1)
	if e.gate != nil {
		select {
		case <-e.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return e.out, e.err
}

type recordingUI struct {
	mu       sync.Mutex
	messages []string
}

func (u *recordingUI) PreviewWinWidth(context.Context) (int, error) {
	return 80, nil
}

func (u *recordingUI) EchoInfo(_ context.Context, msg string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.messages = append(u.messages, msg)
	return nil
}

func (u *recordingUI) echoed() []string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]string(nil), u.messages...)
}
