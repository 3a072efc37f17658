package clipboard

import (
	"errors"
	"sync"

	"golang.design/x/clipboard"
)

// Board is the text clipboard used by the copy and paste options.
type Board interface {
	ReadText() (string, error)
	WriteText(text string) error
}

var (
	initOnce sync.Once
	initErr  error
	mu       sync.Mutex
)

// System is the OS clipboard.
type System struct{}

func Init() error {
	initOnce.Do(func() { initErr = clipboard.Init() })
	return initErr
}

func (System) WriteText(text string) error {
	if err := Init(); err != nil {
		return err
	}
	mu.Lock()
	defer mu.Unlock()
	clipboard.Write(clipboard.FmtText, []byte(text))
	return nil
}

func (System) ReadText() (string, error) {
	if err := Init(); err != nil {
		return "", err
	}
	mu.Lock()
	defer mu.Unlock()
	data := clipboard.Read(clipboard.FmtText)
	if data == nil {
		return "", errors.New("clipboard holds no text")
	}
	return string(data), nil
}

// Memory is an in-process clipboard for tests and headless runs.
type Memory struct {
	mu   sync.Mutex
	text string
	set  bool
}

func (m *Memory) WriteText(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.text, m.set = text, true
	return nil
}

func (m *Memory) ReadText() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.set {
		return "", errors.New("clipboard holds no text")
	}
	return m.text, nil
}
