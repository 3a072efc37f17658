//go:build windows

package hotkey

import (
	"errors"

	"github.com/lxn/win"
	"golang.org/x/sys/windows"

	"anchor-grid/src/grid"
)

var (
	user32               = windows.NewLazySystemDLL("user32.dll")
	procGetAsyncKeyState = user32.NewProc("GetAsyncKeyState")
)

// asyncKeys polls GetAsyncKeyState, so no hook thread is needed.
type asyncKeys struct {
	trigger  Key
	modifier Key
}

func anyDown(k Key) (bool, error) {
	if err := procGetAsyncKeyState.Find(); err != nil {
		return false, err
	}
	for _, vk := range k.Codes {
		r, _, _ := procGetAsyncKeyState.Call(uintptr(vk))
		if r&0x8000 != 0 {
			return true, nil
		}
	}
	return false, nil
}

func (a asyncKeys) TriggerHeld() (bool, error) { return anyDown(a.trigger) }
func (a asyncKeys) ModifierHeld() (bool, error) { return anyDown(a.modifier) }

type systemCursor struct{}

func (systemCursor) Cursor() (grid.Point, error) {
	var pt win.POINT
	if !win.GetCursorPos(&pt) {
		return grid.Point{}, errors.New("GetCursorPos failed")
	}
	return grid.Point{X: int(pt.X), Y: int(pt.Y)}, nil
}

func openPlatform(trigger, modifier Key) (*Source, error) {
	return &Source{
		Keys:   asyncKeys{trigger: trigger, modifier: modifier},
		Cursor: systemCursor{},
	}, nil
}
