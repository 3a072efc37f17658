package tray

import (
	"bytes"
	"encoding/binary"
	"image/png"
	"runtime"
	"testing"

	"anchor-grid/src/overlay"
)

func TestTooltip(t *testing.T) {
	tests := []struct {
		state overlay.State
		want  string
	}{
		{overlay.Hidden, "Anchor Grid (hidden)"},
		{overlay.HoldVisible, "Anchor Grid (hold)"},
		{overlay.ClickVisible, "Anchor Grid (click)"},
	}
	for _, tt := range tests {
		if got := tooltip(tt.state); got != tt.want {
			t.Errorf("tooltip(%v) = %q, expected %q", tt.state, got, tt.want)
		}
	}
	if got := statusLabel(overlay.ClickVisible); got != "Overlay: click" {
		t.Errorf("statusLabel() = %q", got)
	}
}

func TestIconPNG(t *testing.T) {
	data, err := iconPNG()
	if err != nil {
		t.Fatalf("iconPNG() error: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("icon is not a PNG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != iconSize || b.Dy() != iconSize {
		t.Errorf("icon bounds = %v", b)
	}
	if _, _, _, a := img.At(8, 8).RGBA(); a == 0 {
		t.Error("icon centre is transparent")
	}
}

func TestWrapICO(t *testing.T) {
	data, _ := iconPNG()
	ico := wrapICO(data)
	if got := binary.LittleEndian.Uint16(ico[2:4]); got != 1 {
		t.Errorf("ico type = %d, expected 1", got)
	}
	if got := binary.LittleEndian.Uint32(ico[14:18]); int(got) != len(data) {
		t.Errorf("ico size field = %d, expected %d", got, len(data))
	}
	if got := binary.LittleEndian.Uint32(ico[18:22]); got != 22 {
		t.Errorf("ico offset = %d, expected 22", got)
	}
	if !bytes.Equal(ico[22:], data) {
		t.Error("ico payload differs from the PNG")
	}

	icon, err := Icon()
	if err != nil {
		t.Fatal(err)
	}
	if runtime.GOOS == "windows" {
		if !bytes.Equal(icon, ico) {
			t.Error("Icon() on windows is not the ICO form")
		}
	} else if !bytes.Equal(icon, data) {
		t.Error("Icon() is not the PNG form")
	}
}

func TestSetStateBeforeReady(t *testing.T) {
	New(nil).SetState(overlay.HoldVisible)
}
