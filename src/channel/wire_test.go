package channel

import (
	"testing"

	"anchor-grid/src/grid"
)

func TestCommandWireForm(t *testing.T) {
	tests := []struct {
		cmd  Command
		wire string
	}{
		{Show(), "show"},
		{Hide(), "hide"},
		{Toggle(), "toggle"},
		{Apply(grid.Cell(0, 0)), "apply:0,0"},
		{Apply(grid.Cell(6, 3)), "apply:6,3"},
		{Apply(grid.Aux(grid.OptMaskMode)), "apply:aux:maskmode"},
	}
	for _, tt := range tests {
		t.Run(tt.wire, func(t *testing.T) {
			got, err := EncodeCommand(tt.cmd)
			if err != nil || got != tt.wire {
				t.Errorf("EncodeCommand(%v) = %q, %v, expected %q", tt.cmd, got, err, tt.wire)
			}
			back, err := ParseCommand(tt.wire)
			if err != nil || back != tt.cmd {
				t.Errorf("ParseCommand(%q) = %v, %v, expected %v", tt.wire, back, err, tt.cmd)
			}
		})
	}
}

func TestEncodeCommandRejectsApplyNone(t *testing.T) {
	if s, err := EncodeCommand(Apply(grid.None())); err == nil {
		t.Errorf("EncodeCommand(apply none) = %q, expected error", s)
	}
	if _, err := EncodeCommand(Command{}); err == nil {
		t.Error("EncodeCommand(zero) expected error")
	}
}

func TestParseHover(t *testing.T) {
	tests := []struct {
		in      string
		want    grid.HitResult
		wantErr bool
	}{
		{"outside", grid.None(), false},
		{"", grid.None(), false},
		{"2,1", grid.Cell(2, 1), false},
		{" 0 , 4 ", grid.Cell(0, 4), false},
		{"aux:paste", grid.Aux(grid.OptPaste), false},
		{"aux:", grid.HitResult{}, true},
		{"2;1", grid.HitResult{}, true},
		{"x,1", grid.HitResult{}, true},
	}
	for _, tt := range tests {
		got, err := ParseHover(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseHover(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseHover(%q) = %v, expected %v", tt.in, got, tt.want)
		}
	}
}

func TestEncodeHover(t *testing.T) {
	tests := []struct {
		in   grid.HitResult
		want string
	}{
		{grid.None(), "outside"},
		{grid.Cell(1, 2), "1,2"},
		{grid.Aux(grid.OptSettings), "aux:settings"},
	}
	for _, tt := range tests {
		if got, _ := EncodeHover(tt.in); got != tt.want {
			t.Errorf("EncodeHover(%v) = %q, expected %q", tt.in, got, tt.want)
		}
	}
}
