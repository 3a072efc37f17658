package tray

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/png"
	"runtime"
)

const iconSize = 16

var (
	iconBG   = color.NRGBA{0x1e, 0x1e, 0x2e, 0xff}
	iconCell = color.NRGBA{0x89, 0xb4, 0xfa, 0xff}
	iconMid  = color.NRGBA{0xf9, 0xe2, 0xaf, 0xff}
)

// iconImage draws a 3x3 grid with the centre cell highlighted.
func iconImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, iconSize, iconSize))
	for y := 0; y < iconSize; y++ {
		for x := 0; x < iconSize; x++ {
			img.SetNRGBA(x, y, iconBG)
		}
	}
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			c := iconCell
			if row == 1 && col == 1 {
				c = iconMid
			}
			x0, y0 := 1+col*5, 1+row*5
			for y := y0; y < y0+4; y++ {
				for x := x0; x < x0+4; x++ {
					img.SetNRGBA(x, y, c)
				}
			}
		}
	}
	return img
}

func iconPNG() ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, iconImage()); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// wrapICO puts a PNG into a single-image .ico container.
func wrapICO(pngData []byte) []byte {
	var buf bytes.Buffer
	header := struct {
		Reserved, Type, Count uint16
	}{0, 1, 1}
	entry := struct {
		Width, Height, Colors, Reserved uint8
		Planes, BitCount                uint16
		Size, Offset                    uint32
	}{iconSize, iconSize, 0, 0, 1, 32, uint32(len(pngData)), 6 + 16}
	_ = binary.Write(&buf, binary.LittleEndian, header)
	_ = binary.Write(&buf, binary.LittleEndian, entry)
	buf.Write(pngData)
	return buf.Bytes()
}

// Icon returns the tray icon in the format the platform tray expects.
func Icon() ([]byte, error) {
	data, err := iconPNG()
	if err != nil {
		return nil, err
	}
	if runtime.GOOS == "windows" {
		return wrapICO(data), nil
	}
	return data, nil
}
