package hotkey

import (
	"fmt"
	"log"
	"runtime"
	"strings"
)

// Key is one configured key and the raw codes the platform reports for it.
type Key struct {
	Name  string
	Codes []uint16
}

// Matches reports whether raw identifies k.
func (k Key) Matches(raw uint16) bool {
	for _, c := range k.Codes {
		if c == raw {
			return true
		}
	}
	return false
}

// X11 reports key symbols rather than virtual key codes.
var useKeysyms = runtime.GOOS == "linux" || runtime.GOOS == "freebsd"

// ParseKey resolves a single key name such as "y", "alt" or "F13".
func ParseKey(name string) (Key, error) {
	names := parseHotkey(name)
	if len(names) != 1 || names[0] == "" {
		return Key{}, fmt.Errorf("expected a single key, got %q", name)
	}
	n := names[0]
	var codes []uint16
	if useKeysyms {
		codes = keyNameToKeysyms(n)
	} else {
		codes = keyNameToRawcodes(n)
	}
	if len(codes) == 0 {
		return Key{}, fmt.Errorf("unknown key %q", name)
	}
	return Key{Name: n, Codes: codes}, nil
}

// parseHotkey converts a combination like "Ctrl+Alt+q" to normalized key
// names.
func parseHotkey(hotkeyConfig string) []string {
	parts := strings.Split(strings.ToLower(hotkeyConfig), "+")
	keys := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		switch part {
		case "win", "cmd", "super":
			keys = append(keys, "cmd")
		case "control":
			keys = append(keys, "ctrl")
		case "option":
			keys = append(keys, "alt")
		default:
			keys = append(keys, part)
		}
	}
	return keys
}

var specialVK = map[string]uint16{
	"space": 32, "enter": 13, "return": 13, "esc": 27, "escape": 27,
	"tab": 9, "backspace": 8, "delete": 46, "del": 46, "insert": 45, "ins": 45,
	"home": 36, "end": 35, "pageup": 33, "pgup": 33, "pagedown": 34, "pgdn": 34,
	"left": 37, "up": 38, "right": 39, "down": 40,
	"`": 192, "backquote": 192,
}

// keyNameToRawcodes maps a key name to Windows virtual key codes. Modifiers
// map to both their left and right variants.
func keyNameToRawcodes(keyName string) []uint16 {
	keyName = strings.ToLower(strings.TrimSpace(keyName))

	switch keyName {
	case "ctrl":
		return []uint16{162, 163} // VK_LCONTROL, VK_RCONTROL
	case "alt":
		return []uint16{164, 165} // VK_LMENU, VK_RMENU
	case "shift":
		return []uint16{160, 161} // VK_LSHIFT, VK_RSHIFT
	case "win", "cmd", "super":
		return []uint16{91, 92} // VK_LWIN, VK_RWIN
	}
	if len(keyName) == 1 {
		c := keyName[0]
		switch {
		case c >= 'a' && c <= 'z':
			return []uint16{uint16(c-'a') + 65}
		case c >= '0' && c <= '9':
			return []uint16{uint16(c-'0') + 48}
		}
	}
	if n, ok := functionKey(keyName); ok {
		return []uint16{111 + uint16(n)} // VK_F1 = 112
	}
	if vk, ok := specialVK[keyName]; ok {
		return []uint16{vk}
	}
	log.Printf("WARNING: Unknown key name '%s', cannot map to rawcode", keyName)
	return nil
}

var specialKeysym = map[string]uint16{
	"space": 0x20, "enter": 0xff0d, "return": 0xff0d, "esc": 0xff1b, "escape": 0xff1b,
	"tab": 0xff09, "backspace": 0xff08, "delete": 0xffff, "del": 0xffff, "insert": 0xff63, "ins": 0xff63,
	"home": 0xff50, "end": 0xff57, "pageup": 0xff55, "pgup": 0xff55, "pagedown": 0xff56, "pgdn": 0xff56,
	"left": 0xff51, "up": 0xff52, "right": 0xff53, "down": 0xff54,
	"`": 0x60, "backquote": 0x60,
}

// keyNameToKeysyms maps a key name to X11 key symbols.
func keyNameToKeysyms(keyName string) []uint16 {
	keyName = strings.ToLower(strings.TrimSpace(keyName))

	switch keyName {
	case "ctrl":
		return []uint16{0xffe3, 0xffe4}
	case "alt":
		return []uint16{0xffe9, 0xffea, 0xfe03} // Alt_L, Alt_R, ISO_Level3_Shift
	case "shift":
		return []uint16{0xffe1, 0xffe2}
	case "win", "cmd", "super":
		return []uint16{0xffeb, 0xffec}
	}
	if len(keyName) == 1 {
		c := keyName[0]
		switch {
		case c >= 'a' && c <= 'z':
			return []uint16{uint16(c), uint16(c - 'a' + 'A')}
		case c >= '0' && c <= '9':
			return []uint16{uint16(c)}
		}
	}
	if n, ok := functionKey(keyName); ok {
		return []uint16{0xffbd + uint16(n)} // XK_F1 = 0xffbe
	}
	if ks, ok := specialKeysym[keyName]; ok {
		return []uint16{ks}
	}
	return nil
}

func functionKey(name string) (int, bool) {
	var n int
	if _, err := fmt.Sscanf(name, "f%d", &n); err != nil || n < 1 || n > 24 {
		return 0, false
	}
	if fmt.Sprintf("f%d", n) != name {
		return 0, false
	}
	return n, true
}
