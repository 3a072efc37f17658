package singleinstance

const DefaultPort = 49600

// ResolvePort falls back to DefaultPort for 0 and clamps to the
// unprivileged range.
func ResolvePort(p int) int {
	if p == 0 {
		return DefaultPort
	}
	if p < 1024 {
		return 1024
	}
	if p > 65535 {
		return 65535
	}
	return p
}
