//go:build !windows

package tray

import "log"

// ShowMessage logs the message; there is no native dialog on this platform.
func ShowMessage(caption, message string) {
	log.Printf("%s: %s", caption, message)
}
