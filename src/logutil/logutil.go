package logutil

import (
	"io"
	"log"

	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	maxSizeMB   = 10
	maxArchives = 3
)

// Setup routes the standard logger. When file logging is off, logs are
// discarded so CLI output stays clean; otherwise they go to path with
// size-based rotation (10 MB, 3 archives). The returned func closes the
// log file.
func Setup(enableFileLogging bool, path string) func() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	if !enableFileLogging {
		log.SetOutput(io.Discard)
		return func() {}
	}
	w := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSizeMB,
		MaxBackups: maxArchives,
	}
	log.SetOutput(w)
	return func() {
		log.SetOutput(io.Discard)
		_ = w.Close()
	}
}

// SetupWriter sends logs to w, e.g. stderr for a foreground run.
func SetupWriter(w io.Writer) {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.SetOutput(w)
}
