package main

import (
	"io"

	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	logMaxSizeMB  = 50
	logMaxBackups = 5
	logMaxAgeDays = 30
)

// rotatingWriter returns a size- and age-rotated file writer for logs.
func rotatingWriter(path string) io.Writer {
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    logMaxSizeMB,
		MaxBackups: logMaxBackups,
		MaxAge:     logMaxAgeDays,
		Compress:   true,
	}
}
