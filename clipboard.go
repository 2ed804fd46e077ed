package main

import (
	"sync"

	"go.uber.org/zap"
	"golang.design/x/clipboard"
)

var (
	clipboardOnce sync.Once
	clipboardErr  error
)

// copyToClipboard writes text to the system clipboard. Systems without a
// clipboard only get a warning.
func copyToClipboard(log *zap.Logger, data []byte) bool {
	clipboardOnce.Do(func() {
		clipboardErr = clipboard.Init()
	})
	if clipboardErr != nil {
		log.Warn("clipboard unavailable", zap.Error(clipboardErr))
		return false
	}
	clipboard.Write(clipboard.FmtText, data)
	return true
}
