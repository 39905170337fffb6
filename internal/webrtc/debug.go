package webrtc

import "sync/atomic"

// debugChannel controls whether per-message data channel logs are emitted.
var debugChannel atomic.Bool

// SetDebugLogging enables/disables verbose data channel debug logs.
func SetDebugLogging(enabled bool) {
	debugChannel.Store(enabled)
}

// debugEnabled reports whether data channel debug logs are enabled.
func debugEnabled() bool {
	return debugChannel.Load()
}
