package scene

import "log"

// logDebugf and logInfof use the stdlib log.Printf convention with
// explicit bracketed level prefixes for the core-renderer code path,
// rather than introducing a separate structured logging dependency.
func logDebugf(format string, args ...any) {
	log.Printf("[scene:debug] "+format, args...)
}

func logInfof(format string, args ...any) {
	log.Printf("[scene:info] "+format, args...)
}
