package utils

import (
	"log"
	"strings"
)

// LogEvent prints a standardized line with module/action/request_id. Keep
// messages summarized; never log credentials or full payloads.
func LogEvent(requestID, module, action, message string) {
	log.Printf("[%s] action=%s request_id=%s msg=%s",
		strings.ToUpper(module), action, strings.TrimSpace(requestID), message)
}
