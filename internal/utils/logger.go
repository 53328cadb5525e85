package utils

import (
	"log"
	"strings"
)

// LogEvent writes one line per domain action in a fixed key=value shape
// so lines grep the same across modules. Messages carry ids and amounts
// only, never payload bodies.
func LogEvent(requestID, module, action, message string) {
	var b strings.Builder
	b.WriteString("module=")
	b.WriteString(module)
	b.WriteString(" action=")
	b.WriteString(action)
	if rid := strings.TrimSpace(requestID); rid != "" {
		b.WriteString(" request_id=")
		b.WriteString(rid)
	}
	if msg := strings.TrimSpace(message); msg != "" {
		b.WriteByte(' ')
		b.WriteString(msg)
	}
	log.Println(b.String())
}
