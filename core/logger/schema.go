package logger

import "strings"

var levelNames = map[string]string{
	"debug":   "DEBUG",
	"info":    "INFO",
	"warn":    "WARN",
	"warning": "WARN",
	"error":   "ERROR",
}

var statusValues = map[string]struct{}{
	"ok":           {},
	"fail":         {},
	"skip":         {},
	"retry":        {},
	"rate_limited": {},
	"cancelled":    {},
}

var outcomeValues = map[string]struct{}{
	"ok":           {},
	"fail":         {},
	"ignored":      {},
	"no_match":     {},
	"rate_limited": {},
}

func normalizeLevel(level string) string {
	if level == "" {
		return "INFO"
	}
	if mapped, ok := levelNames[strings.ToLower(level)]; ok {
		return mapped
	}
	return strings.ToUpper(level)
}

// normalizeEnum lower-cases v and reports whether it is one of allowed.
func normalizeEnum(v string, allowed map[string]struct{}) (string, bool) {
	v = strings.ToLower(strings.TrimSpace(v))
	if v == "" {
		return "", false
	}
	_, ok := allowed[v]
	return v, ok
}

var defaultKeyOrder = []string{
	"ts",
	"level",
	"component",
	"event",
	"status",
	"rid",
	"rid_full",
	"ts_unix_nano",
	"update_id",
	"user_id",
	"chat_id",
	"message_id",
	"handler",
	"kind",
	"action",
	"page",
	"target_page",
	"pages",
	"index",
	"outcome",
	"duration_ms",
	"messages",
	"kb",
	"payload",
	"text",
	"mode",
	"listen",
	"public_url",
	"endpoint",
	"db",
	"host",
	"port",
	"err",
	"error",
	"error_kind",
	"attempt",
	"attempts",
	"elapsed_ms",
}
