package logger

import (
	"log/slog"
	"time"
)

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Component records the component name under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// RequestID records the request identifier under the key "request_id".
func RequestID(id string) slog.Attr {
	return slog.String("request_id", id)
}

// SessionID records the session identifier under the key "session_id".
func SessionID(id string) slog.Attr {
	return slog.String("session_id", id)
}

func AccountID(id string) slog.Attr {
	return slog.String("account_id", id)
}

func AppID(id string) slog.Attr {
	return slog.String("app_id", id)
}

func Version(v string) slog.Attr {
	return slog.String("version", v)
}

// Event records the event name under the key "event".
func Event(name string) slog.Attr {
	return slog.String("event", name)
}

// Stage records the funnel stage ordinal under the key "stage".
func Stage(index int) slog.Attr {
	return slog.Int("stage", index)
}

// Kind records the document kind ("shead" or "stail") under the key "kind".
func Kind(kind string) slog.Attr {
	return slog.String("kind", kind)
}

// StatusCode records an HTTP status under the key "status_code".
func StatusCode(code int) slog.Attr {
	return slog.Int("status_code", code)
}

// Duration records a duration under the key "duration".
func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}
