package logging

import (
	"time"
)

// Common field constructors
func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

func Bool(key string, value bool) Field {
	return Field{Key: key, Value: value}
}

func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: value.String()}
}

func Error(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: nil}
	}
	return Field{Key: "error", Value: err.Error()}
}

func Any(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// Domain field helpers

func Component(name string) Field {
	return String("component", name)
}

func Operation(op string) Field {
	return String("operation", op)
}

func RunID(id string) Field {
	return String("run_id", id)
}

func Junction(name string) Field {
	return String("junction", name)
}

// Stage tags a log line with a stage identifier
func Stage(id string) Field {
	return String("stage", id)
}

// Row tags a log line with a transition's source ordinal
func Row(ordinal int) Field {
	return Int("row", ordinal)
}

func Transition(from, to string) Field {
	return String("transition", from+"->"+to)
}

func Template(id string) Field {
	return String("template", id)
}

func Latency(d time.Duration) Field {
	return Duration("latency", d)
}

func Count(n int) Field {
	return Int("count", n)
}

func Path(p string) Field {
	return String("path", p)
}
