package logging

import "github.com/rs/zerolog"

// BusLogger satisfies the event bus's Logger interface. The bus speaks in
// flat key/value pairs; everything funnels through emit so the three levels
// stay trivially identical.
type BusLogger struct {
	logger zerolog.Logger
}

func NewBusLogger(logger zerolog.Logger) *BusLogger {
	return &BusLogger{logger: logger}
}

func (l *BusLogger) Debug(msg string, keysAndValues ...any) {
	l.emit(l.logger.Debug(), msg, keysAndValues)
}

func (l *BusLogger) Info(msg string, keysAndValues ...any) {
	l.emit(l.logger.Info(), msg, keysAndValues)
}

func (l *BusLogger) Error(msg string, keysAndValues ...any) {
	l.emit(l.logger.Error(), msg, keysAndValues)
}

func (l *BusLogger) emit(ev *zerolog.Event, msg string, keysAndValues []any) {
	ev.Fields(toFields(keysAndValues)).Msg(msg)
}

// toFields pairs up keys and values; a dangling key or a non-string key is
// dropped rather than panicking mid-log.
func toFields(keysAndValues []any) map[string]any {
	fields := make(map[string]any, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		fields[key] = keysAndValues[i+1]
	}
	return fields
}
