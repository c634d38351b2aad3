package logvision

import (
	"fmt"
	"maps"
)

func (l *Logger) Debug(message string, context ...Fields) {
	if l.Enabled(LevelDebug) {
		l.submitEntry(LevelDebug, message, mergeFields(context...))
	}
}
func (l *Logger) Info(message string, context ...Fields) {
	if l.Enabled(LevelInfo) {
		l.submitEntry(LevelInfo, message, mergeFields(context...))
	}
}
func (l *Logger) Warn(message string, context ...Fields) {
	if l.Enabled(LevelWarn) {
		l.submitEntry(LevelWarn, message, mergeFields(context...))
	}
}
func (l *Logger) Error(message string, context ...Fields) {
	if l.Enabled(LevelError) {
		l.submitEntry(LevelError, message, mergeFields(context...))
	}
}

func (l *Logger) Debugf(format string, args ...any) {
	if l.Enabled(LevelDebug) {
		l.submitEntry(LevelDebug, fmt.Sprintf(format, args...), nil)
	}
}
func (l *Logger) Infof(format string, args ...any) {
	if l.Enabled(LevelInfo) {
		l.submitEntry(LevelInfo, fmt.Sprintf(format, args...), nil)
	}
}
func (l *Logger) Warnf(format string, args ...any) {
	if l.Enabled(LevelWarn) {
		l.submitEntry(LevelWarn, fmt.Sprintf(format, args...), nil)
	}
}
func (l *Logger) Errorf(format string, args ...any) {
	if l.Enabled(LevelError) {
		l.submitEntry(LevelError, fmt.Sprintf(format, args...), nil)
	}
}

// mergeFields merges context maps left to right; later keys win. A single
// map is used as is.
func mergeFields(fieldArgs ...Fields) Fields {
	if len(fieldArgs) == 0 {
		return nil
	}
	if len(fieldArgs) == 1 {
		return fieldArgs[0]
	}
	result := make(Fields)
	for _, f := range fieldArgs {
		if f != nil {
			maps.Copy(result, f)
		}
	}
	if len(result) == 0 {
		return nil
	}
	return result
}
