package logvision

import (
	"maps"

	"github.com/sirupsen/logrus"
)

// LogrusFormatter implements logrus.Formatter on top of a Formatter. Entry
// data becomes the context; trace maps to DEBUG and fatal and panic map to
// ERROR.
type LogrusFormatter struct {
	formatter *Formatter
	appName   string
}

func NewLogrusFormatter(cfg RenderConfig, appName string) *LogrusFormatter {
	return &LogrusFormatter{formatter: NewFormatter(cfg), appName: appName}
}

func (f *LogrusFormatter) Format(e *logrus.Entry) ([]byte, error) {
	entry := Entry{
		Timestamp: e.Time,
		Level:     fromLogrusLevel(e.Level),
		Message:   e.Message,
		AppName:   f.appName,
	}
	if len(e.Data) > 0 {
		entry.Context = Fields(maps.Clone(e.Data))
	}
	line, err := f.formatter.Format(entry)
	if err != nil {
		return nil, err
	}
	return append([]byte(line), '\n'), nil
}

func fromLogrusLevel(l logrus.Level) Level {
	switch l {
	case logrus.TraceLevel, logrus.DebugLevel:
		return LevelDebug
	case logrus.InfoLevel:
		return LevelInfo
	case logrus.WarnLevel:
		return LevelWarn
	default:
		return LevelError
	}
}
