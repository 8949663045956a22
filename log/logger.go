// Package log is a key/value wrapper around logrus.
package log

import (
	"io"
	"os"
	"path/filepath"
	"time"

	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"github.com/sirupsen/logrus"
)

const timestampFormat = "2006-01-02T15:04:05.000"

// SetLogger sets level and format of the standard logger.
// Levels follow logrus: 0 panic up to 6 trace.
func SetLogger(logLevel uint32, jsonFormat, colorFormat bool) {
	logrus.SetOutput(os.Stdout)
	logrus.SetLevel(logrus.Level(logLevel))
	if jsonFormat {
		logrus.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: timestampFormat,
		})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{
			ForceColors:     colorFormat,
			DisableColors:   !colorFormat,
			ForceQuote:      true,
			FullTimestamp:   true,
			TimestampFormat: timestampFormat,
			DisableSorting:  true,
		})
	}
}

// SetLogFile additionally writes logs to a file rotated every
// rotationTime, keeping maxAge worth of files. The current file is
// reachable through a symlink at filePath.
func SetLogFile(filePath string, rotationTime, maxAge time.Duration) error {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return err
	}
	if err = os.MkdirAll(filepath.Dir(absPath), 0755); err != nil {
		return err
	}
	writer, err := rotatelogs.New(
		absPath+".%Y%m%d%H%M",
		rotatelogs.WithLinkName(absPath),
		rotatelogs.WithRotationTime(rotationTime),
		rotatelogs.WithMaxAge(maxAge),
	)
	if err != nil {
		return err
	}
	logrus.SetOutput(io.MultiWriter(os.Stdout, writer))
	return nil
}

// WithFields turns key/value pairs into a logrus entry.
// Non-string keys and a trailing odd value are dropped.
func WithFields(ctx ...interface{}) *logrus.Entry {
	length := len(ctx)
	if length%2 != 0 {
		Debugf("log fields number %v is not even", length)
	}
	fields := make(logrus.Fields, length/2)
	for k := 0; k+2 <= length; k += 2 {
		key, ok := ctx[k].(string)
		if ok {
			fields[key] = ctx[k+1]
		} else {
			Debugf("log field key '%v' is not string", ctx[k])
		}
	}
	return logrus.WithFields(fields)
}

// Trace logs msg at trace level with key/value context.
func Trace(msg string, ctx ...interface{}) {
	WithFields(ctx...).Trace(msg)
}

// Tracef logs a formatted message at trace level.
func Tracef(format string, args ...interface{}) {
	logrus.Tracef(format, args...)
}

// Debug logs msg at debug level with key/value context.
func Debug(msg string, ctx ...interface{}) {
	WithFields(ctx...).Debug(msg)
}

// Debugf logs a formatted message at debug level.
func Debugf(format string, args ...interface{}) {
	logrus.Debugf(format, args...)
}

// Info logs msg at info level with key/value context.
func Info(msg string, ctx ...interface{}) {
	WithFields(ctx...).Info(msg)
}

// Infof logs a formatted message at info level.
func Infof(format string, args ...interface{}) {
	logrus.Infof(format, args...)
}

// Printf logs at info level. It exists for callers expecting a Printf logger.
func Printf(format string, args ...interface{}) {
	logrus.Printf(format, args...)
}

// Warn logs msg at warning level with key/value context.
func Warn(msg string, ctx ...interface{}) {
	WithFields(ctx...).Warn(msg)
}

// Warnf logs a formatted warning.
func Warnf(format string, args ...interface{}) {
	logrus.Warnf(format, args...)
}

// Error logs msg at error level with key/value context.
func Error(msg string, ctx ...interface{}) {
	WithFields(ctx...).Error(msg)
}

// Errorf logs a formatted message at error level.
func Errorf(format string, args ...interface{}) {
	logrus.Errorf(format, args...)
}

// Fatal logs msg with key/value context and exits the process with status 1.
func Fatal(msg string, ctx ...interface{}) {
	WithFields(ctx...).Fatal(msg)
}

// Fatalf is the formatted form of Fatal.
func Fatalf(format string, args ...interface{}) {
	logrus.Fatalf(format, args...)
}

// Panic logs msg with key/value context and then panics.
func Panic(msg string, ctx ...interface{}) {
	WithFields(ctx...).Panic(msg)
}
