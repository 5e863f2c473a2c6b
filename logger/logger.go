package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config defines the configuration options for the logger
type Config struct {
	// LogLevel sets the minimum enabled logging level. Valid levels are
	// "debug", "info", "warning", and "error".
	LogLevel string

	// LogFileSize is the maximum size in megabytes of the log file before it gets
	// rotated. It defaults to 10 megabytes.
	LogFileSize int

	// LogFileCount is the maximum number of old log files to retain.
	// The default is 5.
	LogFileCount uint8

	// LogCompress determines if the rotated log files should be compressed
	// using gzip. The default is false.
	LogCompress bool

	// LogColorize enables output with colors
	LogColorize bool

	// TimeFormat sets the format for timestamp in logs. Valid formats are
	// "rfc3339", "iso8601", etc. The default is RFC3339.
	TimeFormat string

	// TimeZone sets the time zone to use for timestamps in logs.
	// The default is to use the local time zone.
	TimeZone string

	// LogToFileOnly disables logging to stdout.
	LogToFileOnly bool

	LogZeroValues bool

	// LogFile overrides the rotated log file path.
	LogFile string
}

const (
	StrDebug   = "debug"
	StrInfo    = "info"
	StrWarning = "warning"
	StrError   = "error"
	StrFatal   = "fatal"

	defaultLogfile = "./logs/moviedash.log"
)

var (
	log           = zerolog.New(os.Stdout).With().Timestamp().Logger()
	logZeroValues bool
	timeFormat    = time.RFC3339Nano
	timeZone      = *time.Local
)

// InitLogger initializes the global logger based on the provided Config.
// It sets the log level, output format, rotation options, etc.
func InitLogger(config Config) {
	if config.LogFileSize == 0 {
		config.LogFileSize = 10
	}
	if config.LogFileCount == 0 {
		config.LogFileCount = 5
	}
	if config.LogFile == "" {
		config.LogFile = defaultLogfile
	}
	logZeroValues = config.LogZeroValues
	switch config.TimeFormat {
	case "rfc3339", "":
		timeFormat = time.RFC3339Nano
	case "iso8601":
		timeFormat = "2006-01-02T15:04:05.000Z0700"
	case "rfc1123":
		timeFormat = time.RFC1123
	case "rfc822":
		timeFormat = time.RFC822
	case "rfc850":
		timeFormat = time.RFC850
	default:
		timeFormat = config.TimeFormat
	}
	zerolog.TimeFieldFormat = timeFormat

	var dbug bool
	level := zerolog.InfoLevel
	switch {
	case strings.EqualFold(config.LogLevel, StrDebug):
		level = zerolog.DebugLevel
		dbug = true
	case strings.EqualFold(config.LogLevel, StrWarning), strings.EqualFold(config.LogLevel, "warn"):
		level = zerolog.WarnLevel
	case strings.EqualFold(config.LogLevel, StrError):
		level = zerolog.ErrorLevel
	}

	if config.TimeZone != "" {
		switch {
		case strings.EqualFold(config.TimeZone, "local"):
			timeZone = *time.Local
		case strings.EqualFold(config.TimeZone, "utc"):
			timeZone = *time.UTC
		default:
			if loc, err := time.LoadLocation(config.TimeZone); err == nil {
				timeZone = *loc
			}
		}
	}
	zerolog.TimestampFunc = func() time.Time {
		return time.Now().In(&timeZone)
	}

	var writers []io.Writer
	if !config.LogToFileOnly {
		if config.LogColorize {
			writers = append(writers, zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: timeFormat})
		} else {
			writers = append(writers, os.Stdout)
		}
	}
	writers = append(writers, &lumberjack.Logger{
		Filename:   config.LogFile,
		MaxSize:    config.LogFileSize, // megabytes
		MaxBackups: int(config.LogFileCount),
		MaxAge:     28,                 //days
		Compress:   config.LogCompress, // disabled by default
	})

	logctx := zerolog.New(zerolog.MultiLevelWriter(writers...)).Level(level).With().Timestamp()
	if dbug {
		log = logctx.Caller().Logger()
	} else {
		log = logctx.Logger()
	}
}

// SetOutput replaces the global logger with one writing to w. Used by the report
// command and tests.
func SetOutput(w io.Writer) {
	log = zerolog.New(w).With().Timestamp().Logger()
}

// Logtype returns an event of the given level. Unknown levels fall back to info.
// skip is the number of additional caller frames to skip.
func Logtype(typev string, skip int) *zerolog.Event {
	var logv *zerolog.Event
	switch strings.ToLower(typev) {
	case StrDebug:
		logv = log.Debug()
	case StrError:
		logv = log.Error()
	case StrFatal:
		logv = log.Fatal()
	case StrWarning, "warn":
		logv = log.Warn()
	default:
		logv = log.Info()
	}
	if skip > 0 {
		logv.CallerSkipFrame(skip)
	}
	return logv
}

// LogDynamicany logs a message with dynamic fields. The 'fields' parameter is a
// variadic list of key-value pairs; errors may be passed without a key.
func LogDynamicany(typev string, msg string, fields ...any) {
	logv := Logtype(typev, 1)

	var n string
	for i := range fields {
		switch tt := fields[i].(type) {
		case string:
			if n == "" {
				n = tt
			} else {
				if logZeroValues || tt != "" {
					logv.Str(n, tt)
				}
				n = ""
			}
		case int:
			if n != "" {
				if logZeroValues || tt != 0 {
					logv.Int(n, tt)
				}
				n = ""
			}
		case int64:
			if n != "" {
				if logZeroValues || tt != 0 {
					logv.Int64(n, tt)
				}
				n = ""
			}
		case float64:
			if n != "" {
				if logZeroValues || tt != 0 {
					logv.Float64(n, tt)
				}
				n = ""
			}
		case bool:
			if n != "" {
				logv.Bool(n, tt)
				n = ""
			}
		case time.Duration:
			if n != "" {
				logv.Str(n, tt.Round(time.Millisecond).String())
				n = ""
			}
		case error:
			logv.Err(tt)
			n = ""
		case []string:
			if n != "" {
				if logZeroValues || len(tt) != 0 {
					logv.Strs(n, tt)
				}
				n = ""
			}
		default:
			if n != "" {
				logv.Any(n, tt)
				n = ""
			}
		}
	}
	logv.Msg(msg)
}
