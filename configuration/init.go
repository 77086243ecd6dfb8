package configuration

import (
	"flag"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type config struct {
	humanLog *zap.SugaredLogger
	once     sync.Once
}

var cfg config

var configFile string

// WorkDir absolute path to the agent working directory. Holds the state
// store and staged OTA images
var WorkDir string

func init() {
	// initialize startup logger
	logCfg := zap.NewProductionConfig()

	logCfg.DisableStacktrace = true
	logCfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	logCfg.EncoderConfig.LevelKey = ""
	logCfg.EncoderConfig.CallerKey = ""
	logCfg.Encoding = "console"
	logCfg.EncoderConfig.EncodeTime = func(t time.Time, encoder zapcore.PrimitiveArrayEncoder) {
		encoder.AppendString(t.Format(time.RFC3339))
	}

	log, _ := logCfg.Build()

	cfg.humanLog = log.Sugar()

	WorkDir = "/var/lib/glowbridge"

	configFile, _ = os.LookupEnv("GLOWBRIDGE_CONFIG")

	if str, ok := os.LookupEnv("GLOWBRIDGE_WORK_DIR"); ok {
		WorkDir = str
	}

	flag.StringVar(&configFile, "config", configFile, "config file")
	flag.StringVar(&WorkDir, "work-dir", WorkDir, "agent work directory")
}

// GetLogger return production logger
func GetLogger() *zap.SugaredLogger {
	return cfg.humanLog
}

// GetHumanLogger return production logger
func GetHumanLogger() *zap.SugaredLogger {
	return cfg.humanLog
}

var configTimeFormatMap = map[string]string{
	"ANSIC":       time.ANSIC,
	"UNIX":        time.UnixDate,
	"RubyDate":    time.RubyDate,
	"RFC822":      time.RFC822,
	"RFC822Z":     time.RFC822Z,
	"RFC850":      time.RFC850,
	"RFC1123":     time.RFC1123,
	"RFC1123Z":    time.RFC1123Z,
	"RFC3339":     time.RFC3339,
	"RFC3339Nano": time.RFC3339Nano,
}

// ConfigureLoggers rebuilds the logger from the system.log config section
func ConfigureLoggers(c *LogConfig) error {
	logCfg := zap.NewDevelopmentEncoderConfig()

	var level zapcore.Level
	if err := level.UnmarshalText([]byte(c.Console.Level)); err != nil {
		return err
	}

	if c.Console.Timestamp != nil {
		if f, ok := configTimeFormatMap[c.Console.Timestamp.Format]; !ok {
			GetLogger().Warn("unsupported time format supplied by config. using RFC3339")
			c.Console.Timestamp.Format = time.RFC3339
		} else {
			c.Console.Timestamp.Format = f
		}
		logCfg.EncodeTime = func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
			enc.AppendString(t.Format(c.Console.Timestamp.Format))
		}
	} else {
		logCfg.EncodeTime = nil
	}

	logCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	logCfg.StacktraceKey = ""
	consoleEncoder := zapcore.NewConsoleEncoder(logCfg)

	// High-priority output should also go to standard error, and low-priority
	// output should also go to standard out.
	consoleDebugging := zapcore.Lock(os.Stdout)
	consoleErrors := zapcore.Lock(os.Stderr)

	highPriority := zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
		return lvl >= zapcore.ErrorLevel
	})
	lowPriority := zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
		return lvl >= level && lvl < zapcore.ErrorLevel
	})

	core := zapcore.NewTee(
		zapcore.NewCore(consoleEncoder, consoleErrors, highPriority),
		zapcore.NewCore(consoleEncoder, consoleDebugging, lowPriority))

	cfg.humanLog = zap.New(core).Sugar()

	cfg.humanLog.Sync() // nolint: errcheck

	return nil
}
