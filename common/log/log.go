package log

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// 未调用 InitLog 时（例如单元测试、作为库被引用）使用默认 logger，避免空指针
var logger = log.NewWithOptions(os.Stdout, log.Options{
	ReportTimestamp: true,
	TimeFormat:      time.DateTime,
	Level:           log.InfoLevel,
})

func InitLog(appName string, logLevel string) {
	InitLogWithWriter(os.Stdout, appName, logLevel)
}

// InitLogWithWriter 指定输出目标，供测试或重定向到文件使用
func InitLogWithWriter(w io.Writer, appName string, logLevel string) {
	// 使用 os.Stdout 而不是 os.Stderr
	// GoLand 控制台会将 stderr 显示为红色，stdout 显示为正常颜色
	l := log.New(w)
	l.SetPrefix(appName)
	l.SetReportTimestamp(true)
	l.SetTimeFormat(time.DateTime)

	// 启用调用者信息（显示文件名和行号）
	l.SetReportCaller(true)
	l.SetCallerOffset(1)
	l.SetLevel(parseLevel(logLevel))
	logger = l
}

// SetLevel 热更新日志级别（配置文件变更时调用）
func SetLevel(logLevel string) {
	logger.SetLevel(parseLevel(logLevel))
}

func parseLevel(logLevel string) log.Level {
	// 默认为 info 级别
	switch strings.ToLower(logLevel) {
	case "debug":
		return log.DebugLevel
	case "warn":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

func Fatal(format string, args ...any) {
	if len(args) == 0 {
		logger.Fatalf(format)
	} else {
		logger.Fatalf(format, args...)
	}
}

func Info(format string, args ...any) {
	if len(args) == 0 {
		logger.Infof(format)
	} else {
		logger.Infof(format, args...)
	}
}

func Warn(format string, args ...any) {
	if len(args) == 0 {
		logger.Warnf(format)
	} else {
		logger.Warnf(format, args...)
	}
}

func Error(format string, args ...any) {
	if len(args) == 0 {
		logger.Errorf(format)
	} else {
		logger.Errorf(format, args...)
	}
}

func Debug(format string, args ...any) {
	if len(args) == 0 {
		logger.Debugf(format)
	} else {
		logger.Debugf(format, args...)
	}
}
