package logging

import (
	"io"
	"os"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
)

/*
Config 日志配置。

	FileLevel 写入文件的最低级别；
	ConsoleLevel 输出到控制台的最低级别；
	FileDir 日志文件目录，为空时不写文件；
	DisableConsole 关闭控制台输出；
*/
type Config struct {
	FileLevel      logrus.Level `yaml:"file_level"`
	ConsoleLevel   logrus.Level `yaml:"console_level"`
	FileDir        string       `yaml:"file_dir"`
	DisableConsole bool         `yaml:"disable_console"`
}

func GenerateTestConfig(t *testing.T) *Config {
	return &Config{
		FileLevel:      logrus.DebugLevel,
		ConsoleLevel:   logrus.DebugLevel,
		FileDir:        t.TempDir(),
		DisableConsole: false,
	}
}

var (
	configLock    sync.RWMutex
	defaultConfig = Config{
		FileLevel:      logrus.DebugLevel,
		ConsoleLevel:   logrus.InfoLevel,
		FileDir:        "",
		DisableConsole: false,
	}

	defaultLoggerLock sync.Mutex
	defaultLogger     *logrus.Logger
)

/*
SetDefaultConfig 设置之后 NewLogger 使用的配置，同时重置 Default 返回的 Logger。
*/
func SetDefaultConfig(config *Config) {
	configLock.Lock()
	defaultConfig = *config
	configLock.Unlock()

	defaultLoggerLock.Lock()
	defaultLogger = nil
	defaultLoggerLock.Unlock()
}

func currentConfig() Config {
	configLock.RLock()
	defer configLock.RUnlock()
	return defaultConfig
}

/*
NewLogger 按照默认配置创建一个新的 Logger。控制台和文件各自通过 hook 按级别过滤。
*/
func NewLogger() *logrus.Logger {
	return newLoggerWithConfig(currentConfig())
}

func newLoggerWithConfig(config Config) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	level := logrus.PanicLevel
	if !config.DisableConsole {
		logger.AddHook(newWriterHook(os.Stdout, config.ConsoleLevel, &logrus.TextFormatter{FullTimestamp: true}))
		level = maxLevel(level, config.ConsoleLevel)
	}

	if config.FileDir != "" {
		logger.AddHook(newWriterHook(sharedFileWriter(config.FileDir), config.FileLevel, &logrus.JSONFormatter{}))
		level = maxLevel(level, config.FileLevel)
	}

	logger.SetLevel(level)
	return logger
}

/*
Default 返回进程内共享的 Logger。
*/
func Default() *logrus.Logger {
	defaultLoggerLock.Lock()
	defer defaultLoggerLock.Unlock()

	if defaultLogger == nil {
		defaultLogger = NewLogger()
	}
	return defaultLogger
}

func maxLevel(a, b logrus.Level) logrus.Level {
	if a > b {
		return a
	}
	return b
}
