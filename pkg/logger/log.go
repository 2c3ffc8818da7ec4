/*
 * Copyright 2024 caiflower Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package logger

import (
	"fmt"
	"io"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"

	golocalv1 "github.com/caiflower/minihttp/pkg/golocal/v1"
)

const (
	_trace = iota
	_debug
	_info
	_warn
	_error
	_fatal

	TraceLevel = "TRACE"
	DebugLevel = "DEBUG"
	InfoLevel  = "INFO"
	WarnLevel  = "WARN"
	ErrorLevel = "ERROR"
	FatalLevel = "FATAL"

	_timeFormat = "2006-01-02 15:04:05"
)

type ILog interface {
	Trace(text string, v ...interface{})
	Debug(text string, v ...interface{})
	Info(text string, v ...interface{})
	Warn(text string, v ...interface{})
	Error(text string, v ...interface{})
	Fatal(text string, v ...interface{})
}

type data struct {
	timestamp time.Time
	traceID   string
	position  string
	level     string
	content   string
}

var defaultLogger = newLoggerHandler(&Config{})

func Trace(text string, v ...interface{}) {
	defaultLogger.log(TraceLevel, text, v...)
}
func Debug(text string, v ...interface{}) {
	defaultLogger.log(DebugLevel, text, v...)
}
func Info(text string, v ...interface{}) {
	defaultLogger.log(InfoLevel, text, v...)
}
func Warn(text string, v ...interface{}) {
	defaultLogger.log(WarnLevel, text, v...)
}
func Error(text string, v ...interface{}) {
	defaultLogger.log(ErrorLevel, text, v...)
}
func Fatal(text string, v ...interface{}) {
	defaultLogger.log(FatalLevel, text, v...)
}

type Config struct {
	Level       string    `yaml:"level"`       // 日志级别
	EnableTrace string    `yaml:"trace"`       // 是否输出TraceID, True/False。默认True
	QueueLength int       `yaml:"queueLength"` // 缓存队列大小，默认50000
	AppenderNum int       `yaml:"appenderNum"` // 日志输出协程数量，默认2
	TimeFormat  string    `yaml:"timeFormat"`  // 日志时间输出格式
	Path        string    `yaml:"path"`        // 日志存储目录，为空时输出到控制台
	FileName    string    `yaml:"fileName"`    // 日志文件名称
	EnableColor string    `yaml:"color"`       // 是否开启颜色
	Output      io.Writer `yaml:"-"`           // 指定输出，优先于Path
}

type LoggerHandler struct {
	lock        sync.RWMutex
	level       int
	dataQueue   chan data
	logAppender Appender
	running     sync.WaitGroup
}

func DefaultLogger() *LoggerHandler {
	return defaultLogger
}

func InitLogger(config *Config) {
	old := defaultLogger
	defaultLogger = newLoggerHandler(config)
	if old != nil {
		old.Close()
	}
}

func NewLogger(config *Config) *LoggerHandler {
	return newLoggerHandler(config)
}

func newLoggerHandler(config *Config) *LoggerHandler {
	if config.Level == "" {
		config.Level = InfoLevel
	}
	if config.QueueLength == 0 {
		config.QueueLength = 50000
	}
	if config.AppenderNum <= 0 {
		config.AppenderNum = 2
	}
	if config.TimeFormat == "" {
		config.TimeFormat = _timeFormat
	}
	if config.FileName == "" {
		config.FileName = "app.log"
	}
	enableTrace := true
	if config.EnableTrace != "" {
		enableTrace, _ = strconv.ParseBool(config.EnableTrace)
	}
	enableColor := false
	if config.EnableColor != "" {
		enableColor, _ = strconv.ParseBool(config.EnableColor)
	}

	lh := &LoggerHandler{
		level:       getLevel(config.Level),
		dataQueue:   make(chan data, config.QueueLength),
		logAppender: newLogAppender(config.Output, config.TimeFormat, config.Path, config.FileName, enableTrace, enableColor),
	}

	for i := 0; i < config.AppenderNum; i++ {
		lh.running.Add(1)
		// Close会把dataQueue置为nil，协程只持有创建时的队列
		go func(queue chan data) {
			defer lh.running.Done()
			for d := range queue {
				lh.logAppender.write(d)
			}
		}(lh.dataQueue)
	}

	return lh
}

// Close 关闭队列并等待已入队的日志全部输出
func (lh *LoggerHandler) Close() {
	lh.lock.Lock()
	if lh.dataQueue == nil {
		lh.lock.Unlock()
		return
	}
	close(lh.dataQueue)
	lh.dataQueue = nil
	lh.lock.Unlock()

	lh.running.Wait()
	lh.logAppender.close()
}

func (lh *LoggerHandler) Trace(text string, v ...interface{}) {
	lh.log(TraceLevel, text, v...)
}

func (lh *LoggerHandler) Debug(text string, v ...interface{}) {
	lh.log(DebugLevel, text, v...)
}

func (lh *LoggerHandler) Info(text string, v ...interface{}) {
	lh.log(InfoLevel, text, v...)
}

func (lh *LoggerHandler) Warn(text string, v ...interface{}) {
	lh.log(WarnLevel, text, v...)
}

func (lh *LoggerHandler) Error(text string, v ...interface{}) {
	lh.log(ErrorLevel, text, v...)
}

func (lh *LoggerHandler) Fatal(text string, v ...interface{}) {
	lh.log(FatalLevel, text, v...)
}

var levels = []struct {
	name  string
	color string
}{
	_trace: {TraceLevel, "1;37"},
	_debug: {DebugLevel, "1;36"},
	_info:  {InfoLevel, "1;32"},
	_warn:  {WarnLevel, "1;33"},
	_error: {ErrorLevel, "1;31"},
	_fatal: {FatalLevel, "1;31"},
}

// getLevel 忽略大小写，未知级别按TRACE处理
func getLevel(level string) int {
	for i, l := range levels {
		if strings.EqualFold(l.name, level) {
			return i
		}
	}
	return _trace
}

func getLevelColor(level string) string {
	for _, l := range levels {
		if l.name == level {
			return "\033[" + l.color + "m" + level + "\033[0m"
		}
	}
	return level
}

func (lh *LoggerHandler) log(level string, text string, v ...interface{}) {
	if lh.level > getLevel(level) {
		return
	}

	_, file, line, _ := runtime.Caller(2)
	for i := len(file) - 1; i > 0; i-- {
		if file[i] == '/' {
			file = file[i+1:]
			break
		}
	}

	// 没有参数时原样输出，请求路径中可能带有%
	content := text
	if len(v) > 0 {
		content = fmt.Sprintf(text, v...)
	}

	d := data{
		timestamp: time.Now(),
		level:     level,
		content:   content,
		traceID:   golocalv1.GetTraceID(),
		position:  file + ":" + strconv.Itoa(line),
	}

	lh.lock.RLock()
	defer lh.lock.RUnlock()
	if lh.dataQueue != nil {
		lh.dataQueue <- d
	}
}
