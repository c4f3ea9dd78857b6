// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package log 日志相关接口以及函数
package log

import (
	"os"
	"sync"

	"github.com/33cn/paraxcm/types"
	"github.com/inconshreveable/log15"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	mu sync.Mutex
	// current rotating file, closed when the handlers are replaced
	rotateLogger *lumberjack.Logger
)

//SetLogLevel 设置控制台日志输出级别
func SetLogLevel(logLevel string) {
	install(consoleHandler(logLevel), nil)
}

//SetFileLog 设置文件日志和控制台日志信息
func SetFileLog(cfg *types.Log) {
	if cfg == nil {
		cfg = &types.Log{LogFile: "logs/paraxcm.log"}
	}
	fillDefaultValue(cfg)
	if cfg.LogFile == "" {
		SetLogLevel(cfg.LogConsoleLevel)
		return
	}
	w := &lumberjack.Logger{
		Filename:   cfg.LogFile,
		MaxSize:    int(cfg.MaxFileSize),
		MaxBackups: int(cfg.MaxBackups),
		MaxAge:     int(cfg.MaxAge),
		LocalTime:  cfg.LocalTime,
		Compress:   cfg.Compress,
	}
	install(log15.MultiHandler(consoleHandler(cfg.LogConsoleLevel), fileHandler(cfg, w)), w)
}

// install swaps the root handler and the open log file.
func install(h log15.Handler, w *lumberjack.Logger) {
	mu.Lock()
	defer mu.Unlock()
	log15.Root().SetHandler(h)
	if rotateLogger != nil {
		rotateLogger.Close()
	}
	rotateLogger = w
}

// 默认error级别，防止打印太多日志
func fillDefaultValue(cfg *types.Log) {
	if cfg.Loglevel == "" {
		cfg.Loglevel = log15.LvlError.String()
	}
	if cfg.LogConsoleLevel == "" {
		cfg.LogConsoleLevel = log15.LvlError.String()
	}
}

func consoleHandler(logLevel string) log15.Handler {
	format := log15.TerminalFormat()
	if os.PathSeparator == '\\' {
		format = log15.LogfmtFormat()
	}
	return log15.LvlFilterHandler(getLevel(logLevel), log15.StreamHandler(os.Stdout, format))
}

func fileHandler(cfg *types.Log, w *lumberjack.Logger) log15.Handler {
	h := log15.LvlFilterHandler(getLevel(cfg.Loglevel), log15.StreamHandler(w, log15.LogfmtFormat()))
	if cfg.CallerFile {
		h = log15.CallerFileHandler(h)
	}
	if cfg.CallerFunction {
		h = log15.CallerFuncHandler(h)
	}
	return h
}

// unknown levels fall back to error
func getLevel(lvl string) log15.Lvl {
	l, err := log15.LvlFromString(lvl)
	if err != nil {
		return log15.LvlError
	}
	return l
}

//New new
func New(ctx ...interface{}) log15.Logger {
	return log15.Root().New(ctx...)
}
