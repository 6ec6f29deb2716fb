package main

import (
	"io"
	"os"
	"path"

	"github.com/sirupsen/logrus"

	"github.com/fansqz/lua-debugger/utils"
)

var logFile *os.File

// SetupLogger 把logrus输出落到文件
// stdout被DAP协议占用，诊断日志绝不能混进协议流里
func SetupLogger(logPath string) {
	if logPath == "" {
		logPath = path.Join(os.TempDir(), "luadebugger-"+utils.GetUUID()+".log")
	}
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		// 日志文件打不开就丢弃日志，stderr同样可能被客户端捕获
		logrus.SetOutput(io.Discard)
		return
	}
	logFile = file
	logrus.SetOutput(file)
	logrus.SetLevel(logrus.DebugLevel)
}

func CloseLogger() {
	if logFile != nil {
		_ = logFile.Close()
	}
}
