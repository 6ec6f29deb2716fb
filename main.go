package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"golang.org/x/term"

	"github.com/fansqz/lua-debugger/debugger"
	"github.com/fansqz/lua-debugger/debugger/luavm"
	"github.com/fansqz/lua-debugger/utils/gosync"
)

// 定义版本号
const Version = "1.0.0"

func main() {
	showVersion := flag.Bool("version", false, "Show the version number")
	port := flag.String("port", "", "TCP port to listen on, use stdio when empty")
	logPath := flag.String("log", "", "Diagnostic log file path")
	flag.Parse()

	// 检查是否需要显示版本信息
	if *showVersion {
		fmt.Printf("Version: %s\n", Version)
		return
	}

	// 启动日志
	SetupLogger(*logPath)
	defer CloseLogger()
	watchSignals()

	var in io.Reader = os.Stdin
	var out io.Writer = os.Stdout
	if *port != "" {
		// TCP模式：监听端口，接受一个客户端连接
		listener, err := net.Listen("tcp", ":"+*port)
		if err != nil {
			fmt.Printf("listen at %s fail: %v\n", *port, err)
			os.Exit(1)
		}
		defer listener.Close()
		logrus.Infof("started listening at %s", listener.Addr().String())
		conn, err := listener.Accept()
		if err != nil {
			logrus.Errorf("accept fail, err = %v", err)
			os.Exit(1)
		}
		defer conn.Close()
		in, out = conn, conn
	} else if term.IsTerminal(int(os.Stdin.Fd())) {
		// stdio模式下stdin应该接调试客户端，人手敲不出带Content-Length的报文
		fmt.Fprintln(os.Stderr, "warning: expecting a DAP client on stdin, but stdin is a terminal")
	}

	session := debugger.NewSession(in, out, luavm.NewLuaInterpreter())
	if err := session.Run(); err != nil {
		logrus.Errorf("session stream broken, err = %v", err)
		os.Exit(1)
	}
}

// watchSignals 收到终止信号时写日志并退出
func watchSignals() {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	gosync.Go(context.Background(), func(ctx context.Context) {
		sig := <-ch
		logrus.Infof("received signal %v, exiting", sig)
		CloseLogger()
		os.Exit(0)
	})
}
