package gosync

import (
	"context"

	"github.com/sirupsen/logrus"
)

// Go 封装的go协程工具，会兜住panic并写进诊断日志
func Go(ctx context.Context, task func(ctx context.Context)) {
	go func() {
		defer func() {
			if err := recover(); err != nil {
				logrus.Errorf("goroutine panic, err = %v", err)
			}
		}()
		task(ctx)
	}()
}
