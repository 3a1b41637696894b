package germplasm

import (
	"context"
	"io"
	"sync"

	"github.com/sirupsen/logrus"
)

/*
ImportSetting 导入依赖的外部协作者。

	GetDatabase 关系存储；
	Vocabulary 受控词汇映射；
	Sink 额外的事件接收者，日志始终会写入 Logger；
	OpenInput 打开输入文件，为空时按本地路径打开；
	AfterRun 每次运行结束后调用，用于指标统计等；
*/
type ImportSetting struct {
	GetDatabase func() Database
	Logger      *logrus.Logger
	Vocabulary  Vocabulary
	Sink        EventSink
	OpenInput   func(ctx context.Context, location string) (io.ReadCloser, error)
	AfterRun    []func(result *ImportResult, err error)
}

var (
	globalSetting ImportSetting

	// 同一时刻只允许一次运行占用数据库
	runLock sync.Mutex
)

func Init(setting *ImportSetting) {
	globalSetting = *setting
}

/*
ImportFile 使用全局配置导入一个文件，多次调用会被串行化。
*/
func ImportFile(ctx context.Context, config *ImportConfig) (*ImportResult, error) {
	runLock.Lock()
	defer runLock.Unlock()

	return importFile(&globalSetting, ctx, config)
}
