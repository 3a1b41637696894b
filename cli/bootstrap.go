package cli

import (
	"context"

	"germplasm-accession-importer/config"
	"germplasm-accession-importer/domain/germplasm"
	"germplasm-accession-importer/logging"
	"germplasm-accession-importer/metrics"
	"germplasm-accession-importer/repository/chado"
	"germplasm-accession-importer/repository/filesource"
	"germplasm-accession-importer/utils"
)

/*
loadConfig 读取配置并设置全局日志
*/
func loadConfig(opts *rootOptions) (*config.AppConfig, error) {
	appConfig, err := config.Load(opts.configPath)
	if err != nil {
		return nil, withCode(exitUsage, utils.WrapError(err, "load config fail"))
	}

	logging.SetDefaultConfig(&appConfig.Logging)
	return appConfig, nil
}

/*
initImporter 连接数据库并装配导入器：
事件同时进入日志和指标，输入通过 filesource 打开，每次运行结束后记录指标
*/
func initImporter(appConfig *config.AppConfig) error {
	database, err := chado.CreateDatabase(&appConfig.Database)
	if err != nil {
		return withCode(exitFailure, utils.WrapError(err, "connect database fail"))
	}

	source, err := filesource.New(context.Background(), &appConfig.FileSource)
	if err != nil {
		return withCode(exitFailure, utils.WrapError(err, "create file source fail"))
	}

	collector := metrics.Default()
	germplasm.Init(&germplasm.ImportSetting{
		GetDatabase: func() germplasm.Database {
			return germplasm.NewChadoDatabase(database)
		},
		Logger:     logging.NewLogger(),
		Vocabulary: germplasm.NewVocabularyMap(appConfig.Vocabulary),
		Sink:       collector,
		OpenInput:  source.Open,
		AfterRun:   []func(result *germplasm.ImportResult, err error){collector.ObserveRun},
	})

	return nil
}
