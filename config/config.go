package config

import (
	"os"

	"germplasm-accession-importer/domain/importjob"
	"germplasm-accession-importer/logging"
	"germplasm-accession-importer/repository/chado"
	"germplasm-accession-importer/repository/filesource"
	"germplasm-accession-importer/repository/neograph"
	"germplasm-accession-importer/server"
	"germplasm-accession-importer/utils"
	"germplasm-accession-importer/utils/email"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

/*
AppConfig 整个程序的配置，每一节对应一个包自己的 Config。

	Vocabulary 词汇键到 cvterm_id 的映射，键见 germplasm.AllVocabularyKeys；
*/
type AppConfig struct {
	Database   chado.Config      `yaml:"database"`
	Vocabulary map[string]uint   `yaml:"vocabulary"`
	Logging    logging.Config    `yaml:"logging"`
	Server     server.Config     `yaml:"server"`
	Job        importjob.Config  `yaml:"job"`
	Email      email.Config      `yaml:"email"`
	FileSource filesource.Config `yaml:"file_source"`
	Graph      neograph.Config   `yaml:"graph"`
}

/*
Default 本地开发用的默认配置：sqlite 文件库，不连接外部服务
*/
func Default() *AppConfig {
	return &AppConfig{
		Database: chado.Config{
			Driver:         chado.DriverSQLite,
			SQLite:         chado.SQLiteConfig{Path: "germplasm.db"},
			CheckMigration: true,
		},
		Vocabulary: map[string]uint{},
		Logging: logging.Config{
			FileLevel:      logrus.DebugLevel,
			ConsoleLevel:   logrus.InfoLevel,
			FileDir:        "logs",
			DisableConsole: false,
		},
		Server: server.Config{
			Port:      8003,
			UploadDir: "uploads",
		},
		Job: importjob.Config{
			RabbitMQ: importjob.GenerateTestMQConnectionConfig(),
		},
		FileSource: filesource.Config{S3: filesource.S3Config{Region: "us-east-1"}},
		Graph: neograph.Config{
			Neo4j: neograph.Neo4jConfig{Host: "localhost", Port: 7687, User: "neo4j"},
		},
	}
}

/*
Load 读取配置：先取默认值，path 非空时用 YAML 文件覆盖，最后应用环境变量
*/
func Load(path string) (*AppConfig, error) {
	config := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, utils.WrapErrorf(err, "read config [%s] fail", path)
		}

		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, utils.WrapErrorf(err, "parse config [%s] fail", path)
		}
	}

	if err := applyEnv(config, os.LookupEnv); err != nil {
		return nil, utils.WrapError(err, "apply environment fail")
	}

	return config, nil
}
