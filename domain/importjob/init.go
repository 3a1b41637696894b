package importjob

import (
	"context"

	"germplasm-accession-importer/repository/filesource"
	"germplasm-accession-importer/utils"
	"github.com/google/uuid"
)

/*
Config 任务队列配置，Enable 为 false 时不连接 RabbitMQ，Submit 返回 ErrClosed。

	AllowedDirs 任务中的本地文件必须位于这些目录下，s3:// 地址总是允许；
	UploadDir 上传文件的保存目录，其中的文件在任务结束后删除；
*/
type Config struct {
	Enable      bool               `yaml:"enable"`
	RabbitMQ    MQConnectionConfig `yaml:"rabbitmq"`
	AllowedDirs []string           `yaml:"allowed_dirs"`
	UploadDir   string             `yaml:"upload_dir"`
}

const (
	QueueImportJob    = "germplasm_import_job"
	QueueImportResult = "germplasm_import_result"
)

var (
	globalMQManager *rabbitMQManager
	stopListening   context.CancelFunc

	locationPolicy filesource.LocationPolicy
	uploadPolicy   filesource.LocationPolicy
)

func Init(config *Config) {
	dirs := append([]string{config.UploadDir}, config.AllowedDirs...)
	locationPolicy = filesource.LocationPolicy{Dirs: dirs}
	uploadPolicy = filesource.LocationPolicy{Dirs: []string{config.UploadDir}}

	if !config.Enable {
		return
	}

	var err error
	globalMQManager, err = newRabbitMQManager(config.RabbitMQ.ToURL(), []string{
		QueueImportJob,
		QueueImportResult,
	})
	if err != nil {
		panic(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	stopListening = cancel

	err = globalMQManager.ListenOn(QueueImportJob, buildReceive(ctx, publishResult))
	if err != nil {
		panic(err)
	}
}

func Close() {
	if stopListening != nil {
		stopListening()
	}

	if globalMQManager != nil {
		err := globalMQManager.Close()
		if err != nil {
			globalMQManager.logger.WithError(err).Errorf("globalMQManager close fail")
		}
		globalMQManager = nil
	}
}

func publishResult(ret *ResultSchema) error {
	return globalMQManager.PublishJSON(QueueImportResult, ret.JobID, ret)
}

/*
Submit 将任务放入队列，JobID 为空时生成一个，返回任务 ID
*/
func Submit(job JobSchema) (string, error) {
	if globalMQManager == nil {
		return "", ErrClosed
	}

	if job.JobID == "" {
		job.JobID = uuid.NewString()
	}

	if err := globalMQManager.PublishJSON(QueueImportJob, job.JobID, job); err != nil {
		return "", utils.WrapErrorf(err, "submit job [%s] fail", job.JobID)
	}

	return job.JobID, nil
}
