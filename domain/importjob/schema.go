package importjob

import (
	"germplasm-accession-importer/domain/germplasm"
)

/*
JobSchema 导入任务消息。

	Location 输入文件位置，可以是 s3://bucket/key；
	Email 运行结束后接收汇总邮件的地址，可以为空；
*/
type JobSchema struct {
	JobID    string `json:"job_id"`
	Location string `json:"location"`
	Genus    string `json:"genus"`
	DryRun   bool   `json:"dry_run"`
	Email    string `json:"email,omitempty"`
}

/*
ResultSchema 导入结果消息，Events 包含本次运行的全部通知和错误。
*/
type ResultSchema struct {
	JobID     string                  `json:"job_id"`
	Location  string                  `json:"location"`
	Committed bool                    `json:"committed"`
	Error     string                  `json:"error,omitempty"`
	Stats     germplasm.ImportStats   `json:"stats"`
	Result    *germplasm.ImportResult `json:"result,omitempty"`
	Events    []germplasm.Event       `json:"events"`
}
