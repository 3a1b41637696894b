package importjob

import (
	"context"
	"encoding/json"
	"errors"
	"os"

	"germplasm-accession-importer/domain/germplasm"
	"germplasm-accession-importer/logging"
	"germplasm-accession-importer/repository/neograph"
	"germplasm-accession-importer/utils"
	emailutils "germplasm-accession-importer/utils/email"
	"github.com/google/uuid"
	"github.com/streadway/amqp"
)

var errEmptyBody = errors.New("message body is empty")

/*
runJob 执行一个导入任务并汇总结果，任务 ID 同时作为运行 ID
*/
func runJob(ctx context.Context, job *JobSchema) *ResultSchema {
	if err := locationPolicy.Check(job.Location); err != nil {
		logging.Default().WithError(err).Errorf("reject job [%s]", job.JobID)
		return &ResultSchema{
			JobID:    job.JobID,
			Location: job.Location,
			Error:    err.Error(),
		}
	}

	recorder := &germplasm.EventRecorder{}

	result, err := germplasm.ImportFile(ctx, &germplasm.ImportConfig{
		Location: job.Location,
		Genus:    job.Genus,
		DryRun:   job.DryRun,
		RunID:    job.JobID,
		Sink:     recorder,
	})

	ret := &ResultSchema{
		JobID:    job.JobID,
		Location: job.Location,
		Result:   result,
		Events:   recorder.Events(),
	}
	if result != nil {
		ret.Committed = result.Committed
		ret.Stats = result.Stats
	}
	if err != nil {
		ret.Error = err.Error()
	}

	return ret
}

/*
projectResult 将已提交运行中的 accession 和同义关系同步到图数据库，未启用时跳过
*/
func projectResult(result *germplasm.ImportResult) error {
	if result == nil || !result.Committed || !neograph.Enabled() {
		return nil
	}

	nodes := make([]neograph.AccessionNode, len(result.Accessions))
	for i, accession := range result.Accessions {
		nodes[i] = neograph.AccessionNode{
			StockID:    accession.StockID,
			Name:       accession.Name,
			Uniquename: accession.Uniquename,
			OrganismID: accession.OrganismID,
		}
	}

	edges := make([]neograph.SynonymEdge, len(result.Relationships))
	for i, rel := range result.Relationships {
		edges[i] = neograph.SynonymEdge{SubjectID: rel.SubjectID, ObjectID: rel.ObjectID}
	}

	return neograph.MergeAccessions(nodes, edges)
}

/*
finishJob 任务结束后的收尾：删除上传的文件、发布结果、同步图数据库、发送邮件。
各项互不影响，只记录日志。
*/
func finishJob(job *JobSchema, ret *ResultSchema, publish func(ret *ResultSchema) error) {
	logger := logging.Default().WithField("job_id", job.JobID)

	if uploadPolicy.Contains(job.Location) {
		if err := os.Remove(job.Location); err != nil && !os.IsNotExist(err) {
			logger.WithError(err).Errorf("remove upload [%s] fail", job.Location)
		}
	}

	if err := publish(ret); err != nil {
		logger.WithError(err).Errorf("publish result of job [%s] fail", job.JobID)
	}

	if err := projectResult(ret.Result); err != nil {
		logger.WithError(err).Errorf("project result of job [%s] to graph fail", job.JobID)
	}

	if job.Email == "" || !emailutils.Enabled() {
		return
	}
	if err := sendImportResultEmail(job.Email, ret); err != nil {
		logger.WithError(err).Errorf("send result email of job [%s] fail", job.JobID)
	}
}

func buildReceive(ctx context.Context, publish func(ret *ResultSchema) error) func(msg *amqp.Delivery) error {
	return func(msg *amqp.Delivery) error {
		if len(msg.Body) == 0 {
			return utils.WrapError(errEmptyBody, "msg.Body is empty")
		}

		var job JobSchema
		if err := json.Unmarshal(msg.Body, &job); err != nil {
			return utils.WrapErrorf(err, "json unmarshal fail with [%s]", string(msg.Body))
		}
		if job.JobID == "" {
			job.JobID = msg.MessageId
		}
		if job.JobID == "" {
			job.JobID = uuid.NewString()
		}

		ret := runJob(ctx, &job)
		finishJob(&job, ret, publish)
		return nil
	}
}
