package handler

import (
	"errors"
	"net/http"

	"germplasm-accession-importer/domain/importjob"
	"germplasm-accession-importer/logging"
	"germplasm-accession-importer/server/common"
	"germplasm-accession-importer/utils"
	"github.com/gin-gonic/gin"
)

/*
SubmitImport 保存上传的文件并提交导入任务，结果通过结果队列和邮件通知
*/
func SubmitImport(ctx *gin.Context) {
	handler := submitImportHandler{
		ctx: ctx,
	}

	if err := handler.checkParam(); err != nil {
		logging.Default().WithError(err).Errorf("parse req error: %s", err.Error())
		ctx.JSON(http.StatusBadRequest, common.MakeErrorResp(common.CodeBadParam, err.Error(), nil))
		return
	}

	jobID, err := handler.produce()
	if errors.Is(err, importjob.ErrClosed) {
		ctx.JSON(http.StatusServiceUnavailable, common.MakeErrorResp(common.CodeUnknownError, "job queue not available", nil))
		return
	}
	if err != nil {
		logging.Default().WithError(err).Errorf("produce error: %s", err.Error())
		ctx.JSON(http.StatusInternalServerError, common.MakeUnknownErrorResp())
		return
	}

	ctx.JSON(http.StatusOK, common.MakeSuccessResp(gin.H{"job_id": jobID}))
}

type submitImportHandler struct {
	ctx *gin.Context

	// params
	params importParams
}

func (h *submitImportHandler) checkParam() error {
	params, err := parseImportParams(h.ctx)
	if err != nil {
		return err
	}

	h.params = params
	return nil
}

func (h *submitImportHandler) produce() (string, error) {
	location := h.params.location
	if h.params.fileData != nil {
		path, err := saveUpload(&h.params)
		if err != nil {
			return "", utils.WrapError(err, "save upload fail")
		}
		location = path
	}

	return importjob.Submit(importjob.JobSchema{
		Location: location,
		Genus:    h.params.genus,
		DryRun:   h.params.dryRun,
		Email:    h.params.email,
	})
}
