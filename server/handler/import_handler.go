package handler

import (
	"errors"
	"net/http"
	"os"

	"germplasm-accession-importer/domain/germplasm"
	"germplasm-accession-importer/logging"
	"germplasm-accession-importer/server/common"
	"germplasm-accession-importer/utils"
	"github.com/gin-gonic/gin"
)

/*
ImportFile 同步导入：提交时返回 200，回滚时返回 422，参数错误或前置条件不满足时返回 400
*/
func ImportFile(ctx *gin.Context) {
	handler := importFileHandler{
		ctx: ctx,
	}

	if err := handler.checkParam(); err != nil {
		logging.Default().WithError(err).Errorf("parse req error: %s", err.Error())
		ctx.JSON(http.StatusBadRequest, common.MakeErrorResp(common.CodeBadParam, err.Error(), nil))
		return
	}
	defer handler.cleanup()

	result, err := handler.produce()
	resp := newImportResp(result, handler.recorder.Events())

	var precondition *germplasm.PreconditionError
	switch {
	case err == nil:
		ctx.JSON(http.StatusOK, common.MakeSuccessResp(resp))
	case errors.Is(err, germplasm.ErrUnresolvedErrors):
		ctx.JSON(http.StatusUnprocessableEntity, common.MakeErrorResp(common.CodeImportFailed, err.Error(), resp))
	case errors.As(err, &precondition):
		ctx.JSON(http.StatusBadRequest, common.MakeErrorResp(common.CodeBadParam, err.Error(), resp))
	default:
		logging.Default().WithError(err).Errorf("produce error: %s", err.Error())
		ctx.JSON(http.StatusInternalServerError, common.MakeUnknownErrorResp())
	}
}

type importFileHandler struct {
	ctx *gin.Context

	// params
	params importParams

	savedPath string
	recorder  germplasm.EventRecorder
}

func (h *importFileHandler) checkParam() error {
	params, err := parseImportParams(h.ctx)
	if err != nil {
		return err
	}

	h.params = params
	return nil
}

func (h *importFileHandler) produce() (*germplasm.ImportResult, error) {
	location := h.params.location
	if h.params.fileData != nil {
		path, err := saveUpload(&h.params)
		if err != nil {
			return nil, utils.WrapError(err, "save upload fail")
		}
		h.savedPath = path
		location = path
	}

	return germplasm.ImportFile(h.ctx.Request.Context(), &germplasm.ImportConfig{
		Location: location,
		Genus:    h.params.genus,
		DryRun:   h.params.dryRun,
		Sink:     &h.recorder,
	})
}

func (h *importFileHandler) cleanup() {
	if h.savedPath == "" {
		return
	}
	if err := os.Remove(h.savedPath); err != nil {
		logging.Default().WithError(err).Warnf("remove upload [%s] fail", h.savedPath)
	}
}
