package handler

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"germplasm-accession-importer/domain/germplasm"
	"germplasm-accession-importer/repository/filesource"
	"germplasm-accession-importer/server/common"
	"germplasm-accession-importer/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

/*
Setting 处理器的配置。

	UploadDir 上传文件的保存目录，为空时使用系统临时目录；
	InputDir 请求中以 location 指定的本地文件必须位于该目录下，为空时只接受 s3:// 地址；
*/
type Setting struct {
	UploadDir string
	InputDir  string
}

var globalSetting Setting

func Init(setting *Setting) {
	globalSetting = *setting
}

/*
importParams 导入请求的参数，file 与 location 至少提供一个，同时提供时以 file 为准。
*/
type importParams struct {
	genus    string
	dryRun   bool
	email    string
	location string

	fileName string
	fileData []byte
}

func parseImportParams(ctx *gin.Context) (importParams, error) {
	var ret importParams

	contentType := ctx.GetHeader("Content-Type")
	if !strings.Contains(contentType, "multipart/form-data") {
		return ret, utils.WrapErrorf(common.ErrContentTypeNotMultipartFormData,
			"actual Content-Type = [%s] not 'multipart/form-data'", contentType)
	}

	ret.genus = strings.TrimSpace(ctx.PostForm("genus"))
	if ret.genus == "" {
		return ret, utils.WrapError(common.ErrMissingParam, "genus is required")
	}

	dryRun, err := utils.ParseBool(ctx.PostForm("dry_run"))
	if err != nil {
		return ret, utils.WrapErrorf(err, "parse dry_run [%s] fail", ctx.PostForm("dry_run"))
	}
	ret.dryRun = dryRun
	ret.email = strings.TrimSpace(ctx.PostForm("email"))
	ret.location = strings.TrimSpace(ctx.PostForm("location"))

	header, err := ctx.FormFile("file")
	if err == nil {
		file, err := header.Open()
		if err != nil {
			return ret, utils.WrapError(err, "open multipart file fail")
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			return ret, utils.WrapError(err, "read multipart file fail")
		}

		ret.fileName = header.Filename
		ret.fileData = data
		return ret, nil
	}

	if ret.location == "" {
		return ret, utils.WrapError(common.ErrMissingParam, "either file or location is required")
	}

	policy := filesource.LocationPolicy{Dirs: []string{globalSetting.InputDir}}
	if err := policy.Check(ret.location); err != nil {
		return ret, utils.WrapError(err, "check location fail")
	}
	return ret, nil
}

/*
saveUpload 将上传的文件保存到 UploadDir，返回保存后的路径
*/
func saveUpload(params *importParams) (string, error) {
	dir := globalSetting.UploadDir
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", utils.WrapErrorf(err, "create upload dir [%s] fail", dir)
	}

	path := filepath.Join(dir, uuid.NewString()+filepath.Ext(params.fileName))
	if err := os.WriteFile(path, params.fileData, 0644); err != nil {
		return "", utils.WrapErrorf(err, "write upload [%s] fail", path)
	}

	return path, nil
}

type importErrorItem struct {
	Line    int                 `json:"line"`
	Kind    germplasm.ErrorKind `json:"kind"`
	Message string              `json:"message"`
}

type importResp struct {
	Result *germplasm.ImportResult `json:"result"`
	Errors []importErrorItem       `json:"errors"`
	Events []germplasm.Event       `json:"events"`
}

func newImportResp(result *germplasm.ImportResult, events []germplasm.Event) importResp {
	ret := importResp{
		Result: result,
		Errors: make([]importErrorItem, 0),
		Events: events,
	}
	if result == nil {
		return ret
	}

	for _, err := range result.Errors {
		ret.Errors = append(ret.Errors, importErrorItem{
			Line:    err.Line,
			Kind:    err.Kind,
			Message: err.Message,
		})
	}
	return ret
}
