package common

import (
	"errors"
)

const (
	CodeSuccess      = 0
	CodeUnknownError = 1
	CodeBadParam     = 2
	CodeImportFailed = 3
)

var (
	ErrContentTypeNotMultipartFormData = errors.New("content-type is not multipart/form-data")
	ErrMissingParam                    = errors.New("missing param")
)

type Resp struct {
	Code int         `json:"code"`
	Msg  string      `json:"msg"`
	Data interface{} `json:"data,omitempty"`
}

func MakeSuccessResp(data interface{}) Resp {
	return Resp{Code: CodeSuccess, Msg: "success", Data: data}
}

func MakeUnknownErrorResp() Resp {
	return Resp{Code: CodeUnknownError, Msg: "unknown error"}
}

func MakeErrorResp(code int, msg string, data interface{}) Resp {
	return Resp{Code: code, Msg: msg, Data: data}
}
