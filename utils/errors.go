package utils

import (
	"github.com/rotisserie/eris"
)

/*
WrapError 为 err 附加上下文信息和调用栈，err 为 nil 时返回 nil
*/
func WrapError(err error, msg string) error {
	if err == nil {
		return nil
	}
	return eris.Wrap(err, msg)
}

func WrapErrorf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return eris.Wrapf(err, format, args...)
}
