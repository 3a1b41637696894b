package germplasm

import (
	"errors"
	"fmt"
)

/*
ErrorKind 可恢复错误的分类。出现任何一种都会使本次运行最终回滚，但不会中断后续行的处理。
*/
type ErrorKind string

const (
	KindInsufficientFields      ErrorKind = "InsufficientFields"
	KindRequiredFieldEmpty      ErrorKind = "RequiredFieldEmpty"
	KindOrganismNotFound        ErrorKind = "OrganismNotFound"
	KindAmbiguousOrganism       ErrorKind = "AmbiguousOrganism"
	KindAmbiguousAccession      ErrorKind = "AmbiguousAccession"
	KindCodeMismatch            ErrorKind = "CodeMismatch"
	KindNameMismatch            ErrorKind = "NameMismatch"
	KindTypeMismatch            ErrorKind = "TypeMismatch"
	KindInsertFailed            ErrorKind = "InsertFailed"
	KindUpdateFailed            ErrorKind = "UpdateFailed"
	KindAuthorityNotFound       ErrorKind = "AuthorityNotFound"
	KindAmbiguousAuthority      ErrorKind = "AmbiguousAuthority"
	KindAmbiguousCrossReference ErrorKind = "AmbiguousCrossReference"
	KindCrossReferenceConflict  ErrorKind = "CrossReferenceConflict"
	KindUnknownPropertyKind     ErrorKind = "UnknownPropertyKind"
	KindAmbiguousSynonym        ErrorKind = "AmbiguousSynonym"
	KindAmbiguousSynonymLink    ErrorKind = "AmbiguousSynonymLink"
	KindAmbiguousRelationship   ErrorKind = "AmbiguousRelationship"

	// KindStoreFailure 处理某一行时数据库返回了意料之外的错误
	KindStoreFailure ErrorKind = "StoreFailure"
)

/*
ImportError 一条可恢复错误。

	Kind 错误分类；
	Line 出错的行号，从 1 开始，0 表示与具体行无关；
	Message 面向用户的完整信息；
	Err 底层错误，可以为空；
*/
type ImportError struct {
	Kind    ErrorKind
	Line    int
	Message string
	Err     error
}

func (e *ImportError) Error() string {
	return e.Message
}

func (e *ImportError) Unwrap() error {
	return e.Err
}

func newImportError(kind ErrorKind, format string, args ...interface{}) *ImportError {
	return &ImportError{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
	}
}

func (e *ImportError) withCause(err error) *ImportError {
	e.Err = err
	return e
}

// 前置条件错误，运行在读取输入之前直接终止
var (
	ErrGenusRequired        = errors.New("genus is required")
	ErrInputUnavailable     = errors.New("input file unavailable")
	ErrRequiredTableMissing = errors.New("required table missing")
	ErrVocabularyIncomplete = errors.New("vocabulary incomplete")
)

/*
PreconditionError 前置条件不满足。Resource 为缺失的资源（文件路径、表名或词汇键），
可以用 errors.Is 与上面的哨兵错误比较。
*/
type PreconditionError struct {
	Err      error
	Resource string
	Cause    error
}

func (e *PreconditionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %s", e.Err, e.Resource, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Err, e.Resource)
}

func (e *PreconditionError) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Err, e.Cause}
	}
	return []error{e.Err}
}

// ErrUnresolvedErrors 输入处理完毕但存在错误，所有写入已回滚
var ErrUnresolvedErrors = errors.New("errors present, fix and retry")
