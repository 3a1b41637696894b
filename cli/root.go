package cli

import (
	"errors"
	"fmt"
	"os"

	"germplasm-accession-importer/domain/germplasm"
	"github.com/spf13/cobra"
)

const (
	exitOK         = 0
	exitUnresolved = 1
	exitUsage      = 2
	exitFailure    = 3
)

type codedError struct {
	code int
	err  error
}

func (e *codedError) Error() string {
	return e.err.Error()
}

func (e *codedError) Unwrap() error {
	return e.err
}

func withCode(code int, err error) error {
	if err == nil {
		return nil
	}
	return &codedError{code: code, err: err}
}

/*
exitCodeOf 将命令返回的错误映射为进程退出码：
存在未解决的行错误为 1，参数或前置条件问题为 2，其余为 3
*/
func exitCodeOf(err error) int {
	if err == nil {
		return exitOK
	}

	var coded *codedError
	if errors.As(err, &coded) {
		return coded.code
	}

	var precondition *germplasm.PreconditionError
	switch {
	case errors.Is(err, germplasm.ErrUnresolvedErrors):
		return exitUnresolved
	case errors.As(err, &precondition):
		return exitUsage
	default:
		return exitFailure
	}
}

type rootOptions struct {
	configPath string
}

func NewRootCmd() *cobra.Command {
	var opts rootOptions

	cmd := &cobra.Command{
		Use:           "germplasm-importer",
		Short:         "Import germplasm accessions into a Chado database",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to the YAML config file")
	cmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return withCode(exitUsage, err)
	})

	cmd.AddCommand(newImportCmd(&opts))
	cmd.AddCommand(newServeCmd(&opts))
	cmd.AddCommand(newMigrateCmd(&opts))

	return cmd
}

/*
Execute 运行根命令并返回退出码
*/
func Execute() int {
	err := NewRootCmd().Execute()
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "error:", err)
	}
	return exitCodeOf(err)
}
