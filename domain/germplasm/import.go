package germplasm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"germplasm-accession-importer/logging"
	"germplasm-accession-importer/utils"
	"github.com/google/uuid"
)

/*
ImportConfig 一次运行的参数。

	Location 输入文件位置，本地路径或 OpenInput 能识别的地址；
	Genus 属名，由操作者提供，文件中只有种名；
	DryRun 完整校验但始终回滚；
	RunID 为空时自动生成；
	Sink 只接收本次运行的事件，可以为空；
*/
type ImportConfig struct {
	Location string
	Genus    string
	DryRun   bool
	RunID    string
	Sink     EventSink
}

var errRollback = errors.New("rollback requested")

func importFile(setting *ImportSetting, ctx context.Context, config *ImportConfig) (result *ImportResult, err error) {
	if setting.Logger == nil {
		withLogger := *setting
		withLogger.Logger = logging.Default()
		setting = &withLogger
	}

	runID := config.RunID
	if runID == "" {
		runID = uuid.NewString()
	}

	result = &ImportResult{
		RunID:     runID,
		Location:  config.Location,
		Genus:     config.Genus,
		DryRun:    config.DryRun,
		State:     StateIdle,
		StartTime: time.Now(),
	}

	sink := MultiSink{NewLoggerSink(setting.Logger), setting.Sink, config.Sink}

	defer func() {
		result.FinishTime = time.Now()
		for _, hook := range setting.AfterRun {
			hook(result, err)
		}
	}()

	db, input, err := prepareRun(setting, ctx, config)
	if err != nil {
		sink.Emit(Event{RunID: runID, Level: LevelError, Message: err.Error(), Time: time.Now()})
		return result, err
	}
	defer input.Close()

	imp := newImporter(setting, ctx, config, result, sink)
	imp.input = input

	result.State = StateReading
	err = db.Transaction(ctx, imp.run)
	result.State = StateDone

	switch {
	case err == nil:
		result.Committed = true
		imp.notice(0, fmt.Sprintf("Import of %s complete: %d accession(s) processed, %d inserted.",
			config.Location, len(result.Accessions), result.Stats.StocksInserted))
		return result, nil

	case errors.Is(err, errRollback) && result.HasErrors():
		imp.emit(LevelError, "", 0, ErrUnresolvedErrors.Error())
		return result, ErrUnresolvedErrors

	case errors.Is(err, errRollback):
		imp.notice(0, fmt.Sprintf("Dry run of %s complete: no errors found, no changes were committed.", config.Location))
		return result, nil

	default:
		return result, utils.WrapError(err, "import transaction fail")
	}
}

/*
prepareRun 检查前置条件并打开输入文件，任何一项不满足都直接返回，不进入逐行处理。
*/
func prepareRun(setting *ImportSetting, ctx context.Context, config *ImportConfig) (Database, io.ReadCloser, error) {
	if strings.TrimSpace(config.Genus) == "" {
		return nil, nil, &PreconditionError{Err: ErrGenusRequired, Resource: "genus"}
	}

	if missing := MissingVocabulary(setting.Vocabulary, VocabAccession); len(missing) > 0 {
		return nil, nil, &PreconditionError{Err: ErrVocabularyIncomplete, Resource: string(missing[0])}
	}

	db := setting.GetDatabase()
	if missing := db.MissingTables(ctx); len(missing) > 0 {
		return nil, nil, &PreconditionError{Err: ErrRequiredTableMissing, Resource: strings.Join(missing, ", ")}
	}

	open := setting.OpenInput
	if open == nil {
		open = openLocalFile
	}

	input, err := open(ctx, config.Location)
	if err != nil {
		return nil, nil, &PreconditionError{Err: ErrInputUnavailable, Resource: config.Location, Cause: err}
	}

	return db, input, nil
}

func openLocalFile(_ context.Context, location string) (io.ReadCloser, error) {
	return os.Open(location)
}
