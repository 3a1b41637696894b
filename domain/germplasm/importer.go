package germplasm

import (
	"bufio"
	"context"
	"errors"
	"io"
	"time"

	"germplasm-accession-importer/utils"
)

const (
	lineSavePoint = "germplasm_line"
	maxLineBytes  = 4 * 1024 * 1024
)

/*
importer 持有一次运行的全部状态，run 在事务中被调用。
*/
type importer struct {
	config  *ImportConfig
	result  *ImportResult
	ctx     context.Context
	store   Store
	setting *ImportSetting
	sink    EventSink
	input   io.Reader
	line    int

	organismCache map[string]uint
	accessionSeen map[uint]int // stock_id -> result.Accessions 下标
	nullPubID     uint
}

func newImporter(setting *ImportSetting, ctx context.Context, config *ImportConfig, result *ImportResult, sink EventSink) *importer {
	return &importer{
		config:        config,
		result:        result,
		ctx:           ctx,
		setting:       setting,
		sink:          sink,
		organismCache: make(map[string]uint),
		accessionSeen: make(map[uint]int),
	}
}

func (b *importer) run(store Store) error {
	b.store = store

	scanner := bufio.NewScanner(b.input)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)

	lineNo := 0
	for scanner.Scan() {
		if err := b.ctx.Err(); err != nil {
			return utils.WrapError(err, "import canceled")
		}

		lineNo++
		outcome := b.importLine(lineNo, scanner.Text())
		b.collect(outcome)
	}
	if err := scanner.Err(); err != nil {
		return utils.WrapErrorf(err, "read input fail after line %d", lineNo)
	}

	b.result.State = StateEndOfInput
	if b.result.HasErrors() || b.config.DryRun {
		b.result.State = StateRollingBack
		return errRollback
	}

	b.result.State = StateCommitting
	return nil
}

func (b *importer) collect(outcome LineOutcome) {
	stats := &b.result.Stats
	stats.LinesRead++

	if outcome.Kind != LineData {
		stats.SkippedLines++
		return
	}

	stats.DataLines++
	if outcome.Failed() {
		stats.FailedLines++
	}
	b.result.Lines = append(b.result.Lines, outcome)
}

/*
importLine 处理一行。任何错误只影响本行：记录到累加器后跳过本行剩余步骤。
*/
func (b *importer) importLine(lineNo int, raw string) LineOutcome {
	b.line = lineNo
	record, kind, parseErr := ParseLine(raw, lineNo)
	outcome := LineOutcome{Line: lineNo, Kind: kind}
	if kind != LineData {
		return outcome
	}
	if parseErr != nil {
		b.fail(&outcome, parseErr)
		return outcome
	}

	outcome.Name = record.Name

	if err := b.store.SavePoint(lineSavePoint); err != nil {
		b.fail(&outcome, err)
		return outcome
	}
	snapshot := b.snapshot()

	b.processRecord(&outcome, &record)

	// 数据库报错后回到行首，使事务可以继续用于后续行的校验
	if outcome.storeFailed() {
		if err := b.store.RollbackTo(lineSavePoint); err != nil {
			b.setting.Logger.WithError(err).Errorf("rollback line %d fail", lineNo)
		} else {
			b.restore(snapshot)
		}
	}

	if err := b.store.ReleaseSavePoint(lineSavePoint); err != nil {
		b.setting.Logger.WithError(err).Errorf("release savepoint of line %d fail", lineNo)
	}

	return outcome
}

/*
lineSnapshot 行首的计数和记录长度，回滚到行首后据此撤销本行的统计
*/
type lineSnapshot struct {
	stats         ImportStats
	accessions    int
	relationships int
}

func (b *importer) snapshot() lineSnapshot {
	return lineSnapshot{
		stats:         b.result.Stats,
		accessions:    len(b.result.Accessions),
		relationships: len(b.result.Relationships),
	}
}

func (b *importer) restore(s lineSnapshot) {
	b.result.Stats = s.stats

	for _, record := range b.result.Accessions[s.accessions:] {
		delete(b.accessionSeen, record.StockID)
	}
	b.result.Accessions = b.result.Accessions[:s.accessions]
	b.result.Relationships = b.result.Relationships[:s.relationships]
}

func (b *importer) processRecord(outcome *LineOutcome, record *Record) {
	organismID, err := b.getOrganismID(b.config.Genus, record.Species, record.Subtaxon)
	if err != nil {
		b.fail(outcome, err)
		return
	}

	stockID, err := b.getStockID(record.Name, record.AccessionCode, organismID)
	if err != nil {
		b.fail(outcome, err)
		return
	}
	outcome.StockID = stockID

	if _, err := b.getDbxrefID(record.Authority, stockID, record.AccessionCode); err != nil {
		b.fail(outcome, err)
		return
	}

	for _, err := range b.loadProperties(stockID, record.Properties()) {
		b.fail(outcome, err)
	}
	if outcome.Failed() {
		return
	}

	for _, err := range b.loadSynonyms(stockID, record.Synonyms, organismID) {
		b.fail(outcome, err)
	}
}

/*
fail 将错误计入本行和整次运行的累加器，并发出错误事件。
非 ImportError 的错误来自数据库，归类为 StoreFailure。
*/
func (b *importer) fail(outcome *LineOutcome, err error) {
	var importErr *ImportError
	if !errors.As(err, &importErr) {
		name := outcome.Name
		importErr = newImportError(KindStoreFailure,
			"Unexpected error while processing \"%s\" on line # %d: %v", name, outcome.Line, err).withCause(err)
	}
	importErr.Line = outcome.Line

	outcome.Errors = append(outcome.Errors, importErr)
	b.result.Errors = append(b.result.Errors, importErr)
	b.emit(LevelError, importErr.Kind, importErr.Line, importErr.Message)
}

func (b *importer) notice(line int, message string) {
	b.emit(LevelNotice, "", line, message)
}

func (b *importer) emit(level EventLevel, kind ErrorKind, line int, message string) {
	b.sink.Emit(Event{
		RunID:   b.result.RunID,
		Level:   level,
		Kind:    kind,
		Line:    line,
		Message: message,
		Time:    time.Now(),
	})
}

func (o *LineOutcome) storeFailed() bool {
	for _, err := range o.Errors {
		switch err.Kind {
		case KindStoreFailure, KindInsertFailed, KindUpdateFailed:
			return true
		}
	}
	return false
}

/*
recordAccession 记录本次运行涉及的 accession，同一个 stock 只记录一次
*/
func (b *importer) recordAccession(record AccessionRecord) {
	if i, ok := b.accessionSeen[record.StockID]; ok {
		b.result.Accessions[i].Inserted = b.result.Accessions[i].Inserted || record.Inserted
		return
	}
	b.accessionSeen[record.StockID] = len(b.result.Accessions)
	b.result.Accessions = append(b.result.Accessions, record)
}

func (b *importer) termID(key VocabularyKey) (uint, error) {
	id, ok := b.setting.Vocabulary.TermID(key)
	if !ok {
		return 0, newImportError(KindUnknownPropertyKind,
			"No controlled vocabulary term is configured for \"%s\".", key)
	}
	return id, nil
}
