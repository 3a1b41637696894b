package germplasm

import (
	"context"
	"errors"
	"testing"

	"germplasm-accession-importer/repository/chado"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const header = "Germplasm Name\tExternal Database\tAccession Number\tSpecies Name\tSubtaxon\tInstitute Code\tInstitute Name\tCountry of Origin Code\tBiological Status of Accession Code\tBreeding Method\tPedigree\tSynonyms"

type tableCounts map[string]int64

func (e *testEnv) counts() tableCounts {
	return tableCounts{
		"stock":              e.count(&chado.Stock{}),
		"dbxref":             e.count(&chado.Dbxref{}),
		"stockprop":          e.count(&chado.Stockprop{}),
		"synonym":            e.count(&chado.Synonym{}),
		"stock_synonym":      e.count(&chado.StockSynonym{}),
		"stock_relationship": e.count(&chado.StockRelationship{}),
	}
}

func TestImportSimpleFile(t *testing.T) {
	env := newTestEnv(t)
	path := env.writeInput(
		"# exported from the field book",
		header,
		row("Test1", "TestDB", "T1", "databasica"),
		row("Test2", "TestDB", "T2", "databasica"),
	)

	result, err := env.run(&ImportConfig{Location: path, Genus: "Tripalus", RunID: "run-a"})
	require.Nil(t, err)
	assert.True(t, result.Committed)
	assert.Equal(t, StateDone, result.State)
	assert.Equal(t, "run-a", result.RunID)
	assert.False(t, result.HasErrors())

	assert.Equal(t, tableCounts{
		"stock":              2,
		"dbxref":             2,
		"stockprop":          0,
		"synonym":            0,
		"stock_synonym":      0,
		"stock_relationship": 0,
	}, env.counts())

	test2 := env.stock("Test2")
	assert.Equal(t, "T2", test2.Uniquename)
	assert.Equal(t, uint(9), test2.TypeID)
	assert.Equal(t, env.organismID, test2.OrganismID)
	require.NotNil(t, test2.DbxrefID)

	assert.Contains(t, env.recorder.Messages(), "Inserting \"Test2\".")
	for _, event := range env.recorder.Events() {
		assert.Equal(t, "run-a", event.RunID)
		assert.Equal(t, LevelNotice, event.Level)
	}

	assert.Equal(t, 4, result.Stats.LinesRead)
	assert.Equal(t, 2, result.Stats.DataLines)
	assert.Equal(t, 2, result.Stats.SkippedLines)
	assert.Equal(t, 2, result.Stats.StocksInserted)
	require.Len(t, result.Accessions, 2)
	require.Len(t, result.Lines, 2)
	assert.Equal(t, 3, result.Lines[0].Line)
	assert.Equal(t, test2.StockID, result.Lines[1].StockID)
}

func TestImportMissingRequired(t *testing.T) {
	env := newTestEnv(t)
	path := env.writeInput(
		header,
		row("Test1", "TestDB", "T1", "databasica"),
		row("Test2", "TestDB", "T2", "databasica"),
		row("Test3", "TestDB", "T3", "databasica"),
		row("Test4", "TestDB", "T4", "databasica"),
		row("Test5", "TestDB", "T5", "databasica"),
		row("Test6", "", "T6", "databasica"),
		row("Test7", "TestDB", "T7"),
	)

	result, err := env.run(&ImportConfig{Location: path, Genus: "Tripalus"})
	assert.True(t, errors.Is(err, ErrUnresolvedErrors))
	assert.False(t, result.Committed)
	assert.Equal(t, StateDone, result.State)

	assert.Equal(t, []string{
		"Column 2 is required and cannot be empty for line # 7",
		"Insufficient number of columns detected (<4) for line # 8",
	}, result.ErrorMessages())
	assert.Equal(t, 7, result.Errors[0].Line)
	assert.Equal(t, 8, result.Errors[1].Line)

	messages := env.recorder.Messages()
	assert.Contains(t, messages, "Column 2 is required and cannot be empty for line # 7")
	assert.Contains(t, messages, "Insufficient number of columns detected (<4) for line # 8")
	assert.Equal(t, "errors present, fix and retry", messages[len(messages)-1])

	// 前面的行已处理但全部回滚
	assert.Equal(t, 5, result.Stats.StocksInserted)
	assert.Equal(t, 2, result.Stats.FailedLines)
	assert.Equal(t, int64(0), env.count(&chado.Stock{}))
	assert.Equal(t, int64(0), env.count(&chado.Dbxref{}))
}

func TestImportAtomicity(t *testing.T) {
	env := newTestEnv(t)
	path := env.writeInput(
		row("Test1", "TestDB", "T1", "databasica"),
		row("Test2", "TestDB", "T2", "databasica"),
	)
	_, err := env.run(&ImportConfig{Location: path, Genus: "Tripalus"})
	require.Nil(t, err)
	before := env.counts()

	path = env.writeInput(
		row("Test3", "TestDB", "T3", "databasica", "", "CUAC", "", "", "", "", "", "syn1, Test1"),
		row("Test4", "PRETEND", "T4", "databasica"),
		row("Test5", "TestDB", "T5", "organismus"),
	)
	result, err := env.run(&ImportConfig{Location: path, Genus: "Tripalus"})
	assert.True(t, errors.Is(err, ErrUnresolvedErrors))
	assert.Equal(t, map[ErrorKind]int{
		KindAuthorityNotFound: 1,
		KindOrganismNotFound:  1,
	}, result.ErrorCounts())
	assert.Contains(t, result.ErrorMessages(), "Could not find an organism \"Tripalus organismus\" in the database.")

	// 第一行的写入在运行过程中可见，但没有提交
	assert.Equal(t, 1, result.Stats.RelationshipsInserted)
	assert.Equal(t, before, env.counts())
}

func TestImportIdempotent(t *testing.T) {
	env := newTestEnv(t)
	env.insertStock("synonym2", "TEST:S2", 9)
	path := env.writeInput(
		header,
		row("Test1", "TestDB", "T1", "databasica", "subspecies chadoii", "CUAC",
			"Crop Development Center, University of Saskatchewan", "124", "410", "Recurrent selection",
			"1049F^3/819-5R", "synonym1, synonym2, synonym3"),
		row("Test2", "TestDB", "T2", "databasica", "chadoii"),
	)

	first, err := env.run(&ImportConfig{Location: path, Genus: "Tripalus"})
	require.Nil(t, err)
	assert.Equal(t, 2, first.Stats.StocksInserted)
	assert.Equal(t, 6, first.Stats.PropertiesInserted)
	assert.Equal(t, 3, first.Stats.SynonymsInserted)
	assert.Equal(t, 1, first.Stats.RelationshipsInserted)

	after := env.counts()
	assert.Equal(t, tableCounts{
		"stock":              3,
		"dbxref":             2,
		"stockprop":          6,
		"synonym":            3,
		"stock_synonym":      3,
		"stock_relationship": 1,
	}, after)

	second, err := env.run(&ImportConfig{Location: path, Genus: "Tripalus"})
	require.Nil(t, err)
	assert.True(t, second.Committed)
	assert.Equal(t, after, env.counts())
	assert.Equal(t, 0, second.Stats.StocksInserted)
	assert.Equal(t, 2, second.Stats.StocksReused)
	assert.Equal(t, 0, second.Stats.DbxrefsBound)
	require.Len(t, second.Relationships, 1)
	assert.False(t, second.Relationships[0].Inserted)
	assert.Equal(t, "synonym2", second.Relationships[0].SubjectName)
	assert.Equal(t, "Test1", second.Relationships[0].ObjectName)
}

func TestImportRepeatedAccessionInOneFile(t *testing.T) {
	env := newTestEnv(t)
	path := env.writeInput(
		row("Test1", "TestDB", "T1", "databasica", "", "CUAC"),
		row("Test1", "TestDB", "T1", "databasica", "", "CDC"),
	)

	result, err := env.run(&ImportConfig{Location: path, Genus: "Tripalus"})
	require.Nil(t, err)
	assert.Equal(t, int64(1), env.count(&chado.Stock{}))
	require.Len(t, result.Accessions, 1)
	assert.True(t, result.Accessions[0].Inserted)

	props := env.stockprops(env.stock("Test1").StockID, 10)
	require.Len(t, props, 2)
	assert.Equal(t, 0, props[0].Rank)
	assert.Equal(t, 1, props[1].Rank)
}

func TestImportDryRun(t *testing.T) {
	env := newTestEnv(t)
	path := env.writeInput(
		row("Test1", "TestDB", "T1", "databasica"),
	)

	result, err := env.run(&ImportConfig{Location: path, Genus: "Tripalus", DryRun: true})
	require.Nil(t, err)
	assert.False(t, result.Committed)
	assert.True(t, result.DryRun)
	assert.Equal(t, 1, result.Stats.StocksInserted)
	assert.Equal(t, int64(0), env.count(&chado.Stock{}))
	assert.Contains(t, env.recorder.Messages()[len(env.recorder.Messages())-1], "Dry run")
}

func TestImportPreconditions(t *testing.T) {
	env := newTestEnv(t)
	path := env.writeInput(row("Test1", "TestDB", "T1", "databasica"))

	result, err := env.run(&ImportConfig{Location: path, Genus: "  "})
	assert.True(t, errors.Is(err, ErrGenusRequired))
	assert.Equal(t, StateIdle, result.State)

	result, err = env.run(&ImportConfig{Location: path + ".missing", Genus: "Tripalus"})
	assert.True(t, errors.Is(err, ErrInputUnavailable))
	assert.Equal(t, StateIdle, result.State)
	assert.Equal(t, 0, result.Stats.LinesRead)

	delete(env.vocabulary, VocabAccession)
	_, err = env.run(&ImportConfig{Location: path, Genus: "Tripalus"})
	assert.True(t, errors.Is(err, ErrVocabularyIncomplete))
	env.vocabulary[VocabAccession] = 9

	require.Nil(t, env.db.Migrator().DropTable(&chado.StockSynonym{}))
	_, err = env.run(&ImportConfig{Location: path, Genus: "Tripalus"})
	assert.True(t, errors.Is(err, ErrRequiredTableMissing))

	var precondition *PreconditionError
	require.True(t, errors.As(err, &precondition))
	assert.Equal(t, "stock_synonym", precondition.Resource)

	assert.Equal(t, int64(0), env.count(&chado.Stock{}))
	for _, event := range env.recorder.Events() {
		assert.Equal(t, LevelError, event.Level)
		assert.Zero(t, event.Line)
	}
}

type savePointCounts struct {
	created    int
	rolledBack int
	released   int
}

/*
failingDatabase 在事务中注入失败：值为 "broken" 的属性插入失败，名为 lookupFailure 的 stock 查询失败
*/
type failingDatabase struct {
	Database
	lookupFailure string
	counts        *savePointCounts
}

func (d failingDatabase) Transaction(ctx context.Context, fn func(store Store) error) error {
	return d.Database.Transaction(ctx, func(store Store) error {
		return fn(failingStore{Store: store, lookupFailure: d.lookupFailure, counts: d.counts})
	})
}

type failingStore struct {
	Store
	lookupFailure string
	counts        *savePointCounts
}

func (s failingStore) CreateStockprop(prop *chado.Stockprop) error {
	if prop.Value == "broken" {
		return errors.New("disk full")
	}
	return s.Store.CreateStockprop(prop)
}

func (s failingStore) FindStocksByNameOrUniquename(organismID uint, name, uniquename string) ([]chado.Stock, error) {
	if name == s.lookupFailure {
		return nil, errors.New("connection reset by peer")
	}
	return s.Store.FindStocksByNameOrUniquename(organismID, name, uniquename)
}

func (s failingStore) SavePoint(name string) error {
	s.counts.created++
	return s.Store.SavePoint(name)
}

func (s failingStore) RollbackTo(name string) error {
	s.counts.rolledBack++
	return s.Store.RollbackTo(name)
}

func (s failingStore) ReleaseSavePoint(name string) error {
	s.counts.released++
	return s.Store.ReleaseSavePoint(name)
}

func (e *testEnv) failingSetting(lookupFailure string, counts *savePointCounts) *ImportSetting {
	setting := e.setting()
	setting.GetDatabase = func() Database {
		return failingDatabase{Database: NewChadoDatabase(e.db), lookupFailure: lookupFailure, counts: counts}
	}
	return setting
}

func TestImportStoreFailureKeepsOtherLines(t *testing.T) {
	env := newTestEnv(t)
	counts := &savePointCounts{}
	setting := env.failingSetting("", counts)

	var hookResult *ImportResult
	var hookErr error
	setting.AfterRun = append(setting.AfterRun, func(result *ImportResult, err error) {
		hookResult = result
		hookErr = err
	})

	path := env.writeInput(
		row("Test1", "TestDB", "T1", "databasica", "", "broken"),
		row("Test2", "TestDB", "T2", "databasica", "", "CUAC"),
	)
	result, err := importFile(setting, context.Background(), &ImportConfig{Location: path, Genus: "Tripalus"})
	assert.True(t, errors.Is(err, ErrUnresolvedErrors))
	assert.Equal(t, map[ErrorKind]int{KindInsertFailed: 1}, result.ErrorCounts())

	require.Len(t, result.Lines, 2)
	assert.True(t, result.Lines[0].Failed())
	assert.False(t, result.Lines[1].Failed())

	// 回滚到行首后，第一行的写入不再计入统计
	assert.Equal(t, 1, result.Stats.StocksInserted)
	assert.Equal(t, 1, result.Stats.DbxrefsInserted)
	assert.Equal(t, 1, result.Stats.DbxrefsBound)
	assert.Equal(t, 1, result.Stats.PropertiesInserted)
	assert.Equal(t, 1, result.Stats.FailedLines)
	require.Len(t, result.Accessions, 1)
	assert.Equal(t, "Test2", result.Accessions[0].Name)

	// 每行一个保存点，处理完即释放
	assert.Equal(t, savePointCounts{created: 2, rolledBack: 1, released: 2}, *counts)

	assert.Same(t, result, hookResult)
	assert.Equal(t, err, hookErr)
	assert.False(t, result.FinishTime.IsZero())
}

func TestImportStoreFailureOnLookup(t *testing.T) {
	env := newTestEnv(t)
	counts := &savePointCounts{}
	setting := env.failingSetting("Test1", counts)

	path := env.writeInput(
		row("Test1", "TestDB", "T1", "databasica"),
		row("Test2", "TestDB", "T2", "databasica"),
		row("Test3", "TestDB", "T3", "databasica"),
	)
	result, err := importFile(setting, context.Background(), &ImportConfig{Location: path, Genus: "Tripalus"})
	assert.True(t, errors.Is(err, ErrUnresolvedErrors))
	require.Len(t, result.Errors, 1)

	importErr := result.Errors[0]
	assert.Equal(t, KindStoreFailure, importErr.Kind)
	assert.Equal(t, 1, importErr.Line)
	assert.Contains(t, importErr.Message, "\"Test1\"")
	assert.Contains(t, importErr.Message, "line # 1")
	assert.Contains(t, importErr.Message, "connection reset by peer")

	// 后续行照常处理
	require.Len(t, result.Lines, 3)
	assert.True(t, result.Lines[0].Failed())
	for _, line := range result.Lines[1:] {
		assert.False(t, line.Failed())
		assert.NotZero(t, line.StockID)
	}
	assert.Equal(t, 2, result.Stats.StocksInserted)
	assert.Contains(t, env.recorder.Messages(), "Inserting \"Test3\".")
	assert.Equal(t, savePointCounts{created: 3, rolledBack: 1, released: 3}, *counts)

	// 整次运行仍然回滚
	assert.Equal(t, int64(0), env.count(&chado.Stock{}))
}

func TestImportCanceled(t *testing.T) {
	env := newTestEnv(t)
	path := env.writeInput(row("Test1", "TestDB", "T1", "databasica"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := importFile(env.setting(), ctx, &ImportConfig{Location: path, Genus: "Tripalus"})
	assert.NotNil(t, err)
	assert.False(t, errors.Is(err, ErrUnresolvedErrors))
	assert.False(t, result.Committed)
	assert.Equal(t, int64(0), env.count(&chado.Stock{}))
}

func TestImportFileSerialized(t *testing.T) {
	env := newTestEnv(t)
	Init(env.setting())

	path := env.writeInput(row("Test1", "TestDB", "T1", "databasica"))

	done := make(chan error, 2)
	for i := 0; i < 2; i++ {
		go func() {
			_, err := ImportFile(context.Background(), &ImportConfig{Location: path, Genus: "Tripalus"})
			done <- err
		}()
	}
	assert.Nil(t, <-done)
	assert.Nil(t, <-done)
	assert.Equal(t, int64(1), env.count(&chado.Stock{}))
}
