package germplasm

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"germplasm-accession-importer/logging"
	"germplasm-accession-importer/repository/chado"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

/*
testEnv 一个独立的内存 Chado 库，预置：

	物种 Tripalus databasica subspecies chadoii；
	外部数据库 TestDB 和 Second Test DB；
*/
type testEnv struct {
	t          *testing.T
	db         *gorm.DB
	vocabulary VocabularyMap
	recorder   *EventRecorder
	organismID uint
	rankID     uint
}

func newTestEnv(t *testing.T) *testEnv {
	logging.SetDefaultConfig(logging.GenerateTestConfig(t))

	database, err := chado.CreateDatabase(chado.GenerateTestConfig())
	require.Nil(t, err)

	rank := chado.Cvterm{Name: "subspecies"}
	require.Nil(t, database.Create(&rank).Error)

	infraspecificName := "chadoii"
	organism := chado.Organism{
		Genus:             "Tripalus",
		Species:           "databasica",
		InfraspecificName: &infraspecificName,
		TypeID:            &rank.CvtermID,
	}
	require.Nil(t, database.Create(&organism).Error)

	dbs := []chado.Db{{Name: "TestDB"}, {Name: "Second Test DB"}}
	require.Nil(t, database.Create(&dbs).Error)

	return &testEnv{
		t:  t,
		db: database,
		vocabulary: VocabularyMap{
			VocabAccession:           9,
			VocabInstituteCode:       10,
			VocabInstituteName:       11,
			VocabCountryOfOrigin:     12,
			VocabBiologicalStatus:    13,
			VocabBreedingMethod:      14,
			VocabPedigree:            15,
			VocabSynonym:             16,
			VocabSynonymRelationship: 17,
			VocabSubtaxa:             rank.CvtermID,
		},
		recorder:   &EventRecorder{},
		organismID: organism.OrganismID,
		rankID:     rank.CvtermID,
	}
}

func (e *testEnv) setting() *ImportSetting {
	return &ImportSetting{
		GetDatabase: func() Database {
			return NewChadoDatabase(e.db)
		},
		Logger:     logging.NewLogger(),
		Vocabulary: e.vocabulary,
		Sink:       e.recorder,
	}
}

func (e *testEnv) repo() *chado.Repository {
	return chado.NewRepository(e.db)
}

/*
newImporter 构造一个不在事务中的 importer，用于单独测试各个步骤
*/
func (e *testEnv) newImporter(store Store) *importer {
	setting := e.setting()
	imp := newImporter(setting, context.Background(), &ImportConfig{Genus: "Tripalus"},
		&ImportResult{RunID: "test"}, MultiSink{e.recorder})
	imp.store = store
	imp.line = 1
	return imp
}

func (e *testEnv) run(config *ImportConfig) (*ImportResult, error) {
	return importFile(e.setting(), context.Background(), config)
}

func (e *testEnv) insertStock(name, uniquename string, typeID uint) uint {
	stock := chado.Stock{
		OrganismID: e.organismID,
		Name:       name,
		Uniquename: uniquename,
		TypeID:     typeID,
	}
	require.Nil(e.t, e.db.Create(&stock).Error)
	return stock.StockID
}

func (e *testEnv) dbID(name string) uint {
	var db chado.Db
	require.Nil(e.t, e.db.Where("name = ?", name).Take(&db).Error)
	return db.DbID
}

func (e *testEnv) count(model interface{}) int64 {
	var count int64
	require.Nil(e.t, e.db.Model(model).Count(&count).Error)
	return count
}

func (e *testEnv) stock(name string) chado.Stock {
	var stock chado.Stock
	require.Nil(e.t, e.db.Where("name = ?", name).Take(&stock).Error)
	return stock
}

func (e *testEnv) stockprops(stockID, typeID uint) []chado.Stockprop {
	var props []chado.Stockprop
	require.Nil(e.t, e.db.
		Where(map[string]interface{}{"stock_id": stockID, "type_id": typeID}).
		Order("stockprop_id").
		Find(&props).Error)
	return props
}

/*
writeInput 将 lines 写入临时文件，返回文件路径
*/
func (e *testEnv) writeInput(lines ...string) string {
	path := filepath.Join(e.t.TempDir(), "germplasm.tsv")
	require.Nil(e.t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0644))
	return path
}

func row(columns ...string) string {
	return strings.Join(columns, "\t")
}

func assertImportErrorKind(t *testing.T, kind ErrorKind, err error) *ImportError {
	t.Helper()

	var importErr *ImportError
	require.True(t, errors.As(err, &importErr), "err=%v", err)
	assert.Equal(t, kind, importErr.Kind, "message=%s", importErr.Message)
	return importErr
}
