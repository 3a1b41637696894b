package chado

import (
	"context"
	"errors"
	"testing"

	"germplasm-accession-importer/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func createTestDatabase(t *testing.T) *gorm.DB {
	logging.SetDefaultConfig(logging.GenerateTestConfig(t))

	database, err := CreateDatabase(GenerateTestConfig())
	require.Nil(t, err)
	return database
}

func strPtr(s string) *string {
	return &s
}

func uintPtr(u uint) *uint {
	return &u
}

func TestMigration(t *testing.T) {
	database := createTestDatabase(t)

	assert.Empty(t, MissingTables(database))

	repo := NewRepository(database)
	pubID, err := repo.NullPubID()
	require.Nil(t, err)
	assert.NotZero(t, pubID)

	// 重复迁移不会产生第二个占位文献
	require.Nil(t, Migrate(database))
	var count int64
	require.Nil(t, database.Model(&Pub{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestMissingTables(t *testing.T) {
	database := createTestDatabase(t)

	require.Nil(t, database.Migrator().DropTable(&StockSynonym{}))
	assert.Equal(t, []string{"stock_synonym"}, NewRepository(database).MissingTables(context.Background()))
}

func TestFindOrganisms(t *testing.T) {
	database := createTestDatabase(t)
	repo := NewRepository(database)

	rank := Cvterm{Name: "subspecies"}
	require.Nil(t, database.Create(&rank).Error)

	organisms := []Organism{
		{Genus: "Tripalus", Species: "databasica", InfraspecificName: strPtr("chadoii"), TypeID: uintPtr(rank.CvtermID)},
		{Genus: "Tripalus", Species: "ferox"},
	}
	require.Nil(t, database.Create(&organisms).Error)

	found, err := repo.FindOrganisms(OrganismQuery{Genus: "Tripalus", Species: "databasica"})
	require.Nil(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, organisms[0].OrganismID, found[0].OrganismID)

	found, err = repo.FindOrganisms(OrganismQuery{
		Genus:             "Tripalus",
		Species:           "databasica",
		InfraspecificName: "chadoii",
		RankName:          "subspecies",
	})
	require.Nil(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "chadoii", *found[0].InfraspecificName)

	found, err = repo.FindOrganisms(OrganismQuery{
		Genus:             "Tripalus",
		Species:           "databasica",
		InfraspecificName: "chadoii",
		RankName:          "varietas",
	})
	require.Nil(t, err)
	assert.Empty(t, found)

	found, err = repo.FindOrganisms(OrganismQuery{Genus: "Nullus", Species: "organismus"})
	require.Nil(t, err)
	assert.Empty(t, found)
}

func TestFindStocksByNameOrUniquename(t *testing.T) {
	database := createTestDatabase(t)
	repo := NewRepository(database)

	stocks := []Stock{
		{OrganismID: 1, Name: "stock1", Uniquename: "TEST:1", TypeID: 9},
		{OrganismID: 1, Name: "stock2", Uniquename: "TEST:2", TypeID: 9},
		{OrganismID: 2, Name: "stock1", Uniquename: "TEST:1", TypeID: 9},
	}
	require.Nil(t, database.Create(&stocks).Error)

	found, err := repo.FindStocksByNameOrUniquename(1, "stock1", "TEST:2")
	require.Nil(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, stocks[0].StockID, found[0].StockID)
	assert.Equal(t, stocks[1].StockID, found[1].StockID)

	found, err = repo.FindStocksByNameOrUniquename(1, "stock3", "TEST:3")
	require.Nil(t, err)
	assert.Empty(t, found)
}

func TestBindStockDbxref(t *testing.T) {
	database := createTestDatabase(t)
	repo := NewRepository(database)

	stock := Stock{OrganismID: 1, Name: "stock1", Uniquename: "TEST:1", TypeID: 9}
	require.Nil(t, repo.CreateStock(&stock))

	affected, err := repo.BindStockDbxref(stock.StockID, 5)
	require.Nil(t, err)
	assert.Equal(t, int64(1), affected)

	stock, err = repo.GetStock(stock.StockID)
	require.Nil(t, err)
	require.NotNil(t, stock.DbxrefID)
	assert.Equal(t, uint(5), *stock.DbxrefID)

	affected, err = repo.BindStockDbxref(stock.StockID+100, 5)
	require.Nil(t, err)
	assert.Equal(t, int64(0), affected)
}

func TestTransactionRollback(t *testing.T) {
	database := createTestDatabase(t)
	repo := NewRepository(database)

	errStop := errors.New("stop")
	err := repo.Transaction(context.Background(), func(tx *Repository) error {
		if err := tx.CreateStock(&Stock{OrganismID: 1, Name: "stock1", Uniquename: "TEST:1", TypeID: 9}); err != nil {
			return err
		}

		// 同一事务内可以读到刚插入的行
		found, err := tx.FindStocksByName(1, "stock1")
		if err != nil {
			return err
		}
		assert.Len(t, found, 1)
		return errStop
	})
	assert.ErrorIs(t, err, errStop)

	var count int64
	require.Nil(t, database.Model(&Stock{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestStockpropRankUnique(t *testing.T) {
	database := createTestDatabase(t)
	repo := NewRepository(database)

	require.Nil(t, repo.CreateStockprop(&Stockprop{StockID: 1, TypeID: 15, Value: "a", Rank: 0}))
	require.Nil(t, repo.CreateStockprop(&Stockprop{StockID: 1, TypeID: 15, Value: "b", Rank: 1}))
	assert.NotNil(t, repo.CreateStockprop(&Stockprop{StockID: 1, TypeID: 15, Value: "c", Rank: 1}))

	props, err := repo.FindStockprops(1, 15)
	require.Nil(t, err)
	require.Len(t, props, 2)
	assert.Equal(t, "a", props[0].Value)
	assert.Equal(t, 1, props[1].Rank)
}

func TestSavePointReleaseAndRollback(t *testing.T) {
	database := createTestDatabase(t)
	repo := NewRepository(database)

	err := repo.Transaction(context.Background(), func(tx *Repository) error {
		require.Nil(t, tx.SavePoint("line"))
		require.Nil(t, tx.CreateStock(&Stock{OrganismID: 1, Name: "kept1", Uniquename: "TEST:1", TypeID: 9}))
		require.Nil(t, tx.ReleaseSavePoint("line"))

		require.Nil(t, tx.SavePoint("line"))
		require.Nil(t, tx.CreateStock(&Stock{OrganismID: 1, Name: "undone", Uniquename: "TEST:2", TypeID: 9}))
		require.Nil(t, tx.RollbackTo("line"))
		require.Nil(t, tx.ReleaseSavePoint("line"))

		// 释放后保存点不再存在
		assert.NotNil(t, tx.RollbackTo("line"))

		require.Nil(t, tx.SavePoint("line"))
		require.Nil(t, tx.CreateStock(&Stock{OrganismID: 1, Name: "kept2", Uniquename: "TEST:3", TypeID: 9}))
		require.Nil(t, tx.ReleaseSavePoint("line"))
		return nil
	})
	require.Nil(t, err)

	var names []string
	require.Nil(t, database.Model(&Stock{}).Order("stock_id").Pluck("name", &names).Error)
	assert.Equal(t, []string{"kept1", "kept2"}, names)
}
