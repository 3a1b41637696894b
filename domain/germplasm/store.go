package germplasm

import (
	"context"

	"germplasm-accession-importer/repository/chado"
	"gorm.io/gorm"
)

/*
Store 导入流程需要的关系存储操作，所有操作都在同一个事务中执行。
*/
type Store interface {
	FindOrganisms(query chado.OrganismQuery) ([]chado.Organism, error)

	FindStocksByNameOrUniquename(organismID uint, name, uniquename string) ([]chado.Stock, error)
	FindStocksByName(organismID uint, name string) ([]chado.Stock, error)
	GetStock(stockID uint) (chado.Stock, error)
	CreateStock(stock *chado.Stock) error
	BindStockDbxref(stockID, dbxrefID uint) (int64, error)

	FindDbsByName(name string) ([]chado.Db, error)
	FindDbxrefs(dbID uint, accession string) ([]chado.Dbxref, error)
	CreateDbxref(dbxref *chado.Dbxref) error

	FindStockprops(stockID, typeID uint) ([]chado.Stockprop, error)
	CreateStockprop(prop *chado.Stockprop) error

	FindSynonyms(name string, typeID uint) ([]chado.Synonym, error)
	CreateSynonym(synonym *chado.Synonym) error
	FindStockSynonyms(synonymID, stockID uint) ([]chado.StockSynonym, error)
	CreateStockSynonym(link *chado.StockSynonym) error
	FindStockRelationships(subjectID, objectID, typeID uint) ([]chado.StockRelationship, error)
	CreateStockRelationship(rel *chado.StockRelationship) error
	NullPubID() (uint, error)

	SavePoint(name string) error
	RollbackTo(name string) error
	ReleaseSavePoint(name string) error
}

/*
Database 提供事务边界和前置检查。fn 返回错误时事务回滚。
*/
type Database interface {
	MissingTables(ctx context.Context) []string
	Transaction(ctx context.Context, fn func(store Store) error) error
}

type chadoDatabase struct {
	repo *chado.Repository
}

/*
NewChadoDatabase 基于 gorm 连接构造 Database
*/
func NewChadoDatabase(db *gorm.DB) Database {
	return &chadoDatabase{repo: chado.NewRepository(db)}
}

func (d *chadoDatabase) MissingTables(ctx context.Context) []string {
	return d.repo.MissingTables(ctx)
}

func (d *chadoDatabase) Transaction(ctx context.Context, fn func(store Store) error) error {
	return d.repo.Transaction(ctx, func(tx *chado.Repository) error {
		return fn(tx)
	})
}
