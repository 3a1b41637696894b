package chado

import (
	"context"

	"germplasm-accession-importer/utils"
	"gorm.io/gorm"
)

/*
Repository 封装导入过程中用到的全部 Chado 读写操作。

查询方法返回所有匹配的行而不是第一行，由调用方判断 0 个、1 个或多个匹配。
*/
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

/*
Transaction 在一个事务中执行 fn，fn 返回错误时回滚
*/
func (r *Repository) Transaction(ctx context.Context, fn func(tx *Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Repository{db: tx})
	})
}

func (r *Repository) MissingTables(ctx context.Context) []string {
	return MissingTables(r.db.WithContext(ctx))
}

/*
OrganismQuery 物种查询条件，字符串为空或 ID 为 0 的字段不参与过滤。

	RankName 种下等级名称，通过 organism.type_id 关联 cvterm.name；
	RankTypeID 直接按 organism.type_id 过滤；
*/
type OrganismQuery struct {
	Genus             string
	Species           string
	InfraspecificName string
	RankName          string
	RankTypeID        uint
}

func (r *Repository) FindOrganisms(query OrganismQuery) ([]Organism, error) {
	tx := r.db.Model(&Organism{}).
		Select("organism.*").
		Where("organism.genus = ? AND organism.species = ?", query.Genus, query.Species)

	if query.InfraspecificName != "" {
		tx = tx.Where("organism.infraspecific_name = ?", query.InfraspecificName)
	}
	if query.RankName != "" {
		tx = tx.Joins("JOIN cvterm ON cvterm.cvterm_id = organism.type_id").
			Where("cvterm.name = ?", query.RankName)
	}
	if query.RankTypeID != 0 {
		tx = tx.Where("organism.type_id = ?", query.RankTypeID)
	}

	var organisms []Organism
	if err := tx.Order("organism.organism_id").Find(&organisms).Error; err != nil {
		return nil, utils.WrapError(err, "select organisms fail")
	}
	return organisms, nil
}

/*
FindStocksByNameOrUniquename 查找物种内 name 等于 name 或 uniquename 等于 uniquename 的 stock，不限制 type_id
*/
func (r *Repository) FindStocksByNameOrUniquename(organismID uint, name, uniquename string) ([]Stock, error) {
	var stocks []Stock
	err := r.db.
		Where("organism_id = ?", organismID).
		Where(r.db.Where("name = ?", name).Or("uniquename = ?", uniquename)).
		Order("stock_id").
		Find(&stocks).Error
	if err != nil {
		return nil, utils.WrapErrorf(err, "select stocks with name=[%s] or uniquename=[%s] fail", name, uniquename)
	}
	return stocks, nil
}

func (r *Repository) FindStocksByName(organismID uint, name string) ([]Stock, error) {
	var stocks []Stock
	err := r.db.
		Where("organism_id = ? AND name = ?", organismID, name).
		Order("stock_id").
		Find(&stocks).Error
	if err != nil {
		return nil, utils.WrapErrorf(err, "select stocks with name=[%s] fail", name)
	}
	return stocks, nil
}

func (r *Repository) GetStock(stockID uint) (Stock, error) {
	var stock Stock
	if err := r.db.Take(&stock, stockID).Error; err != nil {
		return stock, utils.WrapErrorf(err, "select stock with id=[%d] fail", stockID)
	}
	return stock, nil
}

func (r *Repository) CreateStock(stock *Stock) error {
	return utils.WrapError(r.db.Create(stock).Error, "insert stock fail")
}

/*
BindStockDbxref 设置 stock.dbxref_id，返回受影响的行数
*/
func (r *Repository) BindStockDbxref(stockID, dbxrefID uint) (int64, error) {
	res := r.db.Model(&Stock{}).Where("stock_id = ?", stockID).Update("dbxref_id", dbxrefID)
	if res.Error != nil {
		return 0, utils.WrapErrorf(res.Error, "update dbxref_id of stock id=[%d] fail", stockID)
	}
	return res.RowsAffected, nil
}

func (r *Repository) FindDbsByName(name string) ([]Db, error) {
	var dbs []Db
	if err := r.db.Where("name = ?", name).Order("db_id").Find(&dbs).Error; err != nil {
		return nil, utils.WrapErrorf(err, "select db with name=[%s] fail", name)
	}
	return dbs, nil
}

func (r *Repository) FindDbxrefs(dbID uint, accession string) ([]Dbxref, error) {
	var dbxrefs []Dbxref
	err := r.db.
		Where("db_id = ? AND accession = ?", dbID, accession).
		Order("dbxref_id").
		Find(&dbxrefs).Error
	if err != nil {
		return nil, utils.WrapErrorf(err, "select dbxref with accession=[%s] fail", accession)
	}
	return dbxrefs, nil
}

func (r *Repository) CreateDbxref(dbxref *Dbxref) error {
	return utils.WrapError(r.db.Create(dbxref).Error, "insert dbxref fail")
}

func (r *Repository) FindStockprops(stockID, typeID uint) ([]Stockprop, error) {
	var props []Stockprop
	err := r.db.
		Where(map[string]interface{}{"stock_id": stockID, "type_id": typeID}).
		Order("stockprop_id").
		Find(&props).Error
	if err != nil {
		return nil, utils.WrapErrorf(err, "select stockprop with type_id=[%d] fail", typeID)
	}
	return props, nil
}

func (r *Repository) CreateStockprop(prop *Stockprop) error {
	return utils.WrapError(r.db.Create(prop).Error, "insert stockprop fail")
}

func (r *Repository) FindSynonyms(name string, typeID uint) ([]Synonym, error) {
	var synonyms []Synonym
	err := r.db.
		Where("name = ? AND type_id = ?", name, typeID).
		Order("synonym_id").
		Find(&synonyms).Error
	if err != nil {
		return nil, utils.WrapErrorf(err, "select synonym with name=[%s] fail", name)
	}
	return synonyms, nil
}

func (r *Repository) CreateSynonym(synonym *Synonym) error {
	return utils.WrapError(r.db.Create(synonym).Error, "insert synonym fail")
}

func (r *Repository) FindStockSynonyms(synonymID, stockID uint) ([]StockSynonym, error) {
	var links []StockSynonym
	err := r.db.
		Where("synonym_id = ? AND stock_id = ?", synonymID, stockID).
		Order("stock_synonym_id").
		Find(&links).Error
	if err != nil {
		return nil, utils.WrapError(err, "select stock_synonym fail")
	}
	return links, nil
}

func (r *Repository) CreateStockSynonym(link *StockSynonym) error {
	return utils.WrapError(r.db.Create(link).Error, "insert stock_synonym fail")
}

func (r *Repository) FindStockRelationships(subjectID, objectID, typeID uint) ([]StockRelationship, error) {
	var rels []StockRelationship
	err := r.db.
		Where("subject_id = ? AND object_id = ? AND type_id = ?", subjectID, objectID, typeID).
		Order("stock_relationship_id").
		Find(&rels).Error
	if err != nil {
		return nil, utils.WrapError(err, "select stock_relationship fail")
	}
	return rels, nil
}

func (r *Repository) CreateStockRelationship(rel *StockRelationship) error {
	return utils.WrapError(r.db.Create(rel).Error, "insert stock_relationship fail")
}

/*
NullPubID 返回 uniquename 为 null 的占位文献 ID
*/
func (r *Repository) NullPubID() (uint, error) {
	var pub Pub
	if err := r.db.Where("uniquename = ?", NullPubUniquename).Take(&pub).Error; err != nil {
		return 0, utils.WrapError(err, "select null pub fail")
	}
	return pub.PubID, nil
}

func (r *Repository) SavePoint(name string) error {
	return utils.WrapErrorf(r.db.SavePoint(name).Error, "create savepoint [%s] fail", name)
}

func (r *Repository) RollbackTo(name string) error {
	return utils.WrapErrorf(r.db.RollbackTo(name).Error, "rollback to savepoint [%s] fail", name)
}

/*
ReleaseSavePoint 释放保存点，保存点之后的修改保留在外层事务中
*/
func (r *Repository) ReleaseSavePoint(name string) error {
	return utils.WrapErrorf(r.db.Exec("RELEASE SAVEPOINT "+name).Error, "release savepoint [%s] fail", name)
}
