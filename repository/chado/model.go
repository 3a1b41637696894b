package chado

/*
本包中的模型对应 Chado 模式中与种质导入相关的表，列名与 Chado 保持一致，
因此每个模型都显式声明表名，并且不使用 gorm.Model。
*/

/*
Cvterm 受控词汇表中的术语，包括分类等级（如 subspecies）和各类 type_id 所指向的术语。
*/
type Cvterm struct {
	CvtermID uint   `gorm:"column:cvterm_id;primaryKey"`
	Name     string `gorm:"column:name;type:varchar(1024);not null;index:cvterm_idx_name"`
}

func (Cvterm) TableName() string { return "cvterm" }

/*
Organism 物种。

	InfraspecificName 种下名称，例如 chadoii；
	TypeID 种下名称的分类等级，指向 cvterm；
*/
type Organism struct {
	OrganismID        uint    `gorm:"column:organism_id;primaryKey"`
	Genus             string  `gorm:"column:genus;type:varchar(255);not null;uniqueIndex:organism_c1"`
	Species           string  `gorm:"column:species;type:varchar(255);not null;uniqueIndex:organism_c1"`
	InfraspecificName *string `gorm:"column:infraspecific_name;type:varchar(1024);uniqueIndex:organism_c1"`
	TypeID            *uint   `gorm:"column:type_id;uniqueIndex:organism_c1"`
}

func (Organism) TableName() string { return "organism" }

/*
Stock 种质材料（accession）的规范记录。

	Name 显示名称；
	Uniquename 外部的 accession 编号；
	TypeID 固定为 accession 术语；
	DbxrefID 主交叉引用，可以为空；
*/
type Stock struct {
	StockID    uint   `gorm:"column:stock_id;primaryKey"`
	OrganismID uint   `gorm:"column:organism_id;not null;uniqueIndex:stock_c1;index:stock_idx_organism"`
	Name       string `gorm:"column:name;type:varchar(255);index:stock_idx_name"`
	Uniquename string `gorm:"column:uniquename;type:varchar(255);not null;uniqueIndex:stock_c1"`
	TypeID     uint   `gorm:"column:type_id;not null;uniqueIndex:stock_c1"`
	DbxrefID   *uint  `gorm:"column:dbxref_id"`
}

func (Stock) TableName() string { return "stock" }

/*
Db 外部数据库或机构（authority），只查询，不由导入程序创建。
*/
type Db struct {
	DbID uint   `gorm:"column:db_id;primaryKey"`
	Name string `gorm:"column:name;type:varchar(255);not null;uniqueIndex:db_c1"`
}

func (Db) TableName() string { return "db" }

type Dbxref struct {
	DbxrefID  uint   `gorm:"column:dbxref_id;primaryKey"`
	DbID      uint   `gorm:"column:db_id;not null;uniqueIndex:dbxref_c1"`
	Accession string `gorm:"column:accession;type:varchar(1024);not null;uniqueIndex:dbxref_c1"`
}

func (Dbxref) TableName() string { return "dbxref" }

/*
Stockprop 种质的属性，同一 (stock_id, type_id) 下的多个不同取值通过 Rank 区分。
*/
type Stockprop struct {
	StockpropID uint   `gorm:"column:stockprop_id;primaryKey"`
	StockID     uint   `gorm:"column:stock_id;not null;uniqueIndex:stockprop_c1"`
	TypeID      uint   `gorm:"column:type_id;not null;uniqueIndex:stockprop_c1"`
	Value       string `gorm:"column:value;type:text"`
	Rank        int    `gorm:"column:rank;not null;default:0;uniqueIndex:stockprop_c1"`
}

func (Stockprop) TableName() string { return "stockprop" }

type Synonym struct {
	SynonymID   uint   `gorm:"column:synonym_id;primaryKey"`
	Name        string `gorm:"column:name;type:varchar(255);not null;uniqueIndex:synonym_c1"`
	TypeID      uint   `gorm:"column:type_id;not null;uniqueIndex:synonym_c1"`
	SynonymSgml string `gorm:"column:synonym_sgml;type:varchar(255);not null"`
}

func (Synonym) TableName() string { return "synonym" }

/*
StockSynonym stock 与 synonym 的关联表。

	PubID 指向 uniquename 为 null 的占位文献；
*/
type StockSynonym struct {
	StockSynonymID uint `gorm:"column:stock_synonym_id;primaryKey"`
	SynonymID      uint `gorm:"column:synonym_id;not null;uniqueIndex:stock_synonym_c1"`
	StockID        uint `gorm:"column:stock_id;not null;uniqueIndex:stock_synonym_c1"`
	PubID          uint `gorm:"column:pub_id;not null;uniqueIndex:stock_synonym_c1"`
	IsCurrent      bool `gorm:"column:is_current;not null;default:false"`
	IsInternal     bool `gorm:"column:is_internal;not null;default:false"`
}

func (StockSynonym) TableName() string { return "stock_synonym" }

/*
StockRelationship 两个 stock 之间有类型的有向关系：subject -[type]-> object
*/
type StockRelationship struct {
	StockRelationshipID uint    `gorm:"column:stock_relationship_id;primaryKey"`
	SubjectID           uint    `gorm:"column:subject_id;not null;uniqueIndex:stock_relationship_c1"`
	ObjectID            uint    `gorm:"column:object_id;not null;uniqueIndex:stock_relationship_c1"`
	TypeID              uint    `gorm:"column:type_id;not null;uniqueIndex:stock_relationship_c1"`
	Value               *string `gorm:"column:value;type:text"`
	Rank                int     `gorm:"column:rank;not null;default:0;uniqueIndex:stock_relationship_c1"`
}

func (StockRelationship) TableName() string { return "stock_relationship" }

type Pub struct {
	PubID      uint   `gorm:"column:pub_id;primaryKey"`
	Uniquename string `gorm:"column:uniquename;type:varchar(255);not null;uniqueIndex:pub_c1"`
	Title      string `gorm:"column:title;type:text"`
}

func (Pub) TableName() string { return "pub" }

// NullPubUniquename 是 Chado 中占位文献的 uniquename
const NullPubUniquename = "null"
