package chado

import (
	"gorm.io/gorm"
)

func allTables() []interface{} {
	return []interface{}{
		&Cvterm{}, &Organism{}, &Pub{},
		&Db{}, &Dbxref{},
		&Stock{}, &Stockprop{},
		&Synonym{}, &StockSynonym{}, &StockRelationship{},
	}
}

/*
RequiredTables 导入运行前必须存在的表。stock_synonym 在部分 Chado 部署中是自定义表，最容易缺失。
*/
func RequiredTables() []string {
	tables := allTables()
	ret := make([]string, 0, len(tables))
	for _, table := range tables {
		ret = append(ret, table.(interface{ TableName() string }).TableName())
	}
	return ret
}

/*
MissingTables 返回 RequiredTables 中在数据库里不存在的表名
*/
func MissingTables(db *gorm.DB) []string {
	migrator := db.Migrator()

	missing := make([]string, 0)
	for _, name := range RequiredTables() {
		if !migrator.HasTable(name) {
			missing = append(missing, name)
		}
	}
	return missing
}
