package germplasm

import (
	"germplasm-accession-importer/repository/chado"
	"germplasm-accession-importer/utils"
)

/*
getDbxrefID 查找 (db, accession) 对应的 dbxref，不存在时创建，并将其绑定为 stock 的主交叉引用。

stock 已绑定相同的 dbxref 时不做任何修改；已绑定其他 dbxref 时报告 CrossReferenceConflict。
*/
func (b *importer) getDbxrefID(dbName string, stockID uint, accession string) (uint, error) {
	dbID, err := b.getDbID(dbName)
	if err != nil {
		return 0, err
	}

	dbxrefs, err := b.store.FindDbxrefs(dbID, accession)
	if err != nil {
		return 0, utils.WrapErrorf(err, "find dbxref [%s:%s] fail", dbName, accession)
	}

	var dbxrefID uint
	switch len(dbxrefs) {
	case 0:
		dbxref := chado.Dbxref{DbID: dbID, Accession: accession}
		if err := b.store.CreateDbxref(&dbxref); err != nil {
			return 0, newImportError(KindInsertFailed,
				"Unable to insert a dbxref for \"%s:%s\".", dbName, accession).withCause(err)
		}
		b.result.Stats.DbxrefsInserted++
		dbxrefID = dbxref.DbxrefID
	case 1:
		dbxrefID = dbxrefs[0].DbxrefID
	default:
		return 0, newImportError(KindAmbiguousCrossReference,
			"Found more than one dbxref ID for \"%s:%s\" (dbxref IDs: %s).", dbName, accession, joinIDs(dbxrefs, func(d chado.Dbxref) uint {
				return d.DbxrefID
			}))
	}

	stock, err := b.store.GetStock(stockID)
	if err != nil {
		return 0, utils.WrapErrorf(err, "get stock id=[%d] fail", stockID)
	}

	if stock.DbxrefID == nil {
		affected, err := b.store.BindStockDbxref(stockID, dbxrefID)
		if err != nil {
			return 0, newImportError(KindUpdateFailed,
				"Unable to set the primary dbxref_id for stock ID \"%d\".", stockID).withCause(err)
		}
		if affected != 1 {
			return 0, newImportError(KindUpdateFailed,
				"Setting the primary dbxref_id for stock ID \"%d\" updated %d rows instead of 1.", stockID, affected)
		}
		b.result.Stats.DbxrefsBound++
		return dbxrefID, nil
	}

	if *stock.DbxrefID != dbxrefID {
		return 0, newImportError(KindCrossReferenceConflict,
			"There is already a primary dbxref_id for stock ID \"%d\" that does not match the external database and accession provided in the file (%s:%s).",
			stockID, dbName, accession)
	}

	return dbxrefID, nil
}

func (b *importer) getDbID(dbName string) (uint, error) {
	dbs, err := b.store.FindDbsByName(dbName)
	if err != nil {
		return 0, utils.WrapErrorf(err, "find db [%s] fail", dbName)
	}

	switch len(dbs) {
	case 0:
		return 0, newImportError(KindAuthorityNotFound, "Unable to find \"%s\" in chado.db.", dbName)
	case 1:
		return dbs[0].DbID, nil
	default:
		return 0, newImportError(KindAmbiguousAuthority,
			"Found more than one db ID for \"%s\" in chado.db (db IDs: %s).", dbName, joinIDs(dbs, func(d chado.Db) uint {
				return d.DbID
			}))
	}
}
