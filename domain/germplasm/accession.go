package germplasm

import (
	"germplasm-accession-importer/repository/chado"
	"germplasm-accession-importer/utils"
)

/*
getStockID 查找或创建 accession。

在物种内按 name 或 uniquename 任一匹配查询（不限 type）：
  - 多于一条：AmbiguousAccession，列出全部 stock_id；
  - 恰好一条：依次校验 uniquename、name、type_id，全部一致时复用；
  - 没有：插入新的 stock；
*/
func (b *importer) getStockID(name, uniquename string, organismID uint) (uint, error) {
	accessionTypeID, err := b.termID(VocabAccession)
	if err != nil {
		return 0, err
	}

	stocks, err := b.store.FindStocksByNameOrUniquename(organismID, name, uniquename)
	if err != nil {
		return 0, utils.WrapErrorf(err, "find stock [%s] fail", name)
	}

	if len(stocks) > 1 {
		return 0, newImportError(KindAmbiguousAccession,
			"Found more than one stock ID for \"%s\" (stock IDs: %s).", name, joinIDs(stocks, func(s chado.Stock) uint {
				return s.StockID
			}))
	}

	if len(stocks) == 1 {
		existing := stocks[0]
		if existing.Uniquename != uniquename {
			return 0, newImportError(KindCodeMismatch,
				"A stock already exists for \"%s\" but with an accession of \"%s\" which does not match the input file.",
				name, existing.Uniquename)
		}
		if existing.Name != name {
			return 0, newImportError(KindNameMismatch,
				"A stock already exists for accession \"%s\" but with a name of \"%s\" which does not match the input file.",
				uniquename, existing.Name)
		}
		if existing.TypeID != accessionTypeID {
			return 0, newImportError(KindTypeMismatch,
				"A stock already exists for \"%s\" but with a type ID of \"%d\" which does not match the expected accession type ID \"%d\".",
				name, existing.TypeID, accessionTypeID)
		}

		b.result.Stats.StocksReused++
		b.recordAccession(AccessionRecord{
			StockID:    existing.StockID,
			OrganismID: organismID,
			Name:       existing.Name,
			Uniquename: existing.Uniquename,
		})
		return existing.StockID, nil
	}

	b.notice(b.line, "Inserting \""+name+"\".")

	stock := chado.Stock{
		OrganismID: organismID,
		Name:       name,
		Uniquename: uniquename,
		TypeID:     accessionTypeID,
	}
	if err := b.store.CreateStock(&stock); err != nil {
		return 0, newImportError(KindInsertFailed,
			"Unable to insert a stock for \"%s\" with accession \"%s\".", name, uniquename).withCause(err)
	}

	b.result.Stats.StocksInserted++
	b.recordAccession(AccessionRecord{
		StockID:    stock.StockID,
		OrganismID: organismID,
		Name:       name,
		Uniquename: uniquename,
		Inserted:   true,
	})
	return stock.StockID, nil
}
