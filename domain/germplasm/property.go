package germplasm

import (
	"germplasm-accession-importer/repository/chado"
	"germplasm-accession-importer/utils"
)

// PropertyValue 已存在的一条属性的取值和序号
type PropertyValue struct {
	Value string
	Rank  int
}

/*
NextPropertyRank 判断 value 是否需要插入，以及插入时使用的 rank。

existing 中已有相同取值时不插入；否则 rank 为已有最大 rank 加一，没有已有取值时为 0。
*/
func NextPropertyRank(existing []PropertyValue, value string) (bool, int) {
	maxRank := -1
	for _, prop := range existing {
		if prop.Value == value {
			return false, 0
		}
		if prop.Rank > maxRank {
			maxRank = prop.Rank
		}
	}
	return true, maxRank + 1
}

/*
loadProperties 写入一行中的全部属性。空值跳过，"0" 是有效取值。

任何一种属性没有配置词汇时整次调用失败，不写入任何属性；各属性的插入失败互不影响。
*/
func (b *importer) loadProperties(stockID uint, props []Property) []error {
	typeIDs := make([]uint, len(props))
	for i, prop := range props {
		if prop.Value == "" {
			continue
		}

		typeID, err := b.termID(prop.Kind)
		if err != nil {
			return []error{err}
		}
		typeIDs[i] = typeID
	}

	var errs []error
	for i, prop := range props {
		if prop.Value == "" {
			continue
		}

		if err := b.loadProperty(stockID, typeIDs[i], prop); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

func (b *importer) loadProperty(stockID, typeID uint, prop Property) error {
	rows, err := b.store.FindStockprops(stockID, typeID)
	if err != nil {
		return utils.WrapErrorf(err, "find stockprop [%s] of stock id=[%d] fail", prop.Kind, stockID)
	}

	existing := make([]PropertyValue, len(rows))
	for i, row := range rows {
		existing[i] = PropertyValue{Value: row.Value, Rank: row.Rank}
	}

	insert, rank := NextPropertyRank(existing, prop.Value)
	if !insert {
		return nil
	}

	stockprop := chado.Stockprop{
		StockID: stockID,
		TypeID:  typeID,
		Value:   prop.Value,
		Rank:    rank,
	}
	if err := b.store.CreateStockprop(&stockprop); err != nil {
		return newImportError(KindInsertFailed,
			"Unable to insert property \"%s\" with value \"%s\" for stock ID \"%d\".", prop.Kind, prop.Value, stockID).withCause(err)
	}

	b.result.Stats.PropertiesInserted++
	return nil
}
