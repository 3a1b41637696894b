package germplasm

import (
	"germplasm-accession-importer/repository/chado"
	"germplasm-accession-importer/utils"
)

var synonymSplitter = utils.NewListSplitter([]rune{',', ';'})

/*
loadSynonyms 为 stock 登记同义名，synonyms 以逗号或分号分隔。

某个名称出错后继续处理后面的名称，返回全部错误。
*/
func (b *importer) loadSynonyms(stockID uint, synonyms string, organismID uint) []error {
	names := synonymSplitter.Split(synonyms)
	if len(names) == 0 {
		return nil
	}

	synonymTypeID, err := b.termID(VocabSynonym)
	if err != nil {
		return []error{err}
	}
	relationshipTypeID, err := b.termID(VocabSynonymRelationship)
	if err != nil {
		return []error{err}
	}

	var errs []error
	for _, name := range names {
		if err := b.loadSynonym(stockID, organismID, name, synonymTypeID, relationshipTypeID); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

func (b *importer) loadSynonym(stockID, organismID uint, name string, synonymTypeID, relationshipTypeID uint) error {
	synonymID, err := b.getSynonymID(name, synonymTypeID)
	if err != nil {
		return err
	}

	if err := b.linkStockSynonym(stockID, synonymID, name); err != nil {
		return err
	}

	return b.relateSynonymStock(stockID, organismID, name, relationshipTypeID)
}

/*
getSynonymID 查找或创建 (name, type_id) 对应的 synonym
*/
func (b *importer) getSynonymID(name string, typeID uint) (uint, error) {
	synonyms, err := b.store.FindSynonyms(name, typeID)
	if err != nil {
		return 0, utils.WrapErrorf(err, "find synonym [%s] fail", name)
	}

	switch len(synonyms) {
	case 0:
		synonym := chado.Synonym{Name: name, TypeID: typeID, SynonymSgml: name}
		if err := b.store.CreateSynonym(&synonym); err != nil {
			return 0, newImportError(KindInsertFailed, "Unable to insert synonym \"%s\".", name).withCause(err)
		}
		b.result.Stats.SynonymsInserted++
		return synonym.SynonymID, nil
	case 1:
		return synonyms[0].SynonymID, nil
	default:
		return 0, newImportError(KindAmbiguousSynonym,
			"Found more than one synonym ID for \"%s\" (synonym IDs: %s).", name, joinIDs(synonyms, func(s chado.Synonym) uint {
				return s.SynonymID
			}))
	}
}

/*
linkStockSynonym 确保 stock_synonym 中存在 (synonym, stock) 的关联，pub 使用占位文献
*/
func (b *importer) linkStockSynonym(stockID, synonymID uint, name string) error {
	links, err := b.store.FindStockSynonyms(synonymID, stockID)
	if err != nil {
		return utils.WrapErrorf(err, "find stock_synonym [%s] fail", name)
	}

	switch len(links) {
	case 0:
	case 1:
		return nil
	default:
		return newImportError(KindAmbiguousSynonymLink,
			"Found more than one stock_synonym record for synonym \"%s\" and stock ID \"%d\".", name, stockID)
	}

	if b.nullPubID == 0 {
		b.nullPubID, err = b.store.NullPubID()
		if err != nil {
			return utils.WrapError(err, "get null pub fail")
		}
	}

	link := chado.StockSynonym{
		SynonymID:  synonymID,
		StockID:    stockID,
		PubID:      b.nullPubID,
		IsCurrent:  true,
		IsInternal: false,
	}
	if err := b.store.CreateStockSynonym(&link); err != nil {
		return newImportError(KindInsertFailed,
			"Unable to link synonym \"%s\" to stock ID \"%d\".", name, stockID).withCause(err)
	}

	b.result.Stats.SynonymLinksInserted++
	return nil
}

/*
relateSynonymStock 当同一物种中有其他 stock 以该同义名命名时，建立 subject(该 stock) -> object(当前 stock) 的关系
*/
func (b *importer) relateSynonymStock(stockID, organismID uint, name string, typeID uint) error {
	stocks, err := b.store.FindStocksByName(organismID, name)
	if err != nil {
		return utils.WrapErrorf(err, "find stock named [%s] fail", name)
	}

	matches := make([]chado.Stock, 0, len(stocks))
	for _, stock := range stocks {
		if stock.StockID != stockID {
			matches = append(matches, stock)
		}
	}

	switch len(matches) {
	case 0:
		b.notice(b.line, "Synonym \""+name+"\" was not found in the stock table, so no stock_relationship was made with stock ID \""+utils.UintToString(stockID)+"\".")
		return nil
	case 1:
	default:
		return newImportError(KindAmbiguousRelationship,
			"Found more than one stock named \"%s\" (stock IDs: %s), so no stock_relationship was made with stock ID \"%d\".",
			name, joinIDs(matches, func(s chado.Stock) uint {
				return s.StockID
			}), stockID)
	}

	subject := matches[0]
	rels, err := b.store.FindStockRelationships(subject.StockID, stockID, typeID)
	if err != nil {
		return utils.WrapErrorf(err, "find stock_relationship [%d]->[%d] fail", subject.StockID, stockID)
	}

	record := RelationshipRecord{
		SubjectID:   subject.StockID,
		SubjectName: subject.Name,
		ObjectID:    stockID,
		ObjectName:  b.stockName(stockID),
	}

	switch len(rels) {
	case 0:
		rel := chado.StockRelationship{
			SubjectID: subject.StockID,
			ObjectID:  stockID,
			TypeID:    typeID,
		}
		if err := b.store.CreateStockRelationship(&rel); err != nil {
			return newImportError(KindInsertFailed,
				"Unable to insert a stock_relationship between stock ID \"%d\" and stock ID \"%d\".", subject.StockID, stockID).withCause(err)
		}
		b.result.Stats.RelationshipsInserted++
		record.Inserted = true
	case 1:
	default:
		return newImportError(KindAmbiguousRelationship,
			"Found more than one stock_relationship between stock ID \"%d\" and stock ID \"%d\".", subject.StockID, stockID)
	}

	b.result.Relationships = append(b.result.Relationships, record)
	return nil
}

func (b *importer) stockName(stockID uint) string {
	if i, ok := b.accessionSeen[stockID]; ok {
		return b.result.Accessions[i].Name
	}
	return ""
}
