package germplasm

import (
	"strings"

	"germplasm-accession-importer/repository/chado"
	"germplasm-accession-importer/utils"
)

/*
getOrganismID 通过学名查找物种。subtaxon 形如 "<rank> <name>"，只有一个词时等级取 subtaxa 术语。
物种只查询不创建，成功的结果在本次运行内缓存。
*/
func (b *importer) getOrganismID(genus, species, subtaxon string) (uint, error) {
	query := chado.OrganismQuery{
		Genus:   genus,
		Species: species,
	}
	scientificName := genus + " " + species

	if parts := strings.Fields(subtaxon); len(parts) > 0 {
		if len(parts) == 1 {
			rankTypeID, err := b.termID(VocabSubtaxa)
			if err != nil {
				return 0, err
			}
			query.RankTypeID = rankTypeID
			query.InfraspecificName = parts[0]
		} else {
			query.RankName = parts[0]
			query.InfraspecificName = strings.Join(parts[1:], " ")
		}
		scientificName += " " + strings.Join(parts, " ")
	}

	if id, ok := b.organismCache[scientificName]; ok {
		return id, nil
	}

	organisms, err := b.store.FindOrganisms(query)
	if err != nil {
		return 0, utils.WrapErrorf(err, "find organism [%s] fail", scientificName)
	}

	switch len(organisms) {
	case 0:
		return 0, newImportError(KindOrganismNotFound,
			"Could not find an organism \"%s\" in the database.", scientificName)
	case 1:
		b.organismCache[scientificName] = organisms[0].OrganismID
		return organisms[0].OrganismID, nil
	default:
		return 0, newImportError(KindAmbiguousOrganism,
			"Found more than one organism ID for \"%s\" (organism IDs: %s).", scientificName, joinIDs(organisms, func(o chado.Organism) uint {
				return o.OrganismID
			}))
	}
}

func joinIDs[T any](rows []T, id func(T) uint) string {
	parts := make([]string, len(rows))
	for i, row := range rows {
		parts[i] = utils.UintToString(id(row))
	}
	return strings.Join(parts, ", ")
}
