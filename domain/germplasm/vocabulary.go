package germplasm

// VocabularyKey 受控词汇的键，对应一个 cvterm_id
type VocabularyKey string

const (
	VocabAccession           VocabularyKey = "accession"
	VocabSubtaxa             VocabularyKey = "subtaxa"
	VocabInstituteCode       VocabularyKey = "institute_code"
	VocabInstituteName       VocabularyKey = "institute_name"
	VocabCountryOfOrigin     VocabularyKey = "country_of_origin_code"
	VocabBiologicalStatus    VocabularyKey = "biological_status_of_accession_code"
	VocabBreedingMethod      VocabularyKey = "breeding_method_DbId"
	VocabPedigree            VocabularyKey = "pedigree"
	VocabSynonym             VocabularyKey = "synonym"
	VocabSynonymRelationship VocabularyKey = "stock_relationship_type_synonym"
)

// PropertyKinds 按文件列顺序排列的属性种类
var PropertyKinds = []VocabularyKey{
	VocabInstituteCode,
	VocabInstituteName,
	VocabCountryOfOrigin,
	VocabBiologicalStatus,
	VocabBreedingMethod,
	VocabPedigree,
}

// AllVocabularyKeys 部署时需要配置的全部键
var AllVocabularyKeys = []VocabularyKey{
	VocabAccession,
	VocabSubtaxa,
	VocabInstituteCode,
	VocabInstituteName,
	VocabCountryOfOrigin,
	VocabBiologicalStatus,
	VocabBreedingMethod,
	VocabPedigree,
	VocabSynonym,
	VocabSynonymRelationship,
}

/*
Vocabulary 将词汇键映射为 cvterm_id，未配置的键返回 false
*/
type Vocabulary interface {
	TermID(key VocabularyKey) (uint, bool)
}

type VocabularyMap map[VocabularyKey]uint

func (m VocabularyMap) TermID(key VocabularyKey) (uint, bool) {
	id, ok := m[key]
	if !ok || id == 0 {
		return 0, false
	}
	return id, true
}

/*
NewVocabularyMap 由配置文件中的字符串键构建 VocabularyMap
*/
func NewVocabularyMap(terms map[string]uint) VocabularyMap {
	ret := make(VocabularyMap, len(terms))
	for key, id := range terms {
		ret[VocabularyKey(key)] = id
	}
	return ret
}

/*
MissingVocabulary 返回 keys 中未配置的键
*/
func MissingVocabulary(vocab Vocabulary, keys ...VocabularyKey) []VocabularyKey {
	missing := make([]VocabularyKey, 0)
	for _, key := range keys {
		if _, ok := vocab.TermID(key); !ok {
			missing = append(missing, key)
		}
	}
	return missing
}
