package germplasm

import (
	"regexp"
	"strings"
)

type LineKind int

const (
	LineData LineKind = iota
	LineBlank
	LineComment
	LineHeader
)

func (k LineKind) String() string {
	switch k {
	case LineData:
		return "data"
	case LineBlank:
		return "blank"
	case LineComment:
		return "comment"
	case LineHeader:
		return "header"
	default:
		return "unknown"
	}
}

const (
	fieldDelimiter  = "\t"
	commentMarker   = "#"
	requiredColumns = 4
)

var headerPattern = regexp.MustCompile(`(?i)^Germplasm`)

/*
Record 一行数据解析后的结果，前四列必填，其余列缺省为空字符串。
*/
type Record struct {
	Name                 string
	Authority            string
	AccessionCode        string
	Species              string
	Subtaxon             string
	InstituteCode        string
	InstituteName        string
	CountryOfOriginCode  string
	BiologicalStatusCode string
	BreedingMethodID     string
	Pedigree             string
	Synonyms             string
}

// Property 一个待写入的属性
type Property struct {
	Kind  VocabularyKey
	Value string
}

/*
Properties 按 PropertyKinds 的顺序返回六个属性，包括空值
*/
func (r *Record) Properties() []Property {
	return []Property{
		{Kind: VocabInstituteCode, Value: r.InstituteCode},
		{Kind: VocabInstituteName, Value: r.InstituteName},
		{Kind: VocabCountryOfOrigin, Value: r.CountryOfOriginCode},
		{Kind: VocabBiologicalStatus, Value: r.BiologicalStatusCode},
		{Kind: VocabBreedingMethod, Value: r.BreedingMethodID},
		{Kind: VocabPedigree, Value: r.Pedigree},
	}
}

func classifyLine(raw string) LineKind {
	trimmed := strings.TrimSpace(raw)
	switch {
	case trimmed == "":
		return LineBlank
	case strings.HasPrefix(trimmed, commentMarker):
		return LineComment
	case headerPattern.MatchString(trimmed):
		return LineHeader
	default:
		return LineData
	}
}

/*
ParseLine 解析输入文件的一行，lineNo 从 1 开始。

返回的 LineKind 不是 LineData 时应跳过该行。列数不足 4 或前四列中有空列时返回错误，
空列只报告第一个。
*/
func ParseLine(raw string, lineNo int) (Record, LineKind, *ImportError) {
	kind := classifyLine(raw)
	if kind != LineData {
		return Record{}, kind, nil
	}

	fields := strings.Split(strings.TrimRight(raw, "\r\n"), fieldDelimiter)
	if len(fields) < requiredColumns {
		err := newImportError(KindInsufficientFields,
			"Insufficient number of columns detected (<%d) for line # %d", requiredColumns, lineNo)
		err.Line = lineNo
		return Record{}, kind, err
	}

	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}

	for column := 1; column <= requiredColumns; column++ {
		if fields[column-1] == "" {
			err := newImportError(KindRequiredFieldEmpty,
				"Column %d is required and cannot be empty for line # %d", column, lineNo)
			err.Line = lineNo
			return Record{}, kind, err
		}
	}

	column := func(n int) string {
		if n > len(fields) {
			return ""
		}
		return fields[n-1]
	}

	return Record{
		Name:                 column(1),
		Authority:            column(2),
		AccessionCode:        column(3),
		Species:              column(4),
		Subtaxon:             column(5),
		InstituteCode:        column(6),
		InstituteName:        column(7),
		CountryOfOriginCode:  column(8),
		BiologicalStatusCode: column(9),
		BreedingMethodID:     column(10),
		Pedigree:             column(11),
		Synonyms:             column(12),
	}, kind, nil
}
