package germplasm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLineSkipped(t *testing.T) {
	cases := []struct {
		raw  string
		kind LineKind
	}{
		{"", LineBlank},
		{"   \t  ", LineBlank},
		{"# a comment", LineComment},
		{"  #\tindented comment", LineComment},
		{"Germplasm Name\tExternal Database\tAccession Number\tSpecies Name", LineHeader},
		{"GERMPLASM NAME\tdb", LineHeader},
		{"germplasm", LineHeader},
	}

	for _, c := range cases {
		_, kind, err := ParseLine(c.raw, 1)
		assert.Nil(t, err, "raw=[%s]", c.raw)
		assert.Equal(t, c.kind, kind, "raw=[%s]", c.raw)
	}
}

func TestParseLineInsufficientFields(t *testing.T) {
	_, kind, err := ParseLine("stock1\tTestDB\tTEST:1", 8)
	require.NotNil(t, err)
	assert.Equal(t, LineData, kind)
	assert.Equal(t, KindInsufficientFields, err.Kind)
	assert.Equal(t, 8, err.Line)
	assert.Equal(t, "Insufficient number of columns detected (<4) for line # 8", err.Message)
}

func TestParseLineRequiredFieldEmpty(t *testing.T) {
	_, _, err := ParseLine("stock1\t\tTEST:1\tdatabasica", 7)
	require.NotNil(t, err)
	assert.Equal(t, KindRequiredFieldEmpty, err.Kind)
	assert.Equal(t, "Column 2 is required and cannot be empty for line # 7", err.Message)

	// 只报告第一个空列
	_, _, err = ParseLine(" \tTestDB\t\t", 3)
	require.NotNil(t, err)
	assert.Equal(t, "Column 1 is required and cannot be empty for line # 3", err.Message)
}

func TestParseLineRequiredOnly(t *testing.T) {
	record, kind, err := ParseLine("Test1\tTestDB\tT1\tdatabasica\r", 2)
	require.Nil(t, err)
	assert.Equal(t, LineData, kind)
	assert.Equal(t, Record{
		Name:          "Test1",
		Authority:     "TestDB",
		AccessionCode: "T1",
		Species:       "databasica",
	}, record)

	for _, prop := range record.Properties() {
		assert.Equal(t, "", prop.Value)
	}
}

func TestParseLineAllColumns(t *testing.T) {
	raw := "stock1\tTestDB\tTEST:1\tdatabasica\tsubspecies chadoii\tCUAC\t" +
		"Crop Development Center, University of Saskatchewan\t124\t0\tRecurrent selection\t1049F^3/819-5R\t syn1; syn2 "

	record, _, err := ParseLine(raw, 1)
	require.Nil(t, err)
	assert.Equal(t, "subspecies chadoii", record.Subtaxon)
	assert.Equal(t, "syn1; syn2", record.Synonyms)

	props := record.Properties()
	require.Len(t, props, len(PropertyKinds))
	for i, kind := range PropertyKinds {
		assert.Equal(t, kind, props[i].Kind)
	}
	assert.Equal(t, "CUAC", props[0].Value)
	assert.Equal(t, "0", props[3].Value)
	assert.Equal(t, "1049F^3/819-5R", props[5].Value)
}
