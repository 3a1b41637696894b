package neograph

import (
	"germplasm-accession-importer/utils"
)

/*
AccessionNode 图中的一个 accession 节点，以 StockID 唯一标识
*/
type AccessionNode struct {
	StockID    uint
	Name       string
	Uniquename string
	OrganismID uint
}

/*
SynonymEdge (subject)-[:SYNONYM_OF]->(object)，subject 是以同义名命名的已有 stock
*/
type SynonymEdge struct {
	SubjectID uint
	ObjectID  uint
}

const mergeAccessionCypher = `UNWIND $accessions AS a
MERGE (n:Accession {stock_id: a.stock_id})
SET n.name = a.name, n.uniquename = a.uniquename, n.organism_id = a.organism_id`

const mergeSynonymCypher = `UNWIND $edges AS e
MERGE (s:Accession {stock_id: e.subject_id})
MERGE (o:Accession {stock_id: e.object_id})
MERGE (s)-[:SYNONYM_OF]->(o)`

func accessionParams(nodes []AccessionNode) map[string]interface{} {
	rows := make([]interface{}, len(nodes))
	for i, node := range nodes {
		rows[i] = map[string]interface{}{
			"stock_id":    int64(node.StockID),
			"name":        node.Name,
			"uniquename":  node.Uniquename,
			"organism_id": int64(node.OrganismID),
		}
	}
	return map[string]interface{}{"accessions": rows}
}

func synonymParams(edges []SynonymEdge) map[string]interface{} {
	rows := make([]interface{}, len(edges))
	for i, edge := range edges {
		rows[i] = map[string]interface{}{
			"subject_id": int64(edge.SubjectID),
			"object_id":  int64(edge.ObjectID),
		}
	}
	return map[string]interface{}{"edges": rows}
}

/*
MergeAccessions 将 accession 和同义关系投影到图数据库，重复执行结果不变
*/
func MergeAccessions(nodes []AccessionNode, edges []SynonymEdge) error {
	if len(nodes) > 0 {
		if _, err := Execute(mergeAccessionCypher, accessionParams(nodes)); err != nil {
			return utils.WrapError(err, "merge accession nodes fail")
		}
	}

	if len(edges) > 0 {
		if _, err := Execute(mergeSynonymCypher, synonymParams(edges)); err != nil {
			return utils.WrapError(err, "merge synonym edges fail")
		}
	}

	return nil
}
