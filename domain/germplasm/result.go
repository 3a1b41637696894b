package germplasm

import (
	"time"
)

/*
RunState 一次运行所处的阶段：
Idle -> Reading -> EndOfInput -> Committing | RollingBack -> Done
*/
type RunState string

const (
	StateIdle        RunState = "idle"
	StateReading     RunState = "reading"
	StateEndOfInput  RunState = "end_of_input"
	StateCommitting  RunState = "committing"
	StateRollingBack RunState = "rolling_back"
	StateDone        RunState = "done"
)

/*
LineOutcome 单行的处理结果，Errors 为空表示该行成功。
*/
type LineOutcome struct {
	Line    int            `json:"line"`
	Kind    LineKind       `json:"-"`
	Name    string         `json:"name,omitempty"`
	StockID uint           `json:"stock_id,omitempty"`
	Errors  []*ImportError `json:"-"`
}

func (o *LineOutcome) Failed() bool {
	return len(o.Errors) > 0
}

// ImportStats 本次运行的计数，回滚时表示被丢弃的写入
type ImportStats struct {
	LinesRead             int `json:"lines_read"`
	DataLines             int `json:"data_lines"`
	SkippedLines          int `json:"skipped_lines"`
	FailedLines           int `json:"failed_lines"`
	StocksInserted        int `json:"stocks_inserted"`
	StocksReused          int `json:"stocks_reused"`
	DbxrefsInserted       int `json:"dbxrefs_inserted"`
	DbxrefsBound          int `json:"dbxrefs_bound"`
	PropertiesInserted    int `json:"properties_inserted"`
	SynonymsInserted      int `json:"synonyms_inserted"`
	SynonymLinksInserted  int `json:"synonym_links_inserted"`
	RelationshipsInserted int `json:"relationships_inserted"`
}

type AccessionRecord struct {
	StockID    uint   `json:"stock_id"`
	OrganismID uint   `json:"organism_id"`
	Name       string `json:"name"`
	Uniquename string `json:"uniquename"`
	Inserted   bool   `json:"inserted"`
}

/*
RelationshipRecord 本次运行确认存在的同义关系：Subject -[synonym]-> Object
*/
type RelationshipRecord struct {
	SubjectID   uint   `json:"subject_id"`
	SubjectName string `json:"subject_name"`
	ObjectID    uint   `json:"object_id"`
	ObjectName  string `json:"object_name"`
	Inserted    bool   `json:"inserted"`
}

/*
ImportResult 一次运行的结果。Errors 是整次运行的错误累加器，只增不减。
*/
type ImportResult struct {
	RunID         string               `json:"run_id"`
	Location      string               `json:"location"`
	Genus         string               `json:"genus"`
	DryRun        bool                 `json:"dry_run"`
	State         RunState             `json:"state"`
	Committed     bool                 `json:"committed"`
	Lines         []LineOutcome        `json:"-"`
	Errors        []*ImportError       `json:"-"`
	Stats         ImportStats          `json:"stats"`
	Accessions    []AccessionRecord    `json:"accessions"`
	Relationships []RelationshipRecord `json:"relationships"`
	StartTime     time.Time            `json:"start_time"`
	FinishTime    time.Time            `json:"finish_time"`
}

func (r *ImportResult) HasErrors() bool {
	return len(r.Errors) > 0
}

/*
ErrorMessages 按发生顺序返回全部错误信息
*/
func (r *ImportResult) ErrorMessages() []string {
	ret := make([]string, len(r.Errors))
	for i, err := range r.Errors {
		ret[i] = err.Message
	}
	return ret
}

/*
ErrorCounts 按错误分类计数
*/
func (r *ImportResult) ErrorCounts() map[ErrorKind]int {
	ret := make(map[ErrorKind]int)
	for _, err := range r.Errors {
		ret[err.Kind]++
	}
	return ret
}
