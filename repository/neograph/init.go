package neograph

import (
	"fmt"

	"germplasm-accession-importer/utils"
	"github.com/neo4j/neo4j-go-driver/v4/neo4j"
)

type Neo4jConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	User string `yaml:"user"`
	Pwd  string `yaml:"pwd"`
}

func (c *Neo4jConfig) uri() string {
	return fmt.Sprintf("bolt://%s:%d", c.Host, c.Port)
}

/*
Config 图数据库配置，Enable 为 false 时不建立连接，投影操作直接跳过
*/
type Config struct {
	Enable bool        `yaml:"enable"`
	Neo4j  Neo4jConfig `yaml:"neo4j"`
}

func GenerateTestConfig() *Config {
	return &Config{
		Enable: true,
		Neo4j: Neo4jConfig{
			Host: "localhost",
			Port: 7687,
			User: "neo4j",
			Pwd:  "germplasm",
		},
	}
}

var driver neo4j.Driver

func CreateDriver(config *Config) (neo4j.Driver, error) {
	d, err := neo4j.NewDriver(config.Neo4j.uri(), neo4j.BasicAuth(config.Neo4j.User, config.Neo4j.Pwd, ""))
	if err != nil {
		return nil, utils.WrapError(err, "create neo4j driver fail")
	}

	if err := d.VerifyConnectivity(); err != nil {
		_ = d.Close()
		return nil, utils.WrapError(err, "verify neo4j connectivity fail")
	}

	return d, nil
}

func Init(config *Config) {
	if !config.Enable {
		return
	}

	d, err := CreateDriver(config)
	if err != nil {
		panic(err)
	}

	driver = d
}

func Enabled() bool {
	return driver != nil
}

func Close() {
	if driver == nil {
		return
	}
	_ = driver.Close()
	driver = nil
}

/*
Execute 在一个写事务中执行 cypher，返回执行摘要
*/
func Execute(cypher string, params map[string]interface{}) (neo4j.ResultSummary, error) {
	if driver == nil {
		return nil, fmt.Errorf("neo4j driver not initialized")
	}

	session := driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	summary, err := session.WriteTransaction(func(tx neo4j.Transaction) (interface{}, error) {
		result, err := tx.Run(cypher, params)
		if err != nil {
			return nil, err
		}
		return result.Consume()
	})
	if err != nil {
		return nil, utils.WrapError(err, "execute cypher fail")
	}

	return summary.(neo4j.ResultSummary), nil
}
