package chado

import (
	"fmt"

	"germplasm-accession-importer/logging"
	"germplasm-accession-importer/utils"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type MySQLConfig struct {
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Host     string `yaml:"host"`
	Database string `yaml:"database"`
}

func (c *MySQLConfig) dsn() string {
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.User, c.Password, c.Host, c.Database)
}

type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

type SQLiteConfig struct {
	Path string `yaml:"path"`
}

/*
Config 数据库配置。

	Driver 取值为 mysql、postgres 或 sqlite；
	CheckMigration 为 true 时自动建表，并确保占位文献存在；
*/
type Config struct {
	Driver         string         `yaml:"driver"`
	MySQL          MySQLConfig    `yaml:"mysql"`
	Postgres       PostgresConfig `yaml:"postgres"`
	SQLite         SQLiteConfig   `yaml:"sqlite"`
	CheckMigration bool           `yaml:"check_migration"`
}

/*
GenerateTestConfig 返回一个基于内存 sqlite 的配置，每次 CreateDatabase 得到一个独立的空库。
*/
func GenerateTestConfig() *Config {
	return &Config{
		Driver:         DriverSQLite,
		SQLite:         SQLiteConfig{Path: ":memory:"},
		CheckMigration: true,
	}
}

var db *gorm.DB

func dialector(config *Config) (gorm.Dialector, error) {
	switch config.Driver {
	case DriverMySQL:
		return mysql.Open(config.MySQL.dsn()), nil
	case DriverPostgres:
		return postgres.Open(config.Postgres.DSN), nil
	case DriverSQLite, "":
		return sqlite.Open(config.SQLite.Path), nil
	default:
		return nil, fmt.Errorf("unknown database driver [%s]", config.Driver)
	}
}

func CreateDatabase(config *Config) (*gorm.DB, error) {
	dial, err := dialector(config)
	if err != nil {
		return nil, utils.WrapError(err, "select dialector fail")
	}

	database, err := gorm.Open(dial, &gorm.Config{
		Logger: logger.New(newSQLLogger(logging.NewLogger()), logger.Config{LogLevel: logger.Info}),
	})
	if err != nil {
		return nil, utils.WrapError(err, "db connection fail")
	}

	if config.Driver == DriverSQLite || config.Driver == "" {
		// 内存库只存在于单个连接上
		sqlDB, err := database.DB()
		if err != nil {
			return nil, utils.WrapError(err, "get sql.DB fail")
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if config.CheckMigration {
		err = migration(database)
		if err != nil {
			return nil, utils.WrapError(err, "migration fail")
		}

		err = ensureNullPub(database)
		if err != nil {
			return nil, utils.WrapError(err, "ensureNullPub fail")
		}
	}

	return database, nil
}

func ensureNullPub(db *gorm.DB) error {
	pub := Pub{
		Uniquename: NullPubUniquename,
		Title:      "null",
	}
	err := db.Where(&Pub{Uniquename: NullPubUniquename}).FirstOrCreate(&pub).Error
	if err != nil {
		return utils.WrapError(err, "first or create null pub fail")
	}

	return nil
}

func migration(db *gorm.DB) error {
	err := db.AutoMigrate(allTables()...)
	if err != nil {
		return utils.WrapError(err, "AutoMigrate fail")
	}

	return nil
}

/*
Migrate 对已有连接执行建表，供命令行的 migrate 子命令使用
*/
func Migrate(db *gorm.DB) error {
	if err := migration(db); err != nil {
		return err
	}
	return ensureNullPub(db)
}

func Init(config *Config) {
	database, err := CreateDatabase(config)
	if err != nil {
		panic(err)
	}

	db = database
}

func DatabaseRaw() *gorm.DB {
	return db
}
