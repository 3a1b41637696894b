package config

import (
	"strconv"

	"germplasm-accession-importer/utils"
)

const (
	EnvKeyDBDriver   = "GERMPLASM_DB_DRIVER"
	EnvKeyDBDSN      = "GERMPLASM_DB_DSN"
	EnvKeySQLitePath = "GERMPLASM_SQLITE_PATH"

	EnvKeyMySQLUser     = "GERMPLASM_MYSQL_USER"
	EnvKeyMySQLPassword = "GERMPLASM_MYSQL_PASSWORD"
	EnvKeyMySQLHost     = "GERMPLASM_MYSQL_HOST"
	EnvKeyMySQLDatabase = "GERMPLASM_MYSQL_DATABASE"

	EnvKeyServerPort = "GERMPLASM_SERVER_PORT"
	EnvKeyAdminToken = "GERMPLASM_ADMIN_TOKEN"
	EnvKeyInputDir   = "GERMPLASM_INPUT_DIR"

	EnvKeyRabbitMQUser = "GERMPLASM_RABBITMQ_USER"
	EnvKeyRabbitMQPwd  = "GERMPLASM_RABBITMQ_PWD"
	EnvKeyRabbitMQHost = "GERMPLASM_RABBITMQ_HOST"
	EnvKeyRabbitMQPort = "GERMPLASM_RABBITMQ_PORT"

	EnvKeyEmailSMTPHost     = "GERMPLASM_SMTP_HOST"
	EnvKeyEmailSMTPPort     = "GERMPLASM_SMTP_PORT"
	EnvKeyEmailSMTPUserName = "GERMPLASM_SMTP_USERNAME"
	EnvKeyEmailSMTPPassword = "GERMPLASM_SMTP_PASSWORD"

	EnvKeyS3Endpoint = "GERMPLASM_S3_ENDPOINT"
	EnvKeyS3Region   = "GERMPLASM_S3_REGION"

	EnvKeyNeo4jHost = "GERMPLASM_NEO4J_HOST"
	EnvKeyNeo4jUser = "GERMPLASM_NEO4J_USER"
	EnvKeyNeo4jPwd  = "GERMPLASM_NEO4J_PWD"
)

type lookupFunc func(key string) (string, bool)

func setString(lookup lookupFunc, key string, target *string) {
	if value, ok := lookup(key); ok && value != "" {
		*target = value
	}
}

func setInt(lookup lookupFunc, key string, target *int) error {
	value, ok := lookup(key)
	if !ok || value == "" {
		return nil
	}

	ret, err := strconv.Atoi(value)
	if err != nil {
		return utils.WrapErrorf(err, "parse %s=[%s] fail", key, value)
	}
	*target = ret
	return nil
}

/*
applyEnv 用环境变量覆盖配置，只覆盖非空的变量。
设置了 RabbitMQ 或 Neo4j 主机时同时启用对应的功能。
*/
func applyEnv(config *AppConfig, lookup lookupFunc) error {
	setString(lookup, EnvKeyDBDriver, &config.Database.Driver)
	setString(lookup, EnvKeyDBDSN, &config.Database.Postgres.DSN)
	setString(lookup, EnvKeySQLitePath, &config.Database.SQLite.Path)
	setString(lookup, EnvKeyMySQLUser, &config.Database.MySQL.User)
	setString(lookup, EnvKeyMySQLPassword, &config.Database.MySQL.Password)
	setString(lookup, EnvKeyMySQLHost, &config.Database.MySQL.Host)
	setString(lookup, EnvKeyMySQLDatabase, &config.Database.MySQL.Database)

	if err := setInt(lookup, EnvKeyServerPort, &config.Server.Port); err != nil {
		return err
	}
	setString(lookup, EnvKeyAdminToken, &config.Server.AdminToken)
	setString(lookup, EnvKeyInputDir, &config.Server.InputDir)

	if host, ok := lookup(EnvKeyRabbitMQHost); ok && host != "" {
		config.Job.Enable = true
	}
	setString(lookup, EnvKeyRabbitMQUser, &config.Job.RabbitMQ.User)
	setString(lookup, EnvKeyRabbitMQPwd, &config.Job.RabbitMQ.Pwd)
	setString(lookup, EnvKeyRabbitMQHost, &config.Job.RabbitMQ.Host)
	setString(lookup, EnvKeyRabbitMQPort, &config.Job.RabbitMQ.Port)

	setString(lookup, EnvKeyEmailSMTPHost, &config.Email.SMTP.Host)
	if err := setInt(lookup, EnvKeyEmailSMTPPort, &config.Email.SMTP.Port); err != nil {
		return err
	}
	setString(lookup, EnvKeyEmailSMTPUserName, &config.Email.SMTP.UserName)
	setString(lookup, EnvKeyEmailSMTPPassword, &config.Email.SMTP.Password)

	setString(lookup, EnvKeyS3Endpoint, &config.FileSource.S3.Endpoint)
	setString(lookup, EnvKeyS3Region, &config.FileSource.S3.Region)

	if host, ok := lookup(EnvKeyNeo4jHost); ok && host != "" {
		config.Graph.Enable = true
	}
	setString(lookup, EnvKeyNeo4jHost, &config.Graph.Neo4j.Host)
	setString(lookup, EnvKeyNeo4jUser, &config.Graph.Neo4j.User)
	setString(lookup, EnvKeyNeo4jPwd, &config.Graph.Neo4j.Pwd)

	return nil
}
