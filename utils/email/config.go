package email

/*
SMTPConfig 发件服务器配置。

	From 发件人地址，为空时使用 UserName；
*/
type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	UserName string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
}

/*
Config 邮件配置，Host 为空时不发送邮件
*/
type Config struct {
	SMTP SMTPConfig `yaml:"smtp"`
}

var globalConfig = Config{}

func Init(config *Config) {
	globalConfig = *config
}

func Enabled() bool {
	return globalConfig.SMTP.Host != ""
}

func GenerateTestConfig() *Config {
	return &Config{SMTP: SMTPConfig{
		Host:     "localhost",
		Port:     1025,
		UserName: "germplasm-importer@localhost",
		From:     "germplasm-importer@localhost",
	}}
}
