package email

import (
	"errors"

	"germplasm-accession-importer/utils"
	"gopkg.in/gomail.v2"
)

var ErrDisabled = errors.New("smtp not configured")

func newHtmlMessage(config *SMTPConfig, to, subject, htmlContent string) *gomail.Message {
	from := config.From
	if from == "" {
		from = config.UserName
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlContent)
	return msg
}

/*
SendHtml 向 to 发送一封 HTML 邮件，未配置 SMTP 时返回 ErrDisabled
*/
func SendHtml(to string, subject string, htmlContent string) error {
	if !Enabled() {
		return ErrDisabled
	}

	config := globalConfig.SMTP
	dialer := gomail.NewDialer(config.Host, config.Port, config.UserName, config.Password)

	if err := dialer.DialAndSend(newHtmlMessage(&config, to, subject, htmlContent)); err != nil {
		return utils.WrapErrorf(err, "send mail to [%s] fail", to)
	}

	return nil
}
