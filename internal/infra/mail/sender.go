package mail

import (
	"bytes"
	"fmt"
	"path/filepath"
	"text/template"
	"time"

	"gopkg.in/gomail.v2"
)

func NewEmailSender(host string, port int, user, password string) *EmailSender {
	return &EmailSender{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
	}
}

// SendImportSummary avisa o operador que um import em massa terminou.
// Melhor esforço: chamado fora do caminho da resposta HTTP.
func (s *EmailSender) SendImportSummary(to, fileName string, inserted int) error {
	data := ImportSummaryData{
		FileName:   fileName,
		Inserted:   inserted,
		ImportedAt: time.Now().Format(time.RFC1123),
	}

	tmplPath := filepath.Join("templates", "import_summary.html")
	t, err := template.ParseFiles(tmplPath)
	if err != nil {
		return fmt.Errorf("erro ao ler template de email: %w", err)
	}

	var body bytes.Buffer
	if err := t.Execute(&body, data); err != nil {
		return fmt.Errorf("erro ao processar template: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", "no-reply@leadstack.app")
	m.SetHeader("To", to)
	m.SetHeader("Subject", fmt.Sprintf("Import concluído: %d leads", inserted))
	m.SetBody("text/html", body.String())

	d := gomail.NewDialer(s.Host, s.Port, s.User, s.Password)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("erro ao enviar email SMTP: %w", err)
	}

	return nil
}
