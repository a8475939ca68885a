package mail

import (
	"context"
	"fmt"

	"github.com/MaisonSlimani/maison-slimani-app-sub002/internal/config"
	"github.com/MaisonSlimani/maison-slimani-app-sub002/internal/notify"

	gomail "github.com/wneessen/go-mail"
)

// SMTP経由の送信
type SMTPMailer struct {
	client *gomail.Client
	from   string
}

func NewSMTPMailer(cfg config.Config) (*SMTPMailer, error) {
	opts := []gomail.Option{
		gomail.WithPort(cfg.SMTPPort),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
	}
	if cfg.SMTPUsername != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthLogin),
			gomail.WithUsername(cfg.SMTPUsername),
			gomail.WithPassword(cfg.SMTPPassword),
		)
	}

	client, err := gomail.NewClient(cfg.SMTPHost, opts...)
	if err != nil {
		return nil, fmt.Errorf("mail: new client: %w", err)
	}
	return &SMTPMailer{client: client, from: cfg.MailFrom}, nil
}

func (m *SMTPMailer) Send(ctx context.Context, msg notify.Message) error {
	out, err := buildMsg(m.from, msg)
	if err != nil {
		return err
	}
	if err := m.client.DialAndSendWithContext(ctx, out); err != nil {
		return fmt.Errorf("mail: send to %v: %w", msg.To, err)
	}
	return nil
}

// テキスト本文 + HTMLの代替本文
func buildMsg(from string, msg notify.Message) (*gomail.Msg, error) {
	if len(msg.To) == 0 {
		return nil, fmt.Errorf("mail: no recipient")
	}

	out := gomail.NewMsg()
	if err := out.From(from); err != nil {
		return nil, fmt.Errorf("mail: from: %w", err)
	}
	if err := out.To(msg.To...); err != nil {
		return nil, fmt.Errorf("mail: to: %w", err)
	}
	out.Subject(msg.Subject)

	switch {
	case msg.Text != "" && msg.HTML != "":
		out.SetBodyString(gomail.TypeTextPlain, msg.Text)
		out.AddAlternativeString(gomail.TypeTextHTML, msg.HTML)
	case msg.HTML != "":
		out.SetBodyString(gomail.TypeTextHTML, msg.HTML)
	default:
		out.SetBodyString(gomail.TypeTextPlain, msg.Text)
	}
	return out, nil
}
