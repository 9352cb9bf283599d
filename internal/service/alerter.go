// internal/service/alerter.go
package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"

	"go_5_review_scheduler/internal/config"
	"go_5_review_scheduler/internal/middleware"
)

// Alerter はオペレータ向け警報の送信チャネルです。
// スケジュール永続化の同期リトライが尽きた場合などに使う。
type Alerter interface {
	Alert(ctx context.Context, subject, body string) error
}

// --- LogAlerter ---

// LogAlerter は警報をエラーログとして出力するだけの実装（開発・既定）
type LogAlerter struct{}

func (a *LogAlerter) Alert(ctx context.Context, subject, body string) error {
	logger := middleware.GetLogger(ctx)
	logger.Error("--- OPERATOR ALERT (LogAlerter) ---", "subject", subject, "body", body)
	return nil
}

// --- SmtpAlerter ---

// SmtpAlerter は SMTP 経由で警報メールを送信する実装
type SmtpAlerter struct {
	cfg *config.SMTPConfig
	to  string
}

func (a *SmtpAlerter) Alert(ctx context.Context, subject, body string) error {
	logger := middleware.GetLogger(ctx)
	addr := fmt.Sprintf("%s:%d", a.cfg.Host, a.cfg.Port)

	logger.Debug("Attempting to send alert via SMTP",
		"smtp_addr", addr,
		"from", a.cfg.From,
		"to", a.to,
	)

	c, err := smtp.Dial(addr)
	if err != nil {
		logger.Error("Failed to connect to SMTP server", "error", err, "addr", addr)
		return err
	}
	defer c.Close()

	if err = c.Mail(a.cfg.From); err != nil {
		logger.Error("Failed to set MAIL FROM", "error", err, "from", a.cfg.From)
		return err
	}
	if err = c.Rcpt(a.to); err != nil {
		logger.Error("Failed to set RCPT TO", "error", err, "to", a.to)
		return err
	}

	wc, err := c.Data()
	if err != nil {
		logger.Error("Failed to open data writer", "error", err)
		return err
	}
	defer wc.Close()

	msg := "To: " + a.to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"\r\n" +
		body + "\r\n"
	if _, err = wc.Write([]byte(msg)); err != nil {
		logger.Error("Failed to write alert data", "error", err)
		return err
	}

	logger.Info("Alert sent via SMTP", "to", a.to, "subject", subject)
	return nil
}

// --- NewAlerter ファクトリ関数 ---

func NewAlerter(cfg *config.Config) Alerter {
	logger := slog.Default()
	switch cfg.Alert.Type {
	case "ses":
		logger.Info("Initializing SES alerter...")
		return NewSESAlerter(cfg)
	case "smtp":
		logger.Info("Initializing SMTP alerter...")
		return &SmtpAlerter{cfg: &cfg.SMTP, to: cfg.Alert.To}
	case "log":
		logger.Info("Initializing Log alerter...")
		return &LogAlerter{}
	default:
		logger.Warn("Unknown alerter type, defaulting to LogAlerter", "type", cfg.Alert.Type)
		return &LogAlerter{}
	}
}
