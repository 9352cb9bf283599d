// internal/service/alerter_ses.go
package service

import (
	"context"
	"log/slog"

	"go_5_review_scheduler/internal/config"
	"go_5_review_scheduler/internal/middleware"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

// SESAlerter は AWS SES を使って警報メールを送信する実装です
type SESAlerter struct {
	client *sesv2.Client
	cfg    *config.SESConfig
	to     string
}

// NewSESAlerter は設定に応じて認証方法を切り替えてSESクライアントを生成します
func NewSESAlerter(cfg *config.Config) Alerter {
	var awsCfgOpts []func(*awsconfig.LoadOptions) error
	awsCfgOpts = append(awsCfgOpts, awsconfig.WithRegion(cfg.SES.Region))

	switch cfg.SES.AuthType {
	case "static_credentials":
		slog.Info("Configuring SES with static credentials.")
		if cfg.SES.AccessKeyID == "" || cfg.SES.SecretAccessKey == "" {
			slog.Error("SES auth_type is 'static_credentials' but access_key_id or secret_access_key is missing in config.")
			// 設定ミスは起動時に気づけるよう即座に落とす
			panic("missing static credentials for SES")
		}
		creds := credentials.NewStaticCredentialsProvider(
			cfg.SES.AccessKeyID,
			cfg.SES.SecretAccessKey,
			"",
		)
		awsCfgOpts = append(awsCfgOpts, awsconfig.WithCredentialsProvider(creds))

	case "iam_role":
		// SDKが自動で認証情報を解決する (ECS Task Role, EC2 Instance Profileなど)
		slog.Info("Configuring SES with IAM Role credentials.")

	default:
		slog.Warn("Unknown SES auth_type specified, defaulting to IAM Role.", "type", cfg.SES.AuthType)
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsCfgOpts...)
	if err != nil {
		slog.Error("Failed to load AWS config for SES", "error", err)
		panic(err)
	}

	return &SESAlerter{
		client: sesv2.NewFromConfig(awsCfg),
		cfg:    &cfg.SES,
		to:     cfg.Alert.To,
	}
}

// Alert は AWS SES を使用して警報メールを送信します
func (a *SESAlerter) Alert(ctx context.Context, subject, body string) error {
	logger := middleware.GetLogger(ctx)

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(a.cfg.From),
		Destination: &types.Destination{
			ToAddresses: []string{a.to},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(subject),
					Charset: aws.String("UTF-8"),
				},
				Body: &types.Body{
					Text: &types.Content{
						Data:    aws.String(body),
						Charset: aws.String("UTF-8"),
					},
				},
			},
		},
	}

	if _, err := a.client.SendEmail(context.Background(), input); err != nil {
		logger.Error("Failed to send alert via SES", "error", err, "to", a.to)
		return err
	}

	logger.Info("Alert sent via SES", "to", a.to, "subject", subject)
	return nil
}
