// internal/config/constants.go
package config

// アプリケーション情報
const (
	AppName    = "ReviewScheduler"
	AppVersion = "1.0.0"
)

// デフォルト設定値
const (
	DefaultServerPort           = ":8080"
	DefaultLogLevel             = "info"
	DefaultDueLimit             = 100
	DefaultUpcomingDaysMax      = 30
	DefaultQueueSize            = 1024
	DefaultQueueDrainIntervalMs = 30000
	DefaultQueueMaxAttempts     = 5
	DefaultAlertType            = "log"
)
