package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the agent's full configuration, parsed once at startup and
// passed explicitly into constructors. Nothing reads the environment after
// Load returns.
type Config struct {
	CameraDevice string `env:"CAMERA_DEVICE" envDefault:"/dev/video0"`
	CameraWidth  int    `env:"CAMERA_WIDTH"  envDefault:"640"`
	CameraHeight int    `env:"CAMERA_HEIGHT" envDefault:"480"`

	OutputDir       string        `env:"OUTPUT_DIR"       envDefault:"/var/lib/camrec/segments"`
	SegmentDuration time.Duration `env:"SEGMENT_DURATION" envDefault:"5m"`
	FPS             int           `env:"FPS"              envDefault:"20"`

	RecordCodec     string `env:"RECORD_CODEC"     envDefault:"mpeg4"`
	TranscodeCodec  string `env:"TRANSCODE_CODEC"  envDefault:"libx264"`
	TranscodeCRF    int    `env:"TRANSCODE_CRF"    envDefault:"28"`
	TranscodePreset string `env:"TRANSCODE_PRESET" envDefault:"fast"`

	UploadBackend string `env:"UPLOAD_BACKEND" envDefault:"onedrive"` // onedrive or minio

	OneDriveBaseURL     string `env:"ONEDRIVE_BASE_URL"     envDefault:"https://graph.microsoft.com/v1.0/me/drive"`
	OneDriveFolderID    string `env:"ONEDRIVE_FOLDER_ID"`
	OneDriveAccessToken string `env:"ONEDRIVE_ACCESS_TOKEN"`
	UploadContentType   string `env:"UPLOAD_CONTENT_TYPE"   envDefault:"video/mp4"`

	MinIOEndpoint  string `env:"MINIO_ENDPOINT"   envDefault:"minio:9000"`
	MinIOAccessKey string `env:"MINIO_ACCESS_KEY" envDefault:"minioadmin"`
	MinIOSecretKey string `env:"MINIO_SECRET_KEY" envDefault:"minioadmin"`
	MinIOUseSSL    bool   `env:"MINIO_USE_SSL"    envDefault:"false"`
	MinIOBucket    string `env:"MINIO_BUCKET"     envDefault:"segments"`
	MinIOPrefix    string `env:"MINIO_PREFIX"`

	DatabaseURL   string `env:"DATABASE_URL"`
	MigrationsDir string `env:"MIGRATIONS_DIR" envDefault:"migrations"`

	RabbitMQURL        string `env:"RABBITMQ_URL"`
	RabbitMQExchange   string `env:"RABBITMQ_EXCHANGE"    envDefault:"camrec.segments"`
	RabbitMQEventQueue string `env:"RABBITMQ_EVENT_QUEUE" envDefault:"segment.events"`

	SMTPHost string `env:"SMTP_HOST"`
	SMTPPort int    `env:"SMTP_PORT" envDefault:"25"`
	SMTPFrom string `env:"SMTP_FROM" envDefault:"camrec@localhost"`
	AlertTo  string `env:"ALERT_TO"`

	MetricsPort  int           `env:"METRICS_PORT"  envDefault:"8083"`
	OTLPEndpoint string        `env:"OTLP_ENDPOINT"`
	LogLevel     string        `env:"LOG_LEVEL"     envDefault:"info"`
	DrainTimeout time.Duration `env:"DRAIN_TIMEOUT" envDefault:"30s"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
