package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	ListenAddr string `envconfig:"LISTEN_ADDR" default:":8080"`
	DBPath     string `envconfig:"DB_PATH" default:"/data/sitelog.db"`
	LogLevel   string `envconfig:"LOG_LEVEL" default:"info"`
	LogFile    string `envconfig:"LOG_FILE"`
	LogFormat  string `envconfig:"LOG_FORMAT" default:"json"`
	Timezone   string `envconfig:"TIMEZONE" default:"Pacific/Auckland"`

	BackupDriver      string `envconfig:"BACKUP_DRIVER" default:"local"`
	BackupLocalPath   string `envconfig:"BACKUP_LOCAL_PATH" default:"/data/backups"`
	BackupS3Bucket    string `envconfig:"BACKUP_S3_BUCKET"`
	BackupS3Region    string `envconfig:"BACKUP_S3_REGION"`
	BackupS3Endpoint  string `envconfig:"BACKUP_S3_ENDPOINT"`
	BackupS3PathStyle bool   `envconfig:"BACKUP_S3_PATH_STYLE"`

	GeocodeEnabled   bool          `envconfig:"GEOCODE_ENABLED" default:"true"`
	GeocodeURL       string        `envconfig:"GEOCODE_URL" default:"https://nominatim.openstreetmap.org"`
	GeocodeCountry   string        `envconfig:"GEOCODE_COUNTRY" default:"nz"`
	GeocodeUserAgent string        `envconfig:"GEOCODE_USER_AGENT" default:"sitelog/1.0"`
	GeocodeTimeout   time.Duration `envconfig:"GEOCODE_TIMEOUT" default:"10s"`

	AttachmentMaxBytes int64 `envconfig:"ATTACHMENT_MAX_BYTES" default:"10485760"`
	AttachmentWorkers  int   `envconfig:"ATTACHMENT_WORKERS" default:"4"`
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	c := new(Config)
	if err := envconfig.Process("", c); err != nil {
		return nil, fmt.Errorf("process environment config: %w", err)
	}

	switch c.BackupDriver {
	case "local", "s3", "none":
	default:
		return nil, fmt.Errorf("unknown BACKUP_DRIVER %q", c.BackupDriver)
	}
	if c.BackupDriver == "s3" && c.BackupS3Bucket == "" {
		return nil, fmt.Errorf("set BACKUP_S3_BUCKET for the s3 backup driver")
	}
	if c.AttachmentWorkers <= 0 {
		c.AttachmentWorkers = 4
	}
	return c, nil
}

// Location resolves Timezone, falling back to UTC when it is unknown.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
