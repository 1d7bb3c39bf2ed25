package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`

	Database struct {
		Driver   string `yaml:"driver"` // mysql | postgres
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Name     string `yaml:"name"`
	} `yaml:"database"`

	Minio struct {
		Endpoint   string `yaml:"endpoint"`
		AccessKey  string `yaml:"accessKey"`
		SecretKey  string `yaml:"secretKey"`
		BucketName string `yaml:"bucketName"`
		Region     string `yaml:"region"`
		UseSSL     bool   `yaml:"useSSL"`
	} `yaml:"minio"`

	OpenAI struct {
		APIKey string `yaml:"apiKey"`
		Model  string `yaml:"model"`
	} `yaml:"openai"`

	// Bridges: endpoint tool eksternal yang dipanggil runner
	Bridges struct {
		AlignBin   string `yaml:"alignBin"`   // binary CLI alignment (CloudCompare)
		EngineURL  string `yaml:"engineURL"`  // remote API VR engine
		ScannerURL string `yaml:"scannerURL"` // bridge LiDAR scanner
		TwinURL    string `yaml:"twinURL"`    // API sync/accuracy digital twin
	} `yaml:"bridges"`

	Thresholds struct {
		DeviationTolerance float64 `yaml:"deviationTolerance"` // mm, dikirim ke tool alignment
		Interactions       int     `yaml:"interactions"`
		UpdateLimitSec     float64 `yaml:"updateLimitSec"`
		AccuracyThreshold  float64 `yaml:"accuracyThreshold"` // %
		AccuracyTolerance  float64 `yaml:"accuracyTolerance"` // dicatat di metadata, bukan aturan lulus
		FPSTarget          float64 `yaml:"fpsTarget"`         // dilaporkan saja, tidak jadi syarat lulus
	} `yaml:"thresholds"`

	APIKeys map[string]string `yaml:"apiKeys"` // tenant -> key
}

// Load baca file config.yaml. File .env di-load dulu supaya override
// via environment tetap jalan (pola dari deploy lama).
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.OpenAI.APIKey = v
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Database.Driver == "" {
		c.Database.Driver = "mysql"
	}
	if c.Bridges.AlignBin == "" {
		c.Bridges.AlignBin = "CloudCompare"
	}
	t := &c.Thresholds
	if t.DeviationTolerance <= 0 {
		t.DeviationTolerance = 0.5
	}
	if t.Interactions <= 0 {
		t.Interactions = 50
	}
	if t.UpdateLimitSec <= 0 {
		t.UpdateLimitSec = 600
	}
	if t.AccuracyThreshold <= 0 {
		t.AccuracyThreshold = 90
	}
	if t.AccuracyTolerance <= 0 {
		t.AccuracyTolerance = 5
	}
	if t.FPSTarget <= 0 {
		t.FPSTarget = 72
	}
}

// Helper untuk build DSN MySQL
func (c *Config) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
	)
}

// Helper untuk build DSN Postgres
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
	)
}
