package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port        int      `yaml:"port"`
		CORSOrigins []string `yaml:"corsOrigins"`
		APIKeys     []string `yaml:"apiKeys"`
	} `yaml:"server"`

	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`

	Gemini struct {
		APIKey            string  `yaml:"apiKey"`
		FastModel         string  `yaml:"fastModel"`
		PowerfulModel     string  `yaml:"powerfulModel"`
		Temperature       float64 `yaml:"temperature"`
		StructuredOutput  bool    `yaml:"structuredOutput"`
		UseManagedStorage bool    `yaml:"useManagedStorage"`
	} `yaml:"gemini"`

	Minio struct {
		Endpoint    string `yaml:"endpoint"`
		AccessKey   string `yaml:"accessKey"`
		SecretKey   string `yaml:"secretKey"`
		BucketName  string `yaml:"bucketName"`
		Region      string `yaml:"region"`
		UseSSL      bool   `yaml:"useSSL"`
		MediaFolder string `yaml:"mediaFolder"`
	} `yaml:"minio"`

	Uploads struct {
		TTLMinutes int `yaml:"ttlMinutes"`
		MaxEntries int `yaml:"maxEntries"`
	} `yaml:"uploads"`
}

// Load reads the yaml config file and applies env overrides for secrets.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	// Secrets come from the environment when set
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		cfg.Gemini.APIKey = v
	}
	if v := os.Getenv("MINIO_ACCESS_KEY"); v != "" {
		cfg.Minio.AccessKey = v
	}
	if v := os.Getenv("MINIO_SECRET_KEY"); v != "" {
		cfg.Minio.SecretKey = v
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "json"
	}
	if c.Gemini.FastModel == "" {
		c.Gemini.FastModel = "gemini-flash-latest"
	}
	if c.Gemini.PowerfulModel == "" {
		c.Gemini.PowerfulModel = "gemini-3-pro-preview"
	}
	if c.Gemini.Temperature == 0 {
		c.Gemini.Temperature = 1.0
	}
	if c.Minio.MediaFolder == "" {
		c.Minio.MediaFolder = "media"
	}
	if c.Uploads.TTLMinutes == 0 {
		c.Uploads.TTLMinutes = 30
	}
	if c.Uploads.MaxEntries == 0 {
		c.Uploads.MaxEntries = 256
	}
}
