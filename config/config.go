package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type ServerConfig struct {
	Port string `yaml:"port"`
}

type ArcGISConfig struct {
	PortalURL         string `yaml:"portal_url"`
	Referer           string `yaml:"referer"`
	Username          string `yaml:"username"`
	Password          string `yaml:"password"`
	ProjectsTableURL  string `yaml:"projects_table_url"`
	ResourcesTableURL string `yaml:"resources_table_url"`
}

type S3Config struct {
	Endpoint     string `yaml:"endpoint"`
	AccessKey    string `yaml:"access_key"`
	SecretKey    string `yaml:"secret_key"`
	Bucket       string `yaml:"bucket"`
	UseSSL       bool   `yaml:"use_ssl"`
	StatusPath   string `yaml:"status_path"`
	ProjectsPath string `yaml:"projects_path"`
}

type RedisConfig struct {
	Addr        string        `yaml:"addr"`
	Password    string        `yaml:"password"`
	DB          int           `yaml:"db"`
	SnapshotTTL time.Duration `yaml:"snapshot_ttl"`
}

type AuthConfig struct {
	JWTSecret            string `yaml:"jwt_secret"`
	OperatorName         string `yaml:"operator_name"`
	OperatorPasswordHash string `yaml:"operator_password_hash"`
}

type AnalysisConfig struct {
	ProgramPrefix  string `yaml:"program_prefix"`
	ProgramKeyword string `yaml:"program_keyword"`
	SearchPerson   string `yaml:"search_person"`
}

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	ArcGIS   ArcGISConfig   `yaml:"arcgis"`
	S3       S3Config       `yaml:"s3"`
	Redis    RedisConfig    `yaml:"redis"`
	Auth     AuthConfig     `yaml:"auth"`
	Analysis AnalysisConfig `yaml:"analysis"`
}

// Load reads config.yaml (path from PORTAL_CONFIG) when present, applies
// environment overrides and exits with a list of missing required settings.
func Load() *Config {
	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}
	return cfg
}

func loadConfig() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{Port: ":8080"},
		ArcGIS: ArcGISConfig{
			PortalURL: "https://www.arcgis.com/sharing/rest",
			Referer:   "https://services6.arcgis.com",
		},
		Redis: RedisConfig{SnapshotTTL: 5 * time.Minute},
		Analysis: AnalysisConfig{
			ProgramPrefix:  "CRP",
			ProgramKeyword: "Caribou",
		},
	}

	path := os.Getenv("PORTAL_CONFIG")
	if path == "" {
		path = "config.yaml"
	}
	if f, err := os.Open(path); err == nil {
		decoder := yaml.NewDecoder(f)
		decodeErr := decoder.Decode(cfg)
		f.Close()
		if decodeErr != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", path, decodeErr)
		}
	}

	overrideFromEnv(cfg)

	if missing := cfg.Validate(); len(missing) > 0 {
		return nil, fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}

	return cfg, nil
}

// Validate returns the names of required settings that are unset.
func (c *Config) Validate() []string {
	required := []struct {
		name  string
		value string
	}{
		{"ARCGIS_USERNAME", c.ArcGIS.Username},
		{"ARCGIS_PASSWORD", c.ArcGIS.Password},
		{"GSS_PROJECTS_TABLE_URL", c.ArcGIS.ProjectsTableURL},
		{"GSS_RESOURCES_TABLE_URL", c.ArcGIS.ResourcesTableURL},
		{"AWS_S3_ENDPOINT", c.S3.Endpoint},
		{"AWS_ACCESS_KEY_ID", c.S3.AccessKey},
		{"AWS_SECRET_ACCESS_KEY", c.S3.SecretKey},
		{"AWS_S3_BUCKET", c.S3.Bucket},
		{"STATUS_PATH", c.S3.StatusPath},
		{"PROJECTS_PATH", c.S3.ProjectsPath},
		{"JWT_SECRET", c.Auth.JWTSecret},
	}

	var missing []string
	for _, r := range required {
		if r.value == "" {
			missing = append(missing, r.name)
		}
	}
	return missing
}

func overrideFromEnv(cfg *Config) {
	if port := os.Getenv("SERVER_PORT"); port != "" {
		cfg.Server.Port = port
	}

	// ArcGIS
	if v := os.Getenv("ARCGIS_PORTAL_URL"); v != "" {
		cfg.ArcGIS.PortalURL = v
	}
	if v := os.Getenv("ARCGIS_REFERER"); v != "" {
		cfg.ArcGIS.Referer = v
	}
	if v := os.Getenv("ARCGIS_USERNAME"); v != "" {
		cfg.ArcGIS.Username = v
	}
	if v := os.Getenv("ARCGIS_PASSWORD"); v != "" {
		cfg.ArcGIS.Password = v
	}
	if v := os.Getenv("GSS_PROJECTS_TABLE_URL"); v != "" {
		cfg.ArcGIS.ProjectsTableURL = v
	}
	if v := os.Getenv("GSS_RESOURCES_TABLE_URL"); v != "" {
		cfg.ArcGIS.ResourcesTableURL = v
	}

	// Object storage
	if v := os.Getenv("AWS_S3_ENDPOINT"); v != "" {
		cfg.S3.Endpoint = v
	}
	if v := os.Getenv("AWS_ACCESS_KEY_ID"); v != "" {
		cfg.S3.AccessKey = v
	}
	if v := os.Getenv("AWS_SECRET_ACCESS_KEY"); v != "" {
		cfg.S3.SecretKey = v
	}
	if v := os.Getenv("AWS_S3_BUCKET"); v != "" {
		cfg.S3.Bucket = v
	}
	if v := os.Getenv("AWS_S3_USE_SSL"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.S3.UseSSL = b
		}
	}
	if v := os.Getenv("STATUS_PATH"); v != "" {
		cfg.S3.StatusPath = v
	}
	if v := os.Getenv("PROJECTS_PATH"); v != "" {
		cfg.S3.ProjectsPath = v
	}

	// Redis
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		if db, err := strconv.Atoi(v); err == nil {
			cfg.Redis.DB = db
		}
	}
	if v := os.Getenv("SNAPSHOT_TTL"); v != "" {
		if ttl, err := time.ParseDuration(v); err == nil {
			cfg.Redis.SnapshotTTL = ttl
		}
	}

	// Auth
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.Auth.JWTSecret = v
	}
	if v := os.Getenv("OPERATOR_NAME"); v != "" {
		cfg.Auth.OperatorName = v
	}
	if v := os.Getenv("OPERATOR_PASSWORD_HASH"); v != "" {
		cfg.Auth.OperatorPasswordHash = v
	}

	// Analysis filters
	if v := os.Getenv("PROGRAM_PREFIX"); v != "" {
		cfg.Analysis.ProgramPrefix = v
	}
	if v := os.Getenv("PROGRAM_KEYWORD"); v != "" {
		cfg.Analysis.ProgramKeyword = v
	}
	if v := os.Getenv("SEARCH_PERSON"); v != "" {
		cfg.Analysis.SearchPerson = v
	}
}
