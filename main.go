package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type StorageConfig struct {
	Driver string   `yaml:"driver"` // "file" or "s3"
	Path   string   `yaml:"path"`
	S3     S3Config `yaml:"s3"`
}

type Config struct {
	Port      int           `yaml:"port"`
	StaticDir string        `yaml:"static_dir"`
	Storage   StorageConfig `yaml:"storage"`
}

// loadConfig reads the yaml config file. A missing file is fine: the
// defaults run the server off a local data.json, no setup needed.
func loadConfig(path string) (*Config, error) {
	cfg := Config{
		Port:      8080,
		StaticDir: "static",
		Storage:   StorageConfig{Driver: "file", Path: "data.json"},
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &cfg, nil
		}
		return nil, err
	}
	defer f.Close()
	dec := yaml.NewDecoder(f)
	if err := dec.Decode(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func newStore(cfg StorageConfig) (Store, error) {
	switch cfg.Driver {
	case "", "file":
		path := cfg.Path
		if path == "" {
			path = "data.json"
		}
		return NewFileStore(path), nil
	case "s3":
		return NewS3Store(cfg.S3)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

func main() {
	// .env is optional; real env always wins
	_ = godotenv.Load()

	configFile := os.Getenv("CONFIG_FILE")
	if configFile == "" {
		configFile = "config.yml"
	}
	cfg, err := loadConfig(configFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if portStr := os.Getenv("PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			log.Fatalf("Invalid PORT env variable: %v", err)
		}
		cfg.Port = port
	}

	store, err := newStore(cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to init storage: %v", err)
	}

	svc := NewService(store)
	r := newRouter(svc, cfg.StaticDir)

	log.Printf("Retro server starting on :%d", cfg.Port)
	if err := http.ListenAndServe(fmt.Sprintf(":%d", cfg.Port), r); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
