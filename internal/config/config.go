package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Durum geçiş politikaları
const (
	StatusPolicySerbest = "serbest" // her durum değeri kabul edilir (varsayılan)
	StatusPolicyIleri   = "ileri"   // sadece bilinen aşamalar, geriye dönüş yok
)

type Config struct {
	HTTPPort     string
	DatabaseDSN  string
	JWTSecret    string
	CORSOrigins  string
	StatusPolicy string // Üretim durum geçiş politikası
}

func Load() *Config {
	// .env varsa yükle (yoksa sessizce devam)
	godotenv.Load()

	cfg := &Config{
		HTTPPort:     getEnv("HTTP_PORT", "8080"),
		DatabaseDSN:  getEnv("DATABASE_DSN", "host=localhost user=postgres password=postgres dbname=corap port=5432 sslmode=disable"),
		JWTSecret:    getEnv("JWT_SECRET", ""),
		CORSOrigins:  getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		StatusPolicy: getEnv("STATUS_POLICY", StatusPolicySerbest),
	}

	// Production güvenlik kontrolleri
	if cfg.JWTSecret == "" {
		log.Fatal("[FATAL] JWT_SECRET environment değişkeni tanımlanmamış! Production için zorunludur.")
	}
	if len(cfg.JWTSecret) < 32 {
		log.Fatal("[FATAL] JWT_SECRET en az 32 karakter olmalıdır! Güvenlik riski.")
	}
	if cfg.StatusPolicy != StatusPolicySerbest && cfg.StatusPolicy != StatusPolicyIleri {
		log.Fatalf("[FATAL] STATUS_POLICY geçersiz: %q ('serbest' veya 'ileri' olmalı)", cfg.StatusPolicy)
	}
	if cfg.DatabaseDSN == "host=localhost user=postgres password=postgres dbname=corap port=5432 sslmode=disable" {
		log.Println("[WARN] DATABASE_DSN varsayılan değer kullanılıyor, production için mutlaka kendi Postgres bağlantı bilgisini tanımla.")
	}
	if cfg.CORSOrigins == "http://localhost:5173" {
		log.Println("[WARN] CORS_ALLOWED_ORIGINS varsayılan değer kullanılıyor, production için mutlaka kendi domain'ini tanımla.")
	}

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
