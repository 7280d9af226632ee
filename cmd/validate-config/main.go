package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/pillmate/pill-helper/internal/config"
)

func main() {
	fmt.Println("🔍 설정을 확인하는 중...")

	if err := godotenv.Load(); err != nil {
		fmt.Printf("⚠️  .env 파일이 없습니다: %v\n", err)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("❌ 설정 오류:\n%v\n", err)
		os.Exit(1)
	}

	fmt.Println("✅ 설정이 유효합니다!")
	fmt.Printf("📋 설정 내용:\n")
	fmt.Printf("  - Telegram Token: %s\n", maskToken(cfg.TelegramToken))
	fmt.Printf("  - Backend URL: %s\n", cfg.Backend.BaseURL)
	fmt.Printf("  - Places API Key: %s\n", maskToken(cfg.Places.APIKey))
	fmt.Printf("  - Nearby Radius: %dm\n", cfg.Places.NearbyRadius)
	fmt.Printf("  - Log Level: %v\n", cfg.Logger.Level)
	fmt.Printf("  - Log Output: %s\n", cfg.Logger.OutputPath)
	fmt.Printf("  - Log Format: %s\n", cfg.Logger.Format)
}

func maskToken(token string) string {
	if token == "" {
		return "<설정 안 됨>"
	}
	if len(token) <= 8 {
		return "***"
	}
	return token[:4] + "..." + token[len(token)-4:]
}
