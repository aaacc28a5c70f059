package main

import (
	"os"

	"github.com/joho/godotenv"

	"yuzu/cmd"
)

func main() {
	// .env 便于本地开发注入密钥，不存在时忽略
	_ = godotenv.Load()

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
