package main

import (
	"github.com/joho/godotenv"
	"github.com/kiliankoe/calculecrit/internal/cli"
)

func main() {
	_ = godotenv.Load()
	cli.Execute()
}
