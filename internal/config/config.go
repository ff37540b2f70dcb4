package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Port     string
	LogLevel string
	Language string

	TotalQuestions   int
	SubtractionRatio float64

	NarratorProvider string // "none", "openai" or "ollama"
	NarratorModel    string
	NarratorPrompt   string
	OpenAIKey        string
	OpenAIBaseURL    string
	OllamaHost       string

	TeacherUser   string
	TeacherPass   string
	SingleSession bool

	ExportEnabled bool
	ExportFile    string
	ResultsDB     string
}

func FromEnv() Config {
	c := Config{}
	c.Port = getenv("PORT", "8080")
	c.LogLevel = getenv("LOG_LEVEL", "info")
	c.Language = getenv("LANGUAGE", "fr")
	c.TotalQuestions = getenvInt("TOTAL_QUESTIONS", 5)
	c.SubtractionRatio = getenvFloat("SUBTRACTION_RATIO", 0.5)
	c.NarratorProvider = strings.ToLower(getenv("NARRATOR_PROVIDER", "none"))
	c.NarratorModel = os.Getenv("NARRATOR_MODEL")
	c.NarratorPrompt = os.Getenv("NARRATOR_PROMPT")
	c.OpenAIKey = os.Getenv("OPENAI_API_KEY")
	c.OpenAIBaseURL = os.Getenv("OPENAI_BASE_URL")
	c.OllamaHost = getenv("OLLAMA_HOST", "http://localhost:11434")
	c.TeacherUser = os.Getenv("TEACHER_USER")
	c.TeacherPass = os.Getenv("TEACHER_PASS")
	c.SingleSession = getenv("SINGLE_SESSION", "true") == "true"
	c.ExportEnabled = getenv("EXPORT_ENABLED", "true") == "true"
	c.ExportFile = getenv("EXPORT_FILE", "./calcul-results.txt")
	c.ResultsDB = os.Getenv("RESULTS_DB")
	return c
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getenvInt(k string, def int) int {
	if v, err := strconv.Atoi(os.Getenv(k)); err == nil && v > 0 {
		return v
	}
	return def
}

func getenvFloat(k string, def float64) float64 {
	if v, err := strconv.ParseFloat(os.Getenv(k), 64); err == nil && v >= 0 && v <= 1 {
		return v
	}
	return def
}
