package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port               string
	DBConnectionString string
	GitHubToken        string
	SyncSecret         string
	DefaultRepoOwner   string
	DefaultRepoName    string
	DefaultMaxPages    int
}

func Load() (*Config, error) {
	port := getEnv("PORT", "8080")
	dbConnStr := getEnv("DB_CONNECTION_STRING", "")
	githubToken := getEnv("GITHUB_TOKEN", "")
	syncSecret := getEnv("SYNC_SECRET", "")
	defaultOwner := getEnv("DEFAULT_REPO_OWNER", "vercel")
	defaultRepo := getEnv("DEFAULT_REPO_NAME", "next.js")

	maxPages, err := strconv.Atoi(getEnv("DEFAULT_MAX_PAGES", "2"))
	if err != nil {
		return nil, err
	}

	return &Config{
		Port:               port,
		DBConnectionString: dbConnStr,
		GitHubToken:        githubToken,
		SyncSecret:         syncSecret,
		DefaultRepoOwner:   defaultOwner,
		DefaultRepoName:    defaultRepo,
		DefaultMaxPages:    maxPages,
	}, nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
