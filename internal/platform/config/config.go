package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config is centralized process configuration.
// Engines never read it directly; builders thread typed values into each call.
type Config struct {
	ServiceName string
	HTTPPort    string
	PostgresDSN string

	BotToken        string
	TelegramAPIBase string
	ChannelID       int64
	GroupID         int64

	Quorum             int
	ReactionCategories []string
	ReactionLabels     map[string]string

	MaxWarns           int
	WarnExpirationDays int
}

func Load() (Config, error) {
	// Local development reads a .env file; missing is fine.
	_ = godotenv.Load()

	service := os.Getenv("SERVICE_NAME")
	if service == "" {
		service = "spotted"
	}

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}

	apiBase := os.Getenv("TELEGRAM_API_BASE")
	if apiBase == "" {
		apiBase = "https://api.telegram.org"
	}

	quorum, err := envInt("QUORUM", 3)
	if err != nil {
		return Config{}, err
	}
	if quorum < 1 {
		return Config{}, fmt.Errorf("QUORUM must be at least 1, got %d", quorum)
	}

	maxWarns, err := envInt("MAX_WARNS", 3)
	if err != nil {
		return Config{}, err
	}
	warnDays, err := envInt("WARN_EXPIRATION_DAYS", 30)
	if err != nil {
		return Config{}, err
	}

	channelID, err := envInt64("CHANNEL_ID")
	if err != nil {
		return Config{}, err
	}
	groupID, err := envInt64("GROUP_ID")
	if err != nil {
		return Config{}, err
	}

	categories := splitList(os.Getenv("REACTION_CATEGORIES"))
	if len(categories) == 0 {
		categories = []string{"0", "1", "2", "3", "4"}
	}
	labels, err := parseLabels(os.Getenv("REACTION_LABELS"))
	if err != nil {
		return Config{}, err
	}
	if len(labels) == 0 {
		labels = map[string]string{"0": "👍", "1": "👎", "2": "🤣", "3": "😱", "4": "💘"}
	}

	return Config{
		ServiceName: service,
		HTTPPort:    port,
		PostgresDSN: os.Getenv("POSTGRES_DSN"),

		BotToken:        os.Getenv("BOT_TOKEN"),
		TelegramAPIBase: apiBase,
		ChannelID:       channelID,
		GroupID:         groupID,

		Quorum:             quorum,
		ReactionCategories: categories,
		ReactionLabels:     labels,

		MaxWarns:           maxWarns,
		WarnExpirationDays: warnDays,
	}, nil
}

func envInt(name string, fallback int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", name, err)
	}
	return value, nil
}

func envInt64(name string) (int64, error) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", name, err)
	}
	return value, nil
}

func splitList(raw string) []string {
	var values []string
	for _, value := range strings.Split(raw, ",") {
		value = strings.TrimSpace(value)
		if value != "" {
			values = append(values, value)
		}
	}
	return values
}

// parseLabels reads "category=label" pairs, comma separated.
func parseLabels(raw string) (map[string]string, error) {
	labels := make(map[string]string)
	for _, pair := range splitList(raw) {
		category, label, found := strings.Cut(pair, "=")
		if !found || category == "" || label == "" {
			return nil, fmt.Errorf("parse REACTION_LABELS: malformed pair %q", pair)
		}
		labels[category] = label
	}
	return labels, nil
}
