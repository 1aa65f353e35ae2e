package configs

import (
	"encoding/json"
	"fmt"
	"os"

	"support-relay/internal/domain"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// LoadIntents reads the intent list from a JSON file. The file holds a top-level array of
// {"keywords": [...], "reply": "..."} records and is read once at startup.
func LoadIntents(path string) ([]domain.Intent, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read intents file %s: %w", path, err)
	}

	var intents []domain.Intent
	if err := json.Unmarshal(raw, &intents); err != nil {
		return nil, fmt.Errorf("failed to parse intents file %s: %w", path, err)
	}

	for i, intent := range intents {
		if len(intent.Keywords) == 0 {
			logrus.Warnf("Intent #%d has no keywords and will never match", i)
		}
	}

	logrus.Infof("Loaded %d intents from %s", len(intents), path)
	return intents, nil
}

// LoadProfile reads the business profile from a JSON file.
func LoadProfile(path string) (domain.BusinessProfile, error) {
	var profile domain.BusinessProfile

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	if err := v.ReadInConfig(); err != nil {
		return profile, fmt.Errorf("failed to read profile file %s: %w", path, err)
	}
	if err := v.Unmarshal(&profile); err != nil {
		return profile, fmt.Errorf("failed to parse profile file %s: %w", path, err)
	}
	if profile.CompanyName == "" {
		return profile, fmt.Errorf("profile file %s: company_name is required", path)
	}

	logrus.Infof("Loaded business profile for %s", profile.CompanyName)
	return profile, nil
}
