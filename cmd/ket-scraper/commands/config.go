package commands

import (
	"fmt"

	"ketscraper/internal/scrapers/testaiket"
	"ketscraper/internal/store"
	"ketscraper/lib/configutil"

	"dario.cat/mergo"
)

type Config struct {
	BaseUrl           string  `json:"base_url"`
	DatabasePath      string  `json:"database_path"`
	Password          string  `json:"password"`
	Cookie            string  `json:"cookie"`
	UserAgent         string  `json:"user_agent"`
	RequestsPerSecond float64 `json:"requests_per_second"`
	DumpHttp          string  `json:"dump_http"`
}

var defaultConfig = Config{
	BaseUrl:           testaiket.DefaultBaseUrl,
	DatabasePath:      store.DefaultDSN,
	UserAgent:         testaiket.DefaultUserAgent,
	RequestsPerSecond: 2,
}

// mergeConfig layers flags over file over defaults, a field is taken from the
// next layer only when it is still empty. Credentials are taken as a pair: if
// either was given as a flag the file's credentials are ignored.
func mergeConfig(flags, file Config) (Config, error) {
	if flags.Password != "" || flags.Cookie != "" {
		file.Password = ""
		file.Cookie = ""
	}

	out := flags
	err := mergo.Merge(&out, file)
	if err != nil {
		return Config{}, fmt.Errorf("merge config file: %w", err)
	}
	err = mergo.Merge(&out, defaultConfig)
	if err != nil {
		return Config{}, fmt.Errorf("merge defaults: %w", err)
	}

	// a negative rate turns the limiter off
	if out.RequestsPerSecond < 0 {
		out.RequestsPerSecond = 0
	}
	return out, nil
}

func loadConfig(flags Config) (Config, error) {
	file, err := configutil.ReadOptional[Config](configPath)
	if err != nil {
		return Config{}, fmt.Errorf("read %s: %w", configPath, err)
	}
	return mergeConfig(flags, file)
}
