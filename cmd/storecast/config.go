package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/storecast/storecast"
	"github.com/storecast/storecast/batch"
)

// Config is the run configuration. The input path is explicit so runs do not
// depend on the working directory.
type Config struct {
	Input string `yaml:"input"`

	Store int `yaml:"store"`
	Item  int `yaml:"item"`

	Pipeline storecast.Options `yaml:"pipeline"`

	Batch struct {
		Parallelism int         `yaml:"parallelism"`
		Jobs        []batch.Job `yaml:"jobs"`
	} `yaml:"batch"`

	Output struct {
		ForecastJSON    string `yaml:"forecast_json"`
		PerformanceJSON string `yaml:"performance_json"`
		ChartHTML       string `yaml:"chart_html"`
	} `yaml:"output"`
}

func loadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read config, %w", err)
	}

	cfg := &Config{}
	cfg.Pipeline = *storecast.NewDefaultOptions()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("unable to parse config, %w", err)
	}
	if cfg.Input == "" {
		return nil, fmt.Errorf("config must set an input path")
	}
	return cfg, nil
}
