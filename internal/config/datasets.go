package config

// SeasonConfig points at one season's shot table.
type SeasonConfig struct {
	Label string
	Path  string
}

// DatasetsConfig lists the season tables in display order.
type DatasetsConfig struct {
	Source       string // "csv" or "fixture"
	Seasons      []SeasonConfig
	LoadAttempts int
	LoadBackoff  Duration
}

func loadDatasets() DatasetsConfig {
	return DatasetsConfig{
		Source:       envOrDefault(envDatasetSource, defaultDatasetSource),
		LoadAttempts: intEnvOrDefault(envLoadAttempts, defaultLoadAttempts),
		LoadBackoff:  durationEnvOrDefault(envLoadBackoff, defaultLoadBackoff),
		Seasons: []SeasonConfig{
			{
				Label: envOrDefault(envDatasetALabel, defaultDatasetALabel),
				Path:  envOrDefault(envDatasetAPath, defaultDatasetAPath),
			},
			{
				Label: envOrDefault(envDatasetBLabel, defaultDatasetBLabel),
				Path:  envOrDefault(envDatasetBPath, defaultDatasetBPath),
			},
		},
	}
}
