package config

const (
	defaultLLMProvider         = "openai"
	defaultLLMModel            = "gpt-4o-mini"
	defaultLLMTemperature      = 0.8
	defaultLLMTimeoutSeconds   = 120
	defaultMaxTokensVignette   = 1500
	defaultMaxTokensSummary    = 500
	defaultMaxTokensCrewUpdate = 4000

	defaultInputPath        = "Input"
	defaultSavesPath        = "Input/Saves"
	defaultCombatLogsPath   = "Input/CombatLogs"
	defaultProcessingPath   = "Processing"
	defaultOutputPath       = "Output/Vignettes"
	defaultLogsPath         = "logs"
	defaultGameStatePath    = "Input/gameState.json"
	defaultCrewDetailsPath  = "Input/crew_details.json"
	defaultThemesPath       = "Input/vignette_themes.json"
	defaultRecentQuestsPath = "Input/recent_quests.txt"
	defaultMarkerPath       = "Config/last_execution.json"
	defaultManifestPath     = "Input/Saves/files_list.json"

	defaultIntervalMinutes = 15
	defaultPollSeconds     = 60

	defaultWatchExtension  = ".savegame"
	defaultCooldownSeconds = 5
	defaultSettleSeconds   = 1
	defaultDebounceCache   = 256

	defaultAPIListen = ":5000"

	defaultEventsProvider = "nop"
	defaultEventsTopic    = "vignettes.events"
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	return &Config{
		Version: CurrentV,
		LLM: LLMConfig{
			Provider:            defaultLLMProvider,
			Model:               defaultLLMModel,
			Temperature:         defaultLLMTemperature,
			TimeoutSeconds:      defaultLLMTimeoutSeconds,
			MaxTokensVignette:   defaultMaxTokensVignette,
			MaxTokensSummary:    defaultMaxTokensSummary,
			MaxTokensCrewUpdate: defaultMaxTokensCrewUpdate,
		},
		Paths: PathsConfig{
			Input:        defaultInputPath,
			Saves:        defaultSavesPath,
			CombatLogs:   defaultCombatLogsPath,
			Processing:   defaultProcessingPath,
			Output:       defaultOutputPath,
			Logs:         defaultLogsPath,
			GameState:    defaultGameStatePath,
			CrewDetails:  defaultCrewDetailsPath,
			Themes:       defaultThemesPath,
			RecentQuests: defaultRecentQuestsPath,
			Marker:       defaultMarkerPath,
			Manifest:     defaultManifestPath,
		},
		Scheduler: SchedulerConfig{
			IntervalMinutes: defaultIntervalMinutes,
			PollSeconds:     defaultPollSeconds,
		},
		Watcher: WatcherConfig{
			Extension:       defaultWatchExtension,
			CooldownSeconds: defaultCooldownSeconds,
			SettleSeconds:   defaultSettleSeconds,
			CacheSize:       defaultDebounceCache,
		},
		API: APIConfig{
			Listen: defaultAPIListen,
		},
		Events: EventsConfig{
			Provider: defaultEventsProvider,
			Topic:    defaultEventsTopic,
		},
	}
}
