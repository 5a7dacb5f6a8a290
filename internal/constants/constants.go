package constants

import "time"

// WordStatus is the learning state of a vocabulary word
type WordStatus string

// Difficulty is the user-assigned difficulty of a vocabulary word
type Difficulty string

// TaskType distinguishes planner entries
type TaskType string

const (
	AppName            = "sagestudy"
	DefaultKeyringUser = "database-connection"
	DefaultConfigDir   = "~/.config/sagestudy"
	DefaultStorePath   = "~/.config/sagestudy/sagestudy.db"
	Version            = "v0.3.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimestampFormat is how every persisted timestamp is written
	TimestampFormat = time.RFC3339

	// Storage keys, one JSON blob per key
	KeyVocabulary      = "VOCABULARY_DATA"
	KeyStudyStats      = "STUDY_STATS"
	KeyTasks           = "TASKS_DATA"
	KeyNotificationIDs = "NOTIFICATION_IDS_MAP"
	KeyReminderOffset  = "REMINDER_OFFSET"

	// Storage backends
	StorageBackendJSON     = "json"
	StorageBackendSQLite   = "sqlite"
	StorageBackendPostgres = "postgres"
	DefaultStorageBackend  = StorageBackendSQLite

	// Vocabulary constants
	MinConfidence      = 1
	MaxConfidence      = 5
	DefaultConfidence  = 3
	MasteredConfidence = 5
	LearningConfidence = 3
	ReviewAfterDays    = 1
	DefaultRecentWords = 10

	// Word status constants
	WordStatusLearning WordStatus = "learning"
	WordStatusMastered WordStatus = "mastered"
	WordStatusReview   WordStatus = "review"

	// Difficulty constants
	DifficultyEasy    Difficulty = "easy"
	DifficultyMedium  Difficulty = "medium"
	DifficultyHard    Difficulty = "hard"
	DefaultDifficulty            = DifficultyMedium

	// Task type constants
	TaskTypeTask       TaskType = "task"
	TaskTypeAssessment TaskType = "assessment"

	// Reminder constants
	AlertTitleTask           = "Upcoming Task"
	AlertTitleAssessment     = "Upcoming Assessment"
	DefaultReminderOffsetMin = 30
	MaxReminderOffsetMin     = 7 * 24 * 60

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "sagestudy-"

	// Notify constants
	NotifyMaxRetries       = 3
	NotifyRetryDelay       = 100 * time.Millisecond
	NotifyRequestTimeout   = 5 * time.Second
	NotifierLockfileName   = "sagestudy-notifier.lock"
	NotificationDurationMs = 5000
	TrayAppIdentifier      = "com.julianstephens.sagestudy"
	TrayExecutablePrefix   = "sagestudy-tray"
	TraySecretHeader       = "X-Sagestudy-Secret"
)
