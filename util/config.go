package util

// Runtime config
var (
	BindAddress    string
	SessionSecret  []byte
	DBDriver       string
	DatabaseURL    string
	UploadDir      string
	AdminEmail     string
	AdminPassword  string
	SendgridApiKey string
	EmailFrom      string
	EmailFromName  string
	NotifyEmail    string
	SmtpHostname   string
	SmtpPort       int
	SmtpUsername   string
	SmtpPassword   string
	SmtpNoTLSCheck bool
	SmtpEncryption string
	SmtpAuthType   string
	TelegramToken  string
	TelegramChatID int64
)

const (
	DefaultBindAddress = "0.0.0.0:5000"
	DefaultDBDriver    = "jsondb"
	DefaultDatabaseURL = "./db"
	DefaultUploadDir   = "./uploads"
	DefaultAdminName   = "Administrator"
	DefaultEmailFrom   = "Ngunnawal Country"
	LogLevel           = "LOG_LEVEL"
	SiteTitle          = "Ngunnawal Country"
	MaxBodySize        = "12M"
)
