package main

import (
	"embed"
	"flag"
	"fmt"
	"io/fs"

	"github.com/gorilla/securecookie"
	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"

	"github.com/ngunnawal/heritage/emailer"
	"github.com/ngunnawal/heritage/notify"
	"github.com/ngunnawal/heritage/router"
	"github.com/ngunnawal/heritage/store"
	"github.com/ngunnawal/heritage/store/jsondb"
	"github.com/ngunnawal/heritage/store/sqldb"
	"github.com/ngunnawal/heritage/telegram"
	"github.com/ngunnawal/heritage/upload"
	"github.com/ngunnawal/heritage/util"
)

var (
	// configuration variables
	flagBindAddress    string = util.DefaultBindAddress
	flagSessionSecret  string
	flagDBDriver       string = util.DefaultDBDriver
	flagDatabaseURL    string = util.DefaultDatabaseURL
	flagUploadDir      string = util.DefaultUploadDir
	flagAdminEmail     string
	flagAdminPassword  string
	flagSendgridApiKey string
	flagEmailFrom      string
	flagEmailFromName  string = util.DefaultEmailFrom
	flagNotifyEmail    string
	flagSmtpHostname   string = "127.0.0.1"
	flagSmtpPort       int    = 25
	flagSmtpUsername   string
	flagSmtpPassword   string
	flagSmtpNoTLSCheck bool   = false
	flagSmtpEncryption string = "STARTTLS"
	flagSmtpAuthType   string = "NONE"
	flagTelegramToken  string
	flagTelegramChatID int64
)

//go:embed templates/*
var embeddedTemplates embed.FS

func init() {
	// a missing .env file is not an error
	if err := godotenv.Load(); err == nil {
		fmt.Println("Loaded environment from .env")
	}

	// command-line flags and env variables
	flag.StringVar(&flagBindAddress, "bind-address", util.LookupEnvOrString("BIND_ADDRESS", flagBindAddress), "Address:Port to which the app will be bound.")
	flag.StringVar(&flagSessionSecret, "session-secret", util.LookupEnvOrString("SESSION_SECRET", flagSessionSecret), "The key used to sign session cookies. Random when empty.")
	flag.StringVar(&flagDBDriver, "db-driver", util.LookupEnvOrString("DB_DRIVER", flagDBDriver), "Storage backend: jsondb, sqlite or postgres.")
	flag.StringVar(&flagDatabaseURL, "database-url", util.LookupEnvOrString("DATABASE_URL", flagDatabaseURL), "JSON database directory, SQLite file or PostgreSQL URL.")
	flag.StringVar(&flagUploadDir, "upload-dir", util.LookupEnvOrString("UPLOAD_DIR", flagUploadDir), "Directory where uploaded photos are stored.")
	flag.StringVar(&flagAdminEmail, "admin-email", util.LookupEnvOrString("ADMIN_EMAIL", flagAdminEmail), "Email of the admin account created at startup.")
	flag.StringVar(&flagAdminPassword, "admin-password", util.LookupEnvOrString("ADMIN_PASSWORD", flagAdminPassword), "Password of the admin account created at startup.")
	flag.StringVar(&flagSendgridApiKey, "sendgrid-api-key", util.LookupEnvOrString("SENDGRID_API_KEY", flagSendgridApiKey), "Your sendgrid api key.")
	flag.StringVar(&flagEmailFrom, "email-from", util.LookupEnvOrString("EMAIL_FROM_ADDRESS", flagEmailFrom), "'From' email address.")
	flag.StringVar(&flagEmailFromName, "email-from-name", util.LookupEnvOrString("EMAIL_FROM_NAME", flagEmailFromName), "'From' email name.")
	flag.StringVar(&flagNotifyEmail, "notify-email", util.LookupEnvOrString("NOTIFY_EMAIL", flagNotifyEmail), "Address notified of new contact messages.")
	flag.StringVar(&flagSmtpHostname, "smtp-hostname", util.LookupEnvOrString("SMTP_HOSTNAME", flagSmtpHostname), "SMTP Hostname")
	flag.IntVar(&flagSmtpPort, "smtp-port", util.LookupEnvOrInt("SMTP_PORT", flagSmtpPort), "SMTP Port")
	flag.StringVar(&flagSmtpUsername, "smtp-username", util.LookupEnvOrString("SMTP_USERNAME", flagSmtpUsername), "SMTP Username")
	flag.StringVar(&flagSmtpPassword, "smtp-password", util.LookupEnvOrString("SMTP_PASSWORD", flagSmtpPassword), "SMTP Password")
	flag.BoolVar(&flagSmtpNoTLSCheck, "smtp-no-tls-check", util.LookupEnvOrBool("SMTP_NO_TLS_CHECK", flagSmtpNoTLSCheck), "Disable TLS verification for SMTP. This is potentially dangerous.")
	flag.StringVar(&flagSmtpEncryption, "smtp-encryption", util.LookupEnvOrString("SMTP_ENCRYPTION", flagSmtpEncryption), "SMTP Encryption : NONE, SSL, SSLTLS, TLS or STARTTLS (by default)")
	flag.StringVar(&flagSmtpAuthType, "smtp-auth-type", util.LookupEnvOrString("SMTP_AUTH_TYPE", flagSmtpAuthType), "SMTP Auth Type : PLAIN, LOGIN or NONE.")
	flag.StringVar(&flagTelegramToken, "telegram-token", util.LookupEnvOrString("TELEGRAM_TOKEN", flagTelegramToken), "Telegram bot token for contact notifications.")
	flag.Int64Var(&flagTelegramChatID, "telegram-chat-id", util.LookupEnvOrInt64("TELEGRAM_CHAT_ID", flagTelegramChatID), "Telegram chat notified of new contact messages.")
	flag.Parse()

	// update runtime config
	util.BindAddress = flagBindAddress
	util.SessionSecret = []byte(flagSessionSecret)
	util.DBDriver = flagDBDriver
	util.DatabaseURL = flagDatabaseURL
	util.UploadDir = flagUploadDir
	util.AdminEmail = flagAdminEmail
	util.AdminPassword = flagAdminPassword
	util.SendgridApiKey = flagSendgridApiKey
	util.EmailFrom = flagEmailFrom
	util.EmailFromName = flagEmailFromName
	util.NotifyEmail = flagNotifyEmail
	util.SmtpHostname = flagSmtpHostname
	util.SmtpPort = flagSmtpPort
	util.SmtpUsername = flagSmtpUsername
	util.SmtpPassword = flagSmtpPassword
	util.SmtpNoTLSCheck = flagSmtpNoTLSCheck
	util.SmtpEncryption = flagSmtpEncryption
	util.SmtpAuthType = flagSmtpAuthType
	util.TelegramToken = flagTelegramToken
	util.TelegramChatID = flagTelegramChatID

	if len(util.SessionSecret) == 0 {
		util.SessionSecret = securecookie.GenerateRandomKey(32)
	}

	// print app information
	fmt.Println(util.SiteTitle)
	fmt.Println("Bind address\t:", util.BindAddress)
	fmt.Println("DB driver\t:", util.DBDriver)
	fmt.Println("Upload dir\t:", util.UploadDir)
	fmt.Println("Email from\t:", util.EmailFrom)
	fmt.Println("Email from name\t:", util.EmailFromName)
	fmt.Println("Notify email\t:", util.NotifyEmail)
	fmt.Println("Telegram\t:", util.TelegramToken != "")
}

func main() {
	db, err := newStore(util.DBDriver, util.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := db.Init(); err != nil {
		log.Fatal(fmt.Sprintf("Cannot init database: %v", err))
	}
	if err := store.EnsureAdmin(db, util.AdminEmail, util.DefaultAdminName, util.AdminPassword); err != nil {
		log.Fatal(err)
	}

	// set app extra data
	extraData := make(map[string]string)
	extraData["siteTitle"] = util.SiteTitle

	tmplDir, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		log.Fatal(err)
	}

	app := router.New(tmplDir, extraData, util.SessionSecret)
	router.Register(app, db, router.Options{
		UploadDir: util.UploadDir,
		Policy:    upload.ImagePolicy(),
		Notifier:  newNotifier(),
	})

	app.Logger.Fatal(app.Start(util.BindAddress))
}

func newStore(driver, url string) (store.IStore, error) {
	switch driver {
	case "jsondb":
		return jsondb.New(url)
	case "sqlite", "postgres":
		return sqldb.New(driver, url)
	default:
		return nil, fmt.Errorf("unknown db driver %q", driver)
	}
}

// newNotifier wires every configured notification channel
func newNotifier() notify.Notifier {
	var notifiers notify.Multi

	if util.NotifyEmail != "" {
		var mailer emailer.Emailer
		if util.SendgridApiKey != "" {
			mailer = emailer.NewSendgridApiMail(util.SendgridApiKey, util.EmailFromName, util.EmailFrom)
		} else {
			mailer = emailer.NewSmtpMail(util.SmtpHostname, util.SmtpPort, util.SmtpUsername, util.SmtpPassword, util.SmtpNoTLSCheck, util.SmtpAuthType, util.EmailFromName, util.EmailFrom, util.SmtpEncryption)
		}
		notifiers = append(notifiers, notify.Email{Mailer: mailer, ToName: util.SiteTitle, To: util.NotifyEmail})
	}

	if util.TelegramToken != "" && util.TelegramChatID != 0 {
		notifiers = append(notifiers, telegram.NewNotifier(util.TelegramToken, util.TelegramChatID))
	}

	if len(notifiers) == 0 {
		return notify.Nop{}
	}
	return notifiers
}
