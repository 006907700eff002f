package cmd

import (
	"context"
	"os"
	"strings"
	"time"

	globalConfig "github.com/onlyWebstar/travel-bot/config"
	coreDB "github.com/onlyWebstar/travel-bot/core/database"
	domainCache "github.com/onlyWebstar/travel-bot/domains/cache"
	domainChat "github.com/onlyWebstar/travel-bot/domains/chat"
	domainNLP "github.com/onlyWebstar/travel-bot/domains/nlp"
	domainTravel "github.com/onlyWebstar/travel-bot/domains/travel"
	domainUser "github.com/onlyWebstar/travel-bot/domains/user"
	"github.com/onlyWebstar/travel-bot/infrastructure/amadeus"
	"github.com/onlyWebstar/travel-bot/infrastructure/bookingcom"
	"github.com/onlyWebstar/travel-bot/infrastructure/valkey"
	"github.com/onlyWebstar/travel-bot/pkg/utils"
	"github.com/onlyWebstar/travel-bot/repository"
	"github.com/onlyWebstar/travel-bot/usecase"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gorm.io/gorm"
)

var (
	db           *gorm.DB
	valkeyClient *valkey.Client

	// Usecases, constructed once in initApp and injected everywhere.
	nlpUsecase    domainNLP.INLPUsecase
	cacheUsecase  domainCache.ICacheUsecase
	travelUsecase domainTravel.ITravelUsecase
	userUsecase   domainUser.IUserUsecase
	chatUsecase   domainChat.IChatUsecase

	sweepCancel context.CancelFunc
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Short: "Conversational travel search API",
	Long: `Travel-bot answers freeform flight and hotel queries over an http api.
It extracts intent and slots from natural language, resolves fuzzy city
names to airport codes and caches provider responses in two tiers.`,
}

func init() {
	// Load environment variables first
	utils.LoadConfig(".")

	time.Local = time.UTC

	rootCmd.CompletionOptions.DisableDefaultCmd = true

	initFlags()

	cobra.OnInitialize(initEnvConfig, initApp)
}

// initEnvConfig loads configuration from environment variables
func initEnvConfig() {
	// Application settings
	if envPort := viper.GetString("app_port"); envPort != "" {
		globalConfig.AppPort = envPort
	}
	if envDebug := viper.GetBool("app_debug"); envDebug {
		globalConfig.AppDebug = envDebug
	}
	envBasicAuth := viper.GetString("app_basic_auth")
	if envBasicAuth == "" {
		envBasicAuth = os.Getenv("APP_BASIC_AUTH")
	}
	if envBasicAuth != "" {
		credential := strings.Split(envBasicAuth, ",")
		globalConfig.AppBasicAuthCredential = credential
	}
	if envBasePath := viper.GetString("app_base_path"); envBasePath != "" {
		globalConfig.AppBasePath = envBasePath
	}
	if envTrustedProxies := viper.GetString("app_trusted_proxies"); envTrustedProxies != "" {
		globalConfig.AppTrustedProxies = strings.Split(envTrustedProxies, ",")
	}

	// Database settings
	if envDBDriver := viper.GetString("db_driver"); envDBDriver != "" {
		globalConfig.DBDriver = envDBDriver
	}
	if envDBName := viper.GetString("db_name"); envDBName != "" {
		globalConfig.DBName = envDBName
	}
	if envDBHost := viper.GetString("db_host"); envDBHost != "" {
		globalConfig.DBHost = envDBHost
	}
	if envDBPort := viper.GetInt("db_port"); envDBPort != 0 {
		globalConfig.DBPort = envDBPort
	}
	if envDBUser := viper.GetString("db_user"); envDBUser != "" {
		globalConfig.DBUser = envDBUser
	}
	if envDBPass := viper.GetString("db_pass"); envDBPass != "" {
		globalConfig.DBPass = envDBPass
	}

	// Cache settings
	if envBackend := viper.GetString("cache_tier1_backend"); envBackend != "" {
		globalConfig.CacheTier1Backend = envBackend
	}
	if envSweep := viper.GetInt("cache_sweep_interval_mins"); envSweep > 0 {
		globalConfig.CacheSweepIntervalMins = envSweep
	}
	if envValkeyAddr := viper.GetString("valkey_address"); envValkeyAddr != "" {
		globalConfig.ValkeyAddress = envValkeyAddr
	}
	if envValkeyPass := viper.GetString("valkey_password"); envValkeyPass != "" {
		globalConfig.ValkeyPassword = envValkeyPass
	}
	if viper.IsSet("valkey_db") {
		globalConfig.ValkeyDB = viper.GetInt("valkey_db")
	}
	if envValkeyPrefix := viper.GetString("valkey_key_prefix"); envValkeyPrefix != "" {
		globalConfig.ValkeyKeyPrefix = envValkeyPrefix
	}

	// Provider settings
	if envAmadeusURL := viper.GetString("amadeus_base_url"); envAmadeusURL != "" {
		globalConfig.AmadeusBaseURL = envAmadeusURL
	}
	if envAmadeusID := viper.GetString("amadeus_client_id"); envAmadeusID != "" {
		globalConfig.AmadeusClientID = envAmadeusID
	}
	if envAmadeusSecret := viper.GetString("amadeus_client_secret"); envAmadeusSecret != "" {
		globalConfig.AmadeusClientSecret = envAmadeusSecret
	}
	if envRapidKey := viper.GetString("rapidapi_key"); envRapidKey != "" {
		globalConfig.RapidAPIKey = envRapidKey
	}
	if envRapidHost := viper.GetString("rapidapi_host"); envRapidHost != "" {
		globalConfig.RapidAPIHost = envRapidHost
	}

	// Session settings
	if envSessionTTL := viper.GetInt("session_ttl_minutes"); envSessionTTL > 0 {
		globalConfig.SessionTTLMinutes = envSessionTTL
	}
	if envOriginCity := viper.GetString("default_origin_city"); envOriginCity != "" {
		globalConfig.DefaultOriginCity = envOriginCity
	}
	if envOriginCode := viper.GetString("default_origin_code"); envOriginCode != "" {
		globalConfig.DefaultOriginCode = envOriginCode
	}
}

func initFlags() {
	// Application flags
	rootCmd.PersistentFlags().StringVarP(
		&globalConfig.AppPort,
		"port", "p",
		globalConfig.AppPort,
		"change port number with --port <number> | example: --port=8080",
	)
	rootCmd.PersistentFlags().BoolVarP(
		&globalConfig.AppDebug,
		"debug", "d",
		globalConfig.AppDebug,
		"hide or displaying log with --debug <true/false> | example: --debug=true",
	)
	rootCmd.PersistentFlags().StringSliceVarP(
		&globalConfig.AppBasicAuthCredential,
		"basic-auth", "b",
		globalConfig.AppBasicAuthCredential,
		"basic auth credential | -b=yourUsername:yourPassword",
	)
	rootCmd.PersistentFlags().StringVarP(
		&globalConfig.AppBasePath,
		"base-path", "",
		globalConfig.AppBasePath,
		`base path for subpath deployment --base-path <string> | example: --base-path="/travel"`,
	)
	rootCmd.PersistentFlags().StringSliceVarP(
		&globalConfig.AppTrustedProxies,
		"trusted-proxies", "",
		globalConfig.AppTrustedProxies,
		`trusted proxy IP ranges for reverse proxy deployments --trusted-proxies <string> | example: --trusted-proxies="10.0.0.0/8"`,
	)

	// Database flags
	rootCmd.PersistentFlags().StringVarP(
		&globalConfig.DBDriver,
		"db-driver", "",
		globalConfig.DBDriver,
		`database driver --db-driver <string> | example: --db-driver="postgres" (default: sqlite)`,
	)
	rootCmd.PersistentFlags().StringVarP(
		&globalConfig.DBName,
		"db-name", "",
		globalConfig.DBName,
		`database name, or file path for sqlite --db-name <string> | example: --db-name="storages/travelbot.db"`,
	)

	// Cache flags
	rootCmd.PersistentFlags().StringVarP(
		&globalConfig.CacheTier1Backend,
		"cache-backend", "",
		globalConfig.CacheTier1Backend,
		`tier-1 cache backend --cache-backend <string> | example: --cache-backend="valkey" (default: memory)`,
	)
	rootCmd.PersistentFlags().IntVarP(
		&globalConfig.CacheSweepIntervalMins,
		"cache-sweep-interval", "",
		globalConfig.CacheSweepIntervalMins,
		`minutes between background cache sweeps --cache-sweep-interval <number> | example: --cache-sweep-interval=60 (default: 360)`,
	)
}

func initApp() {
	if globalConfig.AppDebug {
		logrus.SetLevel(logrus.DebugLevel)
	}

	// preparing folder if not exist
	if err := utils.CreateFolder(globalConfig.PathStorages); err != nil {
		logrus.Errorln(err)
	}

	var err error
	db, err = coreDB.NewDatabase()
	if err != nil {
		logrus.Fatalf("failed to open database: %v", err)
	}

	ctx := context.Background()

	cacheRepo := repository.NewCacheGormRepository(db)
	if err := cacheRepo.InitSchema(ctx); err != nil {
		logrus.Fatalf("failed to init cache schema: %v", err)
	}
	userRepo := repository.NewUserGormRepository(db)
	if err := userRepo.InitSchema(ctx); err != nil {
		logrus.Fatalf("failed to init user schema: %v", err)
	}

	// Tier-1 store: in-process map by default, valkey when configured.
	var tier1 domainCache.Store
	if globalConfig.CacheTier1Backend == "valkey" {
		valkeyClient, err = valkey.NewClient(valkey.Config{
			Address:   globalConfig.ValkeyAddress,
			Password:  globalConfig.ValkeyPassword,
			DB:        globalConfig.ValkeyDB,
			KeyPrefix: globalConfig.ValkeyKeyPrefix,
		})
		if err != nil {
			logrus.Fatalf("failed to connect to valkey: %v", err)
		}
		tier1 = repository.NewValkeyCacheStore(valkeyClient)
	} else {
		tier1 = repository.NewMemoryCacheStore()
	}

	sweepInterval := time.Duration(globalConfig.CacheSweepIntervalMins) * time.Minute
	cacheUsecase = usecase.NewCacheService(tier1, cacheRepo, sweepInterval)

	sweepCtx, cancel := context.WithCancel(ctx)
	sweepCancel = cancel
	cacheUsecase.StartBackgroundSweep(sweepCtx)

	nlpUsecase = usecase.NewNLPService()

	flightProvider := amadeus.NewClient(
		globalConfig.AmadeusBaseURL,
		globalConfig.AmadeusClientID,
		globalConfig.AmadeusClientSecret,
		cacheUsecase,
	)
	hotelProvider := bookingcom.NewClient(globalConfig.RapidAPIKey, globalConfig.RapidAPIHost)

	travelUsecase = usecase.NewTravelService(flightProvider, hotelProvider, nlpUsecase, cacheUsecase)

	sessionTTL := time.Duration(globalConfig.SessionTTLMinutes) * time.Minute
	userUsecase = usecase.NewUserService(userRepo, sessionTTL)

	chatUsecase = usecase.NewChatService(nlpUsecase, travelUsecase, userUsecase)
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// StopApp performs a clean shutdown of all database connections and services.
func StopApp() {
	logrus.Info("[APP] Stopping application...")

	if sweepCancel != nil {
		sweepCancel()
	}

	if valkeyClient != nil {
		valkeyClient.Close()
	}

	if db != nil {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}

	logrus.Info("[APP] Application stopped cleanly.")
}
