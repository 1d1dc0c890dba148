package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Server configuration
	Port        string
	Environment string

	// Redis configuration
	RedisURL      string
	RedisPassword string
	RedisDB       int

	// Ticket store backend: "redis" or "badger"
	StorageBackend string
	BadgerPath     string

	// Solana configuration
	RPCURL          string
	TicketProgramID string
	USDCMint        string
	MerchantWallet  string

	// Wallet portal (passkey provider)
	WalletPortalURL string
	WalletPortalKey string

	// Paymaster (fee sponsor)
	PaymasterURL string
	PaymasterKey string

	// PubNub configuration
	PubNubPublishKey   string
	PubNubSubscribeKey string
	PubNubSecretKey    string

	// Gate pass sealing key, 64 hex chars
	GatePassKey string

	// Timeout configuration
	RPCTimeout     time.Duration
	ConfirmTimeout time.Duration

	// Monitoring
	EnableMetrics bool
	MetricsPort   string
}

func LoadConfig() *Config {
	return &Config{
		// Server
		Port:        getEnv("PORT", "8090"),
		Environment: getEnv("ENVIRONMENT", "development"),

		// Redis
		RedisURL:      getEnv("REDIS_URL", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		// Ticket store
		StorageBackend: getEnv("STORAGE_BACKEND", "redis"),
		BadgerPath:     getEnv("BADGER_PATH", "./pb_data/tickets"),

		// Solana
		RPCURL:          getEnv("SOLANA_RPC_URL", "https://api.devnet.solana.com"),
		TicketProgramID: getEnv("TICKET_PROGRAM_ID", "11111111111111111111111111111111"),
		USDCMint:        getEnv("USDC_MINT", "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"),
		MerchantWallet:  getEnv("MERCHANT_WALLET", ""),

		// Wallet portal
		WalletPortalURL: getEnv("WALLET_PORTAL_URL", ""),
		WalletPortalKey: getEnv("WALLET_PORTAL_KEY", ""),

		// Paymaster
		PaymasterURL: getEnv("PAYMASTER_URL", ""),
		PaymasterKey: getEnv("PAYMASTER_KEY", ""),

		// PubNub
		PubNubPublishKey:   getEnv("PUBNUB_PUBLISH_KEY", ""),
		PubNubSubscribeKey: getEnv("PUBNUB_SUBSCRIBE_KEY", ""),
		PubNubSecretKey:    getEnv("PUBNUB_SECRET_KEY", ""),

		// Gate pass
		GatePassKey: getEnv("GATE_PASS_KEY", ""),

		// Timeouts
		RPCTimeout:     getEnvAsDuration("RPC_TIMEOUT", "10s"),
		ConfirmTimeout: getEnvAsDuration("CONFIRM_TIMEOUT", "30s"),

		// Monitoring
		EnableMetrics: getEnvAsBool("ENABLE_METRICS", true),
		MetricsPort:   getEnv("METRICS_PORT", "9090"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	// If parsing fails, fall back to the default value
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
