package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName string
	HTTPPort    string
	PostgresDSN string

	// Settlement engine identities and fee defaults. Addresses are 0x hex
	// strings, parsed at the composition root.
	EngineAddress              string
	OwnerAddress               string
	AdminAddress               string
	FeesCollectorAddress       string
	FeesCollectorCutPerMillion uint64
	RoyaltiesCutPerMillion     uint64
	PublicationFeeInWei        string
	MinOrderTTL                time.Duration

	// Collection governance identities.
	ManagerAddress   string
	ForwarderAddress string
	FactoryAddress   string

	EnableCommitteeAllowlist bool
}

func Load() (Config, error) {
	service := os.Getenv("SERVICE_NAME")
	if service == "" {
		service = "bazaar"
	}

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}

	return Config{
		ServiceName: service,
		HTTPPort:    port,
		PostgresDSN: os.Getenv("POSTGRES_DSN"),

		EngineAddress:              os.Getenv("ENGINE_ADDRESS"),
		OwnerAddress:               os.Getenv("OWNER_ADDRESS"),
		AdminAddress:               os.Getenv("ADMIN_ADDRESS"),
		FeesCollectorAddress:       os.Getenv("FEES_COLLECTOR_ADDRESS"),
		FeesCollectorCutPerMillion: envUint("FEES_COLLECTOR_CUT_PER_MILLION", 25_000),
		RoyaltiesCutPerMillion:     envUint("ROYALTIES_CUT_PER_MILLION", 0),
		PublicationFeeInWei:        os.Getenv("PUBLICATION_FEE_IN_WEI"),
		MinOrderTTL:                time.Duration(envUint("MIN_ORDER_TTL_SECONDS", 60)) * time.Second,

		ManagerAddress:   os.Getenv("MANAGER_ADDRESS"),
		ForwarderAddress: os.Getenv("FORWARDER_ADDRESS"),
		FactoryAddress:   os.Getenv("FACTORY_ADDRESS"),

		EnableCommitteeAllowlist: envBool("ENABLE_COMMITTEE_ALLOWLIST", false),
	}, nil
}

func envBool(name string, fallback bool) bool {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return fallback
	}
	switch raw {
	case "1", "true", "t", "yes", "y", "on":
		return true
	case "0", "false", "f", "no", "n", "off":
		return false
	default:
		return fallback
	}
}

func envUint(name string, fallback uint64) uint64 {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return fallback
	}
	return value
}
