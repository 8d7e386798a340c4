package config

// EnvPrefix is empty because every field carries the full KVITKOVA_-prefixed
// variable name in its envconfig tag.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "KVITKOVA_DB_DSN"
	EnvDBHost = "KVITKOVA_DB_HOST"
	EnvDBUser = "KVITKOVA_DB_USER"
	EnvDBName = "KVITKOVA_DB_NAME"
)

// legacyDBEnvVars are the discrete connection variables consulted when
// KVITKOVA_DB_DSN is not set.
var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
