package config

// EnvPrefix namespaces every environment variable the platform reads.
const EnvPrefix = "BUNDLEDRAW"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "BUNDLEDRAW_DB_DSN"
	EnvDBHost = "BUNDLEDRAW_DB_HOST"
	EnvDBUser = "BUNDLEDRAW_DB_USER"
	EnvDBName = "BUNDLEDRAW_DB_NAME"
)

var legacyDBEnvVars = []string{
	EnvDBHost,
	EnvDBUser,
	EnvDBName,
}
