package config

const (
	EnvPrefix = "KARUNA"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "KARUNA_DB_DSN"
	EnvDBHost = "KARUNA_DB_HOST"
	EnvDBUser = "KARUNA_DB_USER"
	EnvDBName = "KARUNA_DB_NAME"

	EnvCloudinaryCloudName = "KARUNA_CLOUDINARY_CLOUD_NAME"
	EnvCloudinaryAPIKey    = "KARUNA_CLOUDINARY_API_KEY"
	EnvCloudinaryAPISecret = "KARUNA_CLOUDINARY_API_SECRET"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
