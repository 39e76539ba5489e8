package config

import (
	"os"
)

// DSNEnvVar names the environment variable holding the integration test database DSN.
const DSNEnvVar = "MULTICORN_TEST_DSN"

// PostgresTestDSN returns the DSN for the integration test database, or "" when none is configured.
func PostgresTestDSN() string {
	return os.Getenv(DSNEnvVar)
}
