// conf/defaults.go default values for settings
package conf

import (
	"time"

	"github.com/spf13/viper"
)

// Sets default values for the configuration.
func setDefaultConfig() {
	viper.SetDefault("debug", false)

	viper.SetDefault("main.name", "Quiltring")
	viper.SetDefault("main.log.enabled", true)
	viper.SetDefault("main.log.path", "quiltring.log")
	viper.SetDefault("main.log.rotation", RotationDaily)
	viper.SetDefault("main.log.maxsize", 1048576)

	viper.SetDefault("roster.baseurl", "http://localhost:9000")
	viper.SetDefault("roster.indexpath", "members.json")
	viper.SetDefault("roster.basepath", "members")
	viper.SetDefault("roster.fetchtimeout", 10*time.Second)
	viper.SetDefault("roster.cachettl", time.Duration(0))

	viper.SetDefault("webserver.debug", false)
	viper.SetDefault("webserver.port", "8080")
	viper.SetDefault("webserver.log.enabled", true)
	viper.SetDefault("webserver.log.path", "logs/web.log")

	viper.SetDefault("security.autotls", false)
	viper.SetDefault("security.host", "")

	viper.SetDefault("telemetry.enabled", false)
	viper.SetDefault("telemetry.listen", "0.0.0.0:8090")

	viper.SetDefault("sentry.enabled", false)
	viper.SetDefault("sentry.dsn", "")
}
