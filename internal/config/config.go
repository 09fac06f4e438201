// Package config resolves the v8 game server's runtime configuration from
// flags, a YAML config file, and environment variables, in the teacher's
// viper-backed layering style.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

// Config is the resolved server configuration.
type Config struct {
	ListenAddr      string
	MetricsAddr     string
	FixturesFile    string
	// MaxFrameSize is loaded from max_frame_size but is not applied: frame
	// reads are bounded by the fixed protocol.MaxFrameSize.
	MaxFrameSize    int
	ConnRatePerIP   float64
	ConnBurstPerIP  int
	MaxConnsPerIP   int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	MetricsNamespace string
}

// Load reads configuration from cfgFile if it is non-empty, otherwise from
// the first .v8server.yaml found in $HOME or the current directory (searched
// in that order). V8SERVER_-prefixed environment variables override file
// values, and defaults apply to anything unset.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(".v8server")
	}

	v.SetEnvPrefix("V8SERVER")
	v.AutomaticEnv()

	v.SetDefault("listen_addr", ":9339")
	v.SetDefault("metrics_addr", ":9090")
	v.SetDefault("fixtures_file", "")
	v.SetDefault("max_frame_size", 1<<20)
	v.SetDefault("conn_rate_per_ip", 20.0)
	v.SetDefault("conn_burst_per_ip", 40)
	v.SetDefault("max_conns_per_ip", 8)
	v.SetDefault("read_timeout", 30*time.Second)
	v.SetDefault("write_timeout", 30*time.Second)
	v.SetDefault("metrics_namespace", "v8session")

	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return nil, fmt.Errorf("config: reading config file: %w", err)
		}
	}

	return &Config{
		ListenAddr:       v.GetString("listen_addr"),
		MetricsAddr:      v.GetString("metrics_addr"),
		FixturesFile:     v.GetString("fixtures_file"),
		MaxFrameSize:     v.GetInt("max_frame_size"),
		ConnRatePerIP:    v.GetFloat64("conn_rate_per_ip"),
		ConnBurstPerIP:   v.GetInt("conn_burst_per_ip"),
		MaxConnsPerIP:    v.GetInt("max_conns_per_ip"),
		ReadTimeout:      v.GetDuration("read_timeout"),
		WriteTimeout:     v.GetDuration("write_timeout"),
		MetricsNamespace: v.GetString("metrics_namespace"),
	}, nil
}
