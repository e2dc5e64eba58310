package main

import (
	"context"
	"log"
	"net/url"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/flotilla-ml/flotilla/masterd"
	"github.com/flotilla-ml/flotilla/pkg/server"
)

const (
	defHTTPPort   = "7070"
	envPrefixHTTP = "MASTER_HTTP_"
	pathEnv       = ".env"
)

type envConfig struct {
	LogLevel     string        `env:"MASTER_LOG_LEVEL"     envDefault:"info"`
	InstanceID   string        `env:"MASTER_INSTANCE_ID"`
	MQTTAddress  string        `env:"MASTER_MQTT_ADDRESS"`
	MQTTQoS      uint8         `env:"MASTER_MQTT_QOS"      envDefault:"2"`
	MQTTTimeout  time.Duration `env:"MASTER_MQTT_TIMEOUT"  envDefault:"30s"`
	MQTTUsername string        `env:"MASTER_MQTT_USERNAME"`
	MQTTPassword string        `env:"MASTER_MQTT_PASSWORD"`
	BaseTopic    string        `env:"MASTER_MQTT_BASE_TOPIC" envDefault:"flotilla"`
	OTELURL      url.URL       `env:"MASTER_OTEL_URL"`
	TraceRatio   float64       `env:"MASTER_TRACE_RATIO"   envDefault:"0"`
}

func main() {
	if _, err := os.Stat(pathEnv); err == nil {
		_ = godotenv.Load(pathEnv)
	}

	cfg := envConfig{}
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("failed to load configuration : %s", err.Error())
	}

	if cfg.InstanceID == "" {
		cfg.InstanceID = uuid.NewString()
	}

	httpServerConfig := server.Config{Port: defHTTPPort}
	if err := env.ParseWithOptions(&httpServerConfig, env.Options{Prefix: envPrefixHTTP}); err != nil {
		log.Fatalf("failed to load master HTTP server configuration : %s", err.Error())
	}

	masterCfg := masterd.Config{
		LogLevel:     cfg.LogLevel,
		InstanceID:   cfg.InstanceID,
		MQTTAddress:  cfg.MQTTAddress,
		MQTTQoS:      cfg.MQTTQoS,
		MQTTTimeout:  cfg.MQTTTimeout,
		MQTTUsername: cfg.MQTTUsername,
		MQTTPassword: cfg.MQTTPassword,
		BaseTopic:    cfg.BaseTopic,
		Server:       httpServerConfig,
		OTELURL:      cfg.OTELURL,
		TraceRatio:   cfg.TraceRatio,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := masterd.StartMaster(ctx, cancel, masterCfg); err != nil {
		log.Fatalf("failed to start master: %s", err.Error())
	}
}
