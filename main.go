package main

import (
	"context"
	"crypto/tls"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/glowbridge/glowbridge/client"
	"github.com/glowbridge/glowbridge/configuration"
	"github.com/glowbridge/glowbridge/homeassistant"
	"github.com/glowbridge/glowbridge/light"
	"github.com/glowbridge/glowbridge/metrics"
	"github.com/glowbridge/glowbridge/persistence"
	"github.com/glowbridge/glowbridge/provisioning"
	"github.com/glowbridge/glowbridge/runtime"
	"github.com/glowbridge/glowbridge/transport"
)

var logger *zap.SugaredLogger

// those are provided at compile time

// GitCommit SHA hash
var GitCommit string

// BuildDate build date
var BuildDate string

// Version application version
var Version string

func dialBroker(config *configuration.MqttConfig, stat transport.BytesMetric) func() (transport.Conn, error) {
	return func() (transport.Conn, error) {
		var tlsConfig *tls.Config

		if config.TLS.Enabled {
			var err error
			if tlsConfig, err = config.TLS.LoadConfig(); err != nil {
				return nil, err
			}
		}

		timeout := time.Duration(config.ConnectTimeout) * time.Second

		if config.Websocket.Enabled {
			return transport.DialWS(transport.ConfigWS{
				URL:     config.Websocket.URL,
				TLS:     tlsConfig,
				Timeout: timeout,
				Stat:    stat,
			})
		}

		return transport.DialTCP(transport.ConfigTCP{
			Host:    fmt.Sprintf("%s:%d", config.Host, config.Port),
			TLS:     tlsConfig,
			Timeout: timeout,
			Stat:    stat,
		})
	}
}

func sessionOptions(config *configuration.Config) client.Options {
	return client.Options{
		ClientID:       config.Device.ID,
		Username:       config.Mqtt.Username,
		Password:       config.Mqtt.Password,
		CleanSession:   config.Mqtt.CleanSession,
		KeepAlive:      time.Duration(config.Mqtt.KeepAlive) * time.Second,
		ConnectTimeout: time.Duration(config.Mqtt.ConnectTimeout) * time.Second,
		RetryInterval:  time.Duration(config.Mqtt.Retry.Interval) * time.Second,
		RetryLimit:     config.Mqtt.Retry.Limit,
	}
}

func lightEntity(config *configuration.Config) homeassistant.LightEntity {
	return homeassistant.LightEntity{
		ID:   "led_strip",
		Name: "LED Strip",
		Device: homeassistant.Device{
			ID:           config.Device.ID,
			Name:         config.Device.Name,
			Manufacturer: "glowbridge",
			Model:        "led-bridge",
			SWVersion:    Version,
		},
		Icon:       "mdi:led-strip",
		Brightness: true,
		ColorModes: []string{light.ColorModeRGB, light.ColorModeTemp},
		Effects:    light.Effects(),
		MinMireds:  154,
		MaxMireds:  500,
	}
}

func openRenderer(config *configuration.LightConfig) light.Renderer {
	renderer, err := light.OpenAdalight(light.AdalightConfig{
		Device:   config.Device,
		BaudRate: config.BaudRate,
		Leds:     config.Leds,
	})

	if err != nil {
		logger.Warnf("strip controller unavailable, rendering to nowhere: %s", err.Error())
		return light.Discard()
	}

	return renderer
}

func main() {
	defer func() {
		if r := recover(); r != nil {
			logger.Panic(r)
		}
	}()

	logger = configuration.GetHumanLogger()
	logger.Info("starting agent...")
	logger.Infof("\n\tbuild info:\n"+
		"\t\tcommit : %s\n"+
		"\t\tdate   : %s\n"+
		"\t\tversion: %s\n", GitCommit, BuildDate, Version)

	config := configuration.ReadConfig()
	if config == nil {
		return
	}

	if err := configuration.ConfigureLoggers(&config.System.Log); err != nil {
		return
	}

	logger = configuration.GetHumanLogger()
	logger.Info("working directory: ", configuration.WorkDir)

	store, err := persistence.Open(filepath.Join(configuration.WorkDir, "state.db"))
	if err != nil {
		logger.Error("open state store", zap.Error(err))
		return
	}
	defer store.Close() // nolint: errcheck

	state, err := store.LightState()
	if err != nil && err != persistence.ErrNotFound {
		logger.Warn("stored light state unusable, starting from defaults", zap.Error(err))
	}

	engine := light.NewEngine(openRenderer(&config.Light), light.EngineConfig{
		Leds:      config.Light.Leds,
		FrameRate: config.Light.FrameRate,
		Initial:   state,
	}, configuration.GetLogger().Named("light"))

	engine.OnState(func(s light.State) {
		if err := store.StoreLightState(s); err != nil {
			logger.Warnf("cannot persist light state: %s", err.Error())
		}
	})

	engine.Start()
	defer engine.Stop()

	haModule := homeassistant.NewModule(homeassistant.DefaultTickInterval, configuration.GetLogger().Named("ha"))
	haModule.AddLight(homeassistant.LightRegistration{
		Entity: lightEntity(config),
		State:  engine.Snapshot,
		OnCommand: func(c light.Change) {
			engine.Apply(c)
		},
	})

	stats := metrics.New()

	rt := runtime.New(runtime.Config{
		Options: sessionOptions(config),
		Dial:    dialBroker(&config.Mqtt, stats.Bytes()),
		Metrics: stats,
	}, configuration.GetLogger().Named("mqtt"))
	rt.Register(haModule)
	rt.Start()
	defer rt.Stop()

	otaDir := config.Provisioning.OtaDir
	if !filepath.IsAbs(otaDir) {
		otaDir = filepath.Join(configuration.WorkDir, otaDir)
	}

	prov := provisioning.NewServer(provisioning.Config{
		Listen:  config.Provisioning.Listen,
		OtaDir:  otaDir,
		Version: Version,
		GetConfig: func() *configuration.Config {
			return config
		},
		SetConfig: func(c *configuration.Config) error {
			path := configuration.File()
			if path == "" {
				path = filepath.Join(configuration.WorkDir, "config.yaml")
			}

			if err := configuration.WriteConfig(path, c); err != nil {
				return err
			}

			logger.Info("configuration updated, restart to apply")
			return nil
		},
		Connected:  rt.Connected,
		LightState: engine.Snapshot,
		Link:       stats.Snapshot,
		OnImage: func(name string) {
			if err := store.StoreSetting("pendingImage", []byte(name)); err != nil {
				logger.Warnf("cannot record staged image: %s", err.Error())
			}
		},
	}, configuration.GetLogger().Named("provisioning"))

	logger.Info("provisioning listening on ", config.Provisioning.Listen)
	prov.Start()

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	sig := <-ch
	logger.Info("agent received signal: ", sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err = prov.Shutdown(ctx); err != nil {
		logger.Error("shutdown provisioning", zap.Error(err))
	}
}
