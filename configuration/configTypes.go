package configuration

import (
	"crypto/tls"
	"crypto/x509"
	"io/ioutil"

	"github.com/pkg/errors"
)

// TimestampConfig log timestamp format, named after a Go time layout
type TimestampConfig struct {
	Format string `yaml:"format,omitempty"`
}

// ConsoleLogConfig entry in system.log.console
type ConsoleLogConfig struct {
	Level     string           `yaml:"level,omitempty"`
	Timestamp *TimestampConfig `yaml:"timestamp,omitempty"`
}

// LogConfig entry in system.log
type LogConfig struct {
	Console ConsoleLogConfig `yaml:"console,omitempty"`
}

// SystemConfig entry in system
type SystemConfig struct {
	Log LogConfig `yaml:"log,omitempty"`
}

// DeviceConfig identity of this agent towards the broker and Home Assistant
type DeviceConfig struct {
	ID   string `yaml:"id,omitempty"`
	Name string `yaml:"name,omitempty"`
}

// TLSConfig client-side TLS towards the broker
type TLSConfig struct {
	Enabled bool   `yaml:"enabled,omitempty"`
	CA      string `yaml:"ca,omitempty"`
	Cert    string `yaml:"cert,omitempty"`
	Key     string `yaml:"key,omitempty"`
	// Insecure skips broker certificate verification
	Insecure bool `yaml:"insecure,omitempty"`
}

// WebsocketConfig switches the broker connection to a ws(s) endpoint
type WebsocketConfig struct {
	Enabled bool   `yaml:"enabled,omitempty"`
	URL     string `yaml:"url,omitempty"`
}

// RetryConfig QoS 1 redelivery bounds
type RetryConfig struct {
	Interval int `yaml:"interval,omitempty"` // seconds
	Limit    int `yaml:"limit,omitempty"`
}

// MqttConfig broker session config
type MqttConfig struct {
	Host           string          `yaml:"host,omitempty"`
	Port           int             `yaml:"port,omitempty"`
	Username       string          `yaml:"username,omitempty"`
	Password       string          `yaml:"password,omitempty"`
	KeepAlive      int             `yaml:"keepAlive,omitempty"` // seconds
	ConnectTimeout int             `yaml:"connectTimeout,omitempty"`
	CleanSession   bool            `yaml:"cleanSession,omitempty"`
	Retry          RetryConfig     `yaml:"retry,omitempty"`
	TLS            TLSConfig       `yaml:"tls,omitempty"`
	Websocket      WebsocketConfig `yaml:"websocket,omitempty"`
}

// LightConfig LED strip parameters
type LightConfig struct {
	Leds      int    `yaml:"leds,omitempty"`
	Device    string `yaml:"device,omitempty"` // serial port of the strip controller
	BaudRate  int    `yaml:"baudRate,omitempty"`
	FrameRate int    `yaml:"frameRate,omitempty"`
}

// ProvisioningConfig local HTTP surface
type ProvisioningConfig struct {
	Listen string `yaml:"listen,omitempty"`
	OtaDir string `yaml:"otaDir,omitempty"`
}

// Config agent-wide config
type Config struct {
	Version      string             `yaml:"version,omitempty"`
	System       SystemConfig       `yaml:"system,omitempty"`
	Device       DeviceConfig       `yaml:"device,omitempty"`
	Mqtt         MqttConfig         `yaml:"mqtt,omitempty"`
	Light        LightConfig        `yaml:"light,omitempty"`
	Provisioning ProvisioningConfig `yaml:"provisioning,omitempty"`
}

// LoadConfig builds a tls.Config for the broker connection
func (t *TLSConfig) LoadConfig() (*tls.Config, error) {
	c := &tls.Config{
		InsecureSkipVerify: t.Insecure, // nolint: gas
	}

	if len(t.CA) > 0 {
		pem, err := ioutil.ReadFile(t.CA)
		if err != nil {
			return nil, errors.Wrap(err, "tls: read ca")
		}

		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return nil, errors.New("tls: no certificates found in " + t.CA)
		}

		c.RootCAs = pool
	}

	if len(t.Cert) > 0 || len(t.Key) > 0 {
		cert, err := tls.LoadX509KeyPair(t.Cert, t.Key)
		if err != nil {
			return nil, errors.Wrap(err, "tls: load key pair")
		}

		c.Certificates = append(c.Certificates, cert)
	}

	return c, nil
}
