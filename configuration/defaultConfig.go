package configuration

// defaultConfig loaded anyway when the agent starts
// may be extended/replaced by user-provided config later
var defaultConfig = []byte(`
version: v0.0.1
system:
  log:
    console:
      level: info # available levels: debug, info, warn, error, dpanic, panic, fatal
device:
  id: glowbridge
  name: Glowbridge
mqtt:
  host: localhost
  port: 1883
  keepAlive: 30
  connectTimeout: 5
  cleanSession: true
  retry:
    interval: 5
    limit: 3
light:
  leds: 60
  device: /dev/ttyUSB0
  baudRate: 115200
  frameRate: 30
provisioning:
  listen: :8080
  otaDir: ota
`)
