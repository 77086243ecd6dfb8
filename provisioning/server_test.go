package provisioning

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	yaml "gopkg.in/yaml.v3"

	"github.com/glowbridge/glowbridge/configuration"
	"github.com/glowbridge/glowbridge/light"
)

type testEnv struct {
	server    *Server
	ts        *httptest.Server
	config    *configuration.Config
	connected bool
	images    []string
}

func newTestEnv(t *testing.T) *testEnv {
	env := &testEnv{
		config:    configuration.DefaultConfig(),
		connected: true,
	}

	env.server = NewServer(Config{
		OtaDir:     t.TempDir(),
		Version:    "0.1.0",
		GetConfig:  func() *configuration.Config { return env.config },
		SetConfig:  func(c *configuration.Config) error { env.config = c; return nil },
		Connected:  func() bool { return env.connected },
		LightState: light.DefaultState,
		OnImage:    func(name string) { env.images = append(env.images, name) },
	}, zap.NewNop().Sugar())

	env.ts = httptest.NewServer(env.server.Handler())
	t.Cleanup(env.ts.Close)

	return env
}

func TestStatus(t *testing.T) {
	env := newTestEnv(t)

	resp, err := http.Get(env.ts.URL + "/api/v1/status")
	require.NoError(t, err)
	defer resp.Body.Close() // nolint: errcheck

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var status Status
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&status))
	require.Equal(t, "0.1.0", status.Version)
	require.True(t, status.Connected)
	require.False(t, status.RestartPending)
	require.Equal(t, light.DefaultState(), status.Light)
}

func TestConfigRoundTrip(t *testing.T) {
	env := newTestEnv(t)

	resp, err := http.Get(env.ts.URL + "/api/v1/config")
	require.NoError(t, err)

	raw, err := readAll(resp)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	config := configuration.DefaultConfig()
	require.NoError(t, yaml.Unmarshal(raw, config))
	config.Light.Leds = 144

	updated, err := yaml.Marshal(config)
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPut, env.ts.URL+"/api/v1/config", bytes.NewReader(updated))
	require.NoError(t, err)

	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close() // nolint: errcheck

	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	require.Equal(t, 144, env.config.Light.Leds)
}

func TestConfigRejectsGarbage(t *testing.T) {
	env := newTestEnv(t)

	req, err := http.NewRequest(http.MethodPut, env.ts.URL+"/api/v1/config", bytes.NewReader([]byte("\tnot yaml")))
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close() // nolint: errcheck

	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestOTAUpload(t *testing.T) {
	env := newTestEnv(t)

	image := []byte("pretend this is firmware")
	digest := sha256.Sum256(image)

	req, err := http.NewRequest(http.MethodPost, env.ts.URL+"/api/v1/ota", bytes.NewReader(image))
	require.NoError(t, err)
	req.Header.Set(DigestHeader, "sha256:"+hex.EncodeToString(digest[:]))
	req.Header.Set(NameHeader, "glowbridge-0.2.0.bin")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close() // nolint: errcheck

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.True(t, env.server.RestartPending())
	require.Equal(t, []string{"glowbridge-0.2.0.bin"}, env.images)

	staged, err := os.ReadFile(filepath.Join(env.server.cfg.OtaDir, "glowbridge-0.2.0.bin"))
	require.NoError(t, err)
	require.Equal(t, image, staged)
}

func TestOTADigestMismatch(t *testing.T) {
	env := newTestEnv(t)

	req, err := http.NewRequest(http.MethodPost, env.ts.URL+"/api/v1/ota", bytes.NewReader([]byte("image")))
	require.NoError(t, err)
	req.Header.Set(DigestHeader, "deadbeef")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close() // nolint: errcheck

	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.False(t, env.server.RestartPending())
	require.Empty(t, env.images)

	// nothing left behind in the staging directory
	entries, err := os.ReadDir(env.server.cfg.OtaDir)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestOTARequiresDigest(t *testing.T) {
	env := newTestEnv(t)

	resp, err := http.Post(env.ts.URL+"/api/v1/ota", "application/octet-stream", bytes.NewReader([]byte("image")))
	require.NoError(t, err)
	resp.Body.Close() // nolint: errcheck

	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestReadiness(t *testing.T) {
	env := newTestEnv(t)

	resp, err := http.Get(env.ts.URL + "/ready")
	require.NoError(t, err)
	resp.Body.Close() // nolint: errcheck
	require.Equal(t, http.StatusOK, resp.StatusCode)

	env.connected = false

	resp, err = http.Get(env.ts.URL + "/ready")
	require.NoError(t, err)
	resp.Body.Close() // nolint: errcheck
	require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	resp, err = http.Get(env.ts.URL + "/live")
	require.NoError(t, err)
	resp.Body.Close() // nolint: errcheck
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func readAll(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close() // nolint: errcheck

	var buf bytes.Buffer
	_, err := buf.ReadFrom(resp.Body)

	return buf.Bytes(), err
}
