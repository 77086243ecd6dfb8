package persistence

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/glowbridge/glowbridge/light"
)

func openTestStore(t *testing.T) *Store {
	s, err := Open(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)

	t.Cleanup(func() {
		s.Close() // nolint: errcheck
	})

	return s
}

func TestLightStateRoundTrip(t *testing.T) {
	s := openTestStore(t)

	_, err := s.LightState()
	require.Equal(t, ErrNotFound, err)

	state := light.State{
		On:         true,
		Brightness: 180,
		Color:      light.RGB{R: 10, G: 200, B: 30},
		ColorTemp:  320,
		ColorMode:  light.ColorModeRGB,
		Effect:     light.EffectRainbow,
	}
	require.NoError(t, s.StoreLightState(state))

	loaded, err := s.LightState()
	require.NoError(t, err)
	require.Equal(t, state, loaded)
}

func TestLightStateSurvivesReopen(t *testing.T) {
	file := filepath.Join(t.TempDir(), "state.db")

	s, err := Open(file)
	require.NoError(t, err)

	state := light.DefaultState()
	state.On = true
	state.Effect = light.EffectBreathe
	require.NoError(t, s.StoreLightState(state))
	require.NoError(t, s.Close())

	s, err = Open(file)
	require.NoError(t, err)
	defer s.Close() // nolint: errcheck

	loaded, err := s.LightState()
	require.NoError(t, err)
	require.Equal(t, state, loaded)
}

func TestSettings(t *testing.T) {
	s := openTestStore(t)

	_, err := s.Setting("pendingImage")
	require.Equal(t, ErrNotFound, err)

	require.NoError(t, s.StoreSetting("pendingImage", []byte("glowbridge-0.2.0.bin")))

	value, err := s.Setting("pendingImage")
	require.NoError(t, err)
	require.Equal(t, []byte("glowbridge-0.2.0.bin"), value)
}

func TestWipe(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.StoreLightState(light.DefaultState()))
	require.NoError(t, s.StoreSetting("key", []byte("value")))

	require.NoError(t, s.Wipe())

	_, err := s.LightState()
	require.Equal(t, ErrNotFound, err)

	_, err = s.Setting("key")
	require.Equal(t, ErrNotFound, err)
}

func TestClosedStore(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, err = s.LightState()
	require.Equal(t, ErrNotOpen, err)

	require.Equal(t, ErrNotOpen, s.StoreLightState(light.DefaultState()))
	require.Equal(t, ErrNotOpen, s.Close())
}
