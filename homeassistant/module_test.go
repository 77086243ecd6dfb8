package homeassistant

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/glowbridge/glowbridge/light"
	"github.com/glowbridge/glowbridge/packet"
	"github.com/glowbridge/glowbridge/runtime"
)

type recordedPublish struct {
	topic   string
	payload []byte
	qos     packet.QosType
}

type fakeOutbox struct {
	mu        sync.Mutex
	published []recordedPublish
}

func (o *fakeOutbox) Publish(topic string, payload []byte, qos packet.QosType) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.published = append(o.published, recordedPublish{
		topic:   topic,
		payload: append([]byte(nil), payload...),
		qos:     qos,
	})
}

func (o *fakeOutbox) byTopic(topic string) (recordedPublish, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()

	for _, p := range o.published {
		if p.topic == topic {
			return p, true
		}
	}

	return recordedPublish{}, false
}

var testDevice = Device{
	ID:           "bridge",
	Name:         "Glow Bridge",
	Manufacturer: "glowbridge",
	Model:        "strip-1",
	SWVersion:    "0.1.0",
}

func testLightEntity() LightEntity {
	return LightEntity{
		ID:         "led_strip",
		Name:       "LED Strip",
		Device:     testDevice,
		Icon:       "mdi:led-strip",
		Brightness: true,
		ColorModes: []string{"rgb", "color_temp"},
		Effects:    []string{"static", "rainbow", "breathe"},
		MinMireds:  154,
		MaxMireds:  500,
	}
}

func newTestModule(state light.State) (*Module, *light.State) {
	current := state
	m := NewModule(time.Second, zap.NewNop().Sugar())
	m.AddLight(LightRegistration{
		Entity: testLightEntity(),
		State:  func() light.State { return current },
		OnCommand: func(c light.Change) {
			c.Apply(&current)
		},
	})

	return m, &current
}

func TestTopics(t *testing.T) {
	require.Equal(t, "homeassistant/light/bridge_led_strip/config", ConfigTopic("light", "bridge", "led_strip"))
	require.Equal(t, "bridge/led_strip", StateTopic("bridge", "led_strip"))
	require.Equal(t, "bridge/led_strip/set", CommandTopic("bridge", "led_strip"))
	require.Equal(t, "bridge_led_strip", UniqueID("bridge", "led_strip"))
}

func TestTopicsCollectsCommandTopics(t *testing.T) {
	m, _ := newTestModule(light.DefaultState())

	var topics []string
	m.Topics(func(topic string) { topics = append(topics, topic) })

	require.Equal(t, []string{"bridge/led_strip/set"}, topics)
}

func TestDiscoveryPayload(t *testing.T) {
	m, _ := newTestModule(light.DefaultState())
	out := &fakeOutbox{}

	m.OnStart(out)

	config, ok := out.byTopic("homeassistant/light/bridge_led_strip/config")
	require.True(t, ok)
	require.Equal(t, packet.QoS1, config.qos)

	require.JSONEq(t, `{
		"name": "LED Strip",
		"unique_id": "bridge_led_strip",
		"schema": "json",
		"state_topic": "bridge/led_strip",
		"command_topic": "bridge/led_strip/set",
		"device": {
			"name": "Glow Bridge",
			"identifiers": ["bridge"],
			"manufacturer": "glowbridge",
			"model": "strip-1",
			"sw_version": "0.1.0"
		},
		"icon": "mdi:led-strip",
		"brightness": true,
		"effect": true,
		"effect_list": ["static", "rainbow", "breathe"],
		"supported_color_modes": ["rgb", "color_temp"],
		"min_mireds": 154,
		"max_mireds": 500
	}`, string(config.payload))
}

func TestStatePayloadOff(t *testing.T) {
	m, _ := newTestModule(light.DefaultState())
	out := &fakeOutbox{}

	m.OnStart(out)

	state, ok := out.byTopic("bridge/led_strip")
	require.True(t, ok)
	require.Equal(t, packet.QoS0, state.qos)
	require.JSONEq(t, `{"state":"OFF"}`, string(state.payload))
}

func TestStatePayloadOnRGB(t *testing.T) {
	m, _ := newTestModule(light.State{
		On:         true,
		Brightness: 128,
		Color:      light.RGB{R: 255, G: 64, B: 32},
		ColorMode:  light.ColorModeRGB,
		Effect:     light.EffectStatic,
	})
	out := &fakeOutbox{}

	m.OnTick(out)

	state, ok := out.byTopic("bridge/led_strip")
	require.True(t, ok)
	require.JSONEq(t, `{
		"state": "ON",
		"brightness": 128,
		"color_mode": "rgb",
		"color": {"r": 255, "g": 64, "b": 32},
		"effect": "static"
	}`, string(state.payload))
}

func TestStatePayloadOnColorTemp(t *testing.T) {
	m, _ := newTestModule(light.State{
		On:         true,
		Brightness: 200,
		ColorTemp:  320,
		ColorMode:  light.ColorModeTemp,
		Effect:     light.EffectStatic,
	})
	out := &fakeOutbox{}

	m.OnTick(out)

	state, ok := out.byTopic("bridge/led_strip")
	require.True(t, ok)
	require.JSONEq(t, `{
		"state": "ON",
		"brightness": 200,
		"color_mode": "color_temp",
		"color_temp": 320,
		"effect": "static"
	}`, string(state.payload))
}

func TestCommandAppliesChange(t *testing.T) {
	m, current := newTestModule(light.DefaultState())

	m.OnMessage(runtime.Message{
		Topic:   "bridge/led_strip/set",
		Payload: []byte(`{"state":"ON","brightness":90,"color":{"r":10,"g":20,"b":30},"effect":"rainbow"}`),
	})

	require.True(t, m.Dirty())
	require.True(t, current.On)
	require.Equal(t, uint8(90), current.Brightness)
	require.Equal(t, light.RGB{R: 10, G: 20, B: 30}, current.Color)
	require.Equal(t, light.ColorModeRGB, current.ColorMode)
	require.Equal(t, "rainbow", current.Effect)

	// next tick clears the flag
	m.OnTick(&fakeOutbox{})
	require.False(t, m.Dirty())
}

func TestCommandColorTempSwitchesMode(t *testing.T) {
	state := light.DefaultState()
	state.On = true
	m, current := newTestModule(state)

	m.OnMessage(runtime.Message{
		Topic:   "bridge/led_strip/set",
		Payload: []byte(`{"color_temp":400}`),
	})

	require.Equal(t, uint16(400), current.ColorTemp)
	require.Equal(t, light.ColorModeTemp, current.ColorMode)
}

func TestCommandMalformedIgnored(t *testing.T) {
	m, current := newTestModule(light.DefaultState())
	before := *current

	m.OnMessage(runtime.Message{
		Topic:   "bridge/led_strip/set",
		Payload: []byte(`{"state":`),
	})

	require.False(t, m.Dirty())
	require.Equal(t, before, *current)
}

func TestCommandUnknownTopicIgnored(t *testing.T) {
	m, _ := newTestModule(light.DefaultState())

	m.OnMessage(runtime.Message{
		Topic:   "other/device/set",
		Payload: []byte(`{"state":"ON"}`),
	})

	require.False(t, m.Dirty())
}

func TestNumberEntity(t *testing.T) {
	value := 30
	m := NewModule(time.Second, zap.NewNop().Sugar())
	m.AddNumber(NumberRegistration{
		Entity: NumberEntity{
			ID:     "frame_rate",
			Name:   "Frame Rate",
			Device: testDevice,
			Unit:   "fps",
			Min:    1,
			Max:    120,
			Step:   1,
			Mode:   "slider",
		},
		Value:     func() int { return value },
		OnCommand: func(v int) { value = v },
	})

	out := &fakeOutbox{}
	m.OnStart(out)

	config, ok := out.byTopic("homeassistant/number/bridge_frame_rate/config")
	require.True(t, ok)
	require.JSONEq(t, `{
		"name": "Frame Rate",
		"unique_id": "bridge_frame_rate",
		"state_topic": "bridge/frame_rate",
		"command_topic": "bridge/frame_rate/set",
		"device": {
			"name": "Glow Bridge",
			"identifiers": ["bridge"],
			"manufacturer": "glowbridge",
			"model": "strip-1",
			"sw_version": "0.1.0"
		},
		"unit_of_measurement": "fps",
		"min": 1,
		"max": 120,
		"step": 1,
		"mode": "slider"
	}`, string(config.payload))

	state, ok := out.byTopic("bridge/frame_rate")
	require.True(t, ok)
	require.Equal(t, "30", string(state.payload))

	m.OnMessage(runtime.Message{
		Topic:   "bridge/frame_rate/set",
		Payload: []byte(" 60 "),
	})
	require.Equal(t, 60, value)
	require.True(t, m.Dirty())
}
