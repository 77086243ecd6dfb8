package homeassistant

import (
	"encoding/json"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/glowbridge/glowbridge/packet"
	"github.com/glowbridge/glowbridge/runtime"
)

// DefaultTickInterval period between state re-announcements
const DefaultTickInterval = 30 * time.Second

type lightEntry struct {
	reg          LightRegistration
	configTopic  string
	stateTopic   string
	commandTopic string
}

type numberEntry struct {
	reg          NumberRegistration
	configTopic  string
	stateTopic   string
	commandTopic string
}

// Module publishes entity discovery and state to the automation platform
// and feeds received commands back into the registered entities.
// It implements runtime.Module
type Module struct {
	mu      sync.Mutex
	lights  []lightEntry
	numbers []numberEntry
	tick    time.Duration
	dirty   bool
	log     *zap.SugaredLogger
}

var _ runtime.Module = (*Module)(nil)

// NewModule creates an empty module re-announcing every tick interval
func NewModule(tick time.Duration, log *zap.SugaredLogger) *Module {
	if tick <= 0 {
		tick = DefaultTickInterval
	}

	return &Module{
		tick: tick,
		log:  log,
	}
}

// AddLight registers a light entity
func (m *Module) AddLight(reg LightRegistration) {
	m.lights = append(m.lights, lightEntry{
		reg:          reg,
		configTopic:  ConfigTopic("light", reg.Entity.Device.ID, reg.Entity.ID),
		stateTopic:   StateTopic(reg.Entity.Device.ID, reg.Entity.ID),
		commandTopic: CommandTopic(reg.Entity.Device.ID, reg.Entity.ID),
	})
}

// AddNumber registers a number entity
func (m *Module) AddNumber(reg NumberRegistration) {
	m.numbers = append(m.numbers, numberEntry{
		reg:          reg,
		configTopic:  ConfigTopic("number", reg.Entity.Device.ID, reg.Entity.ID),
		stateTopic:   StateTopic(reg.Entity.Device.ID, reg.Entity.ID),
		commandTopic: CommandTopic(reg.Entity.Device.ID, reg.Entity.ID),
	})
}

// Topics contributes the command topics of all registered entities
func (m *Module) Topics(add func(string)) {
	for _, e := range m.lights {
		add(e.commandTopic)
	}
	for _, e := range m.numbers {
		add(e.commandTopic)
	}
}

// OnStart announces discovery configs and current states for the new
// session
func (m *Module) OnStart(out runtime.Outbox) time.Duration {
	m.announceAll(out)
	m.publishStates(out)

	return m.tick
}

// OnTick re-announces discovery and publishes fresh states, so a
// restarted automation platform picks the device back up
func (m *Module) OnTick(out runtime.Outbox) time.Duration {
	m.mu.Lock()
	m.dirty = false
	m.mu.Unlock()

	m.announceAll(out)
	m.publishStates(out)

	return m.tick
}

// OnMessage handles a command for one of the registered entities
func (m *Module) OnMessage(msg runtime.Message) {
	for _, e := range m.lights {
		if msg.Topic != e.commandTopic {
			continue
		}

		var cmd LightCommand
		if err := json.Unmarshal(msg.Payload, &cmd); err != nil {
			m.log.Warnf("discarding malformed light command on %q: %s", msg.Topic, err.Error())
			return
		}

		e.reg.OnCommand(commandToChange(cmd))
		m.markDirty()

		return
	}

	for _, e := range m.numbers {
		if msg.Topic != e.commandTopic {
			continue
		}

		value, err := strconv.Atoi(strings.TrimSpace(string(msg.Payload)))
		if err != nil {
			m.log.Warnf("discarding malformed number command on %q: %s", msg.Topic, err.Error())
			return
		}

		e.reg.OnCommand(value)
		m.markDirty()

		return
	}
}

// Dirty reports whether a command arrived since the last tick
func (m *Module) Dirty() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.dirty
}

func (m *Module) markDirty() {
	m.mu.Lock()
	m.dirty = true
	m.mu.Unlock()
}

func (m *Module) announceAll(out runtime.Outbox) {
	for _, e := range m.lights {
		m.publishJSON(out, e.configTopic, lightDiscovery(e.reg.Entity), packet.QoS1)
	}
	for _, e := range m.numbers {
		m.publishJSON(out, e.configTopic, numberDiscovery(e.reg.Entity), packet.QoS1)
	}
}

func (m *Module) publishStates(out runtime.Outbox) {
	for _, e := range m.lights {
		m.publishJSON(out, e.stateTopic, stateToWire(e.reg.State()), packet.QoS0)
	}
	for _, e := range m.numbers {
		payload := strconv.Itoa(e.reg.Value())
		out.Publish(e.stateTopic, []byte(payload), packet.QoS0)
	}
}

func (m *Module) publishJSON(out runtime.Outbox, topic string, v interface{}, qos packet.QosType) {
	payload, err := json.Marshal(v)
	if err != nil {
		m.log.Errorf("cannot encode payload for %q: %s", topic, err.Error())
		return
	}

	out.Publish(topic, payload, qos)
}
