package light

type discard struct{}

// Discard returns a Renderer that drops every frame. Used when no strip
// controller is attached so the rest of the agent keeps running
func Discard() Renderer {
	return discard{}
}

func (discard) Render([]RGB) error { return nil }

func (discard) Close() error { return nil }
