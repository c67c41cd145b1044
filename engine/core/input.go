package core

import "sync"

// Key code definitions
type KeyCode uint16

const (
	KEY_BACKSPACE KeyCode = 0x08
	KEY_TAB       KeyCode = 0x09
	KEY_ENTER     KeyCode = 0x0D
	KEY_ESCAPE    KeyCode = 0x1B
	KEY_SPACE     KeyCode = 0x20
	KEY_LEFT      KeyCode = 0x25
	KEY_UP        KeyCode = 0x26
	KEY_RIGHT     KeyCode = 0x27
	KEY_DOWN      KeyCode = 0x28

	KEY_0 KeyCode = 0x30
	KEY_1 KeyCode = 0x31
	KEY_2 KeyCode = 0x32
	KEY_3 KeyCode = 0x33
	KEY_4 KeyCode = 0x34
	KEY_5 KeyCode = 0x35
	KEY_6 KeyCode = 0x36
	KEY_7 KeyCode = 0x37
	KEY_8 KeyCode = 0x38
	KEY_9 KeyCode = 0x39

	KEY_A KeyCode = 0x41
	KEY_C KeyCode = 0x43
	KEY_D KeyCode = 0x44
	KEY_E KeyCode = 0x45
	KEY_F KeyCode = 0x46
	KEY_H KeyCode = 0x48
	KEY_L KeyCode = 0x4C
	KEY_M KeyCode = 0x4D
	KEY_N KeyCode = 0x4E
	KEY_P KeyCode = 0x50
	KEY_Q KeyCode = 0x51
	KEY_R KeyCode = 0x52
	KEY_S KeyCode = 0x53
	KEY_T KeyCode = 0x54
	KEY_W KeyCode = 0x57

	KEY_MINUS KeyCode = 0xBD
	KEY_EQUAL KeyCode = 0xBB

	KEYS_MAX_KEYS KeyCode = 0xFF
)

// Keyboard state structure
type KeyboardState struct {
	Keys [256]bool
}

// InputState holds current and previous keyboard states and reports key
// transitions on the owning engine's event bus.
type InputState struct {
	mu               sync.RWMutex
	bus              *EventBus
	KeyboardCurrent  KeyboardState
	KeyboardPrevious KeyboardState
}

func NewInputState(bus *EventBus) *InputState {
	LogDebug("Input subsystem initialized.")
	return &InputState{bus: bus}
}

// Update copies current states to previous states. Call once per frame.
func (s *InputState) Update() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.KeyboardPrevious = s.KeyboardCurrent
}

func (s *InputState) IsKeyDown(key KeyCode) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.KeyboardCurrent.Keys[key]
}

func (s *InputState) WasKeyDown(key KeyCode) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.KeyboardPrevious.Keys[key]
}

// ProcessKey records a key transition and fires it on the bus.
func (s *InputState) ProcessKey(key KeyCode, pressed bool) {
	s.mu.Lock()
	if s.KeyboardCurrent.Keys[key] == pressed {
		s.mu.Unlock()
		return
	}
	s.KeyboardCurrent.Keys[key] = pressed
	s.mu.Unlock()

	code := EVENT_CODE_KEY_RELEASED
	if pressed {
		code = EVENT_CODE_KEY_PRESSED
	}
	if s.bus != nil {
		s.bus.Fire(EventContext{
			Type: code,
			Data: &KeyEvent{KeyCode: key},
		})
	}
}
