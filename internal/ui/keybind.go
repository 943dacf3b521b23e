package ui

import (
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// KeybindRegistry maps key sequences to commands.
// Sequences use spacemacs-style notation: "SPC r" is space then r. Single keys
// use tea.KeyMsg.String() form: "ctrl+c", "esc".
type KeybindRegistry struct {
	bindings map[string]keybind
}

type keybind struct {
	cmd   tea.Cmd
	desc  string
	modes []AppMode // empty = all modes
}

// NewKeybindRegistry creates an empty registry.
func NewKeybindRegistry() *KeybindRegistry {
	return &KeybindRegistry{bindings: make(map[string]keybind)}
}

// Bind registers seq for all modes, replacing any earlier binding.
func (r *KeybindRegistry) Bind(seq string, cmd tea.Cmd, desc string) {
	r.BindForMode(seq, cmd, desc, nil)
}

// BindForMode registers seq only for the given modes.
func (r *KeybindRegistry) BindForMode(seq string, cmd tea.Cmd, desc string, modes []AppMode) {
	r.bindings[normalizeSeq(seq)] = keybind{cmd: cmd, desc: desc, modes: modes}
}

// Lookup returns the command for seq in mode, or nil.
func (r *KeybindRegistry) Lookup(seq string, mode AppMode) tea.Cmd {
	b, ok := r.bindings[normalizeSeq(seq)]
	if !ok || !b.appliesTo(mode) {
		return nil
	}
	return b.cmd
}

// HasPrefix reports whether a longer binding continues seq in mode.
func (r *KeybindRegistry) HasPrefix(seq string, mode AppMode) bool {
	prefix := normalizeSeq(seq) + " "
	for k, b := range r.bindings {
		if strings.HasPrefix(k, prefix) && b.appliesTo(mode) {
			return true
		}
	}
	return false
}

// LeaderHints returns the next keys after currentSeq ("SPC" when empty) with
// their descriptions, filtered by mode.
func (r *KeybindRegistry) LeaderHints(currentSeq string, mode AppMode) map[string]string {
	if currentSeq == "" {
		currentSeq = "SPC"
	}
	prefix := normalizeSeq(currentSeq) + " "
	out := make(map[string]string)
	for seq, b := range r.bindings {
		if b.cmd == nil || !b.appliesTo(mode) || !strings.HasPrefix(seq, prefix) {
			continue
		}
		next, _, more := strings.Cut(strings.TrimPrefix(seq, prefix), " ")
		switch {
		case more:
			out[next] = next + "…"
		case b.desc != "":
			out[next] = b.desc
		default:
			out[next] = seq
		}
	}
	return out
}

func (b keybind) appliesTo(mode AppMode) bool {
	return len(b.modes) == 0 || slices.Contains(b.modes, mode)
}

// normalizeSeq converts tea key strings to the canonical form.
func normalizeSeq(seq string) string {
	parts := strings.Fields(seq)
	for i, p := range parts {
		parts[i] = keyToSeqPart(p)
	}
	return strings.Join(parts, " ")
}

func keyToSeqPart(s string) string {
	if s == " " || s == "space" {
		return "SPC"
	}
	return s
}

// KeyHandler tracks leader-key state and dispatches to the registry.
type KeyHandler struct {
	Registry      *KeybindRegistry
	LeaderWaiting bool
	Buffer        []string // sequence typed since the leader
}

// NewKeyHandler creates a handler with SPC as leader.
func NewKeyHandler(reg *KeybindRegistry) *KeyHandler {
	return &KeyHandler{Registry: reg}
}

// Handle processes a key. When consumed is true the key must not reach the
// screens. Space only acts as leader when no text input has focus, which the
// caller signals through typing.
func (h *KeyHandler) Handle(msg tea.KeyMsg, mode AppMode, typing bool) (consumed bool, cmd tea.Cmd) {
	s := keyToSeqPart(msg.String())

	if h.LeaderWaiting {
		if s == "esc" {
			h.reset()
			return true, nil
		}
		h.Buffer = append(h.Buffer, s)
		seq := strings.Join(h.Buffer, " ")
		if c := h.Registry.Lookup(seq, mode); c != nil {
			h.reset()
			return true, c
		}
		if !h.Registry.HasPrefix(seq, mode) {
			h.reset()
		}
		return true, nil
	}

	if s == "SPC" && !typing {
		h.LeaderWaiting = true
		h.Buffer = []string{"SPC"}
		return true, nil
	}

	if typing && s != "ctrl+c" {
		return false, nil
	}
	if c := h.Registry.Lookup(s, mode); c != nil {
		return true, c
	}
	return false, nil
}

// CurrentSeq returns the sequence typed so far in leader mode.
func (h *KeyHandler) CurrentSeq() string {
	return strings.Join(h.Buffer, " ")
}

func (h *KeyHandler) reset() {
	h.LeaderWaiting = false
	h.Buffer = nil
}
