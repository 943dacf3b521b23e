package ui

// AppMode is the console's coarse state, used to filter key bindings.
type AppMode int

const (
	// ModeCatalog: only the category list is on the stack.
	ModeCatalog AppMode = iota
	// ModeWizard: at least one view is pushed over the list.
	ModeWizard
)

func (m AppMode) String() string {
	switch m {
	case ModeCatalog:
		return "Catalog"
	case ModeWizard:
		return "Wizard"
	default:
		return "Unknown"
	}
}

// modeForDepth maps a stack depth to a mode.
func modeForDepth(depth int) AppMode {
	if depth <= 1 {
		return ModeCatalog
	}
	return ModeWizard
}
