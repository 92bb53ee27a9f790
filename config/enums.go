package config

// Specification of chapter numbering style.
// ENUM(numeric, words, roman)
type NumberingStyle int

// Specification of which documents in reading order a cleanup pass applies to.
// ENUM(all, current, onwards)
type ProcessScope int

// Select picks documents from an ordered reading list based on scope and the
// index of the "current" document. Negative current means "unknown" - full
// list for onwards, nothing for current only.
func (s ProcessScope) Select(names []string, current int) []string {
	switch s {
	case ProcessScopeAll:
		return names
	case ProcessScopeCurrent:
		if current >= 0 && current < len(names) {
			return names[current : current+1]
		}
		return nil
	case ProcessScopeOnwards:
		if current < 0 {
			return names
		}
		if current >= len(names) {
			return nil
		}
		return names[current:]
	default:
		return nil
	}
}
