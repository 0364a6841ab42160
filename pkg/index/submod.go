package index

import (
	"path"
	"strings"
)

// DisabledDir is the reserved directory segment marking a submod as
// disabled. Northstar ignores anything under it, so moving a submod's
// directory in and out of it is what actually toggles the mod.
const DisabledDir = ".disabled"

// SubMod is one installed leaf unit of a package.
//
// Disabled is authoritative; the physical location is always derived from
// it via EffectivePath. Path never contains the sentinel segment.
type SubMod struct {
	Name     string `json:"name"`
	Path     string `json:"path"`
	Disabled bool   `json:"disabled,omitempty"`
}

// EffectivePath returns the submod's directory relative to the install
// root, including the sentinel segment when disabled.
func (s *SubMod) EffectivePath() string {
	if s.Disabled {
		return path.Join(DisabledDir, s.Path)
	}
	return s.Path
}

// normalize repairs records whose Path still embeds the sentinel segment
// (hand-edited files, or state written by older tools that encoded the
// disabled state positionally).
func (s *SubMod) normalize() {
	if rest, ok := strings.CutPrefix(s.Path, DisabledDir+"/"); ok {
		s.Path = rest
		s.Disabled = true
	}
}
