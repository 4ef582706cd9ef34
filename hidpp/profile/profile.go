package profile

import (
	"github.com/Alia5/gohidpp/hidpp/memory"
	"github.com/Alia5/gohidpp/hidpp/setting"
)

// Profile is a persistent device behavior record (spec §3): general
// settings, an ordered list of DPI/LED modes (each its own settings map),
// and an ordered list of button assignments.
type Profile struct {
	Settings map[string]setting.Setting
	Modes    []map[string]setting.Setting
	Buttons  []Button
}

// New returns an empty Profile with initialized maps.
func New() *Profile {
	return &Profile{Settings: map[string]setting.Setting{}}
}

// Format binds a fixed byte range of a device sector to a Profile: size,
// capacity limits, the settings schema, and the read/write codec
// (spec §4.7, §9 "Polymorphism of profile formats").
type Format interface {
	// Size is the profile's encoded size in bytes.
	Size() int
	// MaxButtonCount is the largest button list this format can store.
	MaxButtonCount() int
	// MaxModeCount is the largest mode list this format can store.
	MaxModeCount() int

	GeneralSettings() setting.Schema
	ModeSettings() setting.Schema
	SpecialActions() *setting.EnumDesc

	// Read decodes a Profile from buf, which must be at least Size() bytes.
	Read(buf []byte) (*Profile, error)
	// Write encodes p into buf, which must be at least Size() bytes.
	Write(p *Profile, buf []byte) error
}

// DirectoryEntry is one profile-directory record (spec §3
// "ProfileDirectory").
type DirectoryEntry struct {
	Address  memory.Address
	Settings map[string]setting.Setting
}

// Directory is the ordered list of profile locations read from a known
// fixed address (spec §3, §4.8).
type Directory struct {
	Entries []DirectoryEntry
}

// DirectoryFormat reads/writes a Directory at a format-specific record
// size and sentinel (spec §4.8).
type DirectoryFormat interface {
	Settings() setting.Schema
	Read(buf []byte) (*Directory, error)
	Write(dir *Directory, buf []byte) (int, error)
}
