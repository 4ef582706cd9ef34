package profile

import (
	"fmt"

	"github.com/Alia5/gohidpp/hidpp/hlog"
	"github.com/Alia5/gohidpp/hidpp/memory"
	"github.com/Alia5/gohidpp/hidpp/setting"
)

// V1DirectoryFormat is the v1 profile directory (spec §4.8): a list of
// 3-byte (page, offset, led-bitmask) records terminated by a page==0xFF
// sentinel. Grounded on original_source's hidpp10/ProfileDirectoryFormat.cpp.
type V1DirectoryFormat struct {
	ledCount int
	settings setting.Schema
	log      hlog.Logger
}

// NewV1DirectoryFormat builds a V1DirectoryFormat. ledCount is usually 4,
// matching the original's HIDPP10::getProfileDirectoryFormat default.
func NewV1DirectoryFormat(ledCount int, log hlog.Logger) *V1DirectoryFormat {
	f := &V1DirectoryFormat{ledCount: ledCount, settings: setting.Schema{}, log: log}
	if ledCount > 0 {
		f.settings["leds"] = setting.LEDVectorDesc(ledCount)
	}
	return f
}

func (f *V1DirectoryFormat) Settings() setting.Schema { return f.settings }

const v1DirEntrySize = 3

func (f *V1DirectoryFormat) Read(buf []byte) (*Directory, error) {
	dir := &Directory{}
	for off := 0; ; off += v1DirEntrySize {
		if off+v1DirEntrySize > len(buf) {
			return nil, fmt.Errorf("profile: v1 directory missing terminator")
		}
		rec := buf[off : off+v1DirEntrySize]
		page := rec[0]
		if page == 0xFF {
			break
		}
		entry := DirectoryEntry{
			Address:  memory.Address{MemType: memory.Writable, Page: page, Offset: uint16(rec[1])},
			Settings: map[string]setting.Setting{},
		}
		if f.ledCount > 0 {
			bits := rec[2]
			leds := make([]bool, f.ledCount)
			for i := 0; i < f.ledCount; i++ {
				leds[i] = bits&(1<<uint(i)) != 0
			}
			entry.Settings["leds"] = setting.NewLEDVector(leds)
		}
		dir.Entries = append(dir.Entries, entry)
	}
	return dir, nil
}

// Write encodes dir into buf, returning the number of bytes written
// (including the terminating sentinel byte).
func (f *V1DirectoryFormat) Write(dir *Directory, buf []byte) (int, error) {
	needed := len(dir.Entries)*v1DirEntrySize + 1
	if len(buf) < needed {
		return 0, fmt.Errorf("profile: v1 directory buffer too short (%d < %d)", len(buf), needed)
	}
	off := 0
	for _, entry := range dir.Entries {
		rec := buf[off : off+v1DirEntrySize]
		lookup := setting.NewLookup(entry.Settings, f.settings, f.log)
		rec[0] = entry.Address.Page
		rec[1] = byte(entry.Address.Offset)
		rec[2] = 0
		if f.ledCount > 0 {
			leds := lookup.GetLEDVector("leds")
			for i := 0; i < f.ledCount && i < len(leds); i++ {
				if leds[i] {
					rec[2] |= 1 << uint(i)
				}
			}
		}
		off += v1DirEntrySize
	}
	buf[off] = 0xFF
	return off + 1, nil
}

// V2DirectoryFormat is the v2 profile directory (spec §4.8): a list of
// 4-byte (mem_type, page, enabled, reserved) records terminated by a
// mem_type==0xFF sentinel. Grounded on original_source's
// hidpp20/ProfileDirectoryFormat.cpp; that original leaves Write empty
// (a no-op stub), so this module's Write is authored from Read's layout.
type V2DirectoryFormat struct {
	settings setting.Schema
	log      hlog.Logger
}

func NewV2DirectoryFormat(log hlog.Logger) *V2DirectoryFormat {
	return &V2DirectoryFormat{settings: setting.Schema{
		"enabled": setting.BoolDesc(true),
	}, log: log}
}

func (f *V2DirectoryFormat) Settings() setting.Schema { return f.settings }

const v2DirEntrySize = 4

func (f *V2DirectoryFormat) Read(buf []byte) (*Directory, error) {
	dir := &Directory{}
	for off := 0; ; off += v2DirEntrySize {
		if off+v2DirEntrySize > len(buf) {
			return nil, fmt.Errorf("profile: v2 directory missing terminator")
		}
		rec := buf[off : off+v2DirEntrySize]
		memType := rec[0]
		if memType == 0xFF {
			break
		}
		dir.Entries = append(dir.Entries, DirectoryEntry{
			Address: memory.Address{MemType: memory.MemType(memType), Page: rec[1]},
			Settings: map[string]setting.Setting{
				"enabled": setting.NewBool(rec[2] != 0),
			},
		})
	}
	return dir, nil
}

func (f *V2DirectoryFormat) Write(dir *Directory, buf []byte) (int, error) {
	needed := len(dir.Entries)*v2DirEntrySize + 1
	if len(buf) < needed {
		return 0, fmt.Errorf("profile: v2 directory buffer too short (%d < %d)", len(buf), needed)
	}
	off := 0
	for _, entry := range dir.Entries {
		rec := buf[off : off+v2DirEntrySize]
		lookup := setting.NewLookup(entry.Settings, f.settings, f.log)
		rec[0] = byte(entry.Address.MemType)
		rec[1] = entry.Address.Page
		if lookup.GetBool("enabled") {
			rec[2] = 1
		} else {
			rec[2] = 0
		}
		rec[3] = 0
		off += v2DirEntrySize
	}
	buf[off] = 0xFF
	return off + 1, nil
}
