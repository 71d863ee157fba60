package glx

import "github.com/user-none/retrohost/frontend"

// X11 keysyms of the key names used by the keymap. Letters are the
// unshifted (lowercase) syms returned for index 0.
var keysyms = map[string]uint64{
	"A":          0x0061,
	"P":          0x0070,
	"Q":          0x0071,
	"R":          0x0072,
	"S":          0x0073,
	"W":          0x0077,
	"X":          0x0078,
	"Z":          0x007a,
	"1":          0x0031,
	"2":          0x0032,
	"Space":      0x0020,
	"Enter":      0xff0d,
	"ArrowLeft":  0xff51,
	"ArrowUp":    0xff52,
	"ArrowRight": 0xff53,
	"ArrowDown":  0xff54,
	"F2":         0xffbf,
	"F4":         0xffc1,
	"F6":         0xffc3,
	"F7":         0xffc4,
	"F12":        0xffc9,
}

const (
	keysymShiftL = 0xffe1
	keysymShiftR = 0xffe2
)

var keyNames map[uint64]string

func init() {
	keyNames = make(map[uint64]string, len(keysyms))
	for name, sym := range keysyms {
		keyNames[sym] = name
	}
}

// BuildMapping resolves bindings to keysyms by joypad id. Reserved and
// unknown key names are skipped.
func BuildMapping(bindings []frontend.Binding) map[uint]uint64 {
	m := make(map[uint]uint64)
	for _, b := range bindings {
		if b.Key == "" || frontend.ReservedKeys[b.Key] {
			continue
		}
		if sym, ok := keysyms[b.Key]; ok {
			m[b.ID] = sym
		}
	}
	return m
}

// Buttons is the joypad bitmask for the held keysyms.
func Buttons(mapping map[uint]uint64, held map[uint64]bool) uint16 {
	var buttons uint16
	for id, sym := range mapping {
		if held[sym] {
			buttons |= 1 << id
		}
	}
	return buttons
}
