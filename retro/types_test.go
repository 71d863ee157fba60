package retro

import (
	"reflect"
	"testing"
)

func TestSystemInfoExtensions(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", nil},
		{"single", "nes", []string{".nes"}},
		{"multiple", "sfc|smc|SWC", []string{".sfc", ".smc", ".swc"}},
		{"stray separators", "gb||gbc|", []string{".gb", ".gbc"}},
		{"dotted", ".md|.bin", []string{".md", ".bin"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := SystemInfo{ValidExtensions: tc.in}.Extensions()
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("Extensions(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestGeometryAspect(t *testing.T) {
	tests := []struct {
		name string
		g    Geometry
		want float64
	}{
		{"explicit", Geometry{BaseWidth: 256, BaseHeight: 224, AspectRatio: 4.0 / 3.0}, 4.0 / 3.0},
		{"derived", Geometry{BaseWidth: 320, BaseHeight: 240}, 320.0 / 240.0},
		{"zero height", Geometry{BaseWidth: 320}, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.g.Aspect(); got != tc.want {
				t.Errorf("Aspect() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestCoreMissing(t *testing.T) {
	c := &Core{
		Run:           func() {},
		GetSystemInfo: func() SystemInfo { return SystemInfo{} },
		Serialize:     func([]byte) bool { return true },
	}
	required, optional := c.Missing()

	wantRequired := []string{SymLoadGame, SymGetSystemAVInfo}
	if !reflect.DeepEqual(required, wantRequired) {
		t.Errorf("required = %v, want %v", required, wantRequired)
	}
	for _, name := range optional {
		if name == SymSerialize {
			t.Errorf("%s is present and should not be reported", SymSerialize)
		}
	}
	if c.CanSerialize() {
		t.Error("CanSerialize should be false without size and unserialize")
	}
}

func TestFrameDupe(t *testing.T) {
	if !(Frame{}).Dupe() {
		t.Error("nil data should be a dupe")
	}
	if (Frame{HW: true}).Dupe() {
		t.Error("HW frame is not a dupe")
	}
	if (Frame{Data: []byte{0}}).Dupe() {
		t.Error("frame with data is not a dupe")
	}
}

func TestFrameLen(t *testing.T) {
	tests := []struct {
		name                 string
		width, height, pitch int
		format               PixelFormat
		want                 int
	}{
		{"xrgb padded rows", 320, 240, 2048, PixelXRGB8888, 2048*239 + 320*4},
		{"rgb565 padded rows", 256, 224, 1024, PixelRGB565, 1024*223 + 256*2},
		{"tight pitch", 4, 2, 16, PixelXRGB8888, 32},
		{"single row", 10, 1, 4096, PixelRGB565, 20},
		{"1555 default", 8, 2, 64, Pixel0RGB1555, 64 + 16},
		{"empty", 0, 240, 2048, PixelXRGB8888, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := FrameLen(tc.width, tc.height, tc.pitch, tc.format); got != tc.want {
				t.Errorf("FrameLen = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestCommandString(t *testing.T) {
	if got := EnvSetHWRender.String(); got != "SET_HW_RENDER" {
		t.Errorf("got %q", got)
	}
	if got := Command(9999).String(); got != "ENV_9999" {
		t.Errorf("got %q", got)
	}
	if got := (Experimental | 200).String(); got != "EXPERIMENTAL_200" {
		t.Errorf("got %q", got)
	}
}
