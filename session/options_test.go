package session

import (
	"slices"
	"testing"

	"github.com/user-none/retrohost/retro"
)

func TestParseVariable(t *testing.T) {
	tests := []struct {
		in      string
		ok      bool
		label   string
		choices []string
	}{
		{"Region; auto|ntsc|pal", true, "Region", []string{"auto", "ntsc", "pal"}},
		{"Speed;1x|2x", true, "Speed", []string{"1x", "2x"}},
		{"No separator", false, "", nil},
		{"Empty; ", false, "", nil},
	}
	for _, tc := range tests {
		opt, ok := parseVariable(retro.Variable{Key: "k", Value: tc.in})
		if ok != tc.ok {
			t.Errorf("parseVariable(%q) ok = %v, want %v", tc.in, ok, tc.ok)
			continue
		}
		if !ok {
			continue
		}
		if opt.Label != tc.label || !slices.Equal(opt.Choices, tc.choices) {
			t.Errorf("parseVariable(%q) = %q %v", tc.in, opt.Label, opt.Choices)
		}
	}
}

func declareOptions(h *harness, vars ...retro.Variable) bool {
	return h.s.Environment(&retro.SetVariablesRequest{Variables: vars})
}

func getOption(h *harness, key string) (string, bool) {
	req := &retro.GetVariableRequest{Key: key}
	h.s.Environment(req)
	return req.Value, req.Found
}

func TestOptionPrecedence(t *testing.T) {
	store := &memoryStore{values: map[string]map[string]string{
		"fake_libretro": {
			"fake_region":          "pal",
			"fake_stale":           "gone",
			"desmume_pointer_type": "mouse",
		},
	}}
	h := newHarness(t, newFakeCore(), func(c *Config) { c.Options = store })
	h.loadCore(t)

	declareOptions(h,
		retro.Variable{Key: "fake_region", Value: "Region; auto|ntsc|pal"},
		retro.Variable{Key: "fake_stale", Value: "Stale; a|b"},
		retro.Variable{Key: "fake_plain", Value: "Plain; first|second"},
		retro.Variable{Key: "desmume_pointer_type", Value: "Pointer; mouse|touch"},
		retro.Variable{Key: "desmume_num_cores", Value: "Cores; 1|2|3|4"},
	)

	tests := []struct {
		key, want string
	}{
		{"fake_region", "pal"},
		{"fake_stale", "a"},
		{"fake_plain", "first"},
		{"desmume_pointer_type", "touch"},
		{"desmume_num_cores", "2"},
	}
	for _, tc := range tests {
		if v, ok := getOption(h, tc.key); !ok || v != tc.want {
			t.Errorf("%s = %q (found %v), want %q", tc.key, v, ok, tc.want)
		}
	}

	if _, ok := getOption(h, "undeclared"); ok {
		t.Error("undeclared option should not be found")
	}
	if evs := h.eventsOf(EventOptionAdded); len(evs) != 5 || evs[0].Key != "fake_region" || evs[0].Value != "pal" {
		t.Errorf("option_added events = %+v", evs)
	}
}

func TestSetOption(t *testing.T) {
	store := &memoryStore{}
	h := newHarness(t, newFakeCore(), func(c *Config) { c.Options = store })
	h.loadCore(t)
	declareOptions(h, retro.Variable{Key: "fake_region", Value: "Region; auto|ntsc|pal"})

	upd := &retro.VariableUpdateRequest{}
	h.s.Environment(upd)
	if upd.Updated {
		t.Error("no option changed yet")
	}

	if err := h.s.SetOption("fake_region", "bogus"); err == nil {
		t.Error("invalid value accepted")
	}
	if err := h.s.SetOption("missing", "x"); err == nil {
		t.Error("unknown key accepted")
	}
	if err := h.s.SetOption("fake_region", "ntsc"); err != nil {
		t.Fatalf("SetOption: %v", err)
	}

	h.s.Environment(upd)
	if !upd.Updated {
		t.Error("update flag not set")
	}
	h.s.Environment(upd)
	if upd.Updated {
		t.Error("update flag not cleared")
	}
	if v, _ := getOption(h, "fake_region"); v != "ntsc" {
		t.Errorf("fake_region = %q, want ntsc", v)
	}
	if store.saves != 1 || store.values["fake_libretro"]["fake_region"] != "ntsc" {
		t.Errorf("store = %+v after %d saves", store.values, store.saves)
	}
}

func TestSetOptionOverrideFixed(t *testing.T) {
	h := newHarness(t, newFakeCore(), nil)
	h.loadCore(t)
	declareOptions(h, retro.Variable{Key: "desmume_pointer_type", Value: "Pointer; mouse|touch"})
	if err := h.s.SetOption("desmume_pointer_type", "mouse"); err == nil {
		t.Error("overridden option should not change")
	}
}

func TestOptionsList(t *testing.T) {
	h := newHarness(t, newFakeCore(), nil)
	h.loadCore(t)
	declareOptions(h,
		retro.Variable{Key: "b", Value: "B; 1|2"},
		retro.Variable{Key: "a", Value: "A; x|y"},
		retro.Variable{Key: "b", Value: "B again; 3|4"},
	)
	list := h.s.Options().List()
	if len(list) != 2 || list[0].Key != "b" || list[1].Key != "a" {
		t.Fatalf("List = %+v, want b then a", list)
	}
	if list[0].Value != "3" {
		t.Errorf("redeclared b = %q, want 3", list[0].Value)
	}
}
