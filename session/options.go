package session

import (
	"fmt"
	"log"
	"slices"
	"strings"

	"github.com/user-none/retrohost/retro"
)

// CoreConfigOverride forces option values regardless of what is stored.
var CoreConfigOverride = map[string]string{
	"desmume_pointer_type":  "touch",
	"desmume_pointer_mouse": "enabled",
}

// CoreConfigDefaults replaces a core's own default for an option that has
// no stored value.
var CoreConfigDefaults = map[string]string{
	"desmume_num_cores":         "2",
	"ppsspp_separate_io_thread": "enabled",
	"picodrive_input1":          "6 button pad",
}

// Option is one declared core option.
type Option struct {
	Key     string
	Label   string
	Choices []string
	Value   string
}

// Options holds the declared options of the loaded core.
type Options struct {
	core    string
	store   OptionStore
	stored  map[string]string
	order   []string
	byKey   map[string]*Option
	updated bool
}

func newOptions(core string, store OptionStore) *Options {
	o := &Options{
		core:   core,
		store:  store,
		stored: map[string]string{},
		byKey:  map[string]*Option{},
	}
	if store != nil {
		stored, err := store.LoadCoreOptions(core)
		if err != nil {
			log.Printf("Warning: failed to load options for %s: %v", core, err)
		} else if stored != nil {
			o.stored = stored
		}
	}
	return o
}

// parseVariable splits "Description; a|b|c".
func parseVariable(v retro.Variable) (Option, bool) {
	label, list, ok := strings.Cut(v.Value, ";")
	if !ok {
		return Option{}, false
	}
	var choices []string
	for _, c := range strings.Split(strings.TrimSpace(list), "|") {
		if c != "" {
			choices = append(choices, c)
		}
	}
	if len(choices) == 0 {
		return Option{}, false
	}
	return Option{Key: v.Key, Label: strings.TrimSpace(label), Choices: choices}, true
}

// declare adds or replaces an option and picks its value. It reports the
// option that was declared.
func (o *Options) declare(v retro.Variable) (*Option, bool) {
	opt, ok := parseVariable(v)
	if !ok {
		log.Printf("Warning: malformed core option %s=%q", v.Key, v.Value)
		return nil, false
	}
	opt.Value = opt.Choices[0]
	if def, ok := CoreConfigDefaults[opt.Key]; ok {
		opt.Value = def
	}
	if stored, ok := o.stored[opt.Key]; ok && slices.Contains(opt.Choices, stored) {
		opt.Value = stored
	}
	if forced, ok := CoreConfigOverride[opt.Key]; ok {
		opt.Value = forced
	}
	if _, exists := o.byKey[opt.Key]; !exists {
		o.order = append(o.order, opt.Key)
	}
	o.byKey[opt.Key] = &opt
	return &opt, true
}

// Get returns the value of key.
func (o *Options) Get(key string) (string, bool) {
	if forced, ok := CoreConfigOverride[key]; ok {
		return forced, true
	}
	if opt, ok := o.byKey[key]; ok {
		return opt.Value, true
	}
	v, ok := o.stored[key]
	return v, ok
}

// Set validates value against the declared choices, marks the options
// changed and persists them.
func (o *Options) Set(key, value string) error {
	opt, ok := o.byKey[key]
	if !ok {
		return fmt.Errorf("unknown option %q", key)
	}
	if !slices.Contains(opt.Choices, value) {
		return fmt.Errorf("invalid value %q for option %s", value, key)
	}
	if _, forced := CoreConfigOverride[key]; forced {
		return fmt.Errorf("option %s is fixed by the host", key)
	}
	if opt.Value == value {
		return nil
	}
	opt.Value = value
	o.stored[key] = value
	o.updated = true
	return o.save()
}

func (o *Options) save() error {
	if o.store == nil {
		return nil
	}
	if err := o.store.SaveCoreOptions(o.core, o.stored); err != nil {
		return fmt.Errorf("failed to save options for %s: %w", o.core, err)
	}
	return nil
}

// TakeUpdated reports whether an option changed since the last call and
// clears the flag.
func (o *Options) TakeUpdated() bool {
	u := o.updated
	o.updated = false
	return u
}

// List returns the declared options in declaration order.
func (o *Options) List() []Option {
	out := make([]Option, 0, len(o.order))
	for _, k := range o.order {
		out = append(out, *o.byKey[k])
	}
	return out
}

func (s *Session) ensureOptions() *Options {
	if s.options == nil {
		s.options = newOptions(s.coreName, s.cfg.Options)
	}
	return s.options
}

func (s *Session) setVariables(r *retro.SetVariablesRequest) bool {
	o := s.ensureOptions()
	for _, v := range r.Variables {
		opt, ok := o.declare(v)
		if !ok {
			continue
		}
		s.emit(Event{Kind: EventOptionAdded, Key: opt.Key, Label: opt.Label, Choices: opt.Choices, Value: opt.Value})
	}
	return true
}

func (s *Session) getVariable(r *retro.GetVariableRequest) bool {
	v, ok := s.ensureOptions().Get(r.Key)
	r.Value, r.Found = v, ok
	return ok
}

func (s *Session) variableUpdate(r *retro.VariableUpdateRequest) bool {
	r.Updated = s.options != nil && s.options.TakeUpdated()
	return true
}

// SetOption changes a core option. The core sees the change on its next
// GET_VARIABLE_UPDATE.
func (s *Session) SetOption(key, value string) error {
	if s.options == nil {
		return s.fail(fmt.Errorf("unknown option %q", key))
	}
	if err := s.options.Set(key, value); err != nil {
		return s.fail(err)
	}
	return nil
}
