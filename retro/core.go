package retro

// Core is the function table of a loaded core. Members are nil when the
// library does not export the symbol; every call site checks before calling.
type Core struct {
	// RegisterCallbacks passes the host callbacks to the six retro_set_*
	// functions. It must run inside Bind since some cores issue environment
	// calls from retro_set_environment.
	RegisterCallbacks func()

	Init                    func()
	Deinit                  func()
	APIVersion              func() uint
	GetSystemInfo           func() SystemInfo
	GetSystemAVInfo         func() AVInfo
	SetControllerPortDevice func(port uint, device Device)
	Reset                   func()
	Run                     func()
	SerializeSize           func() int
	Serialize               func(buf []byte) bool
	Unserialize             func(buf []byte) bool
	LoadGame                func(game GameInfo) bool
	UnloadGame              func()
	GetMemoryData           func(id uint) []byte
	GetMemorySize           func(id uint) int
}

// Symbol names for the members of Core, in libretro naming.
const (
	SymInit                    = "retro_init"
	SymDeinit                  = "retro_deinit"
	SymAPIVersion              = "retro_api_version"
	SymGetSystemInfo           = "retro_get_system_info"
	SymGetSystemAVInfo         = "retro_get_system_av_info"
	SymSetControllerPortDevice = "retro_set_controller_port_device"
	SymReset                   = "retro_reset"
	SymRun                     = "retro_run"
	SymSerializeSize           = "retro_serialize_size"
	SymSerialize               = "retro_serialize"
	SymUnserialize             = "retro_unserialize"
	SymLoadGame                = "retro_load_game"
	SymUnloadGame              = "retro_unload_game"
	SymGetMemoryData           = "retro_get_memory_data"
	SymGetMemorySize           = "retro_get_memory_size"
)

// Missing returns the symbol names that were not resolved, split into the
// ones a core cannot work without and the ones that are optional.
func (c *Core) Missing() (required, optional []string) {
	req := []struct {
		name    string
		present bool
	}{
		{SymRun, c.Run != nil},
		{SymLoadGame, c.LoadGame != nil},
		{SymGetSystemInfo, c.GetSystemInfo != nil},
		{SymGetSystemAVInfo, c.GetSystemAVInfo != nil},
	}
	opt := []struct {
		name    string
		present bool
	}{
		{SymInit, c.Init != nil},
		{SymDeinit, c.Deinit != nil},
		{SymAPIVersion, c.APIVersion != nil},
		{SymSetControllerPortDevice, c.SetControllerPortDevice != nil},
		{SymReset, c.Reset != nil},
		{SymSerializeSize, c.SerializeSize != nil},
		{SymSerialize, c.Serialize != nil},
		{SymUnserialize, c.Unserialize != nil},
		{SymUnloadGame, c.UnloadGame != nil},
		{SymGetMemoryData, c.GetMemoryData != nil},
		{SymGetMemorySize, c.GetMemorySize != nil},
	}
	for _, s := range req {
		if !s.present {
			required = append(required, s.name)
		}
	}
	for _, s := range opt {
		if !s.present {
			optional = append(optional, s.name)
		}
	}
	return required, optional
}

// CanSerialize reports whether all three state functions are present.
func (c *Core) CanSerialize() bool {
	return c.SerializeSize != nil && c.Serialize != nil && c.Unserialize != nil
}

// Plugin is an opened core library.
type Plugin interface {
	// Path returns the file the plugin was opened from.
	Path() string
	// Bind resolves the function table. Unresolved symbols are left nil.
	Bind() (*Core, error)
	// Close releases the library. Calling it twice is a no-op.
	Close() error
}

// Opener opens core libraries.
type Opener interface {
	Open(path string) (Plugin, error)
}

// OpenerFunc adapts a function to the Opener interface.
type OpenerFunc func(path string) (Plugin, error)

func (f OpenerFunc) Open(path string) (Plugin, error) {
	return f(path)
}
