package retro

// Request is a decoded environment call. Each command maps to exactly one
// concrete type; handlers fill in the output fields of the pointer they
// receive and the native layer writes them back into core memory.
type Request interface {
	Command() Command
	request()
}

// LogInterfaceRequest asks for the host log callback.
type LogInterfaceRequest struct{}

// CanDupeRequest asks whether the host accepts NULL frames.
type CanDupeRequest struct {
	CanDupe bool
}

// MessageRequest is an on-screen message from the core.
type MessageRequest struct {
	Text   string
	Frames uint
}

// ShutdownRequest asks the frontend to stop.
type ShutdownRequest struct{}

// PerformanceLevelRequest is a hint about how demanding the core is.
type PerformanceLevelRequest struct {
	Level uint
}

// DirectoryRequest covers the string queries that answer with a path.
type DirectoryRequest struct {
	Cmd  Command
	Path string
}

// PixelFormatRequest asserts the format of software frames.
type PixelFormatRequest struct {
	Format PixelFormat
}

// HWRenderRequest asks for a GPU context the core can render into.
type HWRenderRequest struct {
	ContextType      HWContextType
	VersionMajor     uint
	VersionMinor     uint
	Depth            bool
	Stencil          bool
	BottomLeftOrigin bool
	CacheContext     bool
	Debug            bool

	// ContextReset and ContextDestroy call back into the core. Either may be
	// nil if the core left the pointer empty.
	ContextReset   func()
	ContextDestroy func()
}

// Variable is one core option declaration, "key" and "Desc; a|b|c".
type Variable struct {
	Key   string
	Value string
}

// SetVariablesRequest declares the core options.
type SetVariablesRequest struct {
	Variables []Variable
}

// GetVariableRequest asks for the current value of one core option.
type GetVariableRequest struct {
	Key   string
	Value string
	Found bool
}

// VariableUpdateRequest asks whether options changed since the last query.
type VariableUpdateRequest struct {
	Updated bool
}

// InputCapabilitiesRequest asks which device classes the host serves.
type InputCapabilitiesRequest struct {
	Mask uint64
}

// InputBitmasksRequest asks whether JoypadMask queries are supported.
type InputBitmasksRequest struct{}

// GeometryRequest changes the render geometry mid-game.
type GeometryRequest struct {
	Geometry Geometry
}

// SystemAVInfoRequest replaces the whole AV info mid-game.
type SystemAVInfoRequest struct {
	AVInfo AVInfo
}

// QuirksRequest negotiates serialization quirks. Quirks holds the core's
// request on entry and the accepted subset on return.
type QuirksRequest struct {
	Quirks uint64
}

// UsernameRequest asks for the player name.
type UsernameRequest struct {
	Name string
}

// LanguageRequest asks for the user language.
type LanguageRequest struct {
	Language Language
}

// UnknownRequest carries a command the native layer has no decoder for.
type UnknownRequest struct {
	Cmd Command
}

func (*LogInterfaceRequest) Command() Command      { return EnvGetLogInterface }
func (*CanDupeRequest) Command() Command           { return EnvGetCanDupe }
func (*MessageRequest) Command() Command           { return EnvSetMessage }
func (*ShutdownRequest) Command() Command          { return EnvShutdown }
func (*PerformanceLevelRequest) Command() Command  { return EnvSetPerformanceLevel }
func (r *DirectoryRequest) Command() Command       { return r.Cmd }
func (*PixelFormatRequest) Command() Command       { return EnvSetPixelFormat }
func (*HWRenderRequest) Command() Command          { return EnvSetHWRender }
func (*SetVariablesRequest) Command() Command      { return EnvSetVariables }
func (*GetVariableRequest) Command() Command       { return EnvGetVariable }
func (*VariableUpdateRequest) Command() Command    { return EnvGetVariableUpdate }
func (*InputCapabilitiesRequest) Command() Command { return EnvGetInputDeviceCapabilities }
func (*InputBitmasksRequest) Command() Command     { return EnvGetInputBitmasks }
func (*GeometryRequest) Command() Command          { return EnvSetGeometry }
func (*SystemAVInfoRequest) Command() Command      { return EnvSetSystemAVInfo }
func (*QuirksRequest) Command() Command            { return EnvSetSerializationQuirks }
func (*UsernameRequest) Command() Command          { return EnvGetUsername }
func (*LanguageRequest) Command() Command          { return EnvGetLanguage }
func (r *UnknownRequest) Command() Command         { return r.Cmd }

func (*LogInterfaceRequest) request()      {}
func (*CanDupeRequest) request()           {}
func (*MessageRequest) request()           {}
func (*ShutdownRequest) request()          {}
func (*PerformanceLevelRequest) request()  {}
func (*DirectoryRequest) request()         {}
func (*PixelFormatRequest) request()       {}
func (*HWRenderRequest) request()          {}
func (*SetVariablesRequest) request()      {}
func (*GetVariableRequest) request()       {}
func (*VariableUpdateRequest) request()    {}
func (*InputCapabilitiesRequest) request() {}
func (*InputBitmasksRequest) request()     {}
func (*GeometryRequest) request()          {}
func (*SystemAVInfoRequest) request()      {}
func (*QuirksRequest) request()            {}
func (*UsernameRequest) request()          {}
func (*LanguageRequest) request()          {}
func (*UnknownRequest) request()           {}
