package retro

import "strconv"

// APIVersion is the libretro ABI version this host implements.
const APIVersion = 1

// Command is an environment command code passed to the environment callback.
type Command uint32

// Experimental marks commands that may change between ABI revisions.
const Experimental Command = 0x10000

// Environment commands understood by the host. Values match libretro.h.
const (
	EnvSetRotation                 Command = 1
	EnvGetOverscan                 Command = 2
	EnvGetCanDupe                  Command = 3
	EnvSetMessage                  Command = 6
	EnvShutdown                    Command = 7
	EnvSetPerformanceLevel         Command = 8
	EnvGetSystemDirectory          Command = 9
	EnvSetPixelFormat              Command = 10
	EnvSetInputDescriptors         Command = 11
	EnvSetHWRender                 Command = 14
	EnvGetVariable                 Command = 15
	EnvSetVariables                Command = 16
	EnvGetVariableUpdate           Command = 17
	EnvSetSupportNoGame            Command = 18
	EnvGetLibretroPath             Command = 19
	EnvGetInputDeviceCapabilities  Command = 24
	EnvGetLogInterface             Command = 27
	EnvGetCoreAssetsDirectory      Command = 30
	EnvGetSaveDirectory            Command = 31
	EnvSetSystemAVInfo             Command = 32
	EnvSetControllerInfo           Command = 35
	EnvSetGeometry                 Command = 37
	EnvGetUsername                 Command = 38
	EnvGetLanguage                 Command = 39
	EnvSetSerializationQuirks      Command = 44
	EnvGetInputBitmasks            Command = 51 | Experimental
	EnvGetCoreOptionsVersion       Command = 52
	EnvSetCoreOptionsDisplay       Command = 55
	EnvGetPreferredHWRender        Command = 56
	EnvGetAudioVideoEnable         Command = 47 | Experimental
	EnvGetFastForwarding           Command = 49 | Experimental
	EnvSetMinimumAudioLatency      Command = 63
	EnvSetContentInfoOverride      Command = 65
	EnvGetMessageInterfaceVersion  Command = 59
	EnvSetFastForwardingOverride   Command = 64 | Experimental
	EnvGetVFSInterface             Command = 45 | Experimental
	EnvGetLEDInterface             Command = 46 | Experimental
	EnvGetMIDIInterface            Command = 48 | Experimental
	EnvGetTargetRefreshRate        Command = 50 | Experimental
	EnvGetDiskControlInterfaceVer  Command = 57
	EnvSetSubsystemInfo            Command = 34
	EnvGetRumbleInterface          Command = 23
	EnvSetKeyboardCallback         Command = 12
	EnvSetDiskControlInterface     Command = 13
	EnvSetFrameTimeCallback        Command = 21
	EnvSetAudioCallback            Command = 22
	EnvGetPerfInterface            Command = 28
	EnvSetProcAddressCallback      Command = 33
	EnvSetMemoryMaps               Command = 36 | Experimental
	EnvSetSupportAchievements      Command = 42 | Experimental
	EnvSetHWRenderContextNegotiate Command = 43 | Experimental
	EnvSetHWSharedContext          Command = 44 | Experimental
)

var commandNames = map[Command]string{
	EnvSetRotation:                 "SET_ROTATION",
	EnvGetOverscan:                 "GET_OVERSCAN",
	EnvGetCanDupe:                  "GET_CAN_DUPE",
	EnvSetMessage:                  "SET_MESSAGE",
	EnvShutdown:                    "SHUTDOWN",
	EnvSetPerformanceLevel:         "SET_PERFORMANCE_LEVEL",
	EnvGetSystemDirectory:          "GET_SYSTEM_DIRECTORY",
	EnvSetPixelFormat:              "SET_PIXEL_FORMAT",
	EnvSetInputDescriptors:         "SET_INPUT_DESCRIPTORS",
	EnvSetHWRender:                 "SET_HW_RENDER",
	EnvGetVariable:                 "GET_VARIABLE",
	EnvSetVariables:                "SET_VARIABLES",
	EnvGetVariableUpdate:           "GET_VARIABLE_UPDATE",
	EnvSetSupportNoGame:            "SET_SUPPORT_NO_GAME",
	EnvGetLibretroPath:             "GET_LIBRETRO_PATH",
	EnvGetInputDeviceCapabilities:  "GET_INPUT_DEVICE_CAPABILITIES",
	EnvGetLogInterface:             "GET_LOG_INTERFACE",
	EnvGetCoreAssetsDirectory:      "GET_CORE_ASSETS_DIRECTORY",
	EnvGetSaveDirectory:            "GET_SAVE_DIRECTORY",
	EnvSetSystemAVInfo:             "SET_SYSTEM_AV_INFO",
	EnvSetControllerInfo:           "SET_CONTROLLER_INFO",
	EnvSetGeometry:                 "SET_GEOMETRY",
	EnvGetUsername:                 "GET_USERNAME",
	EnvGetLanguage:                 "GET_LANGUAGE",
	EnvSetSerializationQuirks:      "SET_SERIALIZATION_QUIRKS",
	EnvGetInputBitmasks:            "GET_INPUT_BITMASKS",
	EnvGetCoreOptionsVersion:       "GET_CORE_OPTIONS_VERSION",
	EnvSetCoreOptionsDisplay:       "SET_CORE_OPTIONS_DISPLAY",
	EnvGetPreferredHWRender:        "GET_PREFERRED_HW_RENDER",
	EnvGetAudioVideoEnable:         "GET_AUDIO_VIDEO_ENABLE",
	EnvGetFastForwarding:           "GET_FASTFORWARDING",
	EnvSetMinimumAudioLatency:      "SET_MINIMUM_AUDIO_LATENCY",
	EnvSetContentInfoOverride:      "SET_CONTENT_INFO_OVERRIDE",
	EnvGetMessageInterfaceVersion:  "GET_MESSAGE_INTERFACE_VERSION",
	EnvSetFastForwardingOverride:   "SET_FASTFORWARDING_OVERRIDE",
	EnvGetVFSInterface:             "GET_VFS_INTERFACE",
	EnvGetLEDInterface:             "GET_LED_INTERFACE",
	EnvGetMIDIInterface:            "GET_MIDI_INTERFACE",
	EnvGetTargetRefreshRate:        "GET_TARGET_REFRESH_RATE",
	EnvGetDiskControlInterfaceVer:  "GET_DISK_CONTROL_INTERFACE_VERSION",
	EnvSetSubsystemInfo:            "SET_SUBSYSTEM_INFO",
	EnvGetRumbleInterface:          "GET_RUMBLE_INTERFACE",
	EnvSetKeyboardCallback:         "SET_KEYBOARD_CALLBACK",
	EnvSetDiskControlInterface:     "SET_DISK_CONTROL_INTERFACE",
	EnvSetFrameTimeCallback:        "SET_FRAME_TIME_CALLBACK",
	EnvSetAudioCallback:            "SET_AUDIO_CALLBACK",
	EnvGetPerfInterface:            "GET_PERF_INTERFACE",
	EnvSetProcAddressCallback:      "SET_PROC_ADDRESS_CALLBACK",
	EnvSetMemoryMaps:               "SET_MEMORY_MAPS",
	EnvSetSupportAchievements:      "SET_SUPPORT_ACHIEVEMENTS",
	EnvSetHWRenderContextNegotiate: "SET_HW_RENDER_CONTEXT_NEGOTIATION_INTERFACE",
	EnvSetHWSharedContext:          "SET_HW_SHARED_CONTEXT",
}

// String returns the libretro name of the command, or its number.
func (c Command) String() string {
	if name, ok := commandNames[c]; ok {
		return name
	}
	if c&Experimental != 0 {
		return "EXPERIMENTAL_" + strconv.FormatUint(uint64(c&^Experimental), 10)
	}
	return "ENV_" + strconv.FormatUint(uint64(c), 10)
}

// PixelFormat is the libretro pixel format code.
type PixelFormat uint32

const (
	Pixel0RGB1555 PixelFormat = 0
	PixelXRGB8888 PixelFormat = 1
	PixelRGB565   PixelFormat = 2
)

// BytesPerPixel is the size of one pixel in this format.
func (f PixelFormat) BytesPerPixel() int {
	if f == PixelXRGB8888 {
		return 4
	}
	return 2
}

func (f PixelFormat) String() string {
	switch f {
	case Pixel0RGB1555:
		return "0RGB1555"
	case PixelXRGB8888:
		return "XRGB8888"
	case PixelRGB565:
		return "RGB565"
	default:
		return "unknown(" + strconv.FormatUint(uint64(f), 10) + ")"
	}
}

// Device is an input device class.
type Device uint32

const (
	DeviceNone     Device = 0
	DeviceJoypad   Device = 1
	DeviceMouse    Device = 2
	DeviceKeyboard Device = 3
	DeviceLightgun Device = 4
	DeviceAnalog   Device = 5
	DevicePointer  Device = 6
)

// Joypad button ids.
const (
	JoypadB      = 0
	JoypadY      = 1
	JoypadSelect = 2
	JoypadStart  = 3
	JoypadUp     = 4
	JoypadDown   = 5
	JoypadLeft   = 6
	JoypadRight  = 7
	JoypadA      = 8
	JoypadX      = 9
	JoypadL      = 10
	JoypadR      = 11
	JoypadL2     = 12
	JoypadR2     = 13
	JoypadL3     = 14
	JoypadR3     = 15

	// JoypadMask requests the whole button bitmask in a single call.
	JoypadMask = 256
)

// Analog indexes and axis ids.
const (
	AnalogLeft  = 0
	AnalogRight = 1
	AnalogX     = 0
	AnalogY     = 1
)

// Pointer ids.
const (
	PointerX       = 0
	PointerY       = 1
	PointerPressed = 2
)

// Mouse ids.
const (
	MouseX     = 0
	MouseY     = 1
	MouseLeft  = 2
	MouseRight = 3
)

// HWContextType selects the GPU API a core wants to render with.
type HWContextType uint32

const (
	HWContextNone            HWContextType = 0
	HWContextOpenGL          HWContextType = 1
	HWContextOpenGLES2       HWContextType = 2
	HWContextOpenGLCore      HWContextType = 3
	HWContextOpenGLES3       HWContextType = 4
	HWContextOpenGLESVersion HWContextType = 5
	HWContextVulkan          HWContextType = 6
)

func (t HWContextType) String() string {
	switch t {
	case HWContextNone:
		return "none"
	case HWContextOpenGL:
		return "opengl"
	case HWContextOpenGLES2:
		return "gles2"
	case HWContextOpenGLCore:
		return "opengl-core"
	case HWContextOpenGLES3:
		return "gles3"
	case HWContextOpenGLESVersion:
		return "gles-version"
	case HWContextVulkan:
		return "vulkan"
	default:
		return "unknown(" + strconv.FormatUint(uint64(t), 10) + ")"
	}
}

// Serialization quirk bits.
const (
	QuirkIncomplete        uint64 = 1 << 0
	QuirkMustInitialize    uint64 = 1 << 1
	QuirkCoreVariableSize  uint64 = 1 << 2
	QuirkFrontVariableSize uint64 = 1 << 3
	QuirkSingleSession     uint64 = 1 << 4
	QuirkEndianDependent   uint64 = 1 << 5
	QuirkPlatformDependent uint64 = 1 << 6
)

// LogLevel is the severity passed to the core log callback.
type LogLevel int

const (
	LogDebug LogLevel = 0
	LogInfo  LogLevel = 1
	LogWarn  LogLevel = 2
	LogError LogLevel = 3
)

func (l LogLevel) String() string {
	switch l {
	case LogDebug:
		return "debug"
	case LogInfo:
		return "info"
	case LogWarn:
		return "warn"
	case LogError:
		return "error"
	default:
		return "log"
	}
}

// Language ids.
type Language uint32

const LanguageEnglish Language = 0

// Memory region ids for get_memory_data/get_memory_size.
const (
	MemorySaveRAM   = 0
	MemoryRTC       = 1
	MemorySystemRAM = 2
	MemoryVideoRAM  = 3
)
