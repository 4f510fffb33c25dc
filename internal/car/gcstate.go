package car

// InputDeviceMode selects how joystick axes map to the (x, y)
// control variables consumed by the animator.
type InputDeviceMode int

const (
	ISO InputDeviceMode = iota
	VH
	ModHPat
	HPat
)

// Flags are the general control and trim flags carried across cycles.
// Most are toggled by button combinations handled upstream of Animate;
// stop_lamp and reversing_lamp are written by Animate itself.
type Flags struct {
	UseAltCtrlMethod bool
	ReverseTurns     bool
	LimitTurnRate    bool
	EnableJoyBrake   bool
	SoftenSpeed      bool
	SoftenTurns      bool
	SoftenThrottle   bool
	MotorsAreMagic   bool
	Trimming         bool
	ZeroingTrim      bool
	StopLamp         bool
	ReversingLamp    bool
	EnableMotors     bool
}

// GeneralCtrlState is the small bundle of mode, flags and trim state
// that sits above the Car aggregate and is mutated by AnimateGCSAndCar
// and IntegrateGCSAndCar.
type GeneralCtrlState struct {
	IDM     InputDeviceMode
	Flags   Flags
	MaxTrim float64
	Trim    float64
	TrimVel float64

	// PWMScaler is carried over from the original firmware's header but
	// has no consumer in the core pipeline; exposed for a downstream PWM
	// output stage to read, per spec.
	PWMScaler float64
}

// NewGeneralCtrlState builds a GeneralCtrlState with ISO input mode,
// all flags clear except EnableMotors, SoftenSpeed, SoftenTurns and
// SoftenThrottle, and a default trim range.
func NewGeneralCtrlState() *GeneralCtrlState {
	return &GeneralCtrlState{
		IDM:     ISO,
		Flags:   Flags{EnableMotors: true, SoftenSpeed: true, SoftenTurns: true, SoftenThrottle: true},
		MaxTrim: 0.2,
	}
}
