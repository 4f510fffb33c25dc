// Command artcar is the art car's control core: a single cooperative
// task loop that reads gamepad snapshots, runs the motion-control
// pipeline and fans lamp/motor state out to physical pins and a
// telemetry UART. Its state machine (Init -> Standby -> Calibrating ->
// Driving -> Failsafe) keeps the shape of the teacher firmware's
// INITIALIZATION/WAITING/CALIBRATING/FLIGHT_MODE/FAILSAFE loop,
// renamed to the vehicle domain.
package main

import (
	"machine"
	"time"

	"tinygo.org/x/drivers/ws2812"

	"github.com/SexyGoat/ArtCar/internal/bitfiddling"
	"github.com/SexyGoat/ArtCar/internal/blinkers"
	"github.com/SexyGoat/ArtCar/internal/btactivity"
	"github.com/SexyGoat/ArtCar/internal/car"
	"github.com/SexyGoat/ArtCar/internal/config"
	"github.com/SexyGoat/ArtCar/internal/gamepad"
	"github.com/SexyGoat/ArtCar/internal/gpio"
	"github.com/SexyGoat/ArtCar/internal/inputbuf"
	"github.com/SexyGoat/ArtCar/internal/ledpat"
	"github.com/SexyGoat/ArtCar/internal/motor"
	"github.com/SexyGoat/ArtCar/internal/statusled"
	"github.com/SexyGoat/ArtCar/internal/telemetry"
)

const ledpatBatteryLevel1 = ledpat.PatternBattLevel1

func ledpatLayoutFromIDM(idm car.InputDeviceMode) ledpat.Pattern {
	switch idm {
	case car.HPat:
		return ledpat.PatternJoyHPat
	case car.ModHPat:
		return ledpat.PatternJoyModHPat
	case car.VH:
		return ledpat.PatternJoyVH
	default:
		return ledpat.PatternJoyISO
	}
}

// ledpatSpeedMode reports the fast/slow indicator from whether the
// car's current top speed has been derated below its wheel-speed
// ceiling (e.g. by a turning-envelope-driven cap).
func ledpatSpeedMode(c *car.Car) ledpat.Pattern {
	if c.MaxBodySpeed < c.MaxWheelSpeed {
		return ledpat.PatternSlow
	}
	return ledpat.PatternFast
}

// axisLearners bundles one gamepad.AxisLearner per calibratable axis,
// run together against a single incoming gamepad.State each tick.
type axisLearners struct {
	leftX, leftY, rightX, rightY gamepad.AxisLearner
	leftTrigger, rightTrigger    gamepad.AxisLearner
}

func (a *axisLearners) reset() {
	a.leftX.Reset()
	a.leftY.Reset()
	a.rightX.Reset()
	a.rightY.Reset()
	a.leftTrigger.Reset()
	a.rightTrigger.Reset()
}

func (a *axisLearners) learn(cal *gamepad.GamepadCal, inp gamepad.State, deltaMs float64) {
	joy := gamepad.JoyThresholds()
	trig := gamepad.TriggerThresholds()
	a.leftX.Learn(&cal.LeftX, joy, inp.LeftX, deltaMs)
	a.leftY.Learn(&cal.LeftY, joy, inp.LeftY, deltaMs)
	a.rightX.Learn(&cal.RightX, joy, inp.RightX, deltaMs)
	a.rightY.Learn(&cal.RightY, joy, inp.RightY, deltaMs)
	a.leftTrigger.Learn(&cal.LeftTrigger, trig, inp.LeftTrigger, deltaMs)
	a.rightTrigger.Learn(&cal.RightTrigger, trig, inp.RightTrigger, deltaMs)
}

type driveState int

const (
	stateInit driveState = iota
	stateStandby
	stateCalibrating
	stateDriving
	stateFailsafe
)

const (
	failsafeTimeoutMs = 500
	tickPeriod        = 20 * time.Millisecond // 50 Hz, matches spec.md's worked examples
)

// Logical output bit positions fanned out to gpio.Pin descriptors,
// kept in one table per the design notes' call for a single central
// mapping between bit position and meaning.
const (
	outBitLeftBlinker = iota
	outBitRightBlinker
	outBitStopLamp
	outBitReversingLamp
	outBitMotorEnable
)

// gpBuf is fed by the gamepad transport task, out of scope for this
// core (spec.md §1): some other goroutine owns the BLE/USB HID link
// and calls gpBuf.Update on every received report. The core only ever
// reads gpBuf.Snapshot.
var (
	gpBuf = inputbuf.New()

	uart = machine.DefaultUART
)

func main() {
	cfg, err := config.Load("/etc/artcar/config.yaml")
	if err != nil {
		println("config load failed, using in-memory defaults:", err.Error())
		cfg = nil
	}

	c := buildCar(cfg)
	c.InitComputedValues()
	gcs := car.NewGeneralCtrlState()
	bl := blinkers.New()

	statusPin := machine.D8
	if cfg != nil && cfg.StatusLEDPin != 0 {
		statusPin = machine.Pin(cfg.StatusLEDPin)
	}
	led := statusled.New(ws2812.New(statusPin))
	led.Display.Patterns[0] = ledpatBatteryLevel1
	led.Display.Patterns[1] = ledpatLayoutFromIDM(gcs.IDM)
	led.Display.Patterns[2] = ledpatSpeedMode(c)

	outputPins := buildOutputPins(cfg)

	calStorePath := "gamepad_cal.yaml"
	if cfg != nil {
		calStorePath = cfg.CalibrationStore
	}
	calStore, err := gamepad.LoadStore(calStorePath)
	if err != nil {
		calStore = &gamepad.Store{}
	}
	gpcal := gamepad.DefaultGamepadCal()
	if slot, ok := calStore.LoadSlot(0); ok {
		gpcal = slot.Cal
	}
	var learners axisLearners

	state := stateInit
	var lastTick time.Time

	watchdog := machine.Watchdog
	watchdog.Configure(machine.WatchdogConfig{TimeoutMillis: 500})
	watchdog.Start()

	for {
		now := time.Now()
		if lastTick.IsZero() {
			lastTick = now
		}
		deltaTime := now.Sub(lastTick).Seconds()
		lastTick = now

		_, lastPacketTime, havePacket := gpBuf.Snapshot()
		if state == stateDriving && havePacket &&
			now.Sub(lastPacketTime).Milliseconds() > failsafeTimeoutMs {
			state = stateFailsafe
		}

		switch state {
		case stateInit:
			uart.Configure(machine.UARTConfig{BaudRate: 115200})
			configureOutputPins(outputPins)
			gpio.WriteMask(0, outputPins)
			led.BT.State = btactivity.Searching
			state = stateStandby

		case stateStandby:
			gpio.WriteMask(0, outputPins)
			inp, _, ok := gpBuf.Snapshot()
			if ok && inp.Buttons.Start {
				led.BT.State = btactivity.Connected
				state = stateDriving
			}
			if ok && inp.Buttons.Select && inp.Buttons.PS {
				learners.reset()
				state = stateCalibrating
			}

		case stateCalibrating:
			// Live axis learning runs against whatever snapshot arrives.
			// Exiting back to Standby is an external (button-combination)
			// decision outside the core's scope; here, Select released
			// ends the session and persists what was learned.
			inp, _, ok := gpBuf.Snapshot()
			if ok {
				learners.learn(&gpcal, inp, deltaTime*1000)
			}
			if ok && !inp.Buttons.Select {
				calStore.SaveSlot(0, gamepad.CalSlot{Cal: gpcal})
				if err := calStore.Save(calStorePath); err != nil {
					println("calibration save failed:", err.Error())
				}
				state = stateStandby
			}

		case stateDriving:
			inp, _, ok := gpBuf.Snapshot()
			if !ok {
				break
			}
			car.AnimateGCSAndCar(gcs, inp, gpcal, c)
			bl.Input = blinkerInputFromButtons(inp)
			bl.Animate()

			car.IntegrateGCSAndCar(gcs, c, deltaTime)
			bl.Integrate(uint16(deltaTime * 1000))

			frame := telemetry.EncodeFromBlinkers(
				inp.Buttons,
				gcs.Flags.ReversingLamp,
				gcs.Flags.StopLamp,
				bl,
				c.LWCtrl.TargetSpeed,
				c.RWCtrl.TargetSpeed,
				c.MaxWheelSpeed,
			)
			writeTelemetryFrame(frame)

			mask := outputMaskFromState(gcs, bl)
			gpio.WriteMask(mask, outputPins)

		case stateFailsafe:
			gpio.WriteMask(0, outputPins)
			inp, _, ok := gpBuf.Snapshot()
			if ok && inp.LeftY == 127 && inp.RightY == 127 {
				state = stateStandby
			}
		}

		led.Display.Patterns[2] = ledpatSpeedMode(c)
		led.Animate()
		if err := led.Integrate(int(deltaTime * 1000)); err != nil {
			println("status LED write failed:", err.Error())
		}

		watchdog.Update()
		time.Sleep(tickPeriod)
	}
}

func buildCar(cfg *config.Config) *car.Car {
	if cfg == nil {
		d := motor.DefaultAccLimits()
		return car.New(d, d, d)
	}
	c := car.New(cfg.WheelMAL.ToAccLimits(), cfg.CruiseMAL.ToAccLimits(), cfg.BrakingMAL.ToAccLimits())
	c.AxleWidth = cfg.Geometry.AxleWidthM
	c.MaxWheelSpeed = cfg.Geometry.MaxWheelSpeedMS
	c.MaxBodySpeed = cfg.Geometry.MaxBodySpeedMS
	c.JogFactor = cfg.Geometry.JogFactor
	c.TurnJogFactor = cfg.Geometry.TurnJogFactor
	c.TurnCaps.MaxLatAccel = cfg.Turning.MaxLatAccelMS2
	c.TurnCaps.MaxTurnRate = cfg.Turning.MaxTurnRateDegS * 3.141592653589793 / 180.0
	c.TurnCaps.ReversingOmegaSlope = cfg.Turning.ReversingOmegaSlope
	c.TurnCaps.ReverseTurns = cfg.Turning.ReverseTurns
	return c
}

func buildOutputPins(cfg *config.Config) []gpio.Pin {
	if cfg == nil || len(cfg.OutputPins) == 0 {
		return []gpio.Pin{
			{Physical: machine.D3, Sense: gpio.ActiveHigh, DriveMode: gpio.DrivePushPull}, // left blinker
			{Physical: machine.D4, Sense: gpio.ActiveHigh, DriveMode: gpio.DrivePushPull}, // right blinker
			{Physical: machine.D5, Sense: gpio.ActiveHigh, DriveMode: gpio.DrivePushPull}, // stop lamp
			{Physical: machine.D6, Sense: gpio.ActiveHigh, DriveMode: gpio.DrivePushPull}, // reversing lamp
			{Physical: machine.D7, Sense: gpio.ActiveLow, DriveMode: gpio.DriveOpenDrainPullup}, // motor enable relay
		}
	}
	pins := make([]gpio.Pin, len(cfg.OutputPins))
	for i, p := range cfg.OutputPins {
		pins[i] = gpio.Pin{
			Physical:  machine.Pin(p.Pin),
			Sense:     senseFromString(p.Sense),
			DriveMode: driveModeFromString(p.DriveMode),
		}
	}
	return pins
}

func senseFromString(s string) gpio.Sense {
	if s == "active_low" {
		return gpio.ActiveLow
	}
	return gpio.ActiveHigh
}

func driveModeFromString(s string) gpio.DriveMode {
	switch s {
	case "open_drain":
		return gpio.DriveOpenDrain
	case "open_drain_pullup":
		return gpio.DriveOpenDrainPullup
	case "sink_only":
		return gpio.DriveSinkOnly
	default:
		return gpio.DrivePushPull
	}
}

func configureOutputPins(pins []gpio.Pin) {
	gpio.ConfigMask(0, pins)
}

func blinkerInputFromButtons(inp gamepad.State) uint8 {
	var mask uint8
	if inp.Buttons.Left {
		mask |= blinkers.Left
	}
	if inp.Buttons.Right {
		mask |= blinkers.Right
	}
	return mask
}

func outputMaskFromState(gcs *car.GeneralCtrlState, bl *blinkers.Blinkers) uint32 {
	var mask uint32
	lit := bl.Lit()
	mask = bitfiddling.WriteBit(mask, outBitLeftBlinker, lit && bl.State&blinkers.Left != 0)
	mask = bitfiddling.WriteBit(mask, outBitRightBlinker, lit && bl.State&blinkers.Right != 0)
	mask = bitfiddling.WriteBit(mask, outBitStopLamp, gcs.Flags.StopLamp)
	mask = bitfiddling.WriteBit(mask, outBitReversingLamp, gcs.Flags.ReversingLamp)
	mask = bitfiddling.WriteBit(mask, outBitMotorEnable, gcs.Flags.EnableMotors)
	return mask
}

func writeTelemetryFrame(frame telemetry.Frame) {
	var buf [9]byte
	copy(buf[:8], frame[:])
	buf[8] = 0
	uart.Write(buf[:])
}
