package car

import (
	"math"
	"testing"

	"github.com/SexyGoat/ArtCar/internal/motor"
)

func TestInitComputedValuesDerivesMaxHPatOmega(t *testing.T) {
	c := New(motor.NewSymmetricAccLimits(1, 1), motor.NewSymmetricAccLimits(1, 2), motor.NewSymmetricAccLimits(2, 4))
	c.AxleWidth = 0.5
	c.MaxWheelSpeed = 2.0
	c.InitComputedValues()

	want := 2.0 * 2.0 / 0.5
	if math.Abs(c.MaxHPatOmega-want) > 1e-9 {
		t.Fatalf("max_hpat_omega = %v, want %v", c.MaxHPatOmega, want)
	}
	if c.TurnCaps.MaxTurnRate > c.MaxHPatOmega+1e-9 {
		t.Fatalf("max_turn_rate %v exceeds max_hpat_omega %v", c.TurnCaps.MaxTurnRate, c.MaxHPatOmega)
	}
}

func TestInitComputedValuesShrinksMaxBodySpeedToFitWheelBudget(t *testing.T) {
	c := New(motor.NewSymmetricAccLimits(1, 1), motor.NewSymmetricAccLimits(1, 2), motor.NewSymmetricAccLimits(2, 4))
	c.AxleWidth = 1.0
	c.MaxWheelSpeed = 1.0
	c.MaxBodySpeed = 1.0
	c.TurnCaps.MaxTurnRate = 2.0 // deliberately generous before capping
	c.InitComputedValues()

	for _, v := range []float64{0, 0.25 * c.MaxBodySpeed, 0.5 * c.MaxBodySpeed, c.MaxBodySpeed} {
		omega := c.TurnCaps.MaxTurnRateForSpeed(v)
		wheelSpeed := v + 0.5*c.AxleWidth*omega
		if wheelSpeed > c.MaxWheelSpeed+1e-6 {
			t.Fatalf("at v=%v wheel speed %v exceeds max_wheel_speed %v", v, wheelSpeed, c.MaxWheelSpeed)
		}
	}
}
