package eos

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGammaLaw(t *testing.T) {
	e := NewGammaLaw(4. / 3.)
	assert.InDelta(t, 1./3., e.Pressure(1, 1), 1.e-14)
	assert.InDelta(t, 1+1+1./3., e.Enthalpy(1, 1), 1.e-14)

	// sound speed squared = Gamma p / w, capped sane at vanishing enthalpy
	w := e.Enthalpy(1, 1)
	assert.InDelta(t, (4./3.)*(1./3.)/w, e.SoundSpeedSq(1, 1), 1.e-14)
	assert.Equal(t, 0.0, e.SoundSpeedSq(0, 0))
}
