package InputParameters

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

var exampleDeck = `
Title: "Magnetized Linear Modes"
CFL: 0.9
Gamma: 1.333333333333333
FinalTime: 5.0
N1: 16
N2: 16
N3: 16
NBlocks: 2
X1Max: 1.
X2Max: 1.
X3Max: 1.
Recon: linear
Integrator: rk2
Spacetime: minkowski
Problem: slow
Amplitude: 1.e-4
Periodic: [true, true, true]
`

func TestParseDeck(t *testing.T) {
	ip := &InputParametersGRMHD{}
	assert.NoError(t, ip.Parse([]byte(exampleDeck)))
	assert.Equal(t, "Magnetized Linear Modes", ip.Title)
	assert.InDelta(t, 0.9, ip.CFL, 1.e-14)
	assert.Equal(t, 16, ip.N3)
	assert.Equal(t, 2, ip.NBlocks)
	assert.Equal(t, "linear", ip.Recon)
	assert.Equal(t, [3]bool{true, true, true}, ip.Periodic)
	// defaulted fields
	assert.Equal(t, 3, ip.NGhost)
}

func TestParseRejectsBadDecks(t *testing.T) {
	ip := &InputParametersGRMHD{}
	assert.Error(t, ip.Parse([]byte("N1: 0\nN2: 8\nN3: 8\nGamma: 1.4")))

	ip = &InputParametersGRMHD{}
	assert.Error(t, ip.Parse([]byte("N1: 8\nN2: 8\nN3: 10\nNBlocks: 3\nGamma: 1.4")))

	ip = &InputParametersGRMHD{}
	assert.Error(t, ip.Parse([]byte("N1: 8\nN2: 8\nN3: 8\nGamma: 1.0")))

	// the linear reconstruction stencil reaches two cells past the face, so
	// thin ghost halos must be rejected up front, not crash in the kernel
	for _, ng := range []int{1, 2} {
		ip = &InputParametersGRMHD{}
		err := ip.Parse([]byte(fmt.Sprintf("N1: 8\nN2: 8\nN3: 8\nGamma: 1.4\nNGhost: %d", ng)))
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "ghost")
	}
}

func TestParseDefaults(t *testing.T) {
	ip := &InputParametersGRMHD{}
	assert.NoError(t, ip.Parse([]byte("N1: 8\nN2: 8\nN3: 8\nGamma: 1.4")))
	assert.Equal(t, 1, ip.NBlocks)
	assert.InDelta(t, 0.9, ip.CFL, 1.e-14)
}
