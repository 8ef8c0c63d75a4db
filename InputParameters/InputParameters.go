package InputParameters

import (
	"fmt"

	"github.com/ghodss/yaml"
)

// Parameters obtained from the YAML input deck
type InputParametersGRMHD struct {
	Title      string  `yaml:"Title"`
	CFL        float64 `yaml:"CFL"`
	Gamma      float64 `yaml:"Gamma"`
	FinalTime  float64 `yaml:"FinalTime"`
	InitialDt  float64 `yaml:"InitialDt"`
	MaxSteps   int     `yaml:"MaxSteps"`
	N1         int     `yaml:"N1"`
	N2         int     `yaml:"N2"`
	N3         int     `yaml:"N3"`
	NBlocks    int     `yaml:"NBlocks"`
	NGhost     int     `yaml:"NGhost"`
	X1Min      float64 `yaml:"X1Min"`
	X1Max      float64 `yaml:"X1Max"`
	X2Min      float64 `yaml:"X2Min"`
	X2Max      float64 `yaml:"X2Max"`
	X3Min      float64 `yaml:"X3Min"`
	X3Max      float64 `yaml:"X3Max"`
	Recon      string  `yaml:"Recon"`      // "donor" or "linear"
	Integrator string  `yaml:"Integrator"` // "rk2" or "rk3"
	Spacetime  string  `yaml:"Spacetime"`  // "minkowski" or "weakfield"
	Problem    string  `yaml:"Problem"`    // "uniform", "entropy", "slow"
	Amplitude  float64 `yaml:"Amplitude"`
	Periodic   [3]bool `yaml:"Periodic"`
	NParallel  int     `yaml:"NParallel"`
}

func (ip *InputParametersGRMHD) Parse(data []byte) error {
	if err := yaml.Unmarshal(data, ip); err != nil {
		return err
	}
	return ip.validate()
}

func (ip *InputParametersGRMHD) validate() error {
	if ip.N1 < 1 || ip.N2 < 1 || ip.N3 < 1 {
		return fmt.Errorf("mesh dimensions must be positive, got %d x %d x %d", ip.N1, ip.N2, ip.N3)
	}
	if ip.NBlocks < 1 {
		ip.NBlocks = 1
	}
	if ip.N3%ip.NBlocks != 0 {
		return fmt.Errorf("N3 = %d does not split over %d blocks", ip.N3, ip.NBlocks)
	}
	if ip.NGhost == 0 {
		ip.NGhost = 3
	}
	if ip.NGhost < 3 {
		return fmt.Errorf("reconstruction stencil needs at least 3 ghost layers, got %d", ip.NGhost)
	}
	if ip.CFL <= 0 {
		ip.CFL = 0.9
	}
	if ip.Gamma <= 1 {
		return fmt.Errorf("adiabatic index must exceed 1, got %v", ip.Gamma)
	}
	return nil
}

func (ip *InputParametersGRMHD) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", ip.Title)
	fmt.Printf("%8.5f\t\t= CFL\n", ip.CFL)
	fmt.Printf("%8.5f\t\t= Gamma\n", ip.Gamma)
	fmt.Printf("%8.5f\t\t= FinalTime\n", ip.FinalTime)
	fmt.Printf("[%d x %d x %d]\t= Mesh\n", ip.N1, ip.N2, ip.N3)
	fmt.Printf("[%d]\t\t\t= NBlocks\n", ip.NBlocks)
	fmt.Printf("[%s]\t\t\t= Recon\n", ip.Recon)
	fmt.Printf("[%s]\t\t\t= Integrator\n", ip.Integrator)
	fmt.Printf("[%s]\t= Spacetime\n", ip.Spacetime)
	fmt.Printf("[%s]\t\t= Problem\n", ip.Problem)
}
