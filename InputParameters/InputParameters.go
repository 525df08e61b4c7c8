package InputParameters

import (
	"fmt"

	"github.com/ghodss/yaml"

	"github.com/notargets/idflow/eos"
)

// ConfigurationError reports an invalid run configuration. Parameters are
// never clamped or corrected, a bad value fails the run up front.
type ConfigurationError struct {
	Field string
	Msg   string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error in %s: %s", e.Field, e.Msg)
}

// Parameters obtained from the YAML input file
type InputParameters struct {
	Title              string  `yaml:"Title"`
	K                  int     `yaml:"K"` // Number of cells
	XMax               float64 `yaml:"XMax"`
	FinalTime          float64 `yaml:"FinalTime"`
	CFLMin             float64 `yaml:"CFLMin"`
	CFLUpdate          float64 `yaml:"CFLUpdate"`
	CFLMax             float64 `yaml:"CFLMax"`
	TimeSteppingScheme string  `yaml:"TimeSteppingScheme"` // ssprk_33, erk_33, erk_43
	RecoveryStrategy   string  `yaml:"RecoveryStrategy"`   // none, bang_bang_control
	EquationOfState    string  `yaml:"EquationOfState"`    // polytropic, noble_abel_stiffened
	Gamma              float64 `yaml:"Gamma"`
	CovolumeB          float64 `yaml:"CovolumeB"`
	ReferenceSIE       float64 `yaml:"ReferenceSIE"`
	ReferencePressure  float64 `yaml:"ReferencePressure"`
	ProcLimit          int     `yaml:"ProcLimit"` // Goroutine count, 0 = NumCPU
}

// NewInputParameters returns the default Sod shock tube configuration
func NewInputParameters() (ip *InputParameters) {
	ip = &InputParameters{
		Title:              "Sod Shock Tube",
		K:                  500,
		XMax:               1,
		FinalTime:          0.2,
		CFLMin:             0.45,
		CFLUpdate:          0.80,
		CFLMax:             0.90,
		TimeSteppingScheme: "ssprk_33",
		RecoveryStrategy:   "bang_bang_control",
		EquationOfState:    "polytropic",
		Gamma:              1.4,
	}
	return
}

func (ip *InputParameters) Parse(data []byte) error {
	return yaml.Unmarshal(data, ip)
}

func (ip *InputParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", ip.Title)
	fmt.Printf("[%d]\t\t\t= K\n", ip.K)
	fmt.Printf("%8.5f\t\t= XMax\n", ip.XMax)
	fmt.Printf("%8.5f\t\t= FinalTime\n", ip.FinalTime)
	fmt.Printf("%8.5f\t\t= CFLMin\n", ip.CFLMin)
	fmt.Printf("%8.5f\t\t= CFLUpdate\n", ip.CFLUpdate)
	fmt.Printf("%8.5f\t\t= CFLMax\n", ip.CFLMax)
	fmt.Printf("[%s]\t\t= Time Stepping Scheme\n", ip.TimeSteppingScheme)
	fmt.Printf("[%s]\t= Recovery Strategy\n", ip.RecoveryStrategy)
	fmt.Printf("[%s]\t\t= Equation of State\n", ip.EquationOfState)
	fmt.Printf("%8.5f\t\t= Gamma\n", ip.Gamma)
}

func (ip *InputParameters) Validate() (err error) {
	fail := func(field, format string, args ...interface{}) *ConfigurationError {
		return &ConfigurationError{Field: field, Msg: fmt.Sprintf(format, args...)}
	}
	switch {
	case ip.K < 2:
		err = fail("K", "need at least 2 cells, have %d", ip.K)
	case ip.XMax <= 0:
		err = fail("XMax", "must be positive, have %v", ip.XMax)
	case ip.FinalTime < 0:
		err = fail("FinalTime", "must not be negative, have %v", ip.FinalTime)
	case ip.CFLMin <= 0 || ip.CFLMin > ip.CFLUpdate || ip.CFLUpdate > ip.CFLMax:
		err = fail("CFLMin", "need 0 < CFLMin <= CFLUpdate <= CFLMax, have %v, %v, %v",
			ip.CFLMin, ip.CFLUpdate, ip.CFLMax)
	case ip.ProcLimit < 0:
		err = fail("ProcLimit", "must not be negative, have %d", ip.ProcLimit)
	}
	if err != nil {
		return
	}
	switch ip.TimeSteppingScheme {
	case "ssprk_33", "erk_33", "erk_43":
	default:
		err = fail("TimeSteppingScheme", "unknown scheme %q", ip.TimeSteppingScheme)
		return
	}
	switch ip.RecoveryStrategy {
	case "none", "bang_bang_control":
	default:
		err = fail("RecoveryStrategy", "unknown strategy %q", ip.RecoveryStrategy)
		return
	}
	if _, err = ip.NewEquationOfState(); err != nil {
		err = fail("EquationOfState", "%v", err)
	}
	return
}

// NewEquationOfState constructs the configured gas
func (ip *InputParameters) NewEquationOfState() (gas eos.EquationOfState, err error) {
	switch ip.EquationOfState {
	case "polytropic":
		gas, err = eos.NewPolytropicGas(ip.Gamma)
	case "noble_abel_stiffened":
		gas, err = eos.NewNobleAbelStiffenedGas(ip.Gamma, ip.CovolumeB,
			ip.ReferenceSIE, ip.ReferencePressure)
	default:
		err = fmt.Errorf("unknown equation of state %q", ip.EquationOfState)
	}
	return
}
