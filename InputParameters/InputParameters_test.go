package InputParameters

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	var (
		data = []byte(`
Title: Covolume Shock Tube
K: 250
XMax: 2.0
FinalTime: 0.15
CFLMin: 0.3
CFLUpdate: 0.5
CFLMax: 0.6
TimeSteppingScheme: erk_43
RecoveryStrategy: none
EquationOfState: noble_abel_stiffened
Gamma: 1.6
CovolumeB: 0.05
`)
		ip = NewInputParameters()
	)
	assert.NoError(t, ip.Parse(data))
	assert.Equal(t, "Covolume Shock Tube", ip.Title)
	assert.Equal(t, 250, ip.K)
	assert.Equal(t, 2.0, ip.XMax)
	assert.Equal(t, "erk_43", ip.TimeSteppingScheme)
	assert.Equal(t, 0.05, ip.CovolumeB)
	assert.NoError(t, ip.Validate())

	gas, err := ip.NewEquationOfState()
	assert.NoError(t, err)
	assert.Equal(t, "noble-abel stiffened gas", gas.Name())
	assert.Equal(t, 0.05, gas.Covolume())
}

func TestDefaultsValid(t *testing.T) {
	ip := NewInputParameters()
	assert.NoError(t, ip.Validate())
	gas, err := ip.NewEquationOfState()
	assert.NoError(t, err)
	assert.Equal(t, "polytropic gas", gas.Name())
}

func TestValidate(t *testing.T) {
	var (
		cases = []struct {
			field  string
			mutate func(ip *InputParameters)
		}{
			{"K", func(ip *InputParameters) { ip.K = 1 }},
			{"XMax", func(ip *InputParameters) { ip.XMax = 0 }},
			{"FinalTime", func(ip *InputParameters) { ip.FinalTime = -1 }},
			{"CFLMin", func(ip *InputParameters) { ip.CFLMin = 0.95 }},
			{"CFLMin", func(ip *InputParameters) { ip.CFLUpdate = 1.5 }},
			{"ProcLimit", func(ip *InputParameters) { ip.ProcLimit = -2 }},
			{"TimeSteppingScheme", func(ip *InputParameters) { ip.TimeSteppingScheme = "rk4" }},
			{"RecoveryStrategy", func(ip *InputParameters) { ip.RecoveryStrategy = "adaptive" }},
			{"EquationOfState", func(ip *InputParameters) { ip.EquationOfState = "van_der_waals" }},
			{"EquationOfState", func(ip *InputParameters) { ip.Gamma = 1 }},
		}
	)
	for _, tc := range cases {
		ip := NewInputParameters()
		tc.mutate(ip)
		err := ip.Validate()
		assert.Error(t, err)
		var cfgErr *ConfigurationError
		assert.True(t, errors.As(err, &cfgErr))
		assert.Equal(t, tc.field, cfgErr.Field)
	}
}
