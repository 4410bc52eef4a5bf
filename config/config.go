/*
NAME
  config.go

DESCRIPTION
  config.go contains the configuration settings for the liblrpt
  demodulator and CLI, and a defaulting/validation pass in the same shape
  as the teacher's own revid/config.Config.Validate.

LICENSE
  See LICENSE.
*/

// Package config contains the configuration settings for the liblrpt
// demodulator.
package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dvdesolve/liblrpt/dsp"
	"github.com/dvdesolve/liblrpt/internal/logging"
)

// Default values applied by Validate when a field is left at its zero
// value.
const (
	DefaultSampleRate   = 288000.0
	DefaultSymbolRate   = 72000.0
	DefaultInterpFactor = 4
	DefaultChebyBW      = 100000.0
	DefaultChebyRipple  = 0.5
	DefaultChebyPoles   = 6
	DefaultRRCOrder     = 32
	DefaultRRCOSF       = 2
	DefaultRRCRolloff   = 0.6
	DefaultPLLBandwidth = 0.045
	DefaultLockedThresh = 0.5
	DefaultUnlockedThresh = 0.515
)

// Config is the full set of tunables for a liblrpt receiver: the dsp
// demodulator's parameters plus logging.
type Config struct {
	SampleRate   float64       `yaml:"sample_rate"`
	SymbolRate   float64       `yaml:"symbol_rate"`
	InterpFactor int           `yaml:"interp_factor"`
	Mode         string        `yaml:"mode"` // "qpsk" or "oqpsk"

	ChebyBandwidth float64          `yaml:"cheby_bandwidth"`
	ChebyRipple    float64          `yaml:"cheby_ripple"`
	ChebyPoles     int              `yaml:"cheby_poles"`
	ChebyType      string           `yaml:"cheby_type"` // "lowpass", "highpass", "bandpass"

	RRCOrder   int     `yaml:"rrc_order"`
	RRCOSF     int     `yaml:"rrc_osf"`
	RRCRolloff float64 `yaml:"rrc_rolloff"`

	PLLBandwidth         float64 `yaml:"pll_bandwidth"`
	PLLLockedThreshold   float64 `yaml:"pll_locked_threshold"`
	PLLUnlockedThreshold float64 `yaml:"pll_unlocked_threshold"`

	// LogPath, if set, rotates logs through lumberjack at this path;
	// otherwise logs go to stderr.
	LogPath  string `yaml:"log_path"`
	LogLevel int8   `yaml:"-"`

	// Logger holds the Logger implementation used for defaulting
	// diagnostics and demodulator operation. If nil, Validate installs a
	// logging.ZapLogger writing to LogPath, or to stderr when LogPath is empty.
	Logger logging.Logger `yaml:"-"`
}

// Validate fills in zero-valued fields with defaults (logging each one,
// the way the teacher's config.LogInvalidField does). It performs no
// further checks and always returns nil; values that DemodConfig
// construction rejects are not caught here.
func (c *Config) Validate() error {
	if c.Logger == nil {
		c.Logger = logging.New(logging.Config{Path: c.LogPath, Level: c.LogLevel})
	}

	defaultFloat(c.Logger, "SampleRate", &c.SampleRate, DefaultSampleRate)
	defaultFloat(c.Logger, "SymbolRate", &c.SymbolRate, DefaultSymbolRate)
	defaultInt(c.Logger, "InterpFactor", &c.InterpFactor, DefaultInterpFactor)
	defaultFloat(c.Logger, "ChebyBandwidth", &c.ChebyBandwidth, DefaultChebyBW)
	defaultFloat(c.Logger, "ChebyRipple", &c.ChebyRipple, DefaultChebyRipple)
	defaultInt(c.Logger, "ChebyPoles", &c.ChebyPoles, DefaultChebyPoles)
	defaultInt(c.Logger, "RRCOrder", &c.RRCOrder, DefaultRRCOrder)
	defaultInt(c.Logger, "RRCOSF", &c.RRCOSF, DefaultRRCOSF)
	defaultFloat(c.Logger, "RRCRolloff", &c.RRCRolloff, DefaultRRCRolloff)
	defaultFloat(c.Logger, "PLLBandwidth", &c.PLLBandwidth, DefaultPLLBandwidth)
	defaultFloat(c.Logger, "PLLLockedThreshold", &c.PLLLockedThreshold, DefaultLockedThresh)
	defaultFloat(c.Logger, "PLLUnlockedThreshold", &c.PLLUnlockedThreshold, DefaultUnlockedThresh)

	if c.Mode == "" {
		c.Logger.Log(logging.Info, "Mode bad or unset, defaulting", "Mode", "qpsk")
		c.Mode = "qpsk"
	}
	if c.ChebyType == "" {
		c.Logger.Log(logging.Info, "ChebyType bad or unset, defaulting", "ChebyType", "lowpass")
		c.ChebyType = "lowpass"
	}

	return nil
}

func defaultFloat(l logging.Logger, name string, field *float64, def float64) {
	if *field == 0 {
		l.Log(logging.Info, name+" bad or unset, defaulting", name, def)
		*field = def
	}
}

func defaultInt(l logging.Logger, name string, field *int, def int) {
	if *field == 0 {
		l.Log(logging.Info, name+" bad or unset, defaulting", name, def)
		*field = def
	}
}

// DemodConfig translates the validated Config into a dsp.DemodConfig.
func (c *Config) DemodConfig() dsp.DemodConfig {
	mode := dsp.QPSK
	if c.Mode == "oqpsk" {
		mode = dsp.OQPSK
	}

	var kind dsp.ChebyshevType
	switch c.ChebyType {
	case "highpass":
		kind = dsp.Highpass
	case "bandpass":
		kind = dsp.Bandpass
	default:
		kind = dsp.Lowpass
	}

	return dsp.DemodConfig{
		SampleRate:           c.SampleRate,
		SymbolRate:           c.SymbolRate,
		InterpFactor:         c.InterpFactor,
		Mode:                 mode,
		ChebyBandwidth:       c.ChebyBandwidth,
		ChebyRipple:          c.ChebyRipple,
		ChebyPoles:           c.ChebyPoles,
		ChebyType:            kind,
		RRCOrder:             c.RRCOrder,
		RRCOSF:               c.RRCOSF,
		RRCRolloff:           c.RRCRolloff,
		PLLBandwidth:         c.PLLBandwidth,
		PLLLockedThreshold:   c.PLLLockedThreshold,
		PLLUnlockedThreshold: c.PLLUnlockedThreshold,
	}
}

// Load reads and validates a YAML config file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}
