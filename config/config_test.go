/*
NAME
  config_test.go

DESCRIPTION
  config_test.go tests Config.Validate's defaulting behaviour and the
  translation to dsp.DemodConfig.

LICENSE
  See LICENSE.
*/

package config

import (
	"testing"

	"github.com/dvdesolve/liblrpt/dsp"
	"github.com/dvdesolve/liblrpt/internal/logging"
)

func TestValidateDefaults(t *testing.T) {
	var c Config
	if err := c.Validate(); err != nil {
		t.Fatal(err)
	}

	if c.SampleRate != DefaultSampleRate {
		t.Errorf("SampleRate = %v, want default %v", c.SampleRate, DefaultSampleRate)
	}
	if c.Mode != "qpsk" {
		t.Errorf("Mode = %q, want default %q", c.Mode, "qpsk")
	}
	if c.ChebyType != "lowpass" {
		t.Errorf("ChebyType = %q, want default %q", c.ChebyType, "lowpass")
	}
	if c.Logger == nil {
		t.Error("Validate should install a default Logger")
	}
}

func TestValidatePreservesExplicitValues(t *testing.T) {
	c := Config{
		SampleRate: 96000,
		Mode:       "oqpsk",
		Logger:     logging.Discard{},
	}
	if err := c.Validate(); err != nil {
		t.Fatal(err)
	}
	if c.SampleRate != 96000 {
		t.Errorf("SampleRate = %v, want unchanged 96000", c.SampleRate)
	}
	if c.Mode != "oqpsk" {
		t.Errorf("Mode = %q, want unchanged %q", c.Mode, "oqpsk")
	}
}

func TestDemodConfigTranslation(t *testing.T) {
	c := Config{Mode: "oqpsk", ChebyType: "highpass", Logger: logging.Discard{}}
	if err := c.Validate(); err != nil {
		t.Fatal(err)
	}

	dc := c.DemodConfig()
	if dc.Mode != dsp.OQPSK {
		t.Errorf("DemodConfig().Mode = %v, want dsp.OQPSK", dc.Mode)
	}
	if dc.ChebyType != dsp.Highpass {
		t.Errorf("DemodConfig().ChebyType = %v, want dsp.Highpass", dc.ChebyType)
	}
}
