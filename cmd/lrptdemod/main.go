/*
NAME
  main.go

DESCRIPTION
  lrptdemod is a CLI wrapper around the liblrpt DSP core and frame
  decoder: it reads an lrptiq file, demodulates it to soft QPSK symbols,
  runs them through the CCSDS frame decoder, and writes out any complete
  images found.

LICENSE
  See LICENSE.
*/

// lrptdemod demodulates an lrptiq capture file into LRPT imagery.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/coreos/go-systemd/daemon"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/dvdesolve/liblrpt/config"
	"github.com/dvdesolve/liblrpt/dsp"
	"github.com/dvdesolve/liblrpt/frame"
	"github.com/dvdesolve/liblrpt/internal/logging"
	"github.com/dvdesolve/liblrpt/ioformat"
)

// Logging related constants, sized the way the teacher's own CLI tools
// configure lumberjack.
const (
	logMaxSizeMB  = 100
	logMaxBackups = 10
	logMaxAgeDays = 28
)

func main() {
	inPath := flag.String("in", "", "path to the input lrptiq file")
	outPath := flag.String("out", "", "directory to write decoded images into")
	cfgPath := flag.String("config", "", "path to a YAML demodulator config file; defaults used if empty")
	scopePath := flag.String("scope", "", "optional path to write a constellation scatter PNG")
	spectrumPath := flag.String("spectrum", "", "optional path to write a baseband PSD snapshot as CSV")
	logPath := flag.String("log", "", "log file path; logs to stderr if empty")
	flag.Parse()

	if *inPath == "" {
		fmt.Fprintln(os.Stderr, "lrptdemod: -in is required")
		os.Exit(2)
	}

	logger := logging.New(logging.Config{
		Path:       *logPath,
		MaxSizeMB:  logMaxSizeMB,
		MaxBackups: logMaxBackups,
		MaxAgeDays: logMaxAgeDays,
		Level:      logging.Info,
	})

	cfg := &config.Config{Logger: logger}
	if *cfgPath != "" {
		loaded, err := config.Load(*cfgPath)
		if err != nil {
			logger.Log(logging.Fatal, "failed to load config", "err", err)
			os.Exit(1)
		}
		cfg = loaded
	} else if err := cfg.Validate(); err != nil {
		logger.Log(logging.Fatal, "failed to validate default config", "err", err)
		os.Exit(1)
	}

	if err := run(*inPath, *outPath, *scopePath, *spectrumPath, cfg, logger); err != nil {
		logger.Log(logging.Fatal, "run failed", "err", err)
		os.Exit(1)
	}
}

func run(inPath, outPath, scopePath, spectrumPath string, cfg *config.Config, logger logging.Logger) error {
	f, err := os.Open(inPath)
	if err != nil {
		return err
	}
	defer f.Close()

	header, seq, err := ioformat.ReadIQFile(f)
	if err != nil {
		return err
	}
	logger.Log(logging.Info, "loaded iq file", "samples", header.Samples, "sample_rate", header.SampleRate)

	if spectrumPath != "" {
		if err := writeSpectrum(spectrumPath, seq.Slice()); err != nil {
			logger.Log(logging.Warning, "failed to write spectrum snapshot", "err", err)
		}
	}

	demod, err := dsp.NewDemodulator(cfg.DemodConfig())
	if err != nil {
		return err
	}

	out := dsp.NewQPSKSequence(0)
	demod.Process(seq, out)
	logger.Log(logging.Info, "demodulated", "symbols", out.Len(), "pll_locked", demod.PLL().Locked())

	if scopePath != "" {
		if err := writeScatter(scopePath, out); err != nil {
			logger.Log(logging.Warning, "failed to write scope plot", "err", err)
		}
	}

	bits, err := frame.Decode(out, constraintLengthFlushBits)
	if err != nil {
		return err
	}

	reassembler := frame.NewMPDUReassembler()
	router := frame.NewRouter()
	for off := 0; off+frame.VCDUSize <= len(bits); off += frame.VCDUSize {
		vcduBytes := append([]byte{}, bits[off:off+frame.VCDUSize]...)
		frame.Descramble(vcduBytes)
		if _, err := frame.RSDecode(vcduBytes[len(vcduBytes)-frame.RSN:]); err != nil {
			logger.Log(logging.Warning, "uncorrectable vcdu", "offset", off, "err", err)
			continue
		}
		v, err := frame.ParseVCDU(vcduBytes)
		if err != nil {
			logger.Log(logging.Warning, "bad vcdu header", "offset", off, "err", err)
			continue
		}
		reassembler.Feed(v)
	}
	for _, pkt := range reassembler.Packets {
		router.Route(frame.ParsePacket(pkt))
	}

	if outPath != "" {
		if err := writeImages(outPath, router); err != nil {
			return err
		}
	}

	daemon.SdNotify(false, daemon.SdNotifyReady)
	return nil
}

// constraintLengthFlushBits is the convolutional encoder's known
// all-zero tail length, trimmed before traceback.
const constraintLengthFlushBits = 6

func writeImages(dir string, router *frame.Router) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for apid := frame.APIDImagingFirst; apid <= frame.APIDImagingLast; apid++ {
		ch := router.Channel(apid)
		if ch == nil {
			continue
		}
		for i, img := range ch.Images {
			path := fmt.Sprintf("%s/apid%d_%d.jpg", dir, apid, i)
			if err := os.WriteFile(path, img, 0o644); err != nil {
				return err
			}
		}
	}
	return nil
}

// writeSpectrum writes samples' power-spectral-density snapshot to path
// as one magnitude-squared bin per CSV line.
func writeSpectrum(path string, samples []dsp.Sample) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	for i, bin := range dsp.PSD(samples) {
		if _, err := fmt.Fprintf(f, "%d,%g\n", i, bin); err != nil {
			return err
		}
	}
	return nil
}

// writeScatter renders an I/Q constellation scatter of out's soft
// symbols to path, the way a receiver's diagnostic "scope" view would.
func writeScatter(path string, out *dsp.QPSKSequence) error {
	pts := make(plotter.XYs, out.Len())
	for i, sym := range out.Slice() {
		pts[i].X = float64(sym.I)
		pts[i].Y = float64(sym.Q)
	}

	p := plot.New()
	p.Title.Text = "constellation"
	p.X.Label.Text = "I"
	p.Y.Label.Text = "Q"

	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return err
	}
	p.Add(scatter)

	return p.Save(6*vg.Inch, 6*vg.Inch, path)
}
