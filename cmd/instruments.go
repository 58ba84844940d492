// SPDX-License-Identifier: MIT

package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/stat"

	"qkdhal/internal/bench"
	"qkdhal/internal/config"
	"qkdhal/internal/log"
	"qkdhal/internal/monitor"
	"qkdhal/internal/transport"
	"qkdhal/internal/transport/udp"
	"qkdhal/pkg/hal/dac"
	"qkdhal/pkg/samples"
	"qkdhal/pkg/waveform"
)

const (
	defaultFrequency = 1000.0
	defaultAmplitude = 0.5
	defaultRate      = 48000.0
	defaultDuration  = time.Second
)

// openInstrument builds and opens the single instrument name of cfg.
func openInstrument(cfg *config.Config, name string) (*bench.Bench, config.Instrument, error) {
	decl, ok := cfg.Instrument(name)
	if !ok {
		return nil, decl, fmt.Errorf("%w %q in configuration", bench.ErrUnknownInstrument, name)
	}
	b, err := bench.Build(&config.Config{Instruments: []config.Instrument{decl}})
	if err != nil {
		return nil, decl, err
	}
	if err := b.Open(); err != nil {
		return nil, decl, err
	}
	return b, decl, nil
}

func closeBench(b *bench.Bench) {
	if err := b.Close(); err != nil {
		log.Errorf("closing instruments: %v", err)
	}
}

func newAcquireCommand(opts *options) *cobra.Command {
	var (
		outDir, format string
		fullScale      float64
	)
	cmd := &cobra.Command{
		Use:   "acquire <adc>",
		Short: "Run one acquisition on a configured ADC and save it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := samples.ParseFormat(format)
			if err != nil {
				return err
			}
			b, decl, err := openInstrument(opts.cfg, args[0])
			if err != nil {
				return err
			}
			defer closeBench(b)

			a, err := b.ADC(decl.Name)
			if err != nil {
				return err
			}
			if err := a.ArmAcquisition(); err != nil {
				return err
			}
			if err := a.Trigger(); err != nil {
				return err
			}
			data, err := a.GetData()
			if err != nil {
				return err
			}

			saveOpts := samples.Options{FullScale: fullScale}
			if decl.ADC != nil {
				saveOpts.SampleRate = int(decl.ADC.TargetRate)
			}
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return err
			}
			paths, err := samples.SaveAll(outDir, decl.Name, f, data, saveOpts)
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(data))
			for i, seq := range data {
				mean, variance := stat.MeanVariance(seq, nil)
				peak := "-"
				if decl.ADC != nil {
					if a, err := waveform.NewAnalyzer(len(seq), decl.ADC.TargetRate); err == nil {
						peak = fmt.Sprintf("%.6g", a.Dominant(seq))
					}
				}
				rows = append(rows, []string{
					strconv.Itoa(i), strconv.Itoa(len(seq)),
					fmt.Sprintf("%.6g", mean), fmt.Sprintf("%.6g", variance), peak, paths[i],
				})
			}
			return renderTable(cmd.OutOrStdout(), []string{"CHANNEL", "SAMPLES", "MEAN", "VARIANCE", "PEAK (Hz)", "FILE"}, rows)
		},
	}
	cmd.Flags().StringVarP(&outDir, "out", "o", ".", "Directory receiving one file per channel")
	cmd.Flags().StringVar(&format, "format", string(samples.NPY), "File format: npy or wav")
	cmd.Flags().Float64Var(&fullScale, "full-scale", 1.0, "WAV only: voltage written as the largest PCM code")
	return cmd
}

func newEmitCommand(opts *options) *cobra.Command {
	var (
		freq, amplitude, rate float64
		n                     int
		duration              time.Duration
	)
	cmd := &cobra.Command{
		Use:   "emit <dac>",
		Short: "Emit a sine on a configured DAC for a while",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if freq <= 0 {
				return fmt.Errorf("--freq must be positive, got %g", freq)
			}
			if amplitude < 0 {
				return fmt.Errorf("--amplitude must not be negative, got %g", amplitude)
			}
			b, decl, err := openInstrument(opts.cfg, args[0])
			if err != nil {
				return err
			}
			defer closeBench(b)

			d, err := b.DAC(decl.Name)
			if err != nil {
				return err
			}
			params := dac.Config{SampleRate: rate, Repeat: true}
			if decl.DAC != nil {
				params = *decl.DAC
				if cmd.Flags().Changed("rate") {
					params.SampleRate = rate
				}
			}
			if params.SampleRate <= 0 {
				return fmt.Errorf("sample rate must be positive, got %g", params.SampleRate)
			}
			if n <= 0 {
				n = max(int(params.SampleRate/freq), 1)
			}
			if err := d.SetEmissionParameters(params); err != nil {
				return err
			}
			seq := waveform.Sine(n, params.SampleRate, freq, amplitude)
			if err := d.LoadData(waveform.Buffer(max(len(decl.Channels), 1), seq)); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := d.StartEmission(); err != nil {
				return err
			}
			log.Infof("emitting %g Hz on %s for %v", freq, decl.Name, duration)
			select {
			case <-ctx.Done():
			case <-time.After(duration):
			}
			return d.StopEmission()
		},
	}
	cmd.Flags().Float64Var(&freq, "freq", defaultFrequency, "Sine frequency, in Hz")
	cmd.Flags().Float64Var(&amplitude, "amplitude", defaultAmplitude, "Sine amplitude, in volts")
	cmd.Flags().Float64Var(&rate, "rate", defaultRate, "Sample rate when the configuration has no dac block")
	cmd.Flags().IntVar(&n, "samples", 0, "Samples loaded, default one period")
	cmd.Flags().DurationVar(&duration, "duration", defaultDuration, "Emission duration")
	return cmd
}

// newTransport creates the transport named by the monitor configuration.
func newTransport(mc config.MonitorConfig) (transport.Transport, *transport.WebSocketTransport, error) {
	switch mc.Transport {
	case config.TransportLog:
		return transport.NewLoggingTransport(), nil, nil
	case config.TransportWebSocket:
		ws := transport.NewWebSocketTransport()
		return ws, ws, nil
	case config.TransportUDP:
		t, err := udp.NewTransport(mc.Target)
		return t, nil, err
	default:
		return transport.Discard{}, nil, nil
	}
}

func newMonitorCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "monitor",
		Short: "Poll the measuring instruments and serve their readings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runMonitor(ctx, opts.cfg, nil)
		},
	}
}

// runMonitor opens the bench, serves /metrics (and /ws with the websocket
// transport) and polls until ctx is done. The listen address is sent on
// ready once the server accepts connections.
func runMonitor(ctx context.Context, cfg *config.Config, ready chan<- string) error {
	b, err := bench.Build(cfg)
	if err != nil {
		return err
	}
	if err := b.Open(); err != nil {
		return err
	}
	defer closeBench(b)

	tr, ws, err := newTransport(cfg.Monitor)
	if err != nil {
		return err
	}
	poller := monitor.NewPoller(cfg.Monitor.Interval, b.Readers(), tr)

	mux := http.NewServeMux()
	mux.Handle("/metrics", poller.MetricsHandler())
	if ws != nil {
		mux.Handle("/ws", ws.Handler())
	}
	srv := &http.Server{Handler: mux}

	ln, err := net.Listen("tcp", cfg.Monitor.Address)
	if err != nil {
		return errors.Join(fmt.Errorf("monitor: %w", err), tr.Close())
	}
	serveErr := make(chan error, 1)
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()
	log.Infof("monitor: serving on %s, polling every %v", ln.Addr(), cfg.Monitor.Interval)
	poller.Start()
	if ready != nil {
		ready <- ln.Addr().String()
	}

	select {
	case <-ctx.Done():
	case err = <-serveErr:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return errors.Join(err, poller.Stop(), srv.Shutdown(shutdownCtx), tr.Close())
}
