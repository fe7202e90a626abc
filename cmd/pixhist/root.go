package main

import (
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/gogpu/pixhist"
	"github.com/gogpu/pixhist/cache"
	"github.com/gogpu/pixhist/config"
	"github.com/gogpu/pixhist/metrics"
	"github.com/gogpu/pixhist/resources"
)

// app is the state shared by all subcommands of one invocation.
type app struct {
	out    io.Writer
	errOut io.Writer
	print  *message.Printer

	configPath  string
	logLevel    string
	dumpMetrics bool

	settings config.Settings
	registry *prometheus.Registry
	metrics  *metrics.Collectors
	ids      *pixhist.IDAllocator
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	a := &app{
		out:    out,
		errOut: errOut,
		print:  message.NewPrinter(language.English),
		ids:    pixhist.NewIDAllocator(),
	}

	root := &cobra.Command{
		Use:           "pixhist",
		Short:         "Frame hashing, replay verification and animation export",
		Version:       pixhist.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			if a.dumpMetrics {
				a.writeMetrics()
			}
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "settings file (.toml, .yaml or .yml)")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn or error")
	flags.BoolVar(&a.dumpMetrics, "metrics", false, "print collected metrics on exit")

	root.AddCommand(
		a.newHashCmd(),
		a.newRecordCmd(),
		a.newVerifyCmd(),
		a.newExportCmd(),
	)
	return root
}

func (a *app) setup() error {
	s, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		s.LogLevel = a.logLevel
		if err := s.Validate(); err != nil {
			return err
		}
	}
	a.settings = s

	h := slog.NewTextHandler(a.errOut, &slog.HandlerOptions{Level: s.SlogLevel()})
	pixhist.SetLogger(slog.New(h).With("run_id", uuid.NewString()))

	a.registry = prometheus.NewRegistry()
	a.metrics = metrics.New(a.registry)
	return nil
}

// manager builds a resource manager configured from the loaded settings.
func (a *app) manager(extra ...resources.Option) *resources.Manager {
	opts := []resources.Option{
		resources.WithCodec(a.settings.SnapshotCodec()),
		resources.WithMetrics(a.metrics),
	}
	if n := a.settings.CacheEntries; n > 0 {
		opts = append(opts, resources.WithCache(cache.NewPixels(n)))
	}
	return resources.NewManager(append(opts, extra...)...)
}

func (a *app) writeMetrics() {
	families, err := a.registry.Gather()
	if err != nil {
		pixhist.Logger().Warn("pixhist: gather metrics", "err", err)
		return
	}
	var lines []string
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			var v float64
			switch {
			case m.GetCounter() != nil:
				v = m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				v = m.GetGauge().GetValue()
			default:
				continue
			}
			name := mf.GetName()
			for _, l := range m.GetLabel() {
				name += fmt.Sprintf("{%s=%q}", l.GetName(), l.GetValue())
			}
			lines = append(lines, a.print.Sprintf("%s %v", name, v))
		}
	}
	sort.Strings(lines)
	fmt.Fprintln(a.errOut, strings.Join(lines, "\n"))
}
