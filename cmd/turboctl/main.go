//go:build linux

package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ja7ad/turboctl/pkg/config"
	"github.com/ja7ad/turboctl/pkg/logger"
	"github.com/ja7ad/turboctl/pkg/system/cpu"
	"github.com/ja7ad/turboctl/pkg/system/msr"
	"github.com/ja7ad/turboctl/pkg/system/util"
	"github.com/ja7ad/turboctl/pkg/turbo"
)

type opts struct {
	configPath string
	req        turbo.Request

	// only meaningful when the flag was given, see Flags().Changed
	setTDP uint64
	setTDC uint64
}

func main() {
	if err := newRootCommand(os.Stdout).Execute(); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}

func newRootCommand(stdout io.Writer) *cobra.Command {
	var (
		o      opts
		update config.ConfigUpdaterFn
	)

	root := &cobra.Command{
		Use:   "turboctl [flags]",
		Short: "Inspect and adjust Arrandale turbo power limits",
		Long: `turboctl reads and writes the turbo MSRs of Intel Arrandale processors
(family 6, model 0x25) on logical core 0: the turbo TDP and TDC limits,
the TJmax thermal threshold and the per-core-count turbo ratios.

It needs root and the msr kernel module (modprobe msr). Writes are a plain
read-modify-write of MSR_TURBO_POWER_CURRENT_LIMIT without locking; do not
run two instances that set limits at the same time.

Examples:
  turboctl --get-tdp --get-tdc --get-tjmax --get-turbo-ratios
  turboctl --set-tdp 35 --set-tdc 50
  turboctl --set-tdp 35 --dry-run -o json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, o, update, stdout)
		},
	}

	root.Flags().StringVar(&o.configPath, config.ConfigFlag, config.DefaultPath, "path to the YAML configuration file")
	root.Flags().BoolVar(&o.req.GetTDP, "get-tdp", false, "print the maximum turbo TDP and its override status")
	root.Flags().BoolVar(&o.req.GetTDC, "get-tdc", false, "print the maximum turbo TDC and its override status")
	root.Flags().BoolVar(&o.req.GetTJMax, "get-tjmax", false, "print the TJmax temperature target")
	root.Flags().BoolVar(&o.req.GetTurboRatios, "get-turbo-ratios", false, "print the max turbo ratio per active core count")
	root.Flags().BoolVar(&o.req.GetPlatformInfo, "get-platform-info", false, "print PLATFORM_INFO capabilities and the turbo disable bit")
	root.Flags().Uint64Var(&o.setTDP, "set-tdp", 0, "set the maximum turbo TDP in whole `WATTS` (0-511)")
	root.Flags().Uint64Var(&o.setTDC, "set-tdc", 0, "set the maximum turbo TDC in whole `AMPS` (0-511)")
	root.Flags().BoolVar(&o.req.DryRun, "dry-run", false, "compute the new turbo limits without writing them")
	update = config.RegisterFlags(root.Flags())

	return root
}

func run(cmd *cobra.Command, o opts, update config.ConfigUpdaterFn, stdout io.Writer) error {
	cfg, err := loadConfig(cmd, o.configPath, update)
	if err != nil {
		return err
	}
	log := logger.New(cfg.Log.Level, cfg.Log.Format, cmd.ErrOrStderr())
	slog.SetDefault(log)

	req := o.req
	if cmd.Flags().Changed("set-tdp") {
		req.SetTDP = turbo.Uint64(o.setTDP)
	}
	if cmd.Flags().Changed("set-tdc") {
		req.SetTDC = turbo.Uint64(o.setTDC)
	}
	if req.Empty() {
		return cmd.Help()
	}

	platform := cpu.Detect()
	host, kernel, cpus := util.SystemSummary()
	log.Debug("host", "name", host, "kernel", kernel, "cpus", cpus, "cpu", platform.String(), "brand", platform.Brand)

	h := turbo.Host{
		Privileged:        cpu.Privileged(),
		SupportedPlatform: platform.Supported(),
		Platform:          platform.String(),
	}
	// Fail the cheap checks before touching the msr device.
	if err := h.Check(); err != nil {
		return err
	}
	if err := req.Validate(); err != nil {
		return err
	}

	dev, err := msr.Open(msr.Target{Core: msr.DefaultCore, Device: cfg.MSR.Device})
	if err != nil {
		return fmt.Errorf("%w: %w", turbo.ErrRegisterAccess, err)
	}
	defer func() {
		if err := dev.Close(); err != nil {
			log.Warn("failed to close msr device", "error", err)
		}
	}()

	rep, err := turbo.New(dev, log).Execute(req, h)
	if err != nil {
		return err
	}

	// Render fully before printing so a failure never leaves half a report.
	var buf bytes.Buffer
	if err := render(&buf, rep, cfg.Output.Format); err != nil {
		return err
	}
	_, err = buf.WriteTo(stdout)
	return err
}

func loadConfig(cmd *cobra.Command, path string, update config.ConfigUpdaterFn) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if cmd.Flags().Changed(config.ConfigFlag) {
		cfg, err = config.FromFile(path)
	} else {
		cfg, err = config.FromFileOrDefault(path)
	}
	if err != nil {
		return nil, err
	}
	if err := update(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

var errUnknownFormat = errors.New("unknown output format")
