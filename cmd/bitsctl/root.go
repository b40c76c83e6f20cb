package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/danmuck/bitsctl/internal/buildinfo"
	"github.com/danmuck/bitsctl/internal/config"
	"github.com/danmuck/bitsctl/internal/logging"
	"github.com/danmuck/bitsctl/internal/observability"
	"github.com/danmuck/bitsctl/internal/protocol"
	"github.com/danmuck/bitsctl/internal/protocol/packet"
	"github.com/danmuck/bitsctl/internal/server"
	"github.com/danmuck/bitsctl/internal/service"
	"github.com/spf13/cobra"
)

type app struct {
	configPath string
	hex        string

	cfg config.Config
	svc *service.Service
}

func newRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:           "bitsctl",
		Short:         "Decode and evaluate BITS transmissions",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return a.setup()
		},
	}
	cmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "TOML config file (defaults apply when omitted)")

	cmd.AddCommand(
		a.decodeCmd(),
		a.versionsCmd(),
		a.evalCmd(),
		a.dumpCmd(),
		a.serveCmd(),
		initConfigCmd(),
		validateConfigCmd(),
		versionCmd(),
	)
	return cmd
}

func (a *app) setup() error {
	cfg := config.Default()
	if a.configPath != "" {
		loaded, err := config.Load(a.configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	logging.Setup(cfg.Logging())

	a.cfg = cfg
	a.svc = service.New(cfg.Limits, observability.Component(cfg.Name, "decode"))
	return nil
}

func (a *app) addInputFlag(cmd *cobra.Command) {
	cmd.Flags().StringVar(&a.hex, "hex", "", "transmission as hex text (otherwise read from FILE or stdin)")
}

func (a *app) report(cmd *cobra.Command, args []string) (service.Report, error) {
	text, err := readInput(a.hex, args, cmd.InOrStdin())
	if err != nil {
		return service.Report{}, err
	}
	return a.svc.Decode(text)
}

func (a *app) decodeCmd() *cobra.Command {
	var asJSON bool
	c := &cobra.Command{
		Use:   "decode [FILE]",
		Short: "Print the version sum and value of a transmission",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := a.report(cmd, args)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}
			fmt.Fprintf(out, "packets:     %d\n", report.Packets)
			fmt.Fprintf(out, "version sum: %d\n", report.VersionSum)
			if report.Value != nil {
				fmt.Fprintf(out, "value:       %d\n", *report.Value)
			} else {
				fmt.Fprintln(out, "value:       none")
			}
			return nil
		},
	}
	a.addInputFlag(c)
	c.Flags().BoolVar(&asJSON, "json", false, "emit the full report as JSON")
	return c
}

func (a *app) versionsCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "versions [FILE]",
		Short: "Print the sum of every packet version",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := a.report(cmd, args)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), report.VersionSum)
			return nil
		},
	}
	a.addInputFlag(c)
	return c
}

func (a *app) evalCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "eval [FILE]",
		Short: "Print the value of the first top-level packet",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := a.report(cmd, args)
			if err != nil {
				return err
			}
			if report.Value == nil {
				return protocol.ErrNoPackets
			}
			fmt.Fprintln(cmd.OutOrStdout(), *report.Value)
			return nil
		},
	}
	a.addInputFlag(c)
	return c
}

func (a *app) dumpCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "dump [FILE]",
		Short: "Print the decoded packet tree",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(a.hex, args, cmd.InOrStdin())
			if err != nil {
				return err
			}
			tr, err := a.svc.Transmission(text)
			if err != nil {
				return err
			}
			return packet.Format(cmd.OutOrStdout(), tr.Packets())
		},
	}
	a.addInputFlag(c)
	return c
}

func (a *app) serveCmd() *cobra.Command {
	var addr string
	c := &cobra.Command{
		Use:   "serve",
		Short: "Serve the decoder over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := a.cfg
			if addr != "" {
				cfg.Server.Addr = addr
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := server.New(cfg, a.svc, observability.Component(cfg.Name, "http"))
			return srv.Run(ctx)
		},
	}
	c.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")
	return c
}

func initConfigCmd() *cobra.Command {
	var kind, output string
	var force bool
	c := &cobra.Command{
		Use:   "init-config",
		Short: "Write a config template",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.WriteTemplate(output, kind, force); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s config template to %s\n", kind, output)
			return nil
		},
	}
	c.Flags().StringVar(&kind, "kind", "cli", "template kind: cli|server")
	c.Flags().StringVarP(&output, "output", "o", "bitsctl.toml", "output path")
	c.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return c
}

func validateConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate-config FILE",
		Short: "Validate a config file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := config.Load(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "validated config at %s\n", args[0])
			return nil
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), buildinfo.String())
			return nil
		},
	}
}
