package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	emucore "github.com/user-none/v32retro/api"
	"github.com/user-none/v32retro/options"
	"github.com/user-none/v32retro/romloader"
	"github.com/user-none/v32retro/storage"
)

// buildRootCmd constructs the command tree. Results go to out; diagnostics go to log.
func buildRootCmd(out io.Writer, log *zerolog.Logger) *cobra.Command {
	info := emucore.Vircon32()

	root := &cobra.Command{
		Use:           "v32retro",
		Short:         "Tools for the Vircon32 libretro core",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)

	root.PersistentFlags().String("log-level", "info", "Log level: debug|info|warn|error")
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		v, _ := cmd.Flags().GetString("log-level")
		level, err := zerolog.ParseLevel(strings.ToLower(v))
		if err != nil {
			return fmt.Errorf("invalid log level %q: %w", v, err)
		}
		*log = log.Level(level)
		return nil
	}

	infoCmd := &cobra.Command{
		Use:   "info",
		Short: "Print what the core reports to a frontend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(out, "core:       %s %s\n", info.CoreName, info.CoreVersion)
			fmt.Fprintf(out, "console:    %s (%s, %d players)\n", info.ConsoleName, info.Region, info.Players)
			fmt.Fprintf(out, "extensions: %s\n", strings.Join(info.Extensions, "|"))
			dar := emucore.DisplayAspectRatio(info.ScreenWidth, info.ScreenHeight, info.PixelAspectRatio)
			fmt.Fprintf(out, "screen:     %dx%d @ %d fps, aspect %.3f\n", info.ScreenWidth, info.ScreenHeight, info.Timing.FPS, dar)
			fmt.Fprintf(out, "audio:      %d Hz, %d frames per video frame\n", info.Timing.SampleRate, emucore.SamplesPerFrame)
			fmt.Fprintf(out, "bios:       %s\n", info.BiosFileName)
			for _, opt := range info.CoreOptions {
				fmt.Fprintf(out, "option:     %s = %s (%s)\n", opt.Key, opt.Default, strings.Join(options.Allowed(opt), "|"))
			}
			return nil
		},
	}

	memcardCmd := &cobra.Command{
		Use:     "memcard CARTRIDGE...",
		Short:   "Print the memory card path used for each cartridge",
		Example: "  v32retro memcard --save-dir ~/saves roms/Game.v32",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			saveDir, _ := cmd.Flags().GetString("save-dir")
			for _, cart := range args {
				path := storage.MemoryCardPath(saveDir, cart)
				log.Debug().Str("cartridge", cart).Bool("exists", storage.FileExists(path)).Msg("Derived memory card")
				fmt.Fprintln(out, path)
			}
			return nil
		},
	}
	memcardCmd.Flags().String("save-dir", ".", "Frontend save directory")

	extractCmd := &cobra.Command{
		Use:     "extract ARCHIVE",
		Short:   "Extract the cartridge from an archive",
		Example: "  v32retro extract --out /tmp/roms Game.7z",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("out")
			format, err := romloader.Detect(args[0], info.Extensions)
			if err != nil {
				return err
			}
			path, extracted, err := romloader.Extract(args[0], info.Extensions, dir)
			if err != nil {
				return err
			}
			log.Info().Stringer("format", format).Bool("extracted", extracted).Msg("Cartridge ready")
			fmt.Fprintln(out, path)
			return nil
		},
	}
	extractCmd.Flags().String("out", ".", "Directory to write the cartridge to")

	optionsCmd := &cobra.Command{
		Use:     "options FILE",
		Short:   "Check an options file against the core's options",
		Example: "  v32retro options retroarch-core-options.cfg",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := options.Load(args[0])
			if err != nil {
				return err
			}
			problems := options.Validate(values, info.CoreOptions)
			for _, p := range problems {
				log.Warn().Str("file", filepath.Base(args[0])).Msg(p.String())
			}
			for _, opt := range info.CoreOptions {
				fmt.Fprintf(out, "%s = %s\n", opt.Key, options.Effective(values, opt))
			}
			if len(problems) > 0 {
				return fmt.Errorf("%d invalid option value(s)", len(problems))
			}
			return nil
		},
	}

	root.AddCommand(infoCmd, memcardCmd, extractCmd, optionsCmd)
	return root
}
