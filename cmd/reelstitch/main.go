package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/reelstitch/reelstitch/internal/config"
	"github.com/reelstitch/reelstitch/internal/deps"
	"github.com/reelstitch/reelstitch/internal/ffmpeg"
	"github.com/reelstitch/reelstitch/internal/logging"
	"github.com/reelstitch/reelstitch/internal/media"
	"github.com/reelstitch/reelstitch/internal/overlay"
	"github.com/reelstitch/reelstitch/internal/stitch"
	"github.com/reelstitch/reelstitch/pkg/util"
)

var (
	cfgFile string
	verbose bool

	overlayText string
	noText      bool
)

func main() {
	ctx := context.Background()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "reelstitch",
	Short: "reelstitch - hook + demo video combiner for 9:16 vertical output",
	Long: "Combines a hook video and a demo video into a 1080x1920 composite " +
		"with an optional timed text overlay and a mixed-in audio track, " +
		"formatted for TikTok/Reels.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Initialize logging
		logging.Init(verbose)

		// Load config
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}

		// Store config in context
		ctx := config.WithConfig(cmd.Context(), cfg)
		cmd.SetContext(ctx)

		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./reelstitch.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	stitchCmd.Flags().StringVarP(&overlayText, "text", "t", "", "overlay text for the hook segment (skips the prompt)")
	stitchCmd.Flags().BoolVar(&noText, "no-text", false, "skip the overlay text prompt and render without text")

	rootCmd.AddCommand(stitchCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(probeCmd)
	rootCmd.AddCommand(configCmd)
}

var stitchCmd = &cobra.Command{
	Use:   "stitch",
	Short: "Combine the hook and demo videos with the overlay audio",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())

		if err := checkRequired(cfg); err != nil {
			log.Error().Err(err).Msg(deps.InstallHint())
			return err
		}

		inputs, err := media.Discover(cfg.HooksPath(), cfg.DemoPath(), cfg.AudioPath())
		if err != nil {
			log.Error().Err(err).Msg("input discovery failed")
			return err
		}

		text, err := collectOverlayText(cfg)
		if err != nil {
			return err
		}
		if text != nil {
			log.Info().Strs("lines", text.Lines()).Msg("overlay text")
		}

		stitcher, err := stitch.New(log.Logger, cfg)
		if err != nil {
			return err
		}

		result, err := stitcher.Run(cmd.Context(), inputs, text)
		if err != nil {
			log.Error().Err(err).Msg("combine failed")
			return err
		}

		if text != nil && !result.TextApplied {
			log.Warn().Msg("text overlay was omitted due to processing issues")
		}
		log.Info().
			Str("output", result.OutputPath).
			Float64("seconds", result.Duration).
			Msg("your video is ready")

		return nil
	},
}

// collectOverlayText resolves the overlay from flags or, failing that, one
// interactive line from the operator. Empty input skips the overlay.
func collectOverlayText(cfg *config.Config) (*overlay.Text, error) {
	if noText {
		return nil, nil
	}

	raw := overlayText
	if raw == "" {
		fmt.Print("Enter text to display during the hook (or press Enter to skip): ")
		reader := bufio.NewReader(os.Stdin)
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			// EOF with no input means no overlay
			return nil, nil
		}
		raw = line
	}

	budget := overlay.LineBudget(cfg.Overlay.FontSize, cfg.Overlay.MarginPercent)
	return overlay.NewText(raw, budget, cfg.TextFilePath()), nil
}

func checkRequired(cfg *config.Config) error {
	statuses := deps.Check(deps.Required(cfg.FFmpeg.BinaryPath, cfg.FFmpeg.ProbePath))
	missing := deps.Missing(statuses)
	if len(missing) == 0 {
		return nil
	}
	names := make([]string, 0, len(missing))
	for _, status := range missing {
		names = append(names, status.Name)
	}
	return fmt.Errorf("missing required binaries: %s", strings.Join(names, ", "))
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that the external binaries are installed",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())

		statuses := deps.Check(deps.Required(cfg.FFmpeg.BinaryPath, cfg.FFmpeg.ProbePath))
		for _, status := range statuses {
			if status.Available {
				log.Info().Str("command", status.Command).Msgf("%s found", status.Name)
			} else {
				log.Error().Str("detail", status.Detail).Msgf("%s missing", status.Name)
			}
		}

		if len(deps.Missing(statuses)) > 0 {
			return fmt.Errorf("%s", deps.InstallHint())
		}
		return nil
	},
}

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Discover the input files and print their metadata",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())

		if err := checkRequired(cfg); err != nil {
			log.Error().Err(err).Msg(deps.InstallHint())
			return err
		}

		inputs, err := media.Discover(cfg.HooksPath(), cfg.DemoPath(), cfg.AudioPath())
		if err != nil {
			return err
		}

		exec, err := ffmpeg.New(log.Logger, cfg.FFmpeg.BinaryPath, cfg.FFmpeg.ProbePath, cfg.FFmpeg.Threads)
		if err != nil {
			return err
		}

		for _, probe := range []struct {
			role string
			path string
		}{
			{"hook", inputs.Hook},
			{"demo", inputs.Demo},
			{"audio", inputs.Audio},
		} {
			info, err := exec.Probe(cmd.Context(), probe.path)
			if err != nil {
				return fmt.Errorf("probe %s: %w", probe.role, err)
			}
			event := log.Info().
				Str("file", info.FilePath).
				Dur("duration", info.Duration)
			if info.Width > 0 {
				event = event.
					Int("width", info.Width).
					Int("height", info.Height).
					Float64("fps", info.FPS).
					Str("video_codec", info.VideoCodec)
			}
			if info.HasAudio {
				event = event.Str("audio_codec", info.AudioCodec)
			}
			event.Msg(probe.role)
		}

		return nil
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Config management commands",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())
		data, err := cfg.Marshal()
		if err != nil {
			return err
		}
		fmt.Print(string(data))
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration to ./reelstitch.yaml",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "reelstitch.yaml"
		if cfgFile != "" {
			path = cfgFile
		}
		if err := util.EnsureDir(filepath.Dir(path)); err != nil {
			return err
		}
		if err := config.Default().Save(path); err != nil {
			return err
		}
		log.Info().Str("path", path).Msg("wrote default config")
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
}
