// Package stitch drives the composite render: it probes the inputs, builds
// the 9:16 filter graph, runs ffmpeg, and walks the fallback ladder when the
// text overlay cannot be burned in as requested.
package stitch

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/reelstitch/reelstitch/internal/config"
	"github.com/reelstitch/reelstitch/internal/ffmpeg"
	"github.com/reelstitch/reelstitch/internal/media"
	"github.com/reelstitch/reelstitch/internal/overlay"
)

// Output frame geometry (vertical 9:16 for TikTok/Reels).
const (
	frameWidth  = 1080
	frameHeight = 1920
)

// Runner abstracts the ffmpeg executor for testing.
type Runner interface {
	Run(ctx context.Context, opts ffmpeg.RunOptions) error
	Duration(ctx context.Context, path string) (float64, error)
}

// Stitcher orchestrates one combine run.
type Stitcher struct {
	logger zerolog.Logger
	cfg    *config.Config
	runner Runner
}

// New creates a stitcher backed by a real ffmpeg executor.
func New(logger zerolog.Logger, cfg *config.Config) (*Stitcher, error) {
	exec, err := ffmpeg.New(logger, cfg.FFmpeg.BinaryPath, cfg.FFmpeg.ProbePath, cfg.FFmpeg.Threads)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize ffmpeg: %w", err)
	}
	return NewWithRunner(logger, cfg, exec), nil
}

// NewWithRunner creates a stitcher with a custom runner.
func NewWithRunner(logger zerolog.Logger, cfg *config.Config, runner Runner) *Stitcher {
	return &Stitcher{
		logger: logger.With().Str("component", "stitch").Logger(),
		cfg:    cfg,
		runner: runner,
	}
}

// Attempt identifies one rung of the fallback ladder.
type Attempt string

const (
	// AttemptFont burns the overlay with the resolved font file.
	AttemptFont Attempt = "font"
	// AttemptDefaultFont burns the overlay with ffmpeg's built-in font.
	AttemptDefaultFont Attempt = "default-font"
	// AttemptNoText renders the composite without any overlay.
	AttemptNoText Attempt = "no-text"
)

// Result describes a completed run.
type Result struct {
	OutputPath   string
	Duration     float64 // seconds, probed from the output
	HookDuration float64
	DemoDuration float64
	Attempt      Attempt // the rung that succeeded
	TextApplied  bool
}

// Run produces the composite video. text may be nil to skip the overlay.
// The temporary overlay text file is removed on every exit path.
func (s *Stitcher) Run(ctx context.Context, in *media.Inputs, text *overlay.Text) (*Result, error) {
	hookDur, err := s.runner.Duration(ctx, in.Hook)
	if err != nil {
		return nil, fmt.Errorf("failed to probe hook video: %w", err)
	}
	demoDur, err := s.runner.Duration(ctx, in.Demo)
	if err != nil {
		return nil, fmt.Errorf("failed to probe demo video: %w", err)
	}

	s.logger.Info().
		Str("hook", in.Hook).
		Str("demo", in.Demo).
		Str("audio", in.Audio).
		Float64("hook_seconds", hookDur).
		Float64("demo_seconds", demoDur).
		Float64("expected_seconds", hookDur+demoDur).
		Msg("starting combine")

	if text != nil {
		defer text.Cleanup()
		if err := text.WriteFile(); err != nil {
			return nil, err
		}
	}

	attempt, err := s.runLadder(ctx, in, text, hookDur)
	if err != nil {
		return nil, err
	}

	result := &Result{
		OutputPath:   s.cfg.OutputPath(),
		HookDuration: hookDur,
		DemoDuration: demoDur,
		Attempt:      attempt,
		TextApplied:  text != nil && attempt != AttemptNoText,
	}

	// Verify the output; a probe failure here is not fatal
	if out, err := s.runner.Duration(ctx, result.OutputPath); err == nil {
		result.Duration = out
	} else {
		s.logger.Warn().Err(err).Msg("could not probe output duration")
	}

	s.logger.Info().
		Str("output", result.OutputPath).
		Float64("seconds", result.Duration).
		Str("attempt", string(result.Attempt)).
		Msg("combine complete")

	return result, nil
}

// runLadder walks the attempt ladder: resolved font, then ffmpeg's default
// font when the failure points at the font or text file, then no overlay at
// all. Without overlay text there is a single attempt.
func (s *Stitcher) runLadder(ctx context.Context, in *media.Inputs, text *overlay.Text, hookDur float64) (Attempt, error) {
	if text == nil {
		return AttemptNoText, s.attempt(ctx, in, hookDur, "")
	}

	font := overlay.ResolveFont(s.cfg.FontPath())
	if font != "" {
		s.logger.Debug().Str("font", font).Msg("resolved overlay font")
	} else {
		s.logger.Debug().Msg("no font file available, using ffmpeg default")
	}

	err := s.attempt(ctx, in, hookDur, s.drawtext(text, font))
	if err == nil {
		return AttemptFont, nil
	}
	if ctx.Err() != nil {
		return "", err
	}
	if !isFontError(err) {
		return "", err
	}

	s.logger.Warn().Err(err).Msg("font or text file issue, retrying with default font")
	err = s.attempt(ctx, in, hookDur, s.drawtext(text, ""))
	if err == nil {
		return AttemptDefaultFont, nil
	}
	if ctx.Err() != nil {
		return "", err
	}

	s.logger.Warn().Err(err).Msg("overlay still failing, retrying without text")
	if err := s.attempt(ctx, in, hookDur, ""); err != nil {
		return "", err
	}
	return AttemptNoText, nil
}

// attempt runs one ffmpeg invocation. drawtext is empty for no overlay.
func (s *Stitcher) attempt(ctx context.Context, in *media.Inputs, hookDur float64, drawtext string) error {
	graph := buildFilterGraph(hookDur, s.cfg.Overlay.VolumeDB, drawtext)

	args := []string{
		"-i", in.Hook,
		"-i", in.Demo,
		"-i", in.Audio,
		"-filter_complex", graph,
		"-map", "[outv]",
		"-map", "[outa]",
		"-c:v", s.cfg.Encode.VideoCodec,
		"-preset", s.cfg.Encode.Preset,
		"-crf", strconv.Itoa(s.cfg.Encode.CRF),
		"-c:a", s.cfg.Encode.AudioCodec,
		"-b:a", s.cfg.Encode.AudioBitrate,
		"-shortest",
		"-movflags", "+faststart",
		s.cfg.OutputPath(),
	}

	opts := ffmpeg.RunOptions{
		Args: args,
		ProgressHandler: func(p *ffmpeg.Progress) {
			s.logger.Info().
				Str("time", p.Time).
				Str("speed", p.Speed).
				Msg("processing")
		},
		LogHandler: func(line string) {
			s.logger.Debug().Str("ffmpeg", line).Msg("combine output")
		},
	}

	err := s.runner.Run(ctx, opts)
	if err != nil {
		var runErr *ffmpeg.RunError
		if errors.As(err, &runErr) && runErr.MentionsAny("No such filter") {
			s.logger.Error().Msg("invalid filter configuration")
		}
	}
	return err
}

func (s *Stitcher) drawtext(text *overlay.Text, font string) string {
	return overlay.Drawtext(overlay.DrawtextOptions{
		TextFile: text.FilePath,
		FontFile: font,
		FontSize: s.cfg.Overlay.FontSize,
		Duration: s.cfg.Overlay.Duration,
	})
}

// buildFilterGraph composes the labeled filter_complex: hook cropped to
// fill the frame (optionally with the drawtext burn-in), demo letterboxed,
// both concatenated; hook audio replaced with synthesized silence, demo
// audio preserved, overlay audio mixed in attenuated.
func buildFilterGraph(hookDuration, overlayVolumeDB float64, drawtext string) string {
	hook := ffmpeg.NewFilterBuilder().
		ScaleToFill(frameWidth, frameHeight).
		Crop(frameWidth, frameHeight).
		Custom(drawtext).
		Build()

	demo := ffmpeg.NewFilterBuilder().
		ScaleToFit(frameWidth, frameHeight).
		Pad(frameWidth, frameHeight, "black").
		Build()

	overlayAudio := ffmpeg.NewFilterBuilder().
		AudioVolume(overlayVolumeDB).
		Build()

	var g strings.Builder
	fmt.Fprintf(&g, "[0:v]%s[v0];", hook)
	fmt.Fprintf(&g, "[1:v]%s[v1];", demo)
	g.WriteString("[v0][v1]concat=n=2:v=1:a=0[outv];")
	fmt.Fprintf(&g, "aevalsrc=0:d=%g:s=44100:c=stereo[silence];", hookDuration)
	g.WriteString("[1:a]aformat=sample_rates=44100:channel_layouts=stereo[demo_audio];")
	g.WriteString("[silence][demo_audio]concat=n=2:v=0:a=1[original_audio];")
	fmt.Fprintf(&g, "[2:a]%s[overlay_audio];", overlayAudio)
	g.WriteString("[original_audio][overlay_audio]amix=inputs=2:duration=first:dropout_transition=2[outa]")
	return g.String()
}

// isFontError reports whether the failure points at the font or the overlay
// text file, which the ladder treats as recoverable.
func isFontError(err error) bool {
	var runErr *ffmpeg.RunError
	if errors.As(err, &runErr) {
		return runErr.MentionsAny("fontfile", "textfile")
	}
	return false
}
