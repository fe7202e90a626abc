package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/gogpu/pixhist"
	"github.com/gogpu/pixhist/history"
	"github.com/gogpu/pixhist/replay"
	"github.com/gogpu/pixhist/resources"
)

var errVerifyFailed = errors.New("verification failed")

// digestPath resolves the digest argument; "-" selects the configured
// digest_path.
func (a *app) digestPath(arg string) string {
	if arg == "-" && a.settings.DigestPath != "" {
		return a.settings.DigestPath
	}
	return arg
}

func (a *app) newHashCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash <image>...",
		Short: "Print the frame hash of each image",
		Long: `Print the frame hash of each image.

With replay_mode set to record or verify, the frames are instead recorded
to or verified against the digest file named by digest_path.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			frames, err := loadFrames(cmd.Context(), args)
			if err != nil {
				return err
			}

			mode := a.settings.Mode()
			if mode != replay.ModeOff && a.settings.DigestPath == "" {
				return fmt.Errorf("replay_mode %s needs digest_path", mode)
			}
			switch mode {
			case replay.ModeRecord:
				return a.record(a.settings.DigestPath, frames)
			case replay.ModeVerify:
				return a.verify(a.settings.DigestPath, frames)
			}
			for _, f := range frames {
				fmt.Fprintf(a.out, "%s  %s\n", replay.Sum(f.pixels), f.path)
			}
			return nil
		},
	}
}

func (a *app) newRecordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "record <digest|-> <frame>...",
		Short: "Record the hashes of a frame sequence to a digest file",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			frames, err := loadFrames(cmd.Context(), args[1:])
			if err != nil {
				return err
			}
			return a.record(a.digestPath(args[0]), frames)
		},
	}
}

func (a *app) newVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify <digest|-> <frame>...",
		Short: "Replay a frame sequence against a digest file",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			frames, err := loadFrames(cmd.Context(), args[1:])
			if err != nil {
				return err
			}
			return a.verify(a.digestPath(args[0]), frames)
		},
	}
}

// record writes the de-duplicated hashes of frames to digest.
func (a *app) record(digest string, frames []frame) error {
	rm := a.manager(resources.WithReplay(replay.ModeRecord, nil))
	for _, f := range frames {
		rm.ObserveFrame(f.pixels)
	}

	var hashes []replay.Hash
	rm.Read(func(r resources.Reader) { hashes = r.ExpectedHashes() })
	if err := replay.SaveDigests(digest, hashes); err != nil {
		return err
	}
	a.print.Fprintf(a.out, "recorded %d distinct hashes from %d frames to %s\n",
		len(hashes), len(frames), digest)
	return nil
}

// verify checks frames against the hashes in digest and prints one
// outcome per frame. It returns errVerifyFailed on any Failure or EOF.
func (a *app) verify(digest string, frames []frame) error {
	expected, err := replay.LoadDigests(digest)
	if err != nil {
		return err
	}

	rm := a.manager(resources.WithReplay(replay.ModeVerify, expected))
	failed := 0
	for _, f := range frames {
		o := rm.ObserveFrame(f.pixels)
		if !replay.Passed(o) {
			failed++
		}
		fmt.Fprintf(a.out, "%-7s %s  %s\n", replay.Kind(o), f.path, o)
	}

	var pending int
	rm.Read(func(r resources.Reader) { pending = len(r.ExpectedHashes()) })
	if pending > 0 {
		pixhist.Logger().Warn("pixhist: recorded frames never replayed", "pending", pending)
	}

	if failed > 0 {
		return fmt.Errorf("%w: %s of %s frames", errVerifyFailed,
			a.print.Sprint(failed), a.print.Sprint(len(frames)))
	}
	a.print.Fprintf(a.out, "verified %d frames\n", len(frames))
	return nil
}

func (a *app) newExportCmd() *cobra.Command {
	var (
		frameCount int
		delayMS    int
		out        string
	)
	cmd := &cobra.Command{
		Use:   "export <image>",
		Short: "Slice a horizontal frame strip into a looping GIF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if frameCount < 1 {
				return fmt.Errorf("--frames must be >= 1, got %d", frameCount)
			}
			delay := a.settings.FrameDelay()
			if cmd.Flags().Changed("delay") {
				delay = time.Duration(delayMS) * time.Millisecond
			}

			w, h, px, err := resources.LoadImage(args[0])
			if err != nil {
				return err
			}
			if w%uint32(frameCount) != 0 {
				return fmt.Errorf("image width %d is not a multiple of %d frames", w, frameCount)
			}
			extent := history.NewExtent(w/uint32(frameCount), h, frameCount)

			rm := a.manager()
			id := a.ids.Next()
			rm.AddView(id, extent, px)
			defer rm.RemoveView(id)

			n, err := rm.SaveAnimation(id, out, delay, nil)
			if err != nil {
				return err
			}
			a.print.Fprintf(a.out, "wrote %d frames (%d pixels) to %s\n", frameCount, n, out)
			return nil
		},
	}
	cmd.Flags().IntVar(&frameCount, "frames", 1, "number of frames in the strip")
	cmd.Flags().IntVar(&delayMS, "delay", 0, "frame delay in milliseconds (default from settings)")
	cmd.Flags().StringVar(&out, "out", "", "output GIF path")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}
