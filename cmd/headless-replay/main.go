package main

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Garsondee/Galaxy-Pad/internal/config"
	"github.com/Garsondee/Galaxy-Pad/internal/pad"
	"github.com/Garsondee/Galaxy-Pad/internal/ripple"
)

type stepStats struct {
	index    int
	kind     string
	sendErr  error
	frames   int
	points   int
	errKinds map[string]int
}

type replayStats struct {
	steps     []stepStats
	frames    int
	clipped   int
	coverage  []int
	errKinds  map[string]int
	drawErrs  int
	lostLines int // transcript lines that failed to encode or write
}

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	var (
		cfgPath    string
		scriptPath string
		transcript string
		gap        time.Duration
		drain      time.Duration
	)
	cmd := &cobra.Command{
		Use:   "headless-replay",
		Short: "Replay a scripted message sequence against the pad worker",
		Long: `Sends each message of a script (YAML list or JSON lines of wire messages such as
"initialize" and {click: {x: 0, y: 0}}) to a worker running the ripple engine,
composites every returned frame and prints a report.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if scriptPath == "" {
				return fmt.Errorf("--script is required")
			}
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			reqs, err := loadScript(scriptPath)
			if err != nil {
				return err
			}

			var tw io.Writer
			if transcript != "" {
				f, err := os.Create(transcript)
				if err != nil {
					return fmt.Errorf("failed to create transcript: %w", err)
				}
				defer f.Close()
				tw = f
			}

			logger, err := config.NewLogger(os.Stderr, cfg.Log)
			if err != nil {
				return err
			}
			palette, err := cfg.LayerPalette()
			if err != nil {
				return err
			}
			engine := ripple.New(ripple.Options{
				Frames: cfg.Ripple.Frames,
				Radius: cfg.Ripple.Radius,
				Step:   cfg.Ripple.Step,
			}, logger.With("component", "engine"))
			worker := pad.NewWorker(engine,
				pad.WithLogger(logger.With("component", "worker")),
				pad.WithInboxSize(cfg.Protocol.Inbox),
				pad.WithOutboxSize(cfg.Protocol.Outbox),
			)

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			go worker.Run(ctx) //nolint:errcheck // returns only on cancel

			rs := replay(worker, pad.NewCompositor(), palette, reqs, gap, drain, tw)
			fmt.Fprintf(out, "=== Headless Replay Report ===\n")
			fmt.Fprintf(out, "script=%s messages=%d gap=%s drain=%s\n\n", scriptPath, len(reqs), gap, drain)
			printSteps(out, rs)
			printAggregate(out, rs, palette)
			return nil
		},
	}
	cmd.Flags().StringVarP(&cfgPath, "config", "c", "pad.yaml", "path to the YAML config file")
	cmd.Flags().StringVarP(&scriptPath, "script", "s", "", "message script (.yaml, .yml or .jsonl)")
	cmd.Flags().StringVar(&transcript, "transcript", "", "write every response as a JSON line to this file")
	cmd.Flags().DurationVar(&gap, "gap", 100*time.Millisecond, "time to collect responses after each message")
	cmd.Flags().DurationVar(&drain, "drain", 250*time.Millisecond, "extra collection time after the last message")
	return cmd
}

// loadScript reads wire messages from a YAML list or a JSON-lines file.
func loadScript(path string) ([]pad.Request, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jsonl", ".json":
		var reqs []pad.Request
		sc := bufio.NewScanner(bytes.NewReader(data))
		for sc.Scan() {
			line := bytes.TrimSpace(sc.Bytes())
			if len(line) == 0 {
				continue
			}
			reqs = append(reqs, pad.DecodeRequest(line))
		}
		if err := sc.Err(); err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", path, err)
		}
		return reqs, nil
	default:
		var msgs []any
		if err := yaml.Unmarshal(data, &msgs); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		reqs := make([]pad.Request, len(msgs))
		for i, m := range msgs {
			reqs[i] = pad.ParseRequest(m)
		}
		return reqs, nil
	}
}

// replay sends each request, then collects responses for gap. Responses are
// attributed to the latest message sent before they arrived.
func replay(w *pad.Worker, comp *pad.Compositor, palette pad.Palette, reqs []pad.Request, gap, drain time.Duration, transcript io.Writer) replayStats {
	rs := replayStats{errKinds: map[string]int{}}
	for i, req := range reqs {
		st := stepStats{index: i + 1, kind: pad.RequestKind(req), errKinds: map[string]int{}}
		st.sendErr = w.Send(req)
		wait := gap
		if i == len(reqs)-1 {
			wait += drain
		}
		collect(w, wait, func(r pad.Response) {
			tally(&st, &rs, comp, palette, r)
			if err := writeTranscript(transcript, r); err != nil {
				rs.lostLines++
			}
		})
		rs.steps = append(rs.steps, st)
	}
	rs.coverage = comp.LayerCoverage(palette)
	return rs
}

func collect(w *pad.Worker, d time.Duration, fn func(pad.Response)) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	for {
		select {
		case r := <-w.Responses():
			fn(r)
		case <-timer.C:
			for _, r := range w.Drain() {
				fn(r)
			}
			return
		}
	}
}

func tally(st *stepStats, rs *replayStats, comp *pad.Compositor, palette pad.Palette, r pad.Response) {
	switch r := r.(type) {
	case pad.LayersResponse:
		st.frames++
		st.points += r.Layers.Points()
		cols, err := palette.For(len(r.Layers))
		if err == nil {
			err = comp.DrawLayers(r.Layers, cols)
		}
		if err != nil {
			rs.drawErrs++
			return
		}
		rs.frames++
		rs.clipped += comp.Clipped()
	case pad.ErrResponse:
		kind := pad.ErrorReason(r.Err)
		st.errKinds[kind]++
		rs.errKinds[kind]++
	}
}

func writeTranscript(w io.Writer, r pad.Response) error {
	if w == nil {
		return nil
	}
	b, err := pad.EncodeResponse(r)
	if err != nil {
		return err
	}
	_, err = w.Write(append(b, '\n'))
	return err
}

func printSteps(out io.Writer, rs replayStats) {
	for _, st := range rs.steps {
		fmt.Fprintf(out, "[M=%03d] %-10s frames=%-3d points=%-6d errors=%s",
			st.index, st.kind, st.frames, st.points, joinCounts(st.errKinds))
		if st.sendErr != nil {
			fmt.Fprintf(out, " send_error=%q", st.sendErr.Error())
		}
		fmt.Fprintln(out)
	}
	fmt.Fprintln(out)
}

func printAggregate(out io.Writer, rs replayStats, palette pad.Palette) {
	fmt.Fprintln(out, "=== Aggregate ===")
	fmt.Fprintf(out, "frames_composited=%d draw_errors=%d clipped_points=%d\n", rs.frames, rs.drawErrs, rs.clipped)
	fmt.Fprintf(out, "errors=%s\n", joinCounts(rs.errKinds))
	if rs.lostLines > 0 {
		fmt.Fprintf(out, "transcript_lines_lost=%d\n", rs.lostLines)
	}
	fmt.Fprintln(out, "final_frame_pixels_by_layer:")
	for i, n := range rs.coverage {
		c := palette[i]
		fmt.Fprintf(out, "  layer %d  #%02x%02x%02x%02x  %d\n", i, c.R, c.G, c.B, c.A, n)
	}
}

func joinCounts(m map[string]int) string {
	if len(m) == 0 {
		return "none"
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s:%d", k, m[k])
	}
	return strings.Join(parts, ",")
}
