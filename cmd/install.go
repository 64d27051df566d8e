package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jwalton/gchalk"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/blocklift/blocklift/internals/downloadmgr"
)

func init() {
	rootCmd.AddCommand(installCmd)
}

var installCmd = &cobra.Command{
	Use:   "install <version>",
	Short: "Download & verify everything a version needs",
	Long: `Downloads the client jar, libraries, assets and logging config of a
version. Partial downloads resume, finished files are skipped, so rerunning
after an interruption picks up where it stopped.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		instance := newInstance()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		mgr := downloadmgr.New()
		mgr.Client = instance.HTTP
		mgr.Concurrency = viper.GetInt("downloadConcurrency")

		render := newProgressRenderer()
		mgr.OnProgress = render.update

		err := instance.DownloadVersion(ctx, args[0], mgr)
		render.finish(mgr.Progress())

		switch mgr.Progress().Status {
		case downloadmgr.StatusPaused:
			fmt.Println(gchalk.Yellow("Paused. Run install again to resume."))
			return nil
		case downloadmgr.StatusCompleted:
			fmt.Println(gchalk.Green("Version " + args[0] + " is ready to launch"))
			return nil
		default:
			return err
		}
	},
}

// progressRenderer writes a single status line, throttled so the terminal
// is not flooded by byte level updates
type progressRenderer struct {
	lastPrint time.Time
	isTTY     bool
}

func newProgressRenderer() *progressRenderer {
	return &progressRenderer{isTTY: interactive()}
}

func (r *progressRenderer) update(p downloadmgr.Progress) {
	if time.Since(r.lastPrint) < 500*time.Millisecond {
		return
	}
	r.lastPrint = time.Now()
	r.print(p, r.isTTY)
}

func (r *progressRenderer) finish(p downloadmgr.Progress) {
	r.print(p, false)
}

func (r *progressRenderer) print(p downloadmgr.Progress, sameLine bool) {
	line := fmt.Sprintf(
		"%3.0f%% │ %d/%d files │ %s / %s │ %s/s",
		p.Percentage,
		p.CompletedFiles,
		p.TotalFiles,
		humanize.Bytes(uint64(p.DownloadedBytes)),
		humanize.Bytes(uint64(p.TotalBytes)),
		humanize.Bytes(uint64(p.BytesPerSecond)),
	)
	if p.ETA > 0 {
		line += fmt.Sprintf(" │ %s left", p.ETA.Round(time.Second))
	}

	if sameLine {
		fmt.Print("\r\033[K" + line)
	} else {
		fmt.Println(line)
	}
}
