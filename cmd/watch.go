package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/angrysky56/esaf-framework-sub001/internal/session"
	"github.com/angrysky56/esaf-framework-sub001/internal/utils"
	"github.com/angrysky56/esaf-framework-sub001/internal/watch"
)

var (
	watchAgent    string
	watchExisting bool
)

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Watch a directory and ingest data files as they appear",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := activeConfig()
		dir := c.DataDir
		if len(args) == 1 {
			dir = args[0]
		}
		if dir == "" {
			return fmt.Errorf("no directory given and data_dir is not configured")
		}
		if err := utils.EnsureDir(dir); err != nil {
			return fmt.Errorf("create watch dir: %w", err)
		}

		sess := session.New(
			session.WithLogger(logger),
			session.WithPreviewTokens(c.PreviewTokenLimit),
		)
		reg := newRegistry()
		ctx := cmd.Context()

		w, err := watch.New(dir, sess,
			watch.WithLogger(logger),
			watch.WithSettle(time.Duration(c.WatchDebounceMs)*time.Millisecond),
			watch.WithOnIngest(func(id, path string) {
				fmt.Printf("✓ Ingested %s\n", filepath.Base(path))
				if watchAgent == "" {
					return
				}
				reg.AddTask(id, "analyze "+filepath.Base(path))
				res, err := reg.Run(ctx, sess, watchAgent, "watched file "+filepath.Base(path))
				reg.RemoveTask(id)
				if err != nil {
					fmt.Fprintf(os.Stderr, "⚠ Warning: %v\n", err)
					return
				}
				fmt.Println(res.Markdown())
			}))
		if err != nil {
			return err
		}

		if watchExisting {
			n, err := w.IngestExisting()
			if err != nil {
				return err
			}
			fmt.Printf("✓ Ingested %d existing file(s)\n", n)
		}

		if err := w.Start(ctx); err != nil {
			return err
		}
		fmt.Printf("Watching %s (ctrl-c to stop)\n", dir)

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		w.Stop()

		st := w.Stats()
		fmt.Printf("\n✓ Stopped: %d ingested, %d error(s)\n", st.Ingested, st.Errors)
		for _, rec := range sess.RecentResults(c.HistoryLimit) {
			fmt.Printf("  %s %s: %s\n", rec.Time.Format(time.RFC3339), rec.Agent, rec.Result.Kind())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().StringVarP(&watchAgent, "agent", "a", "", "agent to run after each ingest (empty = ingest only)")
	watchCmd.Flags().BoolVar(&watchExisting, "existing", false, "also ingest files already in the directory")
}
