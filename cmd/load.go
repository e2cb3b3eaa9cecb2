package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/angrysky56/esaf-framework-sub001/internal/dataset"
	"github.com/angrysky56/esaf-framework-sub001/internal/session"
)

// expandPaths resolves globs, deduplicates, and sorts the matched files.
func expandPaths(args []string) []string {
	var files []string
	seen := map[string]struct{}{}
	for _, arg := range args {
		matches, _ := filepath.Glob(arg)
		if len(matches) == 0 {
			// treat as literal path if exists
			if _, err := os.Stat(arg); err == nil {
				matches = []string{arg}
			}
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	sort.Strings(files)
	return files
}

// loadSession reads every matched file concurrently, then ingests them into
// a fresh session in sorted order so item ordering is deterministic.
func loadSession(args []string) (*session.Session, error) {
	files := expandPaths(args)
	if len(files) == 0 {
		return nil, fmt.Errorf("no input files matched")
	}

	payloads := make([][]byte, len(files))
	var g errgroup.Group
	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}
			payloads[i] = data
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sess := session.New(
		session.WithLogger(logger),
		session.WithPreviewTokens(activeConfig().PreviewTokenLimit),
	)
	for i, path := range files {
		sess.Ingest(filepath.Base(path), dataset.BytesContent(payloads[i]))
	}
	return sess, nil
}
