package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/arbor/pkg/alg/hashtable"
	"github.com/Sumatoshi-tech/arbor/pkg/dtree"
	"github.com/Sumatoshi-tech/arbor/pkg/vfs"
)

const (
	statCmdUse   = "stat <directory>"
	statCmdShort = "Summarize a directory by entry kind and extension"
	statArgCount = 1

	// noExtensionLabel stands in for files without an extension.
	noExtensionLabel = "(none)"
)

// NewStatCommand creates the stat subcommand.
func NewStatCommand() *cobra.Command {
	return &cobra.Command{
		Use:   statCmdUse,
		Short: statCmdShort,
		Args:  cobra.ExactArgs(statArgCount),
		RunE: func(_ *cobra.Command, args []string) error {
			return runStat(args[0], os.Stdout)
		},
	}
}

// extStat aggregates the files sharing one extension.
type extStat struct {
	files int
	bytes int64
}

// treeStats is the full aggregation of one mirrored directory.
type treeStats struct {
	dirs     int
	files    int
	bytes    int64
	maxDepth uint
	byExt    *hashtable.Map[string, extStat]
}

// runStat mirrors the directory, aggregates it and renders the summary.
func runStat(dir string, writer io.Writer) error {
	filesystem := vfs.New(slog.Default())

	mount, err := filesystem.LoadDirectory(dir)
	if err != nil {
		return fmt.Errorf("stat: %w", err)
	}

	stats := collectStats(filesystem, mount)

	root, err := filesystem.Entry(mount)
	if err != nil {
		return fmt.Errorf("stat: %w", err)
	}

	if _, err := fmt.Fprintf(writer, "%s: %d directories, %d files, %s\n",
		root.Path, stats.dirs, stats.files, humanize.IBytes(uint64(stats.bytes))); err != nil { //nolint:gosec // sizes are non-negative.
		return fmt.Errorf("stat: render: %w", err)
	}

	if _, err := fmt.Fprintf(writer, "deepest nesting: %d\n", stats.maxDepth); err != nil {
		return fmt.Errorf("stat: render: %w", err)
	}

	tree := filesystem.Tree()
	if _, err := fmt.Fprintf(writer, "arena utilization: %d/%d slots\n\n", tree.Len(), tree.Size()); err != nil {
		return fmt.Errorf("stat: render: %w", err)
	}

	if _, err := fmt.Fprintln(writer, renderExtTable(stats)); err != nil {
		return fmt.Errorf("stat: render: %w", err)
	}

	return nil
}

// collectStats walks the subtree of mount once and aggregates counters.
func collectStats(filesystem *vfs.FS, mount vfs.ID) *treeStats {
	stats := &treeStats{byExt: hashtable.NewMap[string, extStat](hashtable.HashString)}
	tree := filesystem.Tree()
	mountDepth := tree.Depth(mount)

	var walk func(id vfs.ID)

	walk = func(id vfs.ID) {
		for child := tree.FirstChild(id); child != dtree.Root; child = tree.NextSibling(child) {
			entry := tree.At(child)

			if depth := tree.Depth(child) - mountDepth; depth > stats.maxDepth {
				stats.maxDepth = depth
			}

			if entry.Dir {
				stats.dirs++

				walk(child)

				continue
			}

			stats.files++
			stats.bytes += entry.Size

			ext := filepath.Ext(entry.Name)
			if ext == "" {
				ext = noExtensionLabel
			}

			agg, _ := stats.byExt.Get(ext)
			agg.files++
			agg.bytes += entry.Size
			stats.byExt.Put(ext, agg)
		}
	}

	walk(mount)

	return stats
}

// renderExtTable renders the per-extension breakdown sorted by total size.
func renderExtTable(stats *treeStats) string {
	type row struct {
		ext string
		agg extStat
	}

	rows := make([]row, 0, stats.byExt.Len())
	for ext, agg := range stats.byExt.All() {
		rows = append(rows, row{ext: ext, agg: agg})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].agg.bytes != rows[j].agg.bytes {
			return rows[i].agg.bytes > rows[j].agg.bytes
		}

		return rows[i].ext < rows[j].ext
	})

	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.AppendHeader(table.Row{"Extension", "Files", "Size"})

	for _, r := range rows {
		tbl.AppendRow(table.Row{r.ext, r.agg.files, humanize.IBytes(uint64(r.agg.bytes))}) //nolint:gosec // sizes are non-negative.
	}

	tbl.AppendFooter(table.Row{"Total", stats.files, humanize.IBytes(uint64(stats.bytes))}) //nolint:gosec // sizes are non-negative.

	return tbl.Render()
}
