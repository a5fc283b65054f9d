// Package commands implements CLI command handlers for arbor.
package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/arbor/internal/config"
	"github.com/Sumatoshi-tech/arbor/pkg/vfs"
)

const (
	scanCmdUse   = "scan <directory>"
	scanCmdShort = "Mirror a directory and print its tree"
	scanArgCount = 1

	flagConfig     = "config"
	flagMaxDepth   = "max-depth"
	flagDirsOnly   = "dirs-only"
	flagShowHidden = "show-hidden"
	flagFormat     = "format"
	flagNoColor    = "no-color"

	indentStep = "  "
)

// ScanOptions holds the effective settings of one scan invocation after
// config and flags are merged.
type ScanOptions struct {
	ConfigPath string
	MaxDepth   int
	DirsOnly   bool
	ShowHidden bool
	Format     string
	NoColor    bool
}

// NewScanCommand creates the scan subcommand.
func NewScanCommand() *cobra.Command {
	opts := &ScanOptions{}

	cmd := &cobra.Command{
		Use:   scanCmdUse,
		Short: scanCmdShort,
		Args:  cobra.ExactArgs(scanArgCount),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := mergeScanConfig(opts, cmd.Flags()); err != nil {
				return err
			}

			return runScan(args[0], opts, os.Stdout)
		},
	}

	cmd.Flags().StringVar(&opts.ConfigPath, flagConfig, "", "config file path")
	cmd.Flags().IntVar(&opts.MaxDepth, flagMaxDepth, config.DefaultScanMaxDepth, "depth limit, 0 for unlimited")
	cmd.Flags().BoolVar(&opts.DirsOnly, flagDirsOnly, false, "render directories only")
	cmd.Flags().BoolVar(&opts.ShowHidden, flagShowHidden, false, "include dotfiles")
	cmd.Flags().StringVar(&opts.Format, flagFormat, config.DefaultScanFormat, "output format: text or yaml")
	cmd.Flags().BoolVar(&opts.NoColor, flagNoColor, false, "disable colored output")

	return cmd
}

// mergeScanConfig fills options not set on the command line from the
// configuration file and environment.
func mergeScanConfig(opts *ScanOptions, flags *pflag.FlagSet) error {
	cfg, err := config.LoadConfig(opts.ConfigPath)
	if err != nil {
		return err
	}

	if !flags.Changed(flagMaxDepth) {
		opts.MaxDepth = cfg.Scan.MaxDepth
	}

	if !flags.Changed(flagDirsOnly) {
		opts.DirsOnly = cfg.Scan.DirsOnly
	}

	if !flags.Changed(flagShowHidden) {
		opts.ShowHidden = cfg.Scan.ShowHidden
	}

	if !flags.Changed(flagFormat) {
		opts.Format = cfg.Scan.Format
	}

	if !flags.Changed(flagNoColor) {
		opts.NoColor = !cfg.Output.Color
	}

	return nil
}

// runScan mirrors the directory and renders it to writer.
func runScan(dir string, opts *ScanOptions, writer io.Writer) error {
	if opts.Format != config.FormatText && opts.Format != config.FormatYAML {
		return fmt.Errorf("format %q: %w", opts.Format, config.ErrInvalidFormat)
	}

	filesystem := vfs.New(slog.Default())

	mount, err := filesystem.LoadDirectory(dir)
	if err != nil {
		return fmt.Errorf("scan: %w", err)
	}

	if opts.Format == config.FormatYAML {
		return renderYAML(filesystem, mount, opts, writer)
	}

	return renderText(filesystem, mount, opts, writer)
}

// hidden reports whether an entry is a dotfile.
func hidden(entry *vfs.Entry) bool {
	return strings.HasPrefix(entry.Name, ".")
}

func renderText(filesystem *vfs.FS, mount vfs.ID, opts *ScanOptions, writer io.Writer) error {
	dirStyle := color.New(color.FgBlue, color.Bold)
	sizeStyle := color.New(color.FgHiBlack)

	if opts.NoColor {
		dirStyle.DisableColor()
		sizeStyle.DisableColor()
	}

	root, err := filesystem.Entry(mount)
	if err != nil {
		return err
	}

	if _, err := dirStyle.Fprintln(writer, root.Path); err != nil {
		return fmt.Errorf("scan: render: %w", err)
	}

	var walk func(id vfs.ID, level int) error

	walk = func(id vfs.ID, level int) error {
		for child := filesystem.Begin(id); child != vfs.Root; child = filesystem.Next(child) {
			entry, entryErr := filesystem.Entry(child)
			if entryErr != nil {
				return entryErr
			}

			if hidden(entry) && !opts.ShowHidden {
				continue
			}

			if !entry.Dir && opts.DirsOnly {
				continue
			}

			indent := strings.Repeat(indentStep, level)

			if entry.Dir {
				if _, printErr := dirStyle.Fprintf(writer, "%s%s/\n", indent, entry.Name); printErr != nil {
					return fmt.Errorf("scan: render: %w", printErr)
				}

				if opts.MaxDepth == 0 || level < opts.MaxDepth {
					if walkErr := walk(child, level+1); walkErr != nil {
						return walkErr
					}
				}

				continue
			}

			size := sizeStyle.Sprintf("(%s)", humanize.IBytes(uint64(entry.Size))) //nolint:gosec // sizes are non-negative.
			if _, printErr := fmt.Fprintf(writer, "%s%s %s\n", indent, entry.Name, size); printErr != nil {
				return fmt.Errorf("scan: render: %w", printErr)
			}
		}

		return nil
	}

	return walk(mount, 1)
}

// yamlEntry is the YAML projection of one mirror entry.
type yamlEntry struct {
	Name     string      `yaml:"name"`
	Size     string      `yaml:"size,omitempty"`
	Children []yamlEntry `yaml:"children,omitempty"`
}

func renderYAML(filesystem *vfs.FS, mount vfs.ID, opts *ScanOptions, writer io.Writer) error {
	var build func(id vfs.ID, level int) (yamlEntry, error)

	build = func(id vfs.ID, level int) (yamlEntry, error) {
		entry, err := filesystem.Entry(id)
		if err != nil {
			return yamlEntry{}, err
		}

		node := yamlEntry{Name: entry.Name}

		if !entry.Dir {
			node.Size = humanize.IBytes(uint64(entry.Size)) //nolint:gosec // sizes are non-negative.

			return node, nil
		}

		if opts.MaxDepth != 0 && level >= opts.MaxDepth {
			return node, nil
		}

		for child := filesystem.Begin(id); child != vfs.Root; child = filesystem.Next(child) {
			childEntry, childErr := filesystem.Entry(child)
			if childErr != nil {
				return yamlEntry{}, childErr
			}

			if hidden(childEntry) && !opts.ShowHidden {
				continue
			}

			if !childEntry.Dir && opts.DirsOnly {
				continue
			}

			childNode, buildErr := build(child, level+1)
			if buildErr != nil {
				return yamlEntry{}, buildErr
			}

			node.Children = append(node.Children, childNode)
		}

		return node, nil
	}

	root, err := build(mount, 0)
	if err != nil {
		return err
	}

	encoder := yaml.NewEncoder(writer)

	if err := encoder.Encode(root); err != nil {
		return fmt.Errorf("scan: encode yaml: %w", err)
	}

	if err := encoder.Close(); err != nil {
		return fmt.Errorf("scan: encode yaml: %w", err)
	}

	return nil
}
