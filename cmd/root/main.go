package root

import (
	"fmt"
	"io"
	"os"
	"path"
	"runtime"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/pg9182/srcasset/internal"
	"github.com/pg9182/srcasset/internal/config"
	"github.com/pg9182/srcasset/internal/logger"
	"github.com/pg9182/srcasset/vpk"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"
)

var Flags struct {
	Config    string
	LogLevel  string
	VPK       string
	VPKPrefix string
	Threads   int
}

// Config is the loaded configuration file, or the defaults.
var Config = config.Default()

var Command = &cobra.Command{
	Use:   "srcasset",
	Short: "Inspects Source engine maps and textures.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if err := setup(cmd); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(2)
		}
	},
}

var GroupAsset = &cobra.Group{
	ID:    "asset",
	Title: "Asset Commands:",
}

var GroupCatalog = &cobra.Group{
	ID:    "catalog",
	Title: "Catalog Commands:",
}

// Parent commands for each asset type.
var (
	BSPCommand = &cobra.Command{
		GroupID: GroupAsset.ID,
		Use:     "bsp",
		Short:   "Inspects VBSP maps",
	}
	VTFCommand = &cobra.Command{
		GroupID: GroupAsset.ID,
		Use:     "vtf",
		Short:   "Inspects and converts VTF textures",
	}
	VPKCommand = &cobra.Command{
		GroupID: GroupAsset.ID,
		Use:     "vpk",
		Short:   "Inspects Respawn VPK archives",
	}
	CatalogCommand = &cobra.Command{
		GroupID: GroupCatalog.ID,
		Use:     "catalog",
		Short:   "Records maps and textures in a SQLite catalog",
	}
)

func init() {
	Command.AddGroup(GroupAsset, GroupCatalog)
	Command.AddCommand(BSPCommand, VTFCommand, VPKCommand, CatalogCommand)
	Command.PersistentFlags().StringVar(&Flags.Config, "config", "", "the config file to use (default is srcasset/config.yaml in the user config dir)")
	Command.PersistentFlags().StringVar(&Flags.LogLevel, "log-level", "off", "log to stderr at the provided level (debug, info, warn, error, off)")
	Command.PersistentFlags().StringVar(&Flags.VPK, "vpk", "", "read input files from the provided _dir.vpk instead of the filesystem")
	Command.PersistentFlags().StringVar(&Flags.VPKPrefix, "vpk-prefix", "english", "the vpk locale prefix to use")
	Command.PersistentFlags().IntVarP(&Flags.Threads, "threads", "j", runtime.NumCPU(), "number of threads to use for decompression (default is cpu count)")
}

func setup(cmd *cobra.Command) error {
	var err error
	if Flags.Config != "" {
		Config, err = config.Load(Flags.Config, false)
	} else if fn, perr := config.DefaultPath(); perr == nil {
		Config, err = config.Load(fn, true)
	}
	if err != nil {
		return err
	}

	Default(cmd, "log-level", Config.LogLevel)
	Default(cmd, "vpk-prefix", Config.VPKPrefix)
	if Config.Threads != 0 {
		Default(cmd, "threads", strconv.Itoa(Config.Threads))
	}

	if err := logger.Init(os.Stderr, Flags.LogLevel); err != nil {
		return err
	}
	if Flags.Threads < 1 {
		Flags.Threads = 1
	}
	if Flags.Threads > runtime.NumCPU() {
		runtime.GOMAXPROCS(Flags.Threads)
	}
	logger.Debug("loaded config", "log_level", Flags.LogLevel, "vpk_prefix", Flags.VPKPrefix, "threads", Flags.Threads)
	return nil
}

// Default sets the flag name on cmd to value if it wasn't set explicitly.
func Default(cmd *cobra.Command, name, value string) {
	if err := setDefault(cmd.Flags(), name, value); err != nil {
		fmt.Fprintf(os.Stderr, "error: config: %v\n", err)
		os.Exit(2)
	}
}

func setDefault(set *pflag.FlagSet, name, value string) error {
	f := set.Lookup(name)
	if f == nil || f.Changed || value == "" {
		return nil
	}
	if err := f.Value.Set(value); err != nil {
		return fmt.Errorf("invalid value %q for --%s: %w", value, name, err)
	}
	return nil
}

var archive struct {
	once sync.Once
	a    *vpk.Archive
	err  error
}

// Archive opens the VPK selected with --vpk. It is opened once per process.
func Archive() (*vpk.Archive, error) {
	if Flags.VPK == "" {
		return nil, fmt.Errorf("no vpk specified")
	}
	archive.once.Do(func() {
		archive.a, archive.err = OpenVPK(Flags.VPK)
	})
	return archive.a, archive.err
}

// OpenVPK opens the VPK at fn using the configured prefix and thread count.
func OpenVPK(fn string) (*vpk.Archive, error) {
	logger.Info("opening vpk", "path", fn, "prefix", Flags.VPKPrefix)
	a, err := vpk.Open(fn, Flags.VPKPrefix)
	if err != nil {
		return nil, fmt.Errorf("open vpk: %w", err)
	}
	a.Parallel = Flags.Threads
	return a, nil
}

// ReadInput reads the named input file from the VPK if --vpk is set, or from
// the filesystem otherwise.
func ReadInput(name string) ([]byte, error) {
	if Flags.VPK == "" {
		return os.ReadFile(name)
	}
	a, err := Archive()
	if err != nil {
		return nil, err
	}
	logger.Debug("reading from vpk", "name", name)
	return a.ReadFileFold(name)
}

// ArgInput registers completions for input files with the provided extension
// for the first n arguments (-1 for all).
func ArgInput(cmd *cobra.Command, n int, ext string) {
	cmd.ValidArgsFunction = func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if n >= 0 && len(args) >= n {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		if Flags.VPK == "" {
			return []string{strings.TrimPrefix(ext, ".")}, cobra.ShellCompDirectiveFilterFileExt
		}
		a, err := Archive()
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		var cs []string
		for _, f := range a.Dir.File {
			if path.Ext(f.Path) == ext && strings.HasPrefix(f.Path, toComplete) {
				cs = append(cs, f.Path)
			}
		}
		slices.Sort(cs)
		return cs, cobra.ShellCompDirectiveNoFileComp
	}
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

// Output opens the output file fn, or stdout if it is empty or "-". If binary
// is set, it refuses to write to stdout if it is a terminal.
func Output(fn string, binary bool) (io.WriteCloser, error) {
	if fn == "" || fn == "-" {
		if binary && term.IsTerminal(int(os.Stdout.Fd())) {
			return nil, fmt.Errorf("refusing to write binary data to a terminal (use -o)")
		}
		return nopWriteCloser{os.Stdout}, nil
	}
	f, err := os.OpenFile(fn, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0666)
	if err != nil {
		return nil, fmt.Errorf("create output file: %w", err)
	}
	return f, nil
}

// FlagIncludeExclude adds --exclude and --include flags, returning the filter
// they populate.
func FlagIncludeExclude(cmd *cobra.Command, short bool) *internal.Filter {
	var f internal.Filter
	var (
		ExcludeDoc = "Excludes files or directories matching the provided glob (anchor to the start with /)"
		IncludeDoc = "Negates --exclude for files or directories matching the provided glob (if only includes are provided, it excludes everything else)"
	)
	if short {
		cmd.Flags().StringSliceVarP(&f.Exclude, "exclude", "e", nil, ExcludeDoc)
		cmd.Flags().StringSliceVarP(&f.Include, "include", "E", nil, IncludeDoc)
	} else {
		cmd.Flags().StringSliceVar(&f.Exclude, "exclude", nil, ExcludeDoc)
		cmd.Flags().StringSliceVar(&f.Include, "include", nil, IncludeDoc)
	}
	return &f
}
