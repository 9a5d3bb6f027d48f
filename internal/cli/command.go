package cli

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/ironsheep/map-translate/internal/config"
	"github.com/ironsheep/map-translate/internal/imaging"
	"github.com/ironsheep/map-translate/internal/mapproc"
	"github.com/ironsheep/map-translate/internal/server"
	"github.com/ironsheep/map-translate/internal/translit"
)

// app carries state shared by the subcommands once configuration is loaded.
type app struct {
	flags *Flags
	v     *viper.Viper
	cfg   *config.Config
	log   *slog.Logger
}

// CreateRootCommand creates and configures the root cobra command.
// Settings are read into v, so tests can pass a fresh viper.New().
func CreateRootCommand(flags *Flags, v *viper.Viper, build BuildInfo) *cobra.Command {
	a := &app{flags: flags, v: v}

	rootCmd := &cobra.Command{
		Use:   "map-translate",
		Short: "Translate Cyrillic map labels into Romanian",
		Long: `map-translate reads Cyrillic labels (Russian or Moldovan Cyrillic) from
scanned maps and renders them in Latin-script Romanian.

Examples:
  map-translate process harta.png            # OCR, translate, annotate and export
  map-translate process -j 4 maps/*.tif      # Several maps in parallel
  map-translate translate "цинутул Бэлць"    # Translate text
  echo "Режиуня" | map-translate translate   # One translation per input line
  map-translate serve                        # MCP server on stdin/stdout`,
		Version:       build.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}
	rootCmd.SetVersionTemplate(fmt.Sprintf("map-translate %s\n  Build time: %s\n  Git commit: %s\n",
		build.Version, build.BuildTime, build.GitCommit))

	rootCmd.PersistentFlags().StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/"+config.FileName+".yaml)")
	rootCmd.PersistentFlags().BoolVar(&flags.Debug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&flags.Clean, "clean", false, "Strip non-ASCII and punctuation from translations")

	rootCmd.AddCommand(
		a.newProcessCommand(),
		a.newTranslateCommand(),
		a.newCleanCommand(),
		a.newServeCommand(),
	)

	bindFlagsToViper(rootCmd, v)

	return rootCmd
}

func bindFlagsToViper(root *cobra.Command, v *viper.Viper) {
	persistent := root.PersistentFlags()
	v.BindPFlag("log.debug", persistent.Lookup("debug"))
	v.BindPFlag("translate.clean", persistent.Lookup("clean"))

	process, _, err := root.Find([]string{"process"})
	if err != nil {
		return
	}
	v.BindPFlag("output.dir", process.Flags().Lookup("output"))
	v.BindPFlag("output.debug", process.Flags().Lookup("debug-image"))
	v.BindPFlag("ocr.languages", process.Flags().Lookup("lang"))
	v.BindPFlag("ocr.level", process.Flags().Lookup("level"))
	v.BindPFlag("ocr.min_confidence", process.Flags().Lookup("min-confidence"))
}

// init loads configuration and builds the logger. It runs before every subcommand.
func (a *app) init(cmd *cobra.Command) error {
	if err := config.Init(a.v, a.flags.CfgFile); err != nil {
		return err
	}
	cfg, err := config.Load(a.v)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = NewLogger(cmd.ErrOrStderr(), cfg.Log.Debug)

	if used := a.v.ConfigFileUsed(); used != "" {
		a.log.Debug("using config file", "path", used)
	}
	return nil
}

func (a *app) newProcessCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "process <image>...",
		Short: "Detect, translate and annotate the labels on map images",
		Long: `process runs OCR over each map, translates every detected label and writes
a results_<timestamp> directory containing visualization_translated.png,
results.csv, report.txt and (unless --debug-image=false) debug_enhanced.png.`,
		Args: cobra.MinimumNArgs(1),
		RunE: a.runProcess,
	}

	cmd.Flags().StringVarP(&a.flags.OutputDir, "output", "o", "", "Directory for results (default is next to each image)")
	cmd.Flags().StringSliceVar(&a.flags.Languages, "lang", a.flags.Languages, "Tesseract languages")
	cmd.Flags().StringVar(&a.flags.Level, "level", a.flags.Level, "OCR grouping: word, line or block")
	cmd.Flags().Float64Var(&a.flags.MinConfidence, "min-confidence", 0, "Drop OCR fragments below this confidence (0 to 1)")
	cmd.Flags().IntVarP(&a.flags.Jobs, "jobs", "j", a.flags.Jobs, "Number of maps processed in parallel")
	cmd.Flags().BoolVar(&a.flags.DebugImage, "debug-image", a.flags.DebugImage, "Save the enhanced image used for OCR")

	return cmd
}

func (a *app) runProcess(cmd *cobra.Command, paths []string) error {
	jobs := a.flags.Jobs
	if jobs < 1 {
		jobs = 1
	}

	rec := a.cfg.Recognizer()
	cache := imaging.NewImageCache()
	out := cmd.OutOrStdout()
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(jobs)
	for _, path := range paths {
		g.Go(func() error {
			defer cache.Evict(path)

			p, err := mapproc.New(path, mapproc.Options{
				Recognizer: rec,
				Cache:      cache,
				Logger:     a.log,
				OutputRoot: a.cfg.Output.Dir,
				Debug:      a.cfg.Output.Debug,
				Contrast:   a.cfg.Preprocess.Contrast,
				CleanText:  a.cfg.Translate.Clean,
				Style:      a.cfg.Overlay,
			})
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}

			points, err := p.Process(ctx)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}

			mu.Lock()
			defer mu.Unlock()
			_, err = fmt.Fprintf(out, "%s: %d points -> %s\n", path, len(points), p.ResultsDir())
			return err
		})
	}
	return g.Wait()
}

func (a *app) newTranslateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "translate [text...]",
		Short: "Translate Cyrillic text into Romanian",
		Long: `translate joins its arguments with spaces and prints the translation.
Without arguments it translates standard input line by line.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			tr := translit.Default()
			return eachInput(cmd, args, func(s string) string {
				out := tr.Translate(s)
				if a.cfg.Translate.Clean {
					out = tr.CleanText(out)
				}
				return out
			})
		},
	}
}

func (a *app) newCleanCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clean [text...]",
		Short: "Strip everything except ASCII letters, digits, whitespace and . , ; : -",
		RunE: func(cmd *cobra.Command, args []string) error {
			return eachInput(cmd, args, translit.CleanText)
		},
	}
}

func (a *app) newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server on stdin and stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := a.cfg.Recognizer().GetInfo()
			a.log.Info("starting MCP server",
				"ocr_backend", info.Backend,
				"ocr_available", info.Available,
				"tesseract", info.Version,
				"languages", strings.Join(info.Languages, "+"))
			srv := server.New(a.cfg, a.log)
			return srv.Serve(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

// eachInput applies fn to the joined args, or to every stdin line when args is empty.
func eachInput(cmd *cobra.Command, args []string, fn func(string) string) error {
	out := cmd.OutOrStdout()
	if len(args) > 0 {
		_, err := fmt.Fprintln(out, fn(strings.Join(args, " ")))
		return err
	}
	return eachLine(cmd.InOrStdin(), out, fn)
}

func eachLine(r io.Reader, w io.Writer, fn func(string) string) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if _, err := fmt.Fprintln(w, fn(scanner.Text())); err != nil {
			return err
		}
	}
	return scanner.Err()
}
