package text

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"sigs.k8s.io/yaml"

	"github.com/olusolaa/helm-guard/internal/core/domain"
	"github.com/olusolaa/helm-guard/internal/core/ports"
	"github.com/olusolaa/helm-guard/pkg/compare"
)

const (
	ReporterTypeText = "text"
	maxValueLen      = 100
)

type Config struct {
	NoColor     bool `mapstructure:"no_color" yaml:"no_color"`
	ShowMatches bool `mapstructure:"show_matches" yaml:"show_matches"`
}

type Reporter struct {
	config  Config
	writer  io.Writer
	palette palette
	logger  ports.Logger
}

// palette holds per-reporter colors. Plain palettes disable their own colors
// and leave color.NoColor untouched.
type palette struct {
	red, yellow, green, cyan, bold *color.Color
}

func newPalette(plain bool) palette {
	p := palette{
		red:    color.New(color.FgRed),
		yellow: color.New(color.FgYellow),
		green:  color.New(color.FgGreen),
		cyan:   color.New(color.FgCyan),
		bold:   color.New(color.Bold),
	}
	if plain {
		for _, c := range []*color.Color{p.red, p.yellow, p.green, p.cyan, p.bold} {
			c.DisableColor()
		}
	}
	return p
}

type Option func(*Reporter)

func WithWriter(w io.Writer) Option {
	return func(r *Reporter) {
		r.writer = w
	}
}

// NewReporter colors output only when NoColor is unset and the writer is a
// terminal.
func NewReporter(cfg Config, logger ports.Logger, opts ...Option) (*Reporter, error) {
	r := &Reporter{
		config: cfg,
		writer: os.Stdout,
		logger: logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.palette = newPalette(cfg.NoColor || !isTerminal(r.writer))
	return r, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	stat, err := f.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) != 0
}

func (r *Reporter) Type() string {
	return ReporterTypeText
}

func (r *Reporter) Report(ctx context.Context, report *domain.Report) error {
	red := r.palette.red.SprintFunc()
	yellow := r.palette.yellow.SprintFunc()
	green := r.palette.green.SprintFunc()
	cyan := r.palette.cyan.SprintFunc()
	bold := r.palette.bold.SprintFunc()

	w := r.writer
	fmt.Fprintln(w, "Helm Drift Report")
	fmt.Fprintln(w, "=================")
	fmt.Fprintf(w, "Chart: %s  Namespace: %s  Mode: %s  Strict: %t\n",
		report.Config.HelmChart, report.Config.Namespace, report.Config.Mode, report.Config.StrictMode)
	fmt.Fprintf(w, "Compared kinds: %s\n\n", strings.Join(report.Selection.ComparedKinds, ", "))

	for _, res := range report.Results {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if res.Status == domain.StatusMatch && !r.config.ShowMatches {
			continue
		}

		status := string(res.Status)
		switch res.Status {
		case domain.StatusMatch:
			status = green(status)
		case domain.StatusDrift:
			status = yellow(status)
		default:
			status = red(status)
		}
		line := fmt.Sprintf("%s %s", bold(res.Resource.Key()), status)
		if res.Informational() {
			line += " " + cyan("(cluster, informational)")
		}
		fmt.Fprintln(w, line)

		for _, d := range res.Differences {
			marker := yellow("~")
			if d.Action == domain.ActionFail {
				marker = red("x")
			}
			fmt.Fprintf(w, "  %s %s\n", marker, d.Path.Display())
			fmt.Fprintf(w, "      desired: %s\n", formatValue(d.DesiredValue))
			fmt.Fprintf(w, "      live:    %s\n", formatValue(d.LiveValue))
		}
	}

	s := report.Summary
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "\nSummary:")
	fmt.Fprintln(tw, "-------")
	fmt.Fprintf(tw, "Total Resources:\t%d\n", s.Total)
	fmt.Fprintf(tw, "Matched:\t%s\n", green(s.Matched))
	fmt.Fprintf(tw, "Drifted:\t%s\n", yellow(s.Drifted))
	fmt.Fprintf(tw, "Missing live:\t%s\n", red(s.MissingLive))
	fmt.Fprintf(tw, "Missing in chart:\t%s\n", red(s.MissingHelm))
	fmt.Fprintf(tw, "Warnings:\t%s\n", yellow(s.Warnings))
	fmt.Fprintf(tw, "Failures:\t%s\n", red(s.Failures))
	if s.ClusterScoped > 0 {
		fmt.Fprintf(tw, "Cluster-scoped (informational):\t%s\n", cyan(s.ClusterScoped))
	}
	fmt.Fprintf(tw, "Suppressed platform defaults:\t%d\n", report.Normalization.TotalSuppressed)
	if err := tw.Flush(); err != nil {
		return err
	}

	if report.ExitCode() == domain.ExitCodeClean {
		fmt.Fprintln(w, green("All resources match"))
	}
	r.logger.Debugf(ctx, "Text report written for run %s", report.RunID)
	return nil
}

// formatValue renders one side of a difference on a single line.
func formatValue(value any) string {
	if compare.IsUndefined(value) {
		return "<absent>"
	}
	var str string
	switch v := value.(type) {
	case nil:
		str = "null"
	case string:
		str = fmt.Sprintf("%q", v)
	case map[string]any, []any:
		out, err := yaml.Marshal(v)
		if err != nil {
			str = fmt.Sprintf("%v", v)
			break
		}
		str = strings.Join(strings.Split(strings.TrimSpace(string(out)), "\n"), " | ")
	default:
		str = fmt.Sprintf("%v", v)
	}
	return truncate(str, maxValueLen)
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-3]) + "..."
}
