// Command astrocalc — консольный калькулятор: восход и закат, расстояния и азимуты,
// юлианские даты и разбор TLE.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/lipgloss"

	"github.com/art-injener/flatland-astro/internal/config"
)

// errUsage — неверный вызов, справка уже напечатана.
var errUsage = errors.New("usage")

// Стили вывода.
var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#9D4EDD"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("60")).Width(14)
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#E0AAFF"))
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#E84A27"))
)

const usageText = `usage: astrocalc [-config file] [-log-level level] <command> [flags]

commands:
  sun       sunrise and sunset for an observer
  distance  great-circle distance between two points
  bearing   initial bearing between two points
  tle       parse two-line element sets
  julian    julian date conversions and seasons
`

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, errUsage) && !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(os.Stderr, errorStyle.Render("astrocalc: "+err.Error()))
		}
		os.Exit(1)
	}
}

// app — общее окружение подкоманд.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

// run разбирает глобальные флаги, загружает конфигурацию и вызывает подкоманду.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	global := flag.NewFlagSet("astrocalc", flag.ContinueOnError)
	global.SetOutput(stderr)
	global.Usage = func() { fmt.Fprint(stderr, usageText) }

	configPath := global.String("config", "", "Path to YAML config file")
	logLevel := global.String("log-level", "", "Log level (debug, info, warn, error)")

	if err := global.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	if *logLevel != "" {
		cfg.LogLevel = *logLevel
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	a := &app{
		cfg:    cfg,
		logger: slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: cfg.Level()})),
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
	}

	rest := global.Args()
	if len(rest) == 0 {
		global.Usage()
		return errUsage
	}

	a.logger.Debug("running command", "command", rest[0], "config", *configPath)

	switch rest[0] {
	case "sun":
		return a.sun(rest[1:])
	case "distance":
		return a.distance(rest[1:])
	case "bearing":
		return a.bearing(rest[1:])
	case "tle":
		return a.tle(rest[1:])
	case "julian":
		return a.julian(rest[1:])
	default:
		global.Usage()
		return fmt.Errorf("%w: unknown command %q", errUsage, rest[0])
	}
}

// newFlagSet создаёт набор флагов подкоманды.
func (a *app) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet("astrocalc "+name, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	return fs
}

// title печатает заголовок блока.
func (a *app) title(format string, args ...any) {
	fmt.Fprintln(a.stdout, titleStyle.Render(fmt.Sprintf(format, args...)))
}

// row печатает строку «метка значение».
func (a *app) row(label, format string, args ...any) {
	fmt.Fprintln(a.stdout, "  "+labelStyle.Render(label)+valueStyle.Render(fmt.Sprintf(format, args...)))
}

// note печатает приглушённое примечание.
func (a *app) note(format string, args ...any) {
	fmt.Fprintln(a.stdout, "  "+mutedStyle.Render(fmt.Sprintf(format, args...)))
}
