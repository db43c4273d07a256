package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"git.sr.ht/~spc/go-log"
	"github.com/urfave/cli/v2"
	"golang.org/x/term"

	"github.com/hcptools/hcp/internal/conf"
	"github.com/hcptools/hcp/internal/hcp"
	"github.com/hcptools/hcp/internal/l10n"
	"github.com/hcptools/hcp/internal/logging"
	"github.com/hcptools/hcp/internal/report"
)

// Version is set at build time.
var Version = "dev"

// uiSettings holds the process-wide state the commands share once
// beforeAction has run.
var uiSettings = struct {
	rich   bool
	format string
	config conf.Config
	loader *hcp.Loader
}{}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = filepath.Base(os.Args[0])
	app.Version = Version
	app.Usage = l10n.T("resolve hierarchical INI configuration files")
	app.Description = l10n.T("The %v command reads INI files whose sections include other files, and shows, queries, explains and checks the result.", app.Name)
	app.HideHelpCommand = true

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:  "log-level",
			Value: "error",
			Usage: l10n.T("set the command line log level to `LEVEL`"),
		},
		&cli.StringFlag{
			Name:  "config",
			Value: conf.DefaultPath,
			Usage: l10n.T("read tool settings from `FILE` and its .d directory"),
		},
		&cli.BoolFlag{
			Name:  "no-color",
			Usage: l10n.T("disable spinners and styled output"),
		},
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Value:   report.FormatINI,
			Usage:   l10n.T("print resolved configuration as `FORMAT` (ini, yaml or json)"),
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:      "show",
			Usage:     l10n.T("Print the flattened configuration"),
			UsageText: fmt.Sprintf("%v show [--blame] FILE", app.Name),
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:  "blame",
					Usage: l10n.T("annotate values with the file and line they came from (yaml and json)"),
				},
			},
			Action: showAction,
		},
		{
			Name:      "get",
			Usage:     l10n.T("Print the value of one option"),
			UsageText: fmt.Sprintf("%v get FILE SECTION OPTION", app.Name),
			Action:    getAction,
		},
		{
			Name:      "sections",
			Usage:     l10n.T("List the sections of the configuration"),
			UsageText: fmt.Sprintf("%v sections FILE", app.Name),
			Action:    sectionsAction,
		},
		{
			Name:      "explain",
			Usage:     l10n.T("Show which file each value came from"),
			UsageText: fmt.Sprintf("%v explain FILE [SECTION OPTION]", app.Name),
			Action:    explainAction,
		},
		{
			Name:      "check",
			Usage:     l10n.T("Check values against their .re and .required rules"),
			UsageText: fmt.Sprintf("%v check FILE", app.Name),
			Action:    checkAction,
		},
		{
			Name:      "dbauth",
			Usage:     l10n.T("Print the database credentials of a section"),
			UsageText: fmt.Sprintf("%v dbauth [--env] FILE SECTION", app.Name),
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:  "env",
					Usage: l10n.T("print credentials as shell assignments, including the password"),
				},
			},
			Action: dbauthAction,
		},
		{
			Name:      "expand",
			Usage:     l10n.T("Expand $VAR references from the [paths] section"),
			UsageText: fmt.Sprintf("%v expand FILE PATH", app.Name),
			Action:    expandAction,
		},
	}
	app.Before = beforeAction
	return app
}

func main() {
	app := newApp()
	if err := app.Run(os.Args); err != nil {
		log.Error(err)
	}
}

// beforeAction sets up logging and the shared loader before any command
// runs.
func beforeAction(c *cli.Context) error {
	level, err := log.ParseLevel(c.String("log-level"))
	if err != nil {
		return cli.Exit(err, 1)
	}
	log.SetLevel(level)

	config := conf.Configuration
	if path := c.String("config"); path != conf.DefaultPath {
		source := &conf.ConfigSource{Path: path, DropInDir: path + ".d"}
		config, err = source.Read()
		if err != nil {
			return cli.Exit(l10n.T("cannot read settings: %v", err), 1)
		}
	}
	logging.Setup(os.Stderr, config)

	switch format := c.String("format"); format {
	case report.FormatINI, report.FormatYAML, report.FormatJSON:
		uiSettings.format = format
	default:
		return cli.Exit(l10n.T("unsupported format %q", format), 1)
	}

	uiSettings.config = config
	uiSettings.rich = !c.Bool("no-color") && term.IsTerminal(int(os.Stdout.Fd()))
	uiSettings.loader = &hcp.Loader{
		FS:       hcp.OSFS{},
		Logger:   slog.Default(),
		Validate: config.Validate,
	}
	if config.Cache {
		uiSettings.loader.Cache = hcp.NewCache()
	}

	log.Debugf("settings: %+v", config)
	return nil
}
