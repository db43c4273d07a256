package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"git.sr.ht/~spc/go-log"
	"github.com/briandowns/spinner"
	"github.com/urfave/cli/v2"

	"github.com/hcptools/hcp/internal/dbauth"
	"github.com/hcptools/hcp/internal/hcp"
	"github.com/hcptools/hcp/internal/l10n"
	"github.com/hcptools/hcp/internal/paths"
	"github.com/hcptools/hcp/internal/report"
)

// requireArgs checks the number of positional arguments.
func requireArgs(c *cli.Context, min, max int) error {
	if n := c.NArg(); n < min || n > max {
		return cli.Exit(l10n.T("usage: %v", c.Command.UsageText), 1)
	}
	return nil
}

// readConfig reads path with the shared loader, showing a spinner on rich
// terminals.
func readConfig(path string, loader *hcp.Loader) (*hcp.Config, error) {
	if uiSettings.rich {
		s := spinner.New(spinner.CharSets[9], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
		s.Suffix = l10n.T(" Resolving %v", path)
		s.Start()
		defer s.Stop()
	}

	cfg, err := loader.Read(path)
	if err != nil {
		return nil, cli.Exit(err, 1)
	}
	log.Debugf("resolved %v with %v sections", cfg.Path(), len(cfg.Sections()))
	return cfg, nil
}

func showAction(c *cli.Context) error {
	if err := requireArgs(c, 1, 1); err != nil {
		return err
	}
	cfg, err := readConfig(c.Args().First(), uiSettings.loader)
	if err != nil {
		return err
	}
	if err := report.Write(c.App.Writer, cfg, uiSettings.format, c.Bool("blame")); err != nil {
		return cli.Exit(l10n.T("cannot print configuration: %v", err), 1)
	}
	return nil
}

func getAction(c *cli.Context) error {
	if err := requireArgs(c, 3, 3); err != nil {
		return err
	}
	cfg, err := readConfig(c.Args().Get(0), uiSettings.loader)
	if err != nil {
		return err
	}
	section, option := c.Args().Get(1), c.Args().Get(2)
	value, ok := cfg.Get(section, option)
	if !ok {
		return cli.Exit(l10n.T("no option %v in section [%v]", option, section), 1)
	}
	fmt.Fprintln(c.App.Writer, value)
	return nil
}

func sectionsAction(c *cli.Context) error {
	if err := requireArgs(c, 1, 1); err != nil {
		return err
	}
	cfg, err := readConfig(c.Args().First(), uiSettings.loader)
	if err != nil {
		return err
	}
	for _, name := range cfg.Sections() {
		fmt.Fprintln(c.App.Writer, name)
	}
	return nil
}

func explainAction(c *cli.Context) error {
	if err := requireArgs(c, 1, 3); err != nil {
		return err
	}
	if c.NArg() == 2 {
		return cli.Exit(l10n.T("usage: %v", c.Command.UsageText), 1)
	}
	cfg, err := readConfig(c.Args().First(), uiSettings.loader)
	if err != nil {
		return err
	}

	explainer := report.Explainer{Styled: uiSettings.rich}
	if c.NArg() == 3 {
		err = explainer.WriteOption(c.App.Writer, cfg, c.Args().Get(1), c.Args().Get(2))
	} else {
		err = explainer.Write(c.App.Writer, cfg)
	}
	if err != nil {
		return cli.Exit(err, 1)
	}
	return nil
}

func checkAction(c *cli.Context) error {
	if err := requireArgs(c, 1, 1); err != nil {
		return err
	}
	// Rule failures are reported below rather than as a read error.
	loader := *uiSettings.loader
	loader.Validate = false
	cfg, err := readConfig(c.Args().First(), &loader)
	if err != nil {
		return err
	}

	err = cfg.Validate()
	if err == nil {
		fmt.Fprintln(c.App.Writer, l10n.T("%v: ok", cfg.Path()))
		return nil
	}

	failures := []error{err}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		failures = joined.Unwrap()
	}
	for _, failure := range failures {
		fmt.Fprintln(c.App.Writer, failure)
	}
	return cli.Exit(l10n.TN("%v rule failed", "%v rules failed", uint32(len(failures)), len(failures)), 1)
}

func dbauthAction(c *cli.Context) error {
	if err := requireArgs(c, 2, 2); err != nil {
		return err
	}
	cfg, err := readConfig(c.Args().Get(0), uiSettings.loader)
	if err != nil {
		return err
	}
	auth, err := dbauth.FromConfig(cfg, c.Args().Get(1))
	if err != nil {
		var incomplete *dbauth.IncompleteError
		if errors.As(err, &incomplete) {
			log.Debugf("missing options: %v", strings.Join(incomplete.Missing, ", "))
		}
		return cli.Exit(err, 1)
	}

	if c.Bool("env") {
		for _, line := range auth.Env() {
			fmt.Fprintf(c.App.Writer, "export %v\n", line)
		}
		return nil
	}
	fmt.Fprintln(c.App.Writer, auth)
	return nil
}

func expandAction(c *cli.Context) error {
	if err := requireArgs(c, 2, 2); err != nil {
		return err
	}
	cfg, err := readConfig(c.Args().Get(0), uiSettings.loader)
	if err != nil {
		return err
	}
	expanded, err := paths.Expand(cfg, c.Args().Get(1))
	if err != nil {
		return cli.Exit(err, 1)
	}
	fmt.Fprintln(c.App.Writer, expanded)
	return nil
}
