// Command addonlint checks addon modules for common defects.
//
// Exit codes: 0 when the analyzed files are clean, 1 when findings were
// reported, 2 on usage or runtime errors.
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/addonlint/addonlint"
	"github.com/addonlint/addonlint/internal/config"
	"github.com/addonlint/addonlint/internal/report"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		configPath     string
		format         string
		output         string
		verbose        bool
		listRules      bool
		enable         string
		disable        string
		versionFormat  string
		validVersions  string
		requiredAuthor string
		authors        string
	)

	flags := pflag.NewFlagSet("addonlint", pflag.ContinueOnError)
	flags.StringVarP(&configPath, "config", "c", "", "path to a YAML configuration file")
	flags.StringVarP(&format, "format", "f", "text", "output format: text or sarif")
	flags.StringVarP(&output, "output", "o", "", "write the report to a file instead of stdout")
	flags.BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	flags.BoolVar(&listRules, "list-rules", false, "list known rule ids and exit")
	flags.StringVar(&enable, "enable", "", "comma-separated rule ids to enable")
	flags.StringVar(&disable, "disable", "", "comma-separated rule ids to disable")
	flags.StringVar(&versionFormat, "manifest-version-format", "", "regexp the manifest version suffix must match")
	flags.StringVar(&validVersions, "valid-odoo-versions", "", "comma-separated allowed framework versions")
	flags.StringVar(&authors, "manifest-required-authors", "", "comma-separated authors, one of which every manifest must credit")
	flags.StringVar(&requiredAuthor, "manifest-required-author", "", "deprecated alias of --manifest-required-authors")
	flags.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: addonlint [flags] path...\n\n")
		flags.PrintDefaults()
	}

	if err := flags.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return 0
		}
		return 2
	}

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	if verbose {
		log = log.Level(zerolog.DebugLevel)
	} else {
		log = log.Level(zerolog.WarnLevel)
	}

	if listRules {
		for _, id := range addonlint.RuleIDs() {
			fmt.Println(id)
		}
		return 0
	}

	if flags.NArg() == 0 {
		flags.Usage()
		return 2
	}

	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			log.Error().Err(err).Msg("loading configuration")
			return 2
		}
		cfg = loaded
	}
	if enable != "" {
		cfg.Enable = config.SplitCSV(enable)
	}
	if disable != "" {
		cfg.Disable = config.SplitCSV(disable)
	}
	if versionFormat != "" {
		cfg.ManifestVersionFormat = versionFormat
	}
	if validVersions != "" {
		cfg.ValidOdooVersions = config.SplitCSV(validVersions)
	}
	if authors != "" {
		cfg.ManifestRequiredAuthors = config.SplitCSV(authors)
	}
	if requiredAuthor != "" {
		cfg.ManifestRequiredAuthor = requiredAuthor
	}

	eng, err := addonlint.New(cfg, log)
	if err != nil {
		log.Error().Err(err).Msg("resolving configuration")
		return 2
	}

	findings, err := eng.Run(flags.Args())
	if err != nil {
		log.Error().Err(err).Msg("analysis failed")
		return 2
	}

	out := os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			log.Error().Err(err).Msg("opening output file")
			return 2
		}
		defer f.Close()
		out = f
	}

	switch format {
	case "text":
		err = report.WriteText(out, findings)
	case "sarif":
		err = report.WriteSARIF(out, findings)
	default:
		log.Error().Str("format", format).Msg("unknown output format")
		return 2
	}
	if err != nil {
		log.Error().Err(err).Msg("writing report")
		return 2
	}

	if len(findings) > 0 {
		return 1
	}
	return 0
}
