// Package config collects the settings of the reforge command from flags,
// the environment and an optional .env file.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment variables consulted when a flag is not given.
const (
	EnvRules  = "REFORGE_RULES"
	EnvInput  = "REFORGE_INPUT"
	EnvOutput = "REFORGE_OUTPUT"
	EnvPretty = "REFORGE_PRETTY"
)

// Stdio names standard input or output in place of a file path.
const Stdio = "-"

var ErrMissingRules = errors.New("a rule file is required (-rules or " + EnvRules + ")")

var envKeys = []string{EnvRules, EnvInput, EnvOutput, EnvPretty}

// Config holds the settings of one run.
type Config struct {
	// RulesPath is the YAML rule file.
	RulesPath string
	// InputPath is a JSON or YAML source document; "-" reads stdin.
	InputPath string
	// OutputPath receives the JSON output; "-" writes stdout.
	OutputPath string
	// Pretty indents the JSON output.
	Pretty bool
	// Explain prints the rules and the compiled tree instead of evaluating.
	Explain bool
	// Verbose logs every compiled rule.
	Verbose bool
}

// Environment returns the reforge variables of the process, falling back to
// the ones in dotenv. A missing dotenv file is not an error.
func Environment(dotenv string) (map[string]string, error) {
	env := make(map[string]string, len(envKeys))

	if dotenv != "" {
		vars, err := godotenv.Read(dotenv)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read %s: %w", dotenv, err)
		}

		for _, k := range envKeys {
			if v, ok := vars[k]; ok {
				env[k] = v
			}
		}
	}

	for _, k := range envKeys {
		if v, ok := os.LookupEnv(k); ok {
			env[k] = v
		}
	}

	return env, nil
}

// Parse reads flags from args, taking defaults from env. Usage and flag
// errors are written to output.
func Parse(name string, args []string, env map[string]string, output io.Writer) (*Config, error) {
	cfg := &Config{}

	pretty, err := envBool(env, EnvPretty)
	if err != nil {
		return nil, err
	}

	flags := flag.NewFlagSet(name, flag.ContinueOnError)
	flags.SetOutput(output)
	flags.StringVar(&cfg.RulesPath, "rules", env[EnvRules], "YAML rule file")
	flags.StringVar(&cfg.InputPath, "input", envOr(env, EnvInput, Stdio), "JSON or YAML source document, - for stdin")
	flags.StringVar(&cfg.OutputPath, "output", envOr(env, EnvOutput, Stdio), "JSON output file, - for stdout")
	flags.BoolVar(&cfg.Pretty, "pretty", pretty, "indent the JSON output")
	flags.BoolVar(&cfg.Explain, "explain", false, "print the rules and the compiled tree instead of evaluating")
	flags.BoolVar(&cfg.Verbose, "verbose", false, "log every compiled rule")

	if err := flags.Parse(args); err != nil {
		return nil, err
	}

	if flags.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %v", flags.Args())
	}

	if cfg.RulesPath == "" {
		return nil, ErrMissingRules
	}

	return cfg, nil
}

func envOr(env map[string]string, key, fallback string) string {
	if v := env[key]; v != "" {
		return v
	}

	return fallback
}

func envBool(env map[string]string, key string) (bool, error) {
	v := env[key]
	if v == "" {
		return false, nil
	}

	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}

	return b, nil
}
