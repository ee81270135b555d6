package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"

	"github.com/eizengan/reforge"
	"github.com/eizengan/reforge/internal/config"
	"github.com/eizengan/reforge/internal/render"
	"github.com/eizengan/reforge/internal/ruleset"
)

func run(args []string, env map[string]string, stdin io.Reader, stdout, stderr io.Writer) error {
	cfg, err := config.Parse("reforge", args, env, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}

	if err != nil {
		return err
	}

	logger := log.New(stderr, "reforge: ", 0)

	rf, err := ruleset.LoadFile(cfg.RulesPath)
	if err != nil {
		return err
	}

	var opts []reforge.Option
	if cfg.Verbose {
		opts = append(opts, reforge.WithLogger(logger))
	}

	tr, diags, err := ruleset.Compile(rf, ruleset.Builtins(), opts...)
	if report := render.Diagnostics(diags); report != "" {
		fmt.Fprintln(stderr, report)
	}

	if err != nil {
		return err
	}

	if cfg.Explain {
		fmt.Fprintln(stdout, render.Rules(rf))
		fmt.Fprintln(stdout, render.Tree(tr.Tree()))

		return nil
	}

	source, err := readSource(cfg.InputPath, stdin)
	if err != nil {
		return err
	}

	start := time.Now()

	out, count, err := evaluate(tr, source)
	if err != nil {
		return err
	}

	n, err := writeOutput(cfg.OutputPath, stdout, out, cfg.Pretty)
	if err != nil {
		return err
	}

	logger.Printf("evaluated %s %s with %d rules in %s, wrote %s",
		humanize.Comma(int64(count)), plural(count, "source"), len(rf.Rules),
		time.Since(start).Round(time.Microsecond), humanize.Bytes(uint64(n)))

	return nil
}

// evaluate runs a top-level list as a batch and anything else as one source.
func evaluate(tr *reforge.Transformation, source any) (any, int, error) {
	if batch, ok := source.([]any); ok {
		out, err := tr.EvaluateAll(batch)
		return out, len(batch), err
	}

	out, err := tr.Evaluate(source)

	return out, 1, err
}

func readSource(path string, stdin io.Reader) (any, error) {
	var (
		data []byte
		err  error
	)

	if path == config.Stdio {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read input %s: %w", path, err)
	}

	var source any

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &source)
	default:
		err = json.Unmarshal(data, &source)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to decode input %s: %w", path, err)
	}

	return source, nil
}

func writeOutput(path string, stdout io.Writer, out any, pretty bool) (int, error) {
	var (
		data []byte
		err  error
	)

	if pretty {
		data, err = json.MarshalIndent(out, "", "  ")
	} else {
		data, err = json.Marshal(out)
	}

	if err != nil {
		return 0, fmt.Errorf("failed to encode output: %w", err)
	}

	data = append(data, '\n')

	if path == config.Stdio {
		_, err = stdout.Write(data)
	} else {
		err = os.WriteFile(path, data, 0o644)
	}

	if err != nil {
		return 0, fmt.Errorf("failed to write output %s: %w", path, err)
	}

	return len(data), nil
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}

	return word + "s"
}
