package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"nbcheck/internal/check"
	"nbcheck/internal/config"
	"nbcheck/internal/notebook"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	checkParams []string
	warnOnly    bool
)

var checkCmd = &cobra.Command{
	Use:   "check <notebook>...",
	Short: "Statically validate notebooks before execution",
	Long: `check loads each notebook (.ipynb) or percent-format script (.py),
neutralizes IPython-only lines, parses the assembled source, runs the lint
checks, and validates the supplied --param names against the notebook's
"parameters" cell. Nothing is executed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().StringArrayVarP(&checkParams, "param", "p", nil,
		"task parameter as name=value (repeatable)")
	checkCmd.Flags().BoolVar(&warnOnly, "warn", false,
		"report findings as warnings instead of failing")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	taskParams, err := parseParams(checkParams)
	if err != nil {
		return err
	}
	raise := cfg.Mode == config.ModeRaise && !warnOnly

	checker := check.New(check.Options{
		StrictSource: cfg.StrictSource,
		Warnings: check.WarnFunc(func(msg string) {
			logger.Warn(msg)
		}),
	})

	// Documents are independent and the checker is stateless, so the files
	// can be validated concurrently.
	g := new(errgroup.Group)
	for _, path := range args {
		path := path
		g.Go(func() error {
			doc, err := loadDocument(path)
			if err != nil {
				return err
			}
			if err := checker.CheckNotebook(doc, taskParams, path, raise); err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			logger.Info("notebook ok", zap.String("path", path))
			return nil
		})
	}
	return g.Wait()
}

func loadDocument(path string) (notebook.Document, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ipynb":
		return notebook.ReadIpynbFile(path)
	case ".py":
		return notebook.ReadScriptFile(path)
	default:
		return notebook.Document{}, fmt.Errorf(
			"unsupported notebook format %q (want .ipynb or .py)", filepath.Ext(path))
	}
}

func parseParams(kvs []string) (map[string]any, error) {
	m := make(map[string]any, len(kvs))
	for _, kv := range kvs {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --param %q (want name=value)", kv)
		}
		m[name] = value
	}
	return m, nil
}
