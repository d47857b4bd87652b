package main

import (
	"nbcheck/internal/install"

	"github.com/spf13/cobra"
)

var installUseLock bool

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Install the project's dependencies (conda or pip)",
	Long: `install detects whether the project directory is conda-based
(environment.yml) or pip-based (requirements.txt), installs the declared
dependencies, and writes a lock file so later runs are reproducible.`,
	Args: cobra.NoArgs,
	RunE: runInstall,
}

func init() {
	installCmd.Flags().BoolVar(&installUseLock, "use-lock", false,
		"prefer requirements.lock.txt / environment.lock.yml when present")
	rootCmd.AddCommand(installCmd)
}

func runInstall(cmd *cobra.Command, args []string) error {
	runner := install.ExecRunner{Dir: workspace, Timeout: cfg.InstallTimeout()}
	inst := install.New(workspace, runner, install.Options{
		UseLock:    installUseLock || cfg.Install.UseLock,
		CreateLock: cfg.Install.CreateLock,
	})
	return inst.Install(cmd.Context())
}
