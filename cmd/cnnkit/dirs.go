package main

import (
	"github.com/spf13/cobra"
)

var dirsQuiet bool

var dirsCmd = &cobra.Command{
	Use:   "dirs",
	Short: "Directory commands",
}

var dirsEnsureCmd = &cobra.Command{
	Use:   "ensure <path>...",
	Short: "Create directories and any missing parents",
	Long:  `Create each directory along with any missing parents. Existing directories are left untouched.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return newStore().EnsureDirectories(args, !dirsQuiet)
	},
}

func init() {
	rootCmd.AddCommand(dirsCmd)
	dirsCmd.AddCommand(dirsEnsureCmd)

	dirsEnsureCmd.Flags().BoolVarP(&dirsQuiet, "quiet", "q", false, "Do not log each directory")
}
