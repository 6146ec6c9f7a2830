package commands

import "github.com/skiffhq/skiff/cmd/skiff/commands/backup"

func init() {
	rootCmd.AddCommand(backup.Cmd)
}
