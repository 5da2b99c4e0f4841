package cli

import (
	"github.com/spf13/pflag"
)

const dbFlag = "db"

// GlobalFlags returns the flags shared by every command.
func GlobalFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("global", pflag.ContinueOnError)
	fs.String(dbFlag, "", "path to the SQLite database (overrides DEVLINGO_DB)")
	return fs
}

// DBPathFromArgs extracts --db from raw process arguments. The database is
// opened before the command tree exists, so the flag is read ahead of cobra.
// Unknown flags and parse errors are ignored; cobra reports them later.
func DBPathFromArgs(args []string) string {
	fs := GlobalFlags()
	fs.ParseErrorsWhitelist.UnknownFlags = true
	fs.Usage = func() {}
	if err := fs.Parse(args); err != nil {
		return ""
	}
	path, _ := fs.GetString(dbFlag)
	return path
}
