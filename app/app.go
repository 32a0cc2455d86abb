package app

import (
	"github.com/urfave/cli/v2"

	"github.com/ayoisaiah/timesheet/internal/config"
)

// Get retrieves the timesheet app instance.
func Get() *cli.App {
	timesheetApp := &cli.App{
		Name: "timesheet",
		Usage: `
		Timesheet tracks the time you spend on each of your projects from the
		command-line. Start, pause, resume and stop projects, then review the
		totals or export every session to CSV.`,
		UsageText:            "[COMMAND] [OPTIONS]",
		Version:              config.Version,
		EnableBashCompletion: true,
		Commands: []*cli.Command{
			{
				Name:      "start",
				Usage:     "Create a new project and start tracking it",
				ArgsUsage: "NAME",
				Action:    startAction,
			},
			{
				Name:      "pause",
				Usage:     "Pause a running project",
				ArgsUsage: "NAME",
				Action:    pauseAction,
			},
			{
				Name:      "unpause",
				Usage:     "Continue the current session of a paused project",
				ArgsUsage: "NAME",
				Action:    unpauseAction,
			},
			{
				Name:      "resume",
				Usage:     "Start a new session on a stopped project",
				ArgsUsage: "NAME",
				Action:    resumeAction,
			},
			{
				Name:      "stop",
				Usage:     "Stop a running or paused project",
				ArgsUsage: "NAME",
				Action:    stopAction,
			},
			{
				Name:      "rename",
				Usage:     "Rename a project, keeping its history",
				ArgsUsage: "OLD NEW",
				Action:    renameAction,
			},
			{
				Name:      "delete",
				Usage:     "Delete a project and all of its sessions",
				ArgsUsage: "NAME",
				Flags:     []cli.Flag{forceFlag},
				Action:    deleteAction,
			},
			{
				Name:   "list",
				Usage:  "List all projects with their total time",
				Flags:  []cli.Flag{jsonFlag},
				Action: listAction,
			},
			{
				Name:   "status",
				Usage:  "Show the running and paused projects",
				Action: statusAction,
			},
			{
				Name:      "sessions",
				Usage:     "Show every session of a project",
				ArgsUsage: "NAME",
				Action:    sessionsAction,
			},
			{
				Name:   "report",
				Usage:  "Summarise the tracked time per project",
				Flags:  append([]cli.Flag{jsonFlag}, filterFlags...),
				Action: reportAction,
			},
			{
				Name:      "export",
				Usage:     "Export every session to a CSV file",
				ArgsUsage: "PATH",
				Flags:     filterFlags,
				Action:    exportAction,
			},
			{
				Name:      "import",
				Usage:     "Add the projects of another timesheet store",
				ArgsUsage: "PATH",
				Flags:     []cli.Flag{importDriverFlag},
				Action:    importAction,
			},
			{
				Name:   "clear",
				Usage:  "Delete every project",
				Flags:  []cli.Flag{forceFlag},
				Action: clearAction,
			},
			{
				Name:   "watch",
				Usage:  "Show a live view of all projects",
				Action: watchAction,
			},
			{
				Name:   "edit-config",
				Usage:  "Edit the configuration file",
				Action: editConfigAction,
			},
		},
		Flags: []cli.Flag{
			storeFlag,
			dbFlag,
			configFlag,
			startFreshFlag,
			noColorFlag,
		},
		Before: beforeAction,
	}

	return timesheetApp
}
