package app

import (
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/ayoisaiah/timesheet/internal/timeutil"
	"github.com/ayoisaiah/timesheet/store"
)

func periods() string {
	p := make([]string, len(timeutil.PeriodCollection))

	for i, v := range timeutil.PeriodCollection {
		p[i] = string(v)
	}

	return strings.Join(p, ", ")
}

var (
	storeFlag = &cli.StringFlag{
		Name:  "store",
		Usage: "Storage driver: " + strings.Join(store.Drivers, ", ") + " (default: json)",
	}

	dbFlag = &cli.StringFlag{
		Name:  "db",
		Usage: "Path to the store. Defaults to the data directory of the current user",
	}

	configFlag = &cli.StringFlag{
		Name:  "config",
		Usage: "Path to the config file",
	}

	startFreshFlag = &cli.BoolFlag{
		Name:  "start-fresh",
		Usage: "Move a corrupt store aside and start with no projects instead of failing",
	}

	noColorFlag = &cli.BoolFlag{
		Name:  "no-color",
		Usage: "Disable coloured output",
	}

	forceFlag = &cli.BoolFlag{
		Name:    "force",
		Aliases: []string{"f"},
		Usage:   "Do not ask for confirmation",
	}

	jsonFlag = &cli.BoolFlag{
		Name:  "json",
		Usage: "Print the output as JSON",
	}

	periodFlag = &cli.StringFlag{
		Name:    "period",
		Aliases: []string{"p"},
		Usage:   "Only include sessions started within a period: " + periods(),
	}

	sinceFlag = &cli.StringFlag{
		Name:  "since",
		Usage: "Only include sessions started at or after this time (e.g. '2 weeks ago')",
	}

	untilFlag = &cli.StringFlag{
		Name:  "until",
		Usage: "Only include sessions started at or before this time (e.g. 'yesterday 6pm')",
	}

	importDriverFlag = &cli.StringFlag{
		Name:  "from",
		Usage: "Storage driver of the file being imported",
		Value: store.DriverJSON,
	}
)

var filterFlags = []cli.Flag{periodFlag, sinceFlag, untilFlag}
