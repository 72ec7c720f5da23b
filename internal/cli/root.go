package cli

import (
	"errors"
	"flag"
	"fmt"
	"strings"
)

// Run dispatches a subcommand. With no subcommand, or when the first
// argument is a flag, it runs check so the tool can be used as a drop-in
// cron wrapper: `jobhealth -f jobs.json`.
func Run(args []string) error {
	err := dispatch(args)
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	return err
}

func dispatch(args []string) error {
	if len(args) == 0 {
		return runCheck(args)
	}

	switch args[0] {
	case "help", "-h", "--help":
		printRootUsage()
		return nil
	case "check":
		return runCheck(args[1:])
	case "jobs":
		return runJobs(args[1:])
	case "view":
		return runView(args[1:])
	}
	if strings.HasPrefix(args[0], "-") {
		return runCheck(args)
	}
	printRootUsage()
	return fmt.Errorf("unknown command %q", args[0])
}

func printRootUsage() {
	fmt.Fprintln(stdout, "jobhealth: point-in-time health check for scheduled jobs")
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "Usage:")
	fmt.Fprintln(stdout, "  jobhealth [check] [--file <path>] [--json]")
	fmt.Fprintln(stdout, "  scheduler-export | jobhealth")
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "Commands:")
	fmt.Fprintln(stdout, "  check  classify monitored jobs from a snapshot and print the report (default)")
	fmt.Fprintln(stdout, "  jobs   list monitored jobs, thresholds and rule order")
	fmt.Fprintln(stdout, "  view   browse the report interactively (requires a TTY and --file)")
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "Exit codes:")
	fmt.Fprintln(stdout, "  0  all monitored jobs ok")
	fmt.Fprintln(stdout, "  1  at least one warning, or the input could not be read or parsed")
	fmt.Fprintln(stdout, "  2  at least one critical or missing job")
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "Common flags:")
	fmt.Fprintln(stdout, "  --config <path>  TOML or YAML file overriding thresholds and the job registry")
	fmt.Fprintln(stdout, "  --tz <zone>      timezone for timestamps (default: host local time)")
	fmt.Fprintln(stdout, "  --verbose        debug logging on stderr")
}
