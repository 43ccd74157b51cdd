// Package cli implements the mdproxy command tree. Every subcommand maps
// onto one proxy operation against the configured modeling server.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"mdproxy/internal/config"
	"mdproxy/internal/proxy"
	"mdproxy/pkg/units"
)

type app struct {
	out io.Writer
	in  io.Reader
	px  *proxy.Proxy
}

// NewRootCmd constructs the mdproxy command tree writing to out and reading
// interactive prompts from in.
func NewRootCmd(out io.Writer, in io.Reader) *cobra.Command {
	a := &app{out: out, in: in}

	root := &cobra.Command{
		Use:           "mdproxy",
		Short:         "Client for a remote modeling server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("server", "", "Modeling server base URL (defaults MDPROXY_SERVER_URL or http://127.0.0.1:8000)")
	root.PersistentFlags().String("config", "", "Config file path (.yaml/.json/.toml)")
	root.PersistentFlags().String("log-level", "", "Log level: debug|info|warn|error")
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return a.connect(cmd)
	}

	// model group
	modelCmd := &cobra.Command{Use: "model", Short: "Inspect and edit the remote model"}
	modelGet := &cobra.Command{Use: "get [path]", Short: "Print the model snapshot or one object by dotted path", Args: cobra.MaximumNArgs(1), RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			snap, err := a.px.Snapshot(cmd.Context())
			if err != nil {
				return err
			}
			return a.printJSON(snap)
		}
		v, err := a.px.ObjectByPath(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if target, _ := cmd.Flags().GetString("as"); target != "" {
			return a.printConverted(v, target)
		}
		return a.printJSON(v)
	}}
	modelGet.Flags().String("as", "", "Convert a value carrying units to this unit before printing")
	modelTypes := &cobra.Command{Use: "types", Short: "List creatable object types", RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := a.px.Types(cmd.Context())
		if err != nil {
			return err
		}
		for _, t := range cat.Types {
			fmt.Fprintf(a.out, "%s\t%s\n", t.Name, t.Path)
		}
		return nil
	}}
	modelAdd := &cobra.Command{Use: "add <type> <name> [x [y]]", Short: "Create a component instance", Args: cobra.RangeArgs(2, 4), RunE: func(cmd *cobra.Command, args []string) error {
		x, y := coord(args, 2), coord(args, 3)
		return a.px.AddComponent(cmd.Context(), args[0], args[1], x, y)
	}}
	modelCmd.AddCommand(modelGet, modelTypes, modelAdd)
	root.AddCommand(modelCmd)

	// command execution
	cmdRun := &cobra.Command{Use: "cmd <statement...>", Short: "Execute a statement on the server", Args: cobra.MinimumNArgs(1), RunE: func(cmd *cobra.Command, args []string) error {
		out, err := a.px.RunCommand(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}
		fmt.Fprint(a.out, out)
		return nil
	}}
	root.AddCommand(cmdRun)

	outputCmd := &cobra.Command{Use: "output", Short: "Print queued output from the model run", RunE: func(cmd *cobra.Command, args []string) error {
		out, err := a.px.Output(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprint(a.out, out)
		return nil
	}}
	root.AddCommand(outputCmd)

	// folder group
	folderCmd := &cobra.Command{Use: "folder", Short: "Working folder operations"}
	folderGet := &cobra.Command{Use: "get", Short: "Print the working folder", RunE: func(cmd *cobra.Command, args []string) error {
		f, err := a.px.WorkingFolder(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintln(a.out, f)
		return nil
	}}
	folderSet := &cobra.Command{Use: "set <path>", Short: "Change the working folder", Args: cobra.ExactArgs(1), RunE: func(cmd *cobra.Command, args []string) error {
		return a.px.SetWorkingFolder(cmd.Context(), args[0])
	}}
	folderCmd.AddCommand(folderGet, folderSet)
	root.AddCommand(folderCmd)

	// files group
	filesCmd := &cobra.Command{Use: "files", Short: "Server file management"}
	filesLs := &cobra.Command{Use: "ls", Short: "List files recursively", RunE: func(cmd *cobra.Command, args []string) error {
		tree, err := a.px.ListFiles(cmd.Context())
		if err != nil {
			return err
		}
		return a.printJSON(tree)
	}}
	filesCat := &cobra.Command{Use: "cat <path>", Short: "Print file contents", Args: cobra.ExactArgs(1), RunE: func(cmd *cobra.Command, args []string) error {
		contents, err := a.px.ReadFile(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Fprint(a.out, contents)
		return nil
	}}
	filesWrite := &cobra.Command{Use: "write <path>", Short: "Write stdin to a server file", Args: cobra.ExactArgs(1), RunE: func(cmd *cobra.Command, args []string) error {
		b, err := io.ReadAll(a.in)
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		return a.px.WriteFile(cmd.Context(), args[0], string(b))
	}}
	filesRm := &cobra.Command{Use: "rm <path>", Short: "Delete a server file or folder", Args: cobra.ExactArgs(1), RunE: func(cmd *cobra.Command, args []string) error {
		return a.px.DeleteFile(cmd.Context(), args[0])
	}}
	filesMkdir := &cobra.Command{Use: "mkdir <path>", Short: "Create a server folder", Args: cobra.ExactArgs(1), RunE: func(cmd *cobra.Command, args []string) error {
		return a.px.CreateFolder(cmd.Context(), args[0])
	}}
	filesNew := &cobra.Command{Use: "new [parent]", Short: "Create a stub file, prompting for its name", Args: cobra.MaximumNArgs(1), RunE: func(cmd *cobra.Command, args []string) error {
		path, err := a.px.NewFile(cmd.Context(), optArg(args))
		if err != nil {
			return err
		}
		fmt.Fprintln(a.out, path)
		return nil
	}}
	filesNewdir := &cobra.Command{Use: "newdir [parent]", Short: "Create a folder, prompting for its name", Args: cobra.MaximumNArgs(1), RunE: func(cmd *cobra.Command, args []string) error {
		path, err := a.px.NewFolder(cmd.Context(), optArg(args))
		if err != nil {
			return err
		}
		fmt.Fprintln(a.out, path)
		return nil
	}}
	filesCmd.AddCommand(filesLs, filesCat, filesWrite, filesRm, filesMkdir, filesNew, filesNewdir)
	root.AddCommand(filesCmd)

	execCmd := &cobra.Command{Use: "exec <path>", Short: "Execute a server file", Args: cobra.ExactArgs(1), RunE: func(cmd *cobra.Command, args []string) error {
		return a.px.ExecFile(cmd.Context(), args[0])
	}}
	root.AddCommand(execCmd)

	importCmd := &cobra.Command{Use: "import <path>", Short: "Import a file as a module on the server", Args: cobra.ExactArgs(1), RunE: func(cmd *cobra.Command, args []string) error {
		out, err := a.px.ImportFile(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Fprint(a.out, out)
		return nil
	}}
	root.AddCommand(importCmd)

	convertCmd := &cobra.Command{Use: "convert <quantity> <unit>", Short: "Convert a value with units to a compatible unit", Args: cobra.ExactArgs(2), RunE: func(cmd *cobra.Command, args []string) error {
		q, err := units.ParseQuantity(args[0])
		if err != nil {
			return err
		}
		q, err = q.ConvertTo(args[1])
		if err != nil {
			return err
		}
		fmt.Fprintln(a.out, q)
		return nil
	}}
	root.AddCommand(convertCmd)

	exitCmd := &cobra.Command{Use: "exit", Short: "Terminate the server session", RunE: func(cmd *cobra.Command, args []string) error {
		return a.px.Exit(cmd.Context())
	}}
	root.AddCommand(exitCmd)

	return root
}

// connect resolves configuration (defaults, file, env, flags) and builds
// the proxy used by the invoked subcommand.
func (a *app) connect(cmd *cobra.Command) error {
	cfg := config.Defaults()
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		fileCfg, err := config.Load(path)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = config.Merge(cfg, fileCfg)
	}
	cfg, err := config.FromEnv(cfg)
	if err != nil {
		return fmt.Errorf("env config: %w", err)
	}
	if v, _ := cmd.Flags().GetString("server"); v != "" {
		cfg.ServerURL = v
	}
	if v, _ := cmd.Flags().GetString("log-level"); v != "" {
		cfg.LogLevel = v
	}

	lvl, lerr := zerolog.ParseLevel(cfg.LogLevel)
	if lerr != nil {
		lvl = zerolog.InfoLevel
	}
	logger := zerolog.New(os.Stderr).Level(lvl).With().Timestamp().Logger()

	a.px, err = proxy.New(cfg.ServerURL,
		proxy.WithHTTPClient(&http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second}),
		proxy.WithLogger(logger),
		proxy.WithPrompter(&terminalPrompter{in: a.in, out: a.out}),
	)
	return err
}

// printConverted renders a fetched value in the requested unit. The
// value must be a string carrying a unit, such as "2.5 m".
func (a *app) printConverted(v any, target string) error {
	s, ok := v.(string)
	if !ok {
		return fmt.Errorf("value %v carries no unit", v)
	}
	q, err := units.ParseQuantity(s)
	if err != nil {
		return err
	}
	q, err = q.ConvertTo(target)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, q)
	return nil
}

func (a *app) printJSON(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// coord parses args[i] as a canvas coordinate, defaulting to 1 when the
// argument is absent or not numeric.
func coord(args []string, i int) int {
	if i >= len(args) {
		return 1
	}
	n, err := strconv.Atoi(args[i])
	if err != nil {
		return 1
	}
	return n
}

func optArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
