package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/hdt3213/nosqlcore/command"
	"github.com/hdt3213/nosqlcore/discovery"
	"github.com/hdt3213/nosqlcore/engine"
	"github.com/hdt3213/nosqlcore/lib/logger"
	"github.com/hdt3213/nosqlcore/lib/utils"
	"github.com/hdt3213/nosqlcore/snapshot"
)

// withConn opens a connection for the duration of fn
func withConn(cmd *cobra.Command, fn func(ctx context.Context, conn *engine.Connection) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	conn, err := open(ctx)
	if err != nil {
		return err
	}
	defer conn.Disconnect()
	return fn(ctx, conn)
}

var execCmd = &cobra.Command{
	Use:   "exec [command [arg ...]]",
	Short: "Execute one command, or read commands from stdin line by line",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withConn(cmd, func(ctx context.Context, conn *engine.Connection) error {
			if len(args) > 0 {
				v, err := conn.Execute(ctx, utils.ToCmdLine(args...))
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), FormatValue(v))
				return nil
			}
			return repl(ctx, conn, cmd.InOrStdin(), cmd.OutOrStdout())
		})
	},
}

// repl executes each line of in, a failed command is printed and does not stop the loop
func repl(ctx context.Context, conn *engine.Connection, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.EqualFold(line, "quit") || strings.EqualFold(line, "exit") {
			return nil
		}
		v, err := conn.ExecuteString(ctx, line)
		if err != nil {
			_, _ = fmt.Fprintln(out, "(error) "+err.Error())
			continue
		}
		_, _ = fmt.Fprintln(out, FormatValue(v))
	}
	return scanner.Err()
}

var getCmd = &cobra.Command{
	Use:   "get key",
	Short: "Load a key whatever its type, with its TTL",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withConn(cmd, func(ctx context.Context, conn *engine.Connection) error {
			kv, err := conn.GetUni(ctx, args[0])
			if err != nil {
				return err
			}
			ttl, err := conn.GetTTL(ctx, args[0])
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s (%s, ttl %s)\n%s\n", kv.Key, kv.Value.Kind(), ttl, FormatValue(kv.Value))
			return nil
		})
	},
}

var commandsCmd = &cobra.Command{
	Use:   "commands [pattern]",
	Short: "List the commands the backend accepts, optionally filtered by a glob pattern",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := props.BackendType()
		if err != nil {
			return err
		}
		registry := command.Builtin(b)
		descriptors := registry.All()
		if len(args) == 1 {
			descriptors = registry.Match(args[0])
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		for _, d := range descriptors {
			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", d.Usage(), d.Group, d.Summary)
		}
		return w.Flush()
	},
}

var discoverCmd = &cobra.Command{
	Use:       "discover cluster|sentinel",
	Short:     "Print the nodes reported by a cluster member or a sentinel",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"cluster", "sentinel"},
	RunE: func(cmd *cobra.Command, args []string) error {
		return withConn(cmd, func(ctx context.Context, conn *engine.Connection) error {
			var nodes []*discovery.Node
			var err error
			if args[0] == "cluster" {
				nodes, err = conn.DiscoverCluster(ctx)
			} else {
				nodes, err = conn.DiscoverSentinel(ctx)
			}
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, n := range nodes {
				_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", n.Addr(), n.Role, nodeLabel(n), slotsLabel(n))
			}
			return w.Flush()
		})
	},
}

func nodeLabel(n *discovery.Node) string {
	if n.Name != "" {
		return n.Name
	}
	return n.ID
}

func slotsLabel(n *discovery.Node) string {
	ranges := make([]string, len(n.Slots))
	for i, r := range n.Slots {
		ranges[i] = r.String()
	}
	return strings.Join(ranges, ",")
}

var dumpCmd = &cobra.Command{
	Use:   "dump file [pattern]",
	Short: "Write the keys matching pattern into an RDB file",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		pattern := "*"
		if len(args) == 2 {
			pattern = args[1]
		}
		return withConn(cmd, func(ctx context.Context, conn *engine.Connection) error {
			file, err := os.Create(args[0])
			if err != nil {
				return err
			}
			n, err := snapshot.Export(ctx, conn, file, pattern)
			if cerr := file.Close(); err == nil {
				err = cerr
			}
			if err != nil {
				return err
			}
			logger.Info(fmt.Sprintf("dumped %d keys into %s", n, args[0]))
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%d keys\n", n)
			return nil
		})
	},
}

var restoreCmd = &cobra.Command{
	Use:   "restore file",
	Short: "Store every key of an RDB file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withConn(cmd, func(ctx context.Context, conn *engine.Connection) error {
			file, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer file.Close()
			n, err := snapshot.Import(ctx, conn, file)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%d keys\n", n)
			if err != nil {
				return errors.New("restore finished with failures: " + err.Error())
			}
			return nil
		})
	},
}

func init() {
	AddCommand(execCmd)
	AddCommand(getCmd)
	AddCommand(commandsCmd)
	AddCommand(discoverCmd)
	AddCommand(dumpCmd)
	AddCommand(restoreCmd)
}
