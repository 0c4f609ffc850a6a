// Package cli is the command line front end of nosqlcore
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"

	"github.com/hdt3213/nosqlcore/config"
	"github.com/hdt3213/nosqlcore/engine"
	"github.com/hdt3213/nosqlcore/lib/logger"
	"github.com/hdt3213/nosqlcore/pool"
)

var banner = `
    _   __      _____ ____    __
   / | / /___  / ___// __ \  / /
  /  |/ / __ \ \__ \/ / / / / /
 / /|  / /_/ /___/ / /_/ / / /___
/_/ |_/\____//____/\___\_\/_____/
`

// flags shared by every subcommand
var (
	configPath string
	transport  string
	host       string
	port       int
	password   string
	db         int
	backend    string
)

// newDialer is replaced in tests
var newDialer = pool.DialerFor

// props is loaded before any subcommand runs
var props *config.Properties

var rootCmd = &cobra.Command{
	Use:           "nosqlcli",
	Short:         "nosqlcli talks to redis compatible servers through a command catalogue with validation",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		props, err = config.Load(configPath)
		if err != nil {
			return err
		}
		overrideFlags(cmd)
		setupLogger(props)
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		_, _ = fmt.Fprint(cmd.OutOrStdout(), banner)
		return cmd.Help()
	},
}

// overrideFlags lets explicit flags win over the config file and the environment
func overrideFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	if flags.Changed("host") {
		props.Host = host
	}
	if flags.Changed("port") {
		props.Port = port
	}
	if flags.Changed("password") {
		props.Password = password
	}
	if flags.Changed("db") {
		props.DB = db
	}
	if flags.Changed("backend") {
		props.Backend = backend
	}
}

func setupLogger(p *config.Properties) {
	if p.LogPath != "" {
		logger.Setup(&logger.Settings{
			Path:       p.LogPath,
			Name:       "nosqlcli",
			Ext:        "log",
			TimeFormat: "2006-01-02",
			Level:      p.LogLevel,
		})
		return
	}
	// keep stdout for replies
	logger.DefaultLogger = logger.NewWriterLogger(zapcore.Lock(os.Stderr), logger.ParseLevel(p.LogLevel))
}

// open connects, authenticates and selects the configured database
func open(ctx context.Context) (*engine.Connection, error) {
	b, err := props.BackendType()
	if err != nil {
		return nil, err
	}
	dialer, err := newDialer(props, transport)
	if err != nil {
		return nil, err
	}
	conn := engine.NewConnection(b, dialer, engine.WithAddr(props.Addr()))
	if err := conn.Open(ctx, props); err != nil {
		_ = conn.Disconnect()
		return nil, err
	}
	return conn, nil
}

// AddCommand add command into Cli
func AddCommand(cmdline *cobra.Command) {
	rootCmd.AddCommand(cmdline)
}

// Execute runs the root command with os.Args
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configPath, "config", "c", "", "config file, "+config.DefaultConfPath+" is read if present")
	flags.StringVar(&transport, "transport", pool.TransportTCP, "transport, tcp or goredis")
	flags.StringVarP(&host, "host", "H", "", "server host")
	flags.IntVarP(&port, "port", "p", 0, "server port")
	flags.StringVarP(&password, "password", "a", "", "password used by AUTH")
	flags.IntVarP(&db, "db", "n", 0, "database number")
	flags.StringVar(&backend, "backend", "", "backend: redis, pika or dynomite")
}
