package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/halcyonsync/filesync/internal/config"
	"github.com/halcyonsync/filesync/internal/connect"
	"github.com/halcyonsync/filesync/internal/progress"
	"github.com/halcyonsync/filesync/internal/session"
	"github.com/halcyonsync/filesync/internal/stream"
	"github.com/halcyonsync/filesync/internal/syncerr"
)

var (
	chunkSize  uint32
	bwlimit    int
	connectStr string
	sshKeyFile string
	sshPort    int
	verbose    bool
	quiet      bool
	noTTY      bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "filesync",
		Short:         "Push, pull, list, and incrementally sync files with a remote peer",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().Uint32Var(&chunkSize, "chunk-size", 0, "DATA chunk size in bytes (0 = protocol default)")
	rootCmd.PersistentFlags().IntVar(&bwlimit, "bwlimit", 0, "bandwidth cap in bytes/sec (0 = unlimited)")
	rootCmd.PersistentFlags().StringVar(&connectStr, "connect", "", "peer address, e.g. tcp://host:port, unix:///path, ssh://user@host")
	rootCmd.PersistentFlags().StringVar(&sshKeyFile, "ssh-key", "", "SSH private key file (ssh:// connect only)")
	rootCmd.PersistentFlags().IntVar(&sshPort, "ssh-port", 22, "SSH port (ssh:// connect only)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress progress output")
	rootCmd.PersistentFlags().BoolVar(&noTTY, "no-tty", false, "disable terminal line-rewriting even if stderr is a TTY")

	rootCmd.AddCommand(listCmd(), pushCmd(), pullCmd(), syncCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func setupLogging() {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// newSession merges configuration file defaults under explicit flags, then
// dials the peer and constructs a Session. flags is consulted to tell
// whether the user actually passed --chunk-size/--bwlimit/--connect, so a
// config default never overrides an explicit flag.
func newSession(flags *pflag.FlagSet) (*session.Session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	applyConfigDefaults(flags, cfg)

	connector, err := connectorFor(connectStr)
	if err != nil {
		return nil, err
	}
	s, err := connector()
	if err != nil {
		slog.Error("connect failed", "connect", connectStr, "error", err)
		return nil, &syncerr.ConnectFailed{Cause: err}
	}

	sink := progressSink()
	var opts []session.Option
	if chunkSize > 0 {
		opts = append(opts, session.WithChunkSize(chunkSize))
	}
	if bwlimit > 0 {
		opts = append(opts, session.WithBandwidthLimit(bwlimit))
	}
	return session.New(s, sink, opts...), nil
}

func applyConfigDefaults(flags *pflag.FlagSet, cfg config.Config) {
	if !flags.Changed("chunk-size") && cfg.Defaults.ChunkSize != nil {
		chunkSize = uint32(*cfg.Defaults.ChunkSize) //nolint:gosec // G115: config values are operator-supplied small sizes
	}
	if !flags.Changed("bwlimit") && cfg.Defaults.BWLimit != nil {
		bwlimit = *cfg.Defaults.BWLimit
	}
	if !flags.Changed("connect") && cfg.Defaults.Connect != nil {
		connectStr = *cfg.Defaults.Connect
	}
	if !flags.Changed("no-tty") && cfg.Defaults.NoTTY != nil {
		noTTY = *cfg.Defaults.NoTTY
	}
	if !flags.Changed("quiet") && cfg.Defaults.Quiet != nil {
		quiet = *cfg.Defaults.Quiet
	}
	if sshKeyFile == "" && cfg.SSH.KeyFile != nil {
		sshKeyFile = *cfg.SSH.KeyFile
	}
	if !flags.Changed("ssh-port") && cfg.SSH.Port != nil {
		sshPort = *cfg.SSH.Port
	}
}

func progressSink() progress.Sink {
	if quiet {
		return progress.Nop{}
	}
	if noTTY {
		return progress.NewTerminal(os.Stderr, 0)
	}
	return progress.NewTerminal(os.Stderr, os.Stderr.Fd())
}

// connectorFor parses --connect into one of the concrete connect.*
// constructors. Supported schemes: tcp://host:port, unix:///path,
// ssh://[user@]host.
func connectorFor(spec string) (stream.Connector, error) {
	scheme, rest, ok := splitScheme(spec)
	if !ok {
		return nil, fmt.Errorf("--connect must be set to tcp://, unix://, or ssh://")
	}

	slog.Debug("resolved connector", "scheme", scheme, "target", rest)
	switch scheme {
	case "tcp":
		return connect.TCP(rest, 10*time.Second), nil
	case "unix":
		return connect.Unix(rest), nil
	case "ssh":
		userName, host := splitUserHost(rest)
		slog.Debug("ssh connector", "user", userName, "host", host, "port", sshPort)
		return connect.SSH(host, userName, connect.SSHOpts{
			Port:    sshPort,
			KeyFile: sshKeyFile,
		}), nil
	default:
		return nil, fmt.Errorf("unsupported --connect scheme %q", scheme)
	}
}

func splitScheme(spec string) (scheme, rest string, ok bool) {
	for i := 0; i+2 < len(spec); i++ {
		if spec[i] == ':' && spec[i+1] == '/' && spec[i+2] == '/' {
			return spec[:i], spec[i+3:], true
		}
	}
	return "", "", false
}

func splitUserHost(hostport string) (userName, host string) {
	for i := 0; i < len(hostport); i++ {
		if hostport[i] == '@' {
			return hostport[:i], hostport[i+1:]
		}
	}
	return "", hostport
}
