package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/func/beanstalk/config"
	"github.com/func/beanstalk/journal"
	"github.com/func/beanstalk/provider"
	awsprovider "github.com/func/beanstalk/provider/aws"
	"github.com/func/beanstalk/reconcile"
	"github.com/hashicorp/hcl2/hcl"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Exit codes.
const (
	exitError  = 1
	exitConfig = 2
)

// A usageError is returned for invalid command line input.
type usageError struct {
	msg string
}

func (e usageError) Error() string { return e.msg }

func usagef(format string, args ...interface{}) error {
	return usageError{msg: fmt.Sprintf(format, args...)}
}

// exitCode returns the exit code for an error. Configuration errors exit with
// status 2, all other errors with 1.
func exitCode(err error) int {
	switch errors.Cause(err).(type) {
	case *config.ValidationError, usageError, hcl.Diagnostics:
		return exitConfig
	}
	return exitError
}

// fatal prints the error to stderr and exits.
func fatal(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(exitCode(err))
}

// session holds the dependencies of a single command invocation.
type session struct {
	ctx     context.Context
	logger  *zap.Logger
	journal *journal.Journal
	clients map[string]provider.Client
}

func newSession() (*session, error) {
	logger, err := newLogger(global.logLevel)
	if err != nil {
		return nil, err
	}
	s := &session{
		ctx:     signalContext(context.Background()),
		logger:  logger,
		clients: make(map[string]provider.Client),
	}
	if global.journal != "" {
		j, err := journal.Open(global.journal)
		if err != nil {
			logger.Warn("Journal disabled", zap.Error(err))
		} else {
			s.journal = j
		}
	}
	return s, nil
}

func (s *session) Close() {
	if s.journal != nil {
		if err := s.journal.Close(); err != nil {
			s.logger.Warn("Close journal", zap.Error(err))
		}
	}
	_ = s.logger.Sync()
}

// client returns a client for the region. Clients are created once per
// region. If region is empty, the --region flag is used.
func (s *session) client(ctx context.Context, region string) (provider.Client, error) {
	if region == "" {
		region = global.region
	}
	if c, ok := s.clients[region]; ok {
		return c, nil
	}
	cfg, err := awsprovider.Config(awsprovider.Options{Region: region, Profile: global.profile})
	if err != nil {
		return nil, err
	}
	s.logger.Debug("Created client", zap.String("region", cfg.Region))
	c := awsprovider.New(cfg)
	s.clients[region] = c
	return c, nil
}

func (s *session) reconciler(region string) (*reconcile.Reconciler, error) {
	client, err := s.client(s.ctx, region)
	if err != nil {
		return nil, err
	}
	return &reconcile.Reconciler{
		Client: client,
		Check:  global.check,
		Logger: s.logger,
	}, nil
}

// record writes a journal entry. Journal failures are logged, not returned.
func (s *session) record(e *journal.Entry, changed bool, output string, err error) {
	if s.journal == nil {
		return
	}
	if e.RunID == "" {
		e.RunID = journal.NewRunID()
	}
	e.Check = global.check
	e.Changed = changed
	e.Output = output
	if err != nil {
		e.Error = err.Error()
	}
	if jerr := s.journal.Append(s.ctx, e); jerr != nil {
		s.logger.Warn("Could not write journal", zap.Error(jerr))
	}
}

// newLogger builds a development logger writing to stderr.
func newLogger(level string) (*zap.Logger, error) {
	var lvl zapcore.Level
	if err := lvl.Set(level); err != nil {
		return nil, usagef("invalid log level %q", level)
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	logger, err := cfg.Build()
	if err != nil {
		return nil, errors.Wrap(err, "build logger")
	}
	return logger, nil
}

// printJSON writes v as indented JSON to stdout.
func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// run runs fn with a new session and exits on error.
func run(fn func(s *session) error) {
	s, err := newSession()
	if err != nil {
		fatal(err)
	}
	err = fn(s)
	s.Close()
	if err != nil {
		fatal(err)
	}
}
