package cli

import (
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/carbon-vault/xkey/nativekey"
	"github.com/carbon-vault/xkey/provcore"
	"github.com/carbon-vault/xkey/xkeyprov"
	"github.com/effective-security/xlog"
	"github.com/effective-security/xpki/x/ctl"
	"github.com/pkg/errors"
)

var logger = xlog.NewPackageLogger("github.com/carbon-vault/xkey", "cli")

// Cli provides CLI context to run commands
type Cli struct {
	Cfg      string `help:"Location of framework config file" type:"path"`
	Debug    bool   `short:"D" help:"Enable debug mode"`
	LogLevel string `short:"l" help:"Set the logging level (debug|info|warn|error)" default:"error"`

	// Stdin is the source to read from, typically set to os.Stdin
	stdin io.Reader
	// Output is the destination for all output from the command, typically set to os.Stdout
	output io.Writer
	// ErrOutput is the destinaton for errors.
	// If not set, errors will be written to os.StdError
	errOutput io.Writer

	libctx *provcore.LibCtx
}

// Reader is the source to read from, typically set to os.Stdin
func (c *Cli) Reader() io.Reader {
	if c.stdin != nil {
		return c.stdin
	}
	return os.Stdin
}

// WithReader allows to specify a custom reader
func (c *Cli) WithReader(reader io.Reader) *Cli {
	c.stdin = reader
	return c
}

// Writer returns a writer for control output
func (c *Cli) Writer() io.Writer {
	if c.output != nil {
		return c.output
	}
	return os.Stdout
}

// WithWriter allows to specify a custom writer
func (c *Cli) WithWriter(out io.Writer) *Cli {
	c.output = out
	return c
}

// ErrWriter returns a writer for control output
func (c *Cli) ErrWriter() io.Writer {
	if c.errOutput != nil {
		return c.errOutput
	}
	return os.Stderr
}

// WithErrWriter allows to specify a custom error writer
func (c *Cli) WithErrWriter(out io.Writer) *Cli {
	c.errOutput = out
	return c
}

// AfterApply hook loads config
func (c *Cli) AfterApply(app *kong.Kong, vars kong.Vars) error {
	if c.Debug {
		xlog.SetGlobalLogLevel(xlog.DEBUG)
	} else {
		val := strings.TrimLeft(c.LogLevel, "=")
		l, err := xlog.ParseLevel(strings.ToUpper(val))
		if err != nil {
			return errors.WithStack(err)
		}
		xlog.SetGlobalLogLevel(l)
	}

	return nil
}

// WriteJSON prints response to out
func (c *Cli) WriteJSON(value interface{}) error {
	return ctl.WriteJSON(c.Writer(), value)
}

// LibCtx returns the configured library context. Without a config file the
// built-in and external key providers are activated, in that order.
func (c *Cli) LibCtx() *provcore.LibCtx {
	if c.libctx != nil {
		return c.libctx
	}

	lc := provcore.NewLibCtx()
	if c.Cfg != "" {
		if err := lc.ConfigureFromFile(c.Cfg); err != nil {
			logger.Panicf("unable to configure library context: [%v]", err)
		}
	} else {
		for _, name := range []string{nativekey.ProviderName, xkeyprov.ProviderID} {
			if _, err := lc.LoadProvider(name); err != nil {
				logger.Panicf("unable to load provider %q: [%v]", name, err)
			}
		}
	}

	c.libctx = lc
	return c.libctx
}
