package magic

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/pflag"

	ferrors "fluxcell/cli/internal/errors"
)

// args are the parsed options of one %flux line.
type args struct {
	line []string

	connections bool
	close       string
	token       string
	org         string
	connArgs    string
	file        string
	persist     string
	measurement string
	tags        string
	bucket      string
	debug       bool
}

func (a *args) flagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("flux", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.BoolVarP(&a.connections, "connections", "l", false, "list active connections")
	fs.StringVarP(&a.close, "close", "x", "", "close a connection by name")
	fs.StringVarP(&a.token, "token", "t", "", "InfluxDB token")
	fs.StringVarP(&a.org, "org", "o", "", "InfluxDB organization")
	fs.StringVarP(&a.connArgs, "connection-arguments", "a", "", "JSON object of client options")
	fs.StringVarP(&a.file, "file", "f", "", "run Flux read from this file")
	fs.StringVarP(&a.persist, "persist", "p", "", "write the named table to a bucket")
	fs.StringVarP(&a.measurement, "measurement", "m", "", "measurement name for --persist")
	fs.StringVarP(&a.tags, "tags", "T", "", "comma-separated tag columns for --persist")
	fs.StringVarP(&a.bucket, "bucket", "n", "", "target bucket for --persist")
	fs.BoolVar(&a.debug, "debug", false, "verbose InfluxDB client")
	return fs
}

// Usage describes the %flux options.
func Usage() string {
	var a args
	return "Usage: %flux [connection] [options] [flux]\n       %%flux [connection] [options] [<result> <<]\n\n" +
		a.flagSet().FlagUsages()
}

// parseArgs splits a %flux line into options and query text. Only known
// options are taken out; anything else, including Flux that happens to start
// with a dash, stays in the query text with its quoting intact.
func parseArgs(line string) (*args, error) {
	tokens, err := splitLine(line)
	if err != nil {
		return nil, ferrors.Wrap(ferrors.Configuration, "cannot parse %flux options", err)
	}

	a := &args{}
	fs := a.flagSet()
	var flagArgs []string

	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		f := lookupFlag(fs, tok)
		if f == nil {
			a.line = append(a.line, tok)
			continue
		}

		if name, value, ok := strings.Cut(tok, "="); ok && strings.HasPrefix(name, "--") {
			flagArgs = append(flagArgs, "--"+f.Name+"="+unquote(value))
			continue
		}
		if f.Value.Type() == "bool" {
			flagArgs = append(flagArgs, "--"+f.Name)
			continue
		}
		if i+1 >= len(tokens) {
			return nil, ferrors.Newf(ferrors.Configuration, "flag needs an argument: %s", tok)
		}
		i++
		flagArgs = append(flagArgs, "--"+f.Name+"="+unquote(tokens[i]))
	}

	if err := fs.Parse(flagArgs); err != nil {
		return nil, ferrors.Wrap(ferrors.Configuration, "invalid %flux options", err)
	}
	return a, nil
}

// lookupFlag returns the flag tok names, if any. Both --name and --name=value
// forms are recognized, as is a lone -x shorthand.
func lookupFlag(fs *pflag.FlagSet, tok string) *pflag.Flag {
	switch {
	case strings.HasPrefix(tok, "--") && len(tok) > 2:
		name, _, _ := strings.Cut(tok[2:], "=")
		return fs.Lookup(strings.ReplaceAll(name, "_", "-"))
	case len(tok) == 2 && tok[0] == '-' && tok[1] != '-':
		return fs.ShorthandLookup(tok[1:])
	}
	return nil
}

// connectionArguments decodes the -a JSON object.
func (a *args) connectionArguments() (map[string]any, error) {
	if strings.TrimSpace(a.connArgs) == "" {
		return nil, nil
	}
	var out map[string]any
	if err := json.Unmarshal([]byte(a.connArgs), &out); err != nil {
		return nil, ferrors.Wrap(ferrors.Configuration, "--connection-arguments must be a JSON object", err)
	}
	return out, nil
}

// splitLine breaks s on whitespace outside quotes. Quote characters are kept
// so Flux string literals survive.
func splitLine(s string) ([]string, error) {
	var (
		out   []string
		cur   strings.Builder
		quote rune
		inTok bool
		esc   bool
	)
	for _, r := range s {
		switch {
		case esc:
			cur.WriteRune(r)
			esc = false
		case quote != 0:
			cur.WriteRune(r)
			if r == '\\' && quote == '"' {
				esc = true
			} else if r == quote {
				quote = 0
			}
		case r == '"' || r == '\'':
			cur.WriteRune(r)
			quote = r
			inTok = true
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			if inTok {
				out = append(out, cur.String())
				cur.Reset()
				inTok = false
			}
		default:
			cur.WriteRune(r)
			inTok = true
		}
	}
	if quote != 0 {
		return nil, fmt.Errorf("unterminated %c quote", quote)
	}
	if inTok {
		out = append(out, cur.String())
	}
	return out, nil
}

func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}
