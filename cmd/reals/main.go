package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/zephyrtronium/reals"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).With().Timestamp().Logger()
	var (
		inname, varsname string
		with             [][2]string
		nl, echo, timed  bool
		verbose          bool
		digits, limit    int
	)
	addwith := func(s string) error {
		d := strings.SplitN(s, "=", 2)
		if len(d) != 2 {
			return fmt.Errorf(`variable definitions must be "name=value", not %q`, s)
		}
		with = append(with, [2]string{strings.TrimSpace(d[0]), strings.TrimSpace(d[1])})
		return nil
	}
	flag.StringVar(&inname, "in", "", "input file (default stdin if no args given)")
	flag.StringVar(&varsname, "vars", "", "YAML file mapping variable names to expressions")
	flag.Func("given", "name=value variable definition (any number of times)", addwith)
	flag.IntVar(&digits, "digits", 20, "decimal digits to print")
	flag.IntVar(&limit, "limit", reals.DefaultSearchLimit, "precisions to try when dividing")
	flag.BoolVar(&nl, "n", false, "parse separate input lines as separate expressions")
	flag.BoolVar(&echo, "echo", false, "print parse trees")
	flag.BoolVar(&timed, "time", false, "log the time taken by each approximation")
	flag.BoolVar(&verbose, "v", false, "log debug messages")
	flag.Parse()
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	if digits < 0 {
		log.Fatal().Int("digits", digits).Msg("digits must not be negative")
	}

	var ins []io.RuneScanner
	f, err := infile(inname, flag.NArg() == 0)
	if err != nil {
		log.Fatal().Err(err).Msg("opening input")
	}
	if f != nil {
		defer f.Close()
		ins = append(ins, bufio.NewReader(f))
	}
	for _, arg := range flag.Args() {
		ins = append(ins, strings.NewReader(arg))
	}

	ctx := reals.NewContext(reals.SearchLimit(limit))
	if varsname != "" {
		vf, err := os.Open(varsname)
		if err != nil {
			log.Fatal().Err(err).Msg("opening variables")
		}
		err = loadvars(ctx, vf, log)
		vf.Close()
		if err != nil {
			log.Fatal().Err(err).Str("file", varsname).Msg("loading variables")
		}
	}
	for _, d := range with {
		if err := define(ctx, d[0], d[1], log); err != nil {
			log.Fatal().Err(err).Msg("setting variable")
		}
	}

	var p []*reals.Expr
	var opts []reals.ParseOption
	if nl {
		opts = append(opts, reals.StopOn('\n'))
	}
	for _, in := range ins {
		for {
			// First check whether we're done with the input.
			if _, _, err := in.ReadRune(); err != nil {
				if errors.Is(err, io.EOF) {
					break
				}
				log.Fatal().Err(err).Msg("reading input")
			}
			in.UnreadRune()
			a, err := reals.Parse(in, opts...)
			if err != nil {
				log.Fatal().Err(err).Msg("parsing")
			}
			log.Debug().Stringer("expr", a).Strs("vars", a.Vars()).Msg("parsed")
			p = append(p, a)
		}
	}

	for _, a := range p {
		if echo {
			fmt.Printf("%v : ", a)
		}
		c := ctx.Clone()
		r := c.Eval(a)
		if r == nil {
			fmt.Println(c.Err())
			continue
		}
		start := time.Now()
		s := r.DecimalApprox(digits)
		if timed {
			log.Info().Stringer("expr", a).Int("digits", digits).Dur("elapsed", time.Since(start)).Msg("approximated")
		}
		fmt.Println(s)
	}
}

// define evaluates an expression and sets it as a variable in ctx.
func define(ctx *reals.Context, name, src string, log zerolog.Logger) error {
	a, err := reals.ParseString(src)
	if err != nil {
		return fmt.Errorf("setting %s: %w", name, err)
	}
	c := ctx.Clone()
	r := c.Eval(a)
	if r == nil {
		return fmt.Errorf("setting %s: %w", name, c.Err())
	}
	ctx.Set(name, r)
	log.Debug().Str("name", name).Stringer("value", a).Msg("defined")
	return nil
}

// loadvars reads a YAML mapping of names to expressions and defines each in
// document order, so later definitions can use earlier ones.
func loadvars(ctx *reals.Context, r io.Reader, log zerolog.Logger) error {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	if len(doc.Content) == 0 {
		return nil
	}
	m := doc.Content[0]
	if m.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: variables must be a mapping", m.Line)
	}
	for i := 0; i+1 < len(m.Content); i += 2 {
		k, v := m.Content[i], m.Content[i+1]
		var name, src string
		if err := k.Decode(&name); err != nil {
			return err
		}
		if err := v.Decode(&src); err != nil {
			return err
		}
		if err := define(ctx, name, src, log); err != nil {
			return fmt.Errorf("line %d: %w", k.Line, err)
		}
	}
	return nil
}

// infile opens the named input, or stdin for "-" or when std is set and no
// name is given. The result is nil when there is no input file.
func infile(inname string, std bool) (*os.File, error) {
	switch {
	case inname != "" && inname != "-":
		return os.Open(inname)
	case inname == "-", std:
		return os.Stdin, nil
	}
	return nil, nil
}
