// Package console executes line-oriented command scripts against an
// interval tree session and prints the results as tables and banners.
//
// A script holds one command per line; blank lines and lines starting with
// '#' are skipped:
//
//	insert 1 5
//	insert 10.0.0.0/24
//	search 4 4
//	overlaps 3-8
//	delete 1 5
//	list
//	tree
//	height
//	undo
//	reset
//	load seeds.csv
//	load spamhaus_drop.netset
package console

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"

	"github.com/anrid/intervaltree/pkg/endpoint"
	"github.com/anrid/intervaltree/pkg/firehol"
	"github.com/anrid/intervaltree/pkg/interval"
	"github.com/anrid/intervaltree/pkg/logger"
	"github.com/anrid/intervaltree/pkg/session"
)

// ErrUnknownCommand is returned for a script line with an unknown verb.
var ErrUnknownCommand = errors.New("unknown command")

// RunParams configures a script run.
type RunParams struct {
	// Script is a local path or an http(s) URL. Ignored when Input is set.
	Script string
	// Input is read instead of Script when not nil.
	Input io.Reader
	// Seed is an optional CSV file or URL loaded before the script runs.
	Seed string

	Output      io.Writer
	Color       bool
	IPEndpoints bool
	StopOnError bool
}

// Summary counts what a run did.
type Summary struct {
	Lines    int
	Commands int
	Failures int
	Seeded   int
}

type Runner struct {
	sess    *session.Session
	log     logger.Logger
	printer *printer
}

func NewRunner(sess *session.Session, log logger.Logger, out io.Writer, useColor, ipEndpoints bool) *Runner {
	return &Runner{
		sess:    sess,
		log:     log.With("console"),
		printer: newPrinter(out, useColor, ipEndpoints),
	}
}

// Run executes a whole script against sess.
func Run(ctx context.Context, sess *session.Session, log logger.Logger, params RunParams) (Summary, error) {
	rn := NewRunner(sess, log, params.Output, params.Color, params.IPEndpoints)

	var sum Summary
	if params.Seed != "" {
		n, err := rn.Load(ctx, params.Seed)
		sum.Seeded = n
		if err != nil {
			return sum, err
		}
	}

	forEachLine := func(lineNumber int, line string) error {
		sum.Lines++
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			return nil
		}

		sum.Commands++
		if err := rn.Exec(ctx, line); err != nil {
			sum.Failures++
			rn.log.Warnf("line %d: %v", lineNumber, err)
			if params.StopOnError {
				return errors.Wrapf(err, "line %d", lineNumber)
			}
		}
		return ctx.Err()
	}

	var err error
	if params.Input != nil {
		err = readLines(params.Input, "input", forEachLine)
	} else {
		err = readFileOrURL(ctx, params.Script, forEachLine)
	}

	rn.log.Infof("ran %d commands from %d lines, %d failed", sum.Commands, sum.Lines, sum.Failures)
	return sum, err
}

// Exec runs a single command line.
func (rn *Runner) Exec(ctx context.Context, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	verb, args := strings.ToLower(fields[0]), strings.Join(fields[1:], " ")

	switch verb {
	case "insert", "add":
		low, high, err := rn.parseRange(args)
		if err != nil {
			return err
		}
		err = rn.sess.Insert(low, high)
		rn.printer.banner(rn.sess.Message())
		return err

	case "delete", "remove", "del":
		low, high, err := rn.parseRange(args)
		if err != nil {
			return err
		}
		rn.sess.Delete(low, high)
		rn.printer.banner(rn.sess.Message())
		return nil

	case "search", "find":
		low, high, err := rn.parseRange(args)
		if err != nil {
			return err
		}
		_, _, err = rn.sess.Search(low, high)
		rn.printer.banner(rn.sess.Message())
		return err

	case "overlaps", "all":
		low, high, err := rn.parseRange(args)
		if err != nil {
			return err
		}
		res, err := rn.sess.SearchAll(low, high)
		rn.printer.banner(rn.sess.Message())
		if err != nil {
			return err
		}
		if len(res) > 0 {
			rn.printer.intervals(res)
		}
		return nil

	case "list", "ls":
		rn.printer.intervals(rn.sess.View().Intervals)
		return nil

	case "height":
		v := rn.sess.View()
		rn.printer.linef("height: %d (%d intervals, %s)", v.Height, v.Size, v.Balancing)
		return nil

	case "tree":
		rn.printer.tree(rn.sess.Tree())
		return nil

	case "undo":
		err := rn.sess.Undo()
		rn.printer.banner(rn.sess.Message())
		return err

	case "reset", "clear":
		rn.sess.Reset()
		rn.printer.banner(rn.sess.Message())
		return nil

	case "load":
		if args == "" {
			return rn.reject(errors.New("load needs a file or URL"))
		}
		_, err := rn.Load(ctx, args)
		return err

	default:
		return rn.reject(errors.Wrapf(ErrUnknownCommand, "%q", verb))
	}
}

// Load inserts the intervals of a FireHOL set file (.ipset, .netset) or of a
// CSV file, local or remote.
func (rn *Runner) Load(ctx context.Context, fileOrURL string) (int, error) {
	if firehol.IsIPSetFile(fileOrURL) {
		return rn.LoadIPSet(ctx, fileOrURL)
	}
	return rn.LoadCSV(ctx, fileOrURL)
}

// LoadIPSet inserts every CIDR block and address of a FireHOL set file.
func (rn *Runner) LoadIPSet(ctx context.Context, fileOrURL string) (int, error) {
	f, cleanup, err := openFileOrURL(ctx, fileOrURL)
	if err != nil {
		return 0, rn.reject(err)
	}
	defer cleanup()

	set, err := firehol.ParseIPSet(f)
	if err != nil {
		return 0, rn.reject(errors.Wrapf(err, "could not parse IP set: %s", fileOrURL))
	}
	ranges, err := set.Ranges()
	if err != nil {
		return 0, rn.reject(errors.Wrapf(err, "bad entry in IP set: %s", fileOrURL))
	}

	batch := make([]interval.Interval, 0, len(ranges))
	for _, r := range ranges {
		batch = append(batch, interval.Interval{Low: r.Low, High: r.High})
	}
	if err := rn.sess.InsertAll(batch); err != nil {
		return 0, rn.reject(errors.Wrapf(err, "IP set %s", fileOrURL))
	}

	rn.printer.banner(session.Message{
		Kind: session.Success,
		Text: fmt.Sprintf("Loaded %d ranges from IP set %q (%d CIDRs, %d IPs)", len(ranges), set.Name, len(set.CIDRs), len(set.IPs)),
	})
	rn.log.Debugf("loaded IP set %s maintained by %s", set.Name, set.Maintainer)
	return len(ranges), nil
}

// LoadCSV inserts every interval of a CSV file or URL. A record is either a
// single range column ("1-5", a CIDR block) or low and high columns; further
// columns are ignored. A first record that does not parse is taken as a
// header. The whole file is one undo step and nothing is stored when a
// record is bad.
func (rn *Runner) LoadCSV(ctx context.Context, fileOrURL string) (int, error) {
	var batch []interval.Interval

	err := readCSVFileOrURL(ctx, fileOrURL, func(recordNumber int, record []string) error {
		low, high, err := parseRecord(record)
		if err != nil {
			if recordNumber == 1 {
				// Skip headers.
				return nil
			}
			return err
		}

		batch = append(batch, interval.Interval{Low: low, High: high})
		return nil
	})
	if err == nil {
		err = rn.sess.InsertAll(batch)
	}
	if err != nil {
		return 0, rn.reject(err)
	}
	loaded := len(batch)

	rn.printer.banner(session.Message{
		Kind: session.Success,
		Text: fmt.Sprintf("Loaded %d intervals from %s", loaded, fileOrURL),
	})
	rn.log.Debugf("loaded %d intervals from %s", loaded, fileOrURL)
	return loaded, nil
}

func parseRecord(record []string) (low, high int64, err error) {
	if len(record) >= 2 && strings.TrimSpace(record[1]) != "" {
		if low, err = endpoint.Parse(record[0]); err == nil {
			if high, err = endpoint.Parse(record[1]); err == nil {
				return low, high, nil
			}
		}
	}
	if len(record) == 0 {
		return 0, 0, errors.New("empty record")
	}
	return endpoint.ParseRange(record[0])
}

func (rn *Runner) parseRange(args string) (low, high int64, err error) {
	low, high, err = endpoint.ParseRange(args)
	if err != nil {
		return 0, 0, rn.reject(err)
	}
	return low, high, nil
}

func (rn *Runner) reject(err error) error {
	rn.printer.banner(session.Message{Kind: session.Error, Text: err.Error()})
	return err
}
