// Command gorelix is an interactive console over the storage engine:
// create, open and close tables, insert, scan and delete rows, all
// without a server or wire protocol — the engine runs in-process. The
// console has no commands for the secondary index.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	"github.com/tuannm99/gorelix/internal/config"
	"github.com/tuannm99/gorelix/internal/record"
	"github.com/tuannm99/gorelix/internal/scan"
	"github.com/tuannm99/gorelix/internal/types"
)

// session holds every table this console process has opened, keyed
// by the name it was opened under.
type session struct {
	tables map[string]*record.Table
}

func newSession() *session { return &session{tables: make(map[string]*record.Table)} }

func (s *session) closeAll() {
	for name, tbl := range s.tables {
		if err := tbl.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "close %s: %v\n", name, err)
		}
	}
}

func defaultHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ".gorelix_history"
	}
	return filepath.Join(home, ".gorelix_history")
}

func setupLogging(level string) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
}

func main() {
	var (
		configPath = flag.String("config", "", "path to a gorelix.yaml config file")
		histPath   = flag.String("history", defaultHistoryPath(), "history file path")
	)
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "config: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	setupLogging(cfg.Log.Level)

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "gorelix> ",
		HistoryFile:     *histPath,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "readline: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = rl.Close() }()

	sess := newSession()
	defer sess.closeAll()

	fmt.Println("gorelix console — type \\help for commands")
	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err != nil {
			fmt.Println()
			return
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "\\q" || line == "quit" || line == "exit" {
			return
		}
		if line == "\\help" {
			printHelp()
			continue
		}

		if err := dispatch(sess, line); err != nil {
			fmt.Printf("error: %v\n", err)
		}
	}
}

func printHelp() {
	fmt.Print(`commands:
  create <table> <schema-string>     create a table from its serialized schema
  open <table>                       open an existing table
  insert <table> <v1> <v2> ...       pack and insert a record (typed per schema)
  scan <table>                       print every live row in the table
  delete <table> <page> <slot>       mark a slot deleted
  close <table>                      close a table and flush its buffer pool
  \help                              this message
  \q | quit | exit                   quit
`)
}

func dispatch(sess *session, line string) error {
	fields := strings.SplitN(line, " ", 3)
	cmd := fields[0]

	switch cmd {
	case "create":
		if len(fields) < 3 {
			return fmt.Errorf("usage: create <table> <schema-string>")
		}
		schema, err := record.ParseSchema(fields[2])
		if err != nil {
			return err
		}
		return record.CreateTable(fields[1], schema)

	case "open":
		if len(fields) < 2 {
			return fmt.Errorf("usage: open <table>")
		}
		tbl, err := record.OpenTable(fields[1])
		if err != nil {
			return err
		}
		sess.tables[fields[1]] = tbl
		fmt.Printf("opened %s: %s\n", fields[1], tbl.Schema().Serialize())
		return nil

	case "close":
		if len(fields) < 2 {
			return fmt.Errorf("usage: close <table>")
		}
		tbl, ok := sess.tables[fields[1]]
		if !ok {
			return fmt.Errorf("table %s is not open", fields[1])
		}
		delete(sess.tables, fields[1])
		return tbl.Close()

	case "insert":
		if len(fields) < 3 {
			return fmt.Errorf("usage: insert <table> <v1> <v2> ...")
		}
		tbl, ok := sess.tables[fields[1]]
		if !ok {
			return fmt.Errorf("table %s is not open", fields[1])
		}
		values, err := parseValues(tbl.Schema(), strings.Fields(fields[2]))
		if err != nil {
			return err
		}
		rid, err := tbl.Insert(values)
		if err != nil {
			return err
		}
		fmt.Printf("inserted at %s\n", rid)
		return nil

	case "scan":
		if len(fields) < 2 {
			return fmt.Errorf("usage: scan <table>")
		}
		tbl, ok := sess.tables[fields[1]]
		if !ok {
			return fmt.Errorf("table %s is not open", fields[1])
		}
		s := scan.StartScan(tbl, nil)
		for {
			rid, values, err := s.Next()
			if err == scan.ErrNoMoreTuples {
				break
			}
			if err != nil {
				return err
			}
			fmt.Printf("%s: %s\n", rid, formatValues(values))
		}
		return nil

	case "delete":
		if len(fields) < 3 {
			return fmt.Errorf("usage: delete <table> <page> <slot>")
		}
		tbl, ok := sess.tables[fields[1]]
		if !ok {
			return fmt.Errorf("table %s is not open", fields[1])
		}
		rest := strings.Fields(fields[2])
		if len(rest) != 2 {
			return fmt.Errorf("usage: delete <table> <page> <slot>")
		}
		page, err := strconv.Atoi(rest[0])
		if err != nil {
			return err
		}
		slotN, err := strconv.Atoi(rest[1])
		if err != nil {
			return err
		}
		return tbl.Delete(types.RID{Page: uint32(page), Slot: uint32(slotN)})

	default:
		return fmt.Errorf("unknown command: %s (try \\help)", cmd)
	}
}

func parseValues(schema record.Schema, tokens []string) ([]types.Value, error) {
	if len(tokens) != schema.NumAttrs() {
		return nil, fmt.Errorf("expected %d values, got %d", schema.NumAttrs(), len(tokens))
	}
	values := make([]types.Value, len(tokens))
	for i, a := range schema.Attrs {
		tok := tokens[i]
		switch a.Kind {
		case types.KindInt:
			n, err := strconv.Atoi(tok)
			if err != nil {
				return nil, fmt.Errorf("attribute %s: %w", a.Name, err)
			}
			values[i] = types.IntValue(int32(n))
		case types.KindFloat:
			f, err := strconv.ParseFloat(tok, 64)
			if err != nil {
				return nil, fmt.Errorf("attribute %s: %w", a.Name, err)
			}
			values[i] = types.FloatValue(f)
		case types.KindBool:
			b, err := strconv.ParseBool(tok)
			if err != nil {
				return nil, fmt.Errorf("attribute %s: %w", a.Name, err)
			}
			values[i] = types.BoolValue(b)
		case types.KindString:
			values[i] = types.StringValue(tok)
		default:
			return nil, fmt.Errorf("attribute %s: %w", a.Name, types.ErrUnknownDataType)
		}
	}
	return values, nil
}

func formatValues(values []types.Value) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = v.String()
	}
	return strings.Join(parts, ", ")
}
