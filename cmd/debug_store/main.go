package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"

	"dlc-updater/core/reconcile"
	"dlc-updater/feature/inventory/block"
	"dlc-updater/feature/inventory/flat"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

const usage = "usage: debug_store [--game G --id N --name S] <cream_api.ini|DLC.txt>"

// debug_store parses a store file and prints the ids it records. With --game,
// --id and --name it also prints the file as a reconcile run would rewrite it.
// The file itself is never modified.
func main() {
	logg, err := zap.NewDevelopment()
	if err != nil {
		log.Fatal(err)
	}
	defer logg.Sync()

	if err := run(os.Args[1:], os.Stdout, logg); err != nil {
		log.Fatal(err)
	}
}

func run(args []string, w io.Writer, logg *zap.Logger) error {
	fs := pflag.NewFlagSet("debug_store", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	game := fs.String("game", "", "Section to append to")
	id := fs.String("id", "", "DLC id to append")
	name := fs.String("name", "", "DLC name to append")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w\n%s", err, usage)
	}
	if fs.NArg() != 1 {
		return errors.New(usage)
	}
	path := fs.Arg(0)

	var adapter reconcile.Adapter
	if filepath.Ext(path) == ".ini" {
		adapter = block.New(path, logg)
	} else {
		adapter = flat.New(path, logg)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "=== %s store: %s ===\n", adapter.Name(), path)
	snap := adapter.Parse(data)
	games := make([]string, 0, len(snap))
	for g := range snap {
		games = append(games, g)
	}
	sort.Strings(games)
	for _, g := range games {
		fmt.Fprintf(w, "%-40s %d\n", g, len(snap[g]))
	}
	fmt.Fprintf(w, "Total ids: %d\n", snap.Count())

	if *game == "" || *id == "" {
		return nil
	}

	delta := reconcile.Delta{}
	delta.Add(*game, *id, *name)
	out, applied := adapter.Rewrite(data, delta)
	fmt.Fprintf(w, "\n=== Rewrite (%d applied) ===\n", applied)
	_, err = w.Write(out)
	return err
}
