// Command inspect prints the content of a Badger store written by the
// query, posts or comments services. It opens the database read-only so it
// can run next to the service owning it.
package main

import (
	"blog-bus/infrastructure/storage"
	"blog-bus/internal"
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/mama165/sdk-go/logs"
	"github.com/olekukonko/tablewriter"
)

func main() {
	dbPath := flag.String("db", "./data/query", "Path to badger DB")
	prefix := flag.String("prefix", "post:", "Prefix to scan")
	flag.Parse()

	opts := badger.DefaultOptions(*dbPath).
		WithReadOnly(true).
		WithBypassLockGuard(true).
		WithLoggingLevel(badger.WARNING)

	db, err := badger.Open(opts)
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	store := storage.NewBadgerStore(db, logs.GetLoggerFromLevel(slog.LevelWarn))
	defer store.Close()

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Key", "Type", "Namespace", "Entity ID", "Status", "Detail"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	count := 0
	err = store.Scan(context.Background(), *prefix, func(key string, value []byte) error {
		row := internal.DefaultMapper(key, value)
		table.Append([]string{row.Key, row.Type, row.Namespace, row.EntityID, row.Status, row.Detail})
		count++
		return nil
	})
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(color.New(color.BgBlack, color.FgGreen).Render(
		fmt.Sprintf(" %s | prefix %q | %d key(s) ", *dbPath, *prefix, count)))
	table.Render()
}
