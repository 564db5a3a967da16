package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"marketinsights/internal/storage"
)

// demoSource marks every seeded quote so -clear can remove them again.
const demoSource = "demo"

func main() {
	dbPath := flag.String("db", "data/market.db", "path to SQLite database")
	clear := flag.Bool("clear", false, "delete demo price rows and exit")
	prices := flag.Bool("prices", false, "print recent quotes and exit")
	flag.Parse()

	db, err := storage.NewDatabase(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "database init failed: %v\n", err)
		os.Exit(1)
	}
	repo := storage.NewRepository(db)

	switch {
	case *clear:
		n, err := repo.DeletePricesBySource(demoSource)
		if err != nil {
			fmt.Fprintf(os.Stderr, "clear failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("deleted %d demo price rows\n", n)
	case *prices:
		rows, err := repo.RecentPrices(10)
		if err != nil {
			fmt.Fprintf(os.Stderr, "list prices failed: %v\n", err)
			os.Exit(1)
		}
		for _, p := range rows {
			fmt.Printf("%-8s %12.5f  %s  %s\n", p.Symbol, p.Price, p.AsOf, p.Source)
		}
	default:
		if err := seed(repo); err != nil {
			fmt.Fprintf(os.Stderr, "seed failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("seed complete: open the app and explore Dashboard, Journal, and Wealth tabs")
	}
}

func seed(repo *storage.Repository) error {
	if err := seedPrices(repo); err != nil {
		return err
	}
	if err := seedJournal(repo, 40); err != nil {
		return err
	}
	if err := seedWealth(repo); err != nil {
		return err
	}
	_, err := repo.InsertEntryPlan(&storage.EntryPlan{
		Symbol:  "XAUUSD",
		Text:    "Wait for a pullback into the daily FVG near 2330, target the prior high.",
		Horizon: "daily",
		Source:  demoSource,
	})
	return err
}

func iso(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05Z")
}

// seedPrices writes 25 hourly random-walk points per symbol.
func seedPrices(repo *storage.Repository) error {
	now := time.Now().UTC()
	bases := map[string]float64{
		"EURUSD": 1.0850,
		"GBPUSD": 1.2750,
		"USDJPY": 149.30,
		"XAUUSD": 2350.0,
		"XAGUSD": 28.0,
		"AAPL":   192.0,
		"MSFT":   415.0,
	}
	for sym, base := range bases {
		price := base
		for i := 24; i >= 0; i-- {
			step := (rand.Float64()*2 - 1) * 0.001 * base
			price = max(0.0001, price+step)

			currency := ""
			if strings.HasPrefix(sym, "X") || sym == "AAPL" || sym == "MSFT" {
				currency = "USD"
			}
			_, err := repo.InsertPrice(&storage.Price{
				Symbol:   sym,
				Price:    price,
				AsOf:     iso(now.Add(-time.Duration(i) * time.Hour)),
				Currency: currency,
				Source:   demoSource,
			})
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func seedJournal(repo *storage.Repository, n int) error {
	now := time.Now().UTC()
	syms := []string{"EURUSD", "XAUUSD", "GBPUSD", "USDJPY"}
	bases := map[string]float64{
		"EURUSD": 1.08,
		"XAUUSD": 2350.0,
		"GBPUSD": 1.27,
		"USDJPY": 149.0,
	}
	for i := 0; i < n; i++ {
		sym := syms[i%len(syms)]
		direction := "Long"
		if i%2 == 1 {
			direction = "Short"
		}
		qty := 1.0
		if strings.HasSuffix(sym, "JPY") {
			qty = 10000
		}

		base := bases[sym]
		entry := base + (rand.Float64()*2-1)*base*0.0002
		move := (rand.Float64()*2 - 1) * base * 0.0001
		exit := entry + move
		if direction == "Short" {
			exit = entry - move
		}
		stop := entry - move*0.6

		_, err := repo.UpsertJournal(&storage.JournalEntry{
			Symbol:    sym,
			Date:      iso(now.AddDate(0, 0, -(n - i))),
			Direction: direction,
			Qty:       qty,
			Entry:     entry,
			Stop:      &stop,
			Exit:      &exit,
			Tags:      "demo",
			Notes:     "Demo trade",
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func seedWealth(repo *storage.Repository) error {
	pid, err := repo.UpsertPortfolio(&storage.Portfolio{
		Name:         "Demo Portfolio",
		BaseCurrency: "USD",
	})
	if err != nil {
		return err
	}

	txns := []storage.Transaction{
		{Date: "2025-09-15T00:00:00Z", Symbol: "AAPL", Type: "BUY", Qty: 10, Price: 190.0, Currency: "USD"},
		{Date: "2025-09-20T00:00:00Z", Symbol: "AAPL", Type: "SELL", Qty: 5, Price: 200.0, Currency: "USD"},
		{Date: "2025-09-10T00:00:00Z", Symbol: "XAUUSD", Type: "BUY", Qty: 1, Price: 2300.0, Currency: "USD"},
		{Date: "2025-09-22T00:00:00Z", Symbol: "EURUSD", Type: "BUY", Qty: 10000, Price: 1.08},
		{Date: "2025-09-25T00:00:00Z", Symbol: "AAPL", Type: "DIV", Qty: 0, Price: 2.40, Currency: "USD"},
	}
	for _, t := range txns {
		t.PortfolioID = pid
		t.Notes = "demo"
		if _, err := repo.InsertTransaction(&t); err != nil {
			return err
		}
	}
	return nil
}
