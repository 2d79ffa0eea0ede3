// Command generate writes sample copies of the four operator CSV sources
// plus a monthly KPI file into testdata/, shaped like the real exports.
package main

import (
	"encoding/csv"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
)

const outDir = "testdata"

func main() {
	rng := rand.New(rand.NewSource(42))

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		log.Fatalf("mkdir: %v", err)
	}

	const roomCount = 40

	roster := [][]string{{"room_id", "liver_name"}}
	accounts := [][]string{{"room_id", "url", "genre", "account_id"}}
	var roomIDs, accountIDs []string
	for i := 0; i < roomCount; i++ {
		roomID := fmt.Sprintf("%06d", 100000+rng.Intn(900000))
		accountID := fmt.Sprintf("AC%05d", 10000+rng.Intn(90000))
		roomIDs = append(roomIDs, roomID)
		accountIDs = append(accountIDs, accountID)
		roster = append(roster, []string{roomID, fmt.Sprintf("ライバー%02d", i+1)})
		accounts = append(accounts, []string{
			roomID,
			"https://example.com/room/" + roomID,
			"music",
			accountID,
		})
	}
	// A few rooms deliberately have no account link.
	accounts = accounts[:len(accounts)-3]

	kpi := [][]string{{"date", "room_id", "view_count"}}
	for i, roomID := range roomIDs {
		// Roughly 70% of managed rooms streamed this month.
		if rng.Float64() < 0.7 {
			kpi = append(kpi, []string{
				"2025-07-15", roomID, fmt.Sprintf("%d", 100+i*7),
			})
		}
	}
	// Unmanaged rooms also appear in the KPI feed.
	for i := 0; i < 20; i++ {
		kpi = append(kpi, []string{
			"2025-07-15",
			fmt.Sprintf("%06d", 100000+rng.Intn(900000)),
			fmt.Sprintf("%d", 50+i),
		})
	}

	grandTotal := 0
	base := [][]string{{"amount", "account_id"}}
	baseRows := [][]string{}
	for _, accountID := range accountIDs[:roomCount-5] {
		amount := 5000 + rng.Intn(400000)
		grandTotal += amount
		baseRows = append(baseRows, []string{fmt.Sprintf("%d", amount), accountID})
	}
	// The first data row is the roster-wide grand total.
	base = append(base, []string{fmt.Sprintf("%d", grandTotal), ""})
	base = append(base, baseRows...)

	premium := [][]string{{"amount", "account_id"}}
	timeCharge := [][]string{{"amount", "account_id"}}
	for _, accountID := range accountIDs[:roomCount-10] {
		premium = append(premium, []string{fmt.Sprintf("%d", 1000+rng.Intn(50000)), accountID})
		timeCharge = append(timeCharge, []string{fmt.Sprintf("%d", 500+rng.Intn(20000)), accountID})
	}
	// One not-available and one malformed amount, as seen in real exports.
	premium = append(premium, []string{"#N/A", accountIDs[roomCount-8]})
	timeCharge = append(timeCharge, []string{"12,345", accountIDs[roomCount-9]})

	files := map[string][][]string{
		"m-liver-list.csv":              roster,
		"m-liver-account.csv":           accounts,
		"2025-07_all_all.csv":           kpi,
		"m-distribution-base.csv":       base,
		"m-distribution-premium.csv":    premium,
		"m-distribution-timecharge.csv": timeCharge,
	}

	for name, rows := range files {
		if err := writeCSV(filepath.Join(outDir, name), rows); err != nil {
			log.Fatalf("write %s: %v", name, err)
		}
		log.Printf("wrote %s (%d rows)", name, len(rows)-1)
	}
}

func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	return nil
}
