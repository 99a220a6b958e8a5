// Watches an inbox directory and scans every receipt image dropped into it.
// With -persist the parsed result is stored as a transaction for the admin
// user, mirroring what the scan endpoint does for interactive uploads.
package main

import (
	"errors"
	"flag"
	"log"
	"os"
	"path/filepath"
	"time"

	"strukscan/models"
	"strukscan/pkg/receipt"
	"strukscan/process/watcher"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	dir := flag.String("dir", "inbox", "directory to watch for receipt images")
	persist := flag.Bool("persist", false, "store parsed receipts as transactions for the admin user")
	flag.Parse()

	pipe := receipt.NewPipeline(receipt.DefaultConfig())

	var gdb *gorm.DB
	var adminID uint
	if *persist {
		dsn := os.Getenv("DB_DSN")
		if dsn == "" {
			log.Fatal("DB_DSN must be set for -persist")
		}
		var err error
		gdb, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if err != nil {
			log.Fatalf("open db: %v", err)
		}
		var admin models.User
		if err := gdb.Where("username = ?", "admin").First(&admin).Error; err != nil {
			log.Fatalf("admin user not found: %v", err)
		}
		adminID = admin.ID
	}

	err := watcher.Watch(*dir, func(path string) error {
		rec, err := pipe.Scan(path)
		if err != nil {
			if errors.Is(err, receipt.ErrNoText) {
				log.Printf("%s: no usable text, skipping", filepath.Base(path))
				return nil
			}
			return err
		}
		log.Printf("%s: merchant=%q date=%s total=%d items=%d conf=%.2f",
			filepath.Base(path), rec.MerchantName, rec.Date, rec.Total, len(rec.Items), rec.Confidence)
		if gdb == nil {
			return nil
		}
		date, derr := time.Parse("2006-01-02", rec.Date)
		if derr != nil {
			date = time.Now()
		}
		tx := models.Transaction{
			UserID:       adminID,
			MerchantName: rec.MerchantName,
			Date:         date,
			Total:        rec.Total,
			Confidence:   rec.Confidence,
			RawText:      rec.RawText,
		}
		for _, it := range rec.Items {
			if it.Name == "" {
				continue
			}
			tx.Items = append(tx.Items, models.TransactionItem{Name: it.Name, Quantity: it.Quantity, Price: it.Price})
		}
		return gdb.Create(&tx).Error
	})
	if err != nil {
		log.Fatalf("watch failed: %v", err)
	}
}
