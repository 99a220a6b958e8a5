// Package rescan re-runs the receipt pipeline over a directory of stored
// receipt images and updates the transactions linked to their uploads.
package rescan

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"strukscan/models"
	"strukscan/pkg/receipt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func mustDBFromEnv() *gorm.DB {
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		log.Fatal("DB_DSN not set in env")
	}
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	return gdb
}

var imageExts = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true,
}

// Run scans dir for receipt images, re-runs the pipeline and updates the
// transaction linked to each file's upload record. With dry true only the
// proposed changes are printed. Records below minConf are skipped.
func Run(dir string, dry bool, minConf float64) error {
	gdb := mustDBFromEnv()
	pipe := receipt.NewPipeline(receipt.DefaultConfig())

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read dir: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() || !imageExts[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		name := e.Name()
		full := filepath.Join(dir, name)
		rec, err := pipe.Scan(full)
		if err != nil {
			log.Printf("scan error %s: %v", name, err)
			continue
		}
		if rec.Confidence < minConf {
			log.Printf("scan skipped %s conf=%.2f (min=%.2f)", name, rec.Confidence, minConf)
			continue
		}

		var up models.Upload
		if err := gdb.Where("file_name = ?", name).First(&up).Error; err != nil {
			log.Printf("no upload found for %s: %v", name, err)
			continue
		}
		if up.TransactionID == nil {
			log.Printf("upload %s has no linked transaction, skipping", name)
			continue
		}
		var tx models.Transaction
		if err := gdb.First(&tx, *up.TransactionID).Error; err != nil {
			log.Printf("transaction %d missing for %s: %v", *up.TransactionID, name, err)
			continue
		}

		if dry {
			fmt.Printf("DRY: would update transaction id=%d file=%s old_total=%d new_total=%d conf=%.2f\n", tx.ID, name, tx.Total, rec.Total, rec.Confidence)
			continue
		}

		date, derr := time.Parse("2006-01-02", rec.Date)
		if derr != nil {
			date = time.Now()
		}
		tx.MerchantName = rec.MerchantName
		tx.Total = rec.Total
		tx.Date = date
		tx.Confidence = rec.Confidence
		tx.RawText = rec.RawText
		if err := gdb.Save(&tx).Error; err != nil {
			log.Printf("failed update transaction %s: %v", name, err)
			continue
		}
		// replace line items with the fresh parse
		if err := gdb.Where("transaction_id = ?", tx.ID).Delete(&models.TransactionItem{}).Error; err != nil {
			log.Printf("failed clearing items for %d: %v", tx.ID, err)
		} else {
			for _, it := range rec.Items {
				if it.Name == "" {
					continue
				}
				item := models.TransactionItem{TransactionID: tx.ID, Name: it.Name, Quantity: it.Quantity, Price: it.Price}
				if err := gdb.Create(&item).Error; err != nil {
					log.Printf("failed creating item for %d: %v", tx.ID, err)
				}
			}
		}
		fmt.Printf("updated transaction id=%d file=%s total=%d items=%d\n", tx.ID, name, rec.Total, len(rec.Items))

		if err := moveToProcessed(full, name); err != nil {
			log.Printf("WARN failed to move processed file %s: %v", name, err)
		}
	}
	return nil
}

// moveToProcessed moves a handled file to public/processed/<name>.
// It attempts an atomic rename and falls back to copy+remove when necessary.
func moveToProcessed(srcFullPath, name string) error {
	processedDir := filepath.Join("public", "processed")
	if err := os.MkdirAll(processedDir, 0o755); err != nil {
		return err
	}
	dst := filepath.Join(processedDir, name)
	if err := os.Rename(srcFullPath, dst); err == nil {
		return nil
	}
	in, err := os.Open(srcFullPath)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer func() {
		_ = out.Close()
	}()
	if _, err := io.Copy(out, in); err != nil {
		_ = os.Remove(dst)
		return err
	}
	_ = out.Sync()
	return os.Remove(srcFullPath)
}
