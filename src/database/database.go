package database

import (
	"database/sql"
	stdlog "log"

	"github.com/username/conciliador/backend/src/logger"
	_ "modernc.org/sqlite"
)

var DB *sql.DB

func InitDB(databasePath string) {
	db, err := sql.Open("sqlite", databasePath)
	if err != nil {
		stdlog.Fatalf("failed to open database at %s: %v", databasePath, err)
	}

	DB = db

	if logger.L != nil {
		logger.L.Info("Checking database migrations", "databasePath", databasePath)
	} else {
		stdlog.Println("Checking database migrations for:", databasePath)
	}
	migrateTransactionsTable()

	createTableStatement := `
	CREATE TABLE IF NOT EXISTS reconciliation_batches (
		id TEXT PRIMARY KEY,
		client_id TEXT NOT NULL,
		source TEXT NOT NULL,
		row_count INTEGER NOT NULL,
		error_count INTEGER NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS normalized_transactions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		batch_id TEXT NOT NULL,
		client_id TEXT NOT NULL,
		source TEXT NOT NULL,
		order_date TEXT NOT NULL,
		order_number TEXT NOT NULL,
		billing_type TEXT,
		payment_date TEXT NOT NULL,
		payment_origin TEXT,
		items_value REAL,
		delivery_fee REAL,
		service_fee REAL,
		gross_revenue REAL,
		ifood_promotions REAL,
		store_promotions REAL,
		ifood_commission REAL,
		transaction_commission REAL,
		weekly_plan_fee REAL,
		net_value REAL,
		hash_id TEXT,
		FOREIGN KEY(batch_id) REFERENCES reconciliation_batches(id),
		UNIQUE(client_id, hash_id)
	);

	CREATE INDEX IF NOT EXISTS idx_normalized_transactions_client
		ON normalized_transactions(client_id);
	`

	_, err = DB.Exec(createTableStatement)
	if err != nil {
		if logger.L != nil {
			logger.L.Error("failed to create tables", "error", err)
		}
		stdlog.Fatalf("failed to create tables: %v", err)
	}
	if logger.L != nil {
		logger.L.Info("Database tables ensured/created.")
	} else {
		stdlog.Println("Database tables ensured/created.")
	}
}

// migrateTransactionsTable adds columns introduced after the first release to
// an existing normalized_transactions table.
func migrateTransactionsTable() {
	var tableName string
	err := DB.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='normalized_transactions'").Scan(&tableName)
	if err != nil {
		if err == sql.ErrNoRows {
			if logger.L != nil {
				logger.L.Info("'normalized_transactions' table does not exist, no migration needed as table will be created.")
			} else {
				stdlog.Println("'normalized_transactions' table does not exist, no migration needed as table will be created.")
			}
			return
		}
		if logger.L != nil {
			logger.L.Error("Error checking for 'normalized_transactions' table", "error", err)
		} else {
			stdlog.Printf("Error checking for 'normalized_transactions' table: %v", err)
		}
		return
	}

	rows, err := DB.Query("PRAGMA table_info(normalized_transactions)")
	if err != nil {
		if logger.L != nil {
			logger.L.Error("Error querying table schema for 'normalized_transactions'", "error", err)
		} else {
			stdlog.Printf("Error querying table schema for 'normalized_transactions': %v", err)
		}
		return
	}
	defer rows.Close()

	columnExists := make(map[string]bool)
	for rows.Next() {
		var cid, pk int
		var name, dataType string
		var notnullVal int
		var dfltValue interface{}

		if err := rows.Scan(&cid, &name, &dataType, &notnullVal, &dfltValue, &pk); err != nil {
			if logger.L != nil {
				logger.L.Error("Error scanning column info for 'normalized_transactions'", "error", err)
			} else {
				stdlog.Printf("Error scanning column info for 'normalized_transactions': %v", err)
			}
			return
		}
		columnExists[name] = true
	}
	if err = rows.Err(); err != nil {
		if logger.L != nil {
			logger.L.Error("Error iterating over column info for 'normalized_transactions'", "error", err)
		} else {
			stdlog.Printf("Error iterating over column info for 'normalized_transactions': %v", err)
		}
		return
	}

	if _, ok := columnExists["weekly_plan_fee"]; !ok {
		_, err := DB.Exec("ALTER TABLE normalized_transactions ADD COLUMN weekly_plan_fee REAL")
		if err != nil {
			logger.L.Error("Error adding 'weekly_plan_fee' column to 'normalized_transactions' table", "error", err)
		} else {
			logger.L.Info("Added 'weekly_plan_fee' column to 'normalized_transactions' table")
		}
	}
	if _, ok := columnExists["transaction_commission"]; !ok {
		_, err := DB.Exec("ALTER TABLE normalized_transactions ADD COLUMN transaction_commission REAL")
		if err != nil {
			logger.L.Error("Error adding 'transaction_commission' column to 'normalized_transactions' table", "error", err)
		} else {
			logger.L.Info("Added 'transaction_commission' column to 'normalized_transactions' table")
		}
	}
	if _, ok := columnExists["payment_origin"]; !ok {
		_, err := DB.Exec("ALTER TABLE normalized_transactions ADD COLUMN payment_origin TEXT")
		if err != nil {
			logger.L.Error("Error adding 'payment_origin' column to 'normalized_transactions' table", "error", err)
		} else {
			logger.L.Info("Added 'payment_origin' column to 'normalized_transactions' table")
		}
	}
	if _, ok := columnExists["hash_id"]; !ok {
		_, err := DB.Exec("ALTER TABLE normalized_transactions ADD COLUMN hash_id TEXT")
		if err != nil {
			logger.L.Error("Error adding 'hash_id' column to 'normalized_transactions' table", "error", err)
		} else {
			logger.L.Info("Added 'hash_id' column to 'normalized_transactions' table")
		}
	}
}
