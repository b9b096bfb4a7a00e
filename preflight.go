package pickyport

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq" // register postgres driver
	"github.com/pkg/errors"
)

// HealthChecker verifies a connection is reachable before any external
// tool is pointed at it. A bad host or password fails here instead of
// leaving a half-written dump behind.
type HealthChecker interface {
	Check(dbType string, conn Connection) error
}

// NewHealthChecker returns a checker that dials with the matching
// database driver and pings.
func NewHealthChecker() HealthChecker {
	return &driverHealthChecker{timeout: 10 * time.Second}
}

type driverHealthChecker struct {
	timeout time.Duration
}

func (h *driverHealthChecker) Check(dbType string, conn Connection) error {
	driver := "mysql"
	if dbType == DBTypePostgres {
		driver = "postgres"
	}

	db, err := sql.Open(driver, DSN(dbType, conn))
	if err != nil {
		return errors.Wrapf(err, "opening %s connection to %s", dbType, conn.Host)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()

	return pingConn(ctx, db, conn)
}

func pingConn(ctx context.Context, db *sql.DB, conn Connection) error {
	if err := db.PingContext(ctx); err != nil {
		return errors.Wrapf(err, "cannot reach %s", conn.Host)
	}
	return nil
}

// DSN builds the driver connection string for a connection. An empty
// database name targets the server itself (the maintenance database on
// postgres), which is what preflight needs before create_dest_db has
// run.
func DSN(dbType string, conn Connection) string {
	if dbType == DBTypePostgres {
		name := conn.Name
		if name == "" {
			name = "postgres"
		}
		dsn := fmt.Sprintf("host=%s port=%d dbname=%s sslmode=disable connect_timeout=10",
			conn.Host, conn.PortOrDefault(dbType), name)
		if conn.User != "" {
			dsn = fmt.Sprintf("%s user=%s", dsn, conn.User)
		}
		if conn.Password != "" {
			dsn = fmt.Sprintf("%s password=%s", dsn, conn.Password)
		}
		return dsn
	}

	cfg := mysqldriver.NewConfig()
	cfg.User = conn.User
	cfg.Passwd = conn.Password
	cfg.Net = "tcp"
	cfg.Addr = fmt.Sprintf("%s:%d", conn.Host, conn.PortOrDefault(dbType))
	cfg.DBName = conn.Name
	cfg.Timeout = 10 * time.Second
	return cfg.FormatDSN()
}
