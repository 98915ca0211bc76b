package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"server/internal/coupon"
	"server/internal/domain"
	"server/internal/infra"
)

// coupongen mints single-use coupon codes. With DATABASE_URL set the codes
// are stored as available; otherwise they are only printed, which is handy
// for seeding a local in-memory run.
func main() {
	var count int
	flag.IntVar(&count, "n", 1, "number of coupon codes to generate")
	flag.Parse()

	if count <= 0 {
		fmt.Fprintln(os.Stderr, "-n must be positive")
		os.Exit(1)
	}

	_ = godotenv.Load()
	logger := infra.Logger(zerolog.New(io.Discard))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var repo domain.CouponRepository
	dbURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if dbURL != "" {
		cfg := &infra.Config{DatabaseURL: dbURL}
		pool, err := infra.NewDBPool(ctx, cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "connect database: %v\n", err)
			os.Exit(1)
		}
		defer pool.Close()
		repo = coupon.NewPostgresRepository(infra.NewSQLRunner(pool, logger))
	} else {
		repo = coupon.NewMemoryRepository()
	}

	svc := coupon.NewService(repo, &logger)
	coupons, err := svc.Generate(ctx, count)
	if err != nil {
		fmt.Fprintf(os.Stderr, "generate coupons: %v\n", err)
		os.Exit(1)
	}

	for _, c := range coupons {
		fmt.Println(c.Code)
	}
	if dbURL == "" {
		fmt.Fprintln(os.Stderr, "DATABASE_URL not set; codes were not persisted")
	}
}
