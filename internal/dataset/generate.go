package dataset

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/samber/mo"

	"github.com/Rana718/retailsim/internal/faker"
	"github.com/Rana718/retailsim/internal/reference"
	"github.com/Rana718/retailsim/internal/sampler"
	"github.com/Rana718/retailsim/internal/types"
)

type Options struct {
	Rows   int
	Seed   uint64
	Anchor time.Time
	Sizes  reference.Sizes
	// NewOrderProbability overrides sampler.DefaultNewOrderProbability.
	NewOrderProbability mo.Option[float64]
	// Progress, when set, is called every ProgressEvery rows and once at the end.
	Progress      func(done, total int)
	ProgressEvery int
}

// Result bundles the table with the reference data it was drawn from.
type Result struct {
	Table   *Table
	Catalog *reference.Catalog
	Orders  int
	// ActiveCustomers is the number of distinct customers with at least one order.
	ActiveCustomers int
}

// Generate builds the reference catalog once, then samples Rows order lines
// sequentially. The same options always give the same table.
func Generate(ctx context.Context, opts Options) (*Result, error) {
	if opts.Rows < 0 {
		return nil, fmt.Errorf("row count must not be negative, got %d", opts.Rows)
	}
	if opts.Anchor.IsZero() {
		return nil, errors.New("anchor date is required")
	}

	gen := faker.NewDataGenerator(opts.Seed, opts.Anchor)

	catalog, err := reference.Build(gen, opts.Sizes)
	if err != nil {
		return nil, fmt.Errorf("failed to build reference data: %w", err)
	}

	sampleOpts := sampler.Options{
		NewOrderProbability: opts.NewOrderProbability.OrElse(sampler.DefaultNewOrderProbability),
	}
	s, err := sampler.New(gen, catalog, sampleOpts)
	if err != nil {
		return nil, err
	}

	every := opts.ProgressEvery
	if every <= 0 {
		every = 1000
	}

	book := sampler.NewOrderBook()
	lines := make([]types.OrderLine, 0, opts.Rows)
	for i := 0; i < opts.Rows; i++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("generation interrupted after %d rows: %w", i, err)
		}

		line, err := s.Next(book)
		if err != nil {
			return nil, fmt.Errorf("failed to sample row %d: %w", i, err)
		}
		lines = append(lines, line)

		if opts.Progress != nil && (i+1)%every == 0 && i+1 != opts.Rows {
			opts.Progress(i+1, opts.Rows)
		}
	}
	if opts.Progress != nil {
		opts.Progress(opts.Rows, opts.Rows)
	}

	return &Result{
		Table:           NewTable(lines),
		Catalog:         catalog,
		Orders:          book.Orders(),
		ActiveCustomers: book.Customers(),
	}, nil
}
