package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"pimflow/internal/domain"
	"pimflow/internal/port"
)

type productRepo struct {
	db *sqlx.DB
}

// NewProductRepo creates a new PostgreSQL-backed ProductRepository.
func NewProductRepo(db *sqlx.DB) port.ProductRepository {
	return &productRepo{db: db}
}

func (r *productRepo) BulkInsert(ctx context.Context, products []domain.Product) error {
	if len(products) == 0 {
		return nil
	}

	now := time.Now().UTC()
	for i := range products {
		products[i].CreatedAt = now
	}

	query := `INSERT INTO products
		(id, batch_id, supplier_sku, product_name, category, manufacturer,
		 quantity, price_usd, source_table, source_row, created_at)
		VALUES (:id, :batch_id, :supplier_sku, :product_name, :category, :manufacturer,
		 :quantity, :price_usd, :source_table, :source_row, :created_at)`

	if _, err := r.db.NamedExecContext(ctx, query, products); err != nil {
		return fmt.Errorf("productRepo.BulkInsert: %w", err)
	}
	return nil
}

func (r *productRepo) ListByBatch(ctx context.Context, batchID uuid.UUID) ([]domain.Product, error) {
	var products []domain.Product
	err := r.db.SelectContext(ctx, &products,
		"SELECT * FROM products WHERE batch_id = $1 ORDER BY source_table, source_row", batchID)
	if err != nil {
		return nil, fmt.Errorf("productRepo.ListByBatch: %w", err)
	}
	return products, nil
}
