package postgres

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"hotelledger/backend/internal/domain"
	"hotelledger/backend/internal/store"
	"hotelledger/backend/internal/xid"
)

//go:embed schema.sql
var schema string

var (
	_ store.Repository = (*Store)(nil)
	_ store.Writer     = (*Store)(nil)
)

type Store struct {
	db *sql.DB
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, err
	}

	db.SetMaxIdleConns(8)
	db.SetMaxOpenConns(30)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 6*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Migrate creates the reporting tables when they do not exist yet.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

func (s *Store) ListOrders(ctx context.Context, departments []domain.Department, from time.Time, to time.Time) ([]domain.Order, error) {
	query := `
		SELECT id, department, status, payment_status,
			subtotal::float8, tax_amount::float8, discount_amount::float8, total_amount::float8, created_at
		FROM orders
		WHERE created_at >= $1 AND created_at < $2`
	args := []any{from, to}
	query, args = withDepartments(query, "department", args, departments)
	query += ` ORDER BY created_at, id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]domain.Order, 0, 128)
	for rows.Next() {
		var o domain.Order
		var dept string
		if err := rows.Scan(&o.ID, &dept, &o.Status, &o.PaymentStatus, &o.Subtotal, &o.TaxAmount, &o.DiscountAmount, &o.TotalAmount, &o.CreatedAt); err != nil {
			return nil, err
		}
		o.Department = domain.Department(dept)
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *Store) ListOrderLines(ctx context.Context, departments []domain.Department, from time.Time, to time.Time) ([]domain.OrderLine, error) {
	query := `
		SELECT l.order_id, l.menu_item_id, l.quantity::float8, l.unit_price::float8, l.total_price::float8
		FROM order_lines l
		JOIN orders o ON o.id = l.order_id
		WHERE o.created_at >= $1 AND o.created_at < $2`
	args := []any{from, to}
	query, args = withDepartments(query, "o.department", args, departments)
	query += ` ORDER BY o.created_at, o.id, l.id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lines := make([]domain.OrderLine, 0, 256)
	for rows.Next() {
		var line domain.OrderLine
		var menuItemID sql.NullString
		if err := rows.Scan(&line.OrderID, &menuItemID, &line.Quantity, &line.UnitPrice, &line.TotalPrice); err != nil {
			return nil, err
		}
		if menuItemID.Valid {
			id := menuItemID.String
			line.MenuItemID = &id
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

func (s *Store) ListMenuItems(ctx context.Context, departments []domain.Department) ([]domain.MenuItem, error) {
	query := `
		SELECT id, department, name, category, price::float8, ingredients
		FROM menu_items
		WHERE true`
	query, args := withDepartments(query, "department", nil, departments)
	query += ` ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]domain.MenuItem, 0, 64)
	for rows.Next() {
		var item domain.MenuItem
		var dept string
		var ingredientsRaw []byte
		if err := rows.Scan(&item.ID, &dept, &item.Name, &item.Category, &item.Price, &ingredientsRaw); err != nil {
			return nil, err
		}
		item.Department = domain.Department(dept)
		if len(ingredientsRaw) > 0 {
			if err := json.Unmarshal(ingredientsRaw, &item.Ingredients); err != nil {
				return nil, fmt.Errorf("menu item %s ingredients: %w", item.ID, err)
			}
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) ListInventory(ctx context.Context, departments []domain.Department) ([]domain.InventoryItem, error) {
	query := `
		SELECT id, department, name, category, unit, cost_price::float8, current_stock::float8, min_stock_level::float8
		FROM inventory_items
		WHERE true`
	query, args := withDepartments(query, "department", nil, departments)
	query += ` ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]domain.InventoryItem, 0, 64)
	for rows.Next() {
		var item domain.InventoryItem
		var dept string
		if err := rows.Scan(&item.ID, &dept, &item.Name, &item.Category, &item.Unit, &item.CostPrice, &item.CurrentStock, &item.MinStockLevel); err != nil {
			return nil, err
		}
		item.Department = domain.Department(dept)
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) CreateOrder(ctx context.Context, order domain.Order, lines []domain.OrderLine) (*domain.Order, error) {
	if err := store.ValidateOrder(order, lines); err != nil {
		return nil, err
	}
	if order.ID == "" {
		order.ID = xid.New(string(order.Department))
	}

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (id, department, status, payment_status, subtotal, tax_amount, discount_amount, total_amount, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`, order.ID, string(order.Department), order.Status, order.PaymentStatus,
		order.Subtotal, order.TaxAmount, order.DiscountAmount, order.TotalAmount, order.CreatedAt.UTC())
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrInvalidInput
		}
		return nil, err
	}

	for _, line := range lines {
		var menuItemID any
		if line.MenuItemID != nil {
			menuItemID = *line.MenuItemID
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO order_lines (order_id, menu_item_id, quantity, unit_price, total_price)
			VALUES ($1,$2,$3,$4,$5)
		`, order.ID, menuItemID, line.Quantity, line.UnitPrice, line.TotalPrice); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	created := order
	return &created, nil
}

func (s *Store) UpsertMenuItem(ctx context.Context, item domain.MenuItem) error {
	if err := store.ValidateMenuItem(item); err != nil {
		return err
	}
	ingredients := item.Ingredients
	if ingredients == nil {
		ingredients = []domain.RecipeIngredient{}
	}
	ingredientsJSON, err := json.Marshal(ingredients)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO menu_items (id, department, name, category, price, ingredients, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,now())
		ON CONFLICT (id)
		DO UPDATE SET department = EXCLUDED.department, name = EXCLUDED.name, category = EXCLUDED.category,
			price = EXCLUDED.price, ingredients = EXCLUDED.ingredients, updated_at = now()
	`, item.ID, string(item.Department), item.Name, item.Category, item.Price, ingredientsJSON)
	return err
}

func (s *Store) UpsertInventoryItem(ctx context.Context, item domain.InventoryItem) error {
	if err := store.ValidateInventoryItem(item); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO inventory_items (id, department, name, category, unit, cost_price, current_stock, min_stock_level, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,now())
		ON CONFLICT (id)
		DO UPDATE SET department = EXCLUDED.department, name = EXCLUDED.name, category = EXCLUDED.category,
			unit = EXCLUDED.unit, cost_price = EXCLUDED.cost_price, current_stock = EXCLUDED.current_stock,
			min_stock_level = EXCLUDED.min_stock_level, updated_at = now()
	`, item.ID, string(item.Department), item.Name, item.Category, item.Unit, item.CostPrice, item.CurrentStock, item.MinStockLevel)
	return err
}

// withDepartments appends a department = ANY($n) filter. No departments means
// no filter.
func withDepartments(query string, column string, args []any, departments []domain.Department) (string, []any) {
	if len(departments) == 0 {
		return query, args
	}
	names := make([]string, 0, len(departments))
	for _, d := range departments {
		names = append(names, string(d))
	}
	args = append(args, names)
	return fmt.Sprintf("%s AND %s = ANY($%d)", query, column, len(args)), args
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
