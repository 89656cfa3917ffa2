package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"autopartes/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const productColumns = `
	id, codigo, marca, codigo_marca, nombre, categoria, subcategoria,
	precio, precio_mayorista, stock, descripcion, imagenes, popularidad,
	created_by, updated_by, created_at, updated_at`

// productRepository implements the ProductRepository interface using PostgreSQL.
type productRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(pool *pgxpool.Pool, logger zerolog.Logger) ProductRepository {
	return &productRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "product").Logger(),
	}
}

func scanProduct(row pgx.Row, p *model.Product) error {
	return row.Scan(
		&p.ID, &p.Codigo, &p.Marca, &p.CodigoMarca, &p.Nombre, &p.Categoria, &p.Subcategoria,
		&p.Precio, &p.PrecioMayorista, &p.Stock, &p.Descripcion, &p.Imagenes, &p.Popularidad,
		&p.CreatedBy, &p.UpdatedBy, &p.CreatedAt, &p.UpdatedAt,
	)
}

func (r *productRepository) collect(rows pgx.Rows) ([]model.Product, error) {
	defer rows.Close()

	products := []model.Product{}
	for rows.Next() {
		var p model.Product
		if err := scanProduct(rows, &p); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan product row")
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating product rows")
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// List returns products matching the filter ordered by name.
func (r *productRepository) List(ctx context.Context, filter model.ProductFilter) ([]model.Product, error) {
	var (
		where []string
		args  []any
	)
	if filter.Categoria != "" {
		args = append(args, filter.Categoria)
		where = append(where, fmt.Sprintf("LOWER(categoria) = LOWER($%d)", len(args)))
	}
	if filter.Marca != "" {
		args = append(args, filter.Marca)
		where = append(where, fmt.Sprintf("LOWER(marca) = LOWER($%d)", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+escapeLike(filter.Search)+"%")
		n := len(args)
		where = append(where, fmt.Sprintf(
			`(nombre ILIKE $%[1]d ESCAPE '\' OR codigo ILIKE $%[1]d ESCAPE '\' OR marca ILIKE $%[1]d ESCAPE '\'`+
				` OR codigo_marca ILIKE $%[1]d ESCAPE '\' OR descripcion ILIKE $%[1]d ESCAPE '\')`,
			n))
	}

	query := "SELECT " + productColumns + " FROM productos"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	// LIMIT NULL means no limit.
	var limit any
	if filter.Limit > 0 {
		limit = filter.Limit
	}
	args = append(args, limit, filter.Offset)
	query += fmt.Sprintf(" ORDER BY nombre LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error().Err(err).
			Str("categoria", filter.Categoria).
			Str("marca", filter.Marca).
			Str("search", filter.Search).
			Msg("failed to query products")
		return nil, fmt.Errorf("failed to query products: %w", err)
	}

	return r.collect(rows)
}

// Popular returns the n products with the highest popularidad.
func (r *productRepository) Popular(ctx context.Context, n int) ([]model.Product, error) {
	query := "SELECT " + productColumns + " FROM productos ORDER BY popularidad DESC, nombre LIMIT $1"

	rows, err := r.pool.Query(ctx, query, n)
	if err != nil {
		r.logger.Error().Err(err).Int("n", n).Msg("failed to query popular products")
		return nil, fmt.Errorf("failed to query popular products: %w", err)
	}

	return r.collect(rows)
}

// GetByID retrieves a single product by its ID.
func (r *productRepository) GetByID(ctx context.Context, id string) (*model.Product, error) {
	query := "SELECT " + productColumns + " FROM productos WHERE id = $1"

	var p model.Product
	err := scanProduct(r.pool.QueryRow(ctx, query, id), &p)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("product_id", id).Msg("product not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("product_id", id).Msg("failed to query product")
		return nil, fmt.Errorf("failed to query product: %w", err)
	}

	return &p, nil
}

// GetByIDs retrieves multiple products by their IDs.
func (r *productRepository) GetByIDs(ctx context.Context, ids []string) ([]model.Product, error) {
	if len(ids) == 0 {
		return []model.Product{}, nil
	}

	query := "SELECT " + productColumns + " FROM productos WHERE id = ANY($1) ORDER BY nombre"

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		r.logger.Error().Err(err).Int("count", len(ids)).Msg("failed to query products by IDs")
		return nil, fmt.Errorf("failed to query products by IDs: %w", err)
	}

	return r.collect(rows)
}

// Create inserts a new product.
func (r *productRepository) Create(ctx context.Context, p *model.Product) error {
	query := `
		INSERT INTO productos (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`

	_, err := r.pool.Exec(ctx, query,
		p.ID, p.Codigo, p.Marca, p.CodigoMarca, p.Nombre, p.Categoria, p.Subcategoria,
		p.Precio, p.PrecioMayorista, p.Stock, p.Descripcion, images(p.Imagenes), p.Popularidad,
		p.CreatedBy, p.UpdatedBy, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", p.ID).Msg("failed to create product")
		return fmt.Errorf("failed to create product: %w", err)
	}

	r.logger.Debug().Str("product_id", p.ID).Msg("product created successfully")
	return nil
}

// Update overwrites an existing product. Returns false when it does not exist.
func (r *productRepository) Update(ctx context.Context, p *model.Product) (bool, error) {
	query := `
		UPDATE productos SET
			codigo = $2, marca = $3, codigo_marca = $4, nombre = $5, categoria = $6,
			subcategoria = $7, precio = $8, precio_mayorista = $9, stock = $10,
			descripcion = $11, imagenes = $12, popularidad = $13, updated_by = $14,
			updated_at = $15
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query,
		p.ID, p.Codigo, p.Marca, p.CodigoMarca, p.Nombre, p.Categoria,
		p.Subcategoria, p.Precio, p.PrecioMayorista, p.Stock,
		p.Descripcion, images(p.Imagenes), p.Popularidad, p.UpdatedBy,
		p.UpdatedAt,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", p.ID).Msg("failed to update product")
		return false, fmt.Errorf("failed to update product: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

// Delete removes a product. Returns false when it does not exist.
func (r *productRepository) Delete(ctx context.Context, id string) (bool, error) {
	tag, err := r.pool.Exec(ctx, "DELETE FROM productos WHERE id = $1", id)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", id).Msg("failed to delete product")
		return false, fmt.Errorf("failed to delete product: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

// AddImage appends an image URL to the product.
func (r *productRepository) AddImage(ctx context.Context, id, url string) (bool, error) {
	query := `
		UPDATE productos
		SET imagenes = imagenes || jsonb_build_array($2::text), updated_at = NOW()
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query, id, url)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", id).Msg("failed to add product image")
		return false, fmt.Errorf("failed to add product image: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

// UpsertByCodigo inserts or updates products keyed by codigo in one batch.
// Existing rows keep their id, images, description and popularity.
func (r *productRepository) UpsertByCodigo(ctx context.Context, products []model.Product) error {
	if len(products) == 0 {
		return nil
	}

	query := `
		INSERT INTO productos (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		ON CONFLICT (codigo) DO UPDATE SET
			marca = EXCLUDED.marca,
			codigo_marca = EXCLUDED.codigo_marca,
			nombre = EXCLUDED.nombre,
			categoria = EXCLUDED.categoria,
			subcategoria = EXCLUDED.subcategoria,
			precio = EXCLUDED.precio,
			precio_mayorista = EXCLUDED.precio_mayorista,
			stock = EXCLUDED.stock,
			updated_by = EXCLUDED.updated_by,
			updated_at = EXCLUDED.updated_at
	`

	batch := &pgx.Batch{}
	for _, p := range products {
		batch.Queue(query,
			p.ID, p.Codigo, p.Marca, p.CodigoMarca, p.Nombre, p.Categoria, p.Subcategoria,
			p.Precio, p.PrecioMayorista, p.Stock, p.Descripcion, images(p.Imagenes), p.Popularidad,
			p.CreatedBy, p.UpdatedBy, p.CreatedAt, p.UpdatedAt,
		)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < len(products); i++ {
		if _, err := results.Exec(); err != nil {
			r.logger.Error().
				Err(err).
				Str("codigo", products[i].Codigo).
				Msg("failed to upsert product")
			return fmt.Errorf("failed to upsert product %s: %w", products[i].Codigo, err)
		}
	}

	r.logger.Debug().
		Int("count", len(products)).
		Msg("products upserted successfully")

	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// escapeLike makes a search term match literally inside an ILIKE pattern.
func escapeLike(term string) string {
	return likeEscaper.Replace(term)
}

// images keeps the JSONB column non-null.
func images(urls []string) []string {
	if urls == nil {
		return []string{}
	}
	return urls
}
