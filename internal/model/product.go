package model

import (
	"strings"
	"time"
)

// DefaultWholesaleFactor derives the wholesale price when a product has none.
const DefaultWholesaleFactor = 0.85

// Product represents an auto part in the catalogue (collection "productos").
type Product struct {
	ID              string    `json:"id" db:"id"`
	Codigo          string    `json:"codigo" db:"codigo"`
	Marca           string    `json:"marca" db:"marca"`
	CodigoMarca     string    `json:"codigoMarca" db:"codigo_marca"`
	Nombre          string    `json:"nombre" db:"nombre"`
	Categoria       string    `json:"categoria" db:"categoria"`
	Subcategoria    string    `json:"subcategoria" db:"subcategoria"`
	Precio          float64   `json:"precio" db:"precio"`
	PrecioMayorista *float64  `json:"precioMayorista,omitempty" db:"precio_mayorista"`
	Stock           int       `json:"stock" db:"stock"`
	Descripcion     string    `json:"descripcion" db:"descripcion"`
	Imagenes        []string  `json:"imagenes" db:"imagenes"`
	Popularidad     int       `json:"popularidad" db:"popularidad"`
	CreatedBy       string    `json:"createdBy,omitempty" db:"created_by"`
	UpdatedBy       string    `json:"updatedBy,omitempty" db:"updated_by"`
	CreatedAt       time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time `json:"updatedAt" db:"updated_at"`
}

// WholesalePrice returns the explicit wholesale price, or 85% of retail.
func (p *Product) WholesalePrice() float64 {
	if p.PrecioMayorista != nil && *p.PrecioMayorista > 0 {
		return *p.PrecioMayorista
	}
	return p.Precio * DefaultWholesaleFactor
}

// MainImage returns the first image URL or an empty string.
func (p *Product) MainImage() string {
	if len(p.Imagenes) == 0 {
		return ""
	}
	return p.Imagenes[0]
}

// ProductRequest is the payload accepted by the admin catalogue endpoints.
type ProductRequest struct {
	Codigo          string   `json:"codigo"`
	Marca           string   `json:"marca"`
	CodigoMarca     string   `json:"codigoMarca"`
	Nombre          string   `json:"nombre"`
	Categoria       string   `json:"categoria"`
	Subcategoria    string   `json:"subcategoria"`
	Precio          float64  `json:"precio"`
	PrecioMayorista *float64 `json:"precioMayorista,omitempty"`
	Stock           int      `json:"stock"`
	Descripcion     string   `json:"descripcion"`
	Imagenes        []string `json:"imagenes"`
	Popularidad     int      `json:"popularidad"`
}

// Validate checks the fields the catalogue form requires.
func (r *ProductRequest) Validate() error {
	switch {
	case strings.TrimSpace(r.Codigo) == "":
		return ValidationError("el código es obligatorio")
	case strings.TrimSpace(r.Nombre) == "":
		return ValidationError("el nombre es obligatorio")
	case strings.TrimSpace(r.Marca) == "":
		return ValidationError("la marca es obligatoria")
	case strings.TrimSpace(r.Categoria) == "":
		return ValidationError("la categoría es obligatoria")
	case r.Precio <= 0:
		return ValidationError("el precio debe ser mayor que cero")
	case r.PrecioMayorista != nil && *r.PrecioMayorista < 0:
		return ValidationError("el precio mayorista no puede ser negativo")
	case r.Stock < 0:
		return ValidationError("el stock no puede ser negativo")
	}
	return nil
}

// Apply copies the request fields onto p.
func (r *ProductRequest) Apply(p *Product) {
	p.Codigo = strings.TrimSpace(r.Codigo)
	p.Marca = strings.TrimSpace(r.Marca)
	p.CodigoMarca = strings.TrimSpace(r.CodigoMarca)
	p.Nombre = strings.TrimSpace(r.Nombre)
	p.Categoria = strings.TrimSpace(r.Categoria)
	p.Subcategoria = strings.TrimSpace(r.Subcategoria)
	p.Precio = r.Precio
	p.PrecioMayorista = r.PrecioMayorista
	p.Stock = r.Stock
	p.Descripcion = r.Descripcion
	if r.Imagenes != nil {
		p.Imagenes = r.Imagenes
	}
	p.Popularidad = r.Popularidad
}

// ProductFilter narrows a catalogue listing. Empty fields are ignored.
type ProductFilter struct {
	Categoria string
	Marca     string
	Search    string
	Limit     int
	Offset    int
}

// ImportRequest names the catalogue feeds to load from object storage.
type ImportRequest struct {
	Keys []string `json:"keys"`
}
