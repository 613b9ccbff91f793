// Package fixtures holds the sample catalog and client registry both stores
// are seeded with. Ids are fixed so seeding is repeatable.
package fixtures

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/declaramei/express-api/internal/domain/entity"
)

func strPtr(s string) *string {
	return &s
}

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// Products returns the seeded stocked items
func Products() []entity.Product {
	return []entity.Product{
		{ID: uuid.MustParse("6c0d9a7e-1f0b-4c52-9a53-3c7c1f6a0001"), SKU: "BOL-POTE-001", Name: "Bolo de pote - Chocolate", Price: price("12.00"), Stock: 30, StockAlert: 5},
		{ID: uuid.MustParse("6c0d9a7e-1f0b-4c52-9a53-3c7c1f6a0002"), SKU: "BRG-TRAD-001", Name: "Brigadeiro tradicional", Price: price("2.50"), Stock: 120, StockAlert: 20},
		{ID: uuid.MustParse("6c0d9a7e-1f0b-4c52-9a53-3c7c1f6a0003"), SKU: "CXN-FRAN-001", Name: "Coxinha de frango", Price: price("6.00"), Stock: 40, StockAlert: 10},
		{ID: uuid.MustParse("6c0d9a7e-1f0b-4c52-9a53-3c7c1f6a0004"), SKU: "CAF-GRAO-250", Name: "Cafe em graos 250g", Price: price("25.00"), Stock: 15, StockAlert: 3},
		{ID: uuid.MustParse("6c0d9a7e-1f0b-4c52-9a53-3c7c1f6a0005"), SKU: "SAB-ART-001", Name: "Sabonete artesanal", Price: price("9.90"), Stock: 4, StockAlert: 5},
		{ID: uuid.MustParse("6c0d9a7e-1f0b-4c52-9a53-3c7c1f6a0006"), SKU: "AGU-MIN-500", Name: "Agua mineral 500ml", Price: price("3.00"), Stock: 48, StockAlert: 12},
	}
}

// Services returns the seeded non-stocked offerings
func Services() []entity.Service {
	return []entity.Service{
		{ID: uuid.MustParse("9b4e2d1c-7a3f-4e8b-8c21-5d6f7a8b0001"), Name: "Corte de cabelo", Description: strPtr("Corte masculino ou feminino"), Price: price("35.00")},
		{ID: uuid.MustParse("9b4e2d1c-7a3f-4e8b-8c21-5d6f7a8b0002"), Name: "Manicure", Price: price("25.00")},
		{ID: uuid.MustParse("9b4e2d1c-7a3f-4e8b-8c21-5d6f7a8b0003"), Name: "Conserto de celular", Description: strPtr("Diagnostico e mao de obra"), Price: price("80.00")},
		{ID: uuid.MustParse("9b4e2d1c-7a3f-4e8b-8c21-5d6f7a8b0004"), Name: "Entrega local", Price: price("8.00")},
	}
}

// Customers returns the seeded client registry
func Customers() []entity.Customer {
	return []entity.Customer{
		{ID: uuid.MustParse("2f8a6b4d-3c1e-4a9f-b7d2-1e0c9f8a0001"), Name: "Ana Souza", Document: strPtr("123.456.789-09"), Phone: strPtr("(11) 98765-4321"), Email: strPtr("ana.souza@example.com")},
		{ID: uuid.MustParse("2f8a6b4d-3c1e-4a9f-b7d2-1e0c9f8a0002"), Name: "Joao Pereira", Document: strPtr("987.654.321-00"), Phone: strPtr("(21) 99876-5432")},
		{ID: uuid.MustParse("2f8a6b4d-3c1e-4a9f-b7d2-1e0c9f8a0003"), Name: "Padaria Estrela LTDA", Document: strPtr("12.345.678/0001-95"), Email: strPtr("compras@padariaestrela.com.br"), Address: strPtr("Rua das Flores, 120 - Sao Paulo/SP")},
	}
}
